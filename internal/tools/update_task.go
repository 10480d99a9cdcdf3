package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"todoist-mcp/internal/todoist"
)

// UpdateTaskTool handles the update_task MCP tool.
//
// The upstream update reports success only, so the handler re-fetches
// the task by id to return its post-update state. The extra round trip
// is accepted; a failed re-fetch degrades to a plain confirmation.
type UpdateTaskTool struct {
	client *todoist.Client
}

// NewUpdateTaskTool creates an UpdateTaskTool bound to the given client.
func NewUpdateTaskTool(client *todoist.Client) *UpdateTaskTool {
	return &UpdateTaskTool{client: client}
}

// Definition returns the MCP tool definition for registration.
func (t *UpdateTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("update_task",
		mcp.WithDescription("Update an existing task. Fields not provided are left unchanged."),
		mcp.WithString("task_id",
			mcp.Required(),
			mcp.Description("ID of the task to update"),
		),
		mcp.WithString("content",
			mcp.Description("New task content/title"),
		),
		mcp.WithString("description",
			mcp.Description("New task description"),
		),
		mcp.WithArray("labels",
			mcp.Description("New list of label names"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithNumber("priority",
			mcp.Description("New priority from 1 (normal) to 4 (urgent)"),
			mcp.Min(1),
			mcp.Max(4),
		),
		mcp.WithString("due_string",
			mcp.Description("New due date in natural language"),
		),
	)
}

// Handle processes the update_task tool call.
func (t *UpdateTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskID, err := req.RequireString("task_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	priority := req.GetInt("priority", 0)
	if priority != 0 && !validPriority(priority) {
		return mcp.NewToolResultError("'priority' must be between 1 and 4"), nil
	}

	params := todoist.UpdateTaskParams{
		Content:     req.GetString("content", ""),
		Description: req.GetString("description", ""),
		Labels:      req.GetStringSlice("labels", nil),
		Priority:    priority,
		DueString:   req.GetString("due_string", ""),
	}
	if params.IsZero() {
		return mcp.NewToolResultError("no updates provided"), nil
	}

	if err := t.client.UpdateTask(ctx, taskID, params); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	task, err := t.client.GetTask(ctx, taskID)
	if err != nil {
		return jsonResult(map[string]any{
			"message": fmt.Sprintf("Task %s updated successfully", taskID),
		}), nil
	}
	return jsonResult(task), nil
}
