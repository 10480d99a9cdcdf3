package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"todoist-mcp/internal/todoist"
)

// CreateTaskTool handles the create_task MCP tool.
type CreateTaskTool struct {
	client *todoist.Client
}

// NewCreateTaskTool creates a CreateTaskTool bound to the given client.
func NewCreateTaskTool(client *todoist.Client) *CreateTaskTool {
	return &CreateTaskTool{client: client}
}

// Definition returns the MCP tool definition for registration.
func (t *CreateTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("create_task",
		mcp.WithDescription("Create a new task in Todoist."),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("Task content/title"),
		),
		mcp.WithString("project_id",
			mcp.Description("Project ID to create the task in"),
		),
		mcp.WithString("description",
			mcp.Description("Task description"),
		),
		mcp.WithArray("labels",
			mcp.Description("List of label names"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithNumber("priority",
			mcp.Description("Priority from 1 (normal) to 4 (urgent)"),
			mcp.DefaultNumber(1),
			mcp.Min(1),
			mcp.Max(4),
		),
		mcp.WithString("due_string",
			mcp.Description("Due date in natural language, e.g. 'tomorrow', 'next Monday'"),
		),
	)
}

// Handle processes the create_task tool call.
func (t *CreateTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content := req.GetString("content", "")
	if content == "" {
		return mcp.NewToolResultError("'content' is required"), nil
	}

	priority := req.GetInt("priority", 1)
	if !validPriority(priority) {
		return mcp.NewToolResultError("'priority' must be between 1 and 4"), nil
	}

	task, err := t.client.CreateTask(ctx, todoist.CreateTaskParams{
		Content:     content,
		ProjectID:   req.GetString("project_id", ""),
		Description: req.GetString("description", ""),
		Labels:      req.GetStringSlice("labels", nil),
		Priority:    priority,
		DueString:   req.GetString("due_string", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(task), nil
}
