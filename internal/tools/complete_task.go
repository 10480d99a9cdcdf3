package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"todoist-mcp/internal/todoist"
)

// CompleteTaskTool handles the complete_task MCP tool.
//
// Completing an already-completed task behaves however Todoist defines
// it; no idempotency layer is added here.
type CompleteTaskTool struct {
	client *todoist.Client
}

// NewCompleteTaskTool creates a CompleteTaskTool bound to the given
// client.
func NewCompleteTaskTool(client *todoist.Client) *CompleteTaskTool {
	return &CompleteTaskTool{client: client}
}

// Definition returns the MCP tool definition for registration.
func (t *CompleteTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("complete_task",
		mcp.WithDescription("Mark a task as completed."),
		mcp.WithString("task_id",
			mcp.Required(),
			mcp.Description("ID of the task to complete"),
		),
	)
}

// Handle processes the complete_task tool call.
func (t *CompleteTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskID, err := req.RequireString("task_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := t.client.CloseTask(ctx, taskID); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"message": fmt.Sprintf("Task %s marked as completed", taskID),
	}), nil
}

// UncompleteTaskTool handles the uncomplete_task MCP tool.
type UncompleteTaskTool struct {
	client *todoist.Client
}

// NewUncompleteTaskTool creates an UncompleteTaskTool bound to the
// given client.
func NewUncompleteTaskTool(client *todoist.Client) *UncompleteTaskTool {
	return &UncompleteTaskTool{client: client}
}

// Definition returns the MCP tool definition for registration.
func (t *UncompleteTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("uncomplete_task",
		mcp.WithDescription("Mark a completed task as active again."),
		mcp.WithString("task_id",
			mcp.Required(),
			mcp.Description("ID of the task to uncomplete"),
		),
	)
}

// Handle processes the uncomplete_task tool call.
func (t *UncompleteTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskID, err := req.RequireString("task_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := t.client.ReopenTask(ctx, taskID); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"message": fmt.Sprintf("Task %s marked as active", taskID),
	}), nil
}
