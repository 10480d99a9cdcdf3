package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"todoist-mcp/internal/todoist"
)

// ListProjectsTool handles the list_projects MCP tool.
type ListProjectsTool struct {
	client *todoist.Client
}

// NewListProjectsTool creates a ListProjectsTool bound to the given
// Todoist client.
func NewListProjectsTool(client *todoist.Client) *ListProjectsTool {
	return &ListProjectsTool{client: client}
}

// Definition returns the MCP tool definition for registration.
func (t *ListProjectsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_projects",
		mcp.WithDescription("Get all Todoist projects with their IDs, names, colors and favorite flags."),
	)
}

// Handle processes the list_projects tool call.
func (t *ListProjectsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projects, err := t.client.ListProjects(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"count":    len(projects),
		"projects": projects,
	}), nil
}
