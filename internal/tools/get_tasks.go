package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"todoist-mcp/internal/todoist"
)

// GetTasksTool handles the get_tasks MCP tool.
//
// A project_id is resolved to the project's name and conjoined with any
// free-form filter using Todoist's "&" operator. The limit is applied
// after the fetch; the REST API has no limit pushdown.
type GetTasksTool struct {
	client *todoist.Client
}

// NewGetTasksTool creates a GetTasksTool bound to the given client.
func NewGetTasksTool(client *todoist.Client) *GetTasksTool {
	return &GetTasksTool{client: client}
}

// Definition returns the MCP tool definition for registration.
func (t *GetTasksTool) Definition() mcp.Tool {
	return mcp.NewTool("get_tasks",
		mcp.WithDescription("Get tasks from Todoist with optional filtering by project and filter query."),
		mcp.WithString("project_id",
			mcp.Description("Filter by project ID"),
		),
		mcp.WithString("filter",
			mcp.Description("Todoist filter query, e.g. 'today', 'overdue', 'p1'"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of tasks to return"),
			mcp.DefaultNumber(50),
			mcp.Min(1),
			mcp.Max(100),
		),
	)
}

// Handle processes the get_tasks tool call.
func (t *GetTasksTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID := req.GetString("project_id", "")
	filter := req.GetString("filter", "")
	limit := clampLimit(req.GetInt("limit", 50))

	var parts []string
	if projectID != "" {
		projects, err := t.client.ListProjects(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		for _, p := range projects {
			if p.ID == projectID {
				parts = append(parts, "#"+p.Name)
				break
			}
		}
	}
	if filter != "" {
		parts = append(parts, filter)
	}

	tasks, err := t.client.ListTasks(ctx, strings.Join(parts, " & "))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(tasks) > limit {
		tasks = tasks[:limit]
	}

	return jsonResult(map[string]any{
		"count": len(tasks),
		"tasks": tasks,
	}), nil
}
