// Package todoist implements a minimal client for the Todoist REST v2
// API: the task and project operations the bridge exposes as tools.
//
// Every method performs one upstream call and returns an explicit
// error; nothing is cached, since a stale task list would contradict
// the user's own last write.
package todoist

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultBaseURL is the production Todoist REST v2 endpoint.
const DefaultBaseURL = "https://api.todoist.com/rest/v2"

// Client is a per-user Todoist API client bound to one token.
type Client struct {
	rc *resty.Client
}

// New creates a client for the given API token against the production
// endpoint.
func New(token string) *Client {
	return NewWithBaseURL(token, DefaultBaseURL)
}

// NewWithBaseURL creates a client against an alternate endpoint. Used
// by tests to point at a stub server.
func NewWithBaseURL(token, baseURL string) *Client {
	rc := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(token).
		SetHeader("Content-Type", "application/json").
		SetTimeout(30 * time.Second)
	return &Client{rc: rc}
}

// ListTasks returns active tasks, optionally narrowed by a Todoist
// filter query.
func (c *Client) ListTasks(ctx context.Context, filter string) ([]Task, error) {
	var tasks []Task
	req := c.rc.R().SetContext(ctx).SetResult(&tasks)
	if filter != "" {
		req.SetQueryParam("filter", filter)
	}
	resp, err := req.Get("/tasks")
	if err != nil {
		return nil, fmt.Errorf("todoist: list tasks: %w", err)
	}
	if resp.IsError() {
		return nil, apiError("list tasks", resp)
	}
	return tasks, nil
}

// GetTask returns one task by id.
func (c *Client) GetTask(ctx context.Context, taskID string) (*Task, error) {
	var task Task
	resp, err := c.rc.R().SetContext(ctx).SetResult(&task).
		Get("/tasks/" + taskID)
	if err != nil {
		return nil, fmt.Errorf("todoist: get task: %w", err)
	}
	if resp.IsError() {
		return nil, apiError("get task", resp)
	}
	return &task, nil
}

// CreateTask creates a task and returns its canonical representation.
func (c *Client) CreateTask(ctx context.Context, p CreateTaskParams) (*Task, error) {
	var task Task
	resp, err := c.rc.R().SetContext(ctx).SetBody(p).SetResult(&task).
		Post("/tasks")
	if err != nil {
		return nil, fmt.Errorf("todoist: create task: %w", err)
	}
	if resp.IsError() {
		return nil, apiError("create task", resp)
	}
	return &task, nil
}

// UpdateTask applies a partial update. It reports success only; callers
// that need the post-update state re-fetch the task by id.
func (c *Client) UpdateTask(ctx context.Context, taskID string, p UpdateTaskParams) error {
	resp, err := c.rc.R().SetContext(ctx).SetBody(p).
		Post("/tasks/" + taskID)
	if err != nil {
		return fmt.Errorf("todoist: update task: %w", err)
	}
	if resp.IsError() {
		return apiError("update task", resp)
	}
	return nil
}

// CloseTask marks a task completed. Whether closing an already-closed
// task succeeds is up to Todoist.
func (c *Client) CloseTask(ctx context.Context, taskID string) error {
	resp, err := c.rc.R().SetContext(ctx).Post("/tasks/" + taskID + "/close")
	if err != nil {
		return fmt.Errorf("todoist: close task: %w", err)
	}
	if resp.IsError() {
		return apiError("close task", resp)
	}
	return nil
}

// ReopenTask marks a completed task active again.
func (c *Client) ReopenTask(ctx context.Context, taskID string) error {
	resp, err := c.rc.R().SetContext(ctx).Post("/tasks/" + taskID + "/reopen")
	if err != nil {
		return fmt.Errorf("todoist: reopen task: %w", err)
	}
	if resp.IsError() {
		return apiError("reopen task", resp)
	}
	return nil
}

// ListProjects returns all projects.
func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	var projects []Project
	resp, err := c.rc.R().SetContext(ctx).SetResult(&projects).
		Get("/projects")
	if err != nil {
		return nil, fmt.Errorf("todoist: list projects: %w", err)
	}
	if resp.IsError() {
		return nil, apiError("list projects", resp)
	}
	return projects, nil
}

func apiError(op string, resp *resty.Response) error {
	return fmt.Errorf("todoist: %s: upstream returned %s", op, resp.Status())
}
