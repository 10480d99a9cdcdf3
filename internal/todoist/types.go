package todoist

// Task is a Todoist task as returned by the REST v2 API.
type Task struct {
	ID          string   `json:"id"`
	Content     string   `json:"content"`
	Description string   `json:"description,omitempty"`
	ProjectID   string   `json:"project_id,omitempty"`
	SectionID   string   `json:"section_id,omitempty"`
	Labels      []string `json:"labels,omitempty"`
	Priority    int      `json:"priority,omitempty"`
	Due         *Due     `json:"due,omitempty"`
	URL         string   `json:"url,omitempty"`
	IsCompleted bool     `json:"is_completed"`
}

// Due is a task's due date in Todoist's natural-language form.
type Due struct {
	String      string `json:"string"`
	Date        string `json:"date"`
	Datetime    string `json:"datetime,omitempty"`
	IsRecurring bool   `json:"is_recurring"`
}

// Project is a Todoist project.
type Project struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Color      string `json:"color,omitempty"`
	IsFavorite bool   `json:"is_favorite"`
}

// CreateTaskParams holds the fields for creating a task. Content is
// mandatory; zero-valued optional fields are omitted from the request.
type CreateTaskParams struct {
	Content     string   `json:"content"`
	ProjectID   string   `json:"project_id,omitempty"`
	Description string   `json:"description,omitempty"`
	Labels      []string `json:"labels,omitempty"`
	Priority    int      `json:"priority,omitempty"`
	DueString   string   `json:"due_string,omitempty"`
}

// UpdateTaskParams holds the fields for a partial task update. Absent
// fields leave the upstream values unchanged.
type UpdateTaskParams struct {
	Content     string   `json:"content,omitempty"`
	Description string   `json:"description,omitempty"`
	Labels      []string `json:"labels,omitempty"`
	Priority    int      `json:"priority,omitempty"`
	DueString   string   `json:"due_string,omitempty"`
}

// IsZero reports whether the update carries no changes.
func (p UpdateTaskParams) IsZero() bool {
	return p.Content == "" && p.Description == "" && len(p.Labels) == 0 &&
		p.Priority == 0 && p.DueString == ""
}
