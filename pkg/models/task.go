package models

import "encoding/json"

// TaskStatus is the board column a task belongs to. Every task has exactly
// one status, so the four columns partition the board.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "TODO"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusReview     TaskStatus = "REVIEW"
	StatusDone       TaskStatus = "DONE"
)

// Statuses lists the board columns in display order.
var Statuses = []TaskStatus{StatusTodo, StatusInProgress, StatusReview, StatusDone}

// Valid reports whether s is one of the four board statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusReview, StatusDone:
		return true
	}
	return false
}

// Label returns the human-readable column title for a status.
func (s TaskStatus) Label() string {
	switch s {
	case StatusTodo:
		return "To Do"
	case StatusInProgress:
		return "In Progress"
	case StatusReview:
		return "Review"
	case StatusDone:
		return "Done"
	}
	return string(s)
}

// TaskPriority is the urgency level of a task.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
)

// Priorities lists the priority levels in ascending order.
var Priorities = []TaskPriority{PriorityLow, PriorityMedium, PriorityHigh}

// Valid reports whether p is a known priority.
func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// SubTask is a checklist entry owned by a single task. Its id is generated
// client-side and is only meaningful within the parent's list.
type SubTask struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// UserRef is a task participant. The backend returns it either as a bare
// object id string or as a populated user object.
type UserRef struct {
	ID      string
	Name    string
	Email   string
	Picture string
}

type userRefObject struct {
	ID      string `json:"_id"`
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Picture string `json:"picture,omitempty"`
}

// UnmarshalJSON accepts both wire forms of a participant reference.
func (r *UserRef) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = UserRef{ID: id}
		return nil
	}
	var o userRefObject
	if err := json.Unmarshal(data, &o); err != nil {
		return err
	}
	*r = UserRef{ID: o.ID, Name: o.Name, Email: o.Email, Picture: o.Picture}
	return nil
}

// MarshalJSON emits the bare id form when only an id is known, otherwise the
// object form.
func (r UserRef) MarshalJSON() ([]byte, error) {
	if r.Name == "" && r.Email == "" && r.Picture == "" {
		return json.Marshal(r.ID)
	}
	return json.Marshal(userRefObject{ID: r.ID, Name: r.Name, Email: r.Email, Picture: r.Picture})
}

// DisplayName returns the participant's name, falling back to the raw id and
// then to fallback when nothing is known.
func (r *UserRef) DisplayName(fallback string) string {
	if r == nil {
		return fallback
	}
	if r.Name != "" {
		return r.Name
	}
	if r.ID != "" {
		return r.ID
	}
	return fallback
}

// Task is a card on the board.
type Task struct {
	ID          string       `json:"_id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	AssignedTo  *UserRef     `json:"assignedTo,omitempty"`
	CreatedBy   *UserRef     `json:"createdBy,omitempty"`
	DueDate     string       `json:"dueDate,omitempty"`
	Tags        []string     `json:"tags,omitempty"`
	Subtasks    []SubTask    `json:"subtasks,omitempty"`
	CreatedAt   string       `json:"createdAt,omitempty"`
	UpdatedAt   string       `json:"updatedAt,omitempty"`
}

// AssigneeName returns the display name of the assignee, or "" when the task
// is unassigned.
func (t *Task) AssigneeName() string {
	if t.AssignedTo == nil {
		return ""
	}
	return t.AssignedTo.DisplayName("")
}

// TaskCreate is the payload for creating a task.
type TaskCreate struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	AssignedTo  string       `json:"assignedTo,omitempty"`
	DueDate     string       `json:"dueDate"`
	Tags        []string     `json:"tags,omitempty"`
	Subtasks    []SubTask    `json:"subtasks,omitempty"`
}

// TaskUpdate is a partial update; nil fields are left untouched by the
// backend. Subtasks and Tags replace the whole list when non-nil.
type TaskUpdate struct {
	Title       *string       `json:"title,omitempty"`
	Description *string       `json:"description,omitempty"`
	Status      *TaskStatus   `json:"status,omitempty"`
	Priority    *TaskPriority `json:"priority,omitempty"`
	AssignedTo  *string       `json:"assignedTo,omitempty"`
	DueDate     *string       `json:"dueDate,omitempty"`
	Tags        []string      `json:"tags,omitempty"`
	Subtasks    []SubTask     `json:"subtasks,omitempty"`
}

// StatusUpdate is one entry of a bulk status update request.
type StatusUpdate struct {
	ID     string     `json:"id"`
	Status TaskStatus `json:"status"`
}

// TaskFilters are the server-side filters of the task list endpoint.
type TaskFilters struct {
	Search     string
	AssignedTo string
	Status     TaskStatus
	Priority   TaskPriority
}
