package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/AKASH-DEV-23/taskctl/pkg/models"
)

// TaskClient wraps the task endpoints. The backend mounts these under a
// second /api segment relative to the base path, hence the /api prefix on
// every path here.
type TaskClient struct {
	client *Client
}

// NewTaskClient creates a TaskClient on top of the shared HTTP wrapper.
func NewTaskClient(c *Client) *TaskClient {
	return &TaskClient{client: c}
}

type taskListEnvelope struct {
	Success bool          `json:"success"`
	Count   int           `json:"count,omitempty"`
	Data    []models.Task `json:"data"`
	Message string        `json:"message,omitempty"`
}

type taskEnvelope struct {
	Success bool         `json:"success"`
	Data    *models.Task `json:"data,omitempty"`
	Message string       `json:"message,omitempty"`
}

type assignableUsersEnvelope struct {
	Success    bool               `json:"success"`
	Data       []models.User      `json:"data"`
	Pagination *models.Pagination `json:"pagination,omitempty"`
}

// List fetches tasks with optional server-side filters. Order is the
// backend's fetch order; the board renders columns in that order without
// re-sorting.
func (t *TaskClient) List(ctx context.Context, filters models.TaskFilters) ([]models.Task, error) {
	query := url.Values{}
	if filters.Search != "" {
		query.Set("search", filters.Search)
	}
	if filters.AssignedTo != "" {
		query.Set("assignedTo", filters.AssignedTo)
	}
	if filters.Status != "" {
		query.Set("status", string(filters.Status))
	}
	if filters.Priority != "" {
		query.Set("priority", string(filters.Priority))
	}

	var envelope taskListEnvelope
	if err := t.client.get(ctx, "/api/tasks", query, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// Get fetches a single task.
func (t *TaskClient) Get(ctx context.Context, id string) (*models.Task, error) {
	var envelope taskEnvelope
	if err := t.client.get(ctx, "/api/tasks/"+url.PathEscape(id), nil, &envelope); err != nil {
		return nil, err
	}
	if envelope.Data == nil {
		return nil, fmt.Errorf("task %s: empty response", id)
	}
	return envelope.Data, nil
}

// Create creates a task.
func (t *TaskClient) Create(ctx context.Context, task models.TaskCreate) (*models.Task, error) {
	var envelope taskEnvelope
	if err := t.client.post(ctx, "/api/tasks", task, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// Update applies a partial update to a task. This is the remote half of
// every optimistic mutation on the board.
func (t *TaskClient) Update(ctx context.Context, id string, update models.TaskUpdate) (*models.Task, error) {
	var envelope taskEnvelope
	if err := t.client.put(ctx, "/api/tasks/"+url.PathEscape(id), update, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// Delete removes a task.
func (t *TaskClient) Delete(ctx context.Context, id string) error {
	return t.client.delete(ctx, "/api/tasks/"+url.PathEscape(id), nil)
}

// BulkUpdateStatus moves several tasks at once.
func (t *TaskClient) BulkUpdateStatus(ctx context.Context, updates []models.StatusUpdate) ([]models.Task, error) {
	body := map[string]any{"updates": updates}
	var envelope taskListEnvelope
	if err := t.client.post(ctx, "/api/tasks/bulk-update", body, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// AssignableUsers fetches the paginated list of users a task may be
// assigned to.
func (t *TaskClient) AssignableUsers(ctx context.Context, page, limit int, search string) ([]models.User, *models.Pagination, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if search != "" {
		query.Set("search", search)
	}

	var envelope assignableUsersEnvelope
	if err := t.client.get(ctx, "/api/tasks/users", query, &envelope); err != nil {
		return nil, nil, err
	}
	return envelope.Data, envelope.Pagination, nil
}
