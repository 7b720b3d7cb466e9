// Package mcp provides an MCP (Model Context Protocol) server that exposes
// the task backend as MCP tools for AI coding assistants.
package mcp

import (
	"context"
	"fmt"
	"strings"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/AKASH-DEV-23/taskctl/pkg/models"
)

// TaskService is the slice of the API surface the MCP tools need.
// *api.TaskClient satisfies it.
type TaskService interface {
	List(ctx context.Context, filters models.TaskFilters) ([]models.Task, error)
	Get(ctx context.Context, id string) (*models.Task, error)
	Create(ctx context.Context, task models.TaskCreate) (*models.Task, error)
	Update(ctx context.Context, id string, update models.TaskUpdate) (*models.Task, error)
	Delete(ctx context.Context, id string) error
}

// Server wraps the authenticated task client and exposes it as MCP tools.
type Server struct {
	server *gomcp.Server
	tasks  TaskService
}

// NewServer creates a new MCP server backed by the given task service.
func NewServer(tasks TaskService, version string) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{tasks: tasks}
	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "taskctl", Version: version},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio, blocking until the client
// disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type listTasksInput struct {
	Search   string `json:"search,omitempty" jsonschema:"match tasks whose title or description contains this text"`
	Status   string `json:"status,omitempty" jsonschema:"filter by status (TODO, IN_PROGRESS, REVIEW, DONE)"`
	Priority string `json:"priority,omitempty" jsonschema:"filter by priority (LOW, MEDIUM, HIGH)"`
}

type taskOutput struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Status      string   `json:"status"`
	Priority    string   `json:"priority,omitempty"`
	AssignedTo  string   `json:"assigned_to,omitempty"`
	DueDate     string   `json:"due_date,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Subtasks    int      `json:"subtasks,omitempty"`
}

type listTasksOutput struct {
	Tasks []taskOutput `json:"tasks"`
	Count int          `json:"count"`
}

type getTaskInput struct {
	TaskID string `json:"task_id" jsonschema:"required,the task identifier"`
}

type createTaskInput struct {
	Title       string `json:"title" jsonschema:"required,task title (3 to 200 characters)"`
	Description string `json:"description" jsonschema:"required,task description (at least 10 characters)"`
	Priority    string `json:"priority,omitempty" jsonschema:"LOW, MEDIUM, or HIGH. Defaults to MEDIUM."`
	DueDate     string `json:"due_date,omitempty" jsonschema:"due date in YYYY-MM-DD form"`
	AssignedTo  string `json:"assigned_to,omitempty" jsonschema:"user ID to assign the task to"`
}

type moveTaskInput struct {
	TaskID string `json:"task_id" jsonschema:"required,the task identifier"`
	Status string `json:"status" jsonschema:"required,the target column (TODO, IN_PROGRESS, REVIEW, DONE)"`
}

type moveTaskOutput struct {
	Message string `json:"message"`
}

type deleteTaskInput struct {
	TaskID string `json:"task_id" jsonschema:"required,the task identifier"`
}

type deleteTaskOutput struct {
	Message string `json:"message"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_tasks",
		Description: "List tasks with optional search, status, and priority filters. Returns task summaries in board order.",
	}, s.handleListTasks)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_task",
		Description: "Get full task details by ID, including assignee, due date, tags, and subtask count.",
	}, s.handleGetTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "create_task",
		Description: "Create a new task. Title and description are required; new tasks start in the TODO column.",
	}, s.handleCreateTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "move_task",
		Description: "Move a task to another board column. Valid columns: TODO, IN_PROGRESS, REVIEW, DONE.",
	}, s.handleMoveTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "delete_task",
		Description: "Delete a task permanently.",
	}, s.handleDeleteTask)
}

// --- Tool handlers ---

func (s *Server) handleListTasks(ctx context.Context, _ *gomcp.CallToolRequest, input listTasksInput) (*gomcp.CallToolResult, listTasksOutput, error) {
	filters := models.TaskFilters{Search: input.Search}
	if input.Status != "" {
		status := models.TaskStatus(input.Status)
		if !status.Valid() {
			return errorResult(fmt.Sprintf("invalid status %q: must be one of %s", input.Status, statusList())), listTasksOutput{}, nil
		}
		filters.Status = status
	}
	if input.Priority != "" {
		filters.Priority = models.TaskPriority(input.Priority)
	}

	tasks, err := s.tasks.List(ctx, filters)
	if err != nil {
		return errorResult(fmt.Sprintf("listing tasks: %s", err)), listTasksOutput{}, nil
	}

	out := listTasksOutput{
		Tasks: make([]taskOutput, len(tasks)),
		Count: len(tasks),
	}
	for i, t := range tasks {
		out.Tasks[i] = taskToOutput(&t)
	}
	return nil, out, nil
}

func (s *Server) handleGetTask(ctx context.Context, _ *gomcp.CallToolRequest, input getTaskInput) (*gomcp.CallToolResult, taskOutput, error) {
	if input.TaskID == "" {
		return errorResult("task_id is required"), taskOutput{}, nil
	}

	task, err := s.tasks.Get(ctx, input.TaskID)
	if err != nil {
		return errorResult(fmt.Sprintf("getting task %s: %s", input.TaskID, err)), taskOutput{}, nil
	}
	return nil, taskToOutput(task), nil
}

func (s *Server) handleCreateTask(ctx context.Context, _ *gomcp.CallToolRequest, input createTaskInput) (*gomcp.CallToolResult, taskOutput, error) {
	if input.Title == "" {
		return errorResult("title is required"), taskOutput{}, nil
	}
	if input.Description == "" {
		return errorResult("description is required"), taskOutput{}, nil
	}

	priority := models.PriorityMedium
	if input.Priority != "" {
		priority = models.TaskPriority(input.Priority)
	}

	create := models.TaskCreate{
		Title:       input.Title,
		Description: input.Description,
		Status:      models.StatusTodo,
		Priority:    priority,
		DueDate:     input.DueDate,
		AssignedTo:  input.AssignedTo,
	}
	task, err := s.tasks.Create(ctx, create)
	if err != nil {
		return errorResult(fmt.Sprintf("creating task: %s", err)), taskOutput{}, nil
	}
	if task == nil {
		return errorResult("creating task: empty response"), taskOutput{}, nil
	}
	return nil, taskToOutput(task), nil
}

func (s *Server) handleMoveTask(ctx context.Context, _ *gomcp.CallToolRequest, input moveTaskInput) (*gomcp.CallToolResult, moveTaskOutput, error) {
	if input.TaskID == "" {
		return errorResult("task_id is required"), moveTaskOutput{}, nil
	}
	status := models.TaskStatus(input.Status)
	if !status.Valid() {
		return errorResult(fmt.Sprintf("invalid status %q: must be one of %s", input.Status, statusList())), moveTaskOutput{}, nil
	}

	update := models.TaskUpdate{Status: &status}
	if _, err := s.tasks.Update(ctx, input.TaskID, update); err != nil {
		return errorResult(fmt.Sprintf("moving task %s: %s", input.TaskID, err)), moveTaskOutput{}, nil
	}

	out := moveTaskOutput{
		Message: fmt.Sprintf("task %s moved to %s", input.TaskID, status),
	}
	return nil, out, nil
}

func (s *Server) handleDeleteTask(ctx context.Context, _ *gomcp.CallToolRequest, input deleteTaskInput) (*gomcp.CallToolResult, deleteTaskOutput, error) {
	if input.TaskID == "" {
		return errorResult("task_id is required"), deleteTaskOutput{}, nil
	}

	if err := s.tasks.Delete(ctx, input.TaskID); err != nil {
		return errorResult(fmt.Sprintf("deleting task %s: %s", input.TaskID, err)), deleteTaskOutput{}, nil
	}

	out := deleteTaskOutput{
		Message: fmt.Sprintf("task %s deleted", input.TaskID),
	}
	return nil, out, nil
}

// --- Helpers ---

func taskToOutput(t *models.Task) taskOutput {
	out := taskOutput{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		DueDate:     t.DueDate,
		Tags:        t.Tags,
		Subtasks:    len(t.Subtasks),
	}
	if t.AssignedTo != nil {
		out.AssignedTo = t.AssignedTo.DisplayName("")
	}
	return out
}

func statusList() string {
	parts := make([]string, len(models.Statuses))
	for i, s := range models.Statuses {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}
