// Package board implements the Kanban board state machine: the
// authoritative task collection, the derived filtered view, and the
// drag/drop and status-change protocol with optimistic updates and
// rollback on failure.
package board

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/AKASH-DEV-23/taskctl/pkg/models"
)

// TaskUpdater pushes a partial task update to the backend. Satisfied by
// the api.TaskClient.
type TaskUpdater interface {
	Update(ctx context.Context, id string, update models.TaskUpdate) (*models.Task, error)
}

// Board holds the task collection once fetched and drives every mutation
// through the optimistic protocol. All state lives in memory; the backend
// stays authoritative between fetches.
type Board struct {
	mu      sync.Mutex
	updater TaskUpdater

	tasks    []models.Task
	search   string
	assignee string

	// dragged is the id of the card picked up by the current drag, "" when
	// no drag is in flight. A new drag replaces any prior payload.
	dragged string

	// detailID is the task bound to the open detail view, "" when closed.
	// The detail view reads through to the collection, so optimistic
	// mutations and their rollbacks are mirrored into it automatically.
	detailID string
}

// New creates an empty board that pushes mutations through updater.
func New(updater TaskUpdater) *Board {
	return &Board{updater: updater}
}

// SetTasks replaces the collection with a fresh fetch, preserving the
// backend's order. Any in-flight drag payload is discarded.
func (b *Board) SetTasks(tasks []models.Task) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tasks = make([]models.Task, len(tasks))
	copy(b.tasks, tasks)
	b.dragged = ""
}

// Tasks returns a copy of the authoritative collection.
func (b *Board) Tasks() []models.Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.Task, len(b.tasks))
	copy(out, b.tasks)
	return out
}

// SetSearch sets the free-text filter over title and description.
func (b *Board) SetSearch(s string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.search = s
}

// SetAssigneeFilter sets the assignee display-name filter.
func (b *Board) SetAssigneeFilter(s string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.assignee = s
}

// Filtered returns the tasks matching both filters, in collection order.
// A task matches the search text when title or description contains it
// case-insensitively; it matches the assignee filter when the resolved
// assignee display name contains the filter text case-insensitively.
func (b *Board) Filtered() []models.Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.filteredLocked()
}

func (b *Board) filteredLocked() []models.Task {
	out := make([]models.Task, 0, len(b.tasks))
	search := strings.ToLower(b.search)
	assignee := strings.ToLower(b.assignee)
	for _, t := range b.tasks {
		if search != "" &&
			!strings.Contains(strings.ToLower(t.Title), search) &&
			!strings.Contains(strings.ToLower(t.Description), search) {
			continue
		}
		if assignee != "" &&
			!strings.Contains(strings.ToLower(t.AssigneeName()), assignee) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Column returns the filtered tasks belonging to one status column. The
// four columns partition the filtered view: every task appears in exactly
// one of them.
func (b *Board) Column(status models.TaskStatus) []models.Task {
	out := []models.Task{}
	for _, t := range b.Filtered() {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

// AssigneeNames returns the unique assignee display names present in the
// collection, in first-appearance order, for the filter picker.
func (b *Board) AssigneeNames() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	seen := make(map[string]bool)
	var out []string
	for _, t := range b.tasks {
		name := t.AssigneeName()
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// StartDrag records the task as the drag payload, replacing any prior one.
func (b *Board) StartDrag(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.indexLocked(id) >= 0 {
		b.dragged = id
	}
}

// Dragging returns the id of the card in flight, "" when none.
func (b *Board) Dragging() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dragged
}

// CancelDrag drops the payload without any mutation.
func (b *Board) CancelDrag() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dragged = ""
}

// Drop completes the drag onto the column for status. Without a payload it
// is a no-op. The payload is cleared whether or not the update succeeds.
func (b *Board) Drop(ctx context.Context, status models.TaskStatus) error {
	b.mu.Lock()
	id := b.dragged
	b.dragged = ""
	b.mu.Unlock()
	if id == "" {
		return nil
	}
	return b.SetStatus(ctx, id, status)
}

// SetStatus moves a task to a new column optimistically: the collection is
// rewritten before the network call, and restored if the call fails. The
// open detail view sees the same transition both ways.
func (b *Board) SetStatus(ctx context.Context, id string, status models.TaskStatus) error {
	if !status.Valid() {
		return fmt.Errorf("task %s: invalid status %q", id, status)
	}

	b.mu.Lock()
	i := b.indexLocked(id)
	if i < 0 {
		b.mu.Unlock()
		return fmt.Errorf("task %s: not on the board", id)
	}
	original := b.tasks[i].Status
	b.mu.Unlock()

	if original == status {
		return nil
	}

	return mutate(
		func(s models.TaskStatus) { b.applyStatus(id, s) },
		original, status,
		func() error {
			_, err := b.updater.Update(ctx, id, models.TaskUpdate{Status: &status})
			return err
		},
	)
}

// ToggleSubtask flips exactly one subtask's completed flag, optimistically
// in both the collection and the open detail view, restoring the previous
// list everywhere on failure.
func (b *Board) ToggleSubtask(ctx context.Context, taskID, subtaskID string) error {
	b.mu.Lock()
	i := b.indexLocked(taskID)
	if i < 0 {
		b.mu.Unlock()
		return fmt.Errorf("task %s: not on the board", taskID)
	}
	original := make([]models.SubTask, len(b.tasks[i].Subtasks))
	copy(original, b.tasks[i].Subtasks)
	b.mu.Unlock()

	updated := make([]models.SubTask, len(original))
	copy(updated, original)
	found := false
	for j := range updated {
		if updated[j].ID == subtaskID {
			updated[j].Completed = !updated[j].Completed
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("task %s: no subtask %s", taskID, subtaskID)
	}

	return mutate(
		func(subs []models.SubTask) { b.applySubtasks(taskID, subs) },
		original, updated,
		func() error {
			_, err := b.updater.Update(ctx, taskID, models.TaskUpdate{Subtasks: updated})
			return err
		},
	)
}

// OpenDetail binds the detail view to a task id.
func (b *Board) OpenDetail(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.indexLocked(id) >= 0 {
		b.detailID = id
	}
}

// CloseDetail unbinds the detail view.
func (b *Board) CloseDetail() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.detailID = ""
}

// Detail returns a copy of the task bound to the open detail view, nil
// when closed or when the task left the collection.
func (b *Board) Detail() *models.Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.detailID == "" {
		return nil
	}
	i := b.indexLocked(b.detailID)
	if i < 0 {
		return nil
	}
	t := b.tasks[i]
	return &t
}

// Get returns a copy of a task by id.
func (b *Board) Get(id string) (models.Task, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.indexLocked(id)
	if i < 0 {
		return models.Task{}, false
	}
	return b.tasks[i], true
}

// Upsert merges a task returned by a create or edit call into the
// collection, appending new tasks in arrival order.
func (b *Board) Upsert(task models.Task) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i := b.indexLocked(task.ID); i >= 0 {
		b.tasks[i] = task
		return
	}
	b.tasks = append(b.tasks, task)
}

// Remove drops a task from the collection after a delete call succeeds.
func (b *Board) Remove(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.indexLocked(id)
	if i < 0 {
		return
	}
	b.tasks = append(b.tasks[:i], b.tasks[i+1:]...)
	if b.dragged == id {
		b.dragged = ""
	}
	if b.detailID == id {
		b.detailID = ""
	}
}

func (b *Board) applyStatus(id string, status models.TaskStatus) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i := b.indexLocked(id); i >= 0 {
		b.tasks[i].Status = status
	}
}

func (b *Board) applySubtasks(id string, subs []models.SubTask) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i := b.indexLocked(id); i >= 0 {
		copied := make([]models.SubTask, len(subs))
		copy(copied, subs)
		b.tasks[i].Subtasks = copied
	}
}

func (b *Board) indexLocked(id string) int {
	for i := range b.tasks {
		if b.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
