// Package board holds the Kanban view-model and its store actions.
package board

import (
	"fmt"
	"time"

	"github.com/hi-z-k/focustime/internal/auth"
	"github.com/hi-z-k/focustime/internal/store"
)

// TaskStore is the slice of the store the board writes through.
type TaskStore interface {
	ListTasks(userID string) ([]store.Task, error)
	CreateTask(userID, title, description string, typ store.TaskType, status string, due *time.Time) (*store.Task, error)
	UpdateTask(id string, upd store.TaskUpdate) error
	DeleteTask(id string) error
	ListStages(userID string) ([]store.Stage, error)
	AddStage(userID, name string) (*store.Stage, error)
	RemoveStage(userID, name string) error
}

// Board is the per-session task board: a cached snapshot of tasks and
// stages plus the actions that mutate them.
type Board struct {
	store   TaskStore
	session auth.Session

	tasks  []store.Task
	stages []store.Stage
}

func New(ts TaskStore, session auth.Session) *Board {
	return &Board{store: ts, session: session}
}

// Load reads a fresh snapshot from the store without touching the cached
// one, so it is safe to call off the UI loop. Apply installs the result.
func (b *Board) Load() ([]store.Task, []store.Stage, error) {
	stages, err := b.store.ListStages(b.session.UserID)
	if err != nil {
		return nil, nil, err
	}
	tasks, err := b.store.ListTasks(b.session.UserID)
	if err != nil {
		return nil, nil, err
	}
	return tasks, stages, nil
}

// Apply replaces the cached snapshot.
func (b *Board) Apply(tasks []store.Task, stages []store.Stage) {
	b.tasks = tasks
	b.stages = stages
}

// Refresh reloads the snapshot from the store.
func (b *Board) Refresh() error {
	tasks, stages, err := b.Load()
	if err != nil {
		return err
	}
	b.Apply(tasks, stages)
	return nil
}

func (b *Board) Tasks() []store.Task   { return b.tasks }
func (b *Board) Stages() []store.Stage { return b.stages }

// TasksIn returns the snapshot's tasks for one column. Tasks whose status
// points at a removed stage surface in the default column.
func (b *Board) TasksIn(stageName string) []store.Task {
	known := make(map[string]bool, len(b.stages))
	for _, st := range b.stages {
		known[st.Name] = true
	}

	var out []store.Task
	for _, t := range b.tasks {
		if t.Status == stageName || (stageName == store.DefaultStage && !known[t.Status]) {
			out = append(out, t)
		}
	}
	return out
}

// AddTask creates a task in the default first column.
func (b *Board) AddTask(title, description string, typ store.TaskType, due *time.Time) (*store.Task, error) {
	t, err := b.store.CreateTask(b.session.UserID, title, description, typ, store.DefaultStage, due)
	if err != nil {
		return nil, err
	}
	return t, b.Refresh()
}

func (b *Board) EditTask(id string, upd store.TaskUpdate) error {
	if err := b.store.UpdateTask(id, upd); err != nil {
		return err
	}
	return b.Refresh()
}

func (b *Board) DeleteTask(id string) error {
	if err := b.store.DeleteTask(id); err != nil {
		return err
	}
	return b.Refresh()
}

// MoveTask reassigns a task to another column.
func (b *Board) MoveTask(id, stageName string) error {
	return b.EditTask(id, store.TaskUpdate{Status: &stageName})
}

// ToggleTask flips completion. Completing a task also moves it to the
// "Done" column; un-completing leaves the column as is.
func (b *Board) ToggleTask(id string) error {
	t, ok := b.find(id)
	if !ok {
		return fmt.Errorf("toggle task %s: %w", id, store.ErrNotFound)
	}

	completed := !t.Completed
	upd := store.TaskUpdate{Completed: &completed}
	if completed {
		done := "Done"
		upd.Status = &done
	}
	return b.EditTask(id, upd)
}

// UpdateTaskStatusOptimistic updates the local snapshot immediately and
// persists behind it; on failure the local field is rolled back and the
// error returned.
func (b *Board) UpdateTaskStatusOptimistic(id, newStatus string) error {
	idx := -1
	for i := range b.tasks {
		if b.tasks[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("update task status %s: %w", id, store.ErrNotFound)
	}

	previous := b.tasks[idx].Status
	b.tasks[idx].Status = newStatus

	if err := b.store.UpdateTask(id, store.TaskUpdate{Status: &newStatus}); err != nil {
		b.tasks[idx].Status = previous
		return err
	}
	return nil
}

func (b *Board) AddStage(name string) error {
	if _, err := b.store.AddStage(b.session.UserID, name); err != nil {
		return err
	}
	return b.Refresh()
}

func (b *Board) RemoveStage(name string) error {
	if err := b.store.RemoveStage(b.session.UserID, name); err != nil {
		return err
	}
	return b.Refresh()
}

func (b *Board) find(id string) (store.Task, bool) {
	for _, t := range b.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return store.Task{}, false
}
