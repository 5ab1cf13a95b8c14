package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

func (s *Store) CreateTask(userID, title, description string, typ TaskType, status string, due *time.Time) (*Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("create task: title is required")
	}
	if !typ.IsValid() {
		return nil, fmt.Errorf("create task: invalid type %q", typ)
	}

	id := uuid.NewString()
	now := time.Now().UTC()
	var dueStr any
	if due != nil {
		dueStr = due.UTC().Format(time.RFC3339)
	}
	_, err := s.db.Exec(
		`INSERT INTO tasks (id, user_id, title, description, type, status, completed, due_date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, 0, ?, ?)`,
		id, userID, title, description, string(typ), status, dueStr, now.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return s.GetTask(id)
}

func (s *Store) GetTask(id string) (*Task, error) {
	t := &Task{}
	var typ, createdAt string
	var completed int
	var dueDate sql.NullString

	err := s.db.QueryRow(
		`SELECT id, user_id, title, description, type, status, completed, due_date, created_at
		 FROM tasks WHERE id = ?`, id,
	).Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &typ, &t.Status, &completed, &dueDate, &createdAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("get task %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get task %s: %w", id, err)
	}
	t.Type = TaskType(typ)
	t.Completed = completed == 1
	if dueDate.Valid {
		d, _ := time.Parse(time.RFC3339, dueDate.String)
		t.DueDate = &d
	}
	t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return t, nil
}

// ListTasks returns the user's tasks, newest first.
func (s *Store) ListTasks(userID string) ([]Task, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, title, description, type, status, completed, due_date, created_at
		 FROM tasks WHERE user_id = ? ORDER BY created_at DESC, id`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		var t Task
		var typ, createdAt string
		var completed int
		var dueDate sql.NullString
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &typ, &t.Status, &completed, &dueDate, &createdAt); err != nil {
			return nil, err
		}
		t.Type = TaskType(typ)
		t.Completed = completed == 1
		if dueDate.Valid {
			d, _ := time.Parse(time.RFC3339, dueDate.String)
			t.DueDate = &d
		}
		t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// UpdateTask applies a partial update; unset fields keep their value.
// Returns ErrNotFound (and writes nothing) for an unknown id.
func (s *Store) UpdateTask(id string, upd TaskUpdate) error {
	var sets []string
	var args []any

	if upd.Title != nil {
		if strings.TrimSpace(*upd.Title) == "" {
			return fmt.Errorf("update task: title is required")
		}
		sets = append(sets, "title = ?")
		args = append(args, *upd.Title)
	}
	if upd.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *upd.Description)
	}
	if upd.Type != nil {
		if !upd.Type.IsValid() {
			return fmt.Errorf("update task: invalid type %q", *upd.Type)
		}
		sets = append(sets, "type = ?")
		args = append(args, string(*upd.Type))
	}
	if upd.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *upd.Status)
	}
	if upd.Completed != nil {
		completed := 0
		if *upd.Completed {
			completed = 1
		}
		sets = append(sets, "completed = ?")
		args = append(args, completed)
	}
	if upd.DueDate != nil {
		sets = append(sets, "due_date = ?")
		args = append(args, upd.DueDate.UTC().Format(time.RFC3339))
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	res, err := s.db.Exec(`UPDATE tasks SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("update task %s: %w", id, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("update task %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *Store) DeleteTask(id string) error {
	res, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("delete task %s: %w", id, ErrNotFound)
	}
	return nil
}
