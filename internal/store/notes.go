package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

func (s *Store) CreateNote(userID, title, content string) (*Note, error) {
	id := uuid.NewString()
	now := time.Now().UTC()
	_, err := s.db.Exec(
		`INSERT INTO notes (id, user_id, title, content, timestamp) VALUES (?, ?, ?, ?, ?)`,
		id, userID, title, content, now.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("insert note: %w", err)
	}
	return s.GetNote(id)
}

func (s *Store) GetNote(id string) (*Note, error) {
	n := &Note{}
	var ts string
	err := s.db.QueryRow(
		`SELECT id, user_id, title, content, timestamp FROM notes WHERE id = ?`, id,
	).Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &ts)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("get note %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get note %s: %w", id, err)
	}
	n.Timestamp, _ = time.Parse(time.RFC3339, ts)
	return n, nil
}

// ListNotes returns the user's notes, newest first.
func (s *Store) ListNotes(userID string) ([]Note, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, title, content, timestamp FROM notes WHERE user_id = ? ORDER BY timestamp DESC, id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	var notes []Note
	for rows.Next() {
		var n Note
		var ts string
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &ts); err != nil {
			return nil, err
		}
		n.Timestamp, _ = time.Parse(time.RFC3339, ts)
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// UpdateNote replaces title and content and refreshes the timestamp.
func (s *Store) UpdateNote(id, title, content string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`UPDATE notes SET title = ?, content = ?, timestamp = ? WHERE id = ?`,
		title, content, now, id,
	)
	if err != nil {
		return fmt.Errorf("update note %s: %w", id, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("update note %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *Store) DeleteNote(id string) error {
	res, err := s.db.Exec(`DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete note %s: %w", id, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("delete note %s: %w", id, ErrNotFound)
	}
	return nil
}
