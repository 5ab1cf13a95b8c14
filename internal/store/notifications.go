package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

func (s *Store) CreateNotification(userID, text string) (*Notification, error) {
	if text == "" {
		return nil, fmt.Errorf("create notification: text is required")
	}
	id := uuid.NewString()
	now := time.Now().UTC()
	_, err := s.db.Exec(
		`INSERT INTO notifications (id, user_id, text, read, created_at) VALUES (?, ?, ?, 0, ?)`,
		id, userID, text, now.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("insert notification: %w", err)
	}
	return &Notification{ID: id, UserID: userID, Text: text, CreatedAt: now}, nil
}

// ListNotifications returns the most recent notifications, newest first.
func (s *Store) ListNotifications(userID string, limit int) ([]Notification, error) {
	query := `SELECT id, user_id, text, read, created_at FROM notifications WHERE user_id = ? ORDER BY created_at DESC, id`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, limit)
	}

	rows, err := s.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var items []Notification
	for rows.Next() {
		var n Notification
		var read int
		var createdAt string
		if err := rows.Scan(&n.ID, &n.UserID, &n.Text, &read, &createdAt); err != nil {
			return nil, err
		}
		n.Read = read == 1
		n.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		items = append(items, n)
	}
	return items, rows.Err()
}

func (s *Store) CountUnreadNotifications(userID string) (int, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM notifications WHERE user_id = ? AND read = 0`, userID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return n, nil
}

func (s *Store) MarkNotificationRead(id string) error {
	res, err := s.db.Exec(`UPDATE notifications SET read = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark read %s: %w", id, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("mark read %s: %w", id, ErrNotFound)
	}
	return nil
}

// ClearNotifications deletes all of the user's notifications in one
// transaction, the batched delete of the original surface.
func (s *Store) ClearNotifications(userID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("clear notifications: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM notifications WHERE user_id = ?`, userID); err != nil {
		tx.Rollback()
		return fmt.Errorf("clear notifications: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("clear notifications: %w", err)
	}
	return nil
}
