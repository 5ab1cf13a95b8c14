package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RecordSession appends one immutable segment to the user's history.
func (s *Store) RecordSession(userID string, mode Mode, duration int, status SessionStatus, ts time.Time) (*SessionRecord, error) {
	if !mode.IsValid() {
		return nil, fmt.Errorf("record session: invalid mode %q", mode)
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("record session: invalid status %q", status)
	}
	if duration < 0 {
		return nil, fmt.Errorf("record session: negative duration %d", duration)
	}

	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO sessions (id, user_id, mode, duration, status, timestamp) VALUES (?, ?, ?, ?, ?, ?)`,
		id, userID, string(mode), duration, string(status), ts.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("record session: %w", err)
	}
	return &SessionRecord{
		ID:        id,
		UserID:    userID,
		Mode:      mode,
		Duration:  duration,
		Status:    status,
		Timestamp: ts.UTC(),
	}, nil
}

// ListSessions returns the user's history, newest first.
func (s *Store) ListSessions(userID string, f SessionFilter) ([]SessionRecord, error) {
	query := `SELECT id, user_id, mode, duration, status, timestamp FROM sessions WHERE user_id = ?`
	args := []any{userID}

	if f.From != nil {
		query += ` AND timestamp >= ?`
		args = append(args, f.From.UTC().Format(time.RFC3339))
	}
	if f.To != nil {
		query += ` AND timestamp < ?`
		args = append(args, f.To.UTC().Format(time.RFC3339))
	}
	if f.Mode != nil {
		query += ` AND mode = ?`
		args = append(args, string(*f.Mode))
	}
	if f.Status != nil {
		query += ` AND status = ?`
		args = append(args, string(*f.Status))
	}
	query += ` ORDER BY timestamp DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var records []SessionRecord
	for rows.Next() {
		var r SessionRecord
		var mode, status, ts string
		if err := rows.Scan(&r.ID, &r.UserID, &mode, &r.Duration, &status, &ts); err != nil {
			return nil, err
		}
		r.Mode = Mode(mode)
		r.Status = SessionStatus(status)
		r.Timestamp, _ = time.Parse(time.RFC3339, ts)
		records = append(records, r)
	}
	return records, rows.Err()
}
