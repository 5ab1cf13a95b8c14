package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrBuiltinStage is returned when removing one of the three fixed columns.
var ErrBuiltinStage = errors.New("store: built-in stage cannot be removed")

// BuiltinStages are always present on every board and cannot be deleted.
var BuiltinStages = []string{"To-Do", "In Progress", "Done"}

// DefaultStage is the column new tasks land in.
const DefaultStage = "To-Do"

// ListStages returns the user's columns in board order, seeding the
// built-ins on first access.
func (s *Store) ListStages(userID string) ([]Stage, error) {
	if err := s.ensureBuiltinStages(userID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(
		`SELECT id, user_id, name, builtin, position FROM stages WHERE user_id = ? ORDER BY position, name`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list stages: %w", err)
	}
	defer rows.Close()

	var stages []Stage
	for rows.Next() {
		var st Stage
		var builtin int
		if err := rows.Scan(&st.ID, &st.UserID, &st.Name, &builtin, &st.Position); err != nil {
			return nil, err
		}
		st.Builtin = builtin == 1
		stages = append(stages, st)
	}
	return stages, rows.Err()
}

func (s *Store) ensureBuiltinStages(userID string) error {
	for i, name := range BuiltinStages {
		_, err := s.db.Exec(
			`INSERT INTO stages (id, user_id, name, builtin, position) VALUES (?, ?, ?, 1, ?)
			 ON CONFLICT(user_id, name) DO NOTHING`,
			uuid.NewString(), userID, name, i,
		)
		if err != nil {
			return fmt.Errorf("seed stage %q: %w", name, err)
		}
	}
	return nil
}

// AddStage appends a column. Adding an existing name is a no-op.
func (s *Store) AddStage(userID, name string) (*Stage, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("add stage: name is required")
	}
	if err := s.ensureBuiltinStages(userID); err != nil {
		return nil, err
	}

	var pos int
	if err := s.db.QueryRow(
		`SELECT COALESCE(MAX(position), -1) + 1 FROM stages WHERE user_id = ?`, userID,
	).Scan(&pos); err != nil {
		return nil, fmt.Errorf("add stage: %w", err)
	}

	_, err := s.db.Exec(
		`INSERT INTO stages (id, user_id, name, builtin, position) VALUES (?, ?, ?, 0, ?)
		 ON CONFLICT(user_id, name) DO NOTHING`,
		uuid.NewString(), userID, name, pos,
	)
	if err != nil {
		return nil, fmt.Errorf("add stage: %w", err)
	}
	return s.getStage(userID, name)
}

func (s *Store) getStage(userID, name string) (*Stage, error) {
	st := &Stage{}
	var builtin int
	err := s.db.QueryRow(
		`SELECT id, user_id, name, builtin, position FROM stages WHERE user_id = ? AND name = ?`,
		userID, name,
	).Scan(&st.ID, &st.UserID, &st.Name, &builtin, &st.Position)
	if err != nil {
		return nil, fmt.Errorf("get stage %q: %w", name, err)
	}
	st.Builtin = builtin == 1
	return st, nil
}

// RemoveStage deletes a user-added column by name. Tasks still pointing at
// the removed stage keep their status string; the dangling reference is
// tolerated and such tasks surface in the default column.
func (s *Store) RemoveStage(userID, name string) error {
	for _, b := range BuiltinStages {
		if name == b {
			return fmt.Errorf("remove stage %q: %w", name, ErrBuiltinStage)
		}
	}

	res, err := s.db.Exec(`DELETE FROM stages WHERE user_id = ? AND name = ? AND builtin = 0`, userID, name)
	if err != nil {
		return fmt.Errorf("remove stage %q: %w", name, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("remove stage %q: %w", name, ErrNotFound)
	}
	return nil
}
