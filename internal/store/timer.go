package store

import (
	"database/sql"
	"fmt"
	"time"
)

// GetTimerState returns the user's live pointer, creating the resting
// default (paused focus at full duration) on first access.
func (s *Store) GetTimerState(userID string) (*TimerState, error) {
	st, err := s.readTimerState(userID)
	if err == nil {
		return st, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("get timer state: %w", err)
	}

	now := time.Now().UTC()
	fullFocus := 1500
	st = &TimerState{
		UserID:          userID,
		IsRunning:       false,
		TimeLeftAtPause: &fullFocus,
		SegmentStart:    fullFocus,
		Mode:            ModeFocus,
		UpdatedAt:       now,
	}
	if err := s.SaveTimerState(st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *Store) readTimerState(userID string) (*TimerState, error) {
	st := &TimerState{}
	var running int
	var expiresAt sql.NullString
	var timeLeft sql.NullInt64
	var mode, updatedAt string

	err := s.db.QueryRow(
		`SELECT user_id, is_running, expires_at, time_left_at_pause, segment_start, mode, updated_at
		 FROM timer_state WHERE user_id = ?`, userID,
	).Scan(&st.UserID, &running, &expiresAt, &timeLeft, &st.SegmentStart, &mode, &updatedAt)
	if err != nil {
		return nil, err
	}
	st.IsRunning = running == 1
	if expiresAt.Valid {
		t, _ := time.Parse(time.RFC3339, expiresAt.String)
		st.ExpiresAt = &t
	}
	if timeLeft.Valid {
		v := int(timeLeft.Int64)
		st.TimeLeftAtPause = &v
	}
	st.Mode = Mode(mode)
	st.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return st, nil
}

// SaveTimerState overwrites the live pointer. Last writer wins; there is
// no version check, matching the ephemeral nature of this record.
func (s *Store) SaveTimerState(st *TimerState) error {
	if !st.Mode.IsValid() {
		return fmt.Errorf("save timer state: invalid mode %q", st.Mode)
	}

	running := 0
	if st.IsRunning {
		running = 1
	}
	var expiresAt any
	if st.ExpiresAt != nil {
		expiresAt = st.ExpiresAt.UTC().Format(time.RFC3339)
	}
	var timeLeft any
	if st.TimeLeftAtPause != nil {
		timeLeft = *st.TimeLeftAtPause
	}
	now := time.Now().UTC()
	st.UpdatedAt = now

	_, err := s.db.Exec(
		`INSERT INTO timer_state (user_id, is_running, expires_at, time_left_at_pause, segment_start, mode, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
			is_running = excluded.is_running,
			expires_at = excluded.expires_at,
			time_left_at_pause = excluded.time_left_at_pause,
			segment_start = excluded.segment_start,
			mode = excluded.mode,
			updated_at = excluded.updated_at`,
		st.UserID, running, expiresAt, timeLeft, st.SegmentStart, string(st.Mode), now.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save timer state: %w", err)
	}
	return nil
}
