package store

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"
)

// GetStats returns the user's accumulator record, creating it on first
// access with the daily goal taken from settings.
func (s *Store) GetStats(userID string) (*UserStats, error) {
	st := &UserStats{}
	var lastActive sql.NullString

	err := s.db.QueryRow(
		`SELECT user_id, hours_spent, daily_goal_hours, last_active FROM user_stats WHERE user_id = ?`,
		userID,
	).Scan(&st.UserID, &st.HoursSpent, &st.DailyGoalHours, &lastActive)
	if err == sql.ErrNoRows {
		goal := 2.0
		if v, err := s.GetSetting("daily_goal_hours"); err == nil {
			if g, err := strconv.ParseFloat(v, 64); err == nil {
				goal = g
			}
		}
		_, err := s.db.Exec(
			`INSERT INTO user_stats (user_id, hours_spent, daily_goal_hours) VALUES (?, 0, ?)`,
			userID, goal,
		)
		if err != nil {
			return nil, fmt.Errorf("create stats: %w", err)
		}
		return &UserStats{UserID: userID, DailyGoalHours: goal}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get stats: %w", err)
	}
	if lastActive.Valid {
		t, _ := time.Parse(time.RFC3339, lastActive.String)
		st.LastActive = &t
	}
	return st, nil
}

// AddHours increments the monotonic hours accumulator and stamps last
// activity. Negative increments are rejected.
func (s *Store) AddHours(userID string, hours float64, at time.Time) error {
	if hours < 0 {
		return fmt.Errorf("add hours: negative increment %f", hours)
	}
	if _, err := s.GetStats(userID); err != nil {
		return err
	}
	_, err := s.db.Exec(
		`UPDATE user_stats SET hours_spent = hours_spent + ?, last_active = ? WHERE user_id = ?`,
		hours, at.UTC().Format(time.RFC3339), userID,
	)
	if err != nil {
		return fmt.Errorf("add hours: %w", err)
	}
	return nil
}

func (s *Store) SetDailyGoal(userID string, hours float64) error {
	if hours < 0 {
		return fmt.Errorf("set daily goal: negative goal %f", hours)
	}
	if _, err := s.GetStats(userID); err != nil {
		return err
	}
	_, err := s.db.Exec(
		`UPDATE user_stats SET daily_goal_hours = ? WHERE user_id = ?`, hours, userID,
	)
	if err != nil {
		return fmt.Errorf("set daily goal: %w", err)
	}
	return nil
}
