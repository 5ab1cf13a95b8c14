// Package analytics derives the progress dashboard's numbers from the
// session history and the live accumulator.
package analytics

import (
	"time"

	"github.com/hi-z-k/focustime/internal/gamify"
	"github.com/hi-z-k/focustime/internal/store"
)

// Report is the read-only derived view consumed by the dashboard.
type Report struct {
	Streak          int
	WeeklyHours     [7]float64 // Mon..Sun
	HoursSpentTotal float64
	DailyGoalHours  float64
	Mood            gamify.Mood
	Evolution       gamify.Evolution
	Milestones      []gamify.Milestone
}

// WeekdayLabels matches the WeeklyHours buckets.
var WeekdayLabels = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Aggregate computes the full report for "now". Calendar arithmetic uses
// now's location, so a session at 23:50 counts for the local day it
// happened on.
func Aggregate(sessions []store.SessionRecord, stats *store.UserStats, now time.Time) Report {
	r := Report{
		Streak:      Streak(sessions, now),
		WeeklyHours: WeeklySeries(sessions, stats.HoursSpent, now),
	}
	r.HoursSpentTotal = stats.HoursSpent
	r.DailyGoalHours = stats.DailyGoalHours
	r.Mood = gamify.MoodFor(r.Streak)
	r.Evolution = gamify.EvolutionFor(r.HoursSpentTotal)
	r.Milestones = gamify.Milestones(r.Streak)
	return r
}

func dayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}

func isActive(s store.SessionRecord) bool {
	return s.Status == store.SessionCompleted && s.Mode == store.ModeFocus
}

// Streak counts consecutive active calendar days ending today or
// yesterday. An active day holds at least one completed focus segment.
func Streak(sessions []store.SessionRecord, now time.Time) int {
	if len(sessions) == 0 {
		return 0
	}
	loc := now.Location()

	activeDays := make(map[string]bool)
	for _, s := range sessions {
		if isActive(s) {
			activeDays[dayKey(s.Timestamp, loc)] = true
		}
	}

	today := now
	yesterday := now.AddDate(0, 0, -1)
	if !activeDays[dayKey(today, loc)] && !activeDays[dayKey(yesterday, loc)] {
		return 0
	}

	check := today
	if !activeDays[dayKey(today, loc)] {
		check = yesterday
	}

	streak := 0
	for activeDays[dayKey(check, loc)] {
		streak++
		check = check.AddDate(0, 0, -1)
	}
	return streak
}

// WeeklySeries buckets the current Monday-start week into hours per day.
// Past days accumulate session durations; the today bucket is overwritten
// with the live accumulator so the chart always shows the authoritative
// running total.
func WeeklySeries(sessions []store.SessionRecord, liveHours float64, now time.Time) [7]float64 {
	var week [7]float64
	loc := now.Location()

	local := now.In(loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	weekStart := midnight.AddDate(0, 0, -mondayIndex(local.Weekday()))
	weekEnd := weekStart.AddDate(0, 0, 7)
	todayKey := dayKey(now, loc)

	for _, s := range sessions {
		if !isActive(s) {
			continue
		}
		t := s.Timestamp.In(loc)
		if t.Before(weekStart) || !t.Before(weekEnd) {
			continue
		}
		if dayKey(t, loc) == todayKey {
			continue
		}
		week[mondayIndex(t.Weekday())] += float64(s.Duration) / 3600.0
	}

	week[mondayIndex(local.Weekday())] = liveHours
	return week
}

// mondayIndex maps time.Weekday to a Monday-first bucket index.
func mondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}
