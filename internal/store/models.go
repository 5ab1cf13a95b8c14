package store

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a record id or name does not exist.
var ErrNotFound = errors.New("store: not found")

type Mode string

const (
	ModeFocus      Mode = "focus"
	ModeShortBreak Mode = "short_break"
	ModeLongBreak  Mode = "long_break"
)

func (m Mode) IsValid() bool {
	switch m {
	case ModeFocus, ModeShortBreak, ModeLongBreak:
		return true
	default:
		return false
	}
}

type SessionStatus string

const (
	SessionCompleted SessionStatus = "completed"
	SessionPaused    SessionStatus = "paused"
	SessionSwitched  SessionStatus = "switched"
)

func (s SessionStatus) IsValid() bool {
	switch s {
	case SessionCompleted, SessionPaused, SessionSwitched:
		return true
	default:
		return false
	}
}

type TaskType string

const (
	TaskGeneral    TaskType = "general"
	TaskAssignment TaskType = "assignment"
	TaskExam       TaskType = "exam"
)

func (t TaskType) IsValid() bool {
	switch t {
	case TaskGeneral, TaskAssignment, TaskExam:
		return true
	default:
		return false
	}
}

// SessionRecord is one finished segment of timer history. Immutable once written.
type SessionRecord struct {
	ID        string
	UserID    string
	Mode      Mode
	Duration  int // seconds
	Status    SessionStatus
	Timestamp time.Time
}

// TimerState is the live per-user timer pointer, overwritten on every
// transition. When IsRunning is set, ExpiresAt carries the deadline;
// otherwise TimeLeftAtPause carries the frozen countdown.
type TimerState struct {
	UserID          string
	IsRunning       bool
	ExpiresAt       *time.Time
	TimeLeftAtPause *int
	SegmentStart    int // seconds the current segment started from
	Mode            Mode
	UpdatedAt       time.Time
}

type UserStats struct {
	UserID         string
	HoursSpent     float64
	DailyGoalHours float64
	LastActive     *time.Time
}

type Task struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Type        TaskType
	Status      string // stage name
	Completed   bool
	DueDate     *time.Time
	CreatedAt   time.Time
}

// TaskUpdate is a partial (merge) update; nil fields are left untouched.
type TaskUpdate struct {
	Title       *string
	Description *string
	Type        *TaskType
	Status      *string
	Completed   *bool
	DueDate     *time.Time
}

type Stage struct {
	ID       string
	UserID   string
	Name     string
	Builtin  bool
	Position int
}

type Note struct {
	ID        string
	UserID    string
	Title     string
	Content   string
	Timestamp time.Time
}

type Notification struct {
	ID        string
	UserID    string
	Text      string
	Read      bool
	CreatedAt time.Time
}

type Setting struct {
	Key   string
	Value string
}

// SessionFilter is used to filter session history in queries.
type SessionFilter struct {
	From   *time.Time
	To     *time.Time
	Mode   *Mode
	Status *SessionStatus
	Limit  int
}
