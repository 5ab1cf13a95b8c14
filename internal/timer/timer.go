// Package timer maintains one authoritative pomodoro state per user and
// reconciles it across every observer. The live pointer is the only source
// of truth: each transition persists the full record and rebroadcasts it,
// and observers discard their local countdown in favour of the new pointer.
package timer

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/hi-z-k/focustime/internal/store"
)

const (
	FocusDuration      = 25 * 60
	ShortBreakDuration = 5 * 60
	LongBreakDuration  = 15 * 60

	// Segments shorter than this are dropped instead of recorded.
	MinRecordableSeconds = 10
)

// DurationFor returns the fixed full duration of a mode in seconds.
func DurationFor(mode store.Mode) int {
	switch mode {
	case store.ModeShortBreak:
		return ShortBreakDuration
	case store.ModeLongBreak:
		return LongBreakDuration
	default:
		return FocusDuration
	}
}

// Recorder is the slice of the store the engine writes through.
type Recorder interface {
	GetTimerState(userID string) (*store.TimerState, error)
	SaveTimerState(st *store.TimerState) error
	RecordSession(userID string, mode store.Mode, duration int, status store.SessionStatus, ts time.Time) (*store.SessionRecord, error)
	AddHours(userID string, hours float64, at time.Time) error
	CreateNotification(userID, text string) (*store.Notification, error)
}

// Engine performs timer transitions and fans pointer updates out to
// observers.
type Engine struct {
	rec Recorder
	now func() time.Time

	mu     sync.Mutex
	nextID int
	subs   map[int]subscriber
}

type subscriber struct {
	userID string
	ch     chan store.TimerState
}

func New(rec Recorder) *Engine {
	return &Engine{
		rec:  rec,
		now:  time.Now,
		subs: make(map[int]subscriber),
	}
}

// Observe subscribes to every pointer update for the user. The returned
// cancel func must be called when the observer goes away.
func (e *Engine) Observe(userID string) (<-chan store.TimerState, func()) {
	ch := make(chan store.TimerState, 16)

	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.subs[id] = subscriber{userID: userID, ch: ch}
	e.mu.Unlock()

	cancel := func() {
		e.mu.Lock()
		if sub, ok := e.subs[id]; ok {
			delete(e.subs, id)
			close(sub.ch)
		}
		e.mu.Unlock()
	}
	return ch, cancel
}

func (e *Engine) publish(st *store.TimerState) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, sub := range e.subs {
		if sub.userID != st.UserID {
			continue
		}
		select {
		case sub.ch <- *st:
		default:
			// Slow observer; it will resync on the next update.
		}
	}
}

// Start begins (or resumes) the countdown from remaining seconds.
func (e *Engine) Start(userID string, remaining int, mode store.Mode) (*store.TimerState, error) {
	if remaining <= 0 {
		return nil, fmt.Errorf("start timer: non-positive remaining %d", remaining)
	}
	if !mode.IsValid() {
		return nil, fmt.Errorf("start timer: invalid mode %q", mode)
	}

	st, err := e.rec.GetTimerState(userID)
	if err != nil {
		return nil, err
	}

	expires := e.now().Add(time.Duration(remaining) * time.Second)
	st.IsRunning = true
	st.ExpiresAt = &expires
	st.TimeLeftAtPause = nil
	st.SegmentStart = remaining
	st.Mode = mode

	if err := e.rec.SaveTimerState(st); err != nil {
		return nil, err
	}
	e.publish(st)
	return st, nil
}

// Pause freezes the countdown at remaining seconds and records the elapsed
// segment when it clears the minimum threshold.
func (e *Engine) Pause(userID string, remaining int, mode store.Mode) (*store.TimerState, error) {
	st, err := e.rec.GetTimerState(userID)
	if err != nil {
		return nil, err
	}

	e.recordElapsed(userID, mode, st.SegmentStart, remaining, store.SessionPaused)

	st.IsRunning = false
	st.ExpiresAt = nil
	st.TimeLeftAtPause = &remaining
	st.SegmentStart = remaining
	st.Mode = mode

	if err := e.rec.SaveTimerState(st); err != nil {
		return nil, err
	}
	e.publish(st)
	return st, nil
}

// SwitchMode closes out the current segment (status switched) and resets
// the pointer to the full duration of newMode, paused.
func (e *Engine) SwitchMode(userID string, newMode store.Mode) (*store.TimerState, error) {
	if !newMode.IsValid() {
		return nil, fmt.Errorf("switch mode: invalid mode %q", newMode)
	}

	st, err := e.rec.GetTimerState(userID)
	if err != nil {
		return nil, err
	}

	e.recordElapsed(userID, st.Mode, st.SegmentStart, Remaining(st, e.now()), store.SessionSwitched)

	full := DurationFor(newMode)
	st.IsRunning = false
	st.ExpiresAt = nil
	st.TimeLeftAtPause = &full
	st.SegmentStart = full
	st.Mode = newMode

	if err := e.rec.SaveTimerState(st); err != nil {
		return nil, err
	}
	e.publish(st)
	return st, nil
}

// Finish handles a countdown that reached zero: the whole segment is
// recorded as completed, the pointer rests at the mode's full duration,
// and a completed focus segment feeds the hours accumulator.
func (e *Engine) Finish(userID string) (*store.TimerState, error) {
	st, err := e.rec.GetTimerState(userID)
	if err != nil {
		return nil, err
	}

	now := e.now()
	duration := st.SegmentStart
	if duration >= MinRecordableSeconds {
		if _, err := e.rec.RecordSession(userID, st.Mode, duration, store.SessionCompleted, now); err != nil {
			return nil, err
		}
	}

	if st.Mode == store.ModeFocus && duration >= MinRecordableSeconds {
		// Independent write; a crash between the session record and this
		// increment leaves them out of sync, a documented tolerance.
		if err := e.rec.AddHours(userID, float64(duration)/3600.0, now); err != nil {
			return nil, err
		}
		e.rec.CreateNotification(userID, "Focus session complete. Time for a break!")
	}

	full := DurationFor(st.Mode)
	st.IsRunning = false
	st.ExpiresAt = nil
	st.TimeLeftAtPause = &full
	st.SegmentStart = full

	if err := e.rec.SaveTimerState(st); err != nil {
		return nil, err
	}
	e.publish(st)
	return st, nil
}

// recordElapsed writes a history record for the segment that just ended.
// Elapsed time is derived from the segment's starting value, clamped at
// zero, and dropped below the noise threshold. The write is fire-and-forget.
func (e *Engine) recordElapsed(userID string, mode store.Mode, segmentStart, remaining int, status store.SessionStatus) {
	elapsed := segmentStart - remaining
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed < MinRecordableSeconds {
		return
	}
	e.rec.RecordSession(userID, mode, elapsed, status, e.now())
}

// Remaining derives the displayed countdown from the pointer: wall-clock
// distance to the deadline while running, the frozen value while paused.
func Remaining(st *store.TimerState, now time.Time) int {
	if st.IsRunning && st.ExpiresAt != nil {
		left := int(math.Ceil(st.ExpiresAt.Sub(now).Seconds()))
		if left < 0 {
			return 0
		}
		return left
	}
	if st.TimeLeftAtPause != nil {
		return *st.TimeLeftAtPause
	}
	return DurationFor(st.Mode)
}
