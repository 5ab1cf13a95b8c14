package timer

import (
	"testing"
	"time"

	"github.com/hi-z-k/focustime/internal/store"
)

const testUser = "user-1"

func newEngine(t *testing.T) (*Engine, *store.Store) {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return New(s), s
}

func fixedClock(e *Engine, at time.Time) {
	e.now = func() time.Time { return at }
}

func TestDurationFor(t *testing.T) {
	cases := []struct {
		mode store.Mode
		want int
	}{
		{store.ModeFocus, 1500},
		{store.ModeShortBreak, 300},
		{store.ModeLongBreak, 900},
	}
	for _, c := range cases {
		if got := DurationFor(c.mode); got != c.want {
			t.Errorf("DurationFor(%s) = %d, want %d", c.mode, got, c.want)
		}
	}
}

func TestStartSetsDeadline(t *testing.T) {
	e, _ := newEngine(t)
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	fixedClock(e, now)

	st, err := e.Start(testUser, 1500, store.ModeFocus)
	if err != nil {
		t.Fatal(err)
	}
	if !st.IsRunning {
		t.Fatal("expected running pointer")
	}
	if st.ExpiresAt == nil || !st.ExpiresAt.Equal(now.Add(25*time.Minute)) {
		t.Fatalf("unexpected deadline: %v", st.ExpiresAt)
	}
	if st.TimeLeftAtPause != nil {
		t.Fatal("running pointer should not carry a paused value")
	}
	if st.SegmentStart != 1500 {
		t.Fatalf("expected segment start 1500, got %d", st.SegmentStart)
	}
}

func TestStartRejectsNonPositive(t *testing.T) {
	e, _ := newEngine(t)
	if _, err := e.Start(testUser, 0, store.ModeFocus); err == nil {
		t.Fatal("expected error for zero remaining")
	}
	if _, err := e.Start(testUser, -5, store.ModeFocus); err == nil {
		t.Fatal("expected error for negative remaining")
	}
}

func TestPauseRecordsElapsedSegment(t *testing.T) {
	e, s := newEngine(t)
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	fixedClock(e, now)

	if _, err := e.Start(testUser, 1500, store.ModeFocus); err != nil {
		t.Fatal(err)
	}
	fixedClock(e, now.Add(10*time.Minute))

	st, err := e.Pause(testUser, 900, store.ModeFocus)
	if err != nil {
		t.Fatal(err)
	}
	if st.IsRunning || st.TimeLeftAtPause == nil || *st.TimeLeftAtPause != 900 {
		t.Fatalf("expected paused at 900, got %+v", st)
	}

	records, _ := s.ListSessions(testUser, store.SessionFilter{})
	if len(records) != 1 {
		t.Fatalf("expected one session record, got %d", len(records))
	}
	if records[0].Duration != 600 || records[0].Status != store.SessionPaused {
		t.Fatalf("unexpected record: %+v", records[0])
	}
}

func TestPauseDropsShortSegment(t *testing.T) {
	e, s := newEngine(t)
	if _, err := e.Start(testUser, 1500, store.ModeFocus); err != nil {
		t.Fatal(err)
	}

	// Only 5 seconds elapsed, below the recording threshold.
	if _, err := e.Pause(testUser, 1495, store.ModeFocus); err != nil {
		t.Fatal(err)
	}

	records, _ := s.ListSessions(testUser, store.SessionFilter{})
	if len(records) != 0 {
		t.Fatalf("expected short segment dropped, got %d records", len(records))
	}
}

func TestPauseClampsNegativeElapsed(t *testing.T) {
	e, s := newEngine(t)
	if _, err := e.Start(testUser, 100, store.ModeFocus); err != nil {
		t.Fatal(err)
	}

	// A clock skewed remaining larger than the segment start must not
	// produce a negative duration record.
	if _, err := e.Pause(testUser, 200, store.ModeFocus); err != nil {
		t.Fatal(err)
	}

	records, _ := s.ListSessions(testUser, store.SessionFilter{})
	if len(records) != 0 {
		t.Fatalf("expected nothing recorded, got %+v", records)
	}
}

func TestSwitchModeResetsToFullDuration(t *testing.T) {
	e, s := newEngine(t)
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	fixedClock(e, now)

	if _, err := e.Start(testUser, 1500, store.ModeFocus); err != nil {
		t.Fatal(err)
	}
	fixedClock(e, now.Add(5*time.Minute))

	st, err := e.SwitchMode(testUser, store.ModeShortBreak)
	if err != nil {
		t.Fatal(err)
	}
	if st.Mode != store.ModeShortBreak || st.IsRunning {
		t.Fatalf("expected paused short break, got %+v", st)
	}
	if st.TimeLeftAtPause == nil || *st.TimeLeftAtPause != 300 {
		t.Fatalf("expected full short break duration, got %+v", st.TimeLeftAtPause)
	}

	records, _ := s.ListSessions(testUser, store.SessionFilter{})
	if len(records) != 1 {
		t.Fatalf("expected switch segment recorded, got %d", len(records))
	}
	if records[0].Status != store.SessionSwitched || records[0].Duration != 300 {
		t.Fatalf("unexpected record: %+v", records[0])
	}
	if records[0].Mode != store.ModeFocus {
		t.Fatalf("record should carry the mode that was abandoned, got %s", records[0].Mode)
	}
}

func TestFinishRecordsAndFeedsAccumulator(t *testing.T) {
	e, s := newEngine(t)
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	fixedClock(e, now)

	if _, err := e.Start(testUser, 1500, store.ModeFocus); err != nil {
		t.Fatal(err)
	}
	fixedClock(e, now.Add(25*time.Minute))

	st, err := e.Finish(testUser)
	if err != nil {
		t.Fatal(err)
	}
	if st.IsRunning || st.TimeLeftAtPause == nil || *st.TimeLeftAtPause != 1500 {
		t.Fatalf("expected pointer reset to full focus, got %+v", st)
	}

	records, _ := s.ListSessions(testUser, store.SessionFilter{})
	if len(records) != 1 || records[0].Status != store.SessionCompleted || records[0].Duration != 1500 {
		t.Fatalf("unexpected records: %+v", records)
	}

	stats, _ := s.GetStats(testUser)
	if stats.HoursSpent < 0.416 || stats.HoursSpent > 0.417 {
		t.Fatalf("expected ~0.4167 hours, got %f", stats.HoursSpent)
	}

	count, _ := s.CountUnreadNotifications(testUser)
	if count != 1 {
		t.Fatalf("expected a completion notification, got %d unread", count)
	}
}

func TestFinishBreakDoesNotFeedAccumulator(t *testing.T) {
	e, s := newEngine(t)
	if _, err := e.Start(testUser, 300, store.ModeShortBreak); err != nil {
		t.Fatal(err)
	}

	if _, err := e.Finish(testUser); err != nil {
		t.Fatal(err)
	}

	stats, _ := s.GetStats(testUser)
	if stats.HoursSpent != 0 {
		t.Fatalf("break should not add hours, got %f", stats.HoursSpent)
	}
	count, _ := s.CountUnreadNotifications(testUser)
	if count != 0 {
		t.Fatalf("break should not notify, got %d unread", count)
	}

	records, _ := s.ListSessions(testUser, store.SessionFilter{})
	if len(records) != 1 || records[0].Mode != store.ModeShortBreak {
		t.Fatalf("break segment should still be recorded: %+v", records)
	}
}

func TestRemaining(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	expires := now.Add(90 * time.Second)
	running := &store.TimerState{IsRunning: true, ExpiresAt: &expires, Mode: store.ModeFocus}
	if got := Remaining(running, now); got != 90 {
		t.Fatalf("expected 90, got %d", got)
	}

	// Past the deadline the countdown floors at zero.
	if got := Remaining(running, now.Add(2*time.Minute)); got != 0 {
		t.Fatalf("expected 0 past deadline, got %d", got)
	}

	paused := 42
	frozen := &store.TimerState{TimeLeftAtPause: &paused, Mode: store.ModeFocus}
	if got := Remaining(frozen, now); got != 42 {
		t.Fatalf("expected frozen 42, got %d", got)
	}

	bare := &store.TimerState{Mode: store.ModeLongBreak}
	if got := Remaining(bare, now); got != 900 {
		t.Fatalf("expected full duration fallback, got %d", got)
	}
}

func TestObserveReceivesTransitions(t *testing.T) {
	e, _ := newEngine(t)
	ch, cancel := e.Observe(testUser)
	defer cancel()

	if _, err := e.Start(testUser, 1500, store.ModeFocus); err != nil {
		t.Fatal(err)
	}

	select {
	case st := <-ch:
		if !st.IsRunning {
			t.Fatalf("expected running update, got %+v", st)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for update")
	}
}

func TestObserveIsolatedPerUser(t *testing.T) {
	e, _ := newEngine(t)
	ch, cancel := e.Observe("someone-else")
	defer cancel()

	if _, err := e.Start(testUser, 1500, store.ModeFocus); err != nil {
		t.Fatal(err)
	}

	select {
	case st := <-ch:
		t.Fatalf("unexpected cross-user update: %+v", st)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestObserveCancelClosesChannel(t *testing.T) {
	e, _ := newEngine(t)
	ch, cancel := e.Observe(testUser)
	cancel()
	cancel() // second cancel is a no-op

	if _, ok := <-ch; ok {
		t.Fatal("expected closed channel")
	}
}
