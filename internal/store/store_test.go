package store

import (
	"errors"
	"testing"
	"time"
)

const testUser = "user-1"

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// insertSession is a test helper that inserts a record at a given offset
// before now.
func insertSession(t *testing.T, s *Store, mode Mode, duration int, status SessionStatus, ago time.Duration) *SessionRecord {
	t.Helper()
	r, err := s.RecordSession(testUser, mode, duration, status, time.Now().UTC().Add(-ago))
	if err != nil {
		t.Fatalf("record session: %v", err)
	}
	return r
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/focustime.db"
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen — should succeed and not re-migrate
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s2.Close()
}

func TestDefaultDBPath(t *testing.T) {
	path, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if path == "" {
		t.Fatal("empty path")
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

// ============================================================
// Sessions
// ============================================================

func TestRecordSession(t *testing.T) {
	s := newTestStore(t)
	now := time.Now().UTC()
	r, err := s.RecordSession(testUser, ModeFocus, 1500, SessionCompleted, now)
	if err != nil {
		t.Fatal(err)
	}
	if r.ID == "" {
		t.Fatal("expected generated id")
	}
	if r.Mode != ModeFocus || r.Duration != 1500 || r.Status != SessionCompleted {
		t.Fatalf("unexpected record: %+v", r)
	}
}

func TestRecordSessionValidation(t *testing.T) {
	s := newTestStore(t)
	now := time.Now().UTC()

	if _, err := s.RecordSession(testUser, Mode("nap"), 100, SessionCompleted, now); err == nil {
		t.Fatal("expected error for invalid mode")
	}
	if _, err := s.RecordSession(testUser, ModeFocus, 100, SessionStatus("lost"), now); err == nil {
		t.Fatal("expected error for invalid status")
	}
	if _, err := s.RecordSession(testUser, ModeFocus, -5, SessionCompleted, now); err == nil {
		t.Fatal("expected error for negative duration")
	}
}

func TestListSessionsNewestFirst(t *testing.T) {
	s := newTestStore(t)
	insertSession(t, s, ModeFocus, 100, SessionCompleted, 2*time.Hour)
	insertSession(t, s, ModeFocus, 200, SessionPaused, time.Hour)

	records, err := s.ListSessions(testUser, SessionFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Duration != 200 {
		t.Fatalf("expected newest first, got %+v", records[0])
	}
}

func TestListSessionsFilters(t *testing.T) {
	s := newTestStore(t)
	insertSession(t, s, ModeFocus, 100, SessionCompleted, time.Hour)
	insertSession(t, s, ModeShortBreak, 300, SessionCompleted, time.Hour)
	insertSession(t, s, ModeFocus, 50, SessionSwitched, time.Hour)

	focus := ModeFocus
	records, err := s.ListSessions(testUser, SessionFilter{Mode: &focus})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 focus records, got %d", len(records))
	}

	completed := SessionCompleted
	records, _ = s.ListSessions(testUser, SessionFilter{Mode: &focus, Status: &completed})
	if len(records) != 1 {
		t.Fatalf("expected 1 completed focus record, got %d", len(records))
	}

	from := time.Now().UTC().Add(-30 * time.Minute)
	records, _ = s.ListSessions(testUser, SessionFilter{From: &from})
	if len(records) != 0 {
		t.Fatalf("expected no records in window, got %d", len(records))
	}
}

func TestListSessionsIsolatedPerUser(t *testing.T) {
	s := newTestStore(t)
	insertSession(t, s, ModeFocus, 100, SessionCompleted, time.Hour)

	records, err := s.ListSessions("someone-else", SessionFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records for other user, got %d", len(records))
	}
}

func TestListSessionsLimit(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 5; i++ {
		insertSession(t, s, ModeFocus, 100, SessionCompleted, time.Duration(i)*time.Hour)
	}
	records, _ := s.ListSessions(testUser, SessionFilter{Limit: 3})
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
}

// ============================================================
// Timer state
// ============================================================

func TestGetTimerStateCreatesDefault(t *testing.T) {
	s := newTestStore(t)
	st, err := s.GetTimerState(testUser)
	if err != nil {
		t.Fatal(err)
	}
	if st.IsRunning {
		t.Fatal("default pointer should be paused")
	}
	if st.TimeLeftAtPause == nil || *st.TimeLeftAtPause != 1500 {
		t.Fatalf("expected paused at 1500, got %+v", st.TimeLeftAtPause)
	}
	if st.Mode != ModeFocus || st.SegmentStart != 1500 {
		t.Fatalf("unexpected default pointer: %+v", st)
	}
}

func TestSaveTimerStateRoundTrip(t *testing.T) {
	s := newTestStore(t)
	expires := time.Now().UTC().Add(20 * time.Minute).Truncate(time.Second)
	st := &TimerState{
		UserID:       testUser,
		IsRunning:    true,
		ExpiresAt:    &expires,
		SegmentStart: 1200,
		Mode:         ModeFocus,
	}
	if err := s.SaveTimerState(st); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetTimerState(testUser)
	if err != nil {
		t.Fatal(err)
	}
	if !got.IsRunning {
		t.Fatal("expected running pointer")
	}
	if got.ExpiresAt == nil || !got.ExpiresAt.Equal(expires) {
		t.Fatalf("expected expiry %v, got %v", expires, got.ExpiresAt)
	}
	if got.TimeLeftAtPause != nil {
		t.Fatal("running pointer should not carry a paused value")
	}
	if got.SegmentStart != 1200 {
		t.Fatalf("expected segment start 1200, got %d", got.SegmentStart)
	}
}

func TestSaveTimerStateLastWriterWins(t *testing.T) {
	s := newTestStore(t)
	paused := 900
	first := &TimerState{UserID: testUser, TimeLeftAtPause: &paused, SegmentStart: 900, Mode: ModeLongBreak}
	if err := s.SaveTimerState(first); err != nil {
		t.Fatal(err)
	}

	later := 300
	second := &TimerState{UserID: testUser, TimeLeftAtPause: &later, SegmentStart: 300, Mode: ModeShortBreak}
	if err := s.SaveTimerState(second); err != nil {
		t.Fatal(err)
	}

	got, _ := s.GetTimerState(testUser)
	if got.Mode != ModeShortBreak || *got.TimeLeftAtPause != 300 {
		t.Fatalf("expected second write to win, got %+v", got)
	}
}

func TestSaveTimerStateInvalidMode(t *testing.T) {
	s := newTestStore(t)
	st := &TimerState{UserID: testUser, SegmentStart: 100, Mode: Mode("bogus")}
	if err := s.SaveTimerState(st); err == nil {
		t.Fatal("expected error for invalid mode")
	}
}

// ============================================================
// User stats
// ============================================================

func TestGetStatsCreatesDefault(t *testing.T) {
	s := newTestStore(t)
	st, err := s.GetStats(testUser)
	if err != nil {
		t.Fatal(err)
	}
	if st.HoursSpent != 0 {
		t.Fatalf("expected zero accumulator, got %f", st.HoursSpent)
	}
	if st.DailyGoalHours != 2 {
		t.Fatalf("expected default goal 2, got %f", st.DailyGoalHours)
	}
}

func TestAddHoursAccumulates(t *testing.T) {
	s := newTestStore(t)
	now := time.Now().UTC()
	if err := s.AddHours(testUser, 0.5, now); err != nil {
		t.Fatal(err)
	}
	if err := s.AddHours(testUser, 0.25, now); err != nil {
		t.Fatal(err)
	}

	st, _ := s.GetStats(testUser)
	if st.HoursSpent != 0.75 {
		t.Fatalf("expected 0.75 hours, got %f", st.HoursSpent)
	}
	if st.LastActive == nil {
		t.Fatal("expected last active to be stamped")
	}
}

func TestAddHoursRejectsNegative(t *testing.T) {
	s := newTestStore(t)
	if err := s.AddHours(testUser, -1, time.Now()); err == nil {
		t.Fatal("expected error for negative increment")
	}
}

func TestSetDailyGoal(t *testing.T) {
	s := newTestStore(t)
	if err := s.SetDailyGoal(testUser, 4); err != nil {
		t.Fatal(err)
	}
	st, _ := s.GetStats(testUser)
	if st.DailyGoalHours != 4 {
		t.Fatalf("expected goal 4, got %f", st.DailyGoalHours)
	}
}

// ============================================================
// Tasks
// ============================================================

func TestCreateAndGetTask(t *testing.T) {
	s := newTestStore(t)
	task, err := s.CreateTask(testUser, "Write report", "quarterly numbers", TaskAssignment, DefaultStage, nil)
	if err != nil {
		t.Fatal(err)
	}
	if task.ID == "" {
		t.Fatal("expected generated id")
	}
	if task.Title != "Write report" || task.Type != TaskAssignment {
		t.Fatalf("unexpected task: %+v", task)
	}
	if task.Status != "To-Do" || task.Completed {
		t.Fatalf("new task should rest in To-Do uncompleted: %+v", task)
	}
	if task.CreatedAt.IsZero() {
		t.Fatal("CreatedAt should be set")
	}
}

func TestCreateTaskRequiresTitle(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.CreateTask(testUser, "  ", "", TaskGeneral, DefaultStage, nil); err == nil {
		t.Fatal("expected error for empty title")
	}
}

func TestCreateTaskInvalidType(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.CreateTask(testUser, "x", "", TaskType("chore"), DefaultStage, nil); err == nil {
		t.Fatal("expected error for invalid type")
	}
}

func TestIdenticalTitlesAreIndependent(t *testing.T) {
	s := newTestStore(t)
	a, _ := s.CreateTask(testUser, "Read ch. 4", "", TaskGeneral, DefaultStage, nil)
	b, _ := s.CreateTask(testUser, "Read ch. 4", "", TaskGeneral, DefaultStage, nil)
	if a.ID == b.ID {
		t.Fatal("expected distinct ids")
	}

	if err := s.DeleteTask(a.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetTask(b.ID); err != nil {
		t.Fatalf("deleting one twin should not affect the other: %v", err)
	}
}

func TestUpdateTaskPartial(t *testing.T) {
	s := newTestStore(t)
	task, _ := s.CreateTask(testUser, "Draft", "first cut", TaskGeneral, DefaultStage, nil)

	status := "In Progress"
	if err := s.UpdateTask(task.ID, TaskUpdate{Status: &status}); err != nil {
		t.Fatal(err)
	}

	got, _ := s.GetTask(task.ID)
	if got.Status != "In Progress" {
		t.Fatalf("expected status moved, got %q", got.Status)
	}
	if got.Title != "Draft" || got.Description != "first cut" {
		t.Fatal("untouched fields should keep their values")
	}
}

func TestUpdateTaskNotFound(t *testing.T) {
	s := newTestStore(t)
	status := "Done"
	err := s.UpdateTask("missing-id", TaskUpdate{Status: &status})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// Store unchanged: no phantom rows.
	tasks, _ := s.ListTasks(testUser)
	if len(tasks) != 0 {
		t.Fatalf("expected empty store, got %d tasks", len(tasks))
	}
}

func TestDeleteTaskNotFound(t *testing.T) {
	s := newTestStore(t)
	if err := s.DeleteTask("missing-id"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListTasksIsolation(t *testing.T) {
	s := newTestStore(t)
	s.CreateTask(testUser, "mine", "", TaskGeneral, DefaultStage, nil)
	s.CreateTask("other-user", "theirs", "", TaskGeneral, DefaultStage, nil)

	tasks, _ := s.ListTasks(testUser)
	if len(tasks) != 1 || tasks[0].Title != "mine" {
		t.Fatalf("expected only own tasks, got %+v", tasks)
	}
}

func TestTaskDueDateRoundTrip(t *testing.T) {
	s := newTestStore(t)
	due := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Second)
	task, err := s.CreateTask(testUser, "Exam prep", "", TaskExam, DefaultStage, &due)
	if err != nil {
		t.Fatal(err)
	}
	got, _ := s.GetTask(task.ID)
	if got.DueDate == nil || !got.DueDate.Equal(due) {
		t.Fatalf("expected due %v, got %v", due, got.DueDate)
	}
}

// ============================================================
// Stages
// ============================================================

func TestListStagesSeedsBuiltins(t *testing.T) {
	s := newTestStore(t)
	stages, err := s.ListStages(testUser)
	if err != nil {
		t.Fatal(err)
	}
	if len(stages) != 3 {
		t.Fatalf("expected 3 built-in stages, got %d", len(stages))
	}
	for i, want := range BuiltinStages {
		if stages[i].Name != want || !stages[i].Builtin {
			t.Fatalf("expected builtin %q at %d, got %+v", want, i, stages[i])
		}
	}
}

func TestAddStage(t *testing.T) {
	s := newTestStore(t)
	st, err := s.AddStage(testUser, "Blocked")
	if err != nil {
		t.Fatal(err)
	}
	if st.Builtin {
		t.Fatal("user stage should not be builtin")
	}

	stages, _ := s.ListStages(testUser)
	if len(stages) != 4 || stages[3].Name != "Blocked" {
		t.Fatalf("expected Blocked appended, got %+v", stages)
	}
}

func TestAddStageIdempotent(t *testing.T) {
	s := newTestStore(t)
	s.AddStage(testUser, "Blocked")
	if _, err := s.AddStage(testUser, "Blocked"); err != nil {
		t.Fatalf("adding an existing stage should be a no-op: %v", err)
	}
	stages, _ := s.ListStages(testUser)
	if len(stages) != 4 {
		t.Fatalf("expected 4 stages, got %d", len(stages))
	}
}

func TestRemoveStageBuiltinRefused(t *testing.T) {
	s := newTestStore(t)
	s.ListStages(testUser)
	for _, name := range BuiltinStages {
		if err := s.RemoveStage(testUser, name); !errors.Is(err, ErrBuiltinStage) {
			t.Fatalf("expected ErrBuiltinStage for %q, got %v", name, err)
		}
	}
}

func TestRemoveStageLeavesTasksDangling(t *testing.T) {
	s := newTestStore(t)
	s.AddStage(testUser, "Blocked")
	task, _ := s.CreateTask(testUser, "Stuck", "", TaskGeneral, "Blocked", nil)

	if err := s.RemoveStage(testUser, "Blocked"); err != nil {
		t.Fatal(err)
	}

	got, _ := s.GetTask(task.ID)
	if got.Status != "Blocked" {
		t.Fatalf("task status should keep the dangling name, got %q", got.Status)
	}
}

func TestRemoveStageNotFound(t *testing.T) {
	s := newTestStore(t)
	if err := s.RemoveStage(testUser, "Nothing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// ============================================================
// Notes
// ============================================================

func TestNoteCRUD(t *testing.T) {
	s := newTestStore(t)
	n, err := s.CreateNote(testUser, "Lecture 3", "# Sorting\n\nMerge sort is O(n log n).")
	if err != nil {
		t.Fatal(err)
	}

	if err := s.UpdateNote(n.ID, "Lecture 3 (rev)", "updated"); err != nil {
		t.Fatal(err)
	}
	got, _ := s.GetNote(n.ID)
	if got.Title != "Lecture 3 (rev)" || got.Content != "updated" {
		t.Fatalf("unexpected note after update: %+v", got)
	}

	if err := s.DeleteNote(n.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetNote(n.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestListNotesNewestFirst(t *testing.T) {
	s := newTestStore(t)
	s.CreateNote(testUser, "a", "1")
	// Distinct second-resolution timestamps are not guaranteed here, so
	// just verify both rows come back.
	s.CreateNote(testUser, "b", "2")

	notes, err := s.ListNotes(testUser)
	if err != nil {
		t.Fatal(err)
	}
	if len(notes) != 2 {
		t.Fatalf("expected 2 notes, got %d", len(notes))
	}
}

func TestUpdateNoteNotFound(t *testing.T) {
	s := newTestStore(t)
	if err := s.UpdateNote("nope", "t", "c"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// ============================================================
// Notifications
// ============================================================

func TestNotificationsLifecycle(t *testing.T) {
	s := newTestStore(t)
	n, err := s.CreateNotification(testUser, "Focus session complete.")
	if err != nil {
		t.Fatal(err)
	}
	if n.Read {
		t.Fatal("new notification should be unread")
	}

	count, _ := s.CountUnreadNotifications(testUser)
	if count != 1 {
		t.Fatalf("expected 1 unread, got %d", count)
	}

	if err := s.MarkNotificationRead(n.ID); err != nil {
		t.Fatal(err)
	}
	count, _ = s.CountUnreadNotifications(testUser)
	if count != 0 {
		t.Fatalf("expected 0 unread after mark, got %d", count)
	}
}

func TestClearNotifications(t *testing.T) {
	s := newTestStore(t)
	s.CreateNotification(testUser, "one")
	s.CreateNotification(testUser, "two")
	s.CreateNotification("other-user", "keep")

	if err := s.ClearNotifications(testUser); err != nil {
		t.Fatal(err)
	}

	items, _ := s.ListNotifications(testUser, 0)
	if len(items) != 0 {
		t.Fatalf("expected cleared inbox, got %d", len(items))
	}
	others, _ := s.ListNotifications("other-user", 0)
	if len(others) != 1 {
		t.Fatal("other users' notifications should survive")
	}
}

func TestCreateNotificationRequiresText(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.CreateNotification(testUser, ""); err == nil {
		t.Fatal("expected error for empty text")
	}
}

// ============================================================
// Settings
// ============================================================

func TestSettingsDefaults(t *testing.T) {
	s := newTestStore(t)
	v, err := s.GetSetting("daily_goal_hours")
	if err != nil {
		t.Fatal(err)
	}
	if v != "2" {
		t.Fatalf("expected default goal '2', got %q", v)
	}
	if _, err := s.GetSetting("video_endpoint"); err != nil {
		t.Fatal("expected seeded video_endpoint")
	}
}

func TestSetSettingOverwrite(t *testing.T) {
	s := newTestStore(t)
	if err := s.SetSetting("daily_goal_hours", "3.5"); err != nil {
		t.Fatal(err)
	}
	v, _ := s.GetSetting("daily_goal_hours")
	if v != "3.5" {
		t.Fatalf("expected '3.5', got %q", v)
	}
}

func TestGetSettingNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetSetting("no_such_key"); err == nil {
		t.Fatal("expected error for missing key")
	}
}

func TestGetAllSettings(t *testing.T) {
	s := newTestStore(t)
	settings, err := s.GetAllSettings()
	if err != nil {
		t.Fatal(err)
	}
	if len(settings) < 5 {
		t.Fatalf("expected seeded settings, got %d", len(settings))
	}
}
