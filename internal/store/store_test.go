package store

import (
	"testing"
	"time"

	"github.com/kyagci/agendo/internal/schedule"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// insertWeekly is a test helper that creates a weekly Monday/Wednesday
// schedule anchored at Monday 2025-01-06, 09:00-10:30.
func insertWeekly(t *testing.T, s *Store) *schedule.Schedule {
	t.Helper()
	start := time.Date(2025, time.January, 6, 9, 0, 0, 0, time.Local)
	end := time.Date(2025, time.January, 6, 10, 30, 0, 0, time.Local)
	sc, err := s.CreateSchedule(schedule.Schedule{
		Title: "Algorithms",
		Type:  schedule.EventCourse,
		Start: start,
		End:   &end,
		Rule: schedule.Rule{
			Type: schedule.RecurWeekly,
			Days: []time.Weekday{time.Monday, time.Wednesday},
		},
		Color: "teal",
	})
	if err != nil {
		t.Fatalf("create schedule: %v", err)
	}
	return sc
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

	// Should have run migration v1
	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/agendo.db"
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen: should succeed and not re-migrate
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

func TestPragmasConfigured(t *testing.T) {
	s := newTestStore(t)

	var fk int
	s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk)
	if fk != 1 {
		t.Fatalf("expected foreign_keys=1, got %d", fk)
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

func TestSettingsSeeded(t *testing.T) {
	s := newTestStore(t)
	for key, want := range map[string]string{
		"week_start":        "monday",
		"day_start_hour":    "8",
		"min_block_minutes": "30",
	} {
		v, err := s.GetSetting(key)
		if err != nil {
			t.Fatalf("%s: %v", key, err)
		}
		if v != want {
			t.Fatalf("%s: expected %q, got %q", key, want, v)
		}
	}
}

// ============================================================
// Schedules
// ============================================================

func TestCreateAndGetSchedule(t *testing.T) {
	s := newTestStore(t)
	sc := insertWeekly(t, s)

	if sc.ID == 0 {
		t.Fatal("expected non-zero ID")
	}
	if sc.Title != "Algorithms" || sc.Type != schedule.EventCourse || sc.Color != "teal" {
		t.Fatalf("unexpected schedule: %+v", sc)
	}
	if sc.Start.Hour() != 9 || sc.Start.Minute() != 0 {
		t.Fatalf("start time not preserved: %v", sc.Start)
	}
	if sc.End == nil || sc.End.Hour() != 10 || sc.End.Minute() != 30 {
		t.Fatalf("end time not preserved: %v", sc.End)
	}
	if sc.CreatedAt.IsZero() || sc.UpdatedAt.IsZero() {
		t.Fatal("timestamps not set")
	}
}

func TestScheduleDaysRoundTrip(t *testing.T) {
	s := newTestStore(t)
	sc := insertWeekly(t, s)

	got, err := s.GetSchedule(sc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Rule.Days) != 2 ||
		got.Rule.Days[0] != time.Monday || got.Rule.Days[1] != time.Wednesday {
		t.Fatalf("day set not preserved: %v", got.Rule.Days)
	}
}

func TestCreateScheduleValidates(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateSchedule(schedule.Schedule{
		Title: "Broken",
		Start: time.Now(),
		Rule:  schedule.Rule{Type: schedule.RecurDaily, Interval: -1},
	})
	if err == nil {
		t.Fatal("invalid rule should not persist")
	}
}

func TestCreateScheduleDefaults(t *testing.T) {
	s := newTestStore(t)
	sc, err := s.CreateSchedule(schedule.Schedule{
		Title: "Dentist",
		Start: time.Date(2025, time.March, 3, 14, 0, 0, 0, time.Local),
	})
	if err != nil {
		t.Fatal(err)
	}
	if sc.Rule.Type != schedule.RecurNone {
		t.Fatalf("recurrence should default to none: %v", sc.Rule.Type)
	}
	if sc.Rule.EndType != schedule.EndNever {
		t.Fatalf("end type should default to never: %v", sc.Rule.EndType)
	}
	if sc.Rule.Interval != 1 {
		t.Fatalf("interval should default to 1: %d", sc.Rule.Interval)
	}
	if sc.End != nil {
		t.Fatalf("missing end should stay NULL: %v", sc.End)
	}
}

func TestUpdateSchedule(t *testing.T) {
	s := newTestStore(t)
	sc := insertWeekly(t, s)

	sc.Title = "Advanced Algorithms"
	sc.Rule.Days = []time.Weekday{time.Friday}
	if err := s.UpdateSchedule(*sc); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetSchedule(sc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Advanced Algorithms" {
		t.Fatalf("title not updated: %q", got.Title)
	}
	if len(got.Rule.Days) != 1 || got.Rule.Days[0] != time.Friday {
		t.Fatalf("days not updated: %v", got.Rule.Days)
	}
}

func TestListSchedulesOrdered(t *testing.T) {
	s := newTestStore(t)
	late, _ := s.CreateSchedule(schedule.Schedule{
		Title: "Late",
		Start: time.Date(2025, time.June, 1, 9, 0, 0, 0, time.Local),
	})
	early, _ := s.CreateSchedule(schedule.Schedule{
		Title: "Early",
		Start: time.Date(2025, time.January, 1, 9, 0, 0, 0, time.Local),
	})

	list, err := s.ListSchedules()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 schedules, got %d", len(list))
	}
	if list[0].ID != early.ID || list[1].ID != late.ID {
		t.Fatalf("not ordered by start time: %v, %v", list[0].Title, list[1].Title)
	}
}

// ============================================================
// Deletion semantics
// ============================================================

func TestDeleteOccurrence(t *testing.T) {
	s := newTestStore(t)
	sc := insertWeekly(t, s)

	d, _ := schedule.ParseDate("2025-01-13")
	if err := s.DeleteOccurrence(sc.ID, d); err != nil {
		t.Fatal(err)
	}
	// Idempotent
	if err := s.DeleteOccurrence(sc.ID, d); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetSchedule(sc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Exceptions) != 1 || got.Exceptions[0] != d {
		t.Fatalf("exception not recorded: %v", got.Exceptions)
	}

	// The rule itself is untouched: neighbors still occur.
	on, err := got.OccursOn(d)
	if err != nil {
		t.Fatal(err)
	}
	if on {
		t.Fatal("excepted date still occurs")
	}
	next := d.AddDays(2) // Wednesday
	if on, _ := got.OccursOn(next); !on {
		t.Fatal("neighbor occurrence lost")
	}
}

func TestDeleteFromDate(t *testing.T) {
	s := newTestStore(t)
	sc := insertWeekly(t, s)

	cut, _ := schedule.ParseDate("2025-01-13")
	if err := s.DeleteFromDate(sc.ID, cut); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetSchedule(sc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Rule.EndType != schedule.EndOnDate {
		t.Fatalf("end type: %v", got.Rule.EndType)
	}
	if got.Rule.EndDate != cut.AddDays(-1) {
		t.Fatalf("end date should be the day before the cut: %v", got.Rule.EndDate)
	}

	// Before the cut still occurs, from the cut on it does not.
	before, _ := schedule.ParseDate("2025-01-08")
	if on, _ := got.OccursOn(before); !on {
		t.Fatal("occurrence before the cut lost")
	}
	if on, _ := got.OccursOn(cut); on {
		t.Fatal("cut date still occurs")
	}

	// No clone was created.
	list, _ := s.ListSchedules()
	if len(list) != 1 {
		t.Fatalf("truncation must not clone: %d schedules", len(list))
	}
}

func TestDeleteSchedule(t *testing.T) {
	s := newTestStore(t)
	sc := insertWeekly(t, s)
	d, _ := schedule.ParseDate("2025-01-13")
	s.DeleteOccurrence(sc.ID, d)

	if err := s.DeleteSchedule(sc.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetSchedule(sc.ID); err == nil {
		t.Fatal("schedule still present")
	}

	// Exceptions cascade away with the schedule.
	var n int
	s.db.QueryRow(`SELECT COUNT(*) FROM schedule_exceptions WHERE schedule_id = ?`, sc.ID).Scan(&n)
	if n != 0 {
		t.Fatalf("expected cascaded exception delete, %d left", n)
	}
}

func TestSplitSchedule(t *testing.T) {
	s := newTestStore(t)
	sc := insertWeekly(t, s)
	ex, _ := schedule.ParseDate("2025-01-08")
	s.DeleteOccurrence(sc.ID, ex)

	cut, _ := schedule.ParseDate("2025-02-03") // a Monday
	clone, err := s.SplitSchedule(sc.ID, cut)
	if err != nil {
		t.Fatal(err)
	}

	orig, _ := s.GetSchedule(sc.ID)
	if orig.Rule.EndType != schedule.EndOnDate || orig.Rule.EndDate != cut.AddDays(-1) {
		t.Fatalf("original not truncated: %+v", orig.Rule)
	}

	if clone.ID == sc.ID {
		t.Fatal("clone must be a new schedule")
	}
	if schedule.DateOf(clone.Start) != cut {
		t.Fatalf("clone not anchored at the cut: %v", clone.Start)
	}
	if clone.Start.Hour() != 9 || clone.End == nil || clone.End.Minute() != 30 {
		t.Fatalf("clone lost the time of day: %v %v", clone.Start, clone.End)
	}
	if clone.Rule.Type != schedule.RecurWeekly || len(clone.Rule.Days) != 2 {
		t.Fatalf("clone lost the rule: %+v", clone.Rule)
	}
	if len(clone.Exceptions) != 0 {
		t.Fatalf("clone must start without exceptions: %v", clone.Exceptions)
	}
}

// ============================================================
// Tasks
// ============================================================

func TestCreateAndListTasks(t *testing.T) {
	s := newTestStore(t)
	due, _ := schedule.ParseDate("2025-01-20")

	task, err := s.CreateTask("Hand in report", "chapter 3", &due)
	if err != nil {
		t.Fatal(err)
	}
	if task.ID == 0 || task.Done {
		t.Fatalf("unexpected task: %+v", task)
	}
	if task.Due == nil || *task.Due != due {
		t.Fatalf("due date not preserved: %v", task.Due)
	}

	if _, err := s.CreateTask("No due date", "", nil); err != nil {
		t.Fatal(err)
	}

	list, err := s.ListTasks(false)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(list))
	}
	// Dated tasks sort before undated ones.
	if list[0].ID != task.ID {
		t.Fatalf("dated task should come first: %v", list[0])
	}
}

func TestTaskDoneFiltering(t *testing.T) {
	s := newTestStore(t)
	task, _ := s.CreateTask("Old business", "", nil)
	if err := s.SetTaskDone(task.ID, true); err != nil {
		t.Fatal(err)
	}

	open, _ := s.ListTasks(false)
	if len(open) != 0 {
		t.Fatalf("done task leaked into open list: %v", open)
	}
	all, _ := s.ListTasks(true)
	if len(all) != 1 || !all[0].Done {
		t.Fatalf("done task missing from full list: %v", all)
	}

	if err := s.SetTaskDone(task.ID, false); err != nil {
		t.Fatal(err)
	}
	open, _ = s.ListTasks(false)
	if len(open) != 1 {
		t.Fatal("reopened task missing")
	}
}

func TestTasksDueOnAndDueCounts(t *testing.T) {
	s := newTestStore(t)
	d1, _ := schedule.ParseDate("2025-01-20")
	d2, _ := schedule.ParseDate("2025-01-22")
	s.CreateTask("A", "", &d1)
	s.CreateTask("B", "", &d1)
	s.CreateTask("C", "", &d2)
	s.CreateTask("undated", "", nil)

	due, err := s.TasksDueOn(d1)
	if err != nil {
		t.Fatal(err)
	}
	if len(due) != 2 {
		t.Fatalf("expected 2 tasks due, got %d", len(due))
	}

	counts, err := s.DueCounts(d1, d2)
	if err != nil {
		t.Fatal(err)
	}
	if counts[d1] != 2 || counts[d2] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}

func TestUpdateAndDeleteTask(t *testing.T) {
	s := newTestStore(t)
	task, _ := s.CreateTask("Draft", "", nil)

	due, _ := schedule.ParseDate("2025-02-01")
	if err := s.UpdateTask(task.ID, "Final", "v2", &due); err != nil {
		t.Fatal(err)
	}
	got, _ := s.GetTask(task.ID)
	if got.Title != "Final" || got.Notes != "v2" || got.Due == nil || *got.Due != due {
		t.Fatalf("update lost fields: %+v", got)
	}

	if err := s.DeleteTask(task.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetTask(task.ID); err == nil {
		t.Fatal("task still present")
	}
}

// ============================================================
// Settings
// ============================================================

func TestSetAndGetSetting(t *testing.T) {
	s := newTestStore(t)
	if err := s.SetSetting("week_start", "sunday"); err != nil {
		t.Fatal(err)
	}
	v, err := s.GetSetting("week_start")
	if err != nil {
		t.Fatal(err)
	}
	if v != "sunday" {
		t.Fatalf("expected sunday, got %q", v)
	}

	all, err := s.GetAllSettings()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) < 3 {
		t.Fatalf("expected seeded settings, got %d", len(all))
	}
}
