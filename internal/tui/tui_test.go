package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kyagci/agendo/internal/schedule"
	"github.com/kyagci/agendo/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// ============================================================
// Helpers
// ============================================================

func TestFormatMinute(t *testing.T) {
	cases := map[int]string{
		0:    "00:00",
		75:   "01:15",
		540:  "09:00",
		1439: "23:59",
		1440: "24:00",
	}
	for m, want := range cases {
		if got := formatMinute(m); got != want {
			t.Fatalf("formatMinute(%d) = %q, want %q", m, got, want)
		}
	}
}

func TestClampDots(t *testing.T) {
	if clampDots(0) != 0 || clampDots(2) != 2 {
		t.Fatal("small counts pass through")
	}
	if clampDots(3) != 3 || clampDots(17) != 3 {
		t.Fatal("counts cap at three dots")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("no-op truncate: %q", got)
	}
	if got := truncate("a very long title", 8); len([]rune(got)) != 8 {
		t.Fatalf("truncated length: %q", got)
	}
	if got := truncate("türkçe başlık", 7); len([]rune(got)) != 7 {
		t.Fatalf("rune-safe truncation: %q", got)
	}
}

// ============================================================
// Month model
// ============================================================

func TestMonthSelectionCrossesMonthBoundary(t *testing.T) {
	s := newTestStore(t)
	m := newMonthModel(s)
	m.year, m.month = 2025, time.January
	m.selected = schedule.Date{Year: 2025, Month: time.January, Day: 31}

	m, cmd := m.moveSelection(1)
	if m.selected != (schedule.Date{Year: 2025, Month: time.February, Day: 1}) {
		t.Fatalf("selection: %v", m.selected)
	}
	if m.year != 2025 || m.month != time.February {
		t.Fatalf("grid did not follow selection: %d-%v", m.year, m.month)
	}
	if cmd == nil {
		t.Fatal("crossing months should trigger a refresh")
	}
}

func TestMonthPagingClampsDay(t *testing.T) {
	s := newTestStore(t)
	m := newMonthModel(s)
	m.year, m.month = 2025, time.January
	m.selected = schedule.Date{Year: 2025, Month: time.January, Day: 31}

	m, _ = m.page(1)
	if m.month != time.February || m.selected.Day != 28 {
		t.Fatalf("paging to february: %v", m.selected)
	}
}

func TestMonthDataMsgApplied(t *testing.T) {
	s := newTestStore(t)
	m := newMonthModel(s)

	d := schedule.Date{Year: 2025, Month: time.January, Day: 6}
	m, _ = m.update(monthDataMsg{
		counts:    map[schedule.Date]int{d: 5},
		dueCounts: map[schedule.Date]int{d: 1},
		weekStart: time.Sunday,
	})
	if m.counts[d] != 5 || m.dueCounts[d] != 1 || m.weekStart != time.Sunday {
		t.Fatal("month data not applied")
	}
}

// ============================================================
// Day model
// ============================================================

func seedWeekly(t *testing.T, s *store.Store) *schedule.Schedule {
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
		t.Fatal(err)
	}
	return sc
}

func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	return cmd()
}

func TestDayRefreshResolvesOccurrences(t *testing.T) {
	s := newTestStore(t)
	seedWeekly(t, s)

	d := newDayModel(s)
	d.setSize(100, 40)
	d.date = schedule.Date{Year: 2025, Month: time.January, Day: 6}

	msg := runCmd(t, d.refresh())
	data, ok := msg.(dayDataMsg)
	if !ok {
		t.Fatalf("unexpected msg: %#v", msg)
	}
	if len(data.occs) != 1 || data.occs[0].StartMinute != 540 {
		t.Fatalf("occurrences: %+v", data.occs)
	}
	if data.minBlock != 30 || data.dayStartHour != 8 {
		t.Fatalf("settings: minBlock=%d start=%d", data.minBlock, data.dayStartHour)
	}

	d, _ = d.update(data)
	view := d.view()
	if !strings.Contains(view, "Algorithms") {
		t.Fatal("day view missing the occurrence title")
	}
}

func TestDayDeletePickerScopes(t *testing.T) {
	s := newTestStore(t)
	sc := seedWeekly(t, s)

	d := newDayModel(s)
	d.date = schedule.Date{Year: 2025, Month: time.January, Day: 13}
	data := runCmd(t, d.refresh()).(dayDataMsg)
	d, _ = d.update(data)

	// Recurring schedule opens the scope picker instead of deleting.
	d, _ = d.startDelete()
	if !d.deletePicking {
		t.Fatal("expected the delete picker")
	}

	// "This occurrence" records an exception for the shown date.
	d.deleteCursor = 0
	d, cmd := d.updateDeletePicker(tea.KeyMsg{Type: tea.KeyEnter})
	if d.deletePicking {
		t.Fatal("picker should close on enter")
	}
	runCmd(t, cmd)

	got, err := s.GetSchedule(sc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Exceptions) != 1 || got.Exceptions[0] != d.date {
		t.Fatalf("exception not recorded: %v", got.Exceptions)
	}
}

func TestDayDeleteThisAndFollowing(t *testing.T) {
	s := newTestStore(t)
	sc := seedWeekly(t, s)

	d := newDayModel(s)
	d.date = schedule.Date{Year: 2025, Month: time.January, Day: 13}
	data := runCmd(t, d.refresh()).(dayDataMsg)
	d, _ = d.update(data)

	d, _ = d.startDelete()
	d.deleteCursor = 1
	d, cmd := d.updateDeletePicker(tea.KeyMsg{Type: tea.KeyEnter})
	runCmd(t, cmd)

	got, err := s.GetSchedule(sc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Rule.EndType != schedule.EndOnDate || got.Rule.EndDate != d.date.AddDays(-1) {
		t.Fatalf("series not truncated: %+v", got.Rule)
	}
}

func TestBuildScheduleFromForm(t *testing.T) {
	s := newTestStore(t)
	d := newDayModel(s)

	*d.fTitle = "Linear Algebra"
	*d.fType = "course"
	*d.fDate = "2025-01-07"
	*d.fStart = "11:00"
	*d.fEnd = "12:30"
	*d.fRecur = "weekly"
	*d.fInterval = "1"
	*d.fDays = []int{2, 4}
	*d.fEndType = "never"
	*d.fColor = "blue"

	sc, err := d.buildSchedule()
	if err != nil {
		t.Fatal(err)
	}
	if sc.Title != "Linear Algebra" || sc.Rule.Type != schedule.RecurWeekly {
		t.Fatalf("unexpected schedule: %+v", sc)
	}
	if sc.Start.Hour() != 11 || sc.End == nil || sc.End.Minute() != 30 {
		t.Fatalf("times: %v %v", sc.Start, sc.End)
	}
	if len(sc.Rule.Days) != 2 || sc.Rule.Days[0] != time.Tuesday {
		t.Fatalf("days: %v", sc.Rule.Days)
	}
}

func TestBuildScheduleRejectsBadInput(t *testing.T) {
	s := newTestStore(t)
	d := newDayModel(s)

	*d.fTitle = ""
	*d.fDate = "2025-01-07"
	*d.fStart = "11:00"
	*d.fRecur = "none"
	if _, err := d.buildSchedule(); err == nil {
		t.Fatal("empty title should fail")
	}

	*d.fTitle = "X"
	*d.fDate = "someday"
	if _, err := d.buildSchedule(); err == nil {
		t.Fatal("bad date should fail")
	}

	*d.fDate = "2025-01-07"
	*d.fRecur = "weekly"
	*d.fEndType = "date"
	*d.fEndDate = ""
	if _, err := d.buildSchedule(); err == nil {
		t.Fatal("end type date without a date should fail")
	}
}

// ============================================================
// App
// ============================================================

func TestAppViewSwitching(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s)

	model, _ := app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	app = model.(App)

	model, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'3'}})
	app = model.(App)
	if app.activeView != viewTasks {
		t.Fatalf("expected tasks view, got %v", app.activeView)
	}
	if cmd == nil {
		t.Fatal("switching views should refresh")
	}

	view := app.View()
	if !strings.Contains(view, "agendo") {
		t.Fatal("header missing app name")
	}
}

func TestAppExportPicker(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s)

	model, _ := app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	app = model.(App)

	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	app = model.(App)
	if !app.exportPicking {
		t.Fatal("export key should open the picker")
	}
	if !strings.Contains(app.View(), "Export Format") {
		t.Fatal("picker not rendered")
	}

	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	app = model.(App)
	if app.exportPicking {
		t.Fatal("esc should close the picker")
	}
}

func TestSettingInt(t *testing.T) {
	s := newTestStore(t)
	if got := settingInt(s, "day_start_hour", 0); got != 8 {
		t.Fatalf("seeded value: %d", got)
	}
	if got := settingInt(s, "no_such_key", 42); got != 42 {
		t.Fatalf("fallback: %d", got)
	}
	s.SetSetting("min_block_minutes", "oops")
	if got := settingInt(s, "min_block_minutes", 15); got != 15 {
		t.Fatalf("non-numeric falls back: %d", got)
	}
}
