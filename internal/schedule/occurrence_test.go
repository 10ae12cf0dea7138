package schedule

import (
	"testing"
	"time"
)

func crossMidnightOneOff(id int64) Schedule {
	start := time.Date(2025, time.January, 10, 22, 0, 0, 0, time.Local) // Friday
	end := time.Date(2025, time.January, 10, 1, 0, 0, 0, time.Local)
	return Schedule{ID: id, Title: "Night shift", Start: start, End: &end}
}

func TestResolveDayContinuation(t *testing.T) {
	s := crossMidnightOneOff(1)

	occs, errs := ResolveDay([]Schedule{s}, Date{2025, time.January, 10})
	if len(errs) != 0 || len(occs) != 1 {
		t.Fatalf("friday: occs=%d errs=%v", len(occs), errs)
	}
	if occs[0].StartMinute != 22*60 || occs[0].EndMinute != MinutesPerDay || !occs[0].ContinuesToNext {
		t.Fatalf("friday occurrence: %+v", occs[0])
	}

	occs, errs = ResolveDay([]Schedule{s}, Date{2025, time.January, 11})
	if len(errs) != 0 || len(occs) != 1 {
		t.Fatalf("saturday: occs=%d errs=%v", len(occs), errs)
	}
	if occs[0].StartMinute != 0 || occs[0].EndMinute != 60 || !occs[0].ContinuesFromPrev {
		t.Fatalf("saturday continuation: %+v", occs[0])
	}

	// Two days after, nothing.
	occs, _ = ResolveDay([]Schedule{s}, Date{2025, time.January, 12})
	if len(occs) != 0 {
		t.Fatalf("sunday: expected nothing, got %+v", occs)
	}
}

func TestResolveDayRecurringCrossMidnight(t *testing.T) {
	s := crossMidnightOneOff(1)
	s.Rule = Rule{Type: RecurDaily}

	// Each matching day gets its own evening block; no midnight-to-01:00
	// continuation is synthesized for recurring schedules.
	occs, errs := ResolveDay([]Schedule{s}, Date{2025, time.January, 11})
	if len(errs) != 0 || len(occs) != 1 {
		t.Fatalf("occs=%d errs=%v", len(occs), errs)
	}
	if occs[0].StartMinute != 22*60 || occs[0].ContinuesFromPrev {
		t.Fatalf("unexpected occurrence: %+v", occs[0])
	}
}

func TestResolveDayExceptionRemovesContinuation(t *testing.T) {
	s := crossMidnightOneOff(1)
	s.Exceptions = []Date{{2025, time.January, 10}}

	// Deleting the occurrence on its anchor date removes both halves.
	for _, d := range []Date{{2025, time.January, 10}, {2025, time.January, 11}} {
		occs, errs := ResolveDay([]Schedule{s}, d)
		if len(errs) != 0 {
			t.Fatalf("%v: %v", d, errs)
		}
		if len(occs) != 0 {
			t.Fatalf("%v: excepted schedule still resolved: %+v", d, occs)
		}
	}
}

func TestResolveDayErrorIsolation(t *testing.T) {
	good := mkSchedule(Rule{Type: RecurDaily})
	bad := mkSchedule(Rule{Type: RecurDaily, Interval: -1})
	bad.ID = 2

	occs, errs := ResolveDay([]Schedule{good, bad}, Date{2025, time.January, 8})
	if len(occs) != 1 || occs[0].ScheduleID != good.ID {
		t.Fatalf("good schedule should still resolve: %+v", occs)
	}
	if len(errs) != 1 || errs[0].ScheduleID != bad.ID {
		t.Fatalf("bad schedule should be reported: %+v", errs)
	}
}

func TestMonthCounts(t *testing.T) {
	weekly := mkSchedule(Rule{Type: RecurWeekly}) // Mondays from Jan 6
	oneOff := Schedule{
		ID:    2,
		Start: time.Date(2025, time.January, 13, 14, 0, 0, 0, time.Local),
	}

	counts, errs := MonthCounts([]Schedule{weekly, oneOff}, 2025, time.January)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	want := map[Date]int{
		{2025, time.January, 6}:  1,
		{2025, time.January, 13}: 2, // weekly + one-off
		{2025, time.January, 20}: 1,
		{2025, time.January, 27}: 1,
	}
	if len(counts) != len(want) {
		t.Fatalf("counts: %v", counts)
	}
	for d, n := range want {
		if counts[d] != n {
			t.Fatalf("%v: expected %d, got %d", d, n, counts[d])
		}
	}
}

func TestMonthCountsErrorDeduped(t *testing.T) {
	bad := mkSchedule(Rule{Type: RecurDaily, Interval: -1})
	_, errs := MonthCounts([]Schedule{bad}, 2025, time.January)
	if len(errs) != 1 {
		t.Fatalf("failing schedule should be reported once, got %d", len(errs))
	}
	if errs[0].ScheduleID != bad.ID {
		t.Fatalf("unexpected error: %+v", errs[0])
	}
}
