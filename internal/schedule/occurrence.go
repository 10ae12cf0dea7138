package schedule

import "time"

// Occurrence is one resolved appearance of a schedule on a specific
// calendar date. Occurrences are computed fresh on every render and
// never persisted.
type Occurrence struct {
	ScheduleID  int64
	Date        Date
	StartMinute int
	EndMinute   int

	ContinuesFromPrev bool
	ContinuesToNext   bool
}

// Duration returns the raw span in minutes, which may be zero or
// negative for degenerate input. The presentation layer clamps it.
func (o Occurrence) Duration() int {
	return o.EndMinute - o.StartMinute
}

// ResolveDay resolves every schedule against target and returns the
// day's occurrence list. A one-off cross-midnight schedule that started
// the previous day shows up as a continuation. Errors are isolated per
// schedule: a bad row is reported and skipped, the rest of the day
// renders normally.
func ResolveDay(schedules []Schedule, target Date) ([]Occurrence, []ResolveError) {
	var occs []Occurrence
	var errs []ResolveError

	for _, s := range schedules {
		occ, ok, err := resolveOne(s, target)
		if err != nil {
			errs = append(errs, ResolveError{ScheduleID: s.ID, Err: err})
			continue
		}
		if ok {
			occs = append(occs, occ)
		}
	}
	return occs, errs
}

func resolveOne(s Schedule, target Date) (Occurrence, bool, error) {
	on, err := s.OccursOn(target)
	if err != nil {
		return Occurrence{}, false, err
	}
	if on {
		tr := s.EffectiveRange(target)
		return Occurrence{
			ScheduleID:      s.ID,
			Date:            target,
			StartMinute:     tr.StartMinute,
			EndMinute:       tr.EndMinute,
			ContinuesToNext: tr.CrossesMidnight,
		}, true, nil
	}

	// Second day of a one-off cross-midnight schedule. The exception
	// check above ran against the anchor date, which is the date the
	// user sees when deleting "this occurrence only".
	if !s.recurring() && s.crossesMidnight() {
		prev, err := s.OccursOn(target.AddDays(-1))
		if err != nil {
			return Occurrence{}, false, err
		}
		if prev {
			tr := s.EffectiveRange(target)
			return Occurrence{
				ScheduleID:        s.ID,
				Date:              target,
				StartMinute:       tr.StartMinute,
				EndMinute:         tr.EndMinute,
				ContinuesFromPrev: true,
			}, true, nil
		}
	}
	return Occurrence{}, false, nil
}

// MonthCounts returns the exact occurrence count for every day of the
// given month, for calendar-grid indicators. Continuations count on
// their second day too, matching what the day view shows. Each failing
// schedule is reported once, not once per day.
func MonthCounts(schedules []Schedule, year int, month time.Month) (map[Date]int, []ResolveError) {
	counts := make(map[Date]int)
	var errs []ResolveError
	failed := make(map[int64]bool)

	for day := 1; day <= DaysInMonth(year, month); day++ {
		d := Date{Year: year, Month: month, Day: day}
		occs, dayErrs := ResolveDay(schedules, d)
		if len(occs) > 0 {
			counts[d] = len(occs)
		}
		for _, e := range dayErrs {
			if !failed[e.ScheduleID] {
				failed[e.ScheduleID] = true
				errs = append(errs, e)
			}
		}
	}
	return counts, errs
}
