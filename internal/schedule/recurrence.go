package schedule

import "fmt"

// OccursOn reports whether the schedule produces an occurrence on
// target. The exception set is applied as a final veto: an excepted
// date never occurs, no matter what the rule says.
func (s Schedule) OccursOn(target Date) (bool, error) {
	start := DateOf(s.Start)
	r := s.Rule

	if r.EndType == EndOnDate && !r.EndDate.IsZero() && target.After(r.EndDate) {
		return false, nil
	}
	if target.Before(start) {
		return false, nil
	}
	if r.Interval < 0 {
		return false, fmt.Errorf("%w: interval %d", ErrInvalidRule, r.Interval)
	}
	interval := r.interval()

	var match bool
	switch r.Type {
	case RecurNone, "":
		match = target == start
	case RecurDaily:
		match = DaysBetween(start, target)%interval == 0
	case RecurWeekly, RecurCustom:
		// Weeks are anchored on the start date, not on a fixed weekday.
		weeks := DaysBetween(start, target) / 7
		match = weeks%interval == 0 && r.weekdaySet(start)[target.Weekday()]
	case RecurMonthly:
		// Exact day-of-month match: an anchor on the 31st simply never
		// occurs in shorter months.
		months := monthsBetween(start, target)
		match = months%interval == 0 && target.Day == start.Day
	case RecurYearly:
		years := target.Year - start.Year
		match = years%interval == 0 && target.Month == start.Month && target.Day == start.Day
	default:
		return false, fmt.Errorf("%w: unknown recurrence type %q", ErrInvalidRule, r.Type)
	}
	if !match {
		return false, nil
	}

	if r.EndType == EndAfterCount && r.EndCount > 0 {
		if s.occurrenceIndex(target) >= r.EndCount {
			return false, nil
		}
	}

	for _, ex := range s.Exceptions {
		if ex == target {
			return false, nil
		}
	}
	return true, nil
}

// occurrenceIndex returns the zero-based index of target within the
// schedule's occurrence sequence. Only meaningful for dates that
// already match the rule; used to enforce count-based end conditions
// without walking day by day from the anchor.
func (s Schedule) occurrenceIndex(target Date) int {
	start := DateOf(s.Start)
	interval := s.Rule.interval()

	switch s.Rule.Type {
	case RecurDaily:
		return DaysBetween(start, target) / interval
	case RecurWeekly, RecurCustom:
		days := DaysBetween(start, target)
		week := days / 7
		offset := days % 7
		set := s.Rule.weekdaySet(start)

		// Each matching week window [start+7w, start+7w+6] covers every
		// weekday exactly once, so it contributes len(set) occurrences.
		idx := 0
		if week > 0 {
			matchingWeeks := (week + interval - 1) / interval
			idx = matchingWeeks * len(set)
		}
		// Occurrences earlier in target's own week window.
		startWd := int(start.Weekday())
		for i := 0; i < offset; i++ {
			if set[weekdayAt(startWd+i)] {
				idx++
			}
		}
		return idx
	case RecurMonthly:
		return monthsBetween(start, target) / interval
	case RecurYearly:
		return (target.Year - start.Year) / interval
	default:
		return 0
	}
}
