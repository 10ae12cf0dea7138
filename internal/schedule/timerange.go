package schedule

import "time"

// MinutesPerDay is the exclusive upper bound of a day's minute range;
// an EndMinute of 1440 means "end of day".
const MinutesPerDay = 24 * 60

// TimeRange is the resolved wall-clock span of one occurrence on one
// specific day, in minutes from midnight. Values are raw: a zero or
// negative span is legal here and clamped by the presentation layer
// only.
type TimeRange struct {
	StartMinute int
	EndMinute   int

	// CrossesMidnight means the occurrence runs past 24:00 and the
	// range was cut at end of day.
	CrossesMidnight bool

	// ContinuesFromPrev means target is the second day of a one-off
	// cross-midnight schedule and the range was cut at 00:00.
	ContinuesFromPrev bool
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// EffectiveRange resolves the schedule's wall-clock span as rendered on
// target. A missing end time defaults to one hour after the start.
// Recurring schedules are never continuations: every matching date
// anchors its own occurrence at the schedule's start time of day.
func (s Schedule) EffectiveRange(target Date) TimeRange {
	startMin := minuteOfDay(s.Start)
	endMin := startMin + 60
	if s.End != nil {
		endMin = minuteOfDay(*s.End)
	} else if endMin > MinutesPerDay {
		endMin = MinutesPerDay
	}

	switch {
	case !s.recurring() && DateOf(s.Start) != target:
		return TimeRange{StartMinute: 0, EndMinute: endMin, ContinuesFromPrev: true}
	case s.crossesMidnight():
		return TimeRange{StartMinute: startMin, EndMinute: MinutesPerDay, CrossesMidnight: true}
	default:
		return TimeRange{StartMinute: startMin, EndMinute: endMin}
	}
}
