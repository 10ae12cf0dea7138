package schedule

import (
	"fmt"
	"time"
)

// EventType classifies a schedule for display purposes only.
type EventType string

const (
	EventCourse  EventType = "course"
	EventMidterm EventType = "midterm"
	EventFinal   EventType = "final"
	EventCustom  EventType = "custom"
)

// RecurrenceType selects the recurrence dispatch. Custom behaves like
// weekly but always carries an explicit day-of-week set.
type RecurrenceType string

const (
	RecurNone    RecurrenceType = "none"
	RecurDaily   RecurrenceType = "daily"
	RecurWeekly  RecurrenceType = "weekly"
	RecurMonthly RecurrenceType = "monthly"
	RecurYearly  RecurrenceType = "yearly"
	RecurCustom  RecurrenceType = "custom"
)

// EndType selects the recurrence end condition.
type EndType string

const (
	EndNever      EndType = "never"
	EndOnDate     EndType = "date"
	EndAfterCount EndType = "count"
)

// Rule is the recurrence rule of a schedule.
type Rule struct {
	Type     RecurrenceType
	Interval int            // every N units; 0 means the default of 1
	Days     []time.Weekday // weekly/custom only; empty means the anchor's weekday
	EndType  EndType
	EndDate  Date // inclusive; EndOnDate only
	EndCount int  // maximum occurrences; EndAfterCount only
}

// interval returns the effective interval, treating the zero value as
// the documented default of 1. Negative intervals are rejected by the
// resolver, not normalized here.
func (r Rule) interval() int {
	if r.Interval == 0 {
		return 1
	}
	return r.Interval
}

// Schedule is a recurring or one-off time-boxed event definition.
type Schedule struct {
	ID          int64
	Title       string
	Description string
	Location    string
	Type        EventType
	CustomType  string

	// Start anchors the time of day and the first possible date. For a
	// non-recurring schedule it is the exact occurrence instant.
	Start time.Time

	// End is optional. A time of day strictly earlier than Start's
	// means the occurrence spans past midnight into the next day.
	End *time.Time

	Rule  Rule
	Color string

	// Exceptions are dates on which the schedule is suppressed even
	// though the rule would otherwise produce an occurrence.
	Exceptions []Date

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the recurrence fields the way the editor must before
// persisting. The resolver is more forgiving (unknown values degrade to
// "does not occur"), but nothing invalid should be authored.
func (s Schedule) Validate() error {
	if s.Rule.Interval < 0 {
		return fmt.Errorf("%w: interval %d", ErrInvalidRule, s.Rule.Interval)
	}
	switch s.Rule.Type {
	case RecurNone, RecurDaily, RecurWeekly, RecurMonthly, RecurYearly, RecurCustom, "":
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidRule, s.Rule.Type)
	}
	switch s.Rule.EndType {
	case EndNever, EndOnDate, EndAfterCount, "":
	default:
		return fmt.Errorf("%w: unknown end type %q", ErrInvalidRule, s.Rule.EndType)
	}
	for _, wd := range s.Rule.Days {
		if wd < time.Sunday || wd > time.Saturday {
			return fmt.Errorf("%w: weekday %d", ErrInvalidRule, wd)
		}
	}
	if s.Rule.EndType == EndOnDate && s.Rule.EndDate.IsZero() {
		return fmt.Errorf("%w: end type %q without end date", ErrInvalidRule, EndOnDate)
	}
	if s.Rule.EndType == EndAfterCount && s.Rule.EndCount < 1 {
		return fmt.Errorf("%w: end count %d", ErrInvalidRule, s.Rule.EndCount)
	}
	return nil
}

// recurring reports whether the schedule has a recurrence rule at all.
func (s Schedule) recurring() bool {
	return s.Rule.Type != RecurNone && s.Rule.Type != ""
}

// crossesMidnight reports whether the schedule's end time of day is
// strictly earlier than its start time of day.
func (s Schedule) crossesMidnight() bool {
	return s.End != nil && minuteOfDay(*s.End) < minuteOfDay(s.Start)
}

// weekdayAt wraps an unnormalized weekday number into 0..6.
func weekdayAt(n int) time.Weekday {
	return time.Weekday(n % 7)
}

// weekdaySet returns the effective day-of-week set for weekly/custom
// rules: the explicit set, or the anchor's weekday when none is given.
func (r Rule) weekdaySet(anchor Date) map[time.Weekday]bool {
	set := make(map[time.Weekday]bool, len(r.Days))
	for _, wd := range r.Days {
		set[wd] = true
	}
	if len(set) == 0 {
		set[anchor.Weekday()] = true
	}
	return set
}
