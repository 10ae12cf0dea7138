package schedule

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar date with no time component. All recurrence
// arithmetic runs on Dates so that timezone or daylight-saving shifts in
// the underlying wall-clock values can never change which day an
// occurrence lands on.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t's wall clock. The location of t
// is ignored on purpose: schedules are anchored in whatever consistent
// local time they were written in.
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// ParseDate parses a "2006-01-02" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateOf(t), nil
}

func (d Date) String() string {
	return d.time().Format(dateLayout)
}

func (d Date) IsZero() bool {
	return d == Date{}
}

// time returns midnight UTC of d. Fixed UTC keeps day arithmetic exact;
// the value never leaves this package.
func (d Date) time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) AddDays(n int) Date {
	return DateOf(d.time().AddDate(0, 0, n))
}

func (d Date) Weekday() time.Weekday {
	return d.time().Weekday()
}

func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

func (d Date) After(o Date) bool {
	return o.Before(d)
}

// DaysBetween returns the number of whole days from a to b, negative
// when b precedes a.
func DaysBetween(a, b Date) int {
	return int(b.time().Sub(a.time()).Hours() / 24)
}

// monthsBetween returns (b.Year-a.Year)*12 + (b.Month-a.Month),
// ignoring the day of month.
func monthsBetween(a, b Date) int {
	return (b.Year-a.Year)*12 + int(b.Month) - int(a.Month)
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
