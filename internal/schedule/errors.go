package schedule

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDate marks a date or date-time value that failed to
	// parse. Callers must surface it rather than treating the schedule
	// as "no occurrence", so bad rows stay visible.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidRule marks a recurrence rule the resolver cannot
	// evaluate (unknown type, negative interval).
	ErrInvalidRule = errors.New("invalid recurrence rule")
)

// ResolveError ties a resolution failure to the schedule that caused
// it, so one malformed schedule never hides the rest of a day.
type ResolveError struct {
	ScheduleID int64
	Err        error
}

func (e ResolveError) Error() string {
	return fmt.Sprintf("schedule %d: %v", e.ScheduleID, e.Err)
}

func (e ResolveError) Unwrap() error {
	return e.Err
}
