package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/kyagci/agendo/internal/schedule"
)

// Schedule date-times are stored as naive wall-clock strings and dates
// as plain calendar dates. No timezone conversion happens anywhere in
// the store; whatever local time a schedule was written in is the time
// it keeps.
const (
	wallClockLayout = "2006-01-02T15:04"
	dateLayout      = "2006-01-02"
)

type Task struct {
	ID        int64
	Title     string
	Notes     string
	Due       *schedule.Date
	Done      bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Setting struct {
	Key   string
	Value string
}

// marshalDays and unmarshalDays confine the JSON-array column format of
// the weekday set to the persistence boundary. The resolver only ever
// sees []time.Weekday.
func marshalDays(days []time.Weekday) (string, error) {
	if len(days) == 0 {
		return "[]", nil
	}
	nums := make([]int, len(days))
	for i, wd := range days {
		nums[i] = int(wd)
	}
	raw, err := json.Marshal(nums)
	if err != nil {
		return "", fmt.Errorf("marshal recurrence days: %w", err)
	}
	return string(raw), nil
}

func unmarshalDays(raw string) ([]time.Weekday, error) {
	if raw == "" || raw == "[]" {
		return nil, nil
	}
	var nums []int
	if err := json.Unmarshal([]byte(raw), &nums); err != nil {
		return nil, fmt.Errorf("unmarshal recurrence days %q: %w", raw, err)
	}
	days := make([]time.Weekday, len(nums))
	for i, n := range nums {
		days[i] = time.Weekday(n)
	}
	return days, nil
}

func parseWallClock(id int64, field, raw string) (time.Time, error) {
	t, err := time.Parse(wallClockLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("schedule %d %s %q: %w", id, field, raw, schedule.ErrInvalidDate)
	}
	return t, nil
}
