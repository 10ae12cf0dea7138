package tui

import (
	"fmt"
	"time"

	"github.com/kyagci/agendo/internal/schedule"
	"github.com/kyagci/agendo/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewMonth viewState = iota
	viewDay
	viewTasks
	viewStats
	viewSettings
)

var viewNames = []string{"Month", "Day", "Tasks", "Stats", "Settings"}

// maxIndicatorDots caps the per-day dot row in the month grid; the
// underlying count stays exact.
const maxIndicatorDots = 3

// --- Messages ---

type monthDataMsg struct {
	counts    map[schedule.Date]int
	dueCounts map[schedule.Date]int
	weekStart time.Weekday
	errs      []schedule.ResolveError
}

type dayDataMsg struct {
	occs         []schedule.Occurrence
	slots        map[int64]schedule.Slot
	schedules    map[int64]schedule.Schedule
	dueTasks     []store.Task
	minBlock     int
	dayStartHour int
	errs         []schedule.ResolveError
}

type openDayMsg struct {
	date schedule.Date
}

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

// formatMinute renders a minute-of-day as a clock label; 1440 is the
// end-of-day boundary.
func formatMinute(m int) string {
	if m >= schedule.MinutesPerDay {
		return "24:00"
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

func clampDots(n int) int {
	if n > maxIndicatorDots {
		return maxIndicatorDots
	}
	return n
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
