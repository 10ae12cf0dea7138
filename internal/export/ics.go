package export

import (
	"fmt"
	"os"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/kyagci/agendo/internal/schedule"
)

var icsByDay = [7]string{"SU", "MO", "TU", "WE", "TH", "FR", "SA"}

// ToICS writes the schedules as an iCalendar file. Recurrence rules are
// mapped onto RRULE/EXDATE so other calendar apps expand them the same
// way the resolver does, with one documented exception: weeks here are
// anchored on the start date, while RRULE weeks follow WKST.
func ToICS(schedules []schedule.Schedule, path string) error {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//agendo//calendar export//EN")

	for _, sc := range schedules {
		ev := cal.AddEvent(fmt.Sprintf("agendo-schedule-%d", sc.ID))
		ev.SetSummary(sc.Title)
		if sc.Description != "" {
			ev.SetDescription(sc.Description)
		}
		if sc.Location != "" {
			ev.SetLocation(sc.Location)
		}

		ev.SetStartAt(sc.Start)
		ev.SetEndAt(eventEnd(sc))

		if rrule := buildRRule(sc.Rule); rrule != "" {
			ev.AddRrule(rrule)
		}
		for _, ex := range sc.Exceptions {
			ev.AddExdate(exdate(sc.Start, ex))
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create ics file: %w", err)
	}
	defer f.Close()

	if err := cal.SerializeTo(f); err != nil {
		return fmt.Errorf("serialize ics: %w", err)
	}
	return nil
}

// eventEnd resolves the DTEND instant: the explicit end, shifted to the
// next day when the schedule crosses midnight, or start plus one hour.
func eventEnd(sc schedule.Schedule) time.Time {
	if sc.End == nil {
		return sc.Start.Add(time.Hour)
	}
	end := time.Date(sc.Start.Year(), sc.Start.Month(), sc.Start.Day(),
		sc.End.Hour(), sc.End.Minute(), 0, 0, sc.Start.Location())
	if end.Before(sc.Start) {
		end = end.AddDate(0, 0, 1)
	}
	return end
}

func buildRRule(r schedule.Rule) string {
	var freq string
	switch r.Type {
	case schedule.RecurDaily:
		freq = "DAILY"
	case schedule.RecurWeekly, schedule.RecurCustom:
		freq = "WEEKLY"
	case schedule.RecurMonthly:
		freq = "MONTHLY"
	case schedule.RecurYearly:
		freq = "YEARLY"
	default:
		return ""
	}

	parts := []string{"FREQ=" + freq}
	if r.Interval > 1 {
		parts = append(parts, fmt.Sprintf("INTERVAL=%d", r.Interval))
	}
	if freq == "WEEKLY" && len(r.Days) > 0 {
		codes := make([]string, len(r.Days))
		for i, wd := range r.Days {
			codes[i] = icsByDay[wd]
		}
		parts = append(parts, "BYDAY="+strings.Join(codes, ","))
	}
	switch r.EndType {
	case schedule.EndOnDate:
		if !r.EndDate.IsZero() {
			parts = append(parts, "UNTIL="+strings.ReplaceAll(r.EndDate.String(), "-", "")+"T235959Z")
		}
	case schedule.EndAfterCount:
		if r.EndCount > 0 {
			parts = append(parts, fmt.Sprintf("COUNT=%d", r.EndCount))
		}
	}
	return strings.Join(parts, ";")
}

// exdate formats an exception date at the event's start time of day,
// which is how consuming calendars match it against an instance.
func exdate(start time.Time, d schedule.Date) string {
	return time.Date(d.Year, d.Month, d.Day,
		start.Hour(), start.Minute(), 0, 0, start.Location()).Format("20060102T150405")
}
