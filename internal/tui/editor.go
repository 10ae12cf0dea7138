package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/kyagci/agendo/internal/schedule"
)

var (
	eventTypes   = []string{"course", "midterm", "final", "custom"}
	recurTypes   = []string{"none", "daily", "weekly", "monthly", "yearly", "custom"}
	endTypes     = []string{"never", "date", "count"}
	formWeekdays = []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
		time.Friday, time.Saturday, time.Sunday,
	}
)

// showForm opens the schedule editor, prefilled from sc when editing.
func (d dayModel) showForm(sc *schedule.Schedule) (dayModel, tea.Cmd) {
	if sc == nil {
		*d.fTitle = ""
		*d.fDescription = ""
		*d.fLocation = ""
		*d.fType = string(schedule.EventCourse)
		*d.fCustomType = ""
		*d.fDate = d.date.String()
		*d.fStart = "09:00"
		*d.fEnd = "10:00"
		*d.fRecur = string(schedule.RecurNone)
		*d.fInterval = "1"
		*d.fDays = nil
		*d.fEndType = string(schedule.EndNever)
		*d.fEndDate = ""
		*d.fEndCount = ""
		*d.fColor = scheduleColorNames[0]
		d.formEdit = false
		d.editingID = 0
	} else {
		*d.fTitle = sc.Title
		*d.fDescription = sc.Description
		*d.fLocation = sc.Location
		*d.fType = string(sc.Type)
		*d.fCustomType = sc.CustomType
		*d.fDate = schedule.DateOf(sc.Start).String()
		*d.fStart = sc.Start.Format("15:04")
		*d.fEnd = ""
		if sc.End != nil {
			*d.fEnd = sc.End.Format("15:04")
		}
		*d.fRecur = string(sc.Rule.Type)
		*d.fInterval = strconv.Itoa(sc.Rule.Interval)
		days := make([]int, len(sc.Rule.Days))
		for i, wd := range sc.Rule.Days {
			days[i] = int(wd)
		}
		*d.fDays = days
		*d.fEndType = string(sc.Rule.EndType)
		*d.fEndDate = ""
		if !sc.Rule.EndDate.IsZero() {
			*d.fEndDate = sc.Rule.EndDate.String()
		}
		*d.fEndCount = ""
		if sc.Rule.EndCount > 0 {
			*d.fEndCount = strconv.Itoa(sc.Rule.EndCount)
		}
		*d.fColor = sc.Color
		d.formEdit = true
		d.editingID = sc.ID
	}

	typeOptions := make([]huh.Option[string], len(eventTypes))
	for i, t := range eventTypes {
		typeOptions[i] = huh.NewOption(t, t)
	}
	recurOptions := make([]huh.Option[string], len(recurTypes))
	for i, t := range recurTypes {
		recurOptions[i] = huh.NewOption(t, t)
	}
	dayOptions := make([]huh.Option[int], len(formWeekdays))
	for i, wd := range formWeekdays {
		dayOptions[i] = huh.NewOption(wd.String(), int(wd))
	}
	endOptions := make([]huh.Option[string], len(endTypes))
	for i, t := range endTypes {
		endOptions[i] = huh.NewOption(t, t)
	}
	colorOptions := make([]huh.Option[string], len(scheduleColorNames))
	for i, c := range scheduleColorNames {
		colorOptions[i] = huh.NewOption("● "+c, c)
	}

	d.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(d.fTitle),
			huh.NewSelect[string]().Title("Type").Options(typeOptions...).Value(d.fType),
			huh.NewInput().Title("Custom type (optional)").Value(d.fCustomType),
			huh.NewInput().Title("Date (YYYY-MM-DD)").Value(d.fDate).Validate(validateDate),
			huh.NewInput().Title("Start (HH:MM)").Value(d.fStart).Validate(validateClock),
			huh.NewInput().Title("End (HH:MM, empty for 1h)").Value(d.fEnd).Validate(validateOptionalClock),
			huh.NewInput().Title("Location").Value(d.fLocation),
			huh.NewInput().Title("Description").Value(d.fDescription),
		),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Repeats").Options(recurOptions...).Value(d.fRecur),
			huh.NewInput().Title("Every N days/weeks/months").Value(d.fInterval),
			huh.NewMultiSelect[int]().Title("On days (weekly/custom)").Options(dayOptions...).Value(d.fDays),
			huh.NewSelect[string]().Title("Ends").Options(endOptions...).Value(d.fEndType),
			huh.NewInput().Title("End date (YYYY-MM-DD)").Value(d.fEndDate),
			huh.NewInput().Title("End after N occurrences").Value(d.fEndCount),
			huh.NewSelect[string]().Title("Color").Options(colorOptions...).Value(d.fColor),
		),
	).WithShowHelp(true).WithShowErrors(true)

	d.formActive = true
	return d, d.form.Init()
}

func (d dayModel) updateForm(msg tea.Msg) (dayModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			d.formActive = false
			d.form = nil
			return d, nil
		}
	}

	form, cmd := d.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		d.form = f
	}

	if d.form.State == huh.StateCompleted {
		d.formActive = false
		sc, err := d.buildSchedule()
		if err != nil {
			return d, errStatus("Invalid schedule", err)
		}
		if d.formEdit {
			sc.ID = d.editingID
			err = d.store.UpdateSchedule(sc)
		} else {
			_, err = d.store.CreateSchedule(sc)
		}
		if err != nil {
			return d, errStatus("Save error", err)
		}
		return d, d.refresh()
	}

	return d, cmd
}

// buildSchedule assembles a Schedule from the form fields and runs the
// domain validation on the result.
func (d dayModel) buildSchedule() (schedule.Schedule, error) {
	if strings.TrimSpace(*d.fTitle) == "" {
		return schedule.Schedule{}, fmt.Errorf("title is required")
	}

	date, err := schedule.ParseDate(*d.fDate)
	if err != nil {
		return schedule.Schedule{}, err
	}
	startH, startM, err := parseClock(*d.fStart)
	if err != nil {
		return schedule.Schedule{}, err
	}

	sc := schedule.Schedule{
		Title:       strings.TrimSpace(*d.fTitle),
		Description: *d.fDescription,
		Location:    *d.fLocation,
		Type:        schedule.EventType(*d.fType),
		CustomType:  *d.fCustomType,
		Start:       time.Date(date.Year, date.Month, date.Day, startH, startM, 0, 0, time.Local),
		Color:       *d.fColor,
	}

	if strings.TrimSpace(*d.fEnd) != "" {
		endH, endM, err := parseClock(*d.fEnd)
		if err != nil {
			return schedule.Schedule{}, err
		}
		end := time.Date(date.Year, date.Month, date.Day, endH, endM, 0, 0, time.Local)
		sc.End = &end
	}

	rule := schedule.Rule{Type: schedule.RecurrenceType(*d.fRecur)}
	if rule.Type != schedule.RecurNone {
		if n, err := strconv.Atoi(strings.TrimSpace(*d.fInterval)); err == nil {
			rule.Interval = n
		} else {
			rule.Interval = 1
		}
		for _, n := range *d.fDays {
			rule.Days = append(rule.Days, time.Weekday(n))
		}
		rule.EndType = schedule.EndType(*d.fEndType)
		switch rule.EndType {
		case schedule.EndOnDate:
			ed, err := schedule.ParseDate(strings.TrimSpace(*d.fEndDate))
			if err != nil {
				return schedule.Schedule{}, fmt.Errorf("end date: %w", err)
			}
			rule.EndDate = ed
		case schedule.EndAfterCount:
			n, err := strconv.Atoi(strings.TrimSpace(*d.fEndCount))
			if err != nil {
				return schedule.Schedule{}, fmt.Errorf("end count: %w", err)
			}
			rule.EndCount = n
		}
	}
	sc.Rule = rule

	if err := sc.Validate(); err != nil {
		return schedule.Schedule{}, err
	}
	return sc, nil
}

func parseClock(s string) (int, int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	return t.Hour(), t.Minute(), nil
}

func validateDate(s string) error {
	_, err := schedule.ParseDate(strings.TrimSpace(s))
	return err
}

func validateClock(s string) error {
	_, _, err := parseClock(s)
	return err
}

func validateOptionalClock(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return validateClock(s)
}
