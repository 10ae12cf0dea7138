package tui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/kyagci/agendo/internal/schedule"
	"github.com/kyagci/agendo/internal/store"
)

// timeline rows are half-hour slots
const rowMinutes = 30

var deleteOptions = []string{"This occurrence", "This and following", "All occurrences"}

// dayModel renders a single day as a timeline. Overlapping occurrences
// are placed side by side using the layout engine's column assignment.
type dayModel struct {
	store  *store.Store
	width  int
	height int

	date      schedule.Date
	occs      []schedule.Occurrence
	slots     map[int64]schedule.Slot
	schedules map[int64]schedule.Schedule
	dueTasks  []store.Task
	errCount  int

	cursor       int
	minBlock     int
	dayStartHour int

	deletePicking bool
	deleteCursor  int

	formActive bool
	form       *huh.Form
	formEdit   bool
	editingID  int64

	// Form field pointers (survive value copies)
	fTitle       *string
	fDescription *string
	fLocation    *string
	fType        *string
	fCustomType  *string
	fDate        *string
	fStart       *string
	fEnd         *string
	fRecur       *string
	fInterval    *string
	fDays        *[]int
	fEndType     *string
	fEndDate     *string
	fEndCount    *string
	fColor       *string
}

func newDayModel(s *store.Store) dayModel {
	var (
		title, desc, loc, typ, custom     string
		date, start, end, recur, interval string
		endType, endDate, endCount, color string
		days                              []int
	)
	return dayModel{
		store:        s,
		date:         schedule.DateOf(time.Now()),
		minBlock:     30,
		dayStartHour: 8,
		fTitle:       &title,
		fDescription: &desc,
		fLocation:    &loc,
		fType:        &typ,
		fCustomType:  &custom,
		fDate:        &date,
		fStart:       &start,
		fEnd:         &end,
		fRecur:       &recur,
		fInterval:    &interval,
		fDays:        &days,
		fEndType:     &endType,
		fEndDate:     &endDate,
		fEndCount:    &endCount,
		fColor:       &color,
	}
}

func (d *dayModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

func (d dayModel) refresh() tea.Cmd {
	date := d.date
	return func() tea.Msg {
		schedules, err := d.store.ListSchedules()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}

		occs, errs := schedule.ResolveDay(schedules, date)
		slots := schedule.LayoutDay(occs)

		byID := make(map[int64]schedule.Schedule, len(schedules))
		for _, sc := range schedules {
			byID[sc.ID] = sc
		}

		due, err := d.store.TasksDueOn(date)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}

		minBlock := settingInt(d.store, "min_block_minutes", 30)
		startHour := settingInt(d.store, "day_start_hour", 8)

		return dayDataMsg{
			occs:         occs,
			slots:        slots,
			schedules:    byID,
			dueTasks:     due,
			minBlock:     minBlock,
			dayStartHour: startHour,
			errs:         errs,
		}
	}
}

func settingInt(s *store.Store, name string, fallback int) int {
	v, err := s.GetSetting(name)
	if err != nil {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func (d dayModel) update(msg tea.Msg) (dayModel, tea.Cmd) {
	if d.formActive && d.form != nil {
		return d.updateForm(msg)
	}
	if d.deletePicking {
		if msg, ok := msg.(tea.KeyMsg); ok {
			return d.updateDeletePicker(msg)
		}
	}

	switch msg := msg.(type) {
	case dayDataMsg:
		d.occs = msg.occs
		sort.SliceStable(d.occs, func(i, j int) bool {
			if d.occs[i].StartMinute != d.occs[j].StartMinute {
				return d.occs[i].StartMinute < d.occs[j].StartMinute
			}
			return d.occs[i].ScheduleID < d.occs[j].ScheduleID
		})
		d.slots = msg.slots
		d.schedules = msg.schedules
		d.dueTasks = msg.dueTasks
		d.minBlock = msg.minBlock
		d.dayStartHour = msg.dayStartHour
		d.errCount = len(msg.errs)
		if d.cursor >= len(d.occs) {
			d.cursor = max(0, len(d.occs)-1)
		}
		return d, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			d.date = d.date.AddDays(-1)
			d.cursor = 0
			return d, d.refresh()
		case key.Matches(msg, keys.Right):
			d.date = d.date.AddDays(1)
			d.cursor = 0
			return d, d.refresh()
		case key.Matches(msg, keys.Today):
			d.date = schedule.DateOf(time.Now())
			d.cursor = 0
			return d, d.refresh()
		case key.Matches(msg, keys.Up):
			if d.cursor > 0 {
				d.cursor--
			}
		case key.Matches(msg, keys.Down):
			if d.cursor < len(d.occs)-1 {
				d.cursor++
			}
		case key.Matches(msg, keys.New):
			return d.showForm(nil)
		case key.Matches(msg, keys.Edit):
			if sc, ok := d.selectedSchedule(); ok {
				return d.showForm(&sc)
			}
		case key.Matches(msg, keys.Delete):
			return d.startDelete()
		case key.Matches(msg, keys.Split):
			return d.splitSelected()
		}
	}
	return d, nil
}

func (d dayModel) selectedSchedule() (schedule.Schedule, bool) {
	if d.cursor >= len(d.occs) {
		return schedule.Schedule{}, false
	}
	sc, ok := d.schedules[d.occs[d.cursor].ScheduleID]
	return sc, ok
}

func (d dayModel) startDelete() (dayModel, tea.Cmd) {
	sc, ok := d.selectedSchedule()
	if !ok {
		return d, nil
	}
	if sc.Rule.Type == schedule.RecurNone {
		// One-off: nothing to scope, delete outright.
		if err := d.store.DeleteSchedule(sc.ID); err != nil {
			return d, errStatus("Delete error", err)
		}
		return d, d.refresh()
	}
	d.deletePicking = true
	d.deleteCursor = 0
	return d, nil
}

func errStatus(prefix string, err error) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: fmt.Sprintf("%s: %v", prefix, err), isError: true}
	}
}

func (d dayModel) updateDeletePicker(msg tea.KeyMsg) (dayModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if d.deleteCursor > 0 {
			d.deleteCursor--
		}
	case key.Matches(msg, keys.Down):
		if d.deleteCursor < len(deleteOptions)-1 {
			d.deleteCursor++
		}
	case key.Matches(msg, keys.Back):
		d.deletePicking = false
	case key.Matches(msg, keys.Enter):
		d.deletePicking = false
		sc, ok := d.selectedSchedule()
		if !ok {
			return d, nil
		}
		var err error
		switch d.deleteCursor {
		case 0:
			err = d.store.DeleteOccurrence(sc.ID, d.date)
		case 1:
			err = d.store.DeleteFromDate(sc.ID, d.date)
		default:
			err = d.store.DeleteSchedule(sc.ID)
		}
		if err != nil {
			return d, errStatus("Delete error", err)
		}
		return d, d.refresh()
	}
	return d, nil
}

func (d dayModel) splitSelected() (dayModel, tea.Cmd) {
	sc, ok := d.selectedSchedule()
	if !ok || sc.Rule.Type == schedule.RecurNone {
		return d, nil
	}
	if _, err := d.store.SplitSchedule(sc.ID, d.date); err != nil {
		return d, errStatus("Split error", err)
	}
	return d, d.refresh()
}

func (d dayModel) view() string {
	if d.formActive && d.form != nil {
		title := titleStyle.Render("New Schedule")
		if d.formEdit {
			title = titleStyle.Render("Edit Schedule")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", d.form.View())
		return panelStyle.Width(d.width - 4).Render(content)
	}
	if d.deletePicking {
		return d.renderDeletePicker()
	}

	var rows []string
	weekday := d.date.Weekday().String()
	rows = append(rows, titleStyle.Render(fmt.Sprintf("%s, %s", weekday, d.date)))
	if d.errCount > 0 {
		rows = append(rows, errorStyle.Render(fmt.Sprintf("%d schedule(s) failed to resolve", d.errCount)))
	}
	rows = append(rows, "")

	if len(d.occs) == 0 {
		rows = append(rows, mutedStyle.Render("Nothing scheduled. Press n to add."))
	} else {
		rows = append(rows, d.renderTimeline()...)
	}

	if len(d.dueTasks) > 0 {
		rows = append(rows, "")
		rows = append(rows, subtitleStyle.Render("Due today:"))
		for _, t := range d.dueTasks {
			mark := "☐"
			if t.Done {
				mark = "☑"
			}
			rows = append(rows, warningStyle.Render("  "+mark+" "+t.Title))
		}
	}

	rows = append(rows, "")
	rows = append(rows, subtitleStyle.Render("←/→: day  n: new  e: edit  d: delete  s: split  t: today"))

	return panelStyle.Width(d.width - 4).Render(strings.Join(rows, "\n"))
}

// renderTimeline draws half-hour rows from the configured day start (or
// earlier when something starts before it) to midnight. Blocks shorter
// than min_block_minutes are stretched for display only.
func (d dayModel) renderTimeline() []string {
	gutter := 6
	usable := d.width - 12 - gutter
	if usable < 10 {
		usable = 10
	}

	// Display ranges with the minimum height clamp applied.
	starts := make([]int, len(d.occs))
	ends := make([]int, len(d.occs))
	firstRow := d.dayStartHour * 60
	lastRow := 0
	for i, o := range d.occs {
		starts[i] = o.StartMinute
		ends[i] = max(o.EndMinute, o.StartMinute+d.minBlock)
		if ends[i] > schedule.MinutesPerDay {
			ends[i] = schedule.MinutesPerDay
		}
		if starts[i] < firstRow {
			firstRow = (starts[i] / rowMinutes) * rowMinutes
		}
		if ends[i] > lastRow {
			lastRow = ends[i]
		}
	}
	if lastRow < firstRow+rowMinutes {
		lastRow = firstRow + rowMinutes
	}

	var rows []string
	for mr := firstRow; mr < lastRow && mr < schedule.MinutesPerDay; mr += rowMinutes {
		label := "      "
		if mr%60 == 0 {
			label = mutedStyle.Render(fmt.Sprintf("%s ", formatMinute(mr)))
		}

		var covering []int
		for i := range d.occs {
			if starts[i] <= mr && mr < ends[i] {
				covering = append(covering, i)
			}
		}

		if len(covering) == 0 {
			rows = append(rows, label+mutedStyle.Render("·"))
			continue
		}

		cols := 1
		for _, i := range covering {
			if s, ok := d.slots[d.occs[i].ScheduleID]; ok && s.Columns > cols {
				cols = s.Columns
			}
		}
		if len(covering) > cols {
			cols = len(covering)
		}

		// Place each covering occurrence in its assigned column; fall
		// back to the next free one if the display clamp caused a clash.
		placed := make([]int, cols)
		for c := range placed {
			placed[c] = -1
		}
		for _, i := range covering {
			c := 0
			if s, ok := d.slots[d.occs[i].ScheduleID]; ok {
				c = s.Column
			}
			for c < cols && placed[c] != -1 {
				c++
			}
			if c < cols {
				placed[c] = i
			}
		}

		colWidth := usable / cols
		if colWidth < 4 {
			colWidth = 4
		}
		segs := make([]string, cols)
		for c := 0; c < cols; c++ {
			i := placed[c]
			if i == -1 {
				segs[c] = strings.Repeat(" ", colWidth)
				continue
			}
			head := mr == (starts[i]/rowMinutes)*rowMinutes
			segs[c] = d.renderBlockRow(i, head, colWidth)
		}
		rows = append(rows, label+lipgloss.JoinHorizontal(lipgloss.Top, segs...))
	}
	return rows
}

func (d dayModel) renderBlockRow(i int, head bool, width int) string {
	o := d.occs[i]
	sc := d.schedules[o.ScheduleID]

	text := "▎"
	if head {
		title := sc.Title
		if o.ContinuesFromPrev {
			title = "…" + title
		}
		suffix := ""
		if o.ContinuesToNext {
			suffix = "…"
		}
		text = fmt.Sprintf("▎%s %s-%s%s", title,
			formatMinute(o.StartMinute), formatMinute(o.EndMinute), suffix)
	}
	text = truncate(text, width)

	style := lipgloss.NewStyle().Foreground(scheduleColor(sc.Color))
	if i == d.cursor {
		style = style.Bold(true).Underline(head)
	}
	return style.Width(width).Render(text)
}

func truncate(s string, w int) string {
	r := []rune(s)
	if len(r) <= w {
		return s
	}
	if w <= 1 {
		return string(r[:w])
	}
	return string(r[:w-1]) + "…"
}

func (d dayModel) renderDeletePicker() string {
	sc, _ := d.selectedSchedule()
	var rows []string
	rows = append(rows, titleStyle.Render("Delete \""+sc.Title+"\""))
	rows = append(rows, "")
	for i, opt := range deleteOptions {
		cursor := "  "
		style := normalItemStyle
		if i == d.deleteCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+opt))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: confirm  esc: cancel"))
	return activePanelStyle.Width(d.width - 4).Render(strings.Join(rows, "\n"))
}
