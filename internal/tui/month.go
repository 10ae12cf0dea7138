package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kyagci/agendo/internal/schedule"
	"github.com/kyagci/agendo/internal/store"
)

// monthModel renders the month calendar grid. Each day cell shows up to
// three dots for scheduled occurrences and a marker for due tasks.
type monthModel struct {
	store  *store.Store
	width  int
	height int

	year  int
	month time.Month

	selected  schedule.Date
	counts    map[schedule.Date]int
	dueCounts map[schedule.Date]int
	weekStart time.Weekday
	errCount  int
}

func newMonthModel(s *store.Store) monthModel {
	today := schedule.DateOf(time.Now())
	return monthModel{
		store:     s,
		year:      today.Year,
		month:     today.Month,
		selected:  today,
		weekStart: time.Monday,
	}
}

func (m *monthModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m monthModel) refresh() tea.Cmd {
	year, month := m.year, m.month
	return func() tea.Msg {
		schedules, err := m.store.ListSchedules()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}

		counts, errs := schedule.MonthCounts(schedules, year, month)

		first := schedule.Date{Year: year, Month: month, Day: 1}
		last := schedule.Date{Year: year, Month: month, Day: schedule.DaysInMonth(year, month)}
		dueCounts, err := m.store.DueCounts(first, last)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}

		ws := time.Monday
		if v, err := m.store.GetSetting("week_start"); err == nil && v == "sunday" {
			ws = time.Sunday
		}

		return monthDataMsg{counts: counts, dueCounts: dueCounts, weekStart: ws, errs: errs}
	}
}

func (m monthModel) update(msg tea.Msg) (monthModel, tea.Cmd) {
	switch msg := msg.(type) {
	case monthDataMsg:
		m.counts = msg.counts
		m.dueCounts = msg.dueCounts
		m.weekStart = msg.weekStart
		m.errCount = len(msg.errs)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			return m.moveSelection(-1)
		case key.Matches(msg, keys.Right):
			return m.moveSelection(1)
		case key.Matches(msg, keys.Up):
			return m.moveSelection(-7)
		case key.Matches(msg, keys.Down):
			return m.moveSelection(7)
		case key.Matches(msg, keys.PrevMonth):
			return m.page(-1)
		case key.Matches(msg, keys.NextMonth):
			return m.page(1)
		case key.Matches(msg, keys.Today):
			today := schedule.DateOf(time.Now())
			m.selected = today
			m.year, m.month = today.Year, today.Month
			return m, m.refresh()
		case key.Matches(msg, keys.Enter):
			d := m.selected
			return m, func() tea.Msg { return openDayMsg{date: d} }
		}
	}
	return m, nil
}

func (m monthModel) moveSelection(days int) (monthModel, tea.Cmd) {
	m.selected = m.selected.AddDays(days)
	if m.selected.Year != m.year || m.selected.Month != m.month {
		m.year, m.month = m.selected.Year, m.selected.Month
		return m, m.refresh()
	}
	return m, nil
}

func (m monthModel) page(delta int) (monthModel, tea.Cmd) {
	t := time.Date(m.year, m.month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, delta, 0)
	m.year, m.month = t.Year(), t.Month()
	day := min(m.selected.Day, schedule.DaysInMonth(m.year, m.month))
	m.selected = schedule.Date{Year: m.year, Month: m.month, Day: day}
	return m, m.refresh()
}

const monthCellWidth = 9

func (m monthModel) view() string {
	var b strings.Builder

	title := titleStyle.Render(fmt.Sprintf("%s %d", m.month, m.year))
	b.WriteString(title)
	if m.errCount > 0 {
		b.WriteString("  " + errorStyle.Render(fmt.Sprintf("%d schedule(s) failed to resolve", m.errCount)))
	}
	b.WriteString("\n\n")

	// Weekday header
	var hdr []string
	for i := 0; i < 7; i++ {
		wd := time.Weekday((int(m.weekStart) + i) % 7)
		hdr = append(hdr, weekdayHeaderStyle.Width(monthCellWidth).Render(wd.String()[:3]))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, hdr...))
	b.WriteString("\n")

	today := schedule.DateOf(time.Now())
	first := schedule.Date{Year: m.year, Month: m.month, Day: 1}
	offset := (int(first.Weekday()) - int(m.weekStart) + 7) % 7
	daysInMonth := schedule.DaysInMonth(m.year, m.month)

	day := 1
	for row := 0; day <= daysInMonth; row++ {
		var cells []string
		for col := 0; col < 7; col++ {
			if (row == 0 && col < offset) || day > daysInMonth {
				cells = append(cells, strings.Repeat(" ", monthCellWidth))
				continue
			}
			d := schedule.Date{Year: m.year, Month: m.month, Day: day}
			cells = append(cells, m.renderCell(d, today))
			day++
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderSelectedSummary())
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("enter: open day  [/]: month  t: today"))

	return panelStyle.Width(m.width - 2).Render(b.String())
}

func (m monthModel) renderCell(d, today schedule.Date) string {
	label := fmt.Sprintf("%2d", d.Day)

	dots := strings.Repeat("•", clampDots(m.counts[d]))
	due := ""
	if m.dueCounts[d] > 0 {
		due = "!"
	}
	text := fmt.Sprintf("%s %-3s%s", label, dots, due)

	style := normalItemStyle
	switch {
	case d == m.selected:
		style = selectedCellStyle
	case d == today:
		style = todayCellStyle
	}
	return style.Width(monthCellWidth).Render(text)
}

func (m monthModel) renderSelectedSummary() string {
	n := m.counts[m.selected]
	due := m.dueCounts[m.selected]

	parts := []string{highlightStyle.Render(m.selected.String())}
	switch n {
	case 0:
		parts = append(parts, mutedStyle.Render("no events"))
	case 1:
		parts = append(parts, "1 event")
	default:
		parts = append(parts, fmt.Sprintf("%d events", n))
	}
	if due > 0 {
		parts = append(parts, warningStyle.Render(fmt.Sprintf("%d task(s) due", due)))
	}
	return strings.Join(parts, "  ")
}
