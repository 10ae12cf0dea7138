package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kyagci/agendo/internal/schedule"
	"github.com/kyagci/agendo/internal/store"
)

// dayLoad is the resolved scheduled time of one day, broken down per
// schedule for stacked bars.
type dayLoad struct {
	date  schedule.Date
	parts []loadPart
}

type loadPart struct {
	scheduleID int64
	title      string
	color      string
	minutes    int
}

type statsDataMsg struct {
	days []dayLoad
	errs []schedule.ResolveError
}

// statsModel charts scheduled hours per weekday for one week at a time.
type statsModel struct {
	store  *store.Store
	width  int
	height int

	offset   int // weeks back from the current one (0 = current)
	days     []dayLoad
	errCount int

	chart barchart.Model
}

func newStatsModel(s *store.Store) statsModel {
	return statsModel{
		store: s,
		chart: barchart.New(60, 12),
	}
}

func (r *statsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

func (r statsModel) weekStart() schedule.Date {
	ws := time.Monday
	if v, err := r.store.GetSetting("week_start"); err == nil && v == "sunday" {
		ws = time.Sunday
	}
	today := schedule.DateOf(time.Now())
	back := (int(today.Weekday()) - int(ws) + 7) % 7
	return today.AddDays(-back - 7*r.offset)
}

func (r statsModel) refresh() tea.Cmd {
	start := r.weekStart()
	return func() tea.Msg {
		schedules, err := r.store.ListSchedules()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}

		var days []dayLoad
		var allErrs []schedule.ResolveError
		for i := 0; i < 7; i++ {
			d := start.AddDays(i)
			occs, errs := schedule.ResolveDay(schedules, d)
			allErrs = append(allErrs, errs...)

			load := dayLoad{date: d}
			for _, o := range occs {
				var sc schedule.Schedule
				for _, c := range schedules {
					if c.ID == o.ScheduleID {
						sc = c
						break
					}
				}
				load.parts = append(load.parts, loadPart{
					scheduleID: o.ScheduleID,
					title:      sc.Title,
					color:      sc.Color,
					minutes:    o.Duration(),
				})
			}
			days = append(days, load)
		}

		return statsDataMsg{days: days, errs: allErrs}
	}
}

func (r statsModel) update(msg tea.Msg) (statsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case statsDataMsg:
		r.days = msg.days
		r.errCount = len(msg.errs)
		r.buildChart()
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			r.offset++
			return r, r.refresh()
		case key.Matches(msg, keys.Right):
			if r.offset > 0 {
				r.offset--
			}
			return r, r.refresh()
		case key.Matches(msg, keys.Today):
			r.offset = 0
			return r, r.refresh()
		}
	}
	return r, nil
}

func (r *statsModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	var bars []barchart.BarData
	for _, day := range r.days {
		label := day.date.Weekday().String()[:3]

		var values []barchart.BarValue
		for _, p := range day.parts {
			values = append(values, barchart.BarValue{
				Name:  p.title,
				Value: float64(p.minutes) / 60.0,
				Style: lipgloss.NewStyle().Foreground(scheduleColor(p.color)),
			})
		}
		if len(values) == 0 {
			values = []barchart.BarValue{{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}}
		}

		bars = append(bars, barchart.BarData{
			Label:  label,
			Values: values,
		})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r statsModel) view() string {
	w := r.width - 4

	start := r.weekStart()
	end := start.AddDays(6)
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s to %s", start, end))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Scheduled Hours"), "  ", dateLabel,
	)
	if r.errCount > 0 {
		header += "  " + errorStyle.Render(fmt.Sprintf("%d resolve error(s)", r.errCount))
	}

	chartView := r.chart.View()
	legend := r.renderLegend()
	tableView := r.renderTotals(w)
	nav := mutedStyle.Render("  ←/→: week  t: current week")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", chartView, "", legend, "", tableView, "", nav,
		),
	)
}

func (r statsModel) renderLegend() string {
	seen := make(map[int64]bool)
	var items []string
	for _, day := range r.days {
		for _, p := range day.parts {
			if seen[p.scheduleID] {
				continue
			}
			seen[p.scheduleID] = true
			dot := lipgloss.NewStyle().Foreground(scheduleColor(p.color)).Render("●")
			items = append(items, fmt.Sprintf("%s %s", dot, p.title))
		}
	}
	if len(items) == 0 {
		return ""
	}
	return "  " + strings.Join(items, "  ")
}

func (r statsModel) renderTotals(w int) string {
	totals := make(map[int64]*loadPart)
	var order []int64
	for _, day := range r.days {
		for _, p := range day.parts {
			if t, ok := totals[p.scheduleID]; ok {
				t.minutes += p.minutes
			} else {
				cp := p
				totals[p.scheduleID] = &cp
				order = append(order, p.scheduleID)
			}
		}
	}
	if len(order) == 0 {
		return mutedStyle.Render("  Nothing scheduled this week")
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-28s %10s", "Schedule", "Hours")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 40))))
	for _, id := range order {
		t := totals[id]
		dot := lipgloss.NewStyle().Foreground(scheduleColor(t.color)).Render("●")
		rows = append(rows, fmt.Sprintf("  %s %-26s %9.1fh", dot, truncate(t.title, 26), float64(t.minutes)/60.0))
	}
	return strings.Join(rows, "\n")
}
