package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/kyagci/agendo/internal/schedule"
	"github.com/kyagci/agendo/internal/store"
)

type jsonExport struct {
	ExportedAt string         `json:"exported_at"`
	Schedules  []jsonSchedule `json:"schedules"`
	Tasks      []jsonTask     `json:"tasks"`
}

type jsonSchedule struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Location    string   `json:"location,omitempty"`
	Type        string   `json:"type"`
	CustomType  string   `json:"custom_type,omitempty"`
	Start       string   `json:"start_time"`
	End         string   `json:"end_time,omitempty"`
	Recurrence  string   `json:"recurrence_type"`
	Interval    int      `json:"recurrence_interval,omitempty"`
	Days        []int    `json:"recurrence_days,omitempty"`
	EndType     string   `json:"recurrence_end_type,omitempty"`
	EndDate     string   `json:"recurrence_end_date,omitempty"`
	EndCount    int      `json:"recurrence_end_count,omitempty"`
	Exceptions  []string `json:"exception_dates,omitempty"`
	Color       string   `json:"color,omitempty"`
}

type jsonTask struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Notes string `json:"notes,omitempty"`
	Due   string `json:"due_date,omitempty"`
	Done  bool   `json:"done"`
}

func ToJSON(schedules []schedule.Schedule, tasks []store.Task, path string) error {
	out := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
	}

	for _, sc := range schedules {
		js := jsonSchedule{
			ID:          sc.ID,
			Title:       sc.Title,
			Description: sc.Description,
			Location:    sc.Location,
			Type:        string(sc.Type),
			CustomType:  sc.CustomType,
			Start:       sc.Start.Format("2006-01-02T15:04"),
			Recurrence:  string(sc.Rule.Type),
			Interval:    sc.Rule.Interval,
			EndType:     string(sc.Rule.EndType),
			EndCount:    sc.Rule.EndCount,
			Color:       sc.Color,
		}
		if sc.End != nil {
			js.End = sc.End.Format("2006-01-02T15:04")
		}
		for _, wd := range sc.Rule.Days {
			js.Days = append(js.Days, int(wd))
		}
		if !sc.Rule.EndDate.IsZero() {
			js.EndDate = sc.Rule.EndDate.String()
		}
		for _, ex := range sc.Exceptions {
			js.Exceptions = append(js.Exceptions, ex.String())
		}
		out.Schedules = append(out.Schedules, js)
	}

	for _, t := range tasks {
		jt := jsonTask{
			ID:    t.ID,
			Title: t.Title,
			Notes: t.Notes,
			Done:  t.Done,
		}
		if t.Due != nil {
			jt.Due = t.Due.String()
		}
		out.Tasks = append(out.Tasks, jt)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
