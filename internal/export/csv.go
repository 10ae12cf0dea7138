package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/kyagci/agendo/internal/schedule"
)

func ToCSV(schedules []schedule.Schedule, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{
		"ID", "Title", "Type", "Start", "End", "Recurrence", "Interval",
		"Days", "End Condition", "Exceptions", "Location",
	}); err != nil {
		return err
	}

	for _, sc := range schedules {
		endStr := ""
		if sc.End != nil {
			endStr = sc.End.Format("15:04")
		}

		var days []string
		for _, wd := range sc.Rule.Days {
			days = append(days, wd.String()[:3])
		}

		endCond := string(schedule.EndNever)
		switch sc.Rule.EndType {
		case schedule.EndOnDate:
			endCond = "until " + sc.Rule.EndDate.String()
		case schedule.EndAfterCount:
			endCond = fmt.Sprintf("%d times", sc.Rule.EndCount)
		}

		var exceptions []string
		for _, ex := range sc.Exceptions {
			exceptions = append(exceptions, ex.String())
		}

		row := []string{
			fmt.Sprintf("%d", sc.ID),
			sc.Title,
			string(sc.Type),
			sc.Start.Format("2006-01-02 15:04"),
			endStr,
			string(sc.Rule.Type),
			fmt.Sprintf("%d", sc.Rule.Interval),
			strings.Join(days, " "),
			endCond,
			strings.Join(exceptions, " "),
			sc.Location,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}
