package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/kyagci/agendo/internal/schedule"
)

func (s *Store) CreateSchedule(sc schedule.Schedule) (*schedule.Schedule, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	days, err := marshalDays(sc.Rule.Days)
	if err != nil {
		return nil, err
	}

	var endTime any
	if sc.End != nil {
		endTime = sc.End.Format(wallClockLayout)
	}
	var endDate any
	if !sc.Rule.EndDate.IsZero() {
		endDate = sc.Rule.EndDate.String()
	}

	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO schedules (title, description, location, type, custom_type,
			start_time, end_time, recurrence_type, recurrence_interval, recurrence_days,
			recurrence_end_type, recurrence_end_date, recurrence_end_count, color,
			created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sc.Title, sc.Description, sc.Location, ruleTypeOrDefault(sc.Type), sc.CustomType,
		sc.Start.Format(wallClockLayout), endTime,
		recurOrDefault(sc.Rule.Type), intervalOrDefault(sc.Rule.Interval), days,
		endTypeOrDefault(sc.Rule.EndType), endDate, sc.Rule.EndCount, sc.Color,
		now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert schedule: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetSchedule(id)
}

func (s *Store) GetSchedule(id int64) (*schedule.Schedule, error) {
	row := s.db.QueryRow(scheduleSelect+` WHERE id = ?`, id)
	sc, err := scanSchedule(row)
	if err != nil {
		return nil, fmt.Errorf("get schedule %d: %w", id, err)
	}
	sc.Exceptions, err = s.listExceptions(id)
	if err != nil {
		return nil, err
	}
	return sc, nil
}

// ListSchedules returns all schedules with their exception sets loaded,
// ordered by start time.
func (s *Store) ListSchedules() ([]schedule.Schedule, error) {
	rows, err := s.db.Query(scheduleSelect + ` ORDER BY start_time, id`)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	defer rows.Close()

	var schedules []schedule.Schedule
	for rows.Next() {
		sc, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, *sc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	exceptions, err := s.allExceptions()
	if err != nil {
		return nil, err
	}
	for i := range schedules {
		schedules[i].Exceptions = exceptions[schedules[i].ID]
	}
	return schedules, nil
}

func (s *Store) UpdateSchedule(sc schedule.Schedule) error {
	if err := sc.Validate(); err != nil {
		return err
	}
	days, err := marshalDays(sc.Rule.Days)
	if err != nil {
		return err
	}

	var endTime any
	if sc.End != nil {
		endTime = sc.End.Format(wallClockLayout)
	}
	var endDate any
	if !sc.Rule.EndDate.IsZero() {
		endDate = sc.Rule.EndDate.String()
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.Exec(
		`UPDATE schedules SET title = ?, description = ?, location = ?, type = ?, custom_type = ?,
			start_time = ?, end_time = ?, recurrence_type = ?, recurrence_interval = ?,
			recurrence_days = ?, recurrence_end_type = ?, recurrence_end_date = ?,
			recurrence_end_count = ?, color = ?, updated_at = ?
		 WHERE id = ?`,
		sc.Title, sc.Description, sc.Location, ruleTypeOrDefault(sc.Type), sc.CustomType,
		sc.Start.Format(wallClockLayout), endTime,
		recurOrDefault(sc.Rule.Type), intervalOrDefault(sc.Rule.Interval), days,
		endTypeOrDefault(sc.Rule.EndType), endDate, sc.Rule.EndCount, sc.Color,
		now, sc.ID,
	)
	if err != nil {
		return fmt.Errorf("update schedule %d: %w", sc.ID, err)
	}
	return nil
}

// DeleteSchedule removes the schedule and, via cascade, its exceptions.
// This is the "all occurrences" deletion.
func (s *Store) DeleteSchedule(id int64) error {
	_, err := s.db.Exec(`DELETE FROM schedules WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete schedule %d: %w", id, err)
	}
	return nil
}

// DeleteOccurrence records an exception date, the "this occurrence
// only" deletion. The schedule definition itself is untouched.
func (s *Store) DeleteOccurrence(id int64, d schedule.Date) error {
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO schedule_exceptions (schedule_id, date) VALUES (?, ?)`,
		id, d.String(),
	)
	if err != nil {
		return fmt.Errorf("add exception for schedule %d: %w", id, err)
	}
	return nil
}

// DeleteFromDate truncates the series the day before d, the "this and
// following occurrences" deletion. Occurrences after the cutoff are
// gone; no continuation schedule is created (see SplitSchedule).
func (s *Store) DeleteFromDate(id int64, d schedule.Date) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE schedules SET recurrence_end_type = ?, recurrence_end_date = ?, updated_at = ? WHERE id = ?`,
		string(schedule.EndOnDate), d.AddDays(-1).String(), now, id,
	)
	if err != nil {
		return fmt.Errorf("truncate schedule %d: %w", id, err)
	}
	return nil
}

// SplitSchedule truncates the series before d and clones the remainder
// into a new schedule anchored at d, preserving the time of day and the
// recurrence rule. The clone starts with an empty exception set.
func (s *Store) SplitSchedule(id int64, d schedule.Date) (*schedule.Schedule, error) {
	orig, err := s.GetSchedule(id)
	if err != nil {
		return nil, err
	}
	if err := s.DeleteFromDate(id, d); err != nil {
		return nil, err
	}

	clone := *orig
	clone.ID = 0
	clone.Exceptions = nil
	clone.Start = time.Date(d.Year, d.Month, d.Day,
		orig.Start.Hour(), orig.Start.Minute(), 0, 0, time.UTC)
	if orig.End != nil {
		end := time.Date(d.Year, d.Month, d.Day,
			orig.End.Hour(), orig.End.Minute(), 0, 0, time.UTC)
		clone.End = &end
	}
	return s.CreateSchedule(clone)
}

const scheduleSelect = `SELECT id, title, description, location, type, custom_type,
	start_time, end_time, recurrence_type, recurrence_interval, recurrence_days,
	recurrence_end_type, recurrence_end_date, recurrence_end_count, color,
	created_at, updated_at
	FROM schedules`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSchedule(row rowScanner) (*schedule.Schedule, error) {
	sc := &schedule.Schedule{}
	var (
		evType, recurType, endType       string
		startRaw, createdAt, updatedAt   string
		endRaw, endDateRaw               sql.NullString
		daysRaw                          string
	)

	err := row.Scan(&sc.ID, &sc.Title, &sc.Description, &sc.Location, &evType, &sc.CustomType,
		&startRaw, &endRaw, &recurType, &sc.Rule.Interval, &daysRaw,
		&endType, &endDateRaw, &sc.Rule.EndCount, &sc.Color,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	sc.Type = schedule.EventType(evType)
	sc.Rule.Type = schedule.RecurrenceType(recurType)
	sc.Rule.EndType = schedule.EndType(endType)

	sc.Start, err = parseWallClock(sc.ID, "start_time", startRaw)
	if err != nil {
		return nil, err
	}
	if endRaw.Valid {
		end, err := parseWallClock(sc.ID, "end_time", endRaw.String)
		if err != nil {
			return nil, err
		}
		sc.End = &end
	}
	if endDateRaw.Valid && endDateRaw.String != "" {
		sc.Rule.EndDate, err = schedule.ParseDate(endDateRaw.String)
		if err != nil {
			return nil, fmt.Errorf("schedule %d recurrence_end_date: %w", sc.ID, err)
		}
	}
	sc.Rule.Days, err = unmarshalDays(daysRaw)
	if err != nil {
		return nil, fmt.Errorf("schedule %d: %w", sc.ID, err)
	}

	sc.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	sc.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return sc, nil
}

func (s *Store) listExceptions(id int64) ([]schedule.Date, error) {
	rows, err := s.db.Query(
		`SELECT date FROM schedule_exceptions WHERE schedule_id = ? ORDER BY date`, id)
	if err != nil {
		return nil, fmt.Errorf("list exceptions for schedule %d: %w", id, err)
	}
	defer rows.Close()

	var dates []schedule.Date
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		d, err := schedule.ParseDate(raw)
		if err != nil {
			return nil, fmt.Errorf("schedule %d exception: %w", id, err)
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

func (s *Store) allExceptions() (map[int64][]schedule.Date, error) {
	rows, err := s.db.Query(
		`SELECT schedule_id, date FROM schedule_exceptions ORDER BY schedule_id, date`)
	if err != nil {
		return nil, fmt.Errorf("list exceptions: %w", err)
	}
	defer rows.Close()

	out := make(map[int64][]schedule.Date)
	for rows.Next() {
		var id int64
		var raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		d, err := schedule.ParseDate(raw)
		if err != nil {
			return nil, fmt.Errorf("schedule %d exception: %w", id, err)
		}
		out[id] = append(out[id], d)
	}
	return out, rows.Err()
}

func ruleTypeOrDefault(t schedule.EventType) string {
	if t == "" {
		return string(schedule.EventCustom)
	}
	return string(t)
}

func intervalOrDefault(n int) int {
	if n == 0 {
		return 1
	}
	return n
}

func recurOrDefault(t schedule.RecurrenceType) string {
	if t == "" {
		return string(schedule.RecurNone)
	}
	return string(t)
}

func endTypeOrDefault(t schedule.EndType) string {
	if t == "" {
		return string(schedule.EndNever)
	}
	return string(t)
}
