package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/kyagci/agendo/internal/schedule"
)

func (s *Store) CreateTask(title, notes string, due *schedule.Date) (*Task, error) {
	var dueStr any
	if due != nil {
		dueStr = due.String()
	}
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO tasks (title, notes, due_date, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		title, notes, dueStr, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetTask(id)
}

func (s *Store) GetTask(id int64) (*Task, error) {
	row := s.db.QueryRow(
		`SELECT id, title, notes, due_date, done, created_at, updated_at FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err != nil {
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	return t, nil
}

func (s *Store) ListTasks(includeDone bool) ([]Task, error) {
	query := `SELECT id, title, notes, due_date, done, created_at, updated_at FROM tasks`
	if !includeDone {
		query += ` WHERE done = 0`
	}
	query += ` ORDER BY due_date IS NULL, due_date, id`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// TasksDueOn returns the open tasks due on the given date.
func (s *Store) TasksDueOn(d schedule.Date) ([]Task, error) {
	rows, err := s.db.Query(
		`SELECT id, title, notes, due_date, done, created_at, updated_at
		 FROM tasks WHERE due_date = ? AND done = 0 ORDER BY id`, d.String())
	if err != nil {
		return nil, fmt.Errorf("tasks due on %s: %w", d, err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// DueCounts returns the number of open tasks due per day in [from, to].
func (s *Store) DueCounts(from, to schedule.Date) (map[schedule.Date]int, error) {
	rows, err := s.db.Query(
		`SELECT due_date, COUNT(*) FROM tasks
		 WHERE done = 0 AND due_date IS NOT NULL AND due_date >= ? AND due_date <= ?
		 GROUP BY due_date`, from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("due counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[schedule.Date]int)
	for rows.Next() {
		var raw string
		var n int
		if err := rows.Scan(&raw, &n); err != nil {
			return nil, err
		}
		d, err := schedule.ParseDate(raw)
		if err != nil {
			return nil, err
		}
		counts[d] = n
	}
	return counts, rows.Err()
}

func (s *Store) UpdateTask(id int64, title, notes string, due *schedule.Date) error {
	var dueStr any
	if due != nil {
		dueStr = due.String()
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE tasks SET title = ?, notes = ?, due_date = ?, updated_at = ? WHERE id = ?`,
		title, notes, dueStr, now, id,
	)
	return err
}

func (s *Store) SetTaskDone(id int64, done bool) error {
	v := 0
	if done {
		v = 1
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(`UPDATE tasks SET done = ?, updated_at = ? WHERE id = ?`, v, now, id)
	return err
}

func (s *Store) DeleteTask(id int64) error {
	_, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	return err
}

func scanTask(row rowScanner) (*Task, error) {
	t := &Task{}
	var dueRaw sql.NullString
	var done int
	var createdAt, updatedAt string

	if err := row.Scan(&t.ID, &t.Title, &t.Notes, &dueRaw, &done, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	t.Done = done == 1
	if dueRaw.Valid && dueRaw.String != "" {
		d, err := schedule.ParseDate(dueRaw.String)
		if err != nil {
			return nil, fmt.Errorf("task %d due_date: %w", t.ID, err)
		}
		t.Due = &d
	}
	t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	t.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return t, nil
}
