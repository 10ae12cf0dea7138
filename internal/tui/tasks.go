package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/kyagci/agendo/internal/schedule"
	"github.com/kyagci/agendo/internal/store"
)

type tasksModel struct {
	store  *store.Store
	width  int
	height int

	tasks    []store.Task
	cursor   int
	showDone bool

	formActive bool
	form       *huh.Form
	formEdit   bool
	editingID  int64

	// Form field pointers (survive value copies)
	fTitle *string
	fNotes *string
	fDue   *string
}

func newTasksModel(s *store.Store) tasksModel {
	title, notes, due := "", "", ""
	return tasksModel{
		store:  s,
		fTitle: &title,
		fNotes: &notes,
		fDue:   &due,
	}
}

func (t *tasksModel) setSize(w, h int) {
	t.width = w
	t.height = h
}

type tasksDataMsg struct {
	tasks []store.Task
}

func (t tasksModel) refresh() tea.Cmd {
	showDone := t.showDone
	return func() tea.Msg {
		tasks, err := t.store.ListTasks(showDone)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}
		return tasksDataMsg{tasks: tasks}
	}
}

func (t tasksModel) update(msg tea.Msg) (tasksModel, tea.Cmd) {
	if t.formActive && t.form != nil {
		return t.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tasksDataMsg:
		t.tasks = msg.tasks
		if t.cursor >= len(t.tasks) {
			t.cursor = max(0, len(t.tasks)-1)
		}
		return t, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if t.cursor > 0 {
				t.cursor--
			}
		case key.Matches(msg, keys.Down):
			if t.cursor < len(t.tasks)-1 {
				t.cursor++
			}
		case key.Matches(msg, keys.New):
			return t.showTaskForm(nil)
		case key.Matches(msg, keys.Edit):
			if t.cursor < len(t.tasks) {
				task := t.tasks[t.cursor]
				return t.showTaskForm(&task)
			}
		case key.Matches(msg, keys.Done):
			if t.cursor < len(t.tasks) {
				task := t.tasks[t.cursor]
				if err := t.store.SetTaskDone(task.ID, !task.Done); err != nil {
					return t, errStatus("Task error", err)
				}
				return t, t.refresh()
			}
		case key.Matches(msg, keys.Delete):
			if t.cursor < len(t.tasks) {
				if err := t.store.DeleteTask(t.tasks[t.cursor].ID); err != nil {
					return t, errStatus("Task error", err)
				}
				return t, t.refresh()
			}
		case key.Matches(msg, keys.Split):
			t.showDone = !t.showDone
			return t, t.refresh()
		}
	}
	return t, nil
}

func (t tasksModel) showTaskForm(task *store.Task) (tasksModel, tea.Cmd) {
	if task == nil {
		*t.fTitle = ""
		*t.fNotes = ""
		*t.fDue = ""
		t.formEdit = false
		t.editingID = 0
	} else {
		*t.fTitle = task.Title
		*t.fNotes = task.Notes
		*t.fDue = ""
		if task.Due != nil {
			*t.fDue = task.Due.String()
		}
		t.formEdit = true
		t.editingID = task.ID
	}

	t.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(t.fTitle),
			huh.NewInput().Title("Notes").Value(t.fNotes),
			huh.NewInput().Title("Due date (YYYY-MM-DD, optional)").Value(t.fDue).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					return validateDate(s)
				}),
		),
	).WithShowHelp(true).WithShowErrors(true)

	t.formActive = true
	return t, t.form.Init()
}

func (t tasksModel) updateForm(msg tea.Msg) (tasksModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			t.formActive = false
			t.form = nil
			return t, nil
		}
	}

	form, cmd := t.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		t.form = f
	}

	if t.form.State == huh.StateCompleted {
		t.formActive = false
		if strings.TrimSpace(*t.fTitle) == "" {
			return t, t.refresh()
		}

		var due *schedule.Date
		if s := strings.TrimSpace(*t.fDue); s != "" {
			if d, err := schedule.ParseDate(s); err == nil {
				due = &d
			}
		}

		title, notes := strings.TrimSpace(*t.fTitle), *t.fNotes
		var err error
		if t.formEdit {
			err = t.store.UpdateTask(t.editingID, title, notes, due)
		} else {
			_, err = t.store.CreateTask(title, notes, due)
		}
		if err != nil {
			return t, errStatus("Task error", err)
		}
		return t, t.refresh()
	}

	return t, cmd
}

func (t tasksModel) view() string {
	w := t.width - 4

	if t.formActive && t.form != nil {
		title := titleStyle.Render("New Task")
		if t.formEdit {
			title = titleStyle.Render("Edit Task")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", t.form.View())
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Tasks")
	if t.showDone {
		title += mutedStyle.Render("  (showing done)")
	}

	if len(t.tasks) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No tasks. Press n to add one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	today := schedule.DateOf(time.Now())

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for i, task := range t.tasks {
		cursor := "  "
		style := normalItemStyle
		if i == t.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		mark := "☐"
		if task.Done {
			mark = "☑"
			style = mutedStyle
		}

		due := ""
		if task.Due != nil {
			dueStyle := mutedStyle
			if !task.Done && task.Due.Before(today) {
				dueStyle = errorStyle
			} else if !task.Done && *task.Due == today {
				dueStyle = warningStyle
			}
			due = dueStyle.Render("  due " + task.Due.String())
		}

		rows = append(rows, style.Render(fmt.Sprintf("%s%s %s", cursor, mark, task.Title))+due)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  e: edit  space: toggle  d: delete  s: show done"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
