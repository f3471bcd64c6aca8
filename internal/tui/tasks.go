package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/pomodr/internal/tasks"
)

type tasksModel struct {
	list   *tasks.List
	width  int
	height int

	cursor int

	formActive bool
	form       *huh.Form

	// Form field pointer (survives value copies)
	formText *string
}

func newTasksModel(l *tasks.List) tasksModel {
	text := ""
	return tasksModel{list: l, formText: &text}
}

func (t *tasksModel) setSize(w, h int) {
	t.width = w
	t.height = h
}

func (t tasksModel) update(msg tea.Msg) (tasksModel, tea.Cmd) {
	if t.formActive && t.form != nil {
		return t.updateForm(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return t, nil
	}

	items := t.list.Items()
	switch {
	case key.Matches(km, keys.Up):
		if t.cursor > 0 {
			t.cursor--
		}
	case key.Matches(km, keys.Down):
		if t.cursor < len(items)-1 {
			t.cursor++
		}
	case key.Matches(km, keys.New):
		return t.showNewTaskForm()
	case key.Matches(km, keys.Enter), key.Matches(km, keys.Toggle):
		if len(items) > 0 {
			t.list.Toggle(items[t.cursor].ID)
		}
	case key.Matches(km, keys.Delete):
		if len(items) > 0 {
			t.list.Delete(items[t.cursor].ID)
			t.clampCursor()
		}
	}
	return t, nil
}

func (t *tasksModel) clampCursor() {
	n := len(t.list.Items())
	if t.cursor >= n {
		t.cursor = max(0, n-1)
	}
}

func (t tasksModel) showNewTaskForm() (tasksModel, tea.Cmd) {
	*t.formText = ""

	t.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Task").
				Placeholder("What are you working on?").
				Value(t.formText),
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
		t.form = nil
		if !t.list.Add(*t.formText) {
			return t, statusCmd("Task text cannot be empty", true)
		}
		t.cursor = 0
		return t, nil
	}

	return t, cmd
}

func (t tasksModel) view() string {
	w := t.width - 4

	if t.formActive && t.form != nil {
		title := titleStyle.Render("New Task")
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", t.form.View())
		return panelStyle.Width(w).Render(content)
	}

	total, completed := t.list.Stats()
	title := titleStyle.Render("Tasks")
	if total > 0 {
		title += mutedStyle.Render(fmt.Sprintf("  %d/%d done", completed, total))
	}

	items := t.list.Items()
	if len(items) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No tasks yet. Press n to add one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for i, task := range items {
		cursor := "  "
		style := normalItemStyle
		if task.Completed {
			style = doneItemStyle
		}
		if i == t.cursor {
			cursor = "> "
			if !task.Completed {
				style = selectedItemStyle
			}
		}
		check := mutedStyle.Render("[ ]")
		if task.Completed {
			check = successStyle.Render("[✓]")
		}
		rows = append(rows, cursor+check+" "+style.Render(task.Text))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  enter/space: toggle  d: delete"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
