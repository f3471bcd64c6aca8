package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/pomodr/internal/stats"
	"github.com/sadopc/pomodr/internal/store"
	"github.com/sadopc/pomodr/internal/timer"
)

const historyPageSize = 10

type historyModel struct {
	engine *timer.Engine
	now    func() time.Time
	width  int
	height int

	today    stats.TodaySummary
	sessions []store.Session
	offset   int

	formActive bool
	form       *huh.Form
	confirm    *bool
}

func newHistoryModel(e *timer.Engine, now func() time.Time) historyModel {
	c := false
	return historyModel{engine: e, now: now, confirm: &c}
}

func (h *historyModel) setSize(w, hgt int) {
	h.width = w
	h.height = hgt
}

type historyDataMsg struct {
	today    stats.TodaySummary
	sessions []store.Session
}

func (h historyModel) refresh() tea.Cmd {
	sessions := h.engine.Sessions()
	now := h.now()
	return func() tea.Msg {
		return historyDataMsg{today: stats.Today(sessions, now), sessions: sessions}
	}
}

func (h historyModel) update(msg tea.Msg) (historyModel, tea.Cmd) {
	if h.formActive && h.form != nil {
		return h.updateForm(msg)
	}

	switch msg := msg.(type) {
	case historyDataMsg:
		h.today = msg.today
		h.sessions = msg.sessions
		if h.offset > max(0, len(h.sessions)-1) {
			h.offset = 0
		}
		return h, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if h.offset > 0 {
				h.offset--
			}
		case key.Matches(msg, keys.Down):
			if h.offset+historyPageSize < len(h.sessions) {
				h.offset++
			}
		case key.Matches(msg, keys.Delete):
			return h.showClearForm()
		}
	}
	return h, nil
}

func (h historyModel) showClearForm() (historyModel, tea.Cmd) {
	*h.confirm = false
	h.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Clear all data?").
				Description("Deletes every recorded session and resets the timer.").
				Affirmative("Clear").
				Negative("Cancel").
				Value(h.confirm),
		),
	).WithShowHelp(true)

	h.formActive = true
	return h, h.form.Init()
}

func (h historyModel) updateForm(msg tea.Msg) (historyModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			h.formActive = false
			h.form = nil
			return h, nil
		}
	}

	form, cmd := h.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		h.form = f
	}

	if h.form.State == huh.StateCompleted {
		h.formActive = false
		h.form = nil
		if !*h.confirm {
			return h, nil
		}
		h.engine.ClearAllData()
		h.offset = 0
		return h, tea.Batch(h.refresh(), statusCmd("All data cleared", false))
	}

	return h, cmd
}

func (h historyModel) view() string {
	if h.width < 20 {
		return "Terminal too small"
	}
	w := h.width - 4

	if h.formActive && h.form != nil {
		return activePanelStyle.BorderForeground(colorError).Width(w).Render(h.form.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		h.renderTodayPanel(w),
		h.renderSessionsPanel(w),
	)
}

func (h historyModel) renderTodayPanel(w int) string {
	title := titleStyle.Render("Today")
	focus := highlightStyle.Render(formatSeconds(h.today.TotalSeconds))
	count := fmt.Sprintf("%d work session", h.today.WorkSessions)
	if h.today.WorkSessions != 1 {
		count += "s"
	}
	header := fmt.Sprintf("%s  %s  %s", title, focus, mutedStyle.Render(count))
	return panelStyle.Width(w).Render(header)
}

func (h historyModel) renderSessionsPanel(w int) string {
	title := titleStyle.Render("Recent Sessions")
	if len(h.sessions) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No sessions yet. Finish a phase to see it here."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title+mutedStyle.Render(fmt.Sprintf("  %d total", len(h.sessions))))

	end := min(h.offset+historyPageSize, len(h.sessions))
	now := h.now()
	for _, s := range h.sessions[h.offset:end] {
		dot := phaseStyle(s.Phase).Render("●")
		label := lipgloss.NewStyle().Width(12).Render(s.Phase.Label())
		rows = append(rows, fmt.Sprintf("  %s %s %s  %s",
			dot, label, formatClock(s.Duration), mutedStyle.Render(formatWhen(s.CompletedTime(), now)),
		))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  ↑/↓: scroll  d: clear all data"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

// formatWhen renders t relative to now's calendar day.
func formatWhen(t, now time.Time) string {
	t = t.In(now.Location())
	day := stats.StartOfDay(t)
	today := stats.StartOfDay(now)
	switch {
	case day.Equal(today):
		return "today " + t.Format("15:04")
	case day.Equal(today.AddDate(0, 0, -1)):
		return "yesterday " + t.Format("15:04")
	}
	return t.Format("Jan 02 15:04")
}
