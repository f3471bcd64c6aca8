package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/pomodr/internal/profile"
	"github.com/sadopc/pomodr/internal/store"
	"github.com/sadopc/pomodr/internal/timer"
)

type pomodoroModel struct {
	engine   *timer.Engine
	profiles *profile.Manager
	width    int
	height   int
}

func newPomodoroModel(e *timer.Engine, pm *profile.Manager) pomodoroModel {
	return pomodoroModel{engine: e, profiles: pm}
}

func (p *pomodoroModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

func (p pomodoroModel) update(msg tea.Msg) (pomodoroModel, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}

	switch {
	case key.Matches(km, keys.Toggle):
		if p.engine.Running() {
			p.engine.Pause()
			return p, statusCmd("Paused", false)
		}
		p.engine.Start()
		return p, statusCmd(p.engine.Phase().Label()+" started", false)

	case key.Matches(km, keys.Reset):
		p.engine.Reset()
		return p, statusCmd("Timer reset", false)

	case key.Matches(km, keys.Skip):
		finished := p.engine.Phase()
		p.engine.Skip()
		return p, statusCmd(fmt.Sprintf("Skipped %s, next up: %s", finished.Label(), p.engine.Phase().Label()), false)

	case key.Matches(km, keys.Left):
		p.engine.ChangePhase(shiftPhase(p.engine.Phase(), -1))
		return p, nil

	case key.Matches(km, keys.Right):
		p.engine.ChangePhase(shiftPhase(p.engine.Phase(), 1))
		return p, nil
	}
	return p, nil
}

// shiftPhase steps through store.Phases, wrapping at both ends.
func shiftPhase(cur store.Phase, step int) store.Phase {
	n := len(store.Phases)
	for i, ph := range store.Phases {
		if ph == cur {
			return store.Phases[((i+step)%n+n)%n]
		}
	}
	return store.PhaseWork
}

func (p pomodoroModel) view() string {
	w := p.width - 4
	e := p.engine
	phase := e.Phase()
	color := phaseColor(phase)

	title := titleStyle.Render("Pomodoro Timer")
	if prof, ok := p.profiles.Active(); ok {
		title += mutedStyle.Render("  · " + prof.Name)
	}

	clock := timerStyle.Foreground(color).Width(max(w-6, 10)).Render(formatClock(e.TimeRemaining()))

	var state string
	switch e.Status() {
	case store.StatusRunning:
		state = successStyle.Render("●  RUNNING")
	case store.StatusPaused:
		state = warningStyle.Render("⏸  PAUSED")
	default:
		state = mutedStyle.Render("■  READY")
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		title,
		"",
		p.renderPhaseTabs(),
		"",
		clock,
		state,
		"",
		p.renderBar(max(w-10, 10)),
		"",
		p.renderProgress(),
	)

	var controls string
	switch e.Status() {
	case store.StatusRunning:
		controls = mutedStyle.Render("space: pause  s: skip  r: reset")
	case store.StatusPaused:
		controls = mutedStyle.Render("space: resume  s: skip  r: reset")
	default:
		controls = mutedStyle.Render("space: start  s: skip  ←/→: change phase")
	}

	style := panelStyle
	if e.Running() {
		style = activePanelStyle.BorderForeground(color)
	}
	return style.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Center, content, "", controls),
	)
}

func (p pomodoroModel) renderPhaseTabs() string {
	var tabs []string
	for _, ph := range store.Phases {
		if ph == p.engine.Phase() {
			tabs = append(tabs, activeTabStyle.
				Foreground(phaseColor(ph)).
				BorderForeground(phaseColor(ph)).
				Render(ph.Label()))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(ph.Label()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)
}

// renderBar shows how much of the current phase has elapsed.
func (p pomodoroModel) renderBar(width int) string {
	total := p.engine.Duration(p.engine.Phase())
	if total <= 0 {
		total = 1
	}
	elapsed := total - p.engine.TimeRemaining()
	filled := width * elapsed / total
	filled = min(max(filled, 0), width)

	bar := phaseStyle(p.engine.Phase()).Render(strings.Repeat("█", filled)) +
		mutedStyle.Render(strings.Repeat("░", width-filled))
	return bar
}

// renderProgress shows the position inside the current long-break cycle.
func (p pomodoroModel) renderProgress() string {
	completed := p.engine.SessionsCompleted()
	every := p.profiles.ActiveSettings().Normalize().SessionsUntilLongBreak

	done := completed % every
	if done == 0 && completed > 0 && p.engine.Phase() == store.PhaseLongBreak {
		done = every
	}

	var parts []string
	for i := 0; i < every; i++ {
		switch {
		case i < done:
			parts = append(parts, successStyle.Render("●"))
		case i == done && p.engine.Phase() == store.PhaseWork:
			parts = append(parts, accentStyle.Render("◐"))
		default:
			parts = append(parts, mutedStyle.Render("○"))
		}
	}
	counter := mutedStyle.Render(fmt.Sprintf("  #%d", completed))
	return strings.Join(parts, " ") + counter
}
