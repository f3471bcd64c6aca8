package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// tickMsg carries the scheduler generation it was issued for.
type tickMsg struct {
	gen int
}

// tickScheduler drives the engine's countdown from bubbletea tick messages.
// Every registration and every cancel bumps the generation, so a tick that
// was already in flight is dropped instead of firing a stale callback.
type tickScheduler struct {
	gen      int
	fn       func()
	interval time.Duration
	issued   bool
}

func newTickScheduler() *tickScheduler {
	return &tickScheduler{}
}

func (s *tickScheduler) Every(interval time.Duration, fn func()) func() {
	s.gen++
	s.fn = fn
	s.interval = interval
	s.issued = false

	gen := s.gen
	return func() {
		if s.gen != gen {
			return
		}
		s.gen++
		s.fn = nil
		s.issued = false
	}
}

// handle runs the callback if msg belongs to the current generation.
func (s *tickScheduler) handle(msg tickMsg) bool {
	if msg.gen != s.gen || s.fn == nil {
		return false
	}
	s.issued = false
	s.fn()
	return true
}

func (s *tickScheduler) active() bool {
	return s.fn != nil
}

// pending returns the command for the next tick, or nil when nothing is
// registered or a tick for this generation is already outstanding.
func (s *tickScheduler) pending() tea.Cmd {
	if s.fn == nil || s.issued {
		return nil
	}
	s.issued = true
	gen := s.gen
	return tea.Tick(s.interval, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}
