package timer

import "time"

// Scheduler runs fn once per interval until the returned cancel func is
// called. Implementations must never invoke fn after cancel returns.
type Scheduler interface {
	Every(interval time.Duration, fn func()) (cancel func())
}

type nopScheduler struct{}

func (nopScheduler) Every(time.Duration, func()) func() { return func() {} }

// ManualScheduler is a Scheduler driven by virtual time. Nothing fires until
// Advance is called.
type ManualScheduler struct {
	tasks []*manualTask
}

type manualTask struct {
	fn     func()
	active bool
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (m *ManualScheduler) Every(_ time.Duration, fn func()) func() {
	t := &manualTask{fn: fn, active: true}
	m.tasks = append(m.tasks, t)
	return func() { t.active = false }
}

// Advance simulates n intervals. In each one every task registered before
// the interval began fires once; a task registered during an interval first
// fires in the following one.
func (m *ManualScheduler) Advance(n int) {
	for i := 0; i < n; i++ {
		current := m.live()
		for _, t := range current {
			if t.active {
				t.fn()
			}
		}
	}
	m.tasks = m.live()
}

// Active returns the number of registered, uncancelled tasks.
func (m *ManualScheduler) Active() int {
	return len(m.live())
}

func (m *ManualScheduler) live() []*manualTask {
	var out []*manualTask
	for _, t := range m.tasks {
		if t.active {
			out = append(out, t)
		}
	}
	return out
}
