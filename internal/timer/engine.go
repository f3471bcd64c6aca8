// Package timer implements the Pomodoro state machine: a countdown over
// work and break phases that records a session each time a phase completes.
package timer

import (
	"time"

	"github.com/google/uuid"
	"github.com/sadopc/pomodr/internal/store"
	"go.uber.org/zap"
)

// TickInterval is the countdown resolution.
const TickInterval = time.Second

// Store is the persistence the engine writes through to.
type Store interface {
	LoadTimerSnapshot() (store.TimerSnapshot, bool)
	SaveTimerSnapshot(store.TimerSnapshot)
	ClearTimerSnapshot()
	LoadSessions() []store.Session
	SaveSessions([]store.Session)
}

// SettingsSource supplies the currently active settings.
type SettingsSource interface {
	ActiveSettings() store.Settings
}

// Cues plays a sound when a phase completes. Calls must not block.
type Cues interface {
	PlayWorkComplete()
	PlayBreakComplete()
}

// Notifier announces the phase that follows a completion. Implementations
// check their own permission and silently do nothing without it.
type Notifier interface {
	Notify(next store.Phase)
}

type Config struct {
	Scheduler Scheduler
	Cues      Cues
	Notifier  Notifier
	Now       func() time.Time
	NewID     func() string
	Logger    *zap.Logger
}

type silentCues struct{}

func (silentCues) PlayWorkComplete()  {}
func (silentCues) PlayBreakComplete() {}

type silentNotifier struct{}

func (silentNotifier) Notify(store.Phase) {}

// Engine owns the live timer state. It is not safe for concurrent use; all
// calls, including scheduler callbacks, must come from one goroutine.
type Engine struct {
	store    Store
	settings SettingsSource
	sched    Scheduler
	cues     Cues
	notifier Notifier
	now      func() time.Time
	newID    func() string
	log      *zap.Logger

	phase        store.Phase
	status       store.Status
	remaining    int
	completed    int
	sessionStart *int64
	sessions     []store.Session

	cancelTick func()
}

// New restores the engine from the last persisted snapshot. The status is
// always idle after a restore.
func New(st Store, src SettingsSource, cfg Config) *Engine {
	e := &Engine{
		store:    st,
		settings: src,
		sched:    cfg.Scheduler,
		cues:     cfg.Cues,
		notifier: cfg.Notifier,
		now:      cfg.Now,
		newID:    cfg.NewID,
		log:      cfg.Logger,
	}
	if e.sched == nil {
		e.sched = nopScheduler{}
	}
	if e.cues == nil {
		e.cues = silentCues{}
	}
	if e.notifier == nil {
		e.notifier = silentNotifier{}
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.newID == nil {
		e.newID = uuid.NewString
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}

	e.restore()
	return e
}

func (e *Engine) restore() {
	s := e.activeSettings()
	e.phase = store.PhaseWork
	e.status = store.StatusIdle
	e.remaining = s.Duration(store.PhaseWork)

	if snap, ok := e.store.LoadTimerSnapshot(); ok {
		if snap.Phase.Valid() {
			e.phase = snap.Phase
		}
		e.remaining = s.Duration(e.phase)
		if snap.TimeRemaining > 0 {
			e.remaining = snap.TimeRemaining
		}
		if snap.SessionsCompleted > 0 {
			e.completed = snap.SessionsCompleted
		}
		e.log.Debug("restored timer",
			zap.String("phase", string(e.phase)),
			zap.Int("remaining", e.remaining),
			zap.Int("completed", e.completed),
		)
	}

	e.sessions = e.store.LoadSessions()
	e.persist()
}

func (e *Engine) Phase() store.Phase   { return e.phase }
func (e *Engine) Status() store.Status { return e.status }
func (e *Engine) TimeRemaining() int   { return e.remaining }
func (e *Engine) SessionsCompleted() int {
	return e.completed
}
func (e *Engine) Running() bool { return e.status == store.StatusRunning }

// Snapshot returns the current state in its persisted form.
func (e *Engine) Snapshot() store.TimerSnapshot {
	snap := store.TimerSnapshot{
		Phase:             e.phase,
		Status:            e.status,
		TimeRemaining:     e.remaining,
		SessionsCompleted: e.completed,
	}
	if e.sessionStart != nil {
		v := *e.sessionStart
		snap.CurrentSessionStart = &v
	}
	return snap
}

// Sessions returns a copy of the session log, newest first.
func (e *Engine) Sessions() []store.Session {
	out := make([]store.Session, len(e.sessions))
	copy(out, e.sessions)
	return out
}

// SessionCount returns the length of the session log.
func (e *Engine) SessionCount() int { return len(e.sessions) }

// Duration returns the configured length of phase p in seconds under the
// active settings.
func (e *Engine) Duration(p store.Phase) int {
	return e.activeSettings().Duration(p)
}

// Start begins or resumes the countdown. It does nothing while running.
func (e *Engine) Start() {
	if e.status == store.StatusRunning {
		return
	}
	e.status = store.StatusRunning
	e.markSessionStart()
	e.startTicking()
	e.persist()
	e.log.Debug("timer started", zap.String("phase", string(e.phase)), zap.Int("remaining", e.remaining))
}

// Pause stops the countdown without touching the remaining time.
func (e *Engine) Pause() {
	if e.status != store.StatusRunning {
		return
	}
	e.stopTicking()
	e.status = store.StatusPaused
	e.persist()
	e.log.Debug("timer paused", zap.Int("remaining", e.remaining))
}

// Reset returns to idle with the full duration of the current phase.
func (e *Engine) Reset() {
	e.stopTicking()
	e.status = store.StatusIdle
	e.remaining = e.Duration(e.phase)
	e.sessionStart = nil
	e.persist()
}

// ChangePhase switches to p and leaves the timer idle with p's full
// duration. Unknown phases are ignored.
func (e *Engine) ChangePhase(p store.Phase) {
	if !p.Valid() {
		return
	}
	e.stopTicking()
	e.phase = p
	e.status = store.StatusIdle
	e.remaining = e.Duration(p)
	e.sessionStart = nil
	e.persist()
}

// Skip completes the current phase immediately. The recorded session gets
// the full configured duration.
func (e *Engine) Skip() {
	e.completePhase()
}

// ClearAllData empties the session log, forgets the persisted snapshot and
// returns to an idle work phase.
func (e *Engine) ClearAllData() {
	e.stopTicking()
	e.phase = store.PhaseWork
	e.status = store.StatusIdle
	e.remaining = e.Duration(store.PhaseWork)
	e.completed = 0
	e.sessionStart = nil
	e.sessions = []store.Session{}
	e.store.ClearTimerSnapshot()
	e.store.SaveSessions(e.sessions)
	e.log.Info("cleared all timer data")
}

// SettingsChanged refreshes the remaining time after the active settings
// change. Only an idle timer is affected.
func (e *Engine) SettingsChanged() {
	if e.status != store.StatusIdle {
		return
	}
	e.remaining = e.Duration(e.phase)
	e.persist()
}

func (e *Engine) tick() {
	if e.status != store.StatusRunning {
		return
	}
	if e.remaining <= 1 {
		e.remaining = 0
		e.completePhase()
		return
	}
	e.remaining--
	e.persist()
}

func (e *Engine) completePhase() {
	s := e.activeSettings()
	finished := e.phase

	e.recordSession(finished, s.Duration(finished))
	if finished == store.PhaseWork {
		e.completed++
	}

	next := NextPhase(finished, e.completed, s.SessionsUntilLongBreak)
	e.phase = next
	e.remaining = s.Duration(next)

	switch finished {
	case store.PhaseWork:
		e.cues.PlayWorkComplete()
	case store.PhaseShortBreak, store.PhaseLongBreak:
		e.cues.PlayBreakComplete()
	}
	e.notifier.Notify(next)

	// The next phase gets a fresh tick cadence.
	e.stopTicking()
	if autoStart(next, s) {
		e.status = store.StatusRunning
		e.markSessionStart()
		e.startTicking()
	} else {
		e.status = store.StatusIdle
		e.sessionStart = nil
	}
	e.persist()

	e.log.Info("phase complete",
		zap.String("finished", string(finished)),
		zap.String("next", string(next)),
		zap.Int("sessions_completed", e.completed),
		zap.Bool("auto_start", e.status == store.StatusRunning),
	)
}

// NextPhase returns the phase that follows finished. completed is the work
// count after finished was counted.
func NextPhase(finished store.Phase, completed, sessionsUntilLongBreak int) store.Phase {
	switch finished {
	case store.PhaseWork:
		if sessionsUntilLongBreak > 0 && completed%sessionsUntilLongBreak == 0 {
			return store.PhaseLongBreak
		}
		return store.PhaseShortBreak
	case store.PhaseShortBreak, store.PhaseLongBreak:
		return store.PhaseWork
	}
	return store.PhaseWork
}

func autoStart(next store.Phase, s store.Settings) bool {
	switch next {
	case store.PhaseWork:
		return s.AutoStartWork
	case store.PhaseShortBreak, store.PhaseLongBreak:
		return s.AutoStartBreaks
	}
	return false
}

func (e *Engine) recordSession(p store.Phase, duration int) {
	sess := store.Session{
		ID:          e.newID(),
		Phase:       p,
		Duration:    duration,
		CompletedAt: e.now().UnixMilli(),
	}
	e.sessions = append([]store.Session{sess}, e.sessions...)
	e.store.SaveSessions(e.sessions)
}

func (e *Engine) markSessionStart() {
	ts := e.now().UnixMilli()
	e.sessionStart = &ts
}

func (e *Engine) startTicking() {
	e.stopTicking()
	e.cancelTick = e.sched.Every(TickInterval, e.tick)
}

func (e *Engine) stopTicking() {
	if e.cancelTick != nil {
		e.cancelTick()
		e.cancelTick = nil
	}
}

func (e *Engine) activeSettings() store.Settings {
	return e.settings.ActiveSettings().Normalize()
}

func (e *Engine) persist() {
	e.store.SaveTimerSnapshot(e.Snapshot())
}
