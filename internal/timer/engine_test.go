package timer

import (
	"fmt"
	"testing"
	"time"

	"github.com/sadopc/pomodr/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	snap     *store.TimerSnapshot
	sessions []store.Session
	saves    int
}

func (m *memStore) LoadTimerSnapshot() (store.TimerSnapshot, bool) {
	if m.snap == nil {
		return store.TimerSnapshot{}, false
	}
	return *m.snap, true
}

func (m *memStore) SaveTimerSnapshot(s store.TimerSnapshot) {
	m.snap = &s
	m.saves++
}

func (m *memStore) ClearTimerSnapshot() { m.snap = nil }

func (m *memStore) LoadSessions() []store.Session {
	return append([]store.Session(nil), m.sessions...)
}

func (m *memStore) SaveSessions(s []store.Session) {
	m.sessions = append([]store.Session(nil), s...)
}

type fixedSettings struct{ s store.Settings }

func (f *fixedSettings) ActiveSettings() store.Settings { return f.s }

type recorder struct {
	work, brk int
	notified  []store.Phase
}

func (r *recorder) PlayWorkComplete()       { r.work++ }
func (r *recorder) PlayBreakComplete()      { r.brk++ }
func (r *recorder) Notify(next store.Phase) { r.notified = append(r.notified, next) }

type harness struct {
	engine   *Engine
	store    *memStore
	settings *fixedSettings
	sched    *ManualScheduler
	rec      *recorder
	now      time.Time
}

func newHarness(t *testing.T, st *memStore) *harness {
	t.Helper()
	if st == nil {
		st = &memStore{}
	}
	h := &harness{
		store:    st,
		settings: &fixedSettings{s: store.DefaultSettings()},
		sched:    NewManualScheduler(),
		rec:      &recorder{},
		now:      time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	}
	n := 0
	h.engine = New(st, h.settings, Config{
		Scheduler: h.sched,
		Cues:      h.rec,
		Notifier:  h.rec,
		Now:       func() time.Time { return h.now },
		NewID: func() string {
			n++
			return fmt.Sprintf("s%d", n)
		},
	})
	return h
}

// ============================================================
// Restore
// ============================================================

func TestColdStartDefaults(t *testing.T) {
	h := newHarness(t, nil)
	e := h.engine
	assert.Equal(t, store.PhaseWork, e.Phase())
	assert.Equal(t, store.StatusIdle, e.Status())
	assert.Equal(t, 1500, e.TimeRemaining())
	assert.Zero(t, e.SessionsCompleted())
	assert.Empty(t, e.Sessions())
	require.NotNil(t, h.store.snap)
	assert.Equal(t, store.StatusIdle, h.store.snap.Status)
}

func TestRestoreForcesIdle(t *testing.T) {
	start := int64(12345)
	st := &memStore{
		snap: &store.TimerSnapshot{
			Phase:               store.PhaseShortBreak,
			Status:              store.StatusRunning,
			TimeRemaining:       42,
			SessionsCompleted:   3,
			CurrentSessionStart: &start,
		},
		sessions: []store.Session{{ID: "old", Phase: store.PhaseWork, Duration: 1500}},
	}
	h := newHarness(t, st)
	e := h.engine
	assert.Equal(t, store.PhaseShortBreak, e.Phase())
	assert.Equal(t, store.StatusIdle, e.Status())
	assert.Equal(t, 42, e.TimeRemaining())
	assert.Equal(t, 3, e.SessionsCompleted())
	assert.Nil(t, e.Snapshot().CurrentSessionStart)
	assert.Len(t, e.Sessions(), 1)
	assert.Zero(t, h.sched.Active(), "restore must not start ticking")
}

func TestRestoreSanitizesSnapshot(t *testing.T) {
	st := &memStore{snap: &store.TimerSnapshot{Phase: "nap", TimeRemaining: -5, SessionsCompleted: -2}}
	e := newHarness(t, st).engine
	assert.Equal(t, store.PhaseWork, e.Phase())
	assert.Equal(t, 1500, e.TimeRemaining())
	assert.Zero(t, e.SessionsCompleted())
}

// ============================================================
// Transitions
// ============================================================

func TestStartTicksDown(t *testing.T) {
	h := newHarness(t, nil)
	h.engine.Start()
	assert.Equal(t, store.StatusRunning, h.engine.Status())
	require.NotNil(t, h.engine.Snapshot().CurrentSessionStart)
	assert.Equal(t, h.now.UnixMilli(), *h.engine.Snapshot().CurrentSessionStart)

	h.sched.Advance(10)
	assert.Equal(t, 1490, h.engine.TimeRemaining())
	assert.Equal(t, 1490, h.store.snap.TimeRemaining, "every tick is persisted")
	assert.Zero(t, h.rec.work+h.rec.brk, "plain ticks make no sound")
	assert.Empty(t, h.rec.notified)
}

func TestStartTwiceKeepsOneTickSource(t *testing.T) {
	h := newHarness(t, nil)
	h.engine.Start()
	h.engine.Start()
	assert.Equal(t, 1, h.sched.Active())
	h.sched.Advance(1)
	assert.Equal(t, 1499, h.engine.TimeRemaining())
}

func TestPause(t *testing.T) {
	h := newHarness(t, nil)
	h.engine.Start()
	h.sched.Advance(5)
	h.engine.Pause()

	assert.Equal(t, store.StatusPaused, h.engine.Status())
	assert.Zero(t, h.sched.Active())
	h.sched.Advance(5)
	assert.Equal(t, 1495, h.engine.TimeRemaining())
}

func TestPauseIdempotent(t *testing.T) {
	h := newHarness(t, nil)
	h.engine.Start()
	h.sched.Advance(3)
	h.engine.Pause()
	before := h.engine.Snapshot()

	h.engine.Pause()
	after := h.engine.Snapshot()
	assert.Equal(t, before.Phase, after.Phase)
	assert.Equal(t, before.TimeRemaining, after.TimeRemaining)
	assert.Equal(t, store.StatusPaused, after.Status)
}

func TestPauseWhenIdleIsNoop(t *testing.T) {
	h := newHarness(t, nil)
	h.engine.Pause()
	assert.Equal(t, store.StatusIdle, h.engine.Status())
}

func TestResumeAfterPause(t *testing.T) {
	h := newHarness(t, nil)
	h.engine.Start()
	h.sched.Advance(5)
	h.engine.Pause()
	h.engine.Start()
	h.sched.Advance(5)
	assert.Equal(t, 1490, h.engine.TimeRemaining())
	assert.Equal(t, 1, h.sched.Active())
}

func TestReset(t *testing.T) {
	h := newHarness(t, nil)
	h.engine.Start()
	h.sched.Advance(100)
	h.engine.Reset()

	assert.Equal(t, store.StatusIdle, h.engine.Status())
	assert.Equal(t, 1500, h.engine.TimeRemaining())
	assert.Nil(t, h.engine.Snapshot().CurrentSessionStart)
	assert.Zero(t, h.sched.Active())
	assert.Empty(t, h.engine.Sessions())
	assert.Zero(t, h.rec.work+h.rec.brk)
}

func TestChangePhase(t *testing.T) {
	h := newHarness(t, nil)
	h.engine.Start()
	h.engine.ChangePhase(store.PhaseLongBreak)

	assert.Equal(t, store.PhaseLongBreak, h.engine.Phase())
	assert.Equal(t, store.StatusIdle, h.engine.Status())
	assert.Equal(t, 900, h.engine.TimeRemaining())
	assert.Zero(t, h.sched.Active())
	assert.Empty(t, h.engine.Sessions())
	assert.Empty(t, h.rec.notified)

	h.engine.ChangePhase("nap")
	assert.Equal(t, store.PhaseLongBreak, h.engine.Phase())
}

// ============================================================
// Phase completion
// ============================================================

func TestTickExhaustionCompletesWork(t *testing.T) {
	h := newHarness(t, nil)
	h.settings.s.WorkDuration = 1 // 60 seconds
	h.engine.Reset()
	h.engine.Start()

	h.sched.Advance(59)
	assert.Equal(t, 1, h.engine.TimeRemaining())
	assert.Empty(t, h.engine.Sessions())

	h.sched.Advance(1)
	sessions := h.engine.Sessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, store.PhaseWork, sessions[0].Phase)
	assert.Equal(t, 60, sessions[0].Duration)
	assert.Equal(t, h.now.UnixMilli(), sessions[0].CompletedAt)

	assert.Equal(t, store.PhaseShortBreak, h.engine.Phase())
	assert.Equal(t, store.StatusIdle, h.engine.Status())
	assert.Equal(t, 300, h.engine.TimeRemaining())
	assert.Equal(t, 1, h.engine.SessionsCompleted())
	assert.Zero(t, h.sched.Active())

	assert.Equal(t, 1, h.rec.work)
	assert.Zero(t, h.rec.brk)
	assert.Equal(t, []store.Phase{store.PhaseShortBreak}, h.rec.notified)
	assert.Equal(t, h.engine.Sessions(), h.store.sessions)
}

func TestSkipRecordsFullDuration(t *testing.T) {
	h := newHarness(t, nil)
	require.Equal(t, 1500, h.engine.TimeRemaining())

	h.engine.Skip()
	sessions := h.engine.Sessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, 1500, sessions[0].Duration)
	assert.Equal(t, store.PhaseWork, sessions[0].Phase)
}

func TestSkipPartwayRecordsFullDuration(t *testing.T) {
	h := newHarness(t, nil)
	h.engine.Start()
	h.sched.Advance(600)
	h.engine.Skip()

	assert.Equal(t, 1500, h.engine.Sessions()[0].Duration)
	assert.Equal(t, store.StatusIdle, h.engine.Status())
	assert.Zero(t, h.sched.Active())
}

func TestLongBreakSequence(t *testing.T) {
	h := newHarness(t, nil)
	var nexts []store.Phase
	for i := 0; i < 4; i++ {
		require.Equal(t, store.PhaseWork, h.engine.Phase())
		h.engine.Skip() // finish work
		nexts = append(nexts, h.engine.Phase())
		if i < 3 {
			h.engine.Skip() // finish break
		}
	}
	assert.Equal(t, []store.Phase{
		store.PhaseShortBreak, store.PhaseShortBreak, store.PhaseShortBreak, store.PhaseLongBreak,
	}, nexts)
	assert.Equal(t, 4, h.engine.SessionsCompleted())
	assert.Equal(t, 4, h.rec.work)
	assert.Equal(t, 3, h.rec.brk)
	assert.Len(t, h.rec.notified, 7)
}

func TestBreakCompletionReturnsToWork(t *testing.T) {
	h := newHarness(t, nil)
	h.engine.ChangePhase(store.PhaseLongBreak)
	h.engine.Skip()

	assert.Equal(t, store.PhaseWork, h.engine.Phase())
	assert.Zero(t, h.engine.SessionsCompleted(), "breaks do not count")
	assert.Equal(t, 900, h.engine.Sessions()[0].Duration)
	assert.Equal(t, 1, h.rec.brk)
}

func TestSessionLogNewestFirst(t *testing.T) {
	h := newHarness(t, nil)
	h.engine.Skip()
	h.now = h.now.Add(time.Minute)
	h.engine.Skip()

	sessions := h.engine.Sessions()
	require.Len(t, sessions, 2)
	assert.Equal(t, store.PhaseShortBreak, sessions[0].Phase)
	assert.Equal(t, store.PhaseWork, sessions[1].Phase)
	assert.Equal(t, "s2", sessions[0].ID)
}

func TestAutoStartBreak(t *testing.T) {
	h := newHarness(t, nil)
	h.settings.s.AutoStartBreaks = true
	h.engine.Start()
	h.engine.Skip()

	assert.Equal(t, store.PhaseShortBreak, h.engine.Phase())
	assert.Equal(t, store.StatusRunning, h.engine.Status())
	assert.NotNil(t, h.engine.Snapshot().CurrentSessionStart)
	assert.Equal(t, 1, h.sched.Active())

	h.sched.Advance(1)
	assert.Equal(t, 299, h.engine.TimeRemaining())
}

func TestAutoStartWorkOnlyAfterBreak(t *testing.T) {
	h := newHarness(t, nil)
	h.settings.s.AutoStartWork = true
	h.engine.Skip() // work -> short break, breaks not auto-started
	assert.Equal(t, store.StatusIdle, h.engine.Status())

	h.engine.Skip() // break -> work, auto-started
	assert.Equal(t, store.PhaseWork, h.engine.Phase())
	assert.Equal(t, store.StatusRunning, h.engine.Status())
}

func TestAutoStartRestartsCadence(t *testing.T) {
	h := newHarness(t, nil)
	h.settings.s.WorkDuration = 1
	h.settings.s.AutoStartBreaks = true
	h.engine.Reset()
	h.engine.Start()

	h.sched.Advance(60)
	require.Equal(t, store.PhaseShortBreak, h.engine.Phase())
	assert.Equal(t, 300, h.engine.TimeRemaining(), "completing tick must not also count against the new phase")
	assert.Equal(t, 1, h.sched.Active())

	h.sched.Advance(1)
	assert.Equal(t, 299, h.engine.TimeRemaining())
}

func TestCompletionUsesCurrentSettings(t *testing.T) {
	h := newHarness(t, nil)
	h.settings.s.WorkDuration = 50
	h.engine.Skip()
	assert.Equal(t, 3000, h.engine.Sessions()[0].Duration)
}

func TestNextPhase(t *testing.T) {
	tests := []struct {
		finished  store.Phase
		completed int
		every     int
		want      store.Phase
	}{
		{store.PhaseWork, 1, 4, store.PhaseShortBreak},
		{store.PhaseWork, 4, 4, store.PhaseLongBreak},
		{store.PhaseWork, 8, 4, store.PhaseLongBreak},
		{store.PhaseWork, 2, 2, store.PhaseLongBreak},
		{store.PhaseShortBreak, 3, 4, store.PhaseWork},
		{store.PhaseLongBreak, 4, 4, store.PhaseWork},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NextPhase(tt.finished, tt.completed, tt.every),
			"%s after %d of %d", tt.finished, tt.completed, tt.every)
	}
}

// ============================================================
// Settings and data
// ============================================================

func TestDurationPerPhase(t *testing.T) {
	h := newHarness(t, nil)
	h.settings.s = store.Settings{WorkDuration: 50, ShortBreakDuration: 10, LongBreakDuration: 30, SessionsUntilLongBreak: 3}
	assert.Equal(t, 3000, h.engine.Duration(store.PhaseWork))
	assert.Equal(t, 600, h.engine.Duration(store.PhaseShortBreak))
	assert.Equal(t, 1800, h.engine.Duration(store.PhaseLongBreak))
}

func TestSettingsChangedWhileIdle(t *testing.T) {
	h := newHarness(t, nil)
	h.settings.s.WorkDuration = 40
	h.engine.SettingsChanged()
	assert.Equal(t, 2400, h.engine.TimeRemaining())
}

func TestSettingsChangedWhileRunningIsIgnored(t *testing.T) {
	h := newHarness(t, nil)
	h.engine.Start()
	h.sched.Advance(2)
	h.settings.s.WorkDuration = 40
	h.engine.SettingsChanged()
	assert.Equal(t, 1498, h.engine.TimeRemaining())
}

func TestClearAllData(t *testing.T) {
	h := newHarness(t, nil)
	h.engine.Skip()
	h.engine.Skip()
	h.engine.Start()

	h.engine.ClearAllData()
	e := h.engine
	assert.Equal(t, store.PhaseWork, e.Phase())
	assert.Equal(t, store.StatusIdle, e.Status())
	assert.Equal(t, 1500, e.TimeRemaining())
	assert.Zero(t, e.SessionsCompleted())
	assert.Empty(t, e.Sessions())
	assert.Empty(t, h.store.sessions)
	assert.Nil(t, h.store.snap, "snapshot should be erased")
	assert.Zero(t, h.sched.Active())
}

func TestReloadResumesState(t *testing.T) {
	st := &memStore{}
	h := newHarness(t, st)
	h.engine.Skip()
	h.engine.Start()
	h.sched.Advance(30)

	again := newHarness(t, st)
	assert.Equal(t, store.PhaseShortBreak, again.engine.Phase())
	assert.Equal(t, 270, again.engine.TimeRemaining())
	assert.Equal(t, 1, again.engine.SessionsCompleted())
	assert.Equal(t, store.StatusIdle, again.engine.Status())
	assert.Len(t, again.engine.Sessions(), 1)
}

func TestNilConfigDefaults(t *testing.T) {
	e := New(&memStore{}, &fixedSettings{s: store.DefaultSettings()}, Config{})
	e.Start()
	e.Skip()
	assert.Len(t, e.Sessions(), 1)
	assert.NotEmpty(t, e.Sessions()[0].ID)
}
