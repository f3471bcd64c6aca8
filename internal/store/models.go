package store

import "time"

// Phase is one of the three timer modes.
type Phase string

const (
	PhaseWork       Phase = "work"
	PhaseShortBreak Phase = "shortBreak"
	PhaseLongBreak  Phase = "longBreak"
)

// Phases lists every phase in display order.
var Phases = []Phase{PhaseWork, PhaseShortBreak, PhaseLongBreak}

func (p Phase) Valid() bool {
	switch p {
	case PhaseWork, PhaseShortBreak, PhaseLongBreak:
		return true
	}
	return false
}

func (p Phase) Label() string {
	switch p {
	case PhaseWork:
		return "WORK"
	case PhaseShortBreak:
		return "SHORT BREAK"
	case PhaseLongBreak:
		return "LONG BREAK"
	}
	return string(p)
}

// IsBreak reports whether p is one of the break phases.
func (p Phase) IsBreak() bool {
	return p == PhaseShortBreak || p == PhaseLongBreak
}

// Status is the run state of the timer.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusRunning Status = "running"
	StatusPaused  Status = "paused"
)

func (s Status) Valid() bool {
	switch s {
	case StatusIdle, StatusRunning, StatusPaused:
		return true
	}
	return false
}

// Settings is the duration and auto-start configuration owned by a profile.
// Durations are in minutes.
type Settings struct {
	WorkDuration           int  `json:"workDuration"`
	ShortBreakDuration     int  `json:"shortBreakDuration"`
	LongBreakDuration      int  `json:"longBreakDuration"`
	SessionsUntilLongBreak int  `json:"sessionsUntilLongBreak"`
	AutoStartBreaks        bool `json:"autoStartBreaks"`
	AutoStartWork          bool `json:"autoStartWork"`
}

// DefaultSettings returns the global default configuration.
func DefaultSettings() Settings {
	return Settings{
		WorkDuration:           25,
		ShortBreakDuration:     5,
		LongBreakDuration:      15,
		SessionsUntilLongBreak: 4,
	}
}

// Duration returns the configured length of phase p in seconds.
func (s Settings) Duration(p Phase) int {
	switch p {
	case PhaseWork:
		return s.WorkDuration * 60
	case PhaseShortBreak:
		return s.ShortBreakDuration * 60
	case PhaseLongBreak:
		return s.LongBreakDuration * 60
	}
	return s.WorkDuration * 60
}

// Normalize replaces out-of-range fields with the defaults.
func (s Settings) Normalize() Settings {
	d := DefaultSettings()
	if s.WorkDuration <= 0 {
		s.WorkDuration = d.WorkDuration
	}
	if s.ShortBreakDuration <= 0 {
		s.ShortBreakDuration = d.ShortBreakDuration
	}
	if s.LongBreakDuration <= 0 {
		s.LongBreakDuration = d.LongBreakDuration
	}
	if s.SessionsUntilLongBreak < 2 {
		s.SessionsUntilLongBreak = d.SessionsUntilLongBreak
	}
	return s
}

// Profile is a named, switchable bundle of settings.
// Timestamps are milliseconds since the Unix epoch.
type Profile struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Settings  Settings `json:"settings"`
	CreatedAt int64    `json:"createdAt"`
	UpdatedAt int64    `json:"updatedAt"`
}

// TimerSnapshot is the persisted live state of the timer.
type TimerSnapshot struct {
	Phase               Phase  `json:"phase"`
	Status              Status `json:"status"`
	TimeRemaining       int    `json:"timeRemaining"` // seconds
	SessionsCompleted   int    `json:"sessionsCompleted"`
	CurrentSessionStart *int64 `json:"currentSessionStart"`
}

// Session is an immutable record of one completed phase.
type Session struct {
	ID          string `json:"id"`
	Phase       Phase  `json:"phase"`
	Duration    int    `json:"duration"` // seconds
	CompletedAt int64  `json:"completedAt"`
}

func (s Session) CompletedTime() time.Time {
	return time.UnixMilli(s.CompletedAt)
}

type Task struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	Completed   bool   `json:"completed"`
	CreatedAt   int64  `json:"createdAt"`
	CompletedAt *int64 `json:"completedAt"`
}
