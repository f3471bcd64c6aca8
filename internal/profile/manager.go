// Package profile manages named settings profiles and the active selection.
package profile

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sadopc/pomodr/internal/store"
)

// Store is the persistence the manager writes through to.
type Store interface {
	LoadProfiles() []store.Profile
	SaveProfiles([]store.Profile)
	LoadActiveProfileID() string
	SaveActiveProfileID(string)
}

// Manager holds the ordered profile list and the active profile id. Every
// mutation is written back to the store before returning.
type Manager struct {
	store    Store
	defaults store.Settings
	now      func() time.Time
	newID    func() string

	profiles []store.Profile
	activeID string
}

type Option func(*Manager)

// WithClock overrides the clock used for CreatedAt/UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithIDs overrides the profile id generator.
func WithIDs(newID func() string) Option {
	return func(m *Manager) { m.newID = newID }
}

// NewManager loads profiles from st and resolves the active one. A stored
// active id that is missing or unknown falls back to the first profile.
func NewManager(st Store, defaults store.Settings, opts ...Option) *Manager {
	m := &Manager{
		store:    st,
		defaults: defaults,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.profiles = st.LoadProfiles()
	for i := range m.profiles {
		m.profiles[i].Settings = m.profiles[i].Settings.Normalize()
	}

	stored := st.LoadActiveProfileID()
	if m.indexOf(stored) >= 0 {
		m.activeID = stored
	} else if len(m.profiles) > 0 {
		m.activeID = m.profiles[0].ID
	}
	if m.activeID != "" && m.activeID != stored {
		st.SaveActiveProfileID(m.activeID)
	}
	return m
}

// Profiles returns a copy of the profile list in display order.
func (m *Manager) Profiles() []store.Profile {
	out := make([]store.Profile, len(m.profiles))
	copy(out, m.profiles)
	return out
}

func (m *Manager) ActiveID() string { return m.activeID }

// Active returns the active profile, if one is resolved.
func (m *Manager) Active() (store.Profile, bool) {
	i := m.indexOf(m.activeID)
	if i < 0 {
		return store.Profile{}, false
	}
	return m.profiles[i], true
}

// ActiveSettings returns the active profile's settings, or the defaults when
// no profile is resolved.
func (m *Manager) ActiveSettings() store.Settings {
	if p, ok := m.Active(); ok {
		return p.Settings
	}
	return m.defaults
}

// SelectProfile makes id active. Ids not in the current list are ignored.
func (m *Manager) SelectProfile(id string) bool {
	if m.indexOf(id) < 0 {
		return false
	}
	m.activeID = id
	m.store.SaveActiveProfileID(id)
	return true
}

// CreateProfile adds a profile with default settings at the front of the
// list and makes it active.
func (m *Manager) CreateProfile(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	ts := m.now().UnixMilli()
	p := store.Profile{
		ID:        m.newID(),
		Name:      name,
		Settings:  m.defaults,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	m.persist(append([]store.Profile{p}, m.profiles...))
	m.activeID = p.ID
	m.store.SaveActiveProfileID(p.ID)
	return true
}

func (m *Manager) RenameProfile(id, name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	i := m.indexOf(id)
	if i < 0 {
		return false
	}
	next := m.Profiles()
	next[i].Name = name
	next[i].UpdatedAt = m.now().UnixMilli()
	m.persist(next)
	return true
}

// DeleteProfile removes a profile. The last remaining profile can never be
// deleted.
func (m *Manager) DeleteProfile(id string) bool {
	if len(m.profiles) <= 1 {
		return false
	}
	i := m.indexOf(id)
	if i < 0 {
		return false
	}
	next := make([]store.Profile, 0, len(m.profiles)-1)
	next = append(next, m.profiles[:i]...)
	next = append(next, m.profiles[i+1:]...)
	m.persist(next)

	if m.activeID == id {
		m.activeID = next[0].ID
		m.store.SaveActiveProfileID(m.activeID)
	}
	return true
}

// SettingsPatch carries the fields to change; nil fields are left alone.
type SettingsPatch struct {
	WorkDuration           *int
	ShortBreakDuration     *int
	LongBreakDuration      *int
	SessionsUntilLongBreak *int
	AutoStartBreaks        *bool
	AutoStartWork          *bool
}

func (p SettingsPatch) apply(s store.Settings) store.Settings {
	if p.WorkDuration != nil {
		s.WorkDuration = *p.WorkDuration
	}
	if p.ShortBreakDuration != nil {
		s.ShortBreakDuration = *p.ShortBreakDuration
	}
	if p.LongBreakDuration != nil {
		s.LongBreakDuration = *p.LongBreakDuration
	}
	if p.SessionsUntilLongBreak != nil {
		s.SessionsUntilLongBreak = *p.SessionsUntilLongBreak
	}
	if p.AutoStartBreaks != nil {
		s.AutoStartBreaks = *p.AutoStartBreaks
	}
	if p.AutoStartWork != nil {
		s.AutoStartWork = *p.AutoStartWork
	}
	return s
}

// UpdateSettings merges patch into the active profile's settings.
func (m *Manager) UpdateSettings(patch SettingsPatch) {
	m.updateActive(func(s store.Settings) store.Settings {
		return patch.apply(s).Normalize()
	})
}

// ResetSettings replaces the active profile's settings with the defaults.
func (m *Manager) ResetSettings() {
	m.updateActive(func(store.Settings) store.Settings { return m.defaults })
}

func (m *Manager) updateActive(fn func(store.Settings) store.Settings) {
	i := m.indexOf(m.activeID)
	if i < 0 {
		return
	}
	next := m.Profiles()
	next[i].Settings = fn(next[i].Settings)
	next[i].UpdatedAt = m.now().UnixMilli()
	m.persist(next)
}

func (m *Manager) persist(next []store.Profile) {
	m.profiles = next
	m.store.SaveProfiles(next)
}

func (m *Manager) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, p := range m.profiles {
		if p.ID == id {
			return i
		}
	}
	return -1
}
