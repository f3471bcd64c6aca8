package profile

import (
	"fmt"
	"testing"
	"time"

	"github.com/sadopc/pomodr/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory Store that counts writes.
type memStore struct {
	profiles     []store.Profile
	activeID     string
	profileSaves int
	activeSaves  int
}

func (m *memStore) LoadProfiles() []store.Profile {
	out := make([]store.Profile, len(m.profiles))
	copy(out, m.profiles)
	return out
}

func (m *memStore) SaveProfiles(p []store.Profile) {
	m.profiles = append([]store.Profile(nil), p...)
	m.profileSaves++
}

func (m *memStore) LoadActiveProfileID() string { return m.activeID }

func (m *memStore) SaveActiveProfileID(id string) {
	m.activeID = id
	m.activeSaves++
}

var fixedNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestManager(t *testing.T, st *memStore) *Manager {
	t.Helper()
	if len(st.profiles) == 0 {
		st.profiles = []store.Profile{{ID: "default", Name: "Default", Settings: store.DefaultSettings()}}
	}
	return NewManager(st, store.DefaultSettings(),
		WithClock(func() time.Time { return fixedNow }),
		WithIDs(seqIDs()),
	)
}

func intp(v int) *int    { return &v }
func boolp(v bool) *bool { return &v }

// ============================================================
// Loading
// ============================================================

func TestNewManagerResolvesStoredActive(t *testing.T) {
	st := &memStore{
		profiles: []store.Profile{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}},
		activeID: "b",
	}
	m := newTestManager(t, st)
	assert.Equal(t, "b", m.ActiveID())
	assert.Zero(t, st.activeSaves, "a valid stored id should not be rewritten")
}

func TestNewManagerFallsBackToFirst(t *testing.T) {
	for _, stored := range []string{"", "gone"} {
		st := &memStore{
			profiles: []store.Profile{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}},
			activeID: stored,
		}
		m := newTestManager(t, st)
		assert.Equal(t, "a", m.ActiveID(), "stored %q", stored)
		assert.Equal(t, "a", st.activeID, "healed id should be persisted")
	}
}

func TestNewManagerNormalizesSettings(t *testing.T) {
	st := &memStore{profiles: []store.Profile{{ID: "a", Name: "A", Settings: store.Settings{WorkDuration: 40}}}}
	m := newTestManager(t, st)
	s := m.ActiveSettings()
	assert.Equal(t, 40, s.WorkDuration)
	assert.Equal(t, 4, s.SessionsUntilLongBreak)
}

func TestActiveSettingsFallsBackToDefaults(t *testing.T) {
	m := &Manager{defaults: store.DefaultSettings()}
	_, ok := m.Active()
	assert.False(t, ok)
	assert.Equal(t, store.DefaultSettings(), m.ActiveSettings())
}

func TestNewManagerWithRealStore(t *testing.T) {
	s, err := store.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	m := NewManager(s, store.DefaultSettings())
	require.Len(t, m.Profiles(), 1)
	assert.Equal(t, store.DefaultProfileName, m.Profiles()[0].Name)
	assert.Equal(t, m.Profiles()[0].ID, s.LoadActiveProfileID())

	require.True(t, m.CreateProfile("Deep work"))
	reloaded := NewManager(s, store.DefaultSettings())
	require.Len(t, reloaded.Profiles(), 2)
	assert.Equal(t, "Deep work", reloaded.Profiles()[0].Name)
	assert.Equal(t, m.ActiveID(), reloaded.ActiveID())
}

// ============================================================
// Create / rename / select / delete
// ============================================================

func TestCreateProfile(t *testing.T) {
	st := &memStore{}
	m := newTestManager(t, st)
	m.UpdateSettings(SettingsPatch{WorkDuration: intp(50)})

	require.True(t, m.CreateProfile("  Study  "))

	profiles := m.Profiles()
	require.Len(t, profiles, 2)
	p := profiles[0]
	assert.Equal(t, "id-1", p.ID)
	assert.Equal(t, "Study", p.Name)
	assert.Equal(t, store.DefaultSettings(), p.Settings, "settings come from defaults, not the active profile")
	assert.Equal(t, fixedNow.UnixMilli(), p.CreatedAt)
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)
	assert.Equal(t, "id-1", m.ActiveID())
	assert.Equal(t, "id-1", st.activeID)
	assert.Len(t, st.profiles, 2)
}

func TestCreateProfileEmptyName(t *testing.T) {
	st := &memStore{}
	m := newTestManager(t, st)
	saves := st.profileSaves

	assert.False(t, m.CreateProfile(""))
	assert.False(t, m.CreateProfile("   "))
	assert.Len(t, m.Profiles(), 1)
	assert.Equal(t, saves, st.profileSaves)
}

func TestRenameProfile(t *testing.T) {
	st := &memStore{}
	m := newTestManager(t, st)

	require.True(t, m.RenameProfile("default", " Focus "))
	assert.Equal(t, "Focus", m.Profiles()[0].Name)
	assert.Equal(t, fixedNow.UnixMilli(), m.Profiles()[0].UpdatedAt)
	assert.Equal(t, "Focus", st.profiles[0].Name)

	assert.False(t, m.RenameProfile("default", ""))
	assert.False(t, m.RenameProfile("missing", "X"))
	assert.Equal(t, "Focus", m.Profiles()[0].Name)
}

func TestSelectProfile(t *testing.T) {
	st := &memStore{}
	m := newTestManager(t, st)
	require.True(t, m.CreateProfile("Second"))

	require.True(t, m.SelectProfile("default"))
	assert.Equal(t, "default", m.ActiveID())
	assert.Equal(t, "default", st.activeID)

	assert.False(t, m.SelectProfile("unknown"))
	assert.Equal(t, "default", m.ActiveID())
	assert.Equal(t, "default", st.activeID)
}

func TestDeleteLastProfileFails(t *testing.T) {
	st := &memStore{}
	m := newTestManager(t, st)
	saves := st.profileSaves

	assert.False(t, m.DeleteProfile("default"))
	assert.Len(t, m.Profiles(), 1)
	assert.Equal(t, "default", m.ActiveID())
	assert.Equal(t, saves, st.profileSaves)
}

func TestDeleteActiveProfileReassigns(t *testing.T) {
	st := &memStore{}
	m := newTestManager(t, st)
	require.True(t, m.CreateProfile("Second")) // [id-1, default], active id-1

	require.True(t, m.DeleteProfile("id-1"))
	require.Len(t, m.Profiles(), 1)
	assert.Equal(t, "default", m.ActiveID())
	assert.Equal(t, "default", st.activeID)
}

func TestDeleteInactiveProfileKeepsActive(t *testing.T) {
	st := &memStore{}
	m := newTestManager(t, st)
	require.True(t, m.CreateProfile("Second"))

	require.True(t, m.DeleteProfile("default"))
	assert.Equal(t, "id-1", m.ActiveID())
	assert.False(t, m.DeleteProfile("missing"))
}

func TestProfileListNeverEmpty(t *testing.T) {
	st := &memStore{}
	m := newTestManager(t, st)
	for i := 0; i < 3; i++ {
		require.True(t, m.CreateProfile(fmt.Sprintf("p%d", i)))
	}
	for _, p := range m.Profiles() {
		m.DeleteProfile(p.ID)
	}
	assert.Len(t, m.Profiles(), 1)
	_, ok := m.Active()
	assert.True(t, ok)
}

// ============================================================
// Settings
// ============================================================

func TestUpdateSettingsMerges(t *testing.T) {
	st := &memStore{}
	m := newTestManager(t, st)

	m.UpdateSettings(SettingsPatch{WorkDuration: intp(50), AutoStartWork: boolp(true)})

	s := m.ActiveSettings()
	assert.Equal(t, 50, s.WorkDuration)
	assert.True(t, s.AutoStartWork)
	assert.Equal(t, 5, s.ShortBreakDuration)
	assert.Equal(t, fixedNow.UnixMilli(), m.Profiles()[0].UpdatedAt)
	assert.Equal(t, 50, st.profiles[0].Settings.WorkDuration)
}

func TestUpdateSettingsOnlyTouchesActive(t *testing.T) {
	st := &memStore{}
	m := newTestManager(t, st)
	require.True(t, m.CreateProfile("Other"))

	m.UpdateSettings(SettingsPatch{LongBreakDuration: intp(30)})
	byID := map[string]store.Settings{}
	for _, p := range m.Profiles() {
		byID[p.ID] = p.Settings
	}
	assert.Equal(t, 30, byID["id-1"].LongBreakDuration)
	assert.Equal(t, 15, byID["default"].LongBreakDuration)
}

func TestResetSettings(t *testing.T) {
	st := &memStore{}
	m := newTestManager(t, st)
	m.UpdateSettings(SettingsPatch{WorkDuration: intp(50), AutoStartBreaks: boolp(true)})

	m.ResetSettings()
	assert.Equal(t, store.DefaultSettings(), m.ActiveSettings())
	assert.Equal(t, store.DefaultSettings(), st.profiles[0].Settings)
}

func TestUpdateSettingsWithoutActiveIsNoop(t *testing.T) {
	st := &memStore{}
	m := &Manager{store: st, defaults: store.DefaultSettings(), now: time.Now}
	m.UpdateSettings(SettingsPatch{WorkDuration: intp(10)})
	m.ResetSettings()
	assert.Zero(t, st.profileSaves)
}
