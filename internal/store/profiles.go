package store

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultProfileName names the profile synthesized on first run.
const DefaultProfileName = "Default"

// NewProfile builds a profile with a fresh id and both timestamps set to now.
func NewProfile(name string, settings Settings, now time.Time) Profile {
	ms := now.UnixMilli()
	return Profile{
		ID:        uuid.NewString(),
		Name:      name,
		Settings:  settings,
		CreatedAt: ms,
		UpdatedAt: ms,
	}
}

// LoadLegacySettings reads the single-settings record written by earlier
// versions, filling missing fields from DefaultSettings.
func (s *Store) LoadLegacySettings() Settings {
	return Load(s, KeyLegacySettings, DefaultSettings())
}

// LoadProfiles returns the stored profiles. When no usable collection
// exists it synthesizes a Default profile from the legacy settings record,
// persists it and makes it active, so the result is never empty.
func (s *Store) LoadProfiles() []Profile {
	profiles := Load[[]Profile](s, KeyProfiles, nil)
	if len(profiles) > 0 {
		return profiles
	}

	legacy := s.LoadLegacySettings().Normalize()
	migrated := []Profile{NewProfile(DefaultProfileName, legacy, time.Now())}
	s.log.Info("created default profile",
		zap.String("id", migrated[0].ID),
		zap.Bool("from_legacy", s.Has(KeyLegacySettings)),
	)
	s.SaveProfiles(migrated)
	s.SaveActiveProfileID(migrated[0].ID)
	return migrated
}

func (s *Store) SaveProfiles(profiles []Profile) {
	Save(s, KeyProfiles, profiles)
}

// LoadActiveProfileID returns the stored active id, or "" if none.
func (s *Store) LoadActiveProfileID() string {
	return Load(s, KeyActiveProfileID, "")
}

func (s *Store) SaveActiveProfileID(id string) {
	Save(s, KeyActiveProfileID, id)
}
