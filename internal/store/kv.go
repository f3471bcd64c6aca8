package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Key names one logical collection in the store.
type Key string

const (
	KeyLegacySettings  Key = "pomodoro_settings"
	KeyProfiles        Key = "pomodoro_profiles"
	KeyActiveProfileID Key = "pomodoro_active_profile_id"
	KeySessions        Key = "pomodoro_sessions"
	KeyTimerState      Key = "pomodoro_timer_state"
	KeyTasks           Key = "pomodoro_tasks"
)

// Load decodes the value stored under key on top of a copy of def.
// A missing key, a read failure or malformed JSON all yield def.
func Load[T any](s *Store, key Key, def T) T {
	raw, ok := s.get(key)
	if !ok {
		return def
	}
	v := def
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		s.log.Warn("discarding malformed value", zap.String("key", string(key)), zap.Error(err))
		return def
	}
	return v
}

// Save encodes v as JSON and stores it under key. Failures are logged and
// dropped.
func Save[T any](s *Store, key Key, v T) {
	b, err := json.Marshal(v)
	if err != nil {
		s.log.Warn("encode value", zap.String("key", string(key)), zap.Error(err))
		return
	}
	s.put(key, string(b))
}

// Has reports whether a value is stored under key.
func (s *Store) Has(key Key) bool {
	_, ok := s.get(key)
	return ok
}

// Delete removes key. Failures are logged and dropped.
func (s *Store) Delete(key Key) {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, string(key)); err != nil {
		s.log.Warn("delete value", zap.String("key", string(key)), zap.Error(err))
	}
}

func (s *Store) get(key Key) (string, bool) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, string(key)).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false
	}
	if err != nil {
		s.log.Warn("read value", zap.String("key", string(key)), zap.Error(err))
		return "", false
	}
	return value, true
}

func (s *Store) put(key Key, value string) {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		string(key), value, now,
	)
	if err != nil {
		s.log.Warn("write value", zap.String("key", string(key)), zap.Error(err))
	}
}
