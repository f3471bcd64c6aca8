package store

// LoadSessions returns the session log, newest first.
func (s *Store) LoadSessions() []Session {
	sessions := Load[[]Session](s, KeySessions, nil)
	if sessions == nil {
		return []Session{}
	}
	return sessions
}

func (s *Store) SaveSessions(sessions []Session) {
	if sessions == nil {
		sessions = []Session{}
	}
	Save(s, KeySessions, sessions)
}

// LoadTimerSnapshot returns the persisted timer state and whether one was
// found.
func (s *Store) LoadTimerSnapshot() (TimerSnapshot, bool) {
	snap := Load[*TimerSnapshot](s, KeyTimerState, nil)
	if snap == nil {
		return TimerSnapshot{}, false
	}
	return *snap, true
}

func (s *Store) SaveTimerSnapshot(snap TimerSnapshot) {
	Save(s, KeyTimerState, snap)
}

func (s *Store) ClearTimerSnapshot() {
	s.Delete(KeyTimerState)
}
