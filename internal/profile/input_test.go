package profile

import (
	"testing"

	"github.com/sadopc/pomodr/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestParseSettingsInputFallbacks(t *testing.T) {
	patch := ParseSettingsInput(SettingsInput{
		WorkDuration:           "abc",
		ShortBreakDuration:     "",
		LongBreakDuration:      "0",
		SessionsUntilLongBreak: "x",
		AutoStartWork:          true,
	})
	got := patch.apply(store.Settings{})
	assert.Equal(t, store.Settings{
		WorkDuration:           25,
		ShortBreakDuration:     5,
		LongBreakDuration:      15,
		SessionsUntilLongBreak: 4,
		AutoStartWork:          true,
	}, got)
}

func TestParseSettingsInputClamps(t *testing.T) {
	tests := []struct {
		name string
		in   SettingsInput
		want store.Settings
	}{
		{
			name: "in range",
			in:   SettingsInput{WorkDuration: "50", ShortBreakDuration: " 10 ", LongBreakDuration: "20", SessionsUntilLongBreak: "3"},
			want: store.Settings{WorkDuration: 50, ShortBreakDuration: 10, LongBreakDuration: 20, SessionsUntilLongBreak: 3},
		},
		{
			name: "too large",
			in:   SettingsInput{WorkDuration: "120", ShortBreakDuration: "45", LongBreakDuration: "90", SessionsUntilLongBreak: "20"},
			want: store.Settings{WorkDuration: 60, ShortBreakDuration: 30, LongBreakDuration: 60, SessionsUntilLongBreak: 10},
		},
		{
			name: "too small",
			in:   SettingsInput{WorkDuration: "-5", ShortBreakDuration: "-1", LongBreakDuration: "-3", SessionsUntilLongBreak: "1"},
			want: store.Settings{WorkDuration: 1, ShortBreakDuration: 1, LongBreakDuration: 1, SessionsUntilLongBreak: 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSettingsInput(tt.in).apply(store.Settings{}))
		})
	}
}

func TestInputFromSettingsRoundTrip(t *testing.T) {
	s := store.Settings{WorkDuration: 45, ShortBreakDuration: 7, LongBreakDuration: 20, SessionsUntilLongBreak: 3, AutoStartBreaks: true}
	assert.Equal(t, s, ParseSettingsInput(InputFromSettings(s)).apply(store.Settings{}))
}
