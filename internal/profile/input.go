package profile

import (
	"strconv"
	"strings"

	"github.com/sadopc/pomodr/internal/store"
)

// SettingsInput is the raw text of the settings form.
type SettingsInput struct {
	WorkDuration           string
	ShortBreakDuration     string
	LongBreakDuration      string
	SessionsUntilLongBreak string
	AutoStartBreaks        bool
	AutoStartWork          bool
}

// InputFromSettings renders s as form text.
func InputFromSettings(s store.Settings) SettingsInput {
	return SettingsInput{
		WorkDuration:           strconv.Itoa(s.WorkDuration),
		ShortBreakDuration:     strconv.Itoa(s.ShortBreakDuration),
		LongBreakDuration:      strconv.Itoa(s.LongBreakDuration),
		SessionsUntilLongBreak: strconv.Itoa(s.SessionsUntilLongBreak),
		AutoStartBreaks:        s.AutoStartBreaks,
		AutoStartWork:          s.AutoStartWork,
	}
}

// ParseSettingsInput converts form text into a full patch. Fields that do
// not parse to a positive number fall back to fixed values (25, 5, 15, 4)
// and every number is clamped to the range the form allows.
func ParseSettingsInput(in SettingsInput) SettingsPatch {
	work := parseMinutes(in.WorkDuration, 25, 1, 60)
	short := parseMinutes(in.ShortBreakDuration, 5, 1, 30)
	long := parseMinutes(in.LongBreakDuration, 15, 1, 60)
	every := parseMinutes(in.SessionsUntilLongBreak, 4, 2, 10)
	autoBreaks, autoWork := in.AutoStartBreaks, in.AutoStartWork
	return SettingsPatch{
		WorkDuration:           &work,
		ShortBreakDuration:     &short,
		LongBreakDuration:      &long,
		SessionsUntilLongBreak: &every,
		AutoStartBreaks:        &autoBreaks,
		AutoStartWork:          &autoWork,
	}
}

func parseMinutes(s string, fallback, lo, hi int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n == 0 {
		return fallback
	}
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
