// Package stats derives focus summaries from the session log.
package stats

import (
	"math"
	"time"

	"github.com/sadopc/pomodr/internal/store"
)

// WindowDays is the length of the weekly window.
const WindowDays = 7

// DayBucket holds the work sessions completed on one calendar day.
type DayBucket struct {
	Key          int64 // day start, ms since epoch
	Day          time.Time
	FocusMinutes int
	WorkSessions int
}

type Summary struct {
	Days              []DayBucket // oldest first, always WindowDays long
	TotalWorkSessions int
	TotalFocusMinutes int
	AvgFocusMinutes   int
}

// Weekly buckets work sessions into the seven calendar days ending with the
// day containing now, in now's location. Days without sessions are present
// with zero values.
func Weekly(sessions []store.Session, now time.Time) Summary {
	loc := now.Location()
	today := StartOfDay(now)
	windowStart := today.AddDate(0, 0, -(WindowDays - 1))

	sum := Summary{Days: make([]DayBucket, WindowDays)}
	index := make(map[int64]int, WindowDays)
	for i := range sum.Days {
		day := windowStart.AddDate(0, 0, i)
		sum.Days[i] = DayBucket{Key: day.UnixMilli(), Day: day}
		index[day.UnixMilli()] = i
	}

	for _, s := range sessions {
		if s.Phase != store.PhaseWork {
			continue
		}
		day := StartOfDay(s.CompletedTime().In(loc))
		i, ok := index[day.UnixMilli()]
		if !ok {
			continue
		}
		minutes := roundMinutes(s.Duration)
		sum.Days[i].FocusMinutes += minutes
		sum.Days[i].WorkSessions++
		sum.TotalFocusMinutes += minutes
		sum.TotalWorkSessions++
	}

	sum.AvgFocusMinutes = int(math.Round(float64(sum.TotalFocusMinutes) / WindowDays))
	return sum
}

// TodaySummary covers every session completed on now's calendar day.
type TodaySummary struct {
	WorkSessions int
	TotalSeconds int // all phases
}

func Today(sessions []store.Session, now time.Time) TodaySummary {
	loc := now.Location()
	today := StartOfDay(now)
	var out TodaySummary
	for _, s := range sessions {
		if !StartOfDay(s.CompletedTime().In(loc)).Equal(today) {
			continue
		}
		if s.Phase == store.PhaseWork {
			out.WorkSessions++
		}
		out.TotalSeconds += s.Duration
	}
	return out
}

// StartOfDay returns midnight of t's day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func roundMinutes(seconds int) int {
	return int(math.Round(float64(seconds) / 60))
}
