package engine

import "time"

// =============================================================================
// SETTINGS - Caller-supplied configuration, referenced not copied
// =============================================================================

// HalfDayMode selects how a half-day declaration resolves to hours.
type HalfDayMode string

const (
	// HalfDayFixed uses Settings.HalfDayHours verbatim.
	HalfDayFixed HalfDayMode = "fixed"
	// HalfDayHalf uses half of the standard daily goal.
	HalfDayHalf HalfDayMode = "half"
)

// Thresholds are the validator's tunable limits, in hours.
type Thresholds struct {
	LongTimerHours   float64 // active entry running longer than this warns
	LongSessionHours float64 // closed entry longer than this warns
	MaxDurationHours float64 // closed entry longer than this errors
	HighWeeklyHours  float64 // current-week total above this is informational
}

// Settings is the engine configuration. The engine treats it as immutable
// for its lifetime; changing settings means constructing a fresh engine.
type Settings struct {
	WorkdayHours      float64
	WorkweekHours     float64
	WorkPercent       float64
	LunchBreakMinutes int
	WorkWeekdays      []time.Weekday
	HalfDayHours      float64
	HalfDayMode       HalfDayMode
	BalanceFloor      Day // balance is not tracked before this date
	Policies          []DayTypePolicy
	Thresholds        Thresholds
}

// DefaultSettings returns a 100% position on a 7.5h day, Monday-Friday.
func DefaultSettings() Settings {
	return Settings{
		WorkdayHours:      7.5,
		WorkweekHours:     37.5,
		WorkPercent:       1.0,
		LunchBreakMinutes: 0,
		WorkWeekdays: []time.Weekday{
			time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
		},
		HalfDayHours: 3.75,
		HalfDayMode:  HalfDayHalf,
		BalanceFloor: NewDay(2020, time.January, 1),
		Thresholds: Thresholds{
			LongTimerHours:   12,
			LongSessionHours: 16,
			MaxDurationHours: 24,
			HighWeeklyHours:  55,
		},
	}
}

// IsWorkday reports whether the weekday is in the configured work-days set.
func (s Settings) IsWorkday(wd time.Weekday) bool {
	for _, w := range s.WorkWeekdays {
		if w == wd {
			return true
		}
	}
	return false
}

// WorkdaysPerWeek returns the size of the work-days set (at least 1, so the
// averages computation never divides by zero).
func (s Settings) WorkdaysPerWeek() int {
	if n := len(s.WorkWeekdays); n > 0 {
		return n
	}
	return 1
}

// DailyGoal is the standard required hours on a full work day.
func (s Settings) DailyGoal() Hours {
	return NewHours(s.WorkdayHours * s.WorkPercent)
}

// HalfDayGoal resolves the half-day requirement per the configured mode.
func (s Settings) HalfDayGoal() Hours {
	if s.HalfDayMode == HalfDayFixed {
		return NewHours(s.HalfDayHours)
	}
	return NewHours(s.WorkdayHours * s.WorkPercent / 2)
}
