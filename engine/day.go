package engine

import (
	"fmt"
	"time"
)

// =============================================================================
// DAY - Local calendar date
// =============================================================================

// Day is a plain calendar date with no location attached. Entries are always
// bucketed under the local date of their start timestamp, so the conversion
// from time.Time happens exactly once, in DayOf, using the timestamp's own
// location. Day is comparable and safe as a map key.
type Day struct {
	Year  int
	Month time.Month
	Date  int
}

// DayOf returns the calendar date of t in t's own location.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day{Year: y, Month: m, Date: d}
}

func NewDay(year int, month time.Month, date int) Day {
	return Day{Year: year, Month: month, Date: date}
}

// ParseDay parses an ISO "2006-01-02" date string.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DayOf(t), nil
}

// Comparison via tuple ordering; no time.Time round-trip involved.
func (d Day) Before(o Day) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Date < o.Date
}

func (d Day) After(o Day) bool         { return o.Before(d) }
func (d Day) Equal(o Day) bool         { return d == o }
func (d Day) BeforeOrEqual(o Day) bool { return !o.Before(d) }
func (d Day) AfterOrEqual(o Day) bool  { return !d.Before(o) }
func (d Day) IsZero() bool             { return d == Day{} }

// utc materializes the date as a UTC midnight for calendar arithmetic only.
// The location is irrelevant here: weekday and date arithmetic depend on the
// calendar date alone.
func (d Day) utc() time.Time {
	return time.Date(d.Year, d.Month, d.Date, 0, 0, 0, 0, time.UTC)
}

func (d Day) Weekday() time.Weekday { return d.utc().Weekday() }

func (d Day) AddDays(n int) Day { return DayOf(d.utc().AddDate(0, 0, n)) }

// ISOWeek returns the ISO 8601 year and week number.
func (d Day) ISOWeek() (year, week int) { return d.utc().ISOWeek() }

func (d Day) String() string { return d.utc().Format("2006-01-02") }

// YearMonth returns the "2006-01" grouping key.
func (d Day) YearMonth() string { return d.utc().Format("2006-01") }

// StartOfWeek returns the Monday of d's week.
func (d Day) StartOfWeek() Day {
	offset := (int(d.Weekday()) + 6) % 7 // Monday = 0
	return d.AddDays(-offset)
}

func (d Day) StartOfMonth() Day { return Day{Year: d.Year, Month: d.Month, Date: 1} }
func (d Day) StartOfYear() Day  { return Day{Year: d.Year, Month: time.January, Date: 1} }

// DaysBetween returns the number of calendar days from 'from' to 'to'
// (negative when 'to' precedes 'from').
func DaysBetween(from, to Day) int {
	return int(to.utc().Sub(from.utc()).Hours() / 24)
}
