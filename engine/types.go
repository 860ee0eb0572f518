/*
Package engine is the flextime balance engine.

PURPOSE:
  Converts raw start/end timer entries and a calendar of declared special
  days (vacation, sick leave, public holidays, ...) into daily goals, worked
  durations, signed flextime deltas, running balances, period statistics and
  a data-quality report. The engine is pure computation over in-memory data:
  persistence and presentation live in collaborating packages (store/, api/).

KEY CONCEPTS IN THIS FILE (types.go):
  - Hours: a signed quantity of hours (decimal-backed, no float drift)
  - RawEntry: an entry as handed to the engine by a collaborator
  - TimeEntry: a closed, dated, duration-bearing entry (normalizer output)
  - ActiveEntry: a still-running timer
  - HolidayInfo: a declared special day

DESIGN PRINCIPLES:
  1. Precision: decimal.Decimal for all hour arithmetic
  2. Determinism: every wall-clock-sensitive query takes an explicit as-of time
  3. Policy as data: category behavior comes from the policy table, never
     from string comparisons scattered through computation paths

SEE ALSO:
  - policy.go: day-type policy table
  - normalize.go: raw entries -> day buckets + active set
  - goal.go: required hours per date
  - flextime.go: per-entry flextime and running balance
  - stats.go / validate.go: aggregation and data-quality checks
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// HOURS - Signed quantity of hours
// =============================================================================

type Hours struct {
	Value decimal.Decimal
}

func NewHours(v float64) Hours {
	return Hours{Value: decimal.NewFromFloat(v)}
}

// HoursBetween returns the wall-clock difference end - start in hours.
func HoursBetween(start, end time.Time) Hours {
	return Hours{Value: decimal.NewFromFloat(end.Sub(start).Hours())}
}

func (h Hours) Add(o Hours) Hours          { return Hours{Value: h.Value.Add(o.Value)} }
func (h Hours) Sub(o Hours) Hours          { return Hours{Value: h.Value.Sub(o.Value)} }
func (h Hours) Neg() Hours                 { return Hours{Value: h.Value.Neg()} }
func (h Hours) IsZero() bool               { return h.Value.IsZero() }
func (h Hours) IsNegative() bool           { return h.Value.IsNegative() }
func (h Hours) IsPositive() bool           { return h.Value.IsPositive() }
func (h Hours) GreaterThan(o Hours) bool   { return h.Value.GreaterThan(o.Value) }
func (h Hours) LessThan(o Hours) bool      { return h.Value.LessThan(o.Value) }
func (h Hours) Equal(o Hours) bool         { return h.Value.Equal(o.Value) }
func (h Hours) Float64() float64           { f, _ := h.Value.Float64(); return f }
func (h Hours) String() string             { return h.Value.String() }

// Div divides by an integer count (aggregate averages). n must be non-zero.
func (h Hours) Div(n int64) Hours {
	return Hours{Value: h.Value.Div(decimal.NewFromInt(n))}
}

// MulInt scales by an integer count.
func (h Hours) MulInt(n int64) Hours {
	return Hours{Value: h.Value.Mul(decimal.NewFromInt(n))}
}

func (h Hours) Max(o Hours) Hours {
	if h.GreaterThan(o) {
		return h
	}
	return o
}

// =============================================================================
// ENTRIES
// =============================================================================

// RawEntry is a time entry as supplied by the caller. A zero StartTime means
// the start is missing (the normalizer skips it, the validator reports it);
// a nil EndTime means the timer is still running.
type RawEntry struct {
	Name      string
	StartTime time.Time
	EndTime   *time.Time
}

// TimeEntry is a closed entry after normalization: bucketed under the local
// calendar date of its start, with derived duration, and - once the flextime
// calculator has run - a signed flextime contribution.
type TimeEntry struct {
	Name      string
	Category  CategoryID
	StartTime time.Time
	EndTime   time.Time
	Date      Day
	Duration  Hours
	Flextime  Hours

	// rawIndex identifies the originating raw entry, so the validator can
	// count one logical entry once across its passes.
	rawIndex int
}

// ActiveEntry is a still-open timer, indexed by the local date of its start.
type ActiveEntry struct {
	Name      string
	Category  CategoryID
	StartTime time.Time
	Date      Day

	rawIndex int
}

// Elapsed returns the hours the timer has been running as of the given time.
func (a *ActiveEntry) Elapsed(asOf time.Time) Hours {
	return HoursBetween(a.StartTime, asOf)
}

// =============================================================================
// BUCKETS
// =============================================================================

// DayBuckets maps a local calendar date to the closed entries bucketed under
// it. A date key exists iff at least one closed entry exists for that date.
type DayBuckets map[Day][]*TimeEntry

// ActiveSet holds the still-open entries plus an index by start date.
type ActiveSet struct {
	Entries []*ActiveEntry
	ByDay   map[Day][]*ActiveEntry
}

// MonthGroups is the display rollup: year-month ("2006-01") -> ISO week
// number -> entries, flattened and ordered by start time.
type MonthGroups map[string]map[int][]*TimeEntry

// =============================================================================
// HOLIDAYS
// =============================================================================

// HolidayInfo is one declared special day, parsed from the line-oriented
// declaration source. Read-only after loading.
type HolidayInfo struct {
	Date        Day
	Type        CategoryID
	Description string
	HalfDay     bool
}

// HolidayMap is keyed by the declared date.
type HolidayMap map[Day]HolidayInfo
