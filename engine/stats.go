/*
stats.go - Aggregator

PURPOSE:
  Produces the period statistics the dashboard renders: total hours and
  flextime, per-category unique-day counts and hour sums, weekend/workday
  splits, future planned-day counts from the holiday declarations, and the
  workload percentage for year/month timeframes. Also the cached averages
  over past weekdays.

TIMEFRAMES:
  total - every bucketed day
  year  - days in asOf's calendar year
  month - days in asOf's calendar month

  Future-dated planned days use the same timeframe predicate, restricted to
  dates strictly after asOf's local date.

CATEGORY ROWS:
  Aggregation is generic over category ids: every category - built-in or
  user-defined - gets its own row, keyed by id. Nothing is folded into the
  work category. Policy rows with CountInStats=false are excluded entirely.

CACHING:
  Averages is memoized per (snapshot token, as-of date). The token changes
  whenever raw entries, settings or holidays change, so a stale hit is
  impossible without mutating inputs behind the engine's back.
*/
package engine

import (
	"fmt"
	"time"
)

// =============================================================================
// TIMEFRAMES
// =============================================================================

type Timeframe string

const (
	TimeframeTotal Timeframe = "total"
	TimeframeYear  Timeframe = "year"
	TimeframeMonth Timeframe = "month"
)

// ParseTimeframe accepts the route-parameter spellings.
func ParseTimeframe(s string) (Timeframe, error) {
	switch Timeframe(s) {
	case TimeframeTotal, TimeframeYear, TimeframeMonth:
		return Timeframe(s), nil
	}
	return "", fmt.Errorf("unknown timeframe %q", s)
}

func (tf Timeframe) predicate(asOf Day) func(Day) bool {
	switch tf {
	case TimeframeYear:
		return func(d Day) bool { return d.Year == asOf.Year }
	case TimeframeMonth:
		return func(d Day) bool { return d.Year == asOf.Year && d.Month == asOf.Month }
	default:
		return func(Day) bool { return true }
	}
}

// periodStart is the lower bound used for expected-workday counting.
func (tf Timeframe) periodStart(asOf Day) (Day, bool) {
	switch tf {
	case TimeframeYear:
		return asOf.StartOfYear(), true
	case TimeframeMonth:
		return asOf.StartOfMonth(), true
	default:
		return Day{}, false
	}
}

// =============================================================================
// STATS
// =============================================================================

// CategoryStats is one category's row in the statistics snapshot.
type CategoryStats struct {
	Days           int   // unique days with at least one entry of this category
	Hours          Hours // summed durations
	PlannedDays    int   // future-dated holiday declarations of this type
	MaxDaysPerYear int   // annual cap from the policy row, 0 = none
}

// Stats is the read-only statistics snapshot for one timeframe.
type Stats struct {
	Timeframe     Timeframe
	AsOf          Day
	TotalHours    Hours
	TotalFlextime Hours
	Categories    map[CategoryID]*CategoryStats
	WeekendDays   int   // unique non-work-weekday days with entries
	WeekendHours  Hours // hours logged on those days
	WorkdayCount  int   // unique work-weekday days with entries
	// WorkloadPercent = total hours / (expected workdays x daily goal) x 100.
	// Zero for the total timeframe, which has no bounded expectation.
	WorkloadPercent float64
}

// Statistics aggregates the buckets filtered by the timeframe predicate.
// Pure over the engine's computed state: calling it twice yields identical
// results.
func (e *Engine) Statistics(tf Timeframe, asOf time.Time) (Stats, error) {
	if !e.processed {
		return Stats{}, ErrNotProcessed
	}

	today := DayOf(asOf)
	include := tf.predicate(today)

	stats := Stats{
		Timeframe:  tf,
		AsOf:       today,
		Categories: make(map[CategoryID]*CategoryStats),
	}

	for day, entries := range e.buckets {
		if !include(day) {
			continue
		}

		weekend := !e.settings.IsWorkday(day.Weekday())
		if weekend {
			stats.WeekendDays++
		} else {
			stats.WorkdayCount++
		}

		seen := make(map[CategoryID]bool)
		for _, entry := range entries {
			policy := e.policies.ResolveID(entry.Category)
			if !policy.CountInStats {
				continue
			}

			stats.TotalHours = stats.TotalHours.Add(entry.Duration)
			stats.TotalFlextime = stats.TotalFlextime.Add(entry.Flextime)
			if weekend {
				stats.WeekendHours = stats.WeekendHours.Add(entry.Duration)
			}

			row := stats.category(entry.Category, policy)
			row.Hours = row.Hours.Add(entry.Duration)
			if !seen[entry.Category] {
				seen[entry.Category] = true
				row.Days++
			}
		}
	}

	for date, info := range e.holidays {
		if !include(date) || !date.After(today) {
			continue
		}
		policy := e.policies.ResolveID(info.Type)
		if !policy.CountInStats {
			continue
		}
		stats.category(info.Type, policy).PlannedDays++
	}

	if start, bounded := tf.periodStart(today); bounded {
		stats.WorkloadPercent = e.workloadPercent(stats.TotalHours, start, today)
	}

	return stats, nil
}

func (s *Stats) category(id CategoryID, policy DayTypePolicy) *CategoryStats {
	row, ok := s.Categories[id]
	if !ok {
		row = &CategoryStats{MaxDaysPerYear: policy.MaxDaysPerYear}
		s.Categories[id] = row
	}
	return row
}

// workloadPercent relates logged hours to the expected hours between the
// period start and asOf (configured workdays x daily goal).
func (e *Engine) workloadPercent(total Hours, start, asOf Day) float64 {
	expectedDays := 0
	for d := start; d.BeforeOrEqual(asOf); d = d.AddDays(1) {
		if e.settings.IsWorkday(d.Weekday()) {
			expectedDays++
		}
	}
	expected := e.settings.DailyGoal().MulInt(int64(expectedDays))
	if !expected.IsPositive() {
		return 0
	}
	return total.Float64() / expected.Float64() * 100
}

// =============================================================================
// AVERAGES
// =============================================================================

// Averages are computed over work-weekday buckets strictly before the as-of
// date.
type Averages struct {
	HoursPerDay  Hours
	HoursPerWeek Hours
	DaysCounted  int
}

type averagesKey struct {
	token uint64
	asOf  Day
}

// Averages returns average hours per day and per week. Memoized per
// (snapshot token, as-of date).
func (e *Engine) Averages(asOf time.Time) (Averages, error) {
	if !e.processed {
		return Averages{}, ErrNotProcessed
	}

	key := averagesKey{token: e.SnapshotToken(), asOf: DayOf(asOf)}
	if cached, ok := e.avgCache[key]; ok {
		return cached, nil
	}

	var total Hours
	days := 0
	for day, entries := range e.buckets {
		if !day.Before(key.asOf) || !e.settings.IsWorkday(day.Weekday()) {
			continue
		}
		days++
		for _, entry := range entries {
			total = total.Add(entry.Duration)
		}
	}

	avg := Averages{DaysCounted: days}
	if days > 0 {
		avg.HoursPerDay = total.Div(int64(days))
		// total / (days / workdaysPerWeek) without integer truncation
		avg.HoursPerWeek = total.MulInt(int64(e.settings.WorkdaysPerWeek())).Div(int64(days))
	}

	e.avgCache[key] = avg
	return avg, nil
}
