/*
engine.go - Balance Engine facade

PURPOSE:
  Owns the processing pass and the computed state: day buckets, active set,
  month/week groups, holiday map, and the memoized aggregates. One engine
  instance represents one immutable snapshot of raw entries + settings +
  holidays; entries change via a fresh ProcessEntries pass, holidays via
  LoadHolidays (which re-annotates the buckets), settings via a fresh
  engine. Nothing pokes at caches directly.

PROCESSING PASS:
  raw entries -> normalize (buckets + active set)
              -> annotate flextime (per entry, consulting the goal resolver)
              -> derive display groups

  Everything after the pass is a pure read over the computed state, keyed by
  an explicit as-of time where wall-clock sensitivity exists.

CACHING:
  Aggregates are memoized under a snapshot token: an FNV-1a hash over the
  settings, the holiday map and the raw entries. The token changes whenever
  the inputs change, making staleness explicit and testable.

USAGE:
  eng := engine.New(settings)
  status := eng.LoadHolidays(ctx, source)
  eng.ProcessEntries(entries)
  balance, err := eng.CurrentBalance(time.Now())
*/
package engine

import (
	"fmt"
	"hash/fnv"
	"sort"
	"time"
)

// Engine is the balance engine. Not safe for concurrent mutation; computed
// results are immutable snapshots and safe to read concurrently once
// returned.
type Engine struct {
	settings Settings
	policies *PolicyTable
	clock    Clock

	holidays HolidayMap
	raw      []RawEntry

	buckets DayBuckets
	active  ActiveSet
	groups  MonthGroups

	resolver *GoalResolver
	calc     *Calculator

	processed bool
	token     uint64
	avgCache  map[averagesKey]Averages
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithClock overrides the wall clock (tests, replay).
func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// New creates an engine for the given settings. Holidays and entries are
// loaded afterwards via LoadHolidays and ProcessEntries.
func New(settings Settings, opts ...Option) *Engine {
	e := &Engine{
		settings: settings,
		policies: NewPolicyTable(settings.Policies),
		clock:    SystemClock{},
		holidays: make(HolidayMap),
		avgCache: make(map[averagesKey]Averages),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.rebind()
	return e
}

// rebind rebuilds the resolver/calculator pair and invalidates the snapshot
// token after any input change. When a processing pass has already run, the
// buckets are re-annotated so per-entry flextime tracks the new goals.
func (e *Engine) rebind() {
	e.resolver = &GoalResolver{settings: e.settings, policies: e.policies, holidays: e.holidays}
	e.calc = &Calculator{resolver: e.resolver, policies: e.policies}
	e.token = 0
	if e.processed {
		e.calc.Annotate(e.buckets)
	}
}

// Clock returns the engine's clock, the default "now" for outermost callers.
func (e *Engine) Clock() Clock { return e.clock }

// Settings returns the configuration the engine was built with.
func (e *Engine) Settings() Settings { return e.settings }

// Policies returns the resolved day-type policy table.
func (e *Engine) Policies() *PolicyTable { return e.policies }

// Holidays returns the loaded holiday map. Read-only.
func (e *Engine) Holidays() HolidayMap { return e.holidays }

// =============================================================================
// PROCESSING PASS
// =============================================================================

// ProcessEntries runs the full synchronous pass over the raw entry list.
// The list is referenced, not copied; mutating it afterwards without a fresh
// pass is undefined behavior.
func (e *Engine) ProcessEntries(raw []RawEntry) {
	e.raw = raw
	e.buckets, e.active = normalizeEntries(raw, e.policies, e.settings)
	e.calc.Annotate(e.buckets)
	e.groups = groupByMonthWeek(e.buckets)
	e.processed = true
	e.token = 0
}

// Buckets returns the closed-entry day buckets.
func (e *Engine) Buckets() DayBuckets { return e.buckets }

// Active returns the still-open entries and their by-date index.
func (e *Engine) Active() ActiveSet { return e.active }

// Groups returns the month -> week display rollup.
func (e *Engine) Groups() MonthGroups { return e.groups }

// =============================================================================
// GOAL AND BALANCE QUERIES
// =============================================================================

// Goal resolves the required hours for a date. Valid before ProcessEntries:
// it depends only on settings and holidays.
func (e *Engine) Goal(date Day) Hours { return e.resolver.Goal(date) }

// RunningBalance folds the flextime balance over [from, to] inclusive,
// clamped below to the configured balance floor.
func (e *Engine) RunningBalance(from, to Day) (Hours, error) {
	if !e.processed {
		return Hours{}, ErrNotProcessed
	}
	if to.Before(from) {
		return Hours{}, fmt.Errorf("%w: %s before %s", ErrInvalidRange, to, from)
	}
	if from.Before(e.settings.BalanceFloor) {
		from = e.settings.BalanceFloor
	}
	return e.calc.RunningBalance(e.buckets, from, to), nil
}

// CurrentBalance is the running balance from the floor date through the
// local date of asOf.
func (e *Engine) CurrentBalance(asOf time.Time) (Hours, error) {
	return e.RunningBalance(e.settings.BalanceFloor, DayOf(asOf))
}

// DayDelta returns the single-day balance contribution for a date.
func (e *Engine) DayDelta(date Day) (Hours, error) {
	if !e.processed {
		return Hours{}, ErrNotProcessed
	}
	return e.calc.dayDelta(date, e.buckets[date]), nil
}

// TodayHours sums closed durations bucketed under asOf's local date plus the
// elapsed time of active entries started that date.
func (e *Engine) TodayHours(asOf time.Time) (Hours, error) {
	if !e.processed {
		return Hours{}, ErrNotProcessed
	}
	today := DayOf(asOf)
	var total Hours
	for _, entry := range e.buckets[today] {
		total = total.Add(entry.Duration)
	}
	for _, a := range e.active.ByDay[today] {
		total = total.Add(a.Elapsed(asOf))
	}
	return total, nil
}

// WeekHours sums closed durations from Monday of asOf's week through asOf,
// plus active elapsed time, excluding zero-requirement absence categories.
func (e *Engine) WeekHours(asOf time.Time) (Hours, error) {
	if !e.processed {
		return Hours{}, ErrNotProcessed
	}
	today := DayOf(asOf)
	weekStart := today.StartOfWeek()

	var total Hours
	for day := weekStart; day.BeforeOrEqual(today); day = day.AddDays(1) {
		for _, entry := range e.buckets[day] {
			if e.policies.ResolveID(entry.Category).RequiresHours {
				total = total.Add(entry.Duration)
			}
		}
	}
	for _, a := range e.active.Entries {
		if a.Date.Before(weekStart) || a.Date.After(today) {
			continue
		}
		if e.policies.ResolveID(a.Category).RequiresHours {
			total = total.Add(a.Elapsed(asOf))
		}
	}
	return total, nil
}

// OngoingHours returns the total elapsed time of all active entries as of
// the given instant. Valid before ProcessEntries only in the trivial sense
// that there is nothing active yet.
func (e *Engine) OngoingHours(asOf time.Time) Hours {
	var total Hours
	for _, a := range e.active.Entries {
		total = total.Add(a.Elapsed(asOf))
	}
	return total
}

// =============================================================================
// DAY SUMMARY
// =============================================================================

// DaySummary is the per-date read model consumed by the presentation layer.
type DaySummary struct {
	Date     Day
	Goal     Hours
	Worked   Hours
	Flextime Hours
	Delta    Hours
	Entries  []*TimeEntry
	Holiday  *HolidayInfo
}

// Day assembles the summary for one date.
func (e *Engine) Day(date Day) (DaySummary, error) {
	if !e.processed {
		return DaySummary{}, ErrNotProcessed
	}
	summary := DaySummary{
		Date:    date,
		Goal:    e.resolver.Goal(date),
		Entries: e.buckets[date],
		Delta:   e.calc.dayDelta(date, e.buckets[date]),
	}
	for _, entry := range summary.Entries {
		summary.Worked = summary.Worked.Add(entry.Duration)
		summary.Flextime = summary.Flextime.Add(entry.Flextime)
	}
	if h, ok := e.holidays[date]; ok {
		summary.Holiday = &h
	}
	return summary, nil
}

// =============================================================================
// SNAPSHOT TOKEN
// =============================================================================

// SnapshotToken identifies the current input snapshot (settings + holidays +
// raw entries). Memoized aggregates are keyed on it, so staleness across
// input changes is structural rather than accidental.
func (e *Engine) SnapshotToken() uint64 {
	if e.token != 0 {
		return e.token
	}

	h := fnv.New64a()
	s := e.settings
	fmt.Fprintf(h, "s|%g|%g|%g|%d|%v|%g|%s|%s",
		s.WorkdayHours, s.WorkweekHours, s.WorkPercent, s.LunchBreakMinutes,
		s.WorkWeekdays, s.HalfDayHours, s.HalfDayMode, s.BalanceFloor)
	fmt.Fprintf(h, "t|%g|%g|%g|%g",
		s.Thresholds.LongTimerHours, s.Thresholds.LongSessionHours,
		s.Thresholds.MaxDurationHours, s.Thresholds.HighWeeklyHours)
	for _, p := range s.Policies {
		fmt.Fprintf(h, "p|%s|%s|%t|%t|%d",
			p.ID, p.Effect, p.RequiresHours, p.CountInStats, p.MaxDaysPerYear)
	}

	days := make([]Day, 0, len(e.holidays))
	for d := range e.holidays {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	for _, d := range days {
		info := e.holidays[d]
		fmt.Fprintf(h, "h|%s|%s|%t|%s", d, info.Type, info.HalfDay, info.Description)
	}

	for _, r := range e.raw {
		end := int64(0)
		if r.EndTime != nil {
			end = r.EndTime.UnixNano()
		}
		fmt.Fprintf(h, "e|%s|%d|%d", r.Name, r.StartTime.UnixNano(), end)
	}

	e.token = h.Sum64()
	if e.token == 0 {
		e.token = 1 // 0 is the "dirty" marker
	}
	return e.token
}
