/*
normalize.go - Entry Normalizer

PURPOSE:
  Turns the raw entry list into (a) per-day buckets of closed entries and
  (b) the active-entry set with its by-date index. This is the first stage
  of a processing pass; the flextime calculator annotates the buckets
  afterwards.

RULES:
  - Entries without a start time are skipped (the validator reports them).
  - Entries without an end time are active, indexed by the local date of
    their start.
  - Closed entries get duration = end - start in wall-clock hours. When the
    category is the primary work type and a lunch break is configured, the
    break is deducted, floored at zero.
  - A negative duration (end before start) is preserved as-is so the
    validator can surface it; the lunch floor never masks it.
  - Bucketing uses the LOCAL calendar date of the start timestamp, never the
    UTC date, so entries near midnight land on the intuitively correct day.
*/
package engine

import "sort"

func normalizeEntries(raw []RawEntry, policies *PolicyTable, settings Settings) (DayBuckets, ActiveSet) {
	buckets := make(DayBuckets)
	active := ActiveSet{ByDay: make(map[Day][]*ActiveEntry)}

	lunch := NewHours(float64(settings.LunchBreakMinutes) / 60.0)

	for i, r := range raw {
		if r.StartTime.IsZero() {
			continue
		}
		category := NormalizeCategory(r.Name)
		date := DayOf(r.StartTime)

		if r.EndTime == nil {
			a := &ActiveEntry{
				Name:      r.Name,
				Category:  category,
				StartTime: r.StartTime,
				Date:      date,
				rawIndex:  i,
			}
			active.Entries = append(active.Entries, a)
			active.ByDay[date] = append(active.ByDay[date], a)
			continue
		}

		duration := HoursBetween(r.StartTime, *r.EndTime)
		if category == policies.WorkType() && lunch.IsPositive() && !duration.IsNegative() {
			duration = duration.Sub(lunch).Max(Hours{})
		}

		buckets[date] = append(buckets[date], &TimeEntry{
			Name:      r.Name,
			Category:  category,
			StartTime: r.StartTime,
			EndTime:   *r.EndTime,
			Date:      date,
			Duration:  duration,
			rawIndex:  i,
		})
	}

	return buckets, active
}

// groupByMonthWeek derives the display rollup from the day buckets:
// year-month -> ISO week number -> entries ordered by start time. It never
// recomputes balances; it only regroups already-normalized entries.
func groupByMonthWeek(buckets DayBuckets) MonthGroups {
	groups := make(MonthGroups)
	for day, entries := range buckets {
		month := day.YearMonth()
		_, week := day.ISOWeek()
		if groups[month] == nil {
			groups[month] = make(map[int][]*TimeEntry)
		}
		groups[month][week] = append(groups[month][week], entries...)
	}
	for _, weeks := range groups {
		for _, entries := range weeks {
			sort.Slice(entries, func(i, j int) bool {
				return entries[i].StartTime.Before(entries[j].StartTime)
			})
		}
	}
	return groups
}

// sortedDays returns the bucket keys in ascending date order, for
// deterministic iteration.
func sortedDays(buckets DayBuckets) []Day {
	days := make([]Day, 0, len(buckets))
	for d := range buckets {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}
