/*
flextime.go - Flextime Calculator

PURPOSE:
  Annotates every closed entry with its signed flextime contribution and
  folds daily deltas into a running balance over an arbitrary inclusive
  date range.

PER-ENTRY RULE (day goal G):
  withdraw-type category -> flextime = -duration (spends earned balance)
  G == 0                 -> flextime = +duration (all hours are surplus)
  otherwise              -> flextime = max(0, duration - G)

  An entry never carries a negative flextime for falling short of the goal;
  the shortfall is captured at the daily level by the balance fold.

DAILY BALANCE RULE:
  Split the day's hours into withdraw-type and everything else. If G == 0,
  all non-withdraw hours are surplus; otherwise the day contributes
  (non-withdraw hours - G), which may be negative. Withdraw hours are
  subtracted regardless of the goal. Pure addition across days, so entry
  order never changes the sum.
*/
package engine

// Calculator annotates buckets and folds running balances. It consults the
// goal resolver once per day.
type Calculator struct {
	resolver *GoalResolver
	policies *PolicyTable
}

// Annotate computes the Flextime field of every entry in the buckets.
// Entries are mutated in place; this runs exactly once per processing pass.
func (c *Calculator) Annotate(buckets DayBuckets) {
	for day, entries := range buckets {
		goal := c.resolver.Goal(day)
		for _, e := range entries {
			e.Flextime = c.entryFlextime(e, goal)
		}
	}
}

func (c *Calculator) entryFlextime(e *TimeEntry, goal Hours) Hours {
	if c.policies.ResolveID(e.Category).Effect == EffectWithdraw {
		return e.Duration.Neg()
	}
	if goal.IsZero() {
		return e.Duration
	}
	return e.Duration.Sub(goal).Max(Hours{})
}

// RunningBalance folds the daily deltas for every bucketed day in
// [from, to], ascending. Days without entries contribute nothing.
func (c *Calculator) RunningBalance(buckets DayBuckets, from, to Day) Hours {
	var balance Hours
	for _, day := range sortedDays(buckets) {
		if day.Before(from) || day.After(to) {
			continue
		}
		balance = balance.Add(c.dayDelta(day, buckets[day]))
	}
	return balance
}

// dayDelta is the single-day balance contribution. The goal-shortfall term
// applies only when the day carries non-withdraw hours: a day consisting
// solely of withdrawn compensatory leave contributes exactly -withdrawn,
// not an additional full-goal shortfall.
func (c *Calculator) dayDelta(day Day, entries []*TimeEntry) Hours {
	var worked, withdrawn Hours
	hasWorked := false
	for _, e := range entries {
		if c.policies.ResolveID(e.Category).Effect == EffectWithdraw {
			withdrawn = withdrawn.Add(e.Duration)
		} else {
			worked = worked.Add(e.Duration)
			hasWorked = true
		}
	}

	var delta Hours
	if hasWorked {
		delta = worked
		if goal := c.resolver.Goal(day); !goal.IsZero() {
			delta = worked.Sub(goal)
		}
	}
	return delta.Sub(withdrawn)
}
