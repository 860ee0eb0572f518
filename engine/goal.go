/*
goal.go - Goal Resolver

PURPOSE:
  Answers "how many hours does this date require?" as a pure function of the
  date, the settings and the holiday snapshot. Called once per day during
  balance accumulation and freely for display; results are stable for a
  given configuration.

RULES, IN ORDER:
  1. Weekday not in the configured work-days set -> 0, regardless of any
     declaration.
  2. Declared day whose policy row has RequiresHours=false -> 0.
  3. Declared half day -> the configured half-day hours.
  4. Declared reduce-goal type -> the configured half-day hours.
  5. Otherwise -> workday hours x work percentage.
*/
package engine

// GoalResolver resolves the required hours for a date. It holds references
// to the engine's settings, policy table and holiday map and is side-effect
// free.
type GoalResolver struct {
	settings Settings
	policies *PolicyTable
	holidays HolidayMap
}

// Goal returns the required work hours for the date.
func (g *GoalResolver) Goal(date Day) Hours {
	if !g.settings.IsWorkday(date.Weekday()) {
		return Hours{}
	}
	if h, ok := g.holidays[date]; ok {
		policy := g.policies.ResolveID(h.Type)
		if !policy.RequiresHours {
			return Hours{}
		}
		if h.HalfDay || policy.Effect == EffectReduceGoal {
			return g.settings.HalfDayGoal()
		}
	}
	return g.settings.DailyGoal()
}
