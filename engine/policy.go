/*
policy.go - Day-type policy table

PURPOSE:
  Defines what each entry category means for the balance computation. Every
  computation path (goal resolution, flextime sign rules, statistics, day
  caps) answers category questions through one lookup here. The built-in
  categories are ordinary data rows, not special-cased code branches, so
  user-defined absence types behave uniformly.

FLEXTIME EFFECTS:
  EffectAccumulate:
    - Hours beyond the daily goal accumulate as positive balance
    - The primary work type uses this
  EffectWithdraw:
    - Logged hours are subtracted from the balance (compensatory leave:
      previously earned flextime being spent)
  EffectReduceGoal:
    - The declaration lowers the day's required hours instead of logging time
  EffectNone:
    - No balance interaction (plain absence bookkeeping)

ZERO-REQUIREMENT:
  RequiresHours=false marks a day type whose declaration drops the daily
  goal to zero (vacation, welfare leave, public holiday, self-certified
  sick leave). This replaces the hardcoded id list the computation paths
  would otherwise share.

EXAMPLE:
  table := engine.NewPolicyTable(nil) // built-ins only
  p := table.Resolve("Ferie")         // lookups are lowercase-normalized
  p.RequiresHours                     // false

SEE ALSO:
  - goal.go: consumes RequiresHours and HalfDay handling
  - flextime.go: consumes Effect
  - stats.go: consumes CountInStats and MaxDaysPerYear
*/
package engine

import "strings"

// =============================================================================
// CATEGORY IDS
// =============================================================================

// CategoryID identifies a day type. Comparisons are lowercase-normalized.
type CategoryID string

const (
	CategoryWork          CategoryID = "jobb"
	CategoryCompLeave     CategoryID = "avspasering"
	CategoryVacation      CategoryID = "ferie"
	CategorySelfCertSick  CategoryID = "egenmelding"
	CategorySickLeave     CategoryID = "sykemelding"
	CategoryWelfareLeave  CategoryID = "velferdspermisjon"
	CategoryPublicHoliday CategoryID = "helligdag"
)

// NormalizeCategory maps a free-form entry name to its category id.
func NormalizeCategory(name string) CategoryID {
	return CategoryID(strings.ToLower(strings.TrimSpace(name)))
}

// =============================================================================
// POLICY ROWS
// =============================================================================

type FlextimeEffect string

const (
	EffectNone       FlextimeEffect = "none"
	EffectWithdraw   FlextimeEffect = "withdraw"
	EffectAccumulate FlextimeEffect = "accumulate"
	EffectReduceGoal FlextimeEffect = "reduce_goal"
)

// DayTypePolicy is the behavior of one category, held as data.
type DayTypePolicy struct {
	ID             CategoryID
	Name           string
	RequiresHours  bool // false = zero-requirement day type
	Effect         FlextimeEffect
	CountInStats   bool
	MaxDaysPerYear int // 0 = no annual cap
}

// BuiltinPolicies returns the default rows. Callers may override or extend
// them via NewPolicyTable; the engine itself never branches on these ids.
func BuiltinPolicies() []DayTypePolicy {
	return []DayTypePolicy{
		{ID: CategoryWork, Name: "Work", RequiresHours: true, Effect: EffectAccumulate, CountInStats: true},
		{ID: CategoryCompLeave, Name: "Compensatory leave", RequiresHours: true, Effect: EffectWithdraw, CountInStats: true},
		{ID: CategoryVacation, Name: "Vacation", RequiresHours: false, Effect: EffectNone, CountInStats: true, MaxDaysPerYear: 25},
		{ID: CategorySelfCertSick, Name: "Self-certified sick leave", RequiresHours: false, Effect: EffectNone, CountInStats: true, MaxDaysPerYear: 12},
		{ID: CategorySickLeave, Name: "Sick leave", RequiresHours: false, Effect: EffectNone, CountInStats: true},
		{ID: CategoryWelfareLeave, Name: "Welfare leave", RequiresHours: false, Effect: EffectNone, CountInStats: true, MaxDaysPerYear: 10},
		{ID: CategoryPublicHoliday, Name: "Public holiday", RequiresHours: false, Effect: EffectNone, CountInStats: true},
	}
}

// =============================================================================
// POLICY TABLE
// =============================================================================

// PolicyTable resolves category ids to their policy rows. Unknown categories
// resolve to an accumulate-by-default row so user-defined types participate
// in the arithmetic like work does, without being folded into the work
// category anywhere (statistics track them under their own id).
type PolicyTable struct {
	rows map[CategoryID]DayTypePolicy
	work CategoryID
}

// NewPolicyTable builds a table from the built-in rows overlaid with the
// given extras. An extra row with a built-in id replaces the built-in.
func NewPolicyTable(extra []DayTypePolicy) *PolicyTable {
	rows := make(map[CategoryID]DayTypePolicy)
	for _, p := range BuiltinPolicies() {
		rows[p.ID] = p
	}
	for _, p := range extra {
		p.ID = NormalizeCategory(string(p.ID))
		rows[p.ID] = p
	}
	return &PolicyTable{rows: rows, work: CategoryWork}
}

// WorkType returns the primary work category (lunch deduction applies to it).
func (t *PolicyTable) WorkType() CategoryID { return t.work }

// Resolve returns the policy row for a free-form category name.
func (t *PolicyTable) Resolve(name string) DayTypePolicy {
	return t.ResolveID(NormalizeCategory(name))
}

// ResolveID returns the policy row for an already-normalized id.
func (t *PolicyTable) ResolveID(id CategoryID) DayTypePolicy {
	if p, ok := t.rows[id]; ok {
		return p
	}
	return DayTypePolicy{
		ID:            id,
		Name:          string(id),
		RequiresHours: true,
		Effect:        EffectAccumulate,
		CountInStats:  true,
	}
}

// Known reports whether the id has an explicit row.
func (t *PolicyTable) Known(id CategoryID) bool {
	_, ok := t.rows[id]
	return ok
}

// Rows returns all explicit policy rows (order unspecified).
func (t *PolicyTable) Rows() []DayTypePolicy {
	out := make([]DayTypePolicy, 0, len(t.rows))
	for _, p := range t.rows {
		out = append(out, p)
	}
	return out
}
