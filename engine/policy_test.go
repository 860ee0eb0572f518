package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fleksi/flextime-engine/engine"
)

func TestPolicyTable_BuiltinRows(t *testing.T) {
	table := engine.NewPolicyTable(nil)

	work := table.ResolveID(engine.CategoryWork)
	assert.True(t, work.RequiresHours)
	assert.Equal(t, engine.EffectAccumulate, work.Effect)

	comp := table.ResolveID(engine.CategoryCompLeave)
	assert.True(t, comp.RequiresHours)
	assert.Equal(t, engine.EffectWithdraw, comp.Effect)

	vacation := table.ResolveID(engine.CategoryVacation)
	assert.False(t, vacation.RequiresHours)
	assert.Equal(t, 25, vacation.MaxDaysPerYear)

	assert.False(t, table.ResolveID(engine.CategorySelfCertSick).RequiresHours)
	assert.Equal(t, 12, table.ResolveID(engine.CategorySelfCertSick).MaxDaysPerYear)
	assert.False(t, table.ResolveID(engine.CategoryPublicHoliday).RequiresHours)
}

func TestPolicyTable_ResolveNormalizesNames(t *testing.T) {
	table := engine.NewPolicyTable(nil)
	assert.Equal(t, engine.CategoryVacation, table.Resolve("  Ferie ").ID)
}

func TestPolicyTable_UnknownDefaultsToAccumulate(t *testing.T) {
	// Unknown categories behave like work arithmetically but keep their own
	// identity.
	table := engine.NewPolicyTable(nil)

	p := table.ResolveID("kurs")
	assert.True(t, p.RequiresHours)
	assert.Equal(t, engine.EffectAccumulate, p.Effect)
	assert.True(t, p.CountInStats)
	assert.Equal(t, engine.CategoryID("kurs"), p.ID)
	assert.False(t, table.Known("kurs"))
}

func TestPolicyTable_ExtraRowsOverrideBuiltins(t *testing.T) {
	table := engine.NewPolicyTable([]engine.DayTypePolicy{
		{ID: "Ferie", Name: "Vacation", RequiresHours: false, Effect: engine.EffectNone, CountInStats: true, MaxDaysPerYear: 30},
		{ID: "studiedag", Name: "Study day", RequiresHours: false, Effect: engine.EffectNone, CountInStats: true},
	})

	// Override wins, id normalized.
	assert.Equal(t, 30, table.ResolveID(engine.CategoryVacation).MaxDaysPerYear)

	// New row is known.
	assert.True(t, table.Known("studiedag"))
	assert.False(t, table.ResolveID("studiedag").RequiresHours)
}

func TestNormalizeCategory(t *testing.T) {
	assert.Equal(t, engine.CategoryWork, engine.NormalizeCategory("JOBB"))
	assert.Equal(t, engine.CategoryWork, engine.NormalizeCategory("  jobb  "))
	assert.Equal(t, engine.CategoryID("kurs"), engine.NormalizeCategory("Kurs"))
}
