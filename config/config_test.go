package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleksi/flextime-engine/config"
	"github.com/fleksi/flextime-engine/engine"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	app, err := config.Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, app.Port)
	assert.Equal(t, "flextime.db", app.Database.Path)
	assert.Equal(t, 7.5, app.Schedule.WorkdayHours)
	assert.Equal(t, "half", app.Schedule.HalfDayMode)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fleksi.yaml")
	yaml := `
port: 9090
db:
  path: /tmp/test.db
schedule:
  workdayhours: 8
  workpercent: 0.8
  workweekdays: [tuesday, wednesday, thursday, friday, saturday]
  balancefloor: "2024-01-01"
limits:
  highweeklyhours: 60
policies:
  - id: kortdag
    name: Short day
    requireshours: true
    effect: reduce_goal
    countinstats: true
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	app, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, app.Port)
	assert.Equal(t, "/tmp/test.db", app.Database.Path)
	assert.Equal(t, 8.0, app.Schedule.WorkdayHours)
	assert.Equal(t, 60.0, app.Limits.HighWeeklyHours)
	require.Len(t, app.Policies, 1)

	settings, err := app.EngineSettings()
	require.NoError(t, err)
	assert.Equal(t, 8.0, settings.WorkdayHours)
	assert.Equal(t, 0.8, settings.WorkPercent)
	assert.Equal(t, engine.NewDay(2024, time.January, 1), settings.BalanceFloor)
	assert.Contains(t, settings.WorkWeekdays, time.Saturday)
	assert.NotContains(t, settings.WorkWeekdays, time.Monday)
	require.Len(t, settings.Policies, 1)
	assert.Equal(t, engine.EffectReduceGoal, settings.Policies[0].Effect)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fleksi.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 9090\n"), 0o644))

	t.Setenv("FLEKSI_PORT", "7070")
	t.Setenv("FLEKSI_DB_PATH", "/tmp/env.db")

	app, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, app.Port)
	assert.Equal(t, "/tmp/env.db", app.Database.Path)
}

func TestEngineSettings_RejectsBadValues(t *testing.T) {
	app, err := config.Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)

	app.Schedule.WorkWeekdays = []string{"mondag"}
	_, err = app.EngineSettings()
	assert.Error(t, err)

	app, _ = config.Load(filepath.Join(t.TempDir(), "none.yaml"))
	app.Schedule.BalanceFloor = "01.01.2024"
	_, err = app.EngineSettings()
	assert.Error(t, err)
}
