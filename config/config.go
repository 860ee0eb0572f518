// Package config loads the application configuration: defaults first, then
// an optional YAML file, then FLEKSI_-prefixed environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"

	"github.com/fleksi/flextime-engine/engine"
)

type Application struct {
	Port     int      `koanf:"port"`
	Database Database `koanf:"db"`
	Schedule Schedule `koanf:"schedule"`
	Limits   Limits   `koanf:"limits"`
	Policies []Policy `koanf:"policies"`
}

type Database struct {
	Path string `koanf:"path"`
}

type Schedule struct {
	WorkdayHours      float64  `koanf:"workdayhours"`
	WorkweekHours     float64  `koanf:"workweekhours"`
	WorkPercent       float64  `koanf:"workpercent"`
	LunchBreakMinutes int      `koanf:"lunchbreakminutes"`
	WorkWeekdays      []string `koanf:"workweekdays"`
	HalfDayHours      float64  `koanf:"halfdayhours"`
	HalfDayMode       string   `koanf:"halfdaymode"`
	BalanceFloor      string   `koanf:"balancefloor"`
}

type Limits struct {
	LongTimerHours   float64 `koanf:"longtimerhours"`
	LongSessionHours float64 `koanf:"longsessionhours"`
	MaxDurationHours float64 `koanf:"maxdurationhours"`
	HighWeeklyHours  float64 `koanf:"highweeklyhours"`
}

// Policy is a user-defined (or overridden) day-type policy row.
type Policy struct {
	ID             string `koanf:"id"`
	Name           string `koanf:"name"`
	RequiresHours  bool   `koanf:"requireshours"`
	Effect         string `koanf:"effect"`
	CountInStats   bool   `koanf:"countinstats"`
	MaxDaysPerYear int    `koanf:"maxdaysperyear"`
}

func defaults() Application {
	s := engine.DefaultSettings()
	return Application{
		Port:     8080,
		Database: Database{Path: "flextime.db"},
		Schedule: Schedule{
			WorkdayHours:      s.WorkdayHours,
			WorkweekHours:     s.WorkweekHours,
			WorkPercent:       s.WorkPercent,
			LunchBreakMinutes: s.LunchBreakMinutes,
			WorkWeekdays:      []string{"monday", "tuesday", "wednesday", "thursday", "friday"},
			HalfDayHours:      s.HalfDayHours,
			HalfDayMode:       string(s.HalfDayMode),
			BalanceFloor:      s.BalanceFloor.String(),
		},
		Limits: Limits{
			LongTimerHours:   s.Thresholds.LongTimerHours,
			LongSessionHours: s.Thresholds.LongSessionHours,
			MaxDurationHours: s.Thresholds.MaxDurationHours,
			HighWeeklyHours:  s.Thresholds.HighWeeklyHours,
		},
	}
}

// Load reads the configuration. A missing file is not an error; defaults and
// environment variables still apply.
func Load(path string) (Application, error) {
	var k = koanf.New(".")

	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		log.Errorf("error loading config defaults: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err := k.Load(env.Provider(".", env.Opt{
		Prefix: "FLEKSI_",
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "FLEKSI_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}

// EngineSettings converts the loaded configuration into the engine's
// Settings, validating date and weekday spellings.
func (a Application) EngineSettings() (engine.Settings, error) {
	s := engine.DefaultSettings()
	sc := a.Schedule

	s.WorkdayHours = sc.WorkdayHours
	s.WorkweekHours = sc.WorkweekHours
	s.WorkPercent = sc.WorkPercent
	s.LunchBreakMinutes = sc.LunchBreakMinutes
	s.HalfDayHours = sc.HalfDayHours
	s.HalfDayMode = engine.HalfDayMode(sc.HalfDayMode)

	if len(sc.WorkWeekdays) > 0 {
		weekdays := make([]time.Weekday, 0, len(sc.WorkWeekdays))
		for _, name := range sc.WorkWeekdays {
			wd, err := parseWeekday(name)
			if err != nil {
				return engine.Settings{}, err
			}
			weekdays = append(weekdays, wd)
		}
		s.WorkWeekdays = weekdays
	}

	if sc.BalanceFloor != "" {
		floor, err := engine.ParseDay(sc.BalanceFloor)
		if err != nil {
			return engine.Settings{}, fmt.Errorf("invalid balance floor: %w", err)
		}
		s.BalanceFloor = floor
	}

	s.Thresholds = engine.Thresholds{
		LongTimerHours:   a.Limits.LongTimerHours,
		LongSessionHours: a.Limits.LongSessionHours,
		MaxDurationHours: a.Limits.MaxDurationHours,
		HighWeeklyHours:  a.Limits.HighWeeklyHours,
	}

	for _, p := range a.Policies {
		s.Policies = append(s.Policies, engine.DayTypePolicy{
			ID:             engine.CategoryID(p.ID),
			Name:           p.Name,
			RequiresHours:  p.RequiresHours,
			Effect:         engine.FlextimeEffect(p.Effect),
			CountInStats:   p.CountInStats,
			MaxDaysPerYear: p.MaxDaysPerYear,
		})
	}

	return s, nil
}

func parseWeekday(name string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sunday":
		return time.Sunday, nil
	case "monday":
		return time.Monday, nil
	case "tuesday":
		return time.Tuesday, nil
	case "wednesday":
		return time.Wednesday, nil
	case "thursday":
		return time.Thursday, nil
	case "friday":
		return time.Friday, nil
	case "saturday":
		return time.Saturday, nil
	}
	return 0, fmt.Errorf("unknown weekday %q", name)
}
