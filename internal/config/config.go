// Package config provides Viper-based configuration loading for the colony
// simulator.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// SimulationConfig controls tick pacing.
type SimulationConfig struct {
	// TickInterval is the wall-clock time between ticks.
	TickInterval time.Duration `mapstructure:"tick_interval"`
	// TimeScale multiplies TickInterval to give the simulated seconds per tick.
	TimeScale float64 `mapstructure:"time_scale"`
	// MaxTicks stops the simulation after that many ticks. Zero is unbounded.
	MaxTicks int64 `mapstructure:"max_ticks"`
	// Seed seeds the random source. Zero selects a crypto-seeded source.
	Seed int64 `mapstructure:"seed"`
	// StatusEvery logs a colony summary every that many ticks. Zero disables it.
	StatusEvery int64 `mapstructure:"status_every"`
}

// Dt returns the simulated seconds advanced per tick.
func (s SimulationConfig) Dt() float64 {
	return s.TickInterval.Seconds() * s.TimeScale
}

// ScenarioConfig locates the scenario to load.
type ScenarioConfig struct {
	Path string `mapstructure:"path"`
}

// ScriptingConfig holds Lua thought script settings.
type ScriptingConfig struct {
	// ThoughtDir is a directory of .lua files defining thought_* functions.
	// Empty disables scripted thoughts.
	ThoughtDir string `mapstructure:"thought_dir"`
	// InstructionLimit bounds the instructions of each script call. Zero or
	// less uses scripting.DefaultInstructionLimit.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// TuningConfig overrides simulation constants.
type TuningConfig struct {
	HungerDecay      float64 `mapstructure:"hunger_decay"`
	EnergyDecay      float64 `mapstructure:"energy_decay"`
	StarvationDamage float64 `mapstructure:"starvation_damage"`
	HealthRegen      float64 `mapstructure:"health_regen"`
	EatAmount        float64 `mapstructure:"eat_amount"`
	RestAmount       float64 `mapstructure:"rest_amount"`

	MoodBase float64 `mapstructure:"mood_base"`
	MoodRate float64 `mapstructure:"mood_rate"`

	StuckTimeout   float64 `mapstructure:"stuck_timeout"`
	RecoveryRadius int     `mapstructure:"recovery_radius"`

	DespawnDelay   float64 `mapstructure:"despawn_delay"`
	SecondsPerYear float64 `mapstructure:"seconds_per_year"`
	MaxAge         float64 `mapstructure:"max_age"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Scenario   ScenarioConfig   `mapstructure:"scenario"`
	Scripting  ScriptingConfig  `mapstructure:"scripting"`
	Tuning     TuningConfig     `mapstructure:"tuning"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string
	for _, err := range []error{
		validateLogging(c.Logging),
		validateSimulation(c.Simulation),
		validateScenario(c.Scenario),
		validateScripting(c.Scripting),
		validateTuning(c.Tuning),
	} {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateSimulation(s SimulationConfig) error {
	var errs []string
	if s.TickInterval <= 0 {
		errs = append(errs, fmt.Sprintf("simulation.tick_interval must be > 0, got %s", s.TickInterval))
	}
	if s.TimeScale <= 0 {
		errs = append(errs, fmt.Sprintf("simulation.time_scale must be > 0, got %v", s.TimeScale))
	}
	if s.MaxTicks < 0 {
		errs = append(errs, fmt.Sprintf("simulation.max_ticks must be >= 0, got %d", s.MaxTicks))
	}
	if s.StatusEvery < 0 {
		errs = append(errs, fmt.Sprintf("simulation.status_every must be >= 0, got %d", s.StatusEvery))
	}
	return joined(errs)
}

func validateScenario(s ScenarioConfig) error {
	if strings.TrimSpace(s.Path) == "" {
		return fmt.Errorf("scenario.path must not be empty")
	}
	return nil
}

func validateScripting(s ScriptingConfig) error {
	if s.InstructionLimit < 0 {
		return fmt.Errorf("scripting.instruction_limit must be >= 0, got %d", s.InstructionLimit)
	}
	return nil
}

func validateTuning(t TuningConfig) error {
	var errs []string
	nonNegative := []struct {
		key string
		v   float64
	}{
		{"tuning.hunger_decay", t.HungerDecay},
		{"tuning.energy_decay", t.EnergyDecay},
		{"tuning.starvation_damage", t.StarvationDamage},
		{"tuning.health_regen", t.HealthRegen},
		{"tuning.eat_amount", t.EatAmount},
		{"tuning.rest_amount", t.RestAmount},
		{"tuning.mood_rate", t.MoodRate},
		{"tuning.despawn_delay", t.DespawnDelay},
		{"tuning.max_age", t.MaxAge},
	}
	for _, f := range nonNegative {
		if f.v < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0, got %v", f.key, f.v))
		}
	}
	if t.MoodBase < 0 || t.MoodBase > 100 {
		errs = append(errs, fmt.Sprintf("tuning.mood_base must be 0-100, got %v", t.MoodBase))
	}
	if t.StuckTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("tuning.stuck_timeout must be > 0, got %v", t.StuckTimeout))
	}
	if t.RecoveryRadius < 1 {
		errs = append(errs, fmt.Sprintf("tuning.recovery_radius must be >= 1, got %d", t.RecoveryRadius))
	}
	if t.SecondsPerYear <= 0 {
		errs = append(errs, fmt.Sprintf("tuning.seconds_per_year must be > 0, got %v", t.SecondsPerYear))
	}
	return joined(errs)
}

func joined(errs []string) error {
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with COLONY_ prefix
	v.SetEnvPrefix("COLONY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
// Defaults are applied for keys the instance does not set.
//
// Precondition: v must be non-nil.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the configuration produced by the defaults alone, with the
// scenario path set to path.
func Default(path string) (Config, error) {
	v := viper.New()
	v.Set("scenario.path", path)
	return LoadFromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("simulation.tick_interval", "100ms")
	v.SetDefault("simulation.time_scale", 1.0)
	v.SetDefault("simulation.max_ticks", 0)
	v.SetDefault("simulation.seed", 0)
	v.SetDefault("simulation.status_every", 50)

	v.SetDefault("scripting.thought_dir", "")
	v.SetDefault("scripting.instruction_limit", 100000)

	v.SetDefault("tuning.hunger_decay", 0.02)
	v.SetDefault("tuning.energy_decay", 0.012)
	v.SetDefault("tuning.starvation_damage", 0.025)
	v.SetDefault("tuning.health_regen", 0.01)
	v.SetDefault("tuning.eat_amount", 0.4)
	v.SetDefault("tuning.rest_amount", 0.3)
	v.SetDefault("tuning.mood_base", 50.0)
	v.SetDefault("tuning.mood_rate", 5.0)
	v.SetDefault("tuning.stuck_timeout", 5.0)
	v.SetDefault("tuning.recovery_radius", 10)
	v.SetDefault("tuning.despawn_delay", 30.0)
	v.SetDefault("tuning.seconds_per_year", 60.0)
	v.SetDefault("tuning.max_age", 80.0)
}
