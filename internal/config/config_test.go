package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func validConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "json"},
		Simulation: SimulationConfig{
			TickInterval: 100 * time.Millisecond,
			TimeScale:    1,
			StatusEvery:  50,
		},
		Scenario:  ScenarioConfig{Path: "content/scenarios/valley.yaml"},
		Scripting: ScriptingConfig{InstructionLimit: 1000},
		Tuning: TuningConfig{
			HungerDecay:      0.02,
			EnergyDecay:      0.012,
			StarvationDamage: 0.025,
			HealthRegen:      0.01,
			EatAmount:        0.4,
			RestAmount:       0.3,
			MoodBase:         50,
			MoodRate:         5,
			StuckTimeout:     5,
			RecoveryRadius:   10,
			DespawnDelay:     30,
			SecondsPerYear:   60,
			MaxAge:           80,
		},
	}
}

func TestValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestSimulationDt(t *testing.T) {
	s := SimulationConfig{TickInterval: 250 * time.Millisecond, TimeScale: 4}
	assert.InDelta(t, 1.0, s.Dt(), 1e-12)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "colony.yaml")
	err := os.WriteFile(path, []byte(`
logging:
  level: debug
  format: console
simulation:
  tick_interval: 50ms
  time_scale: 2
  max_ticks: 500
  seed: 42
scenario:
  path: scenarios/test.yaml
tuning:
  hunger_decay: 0.05
  recovery_radius: 4
`), 0644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 50*time.Millisecond, cfg.Simulation.TickInterval)
	assert.Equal(t, int64(500), cfg.Simulation.MaxTicks)
	assert.Equal(t, int64(42), cfg.Simulation.Seed)
	assert.Equal(t, "scenarios/test.yaml", cfg.Scenario.Path)
	assert.Equal(t, 0.05, cfg.Tuning.HungerDecay)
	assert.Equal(t, 4, cfg.Tuning.RecoveryRadius)
	// Defaults fill the rest.
	assert.Equal(t, int64(50), cfg.Simulation.StatusEvery)
	assert.Equal(t, 0.012, cfg.Tuning.EnergyDecay)
	assert.Equal(t, 5.0, cfg.Tuning.StuckTimeout)
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "colony.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scenario:\n  path: a.yaml\n"), 0644))
	t.Setenv("COLONY_SIMULATION_SEED", "7")
	t.Setenv("COLONY_LOGGING_FORMAT", "console")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.Simulation.Seed)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadInvalidPath(t *testing.T) {
	_, err := Load("/nonexistent/path.yaml")
	assert.Error(t, err)
}

func TestLoadFromViper_AppliesDefaults(t *testing.T) {
	v := viper.New()
	v.Set("scenario.path", "x.yaml")
	cfg, err := LoadFromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 100*time.Millisecond, cfg.Simulation.TickInterval)
	assert.Equal(t, 80.0, cfg.Tuning.MaxAge)
}

func TestDefault(t *testing.T) {
	cfg, err := Default("x.yaml")
	require.NoError(t, err)
	assert.Equal(t, "x.yaml", cfg.Scenario.Path)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestValidateMissingScenario(t *testing.T) {
	cfg := validConfig()
	cfg.Scenario.Path = "  "
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scenario.path")
}

func TestValidateLoggingLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		cfg := validConfig()
		cfg.Logging.Level = level
		assert.NoError(t, cfg.Validate(), "level %q should be valid", level)
	}
	cfg := validConfig()
	cfg.Logging.Level = "trace"
	assert.Error(t, cfg.Validate())
}

func TestValidateLoggingFormat(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Format = "xml"
	assert.Error(t, cfg.Validate())
}

func TestValidateCollectsEveryViolation(t *testing.T) {
	cfg := validConfig()
	cfg.Simulation.TickInterval = 0
	cfg.Simulation.TimeScale = -1
	cfg.Tuning.StuckTimeout = 0
	cfg.Tuning.MoodBase = 120
	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "configuration validation failed")
	for _, key := range []string{"simulation.tick_interval", "simulation.time_scale", "tuning.stuck_timeout", "tuning.mood_base"} {
		assert.Contains(t, msg, key)
	}
}

func TestValidateInstructionLimit(t *testing.T) {
	cfg := validConfig()
	cfg.Scripting.InstructionLimit = -1
	assert.Error(t, cfg.Validate())
}

// Property-based tests

func TestPropertyNegativeRatesRejected(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		rate := rapid.Float64Range(-100, -1e-9).Draw(t, "rate")
		cfg := validConfig()
		switch rapid.IntRange(0, 3).Draw(t, "field") {
		case 0:
			cfg.Tuning.HungerDecay = rate
		case 1:
			cfg.Tuning.EnergyDecay = rate
		case 2:
			cfg.Tuning.StarvationDamage = rate
		default:
			cfg.Tuning.HealthRegen = rate
		}
		if cfg.Validate() == nil {
			t.Fatalf("negative rate %v accepted", rate)
		}
	})
}

func TestPropertyMoodBaseRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		base := rapid.Float64Range(-50, 150).Draw(t, "base")
		cfg := validConfig()
		cfg.Tuning.MoodBase = base
		err := cfg.Validate()
		if want := base >= 0 && base <= 100; want != (err == nil) {
			t.Fatalf("mood_base %v: valid=%v err=%v", base, want, err)
		}
	})
}

func TestPropertyRecoveryRadiusPositive(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := rapid.IntRange(-10, 50).Draw(t, "radius")
		cfg := validConfig()
		cfg.Tuning.RecoveryRadius = r
		err := cfg.Validate()
		if (r >= 1) != (err == nil) {
			t.Fatalf("recovery_radius %d: err=%v", r, err)
		}
	})
}
