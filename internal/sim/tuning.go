package sim

import (
	"github.com/cory-johannsen/colony/internal/config"
	"github.com/cory-johannsen/colony/internal/game/mood"
	"github.com/cory-johannsen/colony/internal/game/needs"
)

// TuningFromConfig maps configured overrides onto the default tuning.
func TuningFromConfig(tc config.TuningConfig) Tuning {
	t := DefaultTuning()
	t.Think.Needs = needs.Rates{
		HungerDecay:      tc.HungerDecay,
		EnergyDecay:      tc.EnergyDecay,
		StarvationDamage: tc.StarvationDamage,
		HealthRegen:      tc.HealthRegen,
		EatAmount:        tc.EatAmount,
		RestAmount:       tc.RestAmount,
	}
	t.Think.StuckTimeout = tc.StuckTimeout
	t.RecoveryRadius = tc.RecoveryRadius
	t.DespawnDelay = tc.DespawnDelay
	t.SecondsPerYear = tc.SecondsPerYear
	t.MaxAge = tc.MaxAge
	return t
}

// MoodSettingsFromConfig returns the mood engine settings configured in tc.
func MoodSettingsFromConfig(tc config.TuningConfig) mood.Settings {
	return mood.Settings{Base: tc.MoodBase, Rate: tc.MoodRate}
}

// RunnerConfigFrom returns the pacing configured in sc.
func RunnerConfigFrom(sc config.SimulationConfig) RunnerConfig {
	return RunnerConfig{
		Interval:    sc.TickInterval,
		TimeScale:   sc.TimeScale,
		MaxTicks:    sc.MaxTicks,
		StatusEvery: sc.StatusEvery,
	}
}
