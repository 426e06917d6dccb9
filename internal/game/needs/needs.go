// Package needs implements colonist hunger, energy, and health decay.
//
// Values live in [0,1] where 1 is fully satisfied. Tiers are recomputed from
// the current value on every query and are never cached.
package needs

// Tier is a discretized need bucket. Lower tiers are more severe.
type Tier int

const (
	// TierTop is the satisfied tier (value > 0.6).
	TierTop Tier = iota
	// TierMild applies to values in (0.3, 0.6].
	TierMild
	// TierSevere applies to values in (0.1, 0.3].
	TierSevere
	// TierCritical applies to values <= 0.1.
	TierCritical
)

// TierOf returns the tier for v using the fixed breakpoints 0.6, 0.3 and 0.1.
func TierOf(v float64) Tier {
	switch {
	case v > 0.6:
		return TierTop
	case v > 0.3:
		return TierMild
	case v > 0.1:
		return TierSevere
	default:
		return TierCritical
	}
}

var (
	hungerNames = [...]string{"FED", "HUNGRY", "URGENTLY_HUNGRY", "STARVING"}
	energyNames = [...]string{"RESTED", "TIRED", "EXHAUSTED", "COLLAPSED"}
	healthNames = [...]string{"HEALTHY", "HURT", "WOUNDED", "CRITICAL"}
)

// HungerName returns the display name of t as a hunger tier.
func HungerName(t Tier) string { return hungerNames[t] }

// EnergyName returns the display name of t as an energy tier.
func EnergyName(t Tier) string { return energyNames[t] }

// HealthName returns the display name of t as a health tier.
func HealthName(t Tier) string { return healthNames[t] }

// Rates holds the per-second decay and per-action restore amounts.
type Rates struct {
	HungerDecay      float64
	EnergyDecay      float64
	StarvationDamage float64
	HealthRegen      float64
	EatAmount        float64
	RestAmount       float64
}

// DefaultRates returns the stock tuning.
func DefaultRates() Rates {
	return Rates{
		HungerDecay:      0.02,
		EnergyDecay:      0.012,
		StarvationDamage: 0.025,
		HealthRegen:      0.01,
		EatAmount:        0.4,
		RestAmount:       0.3,
	}
}

// State is a colonist's needs.
//
// Invariant: Hunger, Energy and Health are each within [0,1].
type State struct {
	Hunger float64
	Energy float64
	Health float64
}

// Full returns a State with every need satisfied.
func Full() State {
	return State{Hunger: 1, Energy: 1, Health: 1}
}

// HungerTier returns the current hunger tier.
func (s *State) HungerTier() Tier { return TierOf(s.Hunger) }

// EnergyTier returns the current energy tier.
func (s *State) EnergyTier() Tier { return TierOf(s.Energy) }

// HealthTier returns the current health tier.
func (s *State) HealthTier() Tier { return TierOf(s.Health) }

// IsHungry reports whether hunger has fallen to 0.35 or below.
func (s *State) IsHungry() bool { return s.Hunger <= 0.35 }

// IsTired reports whether energy has fallen to 0.25 or below.
func (s *State) IsTired() bool { return s.Energy <= 0.25 }

// Depleted reports whether health has reached zero.
func (s *State) Depleted() bool { return s.Health <= 0 }

// Tick advances the needs by dt seconds.
//
// Precondition: dt >= 0.
// Postcondition: all values remain in [0,1]; dt == 0 leaves s unchanged.
// Returns true when health is depleted after the update.
func (s *State) Tick(dt float64, r Rates) bool {
	if dt <= 0 {
		return s.Depleted()
	}
	s.Hunger = clamp01(s.Hunger - r.HungerDecay*dt)
	s.Energy = clamp01(s.Energy - r.EnergyDecay*dt)

	switch {
	case s.HungerTier() == TierCritical:
		s.Health = clamp01(s.Health - r.StarvationDamage*dt)
	case s.HungerTier() == TierTop && s.EnergyTier() == TierTop:
		s.Health = clamp01(s.Health + r.HealthRegen*dt)
	}
	return s.Depleted()
}

// Eat restores hunger by amount, clamped to 1.
func (s *State) Eat(amount float64) {
	s.Hunger = clamp01(s.Hunger + amount)
}

// Rest restores energy by amount, clamped to 1.
func (s *State) Rest(amount float64) {
	s.Energy = clamp01(s.Energy + amount)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
