package mood

import (
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/cory-johannsen/colony/internal/game/ecs"
	"github.com/cory-johannsen/colony/internal/game/needs"
	"github.com/cory-johannsen/colony/internal/game/task"
	"github.com/cory-johannsen/colony/internal/scripting"
)

// ScriptPrefix is the name prefix of Lua functions treated as thoughts.
const ScriptPrefix = "thought_"

// socialRange is how near another colonist must be for a wandering agent to
// feel company.
const socialRange = 3.0

var (
	hungerOffsets = [...]float64{0, -5, -15, -40}
	energyOffsets = [...]float64{0, -3, -12, -30}
)

// DefaultThoughts returns the built-in thoughts.
func DefaultThoughts() []Thought {
	return []Thought{
		{Name: "hunger", Evaluate: HungerThought},
		{Name: "energy", Evaluate: EnergyThought},
		{Name: "health", Evaluate: HealthThought},
		{Name: "sleep", Evaluate: SleepThought},
		{Name: "social", Evaluate: SocialThought},
	}
}

// HungerThought penalizes each hunger tier below FED.
func HungerThought(v View) float64 {
	return hungerOffsets[needs.TierOf(v.Needs.Hunger)]
}

// EnergyThought penalizes each energy tier below RESTED.
func EnergyThought(v View) float64 {
	return energyOffsets[needs.TierOf(v.Needs.Energy)]
}

// HealthThought penalizes injury.
func HealthThought(v View) float64 {
	switch h := v.Needs.Health; {
	case h > 0.8:
		return 0
	case h > 0.5:
		return -5
	case h > 0.2:
		return -15
	default:
		return -30
	}
}

// SleepThought rewards sleeping in a bed and penalizes sleeping rough.
func SleepThought(v View) float64 {
	switch v.Sleep {
	case ecs.SleptInBed:
		return 5
	case ecs.SleptOnGround:
		return -5
	default:
		return 0
	}
}

// SocialThought rewards socializing, or wandering near another colonist.
func SocialThought(v View) float64 {
	switch {
	case v.Task == task.Socializing:
		return 15
	case v.Task == task.Wander && v.NearestOther <= socialRange:
		return 8
	default:
		return 0
	}
}

// ScriptedThought returns a thought whose offset is the numeric result of
// the Lua function hook in mgr's key VM. The function receives one table
// with hunger, energy, health, mood, hunger_tier, energy_tier, sleep, task
// and nearest_other (-1 when alone). Errors and non-numeric results yield 0.
//
// Precondition: mgr must be non-nil.
func ScriptedThought(mgr *scripting.Manager, key, hook string) Thought {
	if mgr == nil {
		panic("mood.ScriptedThought: manager must not be nil")
	}
	return Thought{
		Name: strings.TrimPrefix(hook, ScriptPrefix),
		Evaluate: func(v View) float64 {
			nearest := v.NearestOther
			if nearest > 1e9 {
				nearest = -1
			}
			ret, err := mgr.CallWithFields(key, hook, map[string]any{
				"hunger":        v.Needs.Hunger,
				"energy":        v.Needs.Energy,
				"health":        v.Needs.Health,
				"mood":          v.Mood,
				"hunger_tier":   needs.HungerName(needs.TierOf(v.Needs.Hunger)),
				"energy_tier":   needs.EnergyName(needs.TierOf(v.Needs.Energy)),
				"sleep":         v.Sleep.String(),
				"task":          v.Task.String(),
				"nearest_other": nearest,
			})
			if err != nil {
				return 0
			}
			if n, ok := ret.(lua.LNumber); ok {
				return float64(n)
			}
			return 0
		},
	}
}

// ScriptedThoughts returns a thought for every thought_* function in mgr's
// key VM, in name order.
func ScriptedThoughts(mgr *scripting.Manager, key string) []Thought {
	var out []Thought
	for _, hook := range mgr.Hooks(key, ScriptPrefix) {
		out = append(out, ScriptedThought(mgr, key, hook))
	}
	return out
}
