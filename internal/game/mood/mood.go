// Package mood computes colonist mood from independent thought evaluators.
//
// Needs know nothing about mood: each thought reads a View of the agent and
// returns an offset, and the engine eases the mood scalar toward the clamped
// sum of offsets around a base value.
package mood

import (
	"math"

	"github.com/cory-johannsen/colony/internal/game/ecs"
	"github.com/cory-johannsen/colony/internal/game/needs"
	"github.com/cory-johannsen/colony/internal/game/task"
)

const (
	// Min and Max bound the mood scalar.
	Min = 0.0
	Max = 100.0
)

// View is the read-only agent snapshot a thought evaluates.
type View struct {
	Needs needs.State
	Sleep ecs.SleepQuality
	Task  task.Kind
	// NearestOther is the distance to the nearest other living colonist, or
	// +Inf when there is none.
	NearestOther float64
	Mood         float64
}

// Thought is one named mood source.
type Thought struct {
	Name     string
	Evaluate func(View) float64
}

// Settings tunes the engine.
type Settings struct {
	// Base is the mood with no offsets.
	Base float64
	// Rate is the maximum change in mood per second.
	Rate float64
}

// DefaultSettings returns the stock tuning.
func DefaultSettings() Settings {
	return Settings{Base: ecs.BaseMood, Rate: 5}
}

// Engine eases every living colonist's mood toward its thought target.
type Engine struct {
	settings Settings
	thoughts []Thought
}

// NewEngine returns an Engine evaluating thoughts.
//
// Precondition: settings.Rate >= 0.
func NewEngine(settings Settings, thoughts ...Thought) *Engine {
	if settings.Rate < 0 {
		panic("mood.NewEngine: rate must be >= 0")
	}
	return &Engine{settings: settings, thoughts: thoughts}
}

// Add appends additional thoughts.
func (e *Engine) Add(thoughts ...Thought) {
	e.thoughts = append(e.thoughts, thoughts...)
}

// Thoughts returns the names of the registered thoughts.
func (e *Engine) Thoughts() []string {
	names := make([]string, len(e.thoughts))
	for i, t := range e.thoughts {
		names[i] = t.Name
	}
	return names
}

// Target returns clamp(base + Σ offsets) for v.
func (e *Engine) Target(v View) float64 {
	sum := e.settings.Base
	for _, t := range e.thoughts {
		sum += t.Evaluate(v)
	}
	return clamp(sum)
}

// Breakdown returns each thought's offset for v, keyed by thought name.
func (e *Engine) Breakdown(v View) map[string]float64 {
	out := make(map[string]float64, len(e.thoughts))
	for _, t := range e.thoughts {
		out[t.Name] += t.Evaluate(v)
	}
	return out
}

// Tick moves the mood of every living entity with needs and mood toward its
// target by at most Rate*dt.
//
// Postcondition: every mood is within [Min, Max].
func (e *Engine) Tick(store *ecs.Store, dt float64) {
	agents := store.Query(ecs.HasMood | ecs.HasNeeds | ecs.HasPosition)
	for _, a := range agents {
		if !a.Alive() {
			continue
		}
		target := e.Target(ViewOf(a, agents))
		a.Mood = Step(a.Mood, target, e.settings.Rate*dt)
	}
}

// ViewOf builds the View of a, measuring distance against others.
func ViewOf(a *ecs.Entity, others []*ecs.Entity) View {
	v := View{
		Needs:        a.Needs,
		NearestOther: math.Inf(1),
		Mood:         a.Mood,
	}
	if a.Has(ecs.HasSleep) {
		v.Sleep = a.Sleep
	}
	if a.Has(ecs.HasAI) {
		v.Task = a.AI.Task.Kind()
	}
	for _, o := range others {
		if o.ID == a.ID || !o.Alive() || !o.Has(ecs.HasIdentity) {
			continue
		}
		if d := a.Position.Dist(o.Position); d < v.NearestOther {
			v.NearestOther = d
		}
	}
	return v
}

// Step moves current toward target by at most maxDelta and clamps the result.
func Step(current, target, maxDelta float64) float64 {
	if maxDelta < 0 {
		maxDelta = 0
	}
	switch {
	case target > current:
		current = math.Min(target, current+maxDelta)
	case target < current:
		current = math.Max(target, current-maxDelta)
	}
	return clamp(current)
}

// Label returns the display label for a mood value.
func Label(m float64) string {
	switch {
	case m < 10:
		return "BROKEN"
	case m < 30:
		return "UNHAPPY"
	case m < 60:
		return "NEUTRAL"
	default:
		return "HAPPY"
	}
}

func clamp(v float64) float64 {
	return math.Max(Min, math.Min(Max, v))
}
