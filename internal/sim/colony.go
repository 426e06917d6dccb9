// Package sim drives the colony simulation: it runs the per-tick pipeline
// over every agent and exposes a status snapshot for collaborators.
package sim

import (
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/cory-johannsen/colony/internal/game/ecs"
	"github.com/cory-johannsen/colony/internal/game/events"
	"github.com/cory-johannsen/colony/internal/game/geom"
	"github.com/cory-johannsen/colony/internal/game/mood"
	"github.com/cory-johannsen/colony/internal/game/rng"
	"github.com/cory-johannsen/colony/internal/game/task"
	"github.com/cory-johannsen/colony/internal/game/think"
	"github.com/cory-johannsen/colony/internal/game/world"
	"github.com/cory-johannsen/colony/internal/observability"
)

// Death causes recorded in ecs.Life.Cause.
const (
	CauseStarvation = "starvation"
	CauseOldAge     = "old_age"
)

// Tuning holds the orchestration constants.
type Tuning struct {
	Think think.Tuning
	// RecoveryRadius bounds the ring search for a passable tile.
	RecoveryRadius int
	// DespawnDelay is the number of seconds a dead agent remains in the store.
	DespawnDelay float64
	// SecondsPerYear converts simulated seconds to years of age.
	SecondsPerYear float64
	// MaxAge is the age in years at which an agent dies. Zero disables aging deaths.
	MaxAge float64
}

// DefaultTuning returns the stock orchestration tuning.
func DefaultTuning() Tuning {
	return Tuning{
		Think:          think.DefaultTuning(),
		RecoveryRadius: 10,
		DespawnDelay:   30,
		SecondsPerYear: 60,
		MaxAge:         80,
	}
}

// behaviorMask is the attribute set required to run behavior selection.
const behaviorMask = ecs.HasAI | ecs.HasPosition

// Colony owns the store, the grid and the behavior machinery and advances
// them together. It is not safe for concurrent use; Runner serializes ticks.
type Colony struct {
	store  *ecs.Store
	grid   *world.Grid
	tree   *think.Tree
	mood   *mood.Engine
	bus    *events.Bus
	rand   rng.Source
	tuning Tuning
	logger *zap.Logger

	ticks   atomic.Int64
	elapsed float64
}

// NewColony wires a colony.
//
// Precondition: store, grid, tree, moodEngine and logger must be non-nil.
// A nil bus drops events; a nil src uses a crypto-seeded source.
func NewColony(store *ecs.Store, grid *world.Grid, tree *think.Tree, moodEngine *mood.Engine,
	bus *events.Bus, src rng.Source, tuning Tuning, logger *zap.Logger) *Colony {
	switch {
	case store == nil:
		panic("sim.NewColony: store must not be nil")
	case grid == nil:
		panic("sim.NewColony: grid must not be nil")
	case tree == nil:
		panic("sim.NewColony: tree must not be nil")
	case moodEngine == nil:
		panic("sim.NewColony: mood engine must not be nil")
	case logger == nil:
		panic("sim.NewColony: logger must not be nil")
	}
	if src == nil {
		src = rng.NewCrypto()
	}
	return &Colony{
		store:  store,
		grid:   grid,
		tree:   tree,
		mood:   moodEngine,
		bus:    bus,
		rand:   src,
		tuning: tuning,
		logger: logger,
	}
}

// Store returns the entity store.
func (c *Colony) Store() *ecs.Store { return c.store }

// Grid returns the world grid.
func (c *Colony) Grid() *world.Grid { return c.grid }

// Ticks returns the number of ticks advanced so far. It may be read from
// any goroutine.
func (c *Colony) Ticks() int64 { return c.ticks.Load() }

// Elapsed returns the simulated seconds advanced so far.
func (c *Colony) Elapsed() float64 { return c.elapsed }

// Tick advances the colony by dt seconds: behavior, needs and death, mood,
// aging, despawn and finally position clamping. A zero dt only advances the
// tick counter and clamps positions.
//
// Precondition: dt >= 0.
// Postcondition: every positioned entity lies within the grid bounds.
func (c *Colony) Tick(dt float64) {
	if dt < 0 {
		dt = 0
	}
	c.ticks.Add(1)
	if dt == 0 {
		c.clamp()
		return
	}
	c.elapsed += dt

	c.behave(dt)
	c.tickNeeds(dt)
	c.mood.Tick(c.store, dt)
	c.tickAging(dt)
	c.despawn(dt)
	c.clamp()
}

func (c *Colony) behave(dt float64) {
	ctx := &think.Context{
		Store:  c.store,
		Grid:   c.grid,
		Rand:   c.rand,
		Bus:    c.bus,
		Tuning: c.tuning.Think,
	}
	c.store.Each(behaviorMask, func(a *ecs.Entity) {
		if !a.Alive() || a.AI.Disabled || a.Has(ecs.PlayerDriven) {
			return
		}
		if cell := a.Cell(); !c.grid.Passable(cell.X, cell.Y) {
			c.recover(a)
			return
		}
		ctx.Agent = a
		name, acted := c.tree.Tick(ctx, dt)
		if ce := c.logger.Check(zap.DebugLevel, "behavior"); ce != nil {
			ce.Write(append(agentFields(a),
				zap.String("node", name),
				zap.Bool("acted", acted),
				zap.Stringer("task", a.AI.Task.Kind()),
			)...)
		}
	})
}

// recover moves a off an impassable tile. A failed search leaves the agent
// in place to retry next tick.
func (c *Colony) recover(a *ecs.Entity) {
	from := a.Cell()
	to, ok := task.FindNearestPassable(c.grid, from, c.tuning.RecoveryRadius)
	if !ok {
		c.logger.Debug("recovery found no passable tile", append(agentFields(a),
			zap.Int("x", from.X), zap.Int("y", from.Y))...)
		return
	}
	a.Position = to.Center()
	a.AI.Task.ClearTask()
	c.bus.Publish(events.Event{
		Kind:   events.AgentRecovered,
		Entity: a.ID,
		Cell:   to,
		Detail: fmt.Sprintf("from %d,%d", from.X, from.Y),
	})
	c.logger.Info("agent recovered", append(agentFields(a),
		zap.Int("from_x", from.X), zap.Int("from_y", from.Y),
		zap.Int("to_x", to.X), zap.Int("to_y", to.Y))...)
}

func (c *Colony) tickNeeds(dt float64) {
	c.store.Each(ecs.HasNeeds, func(a *ecs.Entity) {
		if !a.Alive() {
			c.dropCarried(a)
			return
		}
		if a.Needs.Tick(dt, c.tuning.Think.Needs) {
			c.kill(a, CauseStarvation)
		}
	})
}

func (c *Colony) tickAging(dt float64) {
	if c.tuning.SecondsPerYear <= 0 || dt <= 0 {
		return
	}
	c.store.Each(ecs.HasAging, func(a *ecs.Entity) {
		if !a.Alive() {
			return
		}
		a.Aging.Years += dt / c.tuning.SecondsPerYear
		if c.tuning.MaxAge > 0 && a.Aging.Years >= c.tuning.MaxAge {
			c.kill(a, CauseOldAge)
		}
	})
}

// kill marks a dead and drops its carried item. It is a no-op for an agent
// that is already dead.
func (c *Colony) kill(a *ecs.Entity, cause string) {
	if !a.Has(ecs.HasLife) {
		a.Add(ecs.HasLife)
	}
	if a.Life.Dead {
		return
	}
	a.Life.Dead = true
	a.Life.Cause = cause
	if a.Has(ecs.HasAI) {
		a.AI.Task.ClearTask()
	}
	c.bus.Publish(events.Event{Kind: events.ColonistDied, Entity: a.ID, Cell: a.Cell(), Detail: cause})
	c.logger.Info("colonist died", append(agentFields(a), zap.String("cause", cause))...)
	c.dropCarried(a)
}

// dropCarried places a dead agent's item on its tile exactly once.
func (c *Colony) dropCarried(a *ecs.Entity) {
	if a.Life.ItemsDropped {
		return
	}
	a.Life.ItemsDropped = true
	if !a.Has(ecs.HasInventory) {
		return
	}
	it, ok := a.Inventory.Drop()
	if !ok {
		return
	}
	cell := c.grid.Clamp(a.Position).Cell()
	if !c.grid.DropItem(cell, it) {
		c.logger.Warn("dropping item outside the grid", append(agentFields(a),
			zap.Stringer("item", it.Kind))...)
		return
	}
	c.bus.Publish(events.Event{Kind: events.ItemDropped, Entity: a.ID, Cell: cell, Item: it.Kind})
}

func (c *Colony) despawn(dt float64) {
	var gone []*ecs.Entity
	c.store.Each(ecs.HasLife, func(a *ecs.Entity) {
		if !a.Life.Dead {
			return
		}
		a.Life.SinceDeath += dt
		if a.Life.SinceDeath >= c.tuning.DespawnDelay {
			gone = append(gone, a)
		}
	})
	for _, a := range gone {
		c.store.Remove(a.ID)
		c.bus.Publish(events.Event{Kind: events.ColonistDespawned, Entity: a.ID, Cell: a.Cell()})
		c.logger.Info("colonist despawned", agentFields(a)...)
	}
}

func (c *Colony) clamp() {
	c.store.Each(ecs.HasPosition, func(e *ecs.Entity) {
		e.Position = c.grid.Clamp(e.Position)
	})
}

// Spawn creates a colonist at pos, clamped to the grid.
func (c *Colony) Spawn(name string, pos geom.Vec) *ecs.Entity {
	return c.store.SpawnColonist(name, c.grid.Clamp(pos))
}

// Alive returns the number of living colonists.
func (c *Colony) Alive() int {
	n := 0
	c.store.Each(ecs.HasIdentity|ecs.HasNeeds, func(a *ecs.Entity) {
		if a.Alive() {
			n++
		}
	})
	return n
}

func agentFields(a *ecs.Entity) []zap.Field {
	return observability.AgentFields(int(a.ID), a.Identity.Name)
}
