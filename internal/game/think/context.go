package think

import (
	"github.com/cory-johannsen/colony/internal/game/ecs"
	"github.com/cory-johannsen/colony/internal/game/events"
	"github.com/cory-johannsen/colony/internal/game/geom"
	"github.com/cory-johannsen/colony/internal/game/item"
	"github.com/cory-johannsen/colony/internal/game/needs"
	"github.com/cory-johannsen/colony/internal/game/rng"
	"github.com/cory-johannsen/colony/internal/game/task"
	"github.com/cory-johannsen/colony/internal/game/world"
)

// Movement speeds in tiles per second.
const (
	EatSpeed       = 2.2
	JobSpeed       = 2.0
	BedSpeed       = 2.0
	SocializeSpeed = 1.5
	WanderSpeed    = 1.3
)

// Tuning holds the behavior constants that may be overridden by configuration.
type Tuning struct {
	Needs needs.Rates
	// StuckTimeout is the number of seconds without progress after which a
	// navigation task is abandoned.
	StuckTimeout float64
	// RestDuration is how long a rest lasts.
	RestDuration float64
	// WanderMin and WanderMax bound the seconds between wander retargets.
	WanderMin, WanderMax float64
	// WanderRadius bounds how far a wander target may be from the agent.
	WanderRadius int
	// SocialRange is the distance at which approaching agents start socializing.
	SocialRange float64
}

// DefaultTuning returns the stock tuning.
func DefaultTuning() Tuning {
	return Tuning{
		Needs:        needs.DefaultRates(),
		StuckTimeout: 5,
		RestDuration: 3,
		WanderMin:    2,
		WanderMax:    4,
		WanderRadius: 8,
		SocialRange:  2,
	}
}

// Context is everything a node may read or mutate for one agent in one tick.
// All shared state is passed explicitly.
type Context struct {
	Store  *ecs.Store
	Grid   *world.Grid
	Agent  *ecs.Entity
	Rand   rng.Source
	Bus    *events.Bus
	Tuning Tuning
}

var fallbackRand = rng.NewSeeded(1)

func (c *Context) rand() rng.Source {
	if c.Rand == nil {
		return fallbackRand
	}
	return c.Rand
}

func (c *Context) grid() task.Grid {
	if c.Grid == nil {
		return nil
	}
	return c.Grid
}

func (c *Context) publish(kind events.Kind, cell geom.Cell, k item.Kind) {
	c.Bus.Publish(events.Event{Kind: kind, Entity: c.Agent.ID, Cell: cell, Item: k})
}

func (c *Context) stockpile() (geom.Cell, bool) {
	if c.Grid == nil {
		return geom.Cell{}, false
	}
	return c.Grid.Stockpile(c.Agent.Position)
}

// navStatus is the outcome of one navigation step.
type navStatus int

const (
	enRoute navStatus = iota
	arrived
	abandoned
)

// navigate pursues target with the given task kind, starting the task if it
// is not already in progress. The task is abandoned when the agent makes no
// progress for longer than StuckTimeout.
func (c *Context) navigate(kind task.Kind, target geom.Cell, speed, dt float64) navStatus {
	ts := &c.Agent.AI.Task
	if !ts.Pursuing(kind, target) {
		ts.SetTask(kind, target)
	}
	if ts.IsAtTarget(c.Agent.Position) {
		return arrived
	}
	moved := ts.MoveTowardTarget(&c.Agent.Position, dt, speed, c.grid())
	ts.RecordProgress(dt, moved, speed*dt)
	if ts.Stuck(c.Tuning.StuckTimeout) {
		c.Bus.Publish(events.Event{
			Kind:   events.TaskAbandoned,
			Entity: c.Agent.ID,
			Cell:   target,
			Detail: kind.String(),
		})
		ts.ClearTask()
		return abandoned
	}
	if ts.IsAtTarget(c.Agent.Position) {
		return arrived
	}
	return enRoute
}

// nearestBuilding returns the built building with output nearest to the
// agent whose type satisfies match. Ties keep store order.
func (c *Context) nearestBuilding(match func(ecs.BuildingType) bool) *ecs.Entity {
	var best *ecs.Entity
	var bestD float64
	c.Store.Each(ecs.HasBuilding|ecs.HasPosition, func(b *ecs.Entity) {
		if !b.Building.HasOutput() || !match(b.Building.Type) {
			return
		}
		if c.Grid != nil && !c.Grid.Passable(b.Cell().X, b.Cell().Y) {
			return
		}
		if d := c.Agent.Position.DistSq(b.Position); best == nil || d < bestD {
			best, bestD = b, d
		}
	})
	return best
}

// deliver walks the carried item to the nearest stockpile and drops it
// there. It reports false when there is nothing to deliver or nowhere to
// deliver it.
func (c *Context) deliver(kind task.Kind, speed, dt float64) bool {
	inv := &c.Agent.Inventory
	if inv.Empty() {
		return false
	}
	stock, ok := c.stockpile()
	if !ok {
		return false
	}
	if c.navigate(kind, stock, speed, dt) == arrived {
		it, _ := inv.Drop()
		c.Grid.DropItem(stock, it)
		c.publish(events.ItemDelivered, stock, it.Kind)
		c.Agent.AI.Task.ClearTask()
	}
	return true
}

// moveKind returns the task kind used to walk to a building of type t.
func moveKind(t ecs.BuildingType) task.Kind {
	switch t {
	case ecs.Miner:
		return task.MoveToMiner
	case ecs.FoodGrower:
		return task.MoveToFoodGrower
	default:
		return task.MoveToBuilding
	}
}

// collect walks to b and takes one output unit. Once carrying, the task
// switches to then heading for the stockpile, or clears when there is none.
func (c *Context) collect(b *ecs.Entity, then task.Kind, speed, dt float64) {
	if c.navigate(moveKind(b.Building.Type), b.Cell(), speed, dt) != arrived {
		return
	}
	ts := &c.Agent.AI.Task
	it, ok := b.Building.Take()
	if !ok || !c.Agent.Inventory.Pick(it) {
		if ok {
			b.Building.Push(it)
		}
		ts.ClearTask()
		return
	}
	if stock, ok := c.stockpile(); ok {
		ts.SetTask(then, stock)
		return
	}
	ts.ClearTask()
}
