package think

import (
	"github.com/cory-johannsen/colony/internal/game/ecs"
	"github.com/cory-johannsen/colony/internal/game/item"
	"github.com/cory-johannsen/colony/internal/game/task"
	"github.com/cory-johannsen/colony/internal/game/work"
)

const (
	jobPriority       = 50
	strayHaulPriority = 30
)

const workerMask = ecs.HasWork | ecs.HasInventory | ecs.HasAI | ecs.HasPosition

// roleBuilding reports whether role r collects from buildings of type t.
func roleBuilding(r work.Role, t ecs.BuildingType) bool {
	switch r {
	case work.Farmer:
		return t == ecs.FoodGrower
	case work.Miner:
		return t == ecs.Miner
	case work.Hauler:
		return t.Produces() != item.None
	}
	return false
}

// roleAccepts reports whether role r delivers carried items of kind k.
func roleAccepts(r work.Role, k item.Kind) bool {
	switch r {
	case work.Farmer:
		return k == item.Food
	case work.Miner:
		return k == item.Stone
	case work.Hauler:
		return k != item.None
	}
	return false
}

// availableWork returns the first active role, in priority order, that has
// a concrete step to take: delivering an accepted carried item to an existing
// stockpile, or collecting from a matching building with output. The same
// check drives both priority and execution.
func availableWork(c *Context) (work.Role, *ecs.Entity, bool) {
	a := c.Agent
	if !a.Has(workerMask) {
		return work.Idle, nil, false
	}
	held, carrying := a.Inventory.Holding()
	_, hasStock := c.stockpile()
	for _, r := range a.Work.ActiveRoles() {
		if carrying {
			if hasStock && roleAccepts(r, held.Kind) {
				return r, nil, true
			}
			continue
		}
		if b := c.nearestBuilding(func(t ecs.BuildingType) bool { return roleBuilding(r, t) }); b != nil {
			return r, b, true
		}
	}
	return work.Idle, nil, false
}

// AssignedJobNode performs one step of the agent's highest-priority role
// that has work: delivering what it carries, or fetching one unit of output.
func AssignedJobNode() Node {
	return Node{Name: "assigned_job", Priority: jobNodePriority, Execute: jobExecute}
}

func jobNodePriority(c *Context) float64 {
	if _, _, ok := availableWork(c); ok {
		return jobPriority
	}
	return 0
}

func jobExecute(c *Context, dt float64) bool {
	_, b, ok := availableWork(c)
	if !ok {
		return false
	}
	if b == nil {
		return c.deliver(task.MoveToStockpile, JobSpeed, dt)
	}
	c.collect(b, task.MoveToStockpile, JobSpeed, dt)
	return true
}

// HaulNode takes a carried item that no active role would deliver to the
// stockpile. Haulers fetching building output run under assigned_job.
func HaulNode() Node {
	return Node{Name: "haul", Priority: haulPriority, Execute: haulExecute}
}

func haulPriority(c *Context) float64 {
	a := c.Agent
	if !a.Has(workerMask) {
		return 0
	}
	held, carrying := a.Inventory.Holding()
	if !carrying {
		return 0
	}
	if _, ok := c.stockpile(); !ok {
		return 0
	}
	for _, r := range a.Work.ActiveRoles() {
		if roleAccepts(r, held.Kind) {
			return 0
		}
	}
	return strayHaulPriority
}

func haulExecute(c *Context, dt float64) bool {
	if c.Agent.Inventory.Empty() {
		return false
	}
	return c.deliver(task.MoveToStockpile, JobSpeed, dt)
}
