package think

import (
	"math"

	"github.com/cory-johannsen/colony/internal/game/ecs"
	"github.com/cory-johannsen/colony/internal/game/events"
	"github.com/cory-johannsen/colony/internal/game/geom"
	"github.com/cory-johannsen/colony/internal/game/item"
	"github.com/cory-johannsen/colony/internal/game/task"
)

// Priorities indexed by need tier, most satisfied first.
var (
	eatPriorities  = [...]float64{0, 50, 80, 100}
	restPriorities = [...]float64{0, 20, 75, 95}
)

const (
	// deliveringFoodPriority keeps a started food delivery from being dropped
	// for a lesser need.
	deliveringFoodPriority = 90
	// restingPriority keeps a started rest going.
	restingPriority = 90
)

const eaterMask = ecs.HasNeeds | ecs.HasAI | ecs.HasInventory | ecs.HasPosition

// EatFoodNode finds food and eats it. Sources in order: carried food
// (delivered to the stockpile first when one exists), the nearest ground
// food, then the nearest food grower with output.
func EatFoodNode() Node {
	return Node{Name: "eat_food", Priority: eatPriority, Execute: eatExecute}
}

func eatPriority(c *Context) float64 {
	a := c.Agent
	if !a.Has(eaterMask) {
		return 0
	}
	p := eatPriorities[a.Needs.HungerTier()]
	if a.Inventory.Carrying(item.Food) && a.AI.Task.Kind() == task.Hauling {
		p = math.Max(p, deliveringFoodPriority)
	}
	if p <= 0 || !foodAvailable(c) {
		return 0
	}
	return p
}

func foodAvailable(c *Context) bool {
	a := c.Agent
	if a.Inventory.Carrying(item.Food) {
		return true
	}
	if c.Grid != nil {
		if _, ok := c.Grid.NearestItemTile(a.Position, item.Food); ok {
			return true
		}
	}
	return a.Inventory.Empty() && c.nearestBuilding(isFoodGrower) != nil
}

func isFoodGrower(t ecs.BuildingType) bool { return t == ecs.FoodGrower }

func eatExecute(c *Context, dt float64) bool {
	a := c.Agent
	ts := &a.AI.Task

	if a.Inventory.Carrying(item.Food) {
		stock, ok := c.stockpile()
		if !ok {
			a.Inventory.Drop()
			c.eat(a.Cell())
			ts.ClearTask()
			return true
		}
		if c.navigate(task.Hauling, stock, EatSpeed, dt) == arrived {
			it, _ := a.Inventory.Drop()
			c.Grid.DropItem(stock, it)
			c.publish(events.ItemDelivered, stock, it.Kind)
			if _, ok := c.Grid.TakeItem(stock, item.Food); ok {
				c.eat(stock)
			}
			ts.ClearTask()
		}
		return true
	}

	if c.Grid != nil {
		if cell, ok := c.Grid.NearestItemTile(a.Position, item.Food); ok {
			if c.navigate(task.MoveToFood, cell, EatSpeed, dt) == arrived {
				if _, ok := c.Grid.TakeItem(cell, item.Food); ok {
					c.eat(cell)
				}
				ts.ClearTask()
			}
			return true
		}
	}

	if a.Inventory.Empty() {
		if b := c.nearestBuilding(isFoodGrower); b != nil {
			c.collect(b, task.Hauling, EatSpeed, dt)
			return true
		}
	}
	return false
}

func (c *Context) eat(at geom.Cell) {
	c.Agent.Needs.Eat(c.Tuning.Needs.EatAmount)
	c.publish(events.FoodEaten, at, item.Food)
}

const restMask = ecs.HasNeeds | ecs.HasAI | ecs.HasPosition

// RestNode walks to the agent's bed if it owns one, then rests for
// RestDuration. A rest in bed restores the full rest amount; on the ground
// it restores half.
func RestNode() Node {
	return Node{Name: "rest", Priority: restPriority, Execute: restExecute}
}

func restPriority(c *Context) float64 {
	a := c.Agent
	if !a.Has(restMask) {
		return 0
	}
	if k := a.AI.Task.Kind(); k == task.Resting || k == task.MoveToBed {
		return restingPriority
	}
	return restPriorities[a.Needs.EnergyTier()]
}

func restExecute(c *Context, dt float64) bool {
	a := c.Agent
	ts := &a.AI.Task

	if ts.Kind() != task.Resting {
		if bed, ok := c.ownBed(); ok {
			if c.navigate(task.MoveToBed, bed.Cell(), BedSpeed, dt) == enRoute {
				return true
			}
		}
		ts.SetTask(task.Resting, a.Cell())
		ts.ResetCooldown(c.Tuning.RestDuration)
		return true
	}

	if !ts.AdvanceTimer(dt) {
		return true
	}
	amount := c.Tuning.Needs.RestAmount / 2
	quality := ecs.SleptOnGround
	if bed, ok := c.ownBed(); ok && bed.Cell() == a.Cell() {
		amount = c.Tuning.Needs.RestAmount
		quality = ecs.SleptInBed
	}
	a.Needs.Rest(amount)
	if a.Has(ecs.HasSleep) {
		a.Sleep = quality
	}
	ts.ClearTask()
	return true
}

func (c *Context) ownBed() (*ecs.Entity, bool) {
	bed, ok := c.Store.BedOf(c.Agent.ID)
	if !ok {
		return nil, false
	}
	if c.Grid != nil && !c.Grid.Passable(bed.Cell().X, bed.Cell().Y) {
		return nil, false
	}
	return bed, true
}
