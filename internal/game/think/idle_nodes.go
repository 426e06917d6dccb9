package think

import (
	"github.com/cory-johannsen/colony/internal/game/ecs"
	"github.com/cory-johannsen/colony/internal/game/geom"
	"github.com/cory-johannsen/colony/internal/game/rng"
	"github.com/cory-johannsen/colony/internal/game/task"
)

const (
	socializePriority = 10
	wanderPriority    = 1
)

// wanderTries bounds the random draws spent looking for a passable target.
const wanderTries = 10

// SocializeNode walks to the nearest other colonist and socializes once
// within SocialRange. It only runs when the agent is neither hungry nor tired.
func SocializeNode() Node {
	return Node{Name: "socialize", Priority: socializeNodePriority, Execute: socializeExecute}
}

func socializeNodePriority(c *Context) float64 {
	a := c.Agent
	if !a.Has(ecs.HasNeeds | ecs.HasAI | ecs.HasPosition) {
		return 0
	}
	if a.Needs.IsHungry() || a.Needs.IsTired() {
		return 0
	}
	if c.nearestCompanion() == nil {
		return 0
	}
	return socializePriority
}

func socializeExecute(c *Context, dt float64) bool {
	o := c.nearestCompanion()
	if o == nil {
		return false
	}
	a := c.Agent
	ts := &a.AI.Task
	if a.Position.Dist(o.Position) <= c.Tuning.SocialRange {
		if !ts.Pursuing(task.Socializing, o.Cell()) {
			ts.SetTask(task.Socializing, o.Cell())
		}
		return true
	}
	c.navigate(task.Wander, o.Cell(), SocializeSpeed, dt)
	return true
}

// nearestCompanion returns the nearest other living colonist that is not
// player-driven.
func (c *Context) nearestCompanion() *ecs.Entity {
	var best *ecs.Entity
	var bestD float64
	c.Store.Each(ecs.HasIdentity|ecs.HasPosition, func(o *ecs.Entity) {
		if o.ID == c.Agent.ID || !o.Alive() || o.Has(ecs.PlayerDriven) {
			return
		}
		if d := c.Agent.Position.DistSq(o.Position); best == nil || d < bestD {
			best, bestD = o, d
		}
	})
	return best
}

// WanderNode walks to random nearby passable tiles, picking a new target
// every WanderMin to WanderMax seconds. It is always runnable.
func WanderNode() Node {
	return Node{Name: "wander", Priority: wanderNodePriority, Execute: wanderExecute}
}

func wanderNodePriority(c *Context) float64 {
	if !c.Agent.Has(ecs.HasAI | ecs.HasPosition) {
		return 0
	}
	return wanderPriority
}

func wanderExecute(c *Context, dt float64) bool {
	ts := &c.Agent.AI.Task
	if ts.Kind() != task.Wander || ts.AdvanceTimer(dt) {
		ts.SetTask(task.Wander, c.wanderTarget())
		ts.ResetCooldown(rng.Range(c.rand(), c.Tuning.WanderMin, c.Tuning.WanderMax))
	}
	if c.navigate(task.Wander, ts.Target(), WanderSpeed, dt) == arrived {
		ts.ClearTask()
	}
	return true
}

func (c *Context) wanderTarget() geom.Cell {
	from := c.Agent.Cell()
	r := c.Tuning.WanderRadius
	if r <= 0 {
		return from
	}
	src := c.rand()
	for i := 0; i < wanderTries; i++ {
		cand := from.Add(src.Intn(2*r+1)-r, src.Intn(2*r+1)-r)
		if c.Grid == nil || c.Grid.Passable(cand.X, cand.Y) {
			return cand
		}
	}
	return from
}
