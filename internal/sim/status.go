package sim

import (
	"github.com/cory-johannsen/colony/internal/game/ecs"
	"github.com/cory-johannsen/colony/internal/game/geom"
	"github.com/cory-johannsen/colony/internal/game/item"
	"github.com/cory-johannsen/colony/internal/game/mood"
	"github.com/cory-johannsen/colony/internal/game/needs"
	"github.com/cory-johannsen/colony/internal/game/work"
)

// AgentStatus is a read-only view of one colonist for display or persistence.
type AgentStatus struct {
	ID        ecs.EntityID
	UID       string
	Name      string
	Tag       string
	Position  geom.Vec
	Task      string
	Target    geom.Cell
	Hunger    string
	Energy    string
	Health    string
	Needs     needs.State
	Mood      float64
	MoodLabel string
	Work      []work.Entry
	Carrying  string
	AgeYears  float64
	Dead      bool
	Player    bool
}

// Status is a snapshot of the colony after the most recent tick.
type Status struct {
	Tick    int64
	Elapsed float64
	Alive   int
	Agents  []AgentStatus
	// Stockpile counts stockpiled items by kind name.
	Stockpile map[string]int
}

// Status returns a snapshot of every colonist in store order.
func (c *Colony) Status() Status {
	st := Status{
		Tick:      c.ticks.Load(),
		Elapsed:   c.elapsed,
		Stockpile: c.stockpileCounts(),
	}
	c.store.Each(ecs.HasIdentity|ecs.HasNeeds, func(a *ecs.Entity) {
		as := AgentStatus{
			ID:        a.ID,
			UID:       a.Identity.UID,
			Name:      a.Identity.Name,
			Tag:       a.Identity.Tag,
			Position:  a.Position,
			Task:      "IDLE",
			Target:    a.AI.Task.Target(),
			Hunger:    needs.HungerName(a.Needs.HungerTier()),
			Energy:    needs.EnergyName(a.Needs.EnergyTier()),
			Health:    needs.HealthName(a.Needs.HealthTier()),
			Needs:     a.Needs,
			Mood:      a.Mood,
			MoodLabel: mood.Label(a.Mood),
			AgeYears:  a.Aging.Years,
			Dead:      !a.Alive(),
			Player:    a.Has(ecs.PlayerDriven),
		}
		if a.Has(ecs.HasAI) {
			as.Task = a.AI.Task.Kind().String()
		}
		if a.Has(ecs.HasWork) {
			as.Work = a.Work.Table()
		}
		if it, ok := a.Inventory.Holding(); ok {
			as.Carrying = it.Kind.String()
		}
		if !as.Dead {
			st.Alive++
		}
		st.Agents = append(st.Agents, as)
	})
	return st
}

func (c *Colony) stockpileCounts() map[string]int {
	out := make(map[string]int)
	for _, k := range []item.Kind{item.Food, item.Stone, item.Wood} {
		if n := c.grid.StockpileCount(k); n > 0 {
			out[k.String()] = n
		}
	}
	return out
}
