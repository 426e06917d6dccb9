package ecs

import (
	"github.com/cory-johannsen/colony/internal/game/geom"
	"github.com/cory-johannsen/colony/internal/game/item"
	"github.com/cory-johannsen/colony/internal/game/needs"
	"github.com/cory-johannsen/colony/internal/game/task"
	"github.com/cory-johannsen/colony/internal/game/work"
)

// BaseMood is the neutral mood given to every entity created with HasMood.
const BaseMood = 50.0

// Entity is one attribute bag. Fields are meaningful only when the matching
// mask bit is set.
type Entity struct {
	ID   EntityID
	mask Mask

	Position  geom.Vec
	Needs     needs.State
	AI        AI
	Inventory Inventory
	Work      work.Settings
	// Mood is in [0,100] and is written only by the mood engine.
	Mood     float64
	Identity Identity
	Aging    Aging
	Life     Life
	Sleep    SleepQuality
	Building Building
	Bed      Bed
}

// Mask returns the attribute set of e.
func (e *Entity) Mask() Mask { return e.mask }

// Has reports whether e has every bit in m.
func (e *Entity) Has(m Mask) bool { return e.mask.Contains(m) }

// Add sets the bits of m on e.
func (e *Entity) Add(m Mask) { e.mask |= m }

// Clear removes the bits of m from e.
func (e *Entity) Clear(m Mask) { e.mask &^= m }

// Alive reports whether e has not died. Entities without HasLife are always alive.
func (e *Entity) Alive() bool {
	return !e.Has(HasLife) || !e.Life.Dead
}

// Cell returns the tile e stands on.
func (e *Entity) Cell() geom.Cell { return e.Position.Cell() }

// AI is the behavior state of an agent.
type AI struct {
	Task task.State
	// Disabled suppresses behavior selection for this agent.
	Disabled bool
}

// Inventory holds at most one carried item.
type Inventory struct {
	held item.Item
}

// Holding returns the carried item.
//
// Postcondition: Returns (item, true) when carrying, or (zero, false) otherwise.
func (inv *Inventory) Holding() (item.Item, bool) {
	return inv.held, inv.held.Kind != item.None
}

// Carrying reports whether the carried item is of kind k.
func (inv *Inventory) Carrying(k item.Kind) bool {
	return k != item.None && inv.held.Kind == k
}

// Empty reports whether nothing is carried.
func (inv *Inventory) Empty() bool {
	return inv.held.Kind == item.None
}

// Pick stores it as the carried item.
//
// Postcondition: Returns false and changes nothing when already carrying.
func (inv *Inventory) Pick(it item.Item) bool {
	if !inv.Empty() || it.Kind == item.None {
		return false
	}
	inv.held = it
	return true
}

// Drop removes and returns the carried item.
func (inv *Inventory) Drop() (item.Item, bool) {
	it, ok := inv.Holding()
	inv.held = item.Item{}
	return it, ok
}

// Identity names an agent.
type Identity struct {
	// UID is a globally unique identifier suitable for persistence.
	UID  string
	Name string
	// Tag is a free-form role tag shown in status displays.
	Tag string
}

// Aging counts an agent's age in years.
type Aging struct {
	Years float64
}

// Life tracks death. Dead is irreversible.
type Life struct {
	Dead bool
	// ItemsDropped is set once the carried item has been dropped on death.
	ItemsDropped bool
	// SinceDeath is the number of seconds since death.
	SinceDeath float64
	Cause      string
}

// SleepQuality is where an agent last slept.
type SleepQuality int

const (
	SleptNowhere SleepQuality = iota
	SleptOnGround
	SleptInBed
)

// String returns the upper-case name of q.
func (q SleepQuality) String() string {
	switch q {
	case SleptOnGround:
		return "ON_GROUND"
	case SleptInBed:
		return "IN_BED"
	default:
		return "NONE"
	}
}

// Bed is a sleeping place owned by at most one agent.
type Bed struct {
	Owner EntityID
}
