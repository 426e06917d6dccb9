package ecs

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/colony/internal/game/item"
)

// BuildingType tags what a building produces.
type BuildingType string

const (
	Miner      BuildingType = "MINER"
	FoodGrower BuildingType = "FOOD_GROWER"
	Woodcutter BuildingType = "WOODCUTTER"
	Storage    BuildingType = "STORAGE"
)

// ParseBuildingType converts a case-insensitive name to a BuildingType.
func ParseBuildingType(s string) (BuildingType, error) {
	switch t := BuildingType(strings.ToUpper(strings.TrimSpace(s))); t {
	case Miner, FoodGrower, Woodcutter, Storage:
		return t, nil
	}
	return "", fmt.Errorf("ecs.ParseBuildingType: unknown building type %q", s)
}

// DefaultOutputCapacity bounds a building's output queue when none is given.
const DefaultOutputCapacity = 10

// Building is a production site with a bounded FIFO output queue.
//
// Invariant: len(output) <= Capacity.
type Building struct {
	Type     BuildingType
	Built    bool
	Capacity int
	output   []item.Item
}

// HasOutput reports whether the building is built and has queued output.
func (b *Building) HasOutput() bool {
	return b.Built && len(b.output) > 0
}

// Len returns the number of queued output items.
func (b *Building) Len() int { return len(b.output) }

// Peek returns the oldest queued item without removing it.
func (b *Building) Peek() (item.Item, bool) {
	if len(b.output) == 0 {
		return item.Item{}, false
	}
	return b.output[0], true
}

// Take removes and returns the oldest queued item.
//
// Postcondition: Returns (zero, false) when the building is not built or empty.
func (b *Building) Take() (item.Item, bool) {
	if !b.HasOutput() {
		return item.Item{}, false
	}
	it := b.output[0]
	b.output[0] = item.Item{}
	b.output = b.output[1:]
	return it, true
}

// Push appends it to the output queue.
//
// Postcondition: Returns false and drops nothing when the queue is full.
func (b *Building) Push(it item.Item) bool {
	capacity := b.Capacity
	if capacity <= 0 {
		capacity = DefaultOutputCapacity
	}
	if len(b.output) >= capacity {
		return false
	}
	b.output = append(b.output, it)
	return true
}

// Produces returns the item kind a building of type t yields, or item.None.
func (t BuildingType) Produces() item.Kind {
	switch t {
	case Miner:
		return item.Stone
	case FoodGrower:
		return item.Food
	case Woodcutter:
		return item.Wood
	}
	return item.None
}
