// Package ecs provides the entity store that holds all simulation state.
//
// Entities live in an arena addressed by stable integer IDs. Each entity
// carries a Mask naming the attributes it has; iteration filters on the mask.
// The store is not safe for concurrent use: the simulation is single-threaded
// and mutates entities in place during a tick.
package ecs

// EntityID identifies an entity. IDs are assigned sequentially from 1 and are
// never reused.
type EntityID int

// NoEntity is the null EntityID.
const NoEntity EntityID = 0

// Mask is a set of attribute bits.
type Mask uint32

// Attribute bits.
const (
	HasPosition Mask = 1 << iota
	HasNeeds
	HasAI
	HasInventory
	HasWork
	HasMood
	HasIdentity
	HasAging
	HasLife
	HasSleep
	HasBuilding
	HasBed
	// PlayerDriven marks an agent controlled from outside the simulation.
	PlayerDriven
)

// ColonistMask is the attribute set of a spawned colonist.
const ColonistMask = HasPosition | HasNeeds | HasAI | HasInventory | HasWork |
	HasMood | HasIdentity | HasAging | HasLife | HasSleep

// Contains reports whether m has every bit of required.
func (m Mask) Contains(required Mask) bool {
	return m&required == required
}

// Store is the arena of entities.
type Store struct {
	slots []*Entity
	live  int
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Create adds a new entity with the given attribute mask.
//
// Postcondition: the returned entity has a fresh ID greater than every ID
// issued before.
func (s *Store) Create(mask Mask) *Entity {
	e := &Entity{ID: EntityID(len(s.slots) + 1), mask: mask}
	if mask.Contains(HasMood) {
		e.Mood = BaseMood
	}
	s.slots = append(s.slots, e)
	s.live++
	return e
}

// Remove deletes the entity with id.
//
// Postcondition: Returns false if no live entity has id.
func (s *Store) Remove(id EntityID) bool {
	i := int(id) - 1
	if i < 0 || i >= len(s.slots) || s.slots[i] == nil {
		return false
	}
	s.slots[i] = nil
	s.live--
	return true
}

// Get returns the entity with id.
//
// Postcondition: Returns (e, true) if found, or (nil, false) otherwise.
func (s *Store) Get(id EntityID) (*Entity, bool) {
	i := int(id) - 1
	if i < 0 || i >= len(s.slots) || s.slots[i] == nil {
		return nil, false
	}
	return s.slots[i], true
}

// Len returns the number of live entities.
func (s *Store) Len() int {
	return s.live
}

// Each calls fn for every live entity whose mask contains required, in
// creation order. Entities removed during iteration are skipped; entities
// created during iteration are not visited.
func (s *Store) Each(required Mask, fn func(*Entity)) {
	n := len(s.slots)
	for i := 0; i < n; i++ {
		e := s.slots[i]
		if e == nil || !e.mask.Contains(required) {
			continue
		}
		fn(e)
	}
}

// Query returns the live entities whose mask contains required, in creation order.
func (s *Store) Query(required Mask) []*Entity {
	var out []*Entity
	s.Each(required, func(e *Entity) { out = append(out, e) })
	return out
}
