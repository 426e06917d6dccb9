package ecs

import (
	"github.com/google/uuid"

	"github.com/cory-johannsen/colony/internal/game/geom"
	"github.com/cory-johannsen/colony/internal/game/needs"
)

// SpawnColonist creates a colonist with full needs and neutral mood at pos.
//
// Postcondition: the entity has ColonistMask and a fresh Identity.UID.
func (s *Store) SpawnColonist(name string, pos geom.Vec) *Entity {
	e := s.Create(ColonistMask)
	e.Position = pos
	e.Needs = needs.Full()
	e.Identity = Identity{UID: uuid.New().String(), Name: name, Tag: "COLONIST"}
	return e
}

// SpawnBuilding creates a building of type t on cell.
func (s *Store) SpawnBuilding(t BuildingType, cell geom.Cell, capacity int, built bool) *Entity {
	e := s.Create(HasPosition | HasBuilding)
	e.Position = cell.Center()
	e.Building = Building{Type: t, Built: built, Capacity: capacity}
	return e
}

// SpawnBed creates a bed on cell owned by owner, which may be NoEntity.
func (s *Store) SpawnBed(cell geom.Cell, owner EntityID) *Entity {
	e := s.Create(HasPosition | HasBed)
	e.Position = cell.Center()
	e.Bed = Bed{Owner: owner}
	return e
}

// BedOf returns the bed owned by id.
func (s *Store) BedOf(id EntityID) (*Entity, bool) {
	if id == NoEntity {
		return nil, false
	}
	var found *Entity
	s.Each(HasBed|HasPosition, func(e *Entity) {
		if found == nil && e.Bed.Owner == id {
			found = e
		}
	})
	return found, found != nil
}
