// Package item defines the resources colonists carry, eat, and stockpile.
package item

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Kind is the resource type of an item.
type Kind int

const (
	// None is the zero Kind and matches no item.
	None Kind = iota
	Food
	Stone
	Wood
)

var kindNames = map[Kind]string{
	None:  "NONE",
	Food:  "FOOD",
	Stone: "STONE",
	Wood:  "WOOD",
}

// String returns the upper-case name of k.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind converts a case-insensitive name to a Kind.
//
// Postcondition: Returns an error for names that are not FOOD, STONE, or WOOD.
func ParseKind(s string) (Kind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "FOOD":
		return Food, nil
	case "STONE":
		return Stone, nil
	case "WOOD":
		return Wood, nil
	}
	return None, fmt.Errorf("item.ParseKind: unknown item kind %q", s)
}

// Item is a single unit of a resource.
type Item struct {
	// ID uniquely identifies this unit across the simulation.
	ID   string
	Kind Kind
}

// New returns a new Item of kind k with a fresh instance ID.
//
// Precondition: k must not be None.
func New(k Kind) Item {
	if k == None {
		panic("item.New: kind must not be None")
	}
	return Item{ID: uuid.New().String(), Kind: k}
}
