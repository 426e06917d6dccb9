// Package events provides a synchronous in-process bus for simulation events.
package events

import (
	"github.com/cory-johannsen/colony/internal/game/ecs"
	"github.com/cory-johannsen/colony/internal/game/geom"
	"github.com/cory-johannsen/colony/internal/game/item"
)

// Kind classifies an Event.
type Kind string

const (
	ColonistDied      Kind = "COLONIST_DIED"
	ColonistDespawned Kind = "COLONIST_DESPAWNED"
	FoodEaten         Kind = "FOOD_EATEN"
	ItemDelivered     Kind = "ITEM_DELIVERED"
	ItemDropped       Kind = "ITEM_DROPPED"
	AgentRecovered    Kind = "AGENT_RECOVERED"
	TaskAbandoned     Kind = "TASK_ABANDONED"
)

// Event describes something that happened during a tick.
type Event struct {
	Kind   Kind
	Entity ecs.EntityID
	Cell   geom.Cell
	Item   item.Kind
	Detail string
}

// Handler receives published events.
type Handler func(Event)

// Bus delivers events to subscribers in subscription order. A nil *Bus
// accepts Publish and drops the event.
type Bus struct {
	handlers map[Kind][]Handler
	all      []Handler
}

// NewBus returns an empty Bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[Kind][]Handler)}
}

// Subscribe registers fn for events of kind k.
func (b *Bus) Subscribe(k Kind, fn Handler) {
	b.handlers[k] = append(b.handlers[k], fn)
}

// SubscribeAll registers fn for every event.
func (b *Bus) SubscribeAll(fn Handler) {
	b.all = append(b.all, fn)
}

// Publish delivers ev synchronously to the handlers for its kind, then to
// the catch-all handlers.
func (b *Bus) Publish(ev Event) {
	if b == nil {
		return
	}
	for _, fn := range b.handlers[ev.Kind] {
		fn(ev)
	}
	for _, fn := range b.all {
		fn(ev)
	}
}

// Counter tallies events by kind. Register Counter.Record with SubscribeAll.
type Counter map[Kind]int

// Record increments the tally for ev.Kind.
func (c Counter) Record(ev Event) { c[ev.Kind]++ }
