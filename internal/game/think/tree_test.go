package think_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/colony/internal/game/ecs"
	"github.com/cory-johannsen/colony/internal/game/events"
	"github.com/cory-johannsen/colony/internal/game/geom"
	"github.com/cory-johannsen/colony/internal/game/rng"
	"github.com/cory-johannsen/colony/internal/game/think"
	"github.com/cory-johannsen/colony/internal/game/world"
)

type fixture struct {
	store   *ecs.Store
	grid    *world.Grid
	bus     *events.Bus
	counter events.Counter
}

func newFixture(w, h int) *fixture {
	f := &fixture{
		store:   ecs.NewStore(),
		grid:    world.NewGrid(w, h, world.Grass),
		bus:     events.NewBus(),
		counter: events.Counter{},
	}
	f.bus.SubscribeAll(f.counter.Record)
	return f
}

func (f *fixture) ctx(agent *ecs.Entity) *think.Context {
	return &think.Context{
		Store:  f.store,
		Grid:   f.grid,
		Agent:  agent,
		Rand:   rng.NewSeeded(3),
		Bus:    f.bus,
		Tuning: think.DefaultTuning(),
	}
}

// run ticks the tree for agent until done reports true or limit ticks pass.
func (f *fixture) run(tree *think.Tree, agent *ecs.Entity, limit int, done func() bool) int {
	c := f.ctx(agent)
	for i := 0; i < limit; i++ {
		if done() {
			return i
		}
		tree.Tick(c, 0.1)
	}
	return limit
}

func constNode(name string, p float64, hits *[]string) think.Node {
	return think.Node{
		Name:     name,
		Priority: func(*think.Context) float64 { return p },
		Execute: func(*think.Context, float64) bool {
			*hits = append(*hits, name)
			return true
		},
	}
}

func TestTree_StrictGreatestWins(t *testing.T) {
	var hits []string
	tree := think.NewTree(constNode("a", 10, &hits), constNode("b", 30, &hits), constNode("c", 20, &hits))
	name, acted := tree.Tick(&think.Context{}, 1)
	assert.Equal(t, "b", name)
	assert.True(t, acted)
	assert.Equal(t, []string{"b"}, hits)
}

func TestTree_TieFavorsFirstDeclared(t *testing.T) {
	var hits []string
	tree := think.NewTree(constNode("a", 5, &hits), constNode("b", 50, &hits), constNode("c", 50, &hits))
	n, p, ok := tree.Select(&think.Context{})
	require.True(t, ok)
	assert.Equal(t, "b", n.Name)
	assert.Equal(t, 50.0, p)
}

func TestTree_NoPositivePriorityIsIdle(t *testing.T) {
	var hits []string
	tree := think.NewTree(constNode("a", 0, &hits), constNode("b", -3, &hits))
	name, acted := tree.Tick(&think.Context{}, 1)
	assert.Equal(t, "", name)
	assert.False(t, acted)
	assert.Empty(t, hits)
}

func TestNewTree_IncompleteNodePanics(t *testing.T) {
	assert.Panics(t, func() { think.NewTree(think.Node{Name: "broken"}) })
}

func TestColonistTree_Order(t *testing.T) {
	assert.Equal(t,
		[]string{"eat_food", "rest", "assigned_job", "haul", "socialize", "wander"},
		think.ColonistTree().Names())
}

func TestProperty_SelectionDeterministic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 8).Draw(rt, "n")
		priorities := make([]float64, n)
		var hits []string
		var nodes []think.Node
		for i := range priorities {
			priorities[i] = float64(rapid.IntRange(-2, 5).Draw(rt, "p"))
			nodes = append(nodes, constNode(string(rune('a'+i)), priorities[i], &hits))
		}
		tree := think.NewTree(nodes...)
		first, _, ok1 := tree.Select(&think.Context{})
		second, _, ok2 := tree.Select(&think.Context{})
		if ok1 != ok2 || first.Name != second.Name {
			rt.Fatalf("selection not deterministic")
		}
		want, best := -1, 0.0
		for i, p := range priorities {
			if p > best {
				want, best = i, p
			}
		}
		if want < 0 {
			if ok1 {
				rt.Fatalf("expected idle, got %s", first.Name)
			}
			return
		}
		if !ok1 || first.Name != nodes[want].Name {
			rt.Fatalf("winner %q, want %q for %v", first.Name, nodes[want].Name, priorities)
		}
	})
}

func TestColonistTree_IdleAgentWanders(t *testing.T) {
	f := newFixture(10, 10)
	a := f.store.SpawnColonist("solo", geom.Vec{X: 5.5, Y: 5.5})
	name, acted := think.ColonistTree().Tick(f.ctx(a), 0.1)
	assert.Equal(t, "wander", name)
	assert.True(t, acted)
}
