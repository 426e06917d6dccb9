package path_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/colony/internal/game/geom"
	"github.com/cory-johannsen/colony/internal/game/path"
)

type testGrid struct {
	w, h  int
	walls map[geom.Cell]bool
}

func newGrid(w, h int) *testGrid {
	return &testGrid{w: w, h: h, walls: make(map[geom.Cell]bool)}
}

func (g *testGrid) Passable(x, y int) bool {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return false
	}
	return !g.walls[geom.Cell{X: x, Y: y}]
}

func TestFindPath_StartEqualsGoal(t *testing.T) {
	g := newGrid(5, 5)
	assert.Empty(t, path.FindPath(g, geom.Cell{X: 2, Y: 2}, geom.Cell{X: 2, Y: 2}))
}

func TestFindPath_ImpassableGoal(t *testing.T) {
	g := newGrid(5, 5)
	g.walls[geom.Cell{X: 4, Y: 4}] = true
	assert.Empty(t, path.FindPath(g, geom.Cell{X: 0, Y: 0}, geom.Cell{X: 4, Y: 4}))
}

func TestFindPath_OutOfBoundsGoal(t *testing.T) {
	g := newGrid(5, 5)
	assert.Empty(t, path.FindPath(g, geom.Cell{X: 0, Y: 0}, geom.Cell{X: 9, Y: 0}))
}

func TestFindPath_StraightLine(t *testing.T) {
	g := newGrid(10, 3)
	p := path.FindPath(g, geom.Cell{X: 0, Y: 1}, geom.Cell{X: 7, Y: 1})
	require.Len(t, p, 7)
	assert.Equal(t, geom.Cell{X: 7, Y: 1}, p[len(p)-1])
	assert.Equal(t, 70, path.Cost(geom.Cell{X: 0, Y: 1}, p))
}

func TestFindPath_RoutesAroundWall(t *testing.T) {
	g := newGrid(7, 7)
	for y := 0; y < 6; y++ {
		g.walls[geom.Cell{X: 3, Y: y}] = true
	}
	start, goal := geom.Cell{X: 0, Y: 0}, geom.Cell{X: 6, Y: 0}
	p := path.FindPath(g, start, goal)
	require.NotEmpty(t, p)
	assert.Equal(t, goal, p[len(p)-1])
	for _, c := range p {
		assert.True(t, g.Passable(c.X, c.Y), "waypoint %v impassable", c)
	}
}

func TestFindPath_NoCornerCut(t *testing.T) {
	g := newGrid(2, 2)
	g.walls[geom.Cell{X: 1, Y: 0}] = true
	// The only diagonal from (0,0) to (1,1) would cut the wall at (1,0).
	p := path.FindPath(g, geom.Cell{X: 0, Y: 0}, geom.Cell{X: 1, Y: 1})
	assert.Equal(t, []geom.Cell{{X: 0, Y: 1}, {X: 1, Y: 1}}, p)
}

func TestFindPath_Unreachable(t *testing.T) {
	g := newGrid(5, 5)
	for y := 0; y < 5; y++ {
		g.walls[geom.Cell{X: 2, Y: y}] = true
	}
	assert.Empty(t, path.FindPath(g, geom.Cell{X: 0, Y: 0}, geom.Cell{X: 4, Y: 4}))
}

func TestFindPath_BudgetExhausted(t *testing.T) {
	// A large open region with the goal sealed off forces the search to
	// expand more than SearchLimit nodes before giving up.
	g := newGrid(100, 100)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if i != 1 || j != 1 {
				g.walls[geom.Cell{X: 90 + i, Y: 90 + j}] = true
			}
		}
	}
	assert.Empty(t, path.FindPath(g, geom.Cell{X: 0, Y: 0}, geom.Cell{X: 91, Y: 91}))
}

func TestProperty_OpenGridLengthIsChebyshev(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		g := newGrid(15, 15)
		start := geom.Cell{X: rapid.IntRange(0, 14).Draw(rt, "sx"), Y: rapid.IntRange(0, 14).Draw(rt, "sy")}
		goal := geom.Cell{X: rapid.IntRange(0, 14).Draw(rt, "gx"), Y: rapid.IntRange(0, 14).Draw(rt, "gy")}
		p := path.FindPath(g, start, goal)
		if len(p) != geom.Chebyshev(start, goal) {
			rt.Fatalf("path %v -> %v has %d steps, want %d", start, goal, len(p), geom.Chebyshev(start, goal))
		}
	})
}

func TestProperty_RandomWallsNeverCutCorners(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		const size = 10
		g := newGrid(size, size)
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				if rapid.IntRange(0, 99).Draw(rt, "wall") < 30 {
					g.walls[geom.Cell{X: x, Y: y}] = true
				}
			}
		}
		start := geom.Cell{X: rapid.IntRange(0, size-1).Draw(rt, "sx"), Y: rapid.IntRange(0, size-1).Draw(rt, "sy")}
		goal := geom.Cell{X: rapid.IntRange(0, size-1).Draw(rt, "gx"), Y: rapid.IntRange(0, size-1).Draw(rt, "gy")}
		delete(g.walls, start)

		p := path.FindPath(g, start, goal)
		want := dijkstra(g, start, goal)
		if want < 0 || start == goal || !g.Passable(goal.X, goal.Y) {
			if len(p) != 0 {
				rt.Fatalf("expected empty path, got %v", p)
			}
			return
		}
		if len(p) == 0 {
			rt.Fatalf("no path found but reference cost is %d", want)
		}
		if p[len(p)-1] != goal {
			rt.Fatalf("path does not end at goal: %v", p)
		}
		prev := start
		for _, c := range p {
			if !g.Passable(c.X, c.Y) {
				rt.Fatalf("waypoint %v is impassable", c)
			}
			dx, dy := c.X-prev.X, c.Y-prev.Y
			if dx < -1 || dx > 1 || dy < -1 || dy > 1 || (dx == 0 && dy == 0) {
				rt.Fatalf("non-adjacent step %v -> %v", prev, c)
			}
			if dx != 0 && dy != 0 {
				if !g.Passable(prev.X+dx, prev.Y) || !g.Passable(prev.X, prev.Y+dy) {
					rt.Fatalf("diagonal %v -> %v cuts a corner", prev, c)
				}
			}
			prev = c
		}
		if got := path.Cost(start, p); got != want {
			rt.Fatalf("path cost %d, optimal %d", got, want)
		}
	})
}

// dijkstra returns the optimal cost from start to goal under the same move
// rules, or -1 when unreachable.
func dijkstra(g *testGrid, start, goal geom.Cell) int {
	const inf = 1 << 30
	dist := make(map[geom.Cell]int)
	done := make(map[geom.Cell]bool)
	dist[start] = 0
	for {
		best, bestD := geom.Cell{}, inf
		for c, d := range dist {
			if !done[c] && d < bestD {
				best, bestD = c, d
			}
		}
		if bestD == inf {
			return -1
		}
		if best == goal {
			return bestD
		}
		done[best] = true
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				if dx == 0 && dy == 0 {
					continue
				}
				n := best.Add(dx, dy)
				if !g.Passable(n.X, n.Y) {
					continue
				}
				cost := path.CardinalCost
				if dx != 0 && dy != 0 {
					if !g.Passable(best.X+dx, best.Y) || !g.Passable(best.X, best.Y+dy) {
						continue
					}
					cost = path.DiagonalCost
				}
				if d, ok := dist[n]; !ok || bestD+cost < d {
					dist[n] = bestD + cost
				}
			}
		}
	}
}
