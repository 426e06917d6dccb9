// Package path implements 8-connected A* search over a tile grid.
package path

import (
	"container/heap"

	"github.com/cory-johannsen/colony/internal/game/geom"
)

const (
	// CardinalCost is the cost of a horizontal or vertical step.
	CardinalCost = 10
	// DiagonalCost is the cost of a diagonal step.
	DiagonalCost = 14
	// SearchLimit caps the number of node expansions per search.
	SearchLimit = 2000
)

// Passable reports whether a tile can be entered. Out-of-bounds tiles must
// report false.
type Passable interface {
	Passable(x, y int) bool
}

// dirs is the fixed neighbour order: cardinals first, then diagonals.
var dirs = [8][2]int{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {-1, 1}, {1, -1}, {-1, -1},
}

// FindPath returns the cheapest path from start to goal.
//
// Precondition: grid must be non-nil.
// Postcondition: the result excludes start and ends at goal. It is empty when
// goal is impassable, start == goal, no path exists, or the search exhausts
// SearchLimit expansions. Diagonal steps never cut a blocked corner.
func FindPath(grid Passable, start, goal geom.Cell) []geom.Cell {
	if start == goal || !grid.Passable(goal.X, goal.Y) {
		return nil
	}

	open := &queue{}
	gScore := map[geom.Cell]int{start: 0}
	cameFrom := make(map[geom.Cell]geom.Cell)
	var seq int
	heap.Push(open, &node{cell: start, g: 0, h: heuristic(start, goal), seq: seq})

	expansions := 0
	for open.Len() > 0 {
		cur := heap.Pop(open).(*node)
		if cur.g > gScore[cur.cell] {
			// Superseded by a cheaper entry.
			continue
		}
		if cur.cell == goal {
			return reconstruct(cameFrom, start, goal)
		}
		expansions++
		if expansions > SearchLimit {
			return nil
		}

		for i, d := range dirs {
			next := cur.cell.Add(d[0], d[1])
			if !grid.Passable(next.X, next.Y) {
				continue
			}
			cost := CardinalCost
			if i >= 4 {
				if !grid.Passable(cur.cell.X+d[0], cur.cell.Y) || !grid.Passable(cur.cell.X, cur.cell.Y+d[1]) {
					continue
				}
				cost = DiagonalCost
			}
			g := cur.g + cost
			if known, ok := gScore[next]; ok && g >= known {
				continue
			}
			gScore[next] = g
			cameFrom[next] = cur.cell
			seq++
			heap.Push(open, &node{cell: next, g: g, h: heuristic(next, goal), seq: seq})
		}
	}
	return nil
}

func heuristic(a, b geom.Cell) int {
	return CardinalCost * geom.Chebyshev(a, b)
}

func reconstruct(cameFrom map[geom.Cell]geom.Cell, start, goal geom.Cell) []geom.Cell {
	var rev []geom.Cell
	for c := goal; c != start; c = cameFrom[c] {
		rev = append(rev, c)
	}
	out := make([]geom.Cell, len(rev))
	for i, c := range rev {
		out[len(rev)-1-i] = c
	}
	return out
}

type node struct {
	cell geom.Cell
	g, h int
	seq  int
}

// queue is a min-heap ordered by f = g + h, then h, then insertion order.
type queue []*node

func (q queue) Len() int { return len(q) }

func (q queue) Less(i, j int) bool {
	fi, fj := q[i].g+q[i].h, q[j].g+q[j].h
	if fi != fj {
		return fi < fj
	}
	if q[i].h != q[j].h {
		return q[i].h < q[j].h
	}
	return q[i].seq < q[j].seq
}

func (q queue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *queue) Push(x any) { *q = append(*q, x.(*node)) }

func (q *queue) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return it
}

// Cost returns the total step cost of walking p starting from start.
// It is used to compare paths under the search's cost model.
func Cost(start geom.Cell, p []geom.Cell) int {
	total := 0
	prev := start
	for _, c := range p {
		if c.X != prev.X && c.Y != prev.Y {
			total += DiagonalCost
		} else {
			total += CardinalCost
		}
		prev = c
	}
	return total
}
