// Package geom provides tile-space positions and integer tile coordinates.
package geom

import "math"

// Vec is a continuous position in tile space. The tile (x, y) covers
// [x, x+1) × [y, y+1).
type Vec struct {
	X, Y float64
}

// Cell is an integer tile coordinate.
type Cell struct {
	X, Y int
}

// Cell returns the tile containing v.
func (v Vec) Cell() Cell {
	return Cell{X: int(math.Floor(v.X)), Y: int(math.Floor(v.Y))}
}

// DistSq returns the squared Euclidean distance between v and o.
func (v Vec) DistSq(o Vec) float64 {
	dx, dy := o.X-v.X, o.Y-v.Y
	return dx*dx + dy*dy
}

// Dist returns the Euclidean distance between v and o.
func (v Vec) Dist(o Vec) float64 {
	return math.Sqrt(v.DistSq(o))
}

// Center returns the position of the middle of c.
func (c Cell) Center() Vec {
	return Vec{X: float64(c.X) + 0.5, Y: float64(c.Y) + 0.5}
}

// Add returns c offset by (dx, dy).
func (c Cell) Add(dx, dy int) Cell {
	return Cell{X: c.X + dx, Y: c.Y + dy}
}

// Chebyshev returns max(|dx|, |dy|) between a and b.
func Chebyshev(a, b Cell) int {
	dx, dy := abs(a.X-b.X), abs(a.Y-b.Y)
	if dx > dy {
		return dx
	}
	return dy
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
