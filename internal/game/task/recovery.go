package task

import "github.com/cory-johannsen/colony/internal/game/geom"

// FindNearestPassable searches rings of increasing Chebyshev radius around
// from and returns the passable tile closest to from in the first ring that
// contains one. from itself is returned when it is passable.
//
// Precondition: grid must be non-nil; radius >= 0.
// Postcondition: Returns (cell, true) on success or (NoTarget, false) when no
// passable tile lies within radius.
func FindNearestPassable(grid Grid, from geom.Cell, radius int) (geom.Cell, bool) {
	if grid.Passable(from.X, from.Y) {
		return from, true
	}
	for r := 1; r <= radius; r++ {
		best, bestD, found := NoTarget, 0, false
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if max(abs(dx), abs(dy)) != r {
					continue
				}
				c := from.Add(dx, dy)
				if !grid.Passable(c.X, c.Y) {
					continue
				}
				if d := dx*dx + dy*dy; !found || d < bestD {
					best, bestD, found = c, d, true
				}
			}
		}
		if found {
			return best, true
		}
	}
	return NoTarget, false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
