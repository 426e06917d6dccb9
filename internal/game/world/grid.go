// Package world provides the tile grid colonists live on: terrain,
// passability, ground items and stockpile tiles.
package world

import (
	"fmt"

	"github.com/cory-johannsen/colony/internal/game/ecs"
	"github.com/cory-johannsen/colony/internal/game/geom"
	"github.com/cory-johannsen/colony/internal/game/item"
)

// Terrain is the ground type of a tile.
type Terrain int

const (
	Water Terrain = iota
	Sand
	Grass
	Dirt
	Stone
)

var terrainNames = [...]string{"WATER", "SAND", "GRASS", "DIRT", "STONE"}

// String returns the upper-case terrain name.
func (t Terrain) String() string {
	if t < 0 || int(t) >= len(terrainNames) {
		return fmt.Sprintf("Terrain(%d)", int(t))
	}
	return terrainNames[t]
}

// Passable reports whether colonists can walk on t.
func (t Terrain) Passable() bool {
	return t != Water && t != Stone
}

// boundsMargin keeps clamped positions strictly inside the grid.
const boundsMargin = 0.1

// Tile is one grid cell.
type Tile struct {
	Terrain Terrain
	// Building is the building standing on this tile, or ecs.NoEntity.
	Building  ecs.EntityID
	Stockpile bool
	items     []item.Item
}

// Items returns a copy of the ground items on t.
func (t *Tile) Items() []item.Item {
	return append([]item.Item(nil), t.items...)
}

// Count returns the number of ground items of kind k.
func (t *Tile) Count(k item.Kind) int {
	n := 0
	for _, it := range t.items {
		if it.Kind == k {
			n++
		}
	}
	return n
}

// Add places it on the ground.
func (t *Tile) Add(it item.Item) {
	t.items = append(t.items, it)
}

// TakeFirst removes and returns the first ground item of kind k.
func (t *Tile) TakeFirst(k item.Kind) (item.Item, bool) {
	for i, it := range t.items {
		if it.Kind == k {
			t.items = append(t.items[:i], t.items[i+1:]...)
			return it, true
		}
	}
	return item.Item{}, false
}

// Grid is a rectangular tile map.
//
// Invariant: len(tiles) == width*height.
type Grid struct {
	width, height int
	tiles         []Tile
	stockpiles    []geom.Cell
}

// NewGrid returns a width×height grid filled with fill.
//
// Precondition: width > 0 and height > 0.
func NewGrid(width, height int, fill Terrain) *Grid {
	if width <= 0 || height <= 0 {
		panic("world.NewGrid: dimensions must be > 0")
	}
	g := &Grid{width: width, height: height, tiles: make([]Tile, width*height)}
	for i := range g.tiles {
		g.tiles[i].Terrain = fill
	}
	return g
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// InBounds reports whether (x, y) lies on the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

// Tile returns the tile at (x, y), or nil when out of bounds.
func (g *Grid) Tile(x, y int) *Tile {
	if !g.InBounds(x, y) {
		return nil
	}
	return &g.tiles[y*g.width+x]
}

// Passable reports whether (x, y) is on the grid and walkable.
func (g *Grid) Passable(x, y int) bool {
	t := g.Tile(x, y)
	return t != nil && t.Terrain.Passable()
}

// SetTerrain changes the terrain at c.
func (g *Grid) SetTerrain(c geom.Cell, t Terrain) {
	if tile := g.Tile(c.X, c.Y); tile != nil {
		tile.Terrain = t
	}
}

// Clamp returns pos moved inside [0.1, size-0.1] on both axes.
func (g *Grid) Clamp(pos geom.Vec) geom.Vec {
	return geom.Vec{
		X: clamp(pos.X, boundsMargin, float64(g.width)-boundsMargin),
		Y: clamp(pos.Y, boundsMargin, float64(g.height)-boundsMargin),
	}
}

// AddStockpile marks c as a stockpile tile.
//
// Postcondition: Returns false when c is out of bounds.
func (g *Grid) AddStockpile(c geom.Cell) bool {
	t := g.Tile(c.X, c.Y)
	if t == nil {
		return false
	}
	if !t.Stockpile {
		t.Stockpile = true
		g.stockpiles = append(g.stockpiles, c)
	}
	return true
}

// Stockpile returns the passable stockpile tile nearest to from.
func (g *Grid) Stockpile(from geom.Vec) (geom.Cell, bool) {
	best, bestD, found := geom.Cell{}, 0.0, false
	for _, c := range g.stockpiles {
		if !g.Passable(c.X, c.Y) {
			continue
		}
		if d := from.DistSq(c.Center()); !found || d < bestD {
			best, bestD, found = c, d, true
		}
	}
	return best, found
}

// StockpileCount returns the number of items of kind k across stockpile tiles.
func (g *Grid) StockpileCount(k item.Kind) int {
	n := 0
	for _, c := range g.stockpiles {
		n += g.Tile(c.X, c.Y).Count(k)
	}
	return n
}

// NearestItemTile returns the passable tile holding a ground item of kind k
// whose centre is nearest to from. Ties keep row-major scan order.
func (g *Grid) NearestItemTile(from geom.Vec, k item.Kind) (geom.Cell, bool) {
	best, bestD, found := geom.Cell{}, 0.0, false
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			t := &g.tiles[y*g.width+x]
			if !t.Terrain.Passable() || t.Count(k) == 0 {
				continue
			}
			c := geom.Cell{X: x, Y: y}
			if d := from.DistSq(c.Center()); !found || d < bestD {
				best, bestD, found = c, d, true
			}
		}
	}
	return best, found
}

// DropItem places it on the ground at c.
//
// Postcondition: Returns false when c is out of bounds.
func (g *Grid) DropItem(c geom.Cell, it item.Item) bool {
	t := g.Tile(c.X, c.Y)
	if t == nil {
		return false
	}
	t.Add(it)
	return true
}

// TakeItem removes the first ground item of kind k at c.
func (g *Grid) TakeItem(c geom.Cell, k item.Kind) (item.Item, bool) {
	t := g.Tile(c.X, c.Y)
	if t == nil {
		return item.Item{}, false
	}
	return t.TakeFirst(k)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
