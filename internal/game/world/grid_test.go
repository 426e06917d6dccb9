package world_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/colony/internal/game/geom"
	"github.com/cory-johannsen/colony/internal/game/item"
	"github.com/cory-johannsen/colony/internal/game/world"
)

func TestTerrain_Passable(t *testing.T) {
	assert.False(t, world.Water.Passable())
	assert.False(t, world.Stone.Passable())
	assert.True(t, world.Grass.Passable())
	assert.True(t, world.Sand.Passable())
	assert.True(t, world.Dirt.Passable())
}

func TestGrid_PassableOutOfBounds(t *testing.T) {
	g := world.NewGrid(3, 3, world.Grass)
	assert.True(t, g.Passable(0, 0))
	assert.False(t, g.Passable(-1, 0))
	assert.False(t, g.Passable(3, 1))
	assert.Nil(t, g.Tile(5, 5))
	g.SetTerrain(geom.Cell{X: 1, Y: 1}, world.Stone)
	assert.False(t, g.Passable(1, 1))
}

func TestProperty_ClampStaysInBounds(t *testing.T) {
	g := world.NewGrid(8, 5, world.Grass)
	rapid.Check(t, func(rt *rapid.T) {
		p := g.Clamp(geom.Vec{X: rapid.Float64Range(-50, 50).Draw(rt, "x"), Y: rapid.Float64Range(-50, 50).Draw(rt, "y")})
		if p.X < 0.1 || p.X > 7.9 || p.Y < 0.1 || p.Y > 4.9 {
			rt.Fatalf("clamped position %v out of bounds", p)
		}
	})
}

func TestGrid_NearestItemTile(t *testing.T) {
	g := world.NewGrid(10, 10, world.Grass)
	g.DropItem(geom.Cell{X: 8, Y: 8}, item.New(item.Food))
	g.DropItem(geom.Cell{X: 2, Y: 1}, item.New(item.Food))
	g.DropItem(geom.Cell{X: 1, Y: 1}, item.New(item.Stone))

	c, ok := g.NearestItemTile(geom.Vec{X: 0.5, Y: 0.5}, item.Food)
	require.True(t, ok)
	assert.Equal(t, geom.Cell{X: 2, Y: 1}, c)

	_, ok = g.NearestItemTile(geom.Vec{}, item.Wood)
	assert.False(t, ok)
}

func TestGrid_NearestItemTile_SkipsImpassable(t *testing.T) {
	g := world.NewGrid(5, 5, world.Grass)
	g.DropItem(geom.Cell{X: 1, Y: 0}, item.New(item.Food))
	g.SetTerrain(geom.Cell{X: 1, Y: 0}, world.Water)
	_, ok := g.NearestItemTile(geom.Vec{}, item.Food)
	assert.False(t, ok)
}

func TestGrid_TakeItem(t *testing.T) {
	g := world.NewGrid(3, 3, world.Grass)
	c := geom.Cell{X: 1, Y: 2}
	stone := item.New(item.Stone)
	food := item.New(item.Food)
	g.DropItem(c, stone)
	g.DropItem(c, food)

	got, ok := g.TakeItem(c, item.Food)
	require.True(t, ok)
	assert.Equal(t, food, got)
	_, ok = g.TakeItem(c, item.Food)
	assert.False(t, ok)
	assert.Equal(t, []item.Item{stone}, g.Tile(1, 2).Items())
	assert.False(t, g.DropItem(geom.Cell{X: 7, Y: 7}, food))
}

func TestGrid_Stockpile(t *testing.T) {
	g := world.NewGrid(10, 10, world.Grass)
	_, ok := g.Stockpile(geom.Vec{})
	assert.False(t, ok)

	require.True(t, g.AddStockpile(geom.Cell{X: 9, Y: 9}))
	require.True(t, g.AddStockpile(geom.Cell{X: 2, Y: 2}))
	assert.False(t, g.AddStockpile(geom.Cell{X: 20, Y: 2}))

	c, ok := g.Stockpile(geom.Vec{X: 1, Y: 1})
	require.True(t, ok)
	assert.Equal(t, geom.Cell{X: 2, Y: 2}, c)

	g.DropItem(geom.Cell{X: 2, Y: 2}, item.New(item.Stone))
	g.DropItem(geom.Cell{X: 9, Y: 9}, item.New(item.Stone))
	g.DropItem(geom.Cell{X: 5, Y: 5}, item.New(item.Stone))
	assert.Equal(t, 2, g.StockpileCount(item.Stone))
}
