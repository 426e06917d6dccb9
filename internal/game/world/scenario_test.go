package world_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/colony/internal/game/ecs"
	"github.com/cory-johannsen/colony/internal/game/geom"
	"github.com/cory-johannsen/colony/internal/game/item"
	"github.com/cory-johannsen/colony/internal/game/work"
	"github.com/cory-johannsen/colony/internal/game/world"
)

const validScenario = `
scenario:
  name: test
  map:
    - ",,,,#"
    - ",:,,#"
    - "~~,,,"
  stockpile:
    - {x: 0, y: 0}
  buildings:
    - {type: MINER, x: 3, y: 1, capacity: 4, output: 2}
    - {type: food_grower, x: 2, y: 2, built: false}
  agents:
    - name: Ada
      x: 1.5
      y: 1.5
      roles: {HAULER: 2, miner: 1}
    - name: Bo
      x: 3.5
      y: 0.5
      player: true
  beds:
    - {x: 1, y: 0, owner: Ada}
  items:
    - {kind: FOOD, x: 4, y: 2, count: 3}
`

func TestLoadScenarioFromBytes_Valid(t *testing.T) {
	sc, err := world.LoadScenarioFromBytes([]byte(validScenario))
	require.NoError(t, err)
	w, h := sc.Size()
	assert.Equal(t, 5, w)
	assert.Equal(t, 3, h)

	store := ecs.NewStore()
	g, err := sc.Populate(store)
	require.NoError(t, err)

	assert.False(t, g.Passable(4, 0))
	assert.False(t, g.Passable(0, 2))
	assert.Equal(t, world.Dirt, g.Tile(1, 1).Terrain)
	assert.True(t, g.Tile(0, 0).Stockpile)
	assert.Equal(t, 3, g.Tile(4, 2).Count(item.Food))

	buildings := store.Query(ecs.HasBuilding)
	require.Len(t, buildings, 2)
	assert.Equal(t, 2, buildings[0].Building.Len())
	assert.True(t, buildings[0].Building.HasOutput())
	assert.False(t, buildings[1].Building.Built)
	assert.Equal(t, buildings[0].ID, g.Tile(3, 1).Building)

	agents := store.Query(ecs.HasIdentity)
	require.Len(t, agents, 2)
	ada := agents[0]
	assert.Equal(t, "Ada", ada.Identity.Name)
	assert.Equal(t, 2, ada.Work.Get(work.Hauler))
	assert.Equal(t, []work.Role{work.Hauler, work.Miner}, ada.Work.ActiveRoles())
	assert.True(t, agents[1].Has(ecs.PlayerDriven))

	bed, ok := store.BedOf(ada.ID)
	require.True(t, ok)
	assert.Equal(t, geom.Cell{X: 1, Y: 0}, bed.Cell())
}

func TestLoadScenarioFromBytes_Invalid(t *testing.T) {
	cases := map[string]string{
		"empty map":      "scenario:\n  name: x\n",
		"ragged":         "scenario:\n  map: [',,', ',']\n",
		"glyph":          "scenario:\n  map: [',X']\n",
		"building type":  "scenario:\n  map: [',,']\n  buildings: [{type: CASTLE, x: 0, y: 0}]\n",
		"agent bounds":   "scenario:\n  map: [',,']\n  agents: [{name: a, x: 9, y: 0}]\n",
		"duplicate name": "scenario:\n  map: [',,']\n  agents: [{name: a, x: 0, y: 0}, {name: a, x: 1, y: 0}]\n",
		"role priority":  "scenario:\n  map: [',,']\n  agents: [{name: a, x: 0, y: 0, roles: {MINER: 9}}]\n",
		"unknown role":   "scenario:\n  map: [',,']\n  agents: [{name: a, x: 0, y: 0, roles: {PILOT: 1}}]\n",
		"bed owner":      "scenario:\n  map: [',,']\n  beds: [{x: 0, y: 0, owner: nobody}]\n",
		"item kind":      "scenario:\n  map: [',,']\n  items: [{kind: GOLD, x: 0, y: 0}]\n",
		"output":         "scenario:\n  map: [',,']\n  buildings: [{type: MINER, x: 0, y: 0, capacity: 2, output: 3}]\n",
		"default output": "scenario:\n  map: [',,']\n  buildings: [{type: MINER, x: 0, y: 0, output: 11}]\n",
		"bad yaml":       "scenario: [",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := world.LoadScenarioFromBytes([]byte(src))
			assert.Error(t, err)
		})
	}
}

func TestScenario_Validate_OutputCapacity(t *testing.T) {
	sc := &world.Scenario{
		Map:       []string{",,"},
		Buildings: []world.BuildingSpec{{Type: "MINER", Capacity: 2, Output: 3}},
	}
	assert.EqualError(t, sc.Validate(), "world.Scenario.Validate: buildings[0]: output 3 exceeds capacity 2")

	sc.Buildings[0] = world.BuildingSpec{Type: "MINER", Output: ecs.DefaultOutputCapacity}
	assert.NoError(t, sc.Validate())

	sc.Map = nil
	assert.EqualError(t, sc.Validate(), "world.Scenario.Validate: map must not be empty")
}

func TestLoadScenarioFromFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "colony.yaml")
	require.NoError(t, os.WriteFile(p, []byte(validScenario), 0644))
	sc, err := world.LoadScenarioFromFile(p)
	require.NoError(t, err)
	assert.Equal(t, "test", sc.Name)

	_, err = world.LoadScenarioFromFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestShippedScenarios(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "..", "content", "scenarios", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)
	for _, p := range paths {
		t.Run(filepath.Base(p), func(t *testing.T) {
			sc, err := world.LoadScenarioFromFile(p)
			require.NoError(t, err)
			store := ecs.NewStore()
			g, err := sc.Populate(store)
			require.NoError(t, err)
			store.Each(ecs.HasIdentity|ecs.HasPosition, func(a *ecs.Entity) {
				c := a.Cell()
				assert.True(t, g.Passable(c.X, c.Y), "%s starts on impassable tile", a.Identity.Name)
			})
		})
	}
}
