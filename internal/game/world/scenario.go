package world

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/colony/internal/game/ecs"
	"github.com/cory-johannsen/colony/internal/game/geom"
	"github.com/cory-johannsen/colony/internal/game/item"
	"github.com/cory-johannsen/colony/internal/game/work"
)

// glyphs maps map characters to terrain.
var glyphs = map[rune]Terrain{
	'~': Water,
	'.': Sand,
	',': Grass,
	':': Dirt,
	'#': Stone,
}

// yamlScenarioFile is the top-level YAML structure for scenario files.
type yamlScenarioFile struct {
	Scenario Scenario `yaml:"scenario"`
}

// Scenario is a starting colony layout.
type Scenario struct {
	Name      string         `yaml:"name"`
	Map       []string       `yaml:"map"`
	Stockpile []CellSpec     `yaml:"stockpile"`
	Buildings []BuildingSpec `yaml:"buildings"`
	Beds      []BedSpec      `yaml:"beds"`
	Agents    []AgentSpec    `yaml:"agents"`
	Items     []ItemSpec     `yaml:"items"`
}

// CellSpec is a tile coordinate.
type CellSpec struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// BuildingSpec places a building. Output preloads that many units of the
// building's product into its queue.
type BuildingSpec struct {
	Type     string `yaml:"type"`
	X        int    `yaml:"x"`
	Y        int    `yaml:"y"`
	Built    *bool  `yaml:"built"`
	Capacity int    `yaml:"capacity"`
	Output   int    `yaml:"output"`
}

// BedSpec places a bed, optionally owned by the named agent.
type BedSpec struct {
	X     int    `yaml:"x"`
	Y     int    `yaml:"y"`
	Owner string `yaml:"owner"`
}

// AgentSpec places a colonist. X and Y are tile-space positions.
type AgentSpec struct {
	Name       string         `yaml:"name"`
	X          float64        `yaml:"x"`
	Y          float64        `yaml:"y"`
	Roles      map[string]int `yaml:"roles"`
	Player     bool           `yaml:"player"`
	AIDisabled bool           `yaml:"ai_disabled"`
	Age        float64        `yaml:"age"`
}

// ItemSpec places Count ground items of Kind on a tile.
type ItemSpec struct {
	Kind  string `yaml:"kind"`
	X     int    `yaml:"x"`
	Y     int    `yaml:"y"`
	Count int    `yaml:"count"`
}

// LoadScenarioFromFile reads and validates a scenario YAML file.
//
// Precondition: path must point to a scenario YAML file.
// Postcondition: Returns a validated Scenario or a non-nil error.
func LoadScenarioFromFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("world.LoadScenarioFromFile: reading %q: %w", path, err)
	}
	return LoadScenarioFromBytes(data)
}

// LoadScenarioFromBytes parses and validates a scenario from YAML bytes.
//
// Postcondition: Returns a validated Scenario or a non-nil error.
func LoadScenarioFromBytes(data []byte) (*Scenario, error) {
	var file yamlScenarioFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("world.LoadScenarioFromBytes: parsing YAML: %w", err)
	}
	sc := file.Scenario
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("world.LoadScenarioFromBytes: validating %q: %w", sc.Name, err)
	}
	return &sc, nil
}

// Size returns the map dimensions.
func (s *Scenario) Size() (width, height int) {
	if len(s.Map) == 0 {
		return 0, 0
	}
	return len([]rune(s.Map[0])), len(s.Map)
}

// Validate checks that the map is rectangular and every placement is on the
// map and refers to known kinds, roles and agents.
//
// Postcondition: Returns nil if valid, or an error describing all violations.
func (s *Scenario) Validate() error {
	var errs []string
	w, h := s.Size()
	if h == 0 || w == 0 {
		return errors.New("world.Scenario.Validate: map must not be empty")
	}
	for y, row := range s.Map {
		runes := []rune(row)
		if len(runes) != w {
			errs = append(errs, fmt.Sprintf("map row %d has width %d, want %d", y, len(runes), w))
			continue
		}
		for x, r := range runes {
			if _, ok := glyphs[r]; !ok {
				errs = append(errs, fmt.Sprintf("map row %d col %d: unknown glyph %q", y, x, r))
			}
		}
	}
	inBounds := func(x, y int) bool { return x >= 0 && y >= 0 && x < w && y < h }

	for i, c := range s.Stockpile {
		if !inBounds(c.X, c.Y) {
			errs = append(errs, fmt.Sprintf("stockpile[%d] (%d,%d) out of bounds", i, c.X, c.Y))
		}
	}
	for i, b := range s.Buildings {
		if _, err := ecs.ParseBuildingType(b.Type); err != nil {
			errs = append(errs, fmt.Sprintf("buildings[%d]: %v", i, err))
		}
		if !inBounds(b.X, b.Y) {
			errs = append(errs, fmt.Sprintf("buildings[%d] (%d,%d) out of bounds", i, b.X, b.Y))
		}
		if b.Capacity < 0 || b.Output < 0 {
			errs = append(errs, fmt.Sprintf("buildings[%d]: capacity and output must be >= 0", i))
		} else {
			capacity := b.Capacity
			if capacity == 0 {
				capacity = ecs.DefaultOutputCapacity
			}
			if b.Output > capacity {
				errs = append(errs, fmt.Sprintf("buildings[%d]: output %d exceeds capacity %d", i, b.Output, capacity))
			}
		}
	}
	names := make(map[string]bool, len(s.Agents))
	for i, a := range s.Agents {
		if a.Name == "" {
			errs = append(errs, fmt.Sprintf("agents[%d]: name must not be empty", i))
		} else if names[a.Name] {
			errs = append(errs, fmt.Sprintf("agents[%d]: duplicate name %q", i, a.Name))
		}
		names[a.Name] = true
		if a.X < 0 || a.Y < 0 || a.X >= float64(w) || a.Y >= float64(h) {
			errs = append(errs, fmt.Sprintf("agents[%d] %q: position (%g,%g) out of bounds", i, a.Name, a.X, a.Y))
		}
		var ws work.Settings
		for name, p := range a.Roles {
			r, err := work.ParseRole(name)
			if err != nil {
				errs = append(errs, fmt.Sprintf("agents[%d] %q: %v", i, a.Name, err))
				continue
			}
			if err := ws.Set(r, p); err != nil {
				errs = append(errs, fmt.Sprintf("agents[%d] %q: %v", i, a.Name, err))
			}
		}
	}
	for i, b := range s.Beds {
		if !inBounds(b.X, b.Y) {
			errs = append(errs, fmt.Sprintf("beds[%d] (%d,%d) out of bounds", i, b.X, b.Y))
		}
		if b.Owner != "" && !names[b.Owner] {
			errs = append(errs, fmt.Sprintf("beds[%d]: unknown owner %q", i, b.Owner))
		}
	}
	for i, it := range s.Items {
		if _, err := item.ParseKind(it.Kind); err != nil {
			errs = append(errs, fmt.Sprintf("items[%d]: %v", i, err))
		}
		if !inBounds(it.X, it.Y) {
			errs = append(errs, fmt.Sprintf("items[%d] (%d,%d) out of bounds", i, it.X, it.Y))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("world.Scenario.Validate: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Populate builds the grid and spawns the scenario's buildings, agents and
// beds into store.
//
// Precondition: s must have passed Validate; store must be non-nil.
// Postcondition: Returns the populated Grid or a non-nil error.
func (s *Scenario) Populate(store *ecs.Store) (*Grid, error) {
	if store == nil {
		panic("world.Scenario.Populate: store must not be nil")
	}
	w, h := s.Size()
	if w == 0 {
		return nil, errors.New("world.Scenario.Populate: empty map")
	}
	g := NewGrid(w, h, Grass)
	for y, row := range s.Map {
		for x, r := range []rune(row) {
			g.SetTerrain(geom.Cell{X: x, Y: y}, glyphs[r])
		}
	}
	for _, c := range s.Stockpile {
		g.AddStockpile(geom.Cell{X: c.X, Y: c.Y})
	}
	for _, b := range s.Buildings {
		bt, err := ecs.ParseBuildingType(b.Type)
		if err != nil {
			return nil, fmt.Errorf("world.Scenario.Populate: %w", err)
		}
		built := b.Built == nil || *b.Built
		cell := geom.Cell{X: b.X, Y: b.Y}
		e := store.SpawnBuilding(bt, cell, b.Capacity, built)
		if k := bt.Produces(); k != item.None {
			for i := 0; i < b.Output; i++ {
				e.Building.Push(item.New(k))
			}
		}
		g.Tile(cell.X, cell.Y).Building = e.ID
	}

	byName := make(map[string]ecs.EntityID, len(s.Agents))
	for _, a := range s.Agents {
		e := store.SpawnColonist(a.Name, geom.Vec{X: a.X, Y: a.Y})
		e.Aging.Years = a.Age
		e.AI.Disabled = a.AIDisabled
		if a.Player {
			e.Add(ecs.PlayerDriven)
		}
		roles := make([]string, 0, len(a.Roles))
		for name := range a.Roles {
			roles = append(roles, name)
		}
		sort.Strings(roles)
		for _, name := range roles {
			r, err := work.ParseRole(name)
			if err != nil {
				return nil, fmt.Errorf("world.Scenario.Populate: agent %q: %w", a.Name, err)
			}
			if err := e.Work.Set(r, a.Roles[name]); err != nil {
				return nil, fmt.Errorf("world.Scenario.Populate: agent %q: %w", a.Name, err)
			}
		}
		byName[a.Name] = e.ID
	}
	for _, b := range s.Beds {
		store.SpawnBed(geom.Cell{X: b.X, Y: b.Y}, byName[b.Owner])
	}
	for _, it := range s.Items {
		k, err := item.ParseKind(it.Kind)
		if err != nil {
			return nil, fmt.Errorf("world.Scenario.Populate: %w", err)
		}
		count := it.Count
		if count <= 0 {
			count = 1
		}
		for i := 0; i < count; i++ {
			g.DropItem(geom.Cell{X: it.X, Y: it.Y}, item.New(k))
		}
	}
	return g, nil
}
