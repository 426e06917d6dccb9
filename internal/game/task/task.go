// Package task holds a colonist's current task and moves the colonist along it.
//
// A task persists across ticks: kind, target, cached path and cursor, stuck
// timer and cooldown timer are all stored on State and resumed next tick.
package task

import (
	"fmt"
	"math"

	"github.com/cory-johannsen/colony/internal/game/geom"
	"github.com/cory-johannsen/colony/internal/game/path"
)

// Kind is what a colonist is currently doing.
type Kind int

const (
	Idle Kind = iota
	MoveToFood
	MoveToStockpile
	MoveToMiner
	MoveToFoodGrower
	MoveToBuilding
	MoveToBed
	Hauling
	Resting
	Wander
	Socializing
)

var kindNames = map[Kind]string{
	Idle:             "IDLE",
	MoveToFood:       "MOVE_TO_FOOD",
	MoveToStockpile:  "MOVE_TO_STOCKPILE",
	MoveToMiner:      "MOVE_TO_MINER",
	MoveToFoodGrower: "MOVE_TO_FOOD_GROWER",
	MoveToBuilding:   "MOVE_TO_BUILDING",
	MoveToBed:        "MOVE_TO_BED",
	Hauling:          "HAULING",
	Resting:          "RESTING",
	Wander:           "WANDER",
	Socializing:      "SOCIALIZING",
}

// String returns the upper-case name of k.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// NoTarget is the target reported by an idle task.
var NoTarget = geom.Cell{X: -1, Y: -1}

// ArriveEpsilonSq is the squared distance to a tile centre that counts as arrived.
const ArriveEpsilonSq = 0.02

// progressRatio is the fraction of the requested step below which a tick
// counts as no progress.
const progressRatio = 0.25

// Grid is the passability surface used for movement and path planning.
type Grid interface {
	path.Passable
}

// State is a colonist's task.
//
// Invariant: Target() == NoTarget if and only if Kind() == Idle.
// The zero value is an idle task.
type State struct {
	kind    Kind
	target  geom.Cell
	path    []geom.Cell
	cursor  int
	planned bool

	stuck    float64
	timer    float64
	cooldown float64
}

// Kind returns the current task kind.
func (s *State) Kind() Kind { return s.kind }

// Target returns the target tile, or NoTarget when idle.
func (s *State) Target() geom.Cell {
	if s.kind == Idle {
		return NoTarget
	}
	return s.target
}

// Path returns a copy of the remaining waypoints.
func (s *State) Path() []geom.Cell {
	if s.cursor >= len(s.path) {
		return nil
	}
	return append([]geom.Cell(nil), s.path[s.cursor:]...)
}

// StuckTime returns the seconds accumulated without progress.
func (s *State) StuckTime() float64 { return s.stuck }

// SetTask replaces the current task and invalidates the cached path.
// Setting Idle is equivalent to ClearTask.
func (s *State) SetTask(kind Kind, target geom.Cell) {
	if kind == Idle {
		s.ClearTask()
		return
	}
	s.kind = kind
	s.target = target
	s.path = nil
	s.cursor = 0
	s.planned = false
	s.stuck = 0
}

// ClearTask resets the task to idle and discards path, stuck and timer state.
//
// Postcondition: IsAtTarget reports false for every position.
func (s *State) ClearTask() {
	*s = State{}
}

// Pursuing reports whether the task is already kind heading to target.
func (s *State) Pursuing(kind Kind, target geom.Cell) bool {
	return s.kind == kind && s.kind != Idle && s.target == target
}

// IsAtTarget reports whether pos is within ArriveEpsilonSq of the target centre.
func (s *State) IsAtTarget(pos geom.Vec) bool {
	if s.kind == Idle {
		return false
	}
	return pos.DistSq(s.target.Center()) < ArriveEpsilonSq
}

// MoveTowardTarget advances pos toward the target by at most speed*dt and
// returns the distance actually moved.
//
// With a nil grid the move is a straight line. Otherwise a path is planned on
// first use and followed waypoint by waypoint; inside the target tile, or if
// no path exists, the move falls back to a straight line. Each axis of a
// candidate position is rejected independently when it would enter an
// impassable tile.
func (s *State) MoveTowardTarget(pos *geom.Vec, dt, speed float64, grid Grid) float64 {
	if s.kind == Idle || dt <= 0 || speed <= 0 {
		return 0
	}
	step := speed * dt
	goal := s.target.Center()
	if grid == nil {
		return stepToward(pos, goal, step, nil)
	}

	if !s.planned {
		s.path = path.FindPath(grid, pos.Cell(), s.target)
		s.cursor = 0
		s.planned = true
	}

	dest := goal
	following := s.cursor < len(s.path) && pos.Cell() != s.target
	if following {
		dest = s.path[s.cursor].Center()
	}
	moved := stepToward(pos, dest, step, grid)
	if following && pos.DistSq(dest) < ArriveEpsilonSq {
		s.cursor++
	}
	return moved
}

// RecordProgress updates the stuck timer after a movement step that could
// have covered expected tiles but covered moved.
func (s *State) RecordProgress(dt, moved, expected float64) {
	if dt <= 0 {
		return
	}
	if moved < expected*progressRatio {
		s.stuck += dt
		return
	}
	s.stuck = 0
}

// Stuck reports whether the stuck timer exceeds timeout seconds.
func (s *State) Stuck(timeout float64) bool {
	return s.stuck > timeout
}

// ResetCooldown restarts the task timer with a cooldown of d seconds.
func (s *State) ResetCooldown(d float64) {
	s.timer = 0
	s.cooldown = d
}

// AdvanceTimer adds dt to the task timer and reports whether the cooldown
// has elapsed.
func (s *State) AdvanceTimer(dt float64) bool {
	s.timer += dt
	return s.timer >= s.cooldown
}

func stepToward(pos *geom.Vec, dest geom.Vec, step float64, grid Grid) float64 {
	d := pos.Dist(dest)
	if d == 0 {
		return 0
	}
	next := dest
	if d > step {
		next = geom.Vec{
			X: pos.X + (dest.X-pos.X)/d*step,
			Y: pos.Y + (dest.Y-pos.Y)/d*step,
		}
	}
	orig := *pos
	if grid == nil {
		*pos = next
		return orig.Dist(*pos)
	}
	if grid.Passable(floor(next.X), floor(pos.Y)) {
		pos.X = next.X
	}
	if grid.Passable(floor(pos.X), floor(next.Y)) {
		pos.Y = next.Y
	}
	return orig.Dist(*pos)
}

func floor(v float64) int {
	return int(math.Floor(v))
}
