// Package work provides the per-colonist job role priority table.
package work

import (
	"fmt"
	"sort"
	"strings"
)

// Role is a job a colonist can be assigned to.
type Role int

// Roles in declaration order. Declaration order breaks priority ties.
const (
	Idle Role = iota
	Farmer
	Miner
	Hauler
	Builder
	Researcher
	Medic
	Soldier
	roleCount
)

// MaxPriority is the highest assignable priority. Zero disables a role.
const MaxPriority = 4

var roleNames = [roleCount]string{"IDLE", "FARMER", "MINER", "HAULER", "BUILDER", "RESEARCHER", "MEDIC", "SOLDIER"}

// String returns the upper-case role name.
func (r Role) String() string {
	if r < 0 || r >= roleCount {
		return fmt.Sprintf("Role(%d)", int(r))
	}
	return roleNames[r]
}

// Roles returns every role in declaration order.
func Roles() []Role {
	out := make([]Role, roleCount)
	for i := range out {
		out[i] = Role(i)
	}
	return out
}

// ParseRole converts a case-insensitive role name to a Role.
func ParseRole(s string) (Role, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for i, n := range roleNames {
		if n == name {
			return Role(i), nil
		}
	}
	return Idle, fmt.Errorf("work.ParseRole: unknown role %q", s)
}

// Settings maps each role to a priority in [0, MaxPriority].
//
// Invariant: every stored priority is within [0, MaxPriority].
type Settings struct {
	priorities [roleCount]int
}

// Set assigns priority p to role r.
//
// Precondition: r is a declared role; 0 <= p <= MaxPriority.
// Postcondition: Returns an error and leaves the table unchanged on violation.
func (s *Settings) Set(r Role, p int) error {
	if r < 0 || r >= roleCount {
		return fmt.Errorf("work.Settings.Set: unknown role %d", int(r))
	}
	if p < 0 || p > MaxPriority {
		return fmt.Errorf("work.Settings.Set: priority for %s must be 0-%d, got %d", r, MaxPriority, p)
	}
	s.priorities[r] = p
	return nil
}

// Get returns the priority of r, or 0 for an undeclared role.
func (s *Settings) Get(r Role) int {
	if r < 0 || r >= roleCount {
		return 0
	}
	return s.priorities[r]
}

// IsEnabled reports whether r has a positive priority.
func (s *Settings) IsEnabled(r Role) bool {
	return s.Get(r) > 0
}

// ActiveRoles returns the enabled roles, highest priority first. Roles with
// equal priority keep declaration order.
func (s *Settings) ActiveRoles() []Role {
	var out []Role
	for _, r := range Roles() {
		if s.priorities[r] > 0 {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return s.priorities[out[i]] > s.priorities[out[j]]
	})
	return out
}

// Entry is one row of the priority table.
type Entry struct {
	Role     Role
	Priority int
}

// Table returns every role with its priority in declaration order.
func (s *Settings) Table() []Entry {
	out := make([]Entry, 0, roleCount)
	for _, r := range Roles() {
		out = append(out, Entry{Role: r, Priority: s.priorities[r]})
	}
	return out
}
