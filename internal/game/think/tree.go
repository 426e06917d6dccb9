// Package think selects and runs one behavior per colonist per tick.
//
// A Tree is a fixed, ordered table of nodes. Each tick every node reports a
// priority for the agent; the strictly greatest positive priority wins and
// ties go to the node declared first. The winner executes one step.
package think

// Node is one behavior in the table.
type Node struct {
	Name string
	// Priority returns how urgently the node wants to run. A value <= 0
	// means the node cannot run.
	Priority func(c *Context) float64
	// Execute performs one step and reports whether the agent acted.
	Execute func(c *Context, dt float64) bool
}

// Tree is an ordered set of nodes.
type Tree struct {
	nodes []Node
}

// NewTree returns a Tree evaluating nodes in the given order.
//
// Precondition: every node has non-nil Priority and Execute.
func NewTree(nodes ...Node) *Tree {
	for _, n := range nodes {
		if n.Priority == nil || n.Execute == nil {
			panic("think.NewTree: node " + n.Name + " is incomplete")
		}
	}
	return &Tree{nodes: append([]Node(nil), nodes...)}
}

// ColonistTree returns the standard colonist behavior table.
func ColonistTree() *Tree {
	return NewTree(
		EatFoodNode(),
		RestNode(),
		AssignedJobNode(),
		HaulNode(),
		SocializeNode(),
		WanderNode(),
	)
}

// Names returns the node names in declaration order.
func (t *Tree) Names() []string {
	out := make([]string, len(t.nodes))
	for i, n := range t.nodes {
		out[i] = n.Name
	}
	return out
}

// Select returns the winning node and its priority.
//
// Postcondition: Returns ok == false when no node reports a positive priority.
func (t *Tree) Select(c *Context) (node Node, priority float64, ok bool) {
	best := -1
	var bestPriority float64
	for i, n := range t.nodes {
		if p := n.Priority(c); p > bestPriority {
			best, bestPriority = i, p
		}
	}
	if best < 0 {
		return Node{}, 0, false
	}
	return t.nodes[best], bestPriority, true
}

// Tick selects a node and executes it. It returns the name of the executed
// node, or "" when the agent is idle, and whether the agent acted.
func (t *Tree) Tick(c *Context, dt float64) (string, bool) {
	n, _, ok := t.Select(c)
	if !ok {
		return "", false
	}
	return n.Name, n.Execute(c, dt)
}
