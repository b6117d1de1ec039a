package domain

import "fmt"

// Runtime is one heap snapshot: an ordered sequence of Nodes, Edges, and
// Stacks, plus an id→Node index built once at construction.
//
// # Thread Safety
//
// A Runtime is read-only after NewRuntime returns. Multiple goroutines may
// call GetNodeByID and the other accessors concurrently; nothing in this
// type is mutated post-construction.
type Runtime struct {
	nodes  []Node
	edges  []Edge
	stacks []Stack

	nodesByID  map[string]*Node
	stacksByID map[string]*Stack
}

// NewRuntime constructs a Runtime from its three entity lists, building the
// id→Node and id→Stack indexes eagerly so GetNodeByID and GetStackByID are
// O(1) for the Runtime's entire lifetime. Returns ErrInvalidRuntime if
// nodes is empty; edges and stacks may be empty.
func NewRuntime(nodes []Node, edges []Edge, stacks []Stack) (*Runtime, error) {
	if len(nodes) == 0 {
		return nil, ErrInvalidRuntime
	}

	rt := &Runtime{
		nodes:      nodes,
		edges:      edges,
		stacks:     stacks,
		nodesByID:  make(map[string]*Node, len(nodes)),
		stacksByID: make(map[string]*Stack, len(stacks)),
	}
	for i := range rt.nodes {
		rt.nodesByID[rt.nodes[i].ID] = &rt.nodes[i]
	}
	for i := range rt.stacks {
		rt.stacksByID[rt.stacks[i].ID] = &rt.stacks[i]
	}
	return rt, nil
}

// Nodes returns the Runtime's nodes in capture order. Callers MUST NOT
// mutate the returned slice's elements.
func (r *Runtime) Nodes() []Node { return r.nodes }

// Edges returns the Runtime's edges in capture order.
func (r *Runtime) Edges() []Edge { return r.edges }

// Stacks returns the Runtime's stack frames in capture order.
func (r *Runtime) Stacks() []Stack { return r.stacks }

// GetNodeByID returns the Node with the given id, or nil if no such node
// exists. O(1).
func (r *Runtime) GetNodeByID(id string) *Node {
	return r.nodesByID[id]
}

// GetStackByID returns the Stack frame with the given id, or nil if no
// such frame exists. O(1).
func (r *Runtime) GetStackByID(id string) *Stack {
	return r.stacksByID[id]
}

// MustGetNodeByID is a convenience for call sites that have already
// established the id must exist (e.g. iterating a subgraph's own node
// list); it panics rather than returning a confusing nil, mirroring the
// teacher's preference for an explicit fatal distinct from a referential
// integrity skip.
func (r *Runtime) MustGetNodeByID(id string) *Node {
	n := r.nodesByID[id]
	if n == nil {
		panic(fmt.Sprintf("domain: node %q not found in runtime index", id))
	}
	return n
}
