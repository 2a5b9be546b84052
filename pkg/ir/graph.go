package ir

import (
	"errors"
	"fmt"
	"maps"
)

var (
	// ErrSlotOrder is returned by [NewEdges] when a direct slot follows a list slot.
	ErrSlotOrder = errors.New("direct slots must precede list slots")

	// ErrNoSuchSlot is returned when an edge slot index is out of range.
	ErrNoSuchSlot = errors.New("no such edge slot")

	// ErrNotDirect is returned when a single-node operation targets a list slot.
	ErrNotDirect = errors.New("slot is not direct")

	// ErrNotList is returned when a list operation targets a direct slot.
	ErrNotList = errors.New("slot is not a list")

	// ErrNotInputEdges is returned by [Edges.InputType] for successor layouts.
	ErrNotInputEdges = errors.New("input type requested from successor edges")

	// ErrHasPredecessor is returned when a node would get a second predecessor.
	ErrHasPredecessor = errors.New("node already has a predecessor")

	// ErrStaleSchedule is returned by [Graph.SetLastSchedule] when the
	// schedule was computed for a different graph.
	ErrStaleSchedule = errors.New("schedule belongs to another graph")

	// ErrOverlappingBlocks is returned by [Graph.SetLastSchedule] when the
	// schedule lists a node in more than one block.
	ErrOverlappingBlocks = errors.New("node scheduled in more than one block")
)

// Graph is a mutable IR graph. Node ids are assigned densely in creation
// order and never reused.
//
// Graph is not safe for concurrent use; readers such as the dump printer
// assume no other goroutine mutates it while they run.
type Graph struct {
	name         string
	method       *Method
	nodes        []*Node
	lastSchedule *Schedule
	meta         Metadata
}

// NewGraph creates an empty graph. method may be nil for graphs that do not
// belong to a compilation unit.
func NewGraph(name string, method *Method) *Graph {
	return &Graph{name: name, method: method, meta: Metadata{}}
}

// Name returns the graph name.
func (g *Graph) Name() string { return g.name }

// Method returns the method being compiled, or nil.
func (g *Graph) Method() *Method { return g.method }

// Meta returns graph-level debug properties. The map is never nil.
func (g *Graph) Meta() Metadata { return g.meta }

// Add creates a node of the given class.
func (g *Graph) Add(class *NodeClass) *Node {
	n := newNode(g, len(g.nodes), class)
	g.nodes = append(g.nodes, n)
	return n
}

// AddConstant creates a floating constant node.
func (g *Graph) AddConstant(c Constant) *Node {
	n := g.Add(ConstantClass)
	n.constant = &c
	return n
}

// Nodes returns all nodes in id order.
func (g *Graph) Nodes() []*Node { return g.nodes }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// Node returns the node with the given id.
func (g *Graph) Node(id int) (*Node, bool) {
	if id < 0 || id >= len(g.nodes) {
		return nil, false
	}
	return g.nodes[id], true
}

// Start returns the entry node, or nil if the graph has none.
func (g *Graph) Start() *Node {
	for _, n := range g.nodes {
		if n.Is(KindStart) {
			return n
		}
	}
	return nil
}

// LastSchedule returns the most recently attached schedule, or nil.
func (g *Graph) LastSchedule() *Schedule { return g.lastSchedule }

// SetLastSchedule attaches s as the graph's cached schedule. A nil s clears it.
func (g *Graph) SetLastSchedule(s *Schedule) error {
	if s != nil && s.graph != g {
		return ErrStaleSchedule
	}
	if s != nil && s.overlap != nil {
		return fmt.Errorf("%w: %v", ErrOverlappingBlocks, s.overlap)
	}
	g.lastSchedule = s
	return nil
}

// Copy returns a deep copy of the graph structure. Node ids, properties and
// constants are preserved; the cached schedule is not copied.
func (g *Graph) Copy() *Graph {
	c := &Graph{name: g.name, method: g.method, meta: maps.Clone(g.meta)}
	c.nodes = make([]*Node, len(g.nodes))
	for i, n := range g.nodes {
		cn := newNode(c, n.id, n.class)
		cn.props = maps.Clone(n.props)
		cn.constant = n.constant
		c.nodes[i] = cn
	}
	remap := func(ns []*Node) []*Node {
		if ns == nil {
			return nil
		}
		out := make([]*Node, len(ns))
		for i, x := range ns {
			if x != nil {
				out[i] = c.nodes[x.id]
			}
		}
		return out
	}
	for i, n := range g.nodes {
		cn := c.nodes[i]
		for s := range n.inputs {
			cn.inputs[s] = remap(n.inputs[s])
		}
		for s := range n.successors {
			cn.successors[s] = remap(n.successors[s])
		}
		cn.usages = remap(n.usages)
		if n.predecessor != nil {
			cn.predecessor = c.nodes[n.predecessor.id]
		}
	}
	return c
}

// CachedGraph holds a graph snapshot kept for later reuse, for example the
// body of an inlined callee.
type CachedGraph struct {
	graph *Graph
}

// NewCachedGraph caches a copy of g.
func NewCachedGraph(g *Graph) *CachedGraph {
	return &CachedGraph{graph: g.Copy()}
}

// ReadonlyCopy returns a fresh copy of the cached graph that callers may
// inspect without affecting the cache.
func (c *CachedGraph) ReadonlyCopy() *Graph { return c.graph.Copy() }
