package ir

import (
	"fmt"
	"maps"
)

// Metadata stores debug properties attached to nodes and graphs.
type Metadata map[string]any

// Node is a vertex of a [Graph]. Nodes are created by [Graph.Add] and keep
// their id for the lifetime of the graph.
type Node struct {
	id          int
	class       *NodeClass
	graph       *Graph
	inputs      [][]*Node
	successors  [][]*Node
	predecessor *Node
	usages      []*Node
	props       Metadata
	constant    *Constant
}

func newNode(g *Graph, id int, class *NodeClass) *Node {
	return &Node{
		id:         id,
		class:      class,
		graph:      g,
		inputs:     make([][]*Node, class.inputs.Count()),
		successors: make([][]*Node, class.successors.Count()),
		props:      Metadata{},
	}
}

// ID returns the node's identity within its graph.
func (n *Node) ID() int { return n.id }

// Class returns the node's class.
func (n *Node) Class() *NodeClass { return n.class }

// Graph returns the owning graph.
func (n *Node) Graph() *Graph { return n.graph }

// Is reports whether the node's class carries all flags in k.
func (n *Node) Is(k Kind) bool { return n.class.kind.Has(k) }

// Predecessor returns the node whose successor edge points at n, or nil.
func (n *Node) Predecessor() *Node { return n.predecessor }

// Usages returns the nodes that have n as an input, in insertion order.
func (n *Node) Usages() []*Node { return n.usages }

func (n *Node) String() string {
	return fmt.Sprintf("%d|%s", n.id, n.class.SimpleName())
}

func (n *Node) slots(dir Direction) [][]*Node {
	if dir == Successors {
		return n.successors
	}
	return n.inputs
}

// Input returns the node bound to direct input slot i.
func (n *Node) Input(i int) *Node { return n.class.inputs.Node(n, i) }

// InputList returns the nodes bound to list input slot i.
func (n *Node) InputList(i int) []*Node { return n.class.inputs.NodeList(n, i) }

// Successor returns the node bound to direct successor slot i.
func (n *Node) Successor(i int) *Node { return n.class.successors.Node(n, i) }

// SuccessorList returns the nodes bound to list successor slot i.
func (n *Node) SuccessorList(i int) []*Node { return n.class.successors.NodeList(n, i) }

// SetInput binds direct input slot i to in, replacing any previous binding.
func (n *Node) SetInput(i int, in *Node) error {
	if err := n.checkSlot(Inputs, i, false); err != nil {
		return err
	}
	if old := n.Input(i); old != nil {
		old.removeUsage(n)
	}
	n.inputs[i] = nil
	if in != nil {
		n.inputs[i] = []*Node{in}
		in.usages = append(in.usages, n)
	}
	return nil
}

// AppendInput appends nodes to list input slot i.
func (n *Node) AppendInput(i int, in ...*Node) error {
	if err := n.checkSlot(Inputs, i, true); err != nil {
		return err
	}
	for _, x := range in {
		n.inputs[i] = append(n.inputs[i], x)
		if x != nil {
			x.usages = append(x.usages, n)
		}
	}
	return nil
}

// SetSuccessor binds direct successor slot i to s and makes n the
// predecessor of s. A node has at most one predecessor.
func (n *Node) SetSuccessor(i int, s *Node) error {
	if err := n.checkSlot(Successors, i, false); err != nil {
		return err
	}
	if s != nil && s.predecessor != nil && s.predecessor != n {
		return fmt.Errorf("%w: %v", ErrHasPredecessor, s)
	}
	if old := n.Successor(i); old != nil {
		old.predecessor = nil
	}
	n.successors[i] = nil
	if s != nil {
		n.successors[i] = []*Node{s}
		s.predecessor = n
	}
	return nil
}

// AppendSuccessor appends nodes to list successor slot i.
func (n *Node) AppendSuccessor(i int, s ...*Node) error {
	if err := n.checkSlot(Successors, i, true); err != nil {
		return err
	}
	for _, x := range s {
		if x.predecessor != nil && x.predecessor != n {
			return fmt.Errorf("%w: %v", ErrHasPredecessor, x)
		}
		n.successors[i] = append(n.successors[i], x)
		x.predecessor = n
	}
	return nil
}

func (n *Node) checkSlot(dir Direction, i int, list bool) error {
	e := n.class.Edges(dir)
	if i < 0 || i >= e.Count() {
		return fmt.Errorf("%w: %s slot %d of %v", ErrNoSuchSlot, dir, i, n)
	}
	if list && e.IsDirect(i) {
		return fmt.Errorf("%w: %s slot %q of %v", ErrNotList, dir, e.Name(i), n)
	}
	if !list && !e.IsDirect(i) {
		return fmt.Errorf("%w: %s slot %q of %v", ErrNotDirect, dir, e.Name(i), n)
	}
	return nil
}

func (n *Node) removeUsage(user *Node) {
	for i, u := range n.usages {
		if u == user {
			n.usages = append(n.usages[:i], n.usages[i+1:]...)
			return
		}
	}
}

// Properties returns a copy of the node's debug properties.
func (n *Node) Properties() Metadata { return maps.Clone(n.props) }

// SetProperty records a debug property.
func (n *Node) SetProperty(key string, value any) { n.props[key] = value }

// Constant returns the literal carried by a constant node.
func (n *Node) Constant() (Constant, bool) {
	if n.constant == nil {
		return Constant{}, false
	}
	return *n.constant, true
}

// Merge returns the control node a phi or proxy belongs to: the node bound
// to its first direct association slot. For phis this is the merge, for
// proxies the loop exit. It returns nil for other nodes.
func (n *Node) Merge() *Node {
	if !n.Is(KindPhi) && !n.Is(KindProxy) {
		return nil
	}
	in := n.class.inputs
	for i := 0; i < in.DirectCount(); i++ {
		if t, _ := in.InputType(i); t == InputAssociation {
			return n.Input(i)
		}
	}
	return nil
}

// Phis returns the phis owned by a merge, in usage order.
func (n *Node) Phis() []*Node {
	if !n.Is(KindMerge) {
		return nil
	}
	var phis []*Node
	for _, u := range n.usages {
		if u.Is(KindPhi) && u.Merge() == n {
			phis = append(phis, u)
		}
	}
	return phis
}
