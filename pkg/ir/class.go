package ir

import "strings"

// Kind is a set of structural flags carried by a node class. A class may
// carry several flags; consumers decide which one wins.
type Kind uint16

const (
	// KindFixed marks nodes with a deterministic position in the control flow.
	KindFixed Kind = 1 << iota
	// KindBegin marks nodes that start a basic block.
	KindBegin
	// KindEnd marks nodes that end a block by jumping to a merge.
	KindEnd
	// KindMerge marks nodes that join several control-flow paths.
	KindMerge
	// KindControlSplit marks nodes with more than one control successor.
	KindControlSplit
	// KindControlSink marks nodes that leave the method (return, throw).
	KindControlSink
	// KindState marks virtual or deoptimization state descriptions.
	KindState
	// KindPhi marks value selectors owned by a merge.
	KindPhi
	// KindProxy marks loop-exit value proxies.
	KindProxy
	// KindConstant marks floating constants.
	KindConstant
	// KindStart marks the unique entry node of a graph.
	KindStart
)

// controlKinds all imply KindFixed.
const controlKinds = KindBegin | KindEnd | KindMerge | KindControlSplit | KindControlSink | KindStart

// Has reports whether all flags in f are set.
func (k Kind) Has(f Kind) bool { return k&f == f }

// Cost is the static cost estimate attached to a node class. Negative
// values mean the cost is unknown.
type Cost struct {
	Size   int
	Cycles int
}

// UnknownCost marks classes without a cost estimate.
var UnknownCost = Cost{Size: -1, Cycles: -1}

// NodeClass is the per-kind descriptor shared by all nodes of one kind.
type NodeClass struct {
	name       string
	template   string
	kind       Kind
	inputs     Edges
	successors Edges
	cost       Cost
}

// NewNodeClass creates a class. name is the qualified type name (for example
// "ir.AddNode"), template the short display template. Control kinds imply
// KindFixed.
func NewNodeClass(name, template string, kind Kind, inputs, successors []Slot, cost Cost) (*NodeClass, error) {
	in, err := NewEdges(Inputs, inputs...)
	if err != nil {
		return nil, err
	}
	succ, err := NewEdges(Successors, successors...)
	if err != nil {
		return nil, err
	}
	if kind&controlKinds != 0 {
		kind |= KindFixed
	}
	return &NodeClass{name: name, template: template, kind: kind, inputs: in, successors: succ, cost: cost}, nil
}

// MustNodeClass is like NewNodeClass but panics on an invalid slot layout.
// It is intended for package-level class tables.
func MustNodeClass(name, template string, kind Kind, inputs, successors []Slot, cost Cost) *NodeClass {
	c, err := NewNodeClass(name, template, kind, inputs, successors, cost)
	if err != nil {
		panic(err)
	}
	return c
}

// Name returns the qualified type name.
func (c *NodeClass) Name() string { return c.name }

// SimpleName returns the type name without its package qualifier.
func (c *NodeClass) SimpleName() string {
	if c == nil {
		return ""
	}
	if i := strings.LastIndexByte(c.name, '.'); i >= 0 {
		return c.name[i+1:]
	}
	return c.name
}

// NameTemplate returns the display template.
func (c *NodeClass) NameTemplate() string { return c.template }

// Kind returns the class flags.
func (c *NodeClass) Kind() Kind { return c.kind }

// Edges returns the layout for one direction.
func (c *NodeClass) Edges(dir Direction) Edges {
	if dir == Successors {
		return c.successors
	}
	return c.inputs
}

// Cost returns the static cost estimate.
func (c *NodeClass) Cost() Cost { return c.cost }
