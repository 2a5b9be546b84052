package ir

import "fmt"

// Direction selects one of the two edge lists a node class declares.
type Direction int

const (
	// Inputs are data and dependency edges pointing at the nodes a node consumes.
	Inputs Direction = iota
	// Successors are control-flow edges pointing at the nodes that execute next.
	Successors
)

func (d Direction) String() string {
	if d == Successors {
		return "successors"
	}
	return "inputs"
}

// InputType classifies what an input edge carries.
type InputType int

const (
	InputValue InputType = iota
	InputAssociation
	InputState
	InputMemory
	InputCondition
	InputGuard
	InputAnchor
	InputExtension
	InputUnchecked
)

var inputTypeNames = []string{
	"Value", "Association", "State", "Memory", "Condition", "Guard", "Anchor", "Extension", "Unchecked",
}

func (t InputType) String() string {
	if t < 0 || int(t) >= len(inputTypeNames) {
		return fmt.Sprintf("InputType(%d)", int(t))
	}
	return inputTypeNames[t]
}

// EnumType implements [Enum].
func (InputType) EnumType() string { return "ir.InputType" }

// EnumNames implements [Enum].
func (InputType) EnumNames() []string { return append([]string(nil), inputTypeNames...) }

// Ordinal implements [Enum].
func (t InputType) Ordinal() int { return int(t) }

// Enum is implemented by enumerated values that export as a type name,
// the full list of constant names, and an ordinal into that list.
type Enum interface {
	EnumType() string
	EnumNames() []string
	Ordinal() int
}

// Slot declares one edge slot of a node class. A slot is direct (holds at
// most one node) unless List is set. Type is ignored for successor slots.
type Slot struct {
	Name string
	List bool
	Type InputType
}

// Edges is the edge layout of one direction of a node class. The first
// DirectCount slots are direct, the remainder are list-valued.
//
// Edges is an immutable value; the zero value is an empty input layout.
type Edges struct {
	dir    Direction
	direct int
	names  []string
	types  []InputType
}

// NewEdges builds an edge layout from slot declarations. Direct slots must
// precede list slots, otherwise ErrSlotOrder is returned.
func NewEdges(dir Direction, slots ...Slot) (Edges, error) {
	e := Edges{dir: dir, names: make([]string, len(slots))}
	if dir == Inputs {
		e.types = make([]InputType, len(slots))
	}
	seenList := false
	for i, s := range slots {
		if s.List {
			seenList = true
		} else if seenList {
			return Edges{}, fmt.Errorf("%w: direct slot %q after list slot", ErrSlotOrder, s.Name)
		} else {
			e.direct++
		}
		e.names[i] = s.Name
		if dir == Inputs {
			e.types[i] = s.Type
		}
	}
	return e, nil
}

// Direction reports which edge list this layout describes.
func (e Edges) Direction() Direction { return e.dir }

// Count returns the total number of slots.
func (e Edges) Count() int { return len(e.names) }

// DirectCount returns the number of leading single-valued slots.
func (e Edges) DirectCount() int { return e.direct }

// IsDirect reports whether slot i holds a single node.
func (e Edges) IsDirect(i int) bool { return i < e.direct }

// Name returns the name of slot i.
func (e Edges) Name(i int) string { return e.names[i] }

// InputType returns the input classification of slot i. It returns
// ErrNotInputEdges for successor layouts.
func (e Edges) InputType(i int) (InputType, error) {
	if e.dir != Inputs {
		return 0, ErrNotInputEdges
	}
	return e.types[i], nil
}

// Node returns the node bound to direct slot i of n, or nil.
func (e Edges) Node(n *Node, i int) *Node {
	s := n.slots(e.dir)
	if i >= len(s) || len(s[i]) == 0 {
		return nil
	}
	return s[i][0]
}

// NodeList returns the nodes bound to list slot i of n.
func (e Edges) NodeList(n *Node, i int) []*Node {
	s := n.slots(e.dir)
	if i >= len(s) {
		return nil
	}
	return s[i]
}
