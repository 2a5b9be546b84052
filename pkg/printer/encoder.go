package printer

// Property is one exported key-value pair.
type Property struct {
	Key   string
	Value Value
}

// Port describes one edge slot of a node class. Type is nil for successor
// slots.
type Port struct {
	Name   string
	Direct bool
	Type   *Enum
}

// ClassRecord is the exported layout of a node class.
type ClassRecord struct {
	Name         string
	NameTemplate string
	Inputs       []Port
	Successors   []Port
}

// EdgeRecord holds the targets of one edge slot. Direct slots have exactly
// one target; an unbound direct slot is -1.
type EdgeRecord struct {
	Slot    int
	Targets []int
}

// NodeRecord is one exported node.
type NodeRecord struct {
	ID             int
	Class          ClassRecord
	HasPredecessor bool
	Props          []Property
	Inputs         []EdgeRecord
	Successors     []EdgeRecord
}

// BlockRecord is one exported block.
type BlockRecord struct {
	ID         int
	Nodes      []int
	Successors []int
}

// GraphRecord is a complete graph. Top-level graphs are streamed to the
// encoder record by record; GraphRecord is used for embedded graphs.
type GraphRecord struct {
	Title  string
	Props  []Property
	Nodes  []NodeRecord
	Blocks []BlockRecord
}

// GroupRecord opens a group of graphs, typically one compilation.
type GroupRecord struct {
	Name      string
	ShortName string
	Method    Value
	BCI       int
	Props     []Property
}

// Encoder writes dump records to a concrete format. Calls arrive in the
// order
//
//	(BeginGroup (OpenGraph Node* Block* CloseGraph)* EndGroup)* Close
//
// with groups possibly nested. Errors are returned unchanged to the caller
// of the driver.
type Encoder interface {
	BeginGroup(g GroupRecord) error
	EndGroup() error
	OpenGraph(title string, props []Property) error
	Node(n NodeRecord) error
	Block(b BlockRecord) error
	CloseGraph() error
	Close() error
}
