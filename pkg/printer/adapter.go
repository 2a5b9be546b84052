package printer

// Direction selects the input or successor edges of a node.
type Direction int

const (
	Inputs Direction = iota
	Successors
)

func (d Direction) String() string {
	if d == Successors {
		return "successors"
	}
	return "inputs"
}

// Adapter exposes a concrete IR to the generic driver. G is the graph
// handle, N the node type, B the block type and E the edge layout type.
//
// Implementations must not mutate the graph. Any method returning an error
// reports a structural inconsistency that aborts the export.
type Adapter[G, N, B, E any] interface {
	// NodeID returns the stable id of n, or -1 for a missing node.
	NodeID(n N) int
	// BlockID returns the id of b.
	BlockID(b B) int
	// BlockSuccessors returns the successor blocks of b.
	BlockSuccessors(b B) []B

	// ClassName and NameTemplate describe the class of n.
	ClassName(n N) string
	NameTemplate(n N) string

	// Edges returns the edge layout of n in one direction.
	Edges(n N, dir Direction) (E, error)
	EdgeCount(e E) int
	IsDirect(e E, i int) bool
	EdgeName(e E, i int) string
	// EdgeInputType fails for successor layouts.
	EdgeInputType(e E, i int) (Enum, error)

	// NodeAt returns the node in direct slot i, reporting false if unbound.
	NodeAt(n N, e E, i int) (N, bool)
	// NodeListAt returns the nodes in list slot i.
	NodeListAt(n N, e E, i int) []N

	// HasPredecessor reports whether some successor edge targets n.
	HasPredecessor(n N) bool
	// OwnedNodes returns nodes that belong to n without being scheduled on
	// their own, such as the phis of a merge.
	OwnedNodes(n N) []N

	// Nodes returns all nodes of g in graph order.
	Nodes(g G) []N
	// Blocks returns the blocks of g, or nil when g has no schedule.
	Blocks(g G) []B
	// BlockNodes returns the scheduled nodes of b.
	BlockNodes(g G, b B) []N

	// Properties returns the exported properties of n.
	Properties(g G, n N) *Bag
	// Value converts an arbitrary property value. Nested graphs are
	// returned as Embedded holding a G.
	Value(g G, v any) Value
}
