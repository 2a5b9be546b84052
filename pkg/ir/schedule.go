package ir

// Block is a basic block of a computed schedule.
type Block struct {
	id           int
	successors   []*Block
	predecessors []*Block
	probability  float64
}

// NewBlock creates a block with the given id and probability 1.
func NewBlock(id int) *Block { return &Block{id: id, probability: 1} }

// ID returns the block id.
func (b *Block) ID() int { return b.id }

// Successors returns the successor blocks in edge order.
func (b *Block) Successors() []*Block { return b.successors }

// Predecessors returns the predecessor blocks in edge order.
func (b *Block) Predecessors() []*Block { return b.predecessors }

// AddSuccessor links b -> s.
func (b *Block) AddSuccessor(s *Block) {
	b.successors = append(b.successors, s)
	s.predecessors = append(s.predecessors, b)
}

// Probability returns the relative execution frequency of the block.
func (b *Block) Probability() float64 { return b.probability }

// SetProbability records the relative execution frequency of the block.
func (b *Block) SetProbability(p float64) { b.probability = p }

// Schedule assigns the nodes of one graph to ordered basic blocks.
//
// A schedule covers exactly the nodes that existed when it was built. Nodes
// added afterwards report true from [Schedule.IsNew].
type Schedule struct {
	graph        *Graph
	blocks       []*Block
	nodeToBlock  map[*Node]*Block
	blockToNodes map[*Block][]*Node
	watermark    int
	overlap      *Node // first node listed in two blocks
}

// NewSchedule builds a schedule for g from an ordered block list and the
// node list of each block. Nodes of other graphs are ignored. A node listed
// in several blocks keeps its first block; such a schedule is refused by
// [Graph.SetLastSchedule].
func NewSchedule(g *Graph, blocks []*Block, blockToNodes map[*Block][]*Node) *Schedule {
	s := &Schedule{
		graph:        g,
		blocks:       blocks,
		nodeToBlock:  make(map[*Node]*Block),
		blockToNodes: make(map[*Block][]*Node, len(blocks)),
		watermark:    g.NodeCount(),
	}
	for _, b := range blocks {
		var own []*Node
		for _, n := range blockToNodes[b] {
			if n.graph != g {
				continue
			}
			if _, dup := s.nodeToBlock[n]; dup {
				if s.overlap == nil {
					s.overlap = n
				}
				continue
			}
			own = append(own, n)
			s.nodeToBlock[n] = b
		}
		s.blockToNodes[b] = own
	}
	return s
}

// Graph returns the graph this schedule was computed for.
func (s *Schedule) Graph() *Graph { return s.graph }

// Blocks returns the blocks in schedule order.
func (s *Schedule) Blocks() []*Block { return s.blocks }

// BlockFor returns the block n is assigned to, or nil.
func (s *Schedule) BlockFor(n *Node) *Block { return s.nodeToBlock[n] }

// NodesOf returns the ordered nodes of b.
func (s *Schedule) NodesOf(b *Block) []*Node { return s.blockToNodes[b] }

// IsNew reports whether n was created after the schedule was built.
func (s *Schedule) IsNew(n *Node) bool { return n.id >= s.watermark }
