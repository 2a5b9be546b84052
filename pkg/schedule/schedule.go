// Package schedule computes basic-block schedules for [ir.Graph] values.
//
// The phase walks the fixed control flow from the start node, cutting a new
// block at every begin node, then places floating nodes into the lowest
// block that dominates all of their usages. Phis and state nodes are not
// placed: phis belong to their merge and states to the node they describe.
//
// Block probabilities are estimated along the way: the start block runs
// once, control splits divide their frequency between successors, merges
// sum their forward predecessors and loop headers multiply by a fixed loop
// frequency.
package schedule

import (
	"errors"
	"fmt"
	"sort"

	"github.com/matzehuels/irdump/pkg/ir"
)

var (
	// ErrNoStart is returned when the graph has no start node.
	ErrNoStart = errors.New("graph has no start node")

	// ErrMalformedControl is returned when the fixed control flow cannot be
	// split into blocks, for example a fixed node without a successor or an
	// end that reaches no merge.
	ErrMalformedControl = errors.New("malformed control flow")
)

// DefaultLoopFrequency is the assumed iteration count of a loop.
const DefaultLoopFrequency = 10.0

// TrueProbabilityKey is the node property a control split may carry to
// override the even split of its frequency. It is the probability of the
// first successor.
const TrueProbabilityKey = "trueProbability"

// Phase computes a schedule and attaches it to the graph.
type Phase struct {
	// LoopFrequency overrides DefaultLoopFrequency when positive.
	LoopFrequency float64
}

// Apply schedules g and stores the result as g's last schedule. On error the
// graph is left untouched.
func (p *Phase) Apply(g *ir.Graph) error {
	s, err := p.Compute(g)
	if err != nil {
		return err
	}
	return g.SetLastSchedule(s)
}

// Compute builds a schedule for g without attaching it.
func (p *Phase) Compute(g *ir.Graph) (*ir.Schedule, error) {
	start := g.Start()
	if start == nil {
		return nil, ErrNoStart
	}
	b := newBuilder(g)
	if err := b.buildBlocks(start); err != nil {
		return nil, err
	}
	b.computeDominators()
	b.placeFloating()

	freq := p.LoopFrequency
	if freq <= 0 {
		freq = DefaultLoopFrequency
	}
	b.estimateProbabilities(freq)

	return ir.NewSchedule(g, b.blocks, b.orderedNodes()), nil
}

type builder struct {
	g       *ir.Graph
	blocks  []*ir.Block
	blockOf map[*ir.Node]*ir.Block
	fixed   map[*ir.Block][]*ir.Node
	float   map[*ir.Block][]*ir.Node
	begin   map[*ir.Block]*ir.Node
	last    map[*ir.Block]*ir.Node

	rpo  []*ir.Block
	post map[*ir.Block]int
	idom map[*ir.Block]*ir.Block
}

func newBuilder(g *ir.Graph) *builder {
	return &builder{
		g:       g,
		blockOf: make(map[*ir.Node]*ir.Block),
		fixed:   make(map[*ir.Block][]*ir.Node),
		float:   make(map[*ir.Block][]*ir.Node),
		begin:   make(map[*ir.Block]*ir.Node),
		last:    make(map[*ir.Block]*ir.Node),
	}
}

// =============================================================================
// Blocks
// =============================================================================

func (b *builder) buildBlocks(start *ir.Node) error {
	queue := []*ir.Node{start}
	b.blockFor(start)
	for len(queue) > 0 {
		begin := queue[0]
		queue = queue[1:]
		next, err := b.walk(begin)
		if err != nil {
			return err
		}
		queue = append(queue, next...)
	}
	return nil
}

// blockFor returns the block started by begin, creating it if needed.
func (b *builder) blockFor(begin *ir.Node) (*ir.Block, bool) {
	if blk, ok := b.blockOf[begin]; ok {
		return blk, false
	}
	blk := ir.NewBlock(len(b.blocks))
	b.blocks = append(b.blocks, blk)
	b.blockOf[begin] = blk
	b.begin[blk] = begin
	return blk, true
}

// walk follows the fixed chain starting at begin and returns the begin
// nodes of newly discovered blocks.
func (b *builder) walk(begin *ir.Node) ([]*ir.Node, error) {
	blk := b.blockOf[begin]
	var discovered []*ir.Node
	enter := func(target *ir.Node) {
		tb, created := b.blockFor(target)
		blk.AddSuccessor(tb)
		if created {
			discovered = append(discovered, target)
		}
	}

	for cur := begin; ; {
		if cur != begin {
			if _, seen := b.blockOf[cur]; seen {
				return nil, fmt.Errorf("%w: %v reached twice", ErrMalformedControl, cur)
			}
			b.blockOf[cur] = blk
		}
		b.fixed[blk] = append(b.fixed[blk], cur)
		b.last[blk] = cur

		succs := controlSuccessors(cur)
		switch {
		case cur.Is(ir.KindEnd):
			target := endTarget(cur)
			if target == nil {
				return nil, fmt.Errorf("%w: %v reaches no merge", ErrMalformedControl, cur)
			}
			enter(target)
			return discovered, nil

		case cur.Is(ir.KindControlSink):
			return discovered, nil

		case cur.Is(ir.KindControlSplit):
			for _, s := range succs {
				if !s.Is(ir.KindBegin) || s.Is(ir.KindMerge) {
					return nil, fmt.Errorf("%w: successor %v of split %v is not a begin", ErrMalformedControl, s, cur)
				}
				enter(s)
			}
			return discovered, nil
		}

		if len(succs) != 1 {
			return nil, fmt.Errorf("%w: %v has %d successors", ErrMalformedControl, cur, len(succs))
		}
		next := succs[0]
		if next.Is(ir.KindMerge) {
			return nil, fmt.Errorf("%w: %v flows into merge %v without an end", ErrMalformedControl, cur, next)
		}
		if next.Is(ir.KindBegin) {
			enter(next)
			return discovered, nil
		}
		cur = next
	}
}

func controlSuccessors(n *ir.Node) []*ir.Node {
	e := n.Class().Edges(ir.Successors)
	var out []*ir.Node
	for i := 0; i < e.Count(); i++ {
		if e.IsDirect(i) {
			if s := n.Successor(i); s != nil {
				out = append(out, s)
			}
			continue
		}
		for _, s := range n.SuccessorList(i) {
			if s != nil {
				out = append(out, s)
			}
		}
	}
	return out
}

// endTarget returns the merge an end jumps to: either a merge that lists the
// end among its inputs, or a merge the end references directly.
func endTarget(end *ir.Node) *ir.Node {
	for _, u := range end.Usages() {
		if u.Is(ir.KindMerge) {
			return u
		}
	}
	in := end.Class().Edges(ir.Inputs)
	for i := 0; i < in.DirectCount(); i++ {
		if n := end.Input(i); n != nil && n.Is(ir.KindMerge) {
			return n
		}
	}
	return nil
}

// mergeEnds returns the ends of a merge in phi-input order: the listed
// forward ends, then loop ends that reference the merge.
func mergeEnds(m *ir.Node) []*ir.Node {
	var ends []*ir.Node
	seen := make(map[*ir.Node]bool)
	in := m.Class().Edges(ir.Inputs)
	for i := in.DirectCount(); i < in.Count(); i++ {
		for _, e := range m.InputList(i) {
			if e != nil && e.Is(ir.KindEnd) && !seen[e] {
				seen[e] = true
				ends = append(ends, e)
			}
		}
	}
	for _, u := range m.Usages() {
		if u.Is(ir.KindEnd) && !seen[u] {
			seen[u] = true
			ends = append(ends, u)
		}
	}
	return ends
}

// =============================================================================
// Dominators
// =============================================================================

func (b *builder) computeDominators() {
	b.post = make(map[*ir.Block]int, len(b.blocks))
	visited := make(map[*ir.Block]bool, len(b.blocks))
	var order []*ir.Block
	var dfs func(*ir.Block)
	dfs = func(blk *ir.Block) {
		visited[blk] = true
		for _, s := range blk.Successors() {
			if !visited[s] {
				dfs(s)
			}
		}
		b.post[blk] = len(order)
		order = append(order, blk)
	}
	dfs(b.blocks[0])

	b.rpo = make([]*ir.Block, len(order))
	for i, blk := range order {
		b.rpo[len(order)-1-i] = blk
	}

	entry := b.blocks[0]
	b.idom = map[*ir.Block]*ir.Block{entry: entry}
	for changed := true; changed; {
		changed = false
		for _, blk := range b.rpo[1:] {
			var dom *ir.Block
			for _, p := range blk.Predecessors() {
				if b.idom[p] == nil {
					continue
				}
				if dom == nil {
					dom = p
				} else {
					dom = b.intersect(p, dom)
				}
			}
			if b.idom[blk] != dom {
				b.idom[blk] = dom
				changed = true
			}
		}
	}
}

func (b *builder) intersect(x, y *ir.Block) *ir.Block {
	for x != y {
		for b.post[x] < b.post[y] {
			x = b.idom[x]
		}
		for b.post[y] < b.post[x] {
			y = b.idom[y]
		}
	}
	return x
}

// commonDominator returns the nearest block dominating both x and y. A nil
// argument yields the other one.
func (b *builder) commonDominator(x, y *ir.Block) *ir.Block {
	switch {
	case x == nil:
		return y
	case y == nil:
		return x
	}
	return b.intersect(x, y)
}

// =============================================================================
// Floating nodes
// =============================================================================

func (b *builder) placeFloating() {
	placed := make(map[*ir.Node]*ir.Block)
	visiting := make(map[*ir.Node]bool)

	var place func(n *ir.Node) *ir.Block
	place = func(n *ir.Node) *ir.Block {
		if blk, ok := b.blockOf[n]; ok {
			return blk
		}
		if blk, ok := placed[n]; ok {
			return blk
		}
		if visiting[n] {
			return nil
		}
		visiting[n] = true
		defer delete(visiting, n)

		if anchor := anchorOf(n); anchor != nil {
			if blk := b.blockOf[anchor]; blk != nil {
				placed[n] = blk
				return blk
			}
		}

		var blk *ir.Block
		for _, u := range n.Usages() {
			switch {
			case u.Is(ir.KindState):
				continue
			case u.Is(ir.KindPhi):
				blk = b.commonDominator(blk, b.phiInputBlock(u, n))
			case u.Is(ir.KindFixed):
				blk = b.commonDominator(blk, b.blockOf[u])
			default:
				blk = b.commonDominator(blk, place(u))
			}
		}
		if blk == nil {
			blk = b.blocks[0]
		}
		placed[n] = blk
		return blk
	}

	for _, n := range b.g.Nodes() {
		if n.Is(ir.KindFixed) || n.Is(ir.KindPhi) || n.Is(ir.KindState) {
			continue
		}
		if _, ok := b.blockOf[n]; ok {
			continue
		}
		blk := place(n)
		b.float[blk] = append(b.float[blk], n)
	}
	for _, n := range b.g.Nodes() {
		if blk, ok := placed[n]; ok {
			b.blockOf[n] = blk
		}
	}
}

// anchorOf returns the fixed node a floating node is pinned to through a
// direct association input, such as the loop exit of a proxy.
func anchorOf(n *ir.Node) *ir.Node {
	in := n.Class().Edges(ir.Inputs)
	for i := 0; i < in.DirectCount(); i++ {
		if t, _ := in.InputType(i); t != ir.InputAssociation {
			continue
		}
		if a := n.Input(i); a != nil && a.Is(ir.KindFixed) {
			return a
		}
	}
	return nil
}

// phiInputBlock returns the block of the end that feeds value into phi. A
// value flowing through several ends must dominate all of them.
func (b *builder) phiInputBlock(phi, value *ir.Node) *ir.Block {
	merge := phi.Merge()
	if merge == nil {
		return nil
	}
	ends := mergeEnds(merge)
	in := phi.Class().Edges(ir.Inputs)
	var blk *ir.Block
	for i := in.DirectCount(); i < in.Count(); i++ {
		for j, v := range phi.InputList(i) {
			if v == value && j < len(ends) {
				blk = b.commonDominator(blk, b.blockOf[ends[j]])
			}
		}
	}
	return blk
}

// orderedNodes lays out each block as its begin node, then its floating
// nodes in id order, then the remaining fixed nodes.
func (b *builder) orderedNodes() map[*ir.Block][]*ir.Node {
	out := make(map[*ir.Block][]*ir.Node, len(b.blocks))
	for _, blk := range b.blocks {
		fixed := b.fixed[blk]
		float := b.float[blk]
		sort.Slice(float, func(i, j int) bool { return float[i].ID() < float[j].ID() })

		nodes := make([]*ir.Node, 0, len(fixed)+len(float))
		if len(fixed) > 0 {
			nodes = append(nodes, fixed[0])
		}
		nodes = append(nodes, float...)
		if len(fixed) > 1 {
			nodes = append(nodes, fixed[1:]...)
		}
		out[blk] = nodes
	}
	return out
}
