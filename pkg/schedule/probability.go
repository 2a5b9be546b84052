package schedule

import "github.com/matzehuels/irdump/pkg/ir"

// estimateProbabilities assigns relative execution frequencies to blocks.
// Back edges (successors that dominate their source) are ignored so the
// estimate is a single forward pass in reverse postorder.
func (b *builder) estimateProbabilities(loopFrequency float64) {
	prob := make(map[*ir.Block]float64, len(b.blocks))
	for i, blk := range b.rpo {
		var p float64
		if i == 0 {
			p = 1
		}
		for _, pred := range blk.Predecessors() {
			if b.isBackEdge(pred, blk) {
				continue
			}
			p += prob[pred] * b.edgeProbability(pred, blk)
		}
		if begin := b.begin[blk]; begin != nil && begin.Is(ir.KindMerge) && b.isLoopHeader(blk) {
			p *= loopFrequency
		}
		prob[blk] = p
		blk.SetProbability(p)
	}
}

func (b *builder) isBackEdge(from, to *ir.Block) bool {
	for d := from; ; d = b.idom[d] {
		if d == to {
			return true
		}
		if d == nil || b.idom[d] == d {
			return false
		}
	}
}

func (b *builder) isLoopHeader(blk *ir.Block) bool {
	for _, pred := range blk.Predecessors() {
		if b.isBackEdge(pred, blk) {
			return true
		}
	}
	return false
}

// edgeProbability is the share of from's frequency that flows to to.
func (b *builder) edgeProbability(from, to *ir.Block) float64 {
	last := b.last[from]
	if last == nil || !last.Is(ir.KindControlSplit) {
		return 1
	}
	succs := from.Successors()
	if len(succs) == 0 {
		return 0
	}
	if len(succs) == 2 {
		if tp, ok := trueProbability(last); ok {
			if succs[0] == to {
				return tp
			}
			return 1 - tp
		}
	}
	return 1 / float64(len(succs))
}

func trueProbability(split *ir.Node) (float64, bool) {
	switch v := split.Properties()[TrueProbabilityKey].(type) {
	case float64:
		if v >= 0 && v <= 1 {
			return v, true
		}
	case float32:
		if v >= 0 && v <= 1 {
			return float64(v), true
		}
	}
	return 0, false
}
