package dump

import (
	"slices"

	"github.com/matzehuels/irdump/pkg/ir"
	"github.com/matzehuels/irdump/pkg/observability"
	"github.com/matzehuels/irdump/pkg/printer"
)

// Property keys added by [Annotator].
const (
	KeyProbability          = "probability"
	KeyProbabilityException = "probability-exception"
	KeyCostSize             = "NodeCost-Size"
	KeyCostCycles           = "NodeCost-Cycles"
	KeyCostException        = "node-cost-exception"
	KeyNodeToBlock          = "node-to-block"
	KeyCategory             = "category"
	KeyRawValue             = "rawvalue"
	KeyToString             = "toString"

	// LiteralSuffix is appended to an input slot name for the literal of
	// a constant bound to that slot.
	LiteralSuffix = "-literal"
)

// Annotator computes the exported property bag of a node. Failures of the
// cost model or the reflection bridge become diagnostic properties;
// Annotate itself never fails.
type Annotator struct{}

// Annotate returns n's debug properties followed by the derived ones.
// Repeated calls on an unchanged snapshot yield identical bags.
func (Annotator) Annotate(n *ir.Node, s *Snapshot) *printer.Bag {
	dc := s.Debug()
	bag := printer.NewBag()

	props := n.Properties()
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		bag.Set(k, props[k])
	}

	fail := func(key string, err error) {
		dc.Logger().Debug("annotation failed", "node", n.ID(), "property", key, "error", err)
		observability.Export().OnAnnotationFailed(dc.Context(), n.ID(), key, err)
	}

	if s.HasSchedule() && dc.Options().Probabilities && n.Is(ir.KindFixed) {
		p, err := guard(func() (float64, error) {
			b := s.BlockFor(n)
			if b == nil {
				return 0, ErrUnscheduled
			}
			return dc.Costs().BlockProbability(b)
		})
		if err != nil {
			bag.Set(KeyProbability, 0.0)
			bag.Set(KeyProbabilityException, err.Error())
			fail(KeyProbability, err)
		} else {
			bag.Set(KeyProbability, p)
		}
	}

	size, err := guard(func() (int, error) { return dc.Costs().EstimatedSize(n) })
	var cycles int
	if err == nil {
		cycles, err = guard(func() (int, error) { return dc.Costs().EstimatedCycles(n) })
	}
	if err != nil {
		bag.Set(KeyCostException, err.Error())
		fail(KeyCostException, err)
	} else {
		bag.Set(KeyCostSize, size)
		bag.Set(KeyCostCycles, cycles)
	}

	if s.HasSchedule() {
		bag.Set(KeyNodeToBlock, s.ResolveBlock(n).Value())
	}

	cat := Categorize(n)
	if cat == CategoryFloating {
		annotateFloating(n, dc, bag, fail)
	}
	bag.Set(KeyCategory, string(cat))
	return bag
}

func annotateFloating(n *ir.Node, dc *DebugContext, bag *printer.Bag, fail func(string, error)) {
	if c, ok := n.Constant(); ok {
		bag.Set(KeyRawValue, c.Literal())
		if obj, ok := dc.Reflection().AsObject(c); ok {
			if str, err := describe(obj); err != nil {
				fail(KeyToString, err)
			} else {
				bag.Set(KeyToString, str)
			}
		}
	}

	in := n.Class().Edges(ir.Inputs)
	for i := 0; i < in.DirectCount(); i++ {
		m := in.Node(n, i)
		if m == nil {
			continue
		}
		if c, ok := m.Constant(); ok {
			bag.Set(in.Name(i)+LiteralSuffix, c.Literal())
		}
	}
}
