package dump

import (
	"errors"
	"fmt"
	"math"

	"github.com/matzehuels/irdump/pkg/ir"
)

var (
	// ErrUnknownCost is returned by [ClassCosts] for classes without a
	// cost estimate.
	ErrUnknownCost = errors.New("no cost estimate")

	// ErrUnscheduled is returned when a block probability is requested for
	// a node that has no block.
	ErrUnscheduled = errors.New("node is not scheduled")

	// ErrBridgePanic wraps a panic raised by a cost model or reflection
	// bridge.
	ErrBridgePanic = errors.New("bridge panicked")
)

// CostModel estimates node costs and block frequencies.
type CostModel interface {
	EstimatedSize(n *ir.Node) (int, error)
	EstimatedCycles(n *ir.Node) (int, error)
	BlockProbability(b *ir.Block) (float64, error)
}

// ClassCosts reads costs from the node class table and probabilities from
// the schedule's blocks.
type ClassCosts struct{}

// EstimatedSize implements [CostModel].
func (ClassCosts) EstimatedSize(n *ir.Node) (int, error) {
	c := n.Class().Cost()
	if c.Size < 0 {
		return 0, fmt.Errorf("%w: size of %s", ErrUnknownCost, n.Class().SimpleName())
	}
	return c.Size, nil
}

// EstimatedCycles implements [CostModel].
func (ClassCosts) EstimatedCycles(n *ir.Node) (int, error) {
	c := n.Class().Cost()
	if c.Cycles < 0 {
		return 0, fmt.Errorf("%w: cycles of %s", ErrUnknownCost, n.Class().SimpleName())
	}
	return c.Cycles, nil
}

// BlockProbability implements [CostModel].
func (ClassCosts) BlockProbability(b *ir.Block) (float64, error) {
	if b == nil {
		return 0, ErrUnscheduled
	}
	p := b.Probability()
	if math.IsNaN(p) || p < 0 {
		return 0, fmt.Errorf("invalid probability %v for block %d", p, b.ID())
	}
	return p, nil
}

// Reflection converts constants into host objects for display.
type Reflection interface {
	// AsObject returns the object a constant denotes, reporting false for
	// primitive and null constants.
	AsObject(c ir.Constant) (any, bool)
}

// BoxedObjects treats object constants as holding their Go value directly.
type BoxedObjects struct{}

// AsObject implements [Reflection].
func (BoxedObjects) AsObject(c ir.Constant) (any, bool) {
	if c.Kind != ir.ConstObject || c.Value == nil {
		return nil, false
	}
	return c.Value, true
}

// guard runs a bridge call, turning a panic into an ErrBridgePanic error.
func guard[T any](f func() (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			v, err = zero, fmt.Errorf("%w: %v", ErrBridgePanic, r)
		}
	}()
	return f()
}

// describe renders a host object for the toString property.
func describe(obj any) (string, error) {
	return guard(func() (string, error) {
		if s, ok := obj.(fmt.Stringer); ok {
			return s.String(), nil
		}
		return fmt.Sprint(obj), nil
	})
}
