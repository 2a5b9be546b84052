package dump

import (
	"fmt"
	"reflect"

	"github.com/matzehuels/irdump/pkg/ir"
	"github.com/matzehuels/irdump/pkg/printer"
)

// Adapter binds the IR in package ir to the generic printer.
type Adapter struct {
	annotator Annotator
}

var _ printer.Adapter[*Snapshot, *ir.Node, *ir.Block, ir.Edges] = (*Adapter)(nil)

// NewAdapter creates an adapter.
func NewAdapter() *Adapter { return &Adapter{} }

func (a *Adapter) NodeID(n *ir.Node) int {
	if n == nil {
		return -1
	}
	return n.ID()
}

func (a *Adapter) BlockID(b *ir.Block) int                        { return b.ID() }
func (a *Adapter) BlockSuccessors(b *ir.Block) []*ir.Block        { return b.Successors() }
func (a *Adapter) ClassName(n *ir.Node) string                    { return n.Class().Name() }
func (a *Adapter) NameTemplate(n *ir.Node) string                 { return n.Class().NameTemplate() }
func (a *Adapter) EdgeCount(e ir.Edges) int                       { return e.Count() }
func (a *Adapter) IsDirect(e ir.Edges, i int) bool                { return e.IsDirect(i) }
func (a *Adapter) EdgeName(e ir.Edges, i int) string              { return e.Name(i) }
func (a *Adapter) HasPredecessor(n *ir.Node) bool                 { return n.Predecessor() != nil }
func (a *Adapter) OwnedNodes(n *ir.Node) []*ir.Node               { return n.Phis() }
func (a *Adapter) Blocks(s *Snapshot) []*ir.Block                 { return s.Blocks() }
func (a *Adapter) BlockNodes(s *Snapshot, b *ir.Block) []*ir.Node { return s.NodesOf(b) }

// Edges returns the input or successor layout of n's class.
func (a *Adapter) Edges(n *ir.Node, dir printer.Direction) (ir.Edges, error) {
	if n == nil {
		return ir.Edges{}, fmt.Errorf("edges of nil node")
	}
	if dir == printer.Successors {
		return n.Class().Edges(ir.Successors), nil
	}
	return n.Class().Edges(ir.Inputs), nil
}

func (a *Adapter) EdgeInputType(e ir.Edges, i int) (printer.Enum, error) {
	t, err := e.InputType(i)
	if err != nil {
		return printer.Enum{}, err
	}
	return enumOf(t), nil
}

func (a *Adapter) NodeAt(n *ir.Node, e ir.Edges, i int) (*ir.Node, bool) {
	m := e.Node(n, i)
	return m, m != nil
}

func (a *Adapter) NodeListAt(n *ir.Node, e ir.Edges, i int) []*ir.Node {
	return e.NodeList(n, i)
}

func (a *Adapter) Nodes(s *Snapshot) []*ir.Node {
	if s.Graph() == nil {
		return nil
	}
	return s.Graph().Nodes()
}

// Properties annotates n against s.
func (a *Adapter) Properties(s *Snapshot, n *ir.Node) *printer.Bag {
	return a.annotator.Annotate(n, s)
}

// Value converts a property value. Nodes become references, graphs become
// embedded subgraphs, and slices are converted element-wise; everything
// else goes through [Adapter.Recognize].
func (a *Adapter) Value(s *Snapshot, v any) printer.Value {
	switch x := v.(type) {
	case nil:
		return nil
	case *ir.Node:
		if x == nil {
			return nil
		}
		return printer.NodeRef{ID: x.ID()}
	case BlockAssignment:
		return a.Value(s, x.Value())
	}
	if child, ok := a.Graph(s, v); ok {
		return printer.Embedded{Graph: child}
	}
	if p, ok := printer.Primitive(v); ok {
		return p
	}
	if l, ok := printer.ListOf(v, func(e any) printer.Value { return a.Value(s, e) }); ok {
		return l
	}
	r, err := guard(func() (printer.Recognized, error) { return a.Recognize(v), nil })
	if err != nil {
		r = printer.Opaque{Value: v}
	}
	return printer.ValueOf(r)
}

// Graph resolves graphs held in properties to snapshots sharing parent's
// debug context. Cached graphs are exported through a read-only copy.
func (a *Adapter) Graph(parent *Snapshot, v any) (*Snapshot, bool) {
	switch g := v.(type) {
	case *ir.Graph:
		if g == nil {
			return nil, false
		}
		return NewSnapshot(parent.Debug(), g), true
	case *ir.CachedGraph:
		if g == nil {
			return nil, false
		}
		return NewSnapshot(parent.Debug(), g.ReadonlyCopy()), true
	}
	return nil, false
}

// Recognize classifies a domain value. Variants are tried in the order
// documented on [printer.Recognized]; bytecode wrappers count as methods.
// Nil pointers of any type are recognized as an empty Opaque value.
func (a *Adapter) Recognize(v any) printer.Recognized {
	if isNil(v) {
		return printer.Opaque{}
	}
	switch x := v.(type) {
	case *ir.Method:
		if x != nil {
			return methodOf(x)
		}
	case *ir.Bytecode:
		if x != nil && x.Method() != nil {
			return methodOf(x.Method())
		}
	case *ir.Field:
		if x != nil {
			return printer.FieldRef{
				Declaring: typeName(x.DeclaringType()),
				Name:      x.Name(),
				Type:      typeName(x.Type()),
				Modifiers: x.Modifiers(),
			}
		}
	case *ir.Signature:
		if x != nil {
			return signatureOf(x)
		}
	case *ir.SourcePosition:
		if x != nil {
			return positionOf(x)
		}
	case ir.Enum:
		return enumOf(x)
	case *ir.NodeClass:
		if x != nil {
			return printer.ClassRef{Name: x.Name()}
		}
	case *ir.Type:
		if x != nil {
			return printer.ClassRef{Name: x.Name()}
		}
	case reflect.Type:
		if x != nil {
			return printer.ClassRef{Name: x.String()}
		}
	}
	return printer.Opaque{Value: v}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

func enumOf(e ir.Enum) printer.Enum {
	return printer.Enum{Type: e.EnumType(), Names: e.EnumNames(), Ordinal: e.Ordinal()}
}

func typeName(t *ir.Type) string {
	if t == nil {
		return ""
	}
	return t.Name()
}

func signatureOf(sig *ir.Signature) printer.SignatureRef {
	ref := printer.SignatureRef{Return: typeName(sig.ReturnType())}
	for i := 0; i < sig.ParameterCount(); i++ {
		ref.Params = append(ref.Params, typeName(sig.ParameterType(i)))
	}
	return ref
}

func methodOf(m *ir.Method) printer.MethodRef {
	ref := printer.MethodRef{
		Declaring: typeName(m.DeclaringType()),
		Name:      m.Name(),
		Modifiers: m.Modifiers(),
		Code:      m.Code(),
	}
	if m.Signature() != nil {
		ref.Signature = signatureOf(m.Signature())
	}
	return ref
}

// positionOf flattens the caller chain, innermost first.
func positionOf(p *ir.SourcePosition) printer.PositionRef {
	var ref printer.PositionRef
	for cur := p; cur != nil; cur = cur.Caller() {
		f := printer.Frame{BCI: cur.BCI()}
		if m := cur.Method(); m != nil {
			f.Method = methodOf(m)
			f.StackFrame = m.StackFrame(cur.BCI())
		}
		ref.Frames = append(ref.Frames, f)
	}
	return ref
}
