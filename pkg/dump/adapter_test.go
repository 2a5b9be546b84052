package dump

import (
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/irdump/pkg/ir"
	"github.com/matzehuels/irdump/pkg/printer"
)

func TestRecognize(t *testing.T) {
	point := ir.NewType("demo.Point")
	double := ir.NewType("double")
	sig := ir.NewSignature(double, point)
	norm := ir.NewMethod(point, "norm", sig, ir.ModPublic|ir.ModStatic, []byte{0x2a})
	wantMethod := printer.MethodRef{
		Declaring: "demo.Point",
		Name:      "norm",
		Signature: printer.SignatureRef{Params: []string{"demo.Point"}, Return: "double"},
		Modifiers: ir.ModPublic | ir.ModStatic,
		Code:      []byte{0x2a},
	}

	tests := []struct {
		name string
		in   any
		want printer.Recognized
	}{
		{"Method", norm, wantMethod},
		{"Bytecode", ir.NewBytecode(norm), wantMethod},
		{
			name: "Field",
			in:   ir.NewField(point, "x", double, ir.ModPrivate),
			want: printer.FieldRef{Declaring: "demo.Point", Name: "x", Type: "double", Modifiers: ir.ModPrivate},
		},
		{"Signature", sig, printer.SignatureRef{Params: []string{"demo.Point"}, Return: "double"}},
		{
			name: "Position",
			in:   ir.NewSourcePosition(ir.NewSourcePosition(nil, norm, 3), norm, 12),
			want: printer.PositionRef{Frames: []printer.Frame{
				{Method: wantMethod, BCI: 12, StackFrame: "demo.Point.norm(Point:12)"},
				{Method: wantMethod, BCI: 3, StackFrame: "demo.Point.norm(Point:3)"},
			}},
		},
		{
			name: "Enum",
			in:   ir.InputCondition,
			want: printer.Enum{Type: "ir.InputType", Names: ir.InputCondition.EnumNames(), Ordinal: int(ir.InputCondition)},
		},
		{"NodeClass", ir.AddClass, printer.ClassRef{Name: "ir.AddNode"}},
		{"Type", point, printer.ClassRef{Name: "demo.Point"}},
		{"ReflectType", reflect.TypeOf(0), printer.ClassRef{Name: "int"}},
		{"Opaque", struct{ A int }{1}, printer.Opaque{Value: struct{ A int }{1}}},
		{"NilMethod", (*ir.Method)(nil), printer.Opaque{}},
		{"NilType", (*ir.Type)(nil), printer.Opaque{}},
		{"NilSignature", (*ir.Signature)(nil), printer.Opaque{}},
		{"NilNodeClass", (*ir.NodeClass)(nil), printer.Opaque{}},
		{
			name: "PositionWithoutDeclaringType",
			in:   ir.NewSourcePosition(nil, ir.NewMethod(nil, "lambda", nil, 0, nil), 3),
			want: printer.PositionRef{Frames: []printer.Frame{
				{Method: printer.MethodRef{Name: "lambda"}, BCI: 3, StackFrame: "lambda(Unknown:3)"},
			}},
		},
	}

	a := NewAdapter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, a.Recognize(tt.in)); diff != "" {
				t.Errorf("Recognize() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAdapterValue(t *testing.T) {
	g, _, ret, add := scenarioA(t)
	s := NewSnapshot(nil, g)
	a := NewAdapter()

	tests := []struct {
		name string
		in   any
		want printer.Value
	}{
		{"Nil", nil, nil},
		{"Node", add, printer.NodeRef{ID: add.ID()}},
		{"Int", 3, printer.Int(3)},
		{"String", "s", printer.String("s")},
		{"Nodes", []*ir.Node{add, ret}, printer.List{printer.NodeRef{ID: add.ID()}, printer.NodeRef{ID: ret.ID()}}},
		{"Block", BlockAssignment{State: UnscheduledNew}, printer.String("unscheduled (new)")},
		{"Constant", ir.IntConstant(4), printer.String("Int[4]")},
		{"Bytes", []byte("ab"), printer.String("[97 98]")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, a.Value(s, tt.in)); diff != "" {
				t.Errorf("Value() mismatch (-want +got):\n%s", diff)
			}
		})
	}

	child := ir.NewGraph("child", nil)
	for _, v := range []any{child, ir.NewCachedGraph(child)} {
		e, ok := a.Value(s, v).(printer.Embedded)
		if !ok {
			t.Fatalf("Value(%T) is not embedded", v)
		}
		cs := e.Graph.(*Snapshot)
		if cs.Debug() != s.Debug() {
			t.Error("embedded snapshot does not share the debug context")
		}
		if _, cached := v.(*ir.CachedGraph); cached && cs.Graph() == child {
			t.Error("cached graph exported without a copy")
		}
	}
}

func TestAdapterNodeID(t *testing.T) {
	a := NewAdapter()
	if got := a.NodeID(nil); got != -1 {
		t.Errorf("NodeID(nil) = %d, want -1", got)
	}
	g := ir.NewGraph("ids", nil)
	g.Add(ir.StartClass)
	n := g.Add(ir.AddClass)
	if got := a.NodeID(n); got != 1 {
		t.Errorf("NodeID() = %d, want 1", got)
	}
	if _, ok := a.NodeAt(n, n.Class().Edges(ir.Inputs), ir.SlotX); ok {
		t.Error("NodeAt() reported an unbound slot as bound")
	}
	succ, err := a.Edges(n, printer.Successors)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.EdgeInputType(succ, 0); err == nil {
		t.Error("EdgeInputType() on successors should fail")
	}
}
