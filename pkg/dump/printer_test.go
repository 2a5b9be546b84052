package dump

import (
	"context"
	"testing"

	"github.com/matzehuels/irdump/pkg/ir"
	"github.com/matzehuels/irdump/pkg/printer"
)

// recorder keeps every record it is handed.
type recorder struct {
	groups []printer.GroupRecord
	graphs []*printer.GraphRecord
	cur    *printer.GraphRecord
	closed bool
}

func (r *recorder) BeginGroup(g printer.GroupRecord) error { r.groups = append(r.groups, g); return nil }
func (r *recorder) EndGroup() error                        { return nil }
func (r *recorder) Node(n printer.NodeRecord) error        { r.cur.Nodes = append(r.cur.Nodes, n); return nil }
func (r *recorder) Block(b printer.BlockRecord) error      { r.cur.Blocks = append(r.cur.Blocks, b); return nil }
func (r *recorder) Close() error                           { r.closed = true; return nil }

func (r *recorder) OpenGraph(title string, props []printer.Property) error {
	r.cur = &printer.GraphRecord{Title: title, Props: props}
	return nil
}

func (r *recorder) CloseGraph() error {
	r.graphs = append(r.graphs, r.cur)
	r.cur = nil
	return nil
}

func prop(props []printer.Property, key string) printer.Value {
	for _, p := range props {
		if p.Key == key {
			return p.Value
		}
	}
	return nil
}

// diamond builds start -> if -> two branches -> merge -> return phi(1, 2).
func diamond(t *testing.T) (*ir.Graph, *ir.Node, *ir.Node) {
	t.Helper()
	g := ir.NewGraph("diamond", nil)
	start := g.Add(ir.StartClass)
	split := g.Add(ir.IfClass)
	tb, fb := g.Add(ir.BeginClass), g.Add(ir.BeginClass)
	te, fe := g.Add(ir.EndClass), g.Add(ir.EndClass)
	merge := g.Add(ir.MergeClass)
	ret := g.Add(ir.ReturnClass)
	phi := g.Add(ir.ValuePhiClass)
	cond := g.Add(ir.ParameterClass)

	must(t, start.SetSuccessor(ir.SlotNext, split))
	must(t, split.SetInput(ir.SlotCondition, cond))
	must(t, split.SetSuccessor(ir.SlotTrue, tb))
	must(t, split.SetSuccessor(ir.SlotFalse, fb))
	must(t, tb.SetSuccessor(ir.SlotNext, te))
	must(t, fb.SetSuccessor(ir.SlotNext, fe))
	must(t, merge.AppendInput(ir.SlotEnds, te, fe))
	must(t, merge.SetSuccessor(ir.SlotNext, ret))
	must(t, phi.SetInput(ir.SlotPhiMerge, merge))
	must(t, phi.AppendInput(ir.SlotPhiValues, g.AddConstant(ir.IntConstant(1)), g.AddConstant(ir.IntConstant(2))))
	must(t, ret.SetInput(ir.SlotResult, phi))
	return g, merge, phi
}

func TestPrinterScheduleOnDump(t *testing.T) {
	g, merge, phi := diamond(t)
	rec := &recorder{}
	p := NewPrinter(rec, nil)
	dc := NewDebugContext(context.Background(), Config{Options: Options{ScheduleOnDump: true}})

	point := ir.NewType("demo.Point")
	m := ir.NewMethod(point, "pick", ir.NewSignature(ir.NewType("int")), ir.ModStatic, nil)
	must(t, p.BeginGroup(dc, "demo.Point.pick", "pick", m, 4, map[string]any{"graph": g}))
	must(t, p.Print(dc, g, map[string]any{"phase": "parse"}, 3, "After %s", "parsing"))
	must(t, p.EndGroup())
	must(t, p.Close())

	if len(rec.groups) != 1 || rec.groups[0].BCI != 4 {
		t.Fatalf("groups = %+v", rec.groups)
	}
	if _, ok := rec.groups[0].Method.(printer.MethodRef); !ok {
		t.Errorf("group method = %T, want MethodRef", rec.groups[0].Method)
	}
	if _, ok := prop(rec.groups[0].Props, "graph").(printer.Subgraph); !ok {
		t.Errorf("group graph property = %T, want Subgraph", prop(rec.groups[0].Props, "graph"))
	}

	gr := rec.graphs[0]
	if gr.Title != "3: After parsing" {
		t.Errorf("title = %q", gr.Title)
	}
	if len(gr.Nodes) != g.NodeCount() {
		t.Errorf("nodes = %d, want %d", len(gr.Nodes), g.NodeCount())
	}
	if len(gr.Blocks) != 4 {
		t.Fatalf("blocks = %d, want 4", len(gr.Blocks))
	}

	count := 0
	for _, b := range gr.Blocks {
		for _, id := range b.Nodes {
			if id == phi.ID() {
				count++
				if !contains(b.Nodes, merge.ID()) {
					t.Errorf("phi emitted in block %d without its merge", b.ID)
				}
			}
		}
	}
	if count != 1 {
		t.Errorf("phi emitted %d times, want once", count)
	}

	for _, n := range gr.Nodes {
		if n.ID == phi.ID() {
			if got := prop(n.Props, KeyNodeToBlock); got != printer.Int(3) {
				t.Errorf("phi node-to-block = %v, want 3", got)
			}
			if got := prop(n.Props, KeyCategory); got != printer.String("phi") {
				t.Errorf("phi category = %v", got)
			}
		}
	}
	if !rec.closed {
		t.Error("encoder not closed")
	}
}

func TestPrinterUnscheduled(t *testing.T) {
	g, _, _ := diamond(t)
	rec := &recorder{}
	p := NewPrinter(rec, nil)
	dc := NewDebugContext(context.Background(), Config{
		Options:   Options{ScheduleOnDump: true},
		Scheduler: brokenScheduler{},
	})
	must(t, p.Print(dc, g, nil, 0, "broken"))
	gr := rec.graphs[0]
	if len(gr.Blocks) != 0 {
		t.Errorf("blocks = %d, want none after a failed schedule", len(gr.Blocks))
	}
	for _, n := range gr.Nodes {
		if prop(n.Props, KeyNodeToBlock) != nil {
			t.Errorf("node %d has node-to-block without a schedule", n.ID)
		}
	}
}

type panicStringer struct{}

func (panicStringer) String() string { panic("broken String") }

func TestPrinterUnusualPropertyValues(t *testing.T) {
	g, merge, phi := diamond(t)
	merge.SetProperty("stamp", (*ir.Type)(nil))
	merge.SetProperty("target", (*ir.Method)(nil))
	merge.SetProperty("label", panicStringer{})
	phi.SetProperty("nodeSourcePosition", ir.NewSourcePosition(nil, ir.NewMethod(nil, "lambda", nil, 0, nil), 3))

	rec := &recorder{}
	p := NewPrinter(rec, nil)
	props := map[string]any{"signature": (*ir.Signature)(nil), "class": (*ir.NodeClass)(nil)}
	must(t, p.BeginGroup(nil, "group", "group", nil, 0, props))
	must(t, p.Print(nil, g, props, 1, "title %v", (*ir.Type)(nil)))
	must(t, p.EndGroup())
	must(t, p.Close())

	if got := prop(rec.groups[0].Props, "signature"); got != nil {
		t.Errorf("nil signature property = %v, want nil", got)
	}
	for _, n := range rec.graphs[0].Nodes {
		switch n.ID {
		case merge.ID():
			if got := prop(n.Props, "stamp"); got != nil {
				t.Errorf("nil type property = %v, want nil", got)
			}
			s, ok := prop(n.Props, "label").(printer.String)
			if !ok || s == "" {
				t.Errorf("panicking Stringer property = %#v, want text", prop(n.Props, "label"))
			}
		case phi.ID():
			pos, ok := prop(n.Props, "nodeSourcePosition").(printer.PositionRef)
			if !ok || pos.Frames[0].StackFrame != "lambda(Unknown:3)" {
				t.Errorf("position = %#v", prop(n.Props, "nodeSourcePosition"))
			}
		}
	}
}

func TestPrinterErrors(t *testing.T) {
	p := NewPrinter(&recorder{}, nil)
	if err := p.Print(nil, nil, nil, 0, "nil"); err == nil {
		t.Error("Print(nil graph) should fail")
	}
	if err := p.EndGroup(); err == nil {
		t.Error("EndGroup() without a group should fail")
	}
	must(t, p.BeginGroup(nil, "open", "open", nil, 0, nil))
	if err := p.Close(); err == nil {
		t.Error("Close() with an open group should fail")
	}
}

func contains(ids []int, id int) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
