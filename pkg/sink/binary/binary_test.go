package binary_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/matzehuels/irdump/pkg/dump"
	"github.com/matzehuels/irdump/pkg/errors"
	"github.com/matzehuels/irdump/pkg/ir"
	"github.com/matzehuels/irdump/pkg/printer"
	"github.com/matzehuels/irdump/pkg/sink/binary"
)

func sample(t *testing.T) *ir.Graph {
	t.Helper()
	g := ir.NewGraph("sample", nil)
	start := g.Add(ir.StartClass)
	ret := g.Add(ir.ReturnClass)
	sum := g.Add(ir.AddClass)
	inner := g.Add(ir.AddClass)
	for _, err := range []error{
		start.SetSuccessor(ir.SlotNext, ret),
		inner.SetInput(ir.SlotX, g.AddConstant(ir.IntConstant(1))),
		inner.SetInput(ir.SlotY, g.AddConstant(ir.IntConstant(2))),
		sum.SetInput(ir.SlotX, inner),
		sum.SetInput(ir.SlotY, g.AddConstant(ir.DoubleConstant(0.5))),
		ret.SetInput(ir.SlotResult, sum),
	} {
		if err != nil {
			t.Fatal(err)
		}
	}
	point := ir.NewType("demo.Point")
	m := ir.NewMethod(point, "sum", ir.NewSignature(ir.NewType("int")), ir.ModStatic, []byte{1, 2})
	sum.SetProperty("position", ir.NewSourcePosition(nil, m, 7))
	sum.SetProperty("users", []*ir.Node{ret})
	sum.SetProperty("snippet", ir.NewCachedGraph(ir.NewGraph("snippet", nil)))
	return g
}

func export(t *testing.T, enc printer.Encoder, g *ir.Graph) {
	t.Helper()
	dc := dump.NewDebugContext(context.Background(), dump.Config{
		Options: dump.Options{ScheduleOnDump: true, Probabilities: true},
	})
	p := dump.NewPrinter(enc, nil)
	m := ir.NewMethod(ir.NewType("demo.Point"), "sum", ir.NewSignature(ir.NewType("int")), 0, nil)
	steps := []error{
		p.BeginGroup(dc, "demo.Point.sum", "sum", m, 2, map[string]any{"id": "x"}),
		p.Print(dc, g, map[string]any{"phase": "parse"}, 0, "After parsing"),
		p.Print(dc, g, nil, 1, "Again"),
		p.EndGroup(),
		p.Close(),
	}
	for i, err := range steps {
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	g := sample(t)

	want := printer.NewCollector()
	export(t, want, g)

	var buf bytes.Buffer
	export(t, binary.NewWriter(&buf), sample(t))
	got, err := binary.Decode(&buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if diff := cmp.Diff(want.Document(), got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestClassPool(t *testing.T) {
	var pooled, single bytes.Buffer
	export(t, binary.NewWriter(&pooled), sample(t))

	g := ir.NewGraph("one", nil)
	g.Add(ir.AddClass)
	export(t, binary.NewWriter(&single), g)

	doc, err := binary.Decode(&pooled)
	if err != nil {
		t.Fatal(err)
	}
	graphs := doc.Groups[0].Graphs
	if len(graphs) != 2 {
		t.Fatalf("graphs = %d, want 2", len(graphs))
	}
	for _, n := range graphs[1].Nodes {
		if n.Class.Name == "" {
			t.Errorf("node %d lost its pooled class", n.ID)
		}
	}
}

func TestReplayIntoCollector(t *testing.T) {
	var buf bytes.Buffer
	export(t, binary.NewWriter(&buf), sample(t))
	r, err := binary.NewReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	c := printer.NewCollector()
	if err := r.Replay(c); err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if n := len(c.Document().Groups); n != 1 {
		t.Errorf("groups = %d, want 1", n)
	}
}

func TestEmptyStream(t *testing.T) {
	var buf bytes.Buffer
	if err := binary.NewWriter(&buf).Close(); err != nil {
		t.Fatal(err)
	}
	doc, err := binary.Decode(&buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(doc.Groups) != 0 || len(doc.Graphs) != 0 {
		t.Errorf("empty stream decoded to %+v", doc)
	}
}

func TestDecodeErrors(t *testing.T) {
	var valid bytes.Buffer
	export(t, binary.NewWriter(&valid), sample(t))
	data := valid.Bytes()

	tests := []struct {
		name string
		in   []byte
		code errors.Code
	}{
		{"Empty", nil, errors.ErrCodeInvalidFormat},
		{"BadMagic", []byte("NOPE\x01"), errors.ErrCodeInvalidFormat},
		{"BadVersion", []byte("IRDG\x09"), errors.ErrCodeUnsupported},
		{"UnknownTag", []byte("IRDG\x01\x7f"), errors.ErrCodeInvalidFormat},
		{"Truncated", data[:len(data)-3], ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := binary.Decode(bytes.NewReader(tt.in))
			if tt.code == "" {
				if err == nil {
					t.Error("Decode() succeeded on a damaged stream")
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("Decode() error = %v, want %s", err, tt.code)
			}
		})
	}
}
