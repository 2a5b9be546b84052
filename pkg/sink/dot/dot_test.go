package dot

import (
	"strings"
	"testing"

	"github.com/matzehuels/irdump/pkg/printer"
)

func sampleGraph() *printer.GraphRecord {
	start := printer.ClassRecord{Name: "ir.StartNode", NameTemplate: "Start", Successors: []printer.Port{{Name: "next", Direct: true}}}
	ret := printer.ClassRecord{Name: "ir.ReturnNode", NameTemplate: "Return", Inputs: []printer.Port{{Name: "result", Direct: true}}}
	c := printer.ClassRecord{Name: "ir.ConstantNode", NameTemplate: "C(1)"}
	return &printer.GraphRecord{
		Title: "0: sample",
		Nodes: []printer.NodeRecord{
			{ID: 0, Class: start, Successors: []printer.EdgeRecord{{Slot: 0, Targets: []int{1}}},
				Props: []printer.Property{{Key: "category", Value: printer.String("begin")}}},
			{ID: 1, Class: ret, HasPredecessor: true, Inputs: []printer.EdgeRecord{{Slot: 0, Targets: []int{2}}}},
			{ID: 2, Class: c, Props: []printer.Property{{Key: "rawvalue", Value: printer.String("1")}}},
		},
		Blocks: []printer.BlockRecord{{ID: 0, Nodes: []int{0, 1}}},
	}
}

func TestToDOT(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		want    []string
		notWant []string
	}{
		{
			name: "Plain",
			want: []string{
				`n0 [label="0 Start", fillcolor="#f4c7c3"]`,
				`n0 -> n1 [color="#c5221f", label="next"]`,
				`n2 -> n1 [style=dashed, color="#1a73e8", label="result"]`,
				`label="0: sample"`,
			},
			notWant: []string{"cluster_", "rawvalue"},
		},
		{
			name: "Detailed",
			opts: Options{Detailed: true},
			want: []string{`label="2 C(1)\nrawvalue: 1"`},
		},
		{
			name: "Blocks",
			opts: Options{Blocks: true},
			want: []string{"subgraph cluster_0", `label="B0"`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ToDOT(sampleGraph(), tt.opts)
			for _, s := range tt.want {
				if !strings.Contains(out, s) {
					t.Errorf("output missing %q:\n%s", s, out)
				}
			}
			for _, s := range tt.notWant {
				if strings.Contains(out, s) {
					t.Errorf("output contains %q", s)
				}
			}
		})
	}
}

func TestWriterOneDigraphPerGraph(t *testing.T) {
	var sb strings.Builder
	w := NewWriter(&sb, Options{})
	for i := 0; i < 2; i++ {
		if err := w.OpenGraph("g", nil); err != nil {
			t.Fatal(err)
		}
		if err := w.CloseGraph(); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(sb.String(), "digraph G {"); n != 2 {
		t.Errorf("digraphs = %d, want 2", n)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 10.00 20.00" xmlns="x"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 10.00 20.00" width="10" height="20"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg/>")); string(got) != "<svg/>" {
		t.Errorf("svg without viewBox changed: %s", got)
	}
}
