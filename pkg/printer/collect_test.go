package printer

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/irdump/pkg/errors"
)

func TestCollector(t *testing.T) {
	c := NewCollector()
	steps := []func() error{
		func() error { return c.OpenGraph("0: loose", nil) },
		func() error { return c.CloseGraph() },
		func() error { return c.BeginGroup(GroupRecord{Name: "outer"}) },
		func() error { return c.OpenGraph("1: a", nil) },
		func() error { return c.Node(NodeRecord{ID: 0}) },
		func() error { return c.Block(BlockRecord{ID: 0, Nodes: []int{0}}) },
		func() error { return c.CloseGraph() },
		func() error { return c.BeginGroup(GroupRecord{Name: "inner"}) },
		func() error { return c.OpenGraph("2: b", nil) },
		func() error { return c.CloseGraph() },
		func() error { return c.EndGroup() },
		func() error { return c.EndGroup() },
		func() error { return c.Close() },
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	var got []string
	c.Document().Walk(func(path []string, g *GraphRecord) {
		got = append(got, strings.Join(append(path, g.Title), "/"))
	})
	want := []string{"0: loose", "outer/1: a", "outer/inner/2: b"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Walk() mismatch (-want +got):\n%s", diff)
	}
	if n := len(c.Document().Groups[0].Graphs[0].Nodes); n != 1 {
		t.Errorf("collected nodes = %d, want 1", n)
	}
}

func TestCollectorStructuralErrors(t *testing.T) {
	tests := []struct {
		name string
		run  func(c *Collector) error
	}{
		{"NodeOutsideGraph", func(c *Collector) error { return c.Node(NodeRecord{}) }},
		{"BlockOutsideGraph", func(c *Collector) error { return c.Block(BlockRecord{}) }},
		{"CloseWithoutGraph", func(c *Collector) error { return c.CloseGraph() }},
		{"EndWithoutGroup", func(c *Collector) error { return c.EndGroup() }},
		{"NestedGraph", func(c *Collector) error {
			_ = c.OpenGraph("a", nil)
			return c.OpenGraph("b", nil)
		}},
		{"GroupInsideGraph", func(c *Collector) error {
			_ = c.OpenGraph("a", nil)
			return c.BeginGroup(GroupRecord{Name: "g"})
		}},
		{"CloseWithOpenGraph", func(c *Collector) error {
			_ = c.OpenGraph("a", nil)
			return c.Close()
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run(NewCollector())
			if !errors.Is(err, errors.ErrCodeStructural) {
				t.Errorf("error = %v, want %s", err, errors.ErrCodeStructural)
			}
		})
	}
}

func TestTee(t *testing.T) {
	a, b := NewCollector(), NewCollector()
	enc := Tee(a, b)
	if err := enc.BeginGroup(GroupRecord{Name: "g"}); err != nil {
		t.Fatal(err)
	}
	if err := enc.OpenGraph("0: x", nil); err != nil {
		t.Fatal(err)
	}
	if err := enc.Node(NodeRecord{ID: 3}); err != nil {
		t.Fatal(err)
	}
	for _, step := range []func() error{enc.CloseGraph, enc.EndGroup, enc.Close} {
		if err := step(); err != nil {
			t.Fatal(err)
		}
	}
	if diff := cmp.Diff(a.Document(), b.Document()); diff != "" {
		t.Errorf("tee targets differ (-a +b):\n%s", diff)
	}

	if err := Tee(NewCollector(), NewCollector()).EndGroup(); !errors.Is(err, errors.ErrCodeStructural) {
		t.Errorf("EndGroup() error = %v, want STRUCTURAL", err)
	}
}
