// Package json writes dumps as a single JSON document.
//
// The document mirrors the group and graph nesting of the dump. Property
// maps keep the order the printer emitted them in, and values with structure
// (node references, enums, methods) become small tagged objects:
//
//	{"node": 3}
//	{"enum": "ir.InputType", "value": "Condition"}
//	{"method": "demo.Point.norm()double", "modifiers": 1}
package json

import (
	encjson "encoding/json"
	"io"
	"math"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/matzehuels/irdump/pkg/errors"
	"github.com/matzehuels/irdump/pkg/printer"
)

// Option configures a [Writer].
type Option func(*Writer)

// WithCompact disables indentation.
func WithCompact() Option { return func(w *Writer) { w.indent = "" } }

// WithIndent sets the indentation string. The default is two spaces.
func WithIndent(indent string) Option { return func(w *Writer) { w.indent = indent } }

// Writer is a [printer.Encoder] that buffers the dump and writes it to the
// underlying writer on Close.
type Writer struct {
	*printer.Collector
	w      io.Writer
	indent string
}

// NewWriter creates a JSON writer on w. Close does not close w.
func NewWriter(w io.Writer, opts ...Option) *Writer {
	jw := &Writer{Collector: printer.NewCollector(), w: w, indent: "  "}
	for _, opt := range opts {
		opt(jw)
	}
	return jw
}

// Close writes the document.
func (w *Writer) Close() error {
	if err := w.Collector.Close(); err != nil {
		return err
	}
	return Write(w.w, w.Document(), w.indent)
}

// Write encodes doc to w.
func Write(w io.Writer, doc *printer.Document, indent string) error {
	enc := encjson.NewEncoder(w)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(document(doc)); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "encode json")
	}
	return nil
}

type jsonDocument struct {
	Groups []jsonGroup `json:"groups"`
	Graphs []jsonGraph `json:"graphs,omitempty"`
}

type jsonGroup struct {
	Name      string                              `json:"name"`
	ShortName string                              `json:"short_name,omitempty"`
	Method    any                                 `json:"method,omitempty"`
	BCI       int                                 `json:"bci"`
	Props     *orderedmap.OrderedMap[string, any] `json:"props,omitempty"`
	Groups    []jsonGroup                         `json:"groups,omitempty"`
	Graphs    []jsonGraph                         `json:"graphs,omitempty"`
}

type jsonGraph struct {
	Title  string                              `json:"title,omitempty"`
	Props  *orderedmap.OrderedMap[string, any] `json:"props,omitempty"`
	Nodes  []jsonNode                          `json:"nodes"`
	Blocks []jsonBlock                         `json:"blocks,omitempty"`
}

type jsonNode struct {
	ID             int                                   `json:"id"`
	Class          string                                `json:"class"`
	Template       string                                `json:"template,omitempty"`
	HasPredecessor bool                                  `json:"has_predecessor,omitempty"`
	Props          *orderedmap.OrderedMap[string, any]   `json:"props,omitempty"`
	Inputs         *orderedmap.OrderedMap[string, []int] `json:"inputs,omitempty"`
	Successors     *orderedmap.OrderedMap[string, []int] `json:"successors,omitempty"`
}

type jsonBlock struct {
	ID         int   `json:"id"`
	Nodes      []int `json:"nodes"`
	Successors []int `json:"successors,omitempty"`
}

func document(d *printer.Document) jsonDocument {
	out := jsonDocument{Groups: []jsonGroup{}}
	for _, g := range d.Groups {
		out.Groups = append(out.Groups, group(g))
	}
	for _, g := range d.Graphs {
		out.Graphs = append(out.Graphs, graph(g))
	}
	return out
}

func group(g *printer.Group) jsonGroup {
	out := jsonGroup{
		Name:      g.Record.Name,
		ShortName: g.Record.ShortName,
		Method:    value(g.Record.Method),
		BCI:       g.Record.BCI,
		Props:     props(g.Record.Props),
	}
	for _, sub := range g.Groups {
		out.Groups = append(out.Groups, group(sub))
	}
	for _, gr := range g.Graphs {
		out.Graphs = append(out.Graphs, graph(gr))
	}
	return out
}

func graph(g *printer.GraphRecord) jsonGraph {
	out := jsonGraph{Title: g.Title, Props: props(g.Props), Nodes: []jsonNode{}}
	for _, n := range g.Nodes {
		out.Nodes = append(out.Nodes, node(n))
	}
	for _, b := range g.Blocks {
		out.Blocks = append(out.Blocks, jsonBlock{ID: b.ID, Nodes: b.Nodes, Successors: b.Successors})
	}
	return out
}

func node(n printer.NodeRecord) jsonNode {
	return jsonNode{
		ID:             n.ID,
		Class:          n.Class.Name,
		Template:       n.Class.NameTemplate,
		HasPredecessor: n.HasPredecessor,
		Props:          props(n.Props),
		Inputs:         edges(n.Class.Inputs, n.Inputs),
		Successors:     edges(n.Class.Successors, n.Successors),
	}
}

func edges(ports []printer.Port, recs []printer.EdgeRecord) *orderedmap.OrderedMap[string, []int] {
	if len(recs) == 0 {
		return nil
	}
	m := orderedmap.New[string, []int]()
	for _, e := range recs {
		name := "?"
		if e.Slot >= 0 && e.Slot < len(ports) {
			name = ports[e.Slot].Name
		}
		m.Set(name, e.Targets)
	}
	return m
}

func props(ps []printer.Property) *orderedmap.OrderedMap[string, any] {
	if len(ps) == 0 {
		return nil
	}
	m := orderedmap.New[string, any]()
	for _, p := range ps {
		m.Set(p.Key, value(p.Value))
	}
	return m
}

func value(v printer.Value) any {
	switch x := v.(type) {
	case nil:
		return nil
	case printer.Int:
		return int64(x)
	case printer.Double:
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return printer.Format(x)
		}
		return f
	case printer.Bool:
		return bool(x)
	case printer.String:
		return string(x)
	case printer.Enum:
		return map[string]any{"enum": x.Type, "value": printer.Format(x)}
	case printer.NodeRef:
		return map[string]any{"node": x.ID}
	case printer.ClassRef:
		return map[string]any{"class": x.Name}
	case printer.SignatureRef:
		return map[string]any{"signature": printer.Format(x)}
	case printer.MethodRef:
		return map[string]any{"method": printer.Format(x), "modifiers": x.Modifiers}
	case printer.FieldRef:
		return map[string]any{"field": printer.Format(x), "type": x.Type, "modifiers": x.Modifiers}
	case printer.PositionRef:
		frames := make([]string, len(x.Frames))
		for i, f := range x.Frames {
			frames[i] = f.StackFrame
		}
		return map[string]any{"position": frames}
	case printer.List:
		l := make([]any, len(x))
		for i, e := range x {
			l[i] = value(e)
		}
		return l
	case printer.Subgraph:
		return graph(x.Graph)
	}
	return printer.Format(v)
}
