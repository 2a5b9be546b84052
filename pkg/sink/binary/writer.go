package binary

import (
	"bufio"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/matzehuels/irdump/pkg/printer"
)

// Writer is a [printer.Encoder] producing the binary dump format.
//
// The stream starts with the magic "IRDG" and a version byte. Each record is
// a tag byte followed by one msgpack value. Node classes are pooled: a class
// is written in full on first use and by id afterwards.
type Writer struct {
	bw      *bufio.Writer
	enc     *msgpack.Encoder
	classes map[string]int
	started bool
}

// NewWriter creates a writer on w. The writer buffers; Close flushes but
// does not close w.
func NewWriter(w io.Writer) *Writer {
	bw := bufio.NewWriter(w)
	return &Writer{bw: bw, enc: msgpack.NewEncoder(bw), classes: make(map[string]int)}
}

func (w *Writer) frame(t tag, v any) error {
	if !w.started {
		if _, err := w.bw.WriteString(magic); err != nil {
			return err
		}
		if err := w.enc.EncodeUint8(version); err != nil {
			return err
		}
		w.started = true
	}
	if err := w.enc.EncodeUint8(uint8(t)); err != nil {
		return err
	}
	if v == nil {
		return nil
	}
	return w.enc.Encode(v)
}

func (w *Writer) BeginGroup(g printer.GroupRecord) error {
	return w.frame(tagBeginGroup, wireGroup{
		Name:      g.Name,
		ShortName: g.ShortName,
		Method:    w.value(g.Method),
		BCI:       g.BCI,
		Props:     w.props(g.Props),
	})
}

func (w *Writer) EndGroup() error {
	if err := w.frame(tagEndGroup, nil); err != nil {
		return err
	}
	return w.bw.Flush()
}

func (w *Writer) OpenGraph(title string, props []printer.Property) error {
	return w.frame(tagOpenGraph, wireGraph{Title: title, Props: w.props(props)})
}

func (w *Writer) Node(n printer.NodeRecord) error   { return w.frame(tagNode, w.node(n)) }
func (w *Writer) Block(b printer.BlockRecord) error { return w.frame(tagBlock, b) }

func (w *Writer) CloseGraph() error {
	if err := w.frame(tagCloseGraph, nil); err != nil {
		return err
	}
	return w.bw.Flush()
}

// Close writes the header of an empty stream if needed and flushes.
func (w *Writer) Close() error {
	if !w.started {
		if _, err := w.bw.WriteString(magic); err != nil {
			return err
		}
		if err := w.enc.EncodeUint8(version); err != nil {
			return err
		}
		w.started = true
	}
	return w.bw.Flush()
}

func (w *Writer) class(c printer.ClassRecord) wireClass {
	if id, ok := w.classes[c.Name]; ok {
		return wireClass{ID: id}
	}
	id := len(w.classes)
	w.classes[c.Name] = id
	return wireClass{ID: id, Record: &c}
}

func (w *Writer) node(n printer.NodeRecord) wireNode {
	return wireNode{
		ID:             n.ID,
		Class:          w.class(n.Class),
		HasPredecessor: n.HasPredecessor,
		Props:          w.props(n.Props),
		Inputs:         n.Inputs,
		Successors:     n.Successors,
	}
}

func (w *Writer) props(ps []printer.Property) []wireProperty {
	if len(ps) == 0 {
		return nil
	}
	out := make([]wireProperty, len(ps))
	for i, p := range ps {
		out[i] = wireProperty{Key: p.Key, Value: w.value(p.Value)}
	}
	return out
}

func (w *Writer) value(v printer.Value) wireValue {
	switch x := v.(type) {
	case printer.Int:
		return wireValue{Kind: kindInt, Int: int64(x)}
	case printer.Double:
		return wireValue{Kind: kindDouble, Double: float64(x)}
	case printer.String:
		return wireValue{Kind: kindString, String: string(x)}
	case printer.Bool:
		return wireValue{Kind: kindBool, Bool: bool(x)}
	case printer.Enum:
		return wireValue{Kind: kindEnum, Enum: &x}
	case printer.NodeRef:
		return wireValue{Kind: kindNode, Int: int64(x.ID)}
	case printer.ClassRef:
		return wireValue{Kind: kindClass, String: x.Name}
	case printer.SignatureRef:
		return wireValue{Kind: kindSignature, Signature: &x}
	case printer.MethodRef:
		return wireValue{Kind: kindMethod, Method: &x}
	case printer.FieldRef:
		return wireValue{Kind: kindField, Field: &x}
	case printer.PositionRef:
		return wireValue{Kind: kindPosition, Position: &x}
	case printer.List:
		l := make([]wireValue, len(x))
		for i, e := range x {
			l[i] = w.value(e)
		}
		return wireValue{Kind: kindList, List: l}
	case printer.Subgraph:
		g := &wireGraph{Title: x.Graph.Title, Props: w.props(x.Graph.Props), Blocks: x.Graph.Blocks}
		for _, n := range x.Graph.Nodes {
			g.Nodes = append(g.Nodes, w.node(n))
		}
		return wireValue{Kind: kindGraph, Graph: g}
	}
	return wireValue{Kind: kindNull}
}
