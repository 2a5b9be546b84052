package binary

import (
	"bufio"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/matzehuels/irdump/pkg/errors"
	"github.com/matzehuels/irdump/pkg/printer"
)

// Reader decodes a stream written by [Writer].
type Reader struct {
	dec     *msgpack.Decoder
	classes []printer.ClassRecord
}

// NewReader checks the stream header and returns a reader positioned at
// the first record.
func NewReader(r io.Reader) (*Reader, error) {
	br := bufio.NewReader(r)
	head := make([]byte, len(magic))
	if _, err := io.ReadFull(br, head); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read header")
	}
	if string(head) != magic {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "not a graph dump: bad magic %q", head)
	}
	dec := msgpack.NewDecoder(br)
	v, err := dec.DecodeUint8()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read version")
	}
	if v != version {
		return nil, errors.New(errors.ErrCodeUnsupported, "dump version %d, want %d", v, version)
	}
	return &Reader{dec: dec}, nil
}

// Replay feeds every record of the stream to enc, in order, and returns
// nil at the end of the stream. enc is not closed.
func (r *Reader) Replay(enc printer.Encoder) error {
	for {
		t, err := r.dec.DecodeUint8()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "read record tag")
		}
		if err := r.record(tag(t), enc); err != nil {
			return err
		}
	}
}

func (r *Reader) record(t tag, enc printer.Encoder) error {
	var err error
	switch t {
	case tagBeginGroup:
		var g wireGroup
		if err = r.dec.Decode(&g); err == nil {
			var rec printer.GroupRecord
			if rec, err = r.group(g); err == nil {
				err = enc.BeginGroup(rec)
			}
		}
	case tagEndGroup:
		err = enc.EndGroup()
	case tagOpenGraph:
		var g wireGraph
		if err = r.dec.Decode(&g); err == nil {
			var props []printer.Property
			if props, err = r.props(g.Props); err == nil {
				err = enc.OpenGraph(g.Title, props)
			}
		}
	case tagNode:
		var n wireNode
		if err = r.dec.Decode(&n); err == nil {
			var rec printer.NodeRecord
			if rec, err = r.node(n); err == nil {
				err = enc.Node(rec)
			}
		}
	case tagBlock:
		var b printer.BlockRecord
		if err = r.dec.Decode(&b); err == nil {
			err = enc.Block(b)
		}
	case tagCloseGraph:
		err = enc.CloseGraph()
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown record %s", t)
	}
	if err != nil && errors.GetCode(err) == "" {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s record", t)
	}
	return err
}

// Decode reads a whole stream into a document.
func Decode(r io.Reader) (*printer.Document, error) {
	rd, err := NewReader(r)
	if err != nil {
		return nil, err
	}
	c := printer.NewCollector()
	if err := rd.Replay(c); err != nil {
		return nil, err
	}
	if err := c.Close(); err != nil {
		return nil, err
	}
	return c.Document(), nil
}

func (r *Reader) class(c wireClass) (printer.ClassRecord, error) {
	if c.Record != nil {
		if c.ID != len(r.classes) {
			return printer.ClassRecord{}, fmt.Errorf("class %q has pool id %d, want %d", c.Record.Name, c.ID, len(r.classes))
		}
		r.classes = append(r.classes, *c.Record)
		return *c.Record, nil
	}
	if c.ID < 0 || c.ID >= len(r.classes) {
		return printer.ClassRecord{}, fmt.Errorf("unknown class pool id %d", c.ID)
	}
	return r.classes[c.ID], nil
}

func (r *Reader) group(g wireGroup) (printer.GroupRecord, error) {
	m, err := r.value(g.Method)
	if err != nil {
		return printer.GroupRecord{}, err
	}
	props, err := r.props(g.Props)
	if err != nil {
		return printer.GroupRecord{}, err
	}
	return printer.GroupRecord{Name: g.Name, ShortName: g.ShortName, Method: m, BCI: g.BCI, Props: props}, nil
}

func (r *Reader) node(n wireNode) (printer.NodeRecord, error) {
	c, err := r.class(n.Class)
	if err != nil {
		return printer.NodeRecord{}, err
	}
	props, err := r.props(n.Props)
	if err != nil {
		return printer.NodeRecord{}, err
	}
	return printer.NodeRecord{
		ID:             n.ID,
		Class:          c,
		HasPredecessor: n.HasPredecessor,
		Props:          props,
		Inputs:         n.Inputs,
		Successors:     n.Successors,
	}, nil
}

func (r *Reader) props(ps []wireProperty) ([]printer.Property, error) {
	if len(ps) == 0 {
		return nil, nil
	}
	out := make([]printer.Property, len(ps))
	for i, p := range ps {
		v, err := r.value(p.Value)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", p.Key, err)
		}
		out[i] = printer.Property{Key: p.Key, Value: v}
	}
	return out, nil
}

func (r *Reader) value(w wireValue) (printer.Value, error) {
	switch w.Kind {
	case kindNull:
		return nil, nil
	case kindInt:
		return printer.Int(w.Int), nil
	case kindDouble:
		return printer.Double(w.Double), nil
	case kindString:
		return printer.String(w.String), nil
	case kindBool:
		return printer.Bool(w.Bool), nil
	case kindNode:
		return printer.NodeRef{ID: int(w.Int)}, nil
	case kindClass:
		return printer.ClassRef{Name: w.String}, nil
	case kindEnum:
		if w.Enum != nil {
			return *w.Enum, nil
		}
	case kindSignature:
		if w.Signature != nil {
			return *w.Signature, nil
		}
	case kindMethod:
		if w.Method != nil {
			return *w.Method, nil
		}
	case kindField:
		if w.Field != nil {
			return *w.Field, nil
		}
	case kindPosition:
		if w.Position != nil {
			return *w.Position, nil
		}
	case kindList:
		l := make(printer.List, len(w.List))
		for i, e := range w.List {
			v, err := r.value(e)
			if err != nil {
				return nil, err
			}
			l[i] = v
		}
		return l, nil
	case kindGraph:
		if w.Graph != nil {
			return r.subgraph(w.Graph)
		}
	default:
		return nil, fmt.Errorf("unknown value kind %d", w.Kind)
	}
	return nil, fmt.Errorf("value kind %d without payload", w.Kind)
}

func (r *Reader) subgraph(g *wireGraph) (printer.Value, error) {
	props, err := r.props(g.Props)
	if err != nil {
		return nil, err
	}
	rec := &printer.GraphRecord{Title: g.Title, Props: props, Blocks: g.Blocks}
	for _, n := range g.Nodes {
		nr, err := r.node(n)
		if err != nil {
			return nil, err
		}
		rec.Nodes = append(rec.Nodes, nr)
	}
	return printer.Subgraph{Graph: rec}, nil
}
