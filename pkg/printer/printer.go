package printer

import (
	"sort"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/irdump/pkg/errors"
)

// maxEmbedDepth bounds nesting of graphs embedded in properties.
const maxEmbedDepth = 16

// Printer drives an [Encoder] over graphs exposed through an [Adapter]. It
// is the only component that knows the record order; adapters and encoders
// never call each other.
//
// A Printer is not safe for concurrent use.
type Printer[G, N, B, E any] struct {
	adapter Adapter[G, N, B, E]
	enc     Encoder
	logger  *log.Logger
	groups  int
}

// New creates a printer. A nil logger disables logging.
func New[G, N, B, E any](adapter Adapter[G, N, B, E], enc Encoder, logger *log.Logger) *Printer[G, N, B, E] {
	return &Printer[G, N, B, E]{adapter: adapter, enc: enc, logger: logger}
}

// BeginGroup opens a group. method may be nil; it is converted like any
// other property value.
func (p *Printer[G, N, B, E]) BeginGroup(g G, name, shortName string, method any, bci int, props map[string]any) error {
	rec := GroupRecord{Name: name, ShortName: shortName, BCI: bci}
	if method != nil {
		v, err := p.resolve(p.adapter.Value(g, method), 0)
		if err != nil {
			return err
		}
		rec.Method = v
	}
	ps, err := p.properties(g, props, 0)
	if err != nil {
		return err
	}
	rec.Props = ps
	if err := p.enc.BeginGroup(rec); err != nil {
		return errors.IO(err, "begin group %q", name)
	}
	p.groups++
	return nil
}

// EndGroup closes the innermost open group.
func (p *Printer[G, N, B, E]) EndGroup() error {
	if p.groups == 0 {
		return errors.New(errors.ErrCodeStructural, "end group without open group")
	}
	if err := p.enc.EndGroup(); err != nil {
		return errors.IO(err, "end group")
	}
	p.groups--
	return nil
}

// Print exports one graph titled FormatTitle(id, format, args...).
func (p *Printer[G, N, B, E]) Print(g G, props map[string]any, id int, format string, args ...any) error {
	title := FormatTitle(id, format, args...)
	rec, err := p.graph(g, props, title, 0)
	if err != nil {
		return err
	}

	if err := p.enc.OpenGraph(rec.Title, rec.Props); err != nil {
		return errors.IO(err, "open graph %q", title)
	}
	for _, n := range rec.Nodes {
		if err := p.enc.Node(n); err != nil {
			return errors.IO(err, "write node %d", n.ID)
		}
	}
	for _, b := range rec.Blocks {
		if err := p.enc.Block(b); err != nil {
			return errors.IO(err, "write block %d", b.ID)
		}
	}
	if err := p.enc.CloseGraph(); err != nil {
		return errors.IO(err, "close graph %q", title)
	}

	if p.logger != nil {
		p.logger.Debug("printed graph", "title", title, "nodes", len(rec.Nodes), "blocks", len(rec.Blocks))
	}
	return nil
}

// Close closes the encoder. Groups left open are an error.
func (p *Printer[G, N, B, E]) Close() error {
	if err := p.enc.Close(); err != nil {
		return errors.IO(err, "close encoder")
	}
	if p.groups > 0 {
		return errors.New(errors.ErrCodeStructural, "%d group(s) left open", p.groups)
	}
	return nil
}

// graph builds the full record of g.
func (p *Printer[G, N, B, E]) graph(g G, props map[string]any, title string, depth int) (*GraphRecord, error) {
	rec := &GraphRecord{Title: title}
	ps, err := p.properties(g, props, depth)
	if err != nil {
		return nil, err
	}
	rec.Props = ps

	a := p.adapter
	for _, n := range a.Nodes(g) {
		nr, err := p.node(g, n, depth)
		if err != nil {
			return nil, err
		}
		rec.Nodes = append(rec.Nodes, nr)
	}

	seen := make(map[int]bool)
	for _, b := range a.Blocks(g) {
		br := BlockRecord{ID: a.BlockID(b)}
		add := func(n N) {
			id := a.NodeID(n)
			if id < 0 || seen[id] {
				return
			}
			seen[id] = true
			br.Nodes = append(br.Nodes, id)
		}
		for _, n := range a.BlockNodes(g, b) {
			add(n)
			for _, o := range a.OwnedNodes(n) {
				add(o)
			}
		}
		for _, s := range a.BlockSuccessors(b) {
			br.Successors = append(br.Successors, a.BlockID(s))
		}
		rec.Blocks = append(rec.Blocks, br)
	}
	return rec, nil
}

func (p *Printer[G, N, B, E]) node(g G, n N, depth int) (NodeRecord, error) {
	a := p.adapter
	id := a.NodeID(n)
	nr := NodeRecord{
		ID:             id,
		HasPredecessor: a.HasPredecessor(n),
		Class: ClassRecord{
			Name:         a.ClassName(n),
			NameTemplate: a.NameTemplate(n),
		},
	}

	for _, dir := range []Direction{Inputs, Successors} {
		e, err := a.Edges(n, dir)
		if err != nil {
			return NodeRecord{}, errors.Structural(err, "%s of node %d", dir, id)
		}
		ports, edges, err := p.edges(n, e, dir)
		if err != nil {
			return NodeRecord{}, errors.Structural(err, "%s of node %d", dir, id)
		}
		if dir == Inputs {
			nr.Class.Inputs, nr.Inputs = ports, edges
		} else {
			nr.Class.Successors, nr.Successors = ports, edges
		}
	}

	for _, entry := range a.Properties(g, n).Entries() {
		v, err := p.resolve(a.Value(g, entry.Value), depth)
		if err != nil {
			return NodeRecord{}, errors.Structural(err, "property %q of node %d", entry.Key, id)
		}
		nr.Props = append(nr.Props, Property{Key: entry.Key, Value: v})
	}
	return nr, nil
}

func (p *Printer[G, N, B, E]) edges(n N, e E, dir Direction) ([]Port, []EdgeRecord, error) {
	a := p.adapter
	count := a.EdgeCount(e)
	ports := make([]Port, count)
	edges := make([]EdgeRecord, count)
	for i := 0; i < count; i++ {
		ports[i] = Port{Name: a.EdgeName(e, i), Direct: a.IsDirect(e, i)}
		if dir == Inputs {
			t, err := a.EdgeInputType(e, i)
			if err != nil {
				return nil, nil, err
			}
			ports[i].Type = &t
		}

		edges[i].Slot = i
		if ports[i].Direct {
			target := -1
			if m, ok := a.NodeAt(n, e, i); ok {
				target = a.NodeID(m)
			}
			edges[i].Targets = []int{target}
			continue
		}
		for _, m := range a.NodeListAt(n, e, i) {
			edges[i].Targets = append(edges[i].Targets, a.NodeID(m))
		}
	}
	return ports, edges, nil
}

// properties converts a property map in sorted key order.
func (p *Printer[G, N, B, E]) properties(g G, props map[string]any, depth int) ([]Property, error) {
	if len(props) == 0 {
		return nil, nil
	}
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Property, 0, len(keys))
	for _, k := range keys {
		v, err := p.resolve(p.adapter.Value(g, props[k]), depth)
		if err != nil {
			return nil, errors.Structural(err, "property %q", k)
		}
		out = append(out, Property{Key: k, Value: v})
	}
	return out, nil
}

// resolve replaces Embedded placeholders with complete subgraphs.
func (p *Printer[G, N, B, E]) resolve(v Value, depth int) (Value, error) {
	switch x := v.(type) {
	case Embedded:
		child, ok := x.Graph.(G)
		if !ok {
			return nil, errors.New(errors.ErrCodeStructural, "embedded graph of unsupported type %T", x.Graph)
		}
		if depth >= maxEmbedDepth {
			return nil, errors.New(errors.ErrCodeStructural, "embedded graphs nested deeper than %d", maxEmbedDepth)
		}
		rec, err := p.graph(child, nil, "", depth+1)
		if err != nil {
			return nil, err
		}
		return Subgraph{Graph: rec}, nil
	case List:
		out := make(List, len(x))
		for i, e := range x {
			r, err := p.resolve(e, depth)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return out, nil
	}
	return v, nil
}
