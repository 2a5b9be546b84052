package printer

import "github.com/matzehuels/irdump/pkg/errors"

// Group is a collected group with its nested groups and graphs in
// emission order.
type Group struct {
	Record GroupRecord
	Groups []*Group
	Graphs []*GraphRecord
}

// Document is everything an encoder received. Graphs printed outside any
// group are kept in Graphs.
type Document struct {
	Groups []*Group
	Graphs []*GraphRecord
}

// Walk calls fn for every graph of d, depth first, with the names of the
// enclosing groups.
func (d *Document) Walk(fn func(path []string, g *GraphRecord)) {
	for _, g := range d.Graphs {
		fn(nil, g)
	}
	var walk func(path []string, grp *Group)
	walk = func(path []string, grp *Group) {
		path = append(path[:len(path):len(path)], grp.Record.Name)
		for _, g := range grp.Graphs {
			fn(path, g)
		}
		for _, sub := range grp.Groups {
			walk(path, sub)
		}
	}
	for _, grp := range d.Groups {
		walk(nil, grp)
	}
}

// Collector is an [Encoder] that builds a [Document] in memory.
type Collector struct {
	doc   Document
	stack []*Group
	cur   *GraphRecord
}

// NewCollector creates an empty collector.
func NewCollector() *Collector { return &Collector{} }

// Document returns the collected document.
func (c *Collector) Document() *Document { return &c.doc }

func (c *Collector) BeginGroup(g GroupRecord) error {
	if c.cur != nil {
		return errors.New(errors.ErrCodeStructural, "group %q opened inside graph %q", g.Name, c.cur.Title)
	}
	grp := &Group{Record: g}
	if n := len(c.stack); n > 0 {
		c.stack[n-1].Groups = append(c.stack[n-1].Groups, grp)
	} else {
		c.doc.Groups = append(c.doc.Groups, grp)
	}
	c.stack = append(c.stack, grp)
	return nil
}

func (c *Collector) EndGroup() error {
	if len(c.stack) == 0 {
		return errors.New(errors.ErrCodeStructural, "no open group")
	}
	c.stack = c.stack[:len(c.stack)-1]
	return nil
}

func (c *Collector) OpenGraph(title string, props []Property) error {
	if c.cur != nil {
		return errors.New(errors.ErrCodeStructural, "graph %q opened inside graph %q", title, c.cur.Title)
	}
	c.cur = &GraphRecord{Title: title, Props: props}
	return nil
}

func (c *Collector) Node(n NodeRecord) error {
	if c.cur == nil {
		return errors.New(errors.ErrCodeStructural, "node %d outside a graph", n.ID)
	}
	c.cur.Nodes = append(c.cur.Nodes, n)
	return nil
}

func (c *Collector) Block(b BlockRecord) error {
	if c.cur == nil {
		return errors.New(errors.ErrCodeStructural, "block %d outside a graph", b.ID)
	}
	c.cur.Blocks = append(c.cur.Blocks, b)
	return nil
}

func (c *Collector) CloseGraph() error {
	if c.cur == nil {
		return errors.New(errors.ErrCodeStructural, "no open graph")
	}
	if n := len(c.stack); n > 0 {
		c.stack[n-1].Graphs = append(c.stack[n-1].Graphs, c.cur)
	} else {
		c.doc.Graphs = append(c.doc.Graphs, c.cur)
	}
	c.cur = nil
	return nil
}

func (c *Collector) Close() error {
	if c.cur != nil {
		return errors.New(errors.ErrCodeStructural, "graph %q left open", c.cur.Title)
	}
	return nil
}
