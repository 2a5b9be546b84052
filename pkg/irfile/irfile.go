package irfile

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/irdump/pkg/errors"
	"github.com/matzehuels/irdump/pkg/ir"
)

type file struct {
	Name     string        `json:"name" toml:"name"`
	Method   *methodSpec   `json:"method,omitempty" toml:"method"`
	Nodes    []nodeSpec    `json:"nodes" toml:"nodes"`
	Schedule *scheduleSpec `json:"schedule,omitempty" toml:"schedule"`
}

type methodSpec struct {
	Declaring string   `json:"declaring" toml:"declaring"`
	Name      string   `json:"name" toml:"name"`
	Return    string   `json:"return" toml:"return"`
	Params    []string `json:"params,omitempty" toml:"params"`
	Modifiers int      `json:"modifiers,omitempty" toml:"modifiers"`
}

type nodeSpec struct {
	ID         *int           `json:"id,omitempty" toml:"id"`
	Class      string         `json:"class" toml:"class"`
	Constant   *constSpec     `json:"constant,omitempty" toml:"constant"`
	Inputs     map[string]any `json:"inputs,omitempty" toml:"inputs"`
	Successors map[string]any `json:"successors,omitempty" toml:"successors"`
	Props      map[string]any `json:"props,omitempty" toml:"props"`
	Late       bool           `json:"late,omitempty" toml:"late"`
}

type constSpec struct {
	Kind  string `json:"kind" toml:"kind"`
	Value any    `json:"value" toml:"value"`
}

type scheduleSpec struct {
	Blocks []blockSpec `json:"blocks" toml:"blocks"`
}

type blockSpec struct {
	ID          int      `json:"id" toml:"id"`
	Nodes       []int    `json:"nodes" toml:"nodes"`
	Successors  []int    `json:"successors,omitempty" toml:"successors"`
	Probability *float64 `json:"probability,omitempty" toml:"probability"`
}

// ReadJSON decodes a JSON graph description from r.
//
// The input is an object with a "nodes" array. Nodes get ids in array
// order; an explicit "id" must match its position:
//
//	{
//	  "name": "add",
//	  "nodes": [
//	    {"class": "Start", "successors": {"next": 1}},
//	    {"class": "Return", "inputs": {"result": 2}},
//	    {"class": "Add", "inputs": {"x": 3, "y": 4}, "late": true},
//	    {"constant": {"kind": "int", "value": 1}, "late": true},
//	    {"constant": {"kind": "int", "value": 2}, "late": true}
//	  ],
//	  "schedule": {"blocks": [{"id": 0, "nodes": [0, 1]}]}
//	}
//
// Edges name slots of the node's class: direct slots take one node id,
// list slots an array. A "schedule" is attached as the graph's last
// schedule before nodes marked "late" are added, so those nodes postdate it.
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*ir.Graph, error) {
	var f file
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json")
	}
	return build(f)
}

// ReadTOML decodes a TOML graph description from r. The layout matches
// [ReadJSON], with nodes as an array of tables:
//
//	name = "add"
//
//	[[nodes]]
//	class = "Start"
//	successors = { next = 1 }
func ReadTOML(r io.Reader) (*ir.Graph, error) {
	var f file
	if _, err := toml.NewDecoder(r).Decode(&f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode toml")
	}
	return build(f)
}

// Load reads the graph file at path, choosing the decoder by extension
// (.json or .toml).
func Load(path string) (*ir.Graph, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	var read func(io.Reader) (*ir.Graph, error)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		read = ReadJSON
	case ".toml":
		read = ReadTOML
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported graph file %s (want .json or .toml)", path)
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "open %s", path)
	}
	defer f.Close()

	g, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

func build(f file) (*ir.Graph, error) {
	if f.Name == "" {
		f.Name = "graph"
	}
	if err := errors.ValidateGraphName(f.Name); err != nil {
		return nil, err
	}
	g := ir.NewGraph(f.Name, method(f.Method))

	late := false
	for i, ns := range f.Nodes {
		if ns.ID != nil && *ns.ID != i {
			return nil, invalid(i, "id %d does not match its position", *ns.ID)
		}
		if ns.Late {
			late = true
		} else if late {
			return nil, invalid(i, "scheduled node after a late node")
		}
	}

	nodes := make([]*ir.Node, 0, len(f.Nodes))
	add := func(i int) error {
		n, err := addNode(g, f.Nodes[i])
		if err != nil {
			return invalid(i, "%v", err)
		}
		nodes = append(nodes, n)
		return nil
	}
	i := 0
	for ; i < len(f.Nodes) && !f.Nodes[i].Late; i++ {
		if err := add(i); err != nil {
			return nil, err
		}
	}
	if f.Schedule != nil {
		if err := attachSchedule(g, nodes, f.Schedule); err != nil {
			return nil, err
		}
	}
	for ; i < len(f.Nodes); i++ {
		if err := add(i); err != nil {
			return nil, err
		}
	}

	for i, ns := range f.Nodes {
		n := nodes[i]
		if err := wire(n, ir.Inputs, ns.Inputs, nodes); err != nil {
			return nil, invalid(i, "inputs: %v", err)
		}
		if err := wire(n, ir.Successors, ns.Successors, nodes); err != nil {
			return nil, invalid(i, "successors: %v", err)
		}
		for k, v := range ns.Props {
			n.SetProperty(k, normalize(v))
		}
	}
	return g, nil
}

func invalid(i int, format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidGraph, "node %d: %s", i, fmt.Sprintf(format, args...))
}

func method(m *methodSpec) *ir.Method {
	if m == nil {
		return nil
	}
	params := make([]*ir.Type, len(m.Params))
	for i, p := range m.Params {
		params[i] = ir.NewType(p)
	}
	ret := m.Return
	if ret == "" {
		ret = "void"
	}
	return ir.NewMethod(ir.NewType(m.Declaring), m.Name, ir.NewSignature(ir.NewType(ret), params...), m.Modifiers, nil)
}

func addNode(g *ir.Graph, ns nodeSpec) (*ir.Node, error) {
	if ns.Constant != nil {
		if ns.Class != "" {
			if c, ok := ir.LookupClass(ns.Class); !ok || c != ir.ConstantClass {
				return nil, fmt.Errorf("constant with class %q", ns.Class)
			}
		}
		c, err := constant(*ns.Constant)
		if err != nil {
			return nil, err
		}
		return g.AddConstant(c), nil
	}
	c, ok := ir.LookupClass(ns.Class)
	if !ok {
		return nil, fmt.Errorf("unknown class %q", ns.Class)
	}
	if c == ir.ConstantClass {
		return nil, fmt.Errorf("constant without a value")
	}
	return g.Add(c), nil
}

func constant(cs constSpec) (ir.Constant, error) {
	kind, ok := ir.ParseConstKind(strings.ToLower(cs.Kind))
	if !ok {
		return ir.Constant{}, fmt.Errorf("unknown constant kind %q", cs.Kind)
	}
	switch kind {
	case ir.ConstNull:
		return ir.NullConstant(), nil
	case ir.ConstObject:
		return ir.ObjectConstant(normalize(cs.Value)), nil
	case ir.ConstBool:
		b, ok := cs.Value.(bool)
		if !ok {
			return ir.Constant{}, fmt.Errorf("boolean constant %v", cs.Value)
		}
		return ir.BoolConstant(b), nil
	case ir.ConstInt, ir.ConstLong:
		n, ok := integer(cs.Value)
		if !ok {
			return ir.Constant{}, fmt.Errorf("integral constant %v", cs.Value)
		}
		return ir.Constant{Kind: kind, Value: n}, nil
	}
	switch v := cs.Value.(type) {
	case float64:
		return ir.Constant{Kind: kind, Value: v}, nil
	case int64:
		return ir.Constant{Kind: kind, Value: float64(v)}, nil
	}
	return ir.Constant{}, fmt.Errorf("floating constant %v", cs.Value)
}

// integer accepts TOML integers and integral JSON numbers.
func integer(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case float64:
		if x == math.Trunc(x) && !math.IsInf(x, 0) {
			return int64(x), true
		}
	}
	return 0, false
}

func normalize(v any) any {
	switch x := v.(type) {
	case float64:
		if n, ok := integer(x); ok {
			return n
		}
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalize(e)
		}
		return out
	}
	return v
}

func ref(v any, nodes []*ir.Node) (*ir.Node, error) {
	id, ok := integer(v)
	if !ok {
		return nil, fmt.Errorf("node reference %v is not an id", v)
	}
	if id < 0 || int(id) >= len(nodes) {
		return nil, fmt.Errorf("node reference %d out of range", id)
	}
	return nodes[id], nil
}

// wire binds edges slot by slot in layout order.
func wire(n *ir.Node, dir ir.Direction, spec map[string]any, nodes []*ir.Node) error {
	edges := n.Class().Edges(dir)
	seen := 0
	for i := 0; i < edges.Count(); i++ {
		v, ok := spec[edges.Name(i)]
		if !ok {
			continue
		}
		seen++
		if edges.IsDirect(i) {
			m, err := ref(v, nodes)
			if err != nil {
				return fmt.Errorf("%s: %w", edges.Name(i), err)
			}
			if dir == ir.Inputs {
				err = n.SetInput(i, m)
			} else {
				err = n.SetSuccessor(i, m)
			}
			if err != nil {
				return fmt.Errorf("%s: %w", edges.Name(i), err)
			}
			continue
		}

		list, ok := v.([]any)
		if !ok {
			return fmt.Errorf("%s: list slot needs an array", edges.Name(i))
		}
		ms := make([]*ir.Node, len(list))
		for j, e := range list {
			m, err := ref(e, nodes)
			if err != nil {
				return fmt.Errorf("%s[%d]: %w", edges.Name(i), j, err)
			}
			ms[j] = m
		}
		var err error
		if dir == ir.Inputs {
			err = n.AppendInput(i, ms...)
		} else {
			err = n.AppendSuccessor(i, ms...)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", edges.Name(i), err)
		}
	}
	if seen != len(spec) {
		return fmt.Errorf("unknown slot for %s", n.Class().Name())
	}
	return nil
}

func attachSchedule(g *ir.Graph, nodes []*ir.Node, s *scheduleSpec) error {
	blocks := make([]*ir.Block, len(s.Blocks))
	byID := make(map[int]*ir.Block, len(s.Blocks))
	members := make(map[*ir.Block][]*ir.Node, len(s.Blocks))
	owner := make(map[int]int)
	for i, bs := range s.Blocks {
		if _, dup := byID[bs.ID]; dup {
			return errors.New(errors.ErrCodeInvalidGraph, "duplicate block %d", bs.ID)
		}
		b := ir.NewBlock(bs.ID)
		if bs.Probability != nil {
			b.SetProbability(*bs.Probability)
		}
		for _, id := range bs.Nodes {
			if id < 0 || id >= len(nodes) {
				return errors.New(errors.ErrCodeInvalidGraph, "block %d: node %d is not scheduled", bs.ID, id)
			}
			if prev, dup := owner[id]; dup {
				return errors.New(errors.ErrCodeInvalidGraph, "node %d is scheduled in blocks %d and %d", id, prev, bs.ID)
			}
			owner[id] = bs.ID
			members[b] = append(members[b], nodes[id])
		}
		blocks[i] = b
		byID[bs.ID] = b
	}
	for i, bs := range s.Blocks {
		for _, id := range bs.Successors {
			succ, ok := byID[id]
			if !ok {
				return errors.New(errors.ErrCodeInvalidGraph, "block %d: unknown successor %d", bs.ID, id)
			}
			blocks[i].AddSuccessor(succ)
		}
	}
	if err := g.SetLastSchedule(ir.NewSchedule(g, blocks, members)); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidGraph, err, "attach schedule")
	}
	return nil
}
