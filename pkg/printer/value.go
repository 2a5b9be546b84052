package printer

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Value is a property or pool value as seen by an [Encoder]. The set of
// implementations is closed:
//
//	Int, Double, String, Bool, Enum, NodeRef, ClassRef,
//	MethodRef, FieldRef, SignatureRef, PositionRef, List, Subgraph
//
// Adapters may also return [Embedded], which the driver replaces with a
// Subgraph before anything reaches an encoder.
type Value interface {
	isValue()
}

// Int is an integral value.
type Int int64

// Double is a floating point value.
type Double float64

// String is a text value.
type String string

// Bool is a boolean value.
type Bool bool

// Enum is an enumerated value. Names lists every constant of Type so a
// viewer can render the value without knowing the type.
type Enum struct {
	Type    string
	Names   []string
	Ordinal int
}

// NodeRef references a node of the graph being printed by id.
type NodeRef struct {
	ID int
}

// ClassRef names a class-like type by its qualified name.
type ClassRef struct {
	Name string
}

// SignatureRef describes parameter and return types.
type SignatureRef struct {
	Params []string
	Return string
}

// MethodRef describes a method including its bytecode.
type MethodRef struct {
	Declaring string
	Name      string
	Signature SignatureRef
	Modifiers int
	Code      []byte
}

// FieldRef describes a field.
type FieldRef struct {
	Declaring string
	Name      string
	Type      string
	Modifiers int
}

// Frame is one entry of a [PositionRef] caller chain.
type Frame struct {
	Method     MethodRef
	BCI        int
	StackFrame string
}

// PositionRef is a source position; Frames[0] is the innermost method.
type PositionRef struct {
	Frames []Frame
}

// List is an ordered list of values.
type List []Value

// Subgraph is a complete nested graph, used for graphs embedded in
// properties.
type Subgraph struct {
	Graph *GraphRecord
}

// Embedded is an unresolved nested graph produced by an adapter. Graph holds
// the adapter's own graph type; the driver converts it into a [Subgraph].
type Embedded struct {
	Graph any
}

func (Int) isValue()          {}
func (Double) isValue()       {}
func (String) isValue()       {}
func (Bool) isValue()         {}
func (Enum) isValue()         {}
func (NodeRef) isValue()      {}
func (ClassRef) isValue()     {}
func (SignatureRef) isValue() {}
func (MethodRef) isValue()    {}
func (FieldRef) isValue()     {}
func (PositionRef) isValue()  {}
func (List) isValue()         {}
func (Subgraph) isValue()     {}
func (Embedded) isValue()     {}

// Primitive converts Go scalars and strings to a Value. It reports false for
// anything else.
func Primitive(v any) (Value, bool) {
	switch x := v.(type) {
	case Value:
		return x, true
	case int:
		return Int(x), true
	case int8:
		return Int(x), true
	case int16:
		return Int(x), true
	case int32:
		return Int(x), true
	case int64:
		return Int(x), true
	case uint8:
		return Int(x), true
	case uint16:
		return Int(x), true
	case uint32:
		return Int(x), true
	case uint:
		return unsigned(uint64(x))
	case uint64:
		return unsigned(x)
	case uintptr:
		return unsigned(uint64(x))
	case float32:
		return Double(x), true
	case float64:
		return Double(x), true
	case bool:
		return Bool(x), true
	case string:
		return String(x), true
	case error:
		return String(fmt.Sprint(x)), true
	}
	return nil, false
}

// unsigned keeps values that fit in an int64 as Int and renders the rest
// in decimal.
func unsigned(u uint64) (Value, bool) {
	if u > math.MaxInt64 {
		return String(strconv.FormatUint(u, 10)), true
	}
	return Int(u), true
}

// ListOf converts a Go slice or array (other than []byte) with conv applied
// to every element. It reports false when v is not a list.
func ListOf(v any, conv func(any) Value) (List, bool) {
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	out := make(List, rv.Len())
	for i := range out {
		out[i] = conv(rv.Index(i).Interface())
	}
	return out, true
}

// Format renders a value as plain text, as used by text-oriented encoders.
func Format(v Value) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case Int:
		return fmt.Sprint(int64(x))
	case Double:
		return fmt.Sprint(float64(x))
	case String:
		return string(x)
	case Bool:
		return fmt.Sprint(bool(x))
	case Enum:
		if x.Ordinal >= 0 && x.Ordinal < len(x.Names) {
			return x.Names[x.Ordinal]
		}
		return fmt.Sprintf("%s(%d)", x.Type, x.Ordinal)
	case NodeRef:
		return fmt.Sprintf("#%d", x.ID)
	case ClassRef:
		return x.Name
	case SignatureRef:
		return fmt.Sprintf("(%s)%s", strings.Join(x.Params, ", "), x.Return)
	case MethodRef:
		return x.Declaring + "." + x.Name + Format(x.Signature)
	case FieldRef:
		return x.Declaring + "." + x.Name
	case PositionRef:
		if len(x.Frames) == 0 {
			return ""
		}
		return x.Frames[0].StackFrame
	case List:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = Format(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case Subgraph:
		if x.Graph == nil {
			return "graph"
		}
		return fmt.Sprintf("graph(%d nodes)", len(x.Graph.Nodes))
	case Embedded:
		return "graph"
	}
	return fmt.Sprint(v)
}
