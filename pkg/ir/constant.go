package ir

import (
	"fmt"
	"strconv"
)

// ConstKind is the stack kind of a constant.
type ConstKind int

const (
	ConstInt ConstKind = iota
	ConstLong
	ConstFloat
	ConstDouble
	ConstBool
	ConstObject
	ConstNull
)

var constKindNames = []string{"Int", "Long", "Float", "Double", "Boolean", "Object", "Null"}

func (k ConstKind) String() string {
	if k < 0 || int(k) >= len(constKindNames) {
		return fmt.Sprintf("ConstKind(%d)", int(k))
	}
	return constKindNames[k]
}

// EnumType implements [Enum].
func (ConstKind) EnumType() string { return "ir.ConstKind" }

// EnumNames implements [Enum].
func (ConstKind) EnumNames() []string { return append([]string(nil), constKindNames...) }

// Ordinal implements [Enum].
func (k ConstKind) Ordinal() int { return int(k) }

// ParseConstKind maps a lower-case kind name ("int", "long", "float",
// "double", "bool", "object", "null") to its ConstKind.
func ParseConstKind(s string) (ConstKind, bool) {
	switch s {
	case "int":
		return ConstInt, true
	case "long":
		return ConstLong, true
	case "float":
		return ConstFloat, true
	case "double":
		return ConstDouble, true
	case "bool", "boolean":
		return ConstBool, true
	case "object":
		return ConstObject, true
	case "null":
		return ConstNull, true
	}
	return 0, false
}

// Constant is a literal value. Integral kinds hold int64, floating kinds
// float64, booleans bool; objects hold any Go value.
type Constant struct {
	Kind  ConstKind
	Value any
}

func IntConstant(v int64) Constant      { return Constant{Kind: ConstInt, Value: v} }
func LongConstant(v int64) Constant     { return Constant{Kind: ConstLong, Value: v} }
func DoubleConstant(v float64) Constant { return Constant{Kind: ConstDouble, Value: v} }
func BoolConstant(v bool) Constant      { return Constant{Kind: ConstBool, Value: v} }
func ObjectConstant(v any) Constant     { return Constant{Kind: ConstObject, Value: v} }
func NullConstant() Constant            { return Constant{Kind: ConstNull} }

// Literal renders the constant as source-like text: decimal for integral
// kinds, shortest round-trip form for floating kinds.
func (c Constant) Literal() string {
	switch v := c.Value.(type) {
	case nil:
		return "null"
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case bool:
		return strconv.FormatBool(v)
	case string:
		return strconv.Quote(v)
	}
	return fmt.Sprintf("%s[%T]", c.Kind, c.Value)
}

func (c Constant) String() string { return c.Kind.String() + "[" + c.Literal() + "]" }
