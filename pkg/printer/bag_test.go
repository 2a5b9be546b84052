package printer

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBagOrder(t *testing.T) {
	b := NewBag()
	b.Set("category", "floating")
	b.Set("NodeCost-Size", 1)
	b.Set("category", "fixed")

	want := []Entry{{Key: "category", Value: "fixed"}, {Key: "NodeCost-Size", Value: 1}}
	if diff := cmp.Diff(want, b.Entries()); diff != "" {
		t.Errorf("Entries() mismatch (-want +got):\n%s", diff)
	}

	b.Delete("category")
	if b.Has("category") || b.Len() != 1 {
		t.Errorf("after Delete: keys = %v", b.Keys())
	}

	var nilBag *Bag
	if nilBag.Len() != 0 || nilBag.Entries() != nil {
		t.Error("nil bag should be empty")
	}
}

type brokenStringer struct{}

func (brokenStringer) String() string { panic("broken") }

func TestValueOf(t *testing.T) {
	tests := []struct {
		name string
		in   Recognized
		want Value
	}{
		{"Method", MethodRef{Declaring: "demo.A", Name: "f"}, MethodRef{Declaring: "demo.A", Name: "f"}},
		{"Enum", Enum{Type: "T", Names: []string{"A", "B"}, Ordinal: 1}, Enum{Type: "T", Names: []string{"A", "B"}, Ordinal: 1}},
		{"Class", ClassRef{Name: "demo.A"}, ClassRef{Name: "demo.A"}},
		{"OpaqueInt", Opaque{Value: 7}, Int(7)},
		{"OpaqueError", Opaque{Value: errors.New("boom")}, String("boom")},
		{"OpaqueStruct", Opaque{Value: struct{ X int }{1}}, String("{1}")},
		{"OpaqueNil", Opaque{}, nil},
		{"OpaqueUint", Opaque{Value: uint(9)}, Int(9)},
		{"OpaqueUint64", Opaque{Value: uint64(math.MaxInt64)}, Int(math.MaxInt64)},
		{"OpaqueHugeUint64", Opaque{Value: uint64(math.MaxUint64)}, String("18446744073709551615")},
		{"OpaqueUintptr", Opaque{Value: uintptr(0x10)}, Int(16)},
		{"OpaquePanickingStringer", Opaque{Value: brokenStringer{}}, String("%!v(PANIC=String method: broken)")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, ValueOf(tt.in)); diff != "" {
				t.Errorf("ValueOf() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestListOf(t *testing.T) {
	conv := func(v any) Value {
		p, _ := Primitive(v)
		return p
	}
	l, ok := ListOf([]int{1, 2}, conv)
	if !ok {
		t.Fatal("ListOf([]int) should be a list")
	}
	if diff := cmp.Diff(List{Int(1), Int(2)}, l); diff != "" {
		t.Errorf("ListOf() mismatch (-want +got):\n%s", diff)
	}
	if _, ok := ListOf([]byte("ab"), conv); ok {
		t.Error("byte slices are not lists")
	}
	if _, ok := ListOf(3, conv); ok {
		t.Error("scalars are not lists")
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   Value
		want string
	}{
		{Int(3), "3"},
		{Enum{Type: "T", Names: []string{"A", "B"}, Ordinal: 1}, "B"},
		{NodeRef{ID: 4}, "#4"},
		{SignatureRef{Params: []string{"int", "int"}, Return: "int"}, "(int, int)int"},
		{List{Int(1), String("x")}, "[1, x]"},
		{nil, "null"},
	}
	for _, tt := range tests {
		if got := Format(tt.in); got != tt.want {
			t.Errorf("Format(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
