package ir

import (
	"fmt"
	"strings"
)

// Modifier flags for methods and fields.
const (
	ModPublic    = 0x0001
	ModPrivate   = 0x0002
	ModProtected = 0x0004
	ModStatic    = 0x0008
	ModFinal     = 0x0010
	ModNative    = 0x0100
	ModAbstract  = 0x0400
)

// Type is a resolved class-like type.
type Type struct {
	name string
}

// NewType creates a type with a qualified name such as "demo.Point".
func NewType(name string) *Type { return &Type{name: name} }

// Name returns the qualified name. A nil type has an empty name.
func (t *Type) Name() string {
	if t == nil {
		return ""
	}
	return t.name
}

// SimpleName returns the name without its qualifier.
func (t *Type) SimpleName() string {
	name := t.Name()
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

func (t *Type) String() string { return t.Name() }

// Signature describes parameter and return types of a method.
type Signature struct {
	params []*Type
	ret    *Type
}

// NewSignature creates a signature.
func NewSignature(ret *Type, params ...*Type) *Signature {
	return &Signature{params: params, ret: ret}
}

// ParameterCount returns the number of declared parameters.
func (s *Signature) ParameterCount() int { return len(s.params) }

// ParameterType returns the type of parameter i.
func (s *Signature) ParameterType(i int) *Type { return s.params[i] }

// ReturnType returns the return type.
func (s *Signature) ReturnType() *Type { return s.ret }

func (s *Signature) String() string {
	if s == nil {
		return "()"
	}
	names := make([]string, len(s.params))
	for i, p := range s.params {
		names[i] = p.Name()
	}
	return "(" + strings.Join(names, ", ") + ")" + s.ret.Name()
}

// Method is a resolved method.
type Method struct {
	name      string
	declaring *Type
	sig       *Signature
	modifiers int
	code      []byte
}

// NewMethod creates a method.
func NewMethod(declaring *Type, name string, sig *Signature, modifiers int, code []byte) *Method {
	return &Method{name: name, declaring: declaring, sig: sig, modifiers: modifiers, code: code}
}

func (m *Method) Name() string          { return m.name }
func (m *Method) DeclaringType() *Type  { return m.declaring }
func (m *Method) Signature() *Signature { return m.sig }
func (m *Method) Modifiers() int        { return m.modifiers }
func (m *Method) Code() []byte          { return m.code }

// QualifiedName prefixes the name with the declaring type, if any.
func (m *Method) QualifiedName() string {
	if m.declaring == nil {
		return m.name
	}
	return m.declaring.Name() + "." + m.name
}

func (m *Method) String() string {
	if m == nil {
		return "<nil method>"
	}
	return m.QualifiedName() + m.sig.String()
}

// StackFrame renders a stack trace line for the given bytecode index.
// Methods without a declaring type render as "name(Unknown:bci)".
func (m *Method) StackFrame(bci int) string {
	file := "Unknown"
	if m.declaring != nil {
		file = m.declaring.SimpleName()
	}
	return fmt.Sprintf("%s(%s:%d)", m.QualifiedName(), file, bci)
}

// Bytecode wraps the bytecode of a method.
type Bytecode struct {
	method *Method
}

// NewBytecode wraps m.
func NewBytecode(m *Method) *Bytecode { return &Bytecode{method: m} }

// Method returns the wrapped method.
func (b *Bytecode) Method() *Method { return b.method }

// Field is a resolved field.
type Field struct {
	name      string
	declaring *Type
	typ       *Type
	modifiers int
}

// NewField creates a field.
func NewField(declaring *Type, name string, typ *Type, modifiers int) *Field {
	return &Field{name: name, declaring: declaring, typ: typ, modifiers: modifiers}
}

func (f *Field) Name() string         { return f.name }
func (f *Field) DeclaringType() *Type { return f.declaring }
func (f *Field) Type() *Type          { return f.typ }
func (f *Field) Modifiers() int       { return f.modifiers }

// SourcePosition locates a node in the bytecode of a method, including the
// chain of inlined callers.
type SourcePosition struct {
	method *Method
	bci    int
	caller *SourcePosition
}

// NewSourcePosition creates a position. caller is nil for the root method.
func NewSourcePosition(caller *SourcePosition, m *Method, bci int) *SourcePosition {
	return &SourcePosition{method: m, bci: bci, caller: caller}
}

func (p *SourcePosition) Method() *Method         { return p.method }
func (p *SourcePosition) BCI() int                { return p.bci }
func (p *SourcePosition) Caller() *SourcePosition { return p.caller }
