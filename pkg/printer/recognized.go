package printer

import "fmt"

// Recognized is the result of classifying a heterogeneous domain value.
// Adapters try the variants in a fixed order and return the first match:
//
//  1. MethodRef (methods and bytecode wrappers)
//  2. FieldRef
//  3. SignatureRef
//  4. PositionRef
//  5. Enum
//  6. ClassRef
//  7. Opaque (anything else)
type Recognized interface {
	isRecognized()
}

// Opaque is a value no variant matched. It is exported as its text form.
type Opaque struct {
	Value any
}

func (MethodRef) isRecognized()    {}
func (FieldRef) isRecognized()     {}
func (SignatureRef) isRecognized() {}
func (PositionRef) isRecognized()  {}
func (Enum) isRecognized()         {}
func (ClassRef) isRecognized()     {}
func (Opaque) isRecognized()       {}

// ValueOf converts a recognized value to the value an encoder receives.
func ValueOf(r Recognized) Value {
	switch x := r.(type) {
	case nil:
		return nil
	case MethodRef:
		return x
	case FieldRef:
		return x
	case SignatureRef:
		return x
	case PositionRef:
		return x
	case Enum:
		return x
	case ClassRef:
		return x
	case Opaque:
		if v, ok := Primitive(x.Value); ok {
			return v
		}
		if x.Value == nil {
			return nil
		}
		// fmt recovers panics raised by String methods.
		return String(fmt.Sprint(x.Value))
	}
	panic(fmt.Sprintf("printer: unhandled recognized value %T", r))
}
