package ir

import "strings"

// Built-in node classes. Slot indices are stable and exported as constants
// below so builders do not need to look them up by name.
var (
	StartClass = MustNodeClass("ir.StartNode", "Start", KindStart|KindBegin,
		nil,
		[]Slot{{Name: "next"}}, Cost{Size: 0, Cycles: 0})

	BeginClass = MustNodeClass("ir.BeginNode", "Begin", KindBegin,
		nil,
		[]Slot{{Name: "next"}}, Cost{Size: 0, Cycles: 0})

	EndClass = MustNodeClass("ir.EndNode", "End", KindEnd,
		nil, nil, Cost{Size: 1, Cycles: 1})

	MergeClass = MustNodeClass("ir.MergeNode", "Merge", KindMerge|KindBegin,
		[]Slot{{Name: "ends", List: true, Type: InputAssociation}},
		[]Slot{{Name: "next"}}, Cost{Size: 0, Cycles: 0})

	LoopBeginClass = MustNodeClass("ir.LoopBeginNode", "LoopBegin", KindMerge|KindBegin,
		[]Slot{{Name: "ends", List: true, Type: InputAssociation}},
		[]Slot{{Name: "next"}}, Cost{Size: 0, Cycles: 0})

	LoopEndClass = MustNodeClass("ir.LoopEndNode", "LoopEnd", KindEnd,
		[]Slot{{Name: "loopBegin", Type: InputAssociation}},
		nil, Cost{Size: 1, Cycles: 1})

	IfClass = MustNodeClass("ir.IfNode", "If", KindControlSplit,
		[]Slot{{Name: "condition", Type: InputCondition}},
		[]Slot{{Name: "trueSuccessor"}, {Name: "falseSuccessor"}}, Cost{Size: 2, Cycles: 2})

	ReturnClass = MustNodeClass("ir.ReturnNode", "Return", KindControlSink,
		[]Slot{{Name: "result", Type: InputValue}},
		nil, Cost{Size: 2, Cycles: 2})

	InvokeClass = MustNodeClass("ir.InvokeNode", "Invoke#{p#targetMethod/s}", KindFixed,
		[]Slot{{Name: "stateAfter", Type: InputState}, {Name: "arguments", List: true, Type: InputValue}},
		[]Slot{{Name: "next"}}, Cost{Size: 8, Cycles: 10})

	ConstantClass = MustNodeClass("ir.ConstantNode", "C({p#rawvalue})", KindConstant,
		nil, nil, Cost{Size: 1, Cycles: 1})

	ParameterClass = MustNodeClass("ir.ParameterNode", "P({p#index})", 0,
		nil, nil, Cost{Size: 0, Cycles: 0})

	AddClass = MustNodeClass("ir.AddNode", "+", 0,
		[]Slot{{Name: "x", Type: InputValue}, {Name: "y", Type: InputValue}},
		nil, Cost{Size: 1, Cycles: 1})

	SubClass = MustNodeClass("ir.SubNode", "-", 0,
		[]Slot{{Name: "x", Type: InputValue}, {Name: "y", Type: InputValue}},
		nil, Cost{Size: 1, Cycles: 1})

	MulClass = MustNodeClass("ir.MulNode", "*", 0,
		[]Slot{{Name: "x", Type: InputValue}, {Name: "y", Type: InputValue}},
		nil, Cost{Size: 1, Cycles: 2})

	LessThanClass = MustNodeClass("ir.IntegerLessThanNode", "<", 0,
		[]Slot{{Name: "x", Type: InputValue}, {Name: "y", Type: InputValue}},
		nil, Cost{Size: 1, Cycles: 1})

	ValuePhiClass = MustNodeClass("ir.ValuePhiNode", "Phi({i#values})", KindPhi,
		[]Slot{{Name: "merge", Type: InputAssociation}, {Name: "values", List: true, Type: InputValue}},
		nil, Cost{Size: 0, Cycles: 0})

	ValueProxyClass = MustNodeClass("ir.ValueProxyNode", "Proxy", KindProxy,
		[]Slot{{Name: "value", Type: InputValue}, {Name: "loopExit", Type: InputAssociation}},
		nil, Cost{Size: 0, Cycles: 0})

	FrameStateClass = MustNodeClass("ir.FrameStateNode", "FrameState@{p#bci}", KindState,
		[]Slot{{Name: "outerFrameState", Type: InputState}, {Name: "values", List: true, Type: InputValue}},
		nil, UnknownCost)
)

// Slot indices of the built-in classes.
const (
	SlotNext        = 0
	SlotTrue        = 0
	SlotFalse       = 1
	SlotCondition   = 0
	SlotResult      = 0
	SlotEnds        = 0
	SlotLoopBegin   = 0
	SlotX           = 0
	SlotY           = 1
	SlotPhiMerge    = 0
	SlotPhiValues   = 1
	SlotStateAfter  = 0
	SlotArguments   = 1
	SlotProxyValue  = 0
	SlotOuterState  = 0
	SlotStateValues = 1
	SlotLoopExit    = 1
)

var builtinClasses = []*NodeClass{
	StartClass, BeginClass, EndClass, MergeClass, LoopBeginClass, LoopEndClass,
	IfClass, ReturnClass, InvokeClass, ConstantClass, ParameterClass,
	AddClass, SubClass, MulClass, LessThanClass, ValuePhiClass, ValueProxyClass,
	FrameStateClass,
}

// LookupClass finds a built-in class by qualified name ("ir.AddNode"),
// simple name ("AddNode") or simple name without the Node suffix ("Add").
func LookupClass(name string) (*NodeClass, bool) {
	for _, c := range builtinClasses {
		simple := c.SimpleName()
		if name == c.name || name == simple || name == strings.TrimSuffix(simple, "Node") {
			return c, true
		}
	}
	return nil, false
}
