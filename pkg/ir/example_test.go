package ir_test

import (
	"fmt"

	"github.com/matzehuels/irdump/pkg/ir"
)

func ExampleGraph_basic() {
	// start -> return(1 + 2)
	g := ir.NewGraph("add", nil)
	start := g.Add(ir.StartClass)
	ret := g.Add(ir.ReturnClass)
	add := g.Add(ir.AddClass)
	_ = start.SetSuccessor(ir.SlotNext, ret)
	_ = add.SetInput(ir.SlotX, g.AddConstant(ir.IntConstant(1)))
	_ = add.SetInput(ir.SlotY, g.AddConstant(ir.IntConstant(2)))
	_ = ret.SetInput(ir.SlotResult, add)

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Start:", g.Start())
	fmt.Println("Return predecessor:", ret.Predecessor())
	fmt.Println("Add usages:", add.Usages())
	// Output:
	// Nodes: 5
	// Start: 0|StartNode
	// Return predecessor: 0|StartNode
	// Add usages: [1|ReturnNode]
}

func ExampleEdges() {
	in := ir.ValuePhiClass.Edges(ir.Inputs)
	for i := 0; i < in.Count(); i++ {
		typ, _ := in.InputType(i)
		fmt.Printf("%s direct=%v type=%s\n", in.Name(i), in.IsDirect(i), typ)
	}
	// Output:
	// merge direct=true type=Association
	// values direct=false type=Value
}

func ExampleMethod_StackFrame() {
	point := ir.NewType("demo.Point")
	m := ir.NewMethod(point, "norm", ir.NewSignature(ir.NewType("double")), ir.ModPublic, nil)
	fmt.Println(m)
	fmt.Println(m.StackFrame(12))
	// Output:
	// demo.Point.norm()double
	// demo.Point.norm(Point:12)
}
