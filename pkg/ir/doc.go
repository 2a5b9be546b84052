// Package ir provides a small sea-of-nodes compiler intermediate
// representation used as the input of the graph dump printer.
//
// # Overview
//
// A [Graph] owns [Node] values. Every node references a shared [NodeClass]
// that describes its shape: a qualified type name, a display template, a set
// of [Kind] flags and two [Edges] layouts, one for inputs and one for
// successors.
//
// # Edges
//
// An edge layout is an ordered list of named slots. The first DirectCount
// slots are direct and hold at most one node; the remaining slots are lists:
//
//	phi := g.Add(ir.ValuePhiClass)
//	_ = phi.SetInput(ir.SlotPhiMerge, merge)           // direct
//	_ = phi.AppendInput(ir.SlotPhiValues, a, b)        // list
//
// Input slots also carry an [InputType] describing what flows along them.
// Successor edges set the predecessor of their target; a node has at most
// one predecessor.
//
// # Schedules
//
// A [Schedule] assigns nodes to ordered [Block] values. Graphs keep the most
// recent schedule in [Graph.LastSchedule]. Nodes created after a schedule was
// built are reported by [Schedule.IsNew]; the schedule never maps nodes of
// another graph.
//
// # Reflection Types
//
// [Method], [Field], [Signature], [SourcePosition], [Type] and [Bytecode]
// model the resolved program elements that nodes and graphs refer to in
// their debug properties.
//
// # Concurrency
//
// Nothing in this package is safe for concurrent mutation. Concurrent
// readers are fine as long as nobody writes.
package ir
