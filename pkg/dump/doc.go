// Package dump exports graphs of package ir through the generic printer.
//
// A [DebugContext] carries the dump options and the collaborators the
// export needs: a [Scheduler] for graphs without a schedule, a [CostModel]
// and a [Reflection] bridge for constants. [NewSnapshot] pairs a graph with
// its schedule, computing one when the options ask for it; a failed
// computation leaves the snapshot unscheduled and the export goes on
// without blocks.
//
// Every node is annotated with derived properties (see [Annotator]):
//
//	probability, probability-exception   fixed nodes, when requested
//	NodeCost-Size, NodeCost-Cycles       or node-cost-exception
//	node-to-block                        block id, "unscheduled (new)" or "unscheduled"
//	category                             see [Categorize]
//	rawvalue, toString, <slot>-literal   floating nodes only
//
// # Usage
//
//	dc := dump.NewDebugContext(ctx, dump.Config{Options: dump.Options{ScheduleOnDump: true}})
//	p := dump.NewPrinter(binary.NewWriter(w), logger)
//	_ = p.BeginGroup(dc, "demo.Point.norm", "norm", method, 0, nil)
//	_ = p.Print(dc, g, nil, 0, "After %s", "parsing")
//	_ = p.EndGroup()
//	_ = p.Close()
package dump
