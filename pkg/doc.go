// Package pkg provides the libraries behind irdump, a diagnostic exporter
// for compiler IR graphs.
//
// # Overview
//
// irdump takes a graph of the intermediate representation, optionally
// schedules it into basic blocks, annotates every node with derived debug
// properties (estimated cost, block probability, block membership, node
// category, constant literals) and hands the result to an encoder. The pkg
// directory is organized into four areas:
//
//  1. Model: [ir] and [schedule]
//  2. Export core: [printer] and its IR binding [dump]
//  3. Encoders: [sink/binary], [sink/json] and [sink/dot]
//  4. Plumbing: [irfile], [config], [pipeline], [cache], [errors],
//     [observability] and [buildinfo]
//
// # Architecture
//
// The typical data flow through irdump:
//
//	graph file (JSON/TOML)
//	         ↓
//	    [irfile] package (build an ir.Graph)
//	         ↓
//	    [dump] package (snapshot: schedule, annotate, categorize)
//	         ↓
//	    [printer] package (walk groups, graphs, nodes, blocks)
//	         ↓
//	    bgv/json/dot/svg output
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/irdump/pkg/dump"
//	    "github.com/matzehuels/irdump/pkg/irfile"
//	    "github.com/matzehuels/irdump/pkg/sink/binary"
//	)
//
//	g, _ := irfile.Load("loop.toml")
//	dc := dump.NewDebugContext(ctx, dump.Config{
//	    Options: dump.Options{ScheduleOnDump: true, Probabilities: true},
//	})
//
//	p := dump.NewPrinter(binary.NewWriter(w), nil)
//	_ = p.BeginGroup(dc, g.Name(), g.Name(), g.Method(), 0, nil)
//	_ = p.Print(dc, g, nil, 0, "after %s", "parsing")
//	_ = p.EndGroup()
//	_ = p.Close()
//
// # Main Packages
//
// [ir] - The graph model: nodes with typed edge slots (direct slots first,
// list slots after), node classes with cost estimates, constants, methods,
// signatures, source positions, blocks and schedules.
//
// [schedule] - Assigns fixed nodes to blocks along control flow, places
// floating nodes at the common dominator of their usages and estimates
// relative block frequencies.
//
// [printer] - Protocol-neutral export driver. It is generic over the graph,
// node, block and edge types of an [printer.Adapter] and emits records to
// an [printer.Encoder]. Values are restricted to a closed set of exportable
// kinds; anything unrecognized is exported by its string form.
//
// [dump] - Binds [printer] to [ir]. A [dump.Snapshot] freezes one graph and
// its schedule; [dump.Annotator] derives node properties and never fails,
// turning cost-model failures into diagnostic properties instead.
//
// [sink/binary] - msgpack-framed binary dump with a class pool, plus a
// reader that replays a stream into any encoder.
//
// [pipeline] - load -> dump -> render with an artifact [cache], used by the
// CLI.
//
// # Testing
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/dump/...       # Specific package
//	go test -run Example ./...   # Examples only
//
// [ir]: https://pkg.go.dev/github.com/matzehuels/irdump/pkg/ir
// [schedule]: https://pkg.go.dev/github.com/matzehuels/irdump/pkg/schedule
// [printer]: https://pkg.go.dev/github.com/matzehuels/irdump/pkg/printer
// [dump]: https://pkg.go.dev/github.com/matzehuels/irdump/pkg/dump
// [sink/binary]: https://pkg.go.dev/github.com/matzehuels/irdump/pkg/sink/binary
// [sink/json]: https://pkg.go.dev/github.com/matzehuels/irdump/pkg/sink/json
// [sink/dot]: https://pkg.go.dev/github.com/matzehuels/irdump/pkg/sink/dot
// [irfile]: https://pkg.go.dev/github.com/matzehuels/irdump/pkg/irfile
// [config]: https://pkg.go.dev/github.com/matzehuels/irdump/pkg/config
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/irdump/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/irdump/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/irdump/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/irdump/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/irdump/pkg/buildinfo
package pkg
