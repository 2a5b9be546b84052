// Package printer is the protocol-neutral core of the graph dump.
//
// It knows nothing about a concrete IR. An [Adapter] exposes graphs, nodes,
// blocks and edge layouts through a fixed set of queries, and a [Printer]
// walks them in a deterministic order, turning every node into a
// [NodeRecord] and every block into a [BlockRecord] for an [Encoder].
//
// # Values
//
// Properties are exported as a closed set of [Value] types. Domain objects
// that are not plain scalars are classified by the adapter into a
// [Recognized] variant, tried in a fixed order, and converted with
// [ValueOf]. Graphs embedded in properties travel as [Embedded] until the
// driver expands them into a [Subgraph].
//
// # Errors
//
// Structural problems (an edge layout that cannot be queried, an embedded
// graph of the wrong type) and encoder failures abort the current call and
// are returned as coded errors from package errors. The driver never
// retries.
package printer
