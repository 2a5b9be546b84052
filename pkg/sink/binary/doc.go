// Package binary implements the compact binary dump format.
//
// A [Writer] is a [printer.Encoder]; a [Reader] replays a stream into any
// other encoder, and [Decode] reads a stream into a [printer.Document].
// Records are msgpack values framed by a one-byte tag, so a viewer can
// display each graph as soon as its close record arrives.
package binary
