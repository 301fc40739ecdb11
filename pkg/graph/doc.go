// Package graph provides the edge-list graph model consumed by the layout
// engine, together with its file formats.
//
// A graph is described only by its edges. Nodes are the integers 0..N-1,
// where N is one more than the largest index referenced by any edge, and
// every index in that range must be touched by at least one edge.
//
// # Core Types
//
//   - [Edge]: an unordered pair of node indices
//   - [Graph]: a validated edge set with a prebuilt adjacency structure
//   - [Document]: the on-disk description of a layout request (edges plus pins)
//
// # Validation
//
// [New] enforces the graph invariants and reports violations as
// errors.ErrCodeInvalidGraph:
//
//   - the edge list is empty
//   - an index is negative
//   - an edge is a self-loop
//   - an edge appears twice, in either orientation
//   - an index in 0..N-1 has no incident edge
//
// Connectivity is not enforced here: [Graph.Components] exposes the connected
// components so the layout engine can check that each one is anchored.
//
// # Degrees
//
// [Degree] counts incident edges by scanning an edge list and is usable on
// unvalidated input. [Graph.Degree] answers the same question from the
// adjacency built once in [New].
//
// # Serialization
//
// Documents are read and written as JSON, YAML, or plain text edge lists:
//
//	{
//	  "edges": [[0, 1], [0, 3], [1, 2]],
//	  "pins": {"0": [0, 0], "1": [0, 1]}
//	}
//
// Instead of explicit pins a document may carry an initial coordinate guess
// and the indices to pin; the pinned coordinates are then read from the guess:
//
//	{
//	  "edges": [[0, 1], [1, 2]],
//	  "guess": {"x": [0, 0, 1], "y": [0, 1, 1]},
//	  "pinned": [0, 2]
//	}
//
// Text edge lists hold one "i j" pair per line; blank lines and lines starting
// with '#' are ignored. They carry no pins.
//
// # Concurrency
//
// A [Graph] is immutable after [New] and safe for concurrent reads.
package graph
