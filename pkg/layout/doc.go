// Package layout computes node coordinates for an undirected graph by
// pinning a subset of nodes and solving for the rest.
//
// Every unpinned node is placed at the mean of its neighbours. With the
// pinned positions fixed this is a linear system per coordinate axis, built
// from the row-normalized graph Laplacian (see package laplacian) and solved
// with one LU factorization shared by x and y.
//
// # Entry Points
//
// [Compute] takes an edge list and an explicit pin mapping:
//
//	res, err := layout.Compute(edges, layout.Pins{
//	    0: {X: 0, Y: 0},
//	    1: {X: 0, Y: 1},
//	    2: {X: 1, Y: 1},
//	})
//
// [ComputeFromGuess] takes an initial coordinate guess and the indices of
// the nodes to keep where the guess put them. [ComputeDocument] accepts a
// decoded [graph.Document] in either form.
//
// # Results
//
// A [Result] holds the coordinate arrays together with the graph and pins
// that produced them. [Result.Verify] re-checks the solution against the
// pinned system; [MarshalLayout] turns it into the JSON layout format read
// by the renderers.
//
// # Errors
//
// Failures carry one of three codes from package errors:
// ErrCodeInvalidGraph for edge lists that violate the graph rules,
// ErrCodeInvalidPinSet for unusable pins, and ErrCodeSingularSystem when
// the pinned system cannot be solved. No partial result is ever returned.
//
// Calls share no state and may run concurrently.
package layout
