package graph

import (
	"math"

	"github.com/matzehuels/harmonic/pkg/errors"
)

// Degree returns the number of edges in edges incident to node.
// A node that appears in no edge has degree 0; Degree never fails.
//
// Degree rescans the edge list on every call. It is the reference counter
// for a raw edge list; [Graph.Degree] answers the same question from the
// adjacency built once by [New], which is what the Laplacian uses.
func Degree(node int, edges []Edge) int {
	degree := 0
	for _, e := range edges {
		if e.Touches(node) {
			degree++
		}
	}
	return degree
}

// NodeCount infers N, one more than the largest index referenced by edges.
// It fails with errors.ErrCodeInvalidGraph on an empty edge list or a
// negative index.
func NodeCount(edges []Edge) (int, error) {
	if len(edges) == 0 {
		return 0, errors.New(errors.ErrCodeInvalidGraph, "edge list is empty")
	}
	highest := -1
	for _, e := range edges {
		if e.From < 0 || e.To < 0 {
			return 0, errors.New(errors.ErrCodeInvalidGraph, "edge %s has a negative node index", e)
		}
		highest = max(highest, e.From, e.To)
	}
	if highest == math.MaxInt {
		return 0, errors.New(errors.ErrCodeInvalidGraph, "node index %d is out of range", highest)
	}
	return highest + 1, nil
}
