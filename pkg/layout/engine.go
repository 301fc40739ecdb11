package layout

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/harmonic/pkg/errors"
	"github.com/matzehuels/harmonic/pkg/graph"
	"github.com/matzehuels/harmonic/pkg/laplacian"
)

// Pins maps a node index to the position it is fixed at.
type Pins map[int]r2.Vec

// Indices returns the pinned node indices in ascending order.
func (p Pins) Indices() []int {
	return laplacian.PinnedIndices(p)
}

// PinsFromGuess selects the guess coordinates of the nodes in idx.
// x and y must have the same length; every index must fall inside them.
func PinsFromGuess(x, y []float64, idx []int) (Pins, error) {
	if len(x) != len(y) {
		return nil, errors.New(errors.ErrCodeInvalidPinSet, "guess has %d x and %d y coordinates", len(x), len(y))
	}
	pins := make(Pins, len(idx))
	for _, i := range idx {
		if i < 0 || i >= len(x) {
			return nil, errors.New(errors.ErrCodeInvalidPinSet, "pinned node %d is outside the guess (length %d)", i, len(x))
		}
		pins[i] = r2.Vec{X: x[i], Y: y[i]}
	}
	return pins, nil
}

// Compute lays out the graph given by edges with the given nodes pinned.
func Compute(edges []graph.Edge, pins Pins) (*Result, error) {
	g, err := graph.New(edges)
	if err != nil {
		return nil, err
	}
	return ComputeGraph(g, pins)
}

// ComputeFromGuess lays out edges keeping the nodes in pinned where the
// guess places them. The guess must cover every node of the graph.
func ComputeFromGuess(edges []graph.Edge, x, y []float64, pinned []int) (*Result, error) {
	g, err := graph.New(edges)
	if err != nil {
		return nil, err
	}
	if len(x) != g.N() || len(y) != g.N() {
		return nil, errors.New(errors.ErrCodeInvalidPinSet,
			"guess has %d x and %d y coordinates, graph has %d nodes", len(x), len(y), g.N())
	}
	pins, err := PinsFromGuess(x, y, pinned)
	if err != nil {
		return nil, err
	}
	return ComputeGraph(g, pins)
}

// ComputeDocument lays out a decoded request document. Explicit pins take
// precedence over the guess form.
func ComputeDocument(doc *graph.Document) (*Result, error) {
	if doc == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "document is nil")
	}
	if len(doc.Pins) == 0 && doc.Guess != nil {
		return ComputeFromGuess(doc.Edges, doc.Guess.X, doc.Guess.Y, doc.Pinned)
	}
	pins, err := doc.PinMap()
	if err != nil {
		return nil, err
	}
	return Compute(doc.Edges, pins)
}

// ComputeGraph lays out an already validated graph.
func ComputeGraph(g *graph.Graph, pins Pins) (*Result, error) {
	if err := validatePins(g, pins); err != nil {
		return nil, err
	}
	if err := checkComponents(g, pins); err != nil {
		return nil, err
	}

	idx := pins.Indices()
	lp := laplacian.Pin(laplacian.Build(g), idx)
	b, c := laplacian.RHS(g.N(), pins)

	solver, err := laplacian.Factorize(lp)
	if err != nil {
		return nil, err
	}
	x, err := solver.Solve(b)
	if err != nil {
		return nil, err
	}
	y, err := solver.Solve(c)
	if err != nil {
		return nil, err
	}

	// Pinned rows are identity rows, so the solve reproduces the targets up
	// to rounding. Store them exactly.
	for i, p := range pins {
		x[i], y[i] = p.X, p.Y
	}

	return &Result{
		X:      x,
		Y:      y,
		Pinned: idx,
		Pins:   clonePins(pins),
		graph:  g,
		cond:   solver.Cond(),
	}, nil
}

func validatePins(g *graph.Graph, pins Pins) error {
	if len(pins) == 0 {
		return errors.New(errors.ErrCodeInvalidPinSet, "at least one node must be pinned")
	}
	for _, i := range pins.Indices() {
		if i < 0 || i >= g.N() {
			return errors.New(errors.ErrCodeInvalidPinSet, "pinned node %d is outside 0..%d", i, g.N()-1)
		}
		p := pins[i]
		if !finite(p.X) || !finite(p.Y) {
			return errors.New(errors.ErrCodeInvalidPinSet, "pinned node %d has non-finite target (%g, %g)", i, p.X, p.Y)
		}
	}
	return nil
}

// checkComponents rejects graphs with a component that holds no pin. Such a
// component floats freely and makes the pinned system singular.
func checkComponents(g *graph.Graph, pins Pins) error {
	for _, comp := range g.Components() {
		pinned := false
		for _, i := range comp {
			if _, ok := pins[i]; ok {
				pinned = true
				break
			}
		}
		if !pinned {
			return errors.New(errors.ErrCodeInvalidGraph, "component containing node %d has no pinned node", comp[0])
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func clonePins(p Pins) Pins {
	out := make(Pins, len(p))
	for i, v := range p {
		out[i] = v
	}
	return out
}
