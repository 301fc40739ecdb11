package layout

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/harmonic/pkg/errors"
	"github.com/matzehuels/harmonic/pkg/graph"
	"github.com/matzehuels/harmonic/pkg/laplacian"
)

// DefaultTolerance is the residual accepted by [Result.Verify] when called
// with a non-positive tolerance.
const DefaultTolerance = 1e-9

// Result is a computed layout.
type Result struct {
	// X and Y hold one coordinate per node, indexed by node.
	X []float64
	Y []float64

	// Pinned lists the pinned nodes in ascending order.
	Pinned []int

	// Pins are the pin targets the layout was computed with.
	Pins Pins

	graph *graph.Graph
	cond  float64
}

// N returns the number of nodes.
func (r *Result) N() int { return len(r.X) }

// Graph returns the validated graph the layout was computed for.
func (r *Result) Graph() *graph.Graph { return r.graph }

// Edges returns a copy of the graph's edges.
func (r *Result) Edges() []graph.Edge { return r.graph.Edges() }

// Cond returns the estimated condition number of the pinned system.
func (r *Result) Cond() float64 { return r.cond }

// Point returns the position of node i.
func (r *Result) Point(i int) r2.Vec {
	return r2.Vec{X: r.X[i], Y: r.Y[i]}
}

// Points returns all node positions, indexed by node.
func (r *Result) Points() []r2.Vec {
	pts := make([]r2.Vec, r.N())
	for i := range pts {
		pts[i] = r.Point(i)
	}
	return pts
}

// IsPinned reports whether node i was pinned.
func (r *Result) IsPinned(i int) bool {
	_, ok := r.Pins[i]
	return ok
}

// Bounds returns the smallest box containing every node.
func (r *Result) Bounds() r2.Box {
	return boundsOf(r.X, r.Y)
}

// Verify checks the layout against the pinned system it solves: pinned
// nodes sit on their targets and max |L_pinned·v - rhs| stays within tol
// for both axes. tol is relative to the largest pin coordinate of each axis,
// floored at 1, so unit-scale pins are held to tol itself. A non-positive
// tol selects DefaultTolerance.
func (r *Result) Verify(tol float64) error {
	if tol <= 0 {
		tol = DefaultTolerance
	}
	b, c := laplacian.RHS(r.N(), r.Pins)
	tolX := tol * math.Max(1, mat.Norm(b, math.Inf(1)))
	tolY := tol * math.Max(1, mat.Norm(c, math.Inf(1)))

	for i, p := range r.Pins {
		if math.Abs(r.X[i]-p.X) > tolX || math.Abs(r.Y[i]-p.Y) > tolY {
			return errors.New(errors.ErrCodeInternal,
				"pinned node %d at (%g, %g), want (%g, %g)", i, r.X[i], r.Y[i], p.X, p.Y)
		}
	}

	lp := laplacian.Pin(laplacian.Build(r.graph), r.Pinned)
	if res := laplacian.Residual(lp, r.X, b); res > tolX {
		return errors.New(errors.ErrCodeInternal, "x residual %.3g exceeds %.3g", res, tolX)
	}
	if res := laplacian.Residual(lp, r.Y, c); res > tolY {
		return errors.New(errors.ErrCodeInternal, "y residual %.3g exceeds %.3g", res, tolY)
	}
	return nil
}

func boundsOf(x, y []float64) r2.Box {
	if len(x) == 0 {
		return r2.Box{}
	}
	b := r2.Box{Min: r2.Vec{X: x[0], Y: y[0]}, Max: r2.Vec{X: x[0], Y: y[0]}}
	for i := 1; i < len(x); i++ {
		b.Min.X = math.Min(b.Min.X, x[i])
		b.Min.Y = math.Min(b.Min.Y, y[i])
		b.Max.X = math.Max(b.Max.X, x[i])
		b.Max.Y = math.Max(b.Max.Y, y[i])
	}
	return b
}
