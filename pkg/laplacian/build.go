package laplacian

import (
	"gonum.org/v1/gonum/mat"

	"github.com/matzehuels/harmonic/pkg/graph"
)

// Build returns the row-normalized Laplacian of g.
// The returned matrix is freshly allocated and owned by the caller.
func Build(g *graph.Graph) *mat.Dense {
	n := g.N()
	l := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		l.Set(i, i, 1)
	}
	for _, e := range g.Edges() {
		l.Set(e.From, e.To, -1/float64(g.Degree(e.From)))
		l.Set(e.To, e.From, -1/float64(g.Degree(e.To)))
	}
	return l
}

// FromEdges validates edges and returns their Laplacian.
// Invalid edge lists fail with errors.ErrCodeInvalidGraph.
func FromEdges(edges []graph.Edge) (*mat.Dense, error) {
	g, err := graph.New(edges)
	if err != nil {
		return nil, err
	}
	return Build(g), nil
}

// RowSums returns the sum of every row of m.
func RowSums(m mat.Matrix) []float64 {
	r, c := m.Dims()
	sums := make([]float64, r)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			sums[i] += m.At(i, j)
		}
	}
	return sums
}
