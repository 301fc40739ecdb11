package laplacian

import (
	stderrors "errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/harmonic/pkg/errors"
)

// Pin returns a copy of l in which the row of every pinned node is replaced
// by the corresponding identity row. l is not modified.
func Pin(l mat.Matrix, pinned []int) *mat.Dense {
	p := mat.DenseCopyOf(l)
	_, n := p.Dims()
	row := make([]float64, n)
	for _, i := range pinned {
		clear(row)
		row[i] = 1
		p.SetRow(i, row)
	}
	return p
}

// RHS builds the right-hand sides of the pinned x and y systems: the pin
// target at every pinned node and zero everywhere else.
func RHS(n int, pins map[int]r2.Vec) (b, c *mat.VecDense) {
	b = mat.NewVecDense(n, nil)
	c = mat.NewVecDense(n, nil)
	for i, p := range pins {
		b.SetVec(i, p.X)
		c.SetVec(i, p.Y)
	}
	return b, c
}

// PinnedIndices returns the keys of pins in ascending order.
func PinnedIndices(pins map[int]r2.Vec) []int {
	idx := make([]int, 0, len(pins))
	for i := range pins {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	return idx
}

// Solver holds the LU factorization of a pinned Laplacian so that several
// right-hand sides can be solved against one decomposition.
type Solver struct {
	lu mat.LU
	n  int
}

// Factorize LU-decomposes a. It fails with errors.ErrCodeSingularSystem when
// a is exactly singular.
func Factorize(a mat.Matrix) (*Solver, error) {
	r, c := a.Dims()
	if r != c {
		return nil, errors.New(errors.ErrCodeInternal, "laplacian is %dx%d, want square", r, c)
	}
	s := &Solver{n: r}
	s.lu.Factorize(a)
	if cond := s.lu.Cond(); math.IsInf(cond, 1) || math.IsNaN(cond) {
		return nil, errors.New(errors.ErrCodeSingularSystem, "pinned laplacian is singular")
	}
	return s, nil
}

// Cond returns the estimated condition number of the factorized matrix.
func (s *Solver) Cond() float64 { return s.lu.Cond() }

// Solve returns x with A·x = b. An ill-conditioned system is reported as
// errors.ErrCodeSingularSystem and no solution is returned.
func (s *Solver) Solve(b *mat.VecDense) ([]float64, error) {
	if b.Len() != s.n {
		return nil, errors.New(errors.ErrCodeInternal, "right-hand side has length %d, want %d", b.Len(), s.n)
	}
	var x mat.VecDense
	if err := s.lu.SolveVecTo(&x, false, b); err != nil {
		var cond mat.Condition
		if stderrors.As(err, &cond) {
			return nil, errors.Wrap(errors.ErrCodeSingularSystem, err, "pinned laplacian is ill-conditioned (cond %.3g)", float64(cond))
		}
		return nil, errors.Wrap(errors.ErrCodeSingularSystem, err, "solve pinned laplacian")
	}
	out := make([]float64, s.n)
	for i := range out {
		out[i] = x.AtVec(i)
	}
	return out, nil
}

// Residual returns max |(a·x)[i] - b[i]|, the global consistency error of a
// solution.
func Residual(a mat.Matrix, x []float64, b *mat.VecDense) float64 {
	var ax mat.VecDense
	ax.MulVec(a, mat.NewVecDense(len(x), x))
	worst := 0.0
	for i := 0; i < ax.Len(); i++ {
		worst = math.Max(worst, math.Abs(ax.AtVec(i)-b.AtVec(i)))
	}
	return worst
}
