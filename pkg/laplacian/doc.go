// Package laplacian builds the degree-normalized graph Laplacian and solves
// the pinned linear systems that produce a harmonic layout.
//
// # Laplacian
//
// For a graph on N nodes, [Build] returns the N×N matrix L with
//
//	L[i][i] = 1
//	L[i][j] = -1/deg(i)   if i and j are adjacent
//	L[i][j] = 0           otherwise
//
// Each row is normalized by the degree of its own node, so (L·x)[i] is x[i]
// minus the mean of x over the neighbours of i, and every row sums to zero.
// The matrix is not symmetric unless the graph is regular.
//
// # Pinning
//
// [Pin] copies L and replaces the row of every pinned node with the matching
// identity row. [RHS] builds the right-hand sides carrying the pin targets.
// Solving the pinned system is a discrete Dirichlet problem: pinned nodes keep
// their targets and every other node sits at the mean of its neighbours.
//
// # Solving
//
// [Factorize] LU-decomposes the pinned matrix once; [Solver.Solve] is then
// called for the x and y right-hand sides. A singular or ill-conditioned
// matrix is reported as errors.ErrCodeSingularSystem.
//
// Matrices are dense (gonum/mat). Memory and factorization cost grow as N²
// and N³.
package laplacian
