// Package pkg provides the core libraries for harmonic graph layout.
//
// # Overview
//
// Harmonic places the nodes of an undirected graph by pinning a few of them
// to fixed coordinates and putting every other node at the average of its
// neighbours. Solving the resulting Laplacian system gives a layout in
// which each free node sits at the barycentre of its neighbourhood.
//
//  1. [graph] - Edge lists, input documents and their codecs
//  2. [laplacian] - Laplacian construction and the pinned linear solve
//  3. [layout] - The layout engine and the serialized layout format
//  4. [render] - SVG, PNG, PDF and Graphviz output
//  5. [pipeline] - Orchestration (parse → layout → render) with caching
//  6. [cache] - File, SQLite and Redis cache backends
//
// # Architecture
//
// The typical data flow:
//
//	JSON / YAML / edge list
//	         ↓
//	    [graph] package (validate edges, resolve pins)
//	         ↓
//	    [laplacian] package (build, pin, factorize, solve)
//	         ↓
//	    [layout] package (result + serialized layout)
//	         ↓
//	    [render] package (plot or node-link diagram)
//
// # Quick Start
//
//	edges := []graph.Edge{{0, 1}, {0, 3}, {1, 2}, {1, 4}, {2, 5}, {3, 4}, {3, 5}, {4, 5}}
//	res, err := layout.Compute(edges, layout.Pins{
//	    0: {X: 0, Y: 0},
//	    1: {X: 0, Y: 1},
//	    2: {X: 1, Y: 1},
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.X, res.Y)
//
// With caching and rendering, go through a [pipeline.Runner]:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	out, err := runner.Execute(ctx, doc, pipeline.Options{Formats: []string{"svg"}})
//
// [graph]: https://pkg.go.dev/github.com/matzehuels/harmonic/pkg/graph
// [laplacian]: https://pkg.go.dev/github.com/matzehuels/harmonic/pkg/laplacian
// [layout]: https://pkg.go.dev/github.com/matzehuels/harmonic/pkg/layout
// [render]: https://pkg.go.dev/github.com/matzehuels/harmonic/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/harmonic/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/harmonic/pkg/pipeline#Runner
// [cache]: https://pkg.go.dev/github.com/matzehuels/harmonic/pkg/cache
package pkg
