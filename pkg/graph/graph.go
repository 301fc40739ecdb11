package graph

import (
	"slices"

	gonum "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/matzehuels/harmonic/pkg/errors"
)

// Graph is a validated undirected graph on the nodes 0..N-1.
//
// The adjacency is built once in [New]; degree and neighbour queries do not
// rescan the edge list.
type Graph struct {
	n     int
	edges []Edge
	adj   *simple.UndirectedGraph
}

// New validates edges and builds the graph.
//
// The edge slice is copied; later changes by the caller are not observed.
// All violations are reported as errors.ErrCodeInvalidGraph.
func New(edges []Edge) (*Graph, error) {
	n, err := NodeCount(edges)
	if err != nil {
		return nil, err
	}

	seen := make(map[[2]int]bool, len(edges))
	for _, e := range edges {
		if e.From == e.To {
			return nil, errors.New(errors.ErrCodeInvalidGraph, "edge %s is a self-loop", e)
		}
		k := e.key()
		if seen[k] {
			return nil, errors.New(errors.ErrCodeInvalidGraph, "edge %s appears more than once", e)
		}
		seen[k] = true
	}

	// Every index below n must be an endpoint, so n can never exceed the
	// number of distinct endpoints. Checked before any per-node allocation.
	endpoints := make(map[int]struct{}, 2*len(edges))
	for _, e := range edges {
		endpoints[e.From] = struct{}{}
		endpoints[e.To] = struct{}{}
	}
	if len(endpoints) != n {
		return nil, errors.New(errors.ErrCodeInvalidGraph, "node %d has no incident edges (nodes must be numbered 0..%d without gaps)", firstGap(endpoints), n-1)
	}

	adj := simple.NewUndirectedGraph()
	for i := 0; i < n; i++ {
		adj.AddNode(simple.Node(i))
	}
	for _, e := range edges {
		adj.SetEdge(simple.Edge{F: simple.Node(e.From), T: simple.Node(e.To)})
	}

	return &Graph{
		n:     n,
		edges: slices.Clone(edges),
		adj:   adj,
	}, nil
}

// firstGap returns the smallest non-negative index missing from set.
// The loop is bounded by len(set).
func firstGap(set map[int]struct{}) int {
	i := 0
	for {
		if _, ok := set[i]; !ok {
			return i
		}
		i++
	}
}

// N returns the number of nodes.
func (g *Graph) N() int { return g.n }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Edges returns a copy of the edge list in input order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// Degree returns the number of edges incident to node, or 0 when node is out
// of range.
func (g *Graph) Degree(node int) int {
	if node < 0 || node >= g.n {
		return 0
	}
	return g.adj.From(int64(node)).Len()
}

// Degrees returns the degree of every node, indexed by node.
func (g *Graph) Degrees() []int {
	out := make([]int, g.n)
	for i := range out {
		out[i] = g.Degree(i)
	}
	return out
}

// Neighbors returns the nodes adjacent to node in ascending order.
func (g *Graph) Neighbors(node int) []int {
	if node < 0 || node >= g.n {
		return nil
	}
	return sortedIDs(gonum.NodesOf(g.adj.From(int64(node))))
}

// HasEdge reports whether i and j are adjacent.
func (g *Graph) HasEdge(i, j int) bool {
	return g.adj.HasEdgeBetween(int64(i), int64(j))
}

// Components returns the connected components, each sorted ascending, ordered
// by their smallest node.
func (g *Graph) Components() [][]int {
	cc := topo.ConnectedComponents(g.adj)
	out := make([][]int, len(cc))
	for i, c := range cc {
		out[i] = sortedIDs(c)
	}
	slices.SortFunc(out, func(a, b []int) int { return a[0] - b[0] })
	return out
}

// Connected reports whether the graph has a single connected component.
func (g *Graph) Connected() bool {
	return len(g.Components()) == 1
}

func sortedIDs(nodes []gonum.Node) []int {
	ids := make([]int, len(nodes))
	for i, n := range nodes {
		ids[i] = int(n.ID())
	}
	slices.Sort(ids)
	return ids
}
