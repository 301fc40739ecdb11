package graph

import (
	"math"
	"reflect"
	"slices"
	"strings"
	"testing"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/harmonic/pkg/errors"
)

// squareEdges is the eight-edge, six-node graph from the introductory example.
var squareEdges = []Edge{
	{0, 1}, {0, 3}, {1, 2}, {1, 4}, {2, 5}, {3, 4}, {3, 5}, {4, 5},
}

// fanEdges is the ten-edge, six-node graph used for the Laplacian checks.
var fanEdges = []Edge{
	{0, 1}, {0, 2}, {0, 3}, {0, 4}, {0, 5}, {1, 3}, {1, 4}, {2, 4}, {2, 5}, {3, 4},
}

func TestDegree(t *testing.T) {
	tests := []struct {
		name  string
		edges []Edge
		want  []int
	}{
		{"Square", squareEdges, []int{2, 3, 2, 3, 3, 3}},
		{"Fan", fanEdges, []int{5, 3, 3, 3, 4, 2}},
		{"Single", []Edge{{0, 1}}, []int{1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i, want := range tt.want {
				if got := Degree(i, tt.edges); got != want {
					t.Errorf("Degree(%d) = %d, want %d", i, got, want)
				}
			}
		})
	}
}

func TestDegreeMissingNode(t *testing.T) {
	if got := Degree(9, squareEdges); got != 0 {
		t.Errorf("Degree(9) = %d, want 0", got)
	}
	if got := Degree(0, nil); got != 0 {
		t.Errorf("Degree on empty list = %d, want 0", got)
	}
}

func TestDegreeSumIsTwiceEdgeCount(t *testing.T) {
	for _, edges := range [][]Edge{squareEdges, fanEdges} {
		n, err := NodeCount(edges)
		if err != nil {
			t.Fatalf("NodeCount: %v", err)
		}
		sum := 0
		for i := 0; i < n; i++ {
			sum += Degree(i, edges)
		}
		if sum != 2*len(edges) {
			t.Errorf("sum of degrees = %d, want %d", sum, 2*len(edges))
		}
	}
}

func TestNodeCount(t *testing.T) {
	tests := []struct {
		name    string
		edges   []Edge
		want    int
		wantErr bool
	}{
		{"Square", squareEdges, 6, false},
		{"HighestInFrom", []Edge{{4, 0}, {1, 2}}, 5, false},
		{"Empty", nil, 0, true},
		{"Negative", []Edge{{0, -1}}, 0, true},
		{"Overflow", []Edge{{0, math.MaxInt}}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NodeCount(tt.edges)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidGraph) {
					t.Fatalf("err = %v, want INVALID_GRAPH", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NodeCount: %v", err)
			}
			if got != tt.want {
				t.Errorf("NodeCount = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	g, err := New(fanEdges)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if g.N() != 6 {
		t.Errorf("N = %d, want 6", g.N())
	}
	if g.EdgeCount() != 10 {
		t.Errorf("EdgeCount = %d, want 10", g.EdgeCount())
	}
	if got, want := g.Degrees(), []int{5, 3, 3, 3, 4, 2}; !slices.Equal(got, want) {
		t.Errorf("Degrees = %v, want %v", got, want)
	}
	if got, want := g.Neighbors(4), []int{0, 1, 2, 3}; !slices.Equal(got, want) {
		t.Errorf("Neighbors(4) = %v, want %v", got, want)
	}
	if !g.HasEdge(3, 1) {
		t.Error("HasEdge(3, 1) = false, want true")
	}
	if g.HasEdge(4, 5) {
		t.Error("HasEdge(4, 5) = true, want false")
	}
	if !g.Connected() {
		t.Error("Connected = false, want true")
	}
}

func TestNewDegreesMatchDegreeCounter(t *testing.T) {
	g, err := New(squareEdges)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 0; i < g.N(); i++ {
		if g.Degree(i) != Degree(i, squareEdges) {
			t.Errorf("node %d: Graph.Degree = %d, Degree = %d", i, g.Degree(i), Degree(i, squareEdges))
		}
	}
}

func TestNewCopiesEdges(t *testing.T) {
	edges := []Edge{{0, 1}, {1, 2}}
	g, err := New(edges)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	edges[0] = Edge{5, 6}
	if got := g.Edges()[0]; got != (Edge{0, 1}) {
		t.Errorf("Edges()[0] = %v, want 0-1", got)
	}
}

func TestNewInvalid(t *testing.T) {
	tests := []struct {
		name  string
		edges []Edge
	}{
		{"Empty", nil},
		{"Negative", []Edge{{-1, 0}}},
		{"SelfLoop", []Edge{{0, 1}, {1, 1}}},
		{"Duplicate", []Edge{{0, 1}, {0, 1}}},
		{"ReversedDuplicate", []Edge{{0, 1}, {1, 0}}},
		{"IsolatedNode", []Edge{{0, 1}, {1, 3}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.edges)
			if !errors.Is(err, errors.ErrCodeInvalidGraph) {
				t.Errorf("err = %v, want INVALID_GRAPH", err)
			}
		})
	}
}

func TestComponents(t *testing.T) {
	g, err := New([]Edge{{3, 4}, {0, 1}, {1, 2}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got := g.Components()
	want := [][]int{{0, 1, 2}, {3, 4}}
	if len(got) != len(want) {
		t.Fatalf("Components = %v, want %v", got, want)
	}
	for i := range want {
		if !slices.Equal(got[i], want[i]) {
			t.Errorf("component %d = %v, want %v", i, got[i], want[i])
		}
	}
	if g.Connected() {
		t.Error("Connected = true, want false")
	}
}

func TestEdgeHelpers(t *testing.T) {
	e := Edge{2, 7}
	if e.Other(2) != 7 || e.Other(7) != 2 {
		t.Errorf("Other: got %d/%d", e.Other(2), e.Other(7))
	}
	if !e.Touches(7) || e.Touches(3) {
		t.Error("Touches mismatch")
	}
	if e.String() != "2-7" {
		t.Errorf("String = %q, want 2-7", e.String())
	}
}

func TestDocumentPinMap(t *testing.T) {
	tests := []struct {
		name    string
		doc     Document
		want    map[int]r2.Vec
		wantErr bool
	}{
		{
			name: "Explicit",
			doc:  Document{Pins: map[int][2]float64{0: {1, 2}}},
			want: map[int]r2.Vec{0: {X: 1, Y: 2}},
		},
		{
			name: "ExplicitWinsOverGuess",
			doc: Document{
				Pins:   map[int][2]float64{1: {5, 5}},
				Pinned: []int{0},
				Guess:  &Guess{X: []float64{9, 9}, Y: []float64{9, 9}},
			},
			want: map[int]r2.Vec{1: {X: 5, Y: 5}},
		},
		{
			name: "FromGuess",
			doc: Document{
				Pinned: []int{0, 2},
				Guess:  &Guess{X: []float64{1, 2, 3}, Y: []float64{4, 5, 6}},
			},
			want: map[int]r2.Vec{0: {X: 1, Y: 4}, 2: {X: 3, Y: 6}},
		},
		{
			name: "None",
			doc:  Document{},
			want: map[int]r2.Vec{},
		},
		{
			name:    "PinnedWithoutGuess",
			doc:     Document{Pinned: []int{0}},
			wantErr: true,
		},
		{
			name: "PinnedOutsideGuess",
			doc: Document{
				Pinned: []int{3},
				Guess:  &Guess{X: []float64{1}, Y: []float64{1}},
			},
			wantErr: true,
		},
		{
			name: "GuessLengthMismatch",
			doc: Document{
				Pinned: []int{0},
				Guess:  &Guess{X: []float64{1, 2}, Y: []float64{1}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.doc.PinMap()
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidPinSet) {
					t.Fatalf("PinMap() error = %v, want INVALID_PIN_SET", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("PinMap() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("PinMap() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewRejectsSparseIndexEarly(t *testing.T) {
	start := time.Now()
	_, err := New([]Edge{{0, 1}, {1, 2_000_000_000}})
	if !errors.Is(err, errors.ErrCodeInvalidGraph) {
		t.Fatalf("err = %v, want INVALID_GRAPH", err)
	}
	if !strings.Contains(err.Error(), "node 2 has no incident edges") {
		t.Errorf("err = %v, want the first missing node", err)
	}
	if d := time.Since(start); d > time.Second {
		t.Errorf("rejection took %v, want it independent of the largest index", d)
	}
}
