package layout

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/harmonic/pkg/errors"
	"github.com/matzehuels/harmonic/pkg/graph"
)

// Layout is the serialized form of a computed layout, as written by the
// layout command and read by the renderers.
type Layout struct {
	Nodes  []Node       `json:"nodes"`
	Edges  []graph.Edge `json:"edges"`
	Bounds Bounds       `json:"bounds"`
	Cond   float64      `json:"cond,omitempty"`
}

// Node is one laid-out node. Nodes are stored in index order.
type Node struct {
	ID     int     `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Degree int     `json:"degree"`
	Pinned bool    `json:"pinned,omitempty"`
}

// Bounds is the bounding box of all nodes.
type Bounds struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// Width returns MaxX - MinX.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns MaxY - MinY.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Point returns the position of node i.
func (l *Layout) Point(i int) r2.Vec {
	return r2.Vec{X: l.Nodes[i].X, Y: l.Nodes[i].Y}
}

// Coordinates returns the x and y arrays of the layout.
func (l *Layout) Coordinates() (x, y []float64) {
	x = make([]float64, len(l.Nodes))
	y = make([]float64, len(l.Nodes))
	for i, n := range l.Nodes {
		x[i], y[i] = n.X, n.Y
	}
	return x, y
}

// Layout converts the result into its serialized form.
func (r *Result) Layout() *Layout {
	out := &Layout{
		Nodes: make([]Node, r.N()),
		Edges: r.Edges(),
		Cond:  r.cond,
	}
	for i := range out.Nodes {
		out.Nodes[i] = Node{
			ID:     i,
			X:      r.X[i],
			Y:      r.Y[i],
			Degree: r.graph.Degree(i),
			Pinned: r.IsPinned(i),
		}
	}
	box := r.Bounds()
	out.Bounds = Bounds{MinX: box.Min.X, MinY: box.Min.Y, MaxX: box.Max.X, MaxY: box.Max.Y}
	return out
}

// Validate checks that nodes are numbered 0..N-1 in order and every edge
// joins two existing nodes.
func (l *Layout) Validate() error {
	if len(l.Nodes) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "layout has no nodes")
	}
	for i, n := range l.Nodes {
		if n.ID != i {
			return errors.New(errors.ErrCodeInvalidInput, "node at position %d has id %d", i, n.ID)
		}
	}
	for _, e := range l.Edges {
		if e.From < 0 || e.From >= len(l.Nodes) || e.To < 0 || e.To >= len(l.Nodes) {
			return errors.New(errors.ErrCodeInvalidInput, "edge %s references a missing node", e)
		}
	}
	return nil
}

// MarshalLayout encodes the result as indented JSON.
func MarshalLayout(r *Result) ([]byte, error) {
	return json.MarshalIndent(r.Layout(), "", "  ")
}

// UnmarshalLayout decodes and validates a JSON layout.
func UnmarshalLayout(data []byte) (*Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode layout")
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// WriteLayout encodes l as indented JSON and writes it to w.
func WriteLayout(l *Layout, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadLayout decodes and validates a JSON layout from r.
func ReadLayout(r io.Reader) (*Layout, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return UnmarshalLayout(data)
}

// WriteLayoutFile writes the result's layout to a JSON file at path.
func WriteLayoutFile(r *Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteLayout(r.Layout(), f)
}

// ReadLayoutFile reads a JSON layout from path.
func ReadLayoutFile(path string) (*Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadLayout(f)
}
