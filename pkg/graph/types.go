package graph

import (
	"encoding/json"
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/harmonic/pkg/errors"
)

// =============================================================================
// Edge - Undirected Connection
// =============================================================================

// Edge is an unordered pair of node indices.
//
// Edges serialize as two-element arrays ([0, 1]). The object form
// {"from": 0, "to": 1} is accepted on input.
type Edge struct {
	From int
	To   int
}

// Other returns the endpoint of e opposite to node.
// The result is meaningless when node is not an endpoint of e.
func (e Edge) Other(node int) int {
	if e.From == node {
		return e.To
	}
	return e.From
}

// Touches reports whether node is an endpoint of e.
func (e Edge) Touches(node int) bool {
	return e.From == node || e.To == node
}

// key returns the orientation-independent identity of e.
func (e Edge) key() [2]int {
	if e.From > e.To {
		return [2]int{e.To, e.From}
	}
	return [2]int{e.From, e.To}
}

// String returns the edge as "i-j".
func (e Edge) String() string {
	return fmt.Sprintf("%d-%d", e.From, e.To)
}

type edgeObject struct {
	From int `json:"from" yaml:"from"`
	To   int `json:"to" yaml:"to"`
}

// MarshalJSON encodes the edge as a [from, to] pair.
func (e Edge) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{e.From, e.To})
}

// UnmarshalJSON decodes either a [from, to] pair or a {"from", "to"} object.
func (e *Edge) UnmarshalJSON(data []byte) error {
	var pair []int
	if err := json.Unmarshal(data, &pair); err == nil {
		return e.setPair(pair)
	}
	var obj edgeObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("edge must be [i, j] or {\"from\": i, \"to\": j}: %w", err)
	}
	e.From, e.To = obj.From, obj.To
	return nil
}

// MarshalYAML encodes the edge as a flow-style [from, to] sequence.
func (e Edge) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, v := range []int{e.From, e.To} {
		n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprint(v)})
	}
	return n, nil
}

// UnmarshalYAML decodes either a [from, to] sequence or a from/to mapping.
func (e *Edge) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		var pair []int
		if err := value.Decode(&pair); err != nil {
			return err
		}
		return e.setPair(pair)
	}
	var obj edgeObject
	if err := value.Decode(&obj); err != nil {
		return fmt.Errorf("line %d: edge must be [i, j] or from/to mapping: %w", value.Line, err)
	}
	e.From, e.To = obj.From, obj.To
	return nil
}

func (e *Edge) setPair(pair []int) error {
	if len(pair) != 2 {
		return fmt.Errorf("edge must have exactly 2 endpoints, got %d", len(pair))
	}
	e.From, e.To = pair[0], pair[1]
	return nil
}

// =============================================================================
// Document - Layout Request
// =============================================================================

// Document is the serialized form of a layout request: the edge list plus
// the pins.
//
// Pins are given either explicitly (node → [x, y]) or as Pinned indices whose
// coordinates come from Guess. Explicit pins take precedence.
type Document struct {
	Edges  []Edge             `json:"edges" yaml:"edges"`
	Pins   map[int][2]float64 `json:"pins,omitempty" yaml:"pins,omitempty"`
	Pinned []int              `json:"pinned,omitempty" yaml:"pinned,omitempty"`
	Guess  *Guess             `json:"guess,omitempty" yaml:"guess,omitempty"`
}

// Guess is an initial coordinate assignment, indexed by node.
// The layout engine only reads the entries of pinned nodes.
type Guess struct {
	X []float64 `json:"x" yaml:"x"`
	Y []float64 `json:"y" yaml:"y"`
}

// HasPins reports whether the document specifies any pinning at all.
func (d *Document) HasPins() bool {
	return len(d.Pins) > 0 || len(d.Pinned) > 0
}

// PinMap resolves the document's pins to target coordinates.
//
// Explicit Pins win. Otherwise every index in Pinned reads its coordinates
// from Guess. A Pinned list without a usable Guess fails with
// errors.ErrCodeInvalidPinSet. The result is empty when no pins are given.
func (d *Document) PinMap() (map[int]r2.Vec, error) {
	if len(d.Pins) > 0 {
		pins := make(map[int]r2.Vec, len(d.Pins))
		for i, p := range d.Pins {
			pins[i] = r2.Vec{X: p[0], Y: p[1]}
		}
		return pins, nil
	}

	pins := make(map[int]r2.Vec, len(d.Pinned))
	if len(d.Pinned) == 0 {
		return pins, nil
	}
	if d.Guess == nil {
		return nil, errors.New(errors.ErrCodeInvalidPinSet, "pinned nodes given without a coordinate guess")
	}
	if len(d.Guess.X) != len(d.Guess.Y) {
		return nil, errors.New(errors.ErrCodeInvalidPinSet, "guess has %d x and %d y coordinates", len(d.Guess.X), len(d.Guess.Y))
	}
	for _, i := range d.Pinned {
		if i < 0 || i >= len(d.Guess.X) {
			return nil, errors.New(errors.ErrCodeInvalidPinSet, "pinned node %d has no guess coordinates", i)
		}
		pins[i] = r2.Vec{X: d.Guess.X[i], Y: d.Guess.Y[i]}
	}
	return pins, nil
}
