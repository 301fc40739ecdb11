package graph

import (
	"strconv"
	"strings"

	"github.com/matzehuels/harmonic/pkg/errors"
)

// ParsePin parses a pin given on the command line or in a query string, in
// the form "i:x,y".
func ParsePin(s string) (int, [2]float64, error) {
	bad := func(reason string) (int, [2]float64, error) {
		return 0, [2]float64{}, errors.New(errors.ErrCodeInvalidPinSet, "invalid pin %q: %s", s, reason)
	}

	idx, coords, ok := strings.Cut(s, ":")
	if !ok {
		return bad("want i:x,y")
	}
	i, err := strconv.Atoi(strings.TrimSpace(idx))
	if err != nil || i < 0 {
		return bad("bad node index")
	}
	xs, ys, ok := strings.Cut(coords, ",")
	if !ok {
		return bad("want i:x,y")
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return bad("bad x coordinate")
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return bad("bad y coordinate")
	}
	return i, [2]float64{x, y}, nil
}

// OverridePins resolves the document's pins and replaces or adds the given
// ones. Afterwards the document carries explicit Pins only.
func (d *Document) OverridePins(pins map[int][2]float64) error {
	if len(pins) == 0 {
		return nil
	}
	resolved, err := d.PinMap()
	if err != nil {
		return err
	}

	merged := make(map[int][2]float64, len(resolved)+len(pins))
	for i, p := range resolved {
		merged[i] = [2]float64{p.X, p.Y}
	}
	for i, p := range pins {
		merged[i] = p
	}

	d.Pins = merged
	d.Pinned = nil
	d.Guess = nil
	return nil
}

// ParsePins parses a list of "i:x,y" pins. Later entries win.
func ParsePins(specs []string) (map[int][2]float64, error) {
	pins := make(map[int][2]float64, len(specs))
	for _, s := range specs {
		i, p, err := ParsePin(s)
		if err != nil {
			return nil, err
		}
		pins[i] = p
	}
	return pins, nil
}
