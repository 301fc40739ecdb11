package plot

import (
	"github.com/matzehuels/harmonic/pkg/layout"
	"github.com/matzehuels/harmonic/pkg/render"
)

const (
	DefaultWidth  = 800
	DefaultHeight = 600
	// DefaultRadius matches a 500pt² scatter marker.
	DefaultRadius = 13
)

// Options controls plot output. Zero values select the defaults.
type Options struct {
	Width  int
	Height int
	Radius int
	// Margin defaults to twice the node radius.
	Margin int
	// HideLabels suppresses the node index labels.
	HideLabels bool
	// HighlightPins draws pinned nodes with a heavier outline.
	HighlightPins bool
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Radius <= 0 {
		o.Radius = DefaultRadius
	}
	if o.Margin <= 0 {
		o.Margin = 2 * o.Radius
	}
	return o
}

func (o Options) transform(l *layout.Layout) render.Transform {
	return render.Fit(l.Bounds, render.Frame{
		Width:  float64(o.Width),
		Height: float64(o.Height),
		Margin: float64(o.Margin),
	})
}

// strokeWidth returns the outline width of node n.
func (o Options) strokeWidth(n layout.Node) float64 {
	if o.HighlightPins && n.Pinned {
		return 3
	}
	return 1.5
}
