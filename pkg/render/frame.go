package render

import (
	"math"

	"github.com/matzehuels/harmonic/pkg/layout"
)

// Frame is a drawing area in device units (pixels or terminal cells).
type Frame struct {
	Width  float64
	Height float64
	Margin float64
}

// Transform maps layout coordinates into a frame.
type Transform struct {
	scale      float64
	offX, offY float64
	minX, maxY float64
}

// Fit returns the transform that centers b in f with a uniform scale on both
// axes. The y axis is flipped so larger layout y values appear higher up.
// A box with no extent is placed at the center of the frame.
func Fit(b layout.Bounds, f Frame) Transform {
	innerW := math.Max(f.Width-2*f.Margin, 0)
	innerH := math.Max(f.Height-2*f.Margin, 0)

	scale := math.Inf(1)
	if w := b.Width(); w > 0 {
		scale = innerW / w
	}
	if h := b.Height(); h > 0 {
		scale = math.Min(scale, innerH/h)
	}
	if math.IsInf(scale, 1) {
		scale = 0
	}

	return Transform{
		scale: scale,
		offX:  f.Margin + (innerW-b.Width()*scale)/2,
		offY:  f.Margin + (innerH-b.Height()*scale)/2,
		minX:  b.MinX,
		maxY:  b.MaxY,
	}
}

// Scale returns the number of device units per layout unit.
func (t Transform) Scale() float64 { return t.scale }

// Apply maps a layout point to device coordinates.
func (t Transform) Apply(x, y float64) (float64, float64) {
	return t.offX + (x-t.minX)*t.scale, t.offY + (t.maxY-y)*t.scale
}
