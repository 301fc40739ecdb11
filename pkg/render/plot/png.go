package plot

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"strconv"

	"github.com/fogleman/gg"

	"github.com/matzehuels/harmonic/pkg/layout"
)

// RenderPNG rasterizes l and returns the encoded PNG.
func RenderPNG(l *layout.Layout, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := WritePNG(&buf, l, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WritePNG rasterizes l and writes the encoded PNG to w.
func WritePNG(w io.Writer, l *layout.Layout, opts Options) error {
	opts = opts.withDefaults()
	t := opts.transform(l)

	dc := gg.NewContext(opts.Width, opts.Height)
	dc.SetColor(color.White)
	dc.Clear()

	dc.SetColor(color.Black)
	dc.SetLineWidth(1.5)
	for _, e := range l.Edges {
		x1, y1 := t.Apply(l.Nodes[e.From].X, l.Nodes[e.From].Y)
		x2, y2 := t.Apply(l.Nodes[e.To].X, l.Nodes[e.To].Y)
		dc.DrawLine(x1, y1, x2, y2)
		dc.Stroke()
	}

	r := float64(opts.Radius)
	for _, n := range l.Nodes {
		x, y := t.Apply(n.X, n.Y)
		dc.DrawCircle(x, y, r)
		dc.SetColor(color.White)
		dc.FillPreserve()
		dc.SetColor(color.Black)
		dc.SetLineWidth(opts.strokeWidth(n))
		dc.Stroke()
		if !opts.HideLabels {
			dc.DrawStringAnchored(strconv.Itoa(n.ID), x, y, 0.5, 0.35)
		}
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
