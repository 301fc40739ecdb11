package plot

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/harmonic/pkg/layout"
)

const (
	edgeStyle  = "stroke:black;stroke-width:1.5"
	labelStyle = "fill:black;font-size:12px;font-family:sans-serif;text-anchor:middle;dominant-baseline:central"
)

// RenderSVG draws l and returns the SVG document.
func RenderSVG(l *layout.Layout, opts Options) []byte {
	var buf bytes.Buffer
	WriteSVG(&buf, l, opts)
	return buf.Bytes()
}

// WriteSVG draws l as SVG onto w.
func WriteSVG(w io.Writer, l *layout.Layout, opts Options) {
	opts = opts.withDefaults()
	t := opts.transform(l)

	canvas := svg.New(w)
	canvas.Start(opts.Width, opts.Height)
	canvas.Title(fmt.Sprintf("%d nodes, %d edges", len(l.Nodes), len(l.Edges)))
	canvas.Rect(0, 0, opts.Width, opts.Height, "fill:white")

	px := make([]int, len(l.Nodes))
	py := make([]int, len(l.Nodes))
	for i, n := range l.Nodes {
		x, y := t.Apply(n.X, n.Y)
		px[i], py[i] = int(math.Round(x)), int(math.Round(y))
	}

	canvas.Gid("edges")
	for _, e := range l.Edges {
		canvas.Line(px[e.From], py[e.From], px[e.To], py[e.To], edgeStyle)
	}
	canvas.Gend()

	canvas.Gid("nodes")
	for i, n := range l.Nodes {
		canvas.Circle(px[i], py[i], opts.Radius,
			fmt.Sprintf("fill:white;stroke:black;stroke-width:%g", opts.strokeWidth(n)))
		if !opts.HideLabels {
			canvas.Text(px[i], py[i], strconv.Itoa(n.ID), labelStyle)
		}
	}
	canvas.Gend()

	canvas.End()
}
