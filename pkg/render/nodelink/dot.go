package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/harmonic/pkg/layout"
	"github.com/matzehuels/harmonic/pkg/render"
)

// DefaultScale is the number of inches per layout unit.
const DefaultScale = 3.0

// Options configures node-link diagram rendering.
type Options struct {
	// Scale is the number of inches per layout unit. Zero selects DefaultScale.
	Scale float64

	// Detailed adds the node degree and coordinates to each label.
	Detailed bool
}

// ToDOT converts a layout to Graphviz DOT format with every node pinned at
// its computed position. The resulting DOT string can be rendered using
// [RenderSVG], [RenderPDF], or [RenderPNG].
//
// Pinned nodes are drawn with a heavier outline.
func ToDOT(l *layout.Layout, opts Options) string {
	scale := opts.Scale
	if scale <= 0 {
		scale = DefaultScale
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, color=black, fontsize=14, width=0.4, fixedsize=true];\n")
	buf.WriteString("  edge [color=black];\n")
	buf.WriteString("\n")

	for _, n := range l.Nodes {
		attrs := fmtAttrs(n, fmtLabel(n, opts.Detailed), scale)
		fmt.Fprintf(&buf, "  %d [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range l.Edges {
		fmt.Fprintf(&buf, "  %d -- %d;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n layout.Node, detailed bool) string {
	id := strconv.Itoa(n.ID)
	if !detailed {
		return id
	}
	return fmt.Sprintf("%s\ndeg %d\n(%.3g, %.3g)", id, n.Degree, n.X, n.Y)
}

func fmtAttrs(n layout.Node, label string, scale float64) []string {
	attrs := []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("pos=\"%s,%s!\"", fmtCoord(n.X*scale), fmtCoord(n.Y*scale)),
	}
	if n.Pinned {
		attrs = append(attrs, "penwidth=2.5")
	}
	return attrs
}

func fmtCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// RenderSVG renders a DOT graph to SVG using the Graphviz neato engine.
// Node positions given in the DOT source are kept.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
