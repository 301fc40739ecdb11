// Package nodelink renders layouts as Graphviz node-link diagrams.
//
// # Overview
//
// The layout is already computed, so Graphviz is only used to draw it: every
// node carries a fixed position (pos="x,y!") and the neato engine keeps it
// there. Edges are undirected straight lines.
//
// # Usage
//
// Convert a layout to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(l, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)
//
// # DOT Format
//
// The [ToDOT] output can also be saved and processed with external Graphviz
// tools, e.g. `neato -n -Tsvg`.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
