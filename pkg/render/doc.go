// Package render turns computed layouts into images.
//
// # Overview
//
// The renderers read a [layout.Layout], the serialized layout written by the
// layout command, and place every node at its computed coordinates. They
// never move nodes.
//
//   - Plots in the style of a scatter chart (in [plot] subpackage)
//   - Graphviz node-link diagrams (in [nodelink] subpackage)
//
// # Frames
//
// [Fit] maps layout coordinates into a pixel frame: uniform scale, margin on
// every side, y axis pointing up. Both the SVG and PNG plots and the
// terminal viewer draw through it.
//
//	t := render.Fit(l.Bounds, render.Frame{Width: 800, Height: 600, Margin: 40})
//	px, py := t.Apply(l.Nodes[0].X, l.Nodes[0].Y)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
// [plot]: github.com/matzehuels/harmonic/pkg/render/plot
// [nodelink]: github.com/matzehuels/harmonic/pkg/render/nodelink
// [layout.Layout]: github.com/matzehuels/harmonic/pkg/layout.Layout
package render
