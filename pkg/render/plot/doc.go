// Package plot draws a layout as a plain node-link plot.
//
// Nodes are white disks with a black outline, labeled with their index.
// Edges are straight black lines drawn beneath the nodes. Coordinates are
// scaled uniformly into the requested frame with the y axis pointing up.
//
//	svg := plot.RenderSVG(l, plot.Options{Width: 800, Height: 600})
//	png, err := plot.RenderPNG(l, plot.Options{})
//
// SVG output is produced with [github.com/ajstarks/svgo]; PNG output is
// rasterized in process with [github.com/fogleman/gg] and needs no external
// tools.
package plot
