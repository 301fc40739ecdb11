package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/harmonic/pkg/layout"
	"github.com/matzehuels/harmonic/pkg/render"
	"github.com/matzehuels/harmonic/pkg/render/nodelink"
	"github.com/matzehuels/harmonic/pkg/render/plot"
)

// RenderFromLayout generates output artifacts in the requested formats.
// Options must already be validated.
func RenderFromLayout(ctx context.Context, l *layout.Layout, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		if _, done := artifacts[format]; done {
			continue
		}
		data, err := renderFormat(ctx, l, format, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, l *layout.Layout, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(l, "", "  ")
	case FormatDOT:
		return []byte(nodelink.ToDOT(l, nodelinkOptions(opts))), nil
	}

	if opts.IsNodelink() {
		return renderNodelink(ctx, l, format, opts)
	}
	return renderPlot(l, format, opts)
}

func renderPlot(l *layout.Layout, format string, opts Options) ([]byte, error) {
	popts := plotOptions(opts)
	switch format {
	case FormatSVG:
		return plot.RenderSVG(l, popts), nil
	case FormatPNG:
		return plot.RenderPNG(l, popts)
	case FormatPDF:
		return render.ToPDF(plot.RenderSVG(l, popts))
	default:
		return nil, fmt.Errorf("unsupported plot format: %s", format)
	}
}

func renderNodelink(ctx context.Context, l *layout.Layout, format string, opts Options) ([]byte, error) {
	dot := nodelink.ToDOT(l, nodelinkOptions(opts))
	switch format {
	case FormatSVG:
		return nodelink.RenderSVG(ctx, dot)
	case FormatPNG:
		return nodelink.RenderPNG(ctx, dot, DefaultPNGScale)
	case FormatPDF:
		return nodelink.RenderPDF(ctx, dot)
	default:
		return nil, fmt.Errorf("unsupported nodelink format: %s", format)
	}
}

func plotOptions(opts Options) plot.Options {
	return plot.Options{
		Width:         opts.Width,
		Height:        opts.Height,
		HideLabels:    opts.HideLabels,
		HighlightPins: opts.HighlightPins,
	}
}

func nodelinkOptions(opts Options) nodelink.Options {
	return nodelink.Options{
		Scale:    opts.Scale,
		Detailed: opts.Detailed,
	}
}
