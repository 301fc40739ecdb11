// Package pipeline provides the layout → render pipeline for harmonic.
//
// This package implements the complete layout → render pipeline used by the
// CLI and the HTTP server. By centralizing this logic, both entry points
// share caching, validation and logging behavior.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Layout: Solve the pinned Laplacian system for node coordinates
//  2. Render: Generate output in various formats (SVG, PNG, PDF, DOT, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
// Both stages are cached: layouts by the hash of the request document,
// artifacts by the hash of the layout plus the render options.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	doc, _ := graph.ReadFile("graph.json")
//	result, err := runner.Execute(ctx, doc, pipeline.Options{
//	    Formats: []string{"svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Layout only
//	l, err := runner.ComputeLayout(ctx, doc, opts)
//
//	// Render an existing layout
//	artifacts, err := runner.Render(ctx, l, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/harmonic/pkg/cache"
	"github.com/matzehuels/harmonic/pkg/errors"
	"github.com/matzehuels/harmonic/pkg/layout"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultWidth is the default frame width in pixels.
	DefaultWidth = 800

	// DefaultHeight is the default frame height in pixels.
	DefaultHeight = 600

	// DefaultStyle is the default visual style.
	DefaultStyle = StylePlot

	// DefaultPNGScale is the rasterization scale for nodelink PNG output.
	DefaultPNGScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// Style constants for rendering styles.
const (
	// StylePlot draws white disks and straight black edges.
	StylePlot = "plot"

	// StyleNodelink draws through Graphviz with fixed node positions.
	StyleNodelink = "nodelink"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// ValidStyles is the set of supported visual styles.
var ValidStyles = map[string]bool{
	StylePlot:     true,
	StyleNodelink: true,
}

// ContentTypes maps output formats to MIME types.
var ContentTypes = map[string]string{
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
	FormatPDF:  "application/pdf",
	FormatDOT:  "text/vnd.graphviz",
	FormatJSON: "application/json",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	Tolerance float64 `json:"tolerance,omitempty"` // residual accepted by the harmonic check
	Refresh   bool    `json:"refresh,omitempty"`   // ignore cached layouts and artifacts

	// Render options
	Formats       []string `json:"formats,omitempty"`
	Style         string   `json:"style,omitempty"`
	Width         int      `json:"width,omitempty"`
	Height        int      `json:"height,omitempty"`
	HideLabels    bool     `json:"hide_labels,omitempty"`
	HighlightPins bool     `json:"highlight_pins,omitempty"`
	Detailed      bool     `json:"detailed,omitempty"` // nodelink labels with degree and position
	Scale         float64  `json:"scale,omitempty"`    // nodelink inches per layout unit

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Layout is the computed layout.
	Layout *layout.Layout

	// DocHash is the content hash of the request document.
	DocHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	PinCount   int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, dot, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	if !ValidStyles[style] {
		return errors.New(errors.ErrCodeInvalidStyle, "invalid style: %q (must be one of: plot, nodelink)", style)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Tolerance <= 0 {
		o.Tolerance = layout.DefaultTolerance
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return ValidateStyle(o.Style)
}

// ValidateAndSetDefaults applies defaults for the full pipeline and checks
// the render options. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	o.SetLayoutDefaults()
	return o.ValidateForRender()
}

// IsNodelink returns true if artifacts are drawn through Graphviz.
func (o *Options) IsNodelink() bool {
	return o.Style == StyleNodelink
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{Tolerance: o.Tolerance}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
// Options that do not affect the given format are left out so that, for
// example, a JSON artifact is shared between styles.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch {
	case format == FormatJSON:
	case format == FormatDOT || o.IsNodelink():
		k.Style = StyleNodelink
		k.Scale = o.Scale
		k.Detailed = o.Detailed
	default:
		k.Style = o.Style
		k.Width = o.Width
		k.Height = o.Height
		k.Labels = !o.HideLabels
		k.Highlight = o.HighlightPins
	}
	return k
}
