package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/harmonic/pkg/layout"
	"github.com/matzehuels/harmonic/pkg/pipeline"
)

// renderFlags holds the flags shared by the render and run commands.
type renderFlags struct {
	output    string
	formats   string
	style     string
	width     int
	height    int
	noLabels  bool
	highlight bool
	detailed  bool
	scale     float64
	noCache   bool
	refresh   bool
}

func bindRenderFlags(cmd *cobra.Command, f *renderFlags) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output format(s): svg (default), png, pdf, dot, json (comma-separated)")
	cmd.Flags().StringVar(&f.style, "style", "", "drawing style: plot (default), nodelink")
	cmd.Flags().IntVar(&f.width, "width", 0, fmt.Sprintf("frame width in pixels (default %d)", pipeline.DefaultWidth))
	cmd.Flags().IntVar(&f.height, "height", 0, fmt.Sprintf("frame height in pixels (default %d)", pipeline.DefaultHeight))
	cmd.Flags().BoolVar(&f.noLabels, "no-labels", false, "omit node index labels")
	cmd.Flags().BoolVar(&f.highlight, "highlight-pins", false, "draw pinned nodes with a heavier stroke")
	cmd.Flags().BoolVar(&f.detailed, "detailed", false, "label nodes with degree and position (nodelink)")
	cmd.Flags().Float64Var(&f.scale, "scale", 0, "inches per layout unit (nodelink)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached results")
}

// options converts the flags into pipeline options, filling unset values
// from the config file.
func (f renderFlags) options(cfg Config) (pipeline.Options, error) {
	opts := pipeline.Options{
		Formats:       parseFormats(f.formats),
		Style:         f.style,
		Width:         f.width,
		Height:        f.height,
		HideLabels:    f.noLabels,
		HighlightPins: f.highlight,
		Detailed:      f.detailed,
		Scale:         f.scale,
		Refresh:       f.refresh,
	}
	cfg.applyRender(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return opts, err
	}
	return opts, nil
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render [layout.json]",
		Short: "Draw a computed layout as SVG, PNG, PDF or DOT",
		Long: `Draw a layout file produced by 'harmonic layout'.

The plot style draws nodes as labelled disks joined by straight edges. The
nodelink style passes fixed node positions to Graphviz (neato) and is
selected with --style nodelink. PDF output from the plot style requires
rsvg-convert on PATH.`,
		Example: `  harmonic render fan.layout.json
  harmonic render fan.layout.json -f svg,png --highlight-pins
  harmonic render fan.layout.json --style nodelink -f dot,svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(c.Config)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts, flags)
		},
	}

	bindRenderFlags(cmd, &flags)
	return cmd
}

// runRender loads a layout file, renders it and writes one file per format.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, flags renderFlags) error {
	l, err := layout.ReadLayoutFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", strings.Join(opts.Formats, ", ")))
	spinner.Start()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	paths, err := writeArtifacts(artifacts, input, flags.output)
	if err != nil {
		return err
	}

	printSuccess("Rendered %d file(s)", len(paths))
	for _, p := range paths {
		printFile(p)
	}
	printStats(len(l.Nodes), len(l.Edges), pinnedCount(l), cacheHit)
	return nil
}

// writeArtifacts writes each artifact next to input, or to output when
// given. With several formats output is used as a base path.
func writeArtifacts(artifacts map[string][]byte, input, output string) ([]string, error) {
	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := artifactPath(input, output, format, len(formats) > 1)
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return paths, fmt.Errorf("create %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func artifactPath(input, output, format string, multi bool) string {
	switch {
	case output == "":
		return outputPath(input, "."+format)
	case multi:
		return strings.TrimSuffix(output, filepath.Ext(output)) + "." + format
	default:
		return output
	}
}
