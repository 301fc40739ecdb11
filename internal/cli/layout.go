package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/harmonic/pkg/graph"
	"github.com/matzehuels/harmonic/pkg/layout"
	"github.com/matzehuels/harmonic/pkg/pipeline"
)

// layoutOpts holds the flags of the layout command.
type layoutOpts struct {
	output    string
	pins      []string // "i:x,y" overrides
	noCache   bool
	refresh   bool
	watch     bool
	tolerance float64
}

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var opts layoutOpts

	cmd := &cobra.Command{
		Use:   "layout [graph]",
		Short: "Compute the harmonic layout of a graph",
		Long: `Compute the harmonic layout of a graph document.

The input is a JSON or YAML document with "edges" and "pins", or a plain
edge list with one "i j" pair per line. Pins given with --pin are added to
the document's pins and replace any with the same index.

The output is a layout file (default: <graph>.layout.json) that can be
rendered with 'harmonic render' or inspected with 'harmonic view'.`,
		Example: `  harmonic layout fan.json
  harmonic layout square.edges --pin 0:0,0 --pin 1:0,1 --pin 2:1,1
  harmonic layout fan.yaml --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			if !opts.watch {
				return c.runLayout(cmd.Context(), input, opts)
			}
			return watchFile(cmd.Context(), input, defaultDebounce, func() {
				if err := c.runLayout(cmd.Context(), input, opts); err != nil {
					printError("%v", err)
				}
			})
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <graph>.layout.json)")
	cmd.Flags().StringArrayVarP(&opts.pins, "pin", "p", nil, "pin node i at (x,y), as i:x,y (repeatable)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when a cached layout exists")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "recompute whenever the graph file changes")
	cmd.Flags().Float64Var(&opts.tolerance, "tolerance", layout.DefaultTolerance, "largest residual accepted by the harmonic check")

	return cmd
}

// runLayout loads the graph, computes the layout, and writes the layout file.
func (c *CLI) runLayout(ctx context.Context, input string, opts layoutOpts) error {
	doc, err := loadDocument(input, opts.pins)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Solving layout...")
	spinner.Start()

	l, cacheHit, err := runner.ComputeLayoutWithCacheInfo(ctx, doc, pipeline.Options{
		Tolerance: opts.tolerance,
		Refresh:   opts.refresh,
	})
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	dest := opts.output
	if dest == "" {
		dest = outputPath(input, ".layout.json")
	}
	if err := writeLayoutFile(l, dest); err != nil {
		return err
	}

	printSuccess("Layout complete")
	printFile(dest)
	printStats(len(l.Nodes), len(l.Edges), pinnedCount(l), cacheHit)
	if !opts.watch {
		printNewline()
		printNextStep("Render", appName+" render "+dest)
	}
	return nil
}

// loadDocument reads a graph document and applies --pin overrides.
func loadDocument(path string, pinFlags []string) (*graph.Document, error) {
	doc, err := graph.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load graph %s: %w", path, err)
	}
	pins, err := graph.ParsePins(pinFlags)
	if err != nil {
		return nil, err
	}
	if err := doc.OverridePins(pins); err != nil {
		return nil, err
	}
	return doc, nil
}

// writeLayoutFile writes l as indented JSON to path.
func writeLayoutFile(l *layout.Layout, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := layout.WriteLayout(l, f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func pinnedCount(l *layout.Layout) int {
	n := 0
	for _, node := range l.Nodes {
		if node.Pinned {
			n++
		}
	}
	return n
}
