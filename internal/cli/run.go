package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/harmonic/pkg/graph"
	"github.com/matzehuels/harmonic/pkg/layout"
	"github.com/matzehuels/harmonic/pkg/pipeline"
)

// runCommand creates the run command: layout and render in one step.
func (c *CLI) runCommand() *cobra.Command {
	var (
		flags     renderFlags
		pins      []string
		tolerance float64
	)

	cmd := &cobra.Command{
		Use:   "run [graph]",
		Short: "Compute a layout and render it in one step",
		Example: `  harmonic run fan.json -f svg,png
  harmonic run square.edges --pin 0:0,0 --pin 1:0,1 --pin 2:1,1 --style nodelink`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(c.Config)
			if err != nil {
				return err
			}
			opts.Tolerance = tolerance
			doc, err := loadDocument(args[0], pins)
			if err != nil {
				return err
			}
			return c.execute(cmd.Context(), args[0], doc, opts, flags)
		},
	}

	bindRenderFlags(cmd, &flags)
	cmd.Flags().StringArrayVarP(&pins, "pin", "p", nil, "pin node i at (x,y), as i:x,y (repeatable)")
	cmd.Flags().Float64Var(&tolerance, "tolerance", layout.DefaultTolerance, "largest residual accepted by the harmonic check")

	return cmd
}

// execute runs the full pipeline and writes the artifacts.
func (c *CLI) execute(ctx context.Context, input string, doc *graph.Document, opts pipeline.Options, flags renderFlags) error {
	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Solving and rendering...")
	spinner.Start()

	result, err := runner.Execute(ctx, doc, opts)
	if err != nil {
		spinner.StopWithError("Pipeline failed")
		return err
	}
	spinner.Stop()

	paths, err := writeArtifacts(result.Artifacts, input, flags.output)
	if err != nil {
		return err
	}

	printSuccess("Rendered %d file(s)", len(paths))
	for _, p := range paths {
		printFile(p)
	}
	st := result.Stats
	printStats(st.NodeCount, st.EdgeCount, st.PinCount, result.CacheInfo.LayoutHit)
	printDetail("layout %s · render %s", st.LayoutTime.Round(time.Microsecond), st.RenderTime.Round(time.Microsecond))
	return nil
}
