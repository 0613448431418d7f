package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pyimporttime/pkg/graph"
)

// layoutCommand creates the layout command for computing visualization layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
		lf      layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [trace|-]",
		Short: "Compute a visualization layout from an import time trace",
		Long: `Compute a visualization layout from an import time trace.

The output is a layout.json file that can be rendered to HTML/SVG/PNG/PDF with
the 'visualize' command. Icicle layouts (-t icicle) carry the exact box
geometry; node-link layouts (-t nodelink) carry the Graphviz DOT graph.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd, inputArg(args), &lf, output, noCache, refresh)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even if a cached layout exists")
	lf.register(cmd)

	return cmd
}

func (c *CLI) runLayout(cmd *cobra.Command, input string, lf *layoutFlags, output string, noCache, refresh bool) error {
	ctx := cmd.Context()

	trace, err := c.readInput(ctx, input)
	if err != nil {
		return fmt.Errorf("read trace: %w", err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := c.options(cmd, lf, nil)
	opts.Trace = trace
	opts.Source = input
	opts.Refresh = refresh

	_, t, err := runner.ParseTrace(ctx, opts)
	if err != nil {
		return err
	}

	spinner := newSpinner(ctx, cmd.ErrOrStderr(), fmt.Sprintf("Computing %s layout...", opts.VizType))
	spinner.Start()

	layout, cacheHit, err := runner.GenerateLayoutWithCacheInfo(ctx, t, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if spinner.Cancelled() {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = basePath("", input) + ".layout.json"
	}
	if err := graph.WriteLayoutFile(layout, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(traceStats{records: t.Len(), maxDepth: t.MaxDepth(), total: t.Total()}, cacheHit)
	printNextStep("Render", appName+" visualize "+outputPath)

	return nil
}
