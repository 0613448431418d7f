package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pyimporttime/pkg/pipeline"
)

// renderCommand creates the render command that runs the whole pipeline.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
		open    bool
		lf      layoutFlags
		rf      renderFlags
	)

	cmd := &cobra.Command{
		Use:   "render [trace|-]",
		Short: "Render an import time trace in one step",
		Long: `Render an import time trace to one or more output formats.

This is a convenience command that combines 'layout' and 'visualize':

  python -X importtime -c "import asyncio" 2> trace.txt
  pyimporttime render trace.txt --open
  pyimporttime render trace.txt -t nodelink -f svg,png --min-percent 1

Outputs are written next to the input (or to importtime.<format> for stdin)
unless -o is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := inputArg(args)
			trace, err := c.readInput(cmd.Context(), input)
			if err != nil {
				return fmt.Errorf("read trace: %w", err)
			}

			opts := c.options(cmd, &lf, &rf)
			opts.Trace = trace
			opts.Source = input
			opts.Refresh = refresh

			return c.runRender(cmd, opts, renderTarget{
				output:  output,
				base:    basePath(output, input),
				open:    open,
				noCache: noCache,
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even if cached results exist")
	cmd.Flags().BoolVar(&open, "open", false, "open the HTML output in the browser")
	lf.register(cmd)
	rf.register(cmd)

	return cmd
}

// renderTarget describes where pipeline outputs go.
type renderTarget struct {
	output  string
	base    string
	open    bool
	noCache bool
}

// runRender executes the full pipeline and writes every artifact.
func (c *CLI) runRender(cmd *cobra.Command, opts pipeline.Options, target renderTarget) error {
	ctx := cmd.Context()

	runner, err := c.newRunner(target.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	result, err := c.executeWithSpinner(ctx, cmd, runner, opts)
	if err != nil {
		return err
	}

	paths := outputPaths(sortedFormats(result.Artifacts), target.output, target.base)
	written, err := writeArtifacts(result.Artifacts, paths)
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", result.Layout.VizType)
	for _, p := range written {
		printFile(p)
	}
	printStats(traceStats{
		records:  result.Stats.RecordCount,
		maxDepth: result.Stats.MaxDepth,
		total:    result.Stats.Total,
	}, result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)

	if target.open {
		openHTML(paths)
	}
	return nil
}

func (c *CLI) executeWithSpinner(ctx context.Context, cmd *cobra.Command, runner *pipeline.Runner, opts pipeline.Options) (*pipeline.Result, error) {
	spinner := newSpinner(ctx, cmd.ErrOrStderr(), "Rendering...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return nil, err
	}
	spinner.Stop()

	if spinner.Cancelled() {
		return nil, ctx.Err()
	}
	return result, nil
}
