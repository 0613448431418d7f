package cli

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pyimporttime/pkg/graph"
)

// visualizeCommand creates the visualize command for rendering layouts.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
		open    bool
		rf      renderFlags
	)

	cmd := &cobra.Command{
		Use:   "visualize [layout.json]",
		Short: "Render a layout to HTML, SVG, PNG, PDF, JSON or DOT",
		Long: `Render a computed layout to one or more output formats.

The visualization type is taken from the layout file. Icicle layouts render to
html (default), svg, png, pdf, json and dot; node-link layouts render to svg
(default), png, pdf, json and dot.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runVisualize(cmd, args[0], &rf, output, noCache, refresh, open)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "re-render even if cached artifacts exist")
	cmd.Flags().BoolVar(&open, "open", false, "open the HTML output in the browser")
	rf.register(cmd)

	return cmd
}

func (c *CLI) runVisualize(cmd *cobra.Command, input string, rf *renderFlags, output string, noCache, refresh, open bool) error {
	ctx := cmd.Context()

	layout, err := graph.ReadLayoutFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := c.options(cmd, nil, rf)
	opts.Refresh = refresh

	spinner := newSpinner(ctx, cmd.ErrOrStderr(), "Rendering...")
	spinner.Start()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, layout, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	if spinner.Cancelled() {
		return ctx.Err()
	}

	base := basePath(output, trimLayoutSuffix(input))
	paths := outputPaths(sortedFormats(artifacts), output, base)
	written, err := writeArtifacts(artifacts, paths)
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", layout.VizType)
	for _, p := range written {
		printFile(p)
	}
	printStats(layoutStats(layout), cacheHit)

	if open {
		openHTML(paths)
	}
	return nil
}

// trimLayoutSuffix strips the ".layout.json" suffix written by the layout command.
func trimLayoutSuffix(path string) string {
	return strings.TrimSuffix(path, ".layout.json")
}

func sortedFormats(artifacts map[string][]byte) []string {
	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	slices.Sort(formats)
	return formats
}

// layoutStats summarizes a layout file.
func layoutStats(l graph.Layout) traceStats {
	s := traceStats{records: l.Count, total: time.Duration(l.TotalUS) * time.Microsecond}
	for _, b := range l.Boxes {
		s.maxDepth = max(s.maxDepth, b.Depth)
	}
	return s
}
