package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pyimporttime/pkg/graph"
	"github.com/matzehuels/pyimporttime/pkg/pipeline"
)

// parseCommand creates the parse command.
func (c *CLI) parseCommand() *cobra.Command {
	var (
		output string
		nested bool
	)

	cmd := &cobra.Command{
		Use:   "parse [trace|-]",
		Short: "Parse an import time trace into JSON records",
		Long: `Parse the output of "python -X importtime" into JSON.

By default the records are emitted flat, in input order. With --tree the
reconstructed import hierarchy is emitted instead, each module with its
self time, cumulative time and share of the total.

The trace is read from the given file, or from stdin when omitted or "-":

  python -X importtime -c "import json" 2> trace.txt
  pyimporttime parse trace.txt -o trace.json
  python -X importtime -c "import json" 2>&1 >/dev/null | pyimporttime parse --tree`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runParse(cmd, inputArg(args), output, nested)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&nested, "tree", false, "emit the nested import tree instead of flat records")

	return cmd
}

func (c *CLI) runParse(cmd *cobra.Command, input, output string, nested bool) error {
	ctx := cmd.Context()
	opts, stats, data, err := c.parseInput(ctx, input, nested)
	if err != nil {
		return err
	}

	if output == "" {
		_, err := cmd.OutOrStdout().Write(append(data, '\n'))
		return err
	}
	if err := writeFile(output, append(data, '\n')); err != nil {
		return err
	}

	printSuccess("Parsed %s", opts.Source)
	printFile(output)
	printStats(stats, false)
	printNextStep("Visualize", fmt.Sprintf("%s render %s", appName, input))
	return nil
}

// parseInput reads and parses input, returning the JSON form of the result.
func (c *CLI) parseInput(ctx context.Context, input string, nested bool) (pipeline.Options, traceStats, []byte, error) {
	trace, err := c.readInput(ctx, input)
	if err != nil {
		return pipeline.Options{}, traceStats{}, nil, fmt.Errorf("read trace: %w", err)
	}

	opts := pipeline.Options{Trace: trace, Source: input, Logger: c.Logger}
	runner := pipeline.NewRunner(nil, nil, c.Logger)
	records, t, err := runner.ParseTrace(ctx, opts)
	if err != nil {
		return opts, traceStats{}, nil, err
	}

	var data []byte
	if nested {
		data, err = graph.MarshalModules(t)
	} else {
		data, err = graph.MarshalTrace(records)
	}
	if err != nil {
		return opts, traceStats{}, nil, fmt.Errorf("encode records: %w", err)
	}
	return opts, traceStats{records: len(records), maxDepth: t.MaxDepth(), total: t.Total()}, data, nil
}
