package cli

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pyimporttime/pkg/core/render/icicle/styles"
	"github.com/matzehuels/pyimporttime/pkg/core/tree"
	"github.com/matzehuels/pyimporttime/pkg/errors"
	"github.com/matzehuels/pyimporttime/pkg/pipeline"
)

const (
	sortSelf       = "self"
	sortCumulative = "cumulative"
)

// topCommand creates the top command that lists the slowest imports.
func (c *CLI) topCommand() *cobra.Command {
	var (
		limit    int
		by       string
		packages bool
	)

	cmd := &cobra.Command{
		Use:   "top [trace|-]",
		Short: "List the slowest imports of a trace",
		Long: `List the slowest imports of a trace as a table.

Modules are ranked by self time (default) or cumulative time. With --packages,
times are summed per top-level package: self times add up over every module of
the package, cumulative times over its outermost imports only.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if by != sortSelf && by != sortCumulative {
				return errors.New(errors.ErrCodeInvalidInput, "invalid sort key %q (must be self or cumulative)", by)
			}

			ctx := cmd.Context()
			input := inputArg(args)
			trace, err := c.readInput(ctx, input)
			if err != nil {
				return fmt.Errorf("read trace: %w", err)
			}

			runner := pipeline.NewRunner(nil, nil, c.Logger)
			_, t, err := runner.ParseTrace(ctx, pipeline.Options{Trace: trace, Source: input})
			if err != nil {
				return err
			}

			var rows []topRow
			if packages {
				rows = topPackages(t, by)
			} else {
				rows = topModules(t, by)
			}
			if limit > 0 && len(rows) > limit {
				rows = rows[:limit]
			}
			return renderTopTable(cmd.OutOrStdout(), rows, packages)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of rows (0 for all)")
	cmd.Flags().StringVar(&by, "by", sortSelf, "sort key: self, cumulative")
	cmd.Flags().BoolVar(&packages, "packages", false, "aggregate by top-level package")

	return cmd
}

// topRow is one ranked entry of the top table.
type topRow struct {
	name       string
	self       time.Duration
	cumulative time.Duration
	percent    float64 // share of the trace total for the sort key
}

// topModules ranks every module by the sort key. Ties keep input order.
func topModules(t *tree.Tree, by string) []topRow {
	total := t.Total()
	rows := make([]topRow, 0, t.Len())
	for _, n := range t.Nodes() {
		rows = append(rows, topRow{name: n.Name, self: n.Self, cumulative: n.Cumulative})
	}
	return rankRows(rows, by, total)
}

// topPackages ranks top-level packages by the sort key.
func topPackages(t *tree.Tree, by string) []topRow {
	var order []string
	byName := make(map[string]*topRow)

	for _, n := range t.Nodes() {
		pkg := tree.TopLevel(n.Name)
		row, ok := byName[pkg]
		if !ok {
			row = &topRow{name: pkg}
			byName[pkg] = row
			order = append(order, pkg)
		}
		row.self += n.Self

		// Nested imports of the same package are already counted by their
		// outermost ancestor.
		if !withinPackage(t, n, pkg) {
			row.cumulative += n.Cumulative
		}
	}

	rows := make([]topRow, len(order))
	for i, pkg := range order {
		rows[i] = *byName[pkg]
	}
	return rankRows(rows, by, t.Total())
}

// withinPackage reports whether some ancestor of n belongs to pkg.
func withinPackage(t *tree.Tree, n *tree.Node, pkg string) bool {
	for p, ok := t.Node(n.Parent); ok && !p.IsRoot(); p, ok = t.Node(p.Parent) {
		if tree.TopLevel(p.Name) == pkg {
			return true
		}
	}
	return false
}

func rankRows(rows []topRow, by string, total time.Duration) []topRow {
	key := func(r topRow) time.Duration {
		if by == sortCumulative {
			return r.cumulative
		}
		return r.self
	}
	slices.SortStableFunc(rows, func(a, b topRow) int {
		switch ka, kb := key(a), key(b); {
		case ka > kb:
			return -1
		case ka < kb:
			return 1
		}
		return 0
	})
	for i := range rows {
		if total > 0 {
			rows[i].percent = float64(key(rows[i])) / float64(total) * 100
		}
	}
	return rows
}

func renderTopTable(w io.Writer, rows []topRow, packages bool) error {
	header := "Module"
	if packages {
		header = "Package"
	}

	data := make([][]string, len(rows))
	for i, r := range rows {
		data[i] = []string{
			strconv.Itoa(i + 1),
			r.name,
			styles.Millis(r.self),
			styles.Millis(r.cumulative),
			strconv.FormatFloat(r.percent, 'f', 2, 64),
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	numberStyle := lipgloss.NewStyle().Foreground(colorCyan).Align(lipgloss.Right)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", header, "Self ms", "Cumulative ms", "%").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1: // header
				return headerStyle
			case col == 1:
				return lipgloss.NewStyle().Foreground(colorWhite)
			case col == 0:
				return lipgloss.NewStyle().Foreground(colorDim).Align(lipgloss.Right)
			}
			return numberStyle
		})

	_, err := fmt.Fprintln(w, t.Render())
	return err
}
