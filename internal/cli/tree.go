package cli

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pyimporttime/pkg/core/render/icicle/styles"
	"github.com/matzehuels/pyimporttime/pkg/core/tree"
	"github.com/matzehuels/pyimporttime/pkg/pipeline"
)

var (
	treeSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	treeNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	treeDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// treeCommand creates the interactive import tree browser.
func (c *CLI) treeCommand() *cobra.Command {
	var (
		expand int
		plain  bool
	)

	cmd := &cobra.Command{
		Use:   "tree [trace|-]",
		Short: "Browse the import tree of a trace interactively",
		Long: `Browse the import tree of a trace in the terminal.

Keys: ↑/↓ or j/k move, → or l expands, ← or h collapses (or jumps to the
parent), enter toggles, e expands all, c collapses all, q quits.

With --print the tree is written as indented text instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			m := newTreeModel(t, expand)
			if plain {
				return m.print(cmd.OutOrStdout())
			}

			opts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen(), tea.WithOutput(cmd.OutOrStdout())}
			if input == stdinInput {
				opts = append(opts, tea.WithInputTTY())
			}
			_, err = tea.NewProgram(m, opts...).Run()
			return err
		},
	}

	cmd.Flags().IntVar(&expand, "expand", 0, "number of levels expanded initially (-1 for all)")
	cmd.Flags().BoolVar(&plain, "print", false, "print the tree as text instead of browsing it")

	return cmd
}

// =============================================================================
// treeModel - Interactive import tree
// =============================================================================

// treeRow is one visible line of the browser.
type treeRow struct {
	id    tree.NodeID
	depth int
}

// treeModel is the bubbletea model for the import tree browser.
type treeModel struct {
	tree     *tree.Tree
	expanded map[tree.NodeID]bool
	rows     []treeRow
	cursor   int
	offset   int
	height   int
}

// newTreeModel expands the first levels of t. A negative levels expands everything.
func newTreeModel(t *tree.Tree, levels int) treeModel {
	m := treeModel{tree: t, expanded: make(map[tree.NodeID]bool), height: 20}
	t.Walk(func(n *tree.Node) bool {
		if levels < 0 || n.Depth < levels {
			m.expanded[n.ID] = true
			return true
		}
		return false
	})
	m.refresh()
	return m
}

// refresh recomputes the visible rows, keeping the cursor on the same node.
func (m *treeModel) refresh() {
	current := tree.NoParent
	if m.cursor < len(m.rows) {
		current = m.rows[m.cursor].id
	}

	m.rows = m.rows[:0]
	var visit func(ids []tree.NodeID, depth int)
	visit = func(ids []tree.NodeID, depth int) {
		for _, id := range ids {
			m.rows = append(m.rows, treeRow{id: id, depth: depth})
			if n, _ := m.tree.Node(id); m.expanded[id] && len(n.Children) > 0 {
				visit(n.Children, depth+1)
			}
		}
	}
	visit(m.tree.Root().Children, 0)

	m.cursor = 0
	for i, r := range m.rows {
		if r.id == current {
			m.cursor = i
			break
		}
	}
	m.scroll()
}

func (m *treeModel) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

func (m *treeModel) setAll(expanded bool) {
	m.tree.Walk(func(n *tree.Node) bool {
		if expanded {
			m.expanded[n.ID] = true
		} else {
			delete(m.expanded, n.ID)
		}
		return true
	})
}

func (m treeModel) current() (*tree.Node, bool) {
	if len(m.rows) == 0 {
		return nil, false
	}
	return m.tree.Node(m.rows[m.cursor].id)
}

func (m treeModel) Init() tea.Cmd {
	return nil
}

func (m treeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}
		case "home", "g":
			m.cursor = 0
		case "end", "G":
			m.cursor = max(0, len(m.rows)-1)
		case "right", "l":
			if n, ok := m.current(); ok && !n.IsLeaf() {
				m.expanded[n.ID] = true
			}
		case "left", "h":
			if n, ok := m.current(); ok {
				if m.expanded[n.ID] {
					delete(m.expanded, n.ID)
				} else if p, ok := m.tree.Node(n.Parent); ok && !p.IsRoot() {
					m.cursor = m.indexOf(p.ID)
				}
			}
		case "enter", " ":
			if n, ok := m.current(); ok && !n.IsLeaf() {
				if m.expanded[n.ID] {
					delete(m.expanded, n.ID)
				} else {
					m.expanded[n.ID] = true
				}
			}
		case "e":
			m.setAll(true)
		case "c":
			m.setAll(false)
		}
		m.refresh()
	case tea.WindowSizeMsg:
		m.height = max(5, msg.Height-5)
		m.scroll()
	}
	return m, nil
}

func (m treeModel) indexOf(id tree.NodeID) int {
	for i, r := range m.rows {
		if r.id == id {
			return i
		}
	}
	return m.cursor
}

func (m treeModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Import tree"))
	b.WriteString(treeDimStyle.Render(fmt.Sprintf("  %d modules · %s ms", m.tree.Len(), styles.Millis(m.tree.Total()))))
	b.WriteString("\n")
	b.WriteString(treeDimStyle.Render("↑/↓ navigate  →/← expand/collapse  e/c all  q quit"))
	b.WriteString("\n\n")

	end := min(m.offset+m.height, len(m.rows))
	for i := m.offset; i < end; i++ {
		line := m.line(m.rows[i])
		if i == m.cursor {
			b.WriteString(treeSelectedStyle.Render("> " + line))
		} else {
			b.WriteString(treeNormalStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if len(m.rows) > 0 {
		b.WriteString(treeDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.rows))))
	}
	return b.String()
}

// line formats one row without cursor decoration.
func (m treeModel) line(r treeRow) string {
	n, _ := m.tree.Node(r.id)
	marker := "·"
	switch {
	case n.IsLeaf():
	case m.expanded[n.ID]:
		marker = "▾"
	default:
		marker = "▸"
	}
	return fmt.Sprintf("%s%s %s  %s ms (self %s ms, %.2f%%)",
		strings.Repeat("  ", r.depth), marker, n.Name,
		styles.Millis(n.Cumulative), styles.Millis(n.Self), m.tree.Percent(n.ID))
}

// print writes every visible row as plain text.
func (m treeModel) print(w io.Writer) error {
	for _, r := range m.rows {
		if _, err := fmt.Fprintln(w, m.line(r)); err != nil {
			return err
		}
	}
	return nil
}
