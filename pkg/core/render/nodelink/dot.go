package nodelink

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/pyimporttime/pkg/core/render/icicle/styles"
	"github.com/matzehuels/pyimporttime/pkg/core/tree"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds self time and share of the total to node labels.
	// When false, only the name and cumulative time are shown.
	Detailed bool
	// MinPercent hides modules below this share of the total (0-100).
	MinPercent float64
	// Style selects the fill colours ("package" or "heat").
	Style string
}

// ToDOT converts an import tree to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
func ToDOT(t *tree.Tree, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontname=\"sans-serif\", fontsize=12, margin=\"0.15,0.05\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.15;\n")
	buf.WriteString("\n")

	style := styles.ByName(opts.Style)
	if style == nil {
		style = styles.Package{}
	}

	var edges []string
	hidden := 0
	t.Walk(func(n *tree.Node) bool {
		if t.Percent(n.ID) < opts.MinPercent {
			hidden += countSubtree(t, n.ID)
			return false
		}
		fill := style.Fill(styles.Box{Name: n.Name, SelfShare: t.SelfShare(n.ID)})
		fmt.Fprintf(&buf, "  %s [label=%q, fillcolor=%q];\n", nodeName(n.ID), fmtLabel(t, n, opts.Detailed), fill)
		if n.Parent != tree.RootID {
			edges = append(edges, fmt.Sprintf("  %s -> %s;\n", nodeName(n.Parent), nodeName(n.ID)))
		}
		return true
	})

	if len(edges) > 0 {
		buf.WriteString("\n")
		buf.WriteString(strings.Join(edges, ""))
	}
	if hidden > 0 {
		fmt.Fprintf(&buf, "\n  // %d modules below %.2f%% hidden\n", hidden, opts.MinPercent)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeName(id tree.NodeID) string { return fmt.Sprintf("n%d", id) }

func fmtLabel(t *tree.Tree, n *tree.Node, detailed bool) string {
	label := fmt.Sprintf("%s\n%s ms", n.Name, styles.Millis(n.Cumulative))
	if !detailed {
		return label
	}
	return fmt.Sprintf("%s\nself %s ms\n%.2f%% of total", label, styles.Millis(n.Self), t.Percent(n.ID))
}

func countSubtree(t *tree.Tree, id tree.NodeID) int {
	count := 1
	for _, c := range t.Children(id) {
		count += countSubtree(t, c.ID)
	}
	return count
}
