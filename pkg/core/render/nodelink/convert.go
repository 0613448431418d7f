package nodelink

import (
	"fmt"

	"github.com/matzehuels/pyimporttime/pkg/core/tree"
	"github.com/matzehuels/pyimporttime/pkg/graph"
)

// DefaultEngine is the Graphviz layout engine used for import trees.
const DefaultEngine = "dot"

// Export creates a serializable nodelink layout from a DOT string.
//
// Unlike icicle layouts, nodelink layouts don't compute positions internally;
// Graphviz does that during rendering. This function packages the DOT string
// together with the module list so that the tree can be recovered with
// graph.ToTree. Boxes carry timings only, their geometry is zero.
func Export(dot string, t *tree.Tree, title, style string) (graph.Layout, error) {
	if dot == "" {
		return graph.Layout{}, fmt.Errorf("nodelink layout must contain DOT string")
	}

	result := graph.Layout{
		VizType: graph.VizTypeNodelink,
		Title:   title,
		Style:   style,
		DOT:     dot,
		Engine:  DefaultEngine,
	}
	if t == nil {
		return result, nil
	}

	result.TotalUS = t.Total().Microseconds()
	result.Count = t.Len()
	result.Boxes = make([]graph.Box, 0, t.Len())
	for _, n := range t.Nodes() {
		result.Boxes = append(result.Boxes, graph.Box{
			ID:           int(n.ID),
			Parent:       int(n.Parent),
			Name:         n.Name,
			Depth:        n.Depth,
			SelfUS:       n.Self.Microseconds(),
			CumulativeUS: n.Cumulative.Microseconds(),
			Line:         n.Line,
		})
	}
	return result, nil
}

// Parse extracts the DOT string from a serialized nodelink layout.
//
// Returns an error if the layout is not a nodelink type or is missing the DOT string.
func Parse(layout graph.Layout) (string, error) {
	if layout.VizType != "" && layout.VizType != graph.VizTypeNodelink {
		return "", fmt.Errorf("invalid viz_type for nodelink layout: %q", layout.VizType)
	}

	if layout.DOT == "" {
		return "", fmt.Errorf("nodelink layout must contain DOT string")
	}

	return layout.DOT, nil
}
