package layout

import (
	"fmt"

	"github.com/matzehuels/pyimporttime/pkg/core/tree"
	"github.com/matzehuels/pyimporttime/pkg/graph"
)

// Export converts an internal icicle layout to the serialization format.
//
// Use this when you need to serialize the layout for:
//   - JSON file output (via graph.WriteLayoutFile)
//   - Caching
//
// The tree supplies names and timings for each box and must be the tree the
// layout was built from.
func (l Layout) Export(t *tree.Tree) (graph.Layout, error) {
	if len(l.Boxes) != t.Len() {
		return graph.Layout{}, fmt.Errorf("layout has %d boxes for %d modules", len(l.Boxes), t.Len())
	}

	result := graph.Layout{
		VizType:   graph.VizTypeIcicle,
		Title:     l.Title,
		Width:     l.Width,
		Height:    l.Height,
		Style:     l.Style,
		TotalUS:   t.Total().Microseconds(),
		Count:     t.Len(),
		RowHeight: l.RowHeight,
		Precision: l.Precision,
		Boxes:     make([]graph.Box, 0, len(l.Boxes)),
	}

	for _, b := range l.Boxes {
		n, ok := t.Node(b.Node)
		if !ok || n.IsRoot() {
			return graph.Layout{}, fmt.Errorf("box for unknown node %d", b.Node)
		}
		result.Boxes = append(result.Boxes, graph.Box{
			ID:           int(n.ID),
			Parent:       int(n.Parent),
			Name:         n.Name,
			Depth:        n.Depth,
			SelfUS:       n.Self.Microseconds(),
			CumulativeUS: n.Cumulative.Microseconds(),
			Line:         n.Line,
			X:            b.X,
			Y:            b.Y,
			Width:        b.W,
			Height:       b.H,
		})
	}

	return result, nil
}

// Parse converts a serialized layout to an internal icicle layout.
//
// Use this when you need to render from a previously serialized layout:
//   - Loading from JSON file (via graph.ReadLayoutFile)
//   - Receiving from the cache
//
// Returns an error if the layout is not an icicle type (VizType must be
// "icicle" or empty). Pair with graph.ToTree to recover the tree: box i
// refers to the i-th node ToTree adds, whatever IDs the file uses.
func Parse(l graph.Layout) (Layout, error) {
	if l.VizType != "" && l.VizType != graph.VizTypeIcicle {
		return Layout{}, fmt.Errorf("invalid viz_type for icicle layout: %q", l.VizType)
	}

	out := Layout{
		Width:     l.Width,
		Height:    l.Height,
		RowHeight: l.RowHeight,
		Precision: l.Precision,
		Style:     l.Style,
		Title:     l.Title,
		Boxes:     make([]Box, len(l.Boxes)),
	}
	for i, b := range l.Boxes {
		out.Boxes[i] = Box{
			Node:  tree.NodeID(i + 1),
			Depth: b.Depth,
			X:     b.X,
			Y:     b.Y,
			W:     b.Width,
			H:     b.Height,
		}
	}
	return out, nil
}
