package sink

import (
	"github.com/matzehuels/pyimporttime/pkg/core/render/icicle/layout"
	"github.com/matzehuels/pyimporttime/pkg/core/render/icicle/styles"
	"github.com/matzehuels/pyimporttime/pkg/core/tree"
)

// buildBoxes joins layout geometry with tree timings. Boxes without a
// drawable area are dropped.
func buildBoxes(l layout.Layout, t *tree.Tree) []styles.Box {
	boxes := make([]styles.Box, 0, len(l.Boxes))
	for _, b := range l.Boxes {
		if !b.Visible() {
			continue
		}
		n, ok := t.Node(b.Node)
		if !ok || n.IsRoot() {
			continue
		}
		boxes = append(boxes, styles.Box{
			ID:         int(b.Node),
			Name:       n.Name,
			Depth:      b.Depth,
			X:          b.X,
			Y:          b.Y,
			W:          b.W,
			H:          b.H,
			Self:       n.Self,
			Cumulative: n.Cumulative,
			Percent:    t.Percent(n.ID),
			SelfShare:  t.SelfShare(n.ID),
		})
	}
	return boxes
}

// canvasSize returns the drawing size, never smaller than 1x1.
func canvasSize(l layout.Layout) (float64, float64) {
	return max(1, l.Width), max(1, l.Height)
}
