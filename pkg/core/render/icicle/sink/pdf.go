package sink

import (
	"context"

	"github.com/matzehuels/pyimporttime/pkg/core/render"
	"github.com/matzehuels/pyimporttime/pkg/core/render/icicle/layout"
	"github.com/matzehuels/pyimporttime/pkg/core/tree"
)

// RenderPDF renders the layout's SVG and converts it with librsvg.
func RenderPDF(ctx context.Context, l layout.Layout, t *tree.Tree, opts ...SVGOption) ([]byte, error) {
	return render.ToPDF(ctx, RenderSVG(l, t, opts...))
}
