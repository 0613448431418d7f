package pipeline

import (
	"github.com/matzehuels/pyimporttime/pkg/core/render/icicle/layout"
	"github.com/matzehuels/pyimporttime/pkg/core/render/nodelink"
	"github.com/matzehuels/pyimporttime/pkg/core/tree"
	"github.com/matzehuels/pyimporttime/pkg/graph"
)

// =============================================================================
// Layout Generation
// =============================================================================

// GenerateLayout generates a complete layout for any visualization type.
// This is the unified entry point for generating serializable layout data.
//
// Both icicle and nodelink layouts carry every module with its timings, so
// the tree can be recovered with graph.ToTree. Icicle layouts add box
// geometry; nodelink layouts add a DOT string.
func GenerateLayout(t *tree.Tree, opts Options) (graph.Layout, error) {
	if opts.IsNodelink() {
		return generateNodelinkLayout(t, opts)
	}
	return generateIcicleLayout(t, opts)
}

// generateIcicleLayout computes box geometry for every module.
func generateIcicleLayout(t *tree.Tree, opts Options) (graph.Layout, error) {
	l := layout.Build(t, opts.Width, opts.RowHeight,
		layout.WithPrecision(opts.LayoutPrecision()),
		layout.WithStyle(opts.Style),
		layout.WithTitle(opts.Title),
	)
	return l.Export(t)
}

// generateNodelinkLayout builds the DOT graph Graphviz lays out at render time.
func generateNodelinkLayout(t *tree.Tree, opts Options) (graph.Layout, error) {
	dot := nodelink.ToDOT(t, nodelinkOptions(opts))
	return nodelink.Export(dot, t, opts.Title, opts.Style)
}

func nodelinkOptions(opts Options) nodelink.Options {
	return nodelink.Options{
		Detailed:   opts.Detailed,
		MinPercent: opts.MinPercent,
		Style:      opts.Style,
	}
}
