package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/pyimporttime/pkg/core/render/icicle/layout"
	"github.com/matzehuels/pyimporttime/pkg/core/render/icicle/sink"
	"github.com/matzehuels/pyimporttime/pkg/core/render/icicle/styles"
	"github.com/matzehuels/pyimporttime/pkg/core/render/nodelink"
	"github.com/matzehuels/pyimporttime/pkg/core/tree"
	"github.com/matzehuels/pyimporttime/pkg/graph"
)

// RenderIcicle generates icicle outputs in the requested formats.
// The tree must be the one the layout was built from.
func RenderIcicle(ctx context.Context, l layout.Layout, t *tree.Tree, opts Options) (map[string][]byte, error) {
	svgOpts := buildSVGOptions(opts)
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatHTML:
			data, err = sink.RenderHTML(l, t,
				sink.WithHTMLSVGOptions(svgOpts...),
				sink.WithHTMLTitle(opts.Title))
		case FormatSVG:
			data = sink.RenderSVG(l, t, svgOpts...)
		case FormatPNG:
			data, err = sink.RenderPNG(l, t,
				sink.WithScale(opts.Scale),
				sink.WithPNGStyle(styleFor(opts)),
				sink.WithPNGMinLabelWidth(opts.MinLabelWidth))
		case FormatPDF:
			data, err = sink.RenderPDF(ctx, l, t, svgOpts...)
		case FormatJSON:
			var exported graph.Layout
			exported, err = l.Export(t)
			if err != nil {
				return nil, fmt.Errorf("serialize layout: %w", err)
			}
			data, err = graph.MarshalLayout(exported)
		case FormatDOT:
			data = []byte(nodelink.ToDOT(t, nodelinkOptions(opts)))
		default:
			return nil, fmt.Errorf("unsupported icicle format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// RenderNodelink generates nodelink outputs from a layout.
// The layout must be a nodelink layout (VizType = "nodelink") with a DOT string.
func RenderNodelink(ctx context.Context, gl graph.Layout, opts Options) (map[string][]byte, error) {
	dot, err := nodelink.Parse(gl)
	if err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dot)
		case FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dot)
		case FormatPDF:
			data, err = nodelink.RenderPDF(ctx, dot)
		case FormatJSON:
			data, err = graph.MarshalLayout(gl)
		case FormatDOT:
			data = []byte(dot)
		default:
			return nil, fmt.Errorf("unsupported nodelink format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// styleFor resolves the style named in opts, defaulting to package colours.
func styleFor(opts Options) styles.Style {
	if s := styles.ByName(opts.Style); s != nil {
		return s
	}
	return styles.Package{}
}

// buildSVGOptions builds SVG rendering options.
func buildSVGOptions(opts Options) []sink.SVGOption {
	svgOpts := []sink.SVGOption{
		sink.WithStyle(styleFor(opts)),
		sink.WithMinLabelWidth(opts.MinLabelWidth),
	}
	if opts.Title != "" {
		svgOpts = append(svgOpts, sink.WithTitle(opts.Title))
	}
	if opts.Interactive {
		svgOpts = append(svgOpts, sink.WithInteraction())
	}
	return svgOpts
}

// applyLayoutMetadata applies layout metadata to options if not already set.
// This ensures that serialized layouts preserve their original rendering settings.
// The visualization type always follows the layout.
func applyLayoutMetadata(opts Options, gl graph.Layout) Options {
	if gl.VizType != "" {
		opts.VizType = gl.VizType
	}
	if opts.Style == "" && gl.Style != "" {
		opts.Style = gl.Style
	}
	if opts.Title == "" && gl.Title != "" {
		opts.Title = gl.Title
	}
	return opts
}

// RenderFromLayoutData renders output from serialized layout data.
// This is useful when the layout was computed elsewhere (e.g., cached).
func RenderFromLayoutData(ctx context.Context, layoutData []byte, opts Options) (map[string][]byte, error) {
	parsed, err := graph.UnmarshalLayout(layoutData)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	return RenderFromLayout(ctx, parsed, opts)
}

// RenderFromLayout renders output from a graph.Layout.
// This is the preferred entry point when you have a graph.Layout.
// Options left empty are taken from the layout's metadata.
func RenderFromLayout(ctx context.Context, gl graph.Layout, opts Options) (map[string][]byte, error) {
	opts = applyLayoutMetadata(opts, gl)
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	if gl.IsNodelink() {
		return RenderNodelink(ctx, gl, opts)
	}

	l, err := layout.Parse(gl)
	if err != nil {
		return nil, fmt.Errorf("convert layout: %w", err)
	}
	t, err := graph.ToTree(gl)
	if err != nil {
		return nil, fmt.Errorf("rebuild tree: %w", err)
	}
	return RenderIcicle(ctx, l, t, opts)
}
