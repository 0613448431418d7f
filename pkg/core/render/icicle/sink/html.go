package sink

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"

	"github.com/matzehuels/pyimporttime/pkg/core/render/icicle/layout"
	"github.com/matzehuels/pyimporttime/pkg/core/render/icicle/styles"
	"github.com/matzehuels/pyimporttime/pkg/core/tree"
)

// DefaultTitle is used when neither the options nor the layout name one.
const DefaultTitle = "Python import time"

//go:embed tmpl.html
var htmlTmpl string

var tmpl = template.Must(template.New("html").Parse(htmlTmpl))

// HTMLOption configures HTML rendering.
type HTMLOption func(*htmlRenderer)

type htmlRenderer struct {
	svgOpts []SVGOption
	title   string
}

// WithHTMLSVGOptions passes options through to the embedded SVG renderer.
func WithHTMLSVGOptions(opts ...SVGOption) HTMLOption {
	return func(r *htmlRenderer) { r.svgOpts = opts }
}

// WithHTMLTitle sets the page title.
func WithHTMLTitle(title string) HTMLOption {
	return func(r *htmlRenderer) { r.title = title }
}

type htmlData struct {
	Title   string
	TotalMS string
	Count   int
	Style   string
	SVG     template.HTML
}

// RenderHTML renders the layout as a self-contained HTML page.
func RenderHTML(l layout.Layout, t *tree.Tree, opts ...HTMLOption) ([]byte, error) {
	r := htmlRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	title := r.title
	if title == "" {
		title = l.Title
	}
	if title == "" {
		title = DefaultTitle
	}

	svg := RenderSVG(l, t, r.svgOpts...)
	style := newSVGRenderer(r.svgOpts...).style.Name()

	var buf bytes.Buffer
	err := tmpl.Execute(&buf, htmlData{
		Title:   title,
		TotalMS: styles.Millis(t.Total()),
		Count:   t.Len(),
		Style:   style,
		SVG:     template.HTML(svg),
	})
	if err != nil {
		return nil, fmt.Errorf("execute template: %w", err)
	}
	return buf.Bytes(), nil
}
