package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/pyimporttime/pkg/core/render/icicle/layout"
	"github.com/matzehuels/pyimporttime/pkg/core/render/icicle/styles"
	"github.com/matzehuels/pyimporttime/pkg/core/tree"
)

const boxInteractionCSS = `
    .box rect { transition: opacity 0.15s ease; }
    .box:hover rect { opacity: 0.75; stroke-width: 1.5; }
    .box.dim rect { opacity: 0.35; }`

const boxInteractionJS = `
    function related(el) {
      const pkg = el.dataset.pkg;
      document.querySelectorAll('.box').forEach(b => b.classList.toggle('dim', b.dataset.pkg !== pkg));
    }
    function clearRelated() {
      document.querySelectorAll('.box').forEach(b => b.classList.remove('dim'));
    }
    document.querySelectorAll('.box').forEach(el => {
      el.addEventListener('mouseenter', () => related(el));
      el.addEventListener('mouseleave', clearRelated);
    });`

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style       styles.Style
	minLabel    float64
	interactive bool
	title       string
}

func WithStyle(s styles.Style) SVGOption { return func(r *svgRenderer) { r.style = s } }
func WithInteraction() SVGOption         { return func(r *svgRenderer) { r.interactive = true } }
func WithTitle(title string) SVGOption   { return func(r *svgRenderer) { r.title = title } }

// WithMinLabelWidth sets the narrowest box that gets a text label.
func WithMinLabelWidth(w float64) SVGOption {
	return func(r *svgRenderer) { r.minLabel = w }
}

// RenderSVG renders the layout as a standalone SVG document.
func RenderSVG(l layout.Layout, t *tree.Tree, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	boxes := buildBoxes(l, t)
	w, h := canvasSize(l)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s">`+"\n",
		styles.Num(w), styles.Num(h), styles.Num(w), styles.Num(h))
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", styles.EscapeXML(r.title))
	}
	r.style.RenderDefs(&buf)
	fmt.Fprintf(&buf, `  <rect x="0" y="0" width="100%%" height="100%%" fill="%s"/>`+"\n", styles.Background)

	for _, b := range boxes {
		renderBox(&buf, &r, b)
	}

	if r.interactive {
		renderBoxInteraction(&buf)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{style: styles.Package{}, minLabel: styles.MinLabelWidth}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func renderBox(buf *bytes.Buffer, r *svgRenderer, b styles.Box) {
	fmt.Fprintf(buf, `  <g class="box" id="box-%d" data-name="%s" data-pkg="%s" data-self="%s" data-cum="%s" data-pct="%.2f">`+"\n",
		b.ID, styles.EscapeXML(b.Name), styles.EscapeXML(tree.TopLevel(b.Name)),
		styles.Millis(b.Self), styles.Millis(b.Cumulative), b.Percent)
	r.style.RenderBox(buf, b)
	fmt.Fprintf(buf, "    <title>%s</title>\n", styles.EscapeXML(b.Tooltip()))
	if styles.ShouldLabel(b, r.minLabel) {
		r.style.RenderText(buf, b)
	}
	buf.WriteString("  </g>\n")
}

func renderBoxInteraction(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "  <style>%s\n  </style>\n", boxInteractionCSS)
	fmt.Fprintf(buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", boxInteractionJS)
}
