package sink

import (
	"bytes"
	"fmt"
	"math"

	"github.com/fogleman/gg"

	"github.com/matzehuels/pyimporttime/pkg/core/render/icicle/layout"
	"github.com/matzehuels/pyimporttime/pkg/core/render/icicle/styles"
	"github.com/matzehuels/pyimporttime/pkg/core/tree"
)

// DefaultScale is the PNG resolution multiplier.
const DefaultScale = 2.0

// maxPNGPixels bounds the image area to keep memory use predictable.
const maxPNGPixels = 100_000_000

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	style    styles.Style
	scale    float64
	minLabel float64
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// WithPNGStyle sets the colour style.
func WithPNGStyle(s styles.Style) PNGOption {
	return func(r *pngRenderer) { r.style = s }
}

// WithPNGMinLabelWidth sets the narrowest box that gets a text label.
func WithPNGMinLabelWidth(w float64) PNGOption {
	return func(r *pngRenderer) { r.minLabel = w }
}

// RenderPNG draws the layout as a PNG image.
func RenderPNG(l layout.Layout, t *tree.Tree, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{style: styles.Package{}, scale: DefaultScale, minLabel: styles.MinLabelWidth}
	for _, opt := range opts {
		opt(&r)
	}
	if math.IsNaN(r.scale) || r.scale <= 0 {
		return nil, fmt.Errorf("invalid PNG scale %v", r.scale)
	}

	w, h := canvasSize(l)
	fw, fh := math.Ceil(w*r.scale), math.Ceil(h*r.scale)
	if area := fw * fh; math.IsNaN(area) || area > maxPNGPixels {
		return nil, fmt.Errorf("image of %.0fx%.0f pixels is too large, lower the width or scale", fw, fh)
	}
	pw, ph := int(fw), int(fh)

	dc := gg.NewContext(pw, ph)
	dc.SetHexColor(styles.Background)
	dc.Clear()

	dc.SetLineWidth(0.5 * r.scale)
	for _, b := range buildBoxes(l, t) {
		x, y := b.X*r.scale, b.Y*r.scale
		bw, bh := b.W*r.scale, b.H*r.scale

		dc.DrawRectangle(x, y, bw, bh)
		dc.SetHexColor(r.style.Fill(b))
		dc.FillPreserve()
		dc.SetHexColor(styles.Stroke)
		dc.Stroke()

		if !styles.ShouldLabel(b, r.minLabel) {
			continue
		}
		if label := fitLabel(dc, b.Label(), bw-2*4*r.scale); label != "" {
			dc.SetHexColor(styles.TextColor)
			dc.DrawStringAnchored(label, x+4*r.scale, y+bh/2, 0, 0.35)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// fitLabel trims label until it fits in avail pixels.
func fitLabel(dc *gg.Context, label string, avail float64) string {
	if w, _ := dc.MeasureString(label); w <= avail {
		return label
	}
	runes := []rune(label)
	for n := len(runes) - 1; n >= 3; n-- {
		s := string(runes[:n-2]) + ".."
		if w, _ := dc.MeasureString(s); w <= avail {
			return s
		}
	}
	return ""
}
