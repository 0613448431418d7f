package styles

import (
	"fmt"
	"hash/fnv"
	"image/color"
	"math"

	"github.com/matzehuels/pyimporttime/pkg/core/tree"
)

// HSV converts hue (degrees), saturation and value (0-1) to RGB.
// From https://en.wikipedia.org/wiki/HSL_and_HSV#HSV_to_RGB_alternative
func HSV(h, s, v float64) color.RGBA {
	f := func(n int) uint8 {
		k := math.Mod(float64(n)+h/60.0, 6.0)
		c := v - v*s*max(0.0, min(k, 4.0-k, 1.0))
		return uint8(math.Round(c * 255))
	}
	return color.RGBA{R: f(5), G: f(3), B: f(1), A: 0xff}
}

// Hex formats a colour as #rrggbb.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// PackageColor returns a stable colour for the top-level package of name.
func PackageColor(name string) string {
	h := fnv.New32a()
	h.Write([]byte(tree.TopLevel(name)))
	hue := float64(h.Sum32() % 360)
	return Hex(HSV(hue, 0.45, 0.72))
}

// HeatColor maps a self-time share in [0, 1] from yellow to red.
func HeatColor(share float64) string {
	if math.IsNaN(share) {
		share = 0
	}
	share = max(0, min(1, share))
	return Hex(HSV(60*(1-share), 0.75, 0.92))
}
