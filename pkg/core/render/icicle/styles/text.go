package styles

import (
	"bytes"
	"encoding/xml"
)

const (
	fontHeightRatio = 0.6
	fontCharWidth   = 0.6
	fontSizeMin     = 8.0
	fontSizeMax     = 12.0
	labelPadding    = 4.0
	ellipsis        = ".."

	// MinLabelWidth is the default narrowest box that gets a label.
	MinLabelWidth = 40.0
	// MinLabelHeight is the shortest box that gets a label.
	MinLabelHeight = 16.0
)

// FontSize returns the label font size for a box.
func FontSize(b Box) float64 {
	return max(fontSizeMin, min(fontSizeMax, b.H*fontHeightRatio))
}

// ShouldLabel reports whether a box is large enough for a label.
func ShouldLabel(b Box, minWidth float64) bool {
	return b.W >= minWidth && b.H >= MinLabelHeight
}

// TruncateLabel shortens label to fit a box of the given width.
// It returns "" when not even a few characters fit.
func TruncateLabel(label string, width, fontSize float64) string {
	avail := width - 2*labelPadding
	maxChars := int(avail / (fontSize * fontCharWidth))
	if maxChars < 3 {
		return ""
	}
	runes := []rune(label)
	if len(runes) <= maxChars {
		return label
	}
	return string(runes[:maxChars-len(ellipsis)]) + ellipsis
}

// EscapeXML escapes text for use in SVG content and attributes.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
