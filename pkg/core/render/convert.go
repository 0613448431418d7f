// Package render holds conversions shared by the icicle and nodelink renderers.
package render

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/matzehuels/pyimporttime/pkg/errors"
)

// Converter is the librsvg command line tool used to turn SVG into PDF.
var Converter = "rsvg-convert"

const installHint = "install librsvg (macOS: brew install librsvg, Linux: apt install librsvg2-bin)"

// HasPDFSupport reports whether the converter is on PATH.
func HasPDFSupport() bool {
	_, err := exec.LookPath(Converter)
	return err == nil
}

// ToPDF converts an SVG document to PDF. A missing converter is reported
// as UNSUPPORTED so callers can suggest another format.
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	path, err := exec.LookPath(Converter)
	if err != nil {
		return nil, errors.New(errors.ErrCodeUnsupported, "pdf output needs %s: %s", Converter, installHint)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, "--format", "pdf")
	cmd.Stdin = bytes.NewReader(svg)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "%s: %s", Converter, msg)
	}
	return stdout.Bytes(), nil
}
