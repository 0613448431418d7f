package nodelink

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/pyimporttime/pkg/core/importtime"
	"github.com/matzehuels/pyimporttime/pkg/core/render/icicle/styles"
	"github.com/matzehuels/pyimporttime/pkg/core/tree"
	"github.com/matzehuels/pyimporttime/pkg/graph"
)

func us(n int64) time.Duration { return time.Duration(n) * time.Microsecond }

// fixture builds a=1, c=2, b=3, tiny=4, empty=5 with b, tiny and empty under c.
func fixture(t *testing.T) *tree.Tree {
	t.Helper()
	tr, err := tree.Build([]importtime.Record{
		{Name: "a", Self: us(100), Cumulative: us(100), Depth: 0},
		{Name: "b", Self: us(50), Cumulative: us(50), Depth: 1},
		{Name: "tiny", Self: us(1), Cumulative: us(1), Depth: 1},
		{Name: "empty", Depth: 1},
		{Name: "c", Self: us(30), Cumulative: us(181), Depth: 0},
	})
	if err != nil {
		t.Fatalf("tree.Build() error = %v", err)
	}
	return tr
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(fixture(t), Options{})

	for _, want := range []string{
		"digraph G {",
		`n1 [label="a\n0.100 ms"`,
		`n2 [label="c\n0.181 ms"`,
		"n2 -> n3;",
		"n2 -> n4;",
		"n2 -> n5;",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %q", want)
		}
	}
	if strings.Contains(dot, "-> n1;") || strings.Contains(dot, "-> n2;") {
		t.Error("ToDOT() drew an edge to a top-level import")
	}
	if strings.Contains(dot, "hidden") {
		t.Error("ToDOT() reported hidden modules without a threshold")
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(fixture(t), Options{Detailed: true})

	if !strings.Contains(dot, `c\n0.181 ms\nself 0.030 ms\n64.41% of total`) {
		t.Errorf("ToDOT() detailed output missing timings:\n%s", dot)
	}
}

func TestToDOT_MinPercent(t *testing.T) {
	dot := ToDOT(fixture(t), Options{MinPercent: 10})

	if strings.Contains(dot, "tiny") || strings.Contains(dot, "empty") {
		t.Error("ToDOT() kept modules below the threshold")
	}
	if !strings.Contains(dot, "n2 -> n3;") {
		t.Error("ToDOT() dropped a module above the threshold")
	}
	if !strings.Contains(dot, "2 modules below 10.00% hidden") {
		t.Errorf("ToDOT() missing hidden summary:\n%s", dot)
	}
}

func TestToDOT_Style(t *testing.T) {
	tr := fixture(t)

	tests := []struct {
		style string
		want  string
	}{
		{"", styles.PackageColor("c")},
		{graph.StylePackage, styles.PackageColor("c")},
		{graph.StyleHeat, styles.HeatColor(tr.SelfShare(2))},
	}
	for _, tt := range tests {
		t.Run(tt.style, func(t *testing.T) {
			dot := ToDOT(tr, Options{Style: tt.style})
			if !strings.Contains(dot, `n2 [label="c\n0.181 ms", fillcolor="`+tt.want+`"]`) {
				t.Errorf("ToDOT() fill for c, want %s:\n%s", tt.want, dot)
			}
		})
	}
}

func TestToDOT_Empty(t *testing.T) {
	dot := ToDOT(tree.New(), Options{})
	if !strings.HasPrefix(dot, "digraph G {") || !strings.HasSuffix(dot, "}\n") {
		t.Errorf("ToDOT() empty tree = %q", dot)
	}
	if strings.Contains(dot, "->") {
		t.Error("ToDOT() empty tree has edges")
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(fixture(t), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error = %v", err)
	}
	s := string(svg)
	if !strings.Contains(s, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `) {
		t.Errorf("RenderSVG() root element not normalized:\n%.200s", s)
	}
	if !strings.Contains(s, "tiny") {
		t.Error("RenderSVG() output missing node label")
	}
}

func TestRenderPNG(t *testing.T) {
	png, err := RenderPNG(context.Background(), ToDOT(fixture(t), Options{}))
	if err != nil {
		t.Fatalf("RenderPNG() error = %v", err)
	}
	if len(png) < 8 || string(png[1:4]) != "PNG" {
		t.Error("RenderPNG() output is not a PNG")
	}
}

func TestRenderSVG_InvalidDOT(t *testing.T) {
	if _, err := RenderSVG(context.Background(), "digraph {"); err == nil {
		t.Error("RenderSVG() error = nil for truncated DOT")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="44pt" viewBox="0.00 0.00 62.00 44.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 44.00" width="62" height="44"><g/></svg>`
	if got := string(normalizeViewBox(in)); got != want {
		t.Errorf("normalizeViewBox() = %q, want %q", got, want)
	}

	plain := []byte("<svg><g/></svg>")
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Errorf("normalizeViewBox() without viewBox = %q", got)
	}
}
