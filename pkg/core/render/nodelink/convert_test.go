package nodelink

import (
	"testing"

	"github.com/matzehuels/pyimporttime/pkg/graph"
)

func TestExportParse(t *testing.T) {
	tr := fixture(t)
	dot := ToDOT(tr, Options{})

	l, err := Export(dot, tr, "startup", graph.StyleHeat)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if l.VizType != graph.VizTypeNodelink || l.Engine != DefaultEngine {
		t.Errorf("Export() viz = %q engine = %q", l.VizType, l.Engine)
	}
	if l.TotalUS != 281 || l.Count != 5 || len(l.Boxes) != 5 {
		t.Errorf("Export() total = %d count = %d boxes = %d, want 281 5 5", l.TotalUS, l.Count, len(l.Boxes))
	}

	data, err := graph.MarshalLayout(l)
	if err != nil {
		t.Fatalf("MarshalLayout() error = %v", err)
	}
	back, err := graph.UnmarshalLayout(data)
	if err != nil {
		t.Fatalf("UnmarshalLayout() error = %v", err)
	}

	got, err := Parse(back)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got != dot {
		t.Error("Parse() DOT differs from exported DOT")
	}

	rebuilt, err := graph.ToTree(back)
	if err != nil {
		t.Fatalf("graph.ToTree() error = %v", err)
	}
	if rebuilt.Total() != tr.Total() || rebuilt.Len() != tr.Len() {
		t.Errorf("graph.ToTree() total = %v len = %d, want %v %d", rebuilt.Total(), rebuilt.Len(), tr.Total(), tr.Len())
	}
}

func TestExport_EmptyDOT(t *testing.T) {
	if _, err := Export("", nil, "", ""); err == nil {
		t.Error("Export() error = nil for empty DOT")
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		layout graph.Layout
	}{
		{"wrong viz type", graph.Layout{VizType: graph.VizTypeIcicle, DOT: "digraph G {}"}},
		{"missing DOT", graph.Layout{VizType: graph.VizTypeNodelink}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.layout); err == nil {
				t.Error("Parse() error = nil, want error")
			}
		})
	}
}
