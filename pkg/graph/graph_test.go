package graph

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/pyimporttime/pkg/core/importtime"
	"github.com/matzehuels/pyimporttime/pkg/core/tree"
	"github.com/matzehuels/pyimporttime/pkg/errors"
)

func us(n int64) time.Duration { return time.Duration(n) * time.Microsecond }

func exampleRecords() []importtime.Record {
	return []importtime.Record{
		{Name: "a", Self: us(100), Cumulative: us(100), Depth: 0, Line: 1},
		{Name: "b", Self: us(50), Cumulative: us(50), Depth: 1, Line: 2},
		{Name: "c", Self: us(30), Cumulative: us(180), Depth: 0, Line: 3},
	}
}

func TestTraceFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.json")
	records := exampleRecords()

	if err := WriteTraceFile(records, path); err != nil {
		t.Fatalf("WriteTraceFile() error = %v", err)
	}
	got, err := ReadTraceFile(path)
	if err != nil {
		t.Fatalf("ReadTraceFile() error = %v", err)
	}
	if diff := cmp.Diff(records, got); diff != "" {
		t.Errorf("trace file mismatch (-want +got):\n%s", diff)
	}
}

func TestFromRecordsTotal(t *testing.T) {
	tr := FromRecords(exampleRecords())
	if tr.TotalUS != 280 {
		t.Errorf("TotalUS = %d, want 280", tr.TotalUS)
	}
	if tr.Records[1].SelfUS != 50 || tr.Records[1].Depth != 1 {
		t.Errorf("Records[1] = %+v", tr.Records[1])
	}
}

func TestReadTraceNested(t *testing.T) {
	tr, err := tree.Build(exampleRecords())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	data, err := MarshalModules(tr)
	if err != nil {
		t.Fatalf("MarshalModules() error = %v", err)
	}

	got, err := ReadTrace(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadTrace() error = %v", err)
	}
	if diff := cmp.Diff(exampleRecords(), got); diff != "" {
		t.Errorf("nested trace mismatch (-want +got):\n%s", diff)
	}
}

func TestReadTraceInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", "{not json"},
		{"unknown shape", `{"total_us": 280, "count": 3}`},
		{"bad records", `{"records": [{"name": 1}]}`},
		{"bad imports", `{"imports": "os"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadTrace(bytes.NewReader([]byte(tt.input)))
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("ReadTrace() error = %v, want %s", err, errors.ErrCodeInvalidInput)
			}
		})
	}
}

func TestFromTree(t *testing.T) {
	tr, err := tree.Build(exampleRecords())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	want := Modules{
		TotalUS: 280,
		Count:   3,
		Imports: []Module{
			{Name: "a", SelfUS: 100, CumulativeUS: 100, Percent: 35.71, Line: 1},
			{Name: "c", SelfUS: 30, CumulativeUS: 180, Percent: 64.29, Line: 3, Imports: []Module{
				{Name: "b", SelfUS: 50, CumulativeUS: 50, Percent: 17.86, Line: 2},
			}},
		},
	}
	if diff := cmp.Diff(want, FromTree(tr)); diff != "" {
		t.Errorf("FromTree() mismatch (-want +got):\n%s", diff)
	}
}

func TestToTree(t *testing.T) {
	l := Layout{
		VizType: VizTypeIcicle,
		Boxes: []Box{
			{ID: 1, Parent: 0, Name: "a", SelfUS: 100, CumulativeUS: 100, Line: 1},
			{ID: 2, Parent: 0, Name: "c", SelfUS: 30, CumulativeUS: 180, Line: 3},
			{ID: 3, Parent: 2, Name: "b", SelfUS: 50, CumulativeUS: 50, Line: 2},
		},
	}
	tr, err := ToTree(l)
	if err != nil {
		t.Fatalf("ToTree() error = %v", err)
	}
	if tr.Total() != us(280) {
		t.Errorf("Total() = %v, want 280µs", tr.Total())
	}
	for i, r := range tr.Records() {
		r.Line = 0
		want := exampleRecords()[i]
		want.Line = 0
		if r != want {
			t.Errorf("Records()[%d] = %+v, want %+v", i, r, want)
		}
	}
}

func TestToTreeErrors(t *testing.T) {
	tests := []struct {
		name  string
		boxes []Box
	}{
		{"unknown parent", []Box{{ID: 1, Parent: 7, Name: "x"}}},
		{"child before parent", []Box{
			{ID: 2, Parent: 1, Name: "child", CumulativeUS: 1},
			{ID: 1, Parent: 0, Name: "parent", CumulativeUS: 2},
		}},
		{"duplicate id", []Box{
			{ID: 1, Parent: 0, Name: "x", CumulativeUS: 1},
			{ID: 1, Parent: 0, Name: "y", CumulativeUS: 1},
		}},
		{"children exceed parent", []Box{
			{ID: 1, Parent: 0, Name: "p", CumulativeUS: 1},
			{ID: 2, Parent: 1, Name: "c", CumulativeUS: 5},
		}},
		{"self above cumulative", []Box{{ID: 1, Parent: 0, Name: "x", SelfUS: 3, CumulativeUS: 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ToTree(Layout{VizType: VizTypeIcicle, Boxes: tt.boxes}); err == nil {
				t.Error("ToTree() error = nil, want error")
			}
		})
	}
}

func TestUnmarshalLayout(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantViz string
		wantErr bool
	}{
		{"defaults to icicle", `{"width": 10, "boxes": [{"id": 1, "name": "a"}], "count": 1}`, VizTypeIcicle, false},
		{"empty trace", `{"viz_type": "icicle", "count": 0}`, VizTypeIcicle, false},
		{"nodelink", `{"viz_type": "nodelink", "dot": "digraph G {}"}`, VizTypeNodelink, false},
		{"icicle without boxes", `{"viz_type": "icicle", "count": 3}`, "", true},
		{"nodelink without dot", `{"viz_type": "nodelink"}`, "", true},
		{"unknown viz", `{"viz_type": "tower"}`, "", true},
		{"invalid json", `{`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := UnmarshalLayout([]byte(tt.json))
			if (err != nil) != tt.wantErr {
				t.Fatalf("UnmarshalLayout() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && l.VizType != tt.wantViz {
				t.Errorf("VizType = %q, want %q", l.VizType, tt.wantViz)
			}
		})
	}
}

func TestLayoutFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	l := Layout{
		VizType:   VizTypeIcicle,
		Width:     1000,
		Height:    40,
		RowHeight: 20,
		Precision: 3,
		TotalUS:   280,
		Count:     1,
		Boxes:     []Box{{ID: 1, Name: "a", X: 0, Y: 0, Width: 357.143, Height: 20, CumulativeUS: 100, SelfUS: 100}},
	}
	if err := WriteLayoutFile(l, path); err != nil {
		t.Fatalf("WriteLayoutFile() error = %v", err)
	}
	got, err := ReadLayoutFile(path)
	if err != nil {
		t.Fatalf("ReadLayoutFile() error = %v", err)
	}
	if diff := cmp.Diff(l, got); diff != "" {
		t.Errorf("layout file mismatch (-want +got):\n%s", diff)
	}
	if _, err := ReadLayoutFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("ReadLayoutFile(missing) error = nil")
	}
}
