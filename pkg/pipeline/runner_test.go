package pipeline

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/pyimporttime/pkg/cache"
	"github.com/matzehuels/pyimporttime/pkg/errors"
	"github.com/matzehuels/pyimporttime/pkg/graph"
	"github.com/matzehuels/pyimporttime/pkg/observability"
)

const workedTrace = `import time: self [us] | cumulative | imported package
import time:       100 |        100 | a
import time:        50 |         50 |   b
import time:        30 |        180 | c
`

func TestParse(t *testing.T) {
	records, tr, err := Parse(workedTrace)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(records) != 3 || tr.Len() != 3 {
		t.Fatalf("Parse() records = %d, nodes = %d, want 3, 3", len(records), tr.Len())
	}
	if tr.Total() != 280*time.Microsecond {
		t.Errorf("Total() = %v, want 280µs", tr.Total())
	}
}

func TestParse_DepthSkip(t *testing.T) {
	trace := "import time: 1 | 1 |     deep\nimport time: 1 | 2 | top\n"
	_, _, err := Parse(trace)
	if !errors.Is(err, errors.ErrCodeDepthSkip) {
		t.Fatalf("Parse() error = %v, want %s", err, errors.ErrCodeDepthSkip)
	}
	if line, _ := errors.LineOf(err); line != 1 {
		t.Errorf("LineOf() = %d, want 1", line)
	}
}

func TestTraceHash_IgnoresNoise(t *testing.T) {
	_, a, err := Parse(workedTrace)
	if err != nil {
		t.Fatal(err)
	}
	_, b, err := Parse("Python 3.12\n" + workedTrace + "done\n")
	if err != nil {
		t.Fatal(err)
	}
	if TraceHash(a) != TraceHash(b) {
		t.Error("TraceHash() differs for traces with the same records")
	}
}

func TestExecute_WorkedExample(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	defer r.Close()

	res, err := r.Execute(context.Background(), Options{
		Trace:   workedTrace,
		Width:   1000,
		Formats: []string{FormatSVG, FormatJSON, FormatDOT, FormatHTML},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if res.Stats.RecordCount != 3 || res.Stats.MaxDepth != 1 {
		t.Errorf("Stats = %+v", res.Stats)
	}

	type geom struct {
		Name string
		X, Y float64
		W, H float64
	}
	var got []geom
	for _, b := range res.Layout.Boxes {
		got = append(got, geom{b.Name, b.X, b.Y, b.Width, b.Height})
	}
	want := []geom{
		{"a", 0, 0, 357.143, 20},
		{"c", 357.143, 0, 642.857, 20},
		{"b", 357.143, 20, 178.571, 20},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("layout boxes mismatch (-want +got):\n%s", diff)
	}

	for _, f := range []string{FormatSVG, FormatJSON, FormatDOT, FormatHTML} {
		if len(res.Artifacts[f]) == 0 {
			t.Errorf("artifact %s missing", f)
		}
	}
	if !strings.Contains(string(res.Artifacts[FormatDOT]), "n2 -> n3;") {
		t.Error("DOT artifact missing c -> b edge")
	}

	parsed, err := graph.UnmarshalLayout(res.Artifacts[FormatJSON])
	if err != nil {
		t.Fatalf("UnmarshalLayout() error = %v", err)
	}
	if parsed.TotalUS != 280 || parsed.Count != 3 {
		t.Errorf("JSON layout total = %d count = %d, want 280 3", parsed.TotalUS, parsed.Count)
	}
}

func TestExecute_LogsThroughRunnerLogger(t *testing.T) {
	var buf bytes.Buffer
	r := NewRunner(nil, nil, log.New(&buf))
	defer r.Close()

	if _, err := r.Execute(context.Background(), Options{Trace: workedTrace, Formats: []string{FormatSVG}}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"parsed trace", "records=3", "computed layout", "rendered outputs"} {
		if !strings.Contains(out, want) {
			t.Errorf("runner log missing %q:\n%s", want, out)
		}
	}
}

func TestExecute_Deterministic(t *testing.T) {
	opts := Options{Trace: workedTrace, Formats: []string{FormatSVG, FormatJSON}}

	r := NewRunner(nil, nil, nil)
	first, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	for f, data := range first.Artifacts {
		if string(data) != string(second.Artifacts[f]) {
			t.Errorf("%s output differs between runs", f)
		}
	}
}

func TestExecute_Nodelink(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), Options{
		Trace:   workedTrace,
		VizType: graph.VizTypeNodelink,
		Formats: []string{FormatDOT, FormatSVG},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.Layout.DOT == "" {
		t.Error("nodelink layout missing DOT")
	}
	if string(res.Artifacts[FormatDOT]) != res.Layout.DOT {
		t.Error("DOT artifact differs from layout DOT")
	}
	if !strings.Contains(string(res.Artifacts[FormatSVG]), "<svg") {
		t.Error("SVG artifact is not an SVG")
	}
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"empty", Options{Trace: ""}, errors.ErrCodeNoRecords},
		{"no records", Options{Trace: "hello\n"}, errors.ErrCodeNoRecords},
		{"malformed", Options{Trace: "import time: x | 1 | a\n"}, errors.ErrCodeMalformedLine},
		{"bad format", Options{Trace: workedTrace, Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"html nodelink", Options{Trace: workedTrace, VizType: "nodelink", Formats: []string{"html"}}, errors.ErrCodeInvalidFormat},
	}

	r := NewRunner(nil, nil, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Execute(context.Background(), tt.opts)
			if !errors.Is(err, tt.code) {
				t.Errorf("Execute() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestRunner_Cache(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	ctx := context.Background()
	opts := Options{Trace: workedTrace, Formats: []string{FormatSVG}}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Errorf("first run CacheInfo = %+v, want misses", first.CacheInfo)
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run CacheInfo = %+v, want hits", second.CacheInfo)
	}
	if string(first.Artifacts[FormatSVG]) != string(second.Artifacts[FormatSVG]) {
		t.Error("cached SVG differs from rendered SVG")
	}

	opts.Refresh = true
	third, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.LayoutHit || third.CacheInfo.RenderHit {
		t.Errorf("refresh run CacheInfo = %+v, want misses", third.CacheInfo)
	}
}

func TestRenderFromLayout_UsesLayoutMetadata(t *testing.T) {
	_, tr, err := Parse(workedTrace)
	if err != nil {
		t.Fatal(err)
	}
	gl, err := GenerateLayout(tr, Options{
		VizType: graph.VizTypeIcicle, Width: 1000, RowHeight: 20, Precision: 3,
		Style: graph.StyleHeat, Title: "startup",
	})
	if err != nil {
		t.Fatal(err)
	}

	out, err := RenderFromLayout(context.Background(), gl, Options{Formats: []string{FormatSVG}})
	if err != nil {
		t.Fatalf("RenderFromLayout() error = %v", err)
	}
	if !strings.Contains(string(out[FormatSVG]), "<title>startup</title>") {
		t.Error("RenderFromLayout() ignored the layout title")
	}
}

func TestRunner_Hooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	r := NewRunner(nil, nil, nil)
	if _, err := r.Execute(context.Background(), Options{Trace: workedTrace, Source: "trace.txt", Formats: []string{FormatSVG}}); err != nil {
		t.Fatal(err)
	}

	want := []string{"parse trace.txt", "parsed 3", "layout icicle 3", "layout done", "render [svg]", "render done"}
	if diff := cmp.Diff(want, hooks.events); diff != "" {
		t.Errorf("hook events mismatch (-want +got):\n%s", diff)
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) add(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHooks) OnParseStart(_ context.Context, source string) { h.add("parse " + source) }
func (h *recordingHooks) OnParseComplete(_ context.Context, _ string, n int, _ time.Duration, _ error) {
	h.add("parsed " + strconv.Itoa(n))
}
func (h *recordingHooks) OnLayoutStart(_ context.Context, viz string, n int) {
	h.add("layout " + viz + " " + strconv.Itoa(n))
}
func (h *recordingHooks) OnLayoutComplete(context.Context, string, time.Duration, error) {
	h.add("layout done")
}
func (h *recordingHooks) OnRenderStart(_ context.Context, formats []string) {
	h.add("render [" + strings.Join(formats, " ") + "]")
}
func (h *recordingHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {
	h.add("render done")
}
