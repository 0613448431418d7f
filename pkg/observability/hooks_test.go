package observability

import (
	"context"
	"sync"
	"testing"
	"time"
)

// recorder counts cache events; embedding keeps the other methods no-ops.
type recorder struct {
	NoopCacheHooks
	mu   sync.Mutex
	hits map[string]int
}

func (r *recorder) OnCacheHit(_ context.Context, keyType string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hits == nil {
		r.hits = map[string]int{}
	}
	r.hits[keyType]++
}

type stagePipeline struct{ NoopPipelineHooks }
type exitCapture struct{ NoopCaptureHooks }

func TestDefaultsAreNoop(t *testing.T) {
	Reset()
	ctx := context.Background()

	Pipeline().OnParseStart(ctx, "-")
	Pipeline().OnParseComplete(ctx, "-", 3, time.Millisecond, nil)
	Pipeline().OnLayoutStart(ctx, "icicle", 3)
	Pipeline().OnLayoutComplete(ctx, "icicle", time.Millisecond, nil)
	Pipeline().OnRenderStart(ctx, []string{"html"})
	Pipeline().OnRenderComplete(ctx, []string{"html"}, time.Millisecond, nil)
	Cache().OnCacheMiss(ctx, "layout")
	Cache().OnCacheSet(ctx, "artifact", 4096)
	Capture().OnCaptureStart(ctx, "python3", []string{"-c", "import json"})
	Capture().OnCaptureComplete(ctx, "python3", 0, 812, time.Second, nil)

	tests := []struct {
		name string
		ok   bool
	}{
		{"pipeline", isType[NoopPipelineHooks](Pipeline())},
		{"cache", isType[NoopCacheHooks](Cache())},
		{"capture", isType[NoopCaptureHooks](Capture())},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.ok {
				t.Errorf("%s hooks are not the no-op default", tt.name)
			}
		})
	}
}

func isType[T any](v any) bool {
	_, ok := v.(T)
	return ok
}

func TestSetAndReset(t *testing.T) {
	defer Reset()

	p, c, r := &stagePipeline{}, &recorder{}, &exitCapture{}
	SetPipelineHooks(p)
	SetCacheHooks(c)
	SetCaptureHooks(r)

	if Pipeline() != p || Cache() != c || Capture() != r {
		t.Fatal("registered hooks are not returned by the getters")
	}

	Cache().OnCacheHit(context.Background(), "layout")
	Cache().OnCacheHit(context.Background(), "layout")
	if c.hits["layout"] != 2 {
		t.Errorf("layout hits = %d, want 2", c.hits["layout"])
	}

	SetPipelineHooks(nil)
	if Pipeline() != p {
		t.Error("SetPipelineHooks(nil) replaced the registered hooks")
	}

	Reset()
	if !isType[NoopCaptureHooks](Capture()) {
		t.Error("Reset() left custom capture hooks in place")
	}
}

func TestConcurrentAccess(t *testing.T) {
	defer Reset()

	shared := &recorder{}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetCacheHooks(shared)
		}()
		go func() {
			defer wg.Done()
			Cache().OnCacheHit(context.Background(), "artifact")
		}()
	}
	wg.Wait()
}
