// Package observability lets the CLI watch the pipeline without the pipeline
// knowing about loggers or metrics backends.
//
// Three hook sets exist: [PipelineHooks] (parse, layout and render stages),
// [CacheHooks] (hits, misses and writes) and [CaptureHooks] (traced
// interpreter runs). Each defaults to a no-op implementation. The CLI
// registers debug-level logging hooks at startup; tests register recorders
// and call [Reset] when done.
//
//	observability.SetPipelineHooks(logHooks{logger})
//
// Emitters fetch the current hooks on every call:
//
//	observability.Pipeline().OnParseStart(ctx, source)
//	records, err := importtime.Parse(trace)
//	observability.Pipeline().OnParseComplete(ctx, source, len(records), time.Since(start), err)
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the visualization pipeline.
type PipelineHooks interface {
	// Parse events. source names the trace (a file path, "-" or "capture").
	OnParseStart(ctx context.Context, source string)
	OnParseComplete(ctx context.Context, source string, recordCount int, duration time.Duration, err error)

	// Layout events
	OnLayoutStart(ctx context.Context, vizType string, nodeCount int)
	OnLayoutComplete(ctx context.Context, vizType string, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// Capture Hooks
// =============================================================================

// CaptureHooks receives events from interpreter runs.
type CaptureHooks interface {
	// OnCaptureStart records the launch of a traced interpreter.
	OnCaptureStart(ctx context.Context, executable string, args []string)

	// OnCaptureComplete records the end of a run. err is set only when the
	// process could not be run; a non-zero exitCode alone is not an error.
	OnCaptureComplete(ctx context.Context, executable string, exitCode int, traceBytes int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnParseStart(context.Context, string)                               {}
func (NoopPipelineHooks) OnParseComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnLayoutStart(context.Context, string, int)                         {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, string, time.Duration, error)     {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                            {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error)   {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopCaptureHooks is a no-op implementation of CaptureHooks.
type NoopCaptureHooks struct{}

func (NoopCaptureHooks) OnCaptureStart(context.Context, string, []string)                          {}
func (NoopCaptureHooks) OnCaptureComplete(context.Context, string, int, int, time.Duration, error) {}

// =============================================================================
// Registry
// =============================================================================

// Hooks are swapped atomically so emitters never take a lock.
var (
	pipelineHooks atomic.Pointer[PipelineHooks]
	cacheHooks    atomic.Pointer[CacheHooks]
	captureHooks  atomic.Pointer[CaptureHooks]
)

func init() { Reset() }

// SetPipelineHooks registers pipeline hooks. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		pipelineHooks.Store(&h)
	}
}

// SetCacheHooks registers cache hooks. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		cacheHooks.Store(&h)
	}
}

// SetCaptureHooks registers capture hooks. A nil h is ignored.
func SetCaptureHooks(h CaptureHooks) {
	if h != nil {
		captureHooks.Store(&h)
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks { return *pipelineHooks.Load() }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return *cacheHooks.Load() }

// Capture returns the registered capture hooks.
func Capture() CaptureHooks { return *captureHooks.Load() }

// Reset restores the no-op hooks.
func Reset() {
	var (
		p PipelineHooks = NoopPipelineHooks{}
		c CacheHooks    = NoopCacheHooks{}
		r CaptureHooks  = NoopCaptureHooks{}
	)
	pipelineHooks.Store(&p)
	cacheHooks.Store(&c)
	captureHooks.Store(&r)
}
