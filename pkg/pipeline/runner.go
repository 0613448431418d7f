package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pyimporttime/pkg/cache"
	"github.com/matzehuels/pyimporttime/pkg/core/importtime"
	"github.com/matzehuels/pyimporttime/pkg/core/tree"
	"github.com/matzehuels/pyimporttime/pkg/graph"
	"github.com/matzehuels/pyimporttime/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete parse → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Parse
	parseStart := time.Now()
	records, t, err := r.ParseTrace(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Records = records
	result.Tree = t
	result.TraceHash = TraceHash(t)
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.RecordCount = len(records)
	result.Stats.MaxDepth = t.MaxDepth()
	result.Stats.Total = t.Total()

	// Stage 2: Layout
	layoutStart := time.Now()
	l, layoutHit, err := r.GenerateLayoutWithCacheInfo(ctx, t, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	return result, nil
}

// ParseTrace parses the trace in opts and rebuilds the import tree.
// Parsing is never cached: it is linear in the input and the cheapest stage.
func (r *Runner) ParseTrace(ctx context.Context, opts Options) ([]importtime.Record, *tree.Tree, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForParse(); err != nil {
		return nil, nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, opts.Source)
	start := time.Now()

	records, t, err := Parse(opts.Trace)
	elapsed := time.Since(start)
	hooks.OnParseComplete(ctx, opts.Source, len(records), elapsed, err)
	if err != nil {
		return nil, nil, err
	}

	opts.Logger.Info("parsed trace",
		"source", opts.Source,
		"records", len(records),
		"total", t.Total(),
		"duration", elapsed)
	return records, t, nil
}

// GenerateLayoutWithCacheInfo generates a layout with caching and returns cache hit info.
func (r *Runner) GenerateLayoutWithCacheInfo(ctx context.Context, t *tree.Tree, opts Options) (graph.Layout, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Layout{}, false, err
	}

	cacheKey := r.Keyer.LayoutKey(TraceHash(t), opts.LayoutKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			cached, err := graph.UnmarshalLayout(data)
			if err == nil {
				opts.Logger.Debug("layout from cache", "viz", cached.VizType)
				return cached, true, nil
			}
			// If deserialization fails, fall through to recompute
		}
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.VizType, t.Len())
	start := time.Now()

	l, err := GenerateLayout(t, opts)
	elapsed := time.Since(start)
	hooks.OnLayoutComplete(ctx, opts.VizType, elapsed, err)
	if err != nil {
		return graph.Layout{}, false, err
	}

	opts.Logger.Info("computed layout",
		"viz", l.VizType,
		"boxes", len(l.Boxes),
		"duration", elapsed)

	if data, err := graph.MarshalLayout(l); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err != nil {
			opts.Logger.Warn("cache layout", "err", err)
		}
	}

	return l, false, nil
}

// GenerateLayout is a convenience wrapper that calls GenerateLayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) GenerateLayout(ctx context.Context, t *tree.Tree, opts Options) (graph.Layout, error) {
	l, _, err := r.GenerateLayoutWithCacheInfo(ctx, t, opts)
	return l, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
// Options left empty are taken from the layout's metadata.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, gl graph.Layout, opts Options) (map[string][]byte, bool, error) {
	opts = applyLayoutMetadata(opts, gl)
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	layoutData, err := graph.MarshalLayout(gl)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			opts.Logger.Debug("artifacts from cache", "formats", opts.Formats)
			return artifacts, true, nil
		}
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	rendered, err := RenderFromLayout(ctx, gl, opts)
	elapsed := time.Since(start)
	hooks.OnRenderComplete(ctx, opts.Formats, elapsed, err)
	if err != nil {
		return nil, false, err
	}

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", elapsed)

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			opts.Logger.Warn("cache artifact", "format", format, "err", err)
		}
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, gl graph.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, gl, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set. It
// must run before validation, which installs a discard logger.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
