package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pyimporttime/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, rounded to the millisecond.
// Example output: "Captured trace (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default() if none is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if ctx == nil {
		return log.Default()
	}
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Observability Hooks
// =============================================================================

// logHooks reports pipeline, cache and capture events at debug level.
type logHooks struct {
	logger *log.Logger
}

func registerLogHooks(l *log.Logger) {
	h := logHooks{logger: l}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	observability.SetCaptureHooks(h)
}

func (h logHooks) OnParseStart(_ context.Context, source string) {
	h.logger.Debug("parse started", "source", source)
}

func (h logHooks) OnParseComplete(_ context.Context, source string, records int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("parse failed", "source", source, "err", err)
		return
	}
	h.logger.Debug("parse complete", "source", source, "records", records, "duration", d)
}

func (h logHooks) OnLayoutStart(_ context.Context, vizType string, nodes int) {
	h.logger.Debug("layout started", "type", vizType, "nodes", nodes)
}

func (h logHooks) OnLayoutComplete(_ context.Context, vizType string, d time.Duration, err error) {
	h.logger.Debug("layout complete", "type", vizType, "duration", d, "err", err)
}

func (h logHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render started", "formats", formats)
}

func (h logHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.logger.Debug("render complete", "formats", formats, "duration", d, "err", err)
}

func (h logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h logHooks) OnCaptureStart(_ context.Context, executable string, args []string) {
	h.logger.Debug("capture started", "executable", executable, "args", args)
}

func (h logHooks) OnCaptureComplete(_ context.Context, executable string, exitCode, traceBytes int, d time.Duration, err error) {
	h.logger.Debug("capture complete", "executable", executable, "exit", exitCode, "bytes", traceBytes, "duration", d, "err", err)
}
