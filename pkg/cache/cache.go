// Package cache stores layouts and rendered artifacts between runs.
//
// Traces are cheap to parse, but rendering a large import tree to PNG or
// through Graphviz is not. The pipeline runner keys every stage output by the
// hash of its input plus the options that influence it, so re-rendering an
// unchanged trace is a file read.
//
// # Implementations
//
//   - [FileCache]: JSON envelopes with expiry under a directory (CLI default)
//   - [NullCache]: stores nothing (--no-cache, tests)
//
// # Keys
//
// A [Keyer] derives keys from content hashes ([Hash]) and option structs.
// [ScopedKeyer] prefixes keys so that caches written by a different release
// are never read back.
package cache

import (
	"context"
	"strings"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value for key and whether it was found.
	// Expired and unreadable entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// TTLs for cached pipeline stages.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Key types, used as key prefixes and reported to observability hooks.
const (
	KeyTypeLayout   = "layout"
	KeyTypeArtifact = "artifact"
)

// Keyer generates cache keys for pipeline stages.
type Keyer interface {
	// LayoutKey returns the key for a layout computed from a trace.
	LayoutKey(traceHash string, opts LayoutKeyOpts) string

	// ArtifactKey returns the key for an artifact rendered from a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds the options that change a computed layout.
type LayoutKeyOpts struct {
	VizType    string  `json:"viz_type"`
	Width      float64 `json:"width"`
	RowHeight  float64 `json:"row_height"`
	Precision  int     `json:"precision"`
	Style      string  `json:"style"`
	Title      string  `json:"title,omitempty"`
	MinPercent float64 `json:"min_percent,omitempty"`
	Detailed   bool    `json:"detailed,omitempty"`
}

// ArtifactKeyOpts holds the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format        string  `json:"format"`
	Style         string  `json:"style"`
	Title         string  `json:"title,omitempty"`
	Interactive   bool    `json:"interactive,omitempty"`
	MinLabelWidth float64 `json:"min_label_width,omitempty"`
	Scale         float64 `json:"scale,omitempty"`
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer creates a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey returns "layout:<sha256>" over the trace hash and options.
func (DefaultKeyer) LayoutKey(traceHash string, opts LayoutKeyOpts) string {
	return hashKey(KeyTypeLayout, traceHash, opts)
}

// ArtifactKey returns "artifact:<sha256>" over the layout hash and options.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey(KeyTypeArtifact, layoutHash, opts)
}

// keyType extracts the key type from a possibly scoped key.
func keyType(key string) string {
	parts := strings.Split(key, ":")
	if len(parts) < 2 {
		return "unknown"
	}
	return parts[len(parts)-2]
}

