// Package pipeline provides the core visualization pipeline for pyimporttime.
//
// This package implements the complete parse → layout → render pipeline used
// by every CLI command. By centralizing this logic, each entry point gets the
// same defaults, validation, caching and instrumentation.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: Read `-X importtime` records and rebuild the import tree
//  2. Layout: Compute an icicle layout, or a Graphviz DOT graph for nodelink
//  3. Render: Generate output in various formats (HTML, SVG, PNG, PDF, JSON, DOT)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Trace:   traceText,
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Parse only
//	records, t, err := runner.ParseTrace(ctx, opts)
//
//	// Layout with an existing tree
//	layout, err := runner.GenerateLayout(ctx, t, opts)
//
//	// Render with an existing layout
//	artifacts, err := runner.Render(ctx, layout, opts)
package pipeline

import (
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pyimporttime/pkg/cache"
	"github.com/matzehuels/pyimporttime/pkg/core/importtime"
	"github.com/matzehuels/pyimporttime/pkg/core/render/icicle/layout"
	"github.com/matzehuels/pyimporttime/pkg/core/render/icicle/sink"
	"github.com/matzehuels/pyimporttime/pkg/core/render/icicle/styles"
	"github.com/matzehuels/pyimporttime/pkg/core/tree"
	"github.com/matzehuels/pyimporttime/pkg/errors"
	"github.com/matzehuels/pyimporttime/pkg/graph"
)

// =============================================================================
// Default Values - Single Source of Truth for all commands
// =============================================================================

const (
	// DefaultWidth is the default canvas width in pixels.
	DefaultWidth = layout.DefaultWidth

	// DefaultRowHeight is the default height of one depth tier in pixels.
	DefaultRowHeight = layout.DefaultRowHeight

	// DefaultPrecision is the default number of decimal places kept in coordinates.
	DefaultPrecision = layout.DefaultPrecision

	// PrecisionWhole requests coordinates rounded to whole pixels.
	// A zero Precision selects DefaultPrecision.
	PrecisionWhole = -1

	// DefaultMinLabelWidth is the narrowest box that still gets a label.
	DefaultMinLabelWidth = styles.MinLabelWidth

	// DefaultScale is the PNG resolution multiplier.
	DefaultScale = sink.DefaultScale
)

// DefaultVizType is the default visualization type.
const DefaultVizType = graph.VizTypeIcicle

// DefaultStyle is the default visual style.
const DefaultStyle = graph.StylePackage

// Format constants for output formats.
const (
	FormatHTML = "html"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatHTML: true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// ValidStyles is the set of supported visual styles.
var ValidStyles = map[string]bool{
	graph.StylePackage: true,
	graph.StyleHeat:    true,
}

// ValidVizTypes is the set of supported visualization types.
var ValidVizTypes = map[string]bool{
	graph.VizTypeIcicle:   true,
	graph.VizTypeNodelink: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the visualization pipeline.
// This struct supports JSON serialization so that a run can be recorded.
type Options struct {
	// Parse options
	Trace  string `json:"-"`                // raw -X importtime output
	Source string `json:"source,omitempty"` // where Trace came from, for logs

	// Layout options
	VizType    string  `json:"viz_type,omitempty"`
	Width      float64 `json:"width,omitempty"`
	RowHeight  float64 `json:"row_height,omitempty"`
	Precision  int     `json:"precision,omitempty"`
	Title      string  `json:"title,omitempty"`
	MinPercent float64 `json:"min_percent,omitempty"` // nodelink pruning threshold
	Detailed   bool    `json:"detailed,omitempty"`    // nodelink labels with self time and share

	// Render options
	Formats       []string `json:"formats,omitempty"`
	Style         string   `json:"style,omitempty"`
	MinLabelWidth float64  `json:"min_label_width,omitempty"`
	Interactive   bool     `json:"interactive,omitempty"`
	Scale         float64  `json:"scale,omitempty"`

	// Refresh bypasses cached layouts and artifacts.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Records are the parsed trace records in input order.
	Records []importtime.Record

	// Tree is the reconstructed import tree.
	Tree *tree.Tree

	// TraceHash is the content hash of the parsed records.
	TraceHash string

	// Layout contains the serialized layout.
	Layout graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	RecordCount int
	MaxDepth    int
	Total       time.Duration // cumulative import time of the whole trace
	ParseTime   time.Duration
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether layout result came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, joinKeys(ValidFormats))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	if !ValidStyles[style] {
		return errors.New(errors.ErrCodeInvalidStyle, "invalid style: %q (must be one of: %s)", style, joinKeys(ValidStyles))
	}
	return nil
}

// ValidateVizType checks that a visualization type is valid.
func ValidateVizType(vizType string) error {
	if !ValidVizTypes[vizType] {
		return errors.New(errors.ErrCodeInvalidVizType, "invalid viz_type: %q (must be one of: %s)", vizType, joinKeys(ValidVizTypes))
	}
	return nil
}

// ValidateFormatsFor checks that every format can be produced for a
// visualization type. HTML pages are only built for icicle layouts.
func ValidateFormatsFor(vizType string, formats []string) error {
	if err := ValidateFormats(formats); err != nil {
		return err
	}
	if vizType != graph.VizTypeNodelink {
		return nil
	}
	for _, f := range formats {
		if f == FormatHTML {
			return errors.New(errors.ErrCodeInvalidFormat, "format %q is not supported for %s layouts", f, vizType)
		}
	}
	return nil
}

// joinKeys lists the keys of a validity set in sorted order.
func joinKeys(set map[string]bool) string {
	return strings.Join(slices.Sorted(maps.Keys(set)), ", ")
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForParse(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForParse checks required fields for parsing.
func (o *Options) ValidateForParse() error {
	if strings.TrimSpace(o.Trace) == "" {
		return errors.New(errors.ErrCodeNoRecords, "trace is empty")
	}
	if o.Source == "" {
		o.Source = "-"
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.RowHeight == 0 {
		o.RowHeight = DefaultRowHeight
	}
	if o.Precision == 0 {
		o.Precision = DefaultPrecision
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	if err := ValidateStyle(o.Style); err != nil {
		return err
	}
	if err := errors.ValidateCanvas(o.Width, o.RowHeight); err != nil {
		return err
	}
	if o.Precision != PrecisionWhole {
		if err := errors.ValidatePrecision(o.Precision); err != nil {
			return err
		}
	}
	if o.MinPercent < 0 || o.MinPercent > 100 {
		return errors.New(errors.ErrCodeInvalidInput, "min percent must be between 0 and 100, got %v", o.MinPercent)
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
// The default format depends on the visualization type: an HTML page for
// icicle layouts, an SVG for nodelink graphs.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		if o.IsNodelink() {
			o.Formats = []string{FormatSVG}
		} else {
			o.Formats = []string{FormatHTML}
		}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.MinLabelWidth == 0 {
		o.MinLabelWidth = DefaultMinLabelWidth
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	if err := ValidateFormatsFor(o.VizType, o.Formats); err != nil {
		return err
	}
	if err := ValidateStyle(o.Style); err != nil {
		return err
	}
	if o.Scale < 0 || o.MinLabelWidth < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale and min label width must not be negative")
	}
	return nil
}

// IsIcicle returns true if this is an icicle visualization.
func (o *Options) IsIcicle() bool {
	return o.VizType == "" || o.VizType == graph.VizTypeIcicle
}

// IsNodelink returns true if this is a nodelink visualization.
func (o *Options) IsNodelink() bool {
	return o.VizType == graph.VizTypeNodelink
}

// LayoutPrecision returns the number of decimal places passed to the layout engine.
func (o *Options) LayoutPrecision() int {
	switch o.Precision {
	case PrecisionWhole:
		return 0
	case 0:
		return DefaultPrecision
	}
	return o.Precision
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		VizType:    o.VizType,
		Width:      o.Width,
		RowHeight:  o.RowHeight,
		Precision:  o.LayoutPrecision(),
		Style:      o.Style,
		Title:      o.Title,
		MinPercent: o.MinPercent,
		Detailed:   o.Detailed,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:        format,
		Style:         o.Style,
		Title:         o.Title,
		Interactive:   o.Interactive,
		MinLabelWidth: o.MinLabelWidth,
		Scale:         o.Scale,
	}
}

