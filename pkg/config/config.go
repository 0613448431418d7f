// Package config loads project-level defaults for pyimporttime.
//
// Settings come from the first file found walking up from the working
// directory:
//
//	.pyimporttime.toml
//	.pyimporttime.yaml / .pyimporttime.yml
//	pyproject.toml ([tool.pyimporttime] table)
//
// Keys match the CLI flag names, so
//
//	[tool.pyimporttime]
//	width = 1600
//	row-height = 18
//	style = "heat"
//
// is the same as passing --width 1600 --row-height 18 --style heat.
// Flags given on the command line always win.
package config

import (
	"github.com/matzehuels/pyimporttime/pkg/errors"
	"github.com/matzehuels/pyimporttime/pkg/pipeline"
)

// Config holds defaults for pipeline options and the capture command.
// Zero values mean "not set".
type Config struct {
	Python        string   `toml:"python" yaml:"python"`
	VizType       string   `toml:"type" yaml:"type"`
	Width         float64  `toml:"width" yaml:"width"`
	RowHeight     float64  `toml:"row-height" yaml:"row-height"`
	Precision     *int     `toml:"precision" yaml:"precision"`
	Style         string   `toml:"style" yaml:"style"`
	Formats       []string `toml:"formats" yaml:"formats"`
	MinLabelWidth float64  `toml:"min-label-width" yaml:"min-label-width"`
	MinPercent    float64  `toml:"min-percent" yaml:"min-percent"`
	Title         string   `toml:"title" yaml:"title"`
	Interactive   *bool    `toml:"interactive" yaml:"interactive"`
	Scale         float64  `toml:"scale" yaml:"scale"`
	NoCache       bool     `toml:"no-cache" yaml:"no-cache"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `toml:"-" yaml:"-"`
}

// Validate checks that every set value is acceptable to the pipeline.
func (c *Config) Validate() error {
	check := func(err error) error {
		if err == nil {
			return nil
		}
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", c.source())
	}

	if c.VizType != "" {
		if err := check(pipeline.ValidateVizType(c.VizType)); err != nil {
			return err
		}
	}
	if c.Style != "" {
		if err := check(pipeline.ValidateStyle(c.Style)); err != nil {
			return err
		}
	}
	if err := check(pipeline.ValidateFormats(c.Formats)); err != nil {
		return err
	}
	if c.Precision != nil {
		if err := check(errors.ValidatePrecision(*c.Precision)); err != nil {
			return err
		}
	}
	if c.Python != "" {
		if err := check(errors.ValidateInterpreter(c.Python)); err != nil {
			return err
		}
	}
	if c.Width < 0 || c.RowHeight < 0 || c.MinLabelWidth < 0 || c.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "%s: sizes must not be negative", c.source())
	}
	if c.MinPercent < 0 || c.MinPercent > 100 {
		return errors.New(errors.ErrCodeInvalidConfig, "%s: min-percent must be between 0 and 100", c.source())
	}
	return nil
}

// Apply copies set values into o. changed reports whether the flag of the
// same name was given explicitly; those fields are left alone. A nil
// changed treats every flag as unset.
func (c *Config) Apply(o *pipeline.Options, changed func(flag string) bool) {
	if changed == nil {
		changed = func(string) bool { return false }
	}
	set := func(flag string, ok bool, fn func()) {
		if ok && !changed(flag) {
			fn()
		}
	}

	set("type", c.VizType != "", func() { o.VizType = c.VizType })
	set("width", c.Width != 0, func() { o.Width = c.Width })
	set("row-height", c.RowHeight != 0, func() { o.RowHeight = c.RowHeight })
	set("precision", c.Precision != nil, func() {
		o.Precision = *c.Precision
		if o.Precision == 0 {
			o.Precision = pipeline.PrecisionWhole
		}
	})
	set("style", c.Style != "", func() { o.Style = c.Style })
	set("format", len(c.Formats) > 0, func() { o.Formats = append([]string(nil), c.Formats...) })
	set("min-label-width", c.MinLabelWidth != 0, func() { o.MinLabelWidth = c.MinLabelWidth })
	set("min-percent", c.MinPercent != 0, func() { o.MinPercent = c.MinPercent })
	set("title", c.Title != "", func() { o.Title = c.Title })
	set("interactive", c.Interactive != nil, func() { o.Interactive = *c.Interactive })
	set("scale", c.Scale != 0, func() { o.Scale = c.Scale })
}

func (c *Config) source() string {
	if c.Path == "" {
		return "config"
	}
	return c.Path
}
