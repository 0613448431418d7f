// Package cli implements the pyimporttime command-line interface.
package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pyimporttime/pkg/buildinfo"
	"github.com/matzehuels/pyimporttime/pkg/cache"
	"github.com/matzehuels/pyimporttime/pkg/config"
	"github.com/matzehuels/pyimporttime/pkg/core/importtime"
	"github.com/matzehuels/pyimporttime/pkg/graph"
	"github.com/matzehuels/pyimporttime/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "pyimporttime"

	// stdinInput selects standard input as the trace source.
	stdinInput = "-"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	config     *config.Config
	stdin      io.Reader
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	c := &CLI{
		Logger: newLogger(w, level),
		config: &config.Config{},
		stdin:  os.Stdin,
	}
	registerLogHooks(c.Logger)
	return c
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	versionTmpl := buildinfo.Template()
	root := &cobra.Command{
		Use:   appName,
		Short: "pyimporttime visualizes Python import time traces",
		Long: `pyimporttime turns the output of "python -X importtime" into icicle and
node-link diagrams that show which modules were imported, how long each took on
its own, and how long each took including its dependencies.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(versionTmpl)
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: discover .pyimporttime.toml, .pyimporttime.yaml or pyproject.toml)")

	root.AddCommand(c.runCommand())
	root.AddCommand(c.parseCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.topCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the --config file, or the nearest discovered one.
func (c *CLI) loadConfig() error {
	dir, err := os.Getwd()
	if err != nil {
		dir = "."
	}
	cfg, err := config.Resolve(c.configPath, dir)
	if err != nil {
		return err
	}
	if cfg.Path != "" {
		c.Logger.Debug("loaded config", "path", cfg.Path)
	}
	c.config = cfg
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. Cache keys are scoped by
// build so that upgrades never serve artifacts from an older renderer.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	ch, err := newCache(noCache || c.config.NoCache)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.CacheScope())
	return pipeline.NewRunner(ch, keyer, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/pyimporttime/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// layoutFlags are the flags shared by every command that computes a layout.
type layoutFlags struct {
	vizType    string
	width      float64
	rowHeight  float64
	precision  int
	title      string
	minPercent float64
	detailed   bool
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	f.vizType = pipeline.DefaultVizType
	f.width = pipeline.DefaultWidth
	f.rowHeight = pipeline.DefaultRowHeight
	f.precision = pipeline.DefaultPrecision

	cmd.Flags().StringVarP(&f.vizType, "type", "t", f.vizType, "visualization type: icicle (default), nodelink")
	cmd.Flags().Float64Var(&f.width, "width", f.width, "canvas width in pixels")
	cmd.Flags().Float64Var(&f.rowHeight, "row-height", f.rowHeight, "height of one depth tier in pixels")
	cmd.Flags().IntVar(&f.precision, "precision", f.precision, "decimal places kept in coordinates (0 for whole pixels)")
	cmd.Flags().StringVar(&f.title, "title", "", "document title")
	cmd.Flags().Float64Var(&f.minPercent, "min-percent", 0, "hide modules below this share of the total (nodelink)")
	cmd.Flags().BoolVar(&f.detailed, "detailed", false, "show self time and share in node labels (nodelink)")
}

func (f *layoutFlags) apply(o *pipeline.Options) {
	o.VizType = f.vizType
	o.Width = f.width
	o.RowHeight = f.rowHeight
	o.Precision = f.precision
	if o.Precision == 0 {
		o.Precision = pipeline.PrecisionWhole
	}
	o.Title = f.title
	o.MinPercent = f.minPercent
	o.Detailed = f.detailed
}

// renderFlags are the flags shared by every command that renders artifacts.
type renderFlags struct {
	formats       string
	style         string
	minLabelWidth float64
	interactive   bool
	scale         float64
}

func (f *renderFlags) register(cmd *cobra.Command) {
	f.style = pipeline.DefaultStyle
	f.minLabelWidth = pipeline.DefaultMinLabelWidth
	f.scale = pipeline.DefaultScale

	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output format(s): html, svg, png, pdf, json, dot (comma-separated)")
	cmd.Flags().StringVar(&f.style, "style", f.style, "color style: package (default), heat")
	cmd.Flags().Float64Var(&f.minLabelWidth, "min-label-width", f.minLabelWidth, "narrowest box that gets a label (icicle)")
	cmd.Flags().BoolVar(&f.interactive, "interactive", false, "highlight related boxes on hover (icicle SVG)")
	cmd.Flags().Float64Var(&f.scale, "scale", f.scale, "PNG resolution multiplier")
}

func (f *renderFlags) apply(o *pipeline.Options) {
	o.Formats = parseFormats(f.formats)
	o.Style = f.style
	o.MinLabelWidth = f.minLabelWidth
	o.Interactive = f.interactive
	o.Scale = f.scale
}

// options builds pipeline options from the flags of cmd, filling every flag
// the user did not set from the loaded configuration.
func (c *CLI) options(cmd *cobra.Command, lf *layoutFlags, rf *renderFlags) pipeline.Options {
	opts := pipeline.Options{Logger: c.Logger}
	if lf != nil {
		lf.apply(&opts)
	}
	if rf != nil {
		rf.apply(&opts)
	}
	c.config.Apply(&opts, func(flag string) bool {
		f := cmd.Flags().Lookup(flag)
		return f == nil || f.Changed
	})
	return opts
}

// parseFormats parses a comma-separated format string into a slice.
// An empty string leaves the choice to the pipeline defaults.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// readInput returns the trace text from path, or from stdin for "-".
// JSON written by "parse", flat or with --tree, is accepted too and
// converted back to trace text.
func (c *CLI) readInput(ctx context.Context, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == stdinInput {
		loggerFromContext(ctx).Debug("reading trace from stdin")
		data, err = io.ReadAll(c.stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", err
	}

	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		records, err := graph.ReadTrace(bytes.NewReader(trimmed))
		if err != nil {
			return "", fmt.Errorf("json trace: %w", err)
		}
		return importtime.Format(records), nil
	}
	return string(data), nil
}

// inputArg returns the single optional positional argument, defaulting to stdin.
func inputArg(args []string) string {
	if len(args) == 0 {
		return stdinInput
	}
	return args[0]
}
