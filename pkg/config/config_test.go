package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/pyimporttime/pkg/errors"
	"github.com/matzehuels/pyimporttime/pkg/pipeline"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
		want    Config
	}{
		{
			name: "toml",
			file: ".pyimporttime.toml",
			content: `width = 1600
row-height = 18
precision = 2
style = "heat"
formats = ["svg", "json"]
interactive = true
`,
			want: Config{Width: 1600, RowHeight: 18, Precision: intPtr(2), Style: "heat", Formats: []string{"svg", "json"}, Interactive: boolPtr(true)},
		},
		{
			name: "yaml",
			file: ".pyimporttime.yaml",
			content: `python: python3.12
type: nodelink
min-percent: 1.5
`,
			want: Config{Python: "python3.12", VizType: "nodelink", MinPercent: 1.5},
		},
		{
			name: "pyproject",
			file: "pyproject.toml",
			content: `[project]
name = "demo"

[tool.ruff]
line-length = 100

[tool.pyimporttime]
title = "demo startup"
scale = 3
`,
			want: Config{Title: "demo startup", Scale: 3},
		},
		{
			name:    "empty yaml",
			file:    "empty.yml",
			content: "# nothing here\n",
			want:    Config{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := filepath.Join(dir, tt.name)
			if err := os.MkdirAll(sub, 0o755); err != nil {
				t.Fatal(err)
			}
			path := writeFile(t, sub, tt.file, tt.content)

			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			tt.want.Path = path
			if diff := cmp.Diff(&tt.want, got); diff != "" {
				t.Errorf("Load() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"bad toml", "a.toml", "width = \n"},
		{"unknown toml key", "b.toml", "colour = \"red\"\n"},
		{"unknown yaml key", "c.yaml", "colour: red\n"},
		{"unknown pyproject key", "pyproject.toml", "[tool.pyimporttime]\nwidht = 10\n"},
		{"bad style", "d.toml", "style = \"neon\"\n"},
		{"bad format", "e.yaml", "formats: [gif]\n"},
		{"negative width", "f.toml", "width = -1\n"},
		{"precision", "g.toml", "precision = 12\n"},
		{"unsupported", "h.ini", "width=1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.file, tt.content)
			_, err := Load(path)
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Load() error = %v, want %s", err, errors.ErrCodeInvalidConfig)
			}
		})
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Load() missing file error = %v", err)
	}
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	project := filepath.Join(root, "project")
	nested := filepath.Join(project, "src", "pkg")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	// A pyproject.toml without the table does not count.
	writeFile(t, project, "pyproject.toml", "[project]\nname = \"demo\"\n")
	got, err := Discover(nested)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if got != "" {
		t.Errorf("Discover() = %q, want no config", got)
	}

	want := writeFile(t, project, "pyproject.toml", "[tool.pyimporttime]\nwidth = 900\n")
	if got, _ := Discover(nested); got != want {
		t.Errorf("Discover() = %q, want %q", got, want)
	}

	// Dedicated files win over pyproject.toml in the same directory.
	want = writeFile(t, project, ".pyimporttime.yaml", "width: 800\n")
	if got, _ := Discover(nested); got != want {
		t.Errorf("Discover() = %q, want %q", got, want)
	}

	// The nearest directory wins.
	want = writeFile(t, nested, ".pyimporttime.toml", "width = 700\n")
	if got, _ := Discover(nested); got != want {
		t.Errorf("Discover() = %q, want %q", got, want)
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()

	c, err := Resolve("", dir)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if c.Path != "" {
		t.Errorf("Resolve() without files Path = %q, want empty", c.Path)
	}

	explicit := writeFile(t, dir, "custom.toml", "width = 640\n")
	c, err = Resolve(explicit, dir)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if c.Width != 640 {
		t.Errorf("Resolve() Width = %v, want 640", c.Width)
	}
}

func TestApply(t *testing.T) {
	c := &Config{
		VizType:     "nodelink",
		Width:       1600,
		Precision:   intPtr(0),
		Style:       "heat",
		Formats:     []string{"svg"},
		Interactive: boolPtr(true),
	}

	opts := pipeline.Options{Width: 900, Style: "package"}
	changed := map[string]bool{"width": true}
	c.Apply(&opts, func(flag string) bool { return changed[flag] })

	if opts.Width != 900 {
		t.Errorf("Width = %v, want flag value 900", opts.Width)
	}
	if opts.Style != "heat" {
		t.Errorf("Style = %q, want config value heat", opts.Style)
	}
	if opts.VizType != "nodelink" {
		t.Errorf("VizType = %q, want nodelink", opts.VizType)
	}
	if opts.Precision != pipeline.PrecisionWhole {
		t.Errorf("Precision = %d, want PrecisionWhole", opts.Precision)
	}
	if !opts.Interactive {
		t.Error("Interactive = false, want true")
	}
	if diff := cmp.Diff([]string{"svg"}, opts.Formats); diff != "" {
		t.Errorf("Formats mismatch (-want +got):\n%s", diff)
	}

	// Unset config values leave options alone.
	empty := &Config{}
	before := pipeline.Options{Width: 500, Title: "x"}
	after := before
	empty.Apply(&after, nil)
	if after.Width != before.Width || after.Title != before.Title {
		t.Errorf("Apply() with empty config changed options: %+v", after)
	}
}
