package cli

import (
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/google/uuid"

	"github.com/matzehuels/pyimporttime/pkg/errors"
	"github.com/matzehuels/pyimporttime/pkg/pipeline"
)

// defaultBase names the outputs of traces read from stdin.
const defaultBase = "importtime"

// basePath derives the base output path (without extension).
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .html, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		if input == "" || input == stdinInput {
			return defaultBase
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// tempBase returns a unique base path in the system temp directory.
func tempBase() string {
	return filepath.Join(os.TempDir(), appName+"-"+uuid.NewString())
}

// outputPaths maps each format to the file it is written to. A single format
// with an explicit output is written to exactly that path.
func outputPaths(formats []string, output, base string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// writeArtifacts writes every artifact to its path and returns the written
// paths in format order.
func writeArtifacts(artifacts map[string][]byte, paths map[string]string) ([]string, error) {
	written := make([]string, 0, len(artifacts))
	for _, f := range sortedFormats(artifacts) {
		path, ok := paths[f]
		if !ok {
			continue
		}
		if err := writeFile(path, artifacts[f]); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func writeFile(path string, data []byte) error {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}
	return nil
}

// openBrowser opens a local file with the platform's default handler.
// It is a variable so tests can observe calls without spawning a browser.
var openBrowser = func(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	target := (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", target)
	case "linux", "freebsd", "openbsd":
		cmd = exec.Command("xdg-open", target)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", abs)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
	return cmd.Start()
}

// openHTML opens the HTML artifact if one was written, warning on failure.
func openHTML(paths map[string]string) {
	path, ok := paths[pipeline.FormatHTML]
	if !ok {
		return
	}
	if err := openBrowser(path); err != nil {
		printWarning("could not open browser: %v", err)
	}
}
