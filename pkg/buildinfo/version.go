// Package buildinfo reports which pyimporttime build is running.
//
// Release builds stamp the variables with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/pyimporttime/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/pyimporttime/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/pyimporttime/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Binaries installed with go install carry no ldflags; for those the module
// version and VCS stamp embedded by the toolchain are used instead.
package buildinfo

import (
	"fmt"
	"runtime/debug"
	"sync"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var fromModule sync.Once

// fill copies the toolchain's build metadata into the variables that were not
// set with ldflags.
func fill() {
	fromModule.Do(func() {
		info, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}
		if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
			Version = info.Main.Version
		}
		for _, s := range info.Settings {
			switch {
			case s.Key == "vcs.revision" && Commit == "none":
				Commit = s.Value
			case s.Key == "vcs.time" && Date == "unknown":
				Date = s.Value
			}
		}
	})
}

// String returns the build information shown by `pyimporttime version`.
func String() string {
	fill()
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template is cobra's --version template.
func Template() string {
	fill()
	return fmt.Sprintf("{{.Name}} %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}

// CacheScope returns the key prefix that separates cached layouts and
// artifacts of different builds. Development builds include the commit so
// renderer changes never serve stale output.
func CacheScope() string {
	fill()
	if Version == "dev" {
		return "dev-" + Commit + ":"
	}
	return Version + ":"
}
