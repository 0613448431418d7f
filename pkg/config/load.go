package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/matzehuels/pyimporttime/pkg/errors"
)

// PyprojectFile is the standard Python project metadata file.
const PyprojectFile = "pyproject.toml"

// Candidates are the file names Discover looks for in each directory,
// in order of preference.
var Candidates = []string{
	".pyimporttime.toml",
	".pyimporttime.yaml",
	".pyimporttime.yml",
	PyprojectFile,
}

// Load reads the configuration file at path. The format is chosen by file name.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
	}

	c, found, err := decode(path, data)
	if err != nil {
		return nil, err
	}
	if !found {
		return &Config{Path: path}, nil
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func decode(path string, data []byte) (*Config, bool, error) {
	for _, f := range Formats {
		if !f.Match(path) {
			continue
		}
		c := &Config{Path: path}
		found, err := f.Decode(data, c)
		if err != nil {
			return nil, false, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", path)
		}
		return c, found, nil
	}
	return nil, false, errors.New(errors.ErrCodeInvalidConfig, "%s: unsupported config format", path)
}

// Discover walks from dir up to the filesystem root and returns the first
// configuration file that holds pyimporttime settings. A pyproject.toml
// without a [tool.pyimporttime] table is skipped. Returns "" when nothing
// is found.
func Discover(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for {
		for _, name := range Candidates {
			path := filepath.Join(dir, name)
			data, err := os.ReadFile(path)
			if stderrors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				return "", errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
			}
			if name == PyprojectFile {
				if _, found, _ := decode(path, data); !found {
					continue
				}
			}
			return path, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Resolve loads the file at path, or the discovered file when path is
// empty. Without any file it returns an empty Config.
func Resolve(path, dir string) (*Config, error) {
	if path == "" {
		found, err := Discover(dir)
		if err != nil {
			return nil, err
		}
		if found == "" {
			return &Config{}, nil
		}
		path = found
	}
	return Load(path)
}
