package config

import (
	"bytes"
	stderrors "errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format decodes one kind of configuration file.
type Format interface {
	Name() string
	// Match reports whether the file name belongs to this format.
	Match(name string) bool
	// Decode fills c from data. found is false when the file holds no
	// pyimporttime settings at all (a pyproject.toml without the table).
	Decode(data []byte, c *Config) (found bool, err error)
}

// Formats lists the supported formats in lookup order.
var Formats = []Format{TOMLFormat{}, YAMLFormat{}, PyprojectFormat{}}

// TOMLFormat reads .pyimporttime.toml files.
type TOMLFormat struct{}

func (TOMLFormat) Name() string { return "toml" }

func (TOMLFormat) Match(name string) bool {
	return filepath.Ext(name) == ".toml" && filepath.Base(name) != PyprojectFile
}

func (TOMLFormat) Decode(data []byte, c *Config) (bool, error) {
	md, err := toml.Decode(string(data), c)
	if err != nil {
		return false, err
	}
	return true, undecoded(md.Undecoded())
}

// YAMLFormat reads .pyimporttime.yaml and .yml files.
type YAMLFormat struct{}

func (YAMLFormat) Name() string { return "yaml" }

func (YAMLFormat) Match(name string) bool {
	ext := filepath.Ext(name)
	return ext == ".yaml" || ext == ".yml"
}

func (YAMLFormat) Decode(data []byte, c *Config) (bool, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !stderrors.Is(err, io.EOF) {
		return true, err
	}
	return true, nil
}

// PyprojectFormat reads the [tool.pyimporttime] table of pyproject.toml.
type PyprojectFormat struct{}

func (PyprojectFormat) Name() string { return "pyproject" }

func (PyprojectFormat) Match(name string) bool { return filepath.Base(name) == PyprojectFile }

func (PyprojectFormat) Decode(data []byte, c *Config) (bool, error) {
	var doc struct {
		Tool struct {
			PyImportTime toml.Primitive `toml:"pyimporttime"`
		} `toml:"tool"`
	}
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return false, err
	}
	if !md.IsDefined("tool", "pyimporttime") {
		return false, nil
	}
	if err := md.PrimitiveDecode(doc.Tool.PyImportTime, c); err != nil {
		return true, err
	}

	var unknown []toml.Key
	for _, k := range md.Undecoded() {
		if len(k) > 2 && k[0] == "tool" && k[1] == "pyimporttime" {
			unknown = append(unknown, k[2:])
		}
	}
	return true, undecoded(unknown)
}

func undecoded(keys []toml.Key) error {
	if len(keys) == 0 {
		return nil
	}
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	return &unknownKeysError{keys: names}
}

type unknownKeysError struct{ keys []string }

func (e *unknownKeysError) Error() string {
	return "unknown keys: " + strings.Join(e.keys, ", ")
}
