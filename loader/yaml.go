package loader

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/dshills/detour"
)

// YAMLLoader loads assignments from YAML files. Nested mappings are
// flattened into dot-separated keys.
type YAMLLoader struct {
	fs   FileSystem
	path string
}

// NewYAMLLoader creates a new YAML loader for the given path.
func NewYAMLLoader(path string) *YAMLLoader {
	return &YAMLLoader{
		fs:   DefaultFS(),
		path: path,
	}
}

// NewYAMLLoaderWithFS creates a YAML loader with a custom file system.
func NewYAMLLoaderWithFS(fs FileSystem, path string) *YAMLLoader {
	return &YAMLLoader{
		fs:   fs,
		path: path,
	}
}

// Load reads assignments from the configured path.
func (l *YAMLLoader) Load() (map[string]detour.Value, error) {
	return l.LoadFrom(l.path)
}

// LoadFrom reads assignments from a specific path.
// A missing file yields an empty map.
func (l *YAMLLoader) LoadFrom(path string) (map[string]detour.Value, error) {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]detour.Value{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	out, err := parseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return out, nil
}

// LoadFromReader reads assignments from a reader.
func (l *YAMLLoader) LoadFromReader(r io.Reader) (map[string]detour.Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return parseYAML(data)
}

func parseYAML(data []byte) (map[string]detour.Value, error) {
	out := make(map[string]detour.Value)
	if len(data) == 0 {
		return out, nil
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	if err := flattenAny("", doc, out); err != nil {
		return nil, err
	}
	return out, nil
}
