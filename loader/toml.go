package loader

import (
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/detour"
)

// TOMLLoader loads assignments from TOML files. Tables are flattened into
// dot-separated keys.
type TOMLLoader struct {
	fs   FileSystem
	path string
}

// NewTOMLLoader creates a new TOML loader for the given path.
func NewTOMLLoader(path string) *TOMLLoader {
	return &TOMLLoader{
		fs:   DefaultFS(),
		path: path,
	}
}

// NewTOMLLoaderWithFS creates a TOML loader with a custom file system.
func NewTOMLLoaderWithFS(fs FileSystem, path string) *TOMLLoader {
	return &TOMLLoader{
		fs:   fs,
		path: path,
	}
}

// Load reads assignments from the configured path.
func (l *TOMLLoader) Load() (map[string]detour.Value, error) {
	return l.LoadFrom(l.path)
}

// LoadFrom reads assignments from a specific path.
// A missing file yields an empty map.
func (l *TOMLLoader) LoadFrom(path string) (map[string]detour.Value, error) {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]detour.Value{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	out, err := parseTOML(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return out, nil
}

// LoadFromReader reads assignments from a reader.
func (l *TOMLLoader) LoadFromReader(r io.Reader) (map[string]detour.Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return parseTOML(data)
}

func parseTOML(data []byte) (map[string]detour.Value, error) {
	out := make(map[string]detour.Value)
	if len(data) == 0 {
		return out, nil
	}

	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	if err := flattenAny("", doc, out); err != nil {
		return nil, err
	}
	return out, nil
}
