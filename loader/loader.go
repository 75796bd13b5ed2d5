// Package loader supplies raw key/value assignments to a detour store.
//
// Loaders parse external sources (JSON, YAML, TOML files, environment
// variables, command-line flags) into flat maps of parameter keys to
// values. The core never parses a container format itself; everything in
// this package sits on the inbound side of that boundary.
package loader

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/dshills/detour"
)

// Loader is the interface for assignment sources.
type Loader interface {
	// Load reads the source and returns parameter assignments.
	// A missing source returns an empty map, not an error.
	Load() (map[string]detour.Value, error)
}

// FileLoader is the interface for loaders that read from files.
type FileLoader interface {
	Loader
	// LoadFrom reads assignments from a specific path.
	LoadFrom(path string) (map[string]detour.Value, error)
}

// ReaderLoader is the interface for loaders that read from io.Reader.
type ReaderLoader interface {
	// LoadFromReader reads assignments from a reader.
	LoadFromReader(r io.Reader) (map[string]detour.Value, error)
}

// FileSystem is an abstraction for file system operations.
// This allows for easy testing with in-memory file systems.
type FileSystem interface {
	fs.FS
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
	// Stat returns file info for path.
	Stat(path string) (fs.FileInfo, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// Open implements fs.FS.
func (OSFS) Open(name string) (fs.File, error) {
	return os.Open(name)
}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Stat returns file info for path.
func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// DefaultFS returns the default file system (OS).
func DefaultFS() FileSystem {
	return OSFS{}
}

// Populate applies loaders to a store in order. Later loaders overwrite
// keys set by earlier ones. A key unknown to the store's registry fails
// the whole call; sources may only assign defined parameters.
func Populate(s *detour.Store, loaders ...Loader) error {
	for _, l := range loaders {
		assignments, err := l.Load()
		if err != nil {
			return err
		}

		keys := make([]string, 0, len(assignments))
		for key := range assignments {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			if err := s.Set(key, assignments[key]); err != nil {
				return fmt.Errorf("apply %q: %w", key, err)
			}
		}
	}
	return nil
}

// flattenAny walks a decoded document, joining nested map keys with dots
// and converting leaves to values. Nil leaves are dropped; no parameter
// is ever assigned an explicit null.
func flattenAny(prefix string, data map[string]any, out map[string]detour.Value) error {
	for key, val := range data {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}

		switch v := val.(type) {
		case nil:
			continue
		case map[string]any:
			if err := flattenAny(full, v, out); err != nil {
				return err
			}
		default:
			value, err := detour.FromAny(v)
			if err != nil {
				return fmt.Errorf("key %q: %w", full, err)
			}
			if !value.Exists() {
				continue
			}
			out[full] = value
		}
	}
	return nil
}

// parseScalar sniffs a raw string into a typed value: booleans, base-10
// integers, decimal-pointed floats, then string. Used by the environment
// and flag loaders, which only ever see text.
func parseScalar(s string) detour.Value {
	switch strings.ToLower(s) {
	case "true":
		return detour.Bool(true)
	case "false":
		return detour.Bool(false)
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return detour.Int(i)
	}

	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return detour.Float(f)
		}
	}

	return detour.String(s)
}
