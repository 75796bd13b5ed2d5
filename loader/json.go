package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/dshills/detour"
)

// JSONLoader loads assignments from JSON object files. Nested objects are
// flattened into dot-separated keys; arrays become array values.
type JSONLoader struct {
	fs   FileSystem
	path string
}

// NewJSONLoader creates a new JSON loader for the given path.
func NewJSONLoader(path string) *JSONLoader {
	return &JSONLoader{
		fs:   DefaultFS(),
		path: path,
	}
}

// NewJSONLoaderWithFS creates a JSON loader with a custom file system.
func NewJSONLoaderWithFS(fs FileSystem, path string) *JSONLoader {
	return &JSONLoader{
		fs:   fs,
		path: path,
	}
}

// Load reads assignments from the configured path.
func (l *JSONLoader) Load() (map[string]detour.Value, error) {
	return l.LoadFrom(l.path)
}

// LoadFrom reads assignments from a specific path.
// A missing file yields an empty map.
func (l *JSONLoader) LoadFrom(path string) (map[string]detour.Value, error) {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]detour.Value{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	out, err := parseJSON(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return out, nil
}

// LoadFromReader reads assignments from a reader.
func (l *JSONLoader) LoadFromReader(r io.Reader) (map[string]detour.Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return parseJSON(data)
}

func parseJSON(data []byte) (map[string]detour.Value, error) {
	out := make(map[string]detour.Value)
	if len(bytes.TrimSpace(data)) == 0 {
		return out, nil
	}

	if !gjson.ValidBytes(data) {
		return nil, errors.New("invalid JSON")
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, errors.New("top-level JSON value must be an object")
	}

	if err := flattenResult("", root, out); err != nil {
		return nil, err
	}
	return out, nil
}

// flattenResult walks a JSON object, joining nested keys with dots.
// Null members are dropped.
func flattenResult(prefix string, obj gjson.Result, out map[string]detour.Value) error {
	var walkErr error
	obj.ForEach(func(key, val gjson.Result) bool {
		full := key.String()
		if prefix != "" {
			full = prefix + "." + full
		}

		if val.IsObject() {
			if err := flattenResult(full, val, out); err != nil {
				walkErr = err
				return false
			}
			return true
		}

		if val.Type == gjson.Null {
			return true
		}

		v, err := valueFromResult(val)
		if err != nil {
			walkErr = fmt.Errorf("key %q: %w", full, err)
			return false
		}
		out[full] = v
		return true
	})
	return walkErr
}

// valueFromResult converts a gjson scalar or array into a value. Null
// array elements are preserved as absent elements.
func valueFromResult(res gjson.Result) (detour.Value, error) {
	switch {
	case res.Type == gjson.String:
		return detour.String(res.Str), nil
	case res.Type == gjson.True:
		return detour.Bool(true), nil
	case res.Type == gjson.False:
		return detour.Bool(false), nil
	case res.Type == gjson.Number:
		if i, err := strconv.ParseInt(res.Raw, 10, 64); err == nil {
			return detour.Int(i), nil
		}
		return detour.Float(res.Num), nil
	case res.IsArray():
		var elems []detour.Value
		var elemErr error
		res.ForEach(func(_, item gjson.Result) bool {
			if item.Type == gjson.Null {
				elems = append(elems, detour.Value{})
				return true
			}
			v, err := valueFromResult(item)
			if err != nil {
				elemErr = err
				return false
			}
			elems = append(elems, v)
			return true
		})
		if elemErr != nil {
			return detour.Value{}, elemErr
		}
		return detour.Array(elems...), nil
	default:
		return detour.Value{}, fmt.Errorf("unsupported JSON value %s", res.Raw)
	}
}
