package loader

import (
	"os"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/dshills/detour"
)

func environ() []string {
	return os.Environ()
}

// EnvLoader loads assignments from environment variables.
type EnvLoader struct {
	prefix  string            // Variable prefix (e.g., "MYAPP_")
	mapping map[string]string // Variable name -> parameter key
	environ func() []string
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore (e.g., "MYAPP_").
// Variables are matched by prefix; MYAPP_DB_HOST becomes the parameter
// key "db.host".
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: make(map[string]string),
		environ: environ,
	}
}

// NewEnvLoaderWithMapping creates a loader with explicit variable-to-key
// mappings in addition to the prefix convention.
func NewEnvLoaderWithMapping(prefix string, mapping map[string]string) *EnvLoader {
	l := NewEnvLoader(prefix)
	for env, key := range mapping {
		l.mapping[env] = key
	}
	return l
}

// AddMapping maps an environment variable to a parameter key.
func (l *EnvLoader) AddMapping(envVar, key string) {
	l.mapping[envVar] = key
}

// RemoveMapping removes an environment variable mapping.
func (l *EnvLoader) RemoveMapping(envVar string) {
	delete(l.mapping, envVar)
}

// Load reads the environment and returns parameter assignments.
// Note: empty string values are valid assignments, not unset.
func (l *EnvLoader) Load() (map[string]detour.Value, error) {
	out := make(map[string]detour.Value)

	for _, env := range l.environ() {
		name, raw, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}

		if key, mapped := l.mapping[name]; mapped {
			out[key] = parseEnvValue(raw)
			continue
		}

		if l.prefix == "" || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		out[l.envToKey(name)] = parseEnvValue(raw)
	}

	return out, nil
}

// envToKey converts MYAPP_DB_HOST to db.host.
func (l *EnvLoader) envToKey(name string) string {
	trimmed := strings.TrimPrefix(name, l.prefix)
	return strings.ToLower(strings.ReplaceAll(trimmed, "_", "."))
}

// parseEnvValue sniffs a raw environment string into a typed value.
// JSON array syntax produces array values.
func parseEnvValue(raw string) detour.Value {
	if strings.HasPrefix(raw, "[") && gjson.Valid(raw) {
		res := gjson.Parse(raw)
		if res.IsArray() {
			if v, err := valueFromResult(res); err == nil {
				return v
			}
		}
	}
	return parseScalar(raw)
}
