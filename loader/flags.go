package loader

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/dshills/detour"
)

// FlagLoader loads assignments from command-line arguments. Every
// parameter in the registry is exposed as a --key string flag; only
// flags the caller actually passed produce assignments, so unset flags
// never mask lower-priority sources.
type FlagLoader struct {
	registry *detour.Registry
	args     []string
}

// NewFlagLoader creates a loader for the given registry and argument
// list (typically os.Args[1:]).
func NewFlagLoader(registry *detour.Registry, args []string) *FlagLoader {
	return &FlagLoader{
		registry: registry,
		args:     args,
	}
}

// Load parses the arguments and returns parameter assignments.
// Unknown flags are a parse error.
func (l *FlagLoader) Load() (map[string]detour.Value, error) {
	fs := pflag.NewFlagSet("detour", pflag.ContinueOnError)
	// Flag names are folded to lower case; parameter identity is
	// case-insensitive anyway.
	for _, p := range l.registry.All() {
		fs.String(strings.ToLower(p.Key()), "", "")
	}

	if err := fs.Parse(l.args); err != nil {
		return nil, err
	}

	out := make(map[string]detour.Value)
	fs.Visit(func(f *pflag.Flag) {
		out[f.Name] = parseEnvValue(f.Value.String())
	})
	return out, nil
}
