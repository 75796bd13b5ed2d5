package detour

import (
	"sort"
	"strings"
	"sync"
)

// Registry maintains the universe of known parameters. Keys are unique
// under case-insensitive comparison. Registration is the only mutating
// operation; lookups are safe to call concurrently.
type Registry struct {
	mu     sync.RWMutex
	params map[string]*Param // keyed by lowercased key
}

// NewRegistry creates an empty parameter registry.
func NewRegistry() *Registry {
	return &Registry{
		params: make(map[string]*Param),
	}
}

// Define registers a parameter under its case-insensitive key.
// Returns a DuplicateParamError if the key is already registered; the
// registry is left unchanged in that case.
func (r *Registry) Define(p *Param) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	folded := strings.ToLower(p.key)
	if _, exists := r.params[folded]; exists {
		return &DuplicateParamError{Key: p.key}
	}
	r.params[folded] = p
	return nil
}

// MustDefine registers a parameter and panics on error.
// Useful for defining built-in parameters at init time.
func (r *Registry) MustDefine(p *Param) {
	if err := r.Define(p); err != nil {
		panic(err)
	}
}

// Lookup returns the parameter registered under key, compared
// case-insensitively.
func (r *Registry) Lookup(key string) (*Param, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.params[strings.ToLower(key)]
	return p, ok
}

// Has checks if a parameter is registered under key.
func (r *Registry) Has(key string) bool {
	_, ok := r.Lookup(key)
	return ok
}

// Len returns the number of registered parameters.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.params)
}

// All returns all registered parameters sorted by folded key.
func (r *Registry) All() []*Param {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Param, 0, len(r.params))
	for _, p := range r.params {
		result = append(result, p)
	}

	sort.Slice(result, func(i, j int) bool {
		return strings.ToLower(result[i].key) < strings.ToLower(result[j].key)
	})

	return result
}
