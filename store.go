package detour

// Store holds the subset of a registry's parameters that have been
// explicitly assigned a value, and resolves parameters by consulting the
// explicit assignment first and the detour chain second.
//
// A store is associated with exactly one registry, shared by reference.
// Reads, resolution, and Merge are safe to call concurrently as long as
// no Set runs concurrently on the same store.
type Store struct {
	registry *Registry
	values   map[*Param]Value
}

// NewStore creates an empty store backed by the given registry.
func NewStore(registry *Registry) *Store {
	return &Store{
		registry: registry,
		values:   make(map[*Param]Value),
	}
}

// Registry returns the registry this store is associated with.
func (s *Store) Registry() *Registry {
	return s.registry
}

// Set assigns an explicit value to the parameter registered under key.
// The key must be known to the registry and the value must be present;
// a prior assignment is replaced.
func (s *Store) Set(key string, v Value) error {
	p, ok := s.registry.Lookup(key)
	if !ok {
		return &UnresolvedParamError{Key: key}
	}
	return s.SetParam(p, v)
}

// SetParam assigns an explicit value to a parameter.
func (s *Store) SetParam(p *Param, v Value) error {
	if !v.Exists() {
		return ErrAbsentValue
	}
	s.values[p] = v
	return nil
}

// Len returns the number of explicit assignments.
func (s *Store) Len() int {
	return len(s.values)
}

// Resolve looks up the parameter for key and resolves it. It fails with
// an UnresolvedParamError if the key is empty or unknown, or if
// resolution yields no value. A detour cycle fails with a CycleError.
func (s *Store) Resolve(key string) (Value, error) {
	p, ok := s.registry.Lookup(key)
	if !ok {
		return Value{}, &UnresolvedParamError{Key: key}
	}

	v, err := s.ResolveParam(p)
	if err != nil {
		return Value{}, err
	}
	if !v.Exists() {
		return Value{}, &UnresolvedParamError{Key: key}
	}
	return v, nil
}

// ResolveParam resolves a parameter: an explicit assignment wins,
// otherwise the detour is followed. A reference detour chains into the
// referenced parameter; a literal detour yields the literal. The absent
// Value is returned when nothing in the chain produces a value, including
// a reference to an unregistered key. Only a detour cycle is an error.
func (s *Store) ResolveParam(p *Param) (Value, error) {
	return s.resolve(p, nil, nil)
}

// resolve walks the detour chain. Chains are human-authored and short,
// but a revisit must fail rather than recurse forever.
func (s *Store) resolve(p *Param, seen map[*Param]bool, chain []string) (Value, error) {
	if v, ok := s.values[p]; ok {
		return v, nil
	}

	if seen[p] {
		return Value{}, &CycleError{Key: p.key, Chain: append(chain, p.key)}
	}

	switch d := p.detour; d.kind {
	case DetourRef:
		next, ok := s.registry.Lookup(d.ref)
		if !ok {
			return Value{}, nil
		}
		if seen == nil {
			seen = make(map[*Param]bool)
		}
		seen[p] = true
		return s.resolve(next, seen, append(chain, p.key))
	case DetourLiteral:
		return d.literal, nil
	default:
		return Value{}, nil
	}
}

// Snapshot maps every registered parameter to its currently-resolved
// value. Parameters that do not resolve, including those behind a detour
// cycle, map to the absent Value.
func (s *Store) Snapshot() map[*Param]Value {
	params := s.registry.All()
	result := make(map[*Param]Value, len(params))
	for _, p := range params {
		v, err := s.ResolveParam(p)
		if err != nil {
			v = Value{}
		}
		result[p] = v
	}
	return result
}
