package detour

// Clone creates an independent copy of the store. The registry is shared;
// the explicit assignments are structurally copied.
func (s *Store) Clone() *Store {
	clone := &Store{
		registry: s.registry,
		values:   make(map[*Param]Value, len(s.values)),
	}
	for p, v := range s.values {
		clone.values[p] = v.clone()
	}
	return clone
}

// Merge combines this store and another into a new store. Assignments in
// other supersede assignments in this store; keys set only in one operand
// carry over. Neither operand is mutated, and the result shares no
// mutable state with either. Both stores must be backed by the same
// registry; the receiver's registry backs the result.
func (s *Store) Merge(other *Store) *Store {
	merged := s.Clone()
	for p, v := range other.values {
		if !v.Exists() {
			continue
		}
		merged.values[p] = v.clone()
	}
	return merged
}
