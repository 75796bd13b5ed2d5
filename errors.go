package detour

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAbsentValue is returned when an absent Value is assigned to a store.
var ErrAbsentValue = errors.New("cannot store an absent value")

// DuplicateParamError is returned when a parameter is defined under a key
// that is already registered, compared case-insensitively.
type DuplicateParamError struct {
	// Key is the conflicting key as given to Define.
	Key string
}

// Error implements the error interface.
func (e *DuplicateParamError) Error() string {
	return fmt.Sprintf("parameter %q is already defined", e.Key)
}

// UnresolvedParamError is returned when a key is unknown to the registry
// or resolution produced no value.
type UnresolvedParamError struct {
	// Key is the key that failed to resolve. May be empty if the caller
	// supplied an empty key.
	Key string
}

// Error implements the error interface.
func (e *UnresolvedParamError) Error() string {
	if e.Key == "" {
		return "no parameter key was provided"
	}
	return fmt.Sprintf("parameter %q is undefined or has no value", e.Key)
}

// TypeError is returned by typed accessors when the resolved value cannot
// be converted to the requested type.
type TypeError struct {
	// Key is the parameter whose value failed to convert.
	Key string

	// Expected describes the requested type.
	Expected string

	// Actual describes the resolved value or its kind.
	Actual string
}

// Error implements the error interface.
func (e *TypeError) Error() string {
	return fmt.Sprintf("parameter %q: expected %s, got %s", e.Key, e.Expected, e.Actual)
}

// CycleError is returned when following a detour chain revisits a
// parameter already seen during the same resolution call.
type CycleError struct {
	// Key is the parameter at which the cycle was detected.
	Key string

	// Chain lists the keys visited, in order, up to the repeat.
	Chain []string
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	if len(e.Chain) == 0 {
		return fmt.Sprintf("parameter %q: detour cycle", e.Key)
	}
	return fmt.Sprintf("parameter %q: detour cycle: %s", e.Key, strings.Join(e.Chain, " -> "))
}
