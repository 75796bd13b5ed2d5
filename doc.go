// Package detour resolves named configuration parameters to typed values.
//
// Parameters are defined once against a Registry under case-insensitive
// keys. A parameter may carry a detour: a fallback that is either a
// literal default or a reference to another parameter. A Store holds the
// explicit assignments for one registry and resolves a parameter by
// checking its explicit value first, then following the detour chain.
// Stores merge into new, independent stores with the overlay's
// assignments taking precedence.
//
// Raw assignments typically come from the loader subpackage (JSON, YAML,
// TOML, environment, command-line flags); the stack subpackage layers
// several such sources with priority ordering and live reload.
package detour
