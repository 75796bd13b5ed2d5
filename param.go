package detour

// DetourKind identifies the variant of a parameter's fallback.
type DetourKind uint8

const (
	// DetourNone indicates the parameter has no fallback.
	DetourNone DetourKind = iota
	// DetourLiteral indicates the fallback is a literal default value.
	DetourLiteral
	// DetourRef indicates the fallback is another parameter, named by key.
	DetourRef
)

// String returns the detour kind name.
func (k DetourKind) String() string {
	switch k {
	case DetourNone:
		return "none"
	case DetourLiteral:
		return "literal"
	case DetourRef:
		return "reference"
	default:
		return "unknown"
	}
}

// Detour is a parameter's fallback target: nothing, a literal default,
// or a reference to another parameter that resolution chains into.
type Detour struct {
	kind    DetourKind
	literal Value
	ref     string
}

// Kind returns the detour variant.
func (d Detour) Kind() DetourKind {
	return d.kind
}

// Literal returns the literal default value. It is the absent Value
// unless the kind is DetourLiteral.
func (d Detour) Literal() Value {
	return d.literal
}

// Ref returns the key of the referenced parameter, or "" unless the
// kind is DetourRef.
func (d Detour) Ref() string {
	return d.ref
}

// Param is a named configuration parameter. Identity is the
// case-insensitive key; the optional detour supplies a fallback when no
// explicit value has been assigned. Params are immutable once created.
type Param struct {
	key    string
	detour Detour
}

// NewParam creates a parameter with no fallback.
func NewParam(key string) *Param {
	return &Param{key: key}
}

// NewParamDefault creates a parameter whose fallback is a literal
// default value.
func NewParamDefault(key string, def Value) *Param {
	return &Param{key: key, detour: Detour{kind: DetourLiteral, literal: def}}
}

// NewParamRef creates a parameter whose fallback chains into the
// parameter registered under target.
func NewParamRef(key, target string) *Param {
	return &Param{key: key, detour: Detour{kind: DetourRef, ref: target}}
}

// Key returns the parameter's key as given at construction.
func (p *Param) Key() string {
	return p.key
}

// Detour returns the parameter's fallback target.
func (p *Param) Detour() Detour {
	return p.detour
}

// String returns the parameter's key.
func (p *Param) String() string {
	return p.key
}
