package scope

import "fmt"

// ErrorKind distinguishes the three structured error conditions the
// core can surface (spec.md §7). No message strings are part of the
// contract; callers switch on Kind and format their own diagnostics.
type ErrorKind uint8

const (
	// Redeclaration: conflicting lexical/VAR declarations in the same
	// or an enclosing scope, subject to the web-compat carve-out.
	Redeclaration ErrorKind = iota
	// InvalidMode: API misuse -- a caller passed a mode incompatible
	// with the entry point it called. Indicates a bug in the parser.
	InvalidMode
	// NativeUnbound: an identifier in a native script failed to
	// resolve to a local/parameter/context/unallocated binding and
	// would have escaped to the global object.
	NativeUnbound
)

func (k ErrorKind) String() string {
	switch k {
	case Redeclaration:
		return "redeclaration"
	case InvalidMode:
		return "invalid-mode"
	case NativeUnbound:
		return "native-unbound"
	default:
		return "error?"
	}
}

// Error is the single structured error type this package returns.
// Declaration conflicts (Redeclaration) are ordinary reported outcomes
// the parser is meant to turn into a diagnostic at Node's position;
// InvalidMode and NativeUnbound indicate a structural invariant was
// violated and are meant to abort compilation (spec.md §7).
type Error struct {
	Kind ErrorKind
	Name Name
	// Node carries whatever position-bearing value the caller supplied
	// (a declaration, a proxy, ...) for diagnostic reporting. This
	// package never inspects it; source positions belong to the
	// parser (spec.md §1: "Error reporting surfaces... are external").
	Node any
}

func (e *Error) Error() string {
	if e.Name != nil {
		return fmt.Sprintf("scope: %s: %s", e.Kind, *e.Name)
	}
	return fmt.Sprintf("scope: %s", e.Kind)
}

func newError(kind ErrorKind, name Name, node any) *Error {
	return &Error{Kind: kind, Name: name, Node: node}
}
