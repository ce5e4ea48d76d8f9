// Package scope implements the scope analysis core of an ECMAScript-family
// source compiler: it resolves every identifier reference in a parsed
// program tree to a concrete Variable and classifies that Variable's
// storage class, producing per-scope allocation plans for a later code
// generator.
//
// The package is single-threaded: one *Scope tree belongs to one
// compilation unit, analyzed by one goroutine, with no synchronization
// inside the package. Scopes and Variables are meant to be arena-owned
// by the caller; this package never frees them individually.
package scope

// Name is an interned identifier: two identifiers denote the same
// binding iff their Name values are pointer-equal. Interning itself is
// the parser's responsibility (an external collaborator, out of scope
// for this package) -- Name is simply the pointer type that collaborator
// is expected to hand back consistently for the same source text. See
// pkg/ast.Interner for the reference interner used by cmd/quill-scope.
type Name = *string
