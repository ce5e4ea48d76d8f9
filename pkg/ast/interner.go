package ast

import "github.com/quill-lang/quill-scope/pkg/scope"

// Interner hands back a canonical *string for a given piece of source
// text, so that two occurrences of the same identifier text produce
// pointer-equal scope.Name values (spec.md §3: "pointer equality on
// interned strings is authoritative"). It is not safe for concurrent
// use, matching the scope package's single-threaded model (spec.md §5).
type Interner struct {
	table map[string]*string
}

func NewInterner() *Interner {
	return &Interner{table: make(map[string]*string)}
}

// Intern returns the canonical scope.Name for s, minting one on first
// use.
func (in *Interner) Intern(s string) scope.Name {
	if p, ok := in.table[s]; ok {
		return p
	}
	cp := s
	in.table[s] = &cp
	return &cp
}

// Len reports how many distinct strings have been interned.
func (in *Interner) Len() int { return len(in.table) }
