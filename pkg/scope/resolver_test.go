package scope

import "testing"

func TestResolveIsIdempotentWhenAlreadyBound(t *testing.T) {
	s := NewDeclarationScope(FunctionType, Sloppy, NormalFunction)
	xName := intern("x")
	xv, _, err := s.DeclareVariable(xName, Var, CreatedInitialized, Normal, false, false, false, false, nil)
	if err != nil {
		t.Fatalf("declare x: %v", err)
	}
	p := NewProxy(xName)
	s.Resolve(p)
	if p.Variable() != xv {
		t.Fatalf("expected p to resolve to xv")
	}

	other := NewVariable(intern("x"), Var, Normal, CreatedInitialized, false, nil)
	_ = other
	s.Resolve(p) // second call must be a no-op, not attempt to rebind
	if p.Variable() != xv {
		t.Fatal("second Resolve call must not change an already-bound proxy")
	}
}

func TestFreeUndeclaredGlobalBindsDynamicGlobal(t *testing.T) {
	script := NewDeclarationScope(Script, Sloppy, NotAFunction)
	p := NewProxy(intern("neverDeclared"))
	script.AddUnresolved(p)
	script.ResolveVariablesRecursively()

	if !p.IsBound() {
		t.Fatal("expected resolution at the script scope boundary")
	}
	if p.Variable().Mode() != DynamicGlobal {
		t.Fatalf("expected DYNAMIC_GLOBAL at the outer boundary, got %v", p.Variable().Mode())
	}
}

// Property 5 (with-scope opacity): every reference resolved through a
// WITH scope binds to location=LOOKUP, mode=DYNAMIC.
func TestWithReferenceIsLookupDynamic(t *testing.T) {
	script := NewDeclarationScope(Script, Sloppy, NotAFunction)
	withScope := NewScope(With, Sloppy)
	script.AddInner(withScope)

	p := NewProxy(intern("a"))
	withScope.AddUnresolved(p)
	withScope.ResolveVariablesRecursively()

	if !p.IsBound() {
		t.Fatal("expected resolution")
	}
	v := p.Variable()
	if v.Mode() != Dynamic {
		t.Fatalf("expected DYNAMIC, got %v", v.Mode())
	}
	if v.Location() != LocLookup() {
		t.Fatalf("expected LOOKUP, got %v", v.Location())
	}
}

func TestFetchFreeVariablesClearsUnresolvedRegardlessOfOutcome(t *testing.T) {
	// outer_end is excluded from the search (spec.md §4.D rule 4 checks
	// the boundary before ever visiting outer_end itself), so x must
	// live strictly between inner and maxOuter for this to find it.
	maxOuter := NewDeclarationScope(FunctionType, Sloppy, NormalFunction)
	outer := NewDeclarationScope(FunctionType, Sloppy, NormalFunction)
	maxOuter.AddInner(outer)
	xName := intern("x")
	xv, _, err := outer.DeclareVariable(xName, Var, CreatedInitialized, Normal, false, false, false, false, nil)
	if err != nil {
		t.Fatalf("declare x: %v", err)
	}
	inner := NewDeclarationScope(FunctionType, Sloppy, NormalFunction)
	outer.AddInner(inner)

	hit := NewProxy(xName)
	miss := NewProxy(intern("neverDeclaredAnywhere"))
	inner.AddUnresolved(hit)
	inner.AddUnresolved(miss)

	free := inner.FetchFreeVariables(maxOuter)

	if inner.unresolved != nil {
		t.Fatal("expected unresolved to be cleared regardless of resolution outcome")
	}
	if !hit.IsBound() || hit.Variable() != xv {
		t.Fatal("expected x to resolve within maxOuter's chain")
	}
	if free == nil {
		t.Fatal("expected the unresolvable proxy to come back as free")
	}
	found := false
	for p := free; p != nil; p = p.next {
		if p == miss {
			found = true
		}
	}
	if !found {
		t.Fatal("expected miss to be in the returned free list")
	}
}
