package scope

import "testing"

func TestDeclareVariableRejectsDynamicModes(t *testing.T) {
	s := NewDeclarationScope(FunctionType, Sloppy, NormalFunction)
	_, _, err := s.DeclareVariable(intern("x"), Dynamic, CreatedInitialized, Normal, false, false, false, false, nil)
	e, ok := err.(*Error)
	if !ok || e.Kind != InvalidMode {
		t.Fatalf("expected InvalidMode error, got %v", err)
	}
}

func TestDeclareVariableHoistsVarPastBlocks(t *testing.T) {
	fn := NewDeclarationScope(FunctionType, Sloppy, NormalFunction)
	block := NewScope(Block, Sloppy)
	fn.AddInner(block)
	inner := NewScope(Block, Sloppy)
	block.AddInner(inner)

	v, redef, err := inner.DeclareVariable(intern("x"), Var, CreatedInitialized, Normal, false, false, false, false, nil)
	if err != nil || redef {
		t.Fatalf("declare var x: redef=%v err=%v", redef, err)
	}
	if v.OwningScope() != fn {
		t.Fatalf("expected var x to be owned by the enclosing declaration scope, got %v", v.OwningScope())
	}
	if _, ok := inner.variables.Lookup(intern("x")); ok {
		t.Fatal("expected x to not be declared directly on the block")
	}
}

func TestDeclareVariableInDirectSloppyEvalScopeIsDynamic(t *testing.T) {
	evalScope := NewDeclarationScope(Eval, Sloppy, NotAFunction)
	v, redef, err := evalScope.DeclareVariable(intern("x"), Var, CreatedInitialized, Normal, false, false, false, false, nil)
	if err != nil || redef {
		t.Fatalf("declare var x in sloppy eval scope: redef=%v err=%v", redef, err)
	}
	if v.Mode() != Dynamic {
		t.Fatalf("expected a DYNAMIC binding in a direct sloppy eval scope, got %v", v.Mode())
	}
	if v.Location() != LocLookup() {
		t.Fatalf("expected LOOKUP location, got %v", v.Location())
	}
}

func TestDeclareVariableLexicalRedeclarationErrors(t *testing.T) {
	s := NewDeclarationScope(FunctionType, Sloppy, NormalFunction)
	xName := intern("x")
	if _, err := s.DeclareLocal(xName, Let, NeedsInitialization, Normal, false); err != nil {
		t.Fatalf("declare let x: %v", err)
	}
	_, _, err := s.DeclareVariable(xName, Let, NeedsInitialization, Normal, false, false, false, false, nil)
	e, ok := err.(*Error)
	if !ok || e.Kind != Redeclaration {
		t.Fatalf("expected a Redeclaration error for let-over-let, got %v", err)
	}
}

func TestDeclareVariableVarOverVarSetsMaybeAssigned(t *testing.T) {
	s := NewDeclarationScope(FunctionType, Sloppy, NormalFunction)
	xName := intern("x")
	v1, _, err := s.DeclareVariable(xName, Var, CreatedInitialized, Normal, false, false, false, false, nil)
	if err != nil {
		t.Fatalf("declare var x: %v", err)
	}
	if v1.MaybeAssigned() {
		t.Fatal("first declaration should not set maybeAssigned")
	}
	v2, redef, err := s.DeclareVariable(xName, Var, CreatedInitialized, Normal, false, false, false, false, nil)
	if err != nil || redef {
		t.Fatalf("second var x declaration should succeed cleanly: redef=%v err=%v", redef, err)
	}
	if v2 != v1 {
		t.Fatal("expected the same variable back")
	}
	if !v1.MaybeAssigned() {
		t.Fatal("expected var-over-var redeclaration to set maybeAssigned")
	}
}

func TestDeclareReceiverRejectsInvalidMode(t *testing.T) {
	s := NewDeclarationScope(FunctionType, Sloppy, NormalFunction)
	_, err := s.decl.DeclareReceiver(intern("this"), Let)
	e, ok := err.(*Error)
	if !ok || e.Kind != InvalidMode {
		t.Fatalf("expected InvalidMode for a LET receiver, got %v", err)
	}
}

func TestParameterArityStopsAtFirstOptionalOrRest(t *testing.T) {
	s := NewDeclarationScope(FunctionType, Sloppy, NormalFunction)
	if _, err := s.decl.DeclareParameter(intern("a"), Var, false, false); err != nil {
		t.Fatalf("declare a: %v", err)
	}
	if _, err := s.decl.DeclareParameter(intern("b"), Var, true, false); err != nil {
		t.Fatalf("declare b: %v", err)
	}
	if _, err := s.decl.DeclareParameter(intern("c"), Var, false, true); err != nil {
		t.Fatalf("declare c: %v", err)
	}
	if s.decl.Arity() != 1 {
		t.Fatalf("expected arity 1 (only 'a' is required before the first optional), got %d", s.decl.Arity())
	}
	if !s.decl.HasRest() {
		t.Fatal("expected HasRest to be set")
	}
	if s.decl.HasSimpleParameters() {
		t.Fatal("expected HasSimpleParameters to be false once an optional/rest parameter appears")
	}
}
