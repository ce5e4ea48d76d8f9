package scope

import "testing"

func TestCheckLexDeclarationsConflictingWith(t *testing.T) {
	s := NewScope(Block, Sloppy)
	xName := intern("x")
	if _, err := s.DeclareLocal(xName, Let, NeedsInitialization, Normal, false); err != nil {
		t.Fatalf("declare let x: %v", err)
	}
	if got := s.CheckLexDeclarationsConflictingWith([]Name{intern("y"), xName}); got == nil || *got != "x" {
		t.Fatalf("expected to find the conflicting name x, got %v", got)
	}
	if got := s.CheckLexDeclarationsConflictingWith([]Name{intern("y"), intern("z")}); got != nil {
		t.Fatalf("expected no conflict, got %v", got)
	}
}

func TestAddRemoveUnresolved(t *testing.T) {
	s := NewScope(Block, Sloppy)
	p1 := NewProxy(intern("a"))
	p2 := NewProxy(intern("b"))
	s.AddUnresolved(p1)
	s.AddUnresolved(p2)
	if s.unresolved != p2 {
		t.Fatal("expected push-front: p2 should be the head")
	}
	s.RemoveUnresolved(p1)
	if s.unresolved != p2 || p2.next != nil {
		t.Fatal("expected p1 to be removed cleanly from the middle/tail")
	}
	s.RemoveUnresolved(p1) // idempotent
}

func TestProxyBindTwicePanics(t *testing.T) {
	p := NewProxy(intern("x"))
	v := NewVariable(intern("x"), Var, Normal, CreatedInitialized, false, nil)
	p.BindTo(v)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic binding an already-bound proxy")
		}
	}()
	p.BindTo(v)
}

func TestCopyProxyIsIndependentAndUnbound(t *testing.T) {
	p := NewProxy(intern("x"))
	p.IsAssigned = true
	cp := CopyProxy(p)
	if cp.IsBound() {
		t.Fatal("expected the copy to be unbound")
	}
	if cp.Name != p.Name || !cp.IsAssigned {
		t.Fatal("expected the copy to preserve name and IsAssigned")
	}
	v := NewVariable(intern("x"), Var, Normal, CreatedInitialized, false, nil)
	cp.BindTo(v)
	if p.IsBound() {
		t.Fatal("binding the copy must not affect the original")
	}
}

func TestGetDeclarationScopeAndClosureScope(t *testing.T) {
	fn := NewDeclarationScope(FunctionType, Sloppy, NormalFunction)
	block := NewScope(Block, Sloppy)
	fn.AddInner(block)
	inner := NewScope(Block, Sloppy)
	block.AddInner(inner)

	if inner.GetDeclarationScope() != fn {
		t.Fatal("expected GetDeclarationScope to reach the enclosing function")
	}
	if inner.ClosureScope() != fn {
		t.Fatal("expected ClosureScope to skip blocks and reach the enclosing function")
	}
}

func TestNewTemporaryOwnedByClosureScopeNotBlock(t *testing.T) {
	fn := NewDeclarationScope(FunctionType, Sloppy, NormalFunction)
	block := NewScope(Block, Sloppy)
	fn.AddInner(block)

	tmp := block.NewTemporary(nil)
	if tmp.OwningScope() != fn {
		t.Fatalf("expected the temporary to be owned by the closure scope, got %v", tmp.OwningScope())
	}
	found := false
	for _, v := range fn.locals {
		if v == tmp {
			found = true
		}
	}
	if !found {
		t.Fatal("expected the temporary to be appended to the closure scope's locals")
	}
	if len(block.locals) != 0 {
		t.Fatal("expected the block itself to own no locals")
	}
}
