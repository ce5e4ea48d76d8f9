package scopestore

import (
	"testing"

	"github.com/quill-lang/quill-scope/pkg/scope"
)

func intern(s string) scope.Name { return &s }

func sampleTree(t *testing.T) []*scope.ScopeInfo {
	t.Helper()
	f := scope.NewDeclarationScope(scope.FunctionType, scope.Sloppy, scope.NormalFunction)
	xName := intern("x")
	_, _, err := f.DeclareVariable(xName, scope.Var, scope.CreatedInitialized, scope.Normal, true, false, false, false, nil)
	if err != nil {
		t.Fatalf("declare x: %v", err)
	}
	g := scope.NewDeclarationScope(scope.FunctionType, scope.Sloppy, scope.NormalFunction)
	f.AddInner(g)
	p := scope.NewProxy(xName)
	g.AddUnresolved(p)
	g.ResolveVariablesRecursively()
	scope.Allocator{}.AllocateVariablesRecursively(f)
	return scope.EmitTree(f)
}

func TestSaveAndLoadTreeRoundTrips(t *testing.T) {
	store, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()
	if err := store.Migrate(); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	infos := sampleTree(t)
	if len(infos) != 2 {
		t.Fatalf("expected 2 scopes (f, g), got %d", len(infos))
	}
	if len(infos[0].ContextLocals) != 1 {
		t.Fatalf("expected f to have one context local, got %d", len(infos[0].ContextLocals))
	}

	if err := store.SaveTree("unit-1", infos); err != nil {
		t.Fatalf("SaveTree: %v", err)
	}

	loaded, err := store.LoadTree("unit-1")
	if err != nil {
		t.Fatalf("LoadTree: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 loaded scopes, got %d", len(loaded))
	}
	if len(loaded[0].ContextLocals) != 1 {
		t.Fatalf("expected round-tripped context local, got %d", len(loaded[0].ContextLocals))
	}
	if *loaded[0].ContextLocals[0].Name != "x" {
		t.Fatalf("expected round-tripped local named x, got %q", *loaded[0].ContextLocals[0].Name)
	}
	if loaded[0].ScopeType != scope.FunctionType {
		t.Fatalf("expected FunctionType, got %v", loaded[0].ScopeType)
	}
}

func TestSourceDigestRoundTrips(t *testing.T) {
	store, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()
	if err := store.Migrate(); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	if err := store.SaveSource("unit-1", "function f(){}", "deadbeef"); err != nil {
		t.Fatalf("SaveSource: %v", err)
	}
	digest, err := store.SourceDigest("unit-1")
	if err != nil {
		t.Fatalf("SourceDigest: %v", err)
	}
	if digest != "deadbeef" {
		t.Fatalf("expected deadbeef, got %q", digest)
	}
}
