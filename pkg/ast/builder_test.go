package ast

import (
	"testing"

	"github.com/quill-lang/quill-scope/pkg/scope"
)

// function f(){ var x = 1; return function g(){ return x; }; }
func TestBuildClosureCapture(t *testing.T) {
	program := &Node{
		Name: NameProgram,
		Children: []*Node{
			{
				Name: NameFn,
				Options: map[string]string{OptionName: "f"},
				Children: []*Node{
					{Name: NameVarDecl, Options: map[string]string{OptionName: "x"}},
					{
						Name:    NameFn,
						Options: map[string]string{OptionName: "g"},
						Children: []*Node{
							{Name: NameIdentifier, Options: map[string]string{OptionName: "x"}},
						},
					},
				},
			},
		},
	}

	b := NewBuilder(NewInterner())
	root, info, err := b.Build(program)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if info == nil {
		t.Fatal("expected a non-nil root ScopeInfo")
	}

	f := root.FirstInner()
	if f == nil || f.Type() != scope.FunctionType {
		t.Fatalf("expected f to be the script scope's first inner function scope")
	}

	fVar := findLocal(f, "x")
	if fVar == nil {
		t.Fatal("expected to find x among f's locals")
	}
	if fVar.Location().Kind != scope.Context {
		t.Fatalf("expected x to be CONTEXT (captured by g), got %v", fVar.Location().Kind)
	}
}

func findLocal(s *scope.Scope, name string) *scope.Variable {
	for _, v := range s.Locals() {
		if v.Name() != nil && *v.Name() == name {
			return v
		}
	}
	return nil
}

// function f(){ var x; eval(""); }
func TestBuildSloppyEvalForcesContext(t *testing.T) {
	program := &Node{
		Name: NameProgram,
		Children: []*Node{
			{
				Name:    NameFn,
				Options: map[string]string{OptionName: "f"},
				Children: []*Node{
					{Name: NameVarDecl, Options: map[string]string{OptionName: "x"}},
					{Name: NameEval},
				},
			},
		},
	}

	b := NewBuilder(NewInterner())
	root, _, err := b.Build(program)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	f := root.FirstInner()
	xv := findLocal(f, "x")
	if xv == nil {
		t.Fatal("expected to find x among f's locals")
	}
	if xv.Location().Kind != scope.Context {
		t.Fatalf("expected x to be CONTEXT once f calls eval, got %v", xv.Location().Kind)
	}
}

// function f(){ var a; with(o){ a; } }
func TestBuildWithForcesDynamicAndContext(t *testing.T) {
	program := &Node{
		Name: NameProgram,
		Children: []*Node{
			{
				Name:    NameFn,
				Options: map[string]string{OptionName: "f"},
				Children: []*Node{
					{Name: NameVarDecl, Options: map[string]string{OptionName: "a"}},
					{
						Name: NameWith,
						Children: []*Node{
							{Name: NameIdentifier, Options: map[string]string{OptionName: "a"}},
						},
					},
				},
			},
		},
	}

	b := NewBuilder(NewInterner())
	root, _, err := b.Build(program)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	f := root.FirstInner()
	av := findLocal(f, "a")
	if av == nil {
		t.Fatal("expected to find a among f's locals")
	}
	if av.Location().Kind != scope.Context {
		t.Fatalf("expected a to be CONTEXT once referenced inside a with body, got %v", av.Location().Kind)
	}
}

// try {} catch (e) { e; }
func TestBuildCatchDeclaresAndResolvesBinding(t *testing.T) {
	program := &Node{
		Name: NameProgram,
		Children: []*Node{
			{
				Name:    NameCatch,
				Options: map[string]string{OptionName: "e"},
				Children: []*Node{
					{Name: NameIdentifier, Options: map[string]string{OptionName: "e"}},
				},
			},
		},
	}

	b := NewBuilder(NewInterner())
	root, _, err := b.Build(program)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	catchScope := root.FirstInner()
	if catchScope == nil || catchScope.Type() != scope.Catch {
		t.Fatalf("expected root's first inner scope to be a CATCH scope")
	}
	ev := findLocal(catchScope, "e")
	if ev == nil {
		t.Fatal("expected to find e among the catch scope's locals")
	}
	// Catch-bound names are always MUST_ALLOCATE regardless of use.
	if ev.Location().Kind == scope.Unallocated {
		t.Fatal("expected the catch binding to receive a storage location")
	}
}

// import def as imp from "./other.mjs"; export { localX as X };
func TestBuildModuleImportExportSlotsAreDense(t *testing.T) {
	program := &Node{
		Name: NameModule,
		Children: []*Node{
			{
				Name: NameImport,
				Options: map[string]string{
					OptionName:       "imp",
					OptionExportName: "def",
					OptionSource:     "./other.mjs",
				},
			},
			{
				Name: NameExport,
				Options: map[string]string{
					OptionName:       "localX",
					OptionExportName: "X",
				},
			},
		},
	}

	b := NewBuilder(NewInterner())
	root, _, err := b.Build(program)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	desc := root.AsModuleScope()
	if desc == nil {
		t.Fatal("expected the root to be a module scope")
	}
	if len(desc.Imports) != 1 || desc.Imports[0].Variable.Location() != scope.LocModule(0) {
		t.Fatalf("expected the import at MODULE(0), got %+v", desc.Imports)
	}
	if len(desc.Exports) != 1 || desc.Exports[0].Variable.Location() != scope.LocModule(1) {
		t.Fatalf("expected the export at MODULE(1), got %+v", desc.Exports)
	}
}
