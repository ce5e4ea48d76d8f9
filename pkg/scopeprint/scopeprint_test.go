package scopeprint

import (
	"bytes"
	"strings"
	"testing"

	"github.com/quill-lang/quill-scope/pkg/scope"
)

func intern(s string) scope.Name { return &s }

func buildSample(t *testing.T) *scope.Scope {
	t.Helper()
	f := scope.NewDeclarationScope(scope.FunctionType, scope.Sloppy, scope.NormalFunction)
	xName := intern("x")
	xv, _, err := f.DeclareVariable(xName, scope.Var, scope.CreatedInitialized, scope.Normal, true, false, false, false, nil)
	if err != nil {
		t.Fatalf("declare x: %v", err)
	}
	g := scope.NewDeclarationScope(scope.FunctionType, scope.Sloppy, scope.NormalFunction)
	f.AddInner(g)
	p := scope.NewProxy(xName)
	g.AddUnresolved(p)
	g.ResolveVariablesRecursively()
	scope.Allocator{}.AllocateVariablesRecursively(f)
	if xv.Location().Kind != scope.Context {
		t.Fatalf("setup: expected x to be CONTEXT, got %v", xv.Location().Kind)
	}
	return f
}

func TestPrintJSONIncludesLocalsAndChildren(t *testing.T) {
	f := buildSample(t)
	var buf bytes.Buffer
	if err := PrintJSON(f, &buf); err != nil {
		t.Fatalf("PrintJSON: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"name": "x"`) {
		t.Fatalf("expected x in JSON output, got %s", out)
	}
	if !strings.Contains(out, `"children"`) {
		t.Fatalf("expected a children array for g, got %s", out)
	}
}

func TestPrintDOTEmitsAnEdgePerChild(t *testing.T) {
	f := buildSample(t)
	var buf bytes.Buffer
	PrintDOT(f, &buf)
	out := buf.String()
	if !strings.HasPrefix(out, "digraph G {") {
		t.Fatalf("expected a digraph header, got %s", out)
	}
	if strings.Count(out, "->") != 1 {
		t.Fatalf("expected exactly one edge (f -> g), got %s", out)
	}
}

func TestPrintAsciiTreeIncludesLocationInfo(t *testing.T) {
	f := buildSample(t)
	var buf bytes.Buffer
	PrintAsciiTree(f, &buf)
	out := buf.String()
	if !strings.Contains(out, "x:") {
		t.Fatalf("expected x's property line in ascii tree, got %s", out)
	}
}
