package scope

// AnalysisInfo carries the handful of facts about the compilation unit
// that Analyze needs but that this package has no other way to learn,
// since discovering them is the parser's job (spec.md §1: "the parser
// that builds AST nodes and drives declarations" is an external
// collaborator).
type AnalysisInfo struct {
	// OuterChain is a already-deserialized chain of enclosing scopes
	// (innermost last) for a lazily compiled inner function, or nil for
	// whole-unit analysis of a root scope.
	OuterChain *Scope
}

// Analyze runs the full pipeline described in spec.md §2's control-flow
// line for a root declaration scope: resolve top-down, check the root's
// VAR declarations for conflicts, allocate bottom-up, then emit and
// return the root scope's serialized scope info (EmitTree produces one
// record per scope in the tree). If info.OuterChain is non-nil, root.outer is wired to it first
// so resolution can walk past root into the deserialized chain.
func (root *Scope) Analyze(info AnalysisInfo) (*ScopeInfo, error) {
	if info.OuterChain != nil && root.outer == nil {
		root.outer = info.OuterChain
	}

	root.ResolveVariablesRecursively()

	if conflict := root.CheckConflictingVarDeclarations(); conflict != nil {
		return nil, newError(Redeclaration, conflict.Name, conflict.Node)
	}

	Allocator{}.AllocateVariablesRecursively(root)

	return root.Emit(), nil
}

// EmitTree walks the full scope tree rooted at s and returns one
// ScopeInfo per scope, in preorder. pkg/scopestore uses this to persist
// an entire unit's scope metadata in one pass rather than calling Emit
// scope-by-scope.
func EmitTree(s *Scope) []*ScopeInfo {
	var out []*ScopeInfo
	var walk func(*Scope)
	walk = func(cur *Scope) {
		out = append(out, cur.Emit())
		for child := cur.firstInner; child != nil; child = child.nextSibling {
			walk(child)
		}
	}
	walk(s)
	return out
}
