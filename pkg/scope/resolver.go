package scope

// Resolve implements spec.md §4.D for a single reference:
//  1. If proxy is already bound, return.
//  2. Call lookupRecursive(proxy.Name, declareFree=true, outerEnd=nil).
//  3. bind_to(proxy, variable); if proxy was syntactically assigned,
//     set the variable's maybeAssigned.
func (s *Scope) Resolve(p *Proxy) {
	if p.IsBound() {
		return
	}
	v := lookupRecursive(s, p.Name, true, nil)
	p.BindTo(v)
	v.MarkUsed()
	if p.IsAssigned {
		v.SetMaybeAssigned()
	}
}

// ResolveVariablesRecursively drains unresolved at s, resolving each
// reference, then recurses into inner scopes (spec.md §4.D).
func (s *Scope) ResolveVariablesRecursively() {
	for p := s.unresolved; p != nil; {
		next := p.next
		p.next = nil
		s.Resolve(p)
		p = next
	}
	s.unresolved = nil
	for child := s.firstInner; child != nil; child = child.nextSibling {
		child.ResolveVariablesRecursively()
	}
}

// FetchFreeVariables is the partial-analysis variant used by lazy
// compilation (spec.md §4.D): it attempts resolution only within
// maxOuter's chain, and any reference that cannot be resolved that way
// is returned (linked into a push-front stack) rather than left on the
// scope. Per spec.md §9's Open Question note, unresolved is cleared
// regardless of success -- this is load-bearing for repeated partial
// analyses and must not be "optimized" into leaving successes behind.
func (s *Scope) FetchFreeVariables(maxOuter *Scope) *Proxy {
	var free *Proxy
	for p := s.unresolved; p != nil; {
		next := p.next
		p.next = nil
		v := lookupRecursive(s, p.Name, false, maxOuter)
		if v != nil {
			p.BindTo(v)
			v.MarkUsed()
			if p.IsAssigned {
				v.SetMaybeAssigned()
			}
		} else {
			p.next = free
			free = p
		}
		p = next
	}
	s.unresolved = nil
	return free
}

// lookupRecursive is the single arbiter of name binding (spec.md §4.D).
// It implements, in order: the debug-evaluate short-circuit, the local
// hit, the function-expression self-name case, the outer_end boundary,
// the outward recursive step, and post-processing of the value that
// recursive step returns.
func lookupRecursive(s *Scope, name Name, declareFree bool, outerEnd *Scope) *Variable {
	if s.isDebugEvaluateScope {
		if declareFree {
			return s.getOrCreateDynamic(name, Dynamic, nil)
		}
		return nil
	}

	if v := s.LookupLocal(name); v != nil {
		return v
	}

	if ds := s.decl; ds != nil && ds.function != nil && ds.function.name == name {
		v := ds.function
		if s.scopeCallsEval && s.languageMode == Sloppy {
			return s.getOrCreateDynamic(name, Dynamic, nil)
		}
		return v
	}

	if s.outer == outerEnd {
		if !declareFree {
			return nil
		}
		return s.getOrCreateDynamic(name, DynamicGlobal, nil)
	}

	v := lookupRecursive(s.outer, name, declareFree, outerEnd)
	if v == nil {
		return nil
	}

	if s.scopeType == FunctionType && v.mode != Dynamic && v.mode != DynamicLocal && v.mode != DynamicGlobal {
		v.ForceContextAllocation()
	}

	if v.kind == This {
		return v
	}

	if s.scopeType == With {
		v.MarkUsed()
		v.ForceContextAllocation()
		v.SetMaybeAssigned()
		return s.getOrCreateDynamic(name, Dynamic, nil)
	}

	if s.IsDeclarationScope() && s.scopeCallsEval && s.languageMode == Sloppy {
		if v.mode == DynamicGlobal {
			return v
		}
		if v.mode == Dynamic || v.mode == DynamicLocal {
			return v
		}
		if isGlobalObjectProperty(v) {
			return s.getOrCreateDynamic(name, DynamicGlobal, nil)
		}
		return s.getOrCreateDynamic(name, DynamicLocal, v)
	}

	return v
}

// isGlobalObjectProperty reports whether v denotes a name that, absent
// resolution to a lexical binding, would live as a property of the
// global object: a VAR or hoisted FUNCTION binding declared directly at
// script scope.
func isGlobalObjectProperty(v *Variable) bool {
	return v.owningScope != nil && v.owningScope.scopeType == Script && (v.mode == Var || v.kind == Function)
}
