package scope

// MustAllocate implements spec.md §4.E: v needs a storage location iff
// it is used, after scope-shaped widening that forces a few classes of
// variables to count as used even if the recorded uses never proved it
// (catch-bound names, script-scope names, anything visible to a sloppy
// eval nested somewhere inside its scope, and anything visible to a
// sloppy eval called directly in its own scope -- the eval string can
// reference either by name).
func MustAllocate(v *Variable) bool {
	if v.mode == DynamicGlobal {
		return false
	}
	if v.name != nil && v.owningScope != nil {
		s := v.owningScope
		sloppyDirectEval := s.scopeCallsEval && s.languageMode == Sloppy
		if s.scopeType == Catch || s.scopeType == Script || s.innerScopeCallsEval || sloppyDirectEval {
			v.MarkUsed()
			if s.innerScopeCallsEval || sloppyDirectEval {
				v.SetMaybeAssigned()
			}
		}
	}
	return v.isUsed
}

// MustAllocateInContext implements spec.md §4.E. TEMPORARY variables
// are never context-allocated via this predicate, regardless of any
// other flag.
func MustAllocateInContext(v *Variable) bool {
	if v.mode == Temporary {
		return false
	}
	s := v.owningScope
	if s == nil {
		return v.forcedContextAllocation
	}
	if s.forceContextAllocation {
		return true
	}
	if s.scopeType == Catch {
		return true
	}
	if s.scopeType == Script && v.mode.IsLexical() {
		return true
	}
	if v.forcedContextAllocation {
		return true
	}
	if s.innerScopeCallsEval {
		return true
	}
	return false
}

// Allocator runs the bottom-up allocation pass (spec.md §4.E). It holds
// no state of its own; AllocateVariablesRecursively is a pure function
// of the scope tree, kept as a method value for symmetry with Resolver.
type Allocator struct{}

// AllocateVariablesRecursively is the pass-order driver from spec.md
// §4.E: recurse into inner scopes first, then (for declaration scopes)
// module variables, parameters, and the receiver, then non-parameter
// locals, then decide whether the scope needs a runtime context at
// all.
func (Allocator) AllocateVariablesRecursively(s *Scope) {
	for child := s.firstInner; child != nil; child = child.nextSibling {
		Allocator{}.AllocateVariablesRecursively(child)
	}

	if ds := s.decl; ds != nil {
		allocateModuleVariables(s, ds)
		resolveArgumentsAliasing(s, ds)
		allocateParameters(s, ds)
		allocateReceiver(s, ds)
	}

	allocateNonParameterLocals(s)

	if ds := s.decl; ds != nil && ds.function != nil {
		allocateFunctionNameLast(s, ds)
	}

	decideContextNeed(s)
}

func allocateModuleVariables(s *Scope, ds *DeclarationScopeFields) {
	if ds.module == nil {
		return
	}
	slot := 0
	for _, imp := range ds.module.Imports {
		imp.Variable.allocate(LocModule(slot))
		imp.Variable.MarkUsed()
		slot++
	}
	for _, exp := range ds.module.Exports {
		if exp.Variable == nil || exp.Variable.location.Kind != Unallocated {
			continue
		}
		exp.Variable.allocate(LocModule(slot))
		slot++
	}
}

// resolveArgumentsAliasing implements spec.md §4.E's arguments-object
// rule: an unused arguments object is dropped; a used one, in a sloppy
// simple-parameters function with no literal "arguments" parameter,
// forces every parameter to be context-allocated so the arguments
// object can alias them, and is itself given a location like any other
// non-parameter local.
func resolveArgumentsAliasing(s *Scope, ds *DeclarationScopeFields) {
	if ds.arguments == nil {
		return
	}
	if !MustAllocate(ds.arguments) {
		ds.arguments = nil
		return
	}
	if !ds.hasArgumentsParameter && s.languageMode == Sloppy && ds.hasSimpleParameters {
		for _, p := range ds.parameters {
			p.ForceContextAllocation()
		}
	}
	if MustAllocateInContext(ds.arguments) {
		ds.arguments.allocate(LocContext(s.numHeapSlots))
		s.numHeapSlots++
	} else {
		ds.arguments.allocate(LocLocal(s.numStackSlots))
		s.numStackSlots++
	}
}

// allocateParameters implements spec.md §4.E's placement rule:
// PARAMETER slot i for an allocatable, non-context-bound parameter,
// with duplicate names resolved to the highest-index (last-declared)
// occurrence by iterating from last to first.
func allocateParameters(s *Scope, ds *DeclarationScopeFields) {
	seen := make(map[Name]bool, len(ds.parameters))
	for i := len(ds.parameters) - 1; i >= 0; i-- {
		p := ds.parameters[i]
		if p.name != nil {
			if seen[p.name] {
				continue // shadowed duplicate: unreachable, stays UNALLOCATED
			}
			seen[p.name] = true
		}
		if MustAllocateInContext(p) {
			p.allocate(LocContext(s.numHeapSlots))
			s.numHeapSlots++
		} else {
			p.allocate(LocParameter(i))
		}
	}
}

func allocateReceiver(s *Scope, ds *DeclarationScopeFields) {
	if ds.receiver == nil {
		return
	}
	if MustAllocateInContext(ds.receiver) {
		ds.receiver.allocate(LocContext(s.numHeapSlots))
		s.numHeapSlots++
	} else {
		ds.receiver.allocate(LocParameter(ReceiverParameterIndex))
	}
}

// allocateNonParameterLocals places every plain declared local and
// temporary owned by s. Stack slots are allocated on the nearest
// enclosing declaration scope, not on the block that lexically owns
// the Variable (spec.md §4.E).
func allocateNonParameterLocals(s *Scope) {
	declScope := s.GetDeclarationScope()
	for _, v := range s.locals {
		if v.location.Kind != Unallocated {
			continue // already placed (e.g. a module export given a MODULE slot)
		}
		if v.kind == Function && s.decl != nil && s.decl.function == v {
			continue // placed last, see allocateFunctionNameLast
		}
		if !MustAllocate(v) {
			continue
		}
		if MustAllocateInContext(v) {
			v.allocate(LocContext(s.numHeapSlots))
			s.numHeapSlots++
		} else {
			v.allocate(LocLocal(declScope.numStackSlots))
			declScope.numStackSlots++
		}
	}
}

// allocateFunctionNameLast places a named function expression's
// self-reference binding, if it needs a slot at all, after every other
// context slot in its own scope has been assigned, so that it lands on
// the last slot of the context (spec.md §6: "The function-name slot, if
// present, is the last slot in the context").
func allocateFunctionNameLast(s *Scope, ds *DeclarationScopeFields) {
	v := ds.function
	if v.location.Kind != Unallocated {
		return
	}
	if !MustAllocate(v) {
		return
	}
	if MustAllocateInContext(v) {
		v.allocate(LocContext(s.numHeapSlots))
		s.numHeapSlots++
	} else {
		v.allocate(LocLocal(s.GetDeclarationScope().numStackSlots))
		s.GetDeclarationScope().numStackSlots++
	}
}

// decideContextNeed implements the context-elision rule from spec.md
// §4.E: if, after all decisions, num_heap_slots is still exactly the
// MIN_CONTEXT_SLOTS floor and nothing about this scope structurally
// requires a context, drop it to zero -- no runtime Context object is
// needed.
func decideContextNeed(s *Scope) {
	if s.numHeapSlots == MinContextSlots && !requiresContext(s) {
		s.numHeapSlots = 0
	}
}

func requiresContext(s *Scope) bool {
	switch s.scopeType {
	case With, ModuleType:
		return true
	case FunctionType:
		return s.scopeCallsEval && s.languageMode == Sloppy
	case Block:
		return s.IsDeclarationScope() && s.scopeCallsEval && s.languageMode == Sloppy
	default:
		return false
	}
}
