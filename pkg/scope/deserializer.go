package scope

// DeserializeScopeChain rebuilds the chain of outer Scopes a lazily
// compiled inner function needs (spec.md §4.F), from a list of
// ScopeInfo records ordered outermost-first. Each record produces one
// Scope, attached as the outer of the next; the returned Scope is the
// innermost of the chain, ready to serve as the outer scope of whatever
// fresh inner scope the caller is about to build for the function body
// actually being compiled.
//
// No Variable is materialized eagerly. Each Scope keeps its ScopeInfo
// attached in serialized and only turns a ContextLocalInfo into a real
// Variable the first time LookupLocal asks for that name (spec.md §4.F:
// "materializes Variables from context slot descriptors lazily, on
// first reference, rather than eagerly on deserialize").
func DeserializeScopeChain(infos []*ScopeInfo) *Scope {
	var outer *Scope
	for _, info := range infos {
		s := newDeserializedScope(info)
		if outer != nil {
			s.outer = outer
		}
		outer = s
	}
	return outer
}

func newDeserializedScope(info *ScopeInfo) *Scope {
	s := &Scope{
		scopeType:    info.ScopeType,
		variables:    NewVariableMap(),
		languageMode: info.LanguageMode,
		numHeapSlots: MinContextSlots,
		serialized:   info,
	}
	if info.IsDeclarationScope {
		MakeDeclarationScope(s, info.FunctionKind)
	}
	return s
}

// materializeContextLocal looks name up in s's still-attached
// ScopeInfo and, on a hit, constructs the real Variable, registers it
// in s.variables so future lookups skip straight past serialized, and
// returns it. It returns nil on a miss without consuming serialized --
// SPEC_FULL.md's supplemented EVAL/FUNCTION distinction on deserialize
// means a scope produced this way may still be asked about names it
// never held, and repeated misses must stay cheap.
func (s *Scope) materializeContextLocal(name Name) *Variable {
	info := s.serialized
	if info == nil {
		return nil
	}

	if fn := info.FunctionName; fn != nil && fn.Name == name {
		v := NewVariable(name, fn.Mode, Function, CreatedInitialized, false, s)
		v.allocate(LocContext(fn.Slot))
		s.variables.Add(v)
		s.decl.function = v
		return v
	}

	for i := range info.ContextLocals {
		cl := &info.ContextLocals[i]
		if cl.Name != name {
			continue
		}
		v := NewVariable(name, cl.Mode, Normal, cl.InitFlag, cl.MaybeAssigned, s)
		v.allocate(LocContext(cl.Slot))
		s.variables.Add(v)
		return v
	}

	if s.decl != nil {
		for _, ms := range info.ModuleSlots {
			if ms.Name != name {
				continue
			}
			mode := Const
			if !ms.IsImport {
				mode = Var
			}
			v := NewVariable(name, mode, Normal, CreatedInitialized, false, s)
			v.allocate(LocModule(ms.Slot))
			s.variables.Add(v)
			return v
		}
	}

	return nil
}

// Internalize forces every remaining name in s's attached ScopeInfo to
// materialize immediately and detaches the record, so that s behaves
// identically whether it was deserialized or built fresh. A diagnostic
// dump of a deserialized scope needs this to see every context local,
// not just the ones some reference happened to touch.
func (s *Scope) Internalize() {
	info := s.serialized
	if info == nil {
		return
	}
	if fn := info.FunctionName; fn != nil {
		s.materializeContextLocal(fn.Name)
	}
	for i := range info.ContextLocals {
		s.materializeContextLocal(info.ContextLocals[i].Name)
	}
	if s.decl != nil {
		for _, ms := range info.ModuleSlots {
			s.materializeContextLocal(ms.Name)
		}
	}
	s.serialized = nil
}
