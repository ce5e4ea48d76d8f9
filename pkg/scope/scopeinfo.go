package scope

import "sort"

// ScopeInfo is the tagged, variable-length record spec.md §6 describes
// as "Serialized scope format consumed and produced": everything the
// Deserializer needs to reconstitute an outer Scope from a runtime
// context, and everything Emit produces at the end of Scope.Analyze so
// that a later lazy compilation of an inner function can see the
// correct enclosing bindings.
//
// The producer/consumer of the actual on-disk or in-context-object wire
// encoding is an external collaborator (spec.md §1); ScopeInfo is the
// in-memory shape both sides agree on. pkg/scopestore persists this
// shape to SQLite for cross-process reuse; that is a supplement, not a
// requirement of this type.
type ScopeInfo struct {
	ScopeType    ScopeType
	LanguageMode LanguageMode
	FunctionKind FunctionKind

	IsDeclarationScope bool

	ParameterCount int

	// ContextLocals lists every context-allocated local, in slot order
	// starting at MinContextSlots.
	ContextLocals []ContextLocalInfo

	// FunctionName is set iff a named function expression's self-
	// reference binding was context-allocated. Per spec.md §6, "The
	// function-name slot, if present, is the last slot in the
	// context."
	FunctionName *FunctionNameInfo

	// ReceiverContextSlot is -1 if the receiver was not context
	// allocated (spec.md §6).
	ReceiverContextSlot int

	// ModuleSlots records import/export slot indices for a module
	// scope; empty for non-module scopes.
	ModuleSlots []ModuleSlotInfo
}

type ContextLocalInfo struct {
	Name          Name
	Mode          Mode
	InitFlag      InitFlag
	MaybeAssigned bool
	Slot          int
}

type FunctionNameInfo struct {
	Name Name
	Slot int
	Mode Mode
}

type ModuleSlotInfo struct {
	Name  Name
	Slot  int
	IsImport bool
}

// Emit produces the ScopeInfo for s in its post-Allocate state. It is
// called by Scope.Analyze (spec.md §4.C "analyze(info): ... emit
// serialized scope info") and by EmitTree, whose output pkg/scopestore
// persists.
func (s *Scope) Emit() *ScopeInfo {
	info := &ScopeInfo{
		ScopeType:           s.scopeType,
		LanguageMode:        s.languageMode,
		IsDeclarationScope:  s.IsDeclarationScope(),
		ReceiverContextSlot: -1,
	}
	if ds := s.decl; ds != nil {
		info.FunctionKind = ds.functionKind
		info.ParameterCount = len(ds.parameters)
		if ds.receiver != nil && ds.receiver.location.Kind == Context {
			info.ReceiverContextSlot = ds.receiver.location.Index
		}
		if ds.function != nil && ds.function.location.Kind == Context {
			info.FunctionName = &FunctionNameInfo{
				Name: ds.function.name,
				Slot: ds.function.location.Index,
				Mode: ds.function.mode,
			}
		}
		// receiver and function are recorded above under their own
		// dedicated fields; the remaining declaration-scope specials
		// (spec.md §3) live outside variables/locals entirely (see
		// RecordEvalCall's widening list, scope.go) and so need the
		// same explicit treatment here.
		for _, v := range []*Variable{ds.newTarget, ds.arguments, ds.thisFunction} {
			if v != nil && v.location.Kind == Context {
				info.ContextLocals = append(info.ContextLocals, ContextLocalInfo{
					Name: v.name, Mode: v.mode, InitFlag: v.initFlag, MaybeAssigned: v.maybeAssigned, Slot: v.location.Index,
				})
			}
		}
		if ds.module != nil {
			for _, imp := range ds.module.Imports {
				info.ModuleSlots = append(info.ModuleSlots, ModuleSlotInfo{
					Name: imp.LocalName, Slot: imp.Variable.location.Index, IsImport: true,
				})
			}
			for _, exp := range ds.module.Exports {
				if exp.Variable == nil {
					continue
				}
				info.ModuleSlots = append(info.ModuleSlots, ModuleSlotInfo{
					Name: exp.LocalName, Slot: exp.Variable.location.Index, IsImport: false,
				})
			}
		}
	}
	for _, v := range allNamedVariables(s) {
		if v.location.Kind != Context {
			continue
		}
		if s.decl != nil && s.decl.function == v {
			continue // already recorded as FunctionName
		}
		if s.decl != nil && s.decl.receiver == v {
			continue // already recorded as ReceiverContextSlot
		}
		info.ContextLocals = append(info.ContextLocals, ContextLocalInfo{
			Name: v.name, Mode: v.mode, InitFlag: v.initFlag, MaybeAssigned: v.maybeAssigned, Slot: v.location.Index,
		})
	}
	sort.Slice(info.ContextLocals, func(i, j int) bool {
		return info.ContextLocals[i].Slot < info.ContextLocals[j].Slot
	})
	return info
}

// allNamedVariables returns every regular local and parameter reachable
// by name in s. Parameters are declared into s.variables by
// DeclareParameter (declscope.go) alongside ordinary locals, so
// s.variables.Values() already includes them -- appending ds.parameters
// again here would emit a duplicate ContextLocalInfo for every
// context-allocated parameter.
func allNamedVariables(s *Scope) []*Variable {
	return s.variables.Values()
}
