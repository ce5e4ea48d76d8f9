package scope

import "testing"

// Property 9: deserializing a scope-info record and re-emitting it
// yields an equal record, modulo context-slot renumbering (which does
// not occur here since materialization preserves the recorded slots).
func TestDeserializeThenEmitFixedPoint(t *testing.T) {
	xName := intern("x")
	fnName := intern("outer")
	info := &ScopeInfo{
		ScopeType:           FunctionType,
		LanguageMode:        Sloppy,
		FunctionKind:        NormalFunction,
		IsDeclarationScope:  true,
		ParameterCount:      0,
		ContextLocals:       []ContextLocalInfo{{Name: xName, Mode: Var, InitFlag: CreatedInitialized, MaybeAssigned: true, Slot: MinContextSlots}},
		FunctionName:        &FunctionNameInfo{Name: fnName, Slot: MinContextSlots + 1, Mode: Const},
		ReceiverContextSlot: -1,
	}

	chain := DeserializeScopeChain([]*ScopeInfo{info})
	if chain == nil {
		t.Fatal("expected a non-nil scope")
	}

	// Nothing materializes until looked up.
	if chain.variables.Len() != 0 {
		t.Fatal("expected lazy materialization: nothing should be eager")
	}

	v := chain.LookupLocal(xName)
	if v == nil {
		t.Fatal("expected x to materialize from the serialized record")
	}
	if v.Location() != LocContext(MinContextSlots) {
		t.Fatalf("expected x at its recorded slot, got %v", v.Location())
	}

	fv := chain.LookupLocal(fnName)
	if fv == nil || fv.Location() != LocContext(MinContextSlots+1) {
		t.Fatal("expected the function-name binding to materialize at its recorded slot")
	}

	chain.numHeapSlots = MinContextSlots + 2
	reEmitted := chain.Emit()

	if len(reEmitted.ContextLocals) != 1 || reEmitted.ContextLocals[0].Name != xName || reEmitted.ContextLocals[0].Slot != MinContextSlots {
		t.Fatalf("re-emitted context locals do not match: %+v", reEmitted.ContextLocals)
	}
	if reEmitted.FunctionName == nil || reEmitted.FunctionName.Name != fnName || reEmitted.FunctionName.Slot != MinContextSlots+1 {
		t.Fatalf("re-emitted function name does not match: %+v", reEmitted.FunctionName)
	}
}

func TestDeserializeScopeChainLinksOuter(t *testing.T) {
	outerInfo := &ScopeInfo{ScopeType: Script, LanguageMode: Sloppy, IsDeclarationScope: true, ReceiverContextSlot: -1}
	innerInfo := &ScopeInfo{ScopeType: FunctionType, LanguageMode: Sloppy, IsDeclarationScope: true, ReceiverContextSlot: -1}

	innermost := DeserializeScopeChain([]*ScopeInfo{outerInfo, innerInfo})
	if innermost.Type() != FunctionType {
		t.Fatalf("expected innermost scope to be the last record, got %v", innermost.Type())
	}
	if innermost.Outer() == nil || innermost.Outer().Type() != Script {
		t.Fatal("expected the chain's outer link to reach the script scope")
	}
}

func TestInternalizeDetachesRecord(t *testing.T) {
	xName := intern("x")
	info := &ScopeInfo{
		ScopeType:           FunctionType,
		LanguageMode:        Sloppy,
		IsDeclarationScope:  true,
		ContextLocals:       []ContextLocalInfo{{Name: xName, Mode: Let, InitFlag: NeedsInitialization, Slot: MinContextSlots}},
		ReceiverContextSlot: -1,
	}
	s := newDeserializedScope(info)
	s.Internalize()
	if s.serialized != nil {
		t.Fatal("expected Internalize to detach the serialized record")
	}
	if v, ok := s.variables.Lookup(xName); !ok || v.Location() != LocContext(MinContextSlots) {
		t.Fatal("expected Internalize to have materialized x eagerly")
	}
}
