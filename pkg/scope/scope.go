package scope

// ScopeType is the tag of a Scope tree node (spec.md §3).
type ScopeType uint8

const (
	Script ScopeType = iota
	ModuleType
	Eval
	FunctionType
	Block
	Catch
	With
)

func (t ScopeType) String() string {
	switch t {
	case Script:
		return "script"
	case ModuleType:
		return "module"
	case Eval:
		return "eval"
	case FunctionType:
		return "function"
	case Block:
		return "block"
	case Catch:
		return "catch"
	case With:
		return "with"
	default:
		return "scope-type?"
	}
}

// LanguageMode is SLOPPY or STRICT. A module scope is always STRICT
// (spec.md §3).
type LanguageMode uint8

const (
	Sloppy LanguageMode = iota
	Strict
)

func (m LanguageMode) String() string {
	if m == Strict {
		return "strict"
	}
	return "sloppy"
}

// MinContextSlots is the fixed floor every runtime Context reserves
// before any user-declared context local (spec.md §3, §6). The
// concrete value is a collaborator detail (the runtime context object
// layout is out of scope per spec.md §1); this package only needs the
// floor to know where dense slot numbering starts and to recognize the
// "no locals, elide the context" case.
const MinContextSlots = 2

// Scope is one node of the lexical tree (spec.md §3).
type Scope struct {
	scopeType ScopeType

	outer       *Scope
	firstInner  *Scope // head of a push-front intrusive sibling list
	nextSibling *Scope

	variables    *VariableMap
	locals       []*Variable
	declarations []Declaration
	unresolved   *Proxy // head of a push-front intrusive list

	languageMode LanguageMode

	scopeCallsEval      bool
	innerScopeCallsEval bool
	forceContextAllocation bool
	isHidden            bool
	isDebugEvaluateScope bool

	startPosition, endPosition int
	hasKnownPositions          bool

	numStackSlots int
	numHeapSlots  int

	// serialized holds a not-yet-materialized scope-info record when
	// this Scope was produced by DeserializeScopeChain (spec.md §4.F).
	// LookupLocal consults it lazily; Internalize forces eager
	// materialization and clears it.
	serialized *ScopeInfo

	// decl is non-nil iff this scope is declaration-flavored (spec.md
	// §3 "DeclarationScope (variant refinement)"; spec.md §9: "a base
	// struct carrying an optional inline DeclarationScopeFields that is
	// present iff the scope type is declaration-flavored").
	decl *DeclarationScopeFields
}

// Declaration records one declaration statement as written in the
// source (spec.md §3 "declarations: ordered list of declaration AST
// nodes rooted in this scope, for post-hoc conflict checks"). A VAR
// declaration written inside a block still resolves to a Variable owned
// by the nearest enclosing declaration scope, but the Declaration record
// itself stays attached to the block it was textually written in, which
// is what CheckConflictingVarDeclarations walks outward from.
type Declaration struct {
	Name  Name
	Mode  Mode
	Scope *Scope
	Node  any // parser-owned declaration node, opaque to this package
}

// NewScope creates a plain (non declaration-flavored) Scope of the
// given type and language mode, with no parent. Use AddInner to attach
// it under a parent, or leave it as a root (script scope).
func NewScope(scopeType ScopeType, mode LanguageMode) *Scope {
	if scopeType == ModuleType {
		mode = Strict
	}
	return &Scope{
		scopeType:    scopeType,
		variables:    NewVariableMap(),
		languageMode: mode,
		numHeapSlots: MinContextSlots,
	}
}

// AddInner attaches child as an inner scope of s (spec.md §3 invariant
// 1: "Siblings share the same outer").
func (s *Scope) AddInner(child *Scope) {
	child.outer = s
	child.nextSibling = s.firstInner
	s.firstInner = child
}

func (s *Scope) Type() ScopeType         { return s.scopeType }
func (s *Scope) Outer() *Scope           { return s.outer }
func (s *Scope) FirstInner() *Scope      { return s.firstInner }
func (s *Scope) NextSibling() *Scope     { return s.nextSibling }
func (s *Scope) LanguageMode() LanguageMode { return s.languageMode }
func (s *Scope) SetLanguageMode(m LanguageMode) { s.languageMode = m }
func (s *Scope) ScopeCallsEval() bool    { return s.scopeCallsEval }
func (s *Scope) InnerScopeCallsEval() bool { return s.innerScopeCallsEval }
func (s *Scope) ForceContextAllocationFlag() bool { return s.forceContextAllocation }
func (s *Scope) SetForceContextAllocation() { s.forceContextAllocation = true }
func (s *Scope) IsHidden() bool          { return s.isHidden }
func (s *Scope) SetHidden()              { s.isHidden = true }
func (s *Scope) IsDebugEvaluateScope() bool { return s.isDebugEvaluateScope }
func (s *Scope) NumStackSlots() int      { return s.numStackSlots }
func (s *Scope) NumHeapSlots() int       { return s.numHeapSlots }
func (s *Scope) Locals() []*Variable     { return s.locals }
func (s *Scope) Declarations() []Declaration { return s.declarations }

// SetPositions records the scope's source span, unless the scope is
// hidden (spec.md §3: "may be 'unknown' if is_hidden").
func (s *Scope) SetPositions(start, end int) {
	if s.isHidden {
		return
	}
	s.startPosition, s.endPosition = start, end
	s.hasKnownPositions = true
}

func (s *Scope) Positions() (start, end int, ok bool) {
	return s.startPosition, s.endPosition, s.hasKnownPositions
}

// IsDeclarationScope reports whether this scope owns VAR bindings
// (spec.md glossary "Declaration scope").
func (s *Scope) IsDeclarationScope() bool { return s.decl != nil }

// AsDeclarationScope is the capability query from spec.md §9: it
// returns the inline DeclarationScopeFields if present, or nil.
func (s *Scope) AsDeclarationScope() *DeclarationScopeFields { return s.decl }

// AsModuleScope returns the module descriptor if this is a module
// scope, or nil.
func (s *Scope) AsModuleScope() *ModuleDescriptor {
	if s.decl == nil {
		return nil
	}
	return s.decl.module
}

// ClosureScope returns the nearest enclosing declaration scope that is
// not a block (spec.md glossary "Closure scope").
func (s *Scope) ClosureScope() *Scope {
	cur := s
	for cur != nil {
		if cur.decl != nil && cur.scopeType != Block {
			return cur
		}
		cur = cur.outer
	}
	return nil
}

// GetDeclarationScope returns the nearest enclosing scope that owns VAR
// bindings, which may be s itself.
func (s *Scope) GetDeclarationScope() *Scope {
	cur := s
	for cur != nil {
		if cur.IsDeclarationScope() {
			return cur
		}
		cur = cur.outer
	}
	return nil
}

// DeclareLocal declares name directly in s (spec.md §4.C). It rejects
// DYNAMIC_* and TEMPORARY modes -- those have their own dedicated entry
// points (the Resolver's dynamic-binding minting, and NewTemporary) --
// and is idempotent: a second call with the same name returns the
// existing Variable unchanged.
func (s *Scope) DeclareLocal(name Name, mode Mode, initFlag InitFlag, kind Kind, maybeAssigned bool) (*Variable, error) {
	if mode == Dynamic || mode == DynamicLocal || mode == DynamicGlobal || mode == Temporary {
		return nil, newError(InvalidMode, name, nil)
	}
	v, inserted := s.variables.Declare(name, s, mode, kind, initFlag, maybeAssigned)
	if inserted {
		s.locals = append(s.locals, v)
	}
	return v, nil
}

// NewTemporary declares an arena-local temporary in the locals list of
// the nearest enclosing closure scope. Temporaries are never inserted
// into a VariableMap: the AST refers to them directly (spec.md §4.C).
func (s *Scope) NewTemporary(name Name) *Variable {
	owner := s.ClosureScope()
	v := NewVariable(name, Temporary, Normal, CreatedInitialized, false, owner)
	owner.locals = append(owner.locals, v)
	return v
}

// LookupLocal consults this scope's own bindings, materializing a
// Variable from a still-attached serialized scope-info record on first
// reference if necessary (spec.md §4.C, §4.F).
func (s *Scope) LookupLocal(name Name) *Variable {
	if v, ok := s.variables.Lookup(name); ok {
		return v
	}
	if s.serialized != nil {
		if v := s.materializeContextLocal(name); v != nil {
			return v
		}
	}
	return nil
}

// Lookup walks outward calling LookupLocal at each level. It performs
// no with/eval rewriting -- that is the Resolver's job (spec.md §4.C).
func (s *Scope) Lookup(name Name) *Variable {
	for cur := s; cur != nil; cur = cur.outer {
		if v := cur.LookupLocal(name); v != nil {
			return v
		}
	}
	return nil
}

// AddUnresolved pushes proxy onto this scope's unresolved list.
func (s *Scope) AddUnresolved(p *Proxy) {
	p.next = s.unresolved
	s.unresolved = p
}

// RemoveUnresolved removes proxy from this scope's unresolved list.
// Idempotent if proxy is not present.
func (s *Scope) RemoveUnresolved(p *Proxy) {
	if s.unresolved == p {
		s.unresolved = p.next
		p.next = nil
		return
	}
	for cur := s.unresolved; cur != nil; cur = cur.next {
		if cur.next == p {
			cur.next = p.next
			p.next = nil
			return
		}
	}
}

// RecordEvalCall marks s as calling eval and propagates the
// consequences described in spec.md §4.C: every enclosing scope
// observes InnerScopeCallsEval, and every declaration scope from s's
// own nearest enclosing declaration scope up to and including the
// nearest enclosing closure scope force-context-allocates every local
// it currently owns, provided it is sloppy. s's own declaration scope
// is included in that sweep -- a function calling eval directly widens
// its own locals, not just its ancestors' (spec.md §8 scenario S2).
func (s *Scope) RecordEvalCall() {
	s.scopeCallsEval = true
	closure := s.ClosureScope()

	widen := func(cur *Scope) {
		if !cur.IsDeclarationScope() || cur.languageMode != Sloppy {
			return
		}
		for _, v := range cur.locals {
			v.ForceContextAllocation()
		}
		for _, v := range cur.variables.Values() {
			v.ForceContextAllocation()
		}
		ds := cur.decl
		for _, v := range []*Variable{ds.receiver, ds.newTarget, ds.arguments, ds.thisFunction, ds.function} {
			if v != nil {
				v.ForceContextAllocation()
			}
		}
	}

	own := s.GetDeclarationScope()
	if own != nil {
		widen(own)
	}
	reachedClosure := own == closure

	for cur := s.outer; cur != nil; cur = cur.outer {
		cur.innerScopeCallsEval = true
		if !reachedClosure {
			widen(cur)
		}
		if cur == closure {
			reachedClosure = true
		}
	}
}

// CheckConflictingVarDeclarations implements spec.md §4.C /
// §8-testable-property-7: linear over declarations, for each VAR
// declaration walk outward from the declaration's own scope until (and
// including) its enclosing declaration scope, and return the first VAR
// declaration for which some scope on that walk holds a lexical binding
// of the same name.
func (s *Scope) CheckConflictingVarDeclarations() *Declaration {
	for i := range s.declarations {
		d := &s.declarations[i]
		if d.Mode != Var {
			continue
		}
		boundary := d.Scope.GetDeclarationScope()
		for cur := d.Scope; cur != nil; cur = cur.outer {
			if v, ok := cur.variables.Lookup(d.Name); ok && v.mode.IsLexical() {
				return d
			}
			if cur == boundary {
				break
			}
		}
	}
	return nil
}

// CheckLexDeclarationsConflictingWith reports the first name in names
// that already has a binding declared directly in s (spec.md §4.C: used
// when a catch parameter or for-binding set must not collide with
// existing bindings in this block).
func (s *Scope) CheckLexDeclarationsConflictingWith(names []Name) Name {
	for _, n := range names {
		if _, ok := s.variables.Lookup(n); ok {
			return n
		}
	}
	return nil
}

// FinalizeBlockScope elides s from the tree if it owns no Variables and
// does not itself call sloppy eval (spec.md §4.C, §8 property 6). It
// returns nil if s was eliminated, or s itself if it could not be.
func (s *Scope) FinalizeBlockScope() *Scope {
	if s.variables.Len() > 0 || (s.scopeCallsEval && s.languageMode == Sloppy) {
		return s
	}
	parent := s.outer
	if parent == nil {
		return s
	}

	// Detach s from parent's sibling list.
	if parent.firstInner == s {
		parent.firstInner = s.nextSibling
	} else {
		for cur := parent.firstInner; cur != nil; cur = cur.nextSibling {
			if cur.nextSibling == s {
				cur.nextSibling = s.nextSibling
				break
			}
		}
	}

	// Splice s's own inner scopes into parent, preserving their
	// relative order and re-parenting each.
	if s.firstInner != nil {
		tail := s.firstInner
		for tail.nextSibling != nil {
			tail.outer = parent
			tail = tail.nextSibling
		}
		tail.outer = parent
		tail.nextSibling = parent.firstInner
		parent.firstInner = s.firstInner
	}

	// Migrate unresolved references to parent.
	if s.unresolved != nil {
		tail := s.unresolved
		for tail.next != nil {
			tail = tail.next
		}
		tail.next = parent.unresolved
		parent.unresolved = s.unresolved
	}

	s.numHeapSlots = 0
	s.outer = nil
	s.firstInner = nil
	s.nextSibling = nil
	s.unresolved = nil
	return nil
}
