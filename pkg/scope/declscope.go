package scope

// FunctionKind enumerates the function flavors a DeclarationScope can
// represent (spec.md §3).
type FunctionKind uint8

const (
	NormalFunction FunctionKind = iota
	ArrowFunction
	GeneratorFunction
	AsyncFunction
	ConciseMethod
	ClassConstructor
	SubclassConstructor
	AccessorFunction
	NotAFunction // script / eval / module / declaration block
)

func (k FunctionKind) IsAsync() bool     { return k == AsyncFunction }
func (k FunctionKind) IsGenerator() bool { return k == GeneratorFunction }

// SloppyBlockFunctionMap is an arena-backed map from name to a
// push-front linked list of function-declaration statement nodes,
// supporting the web-compatibility hoisting rule for sloppy-mode
// block-scoped function declarations (spec.md §3, §9). Entries are
// enumerated later by the parser to inject hoisting declarations; this
// package only maintains the map.
type SloppyBlockFunctionMap struct {
	table map[Name]*sloppyBlockFunctionEntry
}

type sloppyBlockFunctionEntry struct {
	node any
	next *sloppyBlockFunctionEntry
}

func NewSloppyBlockFunctionMap() *SloppyBlockFunctionMap {
	return &SloppyBlockFunctionMap{table: make(map[Name]*sloppyBlockFunctionEntry)}
}

// Record pushes node onto the front of the list for name.
func (m *SloppyBlockFunctionMap) Record(name Name, node any) {
	m.table[name] = &sloppyBlockFunctionEntry{node: node, next: m.table[name]}
}

// HasEntry reports whether name has at least one recorded function
// declaration (the web-compat carve-out in DeclareVariable consults
// this before allowing a duplicate function declaration through).
func (m *SloppyBlockFunctionMap) HasEntry(name Name) bool {
	_, ok := m.table[name]
	return ok
}

// Nodes returns the recorded declaration nodes for name, most recently
// recorded first.
func (m *SloppyBlockFunctionMap) Nodes(name Name) []any {
	var out []any
	for e := m.table[name]; e != nil; e = e.next {
		out = append(out, e.node)
	}
	return out
}

// DeclarationScopeFields is the inline, optional refinement present iff
// a Scope is declaration-flavored (spec.md §3, §9). It is embedded in
// Scope as a pointer rather than via inheritance, per spec.md §9's
// guidance to avoid open inheritance.
type DeclarationScopeFields struct {
	owner *Scope

	functionKind FunctionKind

	parameters []*Variable
	arity      int

	hasSimpleParameters  bool
	hasRest              bool
	hasArgumentsParameter bool
	asmModule            bool
	asmFunction          bool
	usesSuperProperty    bool
	forceEagerCompilation bool

	receiver     *Variable
	newTarget    *Variable
	arguments    *Variable
	thisFunction *Variable
	function     *Variable // name binding of a named function expression

	sloppyBlockFunctionMap *SloppyBlockFunctionMap

	module *ModuleDescriptor

	sawOptionalOrRestParameter bool
}

// MakeDeclarationScope promotes a freshly created plain Scope to
// declaration-flavored. Callers should do this immediately after
// NewScope for SCRIPT, MODULE, EVAL, FUNCTION scopes, and for BLOCK
// scopes chosen to var-host (e.g. a function's outer parameter scope
// when it needs a separate inner var scope).
func MakeDeclarationScope(s *Scope, kind FunctionKind) *DeclarationScopeFields {
	fields := &DeclarationScopeFields{
		owner:               s,
		functionKind:        kind,
		hasSimpleParameters: true,
		sloppyBlockFunctionMap: NewSloppyBlockFunctionMap(),
	}
	s.decl = fields
	return fields
}

// NewDeclarationScope is a convenience combining NewScope and
// MakeDeclarationScope.
func NewDeclarationScope(scopeType ScopeType, mode LanguageMode, kind FunctionKind) *Scope {
	s := NewScope(scopeType, mode)
	MakeDeclarationScope(s, kind)
	return s
}

func (d *DeclarationScopeFields) FunctionKind() FunctionKind { return d.functionKind }
func (d *DeclarationScopeFields) Parameters() []*Variable    { return d.parameters }
func (d *DeclarationScopeFields) Arity() int                 { return d.arity }
func (d *DeclarationScopeFields) HasSimpleParameters() bool  { return d.hasSimpleParameters }
func (d *DeclarationScopeFields) HasRest() bool              { return d.hasRest }
func (d *DeclarationScopeFields) HasArgumentsParameter() bool { return d.hasArgumentsParameter }
func (d *DeclarationScopeFields) AsmModule() bool            { return d.asmModule }
func (d *DeclarationScopeFields) SetAsmModule()              { d.asmModule = true }
func (d *DeclarationScopeFields) AsmFunction() bool          { return d.asmFunction }
func (d *DeclarationScopeFields) SetAsmFunction()            { d.asmFunction = true }
func (d *DeclarationScopeFields) UsesSuperProperty() bool    { return d.usesSuperProperty }
func (d *DeclarationScopeFields) SetUsesSuperProperty()      { d.usesSuperProperty = true }
func (d *DeclarationScopeFields) ForceEagerCompilation() bool { return d.forceEagerCompilation }
func (d *DeclarationScopeFields) SetForceEagerCompilation()  { d.forceEagerCompilation = true }
func (d *DeclarationScopeFields) Receiver() *Variable        { return d.receiver }
func (d *DeclarationScopeFields) NewTarget() *Variable       { return d.newTarget }
func (d *DeclarationScopeFields) Arguments() *Variable       { return d.arguments }
func (d *DeclarationScopeFields) ThisFunction() *Variable    { return d.thisFunction }
func (d *DeclarationScopeFields) FunctionVar() *Variable     { return d.function }
func (d *DeclarationScopeFields) SloppyBlockFunctionMap() *SloppyBlockFunctionMap {
	return d.sloppyBlockFunctionMap
}
func (d *DeclarationScopeFields) Module() *ModuleDescriptor { return d.module }

// DeclareReceiver installs the `this` binding. kind must be This; mode
// must be Var or Const per spec.md §3's invariant on THIS variables.
func (d *DeclarationScopeFields) DeclareReceiver(name Name, mode Mode) (*Variable, error) {
	if mode != Var && mode != Const {
		return nil, newError(InvalidMode, name, nil)
	}
	v := NewVariable(name, mode, This, CreatedInitialized, false, d.owner)
	d.receiver = v
	return v, nil
}

func (d *DeclarationScopeFields) DeclareNewTarget(name Name) *Variable {
	v := NewVariable(name, Const, Normal, CreatedInitialized, false, d.owner)
	d.newTarget = v
	return v
}

func (d *DeclarationScopeFields) DeclareThisFunction(name Name) *Variable {
	v := NewVariable(name, Const, Normal, CreatedInitialized, false, d.owner)
	d.thisFunction = v
	return v
}

// DeclareArguments installs the `arguments` object binding, unless the
// function already declared a parameter literally named "arguments"
// (spec.md §4.E: "any sloppy simple-parameters function must
// context-allocate every parameter... If the function is strict or has
// non-simple parameters, this aliasing is off").
func (d *DeclarationScopeFields) DeclareArguments(name Name) *Variable {
	if d.hasArgumentsParameter {
		return nil
	}
	v := NewVariable(name, Var, Arguments, CreatedInitialized, false, d.owner)
	d.arguments = v
	return v
}

// DeclareFunctionName installs the name binding of a named function
// expression, letting the function refer to itself (spec.md §3
// "function"). Its resolution-time behavior (downgrading to DYNAMIC
// under sloppy eval) lives in the Resolver.
func (d *DeclarationScopeFields) DeclareFunctionName(name Name, mode Mode) *Variable {
	v := NewVariable(name, mode, Function, CreatedInitialized, false, d.owner)
	d.function = v
	return v
}

// DeclareParameter appends a new positional parameter Variable
// (spec.md §4.C). Parameters are never deduplicated by name the way
// DeclareLocal deduplicates locals -- sloppy non-strict code may
// legally repeat a parameter name -- but only the last occurrence with
// a given name stays reachable through the scope's VariableMap, which
// is what makes it "canonical" for both name resolution and slot
// allocation (spec.md §4.E: "Duplicate parameter names use the
// highest-index slot").
func (d *DeclarationScopeFields) DeclareParameter(name Name, mode Mode, isOptional, isRest bool) (*Variable, error) {
	if mode != Var && mode != Let && mode != Const {
		return nil, newError(InvalidMode, name, nil)
	}
	v := NewVariable(name, mode, Normal, CreatedInitialized, false, d.owner)
	d.parameters = append(d.parameters, v)

	if isRest {
		d.hasRest = true
	}
	if isOptional || isRest || !isSimpleParamName(name) {
		d.hasSimpleParameters = false
	}
	if !isOptional && !isRest && !d.sawOptionalOrRestParameter {
		d.arity++
	}
	if isOptional || isRest {
		d.sawOptionalOrRestParameter = true
	}

	if name != nil && *name == "arguments" {
		d.hasArgumentsParameter = true
	}

	// The last declared occurrence of a name is the one reachable by
	// lookup: replace any earlier entry in the map.
	d.owner.variables.Remove(name)
	d.owner.variables.Add(v)

	return v, nil
}

// isSimpleParamName exists so destructuring/default parameters (which
// this package models by the caller passing isOptional=true or a
// synthesized temporary name) can be distinguished from ordinary simple
// identifier parameters. A real parser would call DeclareParameter once
// per bound identifier inside a pattern and separately record that the
// parameter list as a whole is non-simple; this package trusts the
// isOptional/isRest flags for that and does not itself inspect names.
func isSimpleParamName(name Name) bool { return name != nil }

// DeclareVariable is the checked entry point the parser uses for
// var/let/const/function declarations (spec.md §4.C).
// sloppyBlockFunctionRedefinition reports that the web-compat
// sloppy-block-function-redefinition carve-out fired; err is
// non-nil only for a genuine Redeclaration.
func (s *Scope) DeclareVariable(name Name, mode Mode, initFlag InitFlag, kind Kind, maybeAssigned bool, isAsync, isGenerator, restrictiveGenerators bool, node any) (v *Variable, sloppyBlockFunctionRedefinition bool, err error) {
	if mode == Dynamic || mode == DynamicLocal || mode == DynamicGlobal || mode == Temporary {
		return nil, false, newError(InvalidMode, name, node)
	}

	target := s
	if mode == Var && !s.IsDeclarationScope() {
		target = s.GetDeclarationScope()
	}

	if target.IsDeclarationScope() && target.scopeType == Eval && target.languageMode == Sloppy && mode == Var {
		nv := target.getOrCreateDynamic(name, Dynamic, nil)
		target.declarations = append(target.declarations, Declaration{Name: name, Mode: mode, Scope: s, Node: node})
		return nv, false, nil
	}

	existing, existed := target.variables.Lookup(name)
	if !existed {
		nv, _ := target.variables.Declare(name, target, mode, kind, initFlag, maybeAssigned)
		target.locals = append(target.locals, nv)
		target.declarations = append(target.declarations, Declaration{Name: name, Mode: mode, Scope: s, Node: node})
		return nv, false, nil
	}

	if mode.IsLexical() || existing.mode.IsLexical() {
		if kind == Function && mode == Var && existing.kind == Function && s.languageMode == Sloppy {
			decl := target.decl
			if decl != nil && decl.sloppyBlockFunctionMap != nil && decl.sloppyBlockFunctionMap.HasEntry(name) {
				if !isAsync && !(restrictiveGenerators && isGenerator) {
					decl.sloppyBlockFunctionMap.Record(name, node)
					target.declarations = append(target.declarations, Declaration{Name: name, Mode: mode, Scope: s, Node: node})
					return existing, true, nil
				}
			}
		}
		return nil, false, newError(Redeclaration, name, node)
	}

	if mode == Var {
		existing.SetMaybeAssigned()
	}
	target.declarations = append(target.declarations, Declaration{Name: name, Mode: mode, Scope: s, Node: node})
	return existing, false, nil
}

func (s *Scope) getOrCreateDynamic(name Name, mode Mode, shadowed *Variable) *Variable {
	if v, ok := s.variables.Lookup(name); ok {
		return v
	}
	v := &Variable{
		name:          name,
		mode:          mode,
		kind:          Normal,
		initFlag:      CreatedInitialized,
		location:      LocLookup(),
		owningScope:   s,
		shadowedLocal: shadowed,
	}
	s.variables.Add(v)
	return v
}
