package scope

import "fmt"

// Mode classifies how a Variable's binding was introduced.
type Mode uint8

const (
	Var Mode = iota
	Let
	Const
	ConstLegacy
	Temporary
	Dynamic
	DynamicLocal
	DynamicGlobal
)

// IsLexical reports whether mode is block-scoped and temporal-dead-zone
// observing (spec glossary: "Lexical mode").
func (m Mode) IsLexical() bool {
	return m == Let || m == Const
}

func (m Mode) String() string {
	switch m {
	case Var:
		return "var"
	case Let:
		return "let"
	case Const:
		return "const"
	case ConstLegacy:
		return "const-legacy"
	case Temporary:
		return "temporary"
	case Dynamic:
		return "dynamic"
	case DynamicLocal:
		return "dynamic-local"
	case DynamicGlobal:
		return "dynamic-global"
	default:
		return "mode?"
	}
}

// Kind distinguishes the small set of Variables that carry special
// resolution behavior from ordinary named bindings.
type Kind uint8

const (
	Normal Kind = iota
	Function
	This
	Arguments
)

func (k Kind) String() string {
	switch k {
	case Normal:
		return "normal"
	case Function:
		return "function"
	case This:
		return "this"
	case Arguments:
		return "arguments"
	default:
		return "kind?"
	}
}

// InitFlag records whether reads of a Variable before its declaration
// executes must observe the temporal dead zone.
type InitFlag uint8

const (
	NeedsInitialization InitFlag = iota
	CreatedInitialized
)

// LocationKind is the storage class the Allocator assigns to a Variable.
type LocationKind uint8

const (
	Unallocated LocationKind = iota
	Parameter
	Local
	Context
	Global
	Lookup
	Module
)

func (k LocationKind) String() string {
	switch k {
	case Unallocated:
		return "unallocated"
	case Parameter:
		return "parameter"
	case Local:
		return "local"
	case Context:
		return "context"
	case Global:
		return "global"
	case Lookup:
		return "lookup"
	case Module:
		return "module"
	default:
		return "location?"
	}
}

// Location is a Variable's resolved storage class plus, where
// applicable, its slot index. Index is meaningless (zero) for Global and
// Lookup. ReceiverParameterIndex is the fixed index used for a receiver
// stored as a parameter slot (spec.md §3: "PARAMETER(-1)").
const ReceiverParameterIndex = -1

type Location struct {
	Kind  LocationKind
	Index int
}

func (l Location) String() string {
	switch l.Kind {
	case Parameter, Local, Context, Module:
		return fmt.Sprintf("%s(%d)", l.Kind.String(), l.Index)
	default:
		return l.Kind.String()
	}
}

func LocUnallocated() Location            { return Location{Kind: Unallocated} }
func LocParameter(index int) Location     { return Location{Kind: Parameter, Index: index} }
func LocLocal(index int) Location         { return Location{Kind: Local, Index: index} }
func LocContext(index int) Location       { return Location{Kind: Context, Index: index} }
func LocGlobal() Location                 { return Location{Kind: Global} }
func LocLookup() Location                 { return Location{Kind: Lookup} }
func LocModule(index int) Location        { return Location{Kind: Module, Index: index} }

// Variable is the value object every identifier reference eventually
// resolves to (spec.md §3, §4.A).
type Variable struct {
	name     Name
	mode     Mode
	kind     Kind
	initFlag InitFlag

	maybeAssigned            bool
	isUsed                   bool
	forcedContextAllocation  bool

	location Location

	// owningScope is the scope this Variable was declared in. Reparent
	// is the only operation permitted to change it after declaration.
	owningScope *Scope

	// shadowedLocal is set only for DYNAMIC_LOCAL non-locals minted by
	// the Resolver's sloppy-eval rule (spec.md §4.D rule 6): the local
	// binding that a failed runtime eval-introduced lookup should fall
	// back to.
	shadowedLocal *Variable
}

// NewVariable constructs a Variable in isolation, without registering it
// in any Scope. Most callers should go through Scope.DeclareLocal,
// Scope.DeclareVariable, DeclarationScopeFields.DeclareParameter, or
// Scope.NewTemporary instead; those helpers, the module import/export
// helpers, and the Deserializer (which materializes Variables from a
// serialized record) build on this constructor.
func NewVariable(name Name, mode Mode, kind Kind, initFlag InitFlag, maybeAssigned bool, owner *Scope) *Variable {
	return &Variable{
		name:          name,
		mode:          mode,
		kind:          kind,
		initFlag:      initFlag,
		maybeAssigned: maybeAssigned,
		owningScope:   owner,
		location:      LocUnallocated(),
	}
}

func (v *Variable) Name() Name              { return v.name }
func (v *Variable) Mode() Mode              { return v.mode }
func (v *Variable) Kind() Kind              { return v.kind }
func (v *Variable) InitFlag() InitFlag      { return v.initFlag }
func (v *Variable) MaybeAssigned() bool     { return v.maybeAssigned }
func (v *Variable) IsUsed() bool            { return v.isUsed }
func (v *Variable) Location() Location      { return v.location }
func (v *Variable) OwningScope() *Scope     { return v.owningScope }
func (v *Variable) ShadowedLocal() *Variable { return v.shadowedLocal }

func (v *Variable) ForcedContextAllocation() bool { return v.forcedContextAllocation }

// MarkUsed is monotone: false -> true, never back.
func (v *Variable) MarkUsed() { v.isUsed = true }

// SetMaybeAssigned is monotone: false -> true, never back.
func (v *Variable) SetMaybeAssigned() { v.maybeAssigned = true }

// ForceContextAllocation is monotone: false -> true, never back. Once
// set, MustAllocateInContext returns true for this Variable regardless
// of its owning scope's flags, unless the Variable is TEMPORARY.
func (v *Variable) ForceContextAllocation() { v.forcedContextAllocation = true }

// allocate assigns v's storage location. It is the Allocator's sole
// write path to Location and enforces the "assigned exactly once"
// invariant (spec.md §3): calling it twice on the same Variable is a
// programmer error.
func (v *Variable) allocate(loc Location) {
	if v.location.Kind != Unallocated {
		panic("scope: variable already allocated: " + nameString(v.name))
	}
	v.location = loc
}

func nameString(n Name) string {
	if n == nil {
		return "<anonymous>"
	}
	return *n
}
