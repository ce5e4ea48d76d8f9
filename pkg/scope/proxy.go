package scope

// Proxy is an identifier reference awaiting resolution (spec.md §3
// "unresolved": a singly-linked list of identifier references whose
// binding has not yet been found; spec.md §6: "declaration nodes with
// an embedded reference (proxy) that can later be bind_to(variable)").
//
// The parser is the external collaborator that actually walks source
// text and decides where identifiers are used; it is expected to
// allocate one Proxy per identifier use, call Scope.AddUnresolved to
// register it, and set IsAssigned when the identifier syntactically
// appears as an assignment target. Proxy lives in this package (rather
// than pkg/ast) because binding it directly touches *Variable.
type Proxy struct {
	Name Name

	// IsAssigned records whether this occurrence is an assignment
	// target; the Resolver uses it to set Variable.maybeAssigned.
	IsAssigned bool

	variable *Variable
	next     *Proxy // intrusive singly-linked list node (spec.md §9)
}

// NewProxy creates an unresolved reference to name.
func NewProxy(name Name) *Proxy {
	return &Proxy{Name: name}
}

// IsBound reports whether Resolve has already run for this proxy.
func (p *Proxy) IsBound() bool { return p.variable != nil }

// Variable returns the resolved binding, or nil before resolution.
func (p *Proxy) Variable() *Variable { return p.variable }

// BindTo attaches variable to p. Binding twice is a programmer error:
// Resolve checks IsBound before calling this; FetchFreeVariables does
// not, and binds every proxy it finds on the unresolved list.
func (p *Proxy) BindTo(v *Variable) {
	if p.variable != nil {
		panic("scope: proxy already bound: " + nameString(p.Name))
	}
	p.variable = v
}

// CopyProxy mints a fresh, unbound Proxy for the same name, used by
// partial analysis (spec.md §6: "a list factory (copy_variable_proxy)
// used by partial analysis") when a free variable discovered by
// FetchFreeVariables needs to be re-registered as unresolved against an
// outer scope's tree during lazy inner-function compilation.
func CopyProxy(p *Proxy) *Proxy {
	return &Proxy{Name: p.Name, IsAssigned: p.IsAssigned}
}
