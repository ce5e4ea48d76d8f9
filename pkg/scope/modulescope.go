package scope

// ImportBinding is one entry of a module's import list.
type ImportBinding struct {
	LocalName  Name
	ExportName Name
	ModuleSpecifier string
	Variable   *Variable
}

// ExportBinding is one entry of a module's export list.
type ExportBinding struct {
	LocalName Name
	ExportName Name
	Variable  *Variable
}

// ModuleDescriptor carries a module scope's regular imports/exports
// (spec.md §3 "ModuleScope additionally carries a module_descriptor").
//
// Slot assignment for imports/exports uses real, densely-assigned
// indices computed during Allocate (SPEC_FULL.md supplemented feature
// 2), replacing the "42" placeholder spec.md §9 flags in the source
// this was distilled from.
type ModuleDescriptor struct {
	Imports []*ImportBinding
	Exports []*ExportBinding
}

// NewModuleScope builds a MODULE declaration scope (always STRICT,
// spec.md §3) with an attached, initially empty ModuleDescriptor.
func NewModuleScope() *Scope {
	s := NewDeclarationScope(ModuleType, Strict, NotAFunction)
	s.decl.module = &ModuleDescriptor{}
	return s
}

// DeclareImport registers a module import and its local binding.
func (d *ModuleDescriptor) DeclareImport(owner *Scope, localName, exportName Name, specifier string) *ImportBinding {
	v := NewVariable(localName, Const, Normal, CreatedInitialized, false, owner)
	owner.variables.Add(v)
	ib := &ImportBinding{LocalName: localName, ExportName: exportName, ModuleSpecifier: specifier, Variable: v}
	d.Imports = append(d.Imports, ib)
	return ib
}

// DeclareExport registers a module export of the Variable v. The local
// binding is not looked up by localName: if v is nil, the returned
// ExportBinding's Variable stays nil until the caller sets it, and an
// export whose Variable is still nil when Allocate runs gets no slot.
func (d *ModuleDescriptor) DeclareExport(localName, exportName Name, v *Variable) *ExportBinding {
	eb := &ExportBinding{LocalName: localName, ExportName: exportName, Variable: v}
	d.Exports = append(d.Exports, eb)
	return eb
}
