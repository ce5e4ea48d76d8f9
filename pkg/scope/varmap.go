package scope

// VariableMap is a name -> Variable mapping keyed by interned-string
// identity (spec.md §4.A). Because Name is already the canonical
// pointer for a piece of text, a plain Go map keyed on Name gives
// pointer-identity semantics for free.
type VariableMap struct {
	table map[Name]*Variable
}

func NewVariableMap() *VariableMap {
	return &VariableMap{table: make(map[Name]*Variable)}
}

// Lookup returns the Variable registered under name, if any.
func (m *VariableMap) Lookup(name Name) (*Variable, bool) {
	v, ok := m.table[name]
	return v, ok
}

// Declare inserts a fresh Variable for name if absent, or returns the
// existing one unchanged (spec.md §4.A: "Never overwrites"). The second
// return value reports whether a new Variable was created.
func (m *VariableMap) Declare(name Name, scope *Scope, mode Mode, kind Kind, initFlag InitFlag, maybeAssigned bool) (*Variable, bool) {
	if v, ok := m.table[name]; ok {
		return v, false
	}
	v := NewVariable(name, mode, kind, initFlag, maybeAssigned, scope)
	m.table[name] = v
	return v, true
}

// Add inserts variable, panicking if a Variable is already registered
// under its name (spec.md §4.A: "require absent").
func (m *VariableMap) Add(v *Variable) {
	if _, ok := m.table[v.name]; ok {
		panic("scope: VariableMap.Add: name already present: " + nameString(v.name))
	}
	m.table[v.name] = v
}

// Remove deletes the entry for name. Idempotent on absent entries.
func (m *VariableMap) Remove(name Name) {
	delete(m.table, name)
}

// Values iterates the map's Variables. Order is unspecified; callers
// that need declaration order should track it separately (Scope does,
// via locals and declarations).
func (m *VariableMap) Values() []*Variable {
	out := make([]*Variable, 0, len(m.table))
	for _, v := range m.table {
		out = append(out, v)
	}
	return out
}

func (m *VariableMap) Len() int { return len(m.table) }
