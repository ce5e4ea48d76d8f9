// Package scopestore persists ScopeInfo records to SQLite via GORM, the
// way the teacher's pkg/bundler persists bindings: a small set of
// gorm-tagged row types, a gormigrate migration list, and a thin
// wrapper type that opens the database and exposes save/load
// operations. This is a supplement to the core (spec.md never requires
// a cache), grounded in the fact that lazy compilation's whole point is
// reusing a ScopeInfo across process runs.
package scopestore

// ScopeRecord is one row per analyzed scope: its position in the tree
// (SourceUnit + Path, the scope's preorder index as a decimal string)
// and its ScopeInfo, flattened into columns for the fixed-shape fields
// and a JSON column for the variable-length ones.
type ScopeRecord struct {
	SourceUnit string `gorm:"primaryKey"`
	Path       string `gorm:"primaryKey"`

	ScopeType          uint8
	LanguageMode       uint8
	FunctionKind       uint8
	IsDeclarationScope bool
	ParameterCount     int
	ReceiverContextSlot int

	ContextLocalsJSON string
	FunctionNameJSON  string
	ModuleSlotsJSON   string
}

// SourceFile mirrors the teacher's bundler.SourceFile row: the raw text
// a ScopeRecord tree was analyzed from, kept alongside it so a cache hit
// can be checked against the current file contents before being trusted.
type SourceFile struct {
	SourceUnit string `gorm:"primaryKey"`
	Contents   string
	Digest     string
}
