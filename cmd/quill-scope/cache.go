package main

import (
	"fmt"

	"github.com/quill-lang/quill-scope/pkg/scope"
	"github.com/quill-lang/quill-scope/pkg/scopestore"
)

// cacheTree persists root's fully analyzed scope tree to the SQLite
// store at dbPath, under unitName, so a later run analyzing the same
// unit (e.g. to lazily compile one of its inner functions) can load its
// enclosing ScopeInfo chain instead of reparsing.
func cacheTree(dbPath, unitName string, root *scope.Scope) error {
	store, err := scopestore.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	if err := store.Migrate(); err != nil {
		return fmt.Errorf("migrate store: %w", err)
	}

	infos := scope.EmitTree(root)
	if err := store.SaveTree(unitName, infos); err != nil {
		return fmt.Errorf("save tree: %w", err)
	}
	return nil
}
