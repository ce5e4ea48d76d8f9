package scopestore

import (
	"encoding/json"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/quill-lang/quill-scope/pkg/scope"
)

// Store wraps a SQLite-backed GORM connection holding cached ScopeInfo
// trees, keyed by an opaque source-unit identifier (a file path, a
// module specifier, whatever the caller uses to name a compilation
// unit).
type Store struct {
	db *gorm.DB
}

// Open opens (creating if necessary) the SQLite database at dbPath.
func Open(dbPath string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("scopestore: open %s: %w", dbPath, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Migrate() error {
	return Migrate(s.db)
}

func (s *Store) CheckMigration() (bool, error) {
	return CheckMigration(s.db)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// jsonLocals/jsonFunctionName/jsonModuleSlots are the encodings behind
// ScopeRecord's JSON columns.
func marshalRecord(sourceUnit, path string, info *scope.ScopeInfo) (*ScopeRecord, error) {
	contextLocals, err := json.Marshal(namedContextLocals(info.ContextLocals))
	if err != nil {
		return nil, err
	}
	functionName, err := json.Marshal(namedFunctionName(info.FunctionName))
	if err != nil {
		return nil, err
	}
	moduleSlots, err := json.Marshal(namedModuleSlots(info.ModuleSlots))
	if err != nil {
		return nil, err
	}
	return &ScopeRecord{
		SourceUnit:          sourceUnit,
		Path:                path,
		ScopeType:           uint8(info.ScopeType),
		LanguageMode:        uint8(info.LanguageMode),
		FunctionKind:        uint8(info.FunctionKind),
		IsDeclarationScope:  info.IsDeclarationScope,
		ParameterCount:      info.ParameterCount,
		ReceiverContextSlot: info.ReceiverContextSlot,
		ContextLocalsJSON:   string(contextLocals),
		FunctionNameJSON:    string(functionName),
		ModuleSlotsJSON:     string(moduleSlots),
	}, nil
}

func unmarshalRecord(rec *ScopeRecord) (*scope.ScopeInfo, error) {
	var contextLocals []wireContextLocal
	if rec.ContextLocalsJSON != "" {
		if err := json.Unmarshal([]byte(rec.ContextLocalsJSON), &contextLocals); err != nil {
			return nil, err
		}
	}
	var functionName *wireFunctionName
	if rec.FunctionNameJSON != "" && rec.FunctionNameJSON != "null" {
		if err := json.Unmarshal([]byte(rec.FunctionNameJSON), &functionName); err != nil {
			return nil, err
		}
	}
	var moduleSlots []wireModuleSlot
	if rec.ModuleSlotsJSON != "" {
		if err := json.Unmarshal([]byte(rec.ModuleSlotsJSON), &moduleSlots); err != nil {
			return nil, err
		}
	}

	info := &scope.ScopeInfo{
		ScopeType:           scope.ScopeType(rec.ScopeType),
		LanguageMode:        scope.LanguageMode(rec.LanguageMode),
		FunctionKind:        scope.FunctionKind(rec.FunctionKind),
		IsDeclarationScope:  rec.IsDeclarationScope,
		ParameterCount:      rec.ParameterCount,
		ReceiverContextSlot: rec.ReceiverContextSlot,
	}
	for _, cl := range contextLocals {
		name := cl.Name
		info.ContextLocals = append(info.ContextLocals, scope.ContextLocalInfo{
			Name:          &name,
			Mode:          scope.Mode(cl.Mode),
			InitFlag:      scope.InitFlag(cl.InitFlag),
			MaybeAssigned: cl.MaybeAssigned,
			Slot:          cl.Slot,
		})
	}
	if functionName != nil {
		name := functionName.Name
		info.FunctionName = &scope.FunctionNameInfo{Name: &name, Slot: functionName.Slot, Mode: scope.Mode(functionName.Mode)}
	}
	for _, ms := range moduleSlots {
		name := ms.Name
		info.ModuleSlots = append(info.ModuleSlots, scope.ModuleSlotInfo{Name: &name, Slot: ms.Slot, IsImport: ms.IsImport})
	}
	return info, nil
}

// SaveScopeInfo upserts a single scope's info at path within sourceUnit.
func (s *Store) SaveScopeInfo(sourceUnit, path string, info *scope.ScopeInfo) error {
	rec, err := marshalRecord(sourceUnit, path, info)
	if err != nil {
		return err
	}
	return s.db.Save(rec).Error
}

// LoadScopeInfo fetches a single scope's info at path within sourceUnit.
func (s *Store) LoadScopeInfo(sourceUnit, path string) (*scope.ScopeInfo, error) {
	var rec ScopeRecord
	if err := s.db.Where("source_unit = ? AND path = ?", sourceUnit, path).First(&rec).Error; err != nil {
		return nil, err
	}
	return unmarshalRecord(&rec)
}

// SaveTree persists every ScopeInfo in a preorder-walked tree (as
// produced by scope.EmitTree) under its preorder index written as a
// decimal path: "0" for the root, "1" for the next scope, and so on.
func (s *Store) SaveTree(sourceUnit string, infos []*scope.ScopeInfo) error {
	for i, info := range infos {
		if err := s.SaveScopeInfo(sourceUnit, fmt.Sprintf("%d", i), info); err != nil {
			return fmt.Errorf("scopestore: save scope %d of %s: %w", i, sourceUnit, err)
		}
	}
	return nil
}

// LoadTree fetches every ScopeInfo previously saved for sourceUnit, in
// path order.
func (s *Store) LoadTree(sourceUnit string) ([]*scope.ScopeInfo, error) {
	var recs []ScopeRecord
	if err := s.db.Where("source_unit = ?", sourceUnit).Order("path").Find(&recs).Error; err != nil {
		return nil, err
	}
	infos := make([]*scope.ScopeInfo, 0, len(recs))
	for i := range recs {
		info, err := unmarshalRecord(&recs[i])
		if err != nil {
			return nil, fmt.Errorf("scopestore: decode scope %s of %s: %w", recs[i].Path, sourceUnit, err)
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// SaveSource records the source text a tree was analyzed from, so a
// later run can detect staleness before trusting a cached tree.
func (s *Store) SaveSource(sourceUnit, contents, digest string) error {
	return s.db.Save(&SourceFile{SourceUnit: sourceUnit, Contents: contents, Digest: digest}).Error
}

// SourceDigest returns the digest recorded for sourceUnit, if any.
func (s *Store) SourceDigest(sourceUnit string) (string, error) {
	var rec SourceFile
	if err := s.db.Where("source_unit = ?", sourceUnit).First(&rec).Error; err != nil {
		return "", err
	}
	return rec.Digest, nil
}

type wireContextLocal struct {
	Name          string `json:"name"`
	Mode          uint8  `json:"mode"`
	InitFlag      uint8  `json:"initFlag"`
	MaybeAssigned bool   `json:"maybeAssigned"`
	Slot          int    `json:"slot"`
}

type wireFunctionName struct {
	Name string `json:"name"`
	Slot int    `json:"slot"`
	Mode uint8  `json:"mode"`
}

type wireModuleSlot struct {
	Name     string `json:"name"`
	Slot     int    `json:"slot"`
	IsImport bool   `json:"isImport"`
}

func namedContextLocals(in []scope.ContextLocalInfo) []wireContextLocal {
	out := make([]wireContextLocal, 0, len(in))
	for _, cl := range in {
		name := ""
		if cl.Name != nil {
			name = *cl.Name
		}
		out = append(out, wireContextLocal{Name: name, Mode: uint8(cl.Mode), InitFlag: uint8(cl.InitFlag), MaybeAssigned: cl.MaybeAssigned, Slot: cl.Slot})
	}
	return out
}

func namedFunctionName(in *scope.FunctionNameInfo) *wireFunctionName {
	if in == nil {
		return nil
	}
	name := ""
	if in.Name != nil {
		name = *in.Name
	}
	return &wireFunctionName{Name: name, Slot: in.Slot, Mode: uint8(in.Mode)}
}

func namedModuleSlots(in []scope.ModuleSlotInfo) []wireModuleSlot {
	out := make([]wireModuleSlot, 0, len(in))
	for _, ms := range in {
		name := ""
		if ms.Name != nil {
			name = *ms.Name
		}
		out = append(out, wireModuleSlot{Name: name, Slot: ms.Slot, IsImport: ms.IsImport})
	}
	return out
}
