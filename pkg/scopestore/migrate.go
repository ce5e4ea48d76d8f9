package scopestore

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

func getMigrations() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		{
			ID: "202608060001",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&ScopeRecord{}, &SourceFile{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&ScopeRecord{}, &SourceFile{})
			},
		},
	}
}

// Migrate brings db's schema up to date.
func Migrate(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, getMigrations())
	return m.Migrate()
}

// CheckMigration reports whether db's schema already reflects the last
// migration in getMigrations.
func CheckMigration(db *gorm.DB) (bool, error) {
	var lastMigration string
	err := db.Table(gormigrate.DefaultOptions.TableName).
		Select("id").
		Order("id DESC").
		Limit(1).
		Scan(&lastMigration).Error
	if err != nil {
		return false, nil
	}
	migrations := getMigrations()
	if len(migrations) == 0 {
		return true, nil
	}
	return lastMigration == migrations[len(migrations)-1].ID, nil
}
