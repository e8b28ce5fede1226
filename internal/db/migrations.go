package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/nurpe/contract-archive/internal/model"
)

func migrationStatements(dialect string) []string {
	columns := `id BIGINT PRIMARY KEY, data JSONB NOT NULL`
	if dialect == "sqlite" {
		columns = `id INTEGER PRIMARY KEY, data TEXT NOT NULL`
	}

	statements := make([]string, 0, len(model.Tables))
	for _, table := range model.Tables {
		statements = append(statements, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (%s);`, table, columns))
	}
	return statements
}

// Migrate creates the collection tables. Every statement is idempotent.
func Migrate(db *gorm.DB) error {
	for i, stmt := range migrationStatements(db.Dialector.Name()) {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
