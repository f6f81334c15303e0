package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// compositeIndexes are indexes the model tags do not declare.
var compositeIndexes = []struct {
	table   string
	name    string
	columns string
}{
	// status filter combined with the default sort
	{"tasks", "idx_tasks_status_created_at", "status, created_at"},
	{"tasks", "idx_tasks_updated_at", "updated_at"},
}

// AddIndexes creates any missing composite index. Existing ones are skipped
// so it is safe to run on every start.
func AddIndexes(db *gorm.DB, log *zap.Logger) error {
	migrator := db.Migrator()

	for _, idx := range compositeIndexes {
		if migrator.HasIndex(idx.table, idx.name) {
			log.Debug("Index already exists, skipping", zap.String("index", idx.name))
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Info("Created index",
			zap.String("index", idx.name),
			zap.String("table", idx.table),
			zap.String("columns", idx.columns),
		)
	}

	return nil
}
