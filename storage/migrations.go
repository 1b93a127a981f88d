package storage

import (
	"fmt"

	"gorm.io/gorm"
)

// schemaVersion is what the code expects. The database tracks its own
// version in PRAGMA user_version, starting at 0 on a fresh file.
const schemaVersion = 1

// migrations maps a target version to the step that reaches it from the
// previous one. Initialize applies them in ascending order.
var migrations = map[int]func(*gorm.DB) error{
	1: createLoggedFoods,
}

// Initialize brings the schema up to date. Idempotent: a database already at
// schemaVersion is left untouched. The version marker is only advanced after
// a step succeeds, so a failed step can be retried on the next start.
func (s *LogStore) Initialize() error {
	var version int
	if err := s.db.Raw("PRAGMA user_version").Scan(&version).Error; err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version >= schemaVersion {
		return nil
	}

	for next := version + 1; next <= schemaVersion; next++ {
		step, ok := migrations[next]
		if !ok {
			return fmt.Errorf("no migration to schema version %d", next)
		}
		if err := step(s.db); err != nil {
			return fmt.Errorf("apply migration %d: %w", next, err)
		}
		if err := s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", next)).Error; err != nil {
			return fmt.Errorf("record schema version %d: %w", next, err)
		}
	}
	return nil
}

func createLoggedFoods(db *gorm.DB) error {
	return db.Exec(`
		CREATE TABLE IF NOT EXISTS logged_foods (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			date TEXT,
			time TEXT,
			amount INTEGER,
			food_id INTEGER,
			food_data TEXT
		);`).Error
}
