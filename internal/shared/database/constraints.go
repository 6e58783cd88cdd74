package database

import (
	"gorm.io/gorm"
)

// constraintStatements run on every start, so each one must be idempotent.
// PostgreSQL has no IF NOT EXISTS form for ADD CONSTRAINT, hence plain
// unique indexes instead of table constraints.
var constraintStatements = []string{
	// One materialized instance per route per calendar date. Concurrent
	// simulation passes rely on this to dedupe their inserts. AutoMigrate
	// already creates it from the model tags; this covers databases
	// migrated before the tags carried it.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_instance_template_date
		ON flight_instances (template_id, date)`,

	// Settlement scans filter on the awarded flag plus status.
	`CREATE INDEX IF NOT EXISTS idx_bookings_pending_settlement
		ON bookings (points_awarded, status)`,

	// Status board reads are always per-date.
	`CREATE INDEX IF NOT EXISTS idx_flight_instances_date
		ON flight_instances (date)`,
}

// MigrateConstraints adds critical database indexes for concurrency control
func MigrateConstraints(db *gorm.DB) error {
	for _, stmt := range constraintStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
