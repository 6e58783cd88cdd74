package database

import (
	"yellowair/internal/bookings"
	"yellowair/internal/flights"
	"yellowair/internal/routes"
	"yellowair/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	// uuid_generate_v4 defaults on primary keys need the extension in place
	// before the tables.
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		return err
	}

	if err := db.AutoMigrate(
		&users.User{},
		&routes.RouteTemplate{},
		&flights.FlightInstance{},
		&bookings.Booking{},
	); err != nil {
		return err
	}

	return MigrateConstraints(db)
}
