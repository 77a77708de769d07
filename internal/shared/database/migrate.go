package database

import (
	"tably/internal/calendar"
	"tably/internal/learning"
	"tably/internal/reservations"
	"tably/internal/tables"
	"tably/internal/waitlist"

	"gorm.io/gorm"
)

// Migrate runs auto-migration for all persistent models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&tables.Table{},
		&reservations.Reservation{},
		&waitlist.WaitlistEntry{},
		&calendar.DemandWindow{},
		&learning.StatSnapshot{},
	)
}
