package database

import (
	"ticketflow/internal/catalog"
	"ticketflow/internal/ticketing"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&catalog.Venue{},
		&catalog.Seat{},
		&catalog.Event{},
		&catalog.Showtime{},
		&ticketing.SeatInventory{},
		&ticketing.Reservation{},
		&ticketing.ReservationSeat{},
		&ticketing.Payment{},
	)
}
