// Seeds a demo venue, seat grid, event and showtime for local development.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"ticketflow/internal/catalog"
	"ticketflow/internal/shared/config"
	"ticketflow/internal/shared/database"
	"ticketflow/internal/ticketing"
	"ticketflow/pkg/logger"

	"github.com/joho/godotenv"
)

const (
	sections     = 2
	rowsPerSect  = 5
	seatsPerRow  = 10
	standardFare = 50000
	premiumFare  = 90000
)

func main() {
	appLogger := logger.GetDefault()

	if err := godotenv.Load(); err != nil {
		appLogger.Info("No .env file found, using system environment variables")
	}

	cfg := config.Load()
	db, err := database.InitDB(cfg)
	if err != nil {
		appLogger.Error("failed to connect", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo := catalog.NewRepository(db.GetPostgreSQL())

	venue := &catalog.Venue{
		Name:     "Riverside Concert Hall",
		Address:  "1 Riverside Way",
		Capacity: sections * rowsPerSect * seatsPerRow,
	}
	if err := repo.CreateVenue(ctx, venue); err != nil {
		appLogger.Error("failed to create venue", slog.Any("error", err))
		os.Exit(1)
	}

	var seats []catalog.Seat
	for s := 0; s < sections; s++ {
		sectionName := string(rune('A' + s))
		price := int64(standardFare)
		seatType := "STANDARD"
		if s == 0 {
			price = premiumFare
			seatType = "PREMIUM"
		}
		for row := 1; row <= rowsPerSect; row++ {
			for num := 1; num <= seatsPerRow; num++ {
				seats = append(seats, catalog.Seat{
					VenueID:     venue.ID,
					SectionName: sectionName,
					RowLabel:    fmt.Sprintf("%d", row),
					SeatNumber:  fmt.Sprintf("%d", num),
					SeatType:    seatType,
					BasePrice:   price,
				})
			}
		}
	}
	if err := repo.CreateSeats(ctx, seats); err != nil {
		appLogger.Error("failed to create seats", slog.Any("error", err))
		os.Exit(1)
	}

	event := &catalog.Event{
		Title:       "Midsummer Night Live",
		Description: "Open-air orchestra with guest performers",
		VenueID:     venue.ID,
	}
	if err := repo.CreateEvent(ctx, event); err != nil {
		appLogger.Error("failed to create event", slog.Any("error", err))
		os.Exit(1)
	}

	start := time.Now().UTC().Add(30 * 24 * time.Hour).Truncate(time.Hour)
	showtime := &catalog.Showtime{
		EventID:       event.ID,
		VenueID:       venue.ID,
		StartDateTime: start,
		EndDateTime:   start.Add(3 * time.Hour),
		SalesOpenAt:   time.Now().UTC().Add(-time.Hour),
		SalesCloseAt:  start.Add(-time.Hour),
		Capacity:      len(seats),
		Status:        catalog.ShowtimeStatusOnSale,
	}
	if err := repo.CreateShowtime(ctx, showtime); err != nil {
		appLogger.Error("failed to create showtime", slog.Any("error", err))
		os.Exit(1)
	}

	// Provision inventory directly; the HTTP flow does this through the
	// ticketing service
	inventories := make([]ticketing.SeatInventory, 0, len(seats))
	for _, seat := range seats {
		inventories = append(inventories, ticketing.SeatInventory{
			ShowtimeID: showtime.ID,
			SeatID:     seat.ID,
			Price:      seat.BasePrice,
			Status:     ticketing.SeatAvailable,
		})
	}
	ticketingRepo := ticketing.NewRepository(db.GetPostgreSQL())
	if err := ticketingRepo.BulkCreateInventories(ctx, inventories); err != nil {
		appLogger.Error("failed to provision seat inventory", slog.Any("error", err))
		os.Exit(1)
	}

	appLogger.Info("Seed complete",
		slog.String("event_id", event.ID.String()),
		slog.String("showtime_id", showtime.ID.String()),
		slog.Int("seats", len(seats)),
	)
}
