package catalog

import (
	"context"
	"errors"
	"fmt"

	"ticketflow/internal/shared/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository interface defines the contract for catalog data operations
type Repository interface {
	// Venues and seats
	CreateVenue(ctx context.Context, venue *Venue) error
	GetVenue(ctx context.Context, id uuid.UUID) (*Venue, error)
	CreateSeats(ctx context.Context, seats []Seat) error
	ListSeatsByVenue(ctx context.Context, venueID uuid.UUID) ([]Seat, error)

	// Events
	CreateEvent(ctx context.Context, event *Event) error
	GetEvent(ctx context.Context, id uuid.UUID) (*Event, error)

	// Showtimes
	CreateShowtime(ctx context.Context, showtime *Showtime) error
	GetShowtime(ctx context.Context, id uuid.UUID) (*Showtime, error)
	ListShowtimesByEvent(ctx context.Context, eventID uuid.UUID) ([]Showtime, error)
}

// repository implements the Repository interface
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new catalog repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// CreateVenue creates a new venue
func (r *repository) CreateVenue(ctx context.Context, venue *Venue) error {
	if err := r.db.WithContext(ctx).Create(venue).Error; err != nil {
		return fmt.Errorf("failed to create venue: %w", err)
	}
	return nil
}

// GetVenue gets a venue by ID
func (r *repository) GetVenue(ctx context.Context, id uuid.UUID) (*Venue, error) {
	var venue Venue
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&venue).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrVenueNotFound
		}
		return nil, fmt.Errorf("failed to get venue: %w", err)
	}
	return &venue, nil
}

// CreateSeats creates seat catalog rows in bulk
func (r *repository) CreateSeats(ctx context.Context, seats []Seat) error {
	if len(seats) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).CreateInBatches(seats, 500).Error; err != nil {
		return fmt.Errorf("failed to create seats: %w", err)
	}
	return nil
}

// ListSeatsByVenue lists the full seat catalog of a venue
func (r *repository) ListSeatsByVenue(ctx context.Context, venueID uuid.UUID) ([]Seat, error) {
	var seats []Seat
	err := r.db.WithContext(ctx).
		Where("venue_id = ?", venueID).
		Order("section_name ASC, row_label ASC, seat_number ASC").
		Find(&seats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list venue seats: %w", err)
	}
	return seats, nil
}

// CreateEvent creates a new event
func (r *repository) CreateEvent(ctx context.Context, event *Event) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

// GetEvent gets an event by ID
func (r *repository) GetEvent(ctx context.Context, id uuid.UUID) (*Event, error) {
	var event Event
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return &event, nil
}

// CreateShowtime creates a new showtime
func (r *repository) CreateShowtime(ctx context.Context, showtime *Showtime) error {
	if err := r.db.WithContext(ctx).Create(showtime).Error; err != nil {
		return fmt.Errorf("failed to create showtime: %w", err)
	}
	return nil
}

// GetShowtime gets a showtime by ID with event and venue preloaded
func (r *repository) GetShowtime(ctx context.Context, id uuid.UUID) (*Showtime, error) {
	var showtime Showtime
	err := r.db.WithContext(ctx).
		Preload("Event").
		Preload("Venue").
		Where("id = ?", id).
		First(&showtime).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrShowtimeNotFound
		}
		return nil, fmt.Errorf("failed to get showtime: %w", err)
	}
	return &showtime, nil
}

// ListShowtimesByEvent lists showtimes for an event
func (r *repository) ListShowtimesByEvent(ctx context.Context, eventID uuid.UUID) ([]Showtime, error) {
	var showtimes []Showtime
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("start_date_time ASC").
		Find(&showtimes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list showtimes: %w", err)
	}
	return showtimes, nil
}
