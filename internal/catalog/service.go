package catalog

import (
	"context"
	"fmt"

	"ticketflow/internal/shared/apperrors"

	"github.com/google/uuid"
)

// InventoryProvisioner creates the per-showtime seat inventory rows when a
// showtime is registered. Implemented by the ticketing service; declared here
// to avoid a circular dependency.
type InventoryProvisioner interface {
	ProvisionForShowtime(ctx context.Context, showtime *Showtime, seats []Seat) error
}

// Service interface defines the contract for catalog business logic
type Service interface {
	RegisterShowtime(ctx context.Context, req RegisterShowtimeRequest) (*ShowtimeResponse, error)
	GetShowtime(ctx context.Context, id uuid.UUID) (*ShowtimeResponse, error)
	ListShowtimesByEvent(ctx context.Context, eventID uuid.UUID) ([]ShowtimeResponse, error)
}

// service implements the Service interface
type service struct {
	repo        Repository
	provisioner InventoryProvisioner
}

// NewService creates a new catalog service instance
func NewService(repo Repository, provisioner InventoryProvisioner) Service {
	return &service{
		repo:        repo,
		provisioner: provisioner,
	}
}

// RegisterShowtime creates a showtime and bulk-provisions one seat inventory
// row per venue seat, copying each seat's base price at registration time.
func (s *service) RegisterShowtime(ctx context.Context, req RegisterShowtimeRequest) (*ShowtimeResponse, error) {
	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event id: %w", apperrors.ErrInvalidInput)
	}

	event, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	venue, err := s.repo.GetVenue(ctx, event.VenueID)
	if err != nil {
		return nil, err
	}

	if !req.EndDateTime.After(req.StartDateTime) {
		return nil, fmt.Errorf("showtime must end after it starts: %w", apperrors.ErrInvalidInput)
	}
	if !req.SalesCloseAt.After(req.SalesOpenAt) {
		return nil, fmt.Errorf("sales window must close after it opens: %w", apperrors.ErrInvalidInput)
	}

	seats, err := s.repo.ListSeatsByVenue(ctx, venue.ID)
	if err != nil {
		return nil, err
	}

	showtime := &Showtime{
		EventID:       event.ID,
		VenueID:       venue.ID,
		StartDateTime: req.StartDateTime,
		EndDateTime:   req.EndDateTime,
		SalesOpenAt:   req.SalesOpenAt,
		SalesCloseAt:  req.SalesCloseAt,
		Capacity:      len(seats),
		Status:        ShowtimeStatusScheduled,
	}

	if err := s.repo.CreateShowtime(ctx, showtime); err != nil {
		return nil, err
	}

	// One inventory row per venue seat, priced from the seat catalog
	if err := s.provisioner.ProvisionForShowtime(ctx, showtime, seats); err != nil {
		return nil, fmt.Errorf("failed to provision seat inventory: %w", err)
	}

	showtime.Event = event
	showtime.Venue = venue
	resp := toShowtimeResponse(showtime)
	return &resp, nil
}

// GetShowtime retrieves a showtime by ID
func (s *service) GetShowtime(ctx context.Context, id uuid.UUID) (*ShowtimeResponse, error) {
	showtime, err := s.repo.GetShowtime(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toShowtimeResponse(showtime)
	return &resp, nil
}

// ListShowtimesByEvent lists showtimes for an event
func (s *service) ListShowtimesByEvent(ctx context.Context, eventID uuid.UUID) ([]ShowtimeResponse, error) {
	showtimes, err := s.repo.ListShowtimesByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	responses := make([]ShowtimeResponse, 0, len(showtimes))
	for i := range showtimes {
		responses = append(responses, toShowtimeResponse(&showtimes[i]))
	}
	return responses, nil
}
