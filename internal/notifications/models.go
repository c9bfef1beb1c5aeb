package notifications

import (
	"time"

	"github.com/google/uuid"
)

// Reservation lifecycle event types
const (
	EventReservationCreated   = "reservation.created"
	EventReservationPaid      = "reservation.paid"
	EventReservationCancelled = "reservation.cancelled"
	EventReservationExpired   = "reservation.expired"
)

// ReservationEvent is published to Kafka on every reservation transition so
// downstream consumers (email, analytics) can react without coupling to the
// booking flow.
type ReservationEvent struct {
	Type          string    `json:"type"`
	ReservationID uuid.UUID `json:"reservation_id"`
	OrderID       string    `json:"order_id"`
	UserID        uuid.UUID `json:"user_id"`
	ShowtimeID    uuid.UUID `json:"showtime_id"`
	SeatCount     int       `json:"seat_count"`
	TotalPrice    int64     `json:"total_price"`
	OccurredAt    time.Time `json:"occurred_at"`
}
