package ticketing

import (
	"time"

	"github.com/google/uuid"
)

// ReservationResponse represents a reservation in API responses
type ReservationResponse struct {
	ID            uuid.UUID              `json:"id"`
	ShowtimeID    uuid.UUID              `json:"showtime_id"`
	Status        string                 `json:"status"`
	TotalPrice    int64                  `json:"total_price"`
	SeatCount     int                    `json:"seat_count"`
	OrderID       string                 `json:"order_id"`
	ReservedAt    time.Time              `json:"reserved_at"`
	HoldExpiresAt time.Time              `json:"hold_expires_at"`
	PaidAt        *time.Time             `json:"paid_at,omitempty"`
	CancelledAt   *time.Time             `json:"cancelled_at,omitempty"`
	Seats         []ReservedSeatResponse `json:"seats,omitempty"`
}

// ReservedSeatResponse describes one seat within a reservation
type ReservedSeatResponse struct {
	SeatInventoryID uuid.UUID `json:"seat_inventory_id"`
	SectionName     string    `json:"section_name,omitempty"`
	RowLabel        string    `json:"row_label,omitempty"`
	SeatNumber      string    `json:"seat_number,omitempty"`
	Price           int64     `json:"price"`
}

func toReservationResponse(reservation *Reservation, inventories []SeatInventory) ReservationResponse {
	resp := ReservationResponse{
		ID:            reservation.ID,
		ShowtimeID:    reservation.ShowtimeID,
		Status:        reservation.Status,
		TotalPrice:    reservation.TotalPrice,
		SeatCount:     reservation.SeatCount,
		OrderID:       reservation.OrderID,
		ReservedAt:    reservation.ReservedAt,
		HoldExpiresAt: reservation.HoldExpiresAt,
		PaidAt:        reservation.PaidAt,
		CancelledAt:   reservation.CancelledAt,
	}

	for _, inv := range inventories {
		seat := ReservedSeatResponse{
			SeatInventoryID: inv.ID,
			Price:           inv.Price,
		}
		if inv.Seat != nil {
			seat.SectionName = inv.Seat.SectionName
			seat.RowLabel = inv.Seat.RowLabel
			seat.SeatNumber = inv.Seat.SeatNumber
		}
		resp.Seats = append(resp.Seats, seat)
	}
	return resp
}
