package realtime

import (
	"time"

	"github.com/google/uuid"
)

// SeatStatusItem is the per-seat entry of a broadcast snapshot
type SeatStatusItem struct {
	SeatInventoryID uuid.UUID  `json:"seat_inventory_id"`
	SeatID          uuid.UUID  `json:"seat_id"`
	SectionName     string     `json:"section_name"`
	RowLabel        string     `json:"row_label"`
	SeatNumber      string     `json:"seat_number"`
	Status          string     `json:"status"`
	HoldExpiresAt   *time.Time `json:"hold_expires_at,omitempty"`
}

// SeatStatusMessage is published to the per-showtime channel after every
// inventory mutation so seat-map clients can reconcile without polling
type SeatStatusMessage struct {
	ShowtimeID uuid.UUID        `json:"showtime_id"`
	Seats      []SeatStatusItem `json:"seats"`
}
