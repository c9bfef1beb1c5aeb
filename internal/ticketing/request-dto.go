package ticketing

// CreateReservationRequest represents a seat reservation request
type CreateReservationRequest struct {
	ShowtimeID       string   `json:"showtime_id" binding:"required,uuid"`
	SeatInventoryIDs []string `json:"seat_inventory_ids" binding:"required,min=1,max=10,dive,uuid"`
}
