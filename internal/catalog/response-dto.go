package catalog

import (
	"time"

	"github.com/google/uuid"
)

// ShowtimeResponse represents showtime details in responses
type ShowtimeResponse struct {
	ID            uuid.UUID `json:"id"`
	EventID       uuid.UUID `json:"event_id"`
	EventTitle    string    `json:"event_title,omitempty"`
	VenueID       uuid.UUID `json:"venue_id"`
	VenueName     string    `json:"venue_name,omitempty"`
	StartDateTime time.Time `json:"start_date_time"`
	EndDateTime   time.Time `json:"end_date_time"`
	SalesOpenAt   time.Time `json:"sales_open_at"`
	SalesCloseAt  time.Time `json:"sales_close_at"`
	Capacity      int       `json:"capacity"`
	Status        string    `json:"status"`
}

func toShowtimeResponse(showtime *Showtime) ShowtimeResponse {
	resp := ShowtimeResponse{
		ID:            showtime.ID,
		EventID:       showtime.EventID,
		VenueID:       showtime.VenueID,
		StartDateTime: showtime.StartDateTime,
		EndDateTime:   showtime.EndDateTime,
		SalesOpenAt:   showtime.SalesOpenAt,
		SalesCloseAt:  showtime.SalesCloseAt,
		Capacity:      showtime.Capacity,
		Status:        showtime.Status,
	}
	if showtime.Event != nil {
		resp.EventTitle = showtime.Event.Title
	}
	if showtime.Venue != nil {
		resp.VenueName = showtime.Venue.Name
	}
	return resp
}
