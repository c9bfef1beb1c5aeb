package catalog

import "time"

// RegisterShowtimeRequest represents a showtime registration request
type RegisterShowtimeRequest struct {
	EventID       string    `json:"event_id" binding:"required,uuid"`
	StartDateTime time.Time `json:"start_date_time" binding:"required"`
	EndDateTime   time.Time `json:"end_date_time" binding:"required"`
	SalesOpenAt   time.Time `json:"sales_open_at" binding:"required"`
	SalesCloseAt  time.Time `json:"sales_close_at" binding:"required"`
}
