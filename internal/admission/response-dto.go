package admission

import "github.com/google/uuid"

// EnterQueueResponse returns the issued token and starting position
type EnterQueueResponse struct {
	Token    string `json:"token"`
	Position int64  `json:"position"`
}

// QueueStatusResponse reports where a token stands
type QueueStatusResponse struct {
	EventID  uuid.UUID `json:"event_id"`
	Status   string    `json:"status"`
	Position int64     `json:"position"`
}

// AdmitResponse reports how many entries a manual admission moved
type AdmitResponse struct {
	EventID  uuid.UUID `json:"event_id"`
	Admitted int64     `json:"admitted"`
}
