package admission

// EnterQueueRequest represents a queue entry request
type EnterQueueRequest struct {
	EventID string `json:"event_id" binding:"required,uuid"`
	UserID  string `json:"user_id" binding:"omitempty,max=100"`
}

// AdmitRequest represents a manual admission request (admin)
type AdmitRequest struct {
	EventID string `json:"event_id" binding:"required,uuid"`
	Count   int    `json:"count" binding:"omitempty,min=1,max=10000"`
}
