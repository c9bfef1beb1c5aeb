package admission

import (
	"time"

	"github.com/google/uuid"
)

// Queue token statuses
const (
	StatusWaiting = "WAITING"
	StatusReady   = "READY"
)

// AnonymousUser is recorded when a caller enters the queue without identity.
const AnonymousUser = "anonymous"

// PositionUnknown is reported when a token is neither waiting nor ready,
// typically because its ready window lapsed and the ready-set entry expired.
const PositionUnknown = -1

// TokenMeta is the durable record behind a queue token.
type TokenMeta struct {
	EventID   uuid.UUID
	UserID    string
	CreatedAt time.Time
}

// EnterResult is returned when a caller joins an event queue.
type EnterResult struct {
	Token    string
	Position int64
}

// StatusResult describes where a token currently stands.
type StatusResult struct {
	EventID  uuid.UUID
	Status   string
	Position int64
}
