package ticketing

import (
	"time"

	"ticketflow/internal/catalog"

	"github.com/google/uuid"
)

// Seat inventory states. RESERVED seats carry a hold deadline; SOLD seats
// never revert except through an explicit cancellation.
const (
	SeatAvailable = "AVAILABLE"
	SeatReserved  = "RESERVED"
	SeatSold      = "SOLD"
)

// Reservation lifecycle states
const (
	ReservationPendingPayment = "PENDING_PAYMENT"
	ReservationPaid           = "PAID"
	ReservationCancelled      = "CANCELLED"
	ReservationExpired        = "EXPIRED"
)

// Payment record states
const (
	PaymentCompleted = "COMPLETED"
	PaymentRefunded  = "REFUNDED"
)

// OrderIDPrefix marks ticket orders in the shared payment namespace.
const OrderIDPrefix = "tck-"

// SeatInventory is the per-showtime instantiation of a venue seat. The price
// is copied from the seat catalog at provisioning time so later catalog
// repricing never changes an open showtime.
type SeatInventory struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ShowtimeID    uuid.UUID  `gorm:"type:uuid;index;not null;uniqueIndex:idx_showtime_seat" json:"showtime_id"`
	SeatID        uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_showtime_seat" json:"seat_id"`
	ReservationID *uuid.UUID `gorm:"type:uuid;index" json:"reservation_id,omitempty"`
	Price         int64      `gorm:"not null" json:"price"`
	Status        string     `gorm:"type:varchar(20);not null;default:'AVAILABLE';check:status IN ('AVAILABLE', 'RESERVED', 'SOLD')" json:"status"`
	HoldExpiresAt *time.Time `gorm:"index" json:"hold_expires_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Relationships
	Seat *catalog.Seat `json:"seat,omitempty" gorm:"foreignKey:SeatID;constraint:OnDelete:RESTRICT;"`
}

// Reservation is an order for one or more seats of a single showtime.
type Reservation struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID        uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id"`
	ShowtimeID    uuid.UUID  `gorm:"type:uuid;index;not null" json:"showtime_id"`
	Status        string     `gorm:"type:varchar(20);not null;default:'PENDING_PAYMENT';check:status IN ('PENDING_PAYMENT', 'PAID', 'CANCELLED', 'EXPIRED')" json:"status"`
	TotalPrice    int64      `gorm:"not null" json:"total_price"`
	SeatCount     int        `gorm:"not null" json:"seat_count"`
	OrderID       string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"order_id"`
	PaymentKey    *string    `gorm:"type:varchar(200)" json:"payment_key,omitempty"`
	ReservedAt    time.Time  `gorm:"not null" json:"reserved_at"`
	HoldExpiresAt time.Time  `gorm:"index;not null" json:"hold_expires_at"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	CancelledAt   *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Relationships
	ReservationSeats []ReservationSeat `json:"reservation_seats,omitempty" gorm:"foreignKey:ReservationID;constraint:OnDelete:CASCADE;"`
}

// ReservationSeat links a reservation to one inventory row, freezing the
// price the seat was sold at.
type ReservationSeat struct {
	ID              uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ReservationID   uuid.UUID `gorm:"type:uuid;index;not null" json:"reservation_id"`
	SeatInventoryID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_reservation_inventory;not null" json:"seat_inventory_id"`
	Price           int64     `gorm:"not null" json:"price"`
	CreatedAt       time.Time `json:"created_at"`

	// Relationships
	SeatInventory *SeatInventory `json:"seat_inventory,omitempty" gorm:"foreignKey:SeatInventoryID;constraint:OnDelete:RESTRICT;"`
}

// Payment is the audit record of a gateway capture or refund.
type Payment struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ReservationID  uuid.UUID `gorm:"type:uuid;index;not null" json:"reservation_id"`
	Amount         int64     `gorm:"not null" json:"amount"`
	Status         string    `gorm:"type:varchar(20);not null;check:status IN ('COMPLETED', 'REFUNDED')" json:"status"`
	PaymentGateway string    `gorm:"type:varchar(50);not null" json:"payment_gateway"`
	PaymentKey     string    `gorm:"type:varchar(200);not null" json:"payment_key"`
	TransactionID  string    `gorm:"type:varchar(200)" json:"transaction_id"`
	Method         string    `gorm:"type:varchar(50)" json:"method"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewOrderID mints a ticket order ID in the shared payment namespace.
func NewOrderID() string {
	return OrderIDPrefix + uuid.NewString()
}

// TableName sets the table name for SeatInventory
func (SeatInventory) TableName() string {
	return "seat_inventories"
}

// TableName sets the table name for Reservation
func (Reservation) TableName() string {
	return "reservations"
}

// TableName sets the table name for ReservationSeat
func (ReservationSeat) TableName() string {
	return "reservation_seats"
}

// TableName sets the table name for Payment
func (Payment) TableName() string {
	return "payments"
}
