package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Showtime lifecycle states
const (
	ShowtimeStatusScheduled = "SCHEDULED"
	ShowtimeStatusOnSale    = "ON_SALE"
	ShowtimeStatusClosed    = "CLOSED"
	ShowtimeStatusCancelled = "CANCELLED"
)

// Venue defines a physical location with a fixed seat catalog
type Venue struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Address   string    `json:"address"`
	Capacity  int       `gorm:"not null" json:"capacity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Seats []Seat `json:"seats,omitempty" gorm:"foreignKey:VenueID;constraint:OnDelete:CASCADE;"`
}

// Seat is one physical seat in a venue. Static catalog data: inventory state
// per showtime lives in the ticketing seat_inventory table, not here.
type Seat struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	VenueID     uuid.UUID `gorm:"type:uuid;index;not null" json:"venue_id"`
	SectionName string    `gorm:"type:varchar(50);not null" json:"section_name"`
	RowLabel    string    `gorm:"type:varchar(10);not null" json:"row_label"`
	SeatNumber  string    `gorm:"type:varchar(10);not null" json:"seat_number"`
	SeatType    string    `gorm:"type:varchar(20);default:'STANDARD'" json:"seat_type"`
	BasePrice   int64     `gorm:"not null" json:"base_price"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relationships
	Venue *Venue `json:"venue,omitempty" gorm:"foreignKey:VenueID;constraint:OnDelete:CASCADE;"`
}

// Event defines a performance or production that gets scheduled at venues
type Event struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	VenueID     uuid.UUID `gorm:"type:uuid;index;not null" json:"venue_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relationships
	Venue     *Venue     `json:"venue,omitempty" gorm:"foreignKey:VenueID;constraint:OnDelete:RESTRICT;"`
	Showtimes []Showtime `json:"showtimes,omitempty" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE;"`
}

// Showtime is one scheduled occurrence of an event at a venue: the unit
// against which seat inventory is instantiated.
type Showtime struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	EventID       uuid.UUID `gorm:"type:uuid;index;not null" json:"event_id"`
	VenueID       uuid.UUID `gorm:"type:uuid;index;not null" json:"venue_id"`
	StartDateTime time.Time `gorm:"not null" json:"start_date_time"`
	EndDateTime   time.Time `gorm:"not null" json:"end_date_time"`
	SalesOpenAt   time.Time `gorm:"not null" json:"sales_open_at"`
	SalesCloseAt  time.Time `gorm:"not null" json:"sales_close_at"`
	Capacity      int       `gorm:"not null" json:"capacity"`
	Status        string    `gorm:"type:varchar(20);check:status IN ('SCHEDULED', 'ON_SALE', 'CLOSED', 'CANCELLED');default:'SCHEDULED'" json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Relationships
	Event *Event `json:"event,omitempty" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE;"`
	Venue *Venue `json:"venue,omitempty" gorm:"foreignKey:VenueID;constraint:OnDelete:RESTRICT;"`
}

// TableName sets the table name for Venue
func (Venue) TableName() string {
	return "venues"
}

// TableName sets the table name for Seat
func (Seat) TableName() string {
	return "seats"
}

// TableName sets the table name for Event
func (Event) TableName() string {
	return "events"
}

// TableName sets the table name for Showtime
func (Showtime) TableName() string {
	return "showtimes"
}
