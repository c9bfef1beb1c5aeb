package ticketing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ticketflow/internal/shared/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository is the data contract for seat inventory and reservations.
// Mutating operations respect an ambient transaction opened via WithTx.
type Repository interface {
	// WithTx runs fn inside a database transaction. Repository calls made
	// with the context fn receives join that transaction.
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error

	// Inventory
	BulkCreateInventories(ctx context.Context, inventories []SeatInventory) error
	LockInventories(ctx context.Context, showtimeID uuid.UUID, inventoryIDs []uuid.UUID) ([]SeatInventory, error)
	MarkInventoriesReserved(ctx context.Context, inventoryIDs []uuid.UUID, reservationID uuid.UUID, holdExpiresAt time.Time) error
	MarkInventoriesSold(ctx context.Context, reservationID uuid.UUID) error
	ReleaseInventoriesByReservation(ctx context.Context, reservationID uuid.UUID) error
	ListInventoriesByReservation(ctx context.Context, reservationID uuid.UUID) ([]SeatInventory, error)
	ListInventoriesByShowtime(ctx context.Context, showtimeID uuid.UUID) ([]SeatInventory, error)

	// Reservations
	CreateReservation(ctx context.Context, reservation *Reservation) error
	GetReservation(ctx context.Context, id uuid.UUID) (*Reservation, error)
	GetReservationForUser(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*Reservation, error)
	GetReservationByOrderID(ctx context.Context, orderID string) (*Reservation, error)
	ListReservationsForUser(ctx context.Context, userID uuid.UUID) ([]Reservation, error)
	TransitionReservationStatus(ctx context.Context, id uuid.UUID, from, to string, updates map[string]interface{}) (bool, error)
	ListExpiredPendingReservations(ctx context.Context, now time.Time, limit int) ([]Reservation, error)

	// Payments
	CreatePayment(ctx context.Context, payment *Payment) error
}

type txContextKey struct{}

// repository implements the Repository interface
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new ticketing repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// conn returns the ambient transaction when one is open, the base handle
// otherwise.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return tx
	}
	return r.db
}

func (r *repository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txContextKey{}, tx))
	})
}

// BulkCreateInventories provisions inventory rows in batches
func (r *repository) BulkCreateInventories(ctx context.Context, inventories []SeatInventory) error {
	if len(inventories) == 0 {
		return nil
	}
	if err := r.conn(ctx).WithContext(ctx).CreateInBatches(inventories, 500).Error; err != nil {
		return fmt.Errorf("failed to create seat inventories: %w", err)
	}
	return nil
}

// LockInventories loads the requested inventory rows under FOR UPDATE.
// Rows come back ordered by ID so concurrent reservations acquire locks in
// the same order and cannot deadlock each other.
func (r *repository) LockInventories(ctx context.Context, showtimeID uuid.UUID, inventoryIDs []uuid.UUID) ([]SeatInventory, error) {
	var inventories []SeatInventory
	err := r.conn(ctx).WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ? AND showtime_id = ?", inventoryIDs, showtimeID).
		Order("id ASC").
		Find(&inventories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to lock seat inventories: %w", err)
	}
	return inventories, nil
}

func (r *repository) MarkInventoriesReserved(ctx context.Context, inventoryIDs []uuid.UUID, reservationID uuid.UUID, holdExpiresAt time.Time) error {
	err := r.conn(ctx).WithContext(ctx).
		Model(&SeatInventory{}).
		Where("id IN ?", inventoryIDs).
		Updates(map[string]interface{}{
			"status":          SeatReserved,
			"reservation_id":  reservationID,
			"hold_expires_at": holdExpiresAt,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to reserve seat inventories: %w", err)
	}
	return nil
}

func (r *repository) MarkInventoriesSold(ctx context.Context, reservationID uuid.UUID) error {
	err := r.conn(ctx).WithContext(ctx).
		Model(&SeatInventory{}).
		Where("reservation_id = ?", reservationID).
		Updates(map[string]interface{}{
			"status":          SeatSold,
			"hold_expires_at": nil,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to mark seat inventories sold: %w", err)
	}
	return nil
}

func (r *repository) ReleaseInventoriesByReservation(ctx context.Context, reservationID uuid.UUID) error {
	err := r.conn(ctx).WithContext(ctx).
		Model(&SeatInventory{}).
		Where("reservation_id = ?", reservationID).
		Updates(map[string]interface{}{
			"status":          SeatAvailable,
			"reservation_id":  nil,
			"hold_expires_at": nil,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to release seat inventories: %w", err)
	}
	return nil
}

func (r *repository) ListInventoriesByReservation(ctx context.Context, reservationID uuid.UUID) ([]SeatInventory, error) {
	var inventories []SeatInventory
	err := r.conn(ctx).WithContext(ctx).
		Preload("Seat").
		Where("reservation_id = ?", reservationID).
		Order("id ASC").
		Find(&inventories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reservation inventories: %w", err)
	}
	return inventories, nil
}

func (r *repository) ListInventoriesByShowtime(ctx context.Context, showtimeID uuid.UUID) ([]SeatInventory, error) {
	var inventories []SeatInventory
	err := r.conn(ctx).WithContext(ctx).
		Preload("Seat").
		Where("showtime_id = ?", showtimeID).
		Order("id ASC").
		Find(&inventories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list showtime inventories: %w", err)
	}
	return inventories, nil
}

// CreateReservation persists the reservation and its seat links
func (r *repository) CreateReservation(ctx context.Context, reservation *Reservation) error {
	if err := r.conn(ctx).WithContext(ctx).Create(reservation).Error; err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}
	return nil
}

func (r *repository) GetReservation(ctx context.Context, id uuid.UUID) (*Reservation, error) {
	var reservation Reservation
	err := r.conn(ctx).WithContext(ctx).
		Preload("ReservationSeats").
		Where("id = ?", id).
		First(&reservation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}
	return &reservation, nil
}

func (r *repository) GetReservationForUser(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*Reservation, error) {
	var reservation Reservation
	err := r.conn(ctx).WithContext(ctx).
		Preload("ReservationSeats").
		Where("id = ? AND user_id = ?", id, userID).
		First(&reservation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}
	return &reservation, nil
}

func (r *repository) GetReservationByOrderID(ctx context.Context, orderID string) (*Reservation, error) {
	var reservation Reservation
	err := r.conn(ctx).WithContext(ctx).
		Preload("ReservationSeats").
		Where("order_id = ?", orderID).
		First(&reservation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get reservation by order: %w", err)
	}
	return &reservation, nil
}

func (r *repository) ListReservationsForUser(ctx context.Context, userID uuid.UUID) ([]Reservation, error) {
	var reservations []Reservation
	err := r.conn(ctx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("reserved_at DESC").
		Find(&reservations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return reservations, nil
}

// TransitionReservationStatus performs a compare-and-set on the status
// column. Returns false when the reservation was not in the expected state,
// which callers treat as losing the race to a concurrent transition.
func (r *repository) TransitionReservationStatus(ctx context.Context, id uuid.UUID, from, to string, updates map[string]interface{}) (bool, error) {
	values := map[string]interface{}{"status": to}
	for k, v := range updates {
		values[k] = v
	}

	result := r.conn(ctx).WithContext(ctx).
		Model(&Reservation{}).
		Where("id = ? AND status = ?", id, from).
		Updates(values)
	if result.Error != nil {
		return false, fmt.Errorf("failed to transition reservation status: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) ListExpiredPendingReservations(ctx context.Context, now time.Time, limit int) ([]Reservation, error) {
	var reservations []Reservation
	err := r.conn(ctx).WithContext(ctx).
		Where("status = ? AND hold_expires_at <= ?", ReservationPendingPayment, now).
		Order("hold_expires_at ASC").
		Limit(limit).
		Find(&reservations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list expired reservations: %w", err)
	}
	return reservations, nil
}

func (r *repository) CreatePayment(ctx context.Context, payment *Payment) error {
	if err := r.conn(ctx).WithContext(ctx).Create(payment).Error; err != nil {
		return fmt.Errorf("failed to create payment record: %w", err)
	}
	return nil
}
