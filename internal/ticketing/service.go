package ticketing

import (
	"context"
	"fmt"
	"strings"

	"ticketflow/internal/catalog"
	"ticketflow/internal/notifications"
	"ticketflow/internal/payments"
	"ticketflow/internal/realtime"
	"ticketflow/internal/shared/apperrors"
	"ticketflow/internal/shared/config"
	"ticketflow/internal/shared/constants"
	"ticketflow/pkg/cache"
	"ticketflow/pkg/clock"
	"ticketflow/pkg/logger"

	"github.com/google/uuid"
)

// Service owns seat inventory and the reservation lifecycle. It also
// implements catalog.InventoryProvisioner, payments.Processor and
// payments.KindResolver for the ticket order kind.
type Service interface {
	// Inventory
	ProvisionForShowtime(ctx context.Context, showtime *catalog.Showtime, seats []catalog.Seat) error
	GetSeatMap(ctx context.Context, showtimeID uuid.UUID) (*realtime.SeatStatusMessage, error)
	RebroadcastShowtime(ctx context.Context, showtimeID uuid.UUID) error

	// Reservations
	CreateReservation(ctx context.Context, userID uuid.UUID, showtimeID uuid.UUID, inventoryIDs []uuid.UUID) (*Reservation, error)
	GetReservation(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*Reservation, []SeatInventory, error)
	ListReservations(ctx context.Context, userID uuid.UUID) ([]Reservation, error)
	CancelReservation(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
	SweepExpiredHolds(ctx context.Context) (int, error)

	// Payment routing
	ProcessConfirmedPayment(ctx context.Context, req payments.ConfirmRequest) error
	ResolveOrderKind(ctx context.Context, orderID string) (payments.OrderKind, bool, error)
}

const gatewayName = "toss"

type service struct {
	repo        Repository
	catalogRepo catalog.Repository
	gateway     payments.Gateway
	broadcaster realtime.Broadcaster
	producer    notifications.Producer
	cache       cache.Service
	clock       clock.Clock
	holds       config.HoldConfig
	log         *logger.Logger
}

func NewService(
	repo Repository,
	catalogRepo catalog.Repository,
	gateway payments.Gateway,
	broadcaster realtime.Broadcaster,
	producer notifications.Producer,
	cacheService cache.Service,
	clk clock.Clock,
	holds config.HoldConfig,
) Service {
	return &service{
		repo:        repo,
		catalogRepo: catalogRepo,
		gateway:     gateway,
		broadcaster: broadcaster,
		producer:    producer,
		cache:       cacheService,
		clock:       clk,
		holds:       holds,
		log:         logger.GetDefault(),
	}
}

// ProvisionForShowtime creates one AVAILABLE inventory row per venue seat,
// copying each seat's base price at registration time.
func (s *service) ProvisionForShowtime(ctx context.Context, showtime *catalog.Showtime, seats []catalog.Seat) error {
	inventories := make([]SeatInventory, 0, len(seats))
	for _, seat := range seats {
		inventories = append(inventories, SeatInventory{
			ShowtimeID: showtime.ID,
			SeatID:     seat.ID,
			Price:      seat.BasePrice,
			Status:     SeatAvailable,
		})
	}
	return s.repo.BulkCreateInventories(ctx, inventories)
}

// GetSeatMap returns the full seat snapshot for a showtime, served from a
// short-lived cache to absorb polling bursts during on-sales.
func (s *service) GetSeatMap(ctx context.Context, showtimeID uuid.UUID) (*realtime.SeatStatusMessage, error) {
	if _, err := s.catalogRepo.GetShowtime(ctx, showtimeID); err != nil {
		return nil, err
	}

	var snapshot realtime.SeatStatusMessage
	err := s.cache.GetOrSet(ctx, constants.SeatMapCacheKey(showtimeID.String()), constants.TTL_SEATMAP_SNAPSHOT,
		func() (interface{}, error) {
			return s.buildSnapshot(ctx, showtimeID)
		}, &snapshot)
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// RebroadcastShowtime republishes the full snapshot. Operational tool for
// recovering clients after a pub/sub hiccup.
func (s *service) RebroadcastShowtime(ctx context.Context, showtimeID uuid.UUID) error {
	snapshot, err := s.buildSnapshot(ctx, showtimeID)
	if err != nil {
		return err
	}
	return s.broadcaster.BroadcastSeatStatus(ctx, *snapshot)
}

// CreateReservation atomically claims the requested seats. All-or-nothing:
// one unavailable seat fails the whole request and leaves every seat
// untouched.
func (s *service) CreateReservation(ctx context.Context, userID uuid.UUID, showtimeID uuid.UUID, inventoryIDs []uuid.UUID) (*Reservation, error) {
	showtime, err := s.catalogRepo.GetShowtime(ctx, showtimeID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if now.Before(showtime.SalesOpenAt) || now.After(showtime.SalesCloseAt) {
		return nil, fmt.Errorf("sales window is closed for this showtime: %w", apperrors.ErrInvalidInput)
	}

	holdExpiresAt := now.Add(s.holds.HoldTTL)
	reservation := &Reservation{
		UserID:        userID,
		ShowtimeID:    showtimeID,
		Status:        ReservationPendingPayment,
		SeatCount:     len(inventoryIDs),
		OrderID:       NewOrderID(),
		ReservedAt:    now,
		HoldExpiresAt: holdExpiresAt,
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context) error {
		locked, err := s.repo.LockInventories(ctx, showtimeID, inventoryIDs)
		if err != nil {
			return err
		}
		if len(locked) != len(inventoryIDs) {
			return fmt.Errorf("%d of %d seats not found for this showtime: %w",
				len(inventoryIDs)-len(locked), len(inventoryIDs), apperrors.ErrSeatNotFound)
		}

		var conflicts []string
		var total int64
		for _, inv := range locked {
			if inv.Status != SeatAvailable {
				conflicts = append(conflicts, inv.ID.String())
				continue
			}
			total += inv.Price
		}
		if len(conflicts) > 0 {
			return fmt.Errorf("seats unavailable [%s]: %w",
				strings.Join(conflicts, ", "), apperrors.ErrSeatAlreadyReserved)
		}

		reservation.TotalPrice = total
		reservation.ReservationSeats = make([]ReservationSeat, 0, len(locked))
		for _, inv := range locked {
			reservation.ReservationSeats = append(reservation.ReservationSeats, ReservationSeat{
				SeatInventoryID: inv.ID,
				Price:           inv.Price,
			})
		}

		if err := s.repo.CreateReservation(ctx, reservation); err != nil {
			return err
		}
		return s.repo.MarkInventoriesReserved(ctx, inventoryIDs, reservation.ID, holdExpiresAt)
	})
	if err != nil {
		return nil, err
	}

	s.afterInventoryChange(ctx, showtimeID, reservation, notifications.EventReservationCreated)
	return reservation, nil
}

// GetReservation returns a reservation with its seat details, scoped to the
// owning user.
func (s *service) GetReservation(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*Reservation, []SeatInventory, error) {
	reservation, err := s.repo.GetReservationForUser(ctx, id, userID)
	if err != nil {
		return nil, nil, err
	}
	inventories, err := s.repo.ListInventoriesByReservation(ctx, reservation.ID)
	if err != nil {
		return nil, nil, err
	}
	return reservation, inventories, nil
}

func (s *service) ListReservations(ctx context.Context, userID uuid.UUID) ([]Reservation, error) {
	return s.repo.ListReservationsForUser(ctx, userID)
}

// CancelReservation cancels a pending or paid reservation and frees its
// seats. Paid reservations are refunded first; a failed refund aborts the
// cancellation so money and seats never diverge.
func (s *service) CancelReservation(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	reservation, err := s.repo.GetReservationForUser(ctx, id, userID)
	if err != nil {
		return err
	}

	switch reservation.Status {
	case ReservationCancelled, ReservationExpired:
		return apperrors.ErrAlreadyCancelledReservation
	}

	wasPaid := reservation.Status == ReservationPaid
	if wasPaid {
		if reservation.PaymentKey == nil {
			return fmt.Errorf("paid reservation %s has no payment key: %w", reservation.ID, apperrors.ErrInternal)
		}
		if _, err := s.gateway.Refund(ctx, *reservation.PaymentKey, "reservation cancelled"); err != nil {
			return fmt.Errorf("refund failed, reservation left intact: %w", err)
		}
	}

	now := s.clock.Now()
	err = s.repo.WithTx(ctx, func(ctx context.Context) error {
		ok, err := s.repo.TransitionReservationStatus(ctx, reservation.ID, reservation.Status, ReservationCancelled,
			map[string]interface{}{"cancelled_at": now})
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.ErrAlreadyCancelledReservation
		}
		if err := s.repo.ReleaseInventoriesByReservation(ctx, reservation.ID); err != nil {
			return err
		}
		if wasPaid {
			return s.repo.CreatePayment(ctx, &Payment{
				ReservationID:  reservation.ID,
				Amount:         reservation.TotalPrice,
				Status:         PaymentRefunded,
				PaymentGateway: gatewayName,
				PaymentKey:     *reservation.PaymentKey,
			})
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.afterInventoryChange(ctx, reservation.ShowtimeID, reservation, notifications.EventReservationCancelled)
	return nil
}

// ProcessConfirmedPayment captures payment for a ticket order and marks its
// seats sold. Confirming an already paid order with the same key is a no-op.
func (s *service) ProcessConfirmedPayment(ctx context.Context, req payments.ConfirmRequest) error {
	reservation, err := s.repo.GetReservationByOrderID(ctx, req.OrderID)
	if err != nil {
		return err
	}

	if reservation.Status == ReservationPaid {
		if reservation.PaymentKey != nil && *reservation.PaymentKey == req.PaymentKey {
			return nil
		}
		return fmt.Errorf("order %s already paid with a different key: %w", req.OrderID, apperrors.ErrInvalidInput)
	}
	if reservation.Status != ReservationPendingPayment {
		return fmt.Errorf("order %s is %s: %w", req.OrderID, reservation.Status, apperrors.ErrAlreadyCancelledReservation)
	}
	if req.Amount != reservation.TotalPrice {
		return fmt.Errorf("amount %d does not match order total %d: %w",
			req.Amount, reservation.TotalPrice, apperrors.ErrInvalidPaymentAmount)
	}

	result, err := s.gateway.Confirm(ctx, req)
	if err != nil {
		return err
	}

	now := s.clock.Now()
	err = s.repo.WithTx(ctx, func(ctx context.Context) error {
		ok, err := s.repo.TransitionReservationStatus(ctx, reservation.ID,
			ReservationPendingPayment, ReservationPaid,
			map[string]interface{}{"payment_key": req.PaymentKey, "paid_at": now})
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.ErrAlreadyCancelledReservation
		}
		if err := s.repo.MarkInventoriesSold(ctx, reservation.ID); err != nil {
			return err
		}
		return s.repo.CreatePayment(ctx, &Payment{
			ReservationID:  reservation.ID,
			Amount:         result.Amount,
			Status:         PaymentCompleted,
			PaymentGateway: gatewayName,
			PaymentKey:     result.PaymentKey,
			TransactionID:  result.TransactionID,
			Method:         result.Method,
		})
	})
	if err != nil {
		// The hold lapsed between the gateway capture and our commit.
		// Money was taken, so give it back before reporting failure.
		if _, refundErr := s.gateway.Refund(ctx, req.PaymentKey, "hold expired before confirmation"); refundErr != nil {
			s.log.WithError(refundErr).WithFields(map[string]interface{}{
				"order_id":    req.OrderID,
				"payment_key": req.PaymentKey,
			}).Error("Failed to refund orphaned payment capture")
		}
		return err
	}

	reservation.Status = ReservationPaid
	s.afterInventoryChange(ctx, reservation.ShowtimeID, reservation, notifications.EventReservationPaid)
	return nil
}

// ResolveOrderKind claims orders that exist in the reservation store.
func (s *service) ResolveOrderKind(ctx context.Context, orderID string) (payments.OrderKind, bool, error) {
	_, err := s.repo.GetReservationByOrderID(ctx, orderID)
	if err != nil {
		if apperrors.Code(err) == apperrors.ErrOrderNotFound.Code {
			return "", false, nil
		}
		return "", false, err
	}
	return payments.OrderKindTicket, true, nil
}

// SweepExpiredHolds reclaims seats from lapsed PENDING_PAYMENT reservations.
// Each reservation is handled in its own transaction so one failure never
// blocks the batch, and the status CAS keeps the sweep safe against a
// payment confirmation racing it.
func (s *service) SweepExpiredHolds(ctx context.Context) (int, error) {
	now := s.clock.Now()
	expired, err := s.repo.ListExpiredPendingReservations(ctx, now, s.holds.ReaperBatch)
	if err != nil {
		return 0, err
	}

	reclaimed := 0
	for i := range expired {
		reservation := &expired[i]
		err := s.repo.WithTx(ctx, func(ctx context.Context) error {
			ok, err := s.repo.TransitionReservationStatus(ctx, reservation.ID,
				ReservationPendingPayment, ReservationExpired, nil)
			if err != nil {
				return err
			}
			if !ok {
				// Paid or cancelled since we listed it
				return nil
			}
			reclaimed++
			return s.repo.ReleaseInventoriesByReservation(ctx, reservation.ID)
		})
		if err != nil {
			s.log.WithError(err).WithFields(map[string]interface{}{
				"reservation_id": reservation.ID,
			}).Error("Failed to expire reservation hold")
			continue
		}
		s.afterInventoryChange(ctx, reservation.ShowtimeID, reservation, notifications.EventReservationExpired)
	}
	return reclaimed, nil
}

// afterInventoryChange runs the post-commit fanout: snapshot broadcast,
// lifecycle event, cache invalidation. All best effort.
func (s *service) afterInventoryChange(ctx context.Context, showtimeID uuid.UUID, reservation *Reservation, eventType string) {
	if err := s.cache.Delete(ctx, constants.SeatMapCacheKey(showtimeID.String())); err != nil {
		s.log.WithError(err).Warn("Failed to invalidate seat map cache")
	}

	snapshot, err := s.buildSnapshot(ctx, showtimeID)
	if err != nil {
		s.log.WithError(err).WithFields(map[string]interface{}{
			"showtime_id": showtimeID,
		}).Error("Failed to build seat status snapshot")
	} else if err := s.broadcaster.BroadcastSeatStatus(ctx, *snapshot); err != nil {
		s.log.WithError(err).Warn("Failed to broadcast seat status")
	}

	if err := s.producer.PublishReservationEvent(ctx, notifications.ReservationEvent{
		Type:          eventType,
		ReservationID: reservation.ID,
		OrderID:       reservation.OrderID,
		UserID:        reservation.UserID,
		ShowtimeID:    showtimeID,
		SeatCount:     reservation.SeatCount,
		TotalPrice:    reservation.TotalPrice,
		OccurredAt:    s.clock.Now(),
	}); err != nil {
		s.log.WithError(err).Warn("Failed to publish reservation event")
	}
}

func (s *service) buildSnapshot(ctx context.Context, showtimeID uuid.UUID) (*realtime.SeatStatusMessage, error) {
	inventories, err := s.repo.ListInventoriesByShowtime(ctx, showtimeID)
	if err != nil {
		return nil, err
	}

	items := make([]realtime.SeatStatusItem, 0, len(inventories))
	for _, inv := range inventories {
		item := realtime.SeatStatusItem{
			SeatInventoryID: inv.ID,
			SeatID:          inv.SeatID,
			Status:          inv.Status,
			HoldExpiresAt:   inv.HoldExpiresAt,
		}
		if inv.Seat != nil {
			item.SectionName = inv.Seat.SectionName
			item.RowLabel = inv.Seat.RowLabel
			item.SeatNumber = inv.Seat.SeatNumber
		}
		items = append(items, item)
	}

	return &realtime.SeatStatusMessage{
		ShowtimeID: showtimeID,
		Seats:      items,
	}, nil
}
