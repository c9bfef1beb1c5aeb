package ticketing

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"ticketflow/internal/catalog"
	"ticketflow/internal/notifications"
	"ticketflow/internal/payments"
	"ticketflow/internal/realtime"
	"ticketflow/internal/shared/apperrors"
	"ticketflow/internal/shared/config"
	"ticketflow/pkg/cache"
	"ticketflow/pkg/clock"

	"github.com/google/uuid"
)

// fakeRepo is an in-memory Repository. WithTx serializes on a mutex, which
// gives the same winner-takes-all behavior row locks give in Postgres.
type fakeRepo struct {
	mu           sync.Mutex
	inventories  map[uuid.UUID]*SeatInventory
	reservations map[uuid.UUID]*Reservation
	payments     []Payment
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		inventories:  make(map[uuid.UUID]*SeatInventory),
		reservations: make(map[uuid.UUID]*Reservation),
	}
}

func (f *fakeRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(ctx)
}

func (f *fakeRepo) BulkCreateInventories(_ context.Context, inventories []SeatInventory) error {
	for i := range inventories {
		inv := inventories[i]
		if inv.ID == uuid.Nil {
			inv.ID = uuid.New()
		}
		f.inventories[inv.ID] = &inv
	}
	return nil
}

func (f *fakeRepo) LockInventories(_ context.Context, showtimeID uuid.UUID, inventoryIDs []uuid.UUID) ([]SeatInventory, error) {
	var result []SeatInventory
	for _, id := range inventoryIDs {
		if inv, ok := f.inventories[id]; ok && inv.ShowtimeID == showtimeID {
			result = append(result, *inv)
		}
	}
	return result, nil
}

func (f *fakeRepo) MarkInventoriesReserved(_ context.Context, inventoryIDs []uuid.UUID, reservationID uuid.UUID, holdExpiresAt time.Time) error {
	for _, id := range inventoryIDs {
		inv := f.inventories[id]
		rid := reservationID
		expires := holdExpiresAt
		inv.Status = SeatReserved
		inv.ReservationID = &rid
		inv.HoldExpiresAt = &expires
	}
	return nil
}

func (f *fakeRepo) MarkInventoriesSold(_ context.Context, reservationID uuid.UUID) error {
	for _, inv := range f.inventories {
		if inv.ReservationID != nil && *inv.ReservationID == reservationID {
			inv.Status = SeatSold
			inv.HoldExpiresAt = nil
		}
	}
	return nil
}

func (f *fakeRepo) ReleaseInventoriesByReservation(_ context.Context, reservationID uuid.UUID) error {
	for _, inv := range f.inventories {
		if inv.ReservationID != nil && *inv.ReservationID == reservationID {
			inv.Status = SeatAvailable
			inv.ReservationID = nil
			inv.HoldExpiresAt = nil
		}
	}
	return nil
}

func (f *fakeRepo) ListInventoriesByReservation(_ context.Context, reservationID uuid.UUID) ([]SeatInventory, error) {
	var result []SeatInventory
	for _, inv := range f.inventories {
		if inv.ReservationID != nil && *inv.ReservationID == reservationID {
			result = append(result, *inv)
		}
	}
	return result, nil
}

func (f *fakeRepo) ListInventoriesByShowtime(_ context.Context, showtimeID uuid.UUID) ([]SeatInventory, error) {
	var result []SeatInventory
	for _, inv := range f.inventories {
		if inv.ShowtimeID == showtimeID {
			result = append(result, *inv)
		}
	}
	return result, nil
}

func (f *fakeRepo) CreateReservation(_ context.Context, reservation *Reservation) error {
	if reservation.ID == uuid.Nil {
		reservation.ID = uuid.New()
	}
	stored := *reservation
	f.reservations[reservation.ID] = &stored
	return nil
}

func (f *fakeRepo) GetReservation(_ context.Context, id uuid.UUID) (*Reservation, error) {
	if r, ok := f.reservations[id]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, apperrors.ErrReservationNotFound
}

func (f *fakeRepo) GetReservationForUser(_ context.Context, id uuid.UUID, userID uuid.UUID) (*Reservation, error) {
	if r, ok := f.reservations[id]; ok && r.UserID == userID {
		copied := *r
		return &copied, nil
	}
	return nil, apperrors.ErrReservationNotFound
}

func (f *fakeRepo) GetReservationByOrderID(_ context.Context, orderID string) (*Reservation, error) {
	for _, r := range f.reservations {
		if r.OrderID == orderID {
			copied := *r
			return &copied, nil
		}
	}
	return nil, apperrors.ErrOrderNotFound
}

func (f *fakeRepo) ListReservationsForUser(_ context.Context, userID uuid.UUID) ([]Reservation, error) {
	var result []Reservation
	for _, r := range f.reservations {
		if r.UserID == userID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (f *fakeRepo) TransitionReservationStatus(_ context.Context, id uuid.UUID, from, to string, updates map[string]interface{}) (bool, error) {
	r, ok := f.reservations[id]
	if !ok || r.Status != from {
		return false, nil
	}
	r.Status = to
	if v, ok := updates["payment_key"].(string); ok {
		r.PaymentKey = &v
	}
	if v, ok := updates["paid_at"].(time.Time); ok {
		r.PaidAt = &v
	}
	if v, ok := updates["cancelled_at"].(time.Time); ok {
		r.CancelledAt = &v
	}
	return true, nil
}

func (f *fakeRepo) ListExpiredPendingReservations(_ context.Context, now time.Time, limit int) ([]Reservation, error) {
	var result []Reservation
	for _, r := range f.reservations {
		if r.Status == ReservationPendingPayment && !r.HoldExpiresAt.After(now) {
			result = append(result, *r)
			if len(result) == limit {
				break
			}
		}
	}
	return result, nil
}

func (f *fakeRepo) CreatePayment(_ context.Context, payment *Payment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	f.payments = append(f.payments, *payment)
	return nil
}

// fakeCatalogRepo serves one showtime
type fakeCatalogRepo struct {
	showtime *catalog.Showtime
}

func (f *fakeCatalogRepo) GetShowtime(_ context.Context, id uuid.UUID) (*catalog.Showtime, error) {
	if f.showtime != nil && f.showtime.ID == id {
		return f.showtime, nil
	}
	return nil, apperrors.ErrShowtimeNotFound
}

func (f *fakeCatalogRepo) CreateVenue(context.Context, *catalog.Venue) error { return nil }
func (f *fakeCatalogRepo) GetVenue(context.Context, uuid.UUID) (*catalog.Venue, error) {
	return nil, apperrors.ErrVenueNotFound
}
func (f *fakeCatalogRepo) CreateSeats(context.Context, []catalog.Seat) error { return nil }
func (f *fakeCatalogRepo) ListSeatsByVenue(context.Context, uuid.UUID) ([]catalog.Seat, error) {
	return nil, nil
}
func (f *fakeCatalogRepo) CreateEvent(context.Context, *catalog.Event) error { return nil }
func (f *fakeCatalogRepo) GetEvent(context.Context, uuid.UUID) (*catalog.Event, error) {
	return nil, apperrors.ErrEventNotFound
}
func (f *fakeCatalogRepo) CreateShowtime(context.Context, *catalog.Showtime) error { return nil }
func (f *fakeCatalogRepo) ListShowtimesByEvent(context.Context, uuid.UUID) ([]catalog.Showtime, error) {
	return nil, nil
}

// fakeGateway records confirm and refund calls
type fakeGateway struct {
	mu          sync.Mutex
	confirmErr  error
	refundErr   error
	confirms    []payments.ConfirmRequest
	refundKeys  []string
	refundCount int
}

func (g *fakeGateway) Confirm(_ context.Context, req payments.ConfirmRequest) (*payments.ConfirmResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.confirmErr != nil {
		return nil, g.confirmErr
	}
	g.confirms = append(g.confirms, req)
	return &payments.ConfirmResult{
		PaymentKey:    req.PaymentKey,
		OrderID:       req.OrderID,
		Amount:        req.Amount,
		Method:        "CARD",
		TransactionID: "txn-" + req.PaymentKey,
	}, nil
}

func (g *fakeGateway) Refund(_ context.Context, paymentKey string, _ string) (*payments.RefundResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.refundCount++
	if g.refundErr != nil {
		return nil, g.refundErr
	}
	g.refundKeys = append(g.refundKeys, paymentKey)
	return &payments.RefundResult{PaymentKey: paymentKey}, nil
}

// fakeBroadcaster records snapshots
type fakeBroadcaster struct {
	mu       sync.Mutex
	messages []realtime.SeatStatusMessage
}

func (b *fakeBroadcaster) BroadcastSeatStatus(_ context.Context, message realtime.SeatStatusMessage) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, message)
	return nil
}

// passthroughCache always misses
type passthroughCache struct{}

func (passthroughCache) Get(context.Context, string, interface{}) error { return cache.ErrCacheMiss }
func (passthroughCache) Set(context.Context, string, interface{}, time.Duration) error {
	return nil
}
func (passthroughCache) Delete(context.Context, string) error { return nil }
func (passthroughCache) GetOrSet(_ context.Context, _ string, _ time.Duration, fetcher func() (interface{}, error), dest interface{}) error {
	data, err := fetcher()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}
func (passthroughCache) Ping(context.Context) error { return nil }

type fixture struct {
	service     Service
	repo        *fakeRepo
	gateway     *fakeGateway
	broadcaster *fakeBroadcaster
	showtime    *catalog.Showtime
	seats       []uuid.UUID
	clock       clock.Clock
}

var testNow = time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

func newFixture(t *testing.T, seatPrices ...int64) *fixture {
	t.Helper()

	showtime := &catalog.Showtime{
		ID:           uuid.New(),
		EventID:      uuid.New(),
		VenueID:      uuid.New(),
		SalesOpenAt:  testNow.Add(-time.Hour),
		SalesCloseAt: testNow.Add(time.Hour),
		Status:       catalog.ShowtimeStatusOnSale,
	}

	repo := newFakeRepo()
	gateway := &fakeGateway{}
	broadcaster := &fakeBroadcaster{}
	clk := clock.NewFixed(testNow)

	svc := NewService(repo, &fakeCatalogRepo{showtime: showtime}, gateway, broadcaster,
		notifications.NewNoopProducer(), passthroughCache{}, clk,
		config.HoldConfig{HoldTTL: 10 * time.Minute, ReaperInterval: time.Minute, ReaperBatch: 100})

	var catalogSeats []catalog.Seat
	for _, price := range seatPrices {
		catalogSeats = append(catalogSeats, catalog.Seat{ID: uuid.New(), BasePrice: price})
	}
	if err := svc.ProvisionForShowtime(context.Background(), showtime, catalogSeats); err != nil {
		t.Fatalf("ProvisionForShowtime: %v", err)
	}

	var seatIDs []uuid.UUID
	for id := range repo.inventories {
		seatIDs = append(seatIDs, id)
	}

	return &fixture{
		service:     svc,
		repo:        repo,
		gateway:     gateway,
		broadcaster: broadcaster,
		showtime:    showtime,
		seats:       seatIDs,
		clock:       clk,
	}
}

func TestCreateReservationHappyPath(t *testing.T) {
	fx := newFixture(t, 30000, 20000)
	userID := uuid.New()

	reservation, err := fx.service.CreateReservation(context.Background(), userID, fx.showtime.ID, fx.seats)
	if err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}

	if reservation.TotalPrice != 50000 {
		t.Errorf("total = %d, want 50000", reservation.TotalPrice)
	}
	if reservation.Status != ReservationPendingPayment {
		t.Errorf("status = %s, want PENDING_PAYMENT", reservation.Status)
	}
	wantExpiry := testNow.Add(10 * time.Minute)
	if !reservation.HoldExpiresAt.Equal(wantExpiry) {
		t.Errorf("hold expires %v, want %v", reservation.HoldExpiresAt, wantExpiry)
	}

	for _, id := range fx.seats {
		inv := fx.repo.inventories[id]
		if inv.Status != SeatReserved {
			t.Errorf("seat %s status = %s, want RESERVED", id, inv.Status)
		}
		if inv.ReservationID == nil || *inv.ReservationID != reservation.ID {
			t.Errorf("seat %s not linked to reservation", id)
		}
	}

	if len(fx.broadcaster.messages) != 1 {
		t.Errorf("broadcasts = %d, want 1", len(fx.broadcaster.messages))
	}
}

func TestCreateReservationAllOrNothing(t *testing.T) {
	fx := newFixture(t, 30000, 20000)
	userA := uuid.New()
	userB := uuid.New()

	// User A takes the first seat only
	if _, err := fx.service.CreateReservation(context.Background(), userA, fx.showtime.ID, fx.seats[:1]); err != nil {
		t.Fatalf("CreateReservation(A): %v", err)
	}

	// User B asks for both; the request must fail whole and leave the free
	// seat untouched
	_, err := fx.service.CreateReservation(context.Background(), userB, fx.showtime.ID, fx.seats)
	if !errors.Is(err, apperrors.ErrSeatAlreadyReserved) {
		t.Fatalf("err = %v, want ErrSeatAlreadyReserved", err)
	}
	if got := fx.repo.inventories[fx.seats[1]].Status; got != SeatAvailable {
		t.Errorf("untouched seat status = %s, want AVAILABLE", got)
	}
}

func TestCreateReservationUnknownSeat(t *testing.T) {
	fx := newFixture(t, 30000)

	_, err := fx.service.CreateReservation(context.Background(), uuid.New(), fx.showtime.ID,
		[]uuid.UUID{fx.seats[0], uuid.New()})
	if !errors.Is(err, apperrors.ErrSeatNotFound) {
		t.Fatalf("err = %v, want ErrSeatNotFound", err)
	}
	if got := fx.repo.inventories[fx.seats[0]].Status; got != SeatAvailable {
		t.Errorf("known seat status = %s, want AVAILABLE", got)
	}
}

func TestCreateReservationOutsideSalesWindow(t *testing.T) {
	fx := newFixture(t, 30000)
	fx.showtime.SalesCloseAt = testNow.Add(-time.Minute)

	_, err := fx.service.CreateReservation(context.Background(), uuid.New(), fx.showtime.ID, fx.seats)
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestCreateReservationSingleWinnerUnderContention(t *testing.T) {
	fx := newFixture(t, 30000)

	const contenders = 16
	var wg sync.WaitGroup
	errs := make([]error, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = fx.service.CreateReservation(context.Background(), uuid.New(), fx.showtime.ID, fx.seats)
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else if !errors.Is(err, apperrors.ErrSeatAlreadyReserved) {
			t.Errorf("loser err = %v, want ErrSeatAlreadyReserved", err)
		}
	}
	if winners != 1 {
		t.Errorf("winners = %d, want exactly 1", winners)
	}
}

func TestProcessConfirmedPayment(t *testing.T) {
	fx := newFixture(t, 30000, 20000)
	userID := uuid.New()
	reservation, err := fx.service.CreateReservation(context.Background(), userID, fx.showtime.ID, fx.seats)
	if err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}

	req := payments.ConfirmRequest{
		OrderID:    reservation.OrderID,
		PaymentKey: "pay-key-1",
		Amount:     50000,
	}
	if err := fx.service.ProcessConfirmedPayment(context.Background(), req); err != nil {
		t.Fatalf("ProcessConfirmedPayment: %v", err)
	}

	stored := fx.repo.reservations[reservation.ID]
	if stored.Status != ReservationPaid {
		t.Errorf("status = %s, want PAID", stored.Status)
	}
	for _, id := range fx.seats {
		if got := fx.repo.inventories[id].Status; got != SeatSold {
			t.Errorf("seat status = %s, want SOLD", got)
		}
	}
	if len(fx.repo.payments) != 1 || fx.repo.payments[0].Status != PaymentCompleted {
		t.Errorf("payments = %+v, want one COMPLETED record", fx.repo.payments)
	}

	t.Run("repeat confirm with same key is a no-op", func(t *testing.T) {
		if err := fx.service.ProcessConfirmedPayment(context.Background(), req); err != nil {
			t.Fatalf("repeat confirm: %v", err)
		}
		if len(fx.gateway.confirms) != 1 {
			t.Errorf("gateway confirms = %d, want 1", len(fx.gateway.confirms))
		}
	})
}

func TestProcessConfirmedPaymentAmountMismatch(t *testing.T) {
	fx := newFixture(t, 50000)
	reservation, _ := fx.service.CreateReservation(context.Background(), uuid.New(), fx.showtime.ID, fx.seats)

	err := fx.service.ProcessConfirmedPayment(context.Background(), payments.ConfirmRequest{
		OrderID:    reservation.OrderID,
		PaymentKey: "pay-key-1",
		Amount:     49999,
	})
	if !errors.Is(err, apperrors.ErrInvalidPaymentAmount) {
		t.Fatalf("err = %v, want ErrInvalidPaymentAmount", err)
	}
	if len(fx.gateway.confirms) != 0 {
		t.Error("gateway must not be called on amount mismatch")
	}
}

func TestProcessConfirmedPaymentRefundsOnLostRace(t *testing.T) {
	fx := newFixture(t, 30000)
	userID := uuid.New()
	reservation, _ := fx.service.CreateReservation(context.Background(), userID, fx.showtime.ID, fx.seats)

	// The hold expires between gateway capture and our commit
	svc := fx.service.(*service)
	svc.repo = &racingRepo{Repository: svc.repo, loseTransition: true}

	err := fx.service.ProcessConfirmedPayment(context.Background(), payments.ConfirmRequest{
		OrderID:    reservation.OrderID,
		PaymentKey: "pay-key-1",
		Amount:     30000,
	})
	if !errors.Is(err, apperrors.ErrAlreadyCancelledReservation) {
		t.Fatalf("err = %v, want ErrAlreadyCancelledReservation", err)
	}
	if fx.gateway.refundCount != 1 {
		t.Errorf("refunds = %d, want 1 (captured money must go back)", fx.gateway.refundCount)
	}
}

// racingRepo fails every status transition, simulating a concurrent actor
// winning the compare-and-set.
type racingRepo struct {
	Repository
	loseTransition bool
}

func (r *racingRepo) TransitionReservationStatus(ctx context.Context, id uuid.UUID, from, to string, updates map[string]interface{}) (bool, error) {
	if r.loseTransition {
		return false, nil
	}
	return r.Repository.TransitionReservationStatus(ctx, id, from, to, updates)
}

func TestCancelPendingReservation(t *testing.T) {
	fx := newFixture(t, 30000)
	userID := uuid.New()
	reservation, _ := fx.service.CreateReservation(context.Background(), userID, fx.showtime.ID, fx.seats)

	if err := fx.service.CancelReservation(context.Background(), reservation.ID, userID); err != nil {
		t.Fatalf("CancelReservation: %v", err)
	}

	if got := fx.repo.reservations[reservation.ID].Status; got != ReservationCancelled {
		t.Errorf("status = %s, want CANCELLED", got)
	}
	if got := fx.repo.inventories[fx.seats[0]].Status; got != SeatAvailable {
		t.Errorf("seat status = %s, want AVAILABLE", got)
	}
	if fx.gateway.refundCount != 0 {
		t.Error("pending cancellation must not refund")
	}

	t.Run("second cancel fails", func(t *testing.T) {
		err := fx.service.CancelReservation(context.Background(), reservation.ID, userID)
		if !errors.Is(err, apperrors.ErrAlreadyCancelledReservation) {
			t.Errorf("err = %v, want ErrAlreadyCancelledReservation", err)
		}
	})
}

func TestCancelPaidReservationRefundsFirst(t *testing.T) {
	fx := newFixture(t, 30000)
	userID := uuid.New()
	reservation, _ := fx.service.CreateReservation(context.Background(), userID, fx.showtime.ID, fx.seats)
	if err := fx.service.ProcessConfirmedPayment(context.Background(), payments.ConfirmRequest{
		OrderID: reservation.OrderID, PaymentKey: "pay-key-1", Amount: 30000,
	}); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	t.Run("refund failure aborts cancellation", func(t *testing.T) {
		fx.gateway.refundErr = errors.New("gateway down")
		err := fx.service.CancelReservation(context.Background(), reservation.ID, userID)
		if err == nil {
			t.Fatal("expected cancellation to fail")
		}
		if got := fx.repo.reservations[reservation.ID].Status; got != ReservationPaid {
			t.Errorf("status = %s, want PAID (unchanged)", got)
		}
		if got := fx.repo.inventories[fx.seats[0]].Status; got != SeatSold {
			t.Errorf("seat status = %s, want SOLD (unchanged)", got)
		}
	})

	t.Run("successful refund releases seats", func(t *testing.T) {
		fx.gateway.refundErr = nil
		if err := fx.service.CancelReservation(context.Background(), reservation.ID, userID); err != nil {
			t.Fatalf("CancelReservation: %v", err)
		}
		if got := fx.repo.reservations[reservation.ID].Status; got != ReservationCancelled {
			t.Errorf("status = %s, want CANCELLED", got)
		}
		if got := fx.repo.inventories[fx.seats[0]].Status; got != SeatAvailable {
			t.Errorf("seat status = %s, want AVAILABLE", got)
		}
		refunded := false
		for _, p := range fx.repo.payments {
			if p.Status == PaymentRefunded {
				refunded = true
			}
		}
		if !refunded {
			t.Error("expected a REFUNDED payment record")
		}
	})
}

func TestSweepExpiredHolds(t *testing.T) {
	fx := newFixture(t, 30000)
	userID := uuid.New()
	reservation, _ := fx.service.CreateReservation(context.Background(), userID, fx.showtime.ID, fx.seats)

	// Push the hold into the past
	fx.repo.reservations[reservation.ID].HoldExpiresAt = testNow.Add(-time.Second)

	reclaimed, err := fx.service.SweepExpiredHolds(context.Background())
	if err != nil {
		t.Fatalf("SweepExpiredHolds: %v", err)
	}
	if reclaimed != 1 {
		t.Errorf("reclaimed = %d, want 1", reclaimed)
	}
	if got := fx.repo.reservations[reservation.ID].Status; got != ReservationExpired {
		t.Errorf("status = %s, want EXPIRED", got)
	}

	t.Run("freed seat is reservable again", func(t *testing.T) {
		if _, err := fx.service.CreateReservation(context.Background(), uuid.New(), fx.showtime.ID, fx.seats); err != nil {
			t.Fatalf("re-reserve after expiry: %v", err)
		}
	})
}

func TestSweepIgnoresLiveHolds(t *testing.T) {
	fx := newFixture(t, 30000)
	reservation, _ := fx.service.CreateReservation(context.Background(), uuid.New(), fx.showtime.ID, fx.seats)

	reclaimed, err := fx.service.SweepExpiredHolds(context.Background())
	if err != nil {
		t.Fatalf("SweepExpiredHolds: %v", err)
	}
	if reclaimed != 0 {
		t.Errorf("reclaimed = %d, want 0", reclaimed)
	}
	if got := fx.repo.reservations[reservation.ID].Status; got != ReservationPendingPayment {
		t.Errorf("status = %s, want PENDING_PAYMENT", got)
	}
}

func TestResolveOrderKind(t *testing.T) {
	fx := newFixture(t, 30000)
	reservation, _ := fx.service.CreateReservation(context.Background(), uuid.New(), fx.showtime.ID, fx.seats)

	kind, found, err := fx.service.ResolveOrderKind(context.Background(), reservation.OrderID)
	if err != nil {
		t.Fatalf("ResolveOrderKind: %v", err)
	}
	if !found || kind != payments.OrderKindTicket {
		t.Errorf("got (%s, %v), want (TICKET, true)", kind, found)
	}

	_, found, err = fx.service.ResolveOrderKind(context.Background(), "tck-"+uuid.NewString())
	if err != nil {
		t.Fatalf("ResolveOrderKind(unknown): %v", err)
	}
	if found {
		t.Error("unknown order must not resolve")
	}
}

func TestGetSeatMapSnapshot(t *testing.T) {
	fx := newFixture(t, 30000, 20000)
	userID := uuid.New()
	if _, err := fx.service.CreateReservation(context.Background(), userID, fx.showtime.ID, fx.seats[:1]); err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}

	snapshot, err := fx.service.GetSeatMap(context.Background(), fx.showtime.ID)
	if err != nil {
		t.Fatalf("GetSeatMap: %v", err)
	}
	if snapshot.ShowtimeID != fx.showtime.ID {
		t.Errorf("showtime = %s, want %s", snapshot.ShowtimeID, fx.showtime.ID)
	}
	if len(snapshot.Seats) != 2 {
		t.Fatalf("seats = %d, want 2", len(snapshot.Seats))
	}

	statuses := map[string]int{}
	for _, seat := range snapshot.Seats {
		statuses[seat.Status]++
	}
	if statuses[SeatReserved] != 1 || statuses[SeatAvailable] != 1 {
		t.Errorf("statuses = %v, want one RESERVED and one AVAILABLE", statuses)
	}
}

func TestRebroadcastShowtime(t *testing.T) {
	fx := newFixture(t, 30000)

	if err := fx.service.RebroadcastShowtime(context.Background(), fx.showtime.ID); err != nil {
		t.Fatalf("RebroadcastShowtime: %v", err)
	}
	if len(fx.broadcaster.messages) != 1 {
		t.Fatalf("broadcasts = %d, want 1", len(fx.broadcaster.messages))
	}
	if len(fx.broadcaster.messages[0].Seats) != 1 {
		t.Errorf("snapshot seats = %d, want 1", len(fx.broadcaster.messages[0].Seats))
	}
}
