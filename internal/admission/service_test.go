package admission

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"ticketflow/internal/shared/apperrors"
	"ticketflow/internal/shared/config"
	"ticketflow/pkg/clock"

	"github.com/google/uuid"
)

type queueEntry struct {
	token string
	score int64
	seq   int
}

// fakeRepository is an in-memory stand-in for the Redis store, preserving
// ZSET ordering semantics (score, then insertion order).
type fakeRepository struct {
	queues map[uuid.UUID][]queueEntry
	ready  map[uuid.UUID]map[string]bool
	meta   map[string]TokenMeta
	seq    int

	extraKeys []string
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		queues: make(map[uuid.UUID][]queueEntry),
		ready:  make(map[uuid.UUID]map[string]bool),
		meta:   make(map[string]TokenMeta),
	}
}

func (f *fakeRepository) Enqueue(_ context.Context, eventID uuid.UUID, token string, score int64) error {
	f.seq++
	f.queues[eventID] = append(f.queues[eventID], queueEntry{token: token, score: score, seq: f.seq})
	sort.SliceStable(f.queues[eventID], func(i, j int) bool {
		a, b := f.queues[eventID][i], f.queues[eventID][j]
		if a.score != b.score {
			return a.score < b.score
		}
		return a.seq < b.seq
	})
	return nil
}

func (f *fakeRepository) SaveTokenMeta(_ context.Context, token string, meta TokenMeta, _ time.Duration) error {
	f.meta[token] = meta
	return nil
}

func (f *fakeRepository) GetTokenMeta(_ context.Context, token string) (*TokenMeta, error) {
	meta, ok := f.meta[token]
	if !ok {
		return nil, nil
	}
	return &meta, nil
}

func (f *fakeRepository) Rank(_ context.Context, eventID uuid.UUID, token string) (int64, bool, error) {
	for i, entry := range f.queues[eventID] {
		if entry.token == token {
			return int64(i), true, nil
		}
	}
	return 0, false, nil
}

func (f *fakeRepository) IsReady(_ context.Context, eventID uuid.UUID, token string) (bool, error) {
	return f.ready[eventID][token], nil
}

func (f *fakeRepository) PopAndMarkReady(_ context.Context, eventID uuid.UUID, count int, _ time.Duration) (int64, error) {
	queue := f.queues[eventID]
	if len(queue) == 0 {
		return 0, nil
	}
	if count > len(queue) {
		count = len(queue)
	}
	if f.ready[eventID] == nil {
		f.ready[eventID] = make(map[string]bool)
	}
	for _, entry := range queue[:count] {
		f.ready[eventID][entry.token] = true
	}
	f.queues[eventID] = queue[count:]
	return int64(count), nil
}

func (f *fakeRepository) ConsumeReady(_ context.Context, eventID uuid.UUID, token string) (bool, error) {
	if f.ready[eventID][token] {
		delete(f.ready[eventID], token)
		return true, nil
	}
	return false, nil
}

func (f *fakeRepository) ScanQueueKeys(_ context.Context) ([]string, error) {
	var keys []string
	for eventID := range f.queues {
		keys = append(keys, "queue:"+eventID.String())
	}
	for eventID := range f.ready {
		keys = append(keys, "queue:ready:"+eventID.String())
	}
	for token := range f.meta {
		keys = append(keys, "queue:token:"+token)
	}
	keys = append(keys, f.extraKeys...)
	sort.Strings(keys)
	return keys, nil
}

func testConfig() config.AdmissionConfig {
	return config.AdmissionConfig{
		ReadyTTL:          5 * time.Minute,
		AllowPerTick:      300,
		SchedulerInterval: 2 * time.Second,
		Enforced:          true,
	}
}

func TestEnterAssignsSequentialPositions(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, testConfig(), clock.NewFixed(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)))
	eventID := uuid.New()

	first, err := svc.Enter(context.Background(), eventID, "user-a")
	if err != nil {
		t.Fatalf("Enter: %v", err)
	}
	if first.Position != 1 {
		t.Errorf("first position = %d, want 1", first.Position)
	}
	if first.Token == "" {
		t.Error("expected a token")
	}

	second, err := svc.Enter(context.Background(), eventID, "")
	if err != nil {
		t.Fatalf("Enter: %v", err)
	}
	if second.Position != 2 {
		t.Errorf("second position = %d, want 2", second.Position)
	}
	if second.Token == first.Token {
		t.Error("tokens must be unique per entry")
	}
	if repo.meta[second.Token].UserID != AnonymousUser {
		t.Errorf("empty user recorded as %q, want %q", repo.meta[second.Token].UserID, AnonymousUser)
	}
}

func TestStatusUnknownTokenIsInvalid(t *testing.T) {
	svc := NewService(newFakeRepository(), testConfig(), clock.NewSystem())

	_, err := svc.Status(context.Background(), uuid.NewString())
	if !errors.Is(err, apperrors.ErrInvalidQueueToken) {
		t.Errorf("err = %v, want ErrInvalidQueueToken", err)
	}
}

func TestAdmissionShiftsRemainingPositions(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, testConfig(), clock.NewSystem())
	eventID := uuid.New()

	first, _ := svc.Enter(context.Background(), eventID, "user-a")
	second, _ := svc.Enter(context.Background(), eventID, "user-b")

	admitted, err := svc.AllowEntriesForEvent(context.Background(), eventID, 1)
	if err != nil {
		t.Fatalf("AllowEntriesForEvent: %v", err)
	}
	if admitted != 1 {
		t.Fatalf("admitted = %d, want 1", admitted)
	}

	status, err := svc.Status(context.Background(), first.Token)
	if err != nil {
		t.Fatalf("Status(first): %v", err)
	}
	if status.Status != StatusReady {
		t.Errorf("first status = %s, want READY", status.Status)
	}

	status, err = svc.Status(context.Background(), second.Token)
	if err != nil {
		t.Fatalf("Status(second): %v", err)
	}
	if status.Status != StatusWaiting || status.Position != 1 {
		t.Errorf("second = %s/%d, want WAITING/1", status.Status, status.Position)
	}
}

func TestAllowEntriesOnEmptyQueue(t *testing.T) {
	svc := NewService(newFakeRepository(), testConfig(), clock.NewSystem())

	admitted, err := svc.AllowEntriesForEvent(context.Background(), uuid.New(), 10)
	if err != nil {
		t.Fatalf("AllowEntriesForEvent: %v", err)
	}
	if admitted != 0 {
		t.Errorf("admitted = %d, want 0", admitted)
	}
}

func TestVerifyReadyLifecycle(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, testConfig(), clock.NewSystem())
	eventID := uuid.New()

	entry, _ := svc.Enter(context.Background(), eventID, "user-a")

	t.Run("waiting token is rejected", func(t *testing.T) {
		_, err := svc.VerifyReady(context.Background(), entry.Token)
		if !errors.Is(err, apperrors.ErrAdmissionRequired) {
			t.Errorf("err = %v, want ErrAdmissionRequired", err)
		}
	})

	t.Run("admitted token resolves its event", func(t *testing.T) {
		if _, err := svc.AllowEntriesForEvent(context.Background(), eventID, 10); err != nil {
			t.Fatalf("AllowEntriesForEvent: %v", err)
		}
		got, err := svc.VerifyReady(context.Background(), entry.Token)
		if err != nil {
			t.Fatalf("VerifyReady: %v", err)
		}
		if got != eventID {
			t.Errorf("event = %s, want %s", got, eventID)
		}
	})

	t.Run("consumed token is rejected again", func(t *testing.T) {
		if err := svc.ConsumeReady(context.Background(), entry.Token); err != nil {
			t.Fatalf("ConsumeReady: %v", err)
		}
		_, err := svc.VerifyReady(context.Background(), entry.Token)
		if !errors.Is(err, apperrors.ErrAdmissionRequired) {
			t.Errorf("err = %v, want ErrAdmissionRequired", err)
		}
	})

	t.Run("missing token is invalid", func(t *testing.T) {
		_, err := svc.VerifyReady(context.Background(), uuid.NewString())
		if !errors.Is(err, apperrors.ErrInvalidQueueToken) {
			t.Errorf("err = %v, want ErrInvalidQueueToken", err)
		}
	})

	t.Run("empty token demands admission", func(t *testing.T) {
		_, err := svc.VerifyReady(context.Background(), "")
		if !errors.Is(err, apperrors.ErrAdmissionRequired) {
			t.Errorf("err = %v, want ErrAdmissionRequired", err)
		}
	})
}

func TestEnqueueOrderFollowsScore(t *testing.T) {
	repo := newFakeRepository()
	eventID := uuid.New()

	early := clock.NewFixed(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	late := clock.NewFixed(time.Date(2026, 3, 1, 10, 0, 5, 0, time.UTC))

	lateSvc := NewService(repo, testConfig(), late)
	earlySvc := NewService(repo, testConfig(), early)

	lateEntry, _ := lateSvc.Enter(context.Background(), eventID, "late")
	earlyEntry, _ := earlySvc.Enter(context.Background(), eventID, "early")

	earlyStatus, _ := earlySvc.Status(context.Background(), earlyEntry.Token)
	lateStatus, _ := lateSvc.Status(context.Background(), lateEntry.Token)

	if earlyStatus.Position != 1 {
		t.Errorf("early position = %d, want 1", earlyStatus.Position)
	}
	if lateStatus.Position != 2 {
		t.Errorf("late position = %d, want 2", lateStatus.Position)
	}
}
