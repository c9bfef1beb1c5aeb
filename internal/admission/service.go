package admission

import (
	"context"
	"fmt"
	"strings"

	"ticketflow/internal/shared/apperrors"
	"ticketflow/internal/shared/config"
	"ticketflow/internal/shared/constants"
	"ticketflow/pkg/clock"
	"ticketflow/pkg/logger"

	"github.com/google/uuid"
)

// Service implements the virtual waiting room: callers enter a per-event
// queue, a scheduler drains it in batches, and admitted tokens unlock the
// reservation flow for a bounded window.
type Service interface {
	Enter(ctx context.Context, eventID uuid.UUID, userID string) (*EnterResult, error)
	Status(ctx context.Context, token string) (*StatusResult, error)
	AllowEntriesForEvent(ctx context.Context, eventID uuid.UUID, count int) (int64, error)
	VerifyReady(ctx context.Context, token string) (uuid.UUID, error)
	ConsumeReady(ctx context.Context, token string) error
}

type service struct {
	repo  Repository
	cfg   config.AdmissionConfig
	clock clock.Clock
	log   *logger.Logger
}

func NewService(repo Repository, cfg config.AdmissionConfig, clk clock.Clock) Service {
	return &service{
		repo:  repo,
		cfg:   cfg,
		clock: clk,
		log:   logger.GetDefault(),
	}
}

// Enter issues a fresh token, enqueues it scored by the current time, and
// reports the caller's 1-based position. Every call issues a new token; a
// caller entering twice waits in two spots.
func (s *service) Enter(ctx context.Context, eventID uuid.UUID, userID string) (*EnterResult, error) {
	if userID == "" {
		userID = AnonymousUser
	}

	token := uuid.NewString()
	now := s.clock.Now()

	if err := s.repo.Enqueue(ctx, eventID, token, now.UnixMilli()); err != nil {
		return nil, err
	}
	if err := s.repo.SaveTokenMeta(ctx, token, TokenMeta{
		EventID:   eventID,
		UserID:    userID,
		CreatedAt: now,
	}, constants.TTL_QUEUE_TOKEN); err != nil {
		return nil, err
	}

	rank, found, err := s.repo.Rank(ctx, eventID, token)
	if err != nil {
		return nil, err
	}
	position := int64(PositionUnknown)
	if found {
		position = rank + 1
	}

	s.log.WithFields(map[string]interface{}{
		"event_id": eventID,
		"user_id":  userID,
		"position": position,
	}).Debug("Queue entry created")

	return &EnterResult{Token: token, Position: position}, nil
}

// Status reports whether a token is admitted or still waiting. A token whose
// metadata has expired is invalid; a known token that is neither ready nor
// ranked reports position -1.
func (s *service) Status(ctx context.Context, token string) (*StatusResult, error) {
	meta, err := s.repo.GetTokenMeta(ctx, token)
	if err != nil {
		return nil, err
	}
	if meta == nil {
		return nil, apperrors.ErrInvalidQueueToken
	}

	ready, err := s.repo.IsReady(ctx, meta.EventID, token)
	if err != nil {
		return nil, err
	}
	if ready {
		return &StatusResult{EventID: meta.EventID, Status: StatusReady, Position: 0}, nil
	}

	rank, found, err := s.repo.Rank(ctx, meta.EventID, token)
	if err != nil {
		return nil, err
	}
	position := int64(PositionUnknown)
	if found {
		position = rank + 1
	}
	return &StatusResult{EventID: meta.EventID, Status: StatusWaiting, Position: position}, nil
}

// AllowEntriesForEvent admits up to count waiting tokens for one event.
// Safe to call on an empty queue.
func (s *service) AllowEntriesForEvent(ctx context.Context, eventID uuid.UUID, count int) (int64, error) {
	if count <= 0 {
		count = s.cfg.AllowPerTick
	}

	admitted, err := s.repo.PopAndMarkReady(ctx, eventID, count, s.cfg.ReadyTTL)
	if err != nil {
		return 0, err
	}
	if admitted > 0 {
		s.log.WithFields(map[string]interface{}{
			"event_id": eventID,
			"admitted": admitted,
		}).Info("Admitted queue entries")
	}
	return admitted, nil
}

// VerifyReady resolves a token to its event when the token has been admitted
// and its ready window is still open.
func (s *service) VerifyReady(ctx context.Context, token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, apperrors.ErrAdmissionRequired
	}

	meta, err := s.repo.GetTokenMeta(ctx, token)
	if err != nil {
		return uuid.Nil, err
	}
	if meta == nil {
		return uuid.Nil, apperrors.ErrInvalidQueueToken
	}

	ready, err := s.repo.IsReady(ctx, meta.EventID, token)
	if err != nil {
		return uuid.Nil, err
	}
	if !ready {
		return uuid.Nil, apperrors.ErrAdmissionRequired
	}
	return meta.EventID, nil
}

// ConsumeReady removes a token from its ready set after a successful
// reservation so one admission pays for one checkout.
func (s *service) ConsumeReady(ctx context.Context, token string) error {
	meta, err := s.repo.GetTokenMeta(ctx, token)
	if err != nil {
		return err
	}
	if meta == nil {
		return apperrors.ErrInvalidQueueToken
	}

	removed, err := s.repo.ConsumeReady(ctx, meta.EventID, token)
	if err != nil {
		return err
	}
	if !removed {
		s.log.WithFields(map[string]interface{}{
			"event_id": meta.EventID,
		}).Warn("Ready token already consumed or expired")
	}
	return nil
}

// parseEventIDFromQueueKey extracts the event ID from a waiting-queue key.
// Ready, token and unrelated keys fail to parse and are skipped by callers.
func parseEventIDFromQueueKey(key string) (uuid.UUID, error) {
	suffix, ok := strings.CutPrefix(key, constants.QUEUE_KEY_PREFIX)
	if !ok {
		return uuid.Nil, fmt.Errorf("not a queue key: %s", key)
	}
	id, err := uuid.Parse(suffix)
	if err != nil {
		return uuid.Nil, fmt.Errorf("queue key %s has no event id: %w", key, err)
	}
	return id, nil
}
