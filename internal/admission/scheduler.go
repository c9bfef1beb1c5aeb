package admission

import (
	"context"
	"sync"
	"time"

	"ticketflow/internal/shared/config"
	"ticketflow/pkg/logger"
)

// Scheduler periodically sweeps every event queue and admits a batch from
// each. One instance runs per process; concurrent sweeps across processes
// stay correct because admission itself is atomic in Redis.
type Scheduler struct {
	service  Service
	repo     Repository
	interval time.Duration
	batch    int
	log      *logger.Logger

	done chan struct{}
	wg   sync.WaitGroup
}

func NewScheduler(service Service, repo Repository, cfg config.AdmissionConfig) *Scheduler {
	return &Scheduler{
		service:  service,
		repo:     repo,
		interval: cfg.SchedulerInterval,
		batch:    cfg.AllowPerTick,
		log:      logger.GetDefault(),
		done:     make(chan struct{}),
	}
}

// Start launches the sweep loop. Call Stop to shut it down.
func (s *Scheduler) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.log.WithFields(map[string]interface{}{
			"interval": s.interval.String(),
			"batch":    s.batch,
		}).Info("Admission scheduler started")

		for {
			select {
			case <-ticker.C:
				s.Sweep(ctx)
			case <-s.done:
				s.log.Info("Admission scheduler stopped")
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop signals the loop to exit and waits for the in-flight sweep.
func (s *Scheduler) Stop() {
	close(s.done)
	s.wg.Wait()
}

// Sweep admits one batch from every discoverable event queue. A failure on
// one queue never blocks the rest.
func (s *Scheduler) Sweep(ctx context.Context) {
	keys, err := s.repo.ScanQueueKeys(ctx)
	if err != nil {
		s.log.WithError(err).Error("Failed to scan queue keys")
		return
	}

	for _, key := range keys {
		eventID, err := parseEventIDFromQueueKey(key)
		if err != nil {
			// Ready sets, token hashes and malformed keys land here
			continue
		}
		if _, err := s.service.AllowEntriesForEvent(ctx, eventID, s.batch); err != nil {
			s.log.WithError(err).WithFields(map[string]interface{}{
				"event_id": eventID,
			}).Error("Failed to admit queue entries")
		}
	}
}
