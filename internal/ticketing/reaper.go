package ticketing

import (
	"context"
	"sync"
	"time"

	"ticketflow/internal/shared/config"
	"ticketflow/pkg/logger"
)

// Reaper periodically reclaims seats from expired payment holds. It is the
// backstop that guarantees an abandoned checkout can never strand inventory.
type Reaper struct {
	service  Service
	interval time.Duration
	log      *logger.Logger

	done chan struct{}
	wg   sync.WaitGroup
}

func NewReaper(service Service, cfg config.HoldConfig) *Reaper {
	return &Reaper{
		service:  service,
		interval: cfg.ReaperInterval,
		log:      logger.GetDefault(),
		done:     make(chan struct{}),
	}
}

// Start launches the sweep loop. Call Stop to shut it down.
func (r *Reaper) Start(ctx context.Context) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		r.log.WithFields(map[string]interface{}{
			"interval": r.interval.String(),
		}).Info("Hold reaper started")

		for {
			select {
			case <-ticker.C:
				reclaimed, err := r.service.SweepExpiredHolds(ctx)
				if err != nil {
					r.log.WithError(err).Error("Hold sweep failed")
					continue
				}
				if reclaimed > 0 {
					r.log.WithFields(map[string]interface{}{
						"reclaimed": reclaimed,
					}).Info("Expired holds reclaimed")
				}
			case <-r.done:
				r.log.Info("Hold reaper stopped")
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop signals the loop to exit and waits for the in-flight sweep.
func (r *Reaper) Stop() {
	close(r.done)
	r.wg.Wait()
}
