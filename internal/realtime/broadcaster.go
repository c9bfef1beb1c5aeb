package realtime

import (
	"context"
	"encoding/json"

	"ticketflow/internal/shared/constants"
	"ticketflow/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Broadcaster publishes seat status snapshots to interested subscribers.
// Delivery is best effort. Clients reconcile through the seat-map endpoint
// when they connect or miss messages.
type Broadcaster interface {
	BroadcastSeatStatus(ctx context.Context, message SeatStatusMessage) error
}

type redisBroadcaster struct {
	client *redis.Client
	log    *logger.Logger
}

func NewRedisBroadcaster(client *redis.Client) Broadcaster {
	return &redisBroadcaster{
		client: client,
		log:    logger.GetDefault(),
	}
}

// BroadcastSeatStatus publishes the snapshot to the per-showtime channel.
// Publish failures are logged and swallowed so inventory writes never fail
// because of the broadcast path.
func (b *redisBroadcaster) BroadcastSeatStatus(ctx context.Context, message SeatStatusMessage) error {
	payload, err := json.Marshal(message)
	if err != nil {
		b.log.WithError(err).Error("Failed to marshal seat status message")
		return err
	}

	channel := constants.SeatStatusChannel(message.ShowtimeID.String())
	if err := b.client.Publish(ctx, channel, payload).Err(); err != nil {
		b.log.WithError(err).WithFields(map[string]interface{}{
			"showtime_id": message.ShowtimeID,
			"seat_count":  len(message.Seats),
		}).Error("Failed to publish seat status message")
		return nil
	}

	return nil
}

// Subscribe opens a pub/sub subscription for one showtime's seat status
// channel. The caller owns the returned PubSub and must close it.
func Subscribe(ctx context.Context, client *redis.Client, showtimeID uuid.UUID) *redis.PubSub {
	return client.Subscribe(ctx, constants.SeatStatusChannel(showtimeID.String()))
}
