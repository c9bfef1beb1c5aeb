package realtime

import (
	"io"
	"net/http"
	"time"

	"ticketflow/internal/shared/utils/response"
	"ticketflow/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const heartbeatInterval = 15 * time.Second

type Controller struct {
	redis *redis.Client
	log   *logger.Logger
}

func NewController(redisClient *redis.Client) *Controller {
	return &Controller{
		redis: redisClient,
		log:   logger.GetDefault(),
	}
}

// StreamSeatStatus handles GET /showtimes/:id/stream
// Server-sent events relay of the showtime's seat status channel.
func (c *Controller) StreamSeatStatus(ctx *gin.Context) {
	showtimeID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid showtime ID", nil, err.Error())
		return
	}

	pubsub := Subscribe(ctx.Request.Context(), c.redis, showtimeID)
	defer pubsub.Close()

	ctx.Writer.Header().Set("Content-Type", "text/event-stream")
	ctx.Writer.Header().Set("Cache-Control", "no-cache")
	ctx.Writer.Header().Set("Connection", "keep-alive")

	messages := pubsub.Channel()
	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	c.log.WithFields(map[string]interface{}{
		"showtime_id": showtimeID,
	}).Debug("Seat status stream opened")

	ctx.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-messages:
			if !ok {
				return false
			}
			ctx.SSEvent("seat-status", msg.Payload)
			return true
		case <-heartbeat.C:
			// Comment frame keeps intermediaries from closing idle streams
			ctx.SSEvent("heartbeat", time.Now().UTC().Format(time.RFC3339))
			return true
		case <-ctx.Request.Context().Done():
			return false
		}
	})
}
