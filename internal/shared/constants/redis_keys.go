package constants

import (
	"fmt"
	"time"
)

// Redis key catalog for the ticketflow service.
// Pattern: {module}:{purpose}:{identifier}

// ================== TTL DURATIONS ==================

const (
	// Ready-set membership: the advisory checkout window a token gets once
	// admitted from the queue.
	TTL_QUEUE_READY = 5 * time.Minute

	// Token metadata outlives the ready window so status checks on a lapsed
	// token still resolve the event instead of reporting InvalidToken.
	TTL_QUEUE_TOKEN = 30 * time.Minute

	// Seat-map snapshot cache. Short: the realtime channel is the source of
	// truth for freshness, the cache only absorbs polling bursts.
	TTL_SEATMAP_SNAPSHOT = 30 * time.Second
)

// ================== ADMISSION QUEUE ==================

const (
	QUEUE_KEY_PREFIX       = "queue:"       // + eventID -> ZSET of tokens scored by enqueue time
	QUEUE_READY_KEY_PREFIX = "queue:ready:" // + eventID -> SET of admitted tokens
	QUEUE_TOKEN_KEY_PREFIX = "queue:token:" // + token   -> HASH {event_id, user_id, created_at}
)

func QueueKey(eventID string) string {
	return QUEUE_KEY_PREFIX + eventID
}

func QueueReadyKey(eventID string) string {
	return QUEUE_READY_KEY_PREFIX + eventID
}

func QueueTokenKey(token string) string {
	return QUEUE_TOKEN_KEY_PREFIX + token
}

// ================== REALTIME ==================

const (
	SEAT_STATUS_CHANNEL_PREFIX = "seat:status:" // + showtimeID -> pub/sub channel
)

func SeatStatusChannel(showtimeID string) string {
	return SEAT_STATUS_CHANNEL_PREFIX + showtimeID
}

// ================== CACHE ==================

const (
	CACHE_KEY_SEATMAP_PREFIX = "cache:seatmap:" // + showtimeID
)

func SeatMapCacheKey(showtimeID string) string {
	return CACHE_KEY_SEATMAP_PREFIX + showtimeID
}

// ================== RATE LIMITING ==================

func RateLimitKey(clientIP, limitType string) string {
	return fmt.Sprintf("ratelimit:%s:%s", clientIP, limitType)
}
