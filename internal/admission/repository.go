package admission

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"ticketflow/internal/shared/constants"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Repository is the Redis-backed store for queue state: a per-event ZSET of
// waiting tokens scored by enqueue time, a per-event SET of admitted tokens,
// and a per-token metadata hash.
type Repository interface {
	Enqueue(ctx context.Context, eventID uuid.UUID, token string, score int64) error
	SaveTokenMeta(ctx context.Context, token string, meta TokenMeta, ttl time.Duration) error
	GetTokenMeta(ctx context.Context, token string) (*TokenMeta, error)
	Rank(ctx context.Context, eventID uuid.UUID, token string) (int64, bool, error)
	IsReady(ctx context.Context, eventID uuid.UUID, token string) (bool, error)
	PopAndMarkReady(ctx context.Context, eventID uuid.UUID, count int, readyTTL time.Duration) (int64, error)
	ConsumeReady(ctx context.Context, eventID uuid.UUID, token string) (bool, error)
	ScanQueueKeys(ctx context.Context) ([]string, error)
}

// popAndMarkReadyScript atomically moves the head of the waiting ZSET into
// the ready SET and refreshes the ready window. Without the script a crash
// between ZREM and SADD would silently drop admitted tokens.
var popAndMarkReadyScript = redis.NewScript(`
local tokens = redis.call('ZRANGE', KEYS[1], 0, tonumber(ARGV[1]) - 1)
if #tokens == 0 then
    return 0
end
redis.call('ZREM', KEYS[1], unpack(tokens))
redis.call('SADD', KEYS[2], unpack(tokens))
redis.call('EXPIRE', KEYS[2], tonumber(ARGV[2]))
return #tokens
`)

type redisRepository struct {
	client *redis.Client
}

func NewRepository(client *redis.Client) Repository {
	return &redisRepository{client: client}
}

func (r *redisRepository) Enqueue(ctx context.Context, eventID uuid.UUID, token string, score int64) error {
	err := r.client.ZAdd(ctx, constants.QueueKey(eventID.String()), redis.Z{
		Score:  float64(score),
		Member: token,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to enqueue token: %w", err)
	}
	return nil
}

func (r *redisRepository) SaveTokenMeta(ctx context.Context, token string, meta TokenMeta, ttl time.Duration) error {
	key := constants.QueueTokenKey(token)

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"event_id":   meta.EventID.String(),
		"user_id":    meta.UserID,
		"created_at": strconv.FormatInt(meta.CreatedAt.UnixMilli(), 10),
	})
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save token metadata: %w", err)
	}
	return nil
}

func (r *redisRepository) GetTokenMeta(ctx context.Context, token string) (*TokenMeta, error) {
	fields, err := r.client.HGetAll(ctx, constants.QueueTokenKey(token)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get token metadata: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	eventID, err := uuid.Parse(fields["event_id"])
	if err != nil {
		return nil, fmt.Errorf("corrupt token metadata for %s: %w", token, err)
	}

	meta := &TokenMeta{
		EventID: eventID,
		UserID:  fields["user_id"],
	}
	if millis, err := strconv.ParseInt(fields["created_at"], 10, 64); err == nil {
		meta.CreatedAt = time.UnixMilli(millis).UTC()
	}
	return meta, nil
}

func (r *redisRepository) Rank(ctx context.Context, eventID uuid.UUID, token string) (int64, bool, error) {
	rank, err := r.client.ZRank(ctx, constants.QueueKey(eventID.String()), token).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get queue rank: %w", err)
	}
	return rank, true, nil
}

func (r *redisRepository) IsReady(ctx context.Context, eventID uuid.UUID, token string) (bool, error) {
	ready, err := r.client.SIsMember(ctx, constants.QueueReadyKey(eventID.String()), token).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check ready set: %w", err)
	}
	return ready, nil
}

func (r *redisRepository) PopAndMarkReady(ctx context.Context, eventID uuid.UUID, count int, readyTTL time.Duration) (int64, error) {
	keys := []string{
		constants.QueueKey(eventID.String()),
		constants.QueueReadyKey(eventID.String()),
	}
	admitted, err := popAndMarkReadyScript.Run(ctx, r.client, keys,
		count, int(readyTTL.Seconds())).Int64()
	if err != nil {
		return 0, fmt.Errorf("failed to admit queue entries: %w", err)
	}
	return admitted, nil
}

func (r *redisRepository) ConsumeReady(ctx context.Context, eventID uuid.UUID, token string) (bool, error) {
	removed, err := r.client.SRem(ctx, constants.QueueReadyKey(eventID.String()), token).Result()
	if err != nil {
		return false, fmt.Errorf("failed to consume ready token: %w", err)
	}
	return removed > 0, nil
}

// ScanQueueKeys returns every key under the queue prefix, including ready
// and token keys. Callers filter by parsing the event ID segment.
func (r *redisRepository) ScanQueueKeys(ctx context.Context) ([]string, error) {
	var keys []string
	var cursor uint64
	for {
		batch, next, err := r.client.Scan(ctx, cursor, constants.QUEUE_KEY_PREFIX+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan queue keys: %w", err)
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return keys, nil
}
