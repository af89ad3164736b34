package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Domenick1991/flightseats/config"
	"github.com/Domenick1991/flightseats/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only if it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

type RedisCache struct {
	client     *redis.Client
	summaryTTL time.Duration
	token      string
}

func NewRedisCache(cfg config.RedisConfig, summaryTTL time.Duration) *RedisCache {
	return NewRedisCacheWithClient(
		redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		summaryTTL,
	)
}

func NewRedisCacheWithClient(client *redis.Client, summaryTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     client,
		summaryTTL: summaryTTL,
		token:      uuid.NewString(),
	}
}

// GetSummary returns nil, nil on a cache miss.
func (c *RedisCache) GetSummary(ctx context.Context, flightCode string) (*domain.FlightSummary, error) {
	data, err := c.client.Get(ctx, summaryKey(flightCode)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var summary domain.FlightSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *RedisCache) SetSummary(ctx context.Context, summary domain.FlightSummary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, summaryKey(summary.FlightCode), payload, c.summaryTTL).Err()
}

func (c *RedisCache) InvalidateSummary(ctx context.Context, flightCode string) error {
	return c.client.Del(ctx, summaryKey(flightCode)).Err()
}

// AcquireSnapshotLock claims the right to write the flight's snapshot for ttl.
func (c *RedisCache) AcquireSnapshotLock(ctx context.Context, flightCode string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, snapshotLockKey(flightCode), c.token, ttl).Result()
}

func (c *RedisCache) ReleaseSnapshotLock(ctx context.Context, flightCode string) error {
	return releaseScript.Run(ctx, c.client, []string{snapshotLockKey(flightCode)}, c.token).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func summaryKey(flightCode string) string {
	return fmt.Sprintf("cache:flight:%s:summary", flightCode)
}

func snapshotLockKey(flightCode string) string {
	return fmt.Sprintf("lock:flight:%s:snapshot", flightCode)
}
