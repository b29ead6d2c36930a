// internal/app/system/snapcache/snapcache.go

// Package snapcache caches rendered board forests in Redis.
//
// Boards fan out to many simultaneous viewers, so the same room/day forest
// is rebuilt far more often than it changes. Entries are keyed by a
// generation counter plus the query: every tree mutation bumps the
// generation, which orphans all cached entries at once, and a short TTL
// reclaims the orphans. No explicit invalidation of individual entries is
// ever needed, and a stale read is impossible as long as the bump lands
// before the next render.
//
// The cache is optional. A nil *Cache is valid and behaves as a permanent
// miss, so call sites never branch on whether Redis is configured.
package snapcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultTTL bounds how long an orphaned generation's entries linger.
const DefaultTTL = 30 * time.Second

const genKey = "planboard:boardgen"

// Cache is a generation-keyed snapshot cache.
type Cache struct {
	client *redis.Client
	log    *zap.Logger
	ttl    time.Duration
}

// New connects to Redis at addr and verifies the connection. A non-positive
// ttl falls back to DefaultTTL.
func New(addr string, logger *zap.Logger, ttl time.Duration) (*Cache, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &Cache{client: client, log: logger, ttl: ttl}, nil
}

// NewWithClient wraps an existing client; used by tests.
func NewWithClient(client *redis.Client, logger *zap.Logger, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{client: client, log: logger, ttl: ttl}
}

// Close releases the underlying client.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

func (c *Cache) entryKey(ctx context.Context, room string, day time.Time) (string, error) {
	gen, err := c.client.Get(ctx, genKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return fmt.Sprintf("planboard:board:%d:%s:%s", gen, room, day.UTC().Format("2006-01-02")), nil
}

// Get returns the cached forest JSON for a room/day, or ok=false on a miss.
// Cache errors degrade to misses; the board always renders from Mongo when
// Redis misbehaves.
func (c *Cache) Get(ctx context.Context, room string, day time.Time) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	key, err := c.entryKey(ctx, room, day)
	if err != nil {
		c.log.Warn("snapcache read failed", zap.Error(err))
		return nil, false
	}
	body, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("snapcache read failed", zap.Error(err))
		}
		return nil, false
	}
	return body, true
}

// Put stores the rendered forest JSON under the current generation.
func (c *Cache) Put(ctx context.Context, room string, day time.Time, body []byte) {
	if c == nil {
		return
	}
	key, err := c.entryKey(ctx, room, day)
	if err == nil {
		err = c.client.Set(ctx, key, body, c.ttl).Err()
	}
	if err != nil {
		c.log.Warn("snapcache write failed", zap.Error(err))
	}
}

// Bump advances the generation, orphaning every cached entry. Called after
// any mutation of the node collection.
func (c *Cache) Bump(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.client.Incr(ctx, genKey).Err(); err != nil {
		c.log.Warn("snapcache generation bump failed", zap.Error(err))
	}
}
