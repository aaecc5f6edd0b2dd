package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Entry wraps a cached value with a Found flag so that "the key was
// cached, and the cached value is the empty/not-found case" (a cache
// hit on a negative result) is distinguishable from "the key was
// never cached" (a cache miss). This underlies both the H3 empty-
// bucket cache and the POI info store's negative cache (spec.md
// §4.3, §4.4).
type Entry[T any] struct {
	Found bool `json:"found"`
	Value T    `json:"value"`
}

// TwoTierCache is an L1 (in-process, UnifiedCache) in front of an L2
// (Redis) cache, keyed by string and storing JSON-encoded Entry[T]
// values. A cache read error on L2 degrades to an L1 miss rather than
// failing the caller (spec.md §4.3 failure modes: "a cache error
// degrades to direct database work").
type TwoTierCache[T any] struct {
	l1     *UnifiedCache[Entry[T]]
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewTwoTierCache builds a two-tier cache. redisClient may be nil, in
// which case the cache runs L1-only (useful for tests).
func NewTwoTierCache[T any](redisClient *redis.Client, ttl time.Duration, name string, logger *zap.Logger) *TwoTierCache[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TwoTierCache[T]{
		l1:     NewUnifiedCache[Entry[T]](ttl, name, logger),
		redis:  redisClient,
		ttl:    ttl,
		logger: logger,
	}
}

// Get returns (entry, true) on a hit at either tier. A hit at L2 is
// promoted into L1. Any Redis error is logged and treated as a miss.
func (c *TwoTierCache[T]) Get(ctx context.Context, key string) (Entry[T], bool) {
	if entry, ok := c.l1.Get(key); ok {
		return entry, true
	}

	if c.redis == nil {
		return Entry[T]{}, false
	}

	raw, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("redis get failed, degrading to miss", zap.String("key", key), zap.Error(err))
		}
		return Entry[T]{}, false
	}

	var entry Entry[T]
	if err := json.Unmarshal(raw, &entry); err != nil {
		c.logger.Warn("redis value unmarshal failed, treating as miss", zap.String("key", key), zap.Error(err))
		return Entry[T]{}, false
	}

	c.l1.Set(key, entry)
	return entry, true
}

// Set writes to both tiers with the cache's configured TTL.
func (c *TwoTierCache[T]) Set(ctx context.Context, key string, entry Entry[T]) {
	c.l1.Set(key, entry)

	if c.redis == nil {
		return
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		c.logger.Warn("redis value marshal failed, L1-only write", zap.String("key", key), zap.Error(err))
		return
	}

	if err := c.redis.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("redis set failed, L1-only write", zap.String("key", key), zap.Error(err))
	}
}
