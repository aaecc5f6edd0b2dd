package cache

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// CacheMetrics tracks cache performance.
type CacheMetrics struct {
	Hits   int64
	Misses int64
	Sets   int64
}

// UnifiedCache is a generic, process-local cache backed by
// patrickmn/go-cache: expiry and the periodic janitor sweep come from
// that library rather than a hand-rolled map+mutex+ticker.
type UnifiedCache[T any] struct {
	store   *gocache.Cache
	ttl     time.Duration
	name    string
	logger  *zap.Logger
	hits    int64
	misses  int64
	sets    int64
}

// NewUnifiedCache creates a new generic cache with the given TTL and
// name. The janitor sweeps expired entries every ttl/2.
func NewUnifiedCache[T any](ttl time.Duration, name string, logger *zap.Logger) *UnifiedCache[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	cleanupInterval := ttl / 2
	if cleanupInterval <= 0 {
		cleanupInterval = time.Minute
	}
	return &UnifiedCache[T]{
		store:  gocache.New(ttl, cleanupInterval),
		ttl:    ttl,
		name:   name,
		logger: logger,
	}
}

// Set stores an item in the cache with the given key.
func (c *UnifiedCache[T]) Set(key string, value T) {
	c.store.Set(key, value, c.ttl)
	atomic.AddInt64(&c.sets, 1)
	c.logger.Debug("Cache set", zap.String("cache", c.name), zap.String("key", key), zap.Duration("ttl", c.ttl))
}

// Get retrieves an item from the cache.
func (c *UnifiedCache[T]) Get(key string) (T, bool) {
	raw, found := c.store.Get(key)
	if !found {
		atomic.AddInt64(&c.misses, 1)
		c.logger.Debug("Cache miss", zap.String("cache", c.name), zap.String("key", key))
		var zero T
		return zero, false
	}

	value, ok := raw.(T)
	if !ok {
		atomic.AddInt64(&c.misses, 1)
		c.logger.Warn("Cache value type mismatch, treating as miss", zap.String("cache", c.name), zap.String("key", key))
		var zero T
		return zero, false
	}

	atomic.AddInt64(&c.hits, 1)
	c.logger.Debug("Cache hit", zap.String("cache", c.name), zap.String("key", key))
	return value, true
}

// Delete removes an item from the cache.
func (c *UnifiedCache[T]) Delete(key string) {
	c.store.Delete(key)
	c.logger.Debug("Cache delete", zap.String("cache", c.name), zap.String("key", key))
}

// Clear removes all items from the cache.
func (c *UnifiedCache[T]) Clear() {
	c.store.Flush()
	c.logger.Info("Cache cleared", zap.String("cache", c.name))
}

// GetMetrics returns current cache metrics.
func (c *UnifiedCache[T]) GetMetrics() CacheMetrics {
	return CacheMetrics{
		Hits:   atomic.LoadInt64(&c.hits),
		Misses: atomic.LoadInt64(&c.misses),
		Sets:   atomic.LoadInt64(&c.sets),
	}
}

// Size returns the number of items currently in the cache.
func (c *UnifiedCache[T]) Size() int {
	return c.store.ItemCount()
}

// CacheKeyBuilder helps build consistent cache keys from a set of
// named components, hashed into one short string.
type CacheKeyBuilder struct {
	components []interface{}
	logger     *zap.Logger
}

// NewCacheKeyBuilder creates a new cache key builder.
func NewCacheKeyBuilder(logger *zap.Logger) *CacheKeyBuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheKeyBuilder{
		components: make([]interface{}, 0, 8),
		logger:     logger,
	}
}

// Add adds a component to the cache key.
func (b *CacheKeyBuilder) Add(key string, value interface{}) *CacheKeyBuilder {
	b.components = append(b.components, map[string]interface{}{key: value})
	return b
}

// AddCity adds city name to the cache key.
func (b *CacheKeyBuilder) AddCity(city string) *CacheKeyBuilder {
	return b.Add("city", city)
}

// AddDomain adds domain to the cache key.
func (b *CacheKeyBuilder) AddDomain(domain string) *CacheKeyBuilder {
	return b.Add("domain", domain)
}

// AddPreferences adds user preferences to the cache key.
func (b *CacheKeyBuilder) AddPreferences(prefs interface{}) *CacheKeyBuilder {
	return b.Add("preferences", prefs)
}

// AddUserContext adds user ID and profile ID to the cache key.
func (b *CacheKeyBuilder) AddUserContext(userID, profileID string) *CacheKeyBuilder {
	return b.Add("user_id", userID).Add("profile_id", profileID)
}

// Build generates the final cache key as an MD5 hash of its
// components.
func (b *CacheKeyBuilder) Build() (string, error) {
	jsonBytes, err := json.Marshal(b.components)
	if err != nil {
		return "", fmt.Errorf("failed to marshal cache key components: %w", err)
	}

	hash := md5.Sum(jsonBytes)
	key := hex.EncodeToString(hash[:])

	b.logger.Debug("Cache key built", zap.String("key", key), zap.String("components", string(jsonBytes)))

	return key, nil
}

// BuildOrDefault builds the cache key, returning an empty string on
// error.
func (b *CacheKeyBuilder) BuildOrDefault() string {
	key, err := b.Build()
	if err != nil {
		b.logger.Error("Failed to build cache key", zap.Error(err))
		return ""
	}
	return key
}
