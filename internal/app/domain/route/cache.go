package route

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// cacheTTL is the route cache entry's fixed lifetime (spec.md §3).
const cacheTTL = time.Hour

// CachedPOI is one slot in a cached route: the POI id and the
// category it was placed under.
type CachedPOI struct {
	PoiID    uuid.UUID `json:"poi_id"`
	Category string    `json:"category"`
}

// CachedRoute is one route within a user's cache entry, keyed by its
// route_id in the parent map.
type CachedRoute struct {
	Pois []CachedPOI `json:"pois"`
}

// Entry is the per-user route cache entry (spec.md §3 "Route Cache
// Entry"), grounded on the TwoTierCache's Redis-backed JSON blob
// pattern in internal/pkg/cache.
type Entry struct {
	TransportationMode      string                   `json:"transportation_mode"`
	Routes                  map[int]CachedRoute      `json:"routes"`
	AvailablePOIsByCategory map[string][]uuid.UUID   `json:"available_pois_by_category"`
	ReplacedPOIsByCategory  map[string][]uuid.UUID   `json:"replaced_pois_by_category"`
}

func newEntry(transportationMode string) *Entry {
	return &Entry{
		TransportationMode:      transportationMode,
		Routes:                  make(map[int]CachedRoute),
		AvailablePOIsByCategory: make(map[string][]uuid.UUID),
		ReplacedPOIsByCategory:  make(map[string][]uuid.UUID),
	}
}

// Cache is the Redis-backed store for route cache entries, one per
// user. Unlike the spatial/semantic two-tier caches, entries are
// mutated via read-modify-write (spec.md §5's documented race: the
// later SET wins), so there is no L1 tier to keep consistent.
type Cache struct {
	redis  *redis.Client
	logger *zap.Logger
}

func NewCache(redisClient *redis.Client, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{redis: redisClient, logger: logger}
}

func cacheKey(userID string) string {
	return fmt.Sprintf("route_metadata:%s", userID)
}

// Load fetches a user's route cache entry. It returns (nil, false) on
// a miss or a degraded Redis error.
func (c *Cache) Load(ctx context.Context, userID string) (*Entry, bool) {
	raw, err := c.redis.Get(ctx, cacheKey(userID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("route cache get failed, degrading to miss", zap.String("user_id", userID), zap.Error(err))
		}
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		c.logger.Warn("route cache unmarshal failed, degrading to miss", zap.String("user_id", userID), zap.Error(err))
		return nil, false
	}
	return &entry, true
}

// Save persists the entry with the fixed one-hour TTL.
func (c *Cache) Save(ctx context.Context, userID string, entry *Entry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("route cache: marshal: %w", err)
	}
	if err := c.redis.Set(ctx, cacheKey(userID), raw, cacheTTL).Err(); err != nil {
		return fmt.Errorf("route cache: set: %w", err)
	}
	return nil
}

// Delete explicitly removes a user's cache entry, per the "routes"
// endpoint's delete_cache flag (spec.md §3).
func (c *Cache) Delete(ctx context.Context, userID string) error {
	if err := c.redis.Del(ctx, cacheKey(userID)).Err(); err != nil {
		return fmt.Errorf("route cache: delete: %w", err)
	}
	return nil
}

// StoreRoutes builds (or overwrites) a user's cache entry from a
// freshly planned set of routes and their candidate pool, as the
// `routes` endpoint does on every call (spec.md §3's "created or
// overwritten by routes").
func StoreRoutes(transportationMode string, routes []Route, candidates []Candidate) *Entry {
	entry := newEntry(transportationMode)

	byCategory := make(map[string][]uuid.UUID)
	for _, c := range candidates {
		byCategory[c.Category] = append(byCategory[c.Category], c.POI.ID)
	}
	entry.AvailablePOIsByCategory = byCategory

	for routeID, r := range routes {
		cached := CachedRoute{Pois: make([]CachedPOI, 0, len(r.Places))}
		for _, p := range r.Places {
			cached.Pois = append(cached.Pois, CachedPOI{PoiID: p.PlaceID, Category: p.Category})
		}
		entry.Routes[routeID+1] = cached
	}

	return entry
}
