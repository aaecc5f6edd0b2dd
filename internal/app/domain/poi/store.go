// Store implements spec.md §4.4: a per-POI cache (positive and
// negative entries) in front of a batched by-id database lookup.
package poi

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/FACorreiaa/loci-route/internal/pkg/cache"
)

// Store is the POI info store: get_by_id / get_by_ids with a
// per-POI cache.
type Store struct {
	repo  Repository
	cache *cache.TwoTierCache[POI]
}

func NewStore(repo Repository, c *cache.TwoTierCache[POI]) *Store {
	return &Store{repo: repo, cache: c}
}

func cacheKeyForID(id uuid.UUID) string {
	return fmt.Sprintf("location:%s", id.String())
}

// GetByID fetches a single POI, returning (poi, found, err). found is
// false both when the cache holds a negative entry and when the
// database genuinely has no such row.
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (POI, bool, error) {
	results, err := s.GetByIDs(ctx, []uuid.UUID{id})
	if err != nil {
		return POI{}, false, err
	}
	if len(results) == 0 {
		return POI{}, false, nil
	}
	return results[0], true, nil
}

// GetByIDs takes already-parsed ids (malformed ids are dropped at the
// boundary by ParseIDs, spec.md §4.4), consults the cache for each
// id, then issues one batched query for the miss set.
// Positive results are cached with TTL; ids not found in the database
// are cached as a negative sentinel so subsequent calls avoid another
// database trip.
func (s *Store) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]POI, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	found := make([]POI, 0, len(ids))
	missing := make([]uuid.UUID, 0)

	for _, id := range ids {
		entry, hit := s.cache.Get(ctx, cacheKeyForID(id))
		if !hit {
			missing = append(missing, id)
			continue
		}
		if entry.Found {
			found = append(found, entry.Value)
		}
		// cache hit on a negative entry: contribute nothing, don't re-query.
	}

	if len(missing) == 0 {
		return found, nil
	}

	fromDB, err := s.repo.GetByIDs(ctx, missing)
	if err != nil {
		return nil, fmt.Errorf("poi store: %w", err)
	}

	byID := make(map[uuid.UUID]POI, len(fromDB))
	for _, p := range fromDB {
		byID[p.ID] = p
		s.applyDefaults(&p)
	}

	for _, id := range missing {
		p, ok := byID[id]
		if ok {
			s.applyDefaults(&p)
			s.cache.Set(ctx, cacheKeyForID(id), cache.Entry[POI]{Found: true, Value: p})
			found = append(found, p)
		} else {
			s.cache.Set(ctx, cacheKeyForID(id), cache.Entry[POI]{Found: false})
		}
	}

	return found, nil
}

func (s *Store) applyDefaults(p *POI) {
	p.StayTimeMinutes = p.StayMinutes()
}

// ParseIDs validates raw strings as UUIDs, silently dropping
// malformed entries, per spec.md §4.4.
func ParseIDs(raw []string) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		if id, err := uuid.Parse(s); err == nil {
			out = append(out, id)
		}
	}
	return out
}
