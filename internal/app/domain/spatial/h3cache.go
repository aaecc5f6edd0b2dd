// Package spatial implements spec.md §4.3: converting (lat, lon) to
// an H3 cell, expanding to a k-ring sized per transport mode, and
// resolving the covered cells through a two-tier cache with a single
// bounding-box database fallback.
//
// Grounded on original_source/radius_logic/h3_radius_search.py.
package spatial

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	h3 "github.com/uber/h3-go/v4"
	"go.uber.org/zap"

	"github.com/FACorreiaa/loci-route/internal/app/domain/geo"
	"github.com/FACorreiaa/loci-route/internal/app/domain/poi"
	"github.com/FACorreiaa/loci-route/internal/pkg/cache"
)

// Hit is a POI returned by the spatial stage, annotated with its
// distance to the query point.
type Hit struct {
	POI         poi.POI
	DistanceKM  float64
}

// Index is the H3 spatial index with its two-tier cell cache.
type Index struct {
	repo       poi.Repository
	cellCache  *cache.TwoTierCache[[]poi.POI]
	resolution int
	logger     *zap.Logger
}

func NewIndex(repo poi.Repository, cellCache *cache.TwoTierCache[[]poi.POI], resolution int, logger *zap.Logger) *Index {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Index{repo: repo, cellCache: cellCache, resolution: resolution, logger: logger}
}

func cellCacheKey(resolution int, cell h3.Cell) string {
	return fmt.Sprintf("poi:h3:res%d:%d", resolution, uint64(cell))
}

// Query returns every POI within the coverage radius of (lat, lon)
// for the given transport mode's k-ring, sorted ascending by
// distance, plus the coverage radius used (meters).
func (idx *Index) Query(ctx context.Context, lat, lon float64, kRing int) ([]Hit, float64, error) {
	center, err := h3.LatLngToCell(h3.NewLatLng(lat, lon), idx.resolution)
	if err != nil {
		return nil, 0, fmt.Errorf("spatial: center cell: %w", err)
	}

	cells := h3.GridDisk(center, kRing)
	edgeLenKM := h3.AverageHexagonEdgeLengthKm(idx.resolution)
	coverageRadiusKM := edgeLenKM * float64(kRing) * 1.5 * 1.1
	coverageRadiusM := coverageRadiusKM * 1000

	byID, err := idx.resolveCells(ctx, cells)
	if err != nil {
		return nil, 0, err
	}

	query := geo.Point{Lat: lat, Lon: lon}
	hits := make([]Hit, 0, len(byID))
	for _, p := range byID {
		d := geo.HaversineKM(query, geo.Point{Lat: p.Latitude, Lon: p.Longitude})
		if d <= coverageRadiusKM {
			hits = append(hits, Hit{POI: p, DistanceKM: d})
		}
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].DistanceKM < hits[j].DistanceKM })

	return hits, coverageRadiusM, nil
}

// resolveCells implements steps 2-4 of spec.md §4.3: per-cell cache
// lookup, a single merged bounding-box query for the miss set,
// re-partition by H3 cell, cache every miss cell (including empties),
// and dedupe by POI id.
func (idx *Index) resolveCells(ctx context.Context, cells []h3.Cell) (map[uuid.UUID]poi.POI, error) {
	byID := make(map[uuid.UUID]poi.POI)
	misses := make([]h3.Cell, 0)

	for _, cell := range cells {
		key := cellCacheKey(idx.resolution, cell)
		entry, hit := idx.cellCache.Get(ctx, key)
		if !hit {
			misses = append(misses, cell)
			continue
		}
		for _, p := range entry.Value {
			byID[p.ID] = p
		}
	}

	if len(misses) == 0 {
		return byID, nil
	}

	minLat, minLon, maxLat, maxLon := boundingBoxFor(misses, idx.resolution)

	rows, err := idx.repo.GetByBoundingBox(ctx, minLat, minLon, maxLat, maxLon)
	if err != nil {
		return nil, fmt.Errorf("spatial: bounding box fallback: %w", err)
	}

	perCell := make(map[h3.Cell][]poi.POI, len(misses))
	missSet := make(map[h3.Cell]bool, len(misses))
	for _, c := range misses {
		missSet[c] = true
	}

	for _, p := range rows {
		cell, err := h3.LatLngToCell(h3.NewLatLng(p.Latitude, p.Longitude), idx.resolution)
		if err != nil {
			idx.logger.Warn("spatial: failed to partition row into h3 cell", zap.String("poi_id", p.ID.String()), zap.Error(err))
			continue
		}
		if !missSet[cell] {
			// Row fell inside the bbox but outside the exact miss cell; discard.
			continue
		}
		perCell[cell] = append(perCell[cell], p)
		byID[p.ID] = p
	}

	for _, cell := range misses {
		key := cellCacheKey(idx.resolution, cell)
		idx.cellCache.Set(ctx, key, cache.Entry[[]poi.POI]{Found: true, Value: perCell[cell]})
	}

	return byID, nil
}

// boundingBoxFor computes the bounding box enclosing the centroids of
// the given miss cells, padded by edge_len(R)*1.05/111 km/deg in both
// axes (spec.md §4.3 step 3).
func boundingBoxFor(cells []h3.Cell, resolution int) (minLat, minLon, maxLat, maxLon float64) {
	edgeLenKM := h3.AverageHexagonEdgeLengthKm(resolution)
	paddingDeg := (edgeLenKM * 1.05) / 111.0

	first := true
	for _, cell := range cells {
		ll, err := cell.LatLng()
		if err != nil {
			continue
		}
		if first {
			minLat, maxLat = ll.Lat, ll.Lat
			minLon, maxLon = ll.Lng, ll.Lng
			first = false
			continue
		}
		if ll.Lat < minLat {
			minLat = ll.Lat
		}
		if ll.Lat > maxLat {
			maxLat = ll.Lat
		}
		if ll.Lng < minLon {
			minLon = ll.Lng
		}
		if ll.Lng > maxLon {
			maxLon = ll.Lng
		}
	}

	return minLat - paddingDeg, minLon - paddingDeg, maxLat + paddingDeg, maxLon + paddingDeg
}
