package semantic

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/FACorreiaa/loci-route/internal/app/domain/poi"
	"github.com/FACorreiaa/loci-route/internal/app/domain/spatial"
	"github.com/FACorreiaa/loci-route/internal/app/domain/timeutil"
)

const foodAndLocalFlavours = "Food & Local Flavours"

// Shortlisted is the multi-query orchestrator's final result: each
// POI appears at most once, tagged with the category (and its index
// in the expanded query list) under which its similarity was
// highest (spec.md §3 "Semantic Hit").
type Shortlisted struct {
	POI              poi.POI
	Similarity       float64
	AssignedCategory string
	CategoryIndex    int
}

// Orchestrator implements spec.md §4.6: expand the intent string,
// run the spatial index once, then fan the expanded queries out
// across the semantic client and merge by best similarity per POI.
type Orchestrator struct {
	semantic *Client
	spatial  *spatial.Index
}

func NewOrchestrator(semanticClient *Client, spatialIndex *spatial.Index) *Orchestrator {
	return &Orchestrator{semantic: semanticClient, spatial: spatialIndex}
}

// expandQueries implements step 1 of spec.md §4.6.
func expandQueries(raw string, customerLikeFlag bool, currentDatetime time.Time, maxTimeMinutes int) ([]string, error) {
	parts := strings.Split(raw, ",")
	queries := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			queries = append(queries, trimmed)
		}
	}
	if len(queries) == 0 {
		return nil, fmt.Errorf("semantic: empty query list after parsing %q", raw)
	}

	originalWasExactlyFood := len(queries) == 1 && queries[0] == foodAndLocalFlavours
	requestedFoodAndLocal := false

	expanded := make([]string, 0, len(queries)+2)
	for _, q := range queries {
		if q == foodAndLocalFlavours {
			requestedFoodAndLocal = true
			expanded = append(expanded, "Cafe & Bakery", "Restaurant")
			continue
		}
		expanded = append(expanded, q)
	}

	if customerLikeFlag && originalWasExactlyFood {
		expanded = append(expanded, "Culture & heritage")
	}

	if !requestedFoodAndLocal {
		needsLunch, needsDinner := timeutil.NeedsMealRestaurant(currentDatetime, maxTimeMinutes)
		if needsLunch || needsDinner {
			expanded = append(expanded, "Restaurant")
		}
	}

	return expanded, nil
}

// Run executes the full orchestration described in spec.md §4.6 and
// returns the deduped, deterministically sorted shortlist.
func (o *Orchestrator) Run(
	ctx context.Context,
	lat, lon float64,
	kRing int,
	queryString string,
	topK uint64,
	customerLikeFlag bool,
	currentDatetime time.Time,
	maxTimeMinutes int,
) ([]Shortlisted, error) {
	queries, err := expandQueries(queryString, customerLikeFlag, currentDatetime, maxTimeMinutes)
	if err != nil {
		return nil, err
	}

	spatialHits, _, err := o.spatial.Query(ctx, lat, lon, kRing)
	if err != nil {
		return nil, fmt.Errorf("semantic: spatial query: %w", err)
	}
	if len(spatialHits) == 0 {
		return nil, nil
	}

	windowEnd := currentDatetime.Add(time.Duration(maxTimeMinutes) * time.Minute)
	shortlistHint := make(map[uuid.UUID]poi.POI, len(spatialHits))
	idList := make([]uuid.UUID, 0, len(spatialHits))
	for _, h := range spatialHits {
		if !timeutil.OverlapsWindow(h.POI.OpenHours, currentDatetime, windowEnd) {
			continue
		}
		shortlistHint[h.POI.ID] = h.POI
		idList = append(idList, h.POI.ID)
	}
	if len(idList) == 0 {
		return nil, nil
	}

	best := make(map[uuid.UUID]Shortlisted, len(idList))

	for categoryIndex, query := range queries {
		hits, err := o.semantic.SearchByIDs(ctx, query, idList, topK, shortlistHint)
		if err != nil {
			return nil, fmt.Errorf("semantic: query %q: %w", query, err)
		}
		for _, h := range hits {
			existing, ok := best[h.POI.ID]
			if !ok || h.Similarity > existing.Similarity {
				best[h.POI.ID] = Shortlisted{
					POI:              h.POI,
					Similarity:       h.Similarity,
					AssignedCategory: query,
					CategoryIndex:    categoryIndex,
				}
			}
		}
	}

	result := make([]Shortlisted, 0, len(best))
	for _, s := range best {
		result = append(result, s)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Similarity != result[j].Similarity {
			return result[i].Similarity > result[j].Similarity
		}
		return result[i].POI.ID.String() < result[j].POI.ID.String()
	})

	return result, nil
}
