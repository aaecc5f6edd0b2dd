package route

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/loci-route/internal/app/domain/geo"
	"github.com/FACorreiaa/loci-route/internal/pkg/config"
)

// maxRouteWorkers bounds how many alternative single-route builds run
// concurrently per Plan call, keeping one expensive request from
// starving others sharing the process (spec.md §5).
const maxRouteWorkers = 4

// Plan runs spec.md §4.7's full route-building operation: it builds
// the distance matrix once, constructs the first (best-scoring) route,
// then repeatedly restarts the greedy builder from alternative
// first-POI choices to fill out up to req.MaxRoutes routes that each
// differ from every already-accepted route by at least two POIs.
//
// Grounded on route_builder_greedy.py's build_routes/build_routes_duration,
// which drive the same single-route builder from a ranked list of
// first-POI alternatives.
func Plan(cfg config.RouteConfig, transport config.TransportConfig, req BuildRequest) ([]Route, error) {
	if len(req.Candidates) == 0 {
		return nil, fmt.Errorf("route: no candidates to plan from")
	}
	if req.Mode == ModeTarget && req.TargetPlaces < 2 {
		return nil, fmt.Errorf("route: target_places must be >= 2, got %d", req.TargetPlaces)
	}
	if req.MaxRoutes <= 0 {
		req.MaxRoutes = 1
	}

	points := make([]geo.Point, len(req.Candidates))
	for i, c := range req.Candidates {
		points[i] = geo.Point{Lat: c.POI.Latitude, Lon: c.POI.Longitude}
	}
	matrix := geo.DistanceMatrix(req.UserLocation, points)

	b := newBuilder(cfg)

	first := b.buildSingleRoute(req, transport, nil, matrix)
	if first == nil {
		return nil, fmt.Errorf("route: no feasible route within the time budget")
	}

	routes := []Route{*first}
	if len(routes) >= req.MaxRoutes {
		return routes, nil
	}

	alternatives := rankedFirstPOIAlternatives(b, req, matrix)
	built := buildAlternativesConcurrently(b, req, transport, matrix, alternatives)

	// Accept in rank order so results stay deterministic: each
	// alternative's single-route build runs on its own worker, but the
	// diversity filter (which depends on what's already accepted) is
	// applied sequentially afterward.
	for _, candidate := range built {
		if len(routes) >= req.MaxRoutes {
			break
		}
		if candidate == nil {
			continue
		}
		if differsEnoughFromAll(*candidate, routes) {
			routes = append(routes, *candidate)
		}
	}

	return routes, nil
}

// buildAlternativesConcurrently builds every alternative first-POI
// route on a bounded worker pool (errgroup + buffered semaphore),
// offloading the CPU-bound construction per spec.md §5, and returns
// results in the same order as altIndices.
func buildAlternativesConcurrently(b *builder, req BuildRequest, transport config.TransportConfig, matrix [][]float64, altIndices []int) []*Route {
	results := make([]*Route, len(altIndices))

	g, _ := errgroup.WithContext(context.Background())
	sem := make(chan struct{}, maxRouteWorkers)

	for i, altIdx := range altIndices {
		i, idx := i, altIdx
		g.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = b.buildSingleRoute(req, transport, &idx, matrix)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// rankedFirstPOIAlternatives orders every candidate index by its
// first-POI combined score, descending, for use as alternative route
// starting points.
func rankedFirstPOIAlternatives(b *builder, req BuildRequest, matrix [][]float64) []int {
	maxDist := maxDistance(matrix)
	type scored struct {
		idx   int
		score float64
	}
	ranked := make([]scored, len(req.Candidates))
	for i, c := range req.Candidates {
		ranked[i] = scored{idx: i, score: combinedScore(b.cfg, c, matrix[0][i+1], maxDist, true, false, nil)}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].idx < ranked[j].idx
	})
	out := make([]int, len(ranked))
	for i, s := range ranked {
		out[i] = s.idx
	}
	return out
}

// differsEnoughFromAll enforces spec.md §4.7's route-diversity rule:
// a candidate route is kept only if its POI set differs from every
// already-accepted route by at least two places.
func differsEnoughFromAll(candidate Route, accepted []Route) bool {
	candidateSet := toSet(candidate.PlaceIndices)
	for _, r := range accepted {
		if symmetricDifferenceCount(candidateSet, toSet(r.PlaceIndices)) < 2 {
			return false
		}
	}
	return true
}

func toSet(indices []int) map[int]bool {
	set := make(map[int]bool, len(indices))
	for _, i := range indices {
		set[i] = true
	}
	return set
}

func symmetricDifferenceCount(a, b map[int]bool) int {
	count := 0
	for i := range a {
		if !b[i] {
			count++
		}
	}
	for i := range b {
		if !a[i] {
			count++
		}
	}
	return count
}
