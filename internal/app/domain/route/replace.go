package route

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/FACorreiaa/loci-route/internal/app/domain/geo"
	"github.com/FACorreiaa/loci-route/internal/app/domain/poi"
	"github.com/FACorreiaa/loci-route/internal/app/domain/timeutil"
	"github.com/FACorreiaa/loci-route/internal/pkg/config"
)

// maxReplacementCandidates is the number of alternative POIs offered
// per replacement call (spec.md §4.8 step 4: "keep up to three").
const maxReplacementCandidates = 3

// ReplacementCandidate is one alternative offered in place of a POI
// slated for replacement, with the travel/distance deltas against its
// surrounding neighbors (spec.md §4.8 step 5).
type ReplacementCandidate struct {
	POI                poi.POI
	TravelTimeDeltaMin float64
	DistanceDeltaKM    float64
	ArrivalTime        *time.Time
	OpenHoursToday      []timeutil.DayHours
}

// Replacer implements spec.md §4.8's POI replacement service.
type Replacer struct {
	cache     *Cache
	store     *poi.Store
	transport config.TransportConfig
}

func NewReplacer(cache *Cache, store *poi.Store, transport config.TransportConfig) *Replacer {
	return &Replacer{cache: cache, store: store, transport: transport}
}

// ReplacePOI implements `replace_poi`.
func (r *Replacer) ReplacePOI(
	ctx context.Context,
	userID string,
	routeID int,
	poiIDToReplace uuid.UUID,
	currentDatetime *time.Time,
) ([]ReplacementCandidate, error) {
	entry, ok := r.cache.Load(ctx, userID)
	if !ok {
		return nil, fmt.Errorf("route: no cache entry for user %q", userID)
	}
	cached, ok := entry.Routes[routeID]
	if !ok {
		return nil, fmt.Errorf("route: unknown route id %d for user %q", routeID, userID)
	}

	slotIndex := -1
	var category string
	for i, p := range cached.Pois {
		if p.PoiID == poiIDToReplace {
			slotIndex = i
			category = p.Category
			break
		}
	}
	if slotIndex == -1 {
		return nil, fmt.Errorf("route: poi %s not found in route %d", poiIDToReplace, routeID)
	}

	pool := candidatePool(entry.AvailablePOIsByCategory[category], cached.Pois, entry.ReplacedPOIsByCategory[category])
	if len(pool) == 0 {
		entry.ReplacedPOIsByCategory[category] = nil
		pool = candidatePool(entry.AvailablePOIsByCategory[category], cached.Pois, nil)
	}
	if len(pool) == 0 {
		return nil, nil
	}

	hydrated, err := r.store.GetByIDs(ctx, pool)
	if err != nil {
		return nil, fmt.Errorf("route: hydrate replacement candidates: %w", err)
	}
	if currentDatetime != nil {
		hydrated = filterOpenAt(hydrated, *currentDatetime)
	}
	if len(hydrated) > maxReplacementCandidates {
		hydrated = hydrated[:maxReplacementCandidates]
	}

	prevNeighbor, hasPrev := neighborPOI(ctx, r.store, cached.Pois, slotIndex-1)
	nextNeighbor, hasNext := neighborPOI(ctx, r.store, cached.Pois, slotIndex+1)
	anchor, hasAnchor := prevNeighbor, hasPrev
	if !hasAnchor {
		anchor, hasAnchor = nextNeighbor, hasNext
	}

	replaced, _, _ := r.store.GetByID(ctx, poiIDToReplace)

	candidates := make([]ReplacementCandidate, 0, len(hydrated))
	for _, p := range hydrated {
		rc := ReplacementCandidate{POI: p}
		if hasAnchor {
			anchorPoint := geo.Point{Lat: anchor.Latitude, Lon: anchor.Longitude}
			newDist := geo.HaversineKM(anchorPoint, geo.Point{Lat: p.Latitude, Lon: p.Longitude})
			oldDist := geo.HaversineKM(anchorPoint, geo.Point{Lat: replaced.Latitude, Lon: replaced.Longitude})
			rc.DistanceDeltaKM = newDist - oldDist
			rc.TravelTimeDeltaMin = travelTimeMinutes(newDist, entry.TransportationMode, r.transport) -
				travelTimeMinutes(oldDist, entry.TransportationMode, r.transport)
		}
		if currentDatetime != nil {
			arrival := *currentDatetime
			rc.ArrivalTime = &arrival
			rc.OpenHoursToday = hoursForWeekday(p.OpenHours, arrival)
		}
		candidates = append(candidates, rc)
	}

	offered := entry.ReplacedPOIsByCategory[category]
	for _, c := range candidates {
		offered = append(offered, c.POI.ID)
	}
	entry.ReplacedPOIsByCategory[category] = offered

	if err := r.cache.Save(ctx, userID, entry); err != nil {
		return nil, err
	}

	return candidates, nil
}

// ConfirmReplacePOI implements `confirm_replace_poi`.
func (r *Replacer) ConfirmReplacePOI(
	ctx context.Context,
	userID string,
	routeID int,
	oldPoiID, newPoiID uuid.UUID,
) ([]CachedPOI, error) {
	entry, ok := r.cache.Load(ctx, userID)
	if !ok {
		return nil, fmt.Errorf("route: no cache entry for user %q", userID)
	}
	cached, ok := entry.Routes[routeID]
	if !ok {
		return nil, fmt.Errorf("route: unknown route id %d for user %q", routeID, userID)
	}

	slotIndex := -1
	var category string
	for i, p := range cached.Pois {
		if p.PoiID == oldPoiID {
			slotIndex = i
			category = p.Category
			break
		}
	}
	if slotIndex == -1 {
		return nil, fmt.Errorf("route: poi %s not found in route %d", oldPoiID, routeID)
	}

	cached.Pois[slotIndex] = CachedPOI{PoiID: newPoiID, Category: category}
	entry.Routes[routeID] = cached
	entry.ReplacedPOIsByCategory[category] = append(entry.ReplacedPOIsByCategory[category], newPoiID)

	if err := r.cache.Save(ctx, userID, entry); err != nil {
		return nil, err
	}

	return cached.Pois, nil
}

// ReplaceRoute implements `replace_route`: re-plan requesting
// routeIDToReplace+1 routes and keep only the last (the freshest
// alternative), discarding all previously cached routes. If the
// planner could not produce that many distinct routes, it falls back
// to re-planning with MaxRoutes 1 and stores that single route as
// route_id 1. That route starts from the automatically selected first
// POI, so it is the same route the planner ranks first; the fallback
// does not try other first-POI seeds. The reset-to-1 fallback is
// reproduced from the source behavior rather than "fixed" (spec.md
// §4.8, §9).
func (r *Replacer) ReplaceRoute(
	ctx context.Context,
	userID string,
	routeIDToReplace int,
	cfg config.RouteConfig,
	req BuildRequest,
) (*Entry, error) {
	req.MaxRoutes = routeIDToReplace + 1
	routes, err := Plan(cfg, r.transport, req)
	if err != nil {
		return nil, fmt.Errorf("route: replace_route planning failed: %w", err)
	}

	var kept []Route
	if len(routes) >= routeIDToReplace+1 {
		kept = routes[len(routes)-1:]
	} else {
		fallbackReq := req
		fallbackReq.MaxRoutes = 1
		fallbackRoutes, err := Plan(cfg, r.transport, fallbackReq)
		if err != nil || len(fallbackRoutes) == 0 {
			return nil, fmt.Errorf("route: replace_route fallback could not build any route")
		}
		kept = fallbackRoutes[:1]
	}

	entry := StoreRoutes(req.TransportationMode, kept, req.Candidates)
	if err := r.cache.Save(ctx, userID, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// candidatePool returns available ids minus the ones currently in the
// route minus the ones already offered and not yet recycled.
func candidatePool(available []uuid.UUID, inRoute []CachedPOI, alreadyOffered []uuid.UUID) []uuid.UUID {
	inRouteSet := make(map[uuid.UUID]bool, len(inRoute))
	for _, p := range inRoute {
		inRouteSet[p.PoiID] = true
	}
	offeredSet := make(map[uuid.UUID]bool, len(alreadyOffered))
	for _, id := range alreadyOffered {
		offeredSet[id] = true
	}

	pool := make([]uuid.UUID, 0, len(available))
	for _, id := range available {
		if inRouteSet[id] || offeredSet[id] {
			continue
		}
		pool = append(pool, id)
	}
	return pool
}

func neighborPOI(ctx context.Context, store *poi.Store, slots []CachedPOI, idx int) (poi.POI, bool) {
	if idx < 0 || idx >= len(slots) {
		return poi.POI{}, false
	}
	p, found, err := store.GetByID(ctx, slots[idx].PoiID)
	if err != nil || !found {
		return poi.POI{}, false
	}
	return p, true
}

func filterOpenAt(pois []poi.POI, at time.Time) []poi.POI {
	out := make([]poi.POI, 0, len(pois))
	for _, p := range pois {
		if timeutil.IsOpenAt(p.OpenHours, at) {
			out = append(out, p)
		}
	}
	return out
}

func hoursForWeekday(hours []timeutil.DayHours, at time.Time) []timeutil.DayHours {
	weekday := at.Weekday().String()
	for _, d := range hours {
		if d.Day == weekday {
			return []timeutil.DayHours{d}
		}
	}
	return nil
}
