package route

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/loci-route/internal/app/domain/geo"
	"github.com/FACorreiaa/loci-route/internal/app/domain/poi"
	"github.com/FACorreiaa/loci-route/internal/pkg/config"
)

func testTransport() config.TransportConfig {
	return config.TransportConfig{
		Profiles: map[string]config.TransportProfile{
			"WALKING": {KRing: 2, SpeedKMH: 5},
		},
	}
}

func testRouteConfig() config.RouteConfig {
	return config.RouteConfig{
		DefaultStayMinutes:      30,
		SimilarityThreshold:     0.8,
		DefaultBearingScore:     0.5,
		DefaultRating:           0.5,
		LastPOIRadiusThresholds: []float64{0.2, 0.4, 0.6, 0.8, 1.0},
		UseCircularRouting:      false,
	}
}

func mkCandidate(name, category string, lat, lon, similarity, rating float64) Candidate {
	return Candidate{
		POI: poi.POI{
			ID:                   uuid.New(),
			Name:                 name,
			Latitude:             lat,
			Longitude:            lon,
			PoiType:              category,
			PoiTypeClean:         category,
			NormalizeStarsRating: rating,
			StayTimeMinutes:      30,
		},
		Similarity: similarity,
		Category:   category,
	}
}

func TestPlan_TargetMode_ProducesRequestedPlaceCount(t *testing.T) {
	user := geo.Point{Lat: 10.7769, Lon: 106.7009}
	candidates := []Candidate{
		mkCandidate("Museum", "Culture & heritage", 10.778, 106.702, 0.9, 0.8),
		mkCandidate("Park", "Nature & View", 10.780, 106.703, 0.85, 0.7),
		mkCandidate("Gallery", "Culture & heritage", 10.782, 106.704, 0.8, 0.6),
		mkCandidate("Market", "Shopping", 10.784, 106.705, 0.75, 0.9),
	}

	req := BuildRequest{
		UserLocation:       user,
		Candidates:         candidates,
		TransportationMode: "WALKING",
		MaxTimeMinutes:     600,
		TargetPlaces:       4,
		MaxRoutes:          1,
		Mode:               ModeTarget,
	}

	routes, err := Plan(testRouteConfig(), testTransport(), req)
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Len(t, routes[0].Places, 4)
}

func TestPlan_DurationMode_StaysWithinBudget(t *testing.T) {
	user := geo.Point{Lat: 10.7769, Lon: 106.7009}
	candidates := []Candidate{
		mkCandidate("Museum", "Culture & heritage", 10.778, 106.702, 0.9, 0.8),
		mkCandidate("Park", "Nature & View", 10.780, 106.703, 0.85, 0.7),
		mkCandidate("Gallery", "Culture & heritage", 10.782, 106.704, 0.8, 0.6),
	}

	req := BuildRequest{
		UserLocation:       user,
		Candidates:         candidates,
		TransportationMode: "WALKING",
		MaxTimeMinutes:     120,
		MaxRoutes:          1,
		Mode:               ModeDuration,
	}

	routes, err := Plan(testRouteConfig(), testTransport(), req)
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.LessOrEqual(t, routes[0].TotalTimeMinutes, 120.0)
}

func TestPlan_MultipleRoutes_DifferByAtLeastTwoPOIs(t *testing.T) {
	user := geo.Point{Lat: 10.7769, Lon: 106.7009}
	candidates := []Candidate{
		mkCandidate("A", "Culture & heritage", 10.778, 106.702, 0.9, 0.9),
		mkCandidate("B", "Nature & View", 10.780, 106.703, 0.88, 0.85),
		mkCandidate("C", "Culture & heritage", 10.782, 106.704, 0.85, 0.8),
		mkCandidate("D", "Shopping", 10.784, 106.705, 0.83, 0.75),
		mkCandidate("E", "Nature & View", 10.786, 106.706, 0.80, 0.7),
		mkCandidate("F", "Culture & heritage", 10.788, 106.707, 0.78, 0.65),
	}

	req := BuildRequest{
		UserLocation:       user,
		Candidates:         candidates,
		TransportationMode: "WALKING",
		MaxTimeMinutes:     600,
		TargetPlaces:       3,
		MaxRoutes:          3,
		Mode:               ModeTarget,
	}

	routes, err := Plan(testRouteConfig(), testTransport(), req)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(routes), 1)

	for i := 0; i < len(routes); i++ {
		for j := i + 1; j < len(routes); j++ {
			assert.True(t, differsEnoughFromAll(routes[i], routes[j:j+1]))
		}
	}
}

func TestPlan_EmptyCandidates_ReturnsError(t *testing.T) {
	req := BuildRequest{
		UserLocation: geo.Point{Lat: 0, Lon: 0},
		Candidates:   nil,
		Mode:         ModeTarget,
		TargetPlaces: 2,
		MaxRoutes:    1,
	}
	_, err := Plan(testRouteConfig(), testTransport(), req)
	assert.Error(t, err)
}

func TestPlan_MealWindowInsertsRestaurant(t *testing.T) {
	user := geo.Point{Lat: 10.7769, Lon: 106.7009}
	candidates := []Candidate{
		mkCandidate("Museum", "Culture & heritage", 10.778, 106.702, 0.9, 0.8),
		mkCandidate("Bistro", "Restaurant", 10.780, 106.703, 0.7, 0.9),
		mkCandidate("Gallery", "Culture & heritage", 10.782, 106.704, 0.85, 0.6),
	}

	start := time.Date(2026, 7, 29, 12, 0, 0, 0, time.UTC)
	req := BuildRequest{
		UserLocation:       user,
		Candidates:         candidates,
		TransportationMode: "WALKING",
		MaxTimeMinutes:     240,
		TargetPlaces:       3,
		MaxRoutes:          1,
		CurrentDatetime:    &start,
		Mode:               ModeTarget,
	}

	routes, err := Plan(testRouteConfig(), testTransport(), req)
	require.NoError(t, err)
	require.Len(t, routes, 1)

	hasRestaurant := false
	for _, p := range routes[0].Places {
		if p.Category == "Restaurant" {
			hasRestaurant = true
		}
	}
	assert.True(t, hasRestaurant, "expected a restaurant stop during the lunch window")
}
