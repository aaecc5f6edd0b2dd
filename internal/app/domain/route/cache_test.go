package route

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheKey_IsNamespacedByUser(t *testing.T) {
	assert.Equal(t, "route_metadata:user-1", cacheKey("user-1"))
	assert.NotEqual(t, cacheKey("user-1"), cacheKey("user-2"))
}

func TestNewEntry_InitializesEmptyMaps(t *testing.T) {
	entry := newEntry("WALKING")
	assert.Equal(t, "WALKING", entry.TransportationMode)
	assert.NotNil(t, entry.Routes)
	assert.NotNil(t, entry.AvailablePOIsByCategory)
	assert.NotNil(t, entry.ReplacedPOIsByCategory)
	assert.Empty(t, entry.Routes)
}

func TestStoreRoutes_IndexesRoutesFromOne(t *testing.T) {
	candidates := []Candidate{
		mkCandidate("museum-1", "Museum", 10.1, 106.1, 0.9, 0.8),
		mkCandidate("cafe-1", "Cafe & Bakery", 10.2, 106.2, 0.8, 0.7),
	}

	routes := []Route{
		{Places: []VisitedPOI{
			{PlaceID: candidates[0].POI.ID, Category: "Museum"},
			{PlaceID: candidates[1].POI.ID, Category: "Cafe & Bakery"},
		}},
	}

	entry := StoreRoutes("WALKING", routes, candidates)

	require.Len(t, entry.Routes, 1)
	cached, ok := entry.Routes[1]
	require.True(t, ok, "first route must be keyed 1, not 0")
	require.Len(t, cached.Pois, 2)
	assert.Equal(t, candidates[0].POI.ID, cached.Pois[0].PoiID)

	assert.ElementsMatch(t, []uuid.UUID{candidates[0].POI.ID}, entry.AvailablePOIsByCategory["Museum"])
	assert.ElementsMatch(t, []uuid.UUID{candidates[1].POI.ID}, entry.AvailablePOIsByCategory["Cafe & Bakery"])
}

func TestStoreRoutes_MultipleRoutesKeepDistinctKeys(t *testing.T) {
	candidates := []Candidate{mkCandidate("a", "Museum", 10.1, 106.1, 0.9, 0.8)}
	routes := []Route{
		{Places: []VisitedPOI{{PlaceID: candidates[0].POI.ID, Category: "Museum"}}},
		{Places: []VisitedPOI{{PlaceID: candidates[0].POI.ID, Category: "Museum"}}},
	}

	entry := StoreRoutes("DRIVING", routes, candidates)

	require.Len(t, entry.Routes, 2)
	_, hasFirst := entry.Routes[1]
	_, hasSecond := entry.Routes[2]
	assert.True(t, hasFirst)
	assert.True(t, hasSecond)
}
