package semantic

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandQueries_SplitsAndTrims(t *testing.T) {
	start := time.Date(2026, 7, 29, 9, 0, 0, 0, time.UTC)
	queries, err := expandQueries("Nature & View,  Shopping ", false, start, 60)
	require.NoError(t, err)
	assert.Equal(t, []string{"Nature & View", "Shopping"}, queries)
}

func TestExpandQueries_FoodAndLocalFlavoursExpands(t *testing.T) {
	start := time.Date(2026, 7, 29, 9, 0, 0, 0, time.UTC)
	queries, err := expandQueries(foodAndLocalFlavours, false, start, 60)
	require.NoError(t, err)
	assert.Contains(t, queries, "Cafe & Bakery")
	assert.Contains(t, queries, "Restaurant")
}

func TestExpandQueries_CustomerLikeFlagAddsCulture(t *testing.T) {
	start := time.Date(2026, 7, 29, 9, 0, 0, 0, time.UTC)
	queries, err := expandQueries(foodAndLocalFlavours, true, start, 60)
	require.NoError(t, err)
	assert.Contains(t, queries, "Culture & heritage")
}

func TestExpandQueries_MealOverlapAddsRestaurant(t *testing.T) {
	// 12:30 start, 90 minute budget: overlaps lunch window [11:00,14:00] by 90 minutes.
	start := time.Date(2026, 7, 29, 12, 30, 0, 0, time.UTC)
	queries, err := expandQueries("Nature & View", false, start, 90)
	require.NoError(t, err)
	assert.Contains(t, queries, "Restaurant")
}

func TestExpandQueries_NoMealOverlapDoesNotAddRestaurant(t *testing.T) {
	// 08:00 start, 30 minute budget: no overlap with lunch or dinner.
	start := time.Date(2026, 7, 29, 8, 0, 0, 0, time.UTC)
	queries, err := expandQueries("Nature & View", false, start, 30)
	require.NoError(t, err)
	assert.NotContains(t, queries, "Restaurant")
}

func TestExpandQueries_EmptyAfterParsingIsError(t *testing.T) {
	start := time.Date(2026, 7, 29, 8, 0, 0, 0, time.UTC)
	_, err := expandQueries("   ,  ,", false, start, 30)
	assert.Error(t, err)
}
