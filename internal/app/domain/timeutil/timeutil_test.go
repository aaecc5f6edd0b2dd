package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseTime(t *testing.T) {
	assert.Equal(t, 11*60, ParseTime("11:00"))
	assert.Equal(t, 14*60+30, ParseTime("14:30"))
	assert.Equal(t, 0, ParseTime("garbage"))
	assert.Equal(t, 0, ParseTime(""))
}

func TestIsOpenAt_NoHoursAlwaysOpen(t *testing.T) {
	assert.True(t, IsOpenAt(nil, time.Date(2026, 1, 15, 23, 0, 0, 0, time.UTC)))
}

func TestIsOpenAt_DayNotPresentIsClosed(t *testing.T) {
	hours := []DayHours{
		{Day: "Monday", Ranges: []TimeRange{{Start: "09:00", End: "17:00"}}},
	}
	// 2026-01-15 is a Thursday.
	assert.False(t, IsOpenAt(hours, time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)))
}

func TestIsOpenAt_WithinRange(t *testing.T) {
	hours := []DayHours{
		{Day: "Thursday", Ranges: []TimeRange{{Start: "09:00", End: "17:00"}}},
	}
	assert.True(t, IsOpenAt(hours, time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)))
	assert.False(t, IsOpenAt(hours, time.Date(2026, 1, 15, 18, 0, 0, 0, time.UTC)))
}

func TestHasEnoughTimeToStay(t *testing.T) {
	hours := []DayHours{
		{Day: "Thursday", Ranges: []TimeRange{{Start: "09:00", End: "17:00"}}},
	}
	arrival := time.Date(2026, 1, 15, 16, 55, 0, 0, time.UTC)
	assert.False(t, HasEnoughTimeToStay(hours, arrival, 30))
	assert.True(t, HasEnoughTimeToStay(hours, arrival, 5))
}

func TestNeedsMealRestaurant(t *testing.T) {
	start := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
	needsLunch, needsDinner := NeedsMealRestaurant(start, 240)
	assert.True(t, needsLunch)
	assert.False(t, needsDinner)
}

func TestMealOverlapMinutes_FoodQueryAlreadyCovers(t *testing.T) {
	start := time.Date(2026, 1, 15, 12, 30, 0, 0, time.UTC)
	lunch, _ := MealOverlapMinutes(start, 180)
	assert.GreaterOrEqual(t, lunch, 60)
}
