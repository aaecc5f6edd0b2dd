package route

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/FACorreiaa/loci-route/internal/app/domain/poi"
	"github.com/FACorreiaa/loci-route/internal/app/domain/timeutil"
)

func TestCandidatePool_ExcludesInRouteAndOffered(t *testing.T) {
	a, b, c, d := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	available := []uuid.UUID{a, b, c, d}
	inRoute := []CachedPOI{{PoiID: a, Category: "Museum"}}
	offered := []uuid.UUID{b}

	pool := candidatePool(available, inRoute, offered)

	assert.NotContains(t, pool, a)
	assert.NotContains(t, pool, b)
	assert.Contains(t, pool, c)
	assert.Contains(t, pool, d)
	assert.Len(t, pool, 2)
}

func TestCandidatePool_EmptyWhenFullyExhausted(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	pool := candidatePool([]uuid.UUID{a, b}, []CachedPOI{{PoiID: a}}, []uuid.UUID{b})
	assert.Empty(t, pool)
}

func TestFilterOpenAt_KeepsOnlyOpenPOIs(t *testing.T) {
	open := timeutil.DayHours{
		Day: "Wednesday",
		Ranges: []timeutil.TimeRange{{Start: "09:00", End: "22:00"}},
	}
	closedAllDay := timeutil.DayHours{Day: "Wednesday", Ranges: nil}

	pois := []poi.POI{
		{ID: uuid.New(), Name: "open-place", OpenHours: []timeutil.DayHours{open}},
		{ID: uuid.New(), Name: "closed-place", OpenHours: []timeutil.DayHours{closedAllDay}},
	}

	at := time.Date(2026, 7, 29, 12, 0, 0, 0, time.UTC) // a Wednesday
	filtered := filterOpenAt(pois, at)

	assert.Len(t, filtered, 1)
	assert.Equal(t, "open-place", filtered[0].Name)
}

func TestHoursForWeekday_ReturnsOnlyMatchingDay(t *testing.T) {
	hours := []timeutil.DayHours{
		{Day: "Monday", Ranges: []timeutil.TimeRange{{Start: "09:00", End: "17:00"}}},
		{Day: "Wednesday", Ranges: []timeutil.TimeRange{{Start: "10:00", End: "18:00"}}},
	}

	at := time.Date(2026, 7, 29, 12, 0, 0, 0, time.UTC) // a Wednesday
	result := hoursForWeekday(hours, at)

	assert.Len(t, result, 1)
	assert.Equal(t, "Wednesday", result[0].Day)
}

func TestHoursForWeekday_NoMatchReturnsNil(t *testing.T) {
	hours := []timeutil.DayHours{
		{Day: "Monday", Ranges: []timeutil.TimeRange{{Start: "09:00", End: "17:00"}}},
	}
	at := time.Date(2026, 7, 29, 12, 0, 0, 0, time.UTC) // a Wednesday
	assert.Nil(t, hoursForWeekday(hours, at))
}
