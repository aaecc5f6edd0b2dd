package routeapi

import (
	"fmt"
	"time"
)

const (
	defaultMaxTimeMinutes = 180
	defaultTargetPlaces   = 5
	defaultMaxRoutes      = 3
)

// parseCurrentTime parses the optional ISO-8601 current_time field,
// defaulting to now (UTC) when absent (spec.md §6).
func parseCurrentTime(raw *string) (time.Time, error) {
	if raw == nil || *raw == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, *raw)
	if err != nil {
		t, err = time.Parse("2006-01-02T15:04:05", *raw)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid current_time: %w", err)
		}
	}
	return t, nil
}
