package routeapi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCurrentTime_NilDefaultsToNow(t *testing.T) {
	before := time.Now().UTC()
	got, err := parseCurrentTime(nil)
	require.NoError(t, err)
	assert.WithinDuration(t, before, got, time.Second)
}

func TestParseCurrentTime_EmptyStringDefaultsToNow(t *testing.T) {
	empty := ""
	before := time.Now().UTC()
	got, err := parseCurrentTime(&empty)
	require.NoError(t, err)
	assert.WithinDuration(t, before, got, time.Second)
}

func TestParseCurrentTime_RFC3339(t *testing.T) {
	raw := "2026-07-29T12:00:00Z"
	got, err := parseCurrentTime(&raw)
	require.NoError(t, err)
	assert.Equal(t, 2026, got.Year())
	assert.Equal(t, time.July, got.Month())
	assert.Equal(t, 29, got.Day())
}

func TestParseCurrentTime_LocalLayoutFallback(t *testing.T) {
	raw := "2026-07-29T12:00:00"
	got, err := parseCurrentTime(&raw)
	require.NoError(t, err)
	assert.Equal(t, 12, got.Hour())
}

func TestParseCurrentTime_InvalidReturnsError(t *testing.T) {
	raw := "not-a-time"
	_, err := parseCurrentTime(&raw)
	assert.Error(t, err)
}
