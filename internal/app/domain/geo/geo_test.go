package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHaversineKM_ZeroDistance(t *testing.T) {
	p := Point{Lat: 10.7769, Lon: 106.7009}
	assert.InDelta(t, 0, HaversineKM(p, p), 1e-9)
}

func TestHaversineKM_KnownDistance(t *testing.T) {
	// Roughly 1 degree of latitude ~ 111km.
	a := Point{Lat: 0, Lon: 0}
	b := Point{Lat: 1, Lon: 0}
	d := HaversineKM(a, b)
	assert.InDelta(t, 111.19, d, 0.5)
}

func TestInitialBearingDeg_Cardinals(t *testing.T) {
	origin := Point{Lat: 0, Lon: 0}

	north := Point{Lat: 1, Lon: 0}
	assert.InDelta(t, 0, InitialBearingDeg(origin, north), 0.5)

	east := Point{Lat: 0, Lon: 1}
	assert.InDelta(t, 90, InitialBearingDeg(origin, east), 0.5)
}

func TestBearingDifferenceDeg_WrapsAcute(t *testing.T) {
	assert.InDelta(t, 20, BearingDifferenceDeg(350, 10), 1e-9)
	assert.InDelta(t, 180, BearingDifferenceDeg(0, 180), 1e-9)
	assert.InDelta(t, 0, BearingDifferenceDeg(45, 45), 1e-9)
}

func TestDistanceMatrix_SymmetricAndZeroDiagonal(t *testing.T) {
	user := Point{Lat: 10.7769, Lon: 106.7009}
	places := []Point{
		{Lat: 10.78, Lon: 106.70},
		{Lat: 10.79, Lon: 106.71},
	}

	m := DistanceMatrix(user, places)
	require.Len(t, m, 3)
	for i := range m {
		require.Len(t, m[i], 3)
		assert.Equal(t, 0.0, m[i][i])
	}

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			assert.True(t, math.Abs(m[i][j]-m[j][i]) < 1e-9)
		}
	}
}
