package geoutil_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/discoverly/discoverly/backend/pkg/geoutil"
)

func TestDistanceKm(t *testing.T) {
	t.Run("known short distance", func(t *testing.T) {
		// One hundredth of a degree in both axes at 40N is roughly 1.4 km
		d := geoutil.DistanceKm(40.0, -73.0, 40.01, -73.01)
		assert.InDelta(t, 1.4, d, 0.2)
	})

	t.Run("zero distance for identical points", func(t *testing.T) {
		assert.Equal(t, 0.0, geoutil.DistanceKm(51.5, -0.12, 51.5, -0.12))
	})

	t.Run("symmetric", func(t *testing.T) {
		a := geoutil.DistanceKm(6.5244, 3.3792, 9.0765, 7.3986)
		b := geoutil.DistanceKm(9.0765, 7.3986, 6.5244, 3.3792)
		assert.InDelta(t, a, b, 1e-9)
	})
}

func TestRoundKm(t *testing.T) {
	assert.Equal(t, 1.35, geoutil.RoundKm(1.34999999))
	assert.Equal(t, 0.0, geoutil.RoundKm(0))
	assert.Equal(t, 12.5, geoutil.RoundKm(12.5))
}

func TestValidCoordinates(t *testing.T) {
	tests := []struct {
		name  string
		lat   float64
		lon   float64
		valid bool
	}{
		{"valid pair", 40.0, -73.0, true},
		{"lat out of range", 91.0, 0, false},
		{"lon out of range", 0, -181.0, false},
		{"NaN latitude", math.NaN(), 0, false},
		{"infinite longitude", 0, math.Inf(1), false},
		{"boundary values", -90, 180, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, geoutil.ValidCoordinates(tt.lat, tt.lon))
		})
	}
}

func TestIsNullIsland(t *testing.T) {
	assert.True(t, geoutil.IsNullIsland(0, 0))
	assert.False(t, geoutil.IsNullIsland(0, 0.0001))
	assert.False(t, geoutil.IsNullIsland(40.0, -73.0))
}
