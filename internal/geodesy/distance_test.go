package geodesy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Reference distances computed with Karney's GeographicLib on WGS84.
func TestMiles_KnownDistances(t *testing.T) {
	tests := []struct {
		name           string
		lat1, lon1     float64
		lat2, lon2     float64
		wantMiles      float64
		toleranceMiles float64
	}{
		{
			name: "NYC to LA",
			lat1: 40.7128, lon1: -74.0060,
			lat2: 34.0522, lon2: -118.2437,
			wantMiles: 2445.6, toleranceMiles: 3,
		},
		{
			name: "one degree of latitude at the equator",
			lat1: 0, lon1: 0,
			lat2: 1, lon2: 0,
			wantMiles: 68.71, toleranceMiles: 0.1,
		},
		{
			name: "Albany to Buffalo",
			lat1: 42.6526, lon1: -73.7562,
			lat2: 42.8864, lon2: -78.8784,
			wantMiles: 261.5, toleranceMiles: 1.5,
		},
		{
			name: "short hop across Manhattan",
			lat1: 40.7484, lon1: -73.9857,
			lat2: 40.7589, lon2: -73.9851,
			wantMiles: 0.73, toleranceMiles: 0.02,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Miles(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			assert.InDelta(t, tt.wantMiles, got, tt.toleranceMiles)
		})
	}
}

func TestMiles_Symmetric(t *testing.T) {
	pairs := [][4]float64{
		{40.7128, -74.0060, 34.0522, -118.2437},
		{42.6526, -73.7562, 42.8864, -78.8784},
		{-33.8688, 151.2093, 51.5074, -0.1278},
		{0.5, 179.5, -0.5, -179.5}, // across the antimeridian
	}
	for _, p := range pairs {
		ab := Miles(p[0], p[1], p[2], p[3])
		ba := Miles(p[2], p[3], p[0], p[1])
		assert.InDelta(t, ab, ba, 1e-9)
		assert.GreaterOrEqual(t, ab, 0.0)
	}
}

func TestMiles_CoincidentPoints(t *testing.T) {
	assert.Zero(t, Miles(42.0, -73.0, 42.0, -73.0))
}

func TestMeters_NearAntipodalFallsBack(t *testing.T) {
	// Vincenty is known not to converge for some nearly antipodal pairs;
	// the fallback must still return something close to half the
	// circumference rather than zero.
	d := Meters(0, 0, 0.5, 179.7)
	assert.Greater(t, d, 19_000_000.0)
	assert.Less(t, d, 20_100_000.0)
}
