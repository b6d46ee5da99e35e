package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCoordinates(t *testing.T) {
	t.Run("valid pair", func(t *testing.T) {
		p, err := ParseCoordinates("3.1953", "98.5142")
		require.NoError(t, err)
		assert.Equal(t, 3.1953, p.Lat)
		assert.Equal(t, 98.5142, p.Lon)
	})

	t.Run("surrounding whitespace", func(t *testing.T) {
		p, err := ParseCoordinates(" 3.5952 ", "\t98.6722\n")
		require.NoError(t, err)
		assert.Equal(t, 3.5952, p.Lat)
		assert.Equal(t, 98.6722, p.Lon)
	})

	t.Run("negative coordinates", func(t *testing.T) {
		p, err := ParseCoordinates("-6.2000", "-106.8167")
		require.NoError(t, err)
		assert.Equal(t, -6.2, p.Lat)
		assert.Equal(t, -106.8167, p.Lon)
	})

	tests := []struct {
		name  string
		lat   string
		lon   string
		field string
	}{
		{"empty latitude", "", "98.5", "latitude"},
		{"empty longitude", "3.2", "", "longitude"},
		{"garbage latitude", "three point two", "98.5", "latitude"},
		{"garbage longitude", "3.2", "98,5", "longitude"},
		{"NaN latitude", "NaN", "98.5", "latitude"},
		{"infinite longitude", "3.2", "+Inf", "longitude"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCoordinates(tt.lat, tt.lon)
			require.Error(t, err)
			assert.True(t, IsValidation(err))
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestPointInRing(t *testing.T) {
	// Unit square from (98,3) to (99,4), lon/lat order.
	square := Ring{
		{Lat: 3, Lon: 98},
		{Lat: 3, Lon: 99},
		{Lat: 4, Lon: 99},
		{Lat: 4, Lon: 98},
	}

	t.Run("strictly inside", func(t *testing.T) {
		assert.True(t, PointInRing(Point{Lat: 3.5, Lon: 98.5}, square))
	})

	t.Run("outside bounding box", func(t *testing.T) {
		assert.False(t, PointInRing(Point{Lat: 10, Lon: 120}, square))
		assert.False(t, PointInRing(Point{Lat: 3.5, Lon: 97.0}, square))
		assert.False(t, PointInRing(Point{Lat: 2.0, Lon: 98.5}, square))
	})

	t.Run("outside but within latitude band", func(t *testing.T) {
		assert.False(t, PointInRing(Point{Lat: 3.5, Lon: 99.5}, square))
	})

	t.Run("concave polygon", func(t *testing.T) {
		// U-shape: the notch between the arms is outside.
		u := Ring{
			{Lat: 0, Lon: 0},
			{Lat: 0, Lon: 3},
			{Lat: 3, Lon: 3},
			{Lat: 3, Lon: 2},
			{Lat: 1, Lon: 2},
			{Lat: 1, Lon: 1},
			{Lat: 3, Lon: 1},
			{Lat: 3, Lon: 0},
		}
		assert.True(t, PointInRing(Point{Lat: 0.5, Lon: 1.5}, u))  // base of the U
		assert.False(t, PointInRing(Point{Lat: 2.0, Lon: 1.5}, u)) // inside the notch
		assert.True(t, PointInRing(Point{Lat: 2.0, Lon: 0.5}, u))  // left arm
	})

	t.Run("triangle", func(t *testing.T) {
		tri := Ring{
			{Lat: 0, Lon: 0},
			{Lat: 0, Lon: 4},
			{Lat: 4, Lon: 2},
		}
		assert.True(t, PointInRing(Point{Lat: 1, Lon: 2}, tri))
		assert.False(t, PointInRing(Point{Lat: 3, Lon: 0.2}, tri))
	})

	t.Run("degenerate rings contain nothing", func(t *testing.T) {
		assert.False(t, PointInRing(Point{Lat: 0, Lon: 0}, nil))
		assert.False(t, PointInRing(Point{Lat: 0, Lon: 0}, Ring{{Lat: 0, Lon: 0}}))
		assert.False(t, PointInRing(Point{Lat: 0, Lon: 0}, Ring{{Lat: -1, Lon: -1}, {Lat: 1, Lon: 1}}))
	})
}

func TestHaversineKm(t *testing.T) {
	t.Run("zero distance", func(t *testing.T) {
		assert.Equal(t, 0.0, HaversineKm(3.5952, 98.6722, 3.5952, 98.6722))
	})

	t.Run("symmetry", func(t *testing.T) {
		a := HaversineKm(3.5952, 98.6722, 3.1953, 98.5142)
		b := HaversineKm(3.1953, 98.5142, 3.5952, 98.6722)
		assert.Equal(t, a, b)
	})

	t.Run("one degree of latitude", func(t *testing.T) {
		// R × π/180 ≈ 111.19 km.
		d := HaversineKm(0, 0, 1, 0)
		assert.InDelta(t, 111.195, d, 0.01)
	})

	t.Run("one degree of longitude at the equator", func(t *testing.T) {
		d := HaversineKm(0, 0, 0, 1)
		assert.InDelta(t, 111.195, d, 0.01)
	})

	t.Run("non-finite input yields infinity", func(t *testing.T) {
		assert.True(t, math.IsInf(HaversineKm(math.NaN(), 98.6, 3.5, 98.6), 1))
		assert.True(t, math.IsInf(HaversineKm(3.5, math.Inf(1), 3.5, 98.6), 1))
		assert.True(t, math.IsInf(HaversineKm(3.5, 98.6, math.Inf(-1), 98.6), 1))
		assert.True(t, math.IsInf(HaversineKm(3.5, 98.6, 3.5, math.NaN()), 1))
	})
}
