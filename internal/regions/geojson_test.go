package regions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Naminiges/USU-Peduli/internal/domain"
)

const karoFeature = `{
	"type": "Feature",
	"properties": {"kabkota": "Karo"},
	"geometry": {
		"type": "Polygon",
		"coordinates": [[[98, 3], [99, 3], [99, 4], [98, 4], [98, 3]]]
	}
}`

func TestDecodeRegions(t *testing.T) {
	t.Run("polygon with kabkota property", func(t *testing.T) {
		regions, err := DecodeRegions([]byte(`{"type": "FeatureCollection", "features": [` + karoFeature + `]}`))
		require.NoError(t, err)
		require.Len(t, regions, 1)

		assert.Equal(t, "Karo", regions[0].Name)
		require.Len(t, regions[0].Boundary, 1)
		require.Len(t, regions[0].Boundary[0], 5)
		assert.Equal(t, domain.Point{Lon: 98, Lat: 3}, regions[0].Boundary[0][0])
	})

	t.Run("property aliases", func(t *testing.T) {
		data := `{"type": "FeatureCollection", "features": [
			{"properties": {"KABKOTA": "Dairi"},
			 "geometry": {"type": "Polygon", "coordinates": [[[98, 2], [99, 2], [99, 3]]]}},
			{"properties": {"NAMOBJ": "Deli Serdang"},
			 "geometry": {"type": "Polygon", "coordinates": [[[98, 1], [99, 1], [99, 2]]]}}
		]}`
		regions, err := DecodeRegions([]byte(data))
		require.NoError(t, err)
		require.Len(t, regions, 2)
		assert.Equal(t, "Dairi", regions[0].Name)
		assert.Equal(t, "Deli Serdang", regions[1].Name)
	})

	t.Run("multi-polygon keeps one outer ring per polygon", func(t *testing.T) {
		data := `{"type": "FeatureCollection", "features": [
			{"properties": {"kabkota": "Nias"},
			 "geometry": {"type": "MultiPolygon", "coordinates": [
				[[[97, 0], [98, 0], [98, 1], [97, 1]]],
				[[[97, 2], [98, 2], [98, 3], [97, 3]],
				 [[97.2, 2.2], [97.8, 2.2], [97.8, 2.8]]]
			]}}
		]}`
		regions, err := DecodeRegions([]byte(data))
		require.NoError(t, err)
		require.Len(t, regions, 1)
		// The second polygon's interior ring is dropped.
		require.Len(t, regions[0].Boundary, 2)
		assert.Len(t, regions[0].Boundary[0], 4)
		assert.Len(t, regions[0].Boundary[1], 4)
	})

	t.Run("polygon holes are dropped", func(t *testing.T) {
		data := `{"type": "FeatureCollection", "features": [
			{"properties": {"kabkota": "Karo"},
			 "geometry": {"type": "Polygon", "coordinates": [
				[[98, 3], [99, 3], [99, 4], [98, 4]],
				[[98.2, 3.2], [98.8, 3.2], [98.8, 3.8]]
			]}}
		]}`
		regions, err := DecodeRegions([]byte(data))
		require.NoError(t, err)
		require.Len(t, regions, 1)
		assert.Len(t, regions[0].Boundary, 1)
	})

	t.Run("altitude ordinates are tolerated", func(t *testing.T) {
		data := `{"type": "FeatureCollection", "features": [
			{"properties": {"kabkota": "Karo"},
			 "geometry": {"type": "Polygon", "coordinates": [[[98, 3, 0], [99, 3, 0], [99, 4, 0]]]}}
		]}`
		regions, err := DecodeRegions([]byte(data))
		require.NoError(t, err)
		require.Len(t, regions, 1)
		assert.Equal(t, domain.Point{Lon: 98, Lat: 3}, regions[0].Boundary[0][0])
	})

	t.Run("nameless and unsupported features are dropped", func(t *testing.T) {
		data := `{"type": "FeatureCollection", "features": [
			{"properties": {"population": 42},
			 "geometry": {"type": "Polygon", "coordinates": [[[98, 3], [99, 3], [99, 4]]]}},
			{"properties": {"kabkota": "  "},
			 "geometry": {"type": "Polygon", "coordinates": [[[98, 3], [99, 3], [99, 4]]]}},
			{"properties": {"kabkota": "Medan"},
			 "geometry": {"type": "Point", "coordinates": [98.67, 3.59]}},
			` + karoFeature + `
		]}`
		regions, err := DecodeRegions([]byte(data))
		require.NoError(t, err)
		require.Len(t, regions, 1)
		assert.Equal(t, "Karo", regions[0].Name)
	})

	t.Run("empty polygon is preserved as corrupt", func(t *testing.T) {
		data := `{"type": "FeatureCollection", "features": [
			{"properties": {"kabkota": "Karo"},
			 "geometry": {"type": "Polygon", "coordinates": []}}
		]}`
		regions, err := DecodeRegions([]byte(data))
		require.NoError(t, err)
		require.Len(t, regions, 1)
		assert.Empty(t, regions[0].Boundary)
		// Classification over the corrupt snapshot fails detection.
		assert.Equal(t, domain.RegionDetectionFailed,
			domain.ClassifyPoint(regions, domain.Point{Lat: 3.5, Lon: 98.5}))
	})

	t.Run("malformed document", func(t *testing.T) {
		_, err := DecodeRegions([]byte(`{"type": "FeatureCollection", "features": [{`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode boundary collection")
	})

	t.Run("vertex with a single ordinate", func(t *testing.T) {
		data := `{"type": "FeatureCollection", "features": [
			{"properties": {"kabkota": "Karo"},
			 "geometry": {"type": "Polygon", "coordinates": [[[98], [99, 3], [99, 4]]]}}
		]}`
		_, err := DecodeRegions([]byte(data))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Karo")
	})

	t.Run("empty collection decodes to no regions", func(t *testing.T) {
		regions, err := DecodeRegions([]byte(`{"type": "FeatureCollection", "features": []}`))
		require.NoError(t, err)
		assert.Empty(t, regions)
	})
}
