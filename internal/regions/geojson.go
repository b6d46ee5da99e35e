// Package regions resolves coordinates to North Sumatra municipalities
// using a boundary snapshot held in memory and refreshed from its source of
// truth on a TTL.
package regions

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Naminiges/USU-Peduli/internal/domain"
)

// Property keys that may carry the municipality name, tried in order. The
// served datasets have shifted key casing across publications.
var nameProperties = []string{"kabkota", "KABKOTA", "NAMOBJ"}

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

type feature struct {
	Properties map[string]any `json:"properties"`
	Geometry   geometry       `json:"geometry"`
}

type geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// DecodeRegions parses a GeoJSON FeatureCollection into the region set used
// for classification. Only outer rings are kept: interior holes are out of
// scope for the served municipality data. Features without a resolvable
// name or with an unsupported geometry type are dropped; structurally
// malformed documents fail the whole decode.
func DecodeRegions(data []byte) ([]domain.Region, error) {
	var fc featureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("decode boundary collection: %w", err)
	}

	regions := make([]domain.Region, 0, len(fc.Features))
	for i, f := range fc.Features {
		name := regionName(f.Properties)
		if name == "" {
			continue
		}

		var boundary []domain.Ring
		switch f.Geometry.Type {
		case "Polygon":
			var coords [][][]float64
			if err := json.Unmarshal(f.Geometry.Coordinates, &coords); err != nil {
				return nil, fmt.Errorf("feature %d (%s): decode polygon: %w", i, name, err)
			}
			if len(coords) > 0 {
				ring, err := toRing(coords[0])
				if err != nil {
					return nil, fmt.Errorf("feature %d (%s): %w", i, name, err)
				}
				boundary = append(boundary, ring)
			}
		case "MultiPolygon":
			var coords [][][][]float64
			if err := json.Unmarshal(f.Geometry.Coordinates, &coords); err != nil {
				return nil, fmt.Errorf("feature %d (%s): decode multi-polygon: %w", i, name, err)
			}
			for _, poly := range coords {
				if len(poly) == 0 {
					boundary = append(boundary, domain.Ring{})
					continue
				}
				ring, err := toRing(poly[0])
				if err != nil {
					return nil, fmt.Errorf("feature %d (%s): %w", i, name, err)
				}
				boundary = append(boundary, ring)
			}
		default:
			continue
		}

		regions = append(regions, domain.Region{Name: name, Boundary: boundary})
	}
	return regions, nil
}

// regionName resolves the municipality name from feature properties.
func regionName(props map[string]any) string {
	for _, key := range nameProperties {
		if v, ok := props[key].(string); ok {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return ""
}

// toRing converts a GeoJSON vertex list ([lon, lat] pairs, possibly with a
// trailing altitude) into a ring.
func toRing(vertices [][]float64) (domain.Ring, error) {
	ring := make(domain.Ring, 0, len(vertices))
	for _, v := range vertices {
		if len(v) < 2 {
			return nil, fmt.Errorf("vertex with %d ordinates", len(v))
		}
		ring = append(ring, domain.Point{Lon: v[0], Lat: v[1]})
	}
	return ring, nil
}
