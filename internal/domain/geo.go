package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// EarthRadiusKm is the mean Earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0

// Point is a geographic coordinate in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

// Ring is an ordered polygon ring of (lon, lat) vertices. The closing edge
// from the last vertex back to the first is implicit.
type Ring []Point

// ParseCoordinates validates raw latitude/longitude strings from a field
// submission. Unparsable or non-finite values are rejected with a
// ValidationError so geometry never runs on garbage input.
func ParseCoordinates(lat, lon string) (Point, error) {
	latV, err := parseFinite(lat)
	if err != nil {
		return Point{}, NewValidationError("latitude", err.Error())
	}
	lonV, err := parseFinite(lon)
	if err != nil {
		return Point{}, NewValidationError("longitude", err.Error())
	}
	return Point{Lat: latV, Lon: lonV}, nil
}

func parseFinite(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("missing value")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not finite", s)
	}
	return v, nil
}

// PointInRing reports whether p lies inside the ring, by casting a
// horizontal ray from the point and counting edge crossings. The edge test
// skips edges whose endpoints sit on the same side of the ray's latitude,
// so degenerate horizontal edges never toggle inclusion. Rings with fewer
// than three vertices contain nothing. Points exactly on a boundary edge
// land on an unspecified side; callers must not rely on either outcome.
func PointInRing(p Point, ring Ring) bool {
	if len(ring) < 3 {
		return false
	}

	inside := false
	j := len(ring) - 1
	for i := 0; i < len(ring); i++ {
		xi, yi := ring[i].Lon, ring[i].Lat
		xj, yj := ring[j].Lon, ring[j].Lat

		if (yi > p.Lat) != (yj > p.Lat) {
			crossing := (xj-xi)*(p.Lat-yi)/(yj-yi) + xi
			if p.Lon < crossing {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// HaversineKm returns the great-circle distance in kilometers between two
// coordinates. Non-finite inputs yield +Inf rather than an error: distance
// ranking treats an unusable coordinate as infinitely far away.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	for _, v := range [...]float64{lat1, lon1, lat2, lon2} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return math.Inf(1)
		}
	}

	const toRad = math.Pi / 180
	dLat := (lat2 - lat1) * toRad
	dLon := (lon2 - lon1) * toRad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*toRad)*math.Cos(lat2*toRad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return EarthRadiusKm * 2 * math.Asin(math.Sqrt(a))
}
