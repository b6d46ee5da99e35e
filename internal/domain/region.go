package domain

// Sentinel classifications returned by ClassifyPoint when no region matches
// or the boundary dataset cannot be trusted.
const (
	RegionOutside         = "OUTSIDE"
	RegionDetectionFailed = "DETECTION_FAILED"
)

// Region is a municipality-level administrative area. Boundary holds one
// ring for a simple polygon or several for a multi-polygon; interior holes
// are not represented.
type Region struct {
	Name     string
	Boundary []Ring
}

// Contains reports whether p falls inside any of the region's rings.
func (r Region) Contains(p Point) bool {
	for _, ring := range r.Boundary {
		if PointInRing(p, ring) {
			return true
		}
	}
	return false
}

// valid reports whether the region carries usable boundary geometry: at
// least one ring, every ring with at least three vertices.
func (r Region) valid() bool {
	if len(r.Boundary) == 0 {
		return false
	}
	for _, ring := range r.Boundary {
		if len(ring) < 3 {
			return false
		}
	}
	return true
}

// ClassifyPoint resolves p against regions in load order. The first region
// containing the point wins; no match yields RegionOutside. An empty region
// set or a region with missing or corrupt boundary geometry yields
// RegionDetectionFailed — geolocation is advisory, so structural faults in
// the dataset surface as a sentinel instead of an error.
func ClassifyPoint(regions []Region, p Point) string {
	if len(regions) == 0 {
		return RegionDetectionFailed
	}
	for _, region := range regions {
		if !region.valid() {
			return RegionDetectionFailed
		}
		if region.Contains(p) {
			return region.Name
		}
	}
	return RegionOutside
}
