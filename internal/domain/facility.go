package domain

import "math"

// Facility types recognized by the coordination service.
const (
	FacilityShelter   = "Posko Pengungsian"
	FacilityWarehouse = "Gudang Logistik"
	FacilityKitchen   = "Dapur Umum"
	FacilityAidPost   = "Pos Kesehatan"
)

// FacilityTypePrefixes maps each known facility type to the single-letter
// prefix used in generated IDs.
var FacilityTypePrefixes = map[string]string{
	FacilityShelter:   "P",
	FacilityWarehouse: "G",
	FacilityKitchen:   "D",
	FacilityAidPost:   "K",
}

// KnownFacilityType reports whether t is a recognized facility type.
func KnownFacilityType(t string) bool {
	_, ok := FacilityTypePrefixes[t]
	return ok
}

// Facility is a physical relief point: a shelter, a logistics warehouse, a
// field kitchen or an aid post. Coordinates are optional until a field team
// confirms them. Rows are never deleted; deactivation flips Active.
type Facility struct {
	ID                string
	Type              string
	Region            string
	Name              string
	Latitude          *float64
	Longitude         *float64
	OperationalStatus string
	AccessTier        string
	Condition         string
	Address           string
	Active            bool
}

// HasCoordinates reports whether both latitude and longitude are set.
func (f Facility) HasCoordinates() bool {
	return f.Latitude != nil && f.Longitude != nil
}

// NearestFacility returns the candidate closest to p by great-circle
// distance. Candidates without coordinates are ignored. When any usable
// candidate matches priorityType the search is restricted to that subset,
// so shelters outrank nearer facilities of other types. Ties keep the first
// candidate encountered. Returns nil when no candidate has coordinates.
func NearestFacility(p Point, candidates []Facility, priorityType string) *Facility {
	usable := make([]Facility, 0, len(candidates))
	for _, f := range candidates {
		if f.HasCoordinates() {
			usable = append(usable, f)
		}
	}
	if len(usable) == 0 {
		return nil
	}

	pool := usable
	if priorityType != "" {
		preferred := make([]Facility, 0, len(usable))
		for _, f := range usable {
			if f.Type == priorityType {
				preferred = append(preferred, f)
			}
		}
		if len(preferred) > 0 {
			pool = preferred
		}
	}

	best := 0
	bestDist := math.Inf(1)
	for i, f := range pool {
		d := HaversineKm(p.Lat, p.Lon, *f.Latitude, *f.Longitude)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return &pool[best]
}
