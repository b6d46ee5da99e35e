package domain

import "time"

// CheckIn is one volunteer presence report. DetectedRegion and
// NearestFacilityID are derived at write time and advisory only: the
// boundary snapshot or the facility list may have moved on since.
type CheckIn struct {
	VolunteerID       string
	Timestamp         time.Time
	Latitude          float64
	Longitude         float64
	DetectedRegion    string
	NearestFacilityID string
	Note              string

	// VolunteerName is resolved from the roster at read time, never stored.
	VolunteerName string
}

// NewCheckIn stamps a presence report with the current time.
func NewCheckIn(volunteerID string, p Point, region, facilityID, note string) CheckIn {
	return CheckIn{
		VolunteerID:       volunteerID,
		Timestamp:         clock.Now(),
		Latitude:          p.Lat,
		Longitude:         p.Lon,
		DetectedRegion:    region,
		NearestFacilityID: facilityID,
		Note:              note,
	}
}
