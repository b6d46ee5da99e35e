package domain

import "time"

// Logistics request statuses, in lifecycle order. Rejected is reachable
// from any state.
const (
	StatusProposed   = "Proposed"
	StatusProcessing = "Processing"
	StatusShipped    = "Shipped"
	StatusReceived   = "Received"
	StatusRejected   = "Rejected"
)

// RequestStatuses is the allowed-value set for logistics transitions.
var RequestStatuses = []string{
	StatusProposed,
	StatusProcessing,
	StatusShipped,
	StatusReceived,
	StatusRejected,
}

// KnownStatus reports whether s is one of the five recognized statuses.
// Only membership is checked; the lifecycle does not forbid backward
// transitions, so operators can walk a mis-marked request back.
func KnownStatus(s string) bool {
	for _, known := range RequestStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// LogisticsRequest asks for supplies to be moved to a facility. Status is
// the only mutable field and changes only through the moderation ledger.
type LogisticsRequest struct {
	ID          int64
	FacilityID  string
	RequesterID string
	Note        string
	Status      string
	CreatedAt   time.Time
}

// NewLogisticsRequest opens a request in the Proposed state, stamped with
// the current time.
func NewLogisticsRequest(facilityID, requesterID, note string) LogisticsRequest {
	return LogisticsRequest{
		FacilityID:  facilityID,
		RequesterID: requesterID,
		Note:        note,
		Status:      StatusProposed,
		CreatedAt:   clock.Now(),
	}
}
