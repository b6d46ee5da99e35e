package domain

import (
	"time"

	"github.com/google/uuid"
)

// Actor identifies who performed a moderation action.
type Actor struct {
	ID   string
	Name string
}

// ChangePayload snapshots an entity immediately before and after a
// moderation action.
type ChangePayload struct {
	Before any `json:"before,omitempty"`
	After  any `json:"after,omitempty"`
}

// AuditEntry records one moderation action. The trail is append-only;
// corrections are new entries, never edits. JSON tags define the published
// event shape.
type AuditEntry struct {
	ID          string        `json:"id"`
	ActorID     string        `json:"actor_id"`
	ActorName   string        `json:"actor_name"`
	Action      string        `json:"action"`
	TargetKind  string        `json:"target_kind"`
	TargetTable string        `json:"target_table"`
	TargetRef   string        `json:"target_ref"`
	Note        string        `json:"note,omitempty"`
	Payload     ChangePayload `json:"payload"`
	Timestamp   time.Time     `json:"timestamp"`
}

// NewAuditEntry stamps a fresh entry with a random ID and the current time.
func NewAuditEntry(actor Actor, action, targetKind, targetTable, targetRef, note string, payload ChangePayload) AuditEntry {
	return AuditEntry{
		ID:          uuid.NewString(),
		ActorID:     actor.ID,
		ActorName:   actor.Name,
		Action:      action,
		TargetKind:  targetKind,
		TargetTable: targetTable,
		TargetRef:   targetRef,
		Note:        note,
		Payload:     payload,
		Timestamp:   clock.Now(),
	}
}
