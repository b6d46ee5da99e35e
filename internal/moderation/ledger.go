// Package moderation applies admin-initiated state changes to stored
// records and appends each one to the audit trail. Mutations are narrow:
// active flags, facility reclassification, and logistics status
// transitions. Everything else stays append-only.
package moderation

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/Naminiges/USU-Peduli/internal/domain"
	"github.com/Naminiges/USU-Peduli/internal/observability"
)

// Action tags recorded on audit entries.
const (
	ActionFacilityCreated      = "facility_created"
	ActionFacilityActiveSet    = "facility_active_set"
	ActionFacilityTypeChanged  = "facility_type_changed"
	ActionAssessmentActiveSet  = "assessment_active_set"
	ActionRequestStatusChanged = "request_status_changed"
)

// Store is the slice of the data gateway the ledger needs: targeted
// lookups, the moderated updates, and the audit sink.
type Store interface {
	Facility(ctx context.Context, id string) (domain.Facility, error)
	Assessment(ctx context.Context, kind string, id int64) (domain.Assessment, error)
	Request(ctx context.Context, id int64) (domain.LogisticsRequest, error)
	MaxFacilityID(ctx context.Context, prefix string) (string, error)

	InsertFacility(ctx context.Context, f domain.Facility) error
	InsertAuditEntry(ctx context.Context, e domain.AuditEntry) error

	UpdateFacilityActive(ctx context.Context, id string, active bool) error
	UpdateFacilityType(ctx context.Context, id, facilityType string) error
	UpdateAssessmentActive(ctx context.Context, kind string, id int64, active bool) error
	UpdateRequestStatus(ctx context.Context, id int64, status string) error
}

// Publisher broadcasts audit entries to an external bus.
type Publisher interface {
	Publish(ctx context.Context, entry domain.AuditEntry) error
}

// Ledger validates and applies moderation actions. The entity mutation is
// the primary effect; the audit append and the optional publish are
// best-effort and never roll it back.
type Ledger struct {
	store     Store
	publisher Publisher // nil when publishing is disabled
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewLedger builds a ledger over the given store. publisher may be nil.
func NewLedger(store Store, publisher Publisher, logger *slog.Logger, metrics *observability.Metrics) *Ledger {
	return &Ledger{
		store:     store,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
}

// CreateFacility assigns a deterministic ID to the new facility, stores
// it, and audits the creation. Type must be one of the known facility
// types; the caller supplies the already-classified region.
func (l *Ledger) CreateFacility(ctx context.Context, actor domain.Actor, f domain.Facility) (domain.Facility, error) {
	if !domain.KnownFacilityType(f.Type) {
		return domain.Facility{}, domain.NewValidationError("type", fmt.Sprintf("unknown facility type %q", f.Type))
	}
	if f.Name == "" {
		return domain.Facility{}, domain.NewValidationError("name", "missing value")
	}

	id, err := l.generateFacilityID(ctx, f.Type, f.Region)
	if err != nil {
		return domain.Facility{}, err
	}
	f.ID = id
	f.Active = true

	if err := l.store.InsertFacility(ctx, f); err != nil {
		return domain.Facility{}, err
	}

	l.record(ctx, domain.NewAuditEntry(actor, ActionFacilityCreated,
		"facility", "lokasi", f.ID, "",
		domain.ChangePayload{After: f}))
	return f, nil
}

// SetFacilityActive toggles a facility's visibility. Setting the current
// value again succeeds and still audits.
func (l *Ledger) SetFacilityActive(ctx context.Context, actor domain.Actor, id string, active bool, note string) error {
	current, err := l.store.Facility(ctx, id)
	if err != nil {
		return err
	}
	if err := l.store.UpdateFacilityActive(ctx, id, active); err != nil {
		return err
	}

	l.record(ctx, domain.NewAuditEntry(actor, ActionFacilityActiveSet,
		"facility", "lokasi", id, note,
		domain.ChangePayload{Before: current.Active, After: active}))
	return nil
}

// ReclassifyFacility changes a facility's type. The new type must be one
// of the known facility types; existing IDs keep their original prefix.
func (l *Ledger) ReclassifyFacility(ctx context.Context, actor domain.Actor, id, facilityType, note string) error {
	if !domain.KnownFacilityType(facilityType) {
		return domain.NewValidationError("type", fmt.Sprintf("unknown facility type %q", facilityType))
	}

	current, err := l.store.Facility(ctx, id)
	if err != nil {
		return err
	}
	if err := l.store.UpdateFacilityType(ctx, id, facilityType); err != nil {
		return err
	}

	l.record(ctx, domain.NewAuditEntry(actor, ActionFacilityTypeChanged,
		"facility", "lokasi", id, note,
		domain.ChangePayload{Before: current.Type, After: facilityType}))
	return nil
}

// SetAssessmentActive toggles a survey's visibility in downstream reads.
func (l *Ledger) SetAssessmentActive(ctx context.Context, actor domain.Actor, kind string, id int64, active bool, note string) error {
	kindDef, err := domain.KindByName(kind)
	if err != nil {
		return err
	}

	current, err := l.store.Assessment(ctx, kindDef.Name, id)
	if err != nil {
		return err
	}
	if err := l.store.UpdateAssessmentActive(ctx, kindDef.Name, id, active); err != nil {
		return err
	}

	l.record(ctx, domain.NewAuditEntry(actor, ActionAssessmentActiveSet,
		"assessment", "asesmen_"+kindDef.Name, strconv.FormatInt(id, 10), note,
		domain.ChangePayload{Before: current.Active, After: active}))
	return nil
}

// TransitionRequest moves a logistics request to a new status. Status only
// needs to be one of the five known values; operators may walk a request
// backward to correct a mis-marked row. Transitioning to the current
// status succeeds and still audits.
func (l *Ledger) TransitionRequest(ctx context.Context, actor domain.Actor, id int64, status, note string) error {
	if !domain.KnownStatus(status) {
		return domain.NewValidationError("status", fmt.Sprintf("unknown status %q", status))
	}

	current, err := l.store.Request(ctx, id)
	if err != nil {
		return err
	}
	if err := l.store.UpdateRequestStatus(ctx, id, status); err != nil {
		return err
	}

	l.record(ctx, domain.NewAuditEntry(actor, ActionRequestStatusChanged,
		"logistics_request", "permintaan_logistik", strconv.FormatInt(id, 10), note,
		domain.ChangePayload{Before: current.Status, After: status}))
	return nil
}

// record appends the audit entry and hands it to the publisher. Both are
// best-effort: the mutation already happened and is never rolled back.
func (l *Ledger) record(ctx context.Context, entry domain.AuditEntry) {
	l.metrics.ModerationActions.WithLabelValues(entry.Action).Inc()

	if err := l.store.InsertAuditEntry(ctx, entry); err != nil {
		l.metrics.AuditFailures.Inc()
		l.logger.Error("audit append failed",
			"action", entry.Action, "target", entry.TargetRef, "error", err)
	}

	if l.publisher == nil {
		return
	}
	if err := l.publisher.Publish(ctx, entry); err != nil {
		l.logger.Warn("audit publish failed",
			"action", entry.Action, "target", entry.TargetRef, "error", err)
	}
}
