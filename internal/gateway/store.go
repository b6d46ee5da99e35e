// Package gateway reconciles reads and writes across two heterogeneous
// backing stores. Stores are tried in a fixed order: reads fall back on
// empty results or errors and memoize the expensive aggregations, writes
// land on exactly one store. Row shapes differ per store and are
// normalized here, not at call sites.
package gateway

import (
	"context"
	"time"

	"github.com/Naminiges/USU-Peduli/internal/domain"
)

// Row is one record in a store's native column naming. Values carry the
// driver's raw types; the normalizers coerce them.
type Row map[string]any

// Store is one backing database holding the coordination tables. Readers
// return rows under the store's own historical column names. Targeted
// lookups and updates report domain.ErrNotFound when the row is absent.
type Store interface {
	// Name identifies the store in logs and metrics.
	Name() string
	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error

	FacilityRows(ctx context.Context) ([]Row, error)
	VolunteerRows(ctx context.Context) ([]Row, error)
	StatusRows(ctx context.Context) ([]Row, error)
	CheckInRows(ctx context.Context, since time.Time) ([]Row, error)
	AssessmentRows(ctx context.Context, kind string, since time.Time, activeOnly bool) ([]Row, error)
	RequestRows(ctx context.Context) ([]Row, error)
	AuditRows(ctx context.Context, limit int) ([]Row, error)

	FacilityByID(ctx context.Context, id string) (Row, error)
	RequestByID(ctx context.Context, id int64) (Row, error)
	AssessmentByID(ctx context.Context, kind string, id int64) (Row, error)
	// MaxFacilityID returns the lexicographically greatest facility ID
	// sharing prefix, or "" when none exists.
	MaxFacilityID(ctx context.Context, prefix string) (string, error)

	InsertFacility(ctx context.Context, f domain.Facility) error
	InsertCheckIn(ctx context.Context, c domain.CheckIn) error
	InsertAssessment(ctx context.Context, a domain.Assessment) (int64, error)
	InsertRequest(ctx context.Context, r domain.LogisticsRequest) (int64, error)
	InsertAuditEntry(ctx context.Context, e domain.AuditEntry) error

	UpdateFacilityActive(ctx context.Context, id string, active bool) error
	UpdateFacilityType(ctx context.Context, id, facilityType string) error
	UpdateAssessmentActive(ctx context.Context, kind string, id int64, active bool) error
	UpdateRequestStatus(ctx context.Context, id int64, status string) error
}
