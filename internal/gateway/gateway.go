package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/Naminiges/USU-Peduli/internal/domain"
	"github.com/Naminiges/USU-Peduli/internal/observability"
)

// Entity names used for cache keys, logs, and metric labels.
const (
	entityFacilities  = "facilities"
	entityVolunteers  = "volunteers"
	entityStatuses    = "region_statuses"
	entityCheckIns    = "checkins"
	entityAssessments = "assessments"
	entityRequests    = "requests"
	entityAudit       = "audit"
)

// Gateway reconciles an ordered store list behind one read/write surface.
// Reads degrade to empty instead of erroring; writes land on exactly one
// store or fail explicitly.
type Gateway struct {
	stores  []Store
	logger  *slog.Logger
	metrics *observability.Metrics

	facilities *Cache[[]domain.Facility]
	volunteers *Cache[[]domain.Volunteer]
	statuses   *Cache[map[string]string]
}

// New builds a gateway over stores, tried in the given order. cacheTTL
// bounds the age of the memoized facility, roster, and status reads.
func New(stores []Store, cacheTTL time.Duration, clk clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Gateway {
	return &Gateway{
		stores:     stores,
		logger:     logger,
		metrics:    metrics,
		facilities: NewCache[[]domain.Facility](cacheTTL, clk),
		volunteers: NewCache[[]domain.Volunteer](cacheTTL, clk),
		statuses:   NewCache[map[string]string](cacheTTL, clk),
	}
}

// Facilities returns the normalized facility list, served from cache while
// fresh. When every store fails the previous cached value is returned, even
// expired; with nothing cached the result is empty.
func (g *Gateway) Facilities(ctx context.Context) []domain.Facility {
	if cached, ok := g.facilities.Get(entityFacilities); ok {
		g.metrics.CacheLookups.WithLabelValues(entityFacilities, "hit").Inc()
		return cached
	}
	g.metrics.CacheLookups.WithLabelValues(entityFacilities, "miss").Inc()

	rows, ok := g.readRows(ctx, entityFacilities, func(s Store) ([]Row, error) {
		return s.FacilityRows(ctx)
	})
	if !ok {
		if stale, found := g.facilities.Stale(entityFacilities); found {
			g.metrics.CacheLookups.WithLabelValues(entityFacilities, "stale").Inc()
			return stale
		}
		return nil
	}

	facilities := make([]domain.Facility, 0, len(rows))
	for _, row := range rows {
		facilities = append(facilities, NormalizeFacility(row))
	}
	if len(facilities) > 0 {
		g.facilities.Put(entityFacilities, facilities)
	}
	return facilities
}

// Volunteers returns the normalized roster, served from cache while fresh.
func (g *Gateway) Volunteers(ctx context.Context) []domain.Volunteer {
	if cached, ok := g.volunteers.Get(entityVolunteers); ok {
		g.metrics.CacheLookups.WithLabelValues(entityVolunteers, "hit").Inc()
		return cached
	}
	g.metrics.CacheLookups.WithLabelValues(entityVolunteers, "miss").Inc()

	rows, ok := g.readRows(ctx, entityVolunteers, func(s Store) ([]Row, error) {
		return s.VolunteerRows(ctx)
	})
	if !ok {
		if stale, found := g.volunteers.Stale(entityVolunteers); found {
			g.metrics.CacheLookups.WithLabelValues(entityVolunteers, "stale").Inc()
			return stale
		}
		return nil
	}

	volunteers := make([]domain.Volunteer, 0, len(rows))
	for _, row := range rows {
		volunteers = append(volunteers, NormalizeVolunteer(row))
	}
	if len(volunteers) > 0 {
		g.volunteers.Put(entityVolunteers, volunteers)
	}
	return volunteers
}

// VolunteerNames returns the roster as an ID-to-display-name map.
func (g *Gateway) VolunteerNames(ctx context.Context) map[string]string {
	volunteers := g.Volunteers(ctx)
	names := make(map[string]string, len(volunteers))
	for _, v := range volunteers {
		names[v.ID] = v.Name
	}
	return names
}

// StatusMap returns declared disaster statuses keyed by upper-cased region
// name, served from cache while fresh.
func (g *Gateway) StatusMap(ctx context.Context) map[string]string {
	if cached, ok := g.statuses.Get(entityStatuses); ok {
		g.metrics.CacheLookups.WithLabelValues(entityStatuses, "hit").Inc()
		return cached
	}
	g.metrics.CacheLookups.WithLabelValues(entityStatuses, "miss").Inc()

	rows, ok := g.readRows(ctx, entityStatuses, func(s Store) ([]Row, error) {
		return s.StatusRows(ctx)
	})
	if !ok {
		if stale, found := g.statuses.Stale(entityStatuses); found {
			g.metrics.CacheLookups.WithLabelValues(entityStatuses, "stale").Inc()
			return stale
		}
		return nil
	}

	statuses := NormalizeStatusRows(rows)
	if len(statuses) > 0 {
		g.statuses.Put(entityStatuses, statuses)
	}
	return statuses
}

// CheckIns lists presence reports since the given time, newest last, with
// volunteer display names joined from the roster.
func (g *Gateway) CheckIns(ctx context.Context, since time.Time) []domain.CheckIn {
	rows, _ := g.readRows(ctx, entityCheckIns, func(s Store) ([]Row, error) {
		return s.CheckInRows(ctx, since)
	})

	names := g.VolunteerNames(ctx)
	checkIns := make([]domain.CheckIn, 0, len(rows))
	for _, row := range rows {
		c := NormalizeCheckIn(row)
		c.VolunteerName = names[c.VolunteerID]
		checkIns = append(checkIns, c)
	}
	return checkIns
}

// Assessments lists surveys of one kind since the given time, with
// volunteer display names joined from the roster.
func (g *Gateway) Assessments(ctx context.Context, kind string, since time.Time, activeOnly bool) []domain.Assessment {
	rows, _ := g.readRows(ctx, entityAssessments, func(s Store) ([]Row, error) {
		return s.AssessmentRows(ctx, kind, since, activeOnly)
	})

	names := g.VolunteerNames(ctx)
	assessments := make([]domain.Assessment, 0, len(rows))
	for _, row := range rows {
		a := NormalizeAssessment(kind, row)
		a.VolunteerName = names[a.VolunteerID]
		assessments = append(assessments, a)
	}
	return assessments
}

// Requests lists logistics requests across their whole lifecycle.
func (g *Gateway) Requests(ctx context.Context) []domain.LogisticsRequest {
	rows, _ := g.readRows(ctx, entityRequests, func(s Store) ([]Row, error) {
		return s.RequestRows(ctx)
	})

	requests := make([]domain.LogisticsRequest, 0, len(rows))
	for _, row := range rows {
		requests = append(requests, NormalizeRequest(row))
	}
	return requests
}

// AuditEntries lists the newest audit entries up to limit.
func (g *Gateway) AuditEntries(ctx context.Context, limit int) []domain.AuditEntry {
	rows, _ := g.readRows(ctx, entityAudit, func(s Store) ([]Row, error) {
		return s.AuditRows(ctx, limit)
	})

	entries := make([]domain.AuditEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, NormalizeAuditEntry(row))
	}
	return entries
}

// Facility looks up one facility by ID across the stores.
func (g *Gateway) Facility(ctx context.Context, id string) (domain.Facility, error) {
	row, err := g.lookup(ctx, entityFacilities, func(s Store) (Row, error) {
		return s.FacilityByID(ctx, id)
	})
	if err != nil {
		return domain.Facility{}, err
	}
	return NormalizeFacility(row), nil
}

// Request looks up one logistics request by ID across the stores.
func (g *Gateway) Request(ctx context.Context, id int64) (domain.LogisticsRequest, error) {
	row, err := g.lookup(ctx, entityRequests, func(s Store) (Row, error) {
		return s.RequestByID(ctx, id)
	})
	if err != nil {
		return domain.LogisticsRequest{}, err
	}
	return NormalizeRequest(row), nil
}

// Assessment looks up one survey by kind and ID across the stores.
func (g *Gateway) Assessment(ctx context.Context, kind string, id int64) (domain.Assessment, error) {
	row, err := g.lookup(ctx, entityAssessments, func(s Store) (Row, error) {
		return s.AssessmentByID(ctx, kind, id)
	})
	if err != nil {
		return domain.Assessment{}, err
	}
	return NormalizeAssessment(kind, row), nil
}

// MaxFacilityID returns the lexicographically greatest facility ID sharing
// prefix across all stores, so generated sequence numbers stay unique even
// when rows are split between backends. Returns "" when no ID matches.
func (g *Gateway) MaxFacilityID(ctx context.Context, prefix string) (string, error) {
	var maxID string
	var errs []error
	for _, store := range g.stores {
		id, err := store.MaxFacilityID(ctx, prefix)
		if err != nil {
			g.logger.Warn("max facility id scan failed", "store", store.Name(), "prefix", prefix, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", store.Name(), err))
			continue
		}
		if id > maxID {
			maxID = id
		}
	}
	if len(errs) == len(g.stores) {
		return "", fmt.Errorf("max facility id %q: %w", prefix, errors.Join(errs...))
	}
	return maxID, nil
}

// InsertFacility writes a new facility to exactly one store.
func (g *Gateway) InsertFacility(ctx context.Context, f domain.Facility) error {
	return g.write(ctx, entityFacilities, func(s Store) error {
		return s.InsertFacility(ctx, f)
	})
}

// InsertCheckIn writes a presence report to exactly one store.
func (g *Gateway) InsertCheckIn(ctx context.Context, c domain.CheckIn) error {
	return g.write(ctx, entityCheckIns, func(s Store) error {
		return s.InsertCheckIn(ctx, c)
	})
}

// InsertAssessment writes a survey to exactly one store and returns the
// store-generated row ID.
func (g *Gateway) InsertAssessment(ctx context.Context, a domain.Assessment) (int64, error) {
	var id int64
	err := g.write(ctx, entityAssessments, func(s Store) error {
		var insertErr error
		id, insertErr = s.InsertAssessment(ctx, a)
		return insertErr
	})
	return id, err
}

// InsertRequest writes a logistics request to exactly one store and returns
// the store-generated row ID.
func (g *Gateway) InsertRequest(ctx context.Context, r domain.LogisticsRequest) (int64, error) {
	var id int64
	err := g.write(ctx, entityRequests, func(s Store) error {
		var insertErr error
		id, insertErr = s.InsertRequest(ctx, r)
		return insertErr
	})
	return id, err
}

// InsertAuditEntry writes an audit entry to exactly one store.
func (g *Gateway) InsertAuditEntry(ctx context.Context, e domain.AuditEntry) error {
	return g.write(ctx, entityAudit, func(s Store) error {
		return s.InsertAuditEntry(ctx, e)
	})
}

// UpdateFacilityActive toggles a facility's active flag wherever the row
// lives.
func (g *Gateway) UpdateFacilityActive(ctx context.Context, id string, active bool) error {
	return g.update(ctx, entityFacilities, func(s Store) error {
		return s.UpdateFacilityActive(ctx, id, active)
	})
}

// UpdateFacilityType reclassifies a facility wherever the row lives.
func (g *Gateway) UpdateFacilityType(ctx context.Context, id, facilityType string) error {
	return g.update(ctx, entityFacilities, func(s Store) error {
		return s.UpdateFacilityType(ctx, id, facilityType)
	})
}

// UpdateAssessmentActive toggles a survey's active flag wherever the row
// lives.
func (g *Gateway) UpdateAssessmentActive(ctx context.Context, kind string, id int64, active bool) error {
	return g.update(ctx, entityAssessments, func(s Store) error {
		return s.UpdateAssessmentActive(ctx, kind, id, active)
	})
}

// UpdateRequestStatus moves a logistics request to a new status wherever
// the row lives.
func (g *Gateway) UpdateRequestStatus(ctx context.Context, id int64, status string) error {
	return g.update(ctx, entityRequests, func(s Store) error {
		return s.UpdateRequestStatus(ctx, id, status)
	})
}

// CheckReadiness reports ready when any store answers a ping.
func (g *Gateway) CheckReadiness(ctx context.Context) error {
	var errs []error
	for _, store := range g.stores {
		if err := store.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", store.Name(), err))
			continue
		}
		return nil
	}
	return fmt.Errorf("no store reachable: %w", errors.Join(errs...))
}

// readRows tries each store in order until one yields a non-empty result.
// Empty results and errors both advance to the next store; every fallback
// transition is logged. ok is false only when every store errored.
func (g *Gateway) readRows(ctx context.Context, entity string, read func(Store) ([]Row, error)) ([]Row, bool) {
	var rows []Row
	allFailed := true
	for i, store := range g.stores {
		if ctx.Err() != nil {
			break
		}
		result, err := read(store)
		switch {
		case err != nil:
			g.metrics.SourceReads.WithLabelValues(entity, store.Name(), "error").Inc()
			g.logger.Warn("store read failed", "entity", entity, "store", store.Name(), "error", err)
		case len(result) > 0:
			g.metrics.SourceReads.WithLabelValues(entity, store.Name(), "success").Inc()
			return result, true
		default:
			g.metrics.SourceReads.WithLabelValues(entity, store.Name(), "empty").Inc()
			allFailed = false
			rows = result
		}

		if i+1 < len(g.stores) {
			next := g.stores[i+1]
			g.metrics.SourceFallbacks.WithLabelValues(entity, store.Name(), next.Name()).Inc()
			g.logger.Info("falling back to next store",
				"entity", entity, "from", store.Name(), "to", next.Name())
		}
	}
	return rows, !allFailed
}

// lookup tries each store in order for a single row. A store error or a
// missing row advances to the next store; when every store reports the row
// absent the result is domain.ErrNotFound.
func (g *Gateway) lookup(ctx context.Context, entity string, read func(Store) (Row, error)) (Row, error) {
	var errs []error
	for _, store := range g.stores {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		row, err := read(store)
		switch {
		case err == nil:
			g.metrics.SourceReads.WithLabelValues(entity, store.Name(), "success").Inc()
			return row, nil
		case errors.Is(err, domain.ErrNotFound):
			g.metrics.SourceReads.WithLabelValues(entity, store.Name(), "empty").Inc()
		default:
			g.metrics.SourceReads.WithLabelValues(entity, store.Name(), "error").Inc()
			g.logger.Warn("store lookup failed", "entity", entity, "store", store.Name(), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", store.Name(), err))
		}
	}
	if len(errs) == 0 {
		return nil, domain.ErrNotFound
	}
	return nil, fmt.Errorf("lookup %s: %w", entity, errors.Join(errs...))
}

// write runs op against each store in order until one accepts it. The
// write lands on exactly one store, never both; when every store fails the
// joined errors are returned.
func (g *Gateway) write(ctx context.Context, entity string, op func(Store) error) error {
	var errs []error
	for i, store := range g.stores {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		err := op(store)
		if err == nil {
			g.metrics.WriteOutcomes.WithLabelValues(entity, store.Name(), "success").Inc()
			return nil
		}
		g.metrics.WriteOutcomes.WithLabelValues(entity, store.Name(), "error").Inc()
		g.logger.Warn("store write failed", "entity", entity, "store", store.Name(), "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", store.Name(), err))

		if i+1 < len(g.stores) {
			next := g.stores[i+1]
			g.metrics.SourceFallbacks.WithLabelValues(entity, store.Name(), next.Name()).Inc()
			g.logger.Info("falling back to next store for write",
				"entity", entity, "from", store.Name(), "to", next.Name())
		}
	}
	return fmt.Errorf("write %s: %w", entity, errors.Join(errs...))
}

// update runs op against each store in order. A store that fails or does
// not hold the row advances to the next; success on any store wins. When
// every store reports the row absent the result is domain.ErrNotFound.
func (g *Gateway) update(ctx context.Context, entity string, op func(Store) error) error {
	var errs []error
	for _, store := range g.stores {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		err := op(store)
		switch {
		case err == nil:
			g.metrics.WriteOutcomes.WithLabelValues(entity, store.Name(), "success").Inc()
			return nil
		case errors.Is(err, domain.ErrNotFound):
			g.metrics.WriteOutcomes.WithLabelValues(entity, store.Name(), "empty").Inc()
		default:
			g.metrics.WriteOutcomes.WithLabelValues(entity, store.Name(), "error").Inc()
			g.logger.Warn("store update failed", "entity", entity, "store", store.Name(), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", store.Name(), err))
		}
	}
	if len(errs) == 0 {
		return domain.ErrNotFound
	}
	return fmt.Errorf("update %s: %w", entity, errors.Join(errs...))
}
