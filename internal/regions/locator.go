package regions

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/Naminiges/USU-Peduli/internal/domain"
	"github.com/Naminiges/USU-Peduli/internal/observability"
)

// Locator classifies coordinates against an in-memory boundary snapshot.
// The snapshot is refreshed from its source when absent or older than the
// TTL; with force set it is refetched on every classification. A failed
// refresh keeps the previous snapshot — classification degrades to the
// sentinels, never to an error.
type Locator struct {
	source  BoundarySource
	ttl     time.Duration
	force   bool
	clock   clockwork.Clock
	logger  *slog.Logger
	metrics *observability.Metrics

	mu        sync.Mutex
	snapshot  []domain.Region
	fetchedAt time.Time
}

// NewLocator creates a locator over the given boundary source.
func NewLocator(source BoundarySource, ttl time.Duration, force bool, clk clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Locator {
	return &Locator{
		source:  source,
		ttl:     ttl,
		force:   force,
		clock:   clk,
		logger:  logger,
		metrics: metrics,
	}
}

// Classify resolves p to a municipality name, domain.RegionOutside, or
// domain.RegionDetectionFailed.
func (l *Locator) Classify(ctx context.Context, p domain.Point) string {
	result := domain.ClassifyPoint(l.currentSnapshot(ctx), p)

	switch result {
	case domain.RegionDetectionFailed:
		l.metrics.Classifications.WithLabelValues("failed").Inc()
		l.logger.Warn("region detection failed", "lat", p.Lat, "lon", p.Lon)
	case domain.RegionOutside:
		l.metrics.Classifications.WithLabelValues("outside").Inc()
	default:
		l.metrics.Classifications.WithLabelValues("matched").Inc()
	}
	return result
}

// Refresh refetches the boundary snapshot regardless of age. The previous
// snapshot stays in place on failure.
func (l *Locator) Refresh(ctx context.Context) error {
	fresh, err := l.source.Fetch(ctx)
	if err != nil {
		l.metrics.SnapshotRefreshes.WithLabelValues("error").Inc()
		return fmt.Errorf("refresh boundary snapshot: %w", err)
	}
	if len(fresh) == 0 {
		l.metrics.SnapshotRefreshes.WithLabelValues("error").Inc()
		return fmt.Errorf("boundary source %s returned no regions", l.source.Name())
	}

	l.mu.Lock()
	l.snapshot = fresh
	l.fetchedAt = l.clock.Now()
	l.mu.Unlock()

	l.metrics.SnapshotRefreshes.WithLabelValues("success").Inc()
	l.metrics.SnapshotRegions.Set(float64(len(fresh)))
	l.logger.Info("boundary snapshot refreshed", "source", l.source.Name(), "regions", len(fresh))
	return nil
}

// currentSnapshot returns the snapshot, refreshing it first when it is
// absent, expired, or force-refresh is set. Concurrent refreshes may race;
// the later write wins, which is acceptable for reference data.
func (l *Locator) currentSnapshot(ctx context.Context) []domain.Region {
	l.mu.Lock()
	snapshot, fetchedAt := l.snapshot, l.fetchedAt
	l.mu.Unlock()

	stale := l.force || len(snapshot) == 0 || l.clock.Now().Sub(fetchedAt) >= l.ttl
	if !stale {
		return snapshot
	}

	if err := l.Refresh(ctx); err != nil {
		l.logger.Warn("keeping previous boundary snapshot", "error", err)
		return snapshot
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshot
}
