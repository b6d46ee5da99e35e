package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	httpadapter "github.com/Naminiges/USU-Peduli/internal/adapter/http"
	"github.com/Naminiges/USU-Peduli/internal/adapter/postgres"
	"github.com/Naminiges/USU-Peduli/internal/adapter/sqlite"
	"github.com/Naminiges/USU-Peduli/internal/config"
	"github.com/Naminiges/USU-Peduli/internal/gateway"
	"github.com/Naminiges/USU-Peduli/internal/observability"
	"github.com/Naminiges/USU-Peduli/internal/regions"
)

func main() {
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	stores, closeStores, err := openStores(cfg, logger)
	if err != nil {
		logger.Error("no backing store available", "error", err)
		os.Exit(1)
	}

	clk := clockwork.NewRealClock()
	gw := gateway.New(stores, cfg.CacheTTL, clk, logger, metrics)

	// The boundary snapshot comes from a remote source of truth when
	// REGION_URL is set, otherwise from the bundled GeoJSON file.
	var source regions.BoundarySource
	if cfg.RegionURL != "" {
		source = regions.NewHTTPSource(cfg.RegionURL, cfg.RegionHTTPTimeout)
	} else {
		source = regions.NewFileSource(cfg.RegionFile)
	}
	locator := regions.NewLocator(source, cfg.RegionRefreshTTL, cfg.ForceRegionRefresh, clk, logger, metrics)

	if cfg.AuditPublishEnabled {
		metrics.AuditPublishEnabled.Set(1)
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, gw, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start ops server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("ops server error", "error", err)
		}
	}()

	// Load the boundary snapshot and pre-warm the reference caches. Both
	// degrade on failure; classification falls back to sentinels and the
	// caches fill on first read.
	if err := locator.Refresh(ctx); err != nil {
		logger.Warn("starting without boundary snapshot", "error", err)
	}
	prewarm(ctx, gw, logger)

	go refreshLoop(ctx, locator, cfg.RegionRefreshTTL, logger)

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("ops server shutdown error", "error", err)
	}
	closeStores()

	logger.Info("shutdown complete")
}

// openStores opens the configured backends in fallback order: Postgres
// first, SQLite second. A backend that fails to open is skipped with a
// warning; only a fully empty chain is fatal.
func openStores(cfg *config.Config, logger *slog.Logger) ([]gateway.Store, func(), error) {
	var stores []gateway.Store
	var closers []func() error

	if cfg.PostgresURL != "" {
		pg, err := postgres.Open(cfg.PostgresURL)
		if err != nil {
			logger.Warn("postgres unavailable, continuing without it", "error", err)
		} else {
			stores = append(stores, pg)
			closers = append(closers, pg.Close)
		}
	}
	if cfg.SQLitePath != "" {
		sq, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			logger.Warn("sqlite unavailable, continuing without it", "error", err)
		} else {
			stores = append(stores, sq)
			closers = append(closers, sq.Close)
		}
	}

	if len(stores) == 0 {
		return nil, nil, errors.New("every configured store failed to open")
	}

	closeAll := func() {
		for _, close := range closers {
			if err := close(); err != nil {
				logger.Error("store close error", "error", err)
			}
		}
	}
	return stores, closeAll, nil
}

// prewarm fills the reference-data caches so the first field submission
// does not pay the aggregation cost.
func prewarm(ctx context.Context, gw *gateway.Gateway, logger *slog.Logger) {
	facilities := gw.Facilities(ctx)
	volunteers := gw.Volunteers(ctx)
	statuses := gw.StatusMap(ctx)
	logger.Info("caches pre-warmed",
		"facilities", len(facilities),
		"volunteers", len(volunteers),
		"region_statuses", len(statuses),
	)
}

// refreshLoop refetches the boundary snapshot on its TTL so classification
// never blocks a submission on a cold refresh.
func refreshLoop(ctx context.Context, locator *regions.Locator, ttl time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := locator.Refresh(ctx); err != nil {
				logger.Warn("scheduled boundary refresh failed", "error", err)
			}
		}
	}
}
