package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	// At least one store must be configured; everything else defaults.
	t.Setenv("SQLITE_PATH", "satgas.db")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Empty(t, cfg.PostgresURL)
	assert.Equal(t, "satgas.db", cfg.SQLitePath)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, "data/kabkota_sumut.json", cfg.RegionFile)
	assert.Empty(t, cfg.RegionURL)
	assert.Equal(t, 24*time.Hour, cfg.RegionRefreshTTL)
	assert.Equal(t, 10*time.Second, cfg.RegionHTTPTimeout)
	assert.False(t, cfg.ForceRegionRefresh)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "audit-events", cfg.KafkaAuditTopic)
	assert.False(t, cfg.AuditPublishEnabled)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("DATABASE_URL", "postgres://satgas:secret@db:5432/satgas?sslmode=disable")
	t.Setenv("SQLITE_PATH", "/var/lib/satgas/fallback.db")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("REGION_FILE", "/etc/satgas/kabkota.json")
	t.Setenv("REGION_URL", "https://boundaries.example.com/kabkota_sumut.json")
	t.Setenv("REGION_REFRESH_TTL", "6h")
	t.Setenv("REGION_HTTP_TIMEOUT", "3s")
	t.Setenv("FORCE_REGION_REFRESH", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("KAFKA_AUDIT_TOPIC", "moderation-audit")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "postgres://satgas:secret@db:5432/satgas?sslmode=disable", cfg.PostgresURL)
	assert.Equal(t, "/var/lib/satgas/fallback.db", cfg.SQLitePath)
	assert.Equal(t, 90*time.Second, cfg.CacheTTL)
	assert.Equal(t, "/etc/satgas/kabkota.json", cfg.RegionFile)
	assert.Equal(t, "https://boundaries.example.com/kabkota_sumut.json", cfg.RegionURL)
	assert.Equal(t, 6*time.Hour, cfg.RegionRefreshTTL)
	assert.Equal(t, 3*time.Second, cfg.RegionHTTPTimeout)
	assert.True(t, cfg.ForceRegionRefresh)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "moderation-audit", cfg.KafkaAuditTopic)
	assert.True(t, cfg.AuditPublishEnabled)
}

func TestLoad_RequiresAStore(t *testing.T) {
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL or SQLITE_PATH")
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SQLITE_PATH", "satgas.db")
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_NegativeShutdownTimeout(t *testing.T) {
	t.Setenv("SQLITE_PATH", "satgas.db")
	t.Setenv("SHUTDOWN_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidCacheTTL(t *testing.T) {
	t.Setenv("SQLITE_PATH", "satgas.db")
	t.Setenv("CACHE_TTL", "0s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CACHE_TTL")
}

func TestLoad_InvalidRegionRefreshTTL(t *testing.T) {
	t.Setenv("SQLITE_PATH", "satgas.db")
	t.Setenv("REGION_REFRESH_TTL", "soon")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REGION_REFRESH_TTL")
}

func TestLoad_AuditPublishNeedsBrokers(t *testing.T) {
	t.Setenv("SQLITE_PATH", "satgas.db")
	t.Setenv("AUDIT_PUBLISH_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}

func TestLoad_AuditPublishOverride(t *testing.T) {
	t.Setenv("SQLITE_PATH", "satgas.db")
	t.Setenv("KAFKA_BROKERS", "broker1:9092")
	t.Setenv("AUDIT_PUBLISH_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.AuditPublishEnabled)
	assert.Equal(t, []string{"broker1:9092"}, cfg.KafkaBrokers)
}
