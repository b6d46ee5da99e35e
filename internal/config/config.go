package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Store configuration. At least one backend must be configured; when
	// both are, Postgres is preferred and SQLite is the fallback.
	PostgresURL string
	SQLitePath  string
	CacheTTL    time.Duration

	// Region boundary configuration. A non-empty RegionURL selects the
	// HTTP source; otherwise the snapshot is read from RegionFile.
	RegionFile         string
	RegionURL          string
	RegionRefreshTTL   time.Duration
	RegionHTTPTimeout  time.Duration
	ForceRegionRefresh bool

	// Kafka audit publishing.
	KafkaBrokers        []string
	KafkaAuditTopic     string
	AuditPublishEnabled bool
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parsePositiveDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	cacheTTL, err := parsePositiveDuration("CACHE_TTL", "5m")
	if err != nil {
		return nil, err
	}
	refreshTTL, err := parsePositiveDuration("REGION_REFRESH_TTL", "24h")
	if err != nil {
		return nil, err
	}
	regionTimeout, err := parsePositiveDuration("REGION_HTTP_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	brokers := parseBrokers(os.Getenv("KAFKA_BROKERS"))
	auditPublish := len(brokers) > 0
	if v := os.Getenv("AUDIT_PUBLISH_ENABLED"); v != "" {
		auditPublish = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		PostgresURL: os.Getenv("DATABASE_URL"),
		SQLitePath:  os.Getenv("SQLITE_PATH"),
		CacheTTL:    cacheTTL,

		RegionFile:         envOrDefault("REGION_FILE", "data/kabkota_sumut.json"),
		RegionURL:          os.Getenv("REGION_URL"),
		RegionRefreshTTL:   refreshTTL,
		RegionHTTPTimeout:  regionTimeout,
		ForceRegionRefresh: os.Getenv("FORCE_REGION_REFRESH") == "true",

		KafkaBrokers:        brokers,
		KafkaAuditTopic:     envOrDefault("KAFKA_AUDIT_TOPIC", "audit-events"),
		AuditPublishEnabled: auditPublish,
	}

	if cfg.PostgresURL == "" && cfg.SQLitePath == "" {
		return nil, errors.New("DATABASE_URL or SQLITE_PATH is required")
	}
	if cfg.AuditPublishEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("AUDIT_PUBLISH_ENABLED is true but KAFKA_BROKERS is not set")
	}

	return cfg, nil
}

// envOrDefault returns the environment value for key, or def when unset.
func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// parsePositiveDuration parses the named duration variable, falling back to
// def when unset. Zero and negative durations are rejected.
func parsePositiveDuration(key, def string) (time.Duration, error) {
	raw := envOrDefault(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return d, nil
}

// parseBrokers splits a comma-separated broker list, dropping empty parts.
func parseBrokers(raw string) []string {
	var brokers []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			brokers = append(brokers, part)
		}
	}
	return brokers
}
