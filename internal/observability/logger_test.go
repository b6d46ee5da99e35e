package observability

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		enabled slog.Level
		muted   slog.Level
	}{
		{"debug", "debug", slog.LevelDebug, slog.LevelDebug - 1},
		{"info", "info", slog.LevelInfo, slog.LevelDebug},
		{"warn", "warn", slog.LevelWarn, slog.LevelInfo},
		{"warning alias", "warning", slog.LevelWarn, slog.LevelInfo},
		{"error", "ERROR", slog.LevelError, slog.LevelWarn},
		{"unknown falls back to info", "loud", slog.LevelInfo, slog.LevelDebug},
		{"empty falls back to info", "", slog.LevelInfo, slog.LevelDebug},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogger(tt.level, "json")
			require.NotNil(t, logger)
			assert.True(t, logger.Enabled(context.Background(), tt.enabled))
			assert.False(t, logger.Enabled(context.Background(), tt.muted))
		})
	}

	t.Run("text format", func(t *testing.T) {
		assert.NotNil(t, NewLogger("info", "text"))
	})
}

func TestNewMetricsForTesting(t *testing.T) {
	// Two instances must not collide with each other or the default registry.
	m1 := NewMetricsForTesting()
	m2 := NewMetricsForTesting()
	require.NotNil(t, m1)
	require.NotNil(t, m2)

	m1.AuditFailures.Inc()
	m1.Classifications.WithLabelValues("matched").Inc()
	m2.CacheLookups.WithLabelValues("facilities", "hit").Inc()
}
