package observability_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/splice/pkg/observability"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := observability.DefaultConfig()

	assert.Equal(t, "splice", cfg.ServiceName)
	assert.Equal(t, observability.ModeCLI, cfg.Mode)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 5, cfg.ShutdownTimeoutSec)

	// Telemetry export is opt-in.
	assert.Empty(t, cfg.OTLPEndpoint)
	assert.Zero(t, cfg.SampleRatio)
	assert.False(t, cfg.DebugTrace)
	assert.False(t, cfg.TraceVerbose)
	assert.False(t, cfg.LogJSON)
}
