package observability_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Sumatoshi-tech/splice/pkg/observability"
)

func sumOf(t *testing.T, m *metricdata.Metrics) int64 {
	t.Helper()

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "%s is not an int64 sum", m.Name)

	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}

	return total
}

func TestRewriteMetrics_RecordFile(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	rm, err := observability.NewRewriteMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()

	rm.RecordFile(ctx, observability.RewriteStats{
		Language:   "go",
		Matches:    4,
		Applied:    3,
		Suppressed: 1,
		Duration:   20 * time.Millisecond,
	})
	rm.RecordFile(ctx, observability.RewriteStats{Language: "python", Failed: true})

	got := collectMetrics(t, reader)

	files := findMetric(got, "splice.rewrite.files.total")
	require.NotNil(t, files)
	assert.Equal(t, int64(2), sumOf(t, files))

	matches := findMetric(got, "splice.rewrite.matches.total")
	require.NotNil(t, matches)
	assert.Equal(t, int64(4), sumOf(t, matches))

	suppressed := findMetric(got, "splice.rewrite.suppressed.total")
	require.NotNil(t, suppressed)
	assert.Equal(t, int64(1), sumOf(t, suppressed))

	assert.NotNil(t, findMetric(got, "splice.rewrite.file.duration.seconds"))
}

func TestRewriteMetrics_NilReceiver(t *testing.T) {
	t.Parallel()

	var rm *observability.RewriteMetrics

	assert.NotPanics(t, func() {
		rm.RecordFile(context.Background(), observability.RewriteStats{Language: "go"})
	})
}
