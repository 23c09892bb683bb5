package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricFilesTotal       = "splice.rewrite.files.total"
	metricMatchesTotal     = "splice.rewrite.matches.total"
	metricEffectsTotal     = "splice.rewrite.effects.total"
	metricSuppressedTotal  = "splice.rewrite.suppressed.total"
	metricDiagnosticsTotal = "splice.rewrite.diagnostics.total"
	metricFileDuration     = "splice.rewrite.file.duration.seconds"

	attrLanguage = "language"
)

// RewriteMetrics holds the instruments for rule application.
type RewriteMetrics struct {
	files        metric.Int64Counter
	matches      metric.Int64Counter
	effects      metric.Int64Counter
	suppressed   metric.Int64Counter
	diagnostics  metric.Int64Counter
	fileDuration metric.Float64Histogram
}

// RewriteStats summarizes rule application on one file.
type RewriteStats struct {
	Language    string
	Matches     int
	Applied     int
	Suppressed  int
	Diagnostics int
	Duration    time.Duration
	Failed      bool
}

// NewRewriteMetrics creates the rewrite instruments from mt.
func NewRewriteMetrics(mt metric.Meter) (*RewriteMetrics, error) {
	var (
		rm  RewriteMetrics
		err error
	)

	for _, c := range []struct {
		dst              *metric.Int64Counter
		name, desc, unit string
	}{
		{&rm.files, metricFilesTotal, "Files processed", "{file}"},
		{&rm.matches, metricMatchesTotal, "Rule matches found", "{match}"},
		{&rm.effects, metricEffectsTotal, "Effects applied", "{effect}"},
		{&rm.suppressed, metricSuppressedTotal, "Matches silenced by ignore comments", "{match}"},
		{&rm.diagnostics, metricDiagnosticsTotal, "Diagnostics raised during linearization", "{diagnostic}"},
	} {
		*c.dst, err = mt.Int64Counter(c.name, metric.WithDescription(c.desc), metric.WithUnit(c.unit))
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", c.name, err)
		}
	}

	rm.fileDuration, err = mt.Float64Histogram(metricFileDuration,
		metric.WithDescription("Per-file rewrite duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFileDuration, err)
	}

	return &rm, nil
}

// RecordFile records the statistics of one file. Safe on a nil receiver.
func (rm *RewriteMetrics) RecordFile(ctx context.Context, stats RewriteStats) {
	if rm == nil {
		return
	}

	status := StatusOK
	if stats.Failed {
		status = StatusError
	}

	attrs := metric.WithAttributes(attribute.String(attrLanguage, stats.Language))

	rm.files.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrLanguage, stats.Language),
		attribute.String(attrStatus, status),
	))
	rm.matches.Add(ctx, int64(stats.Matches), attrs)
	rm.effects.Add(ctx, int64(stats.Applied), attrs)
	rm.suppressed.Add(ctx, int64(stats.Suppressed), attrs)
	rm.diagnostics.Add(ctx, int64(stats.Diagnostics), attrs)
	rm.fileDuration.Record(ctx, stats.Duration.Seconds(), attrs)
}
