package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Sumatoshi-tech/splice/pkg/observability"
)

func recordSpan(t *testing.T, logger *slog.Logger, attrs ...attribute.KeyValue) map[string]any {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	filter := observability.NewAttributeFilter(sdktrace.NewSimpleSpanProcessor(exporter), logger)
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(filter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	t.Cleanup(func() { require.NoError(t, tp.Shutdown(context.Background())) })

	_, span := tp.Tracer("test").Start(context.Background(), "op")
	span.SetAttributes(attrs...)
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)

	out := make(map[string]any, len(spans[0].Attributes))
	for _, a := range spans[0].Attributes {
		out[string(a.Key)] = a.Value.AsInterface()
	}

	return out
}

func TestAttributeFilter_AllowsKnownPrefixes(t *testing.T) {
	t.Parallel()

	attrs := recordSpan(t, nil,
		attribute.String("splice.language", "go"),
		attribute.Int("splice.matches", 3),
		attribute.String("mcp.tool", "splice_apply"),
		attribute.String("error.type", "timeout"),
	)

	assert.Equal(t, "go", attrs["splice.language"])
	assert.Equal(t, int64(3), attrs["splice.matches"])
	assert.Equal(t, "splice_apply", attrs["mcp.tool"])
	assert.Equal(t, "timeout", attrs["error.type"])
}

func TestAttributeFilter_StripsSourceText(t *testing.T) {
	t.Parallel()

	attrs := recordSpan(t, nil,
		attribute.String("splice.source", "package main"),
		attribute.String("splice.replacement", "log.Print(x)"),
		attribute.String("mcp.arguments", "{}"),
		attribute.String("user.email", "alice@example.com"),
		attribute.String("http.method", "GET"),
	)

	assert.Empty(t, attrs)
}

func TestAttributeFilter_WarnsWhenLoggerSet(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	recordSpan(t, logger, attribute.String("user.secret", "val"))

	assert.Contains(t, buf.String(), "user.secret")
	assert.Contains(t, buf.String(), "blocked")
}
