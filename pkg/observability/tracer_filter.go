package observability

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/embedded"
)

// SpanRewriteFile is the per-file span emitted by the rewrite engine.
const SpanRewriteFile = "splice.rewrite.file"

// filteringTracerProvider hands out tracers that replace per-file spans
// with no-op spans, so a run over a large tree exports one span per
// command rather than one per file.
type filteringTracerProvider struct {
	embedded.TracerProvider

	delegate   trace.TracerProvider
	suppressed map[string]bool
}

// NewFilteringTracerProvider wraps delegate, dropping per-file spans.
func NewFilteringTracerProvider(delegate trace.TracerProvider) trace.TracerProvider {
	return &filteringTracerProvider{
		delegate:   delegate,
		suppressed: map[string]bool{SpanRewriteFile: true},
	}
}

// Tracer implements trace.TracerProvider.
func (f *filteringTracerProvider) Tracer(name string, opts ...trace.TracerOption) trace.Tracer {
	return &filteringTracer{
		delegate:   f.delegate.Tracer(name, opts...),
		suppressed: f.suppressed,
	}
}

type filteringTracer struct {
	embedded.Tracer

	delegate   trace.Tracer
	suppressed map[string]bool
}

// Start implements trace.Tracer. A suppressed span is a non-recording span
// carrying the parent's span context, so its children attach to the parent.
func (f *filteringTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if f.suppressed[name] {
		ctx = trace.ContextWithSpanContext(ctx, trace.SpanContextFromContext(ctx))

		return ctx, trace.SpanFromContext(ctx)
	}

	return f.delegate.Start(ctx, name, opts...)
}
