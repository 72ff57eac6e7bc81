package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// tracerName identifies this package's spans in the OTel pipeline.
const tracerName = "github.com/sulaljuhani/ai-assistant-local-stack-sub001/core"

// NewTracerProvider builds an SDK tracer provider with no exporter attached
// by default; callers running inside a fuller deployment register a real
// exporter (OTLP, etc.) and pass the resulting provider to SetGlobal.
// Leaving it unexported keeps the core's only OTel dependency the span
// API itself — the exporter choice belongs to the process that embeds it.
func NewTracerProvider(opts ...trace.TracerProviderOption) *trace.TracerProvider {
	return trace.NewTracerProvider(opts...)
}

// SetGlobal installs tp as the process-wide tracer provider.
func SetGlobal(tp oteltrace.TracerProvider) {
	otel.SetTracerProvider(tp)
}

// StartSpan starts a span under the package tracer, returning the derived
// context and an end function the caller defers.
func StartSpan(ctx context.Context, name string, opts ...oteltrace.SpanStartOption) (context.Context, func()) {
	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, name, opts...)
	return ctx, func() { span.End() }
}
