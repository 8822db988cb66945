package tracing

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestGetTracer_RecordsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ctx, parent := GetTracer().Start(context.Background(), "pipeline.Collect")
	_, child := GetTracer().Start(ctx, "pipeline.collectIncheon")
	child.End()
	parent.End()

	ended := recorder.Ended()
	if len(ended) != 2 {
		t.Fatalf("recorded spans = %d, want 2", len(ended))
	}
	if got := ended[0].Name(); got != "pipeline.collectIncheon" {
		t.Errorf("child span name = %q, want %q", got, "pipeline.collectIncheon")
	}
	if got := ended[1].Name(); got != "pipeline.Collect" {
		t.Errorf("parent span name = %q, want %q", got, "pipeline.Collect")
	}
	if ended[0].Parent().SpanID() != ended[1].SpanContext().SpanID() {
		t.Error("child span is not parented to the run span")
	}
}

func TestGetTracer_NoopWithoutProvider(t *testing.T) {
	otel.SetTracerProvider(noop.NewTracerProvider())

	_, span := GetTracer().Start(context.Background(), "pipeline.Collect")
	defer span.End()

	if span.SpanContext().IsValid() {
		t.Error("noop provider produced a recording span")
	}
}
