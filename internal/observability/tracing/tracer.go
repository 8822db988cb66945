// Package tracing exposes the application tracer used to trace pipeline runs
// and per-source collection phases.
package tracing

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// tracer is the global tracer instance for the flight-mustarddata pipeline.
var tracer = otel.Tracer("flight-mustarddata")

// GetTracer returns the global tracer for creating spans.
//
// Example usage:
//
//	ctx, span := tracing.GetTracer().Start(ctx, "collect-incheon")
//	defer span.End()
func GetTracer() trace.Tracer {
	return tracer
}
