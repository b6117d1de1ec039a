package main

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// initTracing wires the orchestrator's spans to stdout when traceEnabled
// is set, for local debugging of stage timing; otherwise it leaves the
// global no-op tracer provider in place so a normal run produces no
// tracing output at all. The returned shutdown func must be called
// before the process exits to flush any buffered spans.
func initTracing(traceEnabled bool) (shutdown func(context.Context) error, err error) {
	if !traceEnabled {
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("building stdout trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}
