package tracing

import (
	"context"
	"fmt"
	"io"
	"os"

	config "github.com/inference-gateway/triage/config"
	otel "go.opentelemetry.io/otel"
	attribute "go.opentelemetry.io/otel/attribute"
	stdouttrace "go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	resource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	trace "go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/inference-gateway/triage"

// ShutdownFunc flushes and stops the tracer provider
type ShutdownFunc func(context.Context) error

// Init installs a tracer provider exporting spans as JSON to stderr when
// tracing is enabled. With tracing disabled the global no-op provider stays
// in place and the returned shutdown is a no-op.
func Init(cfg *config.Config) (ShutdownFunc, error) {
	return InitWithWriter(cfg, os.Stderr)
}

// InitWithWriter is Init with an explicit span destination
func InitWithWriter(cfg *config.Config, w io.Writer) (ShutdownFunc, error) {
	if cfg == nil || !cfg.Tracing.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := stdouttrace.New(
		stdouttrace.WithWriter(w),
		stdouttrace.WithoutTimestamps(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", cfg.Tracing.ServiceName),
		)),
	)
	otel.SetTracerProvider(provider)

	return provider.Shutdown, nil
}

// Tracer returns the tracer used for remote calls
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}
