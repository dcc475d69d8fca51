package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	// ServiceName identifies this binary in trace output.
	ServiceName = "bd-panel-processor"
	// ServiceVersion tags exported spans with the pipeline version.
	ServiceVersion = "1.0.0"
)

// TracingConfig holds tracing configuration.
type TracingConfig struct {
	Enabled bool
	// Writer receives exported spans; defaults to io.Discard so a batch
	// run stays quiet unless a caller opts in.
	Writer io.Writer
}

// Tracing wraps the tracer provider so the entrypoint can shut it down.
type Tracing struct {
	provider *sdktrace.TracerProvider
	Tracer   trace.Tracer
}

// InitializeTracing sets up the OpenTelemetry tracer provider with a stdout
// exporter. One span per pipeline stage is enough signal for a linear batch
// run; there is no remote collector.
func InitializeTracing(cfg TracingConfig, logger *slog.Logger) (*Tracing, error) {
	if !cfg.Enabled {
		return &Tracing{Tracer: otel.Tracer(ServiceName)}, nil
	}

	w := cfg.Writer
	if w == nil {
		w = io.Discard
	}

	exporter, err := stdouttrace.New(
		stdouttrace.WithWriter(w),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(ServiceName),
			semconv.ServiceVersion(ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)

	logger.Info("tracing initialized", slog.String("service", ServiceName))

	return &Tracing{
		provider: provider,
		Tracer:   provider.Tracer(ServiceName),
	}, nil
}

// Shutdown flushes and stops the tracer provider.
func (t *Tracing) Shutdown(ctx context.Context) error {
	if t.provider == nil {
		return nil
	}
	return t.provider.Shutdown(ctx)
}
