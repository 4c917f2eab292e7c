// internal/common/observability/tracing.go
package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "finops-assessment"

// Tracing owns the process tracer provider. With tracing disabled it hands
// out no-op tracers.
type Tracing struct {
	provider *sdktrace.TracerProvider
}

// NewTracing installs a global tracer provider exporting to a Jaeger
// collector endpoint such as http://jaeger:14268/api/traces.
func NewTracing(serviceName, environment, endpoint string) (*Tracing, error) {
	if endpoint == "" {
		return &Tracing{}, nil
	}

	exporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(endpoint)))
	if err != nil {
		return &Tracing{}, fmt.Errorf("create jaeger exporter: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", serviceName),
			attribute.String("deployment.environment", environment),
		)),
	)
	otel.SetTracerProvider(provider)

	return &Tracing{provider: provider}, nil
}

// Tracer returns a tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

func (t *Tracing) Shutdown(ctx context.Context) error {
	if t == nil || t.provider == nil {
		return nil
	}
	return t.provider.Shutdown(ctx)
}
