// internal/common/observability/metrics.go
package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Metrics records OpenTelemetry instruments exported through the Prometheus
// registry. A zero value is usable and records nothing.
type Metrics struct {
	provider    *metric.MeterProvider
	jobCounter  otelmetric.Int64Counter
	jobDuration otelmetric.Float64Histogram
	oracleCalls otelmetric.Int64Counter
}

func NewMetrics(serviceName string) (*Metrics, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return &Metrics{}, err
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)
	meter := provider.Meter(serviceName)

	m := &Metrics{provider: provider}
	if m.jobCounter, err = meter.Int64Counter("assessment.jobs.processed",
		otelmetric.WithDescription("Assessment jobs processed")); err != nil {
		return m, err
	}
	if m.jobDuration, err = meter.Float64Histogram("assessment.jobs.duration",
		otelmetric.WithDescription("Assessment job processing duration"),
		otelmetric.WithUnit("ms")); err != nil {
		return m, err
	}
	if m.oracleCalls, err = meter.Int64Counter("assessment.oracle.calls",
		otelmetric.WithDescription("Scoring oracle calls")); err != nil {
		return m, err
	}
	return m, nil
}

func (m *Metrics) RecordJob(ctx context.Context, taskType, status string, duration time.Duration) {
	if m == nil || m.jobCounter == nil {
		return
	}
	attrs := otelmetric.WithAttributes(
		attribute.String("task_type", taskType),
		attribute.String("status", status),
	)
	m.jobCounter.Add(ctx, 1, attrs)
	m.jobDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
}

func (m *Metrics) RecordOracleCall(ctx context.Context, provider, outcome string) {
	if m == nil || m.oracleCalls == nil {
		return
	}
	m.oracleCalls.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("outcome", outcome),
	))
}

func (m *Metrics) Shutdown(ctx context.Context) error {
	if m == nil || m.provider == nil {
		return nil
	}
	return m.provider.Shutdown(ctx)
}
