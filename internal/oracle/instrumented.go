// internal/oracle/instrumented.go
package oracle

import (
	"context"
	"time"

	apperrors "finops-assessment/internal/common/errors"
	"finops-assessment/internal/common/metrics"
	"finops-assessment/internal/common/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type instrumented struct {
	next     Oracle
	provider string
	otel     *observability.Metrics
}

// Instrument records latency, outcome counters and a span for each call.
// otelMetrics may be nil.
func Instrument(next Oracle, provider string, otelMetrics *observability.Metrics) Oracle {
	return &instrumented{next: next, provider: provider, otel: otelMetrics}
}

func (i *instrumented) Complete(ctx context.Context, prompt Prompt) (string, error) {
	ctx, span := observability.Tracer().Start(ctx, "oracle.complete")
	defer span.End()
	span.SetAttributes(
		attribute.String("oracle.provider", i.provider),
		attribute.Int("oracle.max_tokens", prompt.MaxTokens),
	)

	start := time.Now()
	text, err := i.next.Complete(ctx, prompt)
	metrics.OracleLatency.WithLabelValues(i.provider).Observe(time.Since(start).Seconds())

	outcome := "success"
	if err != nil {
		outcome = "error"
		if stdErr, ok := apperrors.As(err); ok {
			outcome = string(stdErr.Code)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
	}
	metrics.OracleRequests.WithLabelValues(i.provider, outcome).Inc()
	i.otel.RecordOracleCall(ctx, i.provider, outcome)

	return text, err
}
