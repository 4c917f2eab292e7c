// internal/oracle/factory.go
package oracle

import (
	"context"

	"finops-assessment/internal/common/config"
	apphttp "finops-assessment/internal/common/http"
	"finops-assessment/internal/common/logger"
	"finops-assessment/internal/common/observability"
)

const ProviderDisabled = "disabled"

// New builds the configured oracle wrapped with timeout and instrumentation.
// A provider that cannot be built degrades to Disabled so that callers keep
// working on their fallbacks.
func New(ctx context.Context, cfg config.OracleConfig, otelMetrics *observability.Metrics, log logger.Logger) Oracle {
	var (
		base     Oracle
		provider = cfg.Provider
	)

	switch cfg.Provider {
	case ProviderOpenAI:
		client := apphttp.NewClient(cfg.MaxRetries)
		base = NewOpenAI(client, cfg.BaseURL, cfg.APIKey, cfg.Model)
	case ProviderGemini:
		g, err := NewGemini(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			log.Warn("gemini oracle unavailable, using fallbacks only", map[string]interface{}{
				"error": err.Error(),
			})
			base = Disabled{Reason: err.Error()}
			break
		}
		base = g
	default:
		provider = ProviderDisabled
		base = Disabled{}
	}

	log.Info("scoring oracle configured", map[string]interface{}{
		"provider": provider,
		"model":    cfg.Model,
	})

	return Instrument(WithTimeout(base, cfg.GetTimeout(), provider), provider, otelMetrics)
}
