// internal/recommendations/generator.go
package recommendations

import (
	"context"
	"time"

	"finops-assessment/internal/catalog"
	apperrors "finops-assessment/internal/common/errors"
	"finops-assessment/internal/common/logger"
	"finops-assessment/internal/common/metrics"
	"finops-assessment/internal/models"
	"finops-assessment/internal/oracle"
)

const fallbackComponent = "recommendations"

// Input is the context for one assessment's recommendations.
type Input struct {
	AssessmentID      string
	Scope             string
	Domain            string
	OverallPercentage int
	Responses         []models.Response
}

type Generator struct {
	catalog     *catalog.Catalog
	oracle      oracle.Oracle
	logger      logger.Logger
	maxTokens   int
	temperature float64
}

func NewGenerator(c *catalog.Catalog, o oracle.Oracle, log logger.Logger, maxTokens int, temperature float64) *Generator {
	return &Generator{
		catalog:     c,
		oracle:      o,
		logger:      log.WithFields(map[string]interface{}{"component": fallbackComponent}),
		maxTokens:   maxTokens,
		temperature: temperature,
	}
}

// Generate returns cleaned recommendation text, or Sentinel when the oracle
// is unavailable, fails, or returns nothing usable. It never returns an
// error.
func (g *Generator) Generate(ctx context.Context, in Input) string {
	targets := LowestTargets(g.catalog, in.Responses)
	if len(targets) == 0 {
		g.fallback(in.AssessmentID, "no_responses", nil)
		return Sentinel
	}
	if g.oracle == nil {
		g.fallback(in.AssessmentID, string(apperrors.ErrCodeOracleNotConfigured), nil)
		return Sentinel
	}

	start := time.Now()
	text, err := g.oracle.Complete(ctx, oracle.Prompt{
		System:      SystemPrompt(len(targets)),
		User:        BuildPrompt(in.Scope, in.Domain, in.OverallPercentage, targets),
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
	})
	if err != nil {
		reason := "error"
		if stdErr, ok := apperrors.As(err); ok {
			reason = string(stdErr.Code)
		}
		g.fallback(in.AssessmentID, reason, err)
		return Sentinel
	}

	cleaned := PostProcess(text)
	if IsAbsent(cleaned) {
		g.fallback(in.AssessmentID, "empty_output", nil)
		return Sentinel
	}

	g.logger.Info("recommendations generated", map[string]interface{}{
		"assessmentId": in.AssessmentID,
		"targets":      len(targets),
		"durationMs":   time.Since(start).Milliseconds(),
	})
	return cleaned
}

func (g *Generator) fallback(assessmentID, reason string, err error) {
	fields := map[string]interface{}{
		"assessmentId": assessmentID,
		"reason":       reason,
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	g.logger.Warn("recommendation generation fell back to sentinel", fields)
	metrics.OracleFallbacks.WithLabelValues(fallbackComponent, reason).Inc()
}
