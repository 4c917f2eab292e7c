// internal/evaluator/evaluator.go
package evaluator

import (
	"context"
	"fmt"
	"strings"

	"finops-assessment/internal/catalog"
	apperrors "finops-assessment/internal/common/errors"
	"finops-assessment/internal/common/logger"
	"finops-assessment/internal/common/metrics"
	"finops-assessment/internal/common/validation"
	"finops-assessment/internal/oracle"

	"github.com/tidwall/gjson"
)

const fallbackComponent = "evaluator"

var oracleResultSchema = validation.MustCompile("oracle evaluation", `{
  "type": "object",
  "required": ["score", "improvement"],
  "properties": {
    "score": {"type": "integer", "minimum": 0, "maximum": 4},
    "improvement": {"type": "string", "minLength": 1}
  }
}`)

const evaluationSystemPrompt = "You are a FinOps maturity assessor following the FinOps Foundation assessment guide. " +
	"Reply with a single JSON object {\"score\": <integer 0-4>, \"improvement\": \"<improvement guidance>\"} and nothing else."

// Evaluator scores answers. With an oracle it asks the oracle first and
// falls back to LocalHeuristic on any failure; without one it is the
// heuristic.
type Evaluator struct {
	catalog     *catalog.Catalog
	oracle      oracle.Oracle
	logger      logger.Logger
	maxTokens   int
	temperature float64
}

type Option func(*Evaluator)

// WithOracle enables oracle scoring.
func WithOracle(o oracle.Oracle, maxTokens int, temperature float64) Option {
	return func(e *Evaluator) {
		e.oracle = o
		e.maxTokens = maxTokens
		e.temperature = temperature
	}
}

func New(c *catalog.Catalog, log logger.Logger, opts ...Option) *Evaluator {
	e := &Evaluator{
		catalog: c,
		logger:  log.WithFields(map[string]interface{}{"component": fallbackComponent}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate never fails; oracle problems are logged and replaced by the
// heuristic result.
func (e *Evaluator) Evaluate(ctx context.Context, req Request) Result {
	local := LocalHeuristic(e.catalog, req)
	if e.oracle == nil {
		return local
	}

	text, err := e.oracle.Complete(ctx, oracle.Prompt{
		System:      evaluationSystemPrompt,
		User:        buildEvaluationPrompt(req),
		MaxTokens:   e.maxTokens,
		Temperature: e.temperature,
	})
	if err == nil {
		var result Result
		if result, err = e.fromOracle(text, req, local); err == nil {
			return result
		}
	}

	reason := "error"
	if stdErr, ok := apperrors.As(err); ok {
		reason = string(stdErr.Code)
	}
	e.logger.Warn("oracle evaluation failed, using local heuristic", map[string]interface{}{
		"capabilityId": req.Capability.ID,
		"lensId":       req.Lens.ID,
		"reason":       reason,
		"error":        err.Error(),
	})
	metrics.OracleFallbacks.WithLabelValues(fallbackComponent, reason).Inc()
	return local
}

func (e *Evaluator) fromOracle(text string, req Request, local Result) (Result, error) {
	doc := extractJSONObject(text)
	if doc == "" {
		return Result{}, apperrors.NewOracleMalformedResponseError("no JSON object in oracle output")
	}
	if err := oracleResultSchema.ValidateJSON([]byte(doc)); err != nil {
		return Result{}, apperrors.NewOracleMalformedResponseError(err.Error())
	}

	score := int(gjson.Get(doc, "score").Int())
	improvement := strings.TrimSpace(gjson.Get(doc, "improvement").String())

	result := local
	result.Score = score
	result.RawScore = float64(score)
	result.Improvement = improvement
	result.Suggestions = []string{improvement}
	result.Maturity = Level(score)
	result.IndustryComparison = IndustryComparison(float64(score), req.Capability.Name, req.Lens.Name)
	result.Risks = Risks(float64(score), req.Capability.Name, req.Lens.Name)
	result.Source = SourceOracle
	return result, nil
}

func buildEvaluationPrompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Capability: %s\n", req.Capability.Name)
	fmt.Fprintf(&b, "Lens: %s\n", req.Lens.Name)
	fmt.Fprintf(&b, "Selected maturity level: %s\n", req.AnswerLevel)
	if d := strings.TrimSpace(req.AnswerDetails); d != "" {
		fmt.Fprintf(&b, "Details provided: %s\n", d)
	}
	b.WriteString("\nScore 0 = Crawl, 1 = Walk, 2 = Run, 3 = Fly, 4 = Optimize. ")
	b.WriteString("Give concrete improvement guidance for reaching the next level.")
	return b.String()
}

// extractJSONObject returns the outermost {...} span, tolerating markdown
// fences and chatter around it.
func extractJSONObject(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}
