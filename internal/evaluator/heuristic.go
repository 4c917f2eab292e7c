// internal/evaluator/heuristic.go
package evaluator

import (
	"math"
	"strings"

	"finops-assessment/internal/catalog"
)

const (
	ConfidenceHigh   = "High"
	ConfidenceMedium = "Medium"

	SourceHeuristic = "heuristic"
	SourceOracle    = "oracle"

	// unknownLevelScore is the base score for an answer level outside the
	// bucket list. The service rejects such levels before they get here.
	unknownLevelScore = 2
)

var positiveIndicators = []string{
	"automated", "automation", "consistent", "processes", "formal", "structured",
	"tools", "platform", "dashboard", "monitoring", "tracking", "optimization",
	"governance", "policies", "standards", "training", "education", "team",
	"ownership", "responsibility", "metrics", "kpis", "reporting", "analysis",
}

var negativeIndicators = []string{
	"manual", "ad-hoc", "inconsistent", "no process", "no tools", "no understanding",
	"limited", "basic", "occasional", "reactive", "no ownership", "no responsibility",
	"no monitoring", "no tracking", "no optimization", "no governance",
}

// Request is one answer to evaluate.
type Request struct {
	Capability    catalog.Capability
	Lens          catalog.Lens
	AnswerLevel   catalog.AnswerLevel
	AnswerDetails string
}

// Result is the evaluation of one answer. Score is what gets stored.
type Result struct {
	Score              int           `json:"score"`
	RawScore           float64       `json:"rawScore"`
	BaseScore          int           `json:"baseScore"`
	Adjustment         float64       `json:"adjustment"`
	Improvement        string        `json:"improvement"`
	Suggestions        []string      `json:"suggestions"`
	Maturity           MaturityLevel `json:"maturity"`
	Confidence         string        `json:"confidence"`
	IndustryComparison string        `json:"industryComparison"`
	Risks              string        `json:"risks"`
	Source             string        `json:"source"`
}

// BaseScore maps an answer level to its bucket position.
func BaseScore(c *catalog.Catalog, level catalog.AnswerLevel) int {
	idx, ok := c.LevelIndex(level)
	if !ok {
		return unknownLevelScore
	}
	return idx
}

// IndicatorCounts returns how many distinct positive and negative indicators
// occur in the lowercased text.
func IndicatorCounts(details string) (positive, negative int) {
	text := strings.ToLower(details)
	for _, ind := range positiveIndicators {
		if strings.Contains(text, ind) {
			positive++
		}
	}
	for _, ind := range negativeIndicators {
		if strings.Contains(text, ind) {
			negative++
		}
	}
	return positive, negative
}

// KeywordAdjustment is clamp((positive-negative)/3, -1, 1).
func KeywordAdjustment(details string) float64 {
	if strings.TrimSpace(details) == "" {
		return 0
	}
	pos, neg := IndicatorCounts(details)
	return math.Max(-1, math.Min(1, float64(pos-neg)/3))
}

// LocalHeuristic is the deterministic evaluator. It has no side effects and
// is the fallback for every oracle failure.
func LocalHeuristic(c *catalog.Catalog, req Request) Result {
	base := BaseScore(c, req.AnswerLevel)
	adj := KeywordAdjustment(req.AnswerDetails)
	raw := math.Max(0, math.Min(catalog.MaxScore, float64(base)+adj))
	score := int(raw)

	confidence := ConfidenceHigh
	if math.Abs(adj) >= 0.5 {
		confidence = ConfidenceMedium
	}

	suggestions := Suggestions(req.Capability.ID, req.Lens.ID, score)
	return Result{
		Score:              score,
		RawScore:           raw,
		BaseScore:          base,
		Adjustment:         adj,
		Improvement:        strings.Join(suggestions, "\n"),
		Suggestions:        suggestions,
		Maturity:           Level(score),
		Confidence:         confidence,
		IndustryComparison: IndustryComparison(raw, req.Capability.Name, req.Lens.Name),
		Risks:              Risks(raw, req.Capability.Name, req.Lens.Name),
		Source:             SourceHeuristic,
	}
}
