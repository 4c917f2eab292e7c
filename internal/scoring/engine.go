// Package scoring aggregates maturity scores into lens, domain and overall
// percentages. It performs no I/O.
package scoring

import (
	"math"

	"finops-assessment/internal/catalog"
	"finops-assessment/internal/models"
)

const (
	reasonUnknownCapability = "unknown capability"
	reasonUnknownLens       = "unknown lens"
	reasonScoreOutOfRange   = "score out of range"
)

type Engine struct {
	catalog *catalog.Catalog
}

func NewEngine(c *catalog.Catalog) *Engine {
	return &Engine{catalog: c}
}

// Percentage returns round(100*total/(count*MaxScore)), or 0 when count is 0.
func Percentage(total, count int) int {
	if count <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(total) / float64(count*catalog.MaxScore)))
}

// Score aggregates a response set. Rows whose capability or lens is not in
// the catalog, or whose score is outside 0..4, are skipped and listed in
// the report rather than failing the computation.
func (e *Engine) Score(responses []models.Response) models.ScoreReport {
	lenses := e.catalog.Lenses()
	domains := e.catalog.Domains()

	lensTotals := make(map[catalog.LensID]*models.LensScore, len(lenses))
	for _, l := range lenses {
		lensTotals[l.ID] = &models.LensScore{Weight: l.Weight}
	}
	domainTotals := make(map[catalog.DomainName]*models.DomainScore, len(domains))
	for _, d := range domains {
		domainTotals[d] = &models.DomainScore{}
	}

	report := models.ScoreReport{}
	for _, r := range responses {
		capability, ok := e.catalog.Capability(r.CapabilityID)
		if !ok {
			report.Skipped = append(report.Skipped, skipped(r, reasonUnknownCapability))
			continue
		}
		lensScore, ok := lensTotals[r.LensID]
		if !ok {
			report.Skipped = append(report.Skipped, skipped(r, reasonUnknownLens))
			continue
		}
		if r.Score < 0 || r.Score > catalog.MaxScore {
			report.Skipped = append(report.Skipped, skipped(r, reasonScoreOutOfRange))
			continue
		}

		report.TotalScore += r.Score
		report.ResponseCount++

		lensScore.Total += r.Score
		lensScore.Count++

		domainScore := domainTotals[capability.Domain]
		domainScore.Total += r.Score
		domainScore.Count++
	}

	report.TotalPossible = report.ResponseCount * catalog.MaxScore
	report.OverallPercentage = Percentage(report.TotalScore, report.ResponseCount)

	report.LensScores = make(map[catalog.LensID]models.LensScore, len(lensTotals))
	for id, ls := range lensTotals {
		ls.Percentage = Percentage(ls.Total, ls.Count)
		ls.Weighted = float64(ls.Percentage) * float64(ls.Weight) / 100
		report.LensScores[id] = *ls
	}

	report.DomainScores = make(map[catalog.DomainName]models.DomainScore, len(domainTotals))
	for name, ds := range domainTotals {
		ds.Percentage = Percentage(ds.Total, ds.Count)
		report.DomainScores[name] = *ds
	}

	return report
}

// ScoreDomain scores only the responses whose capability belongs to domain.
// ok is false when none of the responses fall into the domain.
func (e *Engine) ScoreDomain(responses []models.Response, domain catalog.DomainName) (models.DomainScore, bool) {
	var ds models.DomainScore
	for _, r := range responses {
		capability, ok := e.catalog.Capability(r.CapabilityID)
		if !ok || capability.Domain != domain {
			continue
		}
		if _, ok := e.catalog.Lens(r.LensID); !ok {
			continue
		}
		if r.Score < 0 || r.Score > catalog.MaxScore {
			continue
		}
		ds.Total += r.Score
		ds.Count++
	}
	ds.Percentage = Percentage(ds.Total, ds.Count)
	return ds, ds.Count > 0
}

// WeightedPercentage sums the weighted lens contributions, treating lenses
// with no responses as absent and renormalizing over the remaining weights.
func WeightedPercentage(report models.ScoreReport) float64 {
	var weighted float64
	var weights int
	for _, ls := range report.LensScores {
		if ls.Count == 0 {
			continue
		}
		weighted += ls.Weighted
		weights += ls.Weight
	}
	if weights == 0 {
		return 0
	}
	return math.Round(weighted*1000/float64(weights)) / 10
}

func skipped(r models.Response, reason string) models.SkippedResponse {
	return models.SkippedResponse{CapabilityID: r.CapabilityID, LensID: r.LensID, Reason: reason}
}
