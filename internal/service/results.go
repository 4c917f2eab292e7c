// internal/service/results.go
package service

import (
	"context"
	"sync"

	"finops-assessment/internal/benchmark"
	"finops-assessment/internal/catalog"
	apperrors "finops-assessment/internal/common/errors"
	"finops-assessment/internal/common/metrics"
	"finops-assessment/internal/models"
	"finops-assessment/internal/recommendations"

	"golang.org/x/sync/errgroup"
)

// RegenerateSummary reports an offline regeneration pass.
type RegenerateSummary struct {
	Scanned     int `json:"scanned"`
	Regenerated int `json:"regenerated"`
	StillAbsent int `json:"stillAbsent"`
	Failed      int `json:"failed"`
	// Cursor is the id of the last assessment scanned; pass it as after to
	// continue with the next batch.
	Cursor string `json:"cursor,omitempty"`
}

func (r *RegenerateSummary) add(batch RegenerateSummary) {
	r.Scanned += batch.Scanned
	r.Regenerated += batch.Regenerated
	r.StillAbsent += batch.StillAbsent
	r.Failed += batch.Failed
	if batch.Cursor != "" {
		r.Cursor = batch.Cursor
	}
}

// GetResults returns the score report, recommendations and per-domain
// benchmarks of a completed assessment. Recommendations that are missing
// or hold the sentinel are regenerated and stored.
func (s *AssessmentService) GetResults(ctx context.Context, assessmentID string) (*models.Results, error) {
	a, err := s.store.GetAssessment(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	if !a.IsCompleted() {
		return nil, apperrors.NewAssessmentInProgressError(a.ID)
	}
	responses, err := s.store.ListResponses(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	report := s.engine.Score(responses)

	text, err := s.ensureRecommendations(ctx, a, responses, report, false)
	if err != nil {
		return nil, err
	}

	domains := s.domainsOf(a)
	benchmarks := make([]models.Benchmark, len(domains))
	g, gctx := errgroup.WithContext(ctx)
	for i, domain := range domains {
		i, domain := i, domain
		g.Go(func() error {
			b, err := s.Benchmark(gctx, domain, a.OrgHash)
			if err != nil {
				return err
			}
			benchmarks[i] = *b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &models.Results{
		Assessment:      *a,
		Report:          report,
		Responses:       responses,
		Recommendations: text,
		Parsed:          recommendations.Parse(text),
		Benchmarks:      benchmarks,
	}, nil
}

// Benchmark compares the requester's organization with its peers on one
// domain. Cache failures degrade to a fresh computation.
func (s *AssessmentService) Benchmark(ctx context.Context, domain catalog.DomainName, requesterOrgHash string) (*models.Benchmark, error) {
	cached, hit, err := s.cache.Get(ctx, domain, requesterOrgHash)
	switch {
	case err != nil:
		metrics.BenchmarkCache.WithLabelValues("error").Inc()
		s.logger.Warn("benchmark cache read failed", map[string]interface{}{
			"domain": domain,
			"error":  err.Error(),
		})
	case hit:
		metrics.BenchmarkCache.WithLabelValues("hit").Inc()
		return cached, nil
	default:
		metrics.BenchmarkCache.WithLabelValues("miss").Inc()
	}

	assessments, err := s.store.ListCompleted(ctx, domain)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(assessments))
	for i, a := range assessments {
		ids[i] = a.ID
	}
	byAssessment, err := s.store.ResponsesFor(ctx, ids)
	if err != nil {
		return nil, err
	}

	candidates := make([]benchmark.Candidate, len(assessments))
	for i, a := range assessments {
		candidates[i] = benchmark.Candidate{Assessment: a, Responses: byAssessment[a.ID]}
	}
	result := s.aggregator.Compute(benchmark.Request{
		Domain:           domain,
		RequesterOrgHash: requesterOrgHash,
	}, candidates)

	if err := s.cache.Set(ctx, requesterOrgHash, &result); err != nil {
		s.logger.Warn("benchmark cache write failed", map[string]interface{}{
			"domain": domain,
			"error":  err.Error(),
		})
	}
	return &result, nil
}

// BenchmarkFor parses a raw domain name and benchmarks it for the
// organization owning assessmentID. An empty assessmentID benchmarks with no
// requester, so every organization is a peer.
func (s *AssessmentService) BenchmarkFor(ctx context.Context, rawDomain, assessmentID string) (*models.Benchmark, error) {
	domain, err := s.catalog.ParseDomain(rawDomain)
	if err != nil {
		return nil, err
	}
	orgHash := ""
	if assessmentID != "" {
		a, err := s.store.GetAssessment(ctx, assessmentID)
		if err != nil {
			return nil, err
		}
		orgHash = a.OrgHash
	}
	return s.Benchmark(ctx, domain, orgHash)
}

// RegenerateRecommendations rebuilds the recommendations of a completed
// assessment. Without force, present recommendations are returned as is.
func (s *AssessmentService) RegenerateRecommendations(ctx context.Context, assessmentID string, force bool) (string, error) {
	a, err := s.store.GetAssessment(ctx, assessmentID)
	if err != nil {
		return "", err
	}
	if !a.IsCompleted() {
		return "", apperrors.NewAssessmentInProgressError(a.ID)
	}
	responses, err := s.store.ListResponses(ctx, a.ID)
	if err != nil {
		return "", err
	}
	return s.ensureRecommendations(ctx, a, responses, s.engine.Score(responses), force)
}

// RegenerateAbsent regenerates one batch of completed assessments whose
// recommendations are absent, taking up to limit assessments with an id
// greater than after, with at most concurrency oracle calls in flight.
// Per-assessment failures are counted, not returned.
func (s *AssessmentService) RegenerateAbsent(ctx context.Context, after string, limit, concurrency int) (RegenerateSummary, error) {
	var summary RegenerateSummary

	pending, err := s.store.ListAbsentRecommendations(ctx, after, limit)
	if err != nil {
		return summary, err
	}
	summary.Scanned = len(pending)
	if len(pending) > 0 {
		summary.Cursor = pending[len(pending)-1].ID
	}
	if concurrency < 1 {
		concurrency = 1
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, a := range pending {
		id := a.ID
		g.Go(func() error {
			text, err := s.RegenerateRecommendations(gctx, id, true)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				summary.Failed++
				s.logger.Error("recommendation regeneration failed", map[string]interface{}{
					"assessmentId": id,
					"error":        err.Error(),
				})
			case recommendations.IsAbsent(text):
				summary.StillAbsent++
			default:
				summary.Regenerated++
			}
			return nil
		})
	}
	_ = g.Wait()

	s.logger.Info("recommendation regeneration finished", map[string]interface{}{
		"scanned":     summary.Scanned,
		"regenerated": summary.Regenerated,
		"stillAbsent": summary.StillAbsent,
		"failed":      summary.Failed,
		"cursor":      summary.Cursor,
	})
	return summary, ctx.Err()
}

// RegenerateAll pages through every assessment with absent recommendations
// in id order. Assessments that stay absent are passed over, so they never
// block later pages.
func (s *AssessmentService) RegenerateAll(ctx context.Context, limit, concurrency int) (RegenerateSummary, error) {
	var total RegenerateSummary
	if limit < 1 {
		limit = 1
	}
	after := ""
	for {
		batch, err := s.RegenerateAbsent(ctx, after, limit, concurrency)
		total.add(batch)
		if err != nil {
			return total, err
		}
		if batch.Scanned < limit {
			return total, nil
		}
		after = batch.Cursor
	}
}

func (s *AssessmentService) ensureRecommendations(ctx context.Context, a *models.Assessment, responses []models.Response, report models.ScoreReport, force bool) (string, error) {
	current := ""
	if a.Recommendations != nil {
		current = *a.Recommendations
	}
	if !force && !recommendations.IsAbsent(current) {
		return current, nil
	}

	text := s.recs.Generate(ctx, recommendations.Input{
		AssessmentID:      a.ID,
		Scope:             a.ScopeLabel(),
		Domain:            a.DomainLabel(),
		OverallPercentage: report.OverallPercentage,
		Responses:         responses,
	})
	if recommendations.IsAbsent(text) {
		if recommendations.IsAbsent(current) {
			return recommendations.Sentinel, nil
		}
		return current, nil
	}

	if err := s.store.UpdateRecommendations(ctx, a.ID, text); err != nil {
		return "", err
	}
	a.Recommendations = &text
	return text, nil
}
