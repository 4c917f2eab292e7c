// internal/service/assessment.go
package service

import (
	"context"
	"fmt"
	"strings"

	"finops-assessment/internal/catalog"
	apperrors "finops-assessment/internal/common/errors"
	"finops-assessment/internal/common/metrics"
	"finops-assessment/internal/evaluator"
	"finops-assessment/internal/identity"
	"finops-assessment/internal/models"
	"finops-assessment/internal/recommendations"
	"finops-assessment/internal/scoring"
	"finops-assessment/internal/store"
)

// StartRequest opens an assessment. Scope is "complete" or "domain"; an
// empty scope with a domain set means "domain".
type StartRequest struct {
	Email           string `json:"email"`
	Scope           string `json:"scope"`
	Domain          string `json:"domain"`
	TechnologyScope string `json:"technologyScope"`
}

type SubmitRequest struct {
	AssessmentID  string `json:"assessmentId"`
	CapabilityID  string `json:"capabilityId"`
	LensID        string `json:"lensId"`
	Answer        string `json:"answer"`
	AnswerDetails string `json:"answerDetails"`
}

// Submission is the stored response plus the full evaluation behind its
// score.
type Submission struct {
	Response   models.Response  `json:"response"`
	Evaluation evaluator.Result `json:"evaluation"`
}

type Completion struct {
	Assessment         models.Assessment  `json:"assessment"`
	Report             models.ScoreReport `json:"report"`
	WeightedPercentage float64            `json:"weightedPercentage"`
	Recommendations    string             `json:"recommendations"`
}

func (s *AssessmentService) StartAssessment(ctx context.Context, req StartRequest) (*models.Assessment, error) {
	if _, err := identity.ValidateCorporateEmail(req.Email); err != nil {
		return nil, err
	}
	orgHash, err := identity.OrgHash(req.Email)
	if err != nil {
		return nil, err
	}

	a := &models.Assessment{
		OrgHash:  orgHash,
		UserHash: identity.UserHash(req.Email),
	}

	switch scope := strings.ToLower(strings.TrimSpace(req.Scope)); {
	case scope == string(models.ScopeComplete):
		a.Scope = models.ScopeComplete
	case scope == string(models.ScopeDomain), scope == "" && strings.TrimSpace(req.Domain) != "":
		domain, err := s.catalog.ParseDomain(req.Domain)
		if err != nil {
			return nil, err
		}
		a.Scope = models.ScopeDomain
		a.Domain = domain
	default:
		return nil, apperrors.NewInvalidScopeError(fmt.Sprintf("scope must be %q or %q", models.ScopeComplete, models.ScopeDomain))
	}

	if tech := strings.TrimSpace(req.TechnologyScope); tech != "" {
		if _, ok := s.catalog.Scope(tech); !ok {
			return nil, apperrors.NewInvalidScopeError(fmt.Sprintf("unknown technology scope %q", tech))
		}
		a.TechnologyScope = tech
	}

	if err := s.store.CreateAssessment(ctx, a); err != nil {
		return nil, err
	}
	metrics.AssessmentsStarted.Inc()

	s.logger.Info("assessment started", map[string]interface{}{
		"assessmentId": a.ID,
		"scope":        a.ScopeLabel(),
	})
	return a, nil
}

// SubmitResponse validates and scores one answer, then upserts it. Nothing
// is written when validation fails.
func (s *AssessmentService) SubmitResponse(ctx context.Context, req SubmitRequest) (*Submission, error) {
	capabilityID, err := s.catalog.ParseCapabilityID(req.CapabilityID)
	if err != nil {
		return nil, err
	}
	lensID, err := s.catalog.ParseLensID(req.LensID)
	if err != nil {
		return nil, err
	}
	level, err := s.catalog.ParseAnswerLevel(req.Answer)
	if err != nil {
		return nil, err
	}
	capability, _ := s.catalog.Capability(capabilityID)
	lens, _ := s.catalog.Lens(lensID)

	a, err := s.store.GetAssessment(ctx, req.AssessmentID)
	if err != nil {
		return nil, err
	}
	if a.IsCompleted() {
		return nil, apperrors.NewAssessmentCompletedError(a.ID)
	}
	if !a.Covers(capability.Domain) {
		return nil, apperrors.NewCapabilityOutOfScopeError(string(capabilityID), string(a.Domain))
	}

	result := s.evaluator.Evaluate(ctx, evaluator.Request{
		Capability:    capability,
		Lens:          lens,
		AnswerLevel:   level,
		AnswerDetails: strings.TrimSpace(req.AnswerDetails),
	})

	r := models.Response{
		AssessmentID:  a.ID,
		CapabilityID:  capabilityID,
		LensID:        lensID,
		AnswerLevel:   level,
		AnswerDetails: strings.TrimSpace(req.AnswerDetails),
		Score:         result.Score,
		Improvement:   result.Improvement,
	}
	if err := s.store.UpsertResponse(ctx, &r); err != nil {
		return nil, err
	}
	metrics.ResponsesSubmitted.WithLabelValues(string(lensID)).Inc()

	return &Submission{Response: r, Evaluation: result}, nil
}

// CompleteAssessment scores the stored responses, generates
// recommendations and finalizes the assessment. An assessment with no
// responses completes at 0%.
func (s *AssessmentService) CompleteAssessment(ctx context.Context, assessmentID string) (*Completion, error) {
	a, err := s.store.GetAssessment(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	if a.IsCompleted() {
		return nil, apperrors.NewAssessmentCompletedError(a.ID)
	}

	responses, err := s.store.ListResponses(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	report := s.engine.Score(responses)
	weighted := scoring.WeightedPercentage(report)

	text := s.recs.Generate(ctx, recommendations.Input{
		AssessmentID:      a.ID,
		Scope:             a.ScopeLabel(),
		Domain:            a.DomainLabel(),
		OverallPercentage: report.OverallPercentage,
		Responses:         responses,
	})

	if err := s.store.CompleteAssessment(ctx, a.ID, report.OverallPercentage, text); err != nil {
		return nil, err
	}
	overall := report.OverallPercentage
	a.Status = models.StatusCompleted
	a.OverallPercentage = &overall
	a.Recommendations = &text
	metrics.AssessmentsCompleted.WithLabelValues(string(a.Scope)).Inc()

	for _, domain := range s.domainsOf(a) {
		if err := s.cache.InvalidateDomain(ctx, domain); err != nil {
			s.logger.Warn("benchmark cache invalidation failed", map[string]interface{}{
				"domain": domain,
				"error":  err.Error(),
			})
		}
	}
	if err := s.indexer.Index(ctx, store.NewResultDocument(*a, report, weighted)); err != nil {
		s.logger.Warn("result indexing failed", map[string]interface{}{
			"assessmentId": a.ID,
			"error":        err.Error(),
		})
	}

	s.logger.Info("assessment completed", map[string]interface{}{
		"assessmentId":      a.ID,
		"overallPercentage": overall,
		"responses":         report.ResponseCount,
		"skipped":           len(report.Skipped),
	})

	return &Completion{
		Assessment:         *a,
		Report:             report,
		WeightedPercentage: weighted,
		Recommendations:    text,
	}, nil
}

// Progress lists every in-scope question with its answer state.
func (s *AssessmentService) Progress(ctx context.Context, assessmentID string) (*models.Progress, error) {
	a, err := s.store.GetAssessment(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	responses, err := s.store.ListResponses(ctx, a.ID)
	if err != nil {
		return nil, err
	}

	type key struct {
		capability catalog.CapabilityID
		lens       catalog.LensID
	}
	answered := make(map[key]models.Response, len(responses))
	for _, r := range responses {
		answered[key{r.CapabilityID, r.LensID}] = r
	}

	p := &models.Progress{
		AssessmentID: a.ID,
		Scope:        a.ScopeLabel(),
		Status:       a.Status,
		Questions:    []models.ProgressItem{},
	}
	levels := s.catalog.AnswerLevels()
	for _, domain := range s.domainsOf(a) {
		for _, q := range s.catalog.QuestionsFor(domain) {
			capability, _ := s.catalog.Capability(q.Capability)
			lens, _ := s.catalog.Lens(q.Lens)
			item := models.ProgressItem{
				CapabilityID:   q.Capability,
				CapabilityName: capability.Name,
				LensID:         q.Lens,
				LensName:       lens.Name,
				Domain:         capability.Domain,
				Question:       q.Text(),
				AnswerOptions:  levels,
			}
			if r, ok := answered[key{q.Capability, q.Lens}]; ok {
				score := r.Score
				item.Answered = true
				item.Answer = r.AnswerLevel
				item.Score = &score
				p.AnsweredQuestions++
			}
			p.Questions = append(p.Questions, item)
		}
	}
	p.TotalQuestions = len(p.Questions)
	return p, nil
}
