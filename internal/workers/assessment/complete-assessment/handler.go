// internal/workers/assessment/complete-assessment/handler.go
package completeassessment

import (
	"context"
	"encoding/json"
	"fmt"

	"finops-assessment/internal/common/camunda"
	apperrors "finops-assessment/internal/common/errors"
	"finops-assessment/internal/common/logger"
	"finops-assessment/internal/common/observability"
	"finops-assessment/internal/recommendations"
	"finops-assessment/internal/service"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "assessment.complete"
)

type Service interface {
	CompleteAssessment(ctx context.Context, assessmentID string) (*service.Completion, error)
}

type Handler struct {
	config  *Config
	service Service
	runner  *camunda.JobRunner
	logger  logger.Logger
}

func NewHandler(config *Config, svc Service, log logger.Logger, otel *observability.Metrics) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:  config,
		service: svc,
		runner:  camunda.NewJobRunner(TaskType, config.Timeout, log, otel),
		logger:  log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.runner.Run(client, job, func(ctx context.Context, variables []byte) (interface{}, error) {
		input, err := parseInput(variables)
		if err != nil {
			return nil, err
		}
		return h.Execute(ctx, input)
	})
}

func parseInput(variables []byte) (*Input, error) {
	if err := inputSchema.ValidateJSON(variables); err != nil {
		return nil, err
	}
	var input Input
	if err := json.Unmarshal(variables, &input); err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("parse input: %v", err))
	}
	return &input, nil
}

// Execute scores and closes the assessment. The recommendation text stays
// in the database; only its availability travels as a process variable.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	done, err := h.service.CompleteAssessment(ctx, input.AssessmentID)
	if err != nil {
		return nil, err
	}

	report := done.Report
	out := &Output{
		AssessmentID:             done.Assessment.ID,
		Status:                   string(done.Assessment.Status),
		OverallPercentage:        report.OverallPercentage,
		WeightedPercentage:       done.WeightedPercentage,
		ResponseCount:            report.ResponseCount,
		LensPercentages:          make(map[string]int, len(report.LensScores)),
		DomainPercentages:        make(map[string]int, len(report.DomainScores)),
		RecommendationsAvailable: !recommendations.IsAbsent(done.Recommendations),
	}
	for lens, score := range report.LensScores {
		out.LensPercentages[string(lens)] = score.Percentage
	}
	for domain, score := range report.DomainScores {
		out.DomainPercentages[string(domain)] = score.Percentage
	}

	h.logger.Info("assessment completed", map[string]interface{}{
		"assessmentId":      out.AssessmentID,
		"overallPercentage": out.OverallPercentage,
		"responses":         out.ResponseCount,
	})
	return out, nil
}
