// internal/workers/assessment/get-results/handler.go
package getresults

import (
	"context"
	"encoding/json"
	"fmt"

	"finops-assessment/internal/common/camunda"
	apperrors "finops-assessment/internal/common/errors"
	"finops-assessment/internal/common/logger"
	"finops-assessment/internal/common/observability"
	"finops-assessment/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "assessment.get-results"
)

type Service interface {
	GetResults(ctx context.Context, assessmentID string) (*models.Results, error)
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

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	results, err := h.service.GetResults(ctx, input.AssessmentID)
	if err != nil {
		return nil, err
	}

	domains := make(map[string]int, len(results.Report.DomainScores))
	for domain, score := range results.Report.DomainScores {
		domains[string(domain)] = score.Percentage
	}
	parsed := results.Parsed
	if parsed == nil {
		parsed = []models.Recommendation{}
	}

	return &Output{
		AssessmentID:          results.Assessment.ID,
		Scope:                 results.Assessment.ScopeLabel(),
		OverallPercentage:     results.Report.OverallPercentage,
		DomainPercentages:     domains,
		Recommendations:       results.Recommendations,
		ParsedRecommendations: parsed,
		Benchmarks:            results.Benchmarks,
	}, nil
}
