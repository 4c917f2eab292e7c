// internal/workers/assessment/generate-recommendations/handler.go
package generaterecommendations

import (
	"context"
	"encoding/json"
	"fmt"

	"finops-assessment/internal/common/camunda"
	apperrors "finops-assessment/internal/common/errors"
	"finops-assessment/internal/common/logger"
	"finops-assessment/internal/common/observability"
	"finops-assessment/internal/models"
	"finops-assessment/internal/recommendations"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "assessment.generate-recommendations"
)

type Service interface {
	RegenerateRecommendations(ctx context.Context, assessmentID string, force bool) (string, error)
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

// Execute never fails on an oracle outage; the sentinel is returned and the
// process can retry later.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	text, err := h.service.RegenerateRecommendations(ctx, input.AssessmentID, input.Force)
	if err != nil {
		return nil, err
	}

	available := !recommendations.IsAbsent(text)
	if !available {
		h.logger.Warn("recommendations unavailable", map[string]interface{}{
			"assessmentId": input.AssessmentID,
		})
	}

	parsed := recommendations.Parse(text)
	if parsed == nil {
		parsed = []models.Recommendation{}
	}
	return &Output{
		AssessmentID:          input.AssessmentID,
		Recommendations:       text,
		ParsedRecommendations: parsed,
		Available:             available,
	}, nil
}
