// internal/workers/assessment/start-assessment/handler.go
package startassessment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"finops-assessment/internal/catalog"
	"finops-assessment/internal/common/camunda"
	apperrors "finops-assessment/internal/common/errors"
	"finops-assessment/internal/common/logger"
	"finops-assessment/internal/common/observability"
	"finops-assessment/internal/models"
	"finops-assessment/internal/service"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "assessment.start"
)

// Service is the part of the assessment service this worker needs.
type Service interface {
	StartAssessment(ctx context.Context, req service.StartRequest) (*models.Assessment, error)
	Catalog() *catalog.Catalog
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
	a, err := h.service.StartAssessment(ctx, service.StartRequest{
		Email:           input.Email,
		Scope:           input.Scope,
		Domain:          input.Domain,
		TechnologyScope: input.TechnologyScope,
	})
	if err != nil {
		return nil, err
	}

	h.logger.Info("assessment started", map[string]interface{}{
		"assessmentId": a.ID,
		"scope":        a.ScopeLabel(),
	})

	return &Output{
		AssessmentID:   a.ID,
		Scope:          string(a.Scope),
		Domain:         string(a.Domain),
		Status:         string(a.Status),
		TotalQuestions: questionCount(h.service.Catalog(), a),
		CreatedAt:      a.CreatedAt.UTC().Format(time.RFC3339),
	}, nil
}

func questionCount(c *catalog.Catalog, a *models.Assessment) int {
	n := 0
	for _, d := range c.Domains() {
		if a.Covers(d) {
			n += len(c.QuestionsFor(d))
		}
	}
	return n
}
