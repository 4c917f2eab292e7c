// internal/workers/assessment/compute-benchmark/handler.go
package computebenchmark

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
	TaskType = "assessment.compute-benchmark"
)

type Service interface {
	BenchmarkFor(ctx context.Context, rawDomain, assessmentID string) (*models.Benchmark, error)
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
	b, err := h.service.BenchmarkFor(ctx, input.Domain, input.AssessmentID)
	if err != nil {
		return nil, err
	}
	h.logger.Debug("benchmark computed", map[string]interface{}{
		"domain":    b.Domain,
		"peerCount": b.PeerCount,
	})
	return &Output{Benchmark: *b}, nil
}
