// internal/workers/assessment/submit-response/handler.go
package submitresponse

import (
	"context"
	"encoding/json"
	"fmt"

	"finops-assessment/internal/common/camunda"
	apperrors "finops-assessment/internal/common/errors"
	"finops-assessment/internal/common/logger"
	"finops-assessment/internal/common/observability"
	"finops-assessment/internal/service"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "assessment.submit-response"
)

type Service interface {
	SubmitResponse(ctx context.Context, req service.SubmitRequest) (*service.Submission, error)
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

// Execute stores one answer. Resubmitting the same question replaces the
// earlier answer.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	sub, err := h.service.SubmitResponse(ctx, service.SubmitRequest{
		AssessmentID:  input.AssessmentID,
		CapabilityID:  input.CapabilityID,
		LensID:        input.LensID,
		Answer:        input.Answer,
		AnswerDetails: input.AnswerDetails,
	})
	if err != nil {
		return nil, err
	}

	h.logger.Debug("response stored", map[string]interface{}{
		"assessmentId": input.AssessmentID,
		"capabilityId": input.CapabilityID,
		"lensId":       input.LensID,
		"score":        sub.Response.Score,
		"source":       sub.Evaluation.Source,
	})

	return &Output{
		AssessmentID: sub.Response.AssessmentID,
		CapabilityID: string(sub.Response.CapabilityID),
		LensID:       string(sub.Response.LensID),
		Score:        sub.Response.Score,
		Improvement:  sub.Response.Improvement,
		Maturity:     sub.Evaluation.Maturity.Name,
		Confidence:   sub.Evaluation.Confidence,
		Suggestions:  sub.Evaluation.Suggestions,
		ScoreSource:  sub.Evaluation.Source,
	}, nil
}
