// internal/workers/assessment/submit-response/handler_test.go
package submitresponse

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"finops-assessment/internal/catalog"
	apperrors "finops-assessment/internal/common/errors"
	"finops-assessment/internal/common/logger"
	"finops-assessment/internal/evaluator"
	"finops-assessment/internal/models"
	"finops-assessment/internal/service"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) SubmitResponse(ctx context.Context, req service.SubmitRequest) (*service.Submission, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Submission), args.Error(1)
}

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               TaskType,
		ProcessInstanceKey: key * 10,
		BpmnProcessId:      "finops-assessment",
		ElementId:          "Activity_SubmitResponse",
		CustomHeaders:      "{}",
		Worker:             "test-worker",
		Retries:            3,
		Variables:          string(variablesJSON),
	}}
}

func validVariables() map[string]interface{} {
	return map[string]interface{}{
		"assessmentId": "6f1c2d3e-4b5a-4c6d-8e9f-0a1b2c3d4e5f",
		"capabilityId": "allocation",
		"lensId":       "process",
		"answer":       "61-80%",
	}
}

func TestParseInput(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		vars := validVariables()
		vars["answerDetails"] = "Tags enforced by policy in most accounts"
		input, err := parseInput([]byte(createMockJob(1, vars).GetVariables()))
		require.NoError(t, err)
		assert.Equal(t, "allocation", input.CapabilityID)
		assert.Equal(t, "Tags enforced by policy in most accounts", input.AnswerDetails)
	})

	for _, field := range []string{"assessmentId", "capabilityId", "lensId", "answer"} {
		t.Run("missing "+field, func(t *testing.T) {
			vars := validVariables()
			delete(vars, field)
			_, err := parseInput([]byte(createMockJob(1, vars).GetVariables()))
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeValidationFailed))
			assert.Contains(t, err.Error(), field)
		})
	}

	t.Run("not JSON", func(t *testing.T) {
		_, err := parseInput([]byte("{"))
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeValidationFailed))
	})
}

func TestHandler_Execute(t *testing.T) {
	h := func(svc Service) *Handler {
		return NewHandler(&Config{Timeout: time.Second}, svc, logger.NewTestLogger(t), nil)
	}

	t.Run("maps the evaluation", func(t *testing.T) {
		svc := new(MockService)
		svc.On("SubmitResponse", mock.Anything, mock.MatchedBy(func(r service.SubmitRequest) bool {
			return r.CapabilityID == "allocation" && r.Answer == "61-80%"
		})).Return(&service.Submission{
			Response: models.Response{
				AssessmentID: "a-1",
				CapabilityID: "allocation",
				LensID:       catalog.LensProcess,
				AnswerLevel:  catalog.Level61To80,
				Score:        3,
				Improvement:  "Automate allocation rules",
			},
			Evaluation: evaluator.Result{
				Score:      3,
				Maturity:   evaluator.MaturityLevel{Name: "Fly"},
				Confidence: "medium",
				Source:     evaluator.SourceHeuristic,
			},
		}, nil)

		out, err := h(svc).Execute(context.Background(), &Input{
			AssessmentID: "a-1",
			CapabilityID: "allocation",
			LensID:       "process",
			Answer:       "61-80%",
		})
		require.NoError(t, err)
		assert.Equal(t, 3, out.Score)
		assert.Equal(t, "process", out.LensID)
		assert.Equal(t, "Fly", out.Maturity)
		assert.Equal(t, evaluator.SourceHeuristic, out.ScoreSource)
		svc.AssertExpectations(t)
	})

	t.Run("completed assessment", func(t *testing.T) {
		svc := new(MockService)
		svc.On("SubmitResponse", mock.Anything, mock.Anything).
			Return(nil, apperrors.NewAssessmentCompletedError("a-1"))

		_, err := h(svc).Execute(context.Background(), &Input{AssessmentID: "a-1"})
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeAssessmentCompleted))
	})
}
