// internal/workers/assessment/complete-assessment/handler_test.go
package completeassessment

import (
	"context"
	"testing"
	"time"

	"finops-assessment/internal/catalog"
	apperrors "finops-assessment/internal/common/errors"
	"finops-assessment/internal/common/logger"
	"finops-assessment/internal/models"
	"finops-assessment/internal/recommendations"
	"finops-assessment/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) CompleteAssessment(ctx context.Context, assessmentID string) (*service.Completion, error) {
	args := m.Called(ctx, assessmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Completion), args.Error(1)
}

func newTestHandler(t *testing.T, svc Service) *Handler {
	return NewHandler(&Config{Timeout: time.Second}, svc, logger.NewTestLogger(t), nil)
}

func completion(recs string) *service.Completion {
	return &service.Completion{
		Assessment: models.Assessment{ID: "a-1", Status: models.StatusCompleted},
		Report: models.ScoreReport{
			ResponseCount:     2,
			OverallPercentage: 75,
			LensScores: map[catalog.LensID]models.LensScore{
				catalog.LensKnowledge: {Total: 6, Count: 2, Percentage: 75, Weight: 25},
			},
			DomainScores: map[catalog.DomainName]models.DomainScore{
				catalog.DomainUnderstandUsageCost: {Total: 6, Count: 2, Percentage: 75},
			},
		},
		WeightedPercentage: 18.75,
		Recommendations:    recs,
	}
}

func TestParseInput(t *testing.T) {
	input, err := parseInput([]byte(`{"assessmentId":"a-1","extra":true}`))
	require.NoError(t, err)
	assert.Equal(t, "a-1", input.AssessmentID)

	_, err = parseInput([]byte(`{"assessmentId":""}`))
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeValidationFailed))
}

func TestHandler_Execute(t *testing.T) {
	t.Run("flattens the report", func(t *testing.T) {
		svc := new(MockService)
		svc.On("CompleteAssessment", mock.Anything, "a-1").Return(completion("Title: Tag everything"), nil)

		out, err := newTestHandler(t, svc).Execute(context.Background(), &Input{AssessmentID: "a-1"})
		require.NoError(t, err)
		assert.Equal(t, "completed", out.Status)
		assert.Equal(t, 75, out.OverallPercentage)
		assert.Equal(t, 18.75, out.WeightedPercentage)
		assert.Equal(t, map[string]int{"knowledge": 75}, out.LensPercentages)
		assert.Equal(t, map[string]int{"Understand Usage & Cost": 75}, out.DomainPercentages)
		assert.True(t, out.RecommendationsAvailable)
	})

	t.Run("sentinel means unavailable", func(t *testing.T) {
		svc := new(MockService)
		svc.On("CompleteAssessment", mock.Anything, "a-1").Return(completion(recommendations.Sentinel), nil)

		out, err := newTestHandler(t, svc).Execute(context.Background(), &Input{AssessmentID: "a-1"})
		require.NoError(t, err)
		assert.False(t, out.RecommendationsAvailable)
	})

	t.Run("already completed", func(t *testing.T) {
		svc := new(MockService)
		svc.On("CompleteAssessment", mock.Anything, "a-1").Return(nil, apperrors.NewAssessmentCompletedError("a-1"))

		_, err := newTestHandler(t, svc).Execute(context.Background(), &Input{AssessmentID: "a-1"})
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeAssessmentCompleted))
	})
}
