// internal/workers/assessment/generate-recommendations/handler_test.go
package generaterecommendations

import (
	"context"
	"testing"
	"time"

	apperrors "finops-assessment/internal/common/errors"
	"finops-assessment/internal/common/logger"
	"finops-assessment/internal/recommendations"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const recommendationText = `Title: Automate tag compliance
Description: Tags are applied by hand.
Why it is important: Unallocated spend hides owners.
Recommendation: Enforce tags in the deployment pipeline.`

type MockService struct {
	mock.Mock
}

func (m *MockService) RegenerateRecommendations(ctx context.Context, assessmentID string, force bool) (string, error) {
	args := m.Called(ctx, assessmentID, force)
	return args.String(0), args.Error(1)
}

func newTestHandler(t *testing.T, svc Service) *Handler {
	return NewHandler(&Config{Timeout: time.Second}, svc, logger.NewTestLogger(t), nil)
}

func TestParseInput(t *testing.T) {
	input, err := parseInput([]byte(`{"assessmentId":"a-1","force":true}`))
	require.NoError(t, err)
	assert.True(t, input.Force)

	_, err = parseInput([]byte(`{"assessmentId":"a-1","force":"yes"}`))
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeValidationFailed))
}

func TestHandler_Execute(t *testing.T) {
	t.Run("parses generated text", func(t *testing.T) {
		svc := new(MockService)
		svc.On("RegenerateRecommendations", mock.Anything, "a-1", true).Return(recommendationText, nil)

		out, err := newTestHandler(t, svc).Execute(context.Background(), &Input{AssessmentID: "a-1", Force: true})
		require.NoError(t, err)
		assert.True(t, out.Available)
		require.Len(t, out.ParsedRecommendations, 1)
		assert.Equal(t, "Automate tag compliance", out.ParsedRecommendations[0].Title)
	})

	t.Run("sentinel is not an error", func(t *testing.T) {
		svc := new(MockService)
		svc.On("RegenerateRecommendations", mock.Anything, "a-1", false).Return(recommendations.Sentinel, nil)

		out, err := newTestHandler(t, svc).Execute(context.Background(), &Input{AssessmentID: "a-1"})
		require.NoError(t, err)
		assert.False(t, out.Available)
		assert.Equal(t, recommendations.Sentinel, out.Recommendations)
		assert.Empty(t, out.ParsedRecommendations)
	})

	t.Run("unknown assessment", func(t *testing.T) {
		svc := new(MockService)
		svc.On("RegenerateRecommendations", mock.Anything, "missing", false).
			Return("", apperrors.NewAssessmentNotFoundError("missing"))

		_, err := newTestHandler(t, svc).Execute(context.Background(), &Input{AssessmentID: "missing"})
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeAssessmentNotFound))
	})
}
