// internal/workers/assessment/generate-recommendations/models.go
package generaterecommendations

import (
	"finops-assessment/internal/common/validation"
	"finops-assessment/internal/models"
)

// Input regenerates one assessment's recommendations. Force replaces text
// that is already present.
type Input struct {
	AssessmentID string `json:"assessmentId"`
	Force        bool   `json:"force,omitempty"`
}

type Output struct {
	AssessmentID          string                  `json:"assessmentId"`
	Recommendations       string                  `json:"recommendations"`
	ParsedRecommendations []models.Recommendation `json:"parsedRecommendations"`
	Available             bool                    `json:"recommendationsAvailable"`
}

var inputSchema = validation.MustCompile(TaskType, `{
	"type": "object",
	"required": ["assessmentId"],
	"properties": {
		"assessmentId": {"type": "string", "minLength": 1},
		"force": {"type": "boolean"}
	}
}`)
