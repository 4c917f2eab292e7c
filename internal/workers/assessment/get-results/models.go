// internal/workers/assessment/get-results/models.go
package getresults

import (
	"finops-assessment/internal/common/validation"
	"finops-assessment/internal/models"
)

type Input struct {
	AssessmentID string `json:"assessmentId"`
}

type Output struct {
	AssessmentID          string                  `json:"assessmentId"`
	Scope                 string                  `json:"scope"`
	OverallPercentage     int                     `json:"overallPercentage"`
	DomainPercentages     map[string]int          `json:"domainPercentages"`
	Recommendations       string                  `json:"recommendations"`
	ParsedRecommendations []models.Recommendation `json:"parsedRecommendations"`
	Benchmarks            []models.Benchmark      `json:"benchmarks"`
}

var inputSchema = validation.MustCompile(TaskType, `{
	"type": "object",
	"required": ["assessmentId"],
	"properties": {
		"assessmentId": {"type": "string", "minLength": 1}
	}
}`)
