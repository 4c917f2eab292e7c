// internal/workers/assessment/complete-assessment/models.go
package completeassessment

import "finops-assessment/internal/common/validation"

type Input struct {
	AssessmentID string `json:"assessmentId"`
}

type Output struct {
	AssessmentID             string         `json:"assessmentId"`
	Status                   string         `json:"status"`
	OverallPercentage        int            `json:"overallPercentage"`
	WeightedPercentage       float64        `json:"weightedPercentage"`
	ResponseCount            int            `json:"responseCount"`
	LensPercentages          map[string]int `json:"lensPercentages"`
	DomainPercentages        map[string]int `json:"domainPercentages"`
	RecommendationsAvailable bool           `json:"recommendationsAvailable"`
}

var inputSchema = validation.MustCompile(TaskType, `{
	"type": "object",
	"required": ["assessmentId"],
	"properties": {
		"assessmentId": {"type": "string", "minLength": 1}
	}
}`)
