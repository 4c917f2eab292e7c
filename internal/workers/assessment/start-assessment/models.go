// internal/workers/assessment/start-assessment/models.go
package startassessment

import "finops-assessment/internal/common/validation"

type Input struct {
	Email           string `json:"email"`
	Scope           string `json:"scope"`
	Domain          string `json:"domain,omitempty"`
	TechnologyScope string `json:"technologyScope,omitempty"`
}

type Output struct {
	AssessmentID   string `json:"assessmentId"`
	Scope          string `json:"scope"`
	Domain         string `json:"domain,omitempty"`
	Status         string `json:"status"`
	TotalQuestions int    `json:"totalQuestions"`
	CreatedAt      string `json:"createdAt"` // ISO 8601
}

var inputSchema = validation.MustCompile(TaskType, `{
	"type": "object",
	"required": ["email"],
	"properties": {
		"email": {"type": "string", "minLength": 3, "maxLength": 320},
		"scope": {"type": "string", "enum": ["", "complete", "domain"]},
		"domain": {"type": "string", "maxLength": 100},
		"technologyScope": {"type": "string", "maxLength": 50}
	}
}`)
