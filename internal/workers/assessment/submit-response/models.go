// internal/workers/assessment/submit-response/models.go
package submitresponse

import "finops-assessment/internal/common/validation"

type Input struct {
	AssessmentID  string `json:"assessmentId"`
	CapabilityID  string `json:"capabilityId"`
	LensID        string `json:"lensId"`
	Answer        string `json:"answer"`
	AnswerDetails string `json:"answerDetails,omitempty"`
}

type Output struct {
	AssessmentID string   `json:"assessmentId"`
	CapabilityID string   `json:"capabilityId"`
	LensID       string   `json:"lensId"`
	Score        int      `json:"score"`
	Improvement  string   `json:"improvement"`
	Maturity     string   `json:"maturity"`
	Confidence   string   `json:"confidence"`
	Suggestions  []string `json:"suggestions,omitempty"`
	ScoreSource  string   `json:"scoreSource"`
}

var inputSchema = validation.MustCompile(TaskType, `{
	"type": "object",
	"required": ["assessmentId", "capabilityId", "lensId", "answer"],
	"properties": {
		"assessmentId": {"type": "string", "minLength": 1},
		"capabilityId": {"type": "string", "minLength": 1, "maxLength": 64},
		"lensId": {"type": "string", "minLength": 1, "maxLength": 32},
		"answer": {"type": "string", "minLength": 1, "maxLength": 16},
		"answerDetails": {"type": "string", "maxLength": 4000}
	}
}`)
