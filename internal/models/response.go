// internal/models/response.go
package models

import (
	"time"

	"finops-assessment/internal/catalog"
)

// Response is the single answer to one (capability, lens) question of an
// assessment.
type Response struct {
	AssessmentID  string               `json:"assessmentId"`
	CapabilityID  catalog.CapabilityID `json:"capabilityId"`
	LensID        catalog.LensID       `json:"lensId"`
	AnswerLevel   catalog.AnswerLevel  `json:"answer"`
	AnswerDetails string               `json:"answerDetails,omitempty"`
	Score         int                  `json:"score"`
	Improvement   string               `json:"improvement"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

// ProgressItem is one question of an assessment with its answer state.
type ProgressItem struct {
	CapabilityID   catalog.CapabilityID  `json:"capabilityId"`
	CapabilityName string                `json:"capabilityName"`
	LensID         catalog.LensID        `json:"lensId"`
	LensName       string                `json:"lensName"`
	Domain         catalog.DomainName    `json:"domain"`
	Question       string                `json:"question"`
	AnswerOptions  []catalog.AnswerLevel `json:"answerOptions"`
	Answered       bool                  `json:"answered"`
	Answer         catalog.AnswerLevel   `json:"answer,omitempty"`
	Score          *int                  `json:"score,omitempty"`
}

type Progress struct {
	AssessmentID      string           `json:"assessmentId"`
	Scope             string           `json:"scope"`
	Status            AssessmentStatus `json:"status"`
	Questions         []ProgressItem   `json:"questions"`
	TotalQuestions    int              `json:"totalQuestions"`
	AnsweredQuestions int              `json:"answeredQuestions"`
}
