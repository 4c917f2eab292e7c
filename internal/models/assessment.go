// internal/models/assessment.go
package models

import (
	"time"

	"finops-assessment/internal/catalog"
)

type AssessmentStatus string

const (
	StatusInProgress AssessmentStatus = "in_progress"
	StatusCompleted  AssessmentStatus = "completed"
)

// ScopeKind says whether an assessment covers the whole framework or one domain.
type ScopeKind string

const (
	ScopeComplete ScopeKind = "complete"
	ScopeDomain   ScopeKind = "domain"
)

// CompleteAssessmentLabel is the display label of a complete-scope assessment.
const CompleteAssessmentLabel = "Complete Assessment"

// AllDomainsLabel stands in for the domain of a complete-scope assessment.
const AllDomainsLabel = "All domains"

type Assessment struct {
	ID                string             `json:"id"`
	OrgHash           string             `json:"-"`
	UserHash          string             `json:"-"`
	Scope             ScopeKind          `json:"scope"`
	Domain            catalog.DomainName `json:"domain,omitempty"`
	TechnologyScope   string             `json:"technologyScope,omitempty"`
	Status            AssessmentStatus   `json:"status"`
	OverallPercentage *int               `json:"overallPercentage,omitempty"`
	Recommendations   *string            `json:"recommendations,omitempty"`
	CreatedAt         time.Time          `json:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt"`
}

func (a *Assessment) IsCompleted() bool {
	return a.Status == StatusCompleted
}

// Covers reports whether a domain's questions belong to this assessment.
func (a *Assessment) Covers(domain catalog.DomainName) bool {
	return a.Scope == ScopeComplete || a.Domain == domain
}

// ScopeLabel is the human readable scope: the domain name or
// "Complete Assessment".
func (a *Assessment) ScopeLabel() string {
	if a.Scope == ScopeComplete {
		return CompleteAssessmentLabel
	}
	return string(a.Domain)
}

func (a *Assessment) DomainLabel() string {
	if a.Scope == ScopeComplete || a.Domain == "" {
		return AllDomainsLabel
	}
	return string(a.Domain)
}
