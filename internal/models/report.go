// internal/models/report.go
package models

import (
	"time"

	"finops-assessment/internal/catalog"
)

type LensScore struct {
	Total      int     `json:"total"`
	Count      int     `json:"count"`
	Percentage int     `json:"percentage"`
	Weight     int     `json:"weight"`
	Weighted   float64 `json:"weighted"`
}

type DomainScore struct {
	Total      int `json:"total"`
	Count      int `json:"count"`
	Percentage int `json:"percentage"`
}

// SkippedResponse records a stored row the scoring engine could not place in
// the current catalog.
type SkippedResponse struct {
	CapabilityID catalog.CapabilityID `json:"capabilityId"`
	LensID       catalog.LensID       `json:"lensId"`
	Reason       string               `json:"reason"`
}

type ScoreReport struct {
	TotalScore        int                                `json:"totalScore"`
	TotalPossible     int                                `json:"totalPossible"`
	ResponseCount     int                                `json:"responseCount"`
	OverallPercentage int                                `json:"overallPercentage"`
	LensScores        map[catalog.LensID]LensScore       `json:"lensScores"`
	DomainScores      map[catalog.DomainName]DomainScore `json:"domainScores"`
	Skipped           []SkippedResponse                  `json:"skipped,omitempty"`
}

type BenchmarkPoint struct {
	Label      string  `json:"label"`
	Percentage float64 `json:"percentage"`
}

// Benchmark compares a domain against other organizations. PeerAverage is
// nil when no peer qualifies.
type Benchmark struct {
	Domain        catalog.DomainName `json:"domain"`
	PeerAverage   *float64           `json:"peerAverage"`
	PeerCount     int                `json:"peerCount"`
	Series        []BenchmarkPoint   `json:"anonymizedSeries"`
	OwnPercentage *float64           `json:"ownPercentage,omitempty"`
	GeneratedAt   time.Time          `json:"generatedAt"`
}

type Recommendation struct {
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	WhyImportant   string `json:"whyImportant,omitempty"`
	Recommendation string `json:"recommendation,omitempty"`
}

// Results is everything a consumer needs to render a finished assessment.
type Results struct {
	Assessment      Assessment       `json:"assessment"`
	Report          ScoreReport      `json:"report"`
	Responses       []Response       `json:"responses"`
	Recommendations string           `json:"recommendations"`
	Parsed          []Recommendation `json:"parsedRecommendations"`
	Benchmarks      []Benchmark      `json:"benchmarks"`
}
