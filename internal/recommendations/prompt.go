// internal/recommendations/prompt.go
package recommendations

import (
	"fmt"
	"sort"
	"strings"

	"finops-assessment/internal/catalog"
	"finops-assessment/internal/models"
)

const (
	// MaxTargets is how many of the lowest-scoring answers are sent to the oracle.
	MaxTargets = 5

	excerptRunes          = 150
	noImprovementFallback = "No suggestions available"
)

// Target is one low-scoring (capability, lens) pair the recommendations
// should focus on.
type Target struct {
	CapabilityID   catalog.CapabilityID
	CapabilityName string
	LensID         catalog.LensID
	LensName       string
	Score          int
	Answer         string
	Improvement    string
}

// LowestTargets orders responses by ascending score (ties by capability then
// lens) and returns at most MaxTargets of them. Ids missing from the catalog
// are shown as-is.
func LowestTargets(c *catalog.Catalog, responses []models.Response) []Target {
	targets := make([]Target, 0, len(responses))
	for _, r := range responses {
		if r.CapabilityID == "" || r.LensID == "" {
			continue
		}
		t := Target{
			CapabilityID:   r.CapabilityID,
			CapabilityName: string(r.CapabilityID),
			LensID:         r.LensID,
			LensName:       string(r.LensID),
			Score:          r.Score,
			Answer:         answerText(r),
			Improvement:    r.Improvement,
		}
		if capability, ok := c.Capability(r.CapabilityID); ok {
			t.CapabilityName = capability.Name
		}
		if lens, ok := c.Lens(r.LensID); ok {
			t.LensName = lens.Name
		}
		if strings.TrimSpace(t.Improvement) == "" {
			t.Improvement = noImprovementFallback
		}
		targets = append(targets, t)
	}

	sort.SliceStable(targets, func(i, j int) bool {
		if targets[i].Score != targets[j].Score {
			return targets[i].Score < targets[j].Score
		}
		if targets[i].CapabilityID != targets[j].CapabilityID {
			return targets[i].CapabilityID < targets[j].CapabilityID
		}
		return targets[i].LensID < targets[j].LensID
	})

	if len(targets) > MaxTargets {
		targets = targets[:MaxTargets]
	}
	return targets
}

func answerText(r models.Response) string {
	answer := string(r.AnswerLevel)
	if d := strings.TrimSpace(r.AnswerDetails); d != "" {
		answer += " - " + d
	}
	return answer
}

// SystemPrompt pins the output format for n recommendations.
func SystemPrompt(n int) string {
	return fmt.Sprintf("You are a FinOps expert. You must output EXACTLY %d recommendations in the specified format. "+
		"Each recommendation must have: Title:, Description:, Why it is important:, and Recommendation:. "+
		"Do NOT include any extra text, headers, explanations, or numbering. "+
		"Only output the required fields in the exact order. Focus on the lowest scoring areas.", n)
}

const blockTemplate = `Title: [Title of Recommendation]
Description: [Brief description of the recommendation]
Why it is important: [Explanation of why this matters for FinOps maturity]
Recommendation: [Specific actionable steps to implement]`

// BuildPrompt renders the user prompt: format contract, assessment summary
// and the lowest-scoring areas with truncated excerpts.
func BuildPrompt(scopeLabel string, domain string, overallPercentage int, targets []Target) string {
	var b strings.Builder
	n := len(targets)

	fmt.Fprintf(&b, "You are a FinOps expert. Based on the user's lowest scoring areas below, provide exactly %d concise, "+
		"actionable recommendations for FinOps maturity improvement. Focus on the areas with the lowest scores.\n\n", n)
	b.WriteString("CRITICAL: You must output ONLY the recommendations in this EXACT format, with NO extra text, headers, or explanations:\n\n")
	b.WriteString(blockTemplate)
	b.WriteString("\n\n")
	b.WriteString(blockTemplate)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Continue this format for all %d recommendations. Do NOT include any introduction, summary, section headers, "+
		"or extra text. Do NOT number the recommendations. Do NOT use any other labels or formatting.\n\n", n)

	b.WriteString("Assessment Summary:\n")
	fmt.Fprintf(&b, "- Scope: %s\n", scopeLabel)
	fmt.Fprintf(&b, "- Overall Score: %d%%\n", overallPercentage)
	fmt.Fprintf(&b, "- Domain: %s\n", domain)

	b.WriteString("\nLowest Scoring Areas (Focus for Recommendations):\n")
	for _, t := range targets {
		fmt.Fprintf(&b, "- %s (%s): Score %d/%d\n", t.CapabilityName, t.LensName, t.Score, catalog.MaxScore)
		fmt.Fprintf(&b, "  Answer: %s\n", Excerpt(t.Answer))
		fmt.Fprintf(&b, "  Current Improvement: %s\n\n", Excerpt(t.Improvement))
	}
	return b.String()
}

// Excerpt truncates s to 150 runes, marking truncation with "...".
func Excerpt(s string) string {
	runes := []rune(s)
	if len(runes) <= excerptRunes {
		return s
	}
	return string(runes[:excerptRunes]) + "..."
}
