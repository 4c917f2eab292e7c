// internal/evaluator/maturity.go
package evaluator

import (
	"fmt"

	"finops-assessment/internal/catalog"
)

// MaturityLevel describes one rung of the FinOps maturity ladder.
type MaturityLevel struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Characteristics []string `json:"characteristics"`
}

var maturityLevels = [catalog.MaxScore + 1]MaturityLevel{
	{
		Name:        "Crawl",
		Description: "No capability or awareness",
		Characteristics: []string{
			"No processes, tools, or understanding",
			"Ad-hoc activities with no formal structure",
			"No dedicated resources or ownership",
			"Reactive approach to cost management",
		},
	},
	{
		Name:        "Walk",
		Description: "Basic awareness and ad-hoc activities",
		Characteristics: []string{
			"Limited understanding and inconsistent execution",
			"Some basic tools but no formal processes",
			"Occasional activities without systematic approach",
			"Basic cost visibility with manual processes",
		},
	},
	{
		Name:        "Run",
		Description: "Some processes in place",
		Characteristics: []string{
			"Inconsistent execution with basic tools",
			"Partial understanding and occasional success",
			"Some formal processes but not consistently applied",
			"Regular cost reviews with some automation",
		},
	},
	{
		Name:        "Fly",
		Description: "Well-defined processes",
		Characteristics: []string{
			"Consistent execution with good tools",
			"Strong understanding and regular success",
			"Formal processes with clear ownership",
			"Proactive cost optimization with good visibility",
		},
	},
	{
		Name:        "Optimize",
		Description: "Optimized and automated",
		Characteristics: []string{
			"Continuous improvement with advanced tools",
			"Expert level understanding and consistent excellence",
			"Automated processes with predictive capabilities",
			"Strategic cost management with predictive analytics",
		},
	},
}

// Level returns the maturity level for an integer score, clamped to 0..4.
func Level(score int) MaturityLevel {
	score = clampInt(score, 0, catalog.MaxScore)
	lvl := maturityLevels[score]
	lvl.Characteristics = append([]string(nil), lvl.Characteristics...)
	return lvl
}

var tierSuggestions = [catalog.MaxScore + 1][]string{
	{
		"Establish basic awareness and understanding of FinOps principles",
		"Begin with simple cost visibility and basic reporting",
		"Identify key stakeholders and establish initial ownership",
		"Start with manual processes and basic tools",
	},
	{
		"Develop formal processes and procedures",
		"Implement basic automation and tooling",
		"Establish regular review cycles and governance",
		"Begin training and education programs",
	},
	{
		"Standardize processes across the organization",
		"Enhance automation and tool integration",
		"Implement comprehensive monitoring and alerting",
		"Develop advanced analytics and reporting capabilities",
	},
	{
		"Optimize existing processes for efficiency",
		"Implement predictive analytics and forecasting",
		"Enhance cross-team collaboration and communication",
		"Develop advanced automation and AI capabilities",
	},
	{
		"Focus on continuous improvement and innovation",
		"Implement advanced predictive and prescriptive analytics",
		"Develop strategic cost optimization strategies",
		"Establish industry leadership and best practices",
	},
}

type suggestionKey struct {
	capability catalog.CapabilityID
	lens       catalog.LensID
}

var capabilitySuggestions = map[suggestionKey][]string{
	{"data_ingestion", catalog.LensKnowledge}: {
		"Implement data governance and quality standards",
		"Establish data lineage and documentation processes",
		"Develop data validation and monitoring capabilities",
	},
	{"data_ingestion", catalog.LensProcess}: {
		"Standardize data ingestion workflows",
		"Implement automated data quality checks",
		"Establish data ownership and responsibility",
	},
	{"allocation", catalog.LensKnowledge}: {
		"Develop comprehensive tagging strategies",
		"Establish cost allocation methodologies",
		"Implement chargeback and showback processes",
	},
	{"allocation", catalog.LensProcess}: {
		"Standardize allocation rules and policies",
		"Implement automated allocation processes",
		"Establish allocation review and approval workflows",
	},
}

// Suggestions returns the tier suggestions for score followed by any
// capability and lens specific ones. Lower tiers see fewer specific items.
func Suggestions(capability catalog.CapabilityID, lens catalog.LensID, score int) []string {
	score = clampInt(score, 0, catalog.MaxScore)
	out := append([]string(nil), tierSuggestions[score]...)

	specific := capabilitySuggestions[suggestionKey{capability, lens}]
	switch {
	case score < 2:
		specific = specific[:minInt(2, len(specific))]
	case score < 3:
		specific = specific[:minInt(3, len(specific))]
	}
	return append(out, specific...)
}

// IndustryComparison places a raw score against the rest of the industry.
func IndustryComparison(score float64, capabilityName, lensName string) string {
	subject := capabilityName + " " + lensName
	switch {
	case score <= 1:
		return fmt.Sprintf("Below average for %s - 30%% of organizations are at this level", subject)
	case score <= 2:
		return fmt.Sprintf("Average for %s - 55%% of organizations are at this level", subject)
	case score <= 3:
		return fmt.Sprintf("Above average for %s - 15%% of organizations reach this level", subject)
	default:
		return fmt.Sprintf("Leading edge for %s - Top 5%% of organizations achieve this level", subject)
	}
}

// Risks summarizes exposure at a raw score.
func Risks(score float64, capabilityName, lensName string) string {
	subject := capabilityName + " " + lensName
	switch {
	case score <= 1:
		return fmt.Sprintf("High risk of cost overruns and inefficiencies in %s. Lack of visibility and control may lead to significant financial impact.", subject)
	case score <= 2:
		return fmt.Sprintf("Moderate risk in %s. Inconsistent processes may lead to missed optimization opportunities and increased costs.", subject)
	case score <= 3:
		return fmt.Sprintf("Low risk in %s. Well-established processes provide good control and optimization capabilities.", subject)
	default:
		return fmt.Sprintf("Minimal risk in %s. Advanced capabilities provide excellent control and optimization.", subject)
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
