package catalog

import (
	"fmt"
	"strings"
)

func defaultDefinition() Definition {
	return Definition{
		Domains: []DomainName{
			DomainUnderstandUsageCost,
			DomainQuantifyBusinessValue,
			DomainOptimizeUsageCost,
			DomainManagePractice,
		},
		Capabilities: frameworkCapabilities,
		Lenses: []Lens{
			{ID: LensKnowledge, Name: "Knowledge", Weight: 30},
			{ID: LensProcess, Name: "Process", Weight: 25},
			{ID: LensMetrics, Name: "Metrics", Weight: 20},
			{ID: LensAdoption, Name: "Adoption", Weight: 20},
			{ID: LensAutomation, Name: "Automation", Weight: 5},
		},
		Questions:    buildQuestionBank(frameworkCapabilities),
		AnswerLevels: []AnswerLevel{Level0To20, Level21To40, Level41To60, Level61To80, Level81To100},
		Scopes: []Scope{
			{ID: "public_cloud", Name: "Public Cloud"},
			{ID: "saas", Name: "SaaS"},
			{ID: "data_center", Name: "Data Center"},
			{ID: "licensing", Name: "Licensing"},
			{ID: "ai_ml", Name: "AI/ML"},
		},
	}
}

var frameworkCapabilities = []Capability{
	{ID: "data_ingestion", Name: "Data Ingestion", Domain: DomainUnderstandUsageCost},
	{ID: "allocation", Name: "Allocation", Domain: DomainUnderstandUsageCost},
	{ID: "reporting_analytics", Name: "Reporting & Analytics", Domain: DomainUnderstandUsageCost},
	{ID: "anomaly_management", Name: "Anomaly Management", Domain: DomainUnderstandUsageCost},

	{ID: "forecasting", Name: "Forecasting", Domain: DomainQuantifyBusinessValue},
	{ID: "budgeting", Name: "Budgeting", Domain: DomainQuantifyBusinessValue},
	{ID: "benchmark", Name: "Benchmarking", Domain: DomainQuantifyBusinessValue},
	{ID: "unit_economics", Name: "Unit Economics", Domain: DomainQuantifyBusinessValue},

	{ID: "architecting_cloud", Name: "Architecting for Cloud", Domain: DomainOptimizeUsageCost},
	{ID: "rate_optimization", Name: "Rate Optimization", Domain: DomainOptimizeUsageCost},
	{ID: "workload_optimization", Name: "Workload Optimization", Domain: DomainOptimizeUsageCost},
	{ID: "cloud_sustainability", Name: "Cloud Sustainability", Domain: DomainOptimizeUsageCost},
	{ID: "licensing_saas", Name: "Licensing & SaaS", Domain: DomainOptimizeUsageCost},

	{ID: "finops_practice_operations", Name: "FinOps Practice Operations", Domain: DomainManagePractice},
	{ID: "policy_governance", Name: "Policy & Governance", Domain: DomainManagePractice},
	{ID: "finops_assessment", Name: "FinOps Assessment", Domain: DomainManagePractice},
	{ID: "finops_tools_services", Name: "FinOps Tools & Services", Domain: DomainManagePractice},
	{ID: "finops_education_enablement", Name: "FinOps Education & Enablement", Domain: DomainManagePractice},
	{ID: "invoicing_chargeback", Name: "Invoicing & Chargeback", Domain: DomainManagePractice},
	{ID: "onboarding_workloads", Name: "Onboarding Workloads", Domain: DomainManagePractice},
	{ID: "intersecting_disciplines", Name: "Intersecting Disciplines", Domain: DomainManagePractice},
}

// lensTemplates produce the generic phrasing for a lens; %s is the
// lowercased capability name.
var lensTemplates = map[LensID][2]string{
	LensKnowledge: {
		"What share of the people involved understand %s and how it applies to your organization?",
		"How widely is the purpose of %s understood across engineering, finance and leadership?",
	},
	LensProcess: {
		"What share of %s activities follow a defined, documented and repeatable process?",
		"How consistently are the agreed %s procedures applied across teams?",
	},
	LensMetrics: {
		"What share of %s outcomes are measured with agreed KPIs that are tracked over time?",
		"How much of %s performance is visible through regularly reviewed metrics?",
	},
	LensAdoption: {
		"What share of the relevant teams and business units have adopted your %s practices?",
		"How broadly do stakeholders take part in %s as part of their normal work?",
	},
	LensAutomation: {
		"What share of %s work is automated rather than performed manually?",
		"How much of the %s workflow runs through tooling without human intervention?",
	},
}

// questionOverrides replace the generic phrasing where a capability needs
// more specific wording.
var questionOverrides = map[CapabilityID]map[LensID]string{
	"data_ingestion": {
		LensKnowledge:  "What share of your teams understand where cost and usage data comes from and how it is normalized?",
		LensAutomation: "What share of cost and usage data ingestion runs automatically on a schedule?",
	},
	"allocation": {
		LensKnowledge: "What share of stakeholders understand your tagging and cost allocation strategy?",
		LensMetrics:   "What share of total spend is allocated to an owner, team or product?",
	},
	"anomaly_management": {
		LensProcess: "What share of detected cost anomalies are triaged through a defined response process?",
	},
	"rate_optimization": {
		LensMetrics: "What share of eligible usage is covered by commitment discounts or negotiated rates?",
	},
	"forecasting": {
		LensMetrics: "What share of your forecasts land within the agreed variance threshold?",
	},
	"invoicing_chargeback": {
		LensAdoption: "What share of business units receive and act on showback or chargeback reports?",
	},
}

func buildQuestionBank(capabilities []Capability) []Question {
	lensOrder := []LensID{LensKnowledge, LensProcess, LensMetrics, LensAdoption, LensAutomation}

	questions := make([]Question, 0, len(capabilities)*len(lensOrder))
	for _, capability := range capabilities {
		subject := lowerFirst(capability.Name)
		for _, lens := range lensOrder {
			tmpl := lensTemplates[lens]
			phrasings := []string{
				fmt.Sprintf(tmpl[0], subject),
				fmt.Sprintf(tmpl[1], subject),
			}
			if override, ok := questionOverrides[capability.ID][lens]; ok {
				phrasings = append([]string{override}, phrasings...)
			}
			questions = append(questions, Question{
				Capability: capability.ID,
				Lens:       lens,
				Phrasings:  phrasings,
			})
		}
	}
	return questions
}

// lowerFirst lowercases a leading capital unless the name starts with an
// acronym such as "FinOps" or "SaaS".
func lowerFirst(s string) string {
	if len(s) < 2 {
		return s
	}
	if (s[1] >= 'A' && s[1] <= 'Z') || strings.HasPrefix(s, "FinOps") {
		return s
	}
	if s[0] >= 'A' && s[0] <= 'Z' {
		return string(s[0]+('a'-'A')) + s[1:]
	}
	return s
}
