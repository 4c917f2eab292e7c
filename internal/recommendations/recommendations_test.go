package recommendations

import (
	"context"
	"errors"
	"strings"
	"testing"

	"finops-assessment/internal/catalog"
	apperrors "finops-assessment/internal/common/errors"
	"finops-assessment/internal/common/logger"
	"finops-assessment/internal/models"
	"finops-assessment/internal/oracle"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResponses() []models.Response {
	return []models.Response{
		{CapabilityID: "allocation", LensID: catalog.LensKnowledge, AnswerLevel: catalog.Level81To100, Score: 4},
		{CapabilityID: "allocation", LensID: catalog.LensProcess, AnswerLevel: catalog.Level0To20, Score: 0, Improvement: "Standardize allocation rules"},
		{CapabilityID: "budgeting", LensID: catalog.LensMetrics, AnswerLevel: catalog.Level21To40, Score: 1},
		{CapabilityID: "forecasting", LensID: catalog.LensAdoption, AnswerLevel: catalog.Level41To60, Score: 2},
		{CapabilityID: "data_ingestion", LensID: catalog.LensKnowledge, AnswerLevel: catalog.Level0To20, Score: 0},
		{CapabilityID: "anomaly_management", LensID: catalog.LensAutomation, AnswerLevel: catalog.Level61To80, Score: 3},
		{CapabilityID: "unit_economics", LensID: catalog.LensProcess, AnswerLevel: catalog.Level81To100, Score: 4},
	}
}

func newGenerator(t *testing.T, o oracle.Oracle) *Generator {
	return NewGenerator(catalog.Default(), o, logger.NewTestLogger(t), 1000, 0.5)
}

func TestLowestTargets(t *testing.T) {
	targets := LowestTargets(catalog.Default(), sampleResponses())

	require.Len(t, targets, MaxTargets)
	got := make([]string, 0, len(targets))
	for _, tg := range targets {
		got = append(got, string(tg.CapabilityID)+"/"+string(tg.LensID))
	}
	want := []string{
		"allocation/process",
		"data_ingestion/knowledge",
		"budgeting/metrics",
		"forecasting/adoption",
		"anomaly_management/automation",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("targets mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "Allocation", targets[0].CapabilityName)
	assert.Equal(t, "Process", targets[0].LensName)
	assert.Equal(t, noImprovementFallback, targets[1].Improvement)
}

func TestLowestTargets_FewerThanFive(t *testing.T) {
	targets := LowestTargets(catalog.Default(), sampleResponses()[:2])
	assert.Len(t, targets, 2)
}

func TestBuildPrompt(t *testing.T) {
	long := strings.Repeat("x", 200)
	targets := []Target{{CapabilityName: "Allocation", LensName: "Process", Score: 0, Answer: long, Improvement: "short"}}

	prompt := BuildPrompt("Understand Usage & Cost", "Understand Usage & Cost", 42, targets)

	assert.Contains(t, prompt, "provide exactly 1 concise")
	assert.Contains(t, prompt, "- Overall Score: 42%")
	assert.Contains(t, prompt, "- Allocation (Process): Score 0/4")
	assert.Contains(t, prompt, "Answer: "+strings.Repeat("x", 150)+"...\n")
	assert.Contains(t, prompt, "Current Improvement: short\n")
	assert.Contains(t, SystemPrompt(3), "EXACTLY 3 recommendations")
}

func TestExcerpt_CountsRunes(t *testing.T) {
	s := strings.Repeat("é", 150)
	assert.Equal(t, s, Excerpt(s))
	assert.Equal(t, s+"...", Excerpt(s+"é"))
}

const wellFormed = `Title: Automate tagging
Description: Enforce tags at provisioning.
Why it is important: Untagged spend cannot be allocated.
Recommendation: Add policy checks to the pipeline.

Title: Publish showback
Description: Share monthly cost reports.
Why it is important: Teams act on what they see.
Recommendation: Send reports to owners.`

func TestPostProcess_StripsPreambleAndCollapsesBlankLines(t *testing.T) {
	raw := "Here are your recommendations based on the assessment\nthat you completed:\n\n" +
		strings.Replace(wellFormed, "\n\n", "\n\n\n\n", 1)

	assert.Equal(t, wellFormed, PostProcess(raw))
}

func TestPostProcess_KeepsCleanOutput(t *testing.T) {
	assert.Equal(t, wellFormed, PostProcess("  "+wellFormed+"\n\n"))
}

func TestPostProcess_KeepsLowercaseLabels(t *testing.T) {
	raw := "title: Automate tagging\n" +
		"description: Tags are applied by hand today.\n" +
		"why it is important: Untagged spend cannot be allocated.\n" +
		"recommendation: Enforce tags in the deployment pipeline."

	got := PostProcess(raw)
	assert.Equal(t, raw, got)
	assert.NotContains(t, got, placeholderDescription)

	parsed := Parse(got)
	require.Len(t, parsed, 1)
	assert.Equal(t, "Tags are applied by hand today.", parsed[0].Description)
	assert.Equal(t, "Enforce tags in the deployment pipeline.", parsed[0].Recommendation)
}

func TestPostProcess_SynthesizesStructure(t *testing.T) {
	got := PostProcess("1. Tag all resources\n2. Review budgets monthly")

	want := "Title: Tag all resources\n" + placeholderDescription + "\n" + placeholderWhyImportant + "\n" + placeholderRecommendation +
		"\n\nTitle: Review budgets monthly\n" + placeholderDescription + "\n" + placeholderWhyImportant + "\n" + placeholderRecommendation
	assert.Equal(t, want, got)
	assert.Len(t, Parse(got), 2)
}

func TestIsAbsent(t *testing.T) {
	assert.True(t, IsAbsent(""))
	assert.True(t, IsAbsent("   \n"))
	assert.True(t, IsAbsent(Sentinel))
	assert.True(t, IsAbsent("Unable to generate recommendations at this time. Please try again later."))
	assert.False(t, IsAbsent(wellFormed))
}

func TestParse_Text(t *testing.T) {
	got := Parse("**Title:** Automate tagging\nDescription: Enforce tags\nat provisioning.\nWhy it matters: Allocation.\nRecommendation: Add checks.")

	want := []models.Recommendation{{
		Title:          "Automate tagging",
		Description:    "Enforce tags at provisioning.",
		WhyImportant:   "Allocation.",
		Recommendation: "Add checks.",
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parse mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, Parse(wellFormed), 2)
	assert.Nil(t, Parse(Sentinel))
}

func TestParse_JSON(t *testing.T) {
	got := Parse(`[{"title":"A","description":"d","why_important":"w","recommendation":"r"},{"description":"no title"}]`)

	require.Len(t, got, 1)
	assert.Equal(t, models.Recommendation{Title: "A", Description: "d", WhyImportant: "w", Recommendation: "r"}, got[0])
}

func TestGenerate_Success(t *testing.T) {
	var prompt oracle.Prompt
	o := oracle.Func(func(ctx context.Context, p oracle.Prompt) (string, error) {
		prompt = p
		return "Based on your results:\n\n" + wellFormed, nil
	})

	got := newGenerator(t, o).Generate(context.Background(), Input{
		AssessmentID:      "a1",
		Scope:             models.CompleteAssessmentLabel,
		Domain:            "All domains",
		OverallPercentage: 48,
		Responses:         sampleResponses(),
	})

	assert.Equal(t, wellFormed, got)
	assert.Contains(t, prompt.System, "EXACTLY 5 recommendations")
	assert.Equal(t, 1000, prompt.MaxTokens)
	assert.Equal(t, 0.5, prompt.Temperature)
}

func TestGenerate_OracleFailureReturnsSentinel(t *testing.T) {
	failures := map[string]oracle.Oracle{
		"network": oracle.Func(func(context.Context, oracle.Prompt) (string, error) { return "", errors.New("dial tcp: refused") }),
		"timeout": oracle.Func(func(context.Context, oracle.Prompt) (string, error) {
			return "", apperrors.NewOracleTimeoutError("test")
		}),
		"disabled": oracle.Disabled{},
		"empty":    oracle.Func(func(context.Context, oracle.Prompt) (string, error) { return "  \n", nil }),
		"nil":      nil,
	}
	for name, o := range failures {
		t.Run(name, func(t *testing.T) {
			got := newGenerator(t, o).Generate(context.Background(), Input{AssessmentID: "a1", Responses: sampleResponses()})
			assert.Equal(t, Sentinel, got)
			assert.True(t, IsAbsent(got))
		})
	}
}

func TestGenerate_NoResponsesSkipsOracle(t *testing.T) {
	called := false
	o := oracle.Func(func(context.Context, oracle.Prompt) (string, error) {
		called = true
		return wellFormed, nil
	})

	got := newGenerator(t, o).Generate(context.Background(), Input{AssessmentID: "a1"})

	assert.Equal(t, Sentinel, got)
	assert.False(t, called)
}
