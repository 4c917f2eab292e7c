package scoring

import (
	"math/rand"
	"testing"

	"finops-assessment/internal/catalog"
	"finops-assessment/internal/models"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resp(capability catalog.CapabilityID, lens catalog.LensID, score int) models.Response {
	return models.Response{AssessmentID: "a-1", CapabilityID: capability, LensID: lens, Score: score}
}

func TestScore_TwoResponseScenario(t *testing.T) {
	engine := NewEngine(catalog.Default())

	report := engine.Score([]models.Response{
		resp("allocation", catalog.LensKnowledge, 4),
		resp("allocation", catalog.LensProcess, 0),
	})

	assert.Equal(t, 4, report.TotalScore)
	assert.Equal(t, 8, report.TotalPossible)
	assert.Equal(t, 50, report.OverallPercentage)
	assert.Equal(t, 100, report.LensScores[catalog.LensKnowledge].Percentage)
	assert.Equal(t, 0, report.LensScores[catalog.LensProcess].Percentage)
	assert.Equal(t, 30.0, report.LensScores[catalog.LensKnowledge].Weighted)
	assert.Equal(t, 50, report.DomainScores[catalog.DomainUnderstandUsageCost].Percentage)
	assert.Empty(t, report.Skipped)
}

func TestScore_Empty(t *testing.T) {
	engine := NewEngine(catalog.Default())

	report := engine.Score(nil)

	assert.Equal(t, 0, report.OverallPercentage)
	assert.Equal(t, 0, report.TotalPossible)
	require.Len(t, report.LensScores, 5)
	for id, ls := range report.LensScores {
		assert.Equal(t, 0, ls.Count, id)
		assert.Equal(t, 0, ls.Percentage, id)
		assert.Equal(t, 0.0, ls.Weighted, id)
	}
	require.Len(t, report.DomainScores, 4)
	for name, ds := range report.DomainScores {
		assert.Equal(t, 0, ds.Percentage, name)
	}
}

func TestScore_SkipsUnknownIDs(t *testing.T) {
	engine := NewEngine(catalog.Default())

	report := engine.Score([]models.Response{
		resp("allocation", catalog.LensKnowledge, 3),
		resp("retired_capability", catalog.LensKnowledge, 0),
		resp("allocation", "retired_lens", 0),
		resp("budgeting", catalog.LensMetrics, 7),
	})

	assert.Equal(t, 1, report.ResponseCount)
	assert.Equal(t, 75, report.OverallPercentage)
	want := []models.SkippedResponse{
		{CapabilityID: "retired_capability", LensID: catalog.LensKnowledge, Reason: reasonUnknownCapability},
		{CapabilityID: "allocation", LensID: "retired_lens", Reason: reasonUnknownLens},
		{CapabilityID: "budgeting", LensID: catalog.LensMetrics, Reason: reasonScoreOutOfRange},
	}
	if diff := cmp.Diff(want, report.Skipped); diff != "" {
		t.Errorf("skipped mismatch (-want +got):\n%s", diff)
	}
}

func TestScore_Properties(t *testing.T) {
	c := catalog.Default()
	engine := NewEngine(c)
	capabilities := c.Capabilities()
	lenses := c.Lenses()
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		n := rng.Intn(40)
		responses := make([]models.Response, 0, n)
		total := 0
		for j := 0; j < n; j++ {
			score := rng.Intn(5)
			total += score
			responses = append(responses, resp(
				capabilities[rng.Intn(len(capabilities))].ID,
				lenses[rng.Intn(len(lenses))].ID,
				score,
			))
		}

		report := engine.Score(responses)

		assert.GreaterOrEqual(t, report.OverallPercentage, 0)
		assert.LessOrEqual(t, report.OverallPercentage, 100)
		assert.Equal(t, Percentage(total, n), report.OverallPercentage)

		lensCount := 0
		for _, ls := range report.LensScores {
			lensCount += ls.Count
		}
		assert.Equal(t, n, lensCount)

		shuffled := append([]models.Response(nil), responses...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		if diff := cmp.Diff(report, engine.Score(shuffled)); diff != "" {
			t.Fatalf("order dependence (-first +shuffled):\n%s", diff)
		}
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		total, count, want int
	}{
		{0, 0, 0},
		{4, 2, 50},
		{1, 3, 8},
		{5, 2, 63},
		{12, 3, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Percentage(tt.total, tt.count), "%d/%d", tt.total, tt.count)
	}
}

func TestScoreDomain(t *testing.T) {
	engine := NewEngine(catalog.Default())
	responses := []models.Response{
		resp("allocation", catalog.LensKnowledge, 4),
		resp("forecasting", catalog.LensKnowledge, 0),
		resp("budgeting", catalog.LensProcess, 2),
	}

	ds, ok := engine.ScoreDomain(responses, catalog.DomainQuantifyBusinessValue)
	require.True(t, ok)
	assert.Equal(t, models.DomainScore{Total: 2, Count: 2, Percentage: 25}, ds)

	_, ok = engine.ScoreDomain(responses, catalog.DomainManagePractice)
	assert.False(t, ok)
}

func TestWeightedPercentage(t *testing.T) {
	engine := NewEngine(catalog.Default())
	report := engine.Score([]models.Response{
		resp("allocation", catalog.LensKnowledge, 4),
		resp("allocation", catalog.LensAutomation, 0),
	})
	// (100*30 + 0*5) / 35
	assert.Equal(t, 85.7, WeightedPercentage(report))
	assert.Equal(t, 0.0, WeightedPercentage(engine.Score(nil)))
}
