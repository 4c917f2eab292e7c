package benchmark

import (
	"testing"
	"time"

	"finops-assessment/internal/catalog"
	"finops-assessment/internal/models"
	"finops-assessment/internal/scoring"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	understand = catalog.DomainUnderstandUsageCost
	optimize   = catalog.DomainOptimizeUsageCost
	baseTime   = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
)

var lensOrder = []catalog.LensID{
	catalog.LensKnowledge, catalog.LensProcess, catalog.LensMetrics, catalog.LensAdoption, catalog.LensAutomation,
}

// responsesFor answers one capability across the lenses with the given scores.
func responsesFor(id string, capability catalog.CapabilityID, scores ...int) []models.Response {
	out := make([]models.Response, 0, len(scores))
	for i, s := range scores {
		out = append(out, models.Response{AssessmentID: id, CapabilityID: capability, LensID: lensOrder[i], Score: s})
	}
	return out
}

func completed(id, org string, scope models.ScopeKind, domain catalog.DomainName, created time.Time, responses []models.Response) Candidate {
	return Candidate{
		Assessment: models.Assessment{
			ID:        id,
			OrgHash:   org,
			Scope:     scope,
			Domain:    domain,
			Status:    models.StatusCompleted,
			CreatedAt: created,
		},
		Responses: responses,
	}
}

func newAggregator() *Aggregator {
	a := NewAggregator(scoring.NewEngine(catalog.Default()))
	a.now = func() time.Time { return baseTime }
	return a
}

func TestCompute_TwoPeers(t *testing.T) {
	candidates := []Candidate{
		completed("a1", "org-a", models.ScopeDomain, understand, baseTime, responsesFor("a1", "allocation", 4, 4, 4, 4, 0)),
		completed("b1", "org-b", models.ScopeDomain, understand, baseTime, responsesFor("b1", "allocation", 4, 4, 4, 0, 0)),
	}

	got := newAggregator().Compute(Request{Domain: understand, RequesterOrgHash: "org-me"}, candidates)

	require.NotNil(t, got.PeerAverage)
	assert.Equal(t, 70.0, *got.PeerAverage)
	assert.Equal(t, 2, got.PeerCount)
	want := []models.BenchmarkPoint{
		{Label: "Company A", Percentage: 60},
		{Label: "Company B", Percentage: 80},
	}
	if diff := cmp.Diff(want, got.Series); diff != "" {
		t.Errorf("series mismatch (-want +got):\n%s", diff)
	}
	assert.Nil(t, got.OwnPercentage)
}

func TestCompute_KeepsOneDecimalPerOrganization(t *testing.T) {
	candidates := []Candidate{
		completed("a1", "org-a", models.ScopeDomain, understand, baseTime, responsesFor("a1", "allocation", 1, 1, 2)),
		completed("b1", "org-b", models.ScopeDomain, understand, baseTime, responsesFor("b1", "allocation", 2, 3, 3)),
		completed("c1", "org-c", models.ScopeDomain, understand, baseTime, responsesFor("c1", "allocation", 1, 2, 2)),
	}

	got := newAggregator().Compute(Request{Domain: understand, RequesterOrgHash: "org-me"}, candidates)

	want := []models.BenchmarkPoint{
		{Label: "Company A", Percentage: 33.3},
		{Label: "Company B", Percentage: 41.7},
		{Label: "Company C", Percentage: 66.7},
	}
	if diff := cmp.Diff(want, got.Series); diff != "" {
		t.Errorf("series mismatch (-want +got):\n%s", diff)
	}
	require.NotNil(t, got.PeerAverage)
	assert.InDelta(t, 47.2, *got.PeerAverage, 1e-9)
}

func TestCompute_ExcludesRequesterOrganization(t *testing.T) {
	candidates := []Candidate{
		completed("me1", "org-me", models.ScopeDomain, understand, baseTime, responsesFor("me1", "allocation", 4, 4)),
		completed("b1", "org-b", models.ScopeDomain, understand, baseTime, responsesFor("b1", "allocation", 2, 2)),
	}

	got := newAggregator().Compute(Request{Domain: understand, RequesterOrgHash: "org-me"}, candidates)

	assert.Equal(t, 1, got.PeerCount)
	require.Len(t, got.Series, 1)
	assert.Equal(t, 50.0, got.Series[0].Percentage)
	require.NotNil(t, got.OwnPercentage)
	assert.Equal(t, 100.0, *got.OwnPercentage)
}

func TestCompute_NoPeers(t *testing.T) {
	candidates := []Candidate{
		completed("me1", "org-me", models.ScopeDomain, understand, baseTime, responsesFor("me1", "allocation", 4)),
	}

	got := newAggregator().Compute(Request{Domain: understand, RequesterOrgHash: "org-me"}, candidates)

	assert.Nil(t, got.PeerAverage)
	assert.Equal(t, 0, got.PeerCount)
	assert.Empty(t, got.Series)
	assert.NotNil(t, got.Series)
}

func TestCompute_LatestAssessmentPerOrganization(t *testing.T) {
	candidates := []Candidate{
		completed("old", "org-b", models.ScopeDomain, understand, baseTime.Add(-48*time.Hour), responsesFor("old", "allocation", 0, 0)),
		completed("new", "org-b", models.ScopeDomain, understand, baseTime, responsesFor("new", "allocation", 4, 4)),
		completed("c1", "org-c", models.ScopeDomain, understand, baseTime, responsesFor("c1", "allocation", 2, 2)),
	}

	got := newAggregator().Compute(Request{Domain: understand, RequesterOrgHash: "org-me"}, candidates)

	assert.Equal(t, 2, got.PeerCount)
	assert.Equal(t, 75.0, *got.PeerAverage)
}

func TestCompute_FiltersIneligible(t *testing.T) {
	inProgress := completed("p1", "org-p", models.ScopeDomain, understand, baseTime, responsesFor("p1", "allocation", 4))
	inProgress.Assessment.Status = models.StatusInProgress

	candidates := []Candidate{
		inProgress,
		completed("o1", "org-o", models.ScopeDomain, optimize, baseTime, responsesFor("o1", "rate_optimization", 4)),
		// complete scope but nothing answered in the requested domain
		completed("x1", "org-x", models.ScopeComplete, "", baseTime, responsesFor("x1", "rate_optimization", 4)),
		// complete scope re-scored to the domain slice
		completed("y1", "org-y", models.ScopeComplete, "", baseTime,
			append(responsesFor("y1", "allocation", 1, 1), responsesFor("y1", "rate_optimization", 4, 4)...)),
	}

	got := newAggregator().Compute(Request{Domain: understand, RequesterOrgHash: "org-me"}, candidates)

	assert.Equal(t, 1, got.PeerCount)
	if diff := cmp.Diff([]models.BenchmarkPoint{{Label: "Company A", Percentage: 25}}, got.Series); diff != "" {
		t.Errorf("series mismatch (-want +got):\n%s", diff)
	}
}

func TestCompute_PeerAverageRoundsToOneDecimal(t *testing.T) {
	candidates := []Candidate{
		completed("a", "org-a", models.ScopeDomain, understand, baseTime, responsesFor("a", "allocation", 4, 4, 4)),
		completed("b", "org-b", models.ScopeDomain, understand, baseTime, responsesFor("b", "allocation", 4, 4, 4)),
		completed("c", "org-c", models.ScopeDomain, understand, baseTime, responsesFor("c", "allocation", 1, 0, 0)),
	}

	got := newAggregator().Compute(Request{Domain: understand}, candidates)

	// (100 + 100 + 8) / 3
	assert.Equal(t, 69.3, *got.PeerAverage)
}

func TestCompute_NeverLeaksOrgHashes(t *testing.T) {
	var candidates []Candidate
	for _, org := range []string{"org-1", "org-2", "org-3"} {
		candidates = append(candidates, completed(org, org, models.ScopeDomain, understand, baseTime, responsesFor(org, "allocation", 3)))
	}

	got := newAggregator().Compute(Request{Domain: understand, RequesterOrgHash: "org-2"}, candidates)

	labels := make([]string, 0, len(got.Series))
	for _, p := range got.Series {
		labels = append(labels, p.Label)
	}
	assert.Equal(t, []string{"Company A", "Company B"}, labels)
	assert.Equal(t, 2, got.PeerCount)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Company A", Label(0))
	assert.Equal(t, "Company Z", Label(25))
	assert.Equal(t, "Company AA", Label(26))
	assert.Equal(t, "Company AZ", Label(51))
	assert.Equal(t, "Company BA", Label(52))
}

func TestCompute_OrderIndependent(t *testing.T) {
	candidates := []Candidate{
		completed("a", "org-a", models.ScopeDomain, understand, baseTime, responsesFor("a", "allocation", 3, 1)),
		completed("b", "org-b", models.ScopeDomain, understand, baseTime, responsesFor("b", "allocation", 2)),
		completed("c", "org-c", models.ScopeDomain, understand, baseTime, responsesFor("c", "allocation", 4, 0)),
	}
	reversed := []Candidate{candidates[2], candidates[1], candidates[0]}

	agg := newAggregator()
	first := agg.Compute(Request{Domain: understand}, candidates)
	second := agg.Compute(Request{Domain: understand}, reversed)

	if diff := cmp.Diff(first, second, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("benchmark depends on candidate order:\n%s", diff)
	}
}
