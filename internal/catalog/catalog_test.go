package catalog

import (
	"testing"

	apperrors "finops-assessment/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Shape(t *testing.T) {
	c := Default()

	assert.Len(t, c.Domains(), 4)
	assert.Len(t, c.Capabilities(), 21)
	assert.Len(t, c.Lenses(), 5)
	assert.Len(t, c.AnswerLevels(), 5)
	assert.Len(t, c.Scopes(), 5)

	weights := map[LensID]int{}
	for _, l := range c.Lenses() {
		weights[l.ID] = l.Weight
	}
	assert.Equal(t, map[LensID]int{
		LensKnowledge:  30,
		LensProcess:    25,
		LensMetrics:    20,
		LensAdoption:   20,
		LensAutomation: 5,
	}, weights)

	counts := map[DomainName]int{}
	for _, capability := range c.Capabilities() {
		counts[capability.Domain]++
	}
	assert.Equal(t, 4, counts[DomainUnderstandUsageCost])
	assert.Equal(t, 4, counts[DomainQuantifyBusinessValue])
	assert.Equal(t, 5, counts[DomainOptimizeUsageCost])
	assert.Equal(t, 8, counts[DomainManagePractice])
}

func TestDefault_EveryCapabilityLensHasQuestion(t *testing.T) {
	c := Default()
	for _, capability := range c.Capabilities() {
		for _, lens := range c.Lenses() {
			q, ok := c.Question(capability.ID, lens.ID)
			require.True(t, ok, "%s/%s", capability.ID, lens.ID)
			assert.NotEmpty(t, q.Text())
		}
	}
	assert.Len(t, c.QuestionsFor(""), 105)
	assert.Len(t, c.QuestionsFor(DomainOptimizeUsageCost), 25)
}

func TestQuestion_OverrideIsCanonical(t *testing.T) {
	q, ok := Default().Question("allocation", LensMetrics)
	require.True(t, ok)
	assert.Equal(t, "What share of total spend is allocated to an owner, team or product?", q.Text())
	assert.Len(t, q.Phrasings, 3)
}

func TestAccessorsReturnCopies(t *testing.T) {
	c := Default()
	lenses := c.Lenses()
	lenses[0].Weight = 99

	l, ok := c.Lens(LensKnowledge)
	require.True(t, ok)
	assert.Equal(t, 30, l.Weight)
}

func TestLevelIndex(t *testing.T) {
	c := Default()
	for want, level := range []AnswerLevel{Level0To20, Level21To40, Level41To60, Level61To80, Level81To100} {
		got, ok := c.LevelIndex(level)
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}
	_, ok := c.LevelIndex("50%")
	assert.False(t, ok)
}

func TestParseIDs(t *testing.T) {
	c := Default()

	id, err := c.ParseCapabilityID(" allocation ")
	require.NoError(t, err)
	assert.Equal(t, CapabilityID("allocation"), id)

	_, err = c.ParseCapabilityID("teleportation")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeUnknownCapability))

	_, err = c.ParseCapabilityID("")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeValidationFailed))

	_, err = c.ParseLensID("vibes")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeUnknownLens))

	_, err = c.ParseAnswerLevel("100%")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidAnswerLevel))

	d, err := c.ParseDomain("optimize usage & cost")
	require.NoError(t, err)
	assert.Equal(t, DomainOptimizeUsageCost, d)
}

func TestNew_RejectsBadDefinitions(t *testing.T) {
	base := defaultDefinition()

	tests := []struct {
		name   string
		mutate func(d *Definition)
	}{
		{"weights off", func(d *Definition) {
			d.Lenses = append([]Lens(nil), d.Lenses...)
			d.Lenses[0].Weight = 10
		}},
		{"unknown domain", func(d *Definition) {
			d.Capabilities = append(append([]Capability(nil), d.Capabilities...),
				Capability{ID: "x", Name: "X", Domain: "Nowhere"})
		}},
		{"duplicate capability", func(d *Definition) {
			d.Capabilities = append(append([]Capability(nil), d.Capabilities...), d.Capabilities[0])
		}},
		{"question for unknown lens", func(d *Definition) {
			d.Questions = append(append([]Question(nil), d.Questions...),
				Question{Capability: "allocation", Lens: "vibes", Phrasings: []string{"?"}})
		}},
		{"wrong answer scale", func(d *Definition) {
			d.AnswerLevels = d.AnswerLevels[:3]
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := base
			tt.mutate(&def)
			_, err := New(def)
			assert.Error(t, err)
		})
	}
}

func TestLowerFirst(t *testing.T) {
	assert.Equal(t, "allocation", lowerFirst("Allocation"))
	assert.Equal(t, "FinOps Assessment", lowerFirst("FinOps Assessment"))
	assert.Equal(t, "SaaS", lowerFirst("SaaS"))
}
