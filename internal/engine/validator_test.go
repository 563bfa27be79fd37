package engine

import (
	"math/big"
	"testing"

	"github.com/crowdchain-engine/internal/amount"
	"github.com/crowdchain-engine/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDraft() *models.CampaignDraft {
	return &models.CampaignDraft{
		Title:        "Clean water for Kibera",
		Description:  "Borehole and filtration for 2000 households",
		TargetAmount: amount.MustBaseUnits("0.3"),
		DurationDays: 30,
		Milestones: []models.MilestoneDraft{
			{Title: "Survey", Description: "Site survey and permits", Amount: amount.MustBaseUnits("0.1")},
			{Title: "Drilling", Description: "Borehole drilling", Amount: amount.MustBaseUnits("0.2")},
		},
	}
}

func TestValidateDraftAccepts(t *testing.T) {
	validated, err := ValidateDraft(validDraft())
	require.NoError(t, err)
	assert.Equal(t, "Clean water for Kibera", validated.Title)
	assert.Len(t, validated.Milestones, 2)
}

func TestValidateDraftNormalizesWhitespace(t *testing.T) {
	draft := validDraft()
	draft.Title = "  Clean water  "
	draft.Description = "\tdesc\n"

	validated, err := ValidateDraft(draft)
	require.NoError(t, err)
	assert.Equal(t, "Clean water", validated.Title)
	assert.Equal(t, "desc", validated.Description)

	// Input draft untouched.
	assert.Equal(t, "  Clean water  ", draft.Title)
}

func TestValidateDraftFieldOrder(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*models.CampaignDraft)
		wantField string
	}{
		{"empty title", func(d *models.CampaignDraft) { d.Title = "  " }, "title"},
		{"empty description", func(d *models.CampaignDraft) { d.Description = "" }, "description"},
		{"nil target", func(d *models.CampaignDraft) { d.TargetAmount = nil }, "targetAmount"},
		{"zero target", func(d *models.CampaignDraft) { d.TargetAmount = big.NewInt(0) }, "targetAmount"},
		{"duration too short", func(d *models.CampaignDraft) { d.DurationDays = 0 }, "durationDays"},
		{"duration too long", func(d *models.CampaignDraft) { d.DurationDays = 366 }, "durationDays"},
		{"milestone title", func(d *models.CampaignDraft) { d.Milestones[0].Title = "" }, "milestones[0].title"},
		{"milestone description", func(d *models.CampaignDraft) { d.Milestones[1].Description = " " }, "milestones[1].description"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := validDraft()
			tt.mutate(draft)

			_, err := ValidateDraft(draft)
			require.Error(t, err)

			verr, ok := err.(*ValidationError)
			require.True(t, ok)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestValidateDraftMilestoneSumExact(t *testing.T) {
	draft := validDraft()

	// One wei over the target must fail.
	draft.Milestones[1].Amount = new(big.Int).Add(draft.Milestones[1].Amount, big.NewInt(1))

	_, err := ValidateDraft(draft)
	require.Error(t, err)

	verr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "milestones", verr.Field)
	require.NotNil(t, verr.Delta)
	assert.Equal(t, "1", verr.Delta.String())
}

func TestValidateDraftMilestoneSumShort(t *testing.T) {
	draft := validDraft()
	draft.Milestones[0].Amount = amount.MustBaseUnits("0.05")

	_, err := ValidateDraft(draft)
	require.Error(t, err)

	verr := err.(*ValidationError)
	assert.Equal(t, "milestones", verr.Field)
	assert.Equal(t, new(big.Int).Neg(amount.MustBaseUnits("0.05")).String(), verr.Delta.String())
}

func TestValidateDraftNoMilestones(t *testing.T) {
	draft := validDraft()
	draft.Milestones = nil

	_, err := ValidateDraft(draft)
	assert.NoError(t, err)
}

func TestValidateDraftDurationBounds(t *testing.T) {
	for _, days := range []int{1, 365} {
		draft := validDraft()
		draft.DurationDays = days
		_, err := ValidateDraft(draft)
		assert.NoError(t, err, "days=%d", days)
	}
}
