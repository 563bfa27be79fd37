package engine

import (
	"testing"

	"github.com/crowdchain-engine/internal/amount"
	"github.com/crowdchain-engine/internal/models"
	"github.com/crowdchain-engine/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierFor(t *testing.T) {
	tests := []struct {
		total    string
		expected types.RewardTier
	}{
		{"0", types.TierNone},
		{"0.05", types.TierBronze},
		{"0.099999999999999999", types.TierBronze},
		{"0.1", types.TierSilver},
		{"0.12", types.TierSilver},
		{"0.499999999999999999", types.TierSilver},
		{"0.5", types.TierGold},
		{"3", types.TierGold},
	}

	for _, tt := range tests {
		t.Run(tt.total, func(t *testing.T) {
			assert.Equal(t, tt.expected, TierFor(amount.MustBaseUnits(tt.total)))
		})
	}
}

func TestTierForNil(t *testing.T) {
	assert.Equal(t, types.TierNone, TierFor(nil))
}

func TestBadgeFor(t *testing.T) {
	badge, desc := BadgeFor(1)
	assert.Equal(t, "Contributor Badge", badge)
	assert.NotEmpty(t, desc)

	badge, _ = BadgeFor(2)
	assert.Equal(t, "Top Supporter", badge)

	badge, desc = BadgeFor(42)
	assert.Equal(t, "Reward #42", badge)
	assert.Equal(t, "Unknown reward type", desc)
}

func TestSummarizeRewards(t *testing.T) {
	records := []models.RewardRecord{
		{RewardID: 1, Amount: amount.MustBaseUnits("0.07"), Claimed: true},
		{RewardID: 2, Amount: amount.MustBaseUnits("0.05"), Claimed: false},
	}

	summary := SummarizeRewards(records)

	assert.Equal(t, amount.MustBaseUnits("0.12").String(), summary.TotalEarned)
	assert.Equal(t, "0.12", summary.TotalEarnedDisplay)
	assert.Equal(t, types.TierSilver, summary.Tier)
	assert.Equal(t, "Silver Supporter", summary.TierLabel)

	require.Len(t, summary.Rewards, 2)
	assert.False(t, summary.Rewards[0].ClaimRecommended)
	assert.True(t, summary.Rewards[1].ClaimRecommended)
	assert.Equal(t, "Contributor Badge", summary.Rewards[0].Badge)
	assert.Equal(t, "0.07", summary.Rewards[0].AmountDisplay)
}

func TestSummarizeRewardsEmpty(t *testing.T) {
	summary := SummarizeRewards(nil)

	assert.Equal(t, "0", summary.TotalEarned)
	assert.Equal(t, "0", summary.TotalEarnedDisplay)
	assert.Equal(t, types.TierNone, summary.Tier)
	assert.Equal(t, "No Level Yet", summary.TierLabel)
	assert.Empty(t, summary.Rewards)
}

func TestSummarizeRewardsClaimedStatePassesThrough(t *testing.T) {
	records := []models.RewardRecord{
		{RewardID: 1, Amount: amount.MustBaseUnits("0.6"), Claimed: true},
	}

	summary := SummarizeRewards(records)
	assert.Equal(t, types.TierGold, summary.Tier)
	assert.True(t, summary.Rewards[0].Claimed)
	assert.False(t, summary.Rewards[0].ClaimRecommended)
}
