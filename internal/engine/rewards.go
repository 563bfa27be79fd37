package engine

import (
	"fmt"
	"math/big"

	"github.com/crowdchain-engine/internal/amount"
	"github.com/crowdchain-engine/internal/models"
	"github.com/crowdchain-engine/internal/types"
)

// Tier thresholds in pre-converted base units so the comparison is exact
// and never goes through a lossy display conversion.
var (
	tierGoldMin   = amount.MustBaseUnits("0.5")
	tierSilverMin = amount.MustBaseUnits("0.1")
)

type rewardBadge struct {
	Badge       string
	Description string
}

// rewardCatalog maps known on-chain reward ids to their badge metadata.
// Unknown ids fall back to a generic label rather than failing.
var rewardCatalog = map[int64]rewardBadge{
	1: {
		Badge:       "Contributor Badge",
		Description: "Awarded for making a contribution to a campaign",
	},
	2: {
		Badge:       "Top Supporter",
		Description: "Awarded for contributing multiple times",
	},
}

// BadgeFor resolves the badge metadata for a reward id.
func BadgeFor(rewardID int64) (badge, description string) {
	if b, ok := rewardCatalog[rewardID]; ok {
		return b.Badge, b.Description
	}
	return fmt.Sprintf("Reward #%d", rewardID), "Unknown reward type"
}

// SummarizeRewards computes the total earned value of a participant's
// reward set and the associated tier. Claimed state is reported as given;
// unclaimed rewards carry a claim recommendation, but claiming itself is
// an external transaction this engine never performs.
func SummarizeRewards(records []models.RewardRecord) models.RewardSummary {
	amounts := make([]*big.Int, len(records))
	views := make([]models.RewardView, len(records))
	for i, record := range records {
		amounts[i] = record.Amount
		badge, description := BadgeFor(record.RewardID)
		views[i] = models.RewardView{
			RewardID:         record.RewardID,
			Amount:           decimalOrZero(record.Amount),
			AmountDisplay:    amount.ToDisplay(record.Amount),
			Claimed:          record.Claimed,
			ClaimRecommended: !record.Claimed,
			Badge:            badge,
			Description:      description,
		}
	}

	total := amount.Sum(amounts...)
	tier := TierFor(total)

	return models.RewardSummary{
		TotalEarned:        total.String(),
		TotalEarnedDisplay: amount.ToDisplay(total),
		Tier:               tier,
		TierLabel:          tier.Label(),
		Rewards:            views,
	}
}

// TierFor maps a base-unit total to its reward tier.
func TierFor(totalEarned *big.Int) types.RewardTier {
	if totalEarned == nil || totalEarned.Sign() <= 0 {
		return types.TierNone
	}
	switch {
	case totalEarned.Cmp(tierGoldMin) >= 0:
		return types.TierGold
	case totalEarned.Cmp(tierSilverMin) >= 0:
		return types.TierSilver
	default:
		return types.TierBronze
	}
}
