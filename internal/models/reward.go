package models

import (
	"math/big"

	"github.com/crowdchain-engine/internal/types"
)

// RewardRecord is one on-chain reward grant for a participant. Claimed
// transitions false to true exactly once, driven by an external claim
// transaction; the engine never flips the flag itself.
type RewardRecord struct {
	RewardID int64    `json:"rewardId"`
	Amount   *big.Int `json:"amount"` // Base units (wei)
	Claimed  bool     `json:"claimed"`
}

// RewardView is a RewardRecord resolved against the badge catalog.
type RewardView struct {
	RewardID         int64  `json:"rewardId"`
	Amount           string `json:"amount"`        // Base units, decimal string
	AmountDisplay    string `json:"amountDisplay"` // Decimal display units
	Claimed          bool   `json:"claimed"`
	ClaimRecommended bool   `json:"claimRecommended"`
	Badge            string `json:"badge"`
	Description      string `json:"description"`
}

// RewardSummary is the derived tier state for one participant's rewards.
type RewardSummary struct {
	TotalEarned        string           `json:"totalEarned"`        // Base units, decimal string
	TotalEarnedDisplay string           `json:"totalEarnedDisplay"` // Decimal display units
	Tier               types.RewardTier `json:"tier"`
	TierLabel          string           `json:"tierLabel"`
	Rewards            []RewardView     `json:"rewards"`
}
