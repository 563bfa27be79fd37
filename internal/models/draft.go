package models

import "math/big"

// MilestoneDraft is one milestone in a campaign creation request. Not
// persisted anywhere until the transaction layer accepts the draft.
type MilestoneDraft struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Amount      *big.Int `json:"amount"`                // Base units (wei)
	ReleaseTime int64    `json:"releaseTime,omitempty"` // Unix seconds, 0 = release after previous milestone
}

// CampaignDraft is a proposed campaign prior to validation and submission.
type CampaignDraft struct {
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	TargetAmount   *big.Int         `json:"targetAmount"` // Base units (wei)
	DurationDays   int              `json:"durationDays"`
	Milestones     []MilestoneDraft `json:"milestones,omitempty"`
	Category       string           `json:"category,omitempty"`
	Tags           []string         `json:"tags,omitempty"`
	AdditionalInfo string           `json:"additionalInfo,omitempty"`
}

// CampaignPayload is the exact payload the external transaction layer
// needs to create a campaign on chain. Amounts crossing this boundary are
// base-unit integers, never decimal strings.
type CampaignPayload struct {
	Title                 string     `json:"title"`
	Description           string     `json:"description"`
	MetadataHash          string     `json:"metadataHash"`
	TargetAmount          *big.Int   `json:"targetAmount"`    // Base units
	DurationSeconds       int64      `json:"durationSeconds"` // DurationDays * 86400
	CreationFee           *big.Int   `json:"creationFee"`     // Base units, fixed fee
	MilestoneAmounts      []*big.Int `json:"milestoneAmounts,omitempty"`
	MilestoneTitles       []string   `json:"milestoneTitles,omitempty"`
	MilestoneDescriptions []string   `json:"milestoneDescriptions,omitempty"`
	MilestoneReleaseTimes []int64    `json:"milestoneReleaseTimes,omitempty"`
}
