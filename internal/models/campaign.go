// Package models provides data models for the crowdchain engine.
package models

import (
	"math/big"
	"strings"
	"time"
)

// CampaignSnapshot is a read-only projection of on-chain campaign state as
// of one fetch. Snapshots are never mutated after creation; classification
// always produces a new derived record.
type CampaignSnapshot struct {
	ID                *big.Int  `json:"id"`
	Creator           string    `json:"creator"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	MetadataHash      string    `json:"metadataHash,omitempty"` // Opaque content hash, never interpreted
	RaisedAmount      *big.Int  `json:"raisedAmount"`           // Base units (wei)
	TargetAmount      *big.Int  `json:"targetAmount"`           // Base units (wei), > 0 for well-formed snapshots
	Deadline          int64     `json:"deadline"`               // Unix seconds
	ContributorsCount int64     `json:"contributorsCount"`
	FetchedAt         time.Time `json:"fetchedAt,omitempty"`
}

// CreatedBy reports whether the given wallet created this campaign.
// Wallet identity is case-insensitive.
func (c *CampaignSnapshot) CreatedBy(wallet string) bool {
	if c.Creator == "" || wallet == "" {
		return false
	}
	return strings.EqualFold(c.Creator, wallet)
}

// ContributorTotal is an aggregate contribution total for one wallet,
// already summed by the indexer layer.
type ContributorTotal struct {
	Wallet           string   `json:"wallet"`
	TotalContributed *big.Int `json:"totalContributed"` // Base units (wei)
}

// ContributionEvent is a single confirmed contribution as recorded by the
// indexer. Stored append-only; leaderboard totals are aggregated from it.
type ContributionEvent struct {
	CampaignID *big.Int  `json:"campaignId"`
	Wallet     string    `json:"wallet"`
	Amount     *big.Int  `json:"amount"` // Base units (wei)
	TxHash     string    `json:"txHash"`
	Timestamp  time.Time `json:"timestamp"`
}
