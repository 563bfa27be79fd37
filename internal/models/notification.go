package models

import "github.com/crowdchain-engine/internal/types"

// NotificationEntry is a derived, user-facing notification for one
// campaign. Rebuilt on every projection cycle; only the Read flag is
// carried across rebuilds, merged by CampaignID from the persisted log.
type NotificationEntry struct {
	CampaignID        string               `json:"campaignId"` // Decimal string, exact
	Title             string               `json:"title"`
	RaisedAmount      string               `json:"raisedAmount"` // Base units, decimal string
	TargetAmount      string               `json:"targetAmount"` // Base units, decimal string
	ProgressPercent   float64              `json:"progressPercent"`
	ContributorsCount int64                `json:"contributorsCount"`
	TimeLeftSeconds   int64                `json:"timeLeftSeconds"`
	TimeLeftText      string               `json:"timeLeftText"`
	Status            types.CampaignStatus `json:"status"`
	StatusLabel       string               `json:"statusLabel"`
	IsActive          bool                 `json:"isActive"`
	IsEndingSoon      bool                 `json:"isEndingSoon"`
	IsEnded           bool                 `json:"isEnded"`
	Read              bool                 `json:"read"`
}

// Matches reports whether the entry belongs to the given filter view.
func (n *NotificationEntry) Matches(filter types.NotificationFilter) bool {
	switch filter {
	case types.FilterActive:
		return n.IsActive
	case types.FilterEndingSoon:
		return n.IsEndingSoon
	case types.FilterEnded:
		return n.IsEnded
	default:
		return true
	}
}
