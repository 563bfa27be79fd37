// Package types provides common type definitions for the crowdchain engine.
package types

// CampaignStatus represents the derived lifecycle state of a campaign
type CampaignStatus string

const (
	// StatusActive represents a campaign still collecting contributions
	StatusActive CampaignStatus = "active"
	// StatusGoalAchieved represents a campaign that reached its target
	StatusGoalAchieved CampaignStatus = "goal_achieved"
	// StatusEnded represents a campaign past its deadline without reaching the target
	StatusEnded CampaignStatus = "ended"
)

// Label returns the user-facing status text
func (s CampaignStatus) Label() string {
	switch s {
	case StatusGoalAchieved:
		return "Goal achieved"
	case StatusEnded:
		return "Campaign ended"
	default:
		return "Active"
	}
}

// NotificationFilter represents a subset view over projected notifications
type NotificationFilter string

const (
	// FilterAll selects every notification
	FilterAll NotificationFilter = "all"
	// FilterActive selects notifications for campaigns still running
	FilterActive NotificationFilter = "active"
	// FilterEndingSoon selects notifications for campaigns inside the 24h window
	FilterEndingSoon NotificationFilter = "ending-soon"
	// FilterEnded selects notifications for campaigns past their deadline
	FilterEnded NotificationFilter = "ended"
)

// ParseNotificationFilter parses a filter string, defaulting to FilterAll
func ParseNotificationFilter(s string) NotificationFilter {
	switch NotificationFilter(s) {
	case FilterActive, FilterEndingSoon, FilterEnded:
		return NotificationFilter(s)
	default:
		return FilterAll
	}
}

// RewardTier represents a named bracket of cumulative reward value
type RewardTier string

const (
	// TierGold is awarded at 0.5 ETH total earned or more
	TierGold RewardTier = "gold"
	// TierSilver is awarded at 0.1 ETH total earned or more
	TierSilver RewardTier = "silver"
	// TierBronze is awarded for any non-zero total
	TierBronze RewardTier = "bronze"
	// TierNone is the zero-total tier
	TierNone RewardTier = "none"
)

// Label returns the user-facing tier text
func (t RewardTier) Label() string {
	switch t {
	case TierGold:
		return "Gold Donor"
	case TierSilver:
		return "Silver Supporter"
	case TierBronze:
		return "Bronze Contributor"
	default:
		return "No Level Yet"
	}
}

// UserTier represents the API service tier level
type UserTier string

const (
	// TierFree represents the free service tier with limited request rates
	TierFree UserTier = "free"
	// TierPaid represents the paid service tier with full request rates
	TierPaid UserTier = "paid"
)

// ServiceError represents a structured error response
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	return e.Message
}
