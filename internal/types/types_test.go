package types

import (
	"testing"
)

func TestCampaignStatusLabel(t *testing.T) {
	tests := []struct {
		status CampaignStatus
		want   string
	}{
		{StatusActive, "Active"},
		{StatusGoalAchieved, "Goal achieved"},
		{StatusEnded, "Campaign ended"},
		{CampaignStatus("unknown"), "Active"},
	}

	for _, tt := range tests {
		if got := tt.status.Label(); got != tt.want {
			t.Errorf("Label(%q) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestParseNotificationFilter(t *testing.T) {
	tests := []struct {
		input string
		want  NotificationFilter
	}{
		{"all", FilterAll},
		{"active", FilterActive},
		{"ending-soon", FilterEndingSoon},
		{"ended", FilterEnded},
		{"", FilterAll},
		{"bogus", FilterAll},
		{"Active", FilterAll}, // case sensitive by contract
	}

	for _, tt := range tests {
		if got := ParseNotificationFilter(tt.input); got != tt.want {
			t.Errorf("ParseNotificationFilter(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestRewardTierLabel(t *testing.T) {
	tests := []struct {
		tier RewardTier
		want string
	}{
		{TierGold, "Gold Donor"},
		{TierSilver, "Silver Supporter"},
		{TierBronze, "Bronze Contributor"},
		{TierNone, "No Level Yet"},
	}

	for _, tt := range tests {
		if got := tt.tier.Label(); got != tt.want {
			t.Errorf("Label(%q) = %q, want %q", tt.tier, got, tt.want)
		}
	}
}

func TestServiceErrorError(t *testing.T) {
	err := &ServiceError{Code: "VALIDATION_FAILED", Message: "invalid title"}
	if err.Error() != "invalid title" {
		t.Errorf("Error() = %q, want %q", err.Error(), "invalid title")
	}
}
