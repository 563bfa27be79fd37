// Package engine implements the campaign lifecycle and rewards derivation
// engine: pure computations that turn on-chain records into classified,
// time-aware user-facing state. Nothing in this package reads the wall
// clock, talks to a network, or mutates its inputs; the current time is
// always an explicit parameter so identical inputs yield identical output.
package engine

import (
	"fmt"
	"math/big"

	"github.com/crowdchain-engine/internal/amount"
	"github.com/crowdchain-engine/internal/models"
	"github.com/crowdchain-engine/internal/types"
)

// EndingSoonWindowSeconds is the countdown threshold below which an active
// campaign is flagged as ending soon (24 hours).
const EndingSoonWindowSeconds int64 = 86400

// EndedText is the fixed countdown text for campaigns past their deadline.
const EndedText = "Campaign ended"

// CampaignState is the derived lifecycle state of one campaign snapshot at
// one instant.
type CampaignState struct {
	TimeLeftSeconds int64
	TimeLeftText    string
	ProgressPercent float64
	GoalReached     bool
	Status          types.CampaignStatus
	IsActive        bool
	IsEndingSoon    bool
	IsEnded         bool
}

// Classify derives the lifecycle state of a snapshot at nowSeconds.
//
// Status precedence: goal achieved wins over ended, so a fully funded
// campaign past its deadline still reports goal achieved and carries
// IsEnded=false. A snapshot with a zero or missing target degrades to
// progress 0 instead of failing.
func Classify(snapshot *models.CampaignSnapshot, nowSeconds int64) CampaignState {
	timeLeft := snapshot.Deadline - nowSeconds
	if timeLeft < 0 {
		timeLeft = 0
	}

	goalReached := goalReached(snapshot.RaisedAmount, snapshot.TargetAmount)

	var status types.CampaignStatus
	switch {
	case goalReached:
		status = types.StatusGoalAchieved
	case timeLeft == 0:
		status = types.StatusEnded
	default:
		status = types.StatusActive
	}

	active := timeLeft > 0 && !goalReached

	return CampaignState{
		TimeLeftSeconds: timeLeft,
		TimeLeftText:    CountdownText(timeLeft),
		ProgressPercent: amount.ProgressPercent(snapshot.RaisedAmount, snapshot.TargetAmount),
		GoalReached:     goalReached,
		Status:          status,
		IsActive:        active,
		IsEndingSoon:    active && timeLeft <= EndingSoonWindowSeconds,
		IsEnded:         timeLeft == 0 && !goalReached,
	}
}

// goalReached compares base units exactly; display percentages are never
// used for this check.
func goalReached(raised, target *big.Int) bool {
	if raised == nil || target == nil || target.Sign() <= 0 {
		return false
	}
	return raised.Cmp(target) >= 0
}

// CountdownText renders the remaining time using the two coarsest nonzero
// units plus minutes: "{d}d {h}h {m}m", or "{h}h {m}m" once under a day.
func CountdownText(timeLeftSeconds int64) string {
	if timeLeftSeconds <= 0 {
		return EndedText
	}

	days := timeLeftSeconds / 86400
	hours := (timeLeftSeconds % 86400) / 3600
	minutes := (timeLeftSeconds % 3600) / 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	}
	return fmt.Sprintf("%dh %dm", hours, minutes)
}
