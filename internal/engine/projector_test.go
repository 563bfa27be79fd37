package engine

import (
	"math/big"
	"testing"

	"github.com/crowdchain-engine/internal/amount"
	"github.com/crowdchain-engine/internal/models"
	"github.com/crowdchain-engine/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	creatorWallet = "0xAbC0000000000000000000000000000000000001"
	otherWallet   = "0xdef0000000000000000000000000000000000002"
)

func projectorSnapshots(now int64) []*models.CampaignSnapshot {
	return []*models.CampaignSnapshot{
		{
			ID:           big.NewInt(1),
			Creator:      "0xabc0000000000000000000000000000000000001",
			Title:        "Created by wallet",
			RaisedAmount: amount.MustBaseUnits("1"),
			TargetAmount: amount.MustBaseUnits("2"),
			Deadline:     now + 5*86400,
		},
		{
			ID:           big.NewInt(2),
			Creator:      otherWallet,
			Title:        "Contributed to",
			RaisedAmount: amount.MustBaseUnits("0.5"),
			TargetAmount: amount.MustBaseUnits("1"),
			Deadline:     now + 3600,
		},
		{
			ID:           big.NewInt(3),
			Creator:      otherWallet,
			Title:        "Unrelated",
			RaisedAmount: amount.MustBaseUnits("0.1"),
			TargetAmount: amount.MustBaseUnits("1"),
			Deadline:     now + 86400,
		},
	}
}

func TestProjectRelevance(t *testing.T) {
	now := int64(1_000_000)
	entries := Project(projectorSnapshots(now), []*big.Int{big.NewInt(2)}, creatorWallet, nil, now)

	require.Len(t, entries, 2)
	assert.Equal(t, "1", entries[0].CampaignID)
	assert.Equal(t, "2", entries[1].CampaignID)
}

func TestProjectCreatorMatchIsCaseInsensitive(t *testing.T) {
	now := int64(1_000_000)

	// Mixed-case wallet still matches the lowercased creator.
	entries := Project(projectorSnapshots(now), nil, creatorWallet, nil, now)
	require.Len(t, entries, 1)
	assert.Equal(t, "Created by wallet", entries[0].Title)
}

func TestProjectCarriesReadFlags(t *testing.T) {
	now := int64(1_000_000)
	prior := []models.NotificationEntry{
		{CampaignID: "1", Read: true},
		{CampaignID: "2", Read: false},
	}

	entries := Project(projectorSnapshots(now), []*big.Int{big.NewInt(2)}, creatorWallet, prior, now)
	require.Len(t, entries, 2)
	assert.True(t, entries[0].Read)
	assert.False(t, entries[1].Read)
}

func TestProjectDropsStaleEntries(t *testing.T) {
	now := int64(1_000_000)
	prior := []models.NotificationEntry{
		{CampaignID: "99", Read: true},
	}

	entries := Project(projectorSnapshots(now), nil, creatorWallet, prior, now)
	require.Len(t, entries, 1)
	assert.Equal(t, "1", entries[0].CampaignID)
}

func TestProjectIsIdempotent(t *testing.T) {
	now := int64(1_000_000)
	snapshots := projectorSnapshots(now)
	ids := []*big.Int{big.NewInt(2)}

	first := Project(snapshots, ids, creatorWallet, nil, now)
	second := Project(snapshots, ids, creatorWallet, first, now)
	assert.Equal(t, first, second)
}

func TestProjectSkipsNilSnapshots(t *testing.T) {
	now := int64(1_000_000)
	snapshots := append(projectorSnapshots(now), nil, &models.CampaignSnapshot{Creator: creatorWallet})

	entries := Project(snapshots, nil, creatorWallet, nil, now)
	assert.Len(t, entries, 1)
}

func TestProjectDerivedFields(t *testing.T) {
	now := int64(1_000_000)
	entries := Project(projectorSnapshots(now), []*big.Int{big.NewInt(2)}, creatorWallet, nil, now)
	require.Len(t, entries, 2)

	endingSoon := entries[1]
	assert.Equal(t, "500000000000000000", endingSoon.RaisedAmount)
	assert.Equal(t, "1000000000000000000", endingSoon.TargetAmount)
	assert.InDelta(t, 50.0, endingSoon.ProgressPercent, 1e-9)
	assert.Equal(t, "1h 0m", endingSoon.TimeLeftText)
	assert.Equal(t, types.StatusActive, endingSoon.Status)
	assert.True(t, endingSoon.IsActive)
	assert.True(t, endingSoon.IsEndingSoon)
	assert.False(t, endingSoon.IsEnded)
}

func TestFilter(t *testing.T) {
	entries := []models.NotificationEntry{
		{CampaignID: "1", IsActive: true},
		{CampaignID: "2", IsActive: true, IsEndingSoon: true},
		{CampaignID: "3", IsEnded: true},
	}

	assert.Len(t, Filter(entries, types.FilterAll), 3)
	assert.Len(t, Filter(entries, types.FilterActive), 2)
	assert.Len(t, Filter(entries, types.FilterEndingSoon), 1)
	assert.Len(t, Filter(entries, types.FilterEnded), 1)
}

func TestFilterCounts(t *testing.T) {
	entries := []models.NotificationEntry{
		{CampaignID: "1", IsActive: true},
		{CampaignID: "2", IsActive: true, IsEndingSoon: true},
		{CampaignID: "3", IsEnded: true},
	}

	counts := FilterCounts(entries)
	assert.Equal(t, 3, counts[types.FilterAll])
	assert.Equal(t, 2, counts[types.FilterActive])
	assert.Equal(t, 1, counts[types.FilterEndingSoon])
	assert.Equal(t, 1, counts[types.FilterEnded])
}

func TestUnreadCount(t *testing.T) {
	entries := []models.NotificationEntry{
		{CampaignID: "1", Read: true},
		{CampaignID: "2"},
		{CampaignID: "3"},
	}
	assert.Equal(t, 2, UnreadCount(entries))
	assert.Equal(t, 0, UnreadCount(nil))
}

func TestMarkAllRead(t *testing.T) {
	entries := []models.NotificationEntry{
		{CampaignID: "1", Read: true},
		{CampaignID: "2"},
	}

	updated := MarkAllRead(entries)
	assert.Equal(t, 0, UnreadCount(updated))

	// Input untouched.
	assert.False(t, entries[1].Read)
}
