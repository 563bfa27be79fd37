package engine

import (
	"math/big"

	"github.com/crowdchain-engine/internal/models"
	"github.com/crowdchain-engine/internal/types"
)

// Project filters the given snapshots down to those relevant to one
// participant and maps each to a notification entry.
//
// A campaign is relevant iff the participant created it (case-insensitive
// address match) or holds a contribution id equal to the campaign id, with
// ids compared as big integers to avoid representation mismatches.
//
// Only the Read flag is carried over from the prior entries, matched by
// campaign id; everything else is recomputed from the snapshot and
// nowSeconds. Entries for campaigns no longer relevant are dropped. The
// result is a fresh slice; inputs are never mutated.
func Project(
	snapshots []*models.CampaignSnapshot,
	contributionIDs []*big.Int,
	wallet string,
	prior []models.NotificationEntry,
	nowSeconds int64,
) []models.NotificationEntry {
	readByID := make(map[string]bool, len(prior))
	for _, entry := range prior {
		readByID[entry.CampaignID] = entry.Read
	}

	entries := make([]models.NotificationEntry, 0, len(snapshots))
	for _, snapshot := range snapshots {
		if snapshot == nil || snapshot.ID == nil {
			continue
		}
		if !relevant(snapshot, contributionIDs, wallet) {
			continue
		}

		state := Classify(snapshot, nowSeconds)
		id := snapshot.ID.String()

		entries = append(entries, models.NotificationEntry{
			CampaignID:        id,
			Title:             snapshot.Title,
			RaisedAmount:      decimalOrZero(snapshot.RaisedAmount),
			TargetAmount:      decimalOrZero(snapshot.TargetAmount),
			ProgressPercent:   state.ProgressPercent,
			ContributorsCount: snapshot.ContributorsCount,
			TimeLeftSeconds:   state.TimeLeftSeconds,
			TimeLeftText:      state.TimeLeftText,
			Status:            state.Status,
			StatusLabel:       state.Status.Label(),
			IsActive:          state.IsActive,
			IsEndingSoon:      state.IsEndingSoon,
			IsEnded:           state.IsEnded,
			Read:              readByID[id],
		})
	}

	return entries
}

func relevant(snapshot *models.CampaignSnapshot, contributionIDs []*big.Int, wallet string) bool {
	if snapshot.CreatedBy(wallet) {
		return true
	}
	for _, id := range contributionIDs {
		if id != nil && id.Cmp(snapshot.ID) == 0 {
			return true
		}
	}
	return false
}

func decimalOrZero(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

// Filter returns the subset of entries matching the given view. FilterAll
// returns a copy of the full set.
func Filter(entries []models.NotificationEntry, filter types.NotificationFilter) []models.NotificationEntry {
	result := make([]models.NotificationEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.Matches(filter) {
			result = append(result, entry)
		}
	}
	return result
}

// FilterCounts returns the entry count per filter view, used for the
// filter buttons in the notification UI.
func FilterCounts(entries []models.NotificationEntry) map[types.NotificationFilter]int {
	counts := map[types.NotificationFilter]int{
		types.FilterAll:        len(entries),
		types.FilterActive:     0,
		types.FilterEndingSoon: 0,
		types.FilterEnded:      0,
	}
	for _, entry := range entries {
		if entry.IsActive {
			counts[types.FilterActive]++
		}
		if entry.IsEndingSoon {
			counts[types.FilterEndingSoon]++
		}
		if entry.IsEnded {
			counts[types.FilterEnded]++
		}
	}
	return counts
}

// UnreadCount returns the number of unread entries.
func UnreadCount(entries []models.NotificationEntry) int {
	count := 0
	for _, entry := range entries {
		if !entry.Read {
			count++
		}
	}
	return count
}

// MarkAllRead returns a copy of the entries with every Read flag set. Bulk
// transition; per-entry marking does not exist.
func MarkAllRead(entries []models.NotificationEntry) []models.NotificationEntry {
	marked := make([]models.NotificationEntry, len(entries))
	copy(marked, entries)
	for i := range marked {
		marked[i].Read = true
	}
	return marked
}
