package engine

import (
	"math/big"
	"sort"
	"strings"

	"github.com/crowdchain-engine/internal/amount"
	"github.com/crowdchain-engine/internal/models"
)

// Rank orders contributor totals descending by amount, breaking ties by
// ascending lowercased wallet address so the order is deterministic.
// Ranks are 1-based positional indexes: equal totals still get distinct
// sequential ranks. The top three carry a presentation flag on top of the
// plain rank integer.
func Rank(totals []models.ContributorTotal) []models.LeaderboardEntry {
	sorted := make([]models.ContributorTotal, len(totals))
	copy(sorted, totals)

	sort.SliceStable(sorted, func(i, j int) bool {
		cmp := totalOrZero(sorted[i].TotalContributed).Cmp(totalOrZero(sorted[j].TotalContributed))
		if cmp != 0 {
			return cmp > 0
		}
		return strings.ToLower(sorted[i].Wallet) < strings.ToLower(sorted[j].Wallet)
	})

	entries := make([]models.LeaderboardEntry, len(sorted))
	for i, total := range sorted {
		rank := i + 1
		entries[i] = models.LeaderboardEntry{
			Wallet:           total.Wallet,
			WalletShort:      ShortWallet(total.Wallet),
			TotalContributed: totalOrZero(total.TotalContributed).String(),
			TotalDisplay:     amount.ToDisplay(total.TotalContributed),
			Rank:             rank,
			TopThree:         rank <= 3,
		}
	}
	return entries
}

func totalOrZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}

// ShortWallet renders an address as "0x1234...abcd" for display. Short
// inputs pass through unchanged.
func ShortWallet(wallet string) string {
	if len(wallet) <= 10 {
		return wallet
	}
	return wallet[:6] + "..." + wallet[len(wallet)-4:]
}
