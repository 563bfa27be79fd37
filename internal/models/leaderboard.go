package models

// LeaderboardEntry is one ranked row of the contributor leaderboard.
// Derived fresh from aggregate totals; never persisted.
type LeaderboardEntry struct {
	Wallet           string `json:"wallet"`
	WalletShort      string `json:"walletShort"`      // Presentation helper, "0x1234...abcd"
	TotalContributed string `json:"totalContributed"` // Base units, decimal string
	TotalDisplay     string `json:"totalDisplay"`     // Decimal display units
	Rank             int    `json:"rank"`             // 1-based positional rank, ties get distinct ranks
	TopThree         bool   `json:"topThree"`         // Presentation flag, not a ranking rule
}
