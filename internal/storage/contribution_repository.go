package storage

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/crowdchain-engine/internal/models"
)

// ContributionRepository stores confirmed contribution events in
// ClickHouse, append-only. Per-wallet totals for the leaderboard are
// aggregated here; the ranking itself happens in the engine.
type ContributionRepository struct {
	db *ClickHouseDB
}

// NewContributionRepository creates a new contribution repository
func NewContributionRepository(db *ClickHouseDB) *ContributionRepository {
	return &ContributionRepository{db: db}
}

// BatchInsert appends contribution events.
func (r *ContributionRepository) BatchInsert(ctx context.Context, events []*models.ContributionEvent) error {
	if len(events) == 0 {
		return nil
	}

	batch, err := r.db.Conn().PrepareBatch(ctx, `
		INSERT INTO contribution_events (campaign_id, wallet, amount, tx_hash, timestamp)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare batch: %w", err)
	}

	for _, event := range events {
		if event == nil {
			continue
		}
		err := batch.Append(
			bigString(event.CampaignID),
			strings.ToLower(event.Wallet),
			bigString(event.Amount),
			event.TxHash,
			event.Timestamp,
		)
		if err != nil {
			return fmt.Errorf("failed to append event: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to insert contribution events: %w", err)
	}
	return nil
}

// TotalsByWallet aggregates contribution totals per wallet. Amounts are
// stored as decimal strings, so the sum runs over UInt256 to stay exact
// for wei-scale values.
func (r *ContributionRepository) TotalsByWallet(ctx context.Context, limit int) ([]models.ContributorTotal, error) {
	query := `
		SELECT wallet, toString(SUM(toUInt256(amount))) AS total
		FROM contribution_events
		GROUP BY wallet
		ORDER BY SUM(toUInt256(amount)) DESC, wallet ASC
		LIMIT ?
	`

	rows, err := r.db.Conn().Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate contributions: %w", err)
	}
	defer rows.Close()

	var totals []models.ContributorTotal
	for rows.Next() {
		var wallet, raw string
		if err := rows.Scan(&wallet, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan total: %w", err)
		}
		total, ok := new(big.Int).SetString(raw, 10)
		if !ok {
			return nil, fmt.Errorf("malformed total for wallet %s: %q", wallet, raw)
		}
		totals = append(totals, models.ContributorTotal{
			Wallet:           wallet,
			TotalContributed: total,
		})
	}
	return totals, rows.Err()
}

// CountByWallet returns the number of contribution events for one wallet.
func (r *ContributionRepository) CountByWallet(ctx context.Context, wallet string) (uint64, error) {
	query := `SELECT COUNT(*) FROM contribution_events WHERE wallet = ?`

	var count uint64
	if err := r.db.Conn().QueryRow(ctx, query, strings.ToLower(wallet)).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count contributions: %w", err)
	}
	return count, nil
}
