package storage

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/crowdchain-engine/internal/models"
	"github.com/jackc/pgx/v5"
)

// CampaignRepository caches on-chain campaign snapshots and the
// per-wallet contribution id index in Postgres. The sync worker writes
// it; the API reads it. Rows mirror chain state and are replaced on every
// fetch, never edited field by field.
type CampaignRepository struct {
	db *PostgresDB
}

// NewCampaignRepository creates a new campaign repository
func NewCampaignRepository(db *PostgresDB) *CampaignRepository {
	return &CampaignRepository{db: db}
}

// UpsertSnapshots stores a page of campaign snapshots, replacing any
// previous snapshot of the same campaign.
func (r *CampaignRepository) UpsertSnapshots(ctx context.Context, snapshots []*models.CampaignSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO campaigns (id, creator, title, description, metadata_hash,
			raised_amount, target_amount, deadline, contributors_count, fetched_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			creator = EXCLUDED.creator,
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			metadata_hash = EXCLUDED.metadata_hash,
			raised_amount = EXCLUDED.raised_amount,
			target_amount = EXCLUDED.target_amount,
			deadline = EXCLUDED.deadline,
			contributors_count = EXCLUDED.contributors_count,
			fetched_at = EXCLUDED.fetched_at
	`

	now := time.Now()
	for _, s := range snapshots {
		if s == nil || s.ID == nil {
			continue
		}
		fetchedAt := s.FetchedAt
		if fetchedAt.IsZero() {
			fetchedAt = now
		}
		batch.Queue(query,
			s.ID.String(),
			strings.ToLower(s.Creator),
			s.Title,
			s.Description,
			s.MetadataHash,
			bigString(s.RaisedAmount),
			bigString(s.TargetAmount),
			s.Deadline,
			s.ContributorsCount,
			fetchedAt,
		)
	}

	results := r.db.Pool().SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to upsert campaign snapshot: %w", err)
		}
	}
	return nil
}

// ListSnapshots returns cached snapshots ordered by campaign id.
func (r *CampaignRepository) ListSnapshots(ctx context.Context, limit, offset int) ([]*models.CampaignSnapshot, error) {
	query := `
		SELECT id, creator, title, description, metadata_hash,
			raised_amount, target_amount, deadline, contributors_count, fetched_at
		FROM campaigns
		ORDER BY deadline DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Pool().Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	defer rows.Close()

	var snapshots []*models.CampaignSnapshot
	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, rows.Err()
}

// GetSnapshot returns the cached snapshot for one campaign, or nil when
// the campaign is unknown.
func (r *CampaignRepository) GetSnapshot(ctx context.Context, id *big.Int) (*models.CampaignSnapshot, error) {
	query := `
		SELECT id, creator, title, description, metadata_hash,
			raised_amount, target_amount, deadline, contributors_count, fetched_at
		FROM campaigns
		WHERE id = $1
	`

	rows, err := r.db.Pool().Query(ctx, query, id.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to get campaign: %w", err)
		}
		return nil, nil
	}
	return scanSnapshot(rows)
}

// ReplaceContributions replaces the contribution id index for a wallet.
func (r *CampaignRepository) ReplaceContributions(ctx context.Context, wallet string, campaignIDs []*big.Int) error {
	tx, err := r.db.Pool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	wallet = strings.ToLower(wallet)
	if _, err := tx.Exec(ctx, `DELETE FROM wallet_contributions WHERE wallet = $1`, wallet); err != nil {
		return fmt.Errorf("failed to clear contributions: %w", err)
	}

	for _, id := range campaignIDs {
		if id == nil {
			continue
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO wallet_contributions (wallet, campaign_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			wallet, id.String())
		if err != nil {
			return fmt.Errorf("failed to insert contribution: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit contributions: %w", err)
	}
	return nil
}

// GetContributionIDs returns the campaign ids a wallet has contributed to.
func (r *CampaignRepository) GetContributionIDs(ctx context.Context, wallet string) ([]*big.Int, error) {
	query := `SELECT campaign_id FROM wallet_contributions WHERE wallet = $1`

	rows, err := r.db.Pool().Query(ctx, query, strings.ToLower(wallet))
	if err != nil {
		return nil, fmt.Errorf("failed to get contributions: %w", err)
	}
	defer rows.Close()

	var ids []*big.Int
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan contribution id: %w", err)
		}
		id, ok := new(big.Int).SetString(raw, 10)
		if !ok {
			return nil, fmt.Errorf("malformed campaign id in index: %q", raw)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanSnapshot(rows pgx.Rows) (*models.CampaignSnapshot, error) {
	var (
		s                     models.CampaignSnapshot
		idRaw, raised, target string
	)
	err := rows.Scan(
		&idRaw,
		&s.Creator,
		&s.Title,
		&s.Description,
		&s.MetadataHash,
		&raised,
		&target,
		&s.Deadline,
		&s.ContributorsCount,
		&s.FetchedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan campaign: %w", err)
	}

	if s.ID, err = parseBig(idRaw); err != nil {
		return nil, err
	}
	if s.RaisedAmount, err = parseBig(raised); err != nil {
		return nil, err
	}
	if s.TargetAmount, err = parseBig(target); err != nil {
		return nil, err
	}
	return &s, nil
}

func bigString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func parseBig(raw string) (*big.Int, error) {
	if raw == "" {
		return new(big.Int), nil
	}
	v, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return nil, errors.New("malformed integer column: " + raw)
	}
	return v, nil
}
