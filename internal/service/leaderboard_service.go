package service

import (
	"context"

	"github.com/crowdchain-engine/internal/engine"
	apperrors "github.com/crowdchain-engine/internal/errors"
	"github.com/crowdchain-engine/internal/models"
)

// ContributionAggregator returns per-wallet contribution totals, highest
// first. The analytics store is authoritative when populated; the chain
// reader serves as fallback.
type ContributionAggregator interface {
	TotalsByWallet(ctx context.Context, limit int) ([]models.ContributorTotal, error)
}

// TopContributorReader reads aggregate totals straight from the contract.
type TopContributorReader interface {
	FetchTopContributors(ctx context.Context, n int) ([]models.ContributorTotal, error)
}

// LeaderboardService ranks contributors by lifetime contribution total.
type LeaderboardService struct {
	aggregator ContributionAggregator
	reader     TopContributorReader
}

// NewLeaderboardService creates a leaderboard service. aggregator may be
// nil, in which case every query goes to the chain reader.
func NewLeaderboardService(aggregator ContributionAggregator, reader TopContributorReader) *LeaderboardService {
	return &LeaderboardService{aggregator: aggregator, reader: reader}
}

// Top returns the ranked top n contributors. Ties rank deterministically
// by wallet; an empty result set is a valid leaderboard.
func (s *LeaderboardService) Top(ctx context.Context, n int) ([]models.LeaderboardEntry, error) {
	totals, err := s.fetchTotals(ctx, n)
	if err != nil {
		return nil, err
	}

	entries := engine.Rank(totals)
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries, nil
}

func (s *LeaderboardService) fetchTotals(ctx context.Context, n int) ([]models.ContributorTotal, error) {
	if s.aggregator != nil {
		totals, err := s.aggregator.TotalsByWallet(ctx, n)
		if err == nil && len(totals) > 0 {
			return totals, nil
		}
		if err != nil && s.reader == nil {
			return nil, apperrors.NewDatabaseError("aggregate contribution totals", err)
		}
	}

	if s.reader == nil {
		return nil, apperrors.NewInternalError("no leaderboard source configured", nil)
	}

	totals, err := s.reader.FetchTopContributors(ctx, n)
	if err != nil {
		return nil, apperrors.NewProviderError("chain reader", err)
	}
	return totals, nil
}
