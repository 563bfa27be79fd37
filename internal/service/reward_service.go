package service

import (
	"context"

	"github.com/crowdchain-engine/internal/engine"
	apperrors "github.com/crowdchain-engine/internal/errors"
	"github.com/crowdchain-engine/internal/models"
)

// RewardReader reads a wallet's on-chain reward grants.
type RewardReader interface {
	FetchRewards(ctx context.Context, wallet string) ([]models.RewardRecord, error)
}

// RewardService derives reward summaries and tiers from on-chain grants.
type RewardService struct {
	reader RewardReader
}

// NewRewardService creates a reward service.
func NewRewardService(reader RewardReader) *RewardService {
	return &RewardService{reader: reader}
}

// Summary fetches the wallet's reward grants and derives the total, tier
// and badge views. A wallet with no grants gets the empty tier, not an
// error.
func (s *RewardService) Summary(ctx context.Context, wallet string) (*models.RewardSummary, error) {
	records, err := s.reader.FetchRewards(ctx, wallet)
	if err != nil {
		return nil, apperrors.NewProviderError("chain reader", err)
	}

	summary := engine.SummarizeRewards(records)
	return &summary, nil
}
