package adapter

import (
	"context"
	"math/big"
	"sync"

	"github.com/crowdchain-engine/internal/logging"
	"github.com/crowdchain-engine/internal/models"
)

const maxConsecutiveFails = 5

// FailoverReader wraps a primary and secondary ChainReader and switches to
// the secondary after repeated primary failures. Reads always go through the
// currently active reader; a successful call resets the failure counter.
type FailoverReader struct {
	mu        sync.Mutex
	primary   ChainReader
	secondary ChainReader
	active    ChainReader
	fails     int
}

// NewFailoverReader builds a reader that fails over from primary to
// secondary. secondary may be nil, in which case failover is disabled.
func NewFailoverReader(primary, secondary ChainReader) *FailoverReader {
	return &FailoverReader{
		primary:   primary,
		secondary: secondary,
		active:    primary,
	}
}

func (f *FailoverReader) current() ChainReader {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active
}

func (f *FailoverReader) record(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err == nil {
		f.fails = 0
		return
	}

	f.fails++
	if f.fails >= maxConsecutiveFails && f.secondary != nil && f.active != f.secondary {
		logging.GetGlobalLogger().WithField("consecutive_fails", f.fails).
			Warn("Primary RPC endpoint unhealthy, switching to secondary")
		f.active = f.secondary
		f.fails = 0
	}
}

func (f *FailoverReader) FetchCampaigns(ctx context.Context, offset, limit int) ([]*models.CampaignSnapshot, error) {
	snapshots, err := f.current().FetchCampaigns(ctx, offset, limit)
	f.record(err)
	return snapshots, err
}

func (f *FailoverReader) FetchContributionIDs(ctx context.Context, wallet string) ([]*big.Int, error) {
	ids, err := f.current().FetchContributionIDs(ctx, wallet)
	f.record(err)
	return ids, err
}

func (f *FailoverReader) FetchRewards(ctx context.Context, wallet string) ([]models.RewardRecord, error) {
	records, err := f.current().FetchRewards(ctx, wallet)
	f.record(err)
	return records, err
}

func (f *FailoverReader) FetchTopContributors(ctx context.Context, n int) ([]models.ContributorTotal, error) {
	totals, err := f.current().FetchTopContributors(ctx, n)
	f.record(err)
	return totals, err
}
