package adapter

import (
	"context"
	"fmt"
	"math/big"
	"testing"

	"github.com/crowdchain-engine/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedReader struct {
	name  string
	err   error
	calls int
}

func (s *scriptedReader) FetchCampaigns(ctx context.Context, offset, limit int) ([]*models.CampaignSnapshot, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return []*models.CampaignSnapshot{{Title: s.name}}, nil
}

func (s *scriptedReader) FetchContributionIDs(ctx context.Context, wallet string) ([]*big.Int, error) {
	s.calls++
	return nil, s.err
}

func (s *scriptedReader) FetchRewards(ctx context.Context, wallet string) ([]models.RewardRecord, error) {
	s.calls++
	return nil, s.err
}

func (s *scriptedReader) FetchTopContributors(ctx context.Context, n int) ([]models.ContributorTotal, error) {
	s.calls++
	return nil, s.err
}

func TestFailoverReaderSwitchesAfterConsecutiveFailures(t *testing.T) {
	primary := &scriptedReader{name: "primary", err: fmt.Errorf("connection refused")}
	secondary := &scriptedReader{name: "secondary"}
	reader := NewFailoverReader(primary, secondary)
	ctx := context.Background()

	for i := 0; i < maxConsecutiveFails; i++ {
		_, err := reader.FetchCampaigns(ctx, 0, 10)
		assert.Error(t, err)
	}

	snapshots, err := reader.FetchCampaigns(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	assert.Equal(t, "secondary", snapshots[0].Title)
	assert.Equal(t, maxConsecutiveFails, primary.calls)
}

func TestFailoverReaderSuccessResetsCounter(t *testing.T) {
	primary := &scriptedReader{name: "primary"}
	secondary := &scriptedReader{name: "secondary"}
	reader := NewFailoverReader(primary, secondary)
	ctx := context.Background()

	for i := 0; i < maxConsecutiveFails-1; i++ {
		primary.err = fmt.Errorf("timeout")
		_, _ = reader.FetchCampaigns(ctx, 0, 10)
	}

	primary.err = nil
	_, err := reader.FetchCampaigns(ctx, 0, 10)
	require.NoError(t, err)

	// One more failure should not trip the failover after the reset.
	primary.err = fmt.Errorf("timeout")
	_, _ = reader.FetchCampaigns(ctx, 0, 10)

	primary.err = nil
	snapshots, err := reader.FetchCampaigns(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, "primary", snapshots[0].Title)
	assert.Equal(t, 0, secondary.calls)
}

func TestFailoverReaderWithoutSecondaryStaysOnPrimary(t *testing.T) {
	primary := &scriptedReader{name: "primary", err: fmt.Errorf("connection refused")}
	reader := NewFailoverReader(primary, nil)
	ctx := context.Background()

	for i := 0; i < maxConsecutiveFails*2; i++ {
		_, err := reader.FetchCampaigns(ctx, 0, 10)
		assert.Error(t, err)
	}
	assert.Equal(t, maxConsecutiveFails*2, primary.calls)
}
