package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/crowdchain-engine/internal/amount"
	"github.com/crowdchain-engine/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAggregator struct {
	totals []models.ContributorTotal
	err    error
	calls  int
}

func (m *mockAggregator) TotalsByWallet(ctx context.Context, limit int) ([]models.ContributorTotal, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.totals, nil
}

type mockTopReader struct {
	totals []models.ContributorTotal
	err    error
	calls  int
}

func (m *mockTopReader) FetchTopContributors(ctx context.Context, n int) ([]models.ContributorTotal, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.totals, nil
}

func TestLeaderboardServicePrefersAggregator(t *testing.T) {
	aggregator := &mockAggregator{totals: []models.ContributorTotal{
		{Wallet: "0xaaaa", TotalContributed: amount.MustBaseUnits("2")},
		{Wallet: "0xbbbb", TotalContributed: amount.MustBaseUnits("1")},
	}}
	reader := &mockTopReader{}
	svc := NewLeaderboardService(aggregator, reader)

	entries, err := svc.Top(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "0xaaaa", entries[0].Wallet)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 0, reader.calls, "chain reader should not be consulted")
}

func TestLeaderboardServiceFallsBackToReader(t *testing.T) {
	aggregator := &mockAggregator{} // empty analytics store
	reader := &mockTopReader{totals: []models.ContributorTotal{
		{Wallet: "0xcccc", TotalContributed: amount.MustBaseUnits("0.5")},
	}}
	svc := NewLeaderboardService(aggregator, reader)

	entries, err := svc.Top(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "0xcccc", entries[0].Wallet)
	assert.Equal(t, 1, reader.calls)
}

func TestLeaderboardServiceTruncatesToN(t *testing.T) {
	aggregator := &mockAggregator{totals: []models.ContributorTotal{
		{Wallet: "0xaaaa", TotalContributed: amount.MustBaseUnits("3")},
		{Wallet: "0xbbbb", TotalContributed: amount.MustBaseUnits("2")},
		{Wallet: "0xcccc", TotalContributed: amount.MustBaseUnits("1")},
	}}
	svc := NewLeaderboardService(aggregator, nil)

	entries, err := svc.Top(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "0xbbbb", entries[1].Wallet)
}

func TestLeaderboardServiceNoSource(t *testing.T) {
	svc := NewLeaderboardService(nil, nil)

	_, err := svc.Top(context.Background(), 10)
	assert.Error(t, err)
}

func TestLeaderboardServiceAggregatorErrorWithoutReader(t *testing.T) {
	aggregator := &mockAggregator{err: fmt.Errorf("connection refused")}
	svc := NewLeaderboardService(aggregator, nil)

	_, err := svc.Top(context.Background(), 10)
	assert.Error(t, err)
}

func TestLeaderboardServiceAggregatorErrorFallsBack(t *testing.T) {
	aggregator := &mockAggregator{err: fmt.Errorf("connection refused")}
	reader := &mockTopReader{totals: []models.ContributorTotal{
		{Wallet: "0xdddd", TotalContributed: amount.MustBaseUnits("1")},
	}}
	svc := NewLeaderboardService(aggregator, reader)

	entries, err := svc.Top(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
