package service

import (
	"context"
	"math/big"
	"time"

	"github.com/crowdchain-engine/internal/engine"
	apperrors "github.com/crowdchain-engine/internal/errors"
	"github.com/crowdchain-engine/internal/models"
	"github.com/crowdchain-engine/internal/types"
)

// CampaignStore is the snapshot cache the notification service reads from.
// The sync worker keeps it current; the service never talks to the chain
// directly.
type CampaignStore interface {
	ListSnapshots(ctx context.Context, limit, offset int) ([]*models.CampaignSnapshot, error)
	GetContributionIDs(ctx context.Context, wallet string) ([]*big.Int, error)
}

// NotificationStore persists per-wallet notification logs.
type NotificationStore interface {
	Load(ctx context.Context, wallet string) ([]models.NotificationEntry, error)
	Replace(ctx context.Context, wallet string, entries []models.NotificationEntry) error
}

// NotificationPage is a filtered view over a wallet's notification log,
// with the per-filter counts computed over the unfiltered log.
type NotificationPage struct {
	Notifications []models.NotificationEntry       `json:"notifications"`
	Counts        map[types.NotificationFilter]int `json:"counts"`
	UnreadCount   int                              `json:"unreadCount"`
}

// NotificationService derives and serves per-wallet notification logs.
type NotificationService struct {
	campaigns     CampaignStore
	notifications NotificationStore
	pageSize      int
}

// NewNotificationService creates a notification service.
func NewNotificationService(campaigns CampaignStore, notifications NotificationStore, pageSize int) *NotificationService {
	if pageSize <= 0 {
		pageSize = 100
	}
	return &NotificationService{
		campaigns:     campaigns,
		notifications: notifications,
		pageSize:      pageSize,
	}
}

// Refresh rebuilds the wallet's notification log from the current campaign
// snapshots, carrying read flags over from the stored log, and persists the
// result. Returns the fresh log.
func (s *NotificationService) Refresh(ctx context.Context, wallet string) ([]models.NotificationEntry, error) {
	return s.RefreshAt(ctx, wallet, time.Now().Unix())
}

// RefreshAt is Refresh with an explicit evaluation time, in Unix seconds.
func (s *NotificationService) RefreshAt(ctx context.Context, wallet string, nowSeconds int64) ([]models.NotificationEntry, error) {
	snapshots, err := s.listAllSnapshots(ctx)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list campaign snapshots", err)
	}

	contributionIDs, err := s.campaigns.GetContributionIDs(ctx, wallet)
	if err != nil {
		return nil, apperrors.NewDatabaseError("load contribution index", err)
	}

	prior, err := s.notifications.Load(ctx, wallet)
	if err != nil {
		return nil, apperrors.NewCacheError("load notification log", err)
	}

	entries := engine.Project(snapshots, contributionIDs, wallet, prior, nowSeconds)

	if err := s.notifications.Replace(ctx, wallet, entries); err != nil {
		return nil, apperrors.NewCacheError("store notification log", err)
	}

	return entries, nil
}

// List returns the stored notification log filtered by the given filter,
// plus counts per filter and the unread count over the whole log.
func (s *NotificationService) List(ctx context.Context, wallet string, filter types.NotificationFilter) (*NotificationPage, error) {
	entries, err := s.notifications.Load(ctx, wallet)
	if err != nil {
		return nil, apperrors.NewCacheError("load notification log", err)
	}

	return &NotificationPage{
		Notifications: engine.Filter(entries, filter),
		Counts:        engine.FilterCounts(entries),
		UnreadCount:   engine.UnreadCount(entries),
	}, nil
}

// UnreadCount returns the number of unread entries in the stored log.
func (s *NotificationService) UnreadCount(ctx context.Context, wallet string) (int, error) {
	entries, err := s.notifications.Load(ctx, wallet)
	if err != nil {
		return 0, apperrors.NewCacheError("load notification log", err)
	}
	return engine.UnreadCount(entries), nil
}

// MarkAllRead flags every stored entry as read and persists the whole log
// in one write. Returns the updated log.
func (s *NotificationService) MarkAllRead(ctx context.Context, wallet string) ([]models.NotificationEntry, error) {
	entries, err := s.notifications.Load(ctx, wallet)
	if err != nil {
		return nil, apperrors.NewCacheError("load notification log", err)
	}

	updated := engine.MarkAllRead(entries)

	if err := s.notifications.Replace(ctx, wallet, updated); err != nil {
		return nil, apperrors.NewCacheError("store notification log", err)
	}

	return updated, nil
}

// listAllSnapshots pages through the snapshot cache until exhausted.
func (s *NotificationService) listAllSnapshots(ctx context.Context) ([]*models.CampaignSnapshot, error) {
	var all []*models.CampaignSnapshot
	offset := 0
	for {
		page, err := s.campaigns.ListSnapshots(ctx, s.pageSize, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < s.pageSize {
			return all, nil
		}
		offset += s.pageSize
	}
}
