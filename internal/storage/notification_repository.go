package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/crowdchain-engine/internal/engine"
	"github.com/crowdchain-engine/internal/models"
	"github.com/redis/go-redis/v9"
)

// notificationKeyPrefix is the fixed namespace for persisted notification
// logs, one whole-collection JSON document per wallet.
const notificationKeyPrefix = "notifications:"

// NotificationRepository persists the per-wallet notification log. The
// log is always read and written as a whole collection: Replace is a
// single SET, so the overwrite is atomic from the perspective of
// subsequent reads and concurrent projection cycles resolve as last
// writer wins.
type NotificationRepository struct {
	client *redis.Client
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(store *RedisStore) *NotificationRepository {
	return &NotificationRepository{client: store.Client()}
}

func notificationKey(wallet string) string {
	return notificationKeyPrefix + strings.ToLower(wallet)
}

// Load reads the persisted log for a wallet. A missing key yields an
// empty log, not an error.
func (r *NotificationRepository) Load(ctx context.Context, wallet string) ([]models.NotificationEntry, error) {
	raw, err := r.client.Get(ctx, notificationKey(wallet)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load notification log: %w", err)
	}

	var entries []models.NotificationEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("failed to decode notification log: %w", err)
	}
	return entries, nil
}

// Replace overwrites the whole log for a wallet in one write. Entries for
// campaigns no longer present are dropped implicitly.
func (r *NotificationRepository) Replace(ctx context.Context, wallet string, entries []models.NotificationEntry) error {
	if entries == nil {
		entries = []models.NotificationEntry{}
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode notification log: %w", err)
	}
	if err := r.client.Set(ctx, notificationKey(wallet), raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to store notification log: %w", err)
	}
	return nil
}

// MarkAllRead sets every entry's read flag and persists immediately. Bulk
// transition over the current log.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, wallet string) ([]models.NotificationEntry, error) {
	entries, err := r.Load(ctx, wallet)
	if err != nil {
		return nil, err
	}
	marked := engine.MarkAllRead(entries)
	if err := r.Replace(ctx, wallet, marked); err != nil {
		return nil, err
	}
	return marked, nil
}

// Delete removes a wallet's log entirely.
func (r *NotificationRepository) Delete(ctx context.Context, wallet string) error {
	if err := r.client.Del(ctx, notificationKey(wallet)).Err(); err != nil {
		return fmt.Errorf("failed to delete notification log: %w", err)
	}
	return nil
}
