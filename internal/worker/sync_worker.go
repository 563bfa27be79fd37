package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/crowdchain-engine/internal/adapter"
	"github.com/crowdchain-engine/internal/engine"
	"github.com/crowdchain-engine/internal/logging"
	"github.com/crowdchain-engine/internal/models"
	"github.com/crowdchain-engine/internal/retry"
	"github.com/crowdchain-engine/internal/storage"
	"github.com/google/uuid"
)

// SyncWorker keeps the local campaign cache, the contribution index and
// the per-wallet notification logs in step with the chain. One worker per
// deployment; every cycle is a full re-projection, so a missed cycle only
// delays freshness, it never corrupts state.
type SyncWorker struct {
	reader        adapter.ChainReader
	scanner       adapter.EventScanner
	campaigns     *storage.CampaignRepository
	contributions *storage.ContributionRepository
	notifications *storage.NotificationRepository

	trackedWallets []string
	pollInterval   time.Duration
	pageSize       int
	maxBlocksScan  uint64

	lastBlockScanned uint64
	lastCycleTime    time.Time
	running          bool
	mu               sync.RWMutex
	stopCh           chan struct{}
	doneCh           chan struct{}
}

// SyncWorkerConfig holds the collaborators and tuning for a sync worker.
type SyncWorkerConfig struct {
	Reader         adapter.ChainReader
	Scanner        adapter.EventScanner // optional, disables event ingestion when nil
	Campaigns      *storage.CampaignRepository
	Contributions  *storage.ContributionRepository // optional, requires Scanner
	Notifications  *storage.NotificationRepository
	TrackedWallets []string
	PollInterval   time.Duration
	PageSize       int
	MaxBlocksScan  uint64
}

// NewSyncWorker creates a sync worker.
func NewSyncWorker(cfg *SyncWorkerConfig) (*SyncWorker, error) {
	if cfg.Reader == nil {
		return nil, fmt.Errorf("chain reader cannot be nil")
	}
	if cfg.Campaigns == nil {
		return nil, fmt.Errorf("campaign repository cannot be nil")
	}
	if cfg.Notifications == nil {
		return nil, fmt.Errorf("notification repository cannot be nil")
	}

	pollInterval := cfg.PollInterval
	if pollInterval == 0 {
		pollInterval = 30 * time.Second
	}
	if pollInterval < 5*time.Second {
		return nil, fmt.Errorf("poll interval must be at least 5 seconds, got %v", pollInterval)
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	maxBlocksScan := cfg.MaxBlocksScan
	if maxBlocksScan == 0 {
		maxBlocksScan = 2000
	}

	return &SyncWorker{
		reader:         cfg.Reader,
		scanner:        cfg.Scanner,
		campaigns:      cfg.Campaigns,
		contributions:  cfg.Contributions,
		notifications:  cfg.Notifications,
		trackedWallets: cfg.TrackedWallets,
		pollInterval:   pollInterval,
		pageSize:       pageSize,
		maxBlocksScan:  maxBlocksScan,
		stopCh:         make(chan struct{}),
		doneCh:         make(chan struct{}),
	}, nil
}

// Start begins the polling loop.
func (w *SyncWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("sync worker is already running")
	}
	w.running = true
	w.mu.Unlock()

	logger := logging.FromContext(ctx)
	logger.WithFields(map[string]interface{}{
		"pollInterval":   w.pollInterval,
		"trackedWallets": len(w.trackedWallets),
	}).Info("Starting sync worker")

	if w.scanner != nil {
		current, err := w.scanner.CurrentBlock(ctx)
		if err != nil {
			w.mu.Lock()
			w.running = false
			w.mu.Unlock()
			return fmt.Errorf("failed to get current block: %w", err)
		}
		w.mu.Lock()
		w.lastBlockScanned = current
		w.mu.Unlock()
		logger.WithField("block", current).Info("Event scan initialized at current block")
	}

	go w.pollLoop(ctx)

	return nil
}

// Stop signals the polling loop and waits for it to drain.
func (w *SyncWorker) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return fmt.Errorf("sync worker is not running")
	}
	w.mu.Unlock()

	close(w.stopCh)

	select {
	case <-w.doneCh:
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(30 * time.Second):
		return fmt.Errorf("stop timeout")
	}

	w.mu.Lock()
	w.running = false
	w.mu.Unlock()

	return nil
}

func (w *SyncWorker) pollLoop(ctx context.Context) {
	defer close(w.doneCh)

	logger := logging.FromContext(ctx)

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Sync worker context cancelled")
			return
		case <-w.stopCh:
			logger.Info("Sync worker stop signal received")
			return
		case <-ticker.C:
			w.mu.Lock()
			w.lastCycleTime = time.Now()
			w.mu.Unlock()

			if err := w.SyncCycle(ctx); err != nil {
				logger.WithError(err).Error("Sync cycle failed")
			}
		}
	}
}

// SyncCycle runs one full synchronization pass: campaign snapshots, then
// contribution events, then per-wallet contribution indexes and
// notification logs. Each wallet's log is replaced in a single write.
func (w *SyncWorker) SyncCycle(ctx context.Context) error {
	cycleID := uuid.New().String()
	logger := logging.FromContext(ctx).WithField("cycleId", cycleID)
	ctx = logging.WithLogger(ctx, logger)
	start := time.Now()

	snapshots, err := w.syncCampaigns(ctx)
	if err != nil {
		return fmt.Errorf("campaign sync failed: %w", err)
	}

	if err := w.syncContributionEvents(ctx); err != nil {
		// Event ingestion lags behind but never blocks notification
		// freshness.
		logger.WithError(err).Warn("Contribution event sync failed")
	}

	nowSeconds := time.Now().Unix()
	for _, wallet := range w.trackedWallets {
		if err := w.syncWallet(ctx, wallet, snapshots, nowSeconds); err != nil {
			logger.WithError(err).WithField("wallet", wallet).Error("Wallet sync failed")
		}
	}

	logger.WithFields(map[string]interface{}{
		"campaigns": len(snapshots),
		"wallets":   len(w.trackedWallets),
		"duration":  time.Since(start),
	}).Info("Sync cycle complete")

	return nil
}

// syncCampaigns pages through the contract's campaign list and upserts
// every snapshot into the local cache.
func (w *SyncWorker) syncCampaigns(ctx context.Context) ([]*models.CampaignSnapshot, error) {
	var all []*models.CampaignSnapshot
	offset := 0
	for {
		var page []*models.CampaignSnapshot
		err := retry.Do(ctx, func(ctx context.Context, attempt int) error {
			var err error
			page, err = w.reader.FetchCampaigns(ctx, offset, w.pageSize)
			return err
		})
		if err != nil {
			return nil, err
		}

		if len(page) == 0 {
			break
		}

		if err := w.campaigns.UpsertSnapshots(ctx, page); err != nil {
			return nil, err
		}

		all = append(all, page...)
		if len(page) < w.pageSize {
			break
		}
		offset += w.pageSize
	}
	return all, nil
}

// syncContributionEvents scans new ContributionMade logs into the
// analytics store. The scan window is capped so one slow cycle cannot
// request an unbounded block range.
func (w *SyncWorker) syncContributionEvents(ctx context.Context) error {
	if w.scanner == nil || w.contributions == nil {
		return nil
	}

	current, err := w.scanner.CurrentBlock(ctx)
	if err != nil {
		return err
	}

	w.mu.RLock()
	from := w.lastBlockScanned + 1
	w.mu.RUnlock()

	if current < from {
		return nil
	}

	to := current
	if to-from+1 > w.maxBlocksScan {
		to = from + w.maxBlocksScan - 1
	}

	events, err := w.scanner.FetchContributionEvents(ctx, from, to)
	if err != nil {
		return err
	}

	if len(events) > 0 {
		if err := w.contributions.BatchInsert(ctx, events); err != nil {
			return err
		}
		logging.FromContext(ctx).WithFields(map[string]interface{}{
			"events":    len(events),
			"fromBlock": from,
			"toBlock":   to,
		}).Info("Ingested contribution events")
	}

	w.mu.Lock()
	w.lastBlockScanned = to
	w.mu.Unlock()

	return nil
}

// syncWallet refreshes one wallet's contribution index and notification
// log against the snapshots fetched this cycle.
func (w *SyncWorker) syncWallet(ctx context.Context, wallet string, snapshots []*models.CampaignSnapshot, nowSeconds int64) error {
	ids, err := w.reader.FetchContributionIDs(ctx, wallet)
	if err != nil {
		return fmt.Errorf("failed to fetch contributions: %w", err)
	}

	if err := w.campaigns.ReplaceContributions(ctx, wallet, ids); err != nil {
		return fmt.Errorf("failed to store contribution index: %w", err)
	}

	prior, err := w.notifications.Load(ctx, wallet)
	if err != nil {
		return fmt.Errorf("failed to load notification log: %w", err)
	}

	entries := engine.Project(snapshots, ids, wallet, prior, nowSeconds)

	if err := w.notifications.Replace(ctx, wallet, entries); err != nil {
		return fmt.Errorf("failed to store notification log: %w", err)
	}

	return nil
}

// Status reports the worker's health for the ops endpoint.
type Status struct {
	Running          bool      `json:"running"`
	LastCycleTime    time.Time `json:"lastCycleTime"`
	LastBlockScanned uint64    `json:"lastBlockScanned"`
	TrackedWallets   int       `json:"trackedWallets"`
}

// GetStatus returns a snapshot of the worker state.
func (w *SyncWorker) GetStatus() Status {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return Status{
		Running:          w.running,
		LastCycleTime:    w.lastCycleTime,
		LastBlockScanned: w.lastBlockScanned,
		TrackedWallets:   len(w.trackedWallets),
	}
}
