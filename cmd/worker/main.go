// Package main provides the sync worker entry point for the crowdchain engine.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/crowdchain-engine/internal/adapter"
	"github.com/crowdchain-engine/internal/config"
	"github.com/crowdchain-engine/internal/logging"
	"github.com/crowdchain-engine/internal/storage"
	"github.com/crowdchain-engine/internal/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logging.InitGlobalLogger(
		logging.ParseLogLevel(cfg.Logging.Level),
		logging.ParseLogFormat(cfg.Logging.Format),
	)
	logger := logging.GetGlobalLogger()

	postgres, err := storage.NewPostgresDB(&cfg.Database.Postgres)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to Postgres")
	}
	defer postgres.Close()

	redis, err := storage.NewRedisStore(&cfg.Database.Redis)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer redis.Close()

	ctx := logging.WithLogger(context.Background(), logger)

	var contributionRepo *storage.ContributionRepository
	clickhouse, err := storage.NewClickHouseDB(&cfg.Database.ClickHouse)
	if err != nil {
		logger.WithError(err).Warn("ClickHouse unavailable, event ingestion disabled")
	} else {
		defer clickhouse.Close()
		if err := clickhouse.EnsureSchema(ctx); err != nil {
			logger.WithError(err).Fatal("Failed to ensure ClickHouse schema")
		}
		contributionRepo = storage.NewContributionRepository(clickhouse)
	}

	reader, err := adapter.NewEthereumReader(cfg.Chain.RPCPrimary, cfg.Chain.ContractAddress)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize chain reader")
	}
	defer reader.Close()

	var scanner adapter.EventScanner
	if contributionRepo != nil {
		scanner = reader
	}

	syncWorker, err := worker.NewSyncWorker(&worker.SyncWorkerConfig{
		Reader:         reader,
		Scanner:        scanner,
		Campaigns:      storage.NewCampaignRepository(postgres),
		Contributions:  contributionRepo,
		Notifications:  storage.NewNotificationRepository(redis),
		TrackedWallets: cfg.Sync.TrackedWallets,
		PollInterval:   cfg.Sync.PollInterval,
		PageSize:       cfg.Chain.PageSize,
	})
	if err != nil {
		logger.WithError(err).Fatal("Failed to create sync worker")
	}

	if err := syncWorker.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Failed to start sync worker")
	}

	logger.Info("Sync worker running")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("Shutdown signal received")

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := syncWorker.Stop(stopCtx); err != nil {
		logger.WithError(err).Error("Sync worker stop failed")
	}

	logger.Info("Sync worker stopped")
}
