// Package main provides the API server entry point for the crowdchain engine.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/crowdchain-engine/internal/adapter"
	"github.com/crowdchain-engine/internal/amount"
	"github.com/crowdchain-engine/internal/api"
	"github.com/crowdchain-engine/internal/config"
	"github.com/crowdchain-engine/internal/logging"
	"github.com/crowdchain-engine/internal/service"
	"github.com/crowdchain-engine/internal/storage"
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
	logger.WithFields(map[string]interface{}{
		"level":  cfg.Logging.Level,
		"format": cfg.Logging.Format,
	}).Info("Structured logging initialized")

	// Database connections
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

	clickhouse, err := storage.NewClickHouseDB(&cfg.Database.ClickHouse)
	if err != nil {
		logger.WithError(err).Warn("ClickHouse unavailable, leaderboard will read from chain")
		clickhouse = nil
	} else {
		defer clickhouse.Close()
	}

	logger.Info("Database connections established")

	// Chain read layer with optional failover
	reader, err := buildChainReader(cfg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize chain reader")
	}

	// Repositories
	campaignRepo := storage.NewCampaignRepository(postgres)
	notificationRepo := storage.NewNotificationRepository(redis)

	var aggregator service.ContributionAggregator
	if clickhouse != nil {
		aggregator = storage.NewContributionRepository(clickhouse)
	}

	// Services
	creationFee, err := amount.ToBaseUnits(cfg.Campaign.CreationFee)
	if err != nil {
		logger.WithError(err).Fatal("Invalid campaign creation fee")
	}

	metadataClient := adapter.NewPinningClient(cfg.Metadata.Endpoint, cfg.Metadata.APIKey, cfg.Metadata.Timeout)

	notificationService := service.NewNotificationService(campaignRepo, notificationRepo, cfg.Chain.PageSize)
	campaignService := service.NewCampaignService(metadataClient, creationFee)
	rewardService := service.NewRewardService(reader)
	leaderboardService := service.NewLeaderboardService(aggregator, reader)

	server := api.NewServer(
		&api.ServerConfig{
			Host:            cfg.Server.Host,
			Port:            cfg.Server.Port,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			FreeTierRPS:     cfg.RateLimit.FreeTierRPS,
			PaidTierRPS:     cfg.RateLimit.PaidTierRPS,
		},
		notificationService,
		campaignService,
		rewardService,
		leaderboardService,
	)

	go func() {
		if err := server.Start(); err != nil {
			logger.WithError(err).Error("Server stopped")
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server shutdown failed")
	}

	logger.Info("Server stopped")
}

// buildChainReader wires the primary RPC reader with an optional secondary
// behind the failover wrapper.
func buildChainReader(cfg *config.Config) (adapter.ChainReader, error) {
	primary, err := adapter.NewEthereumReader(cfg.Chain.RPCPrimary, cfg.Chain.ContractAddress)
	if err != nil {
		return nil, err
	}

	if cfg.Chain.RPCSecondary == "" {
		return primary, nil
	}

	secondary, err := adapter.NewEthereumReader(cfg.Chain.RPCSecondary, cfg.Chain.ContractAddress)
	if err != nil {
		logging.GetGlobalLogger().WithError(err).Warn("Secondary RPC unavailable, continuing without failover")
		return primary, nil
	}

	return adapter.NewFailoverReader(primary, secondary), nil
}
