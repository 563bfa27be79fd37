// Package config provides configuration management for the crowdchain
// engine. It loads configuration from environment variables and .env files.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Chain     ChainConfig
	Metadata  MetadataConfig
	Campaign  CampaignConfig
	Sync      SyncConfig
	RateLimit RateLimitConfig
	Logging   LoggingConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Host string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Postgres   PostgresConfig
	ClickHouse ClickHouseConfig
	Redis      RedisConfig
}

// PostgresConfig holds Postgres configuration
type PostgresConfig struct {
	Host           string
	Port           string
	Database       string
	User           string
	Password       string
	MaxConnections int
}

// ClickHouseConfig holds ClickHouse configuration
type ClickHouseConfig struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host           string
	Port           string
	Password       string
	DB             int
	MaxConnections int
}

// ChainConfig holds the chain read layer configuration
type ChainConfig struct {
	RPCPrimary      string
	RPCSecondary    string
	ContractAddress string
	PageSize        int // Campaigns fetched per paged contract call
}

// MetadataConfig holds the metadata/image store (IPFS pinning) configuration
type MetadataConfig struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

// CampaignConfig holds campaign creation parameters
type CampaignConfig struct {
	CreationFee string // Display units, converted to base units at startup
}

// SyncConfig holds sync worker configuration
type SyncConfig struct {
	PollInterval   time.Duration
	TrackedWallets []string // Wallets whose notification logs the worker pre-refreshes
}

// RateLimitConfig holds API rate limiting configuration
type RateLimitConfig struct {
	FreeTierRPS int
	PaidTierRPS int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// LoadConfig loads configuration from .env file and environment variables
func LoadConfig() (*Config, error) {
	// .env file is optional; environment variables can be set directly
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
		},
		Database: DatabaseConfig{
			Postgres: PostgresConfig{
				Host:           getEnv("POSTGRES_HOST", "localhost"),
				Port:           getEnv("POSTGRES_PORT", "5432"),
				Database:       getEnv("POSTGRES_DB", "crowdchain"),
				User:           getEnv("POSTGRES_USER", "crowdchain"),
				Password:       getEnv("POSTGRES_PASSWORD", ""),
				MaxConnections: getEnvAsInt("POSTGRES_MAX_CONNECTIONS", 50),
			},
			ClickHouse: ClickHouseConfig{
				Host:     getEnv("CLICKHOUSE_HOST", "localhost"),
				Port:     getEnv("CLICKHOUSE_PORT", "9000"),
				Database: getEnv("CLICKHOUSE_DB", "crowdchain"),
				User:     getEnv("CLICKHOUSE_USER", "default"),
				Password: getEnv("CLICKHOUSE_PASSWORD", ""),
			},
			Redis: RedisConfig{
				Host:           getEnv("REDIS_HOST", "localhost"),
				Port:           getEnv("REDIS_PORT", "6379"),
				Password:       getEnv("REDIS_PASSWORD", ""),
				DB:             getEnvAsInt("REDIS_DB", 0),
				MaxConnections: getEnvAsInt("REDIS_MAX_CONNECTIONS", 50),
			},
		},
		Chain: ChainConfig{
			RPCPrimary:      getEnv("CHAIN_RPC_PRIMARY", ""),
			RPCSecondary:    getEnv("CHAIN_RPC_SECONDARY", ""),
			ContractAddress: getEnv("CROWDFUNDING_CONTRACT_ADDRESS", ""),
			PageSize:        getEnvAsInt("CHAIN_PAGE_SIZE", 100),
		},
		Metadata: MetadataConfig{
			Endpoint: getEnv("METADATA_PIN_ENDPOINT", ""),
			APIKey:   getEnv("METADATA_API_KEY", ""),
			Timeout:  getEnvAsDuration("METADATA_TIMEOUT", 30*time.Second),
		},
		Campaign: CampaignConfig{
			CreationFee: getEnv("CAMPAIGN_CREATION_FEE", "1"),
		},
		Sync: SyncConfig{
			PollInterval:   getEnvAsDuration("SYNC_POLL_INTERVAL", 30*time.Second),
			TrackedWallets: getEnvAsList("SYNC_TRACKED_WALLETS"),
		},
		RateLimit: RateLimitConfig{
			FreeTierRPS: getEnvAsInt("RATE_LIMIT_FREE_TIER", 10),
			PaidTierRPS: getEnvAsInt("RATE_LIMIT_PAID_TIER", 100),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	return config, nil
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration gets an environment variable as a duration with a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsList gets a comma-separated environment variable as a string slice
func getEnvAsList(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	var values []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			values = append(values, p)
		}
	}
	return values
}
