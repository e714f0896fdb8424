package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress         string
	DatabaseURI        string
	LoanServiceAddress string
	RedisAddress       string
	ServiceTokenSecret string

	SyncInterval    time.Duration
	SyncBatchSize   int
	WorkerPoolSize  int
	ShutdownTimeout time.Duration
	WalletCacheTTL  time.Duration

	// Incentive policy tunables.
	OvershootThreshold    int
	OvershootRate         decimal.Decimal
	RecoveryThresholdDays int
	WithdrawableFraction  decimal.Decimal
	WithdrawalWindowMonth time.Month
}

const (
	defaultRunAddress            = ":8080"
	defaultServiceTokenSecret    = "change-me-in-production"
	defaultSyncInterval          = 5 * time.Minute
	defaultSyncBatchSize         = 32
	defaultWorkerPoolSize        = 4
	defaultShutdownTimeout       = 10 * time.Second
	defaultWalletCacheTTL        = 30 * time.Second
	defaultOvershootThreshold    = 100
	defaultOvershootRate         = "0.01"
	defaultRecoveryThresholdDays = 45
	defaultWithdrawableFraction  = "0.70"
	defaultWithdrawalWindowMonth = time.December
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:            getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:           getString(lookup, "DATABASE_URI", ""),
		LoanServiceAddress:    getString(lookup, "LOAN_SERVICE_ADDRESS", ""),
		RedisAddress:          getString(lookup, "REDIS_ADDRESS", ""),
		ServiceTokenSecret:    getString(lookup, "SERVICE_TOKEN_SECRET", defaultServiceTokenSecret),
		SyncInterval:          getDuration(lookup, "SYNC_INTERVAL", defaultSyncInterval),
		SyncBatchSize:         getInt(lookup, "SYNC_BATCH_SIZE", defaultSyncBatchSize),
		WorkerPoolSize:        getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		ShutdownTimeout:       getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		WalletCacheTTL:        getDuration(lookup, "WALLET_CACHE_TTL", defaultWalletCacheTTL),
		OvershootThreshold:    getInt(lookup, "OVERSHOOT_THRESHOLD", defaultOvershootThreshold),
		OvershootRate:         getDecimal(lookup, "OVERSHOOT_RATE", defaultOvershootRate),
		RecoveryThresholdDays: getInt(lookup, "RECOVERY_THRESHOLD_DAYS", defaultRecoveryThresholdDays),
		WithdrawableFraction:  getDecimal(lookup, "WITHDRAWABLE_FRACTION", defaultWithdrawableFraction),
		WithdrawalWindowMonth: time.Month(getInt(lookup, "WITHDRAWAL_WINDOW_MONTH", int(defaultWithdrawalWindowMonth))),
	}

	fs := flag.NewFlagSet("incentive", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		syncIntervalStr    = cfg.SyncInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.LoanServiceAddress, "l", cfg.LoanServiceAddress, "Loan fact source base URL")
	fs.StringVar(&cfg.RedisAddress, "redis", cfg.RedisAddress, "Redis address for the wallet cache (empty disables caching)")
	fs.StringVar(&cfg.ServiceTokenSecret, "token-secret", cfg.ServiceTokenSecret, "Secret for signing service tokens")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent sync workers")
	fs.StringVar(&syncIntervalStr, "sync-interval", syncIntervalStr, "Interval between wallet recomputations")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.IntVar(&cfg.SyncBatchSize, "sync-batch", cfg.SyncBatchSize, "Maximum CSOs per sync batch")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.SyncInterval, err = time.ParseDuration(syncIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid sync interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("SERVICE_TOKEN_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read service token secret file: %w", err)
		}
		cfg.ServiceTokenSecret = string(content)
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.SyncBatchSize <= 0 {
		cfg.SyncBatchSize = defaultSyncBatchSize
	}

	if cfg.SyncInterval <= 0 {
		cfg.SyncInterval = defaultSyncInterval
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.WalletCacheTTL <= 0 {
		cfg.WalletCacheTTL = defaultWalletCacheTTL
	}

	if cfg.OvershootThreshold <= 0 {
		cfg.OvershootThreshold = defaultOvershootThreshold
	}

	if cfg.RecoveryThresholdDays <= 0 {
		cfg.RecoveryThresholdDays = defaultRecoveryThresholdDays
	}

	if cfg.OvershootRate.IsNegative() || cfg.OvershootRate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("overshoot rate must be within [0, 1]")
	}

	if cfg.WithdrawableFraction.IsNegative() || cfg.WithdrawableFraction.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("withdrawable fraction must be within [0, 1]")
	}

	if cfg.WithdrawalWindowMonth < time.January || cfg.WithdrawalWindowMonth > time.December {
		return nil, fmt.Errorf("withdrawal window month must be within [1, 12]")
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.LoanServiceAddress == "" {
		return nil, fmt.Errorf("loan service address must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getDecimal(lookup envLookup, key, def string) decimal.Decimal {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			return d
		}
	}
	return decimal.RequireFromString(def)
}
