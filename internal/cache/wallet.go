package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lendtrak/incentive/internal/domain/model"
)

// WalletCache is a best-effort read cache for assembled wallet summaries.
// A miss or a cache failure falls through to recomputation; the cache is
// never authoritative.
type WalletCache interface {
	Get(ctx context.Context, csoID int64) (*model.WalletSummary, bool)
	Set(ctx context.Context, csoID int64, summary *model.WalletSummary)
	Invalidate(ctx context.Context, csoID int64)
}

// RedisWalletCache stores summaries in Redis with a short TTL.
type RedisWalletCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisWalletCache connects a wallet cache to the given Redis address.
func NewRedisWalletCache(addr string, ttl time.Duration, logger *slog.Logger) *RedisWalletCache {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisWalletCache{client: client, ttl: ttl, logger: logger}
}

func walletKey(csoID int64) string {
	return fmt.Sprintf("wallet:%d", csoID)
}

func (c *RedisWalletCache) Get(ctx context.Context, csoID int64) (*model.WalletSummary, bool) {
	raw, err := c.client.Get(ctx, walletKey(csoID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("wallet cache read failed", slog.Int64("cso_id", csoID), slog.String("error", err.Error()))
		}
		return nil, false
	}
	var summary model.WalletSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		c.logger.Warn("wallet cache entry corrupt", slog.Int64("cso_id", csoID), slog.String("error", err.Error()))
		return nil, false
	}
	return &summary, true
}

func (c *RedisWalletCache) Set(ctx context.Context, csoID int64, summary *model.WalletSummary) {
	raw, err := json.Marshal(summary)
	if err != nil {
		c.logger.Warn("wallet cache encode failed", slog.Int64("cso_id", csoID), slog.String("error", err.Error()))
		return
	}
	if err := c.client.Set(ctx, walletKey(csoID), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("wallet cache write failed", slog.Int64("cso_id", csoID), slog.String("error", err.Error()))
	}
}

func (c *RedisWalletCache) Invalidate(ctx context.Context, csoID int64) {
	if err := c.client.Del(ctx, walletKey(csoID)).Err(); err != nil {
		c.logger.Warn("wallet cache invalidation failed", slog.Int64("cso_id", csoID), slog.String("error", err.Error()))
	}
}

// Close releases the underlying Redis connection.
func (c *RedisWalletCache) Close() error {
	return c.client.Close()
}

// NoopWalletCache disables caching; every read recomputes.
type NoopWalletCache struct{}

func (NoopWalletCache) Get(context.Context, int64) (*model.WalletSummary, bool) { return nil, false }

func (NoopWalletCache) Set(context.Context, int64, *model.WalletSummary) {}

func (NoopWalletCache) Invalidate(context.Context, int64) {}
