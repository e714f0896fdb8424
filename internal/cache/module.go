package cache

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/lendtrak/incentive/internal/config"
)

// Module wires the wallet cache implementation selected by configuration.
var Module = fx.Provide(newWalletCache)

type cacheParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

func newWalletCache(p cacheParams) WalletCache {
	if p.Config.RedisAddress == "" {
		return NoopWalletCache{}
	}
	c := NewRedisWalletCache(p.Config.RedisAddress, p.Config.WalletCacheTTL, p.Logger)
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return c.Close()
		},
	})
	return c
}
