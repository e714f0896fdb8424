package postgres

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/lendtrak/incentive/internal/config"
	"github.com/lendtrak/incentive/internal/domain/repository"
)

// Module wires PostgreSQL storage and repository adapters.
var Module = fx.Options(
	fx.Provide(newStorage),
	fx.Provide(
		func(s *Storage) repository.CSORepository { return s.CSOs() },
		func(s *Storage) repository.BaseBonusRepository { return s.BaseBonuses() },
		func(s *Storage) repository.MetricRepository { return s.Metrics() },
		func(s *Storage) repository.HistoryRepository { return s.History() },
		func(s *Storage) repository.ReceiptRepository { return s.Receipts() },
		func(s *Storage) repository.BalanceRepository { return s.Balances() },
	),
	fx.Invoke(registerLifecycle),
)

type storageParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

func newStorage(p storageParams) (*Storage, error) {
	return New(p.Ctx, p.Config.DatabaseURI, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, storage *Storage) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			storage.Close()
			return nil
		},
	})
}
