package di

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/fx"

	"github.com/lendtrak/incentive/internal/adapter/loans"
	"github.com/lendtrak/incentive/internal/app"
	"github.com/lendtrak/incentive/internal/config"
	"github.com/lendtrak/incentive/internal/domain/repository"
	"github.com/lendtrak/incentive/internal/storage/postgres"
	"github.com/lendtrak/incentive/internal/test"
)

func TestModuleComposesGraphWithReplacements(t *testing.T) {
	cfg := &config.Config{
		RunAddress:            ":0",
		DatabaseURI:           "postgres://stub",
		LoanServiceAddress:    "http://localhost",
		ServiceTokenSecret:    "secret",
		SyncInterval:          time.Millisecond,
		SyncBatchSize:         1,
		WorkerPoolSize:        1,
		ShutdownTimeout:       time.Millisecond,
		WalletCacheTTL:        time.Second,
		OvershootThreshold:    100,
		OvershootRate:         decimal.RequireFromString("0.01"),
		RecoveryThresholdDays: 45,
		WithdrawableFraction:  decimal.RequireFromString("0.70"),
		WithdrawalWindowMonth: time.December,
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	var facade *app.WalletFacade
	fxApp := fx.New(
		fx.NopLogger,
		fx.Supply(context.Background()),
		Module(
			fx.Replace(cfg),
			fx.Replace(logger),
			fx.Replace(&postgres.Storage{}),
			fx.Replace(repository.CSORepository(&test.CSORepositoryStub{})),
			fx.Replace(repository.BaseBonusRepository(test.BaseBonusRepositoryStub{})),
			fx.Replace(repository.MetricRepository(&test.MetricRepositoryStub{})),
			fx.Replace(repository.HistoryRepository(&test.HistoryRepositoryStub{})),
			fx.Replace(repository.ReceiptRepository(&test.ReceiptRepositoryStub{})),
			fx.Replace(repository.BalanceRepository(test.BalanceRepositoryStub{})),
			fx.Replace(loans.Client(&test.LoanSourceStub{})),
		),
		fx.Populate(&facade),
	)

	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx app returned error: %v", err)
	}
	t.Cleanup(func() { _ = fxApp.Stop(context.Background()) })
	if facade == nil {
		t.Fatal("expected wallet facade instance")
	}
}
