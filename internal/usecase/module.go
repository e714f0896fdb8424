package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/lendtrak/incentive/internal/config"
	"github.com/lendtrak/incentive/internal/domain/repository"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	func(cfg *config.Config, logger *slog.Logger) *DeductionTracker {
		return NewDeductionTracker(cfg.RecoveryThresholdDays, logger)
	},
	func(cfg *config.Config, loans LoanSource, metrics repository.MetricRepository, logger *slog.Logger) *OvershootUseCase {
		return NewOvershootUseCase(loans, metrics, cfg.OvershootThreshold, cfg.OvershootRate, logger)
	},
	func(
		cfg *config.Config,
		loans LoanSource,
		baseBonuses repository.BaseBonusRepository,
		metrics repository.MetricRepository,
		history repository.HistoryRepository,
		tracker *DeductionTracker,
		logger *slog.Logger,
	) *LedgerUseCase {
		return NewLedgerUseCase(loans, baseBonuses, metrics, history, tracker, cfg.WithdrawableFraction, logger)
	},
	func(cfg *config.Config, ledger *LedgerUseCase, receipts repository.ReceiptRepository, logger *slog.Logger) *WithdrawalUseCase {
		return NewWithdrawalUseCase(ledger, receipts, cfg.WithdrawalWindowMonth, logger)
	},
)
