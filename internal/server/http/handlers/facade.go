package handlers

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lendtrak/incentive/internal/domain/model"
)

// WalletFacade provides the read side of the wallet surface.
type WalletFacade interface {
	Wallet(ctx context.Context, csoID int64) (*model.WalletSummary, error)
	History(ctx context.Context, csoID int64, year int) ([]model.HistoryRow, error)
}

// SyncFacade triggers overshoot recomputation for one month.
type SyncFacade interface {
	SyncOvershoot(ctx context.Context, csoID int64, year int, month time.Month) (*model.OvershootMetric, error)
}

// WithdrawalFacade runs the annual cash-out workflow.
type WithdrawalFacade interface {
	ApproveWithdrawal(ctx context.Context, csoID int64, expectedDeduction *decimal.Decimal) (*model.WithdrawalReceipt, error)
}

// HealthFacade reports storage connectivity.
type HealthFacade interface {
	HealthCheck(ctx context.Context) error
}

// IncentiveFacade aggregates the full set of operations used across handlers.
type IncentiveFacade interface {
	WalletFacade
	SyncFacade
	WithdrawalFacade
	HealthFacade
}
