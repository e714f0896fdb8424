package app

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lendtrak/incentive/internal/cache"
	"github.com/lendtrak/incentive/internal/domain/model"
	"github.com/lendtrak/incentive/internal/domain/repository"
	"github.com/lendtrak/incentive/internal/usecase"
)

// Pinger reports storage connectivity for the health endpoint.
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

// WalletFacade aggregates the incentive use cases behind the surface the
// HTTP layer and the sync worker consume.
type WalletFacade struct {
	csos       repository.CSORepository
	overshoot  *usecase.OvershootUseCase
	ledger     *usecase.LedgerUseCase
	withdrawal *usecase.WithdrawalUseCase
	cache      cache.WalletCache
	pinger     Pinger
	now        func() time.Time
}

// NewWalletFacade constructs WalletFacade.
func NewWalletFacade(
	csos repository.CSORepository,
	overshoot *usecase.OvershootUseCase,
	ledger *usecase.LedgerUseCase,
	withdrawal *usecase.WithdrawalUseCase,
	walletCache cache.WalletCache,
	pinger Pinger,
) *WalletFacade {
	return &WalletFacade{
		csos:       csos,
		overshoot:  overshoot,
		ledger:     ledger,
		withdrawal: withdrawal,
		cache:      walletCache,
		pinger:     pinger,
		now:        time.Now,
	}
}

// Wallet assembles the full wallet summary for a CSO. Fresh summaries are
// cached; stale (degraded) ones are served but never cached.
func (f *WalletFacade) Wallet(ctx context.Context, csoID int64) (*model.WalletSummary, error) {
	if summary, ok := f.cache.Get(ctx, csoID); ok {
		return summary, nil
	}

	if _, err := f.csos.GetByID(ctx, csoID); err != nil {
		return nil, err
	}

	now := f.now()
	snapshot, deductions, err := f.ledger.Snapshot(ctx, csoID, now)
	if err != nil {
		return nil, err
	}

	metric, err := f.overshoot.Current(ctx, csoID, now.Year(), now.Month())
	if err != nil {
		return nil, err
	}

	lastReceipt, err := f.withdrawal.LastReceipt(ctx, csoID)
	if err != nil {
		return nil, err
	}

	state, err := f.withdrawal.State(ctx, csoID, now, snapshot.Withdrawable)
	if err != nil {
		return nil, err
	}

	summary := &model.WalletSummary{
		Snapshot:    snapshot,
		Deductions:  deductions,
		Overshoot:   metric,
		LastReceipt: lastReceipt,
		State:       state,
	}
	if !snapshot.Stale {
		f.cache.Set(ctx, csoID, summary)
	}
	return summary, nil
}

// SyncOvershoot recomputes the overshoot metric for a CSO and month.
func (f *WalletFacade) SyncOvershoot(ctx context.Context, csoID int64, year int, month time.Month) (*model.OvershootMetric, error) {
	if _, err := f.csos.GetByID(ctx, csoID); err != nil {
		return nil, err
	}
	metric, err := f.overshoot.Sync(ctx, csoID, year, month)
	if err != nil {
		return nil, err
	}
	f.cache.Invalidate(ctx, csoID)
	return metric, nil
}

// ApproveWithdrawal executes the annual cash-out transition.
func (f *WalletFacade) ApproveWithdrawal(ctx context.Context, csoID int64, expectedDeduction *decimal.Decimal) (*model.WithdrawalReceipt, error) {
	if _, err := f.csos.GetByID(ctx, csoID); err != nil {
		return nil, err
	}
	receipt, err := f.withdrawal.Approve(ctx, csoID, f.now(), expectedDeduction)
	if err != nil {
		return nil, err
	}
	f.cache.Invalidate(ctx, csoID)
	return receipt, nil
}

// History returns the monthly bonus rows for one calendar year.
func (f *WalletFacade) History(ctx context.Context, csoID int64, year int) ([]model.HistoryRow, error) {
	if _, err := f.csos.GetByID(ctx, csoID); err != nil {
		return nil, err
	}
	return f.ledger.History(ctx, csoID, year)
}

// CSOsForSync claims a batch of officers due for recomputation.
func (f *WalletFacade) CSOsForSync(ctx context.Context, staleBefore time.Time, limit int) ([]model.CSO, error) {
	return f.csos.SelectBatchForSync(ctx, staleBefore, limit)
}

// RecomputeWallet refreshes the current month's metric and snapshot for
// one CSO, used by the background sync worker.
func (f *WalletFacade) RecomputeWallet(ctx context.Context, csoID int64) error {
	now := f.now()
	if _, err := f.overshoot.Sync(ctx, csoID, now.Year(), now.Month()); err != nil {
		return err
	}
	if _, _, err := f.ledger.Snapshot(ctx, csoID, now); err != nil {
		return err
	}
	f.cache.Invalidate(ctx, csoID)
	return nil
}

// HealthCheck reports storage connectivity.
func (f *WalletFacade) HealthCheck(ctx context.Context) error {
	return f.pinger.HealthCheck(ctx)
}
