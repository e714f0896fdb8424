package test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lendtrak/incentive/internal/domain/model"
)

// WalletFacadeStub provides controllable behaviour for wallet endpoints.
type WalletFacadeStub struct {
	WalletFn  func(context.Context, int64) (*model.WalletSummary, error)
	SyncFn    func(context.Context, int64, int, time.Month) (*model.OvershootMetric, error)
	ApproveFn func(context.Context, int64, *decimal.Decimal) (*model.WithdrawalReceipt, error)
	HistoryFn func(context.Context, int64, int) ([]model.HistoryRow, error)
	HealthFn  func(context.Context) error
}

// Wallet delegates to the override or returns an empty fresh summary.
func (s WalletFacadeStub) Wallet(ctx context.Context, csoID int64) (*model.WalletSummary, error) {
	if s.WalletFn != nil {
		return s.WalletFn(ctx, csoID)
	}
	return &model.WalletSummary{
		Snapshot: &model.BonusSnapshot{CSOID: csoID},
		State:    model.WithdrawalStateClosed,
	}, nil
}

// SyncOvershoot delegates to the override or returns a zero metric.
func (s WalletFacadeStub) SyncOvershoot(ctx context.Context, csoID int64, year int, month time.Month) (*model.OvershootMetric, error) {
	if s.SyncFn != nil {
		return s.SyncFn(ctx, csoID, year, month)
	}
	return &model.OvershootMetric{CSOID: csoID, Year: year, Month: month}, nil
}

// ApproveWithdrawal delegates to the override or returns a canned receipt.
func (s WalletFacadeStub) ApproveWithdrawal(ctx context.Context, csoID int64, expected *decimal.Decimal) (*model.WithdrawalReceipt, error) {
	if s.ApproveFn != nil {
		return s.ApproveFn(ctx, csoID, expected)
	}
	return &model.WithdrawalReceipt{ID: "receipt", CSOID: csoID}, nil
}

// History delegates to the override or returns no rows.
func (s WalletFacadeStub) History(ctx context.Context, csoID int64, year int) ([]model.HistoryRow, error) {
	if s.HistoryFn != nil {
		return s.HistoryFn(ctx, csoID, year)
	}
	return nil, nil
}

// HealthCheck delegates to the override or reports healthy.
func (s WalletFacadeStub) HealthCheck(ctx context.Context) error {
	if s.HealthFn != nil {
		return s.HealthFn(ctx)
	}
	return nil
}

// WorkerFacadeStub simulates the application facade used by the sync worker.
type WorkerFacadeStub struct {
	sync.Mutex
	Batches     [][]model.CSO
	BatchFn     func(context.Context, time.Time, int) ([]model.CSO, error)
	RecomputeFn func(context.Context, int64) error
	Recomputed  []int64
}

// CSOsForSync hands out the configured batches one at a time.
func (s *WorkerFacadeStub) CSOsForSync(ctx context.Context, staleBefore time.Time, limit int) ([]model.CSO, error) {
	if s.BatchFn != nil {
		return s.BatchFn(ctx, staleBefore, limit)
	}
	s.Lock()
	defer s.Unlock()
	if len(s.Batches) == 0 {
		return nil, nil
	}
	batch := s.Batches[0]
	s.Batches = s.Batches[1:]
	return batch, nil
}

// RecomputeWallet records the officer or delegates to the override.
func (s *WorkerFacadeStub) RecomputeWallet(ctx context.Context, csoID int64) error {
	if s.RecomputeFn != nil {
		return s.RecomputeFn(ctx, csoID)
	}
	s.Lock()
	defer s.Unlock()
	s.Recomputed = append(s.Recomputed, csoID)
	return nil
}

// RecomputedIDs returns a copy of the recorded officer identifiers.
func (s *WorkerFacadeStub) RecomputedIDs() []int64 {
	s.Lock()
	defer s.Unlock()
	out := make([]int64, len(s.Recomputed))
	copy(out, s.Recomputed)
	return out
}
