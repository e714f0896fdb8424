package test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	errs "github.com/lendtrak/incentive/internal/domain/errors"
	"github.com/lendtrak/incentive/internal/domain/model"
)

// CSORepositoryStub serves predefined officer registry entries.
type CSORepositoryStub struct {
	GetFn   func(context.Context, int64) (*model.CSO, error)
	BatchFn func(context.Context, time.Time, int) ([]model.CSO, error)
}

// GetByID delegates to the override or returns an active officer.
func (s CSORepositoryStub) GetByID(ctx context.Context, csoID int64) (*model.CSO, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, csoID)
	}
	return &model.CSO{ID: csoID, Branch: "central", Active: true}, nil
}

// SelectBatchForSync delegates to the override or claims nothing.
func (s CSORepositoryStub) SelectBatchForSync(ctx context.Context, staleBefore time.Time, limit int) ([]model.CSO, error) {
	if s.BatchFn != nil {
		return s.BatchFn(ctx, staleBefore, limit)
	}
	return nil, nil
}

// BaseBonusRepositoryStub returns a fixed performance bonus accumulator.
type BaseBonusRepositoryStub struct {
	Amount decimal.Decimal
	Err    error
	GetFn  func(context.Context, int64) (decimal.Decimal, error)
}

// Get delegates to the override or returns the configured amount.
func (s BaseBonusRepositoryStub) Get(ctx context.Context, csoID int64) (decimal.Decimal, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, csoID)
	}
	if s.Err != nil {
		return decimal.Zero, s.Err
	}
	return s.Amount, nil
}

// MetricRepositoryStub records upserted overshoot metrics.
type MetricRepositoryStub struct {
	sync.Mutex
	UpsertFn func(context.Context, *model.OvershootMetric) error
	GetFn    func(context.Context, int64, int, time.Month) (*model.OvershootMetric, error)
	Upserts  []model.OvershootMetric
}

// Upsert records the metric or delegates to the override.
func (s *MetricRepositoryStub) Upsert(ctx context.Context, metric *model.OvershootMetric) error {
	if s.UpsertFn != nil {
		return s.UpsertFn(ctx, metric)
	}
	s.Lock()
	defer s.Unlock()
	s.Upserts = append(s.Upserts, *metric)
	return nil
}

// Get returns the last metric upserted for the period, or ErrNotFound.
func (s *MetricRepositoryStub) Get(ctx context.Context, csoID int64, year int, month time.Month) (*model.OvershootMetric, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, csoID, year, month)
	}
	s.Lock()
	defer s.Unlock()
	for i := len(s.Upserts) - 1; i >= 0; i-- {
		m := s.Upserts[i]
		if m.CSOID == csoID && m.Year == year && m.Month == month {
			return &m, nil
		}
	}
	return nil, errs.ErrNotFound
}

// HistoryRepositoryStub records monthly trend rows.
type HistoryRepositoryStub struct {
	sync.Mutex
	UpsertFn  func(context.Context, *model.HistoryRow) error
	LatestFn  func(context.Context, int64) (*model.HistoryRow, error)
	ListFn    func(context.Context, int64, int) ([]model.HistoryRow, error)
	Upserts   []model.HistoryRow
	LatestRow *model.HistoryRow
	Rows      []model.HistoryRow
}

// UpsertOpen records the row or delegates to the override.
func (s *HistoryRepositoryStub) UpsertOpen(ctx context.Context, row *model.HistoryRow) error {
	if s.UpsertFn != nil {
		return s.UpsertFn(ctx, row)
	}
	s.Lock()
	defer s.Unlock()
	s.Upserts = append(s.Upserts, *row)
	return nil
}

// Latest returns the configured fallback row, or ErrNotFound.
func (s *HistoryRepositoryStub) Latest(ctx context.Context, csoID int64) (*model.HistoryRow, error) {
	if s.LatestFn != nil {
		return s.LatestFn(ctx, csoID)
	}
	if s.LatestRow == nil {
		return nil, errs.ErrNotFound
	}
	return s.LatestRow, nil
}

// ListYear returns the configured rows.
func (s *HistoryRepositoryStub) ListYear(ctx context.Context, csoID int64, year int) ([]model.HistoryRow, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, csoID, year)
	}
	return s.Rows, nil
}

// ReceiptRepositoryStub records approved withdrawal receipts.
type ReceiptRepositoryStub struct {
	sync.Mutex
	ApproveFn func(context.Context, *model.WithdrawalReceipt) error
	ByYearFn  func(context.Context, int64, int) (*model.WithdrawalReceipt, error)
	LastFn    func(context.Context, int64) (*model.WithdrawalReceipt, error)
	Approved  []model.WithdrawalReceipt
}

// Approve records the receipt, refusing a second one for the same window.
func (s *ReceiptRepositoryStub) Approve(ctx context.Context, receipt *model.WithdrawalReceipt) error {
	if s.ApproveFn != nil {
		return s.ApproveFn(ctx, receipt)
	}
	s.Lock()
	defer s.Unlock()
	for _, r := range s.Approved {
		if r.CSOID == receipt.CSOID && r.WindowYear == receipt.WindowYear {
			return errs.ErrAlreadyApproved
		}
	}
	s.Approved = append(s.Approved, *receipt)
	return nil
}

// GetByWindowYear returns a recorded receipt for the window, or ErrNotFound.
func (s *ReceiptRepositoryStub) GetByWindowYear(ctx context.Context, csoID int64, windowYear int) (*model.WithdrawalReceipt, error) {
	if s.ByYearFn != nil {
		return s.ByYearFn(ctx, csoID, windowYear)
	}
	s.Lock()
	defer s.Unlock()
	for _, r := range s.Approved {
		if r.CSOID == csoID && r.WindowYear == windowYear {
			receipt := r
			return &receipt, nil
		}
	}
	return nil, errs.ErrNotFound
}

// Last returns the most recently recorded receipt, or ErrNotFound.
func (s *ReceiptRepositoryStub) Last(ctx context.Context, csoID int64) (*model.WithdrawalReceipt, error) {
	if s.LastFn != nil {
		return s.LastFn(ctx, csoID)
	}
	s.Lock()
	defer s.Unlock()
	for i := len(s.Approved) - 1; i >= 0; i-- {
		if s.Approved[i].CSOID == csoID {
			receipt := s.Approved[i]
			return &receipt, nil
		}
	}
	return nil, errs.ErrNotFound
}

// BalanceRepositoryStub serves a fixed operational balance.
type BalanceRepositoryStub struct {
	Balance decimal.Decimal
	GetFn   func(context.Context, int64) (*model.OperationalBalance, error)
}

// Get delegates to the override or returns the configured balance.
func (s BalanceRepositoryStub) Get(ctx context.Context, csoID int64) (*model.OperationalBalance, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, csoID)
	}
	return &model.OperationalBalance{CSOID: csoID, Balance: s.Balance}, nil
}

// LoanSourceStub serves canned loan facts and counts requests.
type LoanSourceStub struct {
	sync.Mutex
	Facts  []model.LoanFact
	Err    error
	ListFn func(context.Context, int64, time.Time, time.Time) ([]model.LoanFact, error)
	Calls  int
}

// ListByCSO delegates to the override or returns the canned facts.
func (s *LoanSourceStub) ListByCSO(ctx context.Context, csoID int64, from, to time.Time) ([]model.LoanFact, error) {
	s.Lock()
	s.Calls++
	s.Unlock()
	if s.ListFn != nil {
		return s.ListFn(ctx, csoID, from, to)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Facts, nil
}

// WalletCacheStub is an in-memory wallet cache recording invalidations.
type WalletCacheStub struct {
	sync.Mutex
	Entries     map[int64]*model.WalletSummary
	Invalidated []int64
}

// Get returns a stored summary when present.
func (s *WalletCacheStub) Get(ctx context.Context, csoID int64) (*model.WalletSummary, bool) {
	s.Lock()
	defer s.Unlock()
	summary, ok := s.Entries[csoID]
	return summary, ok
}

// Set stores the summary.
func (s *WalletCacheStub) Set(ctx context.Context, csoID int64, summary *model.WalletSummary) {
	s.Lock()
	defer s.Unlock()
	if s.Entries == nil {
		s.Entries = make(map[int64]*model.WalletSummary)
	}
	s.Entries[csoID] = summary
}

// Invalidate drops the entry and records the call.
func (s *WalletCacheStub) Invalidate(ctx context.Context, csoID int64) {
	s.Lock()
	defer s.Unlock()
	delete(s.Entries, csoID)
	s.Invalidated = append(s.Invalidated, csoID)
}
