package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/lendtrak/incentive/internal/domain/errors"
	"github.com/lendtrak/incentive/internal/domain/model"
	"github.com/lendtrak/incentive/internal/domain/repository"
	"github.com/lendtrak/incentive/internal/pkg/money"
)

// LedgerUseCase combines the base performance bonus, the overshoot
// component and the recovery deductions into a point-in-time snapshot,
// and maintains the monthly history series behind trend charts.
type LedgerUseCase struct {
	loans       LoanSource
	baseBonuses repository.BaseBonusRepository
	metrics     repository.MetricRepository
	history     repository.HistoryRepository
	tracker     *DeductionTracker
	fraction    decimal.Decimal
	logger      *slog.Logger
}

// NewLedgerUseCase constructs LedgerUseCase.
func NewLedgerUseCase(
	loans LoanSource,
	baseBonuses repository.BaseBonusRepository,
	metrics repository.MetricRepository,
	history repository.HistoryRepository,
	tracker *DeductionTracker,
	fraction decimal.Decimal,
	logger *slog.Logger,
) *LedgerUseCase {
	return &LedgerUseCase{
		loans:       loans,
		baseBonuses: baseBonuses,
		metrics:     metrics,
		history:     history,
		tracker:     tracker,
		fraction:    fraction,
		logger:      logger,
	}
}

// Snapshot recomputes the wallet state from current inputs and rewrites
// the open history row for the month of now. When an upstream read fails
// it degrades to the last stored row flagged stale instead of returning
// a zeroed snapshot.
func (u *LedgerUseCase) Snapshot(ctx context.Context, csoID int64, now time.Time) (*model.BonusSnapshot, model.DeductionSet, error) {
	base, err := u.baseBonuses.Get(ctx, csoID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			base = decimal.Zero
		} else {
			return u.fallback(ctx, csoID, fmt.Errorf("%w: %w", domainErrors.ErrBaseBonusUnavailable, err))
		}
	}

	facts, err := u.loans.ListByCSO(ctx, csoID, time.Time{}, time.Time{})
	if err != nil {
		return u.fallback(ctx, csoID, err)
	}

	overshoot := decimal.Zero
	metric, err := u.metrics.Get(ctx, csoID, now.Year(), now.Month())
	switch {
	case err == nil:
		overshoot = metric.OvershootBonus
	case errors.Is(err, domainErrors.ErrNotFound):
		// No sync has run this month yet; the overshoot component is zero.
	default:
		return u.fallback(ctx, csoID, err)
	}

	deductions := u.tracker.Scan(facts, now)
	snapshot := u.compute(csoID, now, base, overshoot, deductions.Total)

	row := &model.HistoryRow{
		CSOID:          csoID,
		Year:           now.Year(),
		Month:          now.Month(),
		BaseBonus:      snapshot.BasePerformanceBonus,
		OvershootBonus: snapshot.OvershootBonus,
		DeductionTotal: snapshot.DeductionTotal,
		TotalBonus:     snapshot.TotalBonus,
		RemainingBonus: snapshot.RemainingBonus,
		Withdrawable:   snapshot.Withdrawable,
		Locked:         snapshot.Locked,
		AsOf:           snapshot.AsOf,
	}
	if err := u.history.UpsertOpen(ctx, row); err != nil {
		// The snapshot itself is sound; losing one trend point is
		// preferable to failing the read path.
		u.logger.Error("persist history row failed",
			slog.Int64("cso_id", csoID),
			slog.String("error", err.Error()),
		)
	}

	return snapshot, deductions, nil
}

// History returns the monthly rows for one calendar year, oldest first.
func (u *LedgerUseCase) History(ctx context.Context, csoID int64, year int) ([]model.HistoryRow, error) {
	return u.history.ListYear(ctx, csoID, year)
}

// compute applies the wallet arithmetic. Banker's rounding happens once,
// at the withdrawable figure; locked is the exact remainder so that
// withdrawable + locked always equals remaining to the cent.
func (u *LedgerUseCase) compute(csoID int64, now time.Time, base, overshoot, deduction decimal.Decimal) *model.BonusSnapshot {
	total := base.Add(overshoot)
	remaining := total.Sub(deduction)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	withdrawable := money.Round2(remaining.Mul(u.fraction))
	locked := remaining.Sub(withdrawable)

	return &model.BonusSnapshot{
		CSOID:                csoID,
		AsOf:                 now.UTC(),
		BasePerformanceBonus: base,
		OvershootBonus:       overshoot,
		DeductionTotal:       deduction,
		TotalBonus:           total,
		RemainingBonus:       remaining,
		Withdrawable:         withdrawable,
		Locked:               locked,
	}
}

// fallback serves the last stored row flagged stale. When no history
// exists the original error propagates.
func (u *LedgerUseCase) fallback(ctx context.Context, csoID int64, cause error) (*model.BonusSnapshot, model.DeductionSet, error) {
	row, err := u.history.Latest(ctx, csoID)
	if err != nil {
		return nil, model.DeductionSet{Total: decimal.Zero}, cause
	}
	u.logger.Warn("serving stale snapshot",
		slog.Int64("cso_id", csoID),
		slog.String("cause", cause.Error()),
	)
	return row.Snapshot(true), model.DeductionSet{Total: row.DeductionTotal}, nil
}
