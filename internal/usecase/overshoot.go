package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/lendtrak/incentive/internal/domain/errors"
	"github.com/lendtrak/incentive/internal/domain/model"
	"github.com/lendtrak/incentive/internal/domain/repository"
	"github.com/lendtrak/incentive/internal/pkg/period"
)

// LoanSource is the read-only loan fact query this engine consumes.
type LoanSource interface {
	ListByCSO(ctx context.Context, csoID int64, from, to time.Time) ([]model.LoanFact, error)
}

// OvershootUseCase recomputes per-month disbursement volume metrics.
type OvershootUseCase struct {
	loans     LoanSource
	metrics   repository.MetricRepository
	threshold int
	rate      decimal.Decimal
	logger    *slog.Logger
	now       func() time.Time
}

// NewOvershootUseCase constructs OvershootUseCase.
func NewOvershootUseCase(loans LoanSource, metrics repository.MetricRepository, threshold int, rate decimal.Decimal, logger *slog.Logger) *OvershootUseCase {
	return &OvershootUseCase{
		loans:     loans,
		metrics:   metrics,
		threshold: threshold,
		rate:      rate,
		logger:    logger,
		now:       time.Now,
	}
}

// Sync recomputes the metric for one CSO and month from current loan
// facts and overwrites the stored row. It is idempotent: unchanged facts
// produce an identical metric. When the facts cannot be read the sync
// fails as a whole and the stored metric is left untouched.
func (u *OvershootUseCase) Sync(ctx context.Context, csoID int64, year int, month time.Month) (*model.OvershootMetric, error) {
	if !period.Valid(year, month) {
		return nil, domainErrors.ErrInvalidPeriod
	}

	start, end := period.MonthInterval(year, month)
	facts, err := u.loans.ListByCSO(ctx, csoID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list loan facts: %w", err)
	}

	metric := ComputeOvershoot(csoID, year, month, facts, u.threshold, u.rate)
	metric.ComputedAt = u.now().UTC()

	if err := u.metrics.Upsert(ctx, metric); err != nil {
		return nil, fmt.Errorf("store overshoot metric: %w", err)
	}
	return metric, nil
}

// Current returns the stored metric for the month, or a zero metric when
// no sync has run yet.
func (u *OvershootUseCase) Current(ctx context.Context, csoID int64, year int, month time.Month) (*model.OvershootMetric, error) {
	metric, err := u.metrics.Get(ctx, csoID, year, month)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return &model.OvershootMetric{CSOID: csoID, Year: year, Month: month}, nil
		}
		return nil, err
	}
	return metric, nil
}

// ComputeOvershoot derives the metric from loan facts. Loans are ordered
// by disbursement time, earliest first, so the first threshold loans are
// base-qualifying and the overshoot set is deterministic. Pure function
// of its inputs.
func ComputeOvershoot(csoID int64, year int, month time.Month, facts []model.LoanFact, threshold int, rate decimal.Decimal) *model.OvershootMetric {
	start, end := period.MonthInterval(year, month)

	inMonth := make([]model.LoanFact, 0, len(facts))
	for _, f := range facts {
		if f.DisbursedAt.Before(start) || !f.DisbursedAt.Before(end) {
			continue
		}
		inMonth = append(inMonth, f)
	}
	sort.Slice(inMonth, func(i, j int) bool {
		if !inMonth[i].DisbursedAt.Equal(inMonth[j].DisbursedAt) {
			return inMonth[i].DisbursedAt.Before(inMonth[j].DisbursedAt)
		}
		return inMonth[i].LoanID < inMonth[j].LoanID
	})

	metric := &model.OvershootMetric{
		CSOID:          csoID,
		Year:           year,
		Month:          month,
		TotalLoans:     len(inMonth),
		OvershootValue: decimal.Zero,
		OvershootBonus: decimal.Zero,
	}

	if len(inMonth) <= threshold {
		return metric
	}

	metric.OvershootCount = len(inMonth) - threshold
	for _, f := range inMonth[threshold:] {
		metric.OvershootValue = metric.OvershootValue.Add(f.DisbursedAmount)
	}
	metric.OvershootBonus = metric.OvershootValue.Mul(rate)
	return metric
}
