package usecase

import (
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lendtrak/incentive/internal/domain/model"
	"github.com/lendtrak/incentive/internal/pkg/period"
)

// DeductionTracker derives the recovery deduction set from loan facts.
// It is stateless: membership is recomputed on every read, so a loan
// leaves the set on the first read after its balance reaches zero and no
// clear operation ever exists.
type DeductionTracker struct {
	thresholdDays int
	logger        *slog.Logger
}

// NewDeductionTracker constructs DeductionTracker.
func NewDeductionTracker(thresholdDays int, logger *slog.Logger) *DeductionTracker {
	return &DeductionTracker{thresholdDays: thresholdDays, logger: logger}
}

// Scan returns loans aged past the recovery threshold with a positive
// balance, most overdue first, plus their summed outstanding balance.
// Facts with a missing or future disbursement date are excluded and
// logged as data-quality warnings rather than failing the scan.
func (t *DeductionTracker) Scan(facts []model.LoanFact, now time.Time) model.DeductionSet {
	set := model.DeductionSet{Total: decimal.Zero}

	for _, f := range facts {
		if f.DisbursedAt.IsZero() || f.DisbursedAt.After(now) {
			t.logger.Warn("excluding loan with invalid disbursement date",
				slog.String("loan_id", f.LoanID),
				slog.Int64("cso_id", f.CSOID),
				slog.Time("disbursed_at", f.DisbursedAt),
			)
			continue
		}
		if !f.OutstandingBalance.IsPositive() {
			continue
		}
		age := period.DaysSince(now, f.DisbursedAt)
		if age < t.thresholdDays {
			continue
		}
		set.Loans = append(set.Loans, model.DeductionLoan{
			LoanID:             f.LoanID,
			DisbursedAt:        f.DisbursedAt,
			OutstandingBalance: f.OutstandingBalance,
			DaysPast:           age - t.thresholdDays,
		})
		set.Total = set.Total.Add(f.OutstandingBalance)
	}

	sort.Slice(set.Loans, func(i, j int) bool {
		if set.Loans[i].DaysPast != set.Loans[j].DaysPast {
			return set.Loans[i].DaysPast > set.Loans[j].DaysPast
		}
		return set.Loans[i].LoanID < set.Loans[j].LoanID
	})
	return set
}
