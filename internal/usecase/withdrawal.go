package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainErrors "github.com/lendtrak/incentive/internal/domain/errors"
	"github.com/lendtrak/incentive/internal/domain/model"
	"github.com/lendtrak/incentive/internal/domain/repository"
	"github.com/lendtrak/incentive/internal/pkg/money"
)

// WithdrawalUseCase runs the Closed -> Eligible -> Approved transition
// for the once-a-year partial cash-out. The uniqueness constraint on
// (cso_id, window_year) is the concurrency control; a losing concurrent
// approval observes ErrAlreadyApproved, never a second receipt.
type WithdrawalUseCase struct {
	ledger      *LedgerUseCase
	receipts    repository.ReceiptRepository
	windowMonth time.Month
	logger      *slog.Logger
}

// NewWithdrawalUseCase constructs WithdrawalUseCase.
func NewWithdrawalUseCase(ledger *LedgerUseCase, receipts repository.ReceiptRepository, windowMonth time.Month, logger *slog.Logger) *WithdrawalUseCase {
	return &WithdrawalUseCase{
		ledger:      ledger,
		receipts:    receipts,
		windowMonth: windowMonth,
		logger:      logger,
	}
}

// Approve executes the approval transition. The snapshot is recomputed
// at approval time, not reused from the eligibility display; when the
// caller supplies the deduction total it saw, a mismatch fails with
// ErrStaleSnapshotConflict and the caller refetches and retries.
func (u *WithdrawalUseCase) Approve(ctx context.Context, csoID int64, now time.Time, expectedDeduction *decimal.Decimal) (*model.WithdrawalReceipt, error) {
	if now.Month() != u.windowMonth {
		return nil, domainErrors.ErrWindowClosed
	}
	windowYear := now.Year()

	if _, err := u.receipts.GetByWindowYear(ctx, csoID, windowYear); err == nil {
		return nil, domainErrors.ErrAlreadyApproved
	} else if !errors.Is(err, domainErrors.ErrNotFound) {
		return nil, fmt.Errorf("check existing receipt: %w", err)
	}

	snapshot, _, err := u.ledger.Snapshot(ctx, csoID, now)
	if err != nil {
		return nil, fmt.Errorf("compute approval snapshot: %w", err)
	}
	if snapshot.Stale {
		// Moving money on last-known data is not acceptable; the read
		// path may degrade, the approval path surfaces the failure.
		return nil, fmt.Errorf("approval snapshot unavailable: %w", domainErrors.ErrLoanSourceUnavailable)
	}

	if expectedDeduction != nil && !expectedDeduction.Equal(snapshot.DeductionTotal) {
		return nil, domainErrors.ErrStaleSnapshotConflict
	}

	if money.IsDust(snapshot.Withdrawable) {
		return nil, domainErrors.ErrNothingToWithdraw
	}

	overshootPortion := money.Share(snapshot.Withdrawable, snapshot.OvershootBonus, snapshot.TotalBonus)
	receipt := &model.WithdrawalReceipt{
		ID:         uuid.NewString(),
		CSOID:      csoID,
		WindowYear: windowYear,
		Amount:     snapshot.Withdrawable,
		Breakdown: model.Breakdown{
			PerformancePortion: snapshot.Withdrawable.Sub(overshootPortion),
			OvershootPortion:   overshootPortion,
		},
		ApprovedAt: now.UTC(),
	}

	if err := u.receipts.Approve(ctx, receipt); err != nil {
		if errors.Is(err, domainErrors.ErrAlreadyApproved) {
			return nil, domainErrors.ErrAlreadyApproved
		}
		return nil, fmt.Errorf("persist approval: %w", err)
	}

	u.logger.Info("withdrawal approved",
		slog.Int64("cso_id", csoID),
		slog.Int("window_year", windowYear),
		slog.String("amount", receipt.Amount.String()),
	)
	return receipt, nil
}

// State reports the workflow state for the window year of now, used by
// the wallet display.
func (u *WithdrawalUseCase) State(ctx context.Context, csoID int64, now time.Time, withdrawable decimal.Decimal) (model.WithdrawalState, error) {
	if _, err := u.receipts.GetByWindowYear(ctx, csoID, now.Year()); err == nil {
		return model.WithdrawalStateApproved, nil
	} else if !errors.Is(err, domainErrors.ErrNotFound) {
		return "", err
	}
	if now.Month() == u.windowMonth && !money.IsDust(withdrawable) {
		return model.WithdrawalStateEligible, nil
	}
	return model.WithdrawalStateClosed, nil
}

// LastReceipt returns the most recent receipt, or nil when none exists.
func (u *WithdrawalUseCase) LastReceipt(ctx context.Context, csoID int64) (*model.WithdrawalReceipt, error) {
	receipt, err := u.receipts.Last(ctx, csoID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return receipt, nil
}
