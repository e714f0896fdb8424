package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/lendtrak/incentive/internal/domain/errors"
	"github.com/lendtrak/incentive/internal/domain/model"
	testhelpers "github.com/lendtrak/incentive/internal/test"
)

func newWithdrawal(base string, metrics *testhelpers.MetricRepositoryStub, receipts *testhelpers.ReceiptRepositoryStub) *WithdrawalUseCase {
	ledger := newLedger(
		&testhelpers.LoanSourceStub{},
		testhelpers.BaseBonusRepositoryStub{Amount: decimal.RequireFromString(base)},
		metrics,
		&testhelpers.HistoryRepositoryStub{},
	)
	return NewWithdrawalUseCase(ledger, receipts, time.December, discardLogger())
}

func TestWithdrawalApproveOutsideWindow(t *testing.T) {
	uc := newWithdrawal("100000", &testhelpers.MetricRepositoryStub{}, &testhelpers.ReceiptRepositoryStub{})
	now := time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)
	if _, err := uc.Approve(context.Background(), 7, now, nil); !errors.Is(err, domainErrors.ErrWindowClosed) {
		t.Fatalf("expected ErrWindowClosed, got %v", err)
	}
}

func TestWithdrawalApproveCreatesReceipt(t *testing.T) {
	receipts := &testhelpers.ReceiptRepositoryStub{}
	uc := newWithdrawal("100000", &testhelpers.MetricRepositoryStub{}, receipts)
	now := time.Date(2025, time.December, 5, 10, 0, 0, 0, time.UTC)

	receipt, err := uc.Approve(context.Background(), 7, now, nil)
	if err != nil {
		t.Fatalf("approve returned error: %v", err)
	}
	if receipt.ID == "" {
		t.Fatal("expected receipt id")
	}
	if got := receipt.Amount.String(); got != "70000" {
		t.Fatalf("expected amount 70000, got %s", got)
	}
	if receipt.WindowYear != 2025 {
		t.Fatalf("expected window year 2025, got %d", receipt.WindowYear)
	}
	if !receipt.Breakdown.PerformancePortion.Add(receipt.Breakdown.OvershootPortion).Equal(receipt.Amount) {
		t.Fatal("breakdown portions must sum to the amount")
	}
	if len(receipts.Approved) != 1 {
		t.Fatalf("expected one stored receipt, got %d", len(receipts.Approved))
	}
}

func TestWithdrawalApproveBreakdownProportions(t *testing.T) {
	metrics := &testhelpers.MetricRepositoryStub{}
	metrics.Upserts = append(metrics.Upserts, model.OvershootMetric{
		CSOID: 7, Year: 2025, Month: time.December,
		OvershootBonus: decimal.RequireFromString("30000"),
	})
	uc := newWithdrawal("100000", metrics, &testhelpers.ReceiptRepositoryStub{})
	now := time.Date(2025, time.December, 5, 10, 0, 0, 0, time.UTC)

	receipt, err := uc.Approve(context.Background(), 7, now, nil)
	if err != nil {
		t.Fatalf("approve returned error: %v", err)
	}
	// total 130000, withdrawable 91000; overshoot share 30000/130000.
	if got := receipt.Amount.String(); got != "91000" {
		t.Fatalf("expected amount 91000, got %s", got)
	}
	if got := receipt.Breakdown.OvershootPortion.String(); got != "21000" {
		t.Fatalf("expected overshoot portion 21000, got %s", got)
	}
	if got := receipt.Breakdown.PerformancePortion.String(); got != "70000" {
		t.Fatalf("expected performance portion 70000, got %s", got)
	}
}

func TestWithdrawalApproveTwiceSameYear(t *testing.T) {
	receipts := &testhelpers.ReceiptRepositoryStub{}
	uc := newWithdrawal("100000", &testhelpers.MetricRepositoryStub{}, receipts)
	now := time.Date(2025, time.December, 5, 10, 0, 0, 0, time.UTC)

	if _, err := uc.Approve(context.Background(), 7, now, nil); err != nil {
		t.Fatalf("first approve returned error: %v", err)
	}
	if _, err := uc.Approve(context.Background(), 7, now, nil); !errors.Is(err, domainErrors.ErrAlreadyApproved) {
		t.Fatalf("expected ErrAlreadyApproved, got %v", err)
	}
	if len(receipts.Approved) != 1 {
		t.Fatalf("expected a single receipt, got %d", len(receipts.Approved))
	}
}

func TestWithdrawalApproveRaceLosesToConstraint(t *testing.T) {
	receipts := &testhelpers.ReceiptRepositoryStub{
		ByYearFn: func(context.Context, int64, int) (*model.WithdrawalReceipt, error) {
			return nil, domainErrors.ErrNotFound
		},
		ApproveFn: func(context.Context, *model.WithdrawalReceipt) error {
			return domainErrors.ErrAlreadyApproved
		},
	}
	uc := newWithdrawal("100000", &testhelpers.MetricRepositoryStub{}, receipts)
	now := time.Date(2025, time.December, 5, 10, 0, 0, 0, time.UTC)

	if _, err := uc.Approve(context.Background(), 7, now, nil); !errors.Is(err, domainErrors.ErrAlreadyApproved) {
		t.Fatalf("expected ErrAlreadyApproved from the constraint, got %v", err)
	}
}

func TestWithdrawalApproveDustGuard(t *testing.T) {
	uc := newWithdrawal("0.01", &testhelpers.MetricRepositoryStub{}, &testhelpers.ReceiptRepositoryStub{})
	now := time.Date(2025, time.December, 5, 10, 0, 0, 0, time.UTC)

	if _, err := uc.Approve(context.Background(), 7, now, nil); !errors.Is(err, domainErrors.ErrNothingToWithdraw) {
		t.Fatalf("expected ErrNothingToWithdraw, got %v", err)
	}
}

func TestWithdrawalApproveStaleSnapshotConflict(t *testing.T) {
	uc := newWithdrawal("100000", &testhelpers.MetricRepositoryStub{}, &testhelpers.ReceiptRepositoryStub{})
	now := time.Date(2025, time.December, 5, 10, 0, 0, 0, time.UTC)

	// Caller saw a deduction total of 500; the fresh snapshot has none.
	seen := decimal.RequireFromString("500")
	if _, err := uc.Approve(context.Background(), 7, now, &seen); !errors.Is(err, domainErrors.ErrStaleSnapshotConflict) {
		t.Fatalf("expected ErrStaleSnapshotConflict, got %v", err)
	}

	matching := decimal.Zero
	if _, err := uc.Approve(context.Background(), 7, now, &matching); err != nil {
		t.Fatalf("expected matching expectation to pass, got %v", err)
	}
}

func TestWithdrawalApproveRefusesStaleSnapshot(t *testing.T) {
	history := &testhelpers.HistoryRepositoryStub{LatestRow: &model.HistoryRow{
		CSOID: 7, Year: 2025, Month: time.November,
		RemainingBonus: decimal.RequireFromString("1000"),
		Withdrawable:   decimal.RequireFromString("700"),
		Locked:         decimal.RequireFromString("300"),
	}}
	ledger := NewLedgerUseCase(
		&testhelpers.LoanSourceStub{Err: errors.New("loan subsystem down")},
		testhelpers.BaseBonusRepositoryStub{},
		&testhelpers.MetricRepositoryStub{},
		history,
		NewDeductionTracker(45, discardLogger()),
		decimal.RequireFromString("0.70"),
		discardLogger(),
	)
	uc := NewWithdrawalUseCase(ledger, &testhelpers.ReceiptRepositoryStub{}, time.December, discardLogger())
	now := time.Date(2025, time.December, 5, 10, 0, 0, 0, time.UTC)

	if _, err := uc.Approve(context.Background(), 7, now, nil); !errors.Is(err, domainErrors.ErrLoanSourceUnavailable) {
		t.Fatalf("expected approval to refuse stale data, got %v", err)
	}
}

func TestWithdrawalState(t *testing.T) {
	receipts := &testhelpers.ReceiptRepositoryStub{}
	uc := newWithdrawal("100000", &testhelpers.MetricRepositoryStub{}, receipts)

	june := time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)
	state, err := uc.State(context.Background(), 7, june, decimal.RequireFromString("70000"))
	if err != nil || state != model.WithdrawalStateClosed {
		t.Fatalf("expected closed outside window, got %v err=%v", state, err)
	}

	december := time.Date(2025, time.December, 15, 10, 0, 0, 0, time.UTC)
	state, err = uc.State(context.Background(), 7, december, decimal.RequireFromString("70000"))
	if err != nil || state != model.WithdrawalStateEligible {
		t.Fatalf("expected eligible in window, got %v err=%v", state, err)
	}

	state, err = uc.State(context.Background(), 7, december, decimal.Zero)
	if err != nil || state != model.WithdrawalStateClosed {
		t.Fatalf("expected closed for dust wallet, got %v err=%v", state, err)
	}

	if _, err := uc.Approve(context.Background(), 7, december, nil); err != nil {
		t.Fatalf("approve returned error: %v", err)
	}
	state, err = uc.State(context.Background(), 7, december, decimal.RequireFromString("70000"))
	if err != nil || state != model.WithdrawalStateApproved {
		t.Fatalf("expected approved after receipt, got %v err=%v", state, err)
	}
}

func TestWithdrawalLastReceipt(t *testing.T) {
	receipts := &testhelpers.ReceiptRepositoryStub{}
	uc := newWithdrawal("100000", &testhelpers.MetricRepositoryStub{}, receipts)

	receipt, err := uc.LastReceipt(context.Background(), 7)
	if err != nil {
		t.Fatalf("last receipt returned error: %v", err)
	}
	if receipt != nil {
		t.Fatalf("expected nil receipt, got %+v", receipt)
	}

	december := time.Date(2025, time.December, 5, 10, 0, 0, 0, time.UTC)
	if _, err := uc.Approve(context.Background(), 7, december, nil); err != nil {
		t.Fatalf("approve returned error: %v", err)
	}
	receipt, err = uc.LastReceipt(context.Background(), 7)
	if err != nil || receipt == nil {
		t.Fatalf("expected stored receipt, got %+v err=%v", receipt, err)
	}
}
