package repository

import (
	"context"

	"github.com/lendtrak/incentive/internal/domain/model"
)

// ReceiptRepository owns withdrawal receipts and the approval transaction.
type ReceiptRepository interface {
	// Approve inserts the receipt and credits the operational balance as
	// one transaction. A second approval for the same (csoID, windowYear)
	// loses to the uniqueness constraint and returns ErrAlreadyApproved.
	Approve(ctx context.Context, receipt *model.WithdrawalReceipt) error
	GetByWindowYear(ctx context.Context, csoID int64, windowYear int) (*model.WithdrawalReceipt, error)
	Last(ctx context.Context, csoID int64) (*model.WithdrawalReceipt, error)
}

// BalanceRepository reads per-CSO operational balances. Credits happen
// only inside ReceiptRepository.Approve.
type BalanceRepository interface {
	Get(ctx context.Context, csoID int64) (*model.OperationalBalance, error)
}
