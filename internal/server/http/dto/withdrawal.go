package dto

import (
	"time"

	"github.com/lendtrak/incentive/internal/domain/model"
)

// ApproveRequest optionally pins the deduction total the caller last saw.
// When set, approval fails with a retryable conflict if recoveries moved
// in the meantime.
type ApproveRequest struct {
	ExpectedDeduction *string `json:"expected_deduction,omitempty"`
}

// ReceiptResponse describes one approved annual cash-out.
type ReceiptResponse struct {
	ID                 string    `json:"id"`
	CSOID              int64     `json:"cso_id"`
	WindowYear         int       `json:"window_year"`
	Amount             string    `json:"amount"`
	PerformancePortion string    `json:"performance_portion"`
	OvershootPortion   string    `json:"overshoot_portion"`
	ApprovedAt         time.Time `json:"approved_at"`
}

// NewReceiptResponse maps a receipt onto the wire shape.
func NewReceiptResponse(r *model.WithdrawalReceipt) ReceiptResponse {
	return ReceiptResponse{
		ID:                 r.ID,
		CSOID:              r.CSOID,
		WindowYear:         r.WindowYear,
		Amount:             r.Amount.String(),
		PerformancePortion: r.Breakdown.PerformancePortion.String(),
		OvershootPortion:   r.Breakdown.OvershootPortion.String(),
		ApprovedAt:         r.ApprovedAt,
	}
}
