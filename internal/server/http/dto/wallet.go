package dto

import (
	"time"

	"github.com/lendtrak/incentive/internal/domain/model"
)

// SnapshotResponse carries the point-in-time wallet figures. Monetary
// values are decimal strings to keep cents exact on the wire.
type SnapshotResponse struct {
	CSOID          int64     `json:"cso_id"`
	AsOf           time.Time `json:"as_of"`
	BaseBonus      string    `json:"base_bonus"`
	OvershootBonus string    `json:"overshoot_bonus"`
	DeductionTotal string    `json:"deduction_total"`
	TotalBonus     string    `json:"total_bonus"`
	RemainingBonus string    `json:"remaining_bonus"`
	Withdrawable   string    `json:"withdrawable"`
	Locked         string    `json:"locked"`
	Stale          bool      `json:"stale"`
}

// DeductionLoanResponse describes one loan past the recovery threshold.
type DeductionLoanResponse struct {
	LoanID             string    `json:"loan_id"`
	DisbursedAt        time.Time `json:"disbursed_at"`
	OutstandingBalance string    `json:"outstanding_balance"`
	DaysPast           int       `json:"days_past"`
}

// OvershootResponse describes the current-month disbursement metric.
type OvershootResponse struct {
	Year           int    `json:"year"`
	Month          int    `json:"month"`
	TotalLoans     int    `json:"total_loans"`
	OvershootCount int    `json:"overshoot_count"`
	OvershootValue string `json:"overshoot_value"`
	OvershootBonus string `json:"overshoot_bonus"`
}

// WalletResponse is the aggregate wallet summary payload.
type WalletResponse struct {
	Snapshot    SnapshotResponse        `json:"snapshot"`
	Deductions  []DeductionLoanResponse `json:"deductions"`
	Overshoot   OvershootResponse       `json:"overshoot"`
	State       string                  `json:"withdrawal_state"`
	LastReceipt *ReceiptResponse        `json:"last_receipt,omitempty"`
}

// NewWalletResponse maps a domain summary onto the wire shape.
func NewWalletResponse(summary *model.WalletSummary) WalletResponse {
	resp := WalletResponse{
		Snapshot: NewSnapshotResponse(summary.Snapshot),
		State:    string(summary.State),
	}
	for _, loan := range summary.Deductions.Loans {
		resp.Deductions = append(resp.Deductions, DeductionLoanResponse{
			LoanID:             loan.LoanID,
			DisbursedAt:        loan.DisbursedAt,
			OutstandingBalance: loan.OutstandingBalance.String(),
			DaysPast:           loan.DaysPast,
		})
	}
	if summary.Overshoot != nil {
		resp.Overshoot = OvershootResponse{
			Year:           summary.Overshoot.Year,
			Month:          int(summary.Overshoot.Month),
			TotalLoans:     summary.Overshoot.TotalLoans,
			OvershootCount: summary.Overshoot.OvershootCount,
			OvershootValue: summary.Overshoot.OvershootValue.String(),
			OvershootBonus: summary.Overshoot.OvershootBonus.String(),
		}
	}
	if summary.LastReceipt != nil {
		receipt := NewReceiptResponse(summary.LastReceipt)
		resp.LastReceipt = &receipt
	}
	return resp
}

// NewSnapshotResponse maps a snapshot onto the wire shape.
func NewSnapshotResponse(s *model.BonusSnapshot) SnapshotResponse {
	return SnapshotResponse{
		CSOID:          s.CSOID,
		AsOf:           s.AsOf,
		BaseBonus:      s.BasePerformanceBonus.String(),
		OvershootBonus: s.OvershootBonus.String(),
		DeductionTotal: s.DeductionTotal.String(),
		TotalBonus:     s.TotalBonus.String(),
		RemainingBonus: s.RemainingBonus.String(),
		Withdrawable:   s.Withdrawable.String(),
		Locked:         s.Locked.String(),
		Stale:          s.Stale,
	}
}
