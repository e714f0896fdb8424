package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// WithdrawalState is the per-CSO per-window-year workflow state.
type WithdrawalState string

const (
	WithdrawalStateClosed   WithdrawalState = "CLOSED"
	WithdrawalStateEligible WithdrawalState = "ELIGIBLE"
	WithdrawalStateApproved WithdrawalState = "APPROVED"
)

// Breakdown attributes an approved amount to its bonus components.
type Breakdown struct {
	PerformancePortion decimal.Decimal
	OvershootPortion   decimal.Decimal
}

// WithdrawalReceipt records a single approved cash-out. Immutable once
// created; at most one exists per (CSOID, WindowYear).
type WithdrawalReceipt struct {
	ID         string
	CSOID      int64
	WindowYear int
	Amount     decimal.Decimal
	Breakdown  Breakdown
	ApprovedAt time.Time
}
