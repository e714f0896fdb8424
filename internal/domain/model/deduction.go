package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeductionLoan is a loan aged past the recovery threshold while still
// carrying a balance. Membership is derived from current loan facts on
// every read and never persisted; a loan leaves the set the moment its
// outstanding balance reaches zero.
type DeductionLoan struct {
	LoanID             string
	DisbursedAt        time.Time
	OutstandingBalance decimal.Decimal
	DaysPast           int
}

// DeductionSet is the ordered result of a recovery scan, most overdue first.
type DeductionSet struct {
	Loans []DeductionLoan
	Total decimal.Decimal
}
