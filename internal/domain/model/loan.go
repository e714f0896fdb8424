package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus describes the lifecycle state reported by the loan subsystem.
type LoanStatus string

const (
	LoanStatusActive     LoanStatus = "ACTIVE"
	LoanStatusRepaid     LoanStatus = "REPAID"
	LoanStatusWrittenOff LoanStatus = "WRITTEN_OFF"
)

// LoanFact is the read-only view of a single loan owned by the external
// loan subsystem. Only OutstandingBalance changes over time, and only
// downwards as repayments post.
type LoanFact struct {
	LoanID             string
	CSOID              int64
	DisbursedAt        time.Time
	DisbursedAmount    decimal.Decimal
	OutstandingBalance decimal.Decimal
	Status             LoanStatus
}
