package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OvershootMetric is the per-CSO per-month disbursement volume metric.
// It is recomputed from loan facts on every sync and overwritten in place,
// never accumulated.
type OvershootMetric struct {
	CSOID          int64
	Year           int
	Month          time.Month
	TotalLoans     int
	OvershootCount int
	OvershootValue decimal.Decimal
	OvershootBonus decimal.Decimal
	ComputedAt     time.Time
}
