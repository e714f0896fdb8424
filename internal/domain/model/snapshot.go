package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BonusSnapshot is the point-in-time state of a CSO's performance wallet.
// Invariants: Withdrawable + Locked == RemainingBonus to the cent, and
// RemainingBonus <= TotalBonus.
type BonusSnapshot struct {
	CSOID                int64
	AsOf                 time.Time
	BasePerformanceBonus decimal.Decimal
	OvershootBonus       decimal.Decimal
	DeductionTotal       decimal.Decimal
	TotalBonus           decimal.Decimal
	RemainingBonus       decimal.Decimal
	Withdrawable         decimal.Decimal
	Locked               decimal.Decimal

	// Stale marks a snapshot served from the last stored history row
	// because an upstream read failed.
	Stale bool
}

// HistoryRow is one append-only monthly row of the bonus trend series.
// The row for a past, closed month is immutable; only the current or a
// future month may be rewritten by a recompute.
type HistoryRow struct {
	CSOID          int64
	Year           int
	Month          time.Month
	BaseBonus      decimal.Decimal
	OvershootBonus decimal.Decimal
	DeductionTotal decimal.Decimal
	TotalBonus     decimal.Decimal
	RemainingBonus decimal.Decimal
	Withdrawable   decimal.Decimal
	Locked         decimal.Decimal
	AsOf           time.Time
}

// Snapshot converts a stored history row back into a snapshot view.
func (r HistoryRow) Snapshot(stale bool) *BonusSnapshot {
	return &BonusSnapshot{
		CSOID:                r.CSOID,
		AsOf:                 r.AsOf,
		BasePerformanceBonus: r.BaseBonus,
		OvershootBonus:       r.OvershootBonus,
		DeductionTotal:       r.DeductionTotal,
		TotalBonus:           r.TotalBonus,
		RemainingBonus:       r.RemainingBonus,
		Withdrawable:         r.Withdrawable,
		Locked:               r.Locked,
		Stale:                stale,
	}
}
