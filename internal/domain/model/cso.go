package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CSO is the minimal registry entry for a field loan officer. Rows are
// provisioned by the surrounding platform; this engine only reads them.
type CSO struct {
	ID         int64
	Branch     string
	Active     bool
	EnrolledAt time.Time
}

// OperationalBalance is the freely spendable per-CSO balance. This engine
// is the sole credit source into it for incentive funds.
type OperationalBalance struct {
	CSOID     int64
	Balance   decimal.Decimal
	UpdatedAt time.Time
}

// WalletSummary is the aggregate served by the wallet endpoint: the
// current snapshot plus the derived views that explain it.
type WalletSummary struct {
	Snapshot    *BonusSnapshot
	Deductions  DeductionSet
	Overshoot   *OvershootMetric
	LastReceipt *WithdrawalReceipt
	State       WithdrawalState
}
