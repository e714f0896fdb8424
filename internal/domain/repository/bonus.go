package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lendtrak/incentive/internal/domain/model"
)

// BaseBonusRepository reads the externally credited performance bonus
// accumulator. This engine never writes it.
type BaseBonusRepository interface {
	Get(ctx context.Context, csoID int64) (decimal.Decimal, error)
}

// MetricRepository persists overshoot metrics, one row per CSO per month.
type MetricRepository interface {
	Upsert(ctx context.Context, metric *model.OvershootMetric) error
	Get(ctx context.Context, csoID int64, year int, month time.Month) (*model.OvershootMetric, error)
}

// HistoryRepository maintains the append-only monthly bonus series. Only
// the row for an open (current or future) month may be rewritten.
type HistoryRepository interface {
	UpsertOpen(ctx context.Context, row *model.HistoryRow) error
	Latest(ctx context.Context, csoID int64) (*model.HistoryRow, error)
	ListYear(ctx context.Context, csoID int64, year int) ([]model.HistoryRow, error)
}
