package repository

import (
	"context"
	"time"

	"github.com/lendtrak/incentive/internal/domain/model"
)

// CSORepository reads the officer registry maintained by the platform.
type CSORepository interface {
	GetByID(ctx context.Context, csoID int64) (*model.CSO, error)
	// SelectBatchForSync claims active CSOs whose wallet has not been
	// recomputed since the staleness cutoff and stamps them as claimed.
	SelectBatchForSync(ctx context.Context, staleBefore time.Time, limit int) ([]model.CSO, error)
}
