package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/lendtrak/incentive/internal/adapter/loans"
	"github.com/lendtrak/incentive/internal/domain/model"
)

// WalletFacade exposes the subset of application functionality required by the worker.
type WalletFacade interface {
	CSOsForSync(ctx context.Context, staleBefore time.Time, limit int) ([]model.CSO, error)
	RecomputeWallet(ctx context.Context, csoID int64) error
}

// SyncProcessor periodically recomputes wallets for officers whose
// snapshot has gone stale, fanning the work out over a pool of workers.
// A per-CSO failure leaves that officer's prior state untouched.
type SyncProcessor struct {
	facade       WalletFacade
	syncInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.CSO
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewSyncProcessor constructs the wallet sync worker pool.
func NewSyncProcessor(facade WalletFacade, syncInterval time.Duration, batchSize, workers int, logger *slog.Logger) *SyncProcessor {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &SyncProcessor{
		facade:       facade,
		syncInterval: syncInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.CSO, batchSize*workers),
	}
}

// Start launches background processing.
func (p *SyncProcessor) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(runCtx)
	}

	p.wg.Add(1)
	go p.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (p *SyncProcessor) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *SyncProcessor) dispatch(ctx context.Context) {
	defer p.wg.Done()
	defer close(p.jobs)
	ticker := time.NewTicker(p.syncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fetchAndDispatch(ctx)
		}
	}
}

func (p *SyncProcessor) fetchAndDispatch(ctx context.Context) {
	staleBefore := time.Now().Add(-p.syncInterval)
	csos, err := p.facade.CSOsForSync(ctx, staleBefore, p.batchSize)
	if err != nil {
		p.logger.Error("fetch csos for sync failed", slog.String("error", err.Error()))
		return
	}
	for _, cso := range csos {
		select {
		case <-ctx.Done():
			return
		case p.jobs <- cso:
		}
	}
}

func (p *SyncProcessor) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case cso, ok := <-p.jobs:
			if !ok {
				return
			}
			p.handleCSO(ctx, cso)
		}
	}
}

func (p *SyncProcessor) handleCSO(ctx context.Context, cso model.CSO) {
	if err := p.facade.RecomputeWallet(ctx, cso.ID); err != nil {
		var rateLimited loans.RateLimitedError
		if errors.As(err, &rateLimited) {
			p.logger.Warn("loan source rate limited", slog.Duration("retry_after", rateLimited.RetryAfter))
			time.Sleep(rateLimited.RetryAfter)
			return
		}
		p.logger.Error("wallet recompute failed",
			slog.Int64("cso_id", cso.ID),
			slog.String("error", err.Error()),
		)
	}
}
