package worker

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lendtrak/incentive/internal/adapter/loans"
	"github.com/lendtrak/incentive/internal/domain/model"
	testhelpers "github.com/lendtrak/incentive/internal/test"
)

func TestNewSyncProcessorDefaults(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	proc := NewSyncProcessor(&testhelpers.WorkerFacadeStub{}, time.Second, 0, 0, logger)
	if proc.batchSize != 1 {
		t.Fatalf("expected batch size default to 1, got %d", proc.batchSize)
	}
	if proc.workers != 1 {
		t.Fatalf("expected workers default to 1, got %d", proc.workers)
	}
}

func TestSyncProcessorRecomputesWallets(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	facade := &testhelpers.WorkerFacadeStub{Batches: [][]model.CSO{{{ID: 7, Active: true}}}}
	proc := NewSyncProcessor(facade, 10*time.Millisecond, 1, 1, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	proc.Start(ctx)

	deadline := time.After(500 * time.Millisecond)
	for {
		if len(facade.RecomputedIDs()) > 0 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timeout waiting for wallet recompute")
		case <-time.After(10 * time.Millisecond):
		}
	}

	proc.Stop()
	recomputed := facade.RecomputedIDs()
	if len(recomputed) == 0 {
		t.Fatalf("expected wallet recompute")
	}
	if recomputed[0] != 7 {
		t.Fatalf("expected cso 7, got %d", recomputed[0])
	}
}

func TestSyncProcessorHandlesRateLimiting(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	attempts := int32(0)
	recomputed := int32(0)
	facade := &testhelpers.WorkerFacadeStub{
		Batches: [][]model.CSO{{{ID: 1}}, {{ID: 1}}},
		RecomputeFn: func(ctx context.Context, csoID int64) error {
			if atomic.AddInt32(&attempts, 1) == 1 {
				return loans.RateLimitedError{RetryAfter: 10 * time.Millisecond}
			}
			atomic.AddInt32(&recomputed, 1)
			return nil
		},
	}

	proc := NewSyncProcessor(facade, 5*time.Millisecond, 1, 1, logger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	proc.Start(ctx)

	deadline := time.After(time.Second)
	for atomic.LoadInt32(&recomputed) == 0 {
		select {
		case <-deadline:
			t.Fatal("timeout waiting for retry")
		case <-time.After(10 * time.Millisecond):
		}
	}
	proc.Stop()
}
