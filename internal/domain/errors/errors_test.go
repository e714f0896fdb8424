package errors

import (
	stdErrors "errors"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"not found", ErrNotFound},
		{"invalid period", ErrInvalidPeriod},
		{"window closed", ErrWindowClosed},
		{"already approved", ErrAlreadyApproved},
		{"nothing to withdraw", ErrNothingToWithdraw},
		{"stale snapshot conflict", ErrStaleSnapshotConflict},
		{"loan source unavailable", ErrLoanSourceUnavailable},
		{"base bonus unavailable", ErrBaseBonusUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if !stdErrors.Is(tc.err, tc.err) {
				t.Fatalf("expected error to match itself: %v", tc.err)
			}
		})
	}
}
