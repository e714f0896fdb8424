package errors

import "errors"

// Workflow failures are surfaced to callers as actionable outcomes; the
// staleness class degrades to last-known state instead of raising.
var (
	ErrNotFound              = errors.New("not found")
	ErrInvalidPeriod         = errors.New("invalid year or month")
	ErrWindowClosed          = errors.New("withdrawal window closed")
	ErrAlreadyApproved       = errors.New("withdrawal already approved for window year")
	ErrNothingToWithdraw     = errors.New("nothing to withdraw")
	ErrStaleSnapshotConflict = errors.New("snapshot changed since eligibility check")
	ErrLoanSourceUnavailable = errors.New("loan fact source unavailable")
	ErrBaseBonusUnavailable  = errors.New("base bonus accumulator unavailable")
)
