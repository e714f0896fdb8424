package test

import (
	pkgToken "github.com/lendtrak/incentive/internal/pkg/token"
)

// StrategyStub issues and verifies service tokens via function overrides.
type StrategyStub struct {
	IssueFn  func(string) (string, error)
	VerifyFn func(string) (string, error)
	NameVal  string
}

// Issue returns deterministic tokens for tests.
func (s StrategyStub) Issue(actor string) (string, error) {
	if s.IssueFn != nil {
		return s.IssueFn(actor)
	}
	return "token", nil
}

// Verify parses previously issued token strings.
func (s StrategyStub) Verify(token string) (string, error) {
	if s.VerifyFn != nil {
		return s.VerifyFn(token)
	}
	return "loan-platform", nil
}

// Name returns the strategy identifier used in tests.
func (s StrategyStub) Name() string {
	if s.NameVal != "" {
		return s.NameVal
	}
	return "stub"
}

var _ pkgToken.Strategy = StrategyStub{}
