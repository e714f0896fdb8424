package token

import (
	"go.uber.org/fx"

	"github.com/lendtrak/incentive/internal/config"
)

// Module provides the service token strategy via fx.
var Module = fx.Provide(newStrategy)

type strategyParams struct {
	fx.In

	Config *config.Config
}

func newStrategy(p strategyParams) Strategy {
	return NewHMACStrategy(p.Config.ServiceTokenSecret, Options{})
}
