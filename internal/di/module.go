package di

import (
	"github.com/lendtrak/incentive/internal/adapter/loans"
	"github.com/lendtrak/incentive/internal/app"
	"github.com/lendtrak/incentive/internal/cache"
	"github.com/lendtrak/incentive/internal/config"
	"github.com/lendtrak/incentive/internal/logger"
	"github.com/lendtrak/incentive/internal/pkg/token"
	"github.com/lendtrak/incentive/internal/server/http/handlers"
	"github.com/lendtrak/incentive/internal/server/http/router"
	"github.com/lendtrak/incentive/internal/storage/postgres"
	"github.com/lendtrak/incentive/internal/usecase"
	"go.uber.org/fx"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		token.Module,
		postgres.Module,
		cache.Module,
		loans.Module,
		usecase.Module,
		fx.Provide(
			func(client loans.Client) usecase.LoanSource { return client },
			func(s *postgres.Storage) app.Pinger { return s },
			func(facade *app.WalletFacade) handlers.IncentiveFacade { return facade },
		),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
