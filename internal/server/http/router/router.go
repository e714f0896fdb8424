package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	pkgToken "github.com/lendtrak/incentive/internal/pkg/token"
	"github.com/lendtrak/incentive/internal/server/http/handlers"
	"github.com/lendtrak/incentive/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.IncentiveFacade, strategy pkgToken.Strategy, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	walletHandler := handlers.NewWalletHandler(facade)
	syncHandler := handlers.NewSyncHandler(facade)
	withdrawalHandler := handlers.NewWithdrawalHandler(facade)
	healthHandler := handlers.NewHealthHandler(facade)

	api := engine.Group("/api")
	api.GET("/healthz", healthHandler.Check)

	cso := api.Group("/cso/:csoID")
	cso.GET("/wallet", walletHandler.Summary)
	cso.GET("/bonus/history", walletHandler.History)

	mutating := cso.Group("")
	mutating.Use(middleware.ServiceAuth(strategy))
	mutating.POST("/overshoot/sync", syncHandler.Sync)
	mutating.POST("/withdrawal/approve", withdrawalHandler.Approve)

	return engine
}
