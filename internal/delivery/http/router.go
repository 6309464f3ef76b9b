package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	custommiddleware "tonmarket/internal/middleware"
)

// RouterConfig holds all dependencies for routing
type RouterConfig struct {
	AuthHandler    *AuthHandler
	MarketHandler  *MarketHandler
	WalletHandler  *WalletHandler
	ProfileHandler *ProfileHandler
	UIHandler      *UIHandler
}

// SetupRoutes configures all HTTP routes
func SetupRoutes(e *echo.Echo, config *RouterConfig) {
	// Middleware
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			// The shell state endpoint is polled, keep it out of the log
			path := c.Request().URL.Path
			return path == "/health" || path == "/api/ui/state"
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())
	e.Use(middleware.Secure())

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return SuccessResponse(c, map[string]interface{}{
			"status":  "healthy",
			"service": "tonmarket-api",
		})
	})

	// API group
	api := e.Group("/api")

	// Auth routes (public)
	auth := api.Group("/auth")
	{
		auth.POST("/telegram", config.AuthHandler.Login)
	}

	// Market routes (protected with AuthMiddleware)
	market := api.Group("/market", custommiddleware.AuthMiddleware)
	{
		market.GET("/catalog", config.MarketHandler.GetCatalog)
		market.POST("/buy", config.MarketHandler.Buy)
		market.POST("/sell", config.MarketHandler.Sell)
		market.GET("/listings", config.MarketHandler.GetListings)
		market.POST("/listings", config.MarketHandler.CreateListing)
	}

	api.GET("/portfolio", config.MarketHandler.GetPortfolio, custommiddleware.AuthMiddleware)

	// Wallet routes
	wallet := api.Group("/wallet", custommiddleware.AuthMiddleware)
	{
		wallet.GET("/history", config.WalletHandler.GetHistory)
		wallet.GET("/deposit/countries", config.WalletHandler.GetCountries)
		wallet.GET("/deposit/requisites/:country", config.WalletHandler.GetRequisites)
		wallet.POST("/deposit", config.WalletHandler.Deposit)
		wallet.POST("/withdraw", config.WalletHandler.Withdraw)
	}

	// Profile and season routes
	profile := api.Group("/profile", custommiddleware.AuthMiddleware)
	{
		profile.GET("/me", config.ProfileHandler.GetMe)
		profile.GET("/support", config.ProfileHandler.GetSupport)
	}
	season := api.Group("/season", custommiddleware.AuthMiddleware)
	{
		season.GET("/leaderboard", config.ProfileHandler.GetLeaderboard)
		season.POST("/join", config.ProfileHandler.JoinSeason)
	}

	// Navigation shell routes
	ui := api.Group("/ui", custommiddleware.AuthMiddleware)
	{
		ui.GET("/state", config.UIHandler.GetState)
		ui.POST("/navigate", config.UIHandler.Navigate)
		ui.POST("/select", config.UIHandler.Select)
		ui.POST("/listing", config.UIHandler.OpenListing)
		ui.POST("/back", config.UIHandler.Back)
		ui.POST("/sheet", config.UIHandler.ToggleSheet)
	}
}
