package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"tonmarket/configs"
	"tonmarket/internal/adapter/telegram"
	"tonmarket/internal/database"
	delivery "tonmarket/internal/delivery/http"
	"tonmarket/internal/infra"
	"tonmarket/internal/realtime"
	"tonmarket/internal/repository"
	"tonmarket/internal/service"
	"tonmarket/internal/usecase"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Load configuration
	cfg := configs.Load()

	// Initialize context
	ctx := context.Background()

	// Initialize database
	db, err := infra.NewDatabase(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run schema migration
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	ownedRepo := repository.NewOwnedNFTRepository(db)
	txRepo := repository.NewTransactionRepository(db)
	listingRepo := repository.NewListingRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	settingsRepo := repository.NewSystemSettingsRepository(db)

	// Initialize services
	settingsService := service.NewSettingsService(settingsRepo)
	ratesURL := cfg.Rates.URL
	if ratesURL == "" {
		ratesURL = service.DefaultRatesURL
	}
	ratesService := service.NewRatesService(ratesURL, service.SystemClock())
	seasonService := service.NewSeasonService(txRepo, settingsService)
	notifier := telegram.NewNotificationService(cfg.Telegram.BotToken, cfg.Telegram.ChannelID)

	// Realtime hub over Postgres LISTEN/NOTIFY
	hub := realtime.NewHub(db)
	hubCtx, hubCancel := context.WithCancel(ctx)
	defer hubCancel()
	go hub.Run(hubCtx)

	// Initialize workflow services
	sessionService := usecase.NewSessionService(userRepo, catalogRepo, ownedRepo, txRepo, settingsService, hub)
	marketService := usecase.NewMarketService(userRepo, ownedRepo, txRepo, listingRepo, requestRepo, notifier, ratesService, settingsService)

	// Initialize schedulers (rate cache warm + leaderboard refresh)
	scheduler := infra.NewScheduler(ratesService, seasonService)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer scheduler.Stop()

	// Initialize HTTP API
	e := echo.New()
	e.HideBanner = true
	delivery.SetupRoutes(e, &delivery.RouterConfig{
		AuthHandler:    delivery.NewAuthHandler(sessionService, cfg.Telegram.BotToken),
		MarketHandler:  delivery.NewMarketHandler(sessionService, marketService, listingRepo),
		WalletHandler:  delivery.NewWalletHandler(sessionService, marketService, settingsService),
		ProfileHandler: delivery.NewProfileHandler(sessionService, seasonService, settingsService),
		UIHandler:      delivery.NewUIHandler(sessionService),
	})

	// Ops server on a separate port: health only
	ops := chi.NewRouter()
	ops.Use(chimiddleware.Recoverer)
	ops.Use(chimiddleware.RealIP)
	ops.Get("/health", handleHealth(db))

	opsSrv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.OpsPort),
		Handler:      ops,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	go func() {
		if err := opsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start ops server: %v", err)
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("TON Market API starting on %s (ops on :%s)", addr, cfg.Server.OpsPort)
	log.Printf("Environment: %s", cfg.Server.Env)

	// Run API server in goroutine
	go func() {
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	hubCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	if err := opsSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERR] Ops server shutdown: %v", err)
	}

	log.Println("[OK] Server exited gracefully")
}

func handleHealth(db interface{ Ping(context.Context) error }) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		dbStatus := "healthy"
		if err := db.Ping(ctx); err != nil {
			dbStatus = "unhealthy"
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(fmt.Sprintf(`{
			"status": "healthy",
			"service": "tonmarket-api",
			"database": "%s",
			"timestamp": "%s"
		}`, dbStatus, time.Now().Format(time.RFC3339))))
	}
}
