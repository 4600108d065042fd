package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/solterra-dev/solterra/api/internal/config"
	"github.com/solterra-dev/solterra/api/internal/database"
	"github.com/solterra-dev/solterra/api/internal/handlers"
	"github.com/solterra-dev/solterra/api/internal/logger"
	"github.com/solterra-dev/solterra/api/internal/middleware"
	"github.com/solterra-dev/solterra/api/internal/repository"
	"github.com/solterra-dev/solterra/api/internal/services"
	"github.com/solterra-dev/solterra/api/internal/tour"
	"github.com/solterra-dev/solterra/api/internal/web"
)

const (
	shutdownTimeout = 30 * time.Second
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.Server.Env)
	log.Info("Starting Solterra API", map[string]interface{}{
		"version":     handlers.APIVersion,
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
		"tour_engine": cfg.Tour.Enabled,
	})

	// Create database connection pool
	ctx := context.Background()
	db, err := database.NewPostgresPool(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", err, map[string]interface{}{
			"host": cfg.Database.Host,
			"port": cfg.Database.Port,
			"name": cfg.Database.Name,
		})
	}
	defer db.Close()

	log.Info("Database connection established", map[string]interface{}{
		"host":     cfg.Database.Host,
		"port":     cfg.Database.Port,
		"database": cfg.Database.Name,
		"pool_min": cfg.Database.PoolMin,
		"pool_max": cfg.Database.PoolMax,
	})

	// Setup Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware in order: RequestID -> Logger -> Recovery -> CORS
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.CORS.Origins))

	// Register health check routes
	healthHandler := handlers.NewHealthHandler(db, cfg.Server.Env)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/api/v1/info", healthHandler.Info)

	// Initialize repository and service layers
	lotRepo := repository.NewLotRepository(db)
	lotService := services.NewLotService(lotRepo, log)

	// Public inventory API, consumed by the tour engine and the card pages
	lotHandler := handlers.NewLotHandler(lotService)
	v1 := router.Group("/api/v1")
	{
		lots := v1.Group("/lots")
		{
			lots.GET("", lotHandler.List)
			lots.GET("/:slug", lotHandler.GetBySlug)
		}
	}

	// Admin CRUD API behind Basic auth
	adminHandler := handlers.NewAdminHandler(lotService)
	admin := v1.Group("/admin", middleware.AdminAuth(cfg.Admin))
	{
		adminLots := admin.Group("/lots")
		{
			adminLots.GET("", adminHandler.List)
			adminLots.POST("", adminHandler.Create)
			adminLots.PUT("/:id", adminHandler.Update)
			adminLots.DELETE("/:id", adminHandler.Delete)
		}
	}

	// Server-rendered pages
	pageHandler := web.NewPageHandler(lotService, cfg.Tour.EmbedURL)
	pageHandler.Register(router)

	// Admin screen behind the same Basic auth as the admin API
	adminPages := web.NewAdminPageHandler(lotService)
	adminPages.Register(router, middleware.AdminAuth(cfg.Admin))

	// Start the hotspot reconciliation engine when configured
	engineCtx, stopEngine := context.WithCancel(ctx)
	defer stopEngine()
	if cfg.Tour.Enabled {
		if err := startTourEngine(engineCtx, cfg.Tour, log); err != nil {
			log.Error("Tour engine failed to start", err, nil)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server listening", map[string]interface{}{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	// Wait for interrupt signal (SIGINT or SIGTERM)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	log.Info("Shutting down server...", nil)
	stopEngine()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	log.Info("Server exited", nil)
}

// startTourEngine wires the reconciliation engine onto the live tour page
// through the headless browser bridge and runs it in the background. The
// engine degrades rather than fails: a dead viewer or unreachable
// inventory endpoint never takes the server down.
func startTourEngine(ctx context.Context, cfg config.TourConfig, log *logger.Logger) error {
	bridge := tour.NewBridge(cfg.PageURL, log)
	if err := bridge.Start(ctx); err != nil {
		return fmt.Errorf("failed to open tour page: %w", err)
	}

	// The driven page must expose the open-card entry point for click
	// bindings to land somewhere. Hosted builds that lack it get one
	// installed; pages that already carry it are left alone.
	if err := bridge.InjectCardPanel(ctx, cfg.InventoryURL); err != nil {
		log.Warn("Card panel injection failed, clicks will be inert", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// The serving origin for link normalization is wherever the inventory
	// endpoint lives; both are this server.
	origin, err := url.Parse(cfg.InventoryURL)
	if err != nil {
		origin = nil
	}

	session := tour.NewSession(
		tour.NewInventoryClient(cfg.InventoryURL, log),
		bridge,
		tour.NewCorrelator(cfg.Overrides, origin, cfg.ProductionDomain, log),
		tour.NewOverlayManager(nil, log),
		tour.NewDiscoverer(bridge.Providers(), cfg.DiscoveryInterval, cfg.DiscoveryMaxAttempts, log),
		cfg.SyncInterval,
		log,
	)

	go func() {
		defer bridge.Stop()
		if err := session.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("Tour engine stopped", err, nil)
		}
	}()

	return nil
}
