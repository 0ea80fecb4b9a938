package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chitfund/backend/internal/application/settlement"
	"github.com/chitfund/backend/internal/infrastructure/config"
	"github.com/chitfund/backend/internal/infrastructure/logger"
	"github.com/chitfund/backend/internal/infrastructure/persistence"
	"github.com/chitfund/backend/internal/interfaces/http/handler"
	"github.com/chitfund/backend/internal/interfaces/http/middleware"
	"github.com/chitfund/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Chit Fund Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	cycleRepo := persistence.NewGormCycleRepository(db.DB)
	contributionRepo := persistence.NewGormContributionRepository(db.DB)
	auctionRepo := persistence.NewGormAuctionRepository(db.DB)
	penaltyRepo := persistence.NewGormPenaltyRepository(db.DB)
	ledgerRepo := persistence.NewGormLedgerRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Initialize application services
	cycleService := settlement.NewCycleService(txScope, cycleRepo, log)
	contributionService := settlement.NewContributionService(txScope, contributionRepo, ledgerRepo, log)
	auctionService := settlement.NewAuctionService(txScope, auctionRepo, log)
	penaltyService := settlement.NewPenaltyService(txScope, penaltyRepo, log)
	ledgerService := settlement.NewLedgerService(txScope, ledgerRepo, log)

	// Initialize HTTP handlers
	cycleHandler := handler.NewCycleHandler(cycleService, contributionService)
	contributionHandler := handler.NewContributionHandler(contributionService)
	auctionHandler := handler.NewAuctionHandler(auctionService)
	penaltyHandler := handler.NewPenaltyHandler(penaltyService)
	ledgerHandler := handler.NewLedgerHandler(ledgerService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Group routes (cycle lifecycle and penalty sweeps hang off the group)
	groupRoutes := router.NewDomainGroup("group", "/groups")
	groupRoutes.POST("/:id/cycles", cycleHandler.Create)
	groupRoutes.GET("/:id/cycles", cycleHandler.List)
	groupRoutes.POST("/:id/penalties/auto-check", penaltyHandler.AutoCheck)
	groupRoutes.GET("/:id/users/:uid/ledger", ledgerHandler.GetGroupMemberLedger)

	// Cycle routes
	cycleRoutes := router.NewDomainGroup("cycle", "/cycles")
	cycleRoutes.GET("/:id", cycleHandler.GetByID)
	cycleRoutes.GET("/:id/contributions", cycleHandler.ListContributions)
	cycleRoutes.POST("/:id/contributions/initialize", cycleHandler.InitializeContributions)
	cycleRoutes.POST("/:id/auction/resolve", auctionHandler.Resolve)
	cycleRoutes.POST("/:id/auction/disburse", auctionHandler.Disburse)
	cycleRoutes.GET("/:id/auction", auctionHandler.GetByCycle)
	cycleRoutes.GET("/:id/penalties", penaltyHandler.ListByCycle)

	// Contribution routes
	contributionRoutes := router.NewDomainGroup("contribution", "/contributions")
	contributionRoutes.GET("/:id", contributionHandler.GetByID)
	contributionRoutes.POST("/:id/payments", contributionHandler.RecordPayment)
	contributionRoutes.POST("/:id/sub-payments", contributionHandler.AddSubPayment)
	contributionRoutes.GET("/:id/sub-payments", contributionHandler.GetSubPayments)
	contributionRoutes.PATCH("/:id/status", contributionHandler.UpdateStatus)

	// Auction routes (standalone bidding against a resolved or open auction)
	auctionRoutes := router.NewDomainGroup("auction", "/auctions")
	auctionRoutes.POST("/:id/bids", auctionHandler.PlaceBid)
	auctionRoutes.GET("/:id/bids", auctionHandler.ListBids)

	// Penalty routes
	penaltyRoutes := router.NewDomainGroup("penalty", "/penalties")
	penaltyRoutes.POST("", penaltyHandler.Apply)

	// Ledger routes
	ledgerRoutes := router.NewDomainGroup("ledger", "/ledger")
	ledgerRoutes.POST("/adjustments", ledgerHandler.AddManualEntry)

	// User-scoped ledger queries
	userRoutes := router.NewDomainGroup("user", "/users")
	userRoutes.GET("/:id/ledger", ledgerHandler.GetUserLedger)
	userRoutes.GET("/:id/balance", ledgerHandler.GetBalance)

	// Register all domain groups
	r.Register(groupRoutes).
		Register(cycleRoutes).
		Register(contributionRoutes).
		Register(auctionRoutes).
		Register(penaltyRoutes).
		Register(ledgerRoutes).
		Register(userRoutes)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Background penalty sweep (if enabled)
	sweepDone := make(chan struct{})
	if cfg.Penalty.AutoCheckEnabled {
		go penaltySweep(penaltyService, cfg.Penalty.AutoCheckInterval, sweepDone, log)
		log.Info("Penalty auto-check enabled",
			zap.Duration("interval", cfg.Penalty.AutoCheckInterval),
		)
	}

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")
	close(sweepDone)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// penaltySweep periodically applies overdue penalties across all active groups
func penaltySweep(svc *settlement.PenaltyService, interval time.Duration, done <-chan struct{}, log *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			applied, err := svc.AutoCheckAll(context.Background(), time.Now())
			if err != nil {
				log.Error("Penalty sweep failed", zap.Error(err))
				continue
			}
			if applied > 0 {
				log.Info("Penalty sweep applied penalties", zap.Int("count", applied))
			}
		}
	}
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
