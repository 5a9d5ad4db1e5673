package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	httpAdapter "github.com/lorrc/queue-desk-backend/internal/adapters/primary/http"
	mw "github.com/lorrc/queue-desk-backend/internal/adapters/primary/http/middleware"
	wsAdapter "github.com/lorrc/queue-desk-backend/internal/adapters/primary/websocket"
	"github.com/lorrc/queue-desk-backend/internal/adapters/secondary/postgres"
	"github.com/lorrc/queue-desk-backend/internal/adapters/secondary/rediscache"
	"github.com/lorrc/queue-desk-backend/internal/adapters/secondary/sms"
	"github.com/lorrc/queue-desk-backend/internal/auth"
	"github.com/lorrc/queue-desk-backend/internal/config"
	"github.com/lorrc/queue-desk-backend/internal/core/domain"
	"github.com/lorrc/queue-desk-backend/internal/core/services"
	"github.com/lorrc/queue-desk-backend/internal/infrastructure/logging"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Initialize Structured Logger
	logger := logging.NewLogger(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Output:      os.Stdout,
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Environment,
	})

	logger.Info("starting service",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
		"timezone", cfg.Queue.Timezone,
	)

	// 3. Initialize Database Pool
	ctx := context.Background()
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		logger.Error("failed to parse database URL", "error", err)
		os.Exit(1)
	}

	poolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.Database.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Error("database ping failed", "error", err)
		os.Exit(1)
	}
	logger.Info("database connection established")

	// 4. Initialize Snapshot Cache
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	cache := rediscache.New(redisClient)
	if err := cache.Ping(ctx); err != nil {
		// The cache is an accelerator only; every read falls through to
		// Postgres, so a missing Redis does not block startup.
		logger.Warn("redis ping failed, snapshots will be served from the database", "error", err)
	} else {
		logger.Info("redis connection established")
	}

	// 5. Initialize Security & Real-time Components
	tokenManager := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL)
	hub := wsAdapter.NewHub(logger)
	go hub.Run()

	// 6. Initialize Rate Limiters
	var generalRateLimiter, authRateLimiter, issueRateLimiter *mw.RateLimiter
	if cfg.RateLimit.Enabled {
		generalRateLimiter = mw.NewRateLimiter(mw.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			BurstSize:         cfg.RateLimit.BurstSize,
			CleanupInterval:   time.Minute,
			TTL:               3 * time.Minute,
		})

		authRateLimiter = mw.NewRateLimiter(mw.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.AuthRPS,
			BurstSize:         cfg.RateLimit.AuthBurst,
			CleanupInterval:   time.Minute,
			TTL:               5 * time.Minute,
		})

		issueRateLimiter = mw.NewRateLimiter(mw.IssueRateLimiterConfig())
	}

	// 7. Dependency Injection (Wiring the Hexagon)

	errorHandler := httpAdapter.NewErrorHandler(logger)

	// Repositories (Secondary Adapters)
	ticketRepo := postgres.NewTicketRepository(pool, cfg.Queue.LockTimeout)
	categoryRepo := postgres.NewCategoryRepository(pool)
	staffRepo := postgres.NewStaffRepository(pool)

	// Notifier (Secondary Adapter)
	notifier := sms.NewMockSMSNotifierWithLogger(logger)

	// Core wiring
	clock := domain.NewWallClock(cfg.Location())
	retry := services.RetryPolicy{
		MaxAttempts: cfg.Queue.RetryAttempts,
		Backoff: func(attempt int) time.Duration {
			return time.Duration(attempt) * cfg.Queue.RetryBackoffBase
		},
	}

	// Services (Core)
	ticketService := services.NewTicketService(ticketRepo, categoryRepo, cache, clock, hub, retry)
	queueService := services.NewQueueService(ticketRepo, categoryRepo, cache, clock, notifier, hub, cfg.Queue.QueueCacheTTL)
	statsService := services.NewStatsService(ticketRepo, cache, cfg.Queue.StatsCacheTTL)
	categoryService := services.NewCategoryService(categoryRepo)
	authService := services.NewAuthService(staffRepo)

	// Handlers (Primary Adapters)
	authHandler := httpAdapter.NewAuthHandler(authService, tokenManager, errorHandler, logger)
	ticketHandler := httpAdapter.NewTicketHandler(ticketService, queueService, errorHandler, logger)
	queueHandler := httpAdapter.NewQueueHandler(queueService, errorHandler, logger)
	categoryHandler := httpAdapter.NewCategoryHandler(categoryService, errorHandler)
	statsHandler := httpAdapter.NewStatsHandler(statsService, clock, cfg.Location(), errorHandler)
	wsHandler := httpAdapter.NewWebSocketHandler(hub, cfg, logger)
	healthHandler := httpAdapter.NewHealthHandler(pool, cache, cfg.App.Version)

	// 8. Setup Router
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.RequestLogger(logger))
	r.Use(mw.RecoveryLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.WebSocket.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if generalRateLimiter != nil {
		r.Use(generalRateLimiter.Middleware)
	}

	// Health check endpoints (outside /api/v1 for standard probe paths)
	healthHandler.RegisterRoutes(r)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Login with stricter rate limiting
		r.Group(func(r chi.Router) {
			if authRateLimiter != nil {
				r.Use(authRateLimiter.Middleware)
			}
			r.Route("/auth", authHandler.RegisterPublicRoutes)
		})

		// Staff registration: admin only
		r.Group(func(r chi.Router) {
			r.Use(mw.JWTMiddleware(tokenManager))
			r.Use(mw.RequireRole(domain.RoleAdmin))
			r.Route("/auth/admin", authHandler.RegisterAdminRoutes)
		})

		// Display board stream
		r.Get("/ws", wsHandler.ServeHTTP)

		// Public kiosk and board endpoints
		r.Group(func(r chi.Router) {
			if issueRateLimiter != nil {
				r.Use(issueRateLimiter.Middleware)
			}
			r.Route("/tickets", ticketHandler.RegisterPublicRoutes)
		})
		r.Route("/categories", func(r chi.Router) {
			categoryHandler.RegisterRoutes(r)
			r.Route("/{categoryID}/queue", queueHandler.RegisterPublicRoutes)
		})

		// Staff routes behind JWT authentication
		r.Group(func(r chi.Router) {
			r.Use(mw.JWTMiddleware(tokenManager))
			r.Route("/staff", func(r chi.Router) {
				r.Route("/tickets", ticketHandler.RegisterStaffRoutes)
				r.Route("/categories/{categoryID}/queue", queueHandler.RegisterStaffRoutes)
				r.Get("/stats/daily", statsHandler.HandleDailyStats)
			})
		})
	})

	// 9. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutdown signal received", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	// Let in-flight broadcasts and notifications drain
	ticketService.Shutdown()
	queueService.Shutdown()

	logger.Info("server shutdown complete")
}
