// Package main is the entry point for the Fahrerportal API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
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

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/jkaindl/fahrerportal/backend/internal/config"
	"github.com/jkaindl/fahrerportal/backend/internal/handler"
	"github.com/jkaindl/fahrerportal/backend/internal/mailer"
	"github.com/jkaindl/fahrerportal/backend/internal/maps"
	"github.com/jkaindl/fahrerportal/backend/internal/middleware"
	"github.com/jkaindl/fahrerportal/backend/internal/repo"
	"github.com/jkaindl/fahrerportal/backend/internal/service"
	"github.com/jkaindl/fahrerportal/backend/internal/storage"
	"github.com/jkaindl/fahrerportal/backend/internal/wizard"
)

const maxRequestBody = 10 << 20 // signatures and damage photos arrive as data URLs

func main() {
	// A .env file is a development convenience; in production the
	// environment comes from the orchestrator.
	_ = godotenv.Load()

	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// JSON handler writes machine-readable output suitable for log aggregators.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Database ---------------------------------------------------------
	// pgxpool manages a pool of Postgres connections.
	// New() does not open connections immediately; the first query does.
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(context.Background()); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	// --- Redis (wizard sessions) ------------------------------------------
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		slog.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer rdb.Close()
	slog.Info("redis connection established")

	// --- Optional collaborators -------------------------------------------
	var distance service.DistanceEstimator
	if cfg.GoogleMapsAPIKey != "" {
		ds, err := maps.NewDistanceService(cfg.GoogleMapsAPIKey)
		if err != nil {
			slog.Error("failed to create distance service", "error", err)
			os.Exit(1)
		}
		distance = ds
		slog.Info("distance prefill enabled")
	}

	var files handler.FileStorer
	if cfg.MinIOEndpoint != "" {
		store, err := storage.New(storage.Config{
			Endpoint:  cfg.MinIOEndpoint,
			AccessKey: cfg.MinIOAccessKey,
			SecretKey: cfg.MinIOSecretKey,
			Bucket:    cfg.MinIOBucket,
			UseSSL:    cfg.MinIOUseSSL,
		})
		if err != nil {
			slog.Error("failed to create object store", "error", err)
			os.Exit(1)
		}
		if err := store.EnsureBucket(context.Background()); err != nil {
			slog.Error("failed to ensure bucket", "error", err)
			os.Exit(1)
		}
		files = store
		slog.Info("object storage enabled", "bucket", cfg.MinIOBucket)
	}

	var notifier service.Notifier
	if cfg.SMTPHost != "" {
		notifier = mailer.New(mailer.Config{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
			To:       cfg.SMTPTo,
		})
		slog.Info("mail notifications enabled")
	}

	// --- Repos, services, handlers ----------------------------------------
	tourRepo := repo.NewTourRepo(pool)
	workRepo := repo.NewWorkRecordRepo(pool)
	expenseRepo := repo.NewExpenseRepo(pool)
	surplusRepo := repo.NewSurplusRepo(pool)
	protocolRepo := repo.NewProtocolRepo(pool)
	sessions := wizard.NewSessionStore(rdb, cfg.WizardSessionTTL)

	srv := handler.NewServer(
		service.NewTourService(tourRepo, distance, logger),
		service.NewWorkRecordService(workRepo, notifier, logger),
		service.NewExpenseService(expenseRepo, notifier, logger),
		service.NewStatementService(workRepo, expenseRepo, surplusRepo, cfg.EarningsLimitCents),
		service.NewProtocolService(tourRepo, protocolRepo, sessions, notifier, logger),
		files,
		logger,
	)

	// --- Router -----------------------------------------------------------
	// Base middleware order: RequestID → RealIP → Logger → Recoverer →
	// CORS → body limit → rate limit. Authentication applies inside /api/v1.
	router := srv.Routes(
		middleware.NewAuthenticator([]byte(cfg.JWTSecret)),
		chimiddleware.RequestID,
		chimiddleware.RealIP,
		middleware.NewSlogLogger(logger),
		chimiddleware.Recoverer,
		middleware.NewCORSHandler(cfg.CORSOrigins),
		middleware.NewMaxBodySizeHandler(maxRequestBody),
		middleware.NewRateLimiter(20, 40),
	)

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
