package main

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"marketplace/internal/app"
	"marketplace/internal/config"
	"marketplace/internal/handler"
	"marketplace/internal/middleware"
	"marketplace/internal/repository/migrations"
	"marketplace/internal/service/ratelimit"
	"marketplace/internal/worker"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging, optionally mirrored to a rotated log file
	var logFile io.Writer
	if cfg.LogDir != "" {
		f, err := config.SetupLogFile(cfg.LogDir, cfg.LogMaxFiles)
		if err != nil {
			log.Fatalf("Failed to setup log file: %v", err)
		}
		defer f.Close()
		logFile = f
	}
	logger := config.NewLogger(cfg, logFile)
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"database_driver", cfg.DatabaseDriver,
		"blob_backend", cfg.BlobBackend,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database
	db, err := app.OpenDatabase(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if cfg.AutoMigrate {
		if err := migrations.MigrateUp(db.SQL, db.Dialect); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		logger.Info("migrations applied")
	} else {
		status, err := migrations.CheckStatus(db.SQL, db.Dialect)
		if err != nil {
			log.Fatalf("Failed to check migration status: %v", err)
		}
		if !status.UpToDate() {
			logger.Warn("database schema is behind, run marketctl migrate up",
				"current", status.Current,
				"latest", status.Latest,
				"dirty", status.Dirty,
			)
		}
	}

	// Token issuing and verification
	issuer, jwtVerifier, err := app.NewTokenAuth(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Blob storage and upload policy
	blobs, closeBlobs, err := app.OpenBlobStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open blob storage: %v", err)
	}
	defer closeBlobs()

	policy, err := config.LoadUploadPolicy(cfg.UploadPolicyFile)
	if err != nil {
		log.Fatalf("Failed to load upload policy: %v", err)
	}

	svcs := app.NewServices(db.Store, blobs, policy, issuer, logger)

	// Login limiter and background workers
	loginLimiter := ratelimit.NewLimiter(cfg.LoginMaxAttempts, cfg.LoginWindow, logger)

	sweeper := worker.NewPeriodic("login-limiter-sweep", cfg.RateLimitSweepInterval, loginLimiter.Sweep, logger)
	sweeper.Start(ctx)
	defer sweeper.Stop()

	reconciler := worker.NewPeriodic("file-reconcile", cfg.FileReconcileInterval, app.FileReconcileJob(svcs.File), logger)
	reconciler.Start(ctx)
	defer reconciler.Stop()

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()
	routes := &handler.Routes{
		Health:     handler.NewHealthHandler(db.Ping, logger),
		Auth:       handler.NewAuthHandler(svcs.Account, logger),
		Project:    handler.NewProjectHandler(svcs.Project, logger),
		Proposal:   handler.NewProposalHandler(svcs.Proposal, logger),
		File:       handler.NewFileHandler(svcs.File, int64(policy.MaxSize), logger),
		LoginGuard: middleware.LoginGuard(loginLimiter, logger),
	}
	routes.Register(mux)

	// Build middleware chain
	var h http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → RequestLogger → Recovery → Throttle → Auth → Routes
	h = middleware.AuthMiddleware(jwtVerifier, logger)(h)
	h = middleware.NewThrottle(cfg.APIRequestsPerSecond, cfg.APIBurst).Middleware(h)
	h = middleware.Recovery(logger)(h)
	h = middleware.RequestLogger(logger)(h)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposedHeaders:   []string{"Retry-After", middleware.RequestIDHeader},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error("server failed", "error", err)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}

	logger.Info("server stopped")
}
