package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"

	"github.com/ahmetcoskunkizilkaya/disaster-report/internal/codegen"
	"github.com/ahmetcoskunkizilkaya/disaster-report/internal/config"
	"github.com/ahmetcoskunkizilkaya/disaster-report/internal/database"
	"github.com/ahmetcoskunkizilkaya/disaster-report/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/disaster-report/internal/logging"
	"github.com/ahmetcoskunkizilkaya/disaster-report/internal/repository"
	"github.com/ahmetcoskunkizilkaya/disaster-report/internal/routes"
	"github.com/ahmetcoskunkizilkaya/disaster-report/internal/services"
	"github.com/ahmetcoskunkizilkaya/disaster-report/internal/workflow"
)

func main() {
	cfg := config.Load()

	// Structured logging (JSON to stdout)
	stdoutHandler := logging.Setup(cfg.LogLevel)

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Status transition policy
	policy, err := workflow.Load(cfg.StatusPolicy)
	if err != nil {
		slog.Error("failed to load status policy", "policy", cfg.StatusPolicy, "error", err)
		os.Exit(1)
	}
	slog.Info("status policy loaded", "policy", policy.Name(), "permissive", policy.Permissive())

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(database.DB); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(stdoutHandler, pgLogHandler)))

	// Log cleanup
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cfg.LogRetention, cleanupDone)

	// Repositories and services
	reportRepo := repository.NewReportRepository(database.DB, codegen.New(cfg.TrackingCodePrefix))
	userRepo := repository.NewUserRepository(database.DB)

	authService := services.NewAuthService(userRepo, cfg)
	reportService := services.NewReportService(reportRepo, policy)

	// Seed admin
	if cfg.AdminUsername != "" && cfg.AdminPassword != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		created, err := authService.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword, cfg.AdminName)
		cancel()
		if err != nil {
			slog.Error("failed to seed admin", "username", cfg.AdminUsername, "error", err)
			os.Exit(1)
		}
		if !created {
			slog.Info("seed admin already present", "username", cfg.AdminUsername)
		}
	} else {
		slog.Warn("ADMIN_USERNAME/ADMIN_PASSWORD not set, no admin seeded")
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	healthHandler := handlers.NewHealthHandler(database.Ping)
	reportHandler := handlers.NewReportHandler(reportService)

	// Sentry error tracking
	extra, flushSentry := setupSentry(cfg)

	// Fiber app
	app := routes.NewApp(cfg, extra...)
	routes.Setup(app, cfg, authHandler, healthHandler, reportHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupDone)
	pgLogHandler.Stop()
	flushSentry()

	if err := database.Close(); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}

// setupSentry initializes sentry when a DSN is configured. It returns the
// fiber middleware to install and the flush to run once at shutdown; both are
// empty when sentry is off or failed to start.
func setupSentry(cfg *config.Config) ([]fiber.Handler, func()) {
	noop := func() {}
	if cfg.SentryDSN == "" {
		return nil, noop
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		EnableTracing:    true,
		TracesSampleRate: 0.2,
		Environment:      cfg.AppEnv,
	}); err != nil {
		slog.Error("sentry init failed", "error", err)
		return nil, noop
	}

	handler := sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	})
	return []fiber.Handler{handler}, func() { sentry.Flush(2 * time.Second) }
}
