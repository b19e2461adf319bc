package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/contractgov/contract-api/docs"
	"github.com/contractgov/contract-api/internal/auth"
	"github.com/contractgov/contract-api/internal/config"
	"github.com/contractgov/contract-api/internal/database"
	"github.com/contractgov/contract-api/internal/http/handler"
	"github.com/contractgov/contract-api/internal/http/middleware"
	"github.com/contractgov/contract-api/internal/http/router"
	"github.com/contractgov/contract-api/internal/jobs"
	"github.com/contractgov/contract-api/internal/logger"
	"github.com/contractgov/contract-api/internal/repository"
	"github.com/contractgov/contract-api/internal/service"
	"github.com/contractgov/contract-api/internal/storage"
	"go.uber.org/zap"
)

// @title ContractGov API
// @version 1.0
// @description Contract management for government elevator and accessibility platform installations

// @contact.name API Support
// @contact.email suporte@contractgov.com.br

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Session token as: Bearer <token>

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	if host := os.Getenv("SWAGGER_HOST"); host != "" {
		docs.SwaggerInfo.Host = host
	} else {
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// Full configuration with secrets. Key Vault is only consulted in
	// staging and production when enabled.
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	db, err := database.NewDatabase(&cfg.Database, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to auto-migrate: %w", err)
		}
		log.Info("Database schema auto-migrated")
	}

	// Report storage is optional. Exports still work without it, archiving does not.
	var reportStorage storage.Storage
	if s, err := storage.NewStorage(ctx, &cfg.Storage, log); err != nil {
		log.Warn("Report storage unavailable, archiving disabled",
			zap.String("mode", cfg.Storage.Mode),
			zap.Error(err),
		)
	} else {
		reportStorage = s
		log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	contractRepo := repository.NewContractRepository(db)

	// Services
	tokens := auth.NewTokenManager(&cfg.Auth)
	authService := service.NewAuthService(userRepo, sessionRepo, tokens, &cfg.Auth, log)
	contractService := service.NewContractService(contractRepo, log)
	dashboardService := service.NewDashboardService(contractService, cfg.Jobs.DeadlineWindowDays, log)
	reportService := service.NewReportService(contractService, reportStorage, cfg, log)

	// Middleware
	authMiddleware := auth.NewMiddleware(tokens, sessionRepo, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, log)
	contractHandler := handler.NewContractHandler(contractService, log)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, log)
	reportHandler := handler.NewReportHandler(reportService, log)

	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		rateLimiter,
		authHandler,
		contractHandler,
		dashboardHandler,
		reportHandler,
	)

	scheduler := startScheduler(cfg, contractRepo, sessionRepo, log)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      http.TimeoutHandler(rt.Setup(), cfg.Server.RequestTimeoutDuration(), "request timed out"),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		<-scheduler.Stop().Done()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-sigCtx.Done():
		log.Info("Shutdown signal received")
	}

	<-scheduler.Stop().Done()
	log.Info("Scheduler stopped")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to shutdown gracefully", zap.Error(err))
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("Server stopped gracefully")
	return nil
}

// startScheduler registers the deadline alert and session cleanup jobs. A job
// that fails to register is logged and skipped; the server still starts.
func startScheduler(cfg *config.Config, contracts *repository.ContractRepository, sessions *repository.SessionRepository, log *zap.Logger) *jobs.Scheduler {
	scheduler := jobs.NewScheduler(log)

	if cfg.Jobs.DeadlineAlertEnabled {
		alert := jobs.NewDeadlineAlertJob(contracts, cfg.Jobs.DeadlineWindowDays, log, cfg.Jobs.TimeoutDuration())
		if err := scheduler.AddJob(jobs.DeadlineAlertJobName, cfg.Jobs.DeadlineAlertCron, alert.Run); err != nil {
			log.Error("Failed to register deadline alert job", zap.Error(err))
		}
	} else {
		log.Info("Deadline alert job disabled")
	}

	retention := time.Duration(cfg.Jobs.SessionRetentionDays) * 24 * time.Hour
	cleanup := jobs.NewSessionCleanupJob(sessions, retention, log, cfg.Jobs.TimeoutDuration())
	if err := scheduler.AddJob(jobs.SessionCleanupJobName, cfg.Jobs.SessionCleanupCron, cleanup.Run); err != nil {
		log.Error("Failed to register session cleanup job", zap.Error(err))
	}

	scheduler.Start()
	log.Info("Scheduler started", zap.Strings("jobs", scheduler.JobNames()))
	return scheduler
}
