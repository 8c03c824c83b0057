package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ironaxle/weighstation/internal"
	"github.com/ironaxle/weighstation/internal/domain"
	"github.com/ironaxle/weighstation/internal/handler"
	"github.com/ironaxle/weighstation/internal/i18n"
	"github.com/ironaxle/weighstation/internal/jobs"
	"github.com/ironaxle/weighstation/internal/metrics"
	"github.com/ironaxle/weighstation/internal/middleware"
	"github.com/ironaxle/weighstation/internal/repository"
	"github.com/ironaxle/weighstation/internal/scale"
	"github.com/ironaxle/weighstation/internal/service"
	"github.com/ironaxle/weighstation/internal/storage"
	"github.com/ironaxle/weighstation/internal/weighing"
	"github.com/ironaxle/weighstation/internal/worker"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize database connection
	db, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	// Run migrations
	if err := internal.RunMigrations(db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database ready")

	// Initialize repository
	repo := repository.New(db)

	// Initialize services
	transactionService := service.NewTransactionService(repo, logger)
	vehicleService := service.NewVehicleService(repo, logger)
	driverService := service.NewDriverService(repo, logger)
	productService := service.NewProductService(repo, logger)
	partnerService := service.NewPartnerService(repo, logger)

	// Initialize the weighing engine. The ticket counter is reseeded from the
	// database so a restart mid-day continues the sequence instead of reissuing
	// ticket numbers.
	clock := weighing.SystemClock()
	tickets := weighing.NewTicketGenerator(clock)
	now := clock.Now()
	seq, err := transactionService.MaxTicketSequenceForDay(ctx, now)
	if err != nil {
		return fmt.Errorf("ticket counter reseed failed: %w", err)
	}
	tickets.Seed(now, seq)
	logger.Info("Ticket counter seeded", "date", now.Format("2006-01-02"), "sequence", seq)

	stability := domain.StabilityConfig{
		WindowSize:      cfg.StabilityWindowSize,
		ToleranceKg:     cfg.StabilityToleranceKg,
		MinimumWeightKg: cfg.MinimumWeightKg,
	}
	printer := i18n.Printer(cfg.Locale)
	engine, err := weighing.NewEngine(stability, transactionService, tickets, clock, printer, logger)
	if err != nil {
		return fmt.Errorf("engine initialization failed: %w", err)
	}

	// Start the scale feed. The engine is the sink: every sample drives the
	// stability detector, and a dropped connection faults any active session.
	var source scale.Source
	switch cfg.ScaleSource {
	case "tcp":
		source = scale.NewTCPSource(scale.TCPConfig{
			Address:        cfg.ScaleAddress,
			DialTimeout:    cfg.ScaleDialTimeout,
			ReadTimeout:    cfg.ScaleReadTimeout,
			ReconnectDelay: cfg.ScaleReconnectDelay,
		}, engine, logger)
	default:
		source = scale.NewSimulator(engine, cfg.SimulatorInterval, logger)
	}
	go func() {
		if err := source.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("Scale source stopped", "error", err)
		}
	}()
	logger.Info("Scale source started", "source", cfg.ScaleSource)

	// Initialize export storage
	var store storage.Storage
	switch cfg.StorageProvider {
	case "s3":
		store, err = storage.NewS3Storage(storage.S3Config{
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			BucketName:      cfg.S3BucketName,
			Region:          cfg.S3Region,
		}, logger)
	default:
		store, err = storage.NewLocalStorage(storage.LocalConfig{
			BasePath: cfg.LocalStoragePath,
		}, logger)
	}
	if err != nil {
		return fmt.Errorf("storage initialization failed: %w", err)
	}
	logger.Info("Storage ready", "provider", cfg.StorageProvider)

	// Initialize background worker
	var jobWorker *worker.Worker
	if cfg.WorkerEnabled {
		workerCfg := worker.DefaultConfig()
		workerCfg.Concurrency = cfg.WorkerConcurrency
		workerCfg.PollInterval = cfg.WorkerPollInterval
		workerCfg.JobTimeout = cfg.WorkerJobTimeout

		jobWorker, err = worker.New(db, repo, workerCfg, logger)
		if err != nil {
			return fmt.Errorf("worker initialization failed: %w", err)
		}
		jobWorker.Register(jobs.NewExportTransactionsHandler(transactionService, store, logger))
		jobWorker.Start(ctx)
	}

	// Schedule the daily export of yesterday's completed transactions
	if cfg.ExportEnabled && cfg.WorkerEnabled {
		go runExportScheduler(ctx, repo, cfg.ExportHour, logger)
	}

	// Initialize handlers
	weighingHandler := handler.NewWeighingHandler(engine, transactionService, logger)
	transactionHandler := handler.NewTransactionHandler(transactionService, logger)
	vehicleHandler := handler.NewVehicleHandler(vehicleService, logger)
	driverHandler := handler.NewDriverHandler(driverService, logger)
	productHandler := handler.NewProductHandler(productService, logger)
	partnerHandler := handler.NewPartnerHandler(partnerService, logger)

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus metrics (basic auth unless credentials are left empty)
	metricsAuth := middleware.NewMetricsAuthMiddleware(cfg.MetricsUsername, cfg.MetricsPassword)
	mux.Handle("GET /metrics", metricsAuth.Handler(promhttp.Handler()))

	weighingHandler.RegisterRoutes(mux)
	transactionHandler.RegisterRoutes(mux)
	vehicleHandler.RegisterRoutes(mux)
	driverHandler.RegisterRoutes(mux)
	productHandler.RegisterRoutes(mux)
	partnerHandler.RegisterRoutes(mux)

	// Middleware chain: request metrics outermost, then request logging
	logging := middleware.NewRequestLoggingMiddleware(logger)
	root := metrics.Middleware(logging.Handler(mux))

	// ==========================================================================
	// Start server
	// ==========================================================================

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: root,
	}

	go func() {
		logger.Info("Server started", "address", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()
	logger.Info("Shutdown signal received, initiating graceful shutdown...")

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	if jobWorker != nil {
		jobWorker.Stop()
	}

	logger.Info("Graceful shutdown complete")
	return nil
}

// runExportScheduler enqueues the export of the previous day's transactions
// once per day at the configured local hour. The enqueue is idempotent at the
// storage layer: re-running an export overwrites the same object key.
func runExportScheduler(ctx context.Context, repo *repository.Queries, hour int, logger *slog.Logger) {
	for {
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(), hour, 30, 0, 0, now.Location())
		if !next.After(now) {
			next = next.Add(24 * time.Hour)
		}

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		yesterday := time.Now().AddDate(0, 0, -1)
		job, err := worker.EnqueueExportTransactions(ctx, repo, yesterday)
		if err != nil {
			logger.Error("Failed to enqueue daily export", "error", err)
			continue
		}
		logger.Info("Daily export enqueued",
			"day", yesterday.Format("2006-01-02"),
			"job_id", job.ID,
		)
	}
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
