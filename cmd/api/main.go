package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/sangkips/selfcheckout-kiosk/internal/application/service"
	"github.com/sangkips/selfcheckout-kiosk/internal/config"
	"github.com/sangkips/selfcheckout-kiosk/internal/domain/entity"
	domainRepo "github.com/sangkips/selfcheckout-kiosk/internal/domain/repository"
	"github.com/sangkips/selfcheckout-kiosk/internal/infrastructure/database"
	"github.com/sangkips/selfcheckout-kiosk/internal/infrastructure/repository"
	"github.com/sangkips/selfcheckout-kiosk/internal/presentation/http/handler"
	"github.com/sangkips/selfcheckout-kiosk/internal/presentation/http/middleware"
	"github.com/sangkips/selfcheckout-kiosk/internal/presentation/http/routes"
	"github.com/sangkips/selfcheckout-kiosk/pkg/metrics"
	"github.com/sangkips/selfcheckout-kiosk/pkg/printer"
	"github.com/sangkips/selfcheckout-kiosk/pkg/scanner"
	"github.com/sangkips/selfcheckout-kiosk/pkg/utils"
)

func newLogger(cfg *config.AppConfig) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.Debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	return logger.With(zap.String("service", cfg.Name))
}

func newCatalog(cfg *config.Config, logger *zap.Logger) domainRepo.CatalogRepository {
	if cfg.Catalog.Backend != "postgres" {
		logger.Info("using in-memory catalog")
		return repository.NewDefaultMemoryCatalogRepository()
	}

	db, err := database.NewPostgresDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.AutoMigrate(db, logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}
	if cfg.Catalog.Seed {
		if err := database.SeedDefaultData(db, logger); err != nil {
			logger.Warn("failed to seed default data", zap.Error(err))
		}
	}
	return repository.NewCatalogRepository(db)
}

func newScannerSource(cfg *config.ScannerConfig, catalog domainRepo.CatalogRepository, logger *zap.Logger) scanner.Source {
	switch cfg.Source {
	case "simulated":
		return scanner.NewSimulatedSource(catalog)
	case "device":
		src, err := scanner.NewDeviceSource(cfg.DevicePath)
		if err != nil {
			logger.Warn("barcode scanner unavailable, continuous scanning disabled",
				zap.String("path", cfg.DevicePath), zap.Error(err))
			return nil
		}
		return src
	default:
		logger.Info("no barcode scanner configured")
		return nil
	}
}

func main() {
	cfg := config.Load()

	logger := newLogger(&cfg.App)
	defer func() { _ = logger.Sync() }()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	catalog := newCatalog(cfg, logger)
	source := newScannerSource(&cfg.Scanner, catalog, logger)

	// Initialize thermal printer
	thermalPrinter, err := printer.NewPrinterFromConfig(cfg.Printer.Type, cfg.Printer.USBPath, cfg.Printer.Address)
	if err != nil {
		logger.Warn("failed to initialize printer", zap.Error(err))
		thermalPrinter = printer.NewNullPrinter()
	}
	defer func() { _ = thermalPrinter.Close() }()

	printerService := service.NewPrinterService(thermalPrinter, entity.ReceiptHeader{
		StoreName: cfg.Store.Name,
		Address:   cfg.Store.Address,
		Phone:     cfg.Store.Phone,
	}, cfg.Printer.Width, logger, m)

	kioskService := service.NewKioskService(catalog, source, printerService, service.ScanWorkerConfig{
		MinInterval:  cfg.Scanner.MinInterval,
		MaxInterval:  cfg.Scanner.MaxInterval,
		BatchSize:    cfg.Scanner.BatchSize,
		BaggingPause: cfg.Scanner.BaggingPause,
		IdlePoll:     cfg.Scanner.IdlePoll,
		RetryDelay:   cfg.Scanner.RetryDelay,
		StopGrace:    cfg.Scanner.StopGrace,
	}, logger, m)
	catalogService := service.NewCatalogService(catalog, logger)

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)
	attendantService, err := service.NewAttendantService(cfg.Attendant.PIN, cfg.Attendant.PINHash, jwtManager, logger)
	if err != nil {
		logger.Fatal("failed to initialize attendant service", zap.Error(err))
	}

	idempotencyRepo := repository.NewIdempotencyRepository()
	rateLimiter := middleware.NewClientRateLimiter(
		middleware.RateLimiterConfigFromWindow(cfg.RateLimit.Requests, cfg.RateLimit.Duration))

	// Housekeeping for the in-memory stores
	scheduler := gocron.NewScheduler(time.UTC)
	if _, err := scheduler.Every(5).Minutes().Do(func() {
		removed, err := idempotencyRepo.DeleteExpired(context.Background())
		if err != nil {
			logger.Warn("failed to purge idempotency keys", zap.Error(err))
			return
		}
		dropped := rateLimiter.Cleanup()
		logger.Debug("housekeeping done", zap.Int("idempotency_keys", removed), zap.Int("rate_limiters", dropped))
	}); err != nil {
		logger.Fatal("failed to schedule housekeeping", zap.Error(err))
	}
	scheduler.StartAsync()

	handlers := &routes.Handlers{
		Kiosk:   handler.NewKioskHandler(kioskService),
		Catalog: handler.NewCatalogHandler(catalogService),
		Auth:    handler.NewAuthHandler(attendantService),
		Printer: handler.NewPrinterHandler(printerService, kioskService),
	}

	router := routes.Setup(handlers, &routes.Deps{
		Tokens:          attendantService,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
		Metrics:         m,
		Gatherer:        registry,
		Logger:          logger,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting server", zap.String("port", port), zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown", zap.Error(err))
	}
	scheduler.Stop()
	kioskService.Shutdown()
	if closer, ok := source.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
}
