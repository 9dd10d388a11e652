package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/brindes/backend/internal/application/catalog"
	eventapp "github.com/brindes/backend/internal/application/event"
	financeapp "github.com/brindes/backend/internal/application/finance"
	partnerapp "github.com/brindes/backend/internal/application/partner"
	reportapp "github.com/brindes/backend/internal/application/report"
	salesapp "github.com/brindes/backend/internal/application/sales"
	"github.com/brindes/backend/internal/domain/report"
	"github.com/brindes/backend/internal/domain/shared"
	"github.com/brindes/backend/internal/infrastructure/auth"
	"github.com/brindes/backend/internal/infrastructure/cache"
	"github.com/brindes/backend/internal/infrastructure/config"
	"github.com/brindes/backend/internal/infrastructure/event"
	"github.com/brindes/backend/internal/infrastructure/logger"
	"github.com/brindes/backend/internal/infrastructure/migration"
	"github.com/brindes/backend/internal/infrastructure/persistence"
	"github.com/brindes/backend/internal/infrastructure/telemetry"
	"github.com/brindes/backend/internal/interfaces/http/handler"
	"github.com/brindes/backend/internal/interfaces/http/middleware"
	"github.com/brindes/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

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
		_ = log.Sync()
	}()

	log.Info("Starting order engine",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()
	location := cfg.App.Location()

	// Telemetry first so the database plugins can attach to the providers
	otelProviders, err := telemetry.Setup(ctx, cfg.Telemetry, version, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		if err := otelProviders.Shutdown(ctx); err != nil {
			log.Error("Error shutting down telemetry", zap.Error(err))
		}
	}()
	log = otelProviders.Bridge(log)

	businessMetrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:  otelProviders.Meter("orders.business"),
		Logger: log,
	})
	if err != nil {
		log.Fatal("Failed to register business metrics", zap.Error(err))
	}

	// Database
	gormLog := logger.NewGormLogger(log, cfg.Log.Level, cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.Open(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if cfg.Database.AutoMigrate {
		if err := migrate(db, cfg.Database.MigrationsPath, log); err != nil {
			log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfigFromApp(cfg.Telemetry, "postgresql"), log)
	if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	dbMetrics, err := telemetry.RegisterDBMetrics(db.DB, otelProviders, telemetry.DBMetricsConfigFromApp(cfg.Telemetry), log)
	if err != nil {
		log.Fatal("Failed to register database metrics", zap.Error(err))
	}
	if dbMetrics != nil {
		dbMetrics.StartPoolStatsCollection(ctx)
		defer dbMetrics.Stop()
	}

	// Redis backed stores, in memory when Redis is disabled or unreachable
	cacheFactory := cache.NewFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
		cache.WithReportCacheTTL(cfg.Report.CacheTTL),
	)
	defer func() {
		if err := cacheFactory.Close(); err != nil {
			log.Error("Error closing redis client", zap.Error(err))
		}
	}()
	idempotencyStore, err := cacheFactory.CreateIdempotencyStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	reportCache, err := cacheFactory.CreateReportCache()
	if err != nil {
		log.Fatal("Failed to create report cache", zap.Error(err))
	}
	redisClient, err := cacheFactory.RedisClient()
	if err != nil {
		log.Fatal("Failed to connect to redis", zap.Error(err))
	}
	revocations := auth.NewRevocationList(redisClient)

	// Repositories
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	commissionRepo := persistence.NewGormCommissionRepository(db.DB)
	auditRepo := persistence.NewGormAuditLogRepository(db.DB)
	factorRepo := persistence.NewGormCalculationFactorRepository(db.DB)
	partnerRepo := persistence.NewGormPartnerRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	expenseRepo := persistence.NewGormCompanyExpenseRepository(db.DB)

	// Application services
	orderService := salesapp.NewOrderService(orderRepo, partnerRepo, auditRepo, log)
	orderService.SetDefaultMarkupFactor(cfg.Pricing.DefaultMarkupFactor)
	orderService.SetLocation(location)
	orderService.SetTransitionRecorder(businessMetrics)

	commissionService := salesapp.NewCommissionService(commissionRepo)
	commissionService.SetLocation(location)

	factorService := salesapp.NewFactorService(factorRepo, log)
	partnerService := partnerapp.NewPartnerService(partnerRepo, log)
	productService := catalogapp.NewProductService(productRepo, log)

	expenseService := financeapp.NewExpenseService(expenseRepo, log)
	expenseService.SetLocation(location)

	costPolicy, err := report.ParseCostPolicy(cfg.Report.DefaultCostPolicy)
	if err != nil {
		log.Fatal("Invalid report cost policy", zap.Error(err))
	}
	reportService := reportapp.NewReportService(orderRepo, commissionRepo, expenseRepo, reportCache, log)
	reportService.SetDefaultCostPolicy(costPolicy)
	reportService.SetCacheTTL(cfg.Report.CacheTTL)
	reportService.SetLocation(location)
	reportService.SetCacheRecorder(businessMetrics)

	// Event bus: committed order events feed metrics and drop cached reports
	eventBus := event.NewInMemoryEventBus(log)
	eventHandlers := event.Dedup(
		[]shared.EventHandler{
			eventapp.NewMetricsHandler(businessMetrics, log),
			eventapp.NewReportCacheInvalidationHandler(reportCache, log),
		},
		idempotencyStore,
		log,
		event.DedupOptions{TTL: cfg.Idempotency.TTL},
	)
	for _, h := range eventHandlers {
		eventBus.Subscribe(h)
	}
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	orderService.SetEventPublisher(eventBus)
	partnerService.SetEventPublisher(eventBus)
	productService.SetEventPublisher(eventBus)
	expenseService.SetEventPublisher(eventBus)

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Order matters: request id before logging, tracing before the span
	// enrichment that runs after authentication
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		Providers: otelProviders,
		Enabled:   cfg.Telemetry.MetricsEnabled,
	}))
	engine.Use(middleware.ProfileLabels(otelProviders.Profiling()))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfigFromApp(cfg.HTTP)))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	systemHandler := handler.NewSystemHandler(cfg.App.Name, version, db)
	engine.GET("/health", systemHandler.Health)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:  auth.NewJWTService(cfg.JWT),
		Revocations: revocations,
		SkipPaths:   router.PublicPaths(r.BasePath()),
		Logger:      log,
	}))
	r.Use(middleware.TracingAttributeInjector(), middleware.SpanErrorMarker())

	var payableGuard gin.HandlerFunc
	if cfg.Idempotency.Enabled {
		payableGuard = middleware.Idempotency(middleware.IdempotencyConfig{
			Store:  idempotencyStore,
			TTL:    cfg.Idempotency.TTL,
			Logger: log,
		})
	}

	groups := router.DomainGroups(router.Handlers{
		Order:      handler.NewOrderHandler(orderService),
		Commission: handler.NewCommissionHandler(commissionService),
		Factor:     handler.NewFactorHandler(factorService),
		Partner:    handler.NewPartnerHandler(partnerService),
		Product:    handler.NewProductHandler(productService),
		Expense:    handler.NewExpenseHandler(expenseService),
		Report:     handler.NewReportHandler(reportService),
		System:     systemHandler,
	}, payableGuard)
	for _, g := range groups {
		r.Register(g)
		log.Debug("Routes registered", zap.String("group", g.Name()), zap.Int("routes", g.RouteCount()))
	}
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// migrate applies the SQL migrations. Without a migrations path the gorm
// models are auto-migrated instead, which is only meant for development.
func migrate(db *persistence.Database, migrationsPath string, log *zap.Logger) error {
	if migrationsPath == "" {
		log.Warn("No migrations path configured, auto-migrating gorm models")
		return db.AutoMigrate()
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	migrator, err := migration.New(sqlDB, migrationsPath, log)
	if err != nil {
		return err
	}
	// Closing the migrator would close the shared *sql.DB
	return migrator.Up()
}
