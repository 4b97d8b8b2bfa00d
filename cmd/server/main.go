package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	inventoryapp "github.com/craftpos/backend/internal/application/inventory"
	productionapp "github.com/craftpos/backend/internal/application/production"
	recipeapp "github.com/craftpos/backend/internal/application/recipe"
	salesapp "github.com/craftpos/backend/internal/application/sales"
	"github.com/craftpos/backend/internal/infrastructure/cache"
	"github.com/craftpos/backend/internal/infrastructure/config"
	"github.com/craftpos/backend/internal/infrastructure/event"
	"github.com/craftpos/backend/internal/infrastructure/logger"
	"github.com/craftpos/backend/internal/infrastructure/persistence"
	"github.com/craftpos/backend/internal/infrastructure/telemetry"
	"github.com/craftpos/backend/internal/interfaces/http/handler"
	"github.com/craftpos/backend/internal/interfaces/http/middleware"
	"github.com/craftpos/backend/internal/interfaces/http/router"
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
		_ = log.Sync()
	}()

	log.Info("Starting CraftPOS Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))

	// Initialize database connection
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Database tracing (spans per query, slow query tagging)
	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:          cfg.Telemetry.Enabled,
		SlowQueryThresh:  200 * time.Millisecond,
		DBSystem:         "postgresql",
		WithoutVariables: true,
	}, log)
	if err := dbTracing.Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// Initialize repositories
	itemRepo := persistence.NewGormItemRepository(db.DB)
	recipeRepo := persistence.NewGormRecipeRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	salesScope := persistence.NewGormSalesTransactionScope(db.DB)
	productionScope := persistence.NewGormProductionTransactionScope(db.DB)

	// Initialize application services
	ledgerService := inventoryapp.NewLedgerService(itemRepo, log)
	costService := recipeapp.NewCostService(recipeRepo, itemRepo, log)
	checkoutService := salesapp.NewCheckoutService(salesScope, saleRepo, log)
	fulfillmentService := productionapp.NewFulfillmentService(productionScope, orderRepo, recipeRepo, log)

	// Recipe cost cache: Redis when enabled, in-process otherwise
	var costCache recipeapp.CostCache
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisCostCache(cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisCache.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
		costCache = redisCache
		log.Info("Redis cost cache enabled", zap.String("addr", cfg.Redis.Addr()))
	} else {
		costCache = cache.NewInMemoryCostCache(cfg.Redis.CacheTTL)
	}
	costService.SetCostCache(costCache)

	// Initialize event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)

	// Item cost change -> eager recipe cost recomputation
	itemCostChangedHandler := recipeapp.NewItemCostChangedHandler(costService, log)
	eventBus.Subscribe(itemCostChangedHandler)
	log.Info("Event handlers registered",
		zap.Strings("item_cost_changed_events", itemCostChangedHandler.EventTypes()),
	)

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	ledgerService.SetEventPublisher(eventBus)
	costService.SetEventPublisher(eventBus)
	checkoutService.SetEventPublisher(eventBus)
	fulfillmentService.SetEventPublisher(eventBus)

	// Initialize HTTP handlers
	inventoryHandler := handler.NewInventoryHandler(ledgerService)
	recipeHandler := handler.NewRecipeHandler(costService)
	productionHandler := handler.NewProductionHandler(fulfillmentService)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService, cfg.Checkout)
	systemHandler := handler.NewSystemHandler(db)

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

	// Middleware stack: request ID, recovery, logging, tracing, CORS,
	// body limit
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoint (outside API versioning)
	engine.GET("/healthz", systemHandler.Health)

	// Register API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(inventoryHandler)
	r.Register(recipeHandler)
	r.Register(productionHandler)
	r.Register(checkoutHandler)
	r.Register(systemHandler)
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
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal and shut down gracefully
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}
