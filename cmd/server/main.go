package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalogapp "github.com/pricepilot/backend/internal/application/catalog"
	marketapp "github.com/pricepilot/backend/internal/application/market"
	pricingapp "github.com/pricepilot/backend/internal/application/pricing"
	"github.com/pricepilot/backend/internal/infrastructure/cache"
	"github.com/pricepilot/backend/internal/infrastructure/config"
	"github.com/pricepilot/backend/internal/infrastructure/event"
	"github.com/pricepilot/backend/internal/infrastructure/logger"
	"github.com/pricepilot/backend/internal/infrastructure/persistence"
	"github.com/pricepilot/backend/internal/infrastructure/telemetry"
	"github.com/pricepilot/backend/internal/interfaces/http/handler"
	"github.com/pricepilot/backend/internal/interfaces/http/middleware"
	"github.com/pricepilot/backend/internal/interfaces/http/router"

	_ "github.com/pricepilot/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			PricePilot Backend API
//	@version		1.0
//	@description	Pricing recommendation engine - demand forecasting, price optimization and business-rule strategy per product

//	@contact.name	API Support
//	@contact.url	https://github.com/pricepilot/backend

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting PricePilot Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize OpenTelemetry tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Initialize OpenTelemetry metrics
	meterProvider, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
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

	// Wire database query tracing (otelgorm) when enabled
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbTracingCfg := telemetry.DefaultDBTracingConfig()
		dbTracingCfg.Enabled = true
		dbTracing := telemetry.NewDBTracingPlugin(dbTracingCfg, log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		} else {
			log.Info("Database tracing enabled")
		}
	}

	// Initialize repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	competitorPriceRepo := persistence.NewGormCompetitorPriceRepository(db.DB)
	demandRecordRepo := persistence.NewGormDemandRecordRepository(db.DB)
	priceChangeRepo := persistence.NewGormPriceChangeRepository(db.DB)

	// Pricing pipeline metrics (only when the meter provider exports somewhere)
	var pricingMetrics *telemetry.PricingMetrics
	if meterProvider.IsEnabled() {
		pricingMetrics, err = telemetry.NewPricingMetrics(telemetry.PricingMetricsConfig{
			Meter:  meterProvider.Meter("pricepilot/pricing"),
			Logger: log,
		})
		if err != nil {
			log.Warn("Failed to initialize pricing metrics", zap.Error(err))
		}
	}

	// Initialize event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)

	priceChangeHandler := event.NewPriceChangeHandler(log, pricingMetrics)
	eventBus.Subscribe(priceChangeHandler, priceChangeHandler.EventTypes()...)
	log.Info("Event handlers registered",
		zap.Strings("price_change_events", priceChangeHandler.EventTypes()),
	)

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Recommendation cache: Redis when enabled, in-memory otherwise
	cacheFactory := cache.NewRecommendationCacheFactory(cfg.Redis, cfg.Pricing.CacheTTL, cache.WithLogger(log))
	var recommendationCache pricingapp.RecommendationCache
	if cfg.Redis.Enabled {
		recommendationCache, err = cacheFactory.CreateCache()
		if err != nil {
			log.Fatal("Failed to create recommendation cache", zap.Error(err))
		}
	} else {
		recommendationCache = cacheFactory.CreateInMemoryCache()
	}
	defer func() {
		if closer, ok := recommendationCache.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				log.Error("Error closing recommendation cache", zap.Error(err))
			}
		}
	}()

	// Initialize application services
	productService := catalogapp.NewProductService(productRepo, eventBus)
	marketService := marketapp.NewMarketService(productRepo, competitorPriceRepo, demandRecordRepo)
	recommendationService := pricingapp.NewRecommendationService(
		productRepo, competitorPriceRepo, demandRecordRepo, priceChangeRepo, recommendationCache, eventBus,
	)
	healthService := pricingapp.NewHealthService(productRepo, competitorPriceRepo, demandRecordRepo)

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(productService)
	marketHandler := handler.NewMarketHandler(marketService)
	pricingHandler := handler.NewPricingHandler(recommendationService, healthService)
	if pricingMetrics != nil {
		pricingHandler.SetMetrics(pricingMetrics)
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

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

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Swagger documentation endpoint
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:    cfg.Swagger.Enabled,
			AllowedIPs: cfg.Swagger.AllowedIPs,
		}),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Tenant resolution, tracing and metrics apply to every API route
	tenantConfig := middleware.DefaultTenantConfig()
	tenantConfig.DefaultTenantID = cfg.Pricing.DefaultTenantID
	tenantConfig.Logger = log
	r.Use(
		middleware.TenantMiddlewareWithConfig(tenantConfig),
		middleware.Tracing(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled && tracerProvider.IsEnabled(),
		}),
		middleware.SpanErrorMarker(),
		middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
			MeterProvider: meterProvider,
			Enabled:       cfg.Telemetry.Enabled,
		}),
	)

	// Catalog domain (products)
	catalogRoutes := router.NewDomainGroup("catalog", "/catalog")
	catalogRoutes.POST("/products", productHandler.Create)
	catalogRoutes.GET("/products", productHandler.List)
	catalogRoutes.GET("/products/:id", productHandler.GetByID)
	catalogRoutes.GET("/products/sku/:sku", productHandler.GetBySKU)
	catalogRoutes.PUT("/products/:id", productHandler.Update)
	catalogRoutes.DELETE("/products/:id", productHandler.Delete)

	// Market domain (competitor prices, demand history)
	marketRoutes := router.NewDomainGroup("market", "/market")
	marketRoutes.POST("/products/:id/competitor-prices", marketHandler.RecordCompetitorPrice)
	marketRoutes.GET("/products/:id/competitor-prices", marketHandler.ListCompetitorPrices)
	marketRoutes.DELETE("/competitor-prices/:id", marketHandler.DeleteCompetitorPrice)
	marketRoutes.POST("/products/:id/demand", marketHandler.RecordDemand)
	marketRoutes.GET("/products/:id/demand", marketHandler.ListDemandRecords)
	marketRoutes.DELETE("/demand/:id", marketHandler.DeleteDemandRecord)

	// Pricing domain (recommendations, simulation, history, health)
	pricingRoutes := router.NewDomainGroup("pricing", "/pricing")
	pricingRoutes.POST("/products/:id/recommendation", pricingHandler.RunPipeline)
	pricingRoutes.POST("/products/:id/apply", pricingHandler.ApplyRecommendation)
	pricingRoutes.POST("/products/:id/simulate", pricingHandler.Simulate)
	pricingRoutes.GET("/products/:id/history", pricingHandler.History)
	pricingRoutes.GET("/products/:id/health", pricingHandler.ProductHealth)
	pricingRoutes.GET("/health", pricingHandler.CatalogHealth)

	// System routes
	systemHandler := handler.NewSystemHandler()
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	r.Register(catalogRoutes).
		Register(marketRoutes).
		Register(pricingRoutes).
		Register(systemRoutes)

	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
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

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
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
