package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalogapp "github.com/marketplace/backend/internal/application/catalog"
	directoryapp "github.com/marketplace/backend/internal/application/directory"
	messagingapp "github.com/marketplace/backend/internal/application/messaging"
	orderingapp "github.com/marketplace/backend/internal/application/ordering"
	"github.com/marketplace/backend/internal/infrastructure/auth"
	"github.com/marketplace/backend/internal/infrastructure/cache"
	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/marketplace/backend/internal/infrastructure/crypto"
	"github.com/marketplace/backend/internal/infrastructure/logger"
	"github.com/marketplace/backend/internal/infrastructure/persistence"
	"github.com/marketplace/backend/internal/infrastructure/telemetry"
	"github.com/marketplace/backend/internal/interfaces/http/handler"
	"github.com/marketplace/backend/internal/interfaces/http/middleware"
	"github.com/marketplace/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting marketplace backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.App.Name,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Message body codec; Load already validated the key, so a failure
	// here means the key material itself is unusable
	codec, err := crypto.NewCodec(cfg.Messaging.EncryptionKey, log)
	if err != nil {
		log.Fatal("Failed to initialize message codec", zap.Error(err))
	}

	// Database with zap-backed GORM logging
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	if cfg.Telemetry.Enabled {
		if err := telemetry.RegisterDBTracing(db.DB, cfg.Database.DBName, log); err != nil {
			log.Error("Failed to register database tracing", zap.Error(err))
		}
	}

	// Unread-count cache: Redis when configured, in-process otherwise.
	// The cache is an accelerator only; unread truth stays in the database.
	var unreadCache cache.UnreadCache
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisUnreadCache(cfg.Redis, cfg.Messaging.UnreadCacheTTL)
		if err != nil {
			log.Warn("Redis unavailable, using in-memory unread cache", zap.Error(err))
			unreadCache = cache.NewInMemoryUnreadCache(cfg.Messaging.UnreadCacheTTL)
		} else {
			log.Info("Redis unread cache connected", zap.String("addr", cfg.Redis.Addr()))
			unreadCache = redisCache
		}
	} else {
		unreadCache = cache.NewInMemoryUnreadCache(cfg.Messaging.UnreadCacheTTL)
	}
	defer func() {
		if err := unreadCache.Close(); err != nil {
			log.Error("Error closing unread cache", zap.Error(err))
		}
	}()

	// Repositories
	messageRepo := persistence.NewGormMessageRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)

	// Application services
	sendGuard := messagingapp.NewSendGuard(orderRepo)
	messageService := messagingapp.NewService(messageRepo, userRepo, sendGuard, codec, unreadCache, log)
	orderService := orderingapp.NewService(orderRepo, productRepo)
	productService := catalogapp.NewService(productRepo)
	userService := directoryapp.NewService(userRepo)

	var jwtService *auth.JWTService
	if cfg.JWT.Enabled {
		jwtService = auth.NewJWTService(cfg.JWT)
	}

	// HTTP handlers
	messageHandler := handler.NewMessageHandler(messageService)
	orderHandler := handler.NewOrderHandler(orderService)
	productHandler := handler.NewProductHandler(productService)
	userHandler := handler.NewUserHandler(userService, jwtService)
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

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.App.Name,
			Enabled:     true,
		}))
		engine.Use(middleware.SpanEnricher())
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health endpoints live outside API versioning
	engine.GET("/health", systemHandler.Health)
	engine.GET("/ready", systemHandler.Ready)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	if jwtService != nil {
		r.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
			JWTService: jwtService,
			SkipPaths: []string{
				"/api/v1/directory/users",
				"/api/v1/directory/login",
				"/api/v1/system/info",
			},
			Logger: log,
		}))
	}

	messageRoutes := router.NewDomainGroup("messaging", "/messages")
	messageRoutes.POST("", messageHandler.Send)
	messageRoutes.GET("/conversation/:user_a/:user_b", messageHandler.GetConversation)
	messageRoutes.GET("/user/:user_id", messageHandler.GetUserConversations)
	messageRoutes.GET("/order/:order_id", messageHandler.GetOrderMessages)
	messageRoutes.PATCH("/:id/read", messageHandler.MarkRead)
	messageRoutes.PATCH("/conversation/:user_a/:user_b/read", messageHandler.MarkConversationRead)
	messageRoutes.DELETE("/:id", messageHandler.Delete)
	messageRoutes.GET("/unread/count/:user_id", messageHandler.UnreadCount)

	orderRoutes := router.NewDomainGroup("ordering", "/orders")
	orderRoutes.POST("", orderHandler.Create)
	orderRoutes.GET("/:id", orderHandler.GetByID)
	orderRoutes.GET("/buyer/:buyer_id", orderHandler.ListByBuyer)
	orderRoutes.PATCH("/:id/status", orderHandler.UpdateStatus)

	catalogRoutes := router.NewDomainGroup("catalog", "/catalog")
	catalogRoutes.POST("/products", productHandler.Create)
	catalogRoutes.GET("/products/:id", productHandler.GetByID)
	catalogRoutes.GET("/products/seller/:seller_id", productHandler.ListBySeller)
	catalogRoutes.POST("/products/:id/disable", productHandler.Disable)

	directoryRoutes := router.NewDomainGroup("directory", "/directory")
	directoryRoutes.POST("/users", userHandler.Register)
	directoryRoutes.GET("/users/:id", userHandler.GetByID)
	directoryRoutes.PUT("/users/:id/contact", userHandler.UpdateContact)
	directoryRoutes.POST("/login", userHandler.Login)

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)

	r.Register(messageRoutes).
		Register(orderRoutes).
		Register(catalogRoutes).
		Register(directoryRoutes).
		Register(systemRoutes)

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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
