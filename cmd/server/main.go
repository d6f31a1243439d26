package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	identityapp "github.com/bahikhata/backend/internal/application/identity"
	ledgerapp "github.com/bahikhata/backend/internal/application/ledger"
	"github.com/bahikhata/backend/internal/infrastructure/auth"
	"github.com/bahikhata/backend/internal/infrastructure/config"
	"github.com/bahikhata/backend/internal/infrastructure/logger"
	"github.com/bahikhata/backend/internal/infrastructure/pdf"
	"github.com/bahikhata/backend/internal/infrastructure/persistence"
	"github.com/bahikhata/backend/internal/infrastructure/storage"
	"github.com/bahikhata/backend/internal/interfaces/http/handler"
	"github.com/bahikhata/backend/internal/interfaces/http/middleware"
	"github.com/bahikhata/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

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
		_ = logger.Sync(log)
	}()

	log.Info("Starting bahikhata backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Repositories and unit of work
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	receiptRepo := persistence.NewGormReceiptRepository(db.DB)
	depositRepo := persistence.NewGormDepositRepository(db.DB)
	transactionLogRepo := persistence.NewGormTransactionLogRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	uow := persistence.NewGormUnitOfWork(db.DB)

	// Blob store for receipt attachments
	receiptStore, err := storage.NewS3ReceiptStore(&cfg.Storage)
	if err != nil {
		log.Fatal("Failed to initialize receipt store", zap.Error(err))
	}
	ensureCtx, ensureCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := receiptStore.EnsureBucket(ensureCtx); err != nil {
		ensureCancel()
		log.Fatal("Failed to ensure receipt bucket", zap.Error(err))
	}
	ensureCancel()
	log.Info("Receipt store ready", zap.String("bucket", receiptStore.Bucket()))

	// PDF renderer for receipt images
	renderer, err := pdf.NewChromedpRenderer(&pdf.Config{
		Timeout: cfg.PDF.RenderTimeout,
		Logger:  log,
	})
	if err != nil {
		log.Fatal("Failed to initialize PDF renderer", zap.Error(err))
	}
	defer func() {
		if err := renderer.Close(); err != nil {
			log.Error("Error closing PDF renderer", zap.Error(err))
		}
	}()

	// Token issuing and revocation
	jwtService := auth.NewJWTService(cfg.JWT)
	var blacklist auth.TokenBlacklist
	redisBlacklist, err := auth.NewRedisTokenBlacklist(cfg.Redis)
	if err != nil {
		if cfg.App.Env == "production" {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		log.Warn("Redis unavailable, using in-memory token blacklist", zap.Error(err))
		blacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		blacklist = redisBlacklist
		log.Info("Redis token blacklist connected", zap.String("addr", cfg.Redis.Addr()))
	}

	// Application services
	customerService := ledgerapp.NewCustomerService(uow, customerRepo, log)
	receiptService := ledgerapp.NewReceiptService(uow, receiptRepo, receiptStore, renderer, log)
	depositService := ledgerapp.NewDepositService(uow, depositRepo, log)
	transactionLogService := ledgerapp.NewTransactionLogService(transactionLogRepo)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)

	// HTTP handlers
	customerHandler := handler.NewCustomerHandler(customerService)
	receiptHandler := handler.NewReceiptHandler(receiptService)
	depositHandler := handler.NewDepositHandler(depositService)
	transactionLogHandler := handler.NewTransactionLogHandler(transactionLogService)
	authHandler := handler.NewAuthHandler(authService)
	healthHandler := handler.NewHealthHandler(db)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

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

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	engine.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		SkipPaths: []string{
			"/api/v1/health",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
		},
		Logger: log,
	}))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(healthHandler).
		Register(authHandler).
		Register(customerHandler).
		Register(receiptHandler).
		Register(depositHandler).
		Register(transactionLogHandler)
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
