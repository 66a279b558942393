package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	filingapp "github.com/docfiling/backend/internal/application/filing"
	identityapp "github.com/docfiling/backend/internal/application/identity"
	"github.com/docfiling/backend/internal/infrastructure/activity"
	"github.com/docfiling/backend/internal/infrastructure/auth"
	"github.com/docfiling/backend/internal/infrastructure/cache"
	"github.com/docfiling/backend/internal/infrastructure/config"
	"github.com/docfiling/backend/internal/infrastructure/logger"
	"github.com/docfiling/backend/internal/infrastructure/migration"
	"github.com/docfiling/backend/internal/infrastructure/persistence"
	"github.com/docfiling/backend/internal/infrastructure/storage"
	"github.com/docfiling/backend/internal/infrastructure/telemetry"
	"github.com/docfiling/backend/internal/interfaces/http/handler"
	"github.com/docfiling/backend/internal/interfaces/http/middleware"
	"github.com/docfiling/backend/internal/interfaces/http/router"
	"github.com/docfiling/backend/migrations"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/docfiling/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Document Filing API
//	@version		1.0
//	@description	Regions, folders and their document line items, with bulk operations and an audit trail.

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting document filing backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lp, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfigFrom(cfg.Telemetry), log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	log = lp.Attach(log, logger.ParseLevel(cfg.Log.Level))

	tp, err := telemetry.NewTracerProvider(ctx, telemetry.ConfigFrom(cfg.Telemetry), log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfigFrom(cfg.Telemetry), log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := mp.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
		if err := lp.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down logger provider", zap.Error(err))
		}
	}()

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfigFrom(cfg.Telemetry), log)
	if err != nil {
		log.Warn("Continuous profiling unavailable", zap.Error(err))
	} else {
		defer func() {
			if err := profiler.Stop(); err != nil {
				log.Error("Error stopping profiler", zap.Error(err))
			}
		}()
		if profiler.IsEnabled() && cfg.Telemetry.SpanProfiles {
			tp.EnableSpanProfiles()
		}
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithFullSQL(cfg.Telemetry.DBLogFullSQL),
	)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected", zap.String("driver", db.Driver()))

	if err := migrateSchema(ctx, cfg, db, log); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}

	if tp.IsEnabled() {
		if err := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfigFrom(cfg.Telemetry), log).RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}
	if mp.IsEnabled() {
		dbMetrics, err := telemetry.RegisterDBMetrics(db.DB, mp, log)
		if err != nil {
			log.Warn("Failed to register database metrics", zap.Error(err))
		} else {
			defer dbMetrics.Stop()
		}
	}

	// Repositories
	regionRepo := persistence.NewGormRegionRepository(db.DB)
	envelopeRepo := persistence.NewGormEnvelopeRepository(db.DB)
	docTypeRepo := persistence.NewGormDocumentTypeRepository(db.DB)
	auditRepo := persistence.NewGormAuditRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)
	seeder := persistence.NewSeeder(db.DB, log)

	if _, err := seeder.EnsureDefaults(ctx); err != nil {
		log.Fatal("Failed to seed defaults", zap.Error(err))
	}

	fileStorage := newFileStorage(ctx, cfg, log)

	// Audit notifiers: business metrics and the websocket activity feed
	hub := activity.NewHub(activity.WithLogger(log))
	go hub.Run(ctx)

	recorder := filingapp.NewRecorder(log, hub)
	if mp.IsEnabled() {
		filingMetrics, err := telemetry.NewFilingMetrics(mp.Meter("filing"), log)
		if err != nil {
			log.Warn("Failed to create filing metrics", zap.Error(err))
		} else {
			recorder.AddNotifier(filingMetrics)
		}
	}

	// Application services
	regionService := filingapp.NewRegionService(regionRepo, txScope, recorder, fileStorage, log)
	folderService := filingapp.NewFolderService(envelopeRepo, txScope, recorder, fileStorage, log)
	folderService.SetConfig(filingapp.FolderServiceConfig{
		MaxFileSize:       cfg.Storage.MaxFileSize,
		DownloadURLExpiry: cfg.Storage.PresignExpiration,
	})
	bulkService := filingapp.NewBulkService(txScope, recorder, log)
	dashboardService := filingapp.NewDashboardService(regionRepo, envelopeRepo, docTypeRepo, auditRepo, seeder,
		filingapp.DashboardConfig{
			SeedOnRead:          cfg.Dashboard.SeedOnRead,
			RecentActivityLimit: cfg.Dashboard.RecentActivityLimit,
		}, log)
	auditService := filingapp.NewAuditService(auditRepo)

	// Shared redis backs token revocation and rate limits across instances
	var redisClient redis.UniversalClient
	if cfg.Redis.Enabled {
		redisClient = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs:    []string{cfg.Redis.Addr()},
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing redis client", zap.Error(err))
			}
		}()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err), zap.String("addr", cfg.Redis.Addr()))
		}
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}

	var blacklist auth.TokenBlacklist
	if redisClient != nil {
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
	}

	var submissions middleware.SubmissionStore
	if redisClient != nil {
		submissions = cache.NewRedisSubmissionStore(redisClient)
	} else {
		memStore := cache.NewInMemorySubmissionStore()
		defer memStore.Close()
		submissions = memStore
	}

	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)

	handlers := router.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		System:    handler.NewSystemHandler(db, cfg.App.Name, version),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Region:    handler.NewRegionHandler(regionService),
		Folder:    handler.NewFolderHandler(folderService),
		Ajax:      handler.NewAjaxHandler(bulkService),
		Audit:     handler.NewAuditHandler(auditService),
		Activity:  handler.NewActivityHandler(hub, cfg.HTTP.CORSAllowOrigins),

		Submissions: middleware.Idempotency(submissions, cfg.HTTP.IdempotencyTTL, log),
	}

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

	// Middleware order: request ID, recovery, access log, tracing and metrics,
	// security headers, CORS, body limit, rate limit
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     tp.IsEnabled(),
	}))
	if mp.IsEnabled() {
		engine.Use(middleware.HTTPMetrics(mp, log))
	}
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowOrigins: cfg.HTTP.CORSAllowOrigins,
		AllowMethods: cfg.HTTP.CORSAllowMethods,
		AllowHeaders: cfg.HTTP.CORSAllowHeaders,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	var authLimits []gin.HandlerFunc
	if cfg.HTTP.RateLimitEnabled {
		store, err := middleware.NewRateLimitStore(redisClient)
		if err != nil {
			log.Fatal("Failed to create rate limit store", zap.Error(err))
		}
		globalLimit, err := middleware.RateLimit(store, cfg.HTTP.RateLimit, "global", log)
		if err != nil {
			log.Fatal("Invalid rate limit", zap.Error(err))
		}
		engine.Use(globalLimit)

		authLimit, err := middleware.RateLimit(store, cfg.HTTP.AuthRateLimit, "auth", log)
		if err != nil {
			log.Fatal("Invalid auth rate limit", zap.Error(err))
		}
		authLimits = append(authLimits, authLimit)
		log.Info("Rate limiting enabled",
			zap.String("rate", cfg.HTTP.RateLimit),
			zap.String("auth_rate", cfg.HTTP.AuthRateLimit),
			zap.Bool("shared", redisClient != nil),
		)
	}

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.TokenBlacklist = blacklist
	jwtConfig.Logger = log

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig), middleware.SpanAnnotator())
	r.Root(http.MethodGet, "/health", handlers.System.Health)
	if cfg.Swagger.Enabled {
		r.Root(http.MethodGet, "/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	r.Register(router.FilingRoutes(handlers, authLimits...)...)
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
		log.Info("Server starting", zap.String("addr", srv.Addr), zap.Int("routes", len(r.Routes())))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}

// migrateSchema brings the schema up to date. sqlite and explicitly configured
// setups use GORM auto migration; postgres runs the versioned SQL migrations,
// from the configured directory when it exists and from the embedded set otherwise.
func migrateSchema(ctx context.Context, cfg *config.Config, db *persistence.Database, log *zap.Logger) error {
	if cfg.Database.AutoMigrate || db.Driver() == config.DriverSQLite {
		return db.AutoMigrate(ctx)
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}

	var m *migration.Migrator
	if _, statErr := os.Stat(cfg.Database.MigrationsPath); statErr == nil {
		m, err = migration.New(sqlDB, cfg.Database.MigrationsPath, log)
	} else {
		m, err = migration.NewFromFS(sqlDB, migrations.FS, log)
	}
	if err != nil {
		return err
	}
	// closing the migrator would close the shared connection pool
	return m.Up()
}

// newFileStorage returns S3 storage when enabled. A storage that cannot be
// reached at startup falls back to the stub so folders stay editable.
func newFileStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) filingapp.FileStorage {
	if !cfg.Storage.Enabled {
		log.Info("Object storage disabled, document files are kept in memory")
		return storage.NewStubObjectStorage()
	}

	s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
	if err != nil {
		log.Error("Failed to create object storage, using stub", zap.Error(err))
		return storage.NewStubObjectStorage()
	}
	if err := s3Storage.EnsureBucket(ctx); err != nil {
		log.Error("Object storage bucket unavailable, using stub", zap.Error(err), zap.String("bucket", cfg.Storage.Bucket))
		return storage.NewStubObjectStorage()
	}
	log.Info("Object storage ready", zap.String("bucket", cfg.Storage.Bucket))
	return s3Storage
}
