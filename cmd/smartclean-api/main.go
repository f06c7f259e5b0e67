package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/smartclean-api/api/swagger"
	"github.com/noah-isme/smartclean-api/internal/handler"
	"github.com/noah-isme/smartclean-api/internal/middleware"
	"github.com/noah-isme/smartclean-api/internal/models"
	"github.com/noah-isme/smartclean-api/internal/repository"
	"github.com/noah-isme/smartclean-api/internal/service"
	"github.com/noah-isme/smartclean-api/pkg/cache"
	"github.com/noah-isme/smartclean-api/pkg/config"
	"github.com/noah-isme/smartclean-api/pkg/database"
	"github.com/noah-isme/smartclean-api/pkg/events"
	"github.com/noah-isme/smartclean-api/pkg/export"
	"github.com/noah-isme/smartclean-api/pkg/jobs"
	"github.com/noah-isme/smartclean-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/smartclean-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/smartclean-api/pkg/middleware/requestid"
)

// @title SmartClean API
// @version 1.0.0
// @description Household services provider directory
// @BasePath /
// @schemes http

type accountStore interface {
	Create(ctx context.Context, account *models.Account) error
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindByID(ctx context.Context, id string) (*models.Account, error)
}

type onboardingStore interface {
	Create(ctx context.Context, app *models.OnboardingApplication) error
	CountPendingByEmail(ctx context.Context, email string) (int, error)
}

type tokenStore interface {
	Save(ctx context.Context, nonce, accountID string, ttl time.Duration) error
	Consume(ctx context.Context, nonce string) (string, error)
	Close() error
}

type catalogLoader interface {
	Load(ctx context.Context) ([]models.Provider, error)
	Source() string
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	readiness := map[string]handler.ReadinessCheck{}

	var db *sqlx.DB
	if cfg.Database.Enabled {
		db, err = database.NewPostgres(cfg.Database)
		if err != nil {
			logr.Fatal("failed to connect to postgres", zap.Error(err))
		}
		defer db.Close() //nolint:errcheck
		if cfg.Database.Migrate {
			if err := database.Migrate(ctx, db, logr); err != nil {
				logr.Fatal("failed to apply migrations", zap.Error(err))
			}
		}
		readiness["postgres"] = func(ctx context.Context) error { return db.PingContext(ctx) }
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Fatal("failed to connect to redis", zap.Error(err))
		}
		readiness["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	loader, err := newCatalogLoader(cfg.Catalog, db)
	if err != nil {
		logr.Fatal("invalid catalog configuration", zap.Error(err))
	}

	metrics := service.NewMetricsService()
	validate := validator.New()

	publisher := events.Publisher(events.NewNopPublisher(logr))
	if len(cfg.Events.Brokers) > 0 {
		kafkaPublisher, err := events.NewKafkaPublisher(cfg.Events.Brokers, cfg.Events.Topic, logr)
		if err != nil {
			logr.Fatal("failed to configure event publisher", zap.Error(err))
		}
		publisher = kafkaPublisher
	}
	defer publisher.Close() //nolint:errcheck

	mux := jobs.NewMux()
	queue := jobs.NewQueue("notifications", mux.Dispatch, jobs.QueueConfig{
		Workers:    cfg.Notify.Workers,
		MaxRetries: cfg.Notify.MaxRetries,
		RetryDelay: cfg.Notify.RetryDelay,
		OnResult:   service.JobResultRecorder(metrics),
		Logger:     logr,
	})
	notifier := service.NewNotificationService(queue, service.NewLogMailer(logr), publisher, logr)
	notifier.Register(mux)
	queue.Start(ctx)
	defer queue.Stop()

	catalogStore := repository.NewCatalogRepository()
	catalogSvc := service.NewCatalogService(loader, catalogStore, metrics, cfg.Catalog.ReloadSchedule, logr)
	catalogSvc.SetEventSink(notifier)
	if _, err := catalogSvc.Reload(ctx); err != nil {
		logr.Fatal("failed to load provider catalog", zap.Error(err))
	}
	if err := catalogSvc.Start(ctx); err != nil {
		logr.Fatal("failed to schedule catalog reloads", zap.Error(err))
	}
	defer catalogSvc.Stop()
	readiness["catalog"] = func(ctx context.Context) error {
		if catalogSvc.Snapshot().Len() == 0 {
			return errors.New("catalog is empty")
		}
		return nil
	}

	var accounts accountStore = repository.NewMemoryAccountRepository()
	var applications onboardingStore = repository.NewMemoryOnboardingRepository()
	if db != nil {
		accounts = repository.NewAccountRepository(db)
		applications = repository.NewOnboardingRepository(db)
	}
	var tokens tokenStore = repository.NewMemoryTokenRepository()
	if redisClient != nil {
		tokens = repository.NewTokenRepository(redisClient, logr)
	}
	defer tokens.Close() //nolint:errcheck

	providerSvc := service.NewProviderService(catalogSvc, metrics, export.NewCSVExporter(), export.NewPDFExporter(), logr)
	registrationSvc := service.NewRegistrationService(accounts, notifier, validate, logr)
	onboardingSvc := service.NewOnboardingService(applications, notifier, validate, logr)
	authSvc := service.NewAuthService(accounts, tokens, notifier, metrics, logr, service.AuthConfig{
		Secret:            cfg.JWT.Secret,
		Issuer:            cfg.JWT.Issuer,
		AccessTokenExpiry: cfg.JWT.Expiration,
		RememberMeExpiry:  cfg.JWT.RefreshExpiration,
		MagicLinkTTL:      cfg.JWT.MagicLinkTTL,
		MagicLinkBaseURL:  cfg.JWT.MagicLinkBaseURL,
	})

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics, "/metrics"))

	metricsHandler := handler.NewMetricsHandler(metrics, readiness)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.EnableDocs && cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.GET("/status", metricsHandler.Status)

	providerHandler := handler.NewProviderHandler(providerSvc)
	providers := api.Group("/providers")
	providers.GET("", providerHandler.Search)
	providers.GET("/featured", providerHandler.Featured)
	providers.GET("/filters", providerHandler.FilterOptions)
	providers.GET("/export", providerHandler.Export)
	providers.GET("/:slug", providerHandler.Get)

	authHandler := handler.NewAuthHandler(registrationSvc, authSvc)
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/password-strength", authHandler.PasswordStrength)
	auth.POST("/login", authHandler.Login)
	auth.POST("/magic-link/verify", authHandler.VerifyMagicLink)
	auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)

	onboardingHandler := handler.NewOnboardingHandler(onboardingSvc)
	onboarding := api.Group("/onboarding")
	onboarding.GET("/steps", onboardingHandler.Steps)
	onboarding.POST("/validate", onboardingHandler.Validate)
	onboarding.POST("/navigate", onboardingHandler.Navigate)
	onboarding.POST("", onboardingHandler.Submit)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "catalog_source", loader.Source())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

func newCatalogLoader(cfg config.CatalogConfig, db *sqlx.DB) (catalogLoader, error) {
	switch cfg.Source {
	case "", config.CatalogSourceSeed:
		return repository.NewYAMLCatalogLoader(""), nil
	case config.CatalogSourceFile:
		if cfg.Path == "" {
			return nil, errors.New("CATALOG_PATH is required when CATALOG_SOURCE=file")
		}
		return repository.NewYAMLCatalogLoader(cfg.Path), nil
	case config.CatalogSourcePostgres:
		if db == nil {
			return nil, errors.New("CATALOG_SOURCE=postgres requires DB_ENABLED=true")
		}
		return repository.NewPostgresCatalogLoader(db), nil
	default:
		return nil, fmt.Errorf("unknown CATALOG_SOURCE %q", cfg.Source)
	}
}
