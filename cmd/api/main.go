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
	"github.com/jmoiron/sqlx"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/tutor-directory-api/api/swagger"
	"github.com/noah-isme/tutor-directory-api/internal/handler"
	"github.com/noah-isme/tutor-directory-api/internal/middleware"
	"github.com/noah-isme/tutor-directory-api/internal/repository"
	"github.com/noah-isme/tutor-directory-api/internal/service"
	"github.com/noah-isme/tutor-directory-api/pkg/cache"
	"github.com/noah-isme/tutor-directory-api/pkg/config"
	"github.com/noah-isme/tutor-directory-api/pkg/database"
	"github.com/noah-isme/tutor-directory-api/pkg/export"
	"github.com/noah-isme/tutor-directory-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/tutor-directory-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/tutor-directory-api/pkg/middleware/requestid"
	"github.com/noah-isme/tutor-directory-api/pkg/validation"
)

// @title Tutor Directory API
// @version 1.0.0
// @description Searchable directory of private tutors with an admin dashboard
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
		if cfg.Admin.PasswordHash == "" {
			logr.Warn("ADMIN_PASSWORD_HASH is empty, admin login is disabled")
		}
	}

	checks := map[string]handler.Pinger{}

	var db *sqlx.DB
	if cfg.UsesPostgres() {
		var err error
		db, err = database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer db.Close() //nolint:errcheck
		checks["database"] = pingerFunc(db.PingContext)
	}

	catalog, err := newCatalog(cfg, db)
	if err != nil {
		return err
	}
	inbox := newInbox(cfg, db)

	metrics := service.NewMetricsService()
	var cacheRepo *repository.CacheRepository
	if cfg.Listing.CacheEnabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, listing cache disabled", zap.String("addr", cache.Addr(cfg.Redis)), zap.Error(err))
		} else {
			cacheRepo = repository.NewCacheRepository(client, logr)
			defer cacheRepo.Close() //nolint:errcheck
			checks["redis"] = cacheRepo
		}
	}
	var cacheRepoIface service.CacheRepository
	if cacheRepo != nil {
		cacheRepoIface = cacheRepo
	}
	cacheSvc := service.NewCacheService(cacheRepoIface, metrics, cfg.Listing.CacheTTL, logr, cacheRepo != nil)

	validator := validation.New()
	tutors := service.NewTutorService(catalog, cacheSvc, metrics, logr, service.TutorServiceConfig{CacheTTL: cfg.Listing.CacheTTL})
	auth := service.NewAdminAuthService(validator, logr, service.AuthConfig{
		Username:     cfg.Admin.Username,
		PasswordHash: cfg.Admin.PasswordHash,
		TokenSecret:  cfg.JWT.Secret,
		TokenExpiry:  cfg.JWT.Expiration,
		Issuer:       cfg.JWT.Issuer,
	})
	dashboard := service.NewDashboardService(service.DashboardServiceParams{
		Catalog: catalog,
		Inbox:   inbox,
		Cache:   cacheSvc,
		Metrics: metrics,
		Logger:  logr,
		Config:  service.DashboardServiceConfig{CacheTTL: cfg.Dashboard.CacheTTL},
	})
	exports := service.NewExportService(tutors, logr, export.NewCSVExporter(), export.NewPDFExporter(cfg.Export.PDFFont))

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	handler.RegisterRoutes(r, cfg.APIPrefix, handler.Handlers{
		Tutors:      handler.NewTutorHandler(tutors),
		Catalog:     handler.NewCatalogHandler(service.NewCatalogService(catalog, logr)),
		Submissions: handler.NewSubmissionHandler(service.NewSubmissionService(inbox, validator, metrics, logr)),
		Auth:        handler.NewAuthHandler(auth),
		Dashboard:   handler.NewDashboardHandler(dashboard),
		Export:      handler.NewExportHandler(exports),
		Metrics:     handler.NewMetricsHandler(metrics, checks),
	}, auth)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("catalog", cfg.Catalog.Driver),
			zap.String("submissions", cfg.Submissions.Driver),
			zap.Bool("listing_cache", cacheSvc.Enabled()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newCatalog(cfg *config.Config, db *sqlx.DB) (service.CatalogRepository, error) {
	if cfg.Catalog.Driver == config.DriverPostgres {
		return repository.NewPostgresCatalog(db), nil
	}
	if cfg.Catalog.File != "" {
		catalog, err := repository.LoadMemoryCatalog(cfg.Catalog.File)
		if err != nil {
			return nil, fmt.Errorf("load catalog %s: %w", cfg.Catalog.File, err)
		}
		return catalog, nil
	}
	catalog, err := repository.NewSeedCatalog()
	if err != nil {
		return nil, fmt.Errorf("load seed catalog: %w", err)
	}
	return catalog, nil
}

func newInbox(cfg *config.Config, db *sqlx.DB) service.SubmissionRepository {
	if cfg.Submissions.Driver == config.DriverPostgres {
		return repository.NewPostgresSubmissionRepository(db)
	}
	return repository.NewMemorySubmissionRepository()
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }
