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
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/cyberkingz/retromuscle-affiliate-api/api/swagger"
	"github.com/cyberkingz/retromuscle-affiliate-api/internal/handler"
	"github.com/cyberkingz/retromuscle-affiliate-api/internal/middleware"
	"github.com/cyberkingz/retromuscle-affiliate-api/internal/models"
	"github.com/cyberkingz/retromuscle-affiliate-api/internal/repository"
	"github.com/cyberkingz/retromuscle-affiliate-api/internal/service"
	"github.com/cyberkingz/retromuscle-affiliate-api/pkg/cache"
	"github.com/cyberkingz/retromuscle-affiliate-api/pkg/config"
	"github.com/cyberkingz/retromuscle-affiliate-api/pkg/database"
	"github.com/cyberkingz/retromuscle-affiliate-api/pkg/logger"
	corsmiddleware "github.com/cyberkingz/retromuscle-affiliate-api/pkg/middleware/cors"
	reqidmiddleware "github.com/cyberkingz/retromuscle-affiliate-api/pkg/middleware/requestid"
)

// @title RetroMuscle Affiliate API
// @version 1.0.0
// @description Creator affiliate program backend: applications, monthly quota
// @description trackings, video review and payout statements.
// @BasePath /api/v1
// @schemes http https
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect database", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, running without cache", "error", err)
	} else {
		defer redisClient.Close()
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, cfg.Dashboard.CacheEnabled && cacheRepo != nil)

	userRepo := repository.NewUserRepository(db)
	applicationRepo := repository.NewApplicationRepository(db).WithMetrics(metricsSvc)
	creatorRepo := repository.NewCreatorRepository(db).WithMetrics(metricsSvc)
	trackingRepo := repository.NewTrackingRepository(db).WithMetrics(metricsSvc)
	catalogRepo := repository.NewCatalogRepository(db)
	videoRepo := repository.NewVideoAssetRepository(db)

	quotaSvc := service.NewQuotaService(cfg.Quotas.MixWeightEpsilon, logr)
	payoutSvc := service.NewPayoutService(logr)
	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	applicationSvc := service.NewApplicationService(applicationRepo, nil, logr)
	reviewSvc := service.NewReviewService(service.ReviewServiceParams{
		Applications: applicationRepo,
		Creators:     creatorRepo,
		Trackings:    trackingRepo,
		Catalog:      catalogRepo,
		Quotas:       quotaSvc,
		Cache:        cacheSvc,
		Logger:       logr,
	})
	trackingSvc := service.NewTrackingService(trackingRepo, cacheSvc, logr)
	videoSvc := service.NewVideoService(videoRepo, trackingRepo, cacheSvc, nil, logr)
	catalogSvc := service.NewCatalogService(catalogRepo, quotaSvc, logr)
	dashboardSvc := service.NewDashboardService(service.DashboardServiceParams{
		Trackings: trackingRepo,
		Rates:     catalogRepo,
		Packages:  catalogRepo,
		Payouts:   payoutSvc,
		Cache:     cacheSvc,
		Logger:    logr,
		CacheTTL:  cfg.Dashboard.CacheTTL,
	})
	exportSvc := service.NewExportService(trackingRepo, catalogRepo, catalogRepo, payoutSvc, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	applicationHandler := handler.NewApplicationHandler(applicationSvc)
	reviewHandler := handler.NewReviewHandler(reviewSvc)
	trackingHandler := handler.NewTrackingHandler(trackingSvc)
	videoHandler := handler.NewVideoHandler(videoSvc)
	catalogHandler := handler.NewCatalogHandler(catalogSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	api.POST("/auth/login", authHandler.Login)

	catalog := api.Group("/catalog")
	catalog.Use(middleware.OptionalJWT(authSvc))
	catalog.GET("/packages", catalogHandler.ListPackages)
	catalog.GET("/mixes", catalogHandler.ListMixes)
	catalog.GET("/rates", catalogHandler.ListRates)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))

	authed.GET("/auth/me", authHandler.Me)
	authed.POST("/auth/refresh", authHandler.Refresh)

	authed.GET("/applications/me", applicationHandler.Get)
	authed.PUT("/applications/me", applicationHandler.SaveDraft)
	authed.POST("/applications/me/submit", applicationHandler.Submit)

	// Creator-owned resources: resolve the caller's creator row so services
	// can enforce ownership against the creators-table id.
	owned := authed.Group("")
	owned.Use(middleware.CreatorScope(creatorRepo))
	owned.GET("/trackings/:id", trackingHandler.Get)
	owned.GET("/trackings/:id/videos", videoHandler.ListByTracking)
	if cfg.Exports.Enabled {
		owned.GET("/trackings/:id/statement", exportHandler.Statement)
	}
	owned.POST("/videos", videoHandler.Upload)

	creators := owned.Group("/creators/:id")
	creators.Use(middleware.CreatorOwner())
	creators.GET("/trackings", trackingHandler.ListByCreator)
	creators.GET("/dashboard", dashboardHandler.Overview)

	admin := authed.Group("/admin")
	admin.Use(middleware.RequireRoles(models.RoleAdmin))
	admin.GET("/applications", applicationHandler.List)
	admin.POST("/applications/:id/review", reviewHandler.Review)
	admin.POST("/trackings/:id/paid", trackingHandler.MarkPaid)
	admin.POST("/videos/:id/review", videoHandler.Review)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
