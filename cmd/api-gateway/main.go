package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/sodachi-biyori/sodachi-api/api/swagger"
	"github.com/sodachi-biyori/sodachi-api/internal/handler"
	"github.com/sodachi-biyori/sodachi-api/internal/middleware"
	"github.com/sodachi-biyori/sodachi-api/internal/repository"
	"github.com/sodachi-biyori/sodachi-api/internal/service"
	"github.com/sodachi-biyori/sodachi-api/pkg/cache"
	"github.com/sodachi-biyori/sodachi-api/pkg/config"
	"github.com/sodachi-biyori/sodachi-api/pkg/database"
	"github.com/sodachi-biyori/sodachi-api/pkg/logger"
	corsmiddleware "github.com/sodachi-biyori/sodachi-api/pkg/middleware/cors"
	reqidmiddleware "github.com/sodachi-biyori/sodachi-api/pkg/middleware/requestid"
	"github.com/sodachi-biyori/sodachi-api/pkg/storage"
)

// @title Sodachi Biyori API
// @version 1.0.0
// @description Growth-video delivery platform for childcare facilities
// @BasePath /api/v1
// @schemes http https

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	mediaStore, err := storage.NewMediaStore(ctx, cfg.Storage, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to init media storage", "error", err)
	}

	validate := validator.New()
	metrics := service.NewMetricsService()

	// Repositories.
	schoolRepo := repository.NewSchoolRepository(db)
	classRepo := repository.NewClassRepository(db)
	guardianRepo := repository.NewGuardianRepository(db)
	adminUserRepo := repository.NewAdminUserRepository(db)
	adRepo := repository.NewAdRepository(db)
	sponsorRepo := repository.NewSponsorRepository(db)
	videoRepo := repository.NewVideoRepository(db)
	stampRepo := repository.NewStampRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	trackingRepo := repository.NewTrackingRepository(db)
	faceTagRepo := repository.NewFaceTagRepository(db)
	deviceTokenRepo := repository.NewDeviceTokenRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	// Services.
	authSvc := service.NewAuthService(adminUserRepo, guardianRepo, schoolRepo, classRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	adSvc := service.NewAdService(adRepo, schoolRepo, cacheRepo, metrics, logr, cfg.Ads.CandidateCacheTTL)
	adAdminSvc := service.NewAdAdminService(adSvc, validate)
	sponsorSvc := service.NewSponsorService(sponsorRepo, schoolRepo, metrics, validate, logr)
	stampSvc := service.NewStampService(stampRepo, logr)
	favoriteSvc := service.NewFavoriteService(favoriteRepo, logr)
	trackingSvc := service.NewTrackingService(trackingRepo, validate, logr)
	notificationSvc := service.NewNotificationService(deviceTokenRepo, validate, cfg.Push, logr)
	videoSvc := service.NewVideoService(videoRepo, mediaStore, notificationSvc, validate, logr)
	schoolSvc := service.NewSchoolService(schoolRepo, classRepo, validate, logr)
	guardianSvc := service.NewGuardianService(guardianRepo, validate, logr)
	faceTagSvc := service.NewFaceTagService(faceTagRepo, nil, cfg.FaceTags, logr)
	analyticsSvc := service.NewAnalyticsService(trackingRepo, sponsorRepo, cacheRepo, logr, cfg.Analytics.CacheTTL)

	notificationSvc.Start(ctx)
	defer notificationSvc.Stop()
	faceTagSvc.Start(ctx)
	defer faceTagSvc.Stop()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		readyCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(readyCtx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r, cfg.APIPrefix, authSvc, handler.Handlers{
		Auth:      handler.NewAuthHandler(authSvc),
		Ads:       handler.NewAdHandler(adSvc),
		Sponsors:  handler.NewSponsorHandler(sponsorSvc),
		Tracking:  handler.NewTrackingHandler(trackingSvc),
		Stamps:    handler.NewStampHandler(stampSvc),
		Favorites: handler.NewFavoriteHandler(favoriteSvc),
		Videos:    handler.NewVideoHandler(videoSvc),
		Media:     handler.NewMediaHandler(mediaStore, logr),
		Me:        handler.NewGuardianMeHandler(guardianSvc, notificationSvc),

		AdminSchools:   handler.NewAdminSchoolHandler(schoolSvc),
		AdminGuardians: handler.NewAdminGuardianHandler(guardianSvc),
		AdminVideos:    handler.NewAdminVideoHandler(videoSvc, faceTagSvc),
		AdminSponsors:  handler.NewAdminSponsorHandler(sponsorSvc),
		AdminAds:       handler.NewAdminAdHandler(adAdminSvc),
		AdminFaceTags:  handler.NewAdminFaceTagHandler(faceTagSvc),
		AdminAnalytics: handler.NewAdminAnalyticsHandler(analyticsSvc, sponsorSvc),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("graceful shutdown failed", zap.Error(err))
	}
}
