package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/tutor-crm-api/api/swagger"
	"github.com/noah-isme/tutor-crm-api/internal/handler"
	"github.com/noah-isme/tutor-crm-api/internal/middleware"
	"github.com/noah-isme/tutor-crm-api/internal/repository"
	"github.com/noah-isme/tutor-crm-api/internal/service"
	"github.com/noah-isme/tutor-crm-api/pkg/cache"
	"github.com/noah-isme/tutor-crm-api/pkg/config"
	"github.com/noah-isme/tutor-crm-api/pkg/database"
	"github.com/noah-isme/tutor-crm-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/tutor-crm-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/tutor-crm-api/pkg/middleware/requestid"
)

// @title Tutor CRM API
// @version 1.0.0
// @description Calendar materialization and income tracking for private tutors
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

	location, err := time.LoadLocation(cfg.Events.Timezone)
	if err != nil {
		logr.Sugar().Fatalw("invalid events timezone", "timezone", cfg.Events.Timezone, "error", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	cacheRepo := repository.NewCacheRepository(nil, logr)
	if cfg.Payments.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, payments cache disabled", "error", err)
		} else {
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
		}
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Payments.CacheTTL, logr, cfg.Payments.CacheEnabled)

	userRepo := repository.NewUserRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	eventRepo := repository.NewEventRepository(db)
	incomeRepo := repository.NewIncomeRepository(db)
	clientRepo := repository.NewClientRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})
	eventSvc := service.NewEventService(scheduleRepo, eventRepo, userRepo, validate, logr, metricsSvc, service.EventServiceConfig{
		Location:      location,
		MaxWindowDays: cfg.Events.MaxWindowDays,
	})
	scheduleSvc := service.NewScheduleService(scheduleRepo, validate, logr)
	paymentSvc := service.NewPaymentService(incomeRepo, clientRepo, cacheSvc, logr, location)

	authHandler := handler.NewAuthHandler(authSvc)
	eventHandler := handler.NewEventHandler(eventSvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)
	paymentHandler := handler.NewPaymentHandler(paymentSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)
		}

		protected := api.Group("")
		protected.Use(middleware.JWT(authSvc))
		{
			protected.GET("/events", eventHandler.List)
			protected.PUT("/events/:id", eventHandler.Update)
			protected.POST("/events/:id/cancel", eventHandler.Cancel)

			protected.GET("/schedules", scheduleHandler.List)
			protected.POST("/schedules", scheduleHandler.Create)
			protected.PUT("/schedules/:id", scheduleHandler.Update)
			protected.DELETE("/schedules/:id", scheduleHandler.Delete)

			protected.GET("/payments/this-month", paymentHandler.ThisMonth)
			protected.GET("/payments/this-month/export", paymentHandler.Export)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
