package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/campushall/hallbook-api/api/swagger"
	"github.com/campushall/hallbook-api/internal/handler"
	"github.com/campushall/hallbook-api/internal/middleware"
	"github.com/campushall/hallbook-api/internal/models"
	"github.com/campushall/hallbook-api/internal/repository"
	"github.com/campushall/hallbook-api/internal/service"
	"github.com/campushall/hallbook-api/pkg/cache"
	"github.com/campushall/hallbook-api/pkg/config"
	"github.com/campushall/hallbook-api/pkg/database"
	"github.com/campushall/hallbook-api/pkg/logger"
	corsmiddleware "github.com/campushall/hallbook-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campushall/hallbook-api/pkg/middleware/requestid"
)

// @title Hallbook API
// @version 0.1.0
// @description Venue booking administration with a two-stage approval workflow
// @BasePath /
// @schemes http

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
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// The events cache is an optimization; the API serves without it.
		logr.Sugar().Warnw("redis unavailable, events cache disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	hallRepo := repository.NewHallRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      "hallbook-api",
	})
	userSvc := service.NewUserService(userRepo, validate, logr)
	hallSvc := service.NewHallService(hallRepo, bookingRepo, validate, logr, cfg.Admin.MasterEmail)
	metricsSvc := service.NewMetricsService()
	bookingSvc := service.NewBookingService(bookingRepo, hallRepo, redisClient, validate, logr, metricsSvc, cfg.Events.CacheTTL)
	importSvc := service.NewImportService(bookingRepo, hallRepo, logr)
	exportSvc := service.NewExportService(bookingSvc, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)
	hallHandler := handler.NewHallHandler(hallSvc)
	bookingHandler := handler.NewBookingHandler(bookingSvc, exportSvc, metricsSvc)
	uploadHandler := handler.NewUploadHandler(importSvc, exportSvc, metricsSvc, cfg.Import.MaxFileSizeBytes, cfg.Import.Timeout)
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
	r.MaxMultipartMemory = cfg.Import.MaxFileSizeBytes

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	// Public surface.
	api.POST("/login", authHandler.Login)
	api.GET("/events", bookingHandler.Events)

	// Any authenticated user.
	authed := api.Group("", middleware.JWT(authSvc))
	authed.GET("/about", authHandler.About)
	authed.GET("/halls", hallHandler.List)
	authed.GET("/halls/:id", hallHandler.Get)
	authed.GET("/bookings", bookingHandler.List)
	authed.POST("/bookings", bookingHandler.Create)
	authed.GET("/bookingsView/:id", bookingHandler.View)

	// Approvers and administrators.
	staffOnly := authed.Group("", middleware.RequireRoles(models.RoleAdmin, models.RoleHOD))
	staffOnly.PUT("/bookingsEdit/:id", bookingHandler.Edit)
	staffOnly.GET("/bookings/export", bookingHandler.Export)
	staffOnly.POST("/upload", uploadHandler.Upload)
	staffOnly.GET("/upload/template", uploadHandler.Template)

	adminOnly := authed.Group("", middleware.RequireRoles(models.RoleAdmin))
	adminOnly.POST("/halls", hallHandler.Create)
	adminOnly.PUT("/halls/:id", hallHandler.Update)
	adminOnly.DELETE("/halls/:id", hallHandler.Delete)
	adminOnly.GET("/getuser", userHandler.List)
	adminOnly.POST("/register", userHandler.Register)
	adminOnly.DELETE("/deleteuser/:id", userHandler.Delete)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
