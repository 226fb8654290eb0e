package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/taskmanager-pro/service-booking-api/api/swagger"
	"github.com/taskmanager-pro/service-booking-api/internal/handler"
	"github.com/taskmanager-pro/service-booking-api/internal/middleware"
	"github.com/taskmanager-pro/service-booking-api/internal/repository"
	"github.com/taskmanager-pro/service-booking-api/internal/service"
	"github.com/taskmanager-pro/service-booking-api/pkg/cache"
	"github.com/taskmanager-pro/service-booking-api/pkg/config"
	"github.com/taskmanager-pro/service-booking-api/pkg/database"
	"github.com/taskmanager-pro/service-booking-api/pkg/logger"
	corsmiddleware "github.com/taskmanager-pro/service-booking-api/pkg/middleware/cors"
	reqidmiddleware "github.com/taskmanager-pro/service-booking-api/pkg/middleware/requestid"
)

// @title Service Booking API
// @version 1.0.0
// @description Customer service requests, worker availability and admin assignment
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	// Redis is optional; the dashboard cache degrades to a no-op without it.
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, dashboard cache disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	workerRepo := repository.NewWorkerRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	statsRepo := repository.NewStatsRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsService := service.NewMetricsService()
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration, cfg.JWT.Issuer, validate, logr)
	availabilityService := service.NewAvailabilityService(availabilityRepo, validate, logr)
	bookingService := service.NewBookingService(bookingRepo, categoryRepo, validate, logr)
	assignmentService := service.NewAssignmentService(bookingRepo, workerRepo, availabilityRepo, availabilityService, validate, logr)
	feedbackService := service.NewFeedbackService(feedbackRepo, bookingRepo, validate, logr)
	paymentService := service.NewPaymentService(paymentRepo, bookingRepo, validate, logr)
	categoryService := service.NewCategoryService(categoryRepo, logr)
	taskService := service.NewTaskService(taskRepo, workerRepo, validate, logr)
	dashboardService := service.NewDashboardService(statsRepo, cacheRepo, metricsService, cfg.Dashboard.CacheTTL, logr)
	reportService := service.NewReportService(bookingRepo, logr)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsService.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r, cfg.APIPrefix, authService, handler.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Booking:      handler.NewBookingHandler(bookingService, metricsService),
		Availability: handler.NewAvailabilityHandler(availabilityService),
		Assignment:   handler.NewAssignmentHandler(assignmentService, dashboardService, metricsService),
		Feedback:     handler.NewFeedbackHandler(feedbackService),
		Payment:      handler.NewPaymentHandler(paymentService),
		Category:     handler.NewCategoryHandler(categoryService),
		Task:         handler.NewTaskHandler(taskService),
		Dashboard:    handler.NewDashboardHandler(dashboardService),
		Report:       handler.NewReportHandler(reportService),
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
