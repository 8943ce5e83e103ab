package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/tutorlink/tutorlink-api/api/swagger"
	"github.com/tutorlink/tutorlink-api/internal/handler"
	"github.com/tutorlink/tutorlink-api/internal/middleware"
	"github.com/tutorlink/tutorlink-api/internal/models"
	"github.com/tutorlink/tutorlink-api/internal/repository"
	"github.com/tutorlink/tutorlink-api/internal/service"
	"github.com/tutorlink/tutorlink-api/pkg/cache"
	"github.com/tutorlink/tutorlink-api/pkg/config"
	"github.com/tutorlink/tutorlink-api/pkg/database"
	"github.com/tutorlink/tutorlink-api/pkg/logger"
	corsmiddleware "github.com/tutorlink/tutorlink-api/pkg/middleware/cors"
	reqidmiddleware "github.com/tutorlink/tutorlink-api/pkg/middleware/requestid"
)

// @title TutorLink Admin API
// @version 1.0.0
// @description Administration and analytics API for the TutorLink tutoring marketplace
// @BasePath /api/v1
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
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Analytics.CacheTTL, logr, cfg.Analytics.Enabled)

	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	taxonomyRepo := repository.NewTaxonomyRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	certificateRepo := repository.NewCertificateRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     "tutorlink-api",
	})
	userSvc := service.NewUserService(userRepo, roleRepo, cacheSvc, validate, logr)
	roleSvc := service.NewRoleService(roleRepo, validate, logr)
	locationSvc := service.NewLocationService(locationRepo, validate, logr)
	taxonomySvc := service.NewTaxonomyService(taxonomyRepo, validate, logr)
	bookingSvc := service.NewBookingService(bookingRepo, cacheSvc, validate, logr)
	paymentSvc := service.NewPaymentService(paymentRepo, bookingRepo, cacheSvc, validate, logr)
	sessionSvc := service.NewSessionService(sessionRepo, bookingRepo, validate, logr)
	reviewSvc := service.NewReviewService(reviewRepo, bookingRepo, cacheSvc, validate, logr)
	certificateSvc := service.NewCertificateService(certificateRepo, validate, logr)
	analyticsSvc := service.NewAnalyticsService(analyticsRepo, cacheSvc, metricsSvc, logr)
	reportSvc := service.NewReportService(analyticsRepo, cacheSvc, metricsSvc, logr, service.ReportServiceConfig{
		TopLimit: cfg.Analytics.TopLimit,
		CacheTTL: cfg.Analytics.CacheTTL,
	})
	exportSvc := service.NewExportService(reportSvc, logr)

	authHandler := handler.NewAuthHandler(authSvc, userSvc)
	userHandler := handler.NewUserHandler(userSvc)
	roleHandler := handler.NewRoleHandler(roleSvc)
	locationHandler := handler.NewLocationHandler(locationSvc)
	taxonomyHandler := handler.NewTaxonomyHandler(taxonomySvc)
	bookingHandler := handler.NewBookingHandler(bookingSvc)
	paymentHandler := handler.NewPaymentHandler(paymentSvc)
	sessionHandler := handler.NewSessionHandler(sessionSvc)
	reviewHandler := handler.NewReviewHandler(reviewSvc)
	certificateHandler := handler.NewCertificateHandler(certificateSvc)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsSvc)
	reportHandler := handler.NewReportHandler(reportSvc, exportSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.WithResponseMeta())
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "database unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	authed := auth.Group("")
	authed.Use(middleware.JWT(authSvc))
	authed.GET("/me", authHandler.Me)
	authed.POST("/change-password", authHandler.ChangePassword)

	admin := api.Group("/admin")
	admin.Use(middleware.JWT(authSvc))
	admin.Use(middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin))

	users := admin.Group("/users")
	users.GET("", userHandler.List)
	users.POST("", userHandler.Create)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Deactivate)
	users.POST("/:id/roles/:roleId", userHandler.AttachRole)
	users.DELETE("/:id/roles/:roleId", userHandler.DetachRole)

	roles := admin.Group("/roles")
	roles.GET("", roleHandler.List)
	roles.POST("", roleHandler.Create)
	roles.GET("/:id", roleHandler.Get)
	roles.PUT("/:id", roleHandler.Update)
	roles.DELETE("/:id", roleHandler.Delete)

	cities := admin.Group("/cities")
	cities.GET("", locationHandler.ListCities)
	cities.POST("", locationHandler.CreateCity)
	cities.GET("/:id", locationHandler.GetCity)
	cities.PUT("/:id", locationHandler.UpdateCity)
	cities.DELETE("/:id", locationHandler.DeleteCity)

	neighborhoods := admin.Group("/neighborhoods")
	neighborhoods.GET("", locationHandler.ListNeighborhoods)
	neighborhoods.POST("", locationHandler.CreateNeighborhood)
	neighborhoods.GET("/:id", locationHandler.GetNeighborhood)
	neighborhoods.PUT("/:id", locationHandler.UpdateNeighborhood)
	neighborhoods.DELETE("/:id", locationHandler.DeleteNeighborhood)

	cycles := admin.Group("/cycles")
	cycles.GET("", taxonomyHandler.ListCycles)
	cycles.POST("", taxonomyHandler.CreateCycle)
	cycles.GET("/:id", taxonomyHandler.GetCycle)
	cycles.PUT("/:id", taxonomyHandler.UpdateCycle)
	cycles.DELETE("/:id", taxonomyHandler.DeleteCycle)

	levels := admin.Group("/levels")
	levels.GET("", taxonomyHandler.ListLevels)
	levels.POST("", taxonomyHandler.CreateLevel)
	levels.GET("/:id", taxonomyHandler.GetLevel)
	levels.PUT("/:id", taxonomyHandler.UpdateLevel)
	levels.DELETE("/:id", taxonomyHandler.DeleteLevel)

	subjects := admin.Group("/subjects")
	subjects.GET("", taxonomyHandler.ListSubjects)
	subjects.POST("", taxonomyHandler.CreateSubject)
	subjects.GET("/:id", taxonomyHandler.GetSubject)
	subjects.PUT("/:id", taxonomyHandler.UpdateSubject)
	subjects.DELETE("/:id", taxonomyHandler.DeleteSubject)

	bookings := admin.Group("/bookings")
	bookings.GET("", bookingHandler.List)
	bookings.POST("", bookingHandler.Create)
	bookings.GET("/:id", bookingHandler.Get)
	bookings.PUT("/:id", bookingHandler.Update)
	bookings.PATCH("/:id/status", bookingHandler.UpdateStatus)

	payments := admin.Group("/payments")
	payments.GET("", paymentHandler.List)
	payments.POST("", paymentHandler.Create)
	payments.GET("/:id", paymentHandler.Get)
	payments.PATCH("/:id/status", paymentHandler.UpdateStatus)

	sessions := admin.Group("/sessions")
	sessions.GET("", sessionHandler.List)
	sessions.POST("", sessionHandler.Create)
	sessions.GET("/:id", sessionHandler.Get)
	sessions.PATCH("/:id/status", sessionHandler.UpdateStatus)
	sessions.POST("/:id/feedback", sessionHandler.AddFeedback)
	sessions.GET("/:id/feedback", sessionHandler.Feedback)

	reviews := admin.Group("/reviews")
	reviews.GET("", reviewHandler.List)
	reviews.POST("", reviewHandler.Create)
	reviews.GET("/:id", reviewHandler.Get)
	reviews.PATCH("/:id/moderate", reviewHandler.Moderate)
	reviews.DELETE("/:id", reviewHandler.Delete)

	certificates := admin.Group("/certificates")
	certificates.GET("", certificateHandler.List)
	certificates.POST("", certificateHandler.Create)
	certificates.GET("/:id", certificateHandler.Get)
	certificates.PATCH("/:id/verify", certificateHandler.Verify)
	certificates.DELETE("/:id", certificateHandler.Delete)

	if cfg.Analytics.Enabled {
		analytics := admin.Group("/analytics")
		analytics.GET("/overview", analyticsHandler.Overview)
		analytics.GET("/bookings", analyticsHandler.Bookings)
		analytics.GET("/revenue", analyticsHandler.Revenue)
		analytics.GET("/users", analyticsHandler.Users)
		analytics.GET("/ratings", analyticsHandler.Ratings)
		analytics.GET("/top-professors", analyticsHandler.TopProfessors)
		analytics.GET("/system", analyticsHandler.System)
	}

	if cfg.Reports.Enabled {
		reports := admin.Group("/reports")
		reports.GET("", reportHandler.Generate)
		if cfg.Reports.ExportEnabled {
			reports.GET("/export", reportHandler.Export)
		}
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Sugar().Infow("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Sugar().Errorw("forced shutdown", "error", err)
	}
	if err := cacheRepo.Close(); err != nil {
		logr.Sugar().Warnw("failed to close redis", "error", err)
	}
}
