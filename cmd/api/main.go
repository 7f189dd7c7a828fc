package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/tutofast/tutofast-api/api/swagger"
	"github.com/tutofast/tutofast-api/internal/handler"
	"github.com/tutofast/tutofast-api/internal/middleware"
	"github.com/tutofast/tutofast-api/internal/repository"
	"github.com/tutofast/tutofast-api/internal/service"
	"github.com/tutofast/tutofast-api/pkg/cache"
	"github.com/tutofast/tutofast-api/pkg/config"
	"github.com/tutofast/tutofast-api/pkg/database"
	"github.com/tutofast/tutofast-api/pkg/logger"
	corsmiddleware "github.com/tutofast/tutofast-api/pkg/middleware/cors"
	reqidmiddleware "github.com/tutofast/tutofast-api/pkg/middleware/requestid"
)

// @title TutoFast API
// @version 1.0.0
// @description University tutoring marketplace API
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	semesterRepo := repository.NewSemesterRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	userRepo := repository.NewUserRepository(db)
	tutoringRepo := repository.NewTutoringRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, cfg.Cache.Enabled && redisClient != nil)
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	userCommands := service.NewUserCommandService(userRepo, validate, logr)
	userQueries := service.NewUserQueryService(userRepo, logr)
	courseQueries := service.NewCourseQueryService(courseRepo, logr)
	tutoringCommands := service.NewTutoringCommandService(tutoringRepo, userRepo, courseRepo, cacheSvc, metricsSvc, validate, logr)
	tutoringQueries := service.NewTutoringQueryService(tutoringRepo, cacheSvc, logr)
	exportSvc := service.NewExportService(tutoringRepo, nil, nil, logr)
	seedSvc := service.NewSeedService(semesterRepo, courseRepo, metricsSvc, logr)

	if cfg.Seed.Enabled {
		seedSvc.Run(context.Background())
	}

	tutoringHandler := handler.NewTutoringHandler(tutoringCommands, tutoringQueries, exportSvc)
	courseHandler := handler.NewCourseHandler(courseQueries)
	userHandler := handler.NewUserHandler(userCommands, userQueries)
	authHandler := handler.NewAuthHandler(authSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.OptionalJWT(authSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
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
		api.POST("/tutorings", tutoringHandler.Create)
		api.GET("/tutorings", tutoringHandler.List)
		if cfg.Export.Enabled {
			api.GET("/tutorings/export", tutoringHandler.Export)
		}
		api.GET("/tutorings/:id", tutoringHandler.Get)
		api.PATCH("/tutorings/:id", tutoringHandler.Update)
		api.DELETE("/tutorings/:id", tutoringHandler.Delete)
		api.GET("/tutor/:tutorId/tutorings", tutoringHandler.ListByTutor)

		api.GET("/courses", courseHandler.List)

		api.POST("/users", userHandler.Create)
		api.GET("/users", userHandler.List)
		api.GET("/users/role/:role", userHandler.ListByRole)
		api.GET("/users/:userId", userHandler.Get)
		api.PATCH("/users/:userId", userHandler.Update)

		api.POST("/auth/login", authHandler.Login)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
