package main

import (
	"context"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"reviewhub/internal/config"
	"reviewhub/internal/entity"
	"reviewhub/internal/handler"
	"reviewhub/internal/mailer"
	"reviewhub/internal/middleware"
	"reviewhub/internal/permission"
	"reviewhub/internal/repository"
	"reviewhub/internal/service"
	"reviewhub/pkg/database"
)

const (
	authRateLimit  = 10
	burstRateLimit = 60
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	db := database.Connect()
	if err := migrate(db); err != nil {
		logrus.Fatalf("migration failed: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logrus.Fatalf("invalid REDIS_URL: %v", err)
		}
		redisClient = redis.NewClient(opt)
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logrus.Fatalf("failed to connect to redis: %v", err)
		}
	} else {
		logrus.Warn("REDIS_URL not set, rate limiting disabled")
	}

	mail := mailer.New(cfg)

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	genreRepo := repository.NewGenreRepository(db)
	titleRepo := repository.NewTitleRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	tokenSvc := service.NewTokenService(userRepo, mail, cfg.JWTSecret, cfg.CodeTTL, cfg.TokenTTL)
	userSvc := service.NewUserService(userRepo)
	categorySvc := service.NewCategoryService(categoryRepo)
	genreSvc := service.NewGenreService(genreRepo)
	titleSvc := service.NewTitleService(titleRepo, categoryRepo, genreRepo)
	reviewSvc := service.NewReviewService(reviewRepo, titleRepo)
	commentSvc := service.NewCommentService(commentRepo, reviewRepo)

	authHandler := handler.NewAuthHandler(tokenSvc)
	userHandler := handler.NewUserHandler(userSvc)
	categoryHandler := handler.NewCategoryHandler(categorySvc)
	genreHandler := handler.NewGenreHandler(genreSvc)
	titleHandler := handler.NewTitleHandler(titleSvc)
	reviewHandler := handler.NewReviewHandler(reviewSvc)
	commentHandler := handler.NewCommentHandler(commentSvc)

	authMW := middleware.NewAuthMiddleware(tokenSvc, userRepo)

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	setupCORS(router, cfg)

	// Throttling: auth endpoints and mutating traffic, per identity,
	// with moderators and admins exempt.
	authThrottle := middleware.RateLimit(redisClient, "auth", authRateLimit, cfg.RateLimitAuth, middleware.EmployeesExempt)
	burstThrottle := middleware.RateLimitWrites(redisClient, "burst", burstRateLimit, cfg.RateLimitBurst, middleware.EmployeesExempt)

	api := router.Group("/api/v1")
	api.Use(authMW.OptionalAuth())

	auth := api.Group("/auth")
	auth.Use(authThrottle)
	auth.POST("/email", authHandler.SendCode)
	auth.POST("/token", authHandler.Token)

	users := api.Group("/users")
	users.Use(authMW.RequireAuth(), burstThrottle)
	users.GET("/me", userHandler.Me)
	users.PATCH("/me", userHandler.UpdateMe)

	admin := users.Group("")
	admin.Use(middleware.Authorize(permission.AdminOnly))
	admin.GET("", userHandler.List)
	admin.POST("", userHandler.Create)
	admin.GET("/:username", userHandler.Get)
	admin.PATCH("/:username", userHandler.Update)
	admin.DELETE("/:username", userHandler.Delete)

	categories := api.Group("/categories")
	categories.Use(burstThrottle, middleware.Authorize(permission.AdminOrReadOnly))
	categories.GET("", categoryHandler.List)
	categories.POST("", categoryHandler.Create)
	categories.DELETE("/:slug", categoryHandler.Delete)

	genres := api.Group("/genres")
	genres.Use(burstThrottle, middleware.Authorize(permission.AdminOrReadOnly))
	genres.GET("", genreHandler.List)
	genres.POST("", genreHandler.Create)
	genres.DELETE("/:slug", genreHandler.Delete)

	titles := api.Group("/titles")
	titles.Use(burstThrottle, middleware.Authorize(permission.AdminOrReadOnly))
	titles.GET("", titleHandler.List)
	titles.POST("", titleHandler.Create)
	titles.GET("/:title_id", titleHandler.Get)
	titles.PATCH("/:title_id", titleHandler.Update)
	titles.DELETE("/:title_id", titleHandler.Delete)

	reviews := api.Group("/titles/:title_id/reviews")
	reviews.Use(burstThrottle, middleware.Authorize(permission.ContentPolicy))
	reviews.GET("", reviewHandler.List)
	reviews.POST("", reviewHandler.Create)
	reviews.GET("/:review_id", reviewHandler.Get)
	reviews.PATCH("/:review_id", reviewHandler.Update)
	reviews.DELETE("/:review_id", reviewHandler.Delete)

	comments := reviews.Group("/:review_id/comments")
	comments.GET("", commentHandler.List)
	comments.POST("", commentHandler.Create)
	comments.GET("/:comment_id", commentHandler.Get)
	comments.PATCH("/:comment_id", commentHandler.Update)
	comments.DELETE("/:comment_id", commentHandler.Delete)

	logrus.Infof("server listening on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		logrus.Fatalf("server exited with error: %v", err)
	}
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Category{},
		&entity.Genre{},
		&entity.Title{},
		&entity.Review{},
		&entity.Comment{},
	)
}

func setupCORS(router *gin.Engine, cfg *config.Config) {
	router.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.AllowedOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
}
