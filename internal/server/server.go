// Package server contains the HTTP handlers for the DevConnect API.
package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"devconnect/internal/auth"
	"devconnect/internal/cache"
	"devconnect/internal/config"
	"devconnect/internal/database"
	"devconnect/internal/featureflags"
	"devconnect/internal/github"
	"devconnect/internal/middleware"
	"devconnect/internal/models"
	"devconnect/internal/observability"
	"devconnect/internal/repository"
	"devconnect/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	limiter        *middleware.Limiter
	promMiddleware *fiberprometheus.FiberPrometheus
	featureFlags   *featureflags.Manager
	tokens         *auth.TokenIssuer
	postService    *service.PostService
	profileService *service.ProfileService
	userService    *service.UserService
}

// NewServer connects to the database and Redis named by cfg and wires the services.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg, middleware.Logger)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// nil when Redis is unreachable; throttling then fails open
	redisClient := cache.Connect(context.Background(), cfg.RedisURL, middleware.Logger)

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if db == nil {
		return nil, errors.New("database is required")
	}

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	profileRepo := repository.NewProfileRepository(db)

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour)
	flags := featureflags.NewManager(cfg.FeatureFlags)

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		limiter:        middleware.NewLimiter(redisClient, redisClient != nil && cfg.Env != "test"),
		promMiddleware: middleware.InitMetrics(observability.ServiceName),
		featureFlags:   flags,
		tokens:         tokens,
	}
	server.postService = service.NewPostService(postRepo, userRepo, tokens)
	server.profileService = service.NewProfileService(profileRepo, userRepo, tokens,
		github.NewClient(cfg.GitHubClientID, cfg.GitHubClientSecret), flags)
	server.userService = service.NewUserService(userRepo, tokens)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())

	app.Use(requestid.New())

	// Tracing runs before the context middleware so the trace ID reaches the logger.
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.Identify(s.tokens))

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())

	app.Use(middleware.StructuredLogger())

	// CORS before anything that can short-circuit, so error responses carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:3000,http://127.0.0.1:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Auth-Token",
		MaxAge:       86400,
	}))

	perMinute := s.config.RateLimitPerMinute
	if perMinute <= 0 {
		perMinute = 120
	}
	global := s.limiter.RateLimit(perMinute, time.Minute, middleware.FailOpen, "global")
	app.Use(func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodOptions {
			return c.Next()
		}
		return global(c)
	})
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")
	api.Get("/flags", middleware.OptionalCredential, s.GetFeatureFlags)

	// Users and auth
	api.Post("/users", s.limiter.RateLimit(5, 10*time.Minute, middleware.FailOpen, "register"), s.Register)
	api.Post("/auth", s.limiter.RateLimit(10, 5*time.Minute, middleware.FailOpen, "login"), s.Login)
	api.Get("/auth", middleware.CredentialRequired, s.GetMe)

	// Posts are private to signed-in users
	posts := api.Group("/posts", middleware.CredentialRequired)
	posts.Post("/", s.limiter.RateLimit(10, time.Minute, middleware.FailOpen, "create_post"), s.CreatePost)
	posts.Get("/", s.GetPosts)
	// Define specific /:id/:resource routes BEFORE generic /:id route
	posts.Put("/:id/like", s.ToggleLike)
	posts.Post("/:id/comment", s.limiter.RateLimit(20, time.Minute, middleware.FailOpen, "create_comment"), s.AddComment)
	posts.Delete("/:id/comment/:commentId", s.RemoveComment)
	posts.Get("/:id", s.GetPost)
	posts.Delete("/:id", s.DeletePost)

	// Profiles
	profile := api.Group("/profile")
	profile.Get("/", s.GetProfiles)
	profile.Get("/user/:userId", s.GetProfileByUser)
	profile.Get("/github/:username", middleware.OptionalCredential,
		s.limiter.RateLimit(30, time.Minute, middleware.FailOpen, "github"), s.GetGitHubRepos)

	own := profile.Group("", middleware.CredentialRequired)
	own.Get("/me", s.GetMyProfile)
	own.Post("/", s.UpsertProfile)
	own.Delete("/", s.DeleteProfile)
	own.Put("/experience", s.AddExperience)
	own.Delete("/experience/:id", s.RemoveExperience)
	own.Put("/education", s.AddEducation)
	own.Delete("/education/:id", s.RemoveEducation)
}

// AppConfig is the Fiber configuration the API runs with. Immutable keeps
// params and URLs valid after the handler returns, since spans and logs
// hold on to them until they are exported.
func AppConfig() fiber.Config {
	return fiber.Config{
		AppName:      "DevConnect API",
		BodyLimit:    1 * 1024 * 1024,
		Immutable:    true,
		ErrorHandler: ErrorHandler,
	}
}

// ErrorHandler renders errors that escape handlers, including unmatched routes.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
	}
	middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", "error", err.Error())
	return models.RespondWithAppError(c, err)
}

// Shutdown releases the Redis client and database pool.
func (s *Server) Shutdown(_ context.Context) error {
	var errs []error
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}
	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				errs = append(errs, fmt.Errorf("db close: %w", err))
			}
		}
	}
	return errors.Join(errs...)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. Redis is optional: the API
// runs without throttling when it is down.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// GetFeatureFlags handles GET /api/flags, evaluated for the caller when a
// valid token is sent.
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	caller, _ := s.tokens.Resolve(c.UserContext(), middleware.Credential(c))
	return c.JSON(s.featureFlags.Snapshot(caller))
}
