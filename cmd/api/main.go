// Package main is the entrypoint for the Studylog API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/studylog/studylog/internal/auth"
	"github.com/studylog/studylog/internal/cache"
	"github.com/studylog/studylog/internal/config"
	"github.com/studylog/studylog/internal/handler"
	"github.com/studylog/studylog/internal/middleware"
	"github.com/studylog/studylog/internal/repository"
	"github.com/studylog/studylog/internal/server"
	"github.com/studylog/studylog/internal/service"
)

func main() {
	// Initialize context
	ctx := context.Background()

	// Load .env in development; real environments set variables directly.
	_ = godotenv.Load()

	// Load configuration. A missing JWT_SECRET or DATABASE_URL fails here,
	// before any request is served.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Apply schema migrations
	if err := repository.Migrate(cfg.DatabaseURL); err != nil {
		logger.Error(
			"failed to migrate database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
		)
		os.Exit(1)
	}

	// Initialize database
	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	// Initialize Redis (token revocation list)
	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	// Initialize services
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(repo, tokens)
	subjectService := service.NewSubjectService(repo)
	noteService := service.NewNoteService(repo)
	sessionService := service.NewSessionService(repo)
	userService := service.NewUserService(repo)

	// Initialize handlers
	h := handler.New()
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	authHandler := handler.NewAuthHandler(authService, cacheClient, cfg.TokenTTL, logger)
	subjectHandler := handler.NewSubjectHandler(subjectService, noteService, logger)
	noteHandler := handler.NewNoteHandler(noteService, logger)
	sessionHandler := handler.NewSessionHandler(sessionService, logger)
	userHandler := handler.NewUserHandler(userService, logger)

	// Setup router
	r := setupRouter(routerDeps{
		base:     h,
		health:   healthHandler,
		auth:     authHandler,
		subjects: subjectHandler,
		notes:    noteHandler,
		sessions: sessionHandler,
		users:    userHandler,
		tokens:   tokens,
		cache:    cacheClient,
		cfg:      cfg,
		logger:   logger,
	})

	// Create and run server
	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"token_ttl", cfg.TokenTTL.String(),
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// routerDeps bundles everything setupRouter wires together.
type routerDeps struct {
	base     *handler.Handler
	health   *handler.HealthHandler
	auth     *handler.AuthHandler
	subjects *handler.SubjectHandler
	notes    *handler.NoteHandler
	sessions *handler.SessionHandler
	users    *handler.UserHandler
	tokens   *auth.TokenService
	cache    *cache.Cache
	cfg      *config.Config
	logger   *slog.Logger
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(deps routerDeps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.logger))
	r.Use(middleware.Recoverer(deps.logger))
	r.Use(middleware.BodyLimit(deps.cfg.MaxRequestBodySize))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = deps.cfg.GetCORSAllowedOrigins()
	r.Use(middleware.CORS(corsCfg))

	// Health endpoints (no auth required)
	r.Get("/healthz", deps.health.Healthz)
	r.Get("/readyz", deps.health.Readyz)

	// Root info endpoint
	r.Get("/", deps.base.Hello)

	// Auth middleware configuration
	guard := middleware.Auth(middleware.AuthConfig{
		Logger:      deps.logger,
		Tokens:      deps.tokens,
		Revocations: deps.cache,
	})

	// Public auth routes, with course-style aliases
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", deps.auth.Register)
		r.Post("/sign-up", deps.auth.Register)
		r.Post("/login", deps.auth.Login)
		r.Post("/sign-in", deps.auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(guard)
			r.Get("/me", deps.auth.Me)
			r.Post("/logout", deps.auth.Logout)
		})
	})

	// Protected resource routes
	r.Group(func(r chi.Router) {
		r.Use(guard)

		r.Route("/subjects", func(r chi.Router) {
			r.Get("/", deps.subjects.List)
			r.Post("/", deps.subjects.Create)
			r.Get("/{subjectID}", deps.subjects.Get)
			r.Put("/{subjectID}", deps.subjects.Update)
			r.Delete("/{subjectID}", deps.subjects.Delete)

			r.Post("/{subjectID}/notes", deps.subjects.CreateNote)
			r.Put("/{subjectID}/notes/{noteID}", deps.subjects.UpdateNote)
			r.Delete("/{subjectID}/notes/{noteID}", deps.subjects.DeleteNote)
		})

		r.Route("/notes", func(r chi.Router) {
			r.Get("/", deps.notes.List)
			r.Get("/search", deps.notes.Search)
			r.Get("/{noteID}", deps.notes.Get)
			r.Put("/{noteID}", deps.notes.Update)
			r.Delete("/{noteID}", deps.notes.Delete)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", deps.sessions.List)
			r.Post("/", deps.sessions.Create)
			r.Put("/{sessionID}", deps.sessions.Update)
			r.Delete("/{sessionID}", deps.sessions.Delete)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", deps.users.List)
			r.Get("/subjects", deps.users.ListWithSubjects)
			r.Get("/{userID}", deps.users.Get)
		})
	})

	// 404 and 405 handlers
	r.NotFound(deps.base.NotFound)
	r.MethodNotAllowed(deps.base.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
