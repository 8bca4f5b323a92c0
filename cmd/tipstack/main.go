// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Command tipstack runs the TipStack web front-end. It serves the public
// tip browsing pages and the admin area, talking to the backend REST API
// and the identity provider over HTTP. The only local state is the
// SQLite session store.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"

	"github.com/olegiv/tipstack/internal/aigen"
	"github.com/olegiv/tipstack/internal/api"
	"github.com/olegiv/tipstack/internal/cache"
	"github.com/olegiv/tipstack/internal/config"
	"github.com/olegiv/tipstack/internal/favorites"
	"github.com/olegiv/tipstack/internal/handler"
	"github.com/olegiv/tipstack/internal/identity"
	"github.com/olegiv/tipstack/internal/logging"
	"github.com/olegiv/tipstack/internal/middleware"
	"github.com/olegiv/tipstack/internal/render"
	"github.com/olegiv/tipstack/internal/scheduler"
	"github.com/olegiv/tipstack/internal/session"
	"github.com/olegiv/tipstack/internal/version"
	"github.com/olegiv/tipstack/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		_, _ = fmt.Printf("tipstack %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	versionInfo := &version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	// Setup logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	var logHandler slog.Handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	if cfg.ReportingEnabled() {
		reportHandler := logging.NewReportHandler(logHandler, cfg.ReportingDSN)
		defer reportHandler.Close()
		logHandler = reportHandler
	}
	logger := slog.New(logHandler)
	slog.SetDefault(logger)

	slog.Info("starting tipstack", "version", versionInfo.Version, "env", cfg.Env)

	// Session store (local SQLite file)
	if err := os.MkdirAll(filepath.Dir(cfg.SessionDBPath), 0o750); err != nil {
		return fmt.Errorf("creating session db directory: %w", err)
	}
	db, err := sql.Open("sqlite3", cfg.SessionDBPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return fmt.Errorf("opening session db: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("error closing session db", "error", err)
		}
	}()

	sessionManager, err := session.New(db, cfg.IsDevelopment())
	if err != nil {
		return fmt.Errorf("initializing sessions: %w", err)
	}
	slog.Info("session manager initialized", "path", cfg.SessionDBPath)

	// Backend API and identity provider clients
	apiClient := api.New(cfg.APIBaseURL)
	identityClient := identity.New(cfg.IdentityBaseURL, cfg.IdentityAPIKey)

	// Cache layer over the backend API
	cacher, err := cache.NewCache(cache.Config{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: time.Duration(cfg.CacheTTL) * time.Second,
	})
	if err != nil {
		slog.Warn("redis unavailable, using memory cache", "error", err)
		cacher, _ = cache.NewCache(cache.Config{DefaultTTL: time.Duration(cfg.CacheTTL) * time.Second})
	}
	defer func() {
		if err := cacher.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()
	if cfg.UseRedisCache() {
		slog.Info("cache initialized", "backend", "redis")
	} else {
		slog.Info("cache initialized", "backend", "memory")
	}

	tipCache := cache.NewTipCache(cacher, apiClient)
	categoryCache := cache.NewCategoryCache(cacher, apiClient)

	favoriteManager := favorites.NewManager(sessionManager)

	// Template renderer
	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		IsDev:          cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}
	slog.Info("template renderer initialized")

	// AI draft generation is optional; the admin form hides the feature
	// when no key is configured.
	var generator handler.TipGenerator
	if cfg.AIEnabled() {
		generator = aigen.New(cfg.OpenAIAPIKey)
		slog.Info("AI draft generation enabled")
	}

	// Cache prewarm scheduler
	sched := scheduler.New(tipCache, categoryCache, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()
	go sched.Prewarm()

	// Middleware
	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	csrfMiddleware := middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment()))
	publicRateLimiter := middleware.NewGlobalRateLimiter(10.0, 20)

	// Handlers
	frontendHandler := handler.NewFrontendHandler(renderer, sessionManager, tipCache, categoryCache, favoriteManager)
	authHandler := handler.NewAuthHandler(renderer, sessionManager, identityClient, apiClient, favoriteManager, loginProtection)
	favoritesHandler := handler.NewFavoritesHandler(renderer, sessionManager, apiClient, tipCache, favoriteManager)
	adminHandler := handler.NewAdminHandler(renderer, sessionManager, apiClient)
	adminTipsHandler := handler.NewAdminTipsHandler(renderer, sessionManager, apiClient, tipCache, categoryCache, generator)
	adminCategoriesHandler := handler.NewAdminCategoriesHandler(renderer, sessionManager, apiClient, tipCache, categoryCache)
	adminUsersHandler := handler.NewAdminUsersHandler(renderer, sessionManager, apiClient)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(sessionManager.LoadAndSave)
	r.Use(middleware.LoadUser(sessionManager))

	// Public frontend routes
	r.Group(func(r chi.Router) {
		r.Use(csrfMiddleware)
		r.Get(handler.RouteRoot, frontendHandler.Home)
		r.Get(handler.RouteSearch, frontendHandler.Search)
		r.Get(handler.RouteCategoryID, frontendHandler.Category)
		r.Get(handler.RouteTips+handler.RouteParamID, frontendHandler.TipDetail)
		r.Get(handler.RouteFavorites, favoritesHandler.Page)
	})

	// Favorites JSON endpoints. The session cookie is SameSite=Lax and the
	// endpoints are keyed by tip ID only, so they skip CSRF to keep the
	// fetch calls simple for anonymous visitors.
	r.Group(func(r chi.Router) {
		r.Use(middleware.SkipCSRF(handler.RouteFavorites + "/"))
		r.Use(csrfMiddleware)
		r.Use(httprate.LimitByIP(60, time.Minute))
		r.Post(handler.RouteFavorites+handler.RouteParamID, favoritesHandler.Add)
		r.Delete(handler.RouteFavorites+handler.RouteParamID, favoritesHandler.Remove)
		r.Get(handler.RouteFavorites+"/count", favoritesHandler.Count)
	})

	// Auth routes
	r.Group(func(r chi.Router) {
		r.Use(publicRateLimiter.Middleware())
		r.Use(csrfMiddleware)
		r.Get(handler.RouteLogin, authHandler.LoginForm)
		r.With(loginProtection.Middleware()).Post(handler.RouteLogin, authHandler.Login)
		r.Get(handler.RouteSignup, authHandler.SignupForm)
		r.Post(handler.RouteSignup, authHandler.Signup)
		r.Get(handler.RouteForgotPassword, authHandler.ForgotPasswordForm)
		r.Post(handler.RouteForgotPassword, authHandler.ForgotPassword)
		r.Post(handler.RouteLogout, authHandler.Logout)
	})

	// Admin routes
	r.Route(handler.RouteAdmin, func(r chi.Router) {
		r.Use(csrfMiddleware)
		r.Use(middleware.RequireAuth(sessionManager))
		r.Use(middleware.RequireAdmin())

		r.Get(handler.RouteRoot, adminHandler.Dashboard)

		registerCRUD(r, handler.RouteTips, handler.RouteTipsID, crudHandlers{
			List: adminTipsHandler.List, NewForm: adminTipsHandler.NewForm, Create: adminTipsHandler.Create,
			EditForm: adminTipsHandler.EditForm, Update: adminTipsHandler.Update, Delete: adminTipsHandler.Delete,
		})
		r.Post(handler.RouteTips+"/generate", adminTipsHandler.Generate)

		registerCRUD(r, handler.RouteCategories, handler.RouteCategoriesID, crudHandlers{
			List: adminCategoriesHandler.List, NewForm: adminCategoriesHandler.NewForm, Create: adminCategoriesHandler.Create,
			EditForm: adminCategoriesHandler.EditForm, Update: adminCategoriesHandler.Update, Delete: adminCategoriesHandler.Delete,
		})

		r.Get(handler.RouteUsers, adminUsersHandler.List)
		r.Get(handler.RouteUsersID, adminUsersHandler.EditForm)
		r.Put(handler.RouteUsersID, adminUsersHandler.Update)
		r.Post(handler.RouteUsersID, adminUsersHandler.Update) // HTML forms can't send PUT
		r.Delete(handler.RouteUsersID, adminUsersHandler.Delete)
		r.Post(handler.RouteUsersID+"/delete", adminUsersHandler.Delete)
	})

	// Static file serving from the embedded filesystem
	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// crudHandlers defines the standard CRUD handler methods.
type crudHandlers struct {
	List     http.HandlerFunc
	NewForm  http.HandlerFunc
	Create   http.HandlerFunc
	EditForm http.HandlerFunc
	Update   http.HandlerFunc
	Delete   http.HandlerFunc
}

// registerCRUD registers standard CRUD routes for a resource.
// Routes: GET /, GET /new, POST /, GET /{id}, PUT /{id}, POST /{id}, DELETE /{id}
func registerCRUD(r chi.Router, base, baseID string, h crudHandlers) {
	r.Get(base, h.List)
	r.Get(base+handler.RouteSuffixNew, h.NewForm)
	r.Post(base, h.Create)
	r.Get(baseID, h.EditForm)
	r.Put(baseID, h.Update)
	r.Post(baseID, h.Update) // HTML forms can't send PUT
	r.Delete(baseID, h.Delete)
	r.Post(baseID+"/delete", h.Delete)
}
