// Package main is the entry point for the Directorio admin API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"directorio/internal/cache"
	"directorio/internal/config"
	"directorio/internal/database"
	"directorio/internal/handlers"
	"directorio/internal/logging"
	"directorio/internal/middleware"
	"directorio/internal/router"
	"directorio/internal/session"
	"directorio/internal/status"
	"directorio/internal/storage"
	"directorio/internal/store"
)

// Login attempts allowed per client IP per minute.
const loginAttemptsPerMinute = 10

func main() {
	// Load configuration from environment variables and .env.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: text in development, JSON elsewhere.
	logger, logCloser := logging.New(logging.Options{
		Level:     cfg.LogLevel,
		JSON:      !cfg.IsDev(),
		File:      cfg.LogFile,
		MaxSizeMB: cfg.LogMaxSizeMB,
	})
	defer logCloser.Close()
	slog.SetDefault(logger)

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed the default admin (no-op if one exists or no password is set).
	if err := database.Seed(db, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		slog.Error("failed to seed database", "error", err)
		os.Exit(1)
	}

	// Connect to Valkey (sessions, list cache, status probe).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// In non-development environments, mark cookies as Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, cfg.JWTSecret, secureCookies)
	if cfg.JWTSecret == "" {
		slog.Warn("JWT_SECRET is not set, logins will fail")
	}

	// Initialize data stores.
	articleStore := store.NewArticleStore(db)
	listingStore := store.NewListingStore(db)
	userStore := store.NewUserStore(db)
	categoryStore := store.NewCategoryStore(db)
	adminStore := store.NewAdminStore(db)

	listCache := cache.NewListCache(valkeyClient, cache.DefaultListTTL)

	// Connect to S3-compatible object storage (optional, uploads answer 503
	// without it).
	var uploader handlers.Uploader
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3Bucket, cfg.S3PublicURL,
	)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if storageClient != nil {
		uploader = storageClient
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("s3 storage not configured, uploads disabled")
	}

	// Periodic service probes for the dashboard.
	monitor := status.NewMonitor(status.DefaultProbes(db, articleStore, valkeyClient))
	if err := monitor.Start(cfg.StatusSchedule); err != nil {
		slog.Error("failed to start status monitor", "error", err)
		os.Exit(1)
	}
	defer monitor.Stop()

	loginLimiter := middleware.NewRateLimiter(loginAttemptsPerMinute, time.Minute)
	defer loginLimiter.Stop()

	r := router.New(sessionStore, router.Handlers{
		Articles:   handlers.NewArticles(articleStore, listCache),
		Listings:   handlers.NewListings(listingStore, listCache),
		Users:      handlers.NewUsers(userStore, listCache),
		Categories: handlers.NewCategories(categoryStore, listCache),
		Session:    handlers.NewSession(adminStore, sessionStore),
		Dashboard:  handlers.NewDashboard(articleStore, listingStore, userStore, monitor),
		Uploads:    handlers.NewUploads(uploader),
	}, router.Options{
		CORSOrigins:   cfg.CORSOrigins,
		SecureCookies: secureCookies,
		LoginLimiter:  loginLimiter,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
