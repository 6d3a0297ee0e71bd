package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TrueSergey/websitewishlist/internal/config"
	"github.com/TrueSergey/websitewishlist/internal/database"
	"github.com/TrueSergey/websitewishlist/internal/handlers"
	"github.com/TrueSergey/websitewishlist/internal/logging"
	"github.com/TrueSergey/websitewishlist/internal/middleware"
	"github.com/TrueSergey/websitewishlist/internal/services"
	"github.com/TrueSergey/websitewishlist/internal/storage"
)

func main() {
	if err := run(); err != nil {
		logging.Error("Application error", map[string]interface{}{"error": err.Error()})
		_ = logging.Default.Sync()
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logging.Configure(logging.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})
	logger := logging.Default
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting wishlist server...", map[string]interface{}{
		"env": cfg.Server.Environment,
	})
	if cfg.Auth.JWTSecret == "" {
		logger.Warn("AUTH_JWT_SECRET is empty; every request will be unauthenticated")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to PostgreSQL
	logger.Info("Connecting to PostgreSQL", map[string]interface{}{
		"host": cfg.Database.Host,
		"port": cfg.Database.Port,
	})
	db, err := database.NewPostgresDB(ctx, cfg.Database.DSN(), database.DefaultPoolOptions())
	if err != nil {
		return fmt.Errorf("connecting to postgres: %w", err)
	}
	defer db.Close()

	// Run migrations
	migrator, err := database.NewMigrator(cfg.Database)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	_, err = migrator.ApplyUp()
	_ = migrator.Close()
	if err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	// Connect to Redis (optional)
	var (
		redisDB      *database.RedisDB
		cache        services.RedisClient
		redisHealth  handlers.HealthChecker
		limitBackend middleware.Backend
	)
	if cfg.Redis.Enabled {
		logger.Info("Connecting to Redis", map[string]interface{}{"addr": cfg.Redis.Addr()})
		redisDB, err = database.NewRedisDB(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer func() { _ = redisDB.Close() }()
		cache = services.NewRedisAdapter(redisDB.Client)
		redisHealth = redisDB
	} else {
		logger.Info("Redis disabled; unread counts are not cached")
	}

	switch {
	case cfg.RateLimit.Backend == "memory":
		limitBackend = middleware.NewMemoryBackend()
	case redisDB != nil:
		limitBackend = middleware.NewRedisBackend(redisDB.Client)
	default:
		logger.Warn("Rate limit backend unavailable; friend requests are not limited", map[string]interface{}{
			"backend": cfg.RateLimit.Backend,
		})
	}

	// Initialize services
	stores := db.Stores()
	notificationService := services.NewNotificationService(stores.Notifications, cache)
	notificationService.SetCacheTTL(cfg.Notifications.UnreadCacheTTL)
	friendService := services.NewFriendService(stores.Relationships, stores.Users, notificationService)
	giftService := services.NewGiftService(stores.Gifts, friendService, notificationService)

	var profileHandler *handlers.ProfileHandler
	var objectStorage services.ObjectStorage
	if cfg.Storage.Bucket != "" {
		s3Storage, err := storage.NewS3Storage(ctx, cfg.Storage)
		if err != nil {
			return fmt.Errorf("configuring object storage: %w", err)
		}
		objectStorage = s3Storage
	} else {
		logger.Info("Object storage not configured; avatar uploads disabled")
	}
	profileService := services.NewProfileService(stores.Users, objectStorage)
	if objectStorage != nil {
		profileHandler = handlers.NewProfileHandler(profileService, cfg.Server.MaxUploadBytes)
	}

	var limiter *middleware.RateLimiter
	if limitBackend != nil {
		limiter = middleware.NewRateLimiter(limitBackend, cfg.RateLimit.Limit, cfg.RateLimit.Window,
			"ratelimit:friend-requests:", middleware.CallerKey, true)
	}

	handler := newRouter(routeDeps{
		health:        handlers.NewHealthHandler(db, redisHealth),
		friends:       handlers.NewFriendHandler(friendService),
		notifications: handlers.NewNotificationHandler(notificationService),
		gifts:         handlers.NewGiftHandler(giftService),
		profile:       profileHandler,
		auth:          middleware.NewAuthMiddleware(cfg.Auth.JWTSecret, cfg.Auth.Issuer, profileService),
		requestLimit:  limiter,
		requestLogger: middleware.NewRequestLogger(logger),
		secure:        cfg.Server.Secure,
	})

	go runNotificationJanitor(ctx, notificationService, cfg.Notifications.Retention, cfg.Notifications.CleanupInterval)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Server listening", map[string]interface{}{"addr": server.Addr})
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	// Graceful shutdown
	logger.Info("Server is shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	server.SetKeepAlivesEnabled(false)
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}
