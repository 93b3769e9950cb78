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

	"github.com/ikkim/bundlecart-backend/config"
	"github.com/ikkim/bundlecart-backend/internal/app/controller"
	"github.com/ikkim/bundlecart-backend/internal/app/repository"
	"github.com/ikkim/bundlecart-backend/internal/app/service"
	"github.com/ikkim/bundlecart-backend/internal/db"
	"github.com/ikkim/bundlecart-backend/internal/middleware"
	"github.com/ikkim/bundlecart-backend/internal/router"
	"github.com/ikkim/bundlecart-backend/internal/scheduler"
	"github.com/ikkim/bundlecart-backend/internal/storage"
	"github.com/ikkim/bundlecart-backend/pkg/logger"
	"github.com/ikkim/bundlecart-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	logFormat := "json"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
		logFormat = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: true,
	})

	logger.Info("Starting bundle cart server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Redis is optional; without it bundles are read straight from the database
	var bundleCaches []service.BundleCache
	if cfg.Redis.Enabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Redis unavailable, bundle cache disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defer redis.Close()
			bundleCaches = append(bundleCaches, redis.NewBundleCache(redis.GetClient(), cfg.Bundle.CacheTTL))
		}
	}

	// Initialize repositories
	conn := db.GetDB()
	bundleRepo := repository.NewBundleRepository(conn)
	cartRepo := repository.NewCartRepository(conn)
	inventoryRepo := repository.NewInventoryRepository(conn)
	catalogRepo := repository.NewCatalogRepository(conn)

	// Initialize services
	bundleService := service.NewBundleService(bundleRepo, bundleCaches...)
	bundleCartService := service.NewBundleCartService(bundleService, inventoryRepo, cartRepo)
	cartService := service.NewCartService(cartRepo)
	catalogService := service.NewCatalogService(catalogRepo)

	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Initialize controllers
	bundleController := controller.NewBundleController(bundleService, bundleCartService)
	cartController := controller.NewCartController(cartService)
	catalogController := controller.NewCatalogController(catalogService)
	uploadController := controller.NewUploadController(s3Storage, bundleService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Setup router
	r := router.NewRouter(
		bundleController,
		cartController,
		catalogController,
		uploadController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Warm the active bundle cache on a schedule
	var cacheScheduler *scheduler.BundleCacheScheduler
	if len(bundleCaches) > 0 {
		cacheScheduler = scheduler.NewBundleCacheScheduler(cfg.Bundle.CacheRefreshSpec, bundleService)
		if err := cacheScheduler.Start(); err != nil {
			logger.Warn("Bundle cache scheduler not started", map[string]interface{}{
				"error": err.Error(),
			})
			cacheScheduler = nil
		}
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: engine,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	if cacheScheduler != nil {
		cacheScheduler.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}

	logger.Info("Server stopped successfully")
}
