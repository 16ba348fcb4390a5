/**
 * @description
 * Main entry point for the Dhrone Predicts admin API.
 * Loads configuration, opens the configured record store and serves the REST API.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2: Web framework
 * - backend/internal/config: Config loader
 * - backend/internal/store: Record store backends
 *
 * @notes
 * - Every category is created empty on startup if missing.
 * - In production the built dashboard is served from STATIC_DIR.
 */

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dhrone-predicts/backend/internal/api"
	"github.com/dhrone-predicts/backend/internal/config"
	"github.com/dhrone-predicts/backend/internal/logger"
	"github.com/dhrone-predicts/backend/internal/services"
	"github.com/dhrone-predicts/backend/internal/store"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config: %v", err)
	}
	logger.Configure(cfg.Log.Level, cfg.Server.Env)

	// 2. Open Record Store
	initCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	predictionStore, err := store.Open(initCtx, cfg)
	cancel()
	if err != nil {
		logger.Fatal("Failed to open %s store: %v", cfg.Storage.Driver, err)
	}

	// 3. Initialize Fiber App
	app := api.NewApp(cfg)
	api.SetupRoutes(app, services.NewPredictionService(predictionStore), cfg)

	// 4. Graceful Shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info("🛑 Shutting down API...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error("Shutdown error: %v", err)
		}
	}()

	// 5. Start Server
	logger.Info("🚀 Starting Predictions API on port %s (storage: %s)", cfg.Server.Port, cfg.Storage.Driver)
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}

	if err := predictionStore.Close(); err != nil {
		logger.Error("Failed to close store: %v", err)
	}
	logger.Info("✅ API stopped")
}
