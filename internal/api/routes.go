/**
 * @description
 * API Route definitions.
 * Builds the Fiber app, installs global middleware and assigns handlers.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - backend/internal/api/handlers
 * - backend/internal/api/middleware
 * - backend/internal/services
 *
 * @notes
 * - In production the built dashboard is served from STATIC_DIR, with index.html as the
 *   fallback for any non-API GET.
 */

package api

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/dhrone-predicts/backend/internal/api/handlers"
	"github.com/dhrone-predicts/backend/internal/api/middleware"
	"github.com/dhrone-predicts/backend/internal/config"
	"github.com/dhrone-predicts/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// NewApp creates the Fiber app with global middleware installed
func NewApp(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:       "Dhrone Predicts Admin",
		CaseSensitive: true,
		BodyLimit:     cfg.Server.BodyLimit,
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  15 * time.Second,
	})

	app.Use(recover.New()) // Panic recovery
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	return app
}

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, predictionService *services.PredictionService, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(cfg.Auth)
	predictionHandler := handlers.NewPredictionHandler(predictionService)
	requireAdmin := middleware.RequireAdminToken(cfg.Auth.Token)

	api := app.Group("/api")

	// Public Routes
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"storage": cfg.Storage.Driver,
		})
	})
	api.Get("/categories", predictionHandler.GetCategories)

	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Get("/verify", authHandler.Verify)

	predictions := api.Group("/predictions")
	predictions.Get("/", predictionHandler.GetPredictions)

	// Admin Routes (Protected)
	predictions.Post("/", requireAdmin, predictionHandler.CreatePrediction)
	predictions.Put("/:id", requireAdmin, predictionHandler.UpdatePrediction)
	predictions.Delete("/:id", requireAdmin, predictionHandler.DeletePrediction)

	if cfg.IsProduction() {
		setupStatic(app, cfg.Server.StaticDir)
	}
}

// setupStatic serves the built dashboard and falls back to index.html for client-side routes
func setupStatic(app *fiber.App, dir string) {
	app.Static("/", dir)

	index := filepath.Join(dir, "index.html")
	app.Get("/*", func(c *fiber.Ctx) error {
		if strings.HasPrefix(c.Path(), "/api/") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
		}
		return c.SendFile(index)
	})
}
