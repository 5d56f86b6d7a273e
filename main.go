package main

import (
	"context"
	"log"
	"os"

	"anglebelearn_go/config"
	"anglebelearn_go/database"
	"anglebelearn_go/database/seeders"
	"anglebelearn_go/middleware"
	"anglebelearn_go/routes"
	"anglebelearn_go/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
)

func init() {
	// Initialize logging
	setupLogging()

	// Load configuration
	config.LoadConfig()

	// Connect to database
	database.Connect()

	// Seed reference data when requested
	if config.AppConfig.SeedData {
		seeders.SeedAll()
	}

	// Start log maintenance scheduler
	logMaintenance := services.NewLogMaintenanceService()
	logMaintenance.StartLogMaintenanceScheduler()
}

func main() {
	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    int(config.AppConfig.MaxFileSize),
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: true,
	}))

	// Custom middleware
	app.Use(middleware.LoggerMiddleware())
	app.Use(middleware.LogActivityMiddleware())

	// Wire services
	reports := services.NewReportService()
	importer := services.NewImporter(reports)
	exports := services.NewExportService(reports)
	health := services.NewHealthService("AngleBelearn API", "1.0.0")

	// Sheet sync is optional; uploads still work without it
	var sheetSync *services.SheetSyncService
	if config.AppConfig.SheetSyncEnabled {
		var err error
		sheetSync, err = services.NewSheetSyncService(context.Background(), importer)
		if err != nil {
			log.Printf("⚠️ Sheet sync disabled: %v", err)
			sheetSync = nil
		} else if err := sheetSync.StartScheduler(); err != nil {
			log.Printf("⚠️ Sheet sync scheduler failed: %v", err)
		} else {
			log.Println("✅ Sheet sync scheduler running")
		}
	} else {
		log.Println("⚠️ Sheet sync disabled: SHEET_SYNC_ENABLED is false")
	}

	// API routes
	routes.SetupRoutes(app, &routes.Dependencies{
		Importer:  importer,
		Reports:   reports,
		Exports:   exports,
		Rates:     reports.Rates,
		Health:    health,
		SheetSync: sheetSync,
	})

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":  "Route not found",
			"path":   c.Path(),
			"method": c.Method(),
		})
	})

	// Start server (listen on all interfaces for Docker/production)
	port := ":" + config.AppConfig.Port
	log.Printf("🚀 Server starting on port %s", config.AppConfig.Port)
	log.Printf("📚 AngleBelearn API v1.0.0")
	log.Printf("🌍 Environment: %s", config.AppConfig.AppEnv)

	if err := app.Listen(port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

// setupLogging configures the logging system
func setupLogging() {
	// Create logs directory if it doesn't exist
	if err := os.MkdirAll("logs", 0755); err != nil {
		log.Printf("Warning: Could not create logs directory: %v", err)
	}

	// Configure logrus
	logrus.SetFormatter(&logrus.JSONFormatter{})

	// Set log level
	level, err := logrus.ParseLevel("info") // Default to info
	if err == nil {
		logrus.SetLevel(level)
	}

	// Log to both file and stdout in development
	if os.Getenv("APP_ENV") == "development" {
		logrus.SetOutput(os.Stdout)
	} else {
		// In production, log to file
		file, err := os.OpenFile("logs/app.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err == nil {
			logrus.SetOutput(file)
		}
	}
}

// customErrorHandler handles application errors
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	// Check if it's a Fiber error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Log the error
	logrus.WithFields(logrus.Fields{
		"error":  err.Error(),
		"path":   c.Path(),
		"method": c.Method(),
		"ip":     c.IP(),
		"status": code,
	}).Error("Request error")

	// Send error response
	return c.Status(code).JSON(fiber.Map{
		"error":  message,
		"code":   code,
		"path":   c.Path(),
		"method": c.Method(),
	})
}
