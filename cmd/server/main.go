package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"loanflow/internal/adapters/http/middleware"
	"loanflow/internal/adapters/http/routes"
	"loanflow/internal/adapters/persistence/models"
	"loanflow/internal/config"
	"loanflow/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"

	_ "loanflow/docs" // Swagger docs
)

// @title Loanflow API
// @version 1.0
// @description Loan application workflow: submission, officer review, manager decision.

// @contact.name API Support

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	logger := config.NewLogger(cfg)

	// Connect to database (mysql driver only)
	var db *gorm.DB
	if cfg.StorageDriver == config.StorageMySQL {
		var closeDB func() error
		db, closeDB, err = config.OpenDatabase(context.Background(), cfg)
		if err != nil {
			log.Fatalf("❌ Failed to connect to database: %v", err)
		}
		defer closeDB()

		// Auto migrate (creates loans table if not exist)
		if err := models.AutoMigrate(db); err != nil {
			log.Fatalf("❌ Failed to auto migrate: %v", err)
		}
		log.Println("✅ Database migration completed")
	} else {
		log.Println("📦 Using in-memory loan storage")
	}

	// Metrics registry
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	deps, err := routes.BuildDependencies(cfg, db, logger, registry)
	if err != nil {
		log.Fatalf("❌ Failed to wire services: %v", err)
	}

	// Seed demo loans (dev only)
	if cfg.IsDev() && cfg.SeedDemoLoans {
		if err := config.NewSeeder(deps.LoanService).Run(context.Background()); err != nil {
			log.Printf("⚠️ Warning: Failed to seed demo loans: %v", err)
		}
	}

	// Start review reminder cron
	if cfg.Reminder.Enabled {
		reminder := services.NewReviewReminderService(deps.Repo, cfg.Reminder.StaleAfter, logger, nil)
		if err := reminder.Start(cfg.Reminder.Schedule); err != nil {
			log.Fatalf("❌ Failed to start review reminder: %v", err)
		}
		log.Printf("⏰ Review reminder scheduled [%s, stale after %s]", cfg.Reminder.Schedule, cfg.Reminder.StaleAfter)
		defer reminder.Stop()
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Loanflow API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes
	routes.Setup(app, deps)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
