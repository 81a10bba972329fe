package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	"github.com/skill-eureka/backend/internal/events"
	"github.com/skill-eureka/backend/internal/logger"
	"github.com/skill-eureka/backend/internal/realtime"
	"github.com/skill-eureka/backend/internal/repositories"
	"github.com/skill-eureka/backend/internal/router"
	"github.com/skill-eureka/backend/internal/storage"
	"github.com/skill-eureka/backend/pkg/config"
	"github.com/skill-eureka/backend/validators"
)

// defaultCategories seeds the browsable category list on first start.
var defaultCategories = []string{
	"Class 1", "Class 2", "Class 3", "Class 4", "Class 5",
	"Class 6", "Class 7", "Class 8", "Class 9", "Class 10",
	"Mathematics", "Science", "Languages", "Arts", "Technology",
}

func main() {
	// Load configuration
	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	// Initialize database connection
	db, err := config.InitDB(cfg.MongoURI)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.CloseDB()

	ctx := context.Background()
	database := db.Client.Database(cfg.MongoDB)
	if err := repositories.EnsureIndexes(ctx, database); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}
	if err := repositories.NewMongoCategoryRepository(database).SeedCategories(ctx, defaultCategories); err != nil {
		log.Fatalf("Failed to seed categories: %v", err)
	}

	// Media storage
	store, err := storage.NewLocalStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	// Event bus and realtime hub
	bus := events.NewBus()
	defer bus.Close()
	hub := realtime.NewHub()

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	worker := router.SetupRoutes(e, cfg, db.Client, store, bus, hub)

	// Validator
	e.Validator = validators.NewValidator()

	// Start the fan-out worker
	workerCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		if err := worker.Run(workerCtx); err != nil {
			logger.L().Error("fan-out worker stopped", "error", err)
		}
	}()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
