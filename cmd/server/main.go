package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/univault/univault-api/internal/config"
	"github.com/univault/univault-api/internal/database"
	"github.com/univault/univault-api/internal/middleware"
	"github.com/univault/univault-api/internal/router"
	"github.com/univault/univault-api/internal/services"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default admin/mod accounts
	if err := database.SeedAdmin(db, cfg); err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}

	// Initialize services
	blobs, err := services.NewBlobStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize blob store: %v", err)
	}

	search := services.NewSearchService(cfg)
	activity := services.NewActivityService(db)
	catalog := services.NewCatalogService(db, blobs, search, activity, cfg.MaxUploadSize)

	limiter, err := middleware.NewRateLimiter(cfg.RedisURL)
	if err != nil {
		log.Printf("Warning: rate limiter disabled: %v", err)
		limiter = nil
	}

	r := router.Setup(db, cfg, catalog, search, activity, limiter)

	log.Printf("Server listening on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
