package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/univault/univault-api/internal/config"
	"github.com/univault/univault-api/internal/database"
)

// Seeds the default accounts and the full branch/semester/subject/unit
// catalog. Safe to run repeatedly.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if err := database.SeedAdmin(db, cfg); err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}

	if err := database.SeedCatalog(db); err != nil {
		log.Fatalf("Failed to seed catalog: %v", err)
	}

	log.Println("Seed complete")
}
