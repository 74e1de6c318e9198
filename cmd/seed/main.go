package main

import (
	"log"

	"github.com/oggyb/ideaji/internal/config"
	"github.com/oggyb/ideaji/internal/db"
)

func main() {
	// Load configuration
	cfg := config.New()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	database, err := db.NewDB(cfg)
	if err != nil {
		log.Fatalf("failed to init db: %v", err)
	}

	if err := db.SeedTestData(database); err != nil {
		log.Fatalf("failed to seed: %v", err)
	}

	log.Printf("Seeding completed. Every account uses password %q.", db.SeedPassword)
}
