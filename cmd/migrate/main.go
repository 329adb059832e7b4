package main

import (
	"context"
	"log"
	"os"

	"attendtrack/internal/auth"
	"attendtrack/internal/config"
	"attendtrack/internal/store"
	"attendtrack/internal/users"
)

// migrate applies the schema and creates the first admin account without
// starting the HTTP server.
func main() {
	cfg := config.Load()
	ctx := context.Background()

	log.Println("Starting migration...")

	db, err := store.NewDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()

	if err := store.Migrate(ctx, db.Client); err != nil {
		log.Printf("migration failed: %v", err)
		os.Exit(1)
	}
	log.Println("Schema is up to date")

	admin := auth.AdminAccount{
		Username: cfg.Bootstrap.Username,
		Email:    cfg.Bootstrap.Email,
		FullName: cfg.Bootstrap.FullName,
	}
	created, err := auth.Bootstrap(ctx, users.NewRepository(db.Client), auth.NewHasher(cfg.BcryptCost), admin, nil)
	if err != nil {
		log.Printf("bootstrap failed: %v", err)
		os.Exit(1)
	}
	if !created {
		log.Println("Users already present, bootstrap skipped")
	}

	log.Println("Migration completed successfully!")
}
