package main

import (
	"context"
	"flag"
	"fmt"

	"hesab.local/pfm/internal/config"
	"hesab.local/pfm/internal/logger"
	"hesab.local/pfm/internal/store"
)

func main() {
	cfg := config.Load()
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	flag.Parse()

	log := logger.NewWithLevel(cfg.LogLevel)
	ctx := context.Background()

	// Open applies the schema and seeds empty tables
	s, err := store.Open(ctx, *dbPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer s.Close()

	accounts, err := s.Accounts(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list accounts")
	}
	categories, err := s.Categories(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list categories")
	}
	fmt.Printf("Accounts: %d, categories: %d\n", len(accounts), len(categories))

	// Drop duplicate transactions, keeping the earliest entry (lowest id)
	deleted, err := s.RemoveDuplicates(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to remove duplicates")
	}
	fmt.Printf("Deleted %d duplicate transactions\n", deleted)

	fmt.Println("Migration complete!")
}
