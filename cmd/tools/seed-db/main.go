// Command seed-db applies the catalog migrations and loads a catalog into Postgres.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"auctus-engine/internal/catalog"
	"auctus-engine/internal/config"
	"auctus-engine/internal/services/database"
	"auctus-engine/internal/utils"
)

func main() {
	dir := flag.String("dir", "", "catalog directory to seed from (default: embedded demo catalog)")
	migrateOnly := flag.Bool("migrate-only", false, "apply migrations without seeding")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	_ = utils.InitLogger(cfg.LogLevel)
	defer utils.Sync()
	logger := utils.Component("seed-db")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	db, err := database.New(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", utils.Error(err))
	}
	defer db.Close()

	store := db.Catalog()
	if err := store.Migrate(ctx); err != nil {
		logger.Fatal("Migration failed", utils.Error(err))
	}
	if *migrateOnly {
		return
	}

	var snap *catalog.Snapshot
	if *dir != "" {
		snap, err = catalog.LoadDir(*dir)
	} else {
		snap, err = catalog.LoadEmbedded()
	}
	if err != nil {
		logger.Fatal("Failed to load catalog", utils.Error(err))
	}

	n, err := store.Seed(ctx, snap.Data())
	if err != nil {
		logger.Fatal("Seeding failed", utils.Error(err))
	}

	logger.Info("Catalog seeded",
		utils.Int("collections", n),
		utils.Any("stats", snap.Stats()),
	)
}
