// Command publish-catalog uploads a catalog directory to S3 under CATALOG_S3_PREFIX.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"auctus-engine/internal/catalog"
	"auctus-engine/internal/config"
	s3service "auctus-engine/internal/services/s3"
	"auctus-engine/internal/utils"
)

func main() {
	dir := flag.String("dir", "", "catalog directory to publish (default: embedded demo catalog)")
	prefix := flag.String("prefix", "", "S3 key prefix (default: CATALOG_S3_PREFIX)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	_ = utils.InitLogger(cfg.LogLevel)
	defer utils.Sync()
	logger := utils.Component("publish-catalog")

	if *prefix == "" {
		*prefix = cfg.CatalogS3Prefix
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

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	svc, err := s3service.NewService(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to create S3 client", utils.Error(err))
	}

	n, err := svc.PublishCatalog(ctx, *prefix, snap.Data())
	if err != nil {
		logger.Fatal("Publish failed", utils.Error(err))
	}

	logger.Info("Catalog published",
		utils.String("bucket", cfg.S3Bucket),
		utils.String("prefix", *prefix),
		utils.Int("files", n),
	)
}
