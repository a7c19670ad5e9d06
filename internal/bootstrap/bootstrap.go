// Package bootstrap builds the engine from configuration for the commands and handlers.
package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"auctus-engine/internal/catalog"
	"auctus-engine/internal/config"
	"auctus-engine/internal/services/database"
	"auctus-engine/internal/services/engine"
	s3service "auctus-engine/internal/services/s3"
	"auctus-engine/internal/utils"
)

// LoadCatalog loads the catalog snapshot from the configured source.
func LoadCatalog(ctx context.Context, cfg *config.Config) (*catalog.Snapshot, error) {
	switch cfg.CatalogSource {
	case catalog.SourceEmbedded:
		return catalog.LoadEmbedded()

	case catalog.SourceDir:
		return catalog.LoadDir(cfg.CatalogDir)

	case catalog.SourceS3:
		svc, err := s3service.NewService(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return svc.LoadCatalog(ctx, cfg.CatalogS3Prefix)

	case catalog.SourcePostgres:
		db, err := database.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		return db.Catalog().Load(ctx)

	default:
		return nil, fmt.Errorf("%w: %q", catalog.ErrUnknownSource, cfg.CatalogSource)
	}
}

// NewEngine loads the catalog and builds an engine that logs through the global logger.
func NewEngine(ctx context.Context, cfg *config.Config, opts ...engine.Option) (*engine.Engine, error) {
	snap, err := LoadCatalog(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	logger := utils.Component("engine")
	logger.Info("Catalog loaded",
		zap.String("source", cfg.CatalogSource),
		zap.Any("stats", snap.Stats()),
	)

	opts = append([]engine.Option{engine.WithLogger(logger)}, opts...)
	return engine.New(snap, opts...), nil
}
