// Command import-roster converts a business roster CSV into the catalog's
// businesses collection and writes the catalog to a directory or S3.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"auctus-engine/internal/catalog"
	"auctus-engine/internal/config"
	"auctus-engine/internal/models"
	s3service "auctus-engine/internal/services/s3"
	"auctus-engine/internal/utils"
)

func main() {
	csvPath := flag.String("csv", "", "roster CSV file (required)")
	baseDir := flag.String("base", "", "catalog directory to merge into (default: embedded demo catalog)")
	outDir := flag.String("out", "", "write the catalog to this directory")
	toS3 := flag.Bool("s3", false, "publish the catalog to S3 under CATALOG_S3_PREFIX")
	replace := flag.Bool("replace", false, "replace every business instead of merging by id")
	flag.Parse()

	if *csvPath == "" || (*outDir == "" && !*toS3) {
		log.Fatal("Please provide -csv and at least one of -out or -s3")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	_ = utils.InitLogger(cfg.LogLevel)
	defer utils.Sync()
	logger := utils.Component("import-roster")

	content, err := os.ReadFile(*csvPath)
	if err != nil {
		logger.Fatal("Failed to read roster", utils.Error(err))
	}

	var base *catalog.Snapshot
	if *baseDir != "" {
		base, err = catalog.LoadDir(*baseDir)
	} else {
		base, err = catalog.LoadEmbedded()
	}
	if err != nil {
		logger.Fatal("Failed to load base catalog", utils.Error(err))
	}

	data, imported, rowErrs, err := importRoster(string(content), base.Data(), *replace)
	for _, rowErr := range rowErrs {
		logger.Warn("Skipped roster row", utils.Error(rowErr))
	}
	if err != nil {
		logger.Fatal("Import failed", utils.Error(err))
	}

	if *outDir != "" {
		if err := writeDir(*outDir, data); err != nil {
			logger.Fatal("Failed to write catalog", utils.Error(err))
		}
	}

	if *toS3 {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		svc, err := s3service.NewService(ctx, cfg)
		if err != nil {
			logger.Fatal("Failed to create S3 client", utils.Error(err))
		}
		if _, err := svc.PublishCatalog(ctx, cfg.CatalogS3Prefix, data); err != nil {
			logger.Fatal("Publish failed", utils.Error(err))
		}
	}

	logger.Info("Roster imported",
		utils.Int("imported", imported),
		utils.Int("skipped", len(rowErrs)),
		utils.Int("businesses", len(data.Businesses)),
	)
}

// importRoster parses the roster and folds it into base. Rows that fail to parse
// are returned in rowErrs and skipped; err is set when the resulting catalog is invalid.
func importRoster(content string, base catalog.Data, replace bool) (data catalog.Data, imported int, rowErrs []error, err error) {
	result := utils.ValidateCSVStructure(content)
	if !result.Valid && len(result.MissingColumns) > 0 {
		return base, 0, nil, fmt.Errorf("%w: %v", utils.ErrMissingColumns, result.MissingColumns)
	}

	roster, rowErrs := utils.NewCSVParser().ParseBusinesses(content)
	if len(roster) == 0 {
		return base, 0, rowErrs, utils.ErrNoDataRows
	}

	data = base
	if replace {
		data.Businesses = roster
	} else {
		data.Businesses = mergeBusinesses(base.Businesses, roster)
	}

	if _, err := catalog.New(data); err != nil {
		return base, 0, rowErrs, fmt.Errorf("invalid catalog after import: %w", err)
	}
	return data, len(roster), rowErrs, nil
}

// mergeBusinesses overwrites existing businesses by id and appends new ones in roster order.
func mergeBusinesses(existing, roster []models.Business) []models.Business {
	merged := make([]models.Business, len(existing), len(existing)+len(roster))
	copy(merged, existing)

	pos := make(map[string]int, len(merged))
	for i, b := range merged {
		pos[b.ID] = i
	}
	for _, b := range roster {
		if i, ok := pos[b.ID]; ok {
			merged[i] = b
			continue
		}
		pos[b.ID] = len(merged)
		merged = append(merged, b)
	}
	return merged
}

func writeDir(dir string, data catalog.Data) error {
	files, err := catalog.Marshal(data)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), content, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	return nil
}
