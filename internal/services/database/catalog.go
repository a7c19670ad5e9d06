package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"

	"auctus-engine/internal/catalog"
	"auctus-engine/internal/utils"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RowQuerier is the part of a pool or transaction the catalog reader needs.
type RowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CatalogStore keeps each catalog collection as one JSONB document.
type CatalogStore struct {
	db *DB
}

// Migrate applies the embedded migrations that have not run yet.
func (s *CatalogStore) Migrate(ctx context.Context) error {
	pool := s.db.pool
	if _, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`); err != nil {
		return fmt.Errorf("failed to ensure schema_migrations table: %w", err)
	}

	files, err := migrationFiles()
	if err != nil {
		return err
	}

	for _, name := range files {
		var applied bool
		err := pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE filename = $1)", name).Scan(&applied)
		if err != nil {
			return fmt.Errorf("failed to check migration %s: %w", name, err)
		}
		if applied {
			continue
		}

		content, err := migrationsFS.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}

		utils.GetLogger().Info("Applying migration", utils.String("file", name))
		if _, err := pool.Exec(ctx, string(content)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", name, err)
		}
		if _, err := pool.Exec(ctx, "INSERT INTO schema_migrations (filename) VALUES ($1)", name); err != nil {
			return fmt.Errorf("failed to mark migration %s as applied: %w", name, err)
		}
	}

	return nil
}

func migrationFiles() ([]string, error) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded migrations: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// Load reads every collection and builds a snapshot.
func (s *CatalogStore) Load(ctx context.Context) (*catalog.Snapshot, error) {
	snap, err := catalog.Parse(Reader(ctx, s.db.pool))
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog from database: %w", err)
	}
	return snap, nil
}

// Reader returns a catalog.ReadFunc that fetches collection documents through q.
// A missing row is reported as fs.ErrNotExist.
func Reader(ctx context.Context, q RowQuerier) catalog.ReadFunc {
	return func(name string) ([]byte, error) {
		var content []byte
		err := q.QueryRow(ctx, "SELECT content::text FROM catalog_collections WHERE name = $1", name).Scan(&content)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", name, fs.ErrNotExist)
		}
		if err != nil {
			return nil, err
		}
		return content, nil
	}
}

// Seed replaces every collection with the content of data in one transaction.
// It returns the number of collections written.
func (s *CatalogStore) Seed(ctx context.Context, data catalog.Data) (int, error) {
	files, err := catalog.Marshal(data)
	if err != nil {
		return 0, err
	}

	names := catalog.Files()
	err = s.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, name := range names {
			batch.Queue(`
				INSERT INTO catalog_collections (name, content, updated_at)
				VALUES ($1, $2::jsonb, NOW())
				ON CONFLICT (name) DO UPDATE SET
					content = EXCLUDED.content,
					updated_at = EXCLUDED.updated_at`,
				name, string(files[name]),
			)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return 0, fmt.Errorf("failed to seed catalog: %w", err)
	}

	return len(names), nil
}
