package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrations returns the embedded goose migration files.
func Migrations() (fs.FS, error) {
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}
	return sub, nil
}

func newProvider(db *sql.DB) (*goose.Provider, error) {
	fsys, err := Migrations()
	if err != nil {
		return nil, err
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, db, fsys)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}
	return provider, nil
}

// Migrate creates schema if needed and applies every pending migration. The
// pool's search_path points at schema, so goose keeps its version table there.
func Migrate(ctx context.Context, pool *pgxpool.Pool, schema string, logger logrus.FieldLogger) (int, error) {
	if _, err := pool.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS "+pgx.Identifier{schema}.Sanitize()); err != nil {
		return 0, fmt.Errorf("failed to create schema %s: %w", schema, err)
	}

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	provider, err := newProvider(db)
	if err != nil {
		return 0, err
	}

	results, err := provider.Up(ctx)
	for _, res := range results {
		entry := logger.WithField("migration", res.Source.Path).WithField("duration", res.Duration)
		if res.Error != nil {
			entry.WithError(res.Error).Error("migration failed")
			continue
		}
		entry.Info("applied migration")
	}
	if err != nil {
		return len(results), fmt.Errorf("failed to apply migrations: %w", err)
	}

	return len(results), nil
}
