// Package db applies schema migrations and bridges database notifications for
// the saved-graph library.
//
// Migrations are goose-annotated SQL files embedded from
// internal/db/migrations, one directory per dialect.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as database/sql driver
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"

	"github.com/algocanvas/algocanvas/internal/db/migrations"
	"github.com/algocanvas/algocanvas/internal/dbpool"
)

// MigratePostgres applies the PostgreSQL migrations through a database/sql
// handle opened on the pool's connection string.
func MigratePostgres(ctx context.Context, pool *dbpool.Pool, log *logrus.Logger) error {
	sqlDB, err := sql.Open("pgx", pool.ConnString())
	if err != nil {
		return fmt.Errorf("opening sql.DB for migrations: %w", err)
	}
	defer sqlDB.Close()

	return RunMigrations(ctx, sqlDB, goose.DialectPostgres, migrations.Postgres(), log)
}

// MigrateSQLite applies the SQLite migrations to an open database.
func MigrateSQLite(ctx context.Context, sqlDB *sql.DB, log *logrus.Logger) error {
	return RunMigrations(ctx, sqlDB, goose.DialectSQLite3, migrations.SQLite(), log)
}

// RunMigrations applies all pending migrations from fsys.
func RunMigrations(ctx context.Context, sqlDB *sql.DB, dialect goose.Dialect, fsys fs.FS, log *logrus.Logger) error {
	provider, err := goose.NewProvider(dialect, sqlDB, fsys)
	if err != nil {
		return fmt.Errorf("creating goose provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}

	for _, r := range results {
		if r.Error != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", r.Source.Version, r.Source.Path, r.Error)
		}

		log.WithFields(logrus.Fields{
			"dialect":  string(dialect),
			"version":  r.Source.Version,
			"file":     r.Source.Path,
			"duration": r.Duration,
		}).Info("migration applied")
	}

	if len(results) == 0 {
		log.WithField("dialect", string(dialect)).Debug("all migrations already applied")
	}

	return nil
}

// SchemaVersion returns the number of migrations shipped for a dialect.
func SchemaVersion(fsys fs.FS) int {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return 0
	}

	count := 0
	for _, e := range entries {
		if !e.IsDir() {
			count++
		}
	}

	return count
}
