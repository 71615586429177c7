// Package main copies a saved-graph library from one backend to another,
// typically from a single-user SQLite file or graph directory into the shared
// PostgreSQL library.
//
// Usage:
//
//	SOURCE_SQLITE_PATH=./algocanvas.db DATABASE_URL=postgres://... go run ./scripts/migrate
//	SOURCE_GRAPH_DIR=./graphs TARGET_SQLITE_PATH=./algocanvas.db go run ./scripts/migrate
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/algocanvas/algocanvas/internal/db"
	"github.com/algocanvas/algocanvas/internal/dbpool"
	"github.com/algocanvas/algocanvas/internal/store"
)

// config holds environment-driven migration settings.
type config struct {
	SourceSQLite string
	SourceDir    string
	DatabaseURL  string
	TargetSQLite string
	DryRun       bool
	Overwrite    bool
}

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := loadConfig()
	if err := cfg.validate(); err != nil {
		log.WithError(err).Error("invalid configuration")
		os.Exit(1)
	}

	ctx := context.Background()

	src, err := openSource(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Error("failed to open source")
		os.Exit(1)
	}
	defer src.Close()

	dst, closeDst, err := openTarget(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Error("failed to open target")
		os.Exit(1)
	}
	defer closeDst()

	log.WithFields(logrus.Fields{
		"source":  src.Backend(),
		"target":  dst.Backend(),
		"dry_run": cfg.DryRun,
	}).Info("starting migration")

	start := time.Now()
	r, err := runMigration(ctx, src, dst, cfg, log)
	r.Source = describeSource(cfg)
	r.Target = describeTarget(cfg)
	r.Duration = time.Since(start)
	if err != nil {
		r.Err = err
		log.WithError(err).Error("migration failed")
	}
	printReport(&r)
	if err != nil || r.Failed > 0 {
		os.Exit(1)
	}
}

// loadConfig reads configuration from environment variables.
func loadConfig() config {
	return config{
		SourceSQLite: envOr("SOURCE_SQLITE_PATH", ""),
		SourceDir:    envOr("SOURCE_GRAPH_DIR", ""),
		DatabaseURL:  envOr("DATABASE_URL", ""),
		TargetSQLite: envOr("TARGET_SQLITE_PATH", ""),
		DryRun:       envBool("DRY_RUN"),
		Overwrite:    envBool("OVERWRITE"),
	}
}

func (c config) validate() error {
	if (c.SourceSQLite == "") == (c.SourceDir == "") {
		return fmt.Errorf("set exactly one of SOURCE_SQLITE_PATH or SOURCE_GRAPH_DIR")
	}
	if (c.DatabaseURL == "") == (c.TargetSQLite == "") {
		return fmt.Errorf("set exactly one of DATABASE_URL or TARGET_SQLITE_PATH")
	}
	if c.SourceSQLite != "" && c.SourceSQLite == c.TargetSQLite {
		return fmt.Errorf("source and target are the same database")
	}
	return nil
}

func openSource(ctx context.Context, cfg config, log *logrus.Logger) (store.GraphStore, error) {
	if cfg.SourceDir != "" {
		return store.NewFileStore(cfg.SourceDir, log)
	}
	return store.NewSQLiteStore(ctx, cfg.SourceSQLite, log)
}

// openTarget returns the destination store plus a func releasing everything
// it holds.
func openTarget(ctx context.Context, cfg config, log *logrus.Logger) (store.GraphStore, func(), error) {
	if cfg.TargetSQLite != "" {
		s, err := store.NewSQLiteStore(ctx, cfg.TargetSQLite, log)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil //nolint:errcheck
	}

	pool, err := dbpool.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect postgres: %w", err)
	}
	if !cfg.DryRun {
		if err := db.MigratePostgres(ctx, pool, log); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("migrate postgres: %w", err)
		}
	}
	return store.NewPGStore(pool, log), pool.Close, nil
}

func describeSource(cfg config) string {
	if cfg.SourceDir != "" {
		return "dir:" + cfg.SourceDir
	}
	return "sqlite:" + cfg.SourceSQLite
}

func describeTarget(cfg config) string {
	if cfg.TargetSQLite != "" {
		return "sqlite:" + cfg.TargetSQLite
	}
	return sanitizeURL(cfg.DatabaseURL)
}
