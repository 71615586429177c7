package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/algocanvas/algocanvas/internal/db"
	"github.com/algocanvas/algocanvas/internal/models"
)

// SQLiteStore keeps the library in a single-file SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	log  *logrus.Logger
	path string
}

// NewSQLiteStore opens (or creates) the database at path and applies the
// embedded migrations. ":memory:" is accepted for tests.
func NewSQLiteStore(ctx context.Context, path string, log *logrus.Logger) (*SQLiteStore, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}

	// One writer at a time; a single connection also keeps :memory: stable.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := sqlDB.ExecContext(ctx, pragma); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("applying %q: %w", pragma, err)
		}
	}

	if err := db.MigrateSQLite(ctx, sqlDB, log); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	return &SQLiteStore{db: sqlDB, log: log, path: path}, nil
}

// Backend implements GraphStore.
func (s *SQLiteStore) Backend() string { return "sqlite" }

// Save upserts the document.
func (s *SQLiteStore) Save(ctx context.Context, name string, doc *models.GraphFile) error {
	if err := prepareSave(name, doc); err != nil {
		return err
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding graph: %w", err)
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	now := time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO graphs (name, document, node_count, edge_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			document   = excluded.document,
			node_count = excluded.node_count,
			edge_count = excluded.edge_count,
			updated_at = excluded.updated_at`,
		name, string(data), len(doc.Nodes), len(doc.Edges), now, now)
	if err != nil {
		return fmt.Errorf("saving graph: %w", err)
	}

	countOp("save", s.Backend())
	s.log.WithFields(logrus.Fields{"name": name, "backend": s.Backend()}).Debug("graph saved")

	return nil
}

// Load returns the document saved under name.
func (s *SQLiteStore) Load(ctx context.Context, name string) (*models.GraphFile, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var data string

	err := s.db.QueryRowContext(ctx, `SELECT document FROM graphs WHERE name = ?`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	if err != nil {
		return nil, fmt.Errorf("loading graph: %w", err)
	}

	countOp("load", s.Backend())

	return models.DecodeGraphFile([]byte(data))
}

// List returns every saved graph sorted by name.
func (s *SQLiteStore) List(ctx context.Context) ([]GraphInfo, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `SELECT name, node_count, edge_count, updated_at FROM graphs ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing graphs: %w", err)
	}
	defer rows.Close()

	infos := []GraphInfo{}

	for rows.Next() {
		var info GraphInfo
		if err := rows.Scan(&info.Name, &info.Nodes, &info.Edges, &info.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning graph row: %w", err)
		}

		infos = append(infos, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating graph rows: %w", err)
	}

	countOp("list", s.Backend())

	return infos, nil
}

// Delete removes the graph saved under name.
func (s *SQLiteStore) Delete(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `DELETE FROM graphs WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("deleting graph: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	countOp("delete", s.Backend())

	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
