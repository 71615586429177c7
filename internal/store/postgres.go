package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/algocanvas/algocanvas/internal/dbpool"
	"github.com/algocanvas/algocanvas/internal/models"
)

// PGStore keeps the library in PostgreSQL. Writes fire the library_changes
// trigger so every server sharing the database learns about them.
type PGStore struct {
	pool *dbpool.Pool
	log  *logrus.Logger
}

// NewPGStore wraps an already-migrated pool.
func NewPGStore(pool *dbpool.Pool, log *logrus.Logger) *PGStore {
	return &PGStore{pool: pool, log: log}
}

// Backend implements GraphStore.
func (s *PGStore) Backend() string { return "postgres" }

// Save upserts the document.
func (s *PGStore) Save(ctx context.Context, name string, doc *models.GraphFile) error {
	if err := prepareSave(name, doc); err != nil {
		return err
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding graph: %w", err)
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err = s.pool.Exec(ctx, `
		INSERT INTO saved_graphs (name, document, node_count, edge_count)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO UPDATE SET
			document   = EXCLUDED.document,
			node_count = EXCLUDED.node_count,
			edge_count = EXCLUDED.edge_count,
			updated_at = NOW()`,
		name, data, len(doc.Nodes), len(doc.Edges))
	if err != nil {
		return fmt.Errorf("saving graph: %w", err)
	}

	countOp("save", s.Backend())
	s.log.WithFields(logrus.Fields{"name": name, "backend": s.Backend()}).Debug("graph saved")

	return nil
}

// Load returns the document saved under name.
func (s *PGStore) Load(ctx context.Context, name string) (*models.GraphFile, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var data []byte

	err := s.pool.QueryRow(ctx, `SELECT document FROM saved_graphs WHERE name = $1`, name).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	if err != nil {
		return nil, fmt.Errorf("loading graph: %w", err)
	}

	countOp("load", s.Backend())

	return models.DecodeGraphFile(data)
}

// List returns every saved graph sorted by name.
func (s *PGStore) List(ctx context.Context) ([]GraphInfo, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.pool.Query(ctx, `SELECT name, node_count, edge_count, updated_at FROM saved_graphs ORDER BY name`)
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
func (s *PGStore) Delete(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := s.pool.Exec(ctx, `DELETE FROM saved_graphs WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("deleting graph: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	countOp("delete", s.Backend())

	return nil
}

// Close is a no-op; the pool is owned by the caller.
func (s *PGStore) Close() error { return nil }
