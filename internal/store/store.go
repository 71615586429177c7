// Package store persists named graph documents for the saved-graph library.
//
// Three backends share the GraphStore contract: a directory of JSON files, a
// single-file SQLite database and PostgreSQL. Documents are stored whole; the
// node and edge counts are denormalised for listing.
package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/algocanvas/algocanvas/internal/metrics"
	"github.com/algocanvas/algocanvas/internal/models"
)

const defaultQueryTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when no graph is saved under a name.
	ErrNotFound = errors.New("graph not found")

	// ErrInvalidName is returned for names outside [A-Za-z0-9_-]{1,64}.
	ErrInvalidName = errors.New("invalid graph name")
)

var validName = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// GraphInfo summarises one saved graph.
type GraphInfo struct {
	Name      string    `json:"name"`
	Nodes     int       `json:"nodes"`
	Edges     int       `json:"edges"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GraphStore is a named library of graph documents.
type GraphStore interface {
	Save(ctx context.Context, name string, doc *models.GraphFile) error
	Load(ctx context.Context, name string) (*models.GraphFile, error)
	List(ctx context.Context) ([]GraphInfo, error)
	Delete(ctx context.Context, name string) error
	Backend() string
	Close() error
}

// ValidateName rejects names that are unsafe as file names or keys.
func ValidateName(name string) error {
	if !validName.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	return nil
}

// withTimeout creates a context with the default query timeout.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaultQueryTimeout)
}

// prepareSave validates the name and document before any backend write.
func prepareSave(name string, doc *models.GraphFile) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	if doc == nil {
		return fmt.Errorf("%w: nil document", models.ErrMalformedGraphFile)
	}

	return doc.Validate()
}

func countOp(op, backend string) {
	metrics.LibraryOps.WithLabelValues(op, backend).Inc()
}
