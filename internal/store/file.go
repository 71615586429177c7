package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/algocanvas/algocanvas/internal/models"
)

const fileExt = ".json"

// FileStore keeps one <name>.json document per graph in a directory.
type FileStore struct {
	dir string
	log *logrus.Logger
	mu  sync.RWMutex
}

// NewFileStore creates dir if needed and returns a store rooted there.
func NewFileStore(dir string, log *logrus.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating graph directory: %w", err)
	}

	return &FileStore{dir: dir, log: log}, nil
}

// Backend implements GraphStore.
func (s *FileStore) Backend() string { return "file" }

// Dir returns the directory holding the documents.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name+fileExt)
}

// Save writes the document through a temp file and rename so readers never
// observe a partial write.
func (s *FileStore) Save(_ context.Context, name string, doc *models.GraphFile) error {
	if err := prepareSave(name, doc); err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding graph: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, "."+name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // no-op after a successful rename.

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck,gosec // write error takes precedence.
		return fmt.Errorf("writing graph: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path(name)); err != nil {
		return fmt.Errorf("renaming graph file: %w", err)
	}

	countOp("save", s.Backend())
	s.log.WithFields(logrus.Fields{"name": name, "nodes": len(doc.Nodes), "edges": len(doc.Edges)}).Debug("graph saved")

	return nil
}

// Load reads and validates a saved document.
func (s *FileStore) Load(_ context.Context, name string) (*models.GraphFile, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	s.mu.RLock()
	data, err := os.ReadFile(s.path(name))
	s.mu.RUnlock()

	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	if err != nil {
		return nil, fmt.Errorf("reading graph: %w", err)
	}

	countOp("load", s.Backend())

	return models.DecodeGraphFile(data)
}

// List returns every readable document sorted by name. Files that fail to
// decode are logged and skipped.
func (s *FileStore) List(_ context.Context) ([]GraphInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading graph directory: %w", err)
	}

	infos := make([]GraphInfo, 0, len(entries))

	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), fileExt)
		if e.IsDir() || !ok || ValidateName(name) != nil {
			continue
		}

		fi, err := e.Info()
		if err != nil {
			continue
		}

		data, err := os.ReadFile(s.path(name))
		if err != nil {
			s.log.WithError(err).WithField("name", name).Warn("skipping unreadable graph file")
			continue
		}

		doc, err := models.DecodeGraphFile(data)
		if err != nil {
			s.log.WithError(err).WithField("name", name).Warn("skipping malformed graph file")
			continue
		}

		infos = append(infos, GraphInfo{
			Name:      name,
			Nodes:     len(doc.Nodes),
			Edges:     len(doc.Edges),
			UpdatedAt: fi.ModTime().UTC(),
		})
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })

	countOp("list", s.Backend())

	return infos, nil
}

// Delete removes a saved document.
func (s *FileStore) Delete(_ context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	if err != nil {
		return fmt.Errorf("deleting graph: %w", err)
	}

	countOp("delete", s.Backend())

	return nil
}

// Close implements GraphStore.
func (s *FileStore) Close() error { return nil }
