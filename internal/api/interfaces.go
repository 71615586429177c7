package api

import (
	"context"

	"github.com/algocanvas/algocanvas/internal/models"
	"github.com/algocanvas/algocanvas/internal/session"
	"github.com/algocanvas/algocanvas/internal/store"
)

// SessionRegistry creates and finds live sessions. *session.Manager
// implements it.
type SessionRegistry interface {
	Create() (*session.Session, error)
	Get(id string) (*session.Session, error)
	Delete(id string) error
	List() []session.Info
}

// GraphLibrary is the saved-graph store used by LibraryHandler.
type GraphLibrary interface {
	Save(ctx context.Context, name string, doc *models.GraphFile) error
	Load(ctx context.Context, name string) (*models.GraphFile, error)
	List(ctx context.Context) ([]store.GraphInfo, error)
	Delete(ctx context.Context, name string) error
	Backend() string
}

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
