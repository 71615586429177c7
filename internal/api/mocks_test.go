package api_test

import (
	"context"

	"github.com/algocanvas/algocanvas/internal/models"
	"github.com/algocanvas/algocanvas/internal/store"
)

// mockLibrary implements api.GraphLibrary for testing.
type mockLibrary struct {
	saveFn   func(ctx context.Context, name string, doc *models.GraphFile) error
	loadFn   func(ctx context.Context, name string) (*models.GraphFile, error)
	listFn   func(ctx context.Context) ([]store.GraphInfo, error)
	deleteFn func(ctx context.Context, name string) error
}

func (m *mockLibrary) Save(ctx context.Context, name string, doc *models.GraphFile) error {
	return m.saveFn(ctx, name, doc)
}

func (m *mockLibrary) Load(ctx context.Context, name string) (*models.GraphFile, error) {
	return m.loadFn(ctx, name)
}

func (m *mockLibrary) List(ctx context.Context) ([]store.GraphInfo, error) {
	return m.listFn(ctx)
}

func (m *mockLibrary) Delete(ctx context.Context, name string) error {
	return m.deleteFn(ctx, name)
}

func (m *mockLibrary) Backend() string { return "mock" }
