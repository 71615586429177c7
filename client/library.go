package client

import (
	"context"
	"net/url"
)

// LibraryService manages saved graphs.
type LibraryService struct {
	c *Client
}

func libraryPath(name string) string {
	return "/api/v1/library/" + url.PathEscape(name)
}

// List returns every saved graph.
func (s *LibraryService) List(ctx context.Context) (*LibraryList, error) {
	var resp LibraryList
	if err := s.c.get(ctx, "/api/v1/library", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SaveSession snapshots a live session's graph under name.
func (s *LibraryService) SaveSession(ctx context.Context, name, sessionID string) (*SaveResult, error) {
	var resp SaveResult
	if err := s.c.put(ctx, libraryPath(name), map[string]string{"session_id": sessionID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SaveGraph stores a graph document under name.
func (s *LibraryService) SaveGraph(ctx context.Context, name string, g *Graph) (*SaveResult, error) {
	var resp SaveResult
	if err := s.c.put(ctx, libraryPath(name), map[string]*Graph{"graph": g}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Get returns a saved graph document.
func (s *LibraryService) Get(ctx context.Context, name string) (*Graph, error) {
	var resp Graph
	if err := s.c.get(ctx, libraryPath(name), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Delete removes a saved graph.
func (s *LibraryService) Delete(ctx context.Context, name string) error {
	return s.c.del(ctx, libraryPath(name))
}

// LoadInto replaces a session's graph with a saved one.
func (s *LibraryService) LoadInto(ctx context.Context, sessionID, name string) (*Session, error) {
	var resp Session
	if err := s.c.post(ctx, sessionPath(sessionID, "/library/"+url.PathEscape(name)+"/load"), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
