package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// GraphService imports and exports session graphs.
type GraphService struct {
	c *Client
}

// Export returns the session's graph document.
func (s *GraphService) Export(ctx context.Context, id string) (*Graph, error) {
	var resp Graph
	if err := s.c.get(ctx, sessionPath(id, "/graph"), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ExportRaw returns the graph document exactly as the server encoded it.
func (s *GraphService) ExportRaw(ctx context.Context, id string) (json.RawMessage, error) {
	var resp json.RawMessage
	if err := s.c.get(ctx, sessionPath(id, "/graph"), url.Values{"download": {"1"}}, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Import replaces the session's graph. A malformed document is rejected
// and leaves the graph unchanged.
func (s *GraphService) Import(ctx context.Context, id string, g *Graph) (*Session, error) {
	var resp Session
	if err := s.c.put(ctx, sessionPath(id, "/graph"), g, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ImportRaw sends a graph document as-is, letting the server validate it.
func (s *GraphService) ImportRaw(ctx context.Context, id string, doc []byte) (*Session, error) {
	var resp Session
	if err := s.c.doRaw(ctx, http.MethodPut, sessionPath(id, "/graph"), bytes.NewReader(doc), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Adjacency returns the weighted adjacency derived from the session's graph.
func (s *GraphService) Adjacency(ctx context.Context, id string) (*AdjacencyResult, error) {
	var resp AdjacencyResult
	if err := s.c.get(ctx, sessionPath(id, "/adjacency"), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
