package client

import (
	"context"
)

// SessionService manages live sessions.
type SessionService struct {
	c *Client
}

// Create starts a new session with an empty graph.
func (s *SessionService) Create(ctx context.Context) (*Session, error) {
	var resp Session
	if err := s.c.post(ctx, "/api/v1/sessions", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// List returns every live session.
func (s *SessionService) List(ctx context.Context) ([]SessionInfo, error) {
	var resp struct {
		Sessions []SessionInfo `json:"sessions"`
	}
	if err := s.c.get(ctx, "/api/v1/sessions", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Sessions, nil
}

// Get returns the full view of a session.
func (s *SessionService) Get(ctx context.Context, id string) (*Session, error) {
	var resp Session
	if err := s.c.get(ctx, sessionPath(id, ""), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Delete ends a session and disconnects its subscribers.
func (s *SessionService) Delete(ctx context.Context, id string) error {
	return s.c.del(ctx, sessionPath(id, ""))
}
