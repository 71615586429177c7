package client

import (
	"context"
	"net/url"
)

// RunService executes algorithms against a session's graph.
type RunService struct {
	c *Client
}

// RunRequest is the payload for a run. Template alone runs that template's
// code; Source overrides it.
type RunRequest struct {
	Source   string `json:"source,omitempty"`
	Template string `json:"template,omitempty"`
}

// Run executes an algorithm. A program that fails still returns a result
// with HasError set.
func (s *RunService) Run(ctx context.Context, id string, req *RunRequest) (*RunResult, error) {
	var resp RunResult
	if err := s.c.post(ctx, sessionPath(id, "/run"), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SelectTemplate loads a template's source into the session's editor.
func (s *RunService) SelectTemplate(ctx context.Context, id, name string) (*RunResult, error) {
	var resp RunResult
	if err := s.c.put(ctx, sessionPath(id, "/template"), map[string]string{"name": name}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TemplateService reads the built-in algorithm catalog.
type TemplateService struct {
	c *Client
}

// List returns the catalog.
func (s *TemplateService) List(ctx context.Context) (*TemplateList, error) {
	var resp TemplateList
	if err := s.c.get(ctx, "/api/v1/templates", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Get returns one template including its source.
func (s *TemplateService) Get(ctx context.Context, name string) (*Template, error) {
	var resp Template
	if err := s.c.get(ctx, "/api/v1/templates/"+url.PathEscape(name), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
