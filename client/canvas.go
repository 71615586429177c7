package client

import (
	"context"
)

// CanvasService drives pointer interaction on a session's canvas.
type CanvasService struct {
	c *Client
}

type point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type actionResponse struct {
	Action Action `json:"action"`
}

func (s *CanvasService) action(ctx context.Context, id, suffix string, body any) (*Action, error) {
	var resp actionResponse
	if err := s.c.post(ctx, sessionPath(id, suffix), body, &resp); err != nil {
		return nil, err
	}
	return &resp.Action, nil
}

// PointerDown presses the pointer at (x, y). What happens depends on the mode.
func (s *CanvasService) PointerDown(ctx context.Context, id string, x, y float64) (*Action, error) {
	return s.action(ctx, id, "/pointer/down", point{X: x, Y: y})
}

// PointerMove moves the pointer to (x, y), dragging or hovering.
func (s *CanvasService) PointerMove(ctx context.Context, id string, x, y float64) (*Action, error) {
	return s.action(ctx, id, "/pointer/move", point{X: x, Y: y})
}

// PointerUp releases the pointer at (x, y).
func (s *CanvasService) PointerUp(ctx context.Context, id string, x, y float64) (*Action, error) {
	return s.action(ctx, id, "/pointer/up", point{X: x, Y: y})
}

// Release ends any drag, as when the pointer leaves the canvas.
func (s *CanvasService) Release(ctx context.Context, id string) (*Action, error) {
	return s.action(ctx, id, "/pointer/release", nil)
}

// Click is a PointerDown followed by a PointerUp at the same position.
func (s *CanvasService) Click(ctx context.Context, id string, x, y float64) (*Action, error) {
	a, err := s.PointerDown(ctx, id, x, y)
	if err != nil {
		return nil, err
	}
	if _, err := s.PointerUp(ctx, id, x, y); err != nil {
		return nil, err
	}
	return a, nil
}

// SetMode switches the interaction mode: select, addNode, addEdge or delete.
func (s *CanvasService) SetMode(ctx context.Context, id, mode string) (*Action, error) {
	var resp actionResponse
	if err := s.c.put(ctx, sessionPath(id, "/mode"), map[string]string{"mode": mode}, &resp); err != nil {
		return nil, err
	}
	return &resp.Action, nil
}

// Clear removes every node and edge.
func (s *CanvasService) Clear(ctx context.Context, id string) (*Action, error) {
	return s.action(ctx, id, "/clear", nil)
}
