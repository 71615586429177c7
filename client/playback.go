package client

import (
	"context"
)

// PlaybackService controls step playback of extracted commands.
type PlaybackService struct {
	c *Client
}

func (s *PlaybackService) control(ctx context.Context, id, verb string) (*PlaybackStatus, error) {
	var resp PlaybackStatus
	if err := s.c.post(ctx, sessionPath(id, "/playback/"+verb), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Play starts or resumes timed playback.
func (s *PlaybackService) Play(ctx context.Context, id string) (*PlaybackStatus, error) {
	return s.control(ctx, id, "play")
}

// Pause stops timed playback, keeping the cursor.
func (s *PlaybackService) Pause(ctx context.Context, id string) (*PlaybackStatus, error) {
	return s.control(ctx, id, "pause")
}

// Step applies exactly one command.
func (s *PlaybackService) Step(ctx context.Context, id string) (*PlaybackStatus, error) {
	return s.control(ctx, id, "step")
}

// Reset rewinds to the first command and clears colouring.
func (s *PlaybackService) Reset(ctx context.Context, id string) (*PlaybackStatus, error) {
	return s.control(ctx, id, "reset")
}

// SetSpeed changes the delay between steps. The server clamps the value.
func (s *PlaybackService) SetSpeed(ctx context.Context, id string, speedMS int) (*PlaybackStatus, error) {
	var resp PlaybackStatus
	if err := s.c.put(ctx, sessionPath(id, "/playback/speed"), map[string]int{"speed_ms": speedMS}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
