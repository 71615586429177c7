package session

import (
	"context"
	"time"

	"github.com/algocanvas/algocanvas/internal/canvas"
	"github.com/algocanvas/algocanvas/internal/models"
	"github.com/algocanvas/algocanvas/internal/playback"
)

// View is everything a renderer needs to draw a session.
type View struct {
	ID          string                  `json:"id"`
	Graph       *models.GraphFile       `json:"graph"`
	Interaction canvas.InteractionState `json:"interaction"`
	Playback    playback.Status         `json:"playback"`
	Run         RunView                 `json:"run"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

// Snapshot returns the full view of the session.
func (s *Session) Snapshot(ctx context.Context) (View, error) {
	var v View

	err := s.do(ctx, func() { v = s.view() })

	return v, err
}

// SnapshotAt returns the full view together with cursor(id), evaluated in
// the same turn. Nothing is published between the two, so cursor can pair
// the view with an event-stream position.
func (s *Session) SnapshotAt(ctx context.Context, cursor func(sessionID string) uint64) (View, uint64, error) {
	var (
		v   View
		pos uint64
	)

	err := s.do(ctx, func() {
		v = s.view()
		pos = cursor(s.id)
	})

	return v, pos, err
}

func (s *Session) view() View {
	return View{
		ID:          s.id,
		Graph:       models.NewGraphFile(s.graph),
		Interaction: s.ctrl.State(),
		Playback:    s.sched.Snapshot(),
		Run:         s.runView(),
		CreatedAt:   s.createdAt,
		UpdatedAt:   s.updatedAt,
	}
}
