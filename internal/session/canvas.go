package session

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/algocanvas/algocanvas/internal/canvas"
	"github.com/algocanvas/algocanvas/internal/metrics"
	"github.com/algocanvas/algocanvas/internal/models"
)

// CanvasPayload is published after every canvas action. Graph is only set
// when the action changed the model.
type CanvasPayload struct {
	Action      canvas.Action           `json:"action"`
	Interaction canvas.InteractionState `json:"interaction"`
	Graph       *models.GraphFile       `json:"graph,omitempty"`
}

// PointerDown forwards a press at (x, y) to the controller.
func (s *Session) PointerDown(ctx context.Context, x, y float64) (canvas.Action, error) {
	return s.canvasTurn(ctx, func() canvas.Action { return s.ctrl.PointerDown(x, y) })
}

// PointerMove forwards pointer motion to the controller.
func (s *Session) PointerMove(ctx context.Context, x, y float64) (canvas.Action, error) {
	return s.canvasTurn(ctx, func() canvas.Action { return s.ctrl.PointerMove(x, y) })
}

// PointerUp forwards a release on the canvas to the controller.
func (s *Session) PointerUp(ctx context.Context, x, y float64) (canvas.Action, error) {
	return s.canvasTurn(ctx, func() canvas.Action { return s.ctrl.PointerUp(x, y) })
}

// Release ends a drag after the pointer was released outside the canvas.
func (s *Session) Release(ctx context.Context) (canvas.Action, error) {
	return s.canvasTurn(ctx, s.ctrl.Release)
}

// SetMode switches the interaction mode.
func (s *Session) SetMode(ctx context.Context, m models.Mode) (canvas.Action, error) {
	return s.canvasTurn(ctx, func() canvas.Action { return s.ctrl.SetMode(m) })
}

// Clear empties the canvas and rewinds playback.
func (s *Session) Clear(ctx context.Context) (canvas.Action, error) {
	return s.canvasTurn(ctx, func() canvas.Action {
		s.cancelAutoStart()
		s.sched.Reset()

		return s.ctrl.Clear()
	})
}

func (s *Session) canvasTurn(ctx context.Context, fn func() canvas.Action) (canvas.Action, error) {
	var action canvas.Action

	err := s.do(ctx, func() {
		action = fn()
		if action.Kind == canvas.ActionNone {
			return
		}

		metrics.CanvasActions.WithLabelValues(action.Kind.String()).Inc()

		payload := CanvasPayload{Action: action, Interaction: s.ctrl.State()}
		if action.Mutates() {
			s.touch()
			payload.Graph = models.NewGraphFile(s.graph)
		}

		if action.Kind != canvas.ActionDragMove && action.Kind != canvas.ActionHover {
			s.log.WithFields(logrus.Fields{
				"action": action.String(),
				"mode":   action.Mode.String(),
				"nodes":  len(s.graph.Nodes),
				"edges":  len(s.graph.Edges),
			}).Debug("canvas action")
		}

		s.publish(EventCanvas, payload)
	})

	return action, err
}
