package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/algocanvas/algocanvas/internal/playback"
	"github.com/algocanvas/algocanvas/internal/session"
)

// PlaybackHandler serves the animation controls of a session.
type PlaybackHandler struct {
	sessions SessionRegistry
	log      *logrus.Logger
}

// NewPlaybackHandler creates a PlaybackHandler.
func NewPlaybackHandler(sessions SessionRegistry, log *logrus.Logger) *PlaybackHandler {
	return &PlaybackHandler{sessions: sessions, log: log}
}

type speedRequest struct {
	SpeedMS *int `json:"speed_ms"`
}

func (h *PlaybackHandler) control(c *gin.Context, fn func(s *session.Session, ctx context.Context) (playback.Status, error)) {
	s := lookup(c, h.sessions, h.log)
	if s == nil {
		return
	}

	st, err := fn(s, c.Request.Context())
	if err != nil {
		respondFailure(c, h.log, err, "controlling playback")

		return
	}

	c.JSON(http.StatusOK, st)
}

// Play handles POST /sessions/:id/playback/play.
func (h *PlaybackHandler) Play(c *gin.Context) { h.control(c, (*session.Session).Play) }

// Pause handles POST /sessions/:id/playback/pause.
func (h *PlaybackHandler) Pause(c *gin.Context) { h.control(c, (*session.Session).Pause) }

// Step handles POST /sessions/:id/playback/step.
func (h *PlaybackHandler) Step(c *gin.Context) { h.control(c, (*session.Session).StepForward) }

// Reset handles POST /sessions/:id/playback/reset.
func (h *PlaybackHandler) Reset(c *gin.Context) { h.control(c, (*session.Session).ResetPlayback) }

// SetSpeed handles PUT /sessions/:id/playback/speed. Out-of-range values are
// clamped, not rejected.
func (h *PlaybackHandler) SetSpeed(c *gin.Context) {
	var req speedRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.SpeedMS == nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "body must be {\"speed_ms\": integer}")

		return
	}

	s := lookup(c, h.sessions, h.log)
	if s == nil {
		return
	}

	st, err := s.SetSpeed(c.Request.Context(), time.Duration(*req.SpeedMS)*time.Millisecond)
	if err != nil {
		respondFailure(c, h.log, err, "setting speed")

		return
	}

	c.JSON(http.StatusOK, st)
}
