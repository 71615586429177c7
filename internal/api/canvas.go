package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/algocanvas/algocanvas/internal/canvas"
	"github.com/algocanvas/algocanvas/internal/models"
	"github.com/algocanvas/algocanvas/internal/session"
)

// CanvasHandler forwards pointer events and mode changes to a session's
// interaction controller.
type CanvasHandler struct {
	sessions SessionRegistry
	log      *logrus.Logger
}

// NewCanvasHandler creates a CanvasHandler.
func NewCanvasHandler(sessions SessionRegistry, log *logrus.Logger) *CanvasHandler {
	return &CanvasHandler{sessions: sessions, log: log}
}

type pointerRequest struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

type modeRequest struct {
	Mode string `json:"mode"`
}

type actionResponse struct {
	Action canvas.Action `json:"action"`
}

func (h *CanvasHandler) pointer(c *gin.Context, fn func(s *session.Session, ctx context.Context, x, y float64) (canvas.Action, error)) {
	var req pointerRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.X == nil || req.Y == nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "body must be {\"x\": number, \"y\": number}")

		return
	}

	s := lookup(c, h.sessions, h.log)
	if s == nil {
		return
	}

	action, err := fn(s, c.Request.Context(), *req.X, *req.Y)
	if err != nil {
		respondFailure(c, h.log, err, "forwarding pointer event")

		return
	}

	c.JSON(http.StatusOK, actionResponse{Action: action})
}

// PointerDown handles POST /sessions/:id/pointer/down.
func (h *CanvasHandler) PointerDown(c *gin.Context) {
	h.pointer(c, (*session.Session).PointerDown)
}

// PointerMove handles POST /sessions/:id/pointer/move.
func (h *CanvasHandler) PointerMove(c *gin.Context) {
	h.pointer(c, (*session.Session).PointerMove)
}

// PointerUp handles POST /sessions/:id/pointer/up.
func (h *CanvasHandler) PointerUp(c *gin.Context) {
	h.pointer(c, (*session.Session).PointerUp)
}

// Release handles POST /sessions/:id/pointer/release, a pointer-up outside
// the canvas.
func (h *CanvasHandler) Release(c *gin.Context) {
	h.simple(c, (*session.Session).Release, "releasing pointer")
}

// Clear handles POST /sessions/:id/clear.
func (h *CanvasHandler) Clear(c *gin.Context) {
	h.simple(c, (*session.Session).Clear, "clearing canvas")
}

func (h *CanvasHandler) simple(c *gin.Context, fn func(s *session.Session, ctx context.Context) (canvas.Action, error), msg string) {
	s := lookup(c, h.sessions, h.log)
	if s == nil {
		return
	}

	action, err := fn(s, c.Request.Context())
	if err != nil {
		respondFailure(c, h.log, err, msg)

		return
	}

	c.JSON(http.StatusOK, actionResponse{Action: action})
}

// SetMode handles PUT /sessions/:id/mode.
func (h *CanvasHandler) SetMode(c *gin.Context) {
	var req modeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	mode, err := models.ParseMode(req.Mode)
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())

		return
	}

	s := lookup(c, h.sessions, h.log)
	if s == nil {
		return
	}

	action, err := s.SetMode(c.Request.Context(), mode)
	if err != nil {
		respondFailure(c, h.log, err, "setting mode")

		return
	}

	c.JSON(http.StatusOK, actionResponse{Action: action})
}
