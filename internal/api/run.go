package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/algocanvas/algocanvas/internal/session"
	"github.com/algocanvas/algocanvas/internal/templates"
)

// RunHandler executes algorithms and manages template selection.
type RunHandler struct {
	sessions SessionRegistry
	log      *logrus.Logger
}

// NewRunHandler creates a RunHandler.
func NewRunHandler(sessions SessionRegistry, log *logrus.Logger) *RunHandler {
	return &RunHandler{sessions: sessions, log: log}
}

type runRequest struct {
	Source   string `json:"source"`
	Template string `json:"template"`
}

type templateRequest struct {
	Name string `json:"name"`
}

// Run handles POST /sessions/:id/run. A template name without source runs
// that template's code. A failed program is still a 200: its output and
// error flag are part of the response.
func (h *RunHandler) Run(c *gin.Context) {
	var req runRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	if strings.TrimSpace(req.Source) == "" && req.Template == "" {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, "source or template is required")

		return
	}

	s := lookup(c, h.sessions, h.log)
	if s == nil {
		return
	}

	var (
		view session.RunView
		err  error
	)

	if req.Template != "" {
		view, err = s.RunTemplate(c.Request.Context(), req.Template, req.Source)
	} else {
		view, err = s.RunAlgorithm(c.Request.Context(), req.Source)
	}

	if err != nil {
		respondFailure(c, h.log, err, "running algorithm")

		return
	}

	h.log.WithFields(logrus.Fields{
		"action":     "session.run",
		"session_id": s.ID(),
		"template":   req.Template,
		"commands":   len(view.Commands),
		"has_error":  view.HasError,
	}).Info("audit")

	c.JSON(http.StatusOK, view)
}

// SelectTemplate handles PUT /sessions/:id/template.
func (h *RunHandler) SelectTemplate(c *gin.Context) {
	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "body must be {\"name\": string}")

		return
	}

	s := lookup(c, h.sessions, h.log)
	if s == nil {
		return
	}

	view, err := s.SelectTemplate(c.Request.Context(), req.Name)
	if err != nil {
		respondFailure(c, h.log, err, "selecting template")

		return
	}

	c.JSON(http.StatusOK, view)
}

// ListTemplates handles GET /templates.
func (h *RunHandler) ListTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"templates": templates.List(), "default": templates.DefaultName})
}

// GetTemplate handles GET /templates/:name.
func (h *RunHandler) GetTemplate(c *gin.Context) {
	t, ok := templates.Get(c.Param("name"))
	if !ok {
		respondError(c, http.StatusNotFound, ErrCodeNotFound, "template not found")

		return
	}

	c.JSON(http.StatusOK, t)
}
