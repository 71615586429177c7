package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// GraphHandler serves graph import/export and adjacency derivation.
type GraphHandler struct {
	sessions SessionRegistry
	log      *logrus.Logger
}

// NewGraphHandler creates a GraphHandler.
func NewGraphHandler(sessions SessionRegistry, log *logrus.Logger) *GraphHandler {
	return &GraphHandler{sessions: sessions, log: log}
}

// Export handles GET /sessions/:id/graph.
func (h *GraphHandler) Export(c *gin.Context) {
	s := lookup(c, h.sessions, h.log)
	if s == nil {
		return
	}

	doc, err := s.ExportGraph(c.Request.Context())
	if err != nil {
		respondFailure(c, h.log, err, "exporting graph")

		return
	}

	if c.Query("download") != "" {
		c.Header("Content-Disposition", `attachment; filename="graph.json"`)
	}

	c.JSON(http.StatusOK, doc)
}

// Import handles PUT /sessions/:id/graph. The body is a graph document; a
// malformed one leaves the session's graph untouched.
func (h *GraphHandler) Import(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "unreadable request body")

		return
	}

	s := lookup(c, h.sessions, h.log)
	if s == nil {
		return
	}

	if err := s.LoadGraphJSON(c.Request.Context(), body); err != nil {
		respondFailure(c, h.log, err, "importing graph")

		return
	}

	view, err := s.Snapshot(c.Request.Context())
	if err != nil {
		respondFailure(c, h.log, err, "snapshotting session")

		return
	}

	h.log.WithFields(logrus.Fields{
		"action":     "graph.import",
		"session_id": s.ID(),
		"nodes":      len(view.Graph.Nodes),
	}).Info("audit")

	c.JSON(http.StatusOK, view)
}

// Adjacency handles GET /sessions/:id/adjacency.
func (h *GraphHandler) Adjacency(c *gin.Context) {
	s := lookup(c, h.sessions, h.log)
	if s == nil {
		return
	}

	view, err := s.Adjacency(c.Request.Context())
	if err != nil {
		respondFailure(c, h.log, err, "deriving adjacency")

		return
	}

	c.JSON(http.StatusOK, view)
}
