package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/algocanvas/algocanvas/internal/models"
)

// LibraryHandler serves the saved-graph library.
type LibraryHandler struct {
	lib      GraphLibrary
	sessions SessionRegistry
	log      *logrus.Logger
}

// NewLibraryHandler creates a LibraryHandler.
func NewLibraryHandler(lib GraphLibrary, sessions SessionRegistry, log *logrus.Logger) *LibraryHandler {
	return &LibraryHandler{lib: lib, sessions: sessions, log: log}
}

// saveRequest names either a live session to snapshot or a document to store.
type saveRequest struct {
	SessionID string            `json:"session_id"`
	Graph     *models.GraphFile `json:"graph"`
}

// List handles GET /library.
func (h *LibraryHandler) List(c *gin.Context) {
	infos, err := h.lib.List(c.Request.Context())
	if err != nil {
		respondFailure(c, h.log, err, "listing library")

		return
	}

	c.JSON(http.StatusOK, gin.H{"graphs": infos, "backend": h.lib.Backend()})
}

// Save handles PUT /library/:name.
func (h *LibraryHandler) Save(c *gin.Context) {
	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	if (req.SessionID == "") == (req.Graph == nil) {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, "exactly one of session_id or graph is required")

		return
	}

	doc := req.Graph

	if req.SessionID != "" {
		s, err := h.sessions.Get(req.SessionID)
		if err != nil {
			respondFailure(c, h.log, err, "looking up session")

			return
		}

		if doc, err = s.ExportGraph(c.Request.Context()); err != nil {
			respondFailure(c, h.log, err, "exporting graph")

			return
		}
	}

	name := c.Param("name")
	if err := h.lib.Save(c.Request.Context(), name, doc); err != nil {
		respondFailure(c, h.log, err, "saving graph")

		return
	}

	h.log.WithFields(logrus.Fields{
		"action":  "library.save",
		"name":    name,
		"backend": h.lib.Backend(),
		"nodes":   len(doc.Nodes),
	}).Info("audit")

	c.JSON(http.StatusOK, gin.H{"name": name, "nodes": len(doc.Nodes), "edges": len(doc.Edges)})
}

// Get handles GET /library/:name.
func (h *LibraryHandler) Get(c *gin.Context) {
	doc, err := h.lib.Load(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondFailure(c, h.log, err, "loading graph")

		return
	}

	c.JSON(http.StatusOK, doc)
}

// Delete handles DELETE /library/:name.
func (h *LibraryHandler) Delete(c *gin.Context) {
	name := c.Param("name")
	if err := h.lib.Delete(c.Request.Context(), name); err != nil {
		respondFailure(c, h.log, err, "deleting graph")

		return
	}

	h.log.WithFields(logrus.Fields{"action": "library.delete", "name": name}).Info("audit")

	c.Status(http.StatusNoContent)
}

// LoadIntoSession handles POST /sessions/:id/library/:name/load.
func (h *LibraryHandler) LoadIntoSession(c *gin.Context) {
	s := lookup(c, h.sessions, h.log)
	if s == nil {
		return
	}

	doc, err := h.lib.Load(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondFailure(c, h.log, err, "loading graph")

		return
	}

	if err := s.LoadGraph(c.Request.Context(), doc); err != nil {
		respondFailure(c, h.log, err, "loading graph into session")

		return
	}

	view, err := s.Snapshot(c.Request.Context())
	if err != nil {
		respondFailure(c, h.log, err, "snapshotting session")

		return
	}

	c.JSON(http.StatusOK, view)
}
