package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/algocanvas/algocanvas/internal/session"
)

// SessionHandler serves session lifecycle and snapshot endpoints.
type SessionHandler struct {
	sessions SessionRegistry
	log      *logrus.Logger
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(sessions SessionRegistry, log *logrus.Logger) *SessionHandler {
	return &SessionHandler{sessions: sessions, log: log}
}

// lookup resolves the :id path parameter, answering the request on failure.
func lookup(c *gin.Context, sessions SessionRegistry, log *logrus.Logger) *session.Session {
	id := c.Param("id")
	if err := validatePathID(id); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return nil
	}

	s, err := sessions.Get(id)
	if err != nil {
		respondFailure(c, log, err, "looking up session")

		return nil
	}

	return s
}

// Create handles POST /sessions.
func (h *SessionHandler) Create(c *gin.Context) {
	s, err := h.sessions.Create()
	if err != nil {
		respondFailure(c, h.log, err, "creating session")

		return
	}

	view, err := s.Snapshot(c.Request.Context())
	if err != nil {
		respondFailure(c, h.log, err, "snapshotting new session")

		return
	}

	h.log.WithFields(logrus.Fields{"action": "session.create", "session_id": s.ID()}).Info("audit")

	c.JSON(http.StatusCreated, view)
}

// List handles GET /sessions.
func (h *SessionHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sessions": h.sessions.List()})
}

// Get handles GET /sessions/:id.
func (h *SessionHandler) Get(c *gin.Context) {
	s := lookup(c, h.sessions, h.log)
	if s == nil {
		return
	}

	view, err := s.Snapshot(c.Request.Context())
	if err != nil {
		respondFailure(c, h.log, err, "snapshotting session")

		return
	}

	c.JSON(http.StatusOK, view)
}

// Delete handles DELETE /sessions/:id.
func (h *SessionHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := validatePathID(id); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	if err := h.sessions.Delete(id); err != nil {
		respondFailure(c, h.log, err, "deleting session")

		return
	}

	h.log.WithFields(logrus.Fields{"action": "session.delete", "session_id": id}).Info("audit")

	c.Status(http.StatusNoContent)
}
