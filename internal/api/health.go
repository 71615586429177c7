// Package api provides the HTTP handlers of the algocanvas server.
package api

import (
	"context"
	"net/http"
	"os/exec"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ClientCounter reports connected WebSocket clients.
type ClientCounter interface {
	ClientCount() int
}

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	sessions  SessionRegistry
	clients   ClientCounter
	db        Pinger
	backend   string
	pythonBin string
	log       *logrus.Logger
	version   string
	startTime time.Time
}

// NewHealthHandler creates a HealthHandler. db may be nil when the library
// does not use PostgreSQL.
func NewHealthHandler(sessions SessionRegistry, clients ClientCounter, db Pinger, backend, pythonBin string, log *logrus.Logger, version string) *HealthHandler {
	return &HealthHandler{
		sessions:  sessions,
		clients:   clients,
		db:        db,
		backend:   backend,
		pythonBin: pythonBin,
		log:       log,
		version:   version,
		startTime: time.Now(),
	}
}

// readinessResponse is the JSON payload returned by the readiness endpoint.
type readinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// healthResponse is the JSON payload returned by the liveness endpoint.
type healthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Store         string  `json:"store"`
	Sessions      int     `json:"sessions"`
	Clients       int     `json:"clients"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// Liveness handles GET /api/v1/health.
func (h *HealthHandler) Liveness(c *gin.Context) {
	resp := healthResponse{
		Status:        "ok",
		Version:       h.version,
		Store:         h.backend,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}

	if h.sessions != nil {
		resp.Sessions = len(h.sessions.List())
	}

	if h.clients != nil {
		resp.Clients = h.clients.ClientCount()
	}

	c.JSON(http.StatusOK, resp)
}

// Readiness handles GET /api/v1/ready. The interpreter must be on PATH and
// the database, when configured, must answer a ping.
func (h *HealthHandler) Readiness(c *gin.Context) {
	checks := map[string]string{
		"python":   "ok",
		"database": "not_configured",
	}
	status := "ready"
	statusCode := http.StatusOK

	if _, err := exec.LookPath(h.pythonBin); err != nil {
		h.log.WithError(err).WithField("binary", h.pythonBin).Error("readiness: interpreter not found")
		checks["python"] = "missing"
		status = "not_ready"
		statusCode = http.StatusServiceUnavailable
	}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		checks["database"] = "ok"

		if err := h.db.Ping(ctx); err != nil {
			h.log.WithError(err).Error("readiness: database ping failed")
			checks["database"] = "error"
			status = "not_ready"
			statusCode = http.StatusServiceUnavailable
		}
	}

	c.JSON(statusCode, readinessResponse{
		Status: status,
		Checks: checks,
	})
}
