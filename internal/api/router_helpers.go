package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/algocanvas/algocanvas/internal/middleware"
	"github.com/algocanvas/algocanvas/internal/session"
	"github.com/algocanvas/algocanvas/internal/ws"
)

// wsHandler upgrades GET /sessions/:id/ws and streams the session's events,
// starting with a full snapshot.
func wsHandler(appCtx context.Context, log *logrus.Logger, hub *ws.Hub, sessions SessionRegistry, corsOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := lookup(c, sessions, log)
		if s == nil {
			return
		}

		// The snapshot and the hub's event cursor are read in one session
		// turn, so events published afterwards are replayed behind it.
		view, lastID, err := s.SnapshotAt(c.Request.Context(), hub.LastEventID)
		if err != nil {
			respondFailure(c, log, err, "snapshotting session")

			return
		}

		snapshot, err := snapshotMessage(s.ID(), lastID, view)
		if err != nil {
			respondFailure(c, log, err, "encoding snapshot")

			return
		}

		// CORS origins are reused as WebSocket origin patterns. The config
		// validator ensures these are safe host patterns.
		conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
			OriginPatterns:       originHosts(corsOrigins),
			CompressionMode:      websocket.CompressionContextTakeover,
			CompressionThreshold: 128,
		})
		if err != nil {
			log.WithError(err).Error("websocket accept failed")

			return
		}

		client := ws.NewClient(hub, conn, s.ID())
		hub.Join(client, snapshot, lastID)

		// Derive a context that cancels when either the server shuts down or the request ends.
		wsCtx, wsCancel := context.WithCancel(appCtx)
		go func() {
			select {
			case <-c.Request.Context().Done():
				wsCancel()
			case <-wsCtx.Done():
			}
		}()

		go client.WritePump(wsCtx)
		client.ReadPump(wsCtx)
		wsCancel()
	}
}

// snapshotMessage carries the ID of the last event the view includes, which
// is the client's starting point for subscribe.
func snapshotMessage(sessionID string, lastID uint64, view session.View) ([]byte, error) {
	data, err := json.Marshal(view)
	if err != nil {
		return nil, err
	}

	return json.Marshal(ws.Event{
		Type:      session.EventSnapshot,
		ID:        lastID,
		SessionID: sessionID,
		Data:      data,
		Time:      time.Now(),
	})
}

// originHosts strips schemes: websocket.AcceptOptions matches host patterns.
func originHosts(origins []string) []string {
	hosts := make([]string, 0, len(origins))

	for _, o := range origins {
		o = strings.TrimPrefix(o, "https://")
		o = strings.TrimPrefix(o, "http://")
		hosts = append(hosts, o)
	}

	return hosts
}

func ginLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		fields := middleware.RequestIDFields(c)
		for k, v := range (logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
			"client":   c.ClientIP(),
		}) {
			fields[k] = v
		}
		if sid := c.Param("id"); sid != "" {
			fields["session_id"] = sid
		}
		log.WithFields(fields).Info("request")
	}
}

// validatePathID checks that a path parameter ID is non-empty and within length limits.
func validatePathID(id string) error {
	if id == "" {
		return fmt.Errorf("id must not be empty")
	}
	if len(id) > 255 {
		return fmt.Errorf("id exceeds maximum length of 255")
	}
	return nil
}
