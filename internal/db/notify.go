package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"net"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"

	"github.com/algocanvas/algocanvas/internal/dbpool"
)

const (
	listenChannel     = "library_changes"
	initialBackoff    = 1 * time.Second
	maxBackoff        = 30 * time.Second
	backoffMultiplier = 2
)

// LibraryEvent is the event type broadcast for saved-graph changes.
const LibraryEvent = "library"

// LibraryChange is the payload of a library event.
type LibraryChange struct {
	Op   string `json:"op"`
	Name string `json:"name"`
}

var libraryOps = map[string]bool{"insert": true, "update": true, "delete": true}

// parseLibraryChange decodes a trigger payload, rejecting unknown operations
// and unnamed rows.
func parseLibraryChange(payload string) (LibraryChange, error) {
	var ch LibraryChange
	if err := json.Unmarshal([]byte(payload), &ch); err != nil {
		return ch, fmt.Errorf("decoding payload: %w", err)
	}

	ch.Op = strings.ToLower(ch.Op)
	if !libraryOps[ch.Op] {
		return ch, fmt.Errorf("unknown op %q", ch.Op)
	}

	if ch.Name == "" {
		return ch, errors.New("missing name")
	}

	return ch, nil
}

// Broadcaster sends an event to every connected client.
type Broadcaster interface {
	BroadcastAll(eventType string, data json.RawMessage)
}

// NotifyBridge subscribes to PostgreSQL LISTEN/NOTIFY on the library_changes
// channel, fed by a trigger on saved_graphs, and forwards each change to the
// WebSocket hub. Every server sharing the database sees every save.
type NotifyBridge struct {
	log  *logrus.Logger
	pool *dbpool.Pool
	hub  Broadcaster
}

// NewNotifyBridge creates a NotifyBridge wired to the given pool and hub.
func NewNotifyBridge(log *logrus.Logger, pool *dbpool.Pool, hub Broadcaster) *NotifyBridge {
	return &NotifyBridge{
		log:  log,
		pool: pool,
		hub:  hub,
	}
}

// Start checks the database is reachable and launches the LISTEN loop in a
// background goroutine, which reconnects with jittered backoff until ctx is
// cancelled.
func (b *NotifyBridge) Start(ctx context.Context) error {
	if err := b.pool.Ping(ctx); err != nil {
		return fmt.Errorf("notify bridge: database not reachable: %w", err)
	}

	go b.listen(ctx)

	return nil
}

// listen is the main loop that acquires a connection, subscribes to the
// channel, and processes notifications until the context is cancelled.
func (b *NotifyBridge) listen(ctx context.Context) {
	backoff := initialBackoff

	for {
		if ctx.Err() != nil {
			return
		}

		listened, err := b.subscribeAndForward(ctx)
		if err == nil || ctx.Err() != nil {
			return
		}

		// A connection that got as far as LISTEN was healthy; start over.
		if listened {
			backoff = initialBackoff
		}

		b.log.WithError(err).WithField("retry_in", backoff).
			Warn("notify bridge connection lost, reconnecting")

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}

		backoff = nextBackoff(backoff)
	}
}

// subscribeAndForward acquires a connection, issues LISTEN, and blocks on
// notifications until the connection fails or the context is cancelled. It
// reports whether LISTEN succeeded.
func (b *NotifyBridge) subscribeAndForward(ctx context.Context) (bool, error) {
	conn, err := b.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquiring connection: %w", err)
	}
	defer conn.Release()

	// LISTEN requires the channel name inline (not a parameter), so we use
	// pgx.Identifier to safely quote/sanitize the channel name.
	sanitizedChannel := pgx.Identifier{listenChannel}.Sanitize()
	if _, err := conn.Exec(ctx, "LISTEN "+sanitizedChannel); err != nil {
		return false, fmt.Errorf("executing LISTEN: %w", err)
	}

	b.log.WithField("channel", listenChannel).Info("notify bridge listening")

	for {
		// Set a 2-minute read deadline so we periodically check ctx cancellation.
		if err := conn.Conn().PgConn().Conn().SetReadDeadline(time.Now().Add(2 * time.Minute)); err != nil {
			return true, fmt.Errorf("setting read deadline: %w", err)
		}

		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return true, nil
			}
			// On timeout, loop back to check context and retry.
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}

			return true, fmt.Errorf("waiting for notification: %w", err)
		}

		b.handleNotification(notification)
	}
}

// handleNotification re-encodes one library change and broadcasts it.
func (b *NotifyBridge) handleNotification(n *pgconn.Notification) {
	ch, err := parseLibraryChange(n.Payload)
	if err != nil {
		b.log.WithError(err).WithField("payload", n.Payload).Warn("dropping malformed library notification")
		return
	}

	b.log.WithFields(logrus.Fields{
		"op":   ch.Op,
		"name": ch.Name,
		"pid":  n.PID,
	}).Debug("library change")

	data, err := json.Marshal(ch)
	if err != nil {
		b.log.WithError(err).Error("encoding library change")
		return
	}

	b.hub.BroadcastAll(LibraryEvent, data)
}

// nextBackoff doubles the current backoff duration with random jitter (±25%),
// capped at maxBackoff. Jitter prevents thundering herd on reconnect.
func nextBackoff(current time.Duration) time.Duration {
	next := current * backoffMultiplier
	if next > maxBackoff {
		next = maxBackoff
	}

	// Add ±25% jitter.
	jitter := float64(next) * (0.75 + rand.Float64()*0.5) //nolint:gosec // jitter doesn't need crypto rand.

	return time.Duration(jitter)
}
