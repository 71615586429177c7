// Package ws streams session events to WebSocket clients.
package ws

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/algocanvas/algocanvas/internal/metrics"
)

// Hub channel buffer sizes and connection caps.
const (
	broadcastBuffer   = 256
	registerBuffer    = 64
	maxClients        = 1000
	maxSessionClients = 16
)

// maxBroadcastPayload bounds a single message. Snapshots of large graphs are
// the biggest messages the hub carries.
const maxBroadcastPayload = 1 << 20

// broadcast is sent through the broadcast channel to the Run goroutine. An
// empty sessionID addresses every client; id is 0 for unsequenced events.
type broadcast struct {
	sessionID string
	id        uint64
	msg       []byte
}

// replayRequest asks the Run goroutine to resend a client's missed events.
type replayRequest struct {
	client      *Client
	lastEventID uint64
}

// Hub manages active WebSocket clients and fans session events out to them.
// All client map mutations and every write to a client's send channel happen
// in the Run goroutine.
type Hub struct {
	clients      map[*Client]bool
	sessionCount map[string]int
	register     chan *Client
	unregister   chan *Client
	replays      chan replayRequest
	broadcast    chan broadcast
	evict        chan string
	shutdown     chan struct{}
	done         chan struct{}
	count        atomic.Int64
	log          *logrus.Logger
	seq          *EventSequence
	buffer       *EventBuffer
}

// NewHub creates a new Hub instance.
func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		clients:      make(map[*Client]bool),
		sessionCount: make(map[string]int),
		register:     make(chan *Client, registerBuffer),
		unregister:   make(chan *Client, registerBuffer),
		replays:      make(chan replayRequest, registerBuffer),
		broadcast:    make(chan broadcast, broadcastBuffer),
		evict:        make(chan string, registerBuffer),
		shutdown:     make(chan struct{}),
		done:         make(chan struct{}),
		log:          log,
		seq:          NewEventSequence(),
		buffer:       NewEventBuffer(defaultBufferMaxLen, defaultBufferMaxAge),
	}
}

// drainTimeout is how long the hub waits for clients to flush after shutdown.
const drainTimeout = 3 * time.Second

// Run starts the hub event loop. It exits when Shutdown is called or the
// context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	defer h.buffer.Stop()

	for {
		select {
		case <-ctx.Done():
			h.drainClients()

			return
		case <-h.shutdown:
			h.drainClients()

			return

		case client := <-h.register:
			h.addClient(client)

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.removeClient(client)
			}

			h.updateCount()
			h.log.WithField("total", len(h.clients)).Debug("client unregistered")

		case req := <-h.replays:
			if h.clients[req.client] {
				h.replayOrReset(req.client, req.lastEventID)
			}

		case sessionID := <-h.evict:
			h.closeSession(sessionID)

		case b := <-h.broadcast:
			h.deliver(b)
		}
	}
}

// deliver fans b out. A client that already received a sequenced event
// through replay is not sent it again.
func (h *Hub) deliver(b broadcast) {
	for client := range h.clients {
		if b.sessionID != "" && client.SessionID != b.sessionID {
			continue
		}

		if b.id != 0 && b.id <= client.lastSent {
			continue
		}

		select {
		case client.send <- b.msg:
			if b.id > client.lastSent {
				client.lastSent = b.id
			}
		default:
			h.log.WithField("session_id", client.SessionID).Warn("client send buffer full, dropping client")
			h.removeClient(client)
		}
	}

	h.updateCount()
}

func (h *Hub) addClient(client *Client) {
	if len(h.clients) >= maxClients {
		h.log.Warn("global connection limit reached, dropping client")
		client.closeSend()

		return
	}

	if h.sessionCount[client.SessionID] >= maxSessionClients {
		h.log.WithField("session_id", client.SessionID).Warn("per-session connection limit reached, dropping client")
		client.closeSend()

		return
	}

	h.clients[client] = true
	h.sessionCount[client.SessionID]++
	h.updateCount()

	// The snapshot goes first, then whatever was published after it was taken.
	if client.initial != nil {
		client.send <- client.initial
		client.initial = nil
		client.lastSent = client.since
		h.replayOrReset(client, client.since)
	}
	h.log.WithFields(logrus.Fields{
		"session_id": client.SessionID,
		"total":      len(h.clients),
	}).Info("client registered")
}

func (h *Hub) removeClient(client *Client) {
	delete(h.clients, client)
	client.closeSend()

	h.sessionCount[client.SessionID]--
	if h.sessionCount[client.SessionID] <= 0 {
		delete(h.sessionCount, client.SessionID)
	}
}

func (h *Hub) updateCount() {
	h.count.Store(int64(len(h.clients)))
	metrics.WSConnections.Set(float64(len(h.clients)))
}

// closeSession tells the session's clients it is gone and disconnects them.
func (h *Hub) closeSession(sessionID string) {
	closedMsg := controlFrame(MsgClosed, "session closed")

	for client := range h.clients {
		if client.SessionID != sessionID {
			continue
		}

		select {
		case client.send <- closedMsg:
		default:
		}

		h.removeClient(client)
	}

	h.updateCount()
	h.seq.Forget(sessionID)
	h.buffer.Drop(sessionID)
}

func (h *Hub) enqueue(b broadcast) {
	if len(b.msg) > maxBroadcastPayload {
		h.log.WithFields(logrus.Fields{
			"session_id":   b.sessionID,
			"payload_size": len(b.msg),
			"max_size":     maxBroadcastPayload,
		}).Warn("dropping oversized broadcast payload")

		return
	}

	select {
	case h.broadcast <- b:
	default:
		h.log.Warn("broadcast channel full, dropping message")
	}
}

// Join registers c with an initial snapshot message taken when the session's
// last event ID was snapshotID. Events published after the snapshot are
// replayed behind it, so the client sees no gap.
func (h *Hub) Join(c *Client, snapshot []byte, snapshotID uint64) {
	c.initial = snapshot
	c.since = snapshotID
	h.Register(c)
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	default:
		h.log.Warn("register channel full, dropping client")
		c.closeSend()
	}
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	default:
		// Run loop already exited; client cleanup happened in Run shutdown.
	}
}

// CloseSession disconnects every client of a deleted or evicted session.
func (h *Hub) CloseSession(sessionID string) {
	select {
	case h.evict <- sessionID:
	default:
		h.log.WithField("session_id", sessionID).Warn("evict channel full, clients will time out")
	}
}

// LastEventID returns the ID of the most recent event published for a
// session, or 0. Read it in the same session turn as a snapshot to pair the
// two.
func (h *Hub) LastEventID(sessionID string) uint64 {
	return h.seq.Last(sessionID)
}

// requestReplay queues a subscribe from a client's read pump.
func (h *Hub) requestReplay(c *Client, lastEventID uint64) {
	select {
	case h.replays <- replayRequest{client: c, lastEventID: lastEventID}:
	default:
		c.log.Warn("replay channel full, ignoring subscribe")
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

// Publish encodes payload and broadcasts it as a session event.
func (h *Hub) Publish(sessionID, eventType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.WithError(err).WithField("type", eventType).Error("failed to marshal event payload")
		return
	}

	h.BroadcastEvent(eventType, sessionID, data)
}

// BroadcastEvent assigns a sequence ID, stores the event for replay and
// sends it to the session's clients.
func (h *Hub) BroadcastEvent(eventType, sessionID string, data json.RawMessage) {
	evt := Event{
		Type:      eventType,
		ID:        h.seq.Next(sessionID),
		SessionID: sessionID,
		Data:      data,
		Time:      time.Now(),
	}

	msg, err := json.Marshal(evt)
	if err != nil {
		h.log.WithError(err).Error("failed to marshal event")
		return
	}

	h.buffer.Append(sessionID, &evt)
	h.enqueue(broadcast{sessionID: sessionID, id: evt.ID, msg: msg})
}

// BroadcastAll sends a server-wide event to every client. These events are
// not buffered for replay.
func (h *Hub) BroadcastAll(eventType string, data json.RawMessage) {
	msg, err := json.Marshal(Event{Type: eventType, Data: data, Time: time.Now()})
	if err != nil {
		h.log.WithError(err).Error("failed to marshal event")
		return
	}

	h.enqueue(broadcast{msg: msg})
}

// Shutdown initiates a graceful drain: sends a shutdown frame to every
// connected client, waits for their write pumps to flush, then closes all
// connections. It blocks until drain is complete or the timeout expires.
func (h *Hub) Shutdown() {
	close(h.shutdown)
	<-h.done
}

// drainClients sends a close frame to every client and waits for buffers to flush.
func (h *Hub) drainClients() {
	if len(h.clients) == 0 {
		return
	}

	h.log.WithField("clients", len(h.clients)).Info("draining WebSocket clients")

	shutdownMsg := []byte(`{"type":"shutdown","message":"server shutting down"}`)
	for client := range h.clients {
		select {
		case client.send <- shutdownMsg:
		default:
		}
	}

	deadline := time.After(drainTimeout)
	ticker := time.NewTicker(50 * time.Millisecond) //nolint:mnd // poll interval
	defer ticker.Stop()

	for !h.drained() {
		select {
		case <-deadline:
			h.log.Warn("WebSocket drain timeout, closing remaining clients")
			h.closeAll()

			return
		case <-ticker.C:
		}
	}

	h.closeAll()
}

func (h *Hub) drained() bool {
	for client := range h.clients {
		if len(client.send) > 0 {
			return false
		}
	}

	return true
}

func (h *Hub) closeAll() {
	for client := range h.clients {
		client.closeSend()
		delete(h.clients, client)
	}

	h.sessionCount = make(map[string]int)
	h.count.Store(0)
	metrics.WSConnections.Set(0)
}

// replayOrReset replays events after lastEventID, or tells the client to
// refetch the snapshot when they have left the buffer. Run goroutine only.
func (h *Hub) replayOrReset(client *Client, lastEventID uint64) {
	if h.replayEvents(client, lastEventID) {
		return
	}

	client.log.WithField("last_event_id", lastEventID).Debug("replay window missed, sending reset")

	select {
	case client.send <- controlFrame(MsgReset, "requested events no longer available, fetch a fresh snapshot"):
	default:
	}
}

// replayEvents sends buffered events since lastEventID to the client.
// Returns false if the requested ID is too old (not in buffer).
func (h *Hub) replayEvents(client *Client, lastEventID uint64) bool {
	oldest := h.buffer.OldestID(client.SessionID)
	if oldest > 0 && lastEventID > 0 && lastEventID < oldest-1 {
		return false
	}

	events := h.buffer.Since(client.SessionID, lastEventID)
	for _, evt := range events {
		msg, err := json.Marshal(evt)
		if err != nil {
			continue
		}

		select {
		case client.send <- msg:
			if evt.ID > client.lastSent {
				client.lastSent = evt.ID
			}
		default:
			return true // channel full, stop replay
		}
	}

	return true
}
