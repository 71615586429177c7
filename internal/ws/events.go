package ws

import (
	"encoding/json"
	"sync"
	"time"
)

// Event is the structured message sent to WebSocket clients. Session events
// carry a per-session monotonic ID; server-wide events carry ID 0 and are
// not replayed.
type Event struct {
	Type      string          `json:"type"`
	ID        uint64          `json:"id"`
	SessionID string          `json:"session_id,omitempty"`
	Data      json.RawMessage `json:"data"`
	Time      time.Time       `json:"time"`
}

// Control message types exchanged outside the event stream.
const (
	MsgSubscribe = "subscribe"
	MsgReset     = "reset"
	MsgClosed    = "closed"
)

// SubscribeMsg is sent by the client to request replay after lastEventID.
type SubscribeMsg struct {
	Type        string `json:"type"`
	LastEventID uint64 `json:"last_event_id"`
}

// ControlMsg is a server notice: reset when replay is impossible and the
// client must refetch the snapshot, closed when the session is gone.
type ControlMsg struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func controlFrame(msgType, message string) []byte {
	b, _ := json.Marshal(ControlMsg{Type: msgType, Message: message}) //nolint:errcheck // two strings always encode
	return b
}

// EventSequence hands out per-session event IDs starting at 1.
type EventSequence struct {
	mu   sync.Mutex
	last map[string]uint64
}

// NewEventSequence creates an empty EventSequence.
func NewEventSequence() *EventSequence {
	return &EventSequence{last: make(map[string]uint64)}
}

// Next returns the next ID for a session.
func (es *EventSequence) Next(sessionID string) uint64 {
	es.mu.Lock()
	defer es.mu.Unlock()

	es.last[sessionID]++

	return es.last[sessionID]
}

// Last returns the most recent ID handed out for a session, or 0.
func (es *EventSequence) Last(sessionID string) uint64 {
	es.mu.Lock()
	defer es.mu.Unlock()

	return es.last[sessionID]
}

// Forget drops the counter of a closed session.
func (es *EventSequence) Forget(sessionID string) {
	es.mu.Lock()
	delete(es.last, sessionID)
	es.mu.Unlock()
}
