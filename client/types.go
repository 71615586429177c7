package client

import (
	"encoding/json"
	"time"
)

// Node is a vertex on the canvas.
type Node struct {
	ID        int     `json:"id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Color     string  `json:"color,omitempty"`
	Animating bool    `json:"animating,omitempty"`
}

// Edge is an undirected weighted connection between two nodes.
type Edge struct {
	From      int     `json:"from"`
	To        int     `json:"to"`
	Weight    float64 `json:"weight"`
	Color     string  `json:"color,omitempty"`
	Animating bool    `json:"animating,omitempty"`
}

// EdgeRef identifies an edge by its endpoints.
type EdgeRef struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Graph is the persisted graph document.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Interaction is the transient pointer state of a session.
type Interaction struct {
	Mode        string   `json:"mode"`
	Selected    *int     `json:"selected,omitempty"`
	Hovered     *int     `json:"hovered,omitempty"`
	HoveredEdge *EdgeRef `json:"hovered_edge,omitempty"`
	Dragging    *int     `json:"dragging,omitempty"`
}

// PlaybackStatus is the state of the step scheduler.
type PlaybackStatus struct {
	State       string `json:"state"`
	Cursor      int    `json:"cursor"`
	Total       int    `json:"total"`
	SpeedMS     int64  `json:"speed_ms"`
	Running     bool   `json:"running"`
	Description string `json:"description"`
}

// Command is one visualization instruction extracted from a run.
type Command struct {
	Kind        string `json:"kind"`
	Node        int    `json:"node"`
	Second      int    `json:"second,omitempty"`
	Color       string `json:"color"`
	Description string `json:"description,omitempty"`
}

// StepEvent reports one command application during playback.
type StepEvent struct {
	Index   int     `json:"index"`
	Command Command `json:"command"`
	Applied bool    `json:"applied"`
}

// StepPayload is the data of a "step" stream event.
type StepPayload struct {
	Step     StepEvent      `json:"step"`
	Playback PlaybackStatus `json:"playback"`
	Graph    *Graph         `json:"graph"`
}

// RunResult is the outcome of the most recent algorithm run.
type RunResult struct {
	Output   string    `json:"output"`
	HasError bool      `json:"has_error"`
	Pending  bool      `json:"pending"`
	Template string    `json:"template"`
	Source   string    `json:"source"`
	Commands []Command `json:"commands"`
}

// Session is the full view of a live session.
type Session struct {
	ID          string         `json:"id"`
	Graph       *Graph         `json:"graph"`
	Interaction Interaction    `json:"interaction"`
	Playback    PlaybackStatus `json:"playback"`
	Run         RunResult      `json:"run"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// SessionInfo is the summary returned when listing sessions.
type SessionInfo struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`
}

// Action reports what a pointer or canvas operation did.
type Action struct {
	Kind string   `json:"kind"`
	Node int      `json:"node,omitempty"`
	Edge *EdgeRef `json:"edge,omitempty"`
	Mode string   `json:"mode"`
}

// Adjacency is the weighted adjacency of a graph, keyed by decimal node id.
type Adjacency map[string]map[string]float64

// AdjacencyResult pairs the adjacency with its text rendering.
type AdjacencyResult struct {
	Adjacency Adjacency `json:"adjacency"`
	Text      string    `json:"text"`
}

// Template is a built-in algorithm listing.
type Template struct {
	Name   string `json:"name"`
	Title  string `json:"title"`
	Source string `json:"source,omitempty"`
}

// TemplateList is the template catalog with the default selection.
type TemplateList struct {
	Templates []Template `json:"templates"`
	Default   string     `json:"default"`
}

// GraphInfo summarises a saved graph.
type GraphInfo struct {
	Name      string    `json:"name"`
	Nodes     int       `json:"nodes"`
	Edges     int       `json:"edges"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LibraryList is the saved-graph listing plus the backend serving it.
type LibraryList struct {
	Graphs  []GraphInfo `json:"graphs"`
	Backend string      `json:"backend"`
}

// SaveResult acknowledges a library save.
type SaveResult struct {
	Name  string `json:"name"`
	Nodes int    `json:"nodes"`
	Edges int    `json:"edges"`
}

// HealthResponse is returned by the liveness endpoint.
type HealthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Store         string  `json:"store"`
	Sessions      int     `json:"sessions"`
	Clients       int     `json:"clients"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// ReadyResponse is returned by the readiness endpoint.
type ReadyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Event is one message on a session's WebSocket stream.
type Event struct {
	Type      string          `json:"type"`
	ID        uint64          `json:"id"`
	SessionID string          `json:"session_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Time      time.Time       `json:"time"`
}
