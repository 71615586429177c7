package models

import "fmt"

// Edge is an undirected connection between two nodes. It is stored with a
// fixed From/To orientation but compares equal in either orientation.
type Edge struct {
	From      NodeID  `json:"from"`
	To        NodeID  `json:"to"`
	Weight    float64 `json:"weight"`
	Color     string  `json:"color,omitempty"`
	Animating bool    `json:"animating,omitempty"`
}

// EdgeRef names an edge by its endpoints without its visual state.
type EdgeRef struct {
	From NodeID `json:"from"`
	To   NodeID `json:"to"`
}

// String implements fmt.Stringer.
func (r EdgeRef) String() string {
	return fmt.Sprintf("%d-%d", r.From, r.To)
}

// Ref returns the endpoint pair of the edge.
func (e *Edge) Ref() EdgeRef {
	return EdgeRef{From: e.From, To: e.To}
}

// Connects reports whether the edge joins a and b in either orientation.
func (e *Edge) Connects(a, b NodeID) bool {
	return (e.From == a && e.To == b) || (e.From == b && e.To == a)
}

// Touches reports whether id is one of the edge's endpoints.
func (e *Edge) Touches(id NodeID) bool {
	return e.From == id || e.To == id
}

// ClearVisual drops the playback color and the animating flag.
func (e *Edge) ClearVisual() {
	e.Color = ""
	e.Animating = false
}
