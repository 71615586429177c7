// Package models defines the graph model shared by the canvas, the command
// extractor and the animation scheduler.
package models

import "strconv"

// NodeID identifies a node. Valid ids are positive.
type NodeID int

// String implements fmt.Stringer.
func (id NodeID) String() string { return strconv.Itoa(int(id)) }

// Node is a vertex placed on the canvas.
type Node struct {
	ID        NodeID  `json:"id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Color     string  `json:"color,omitempty"`
	Animating bool    `json:"animating,omitempty"`
}

// Colored reports whether the node carries a color set by playback.
func (n *Node) Colored() bool {
	return n.Color != ""
}

// ClearVisual drops the playback color and the animating flag.
func (n *Node) ClearVisual() {
	n.Color = ""
	n.Animating = false
}
