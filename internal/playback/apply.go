// Package playback replays extracted commands against a graph as a
// controllable animation.
package playback

import (
	"fmt"
	"strings"

	"github.com/algocanvas/algocanvas/internal/models"
	"github.com/algocanvas/algocanvas/internal/protocol"
)

// VisitedPolicy decides whether a traverse may recolor a node that already
// carries the visited color.
type VisitedPolicy int

// Visited policies. PreserveVisited is the default.
const (
	PreserveVisited VisitedPolicy = iota
	OverwriteVisited
)

// String implements fmt.Stringer.
func (p VisitedPolicy) String() string {
	if p == OverwriteVisited {
		return "overwrite"
	}

	return "preserve"
}

// ParseVisitedPolicy accepts "preserve" or "overwrite".
func ParseVisitedPolicy(s string) (VisitedPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "preserve", "":
		return PreserveVisited, nil
	case "overwrite":
		return OverwriteVisited, nil
	default:
		return PreserveVisited, fmt.Errorf("unknown visited policy %q", s)
	}
}

// Apply mutates g according to cmd. It reports false, leaving g untouched,
// when the command names a node or edge that does not exist.
func Apply(g *models.Graph, cmd models.Command, policy VisitedPolicy) bool {
	switch cmd.Kind {
	case models.CommandColour:
		return applyColour(g, cmd)
	case models.CommandTraverse:
		return applyTraverse(g, cmd, policy)
	default:
		return false
	}
}

func applyColour(g *models.Graph, cmd models.Command) bool {
	if _, ok := g.Node(cmd.Node); !ok {
		return false
	}

	for i := range g.Nodes {
		n := &g.Nodes[i]
		n.Animating = n.ID == cmd.Node

		if n.Animating {
			n.Color = cmd.Color
		}
	}

	return true
}

func applyTraverse(g *models.Graph, cmd models.Command, policy VisitedPolicy) bool {
	if _, ok := g.Edge(cmd.Node, cmd.Second); !ok {
		return false
	}

	for i := range g.Edges {
		e := &g.Edges[i]
		e.Animating = e.Connects(cmd.Node, cmd.Second)

		if e.Animating {
			e.Color = cmd.Color
		}
	}

	for i := range g.Nodes {
		n := &g.Nodes[i]
		n.Animating = n.ID == cmd.Node || n.ID == cmd.Second

		if !n.Animating {
			continue
		}

		if policy == PreserveVisited && n.Color == protocol.VisitedColor {
			continue
		}

		n.Color = cmd.Color
	}

	return true
}
