package models

import (
	"fmt"

	"github.com/algocanvas/algocanvas/internal/geometry"
)

// Graph is the mutable node/edge model behind one canvas. Node order is
// creation order, which the canvas uses for hit priority.
//
// Pointers returned by Node and Edge are only valid until the next structural
// mutation (add or remove).
type Graph struct {
	Nodes  []Node
	Edges  []Edge
	nextID NodeID
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		Nodes:  []Node{},
		Edges:  []Edge{},
		nextID: 1,
	}
}

// Node returns the node with the given id.
func (g *Graph) Node(id NodeID) (*Node, bool) {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i], true
		}
	}

	return nil, false
}

// Edge returns the edge joining a and b in either orientation.
func (g *Graph) Edge(a, b NodeID) (*Edge, bool) {
	for i := range g.Edges {
		if g.Edges[i].Connects(a, b) {
			return &g.Edges[i], true
		}
	}

	return nil, false
}

// allocateID returns the next unused positive id.
func (g *Graph) allocateID() NodeID {
	if g.nextID < 1 {
		g.nextID = 1
	}

	for {
		id := g.nextID
		g.nextID++

		if _, taken := g.Node(id); !taken {
			return id
		}
	}
}

// AddNode creates a node at (x, y) with a freshly allocated id.
func (g *Graph) AddNode(x, y float64) Node {
	n := Node{ID: g.allocateID(), X: x, Y: y}
	g.Nodes = append(g.Nodes, n)

	return n
}

// InsertNode adds a node with a caller-chosen id, as done when loading a file.
func (g *Graph) InsertNode(n Node) error {
	if n.ID < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidNodeID, n.ID)
	}

	if _, exists := g.Node(n.ID); exists {
		return fmt.Errorf("%w: %d", ErrDuplicateNode, n.ID)
	}

	g.Nodes = append(g.Nodes, n)

	return nil
}

// AddEdge connects a and b with a weight derived from their positions.
// Adding an edge that already exists in either orientation is a no-op and
// returns the existing edge with created=false.
func (g *Graph) AddEdge(a, b NodeID) (edge Edge, created bool, err error) {
	if a == b {
		return Edge{}, false, fmt.Errorf("%w: %d", ErrSelfLoop, a)
	}

	from, ok := g.Node(a)
	if !ok {
		return Edge{}, false, fmt.Errorf("%w: %d", ErrNodeNotFound, a)
	}

	to, ok := g.Node(b)
	if !ok {
		return Edge{}, false, fmt.Errorf("%w: %d", ErrNodeNotFound, b)
	}

	if existing, ok := g.Edge(a, b); ok {
		return *existing, false, nil
	}

	e := Edge{
		From:   a,
		To:     b,
		Weight: geometry.EdgeWeight(position(from), position(to)),
	}
	g.Edges = append(g.Edges, e)

	return e, true, nil
}

// InsertEdge adds an edge exactly as given, as done when loading a file.
func (g *Graph) InsertEdge(e Edge) error {
	if e.From == e.To {
		return fmt.Errorf("%w: %d", ErrSelfLoop, e.From)
	}

	for _, id := range []NodeID{e.From, e.To} {
		if _, ok := g.Node(id); !ok {
			return fmt.Errorf("%w: %d", ErrNodeNotFound, id)
		}
	}

	if _, ok := g.Edge(e.From, e.To); ok {
		return fmt.Errorf("%w: %s", ErrDuplicateEdge, e.Ref())
	}

	g.Edges = append(g.Edges, e)

	return nil
}

// RemoveNode deletes the node and every edge incident to it.
func (g *Graph) RemoveNode(id NodeID) bool {
	idx := -1
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			idx = i
			break
		}
	}

	if idx < 0 {
		return false
	}

	g.Nodes = append(g.Nodes[:idx], g.Nodes[idx+1:]...)

	kept := g.Edges[:0]
	for _, e := range g.Edges {
		if !e.Touches(id) {
			kept = append(kept, e)
		}
	}
	g.Edges = kept

	return true
}

// RemoveEdge deletes the edge joining a and b in either orientation.
func (g *Graph) RemoveEdge(a, b NodeID) bool {
	for i := range g.Edges {
		if g.Edges[i].Connects(a, b) {
			g.Edges = append(g.Edges[:i], g.Edges[i+1:]...)
			return true
		}
	}

	return false
}

// MoveNode repositions a node and recomputes the weight of its incident edges.
func (g *Graph) MoveNode(id NodeID, x, y float64) bool {
	n, ok := g.Node(id)
	if !ok {
		return false
	}

	n.X, n.Y = x, y

	for i := range g.Edges {
		e := &g.Edges[i]
		if !e.Touches(id) {
			continue
		}

		from, okFrom := g.Node(e.From)
		to, okTo := g.Node(e.To)
		if okFrom && okTo {
			e.Weight = geometry.EdgeWeight(position(from), position(to))
		}
	}

	return true
}

// Clear removes every node and edge and restarts id allocation at 1.
func (g *Graph) Clear() {
	g.Nodes = []Node{}
	g.Edges = []Edge{}
	g.nextID = 1
}

// Replace swaps the whole model for the contents of other.
func (g *Graph) Replace(other *Graph) {
	g.Nodes = other.Nodes
	g.Edges = other.Edges
	g.nextID = 1
}

// ResetVisual clears playback colors and animating flags everywhere.
func (g *Graph) ResetVisual() {
	for i := range g.Nodes {
		g.Nodes[i].ClearVisual()
	}

	for i := range g.Edges {
		g.Edges[i].ClearVisual()
	}
}

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		Nodes:  make([]Node, len(g.Nodes)),
		Edges:  make([]Edge, len(g.Edges)),
		nextID: g.nextID,
	}
	copy(c.Nodes, g.Nodes)
	copy(c.Edges, g.Edges)

	return c
}

func position(n *Node) geometry.Point {
	return geometry.Point{X: n.X, Y: n.Y}
}
