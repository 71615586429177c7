// Package canvas turns raw pointer events into graph mutations under the
// select / add-node / add-edge / delete mode state machine.
package canvas

import (
	"github.com/algocanvas/algocanvas/internal/geometry"
	"github.com/algocanvas/algocanvas/internal/models"
)

// Options configures hit-testing.
type Options struct {
	NodeRadius    float64
	EdgeTolerance float64
}

// DefaultOptions returns the standard node radius and edge tolerance.
func DefaultOptions() Options {
	return Options{
		NodeRadius:    geometry.DefaultNodeRadius,
		EdgeTolerance: geometry.DefaultEdgeTolerance,
	}
}

// Controller owns the interaction state of one canvas and applies pointer
// events to its graph. It is not safe for concurrent use; callers serialise
// access.
type Controller struct {
	graph *models.Graph
	state InteractionState
	opts  Options
}

// New creates a controller in select mode over g.
func New(g *models.Graph, opts Options) *Controller {
	if opts.NodeRadius <= 0 {
		opts.NodeRadius = geometry.DefaultNodeRadius
	}

	if opts.EdgeTolerance <= 0 {
		opts.EdgeTolerance = geometry.DefaultEdgeTolerance
	}

	return &Controller{graph: g, opts: opts}
}

// Graph returns the graph the controller mutates.
func (c *Controller) Graph() *models.Graph { return c.graph }

// Options returns the hit-testing configuration.
func (c *Controller) Options() Options { return c.opts }

// State returns a copy of the current interaction state.
func (c *Controller) State() InteractionState { return c.state.clone() }

// Mode returns the active interaction mode.
func (c *Controller) Mode() models.Mode { return c.state.Mode }

// HitNode returns the node under p. Later nodes are drawn on top, so the scan
// runs newest first.
func (c *Controller) HitNode(p geometry.Point) (models.NodeID, bool) {
	nodes := c.graph.Nodes
	for i := len(nodes) - 1; i >= 0; i-- {
		center := geometry.Point{X: nodes[i].X, Y: nodes[i].Y}
		if geometry.InCircle(p, center, c.opts.NodeRadius) {
			return nodes[i].ID, true
		}
	}

	return 0, false
}

// HitEdge returns the edge under p, newest first.
func (c *Controller) HitEdge(p geometry.Point) (models.EdgeRef, bool) {
	edges := c.graph.Edges
	for i := len(edges) - 1; i >= 0; i-- {
		from, okFrom := c.graph.Node(edges[i].From)
		to, okTo := c.graph.Node(edges[i].To)

		if !okFrom || !okTo {
			continue
		}

		a := geometry.Point{X: from.X, Y: from.Y}
		b := geometry.Point{X: to.X, Y: to.Y}

		if geometry.NearSegment(p, a, b, c.opts.EdgeTolerance) {
			return edges[i].Ref(), true
		}
	}

	return models.EdgeRef{}, false
}

// hover refreshes the hovered node/edge for p and reports whether either
// changed. A hovered node suppresses the hovered edge.
func (c *Controller) hover(p geometry.Point) bool {
	prevNode, prevEdge := c.state.Hovered, c.state.HoveredEdge

	c.state.Hovered = nil
	c.state.HoveredEdge = nil

	if id, ok := c.HitNode(p); ok {
		c.state.Hovered = idPtr(id)
	} else if ref, ok := c.HitEdge(p); ok {
		c.state.HoveredEdge = &ref
	}

	return !sameID(prevNode, c.state.Hovered) || !sameRef(prevEdge, c.state.HoveredEdge)
}

// PointerDown dispatches a press at (x, y) according to the active mode.
func (c *Controller) PointerDown(x, y float64) Action {
	p := geometry.Point{X: x, Y: y}
	c.hover(p)

	switch c.state.Mode {
	case models.ModeSelect:
		return c.selectDown()
	case models.ModeAddNode:
		n := c.graph.AddNode(x, y)
		c.hover(p)

		return c.action(ActionNodeAdded, n.ID)
	case models.ModeAddEdge:
		return c.addEdgeDown()
	case models.ModeDelete:
		return c.deleteDown(p)
	default:
		return c.action(ActionNone, 0)
	}
}

func (c *Controller) selectDown() Action {
	if c.state.Hovered == nil {
		if c.state.Selected == nil {
			return c.action(ActionNone, 0)
		}

		c.state.Selected = nil

		return c.action(ActionDeselect, 0)
	}

	id := *c.state.Hovered
	c.state.Selected = idPtr(id)
	c.state.Dragging = idPtr(id)

	return c.action(ActionSelect, id)
}

func (c *Controller) addEdgeDown() Action {
	if c.state.Hovered == nil {
		if c.state.Selected == nil {
			return c.action(ActionNone, 0)
		}

		c.state.Selected = nil

		return c.action(ActionDeselect, 0)
	}

	target := *c.state.Hovered

	if c.state.Selected == nil {
		c.state.Selected = idPtr(target)
		return c.action(ActionEdgeSourceSelected, target)
	}

	source := *c.state.Selected
	c.state.Selected = nil

	if source == target {
		return c.action(ActionEdgeCancelled, source)
	}

	e, created, err := c.graph.AddEdge(source, target)
	if err != nil {
		return c.action(ActionEdgeCancelled, source)
	}

	ref := e.Ref()
	kind := ActionEdgeExists

	if created {
		kind = ActionEdgeAdded
	}

	return Action{Kind: kind, Edge: &ref, Mode: c.state.Mode}
}

func (c *Controller) deleteDown(p geometry.Point) Action {
	if c.state.Hovered != nil {
		id := *c.state.Hovered
		c.graph.RemoveNode(id)
		c.hover(p)

		return c.action(ActionNodeDeleted, id)
	}

	if c.state.HoveredEdge != nil {
		ref := *c.state.HoveredEdge
		c.graph.RemoveEdge(ref.From, ref.To)
		c.hover(p)

		return Action{Kind: ActionEdgeDeleted, Edge: &ref, Mode: c.state.Mode}
	}

	return c.action(ActionNone, 0)
}

// PointerMove drags the active node to (x, y), or refreshes hover state when
// no drag is in progress.
func (c *Controller) PointerMove(x, y float64) Action {
	if c.state.Dragging != nil {
		id := *c.state.Dragging
		if c.graph.MoveNode(id, x, y) {
			return c.action(ActionDragMove, id)
		}

		// The dragged node disappeared underneath us.
		c.state.Dragging = nil
	}

	if c.hover(geometry.Point{X: x, Y: y}) {
		return c.action(ActionHover, 0)
	}

	return c.action(ActionNone, 0)
}

// PointerUp ends a drag session started on the canvas.
func (c *Controller) PointerUp(_, _ float64) Action {
	return c.Release()
}

// Release ends a drag session regardless of where the pointer was released.
func (c *Controller) Release() Action {
	if c.state.Dragging == nil {
		return c.action(ActionNone, 0)
	}

	id := *c.state.Dragging
	c.state.Dragging = nil

	return c.action(ActionDragEnd, id)
}

// SetMode switches the interaction mode and drops all transient state.
func (c *Controller) SetMode(m models.Mode) Action {
	c.state = InteractionState{Mode: m}
	return c.action(ActionModeChanged, 0)
}

// ResetInteraction drops selection, hover and drag state but keeps the mode.
func (c *Controller) ResetInteraction() {
	c.state = InteractionState{Mode: c.state.Mode}
}

// Clear empties the graph and restarts id allocation.
func (c *Controller) Clear() Action {
	c.graph.Clear()
	c.ResetInteraction()

	return c.action(ActionCleared, 0)
}

func (c *Controller) action(kind ActionKind, id models.NodeID) Action {
	return Action{Kind: kind, Node: id, Mode: c.state.Mode}
}

func sameID(a, b *models.NodeID) bool {
	if a == nil || b == nil {
		return a == b
	}

	return *a == *b
}

func sameRef(a, b *models.EdgeRef) bool {
	if a == nil || b == nil {
		return a == b
	}

	return *a == *b
}
