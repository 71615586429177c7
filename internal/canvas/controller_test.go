package canvas_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/algocanvas/algocanvas/internal/canvas"
	"github.com/algocanvas/algocanvas/internal/geometry"
	"github.com/algocanvas/algocanvas/internal/models"
)

func newController(t *testing.T) *canvas.Controller {
	t.Helper()

	return canvas.New(models.NewGraph(), canvas.DefaultOptions())
}

// addNodes places nodes at the given points in add-node mode and returns to select.
func addNodes(t *testing.T, c *canvas.Controller, pts ...geometry.Point) {
	t.Helper()

	c.SetMode(models.ModeAddNode)

	for _, p := range pts {
		a := c.PointerDown(p.X, p.Y)
		require.Equal(t, canvas.ActionNodeAdded, a.Kind)
		c.PointerUp(p.X, p.Y)
	}

	c.SetMode(models.ModeSelect)
}

func connect(t *testing.T, c *canvas.Controller, a, b geometry.Point) canvas.Action {
	t.Helper()

	c.SetMode(models.ModeAddEdge)
	first := c.PointerDown(a.X, a.Y)
	require.Equal(t, canvas.ActionEdgeSourceSelected, first.Kind)

	return c.PointerDown(b.X, b.Y)
}

func TestHitNode(t *testing.T) {
	c := newController(t)
	addNodes(t, c, geometry.Point{X: 100, Y: 100})

	id, ok := c.HitNode(geometry.Point{X: 115, Y: 100})
	assert.True(t, ok)
	assert.Equal(t, models.NodeID(1), id)

	_, ok = c.HitNode(geometry.Point{X: 125, Y: 100})
	assert.False(t, ok)
}

func TestHitNodeNewestWins(t *testing.T) {
	c := newController(t)
	addNodes(t, c, geometry.Point{X: 100, Y: 100}, geometry.Point{X: 110, Y: 100})

	id, ok := c.HitNode(geometry.Point{X: 105, Y: 100})
	require.True(t, ok)
	assert.Equal(t, models.NodeID(2), id)
}

func TestHitEdge(t *testing.T) {
	c := newController(t)
	addNodes(t, c, geometry.Point{X: 0, Y: 0}, geometry.Point{X: 200, Y: 0})
	connect(t, c, geometry.Point{X: 0, Y: 0}, geometry.Point{X: 200, Y: 0})

	ref, ok := c.HitEdge(geometry.Point{X: 100, Y: 2})
	require.True(t, ok)
	assert.Equal(t, models.EdgeRef{From: 1, To: 2}, ref)

	_, ok = c.HitEdge(geometry.Point{X: 100, Y: 60})
	assert.False(t, ok)
}

func TestAddNodeAllocatesIDs(t *testing.T) {
	c := newController(t)
	c.SetMode(models.ModeAddNode)

	a := c.PointerDown(10, 10)
	b := c.PointerDown(200, 10)

	assert.Equal(t, models.NodeID(1), a.Node)
	assert.Equal(t, models.NodeID(2), b.Node)
	assert.True(t, a.Mutates())
	assert.Len(t, c.Graph().Nodes, 2)
}

func TestAddEdgeFlow(t *testing.T) {
	c := newController(t)
	p1, p2 := geometry.Point{X: 0, Y: 0}, geometry.Point{X: 300, Y: 400}
	addNodes(t, c, p1, p2)

	a := connect(t, c, p1, p2)
	require.Equal(t, canvas.ActionEdgeAdded, a.Kind)
	assert.Equal(t, &models.EdgeRef{From: 1, To: 2}, a.Edge)
	assert.Nil(t, c.State().Selected)

	e, ok := c.Graph().Edge(1, 2)
	require.True(t, ok)
	assert.Equal(t, 500.0, e.Weight)

	a = connect(t, c, p2, p1)
	assert.Equal(t, canvas.ActionEdgeExists, a.Kind)
	assert.Len(t, c.Graph().Edges, 1)
}

func TestAddEdgeCancelOnSameNode(t *testing.T) {
	c := newController(t)
	p := geometry.Point{X: 50, Y: 50}
	addNodes(t, c, p)

	a := connect(t, c, p, p)
	assert.Equal(t, canvas.ActionEdgeCancelled, a.Kind)
	assert.Empty(t, c.Graph().Edges)
	assert.Nil(t, c.State().Selected)
}

func TestAddEdgeEmptySpaceClearsSelection(t *testing.T) {
	c := newController(t)
	addNodes(t, c, geometry.Point{X: 50, Y: 50})
	c.SetMode(models.ModeAddEdge)

	c.PointerDown(50, 50)
	require.NotNil(t, c.State().Selected)

	a := c.PointerDown(400, 400)
	assert.Equal(t, canvas.ActionDeselect, a.Kind)
	assert.Nil(t, c.State().Selected)
}

func TestSelectAndDrag(t *testing.T) {
	c := newController(t)
	p1, p2 := geometry.Point{X: 0, Y: 0}, geometry.Point{X: 100, Y: 0}
	addNodes(t, c, p1, p2)
	connect(t, c, p1, p2)
	c.SetMode(models.ModeSelect)

	a := c.PointerDown(100, 0)
	require.Equal(t, canvas.ActionSelect, a.Kind)
	assert.Equal(t, models.NodeID(2), *c.State().Dragging)

	a = c.PointerMove(100, 50)
	assert.Equal(t, canvas.ActionDragMove, a.Kind)

	n, _ := c.Graph().Node(2)
	assert.Equal(t, 50.0, n.Y)

	e, _ := c.Graph().Edge(1, 2)
	assert.Equal(t, 112.0, e.Weight)

	a = c.PointerUp(100, 50)
	assert.Equal(t, canvas.ActionDragEnd, a.Kind)
	assert.Nil(t, c.State().Dragging)
	assert.Equal(t, models.NodeID(2), *c.State().Selected)

	a = c.PointerMove(300, 300)
	assert.NotEqual(t, canvas.ActionDragMove, a.Kind)
	assert.Len(t, c.Graph().Nodes, 2)
	assert.Len(t, c.Graph().Edges, 1)
}

func TestReleaseEndsDragOutsideCanvas(t *testing.T) {
	c := newController(t)
	addNodes(t, c, geometry.Point{X: 10, Y: 10})

	c.PointerDown(10, 10)
	assert.Equal(t, canvas.ActionDragEnd, c.Release().Kind)
	assert.Equal(t, canvas.ActionNone, c.Release().Kind)
}

func TestSelectEmptySpaceDeselects(t *testing.T) {
	c := newController(t)
	addNodes(t, c, geometry.Point{X: 10, Y: 10})

	c.PointerDown(10, 10)
	c.Release()

	a := c.PointerDown(500, 500)
	assert.Equal(t, canvas.ActionDeselect, a.Kind)
	assert.Nil(t, c.State().Selected)
}

func TestDeleteNodeCascades(t *testing.T) {
	c := newController(t)
	p1, p2, p3 := geometry.Point{X: 0, Y: 0}, geometry.Point{X: 100, Y: 0}, geometry.Point{X: 100, Y: 100}
	addNodes(t, c, p1, p2, p3)
	connect(t, c, p1, p2)
	connect(t, c, p2, p3)
	connect(t, c, p1, p3)

	c.SetMode(models.ModeDelete)
	a := c.PointerDown(p2.X, p2.Y)
	require.Equal(t, canvas.ActionNodeDeleted, a.Kind)
	assert.Equal(t, models.NodeID(2), a.Node)

	require.Len(t, c.Graph().Edges, 1)
	assert.Equal(t, models.EdgeRef{From: 1, To: 3}, c.Graph().Edges[0].Ref())
}

func TestDeleteEdgeAndEmptySpace(t *testing.T) {
	c := newController(t)
	p1, p2 := geometry.Point{X: 0, Y: 0}, geometry.Point{X: 200, Y: 0}
	addNodes(t, c, p1, p2)
	connect(t, c, p1, p2)

	c.SetMode(models.ModeDelete)
	assert.Equal(t, canvas.ActionNone, c.PointerDown(100, 300).Kind)

	a := c.PointerDown(100, 1)
	require.Equal(t, canvas.ActionEdgeDeleted, a.Kind)
	assert.Empty(t, c.Graph().Edges)
	assert.Len(t, c.Graph().Nodes, 2)
}

func TestDeletePrefersNodeOverEdge(t *testing.T) {
	c := newController(t)
	p1, p2 := geometry.Point{X: 0, Y: 0}, geometry.Point{X: 200, Y: 0}
	addNodes(t, c, p1, p2)
	connect(t, c, p1, p2)

	c.SetMode(models.ModeDelete)
	a := c.PointerDown(15, 0)
	assert.Equal(t, canvas.ActionNodeDeleted, a.Kind)
}

func TestSetModeResetsState(t *testing.T) {
	c := newController(t)
	addNodes(t, c, geometry.Point{X: 10, Y: 10})
	c.PointerDown(10, 10)

	a := c.SetMode(models.ModeAddEdge)
	assert.Equal(t, canvas.ActionModeChanged, a.Kind)
	assert.Equal(t, canvas.InteractionState{Mode: models.ModeAddEdge}, c.State())
}

func TestPointerMoveHover(t *testing.T) {
	c := newController(t)
	addNodes(t, c, geometry.Point{X: 10, Y: 10})

	assert.Equal(t, canvas.ActionHover, c.PointerMove(12, 12).Kind)
	assert.Equal(t, canvas.ActionNone, c.PointerMove(13, 13).Kind)
	assert.Equal(t, models.NodeID(1), *c.State().Hovered)
	assert.Equal(t, canvas.ActionHover, c.PointerMove(300, 300).Kind)
	assert.Nil(t, c.State().Hovered)
}

func TestClear(t *testing.T) {
	c := newController(t)
	addNodes(t, c, geometry.Point{X: 10, Y: 10}, geometry.Point{X: 100, Y: 10})
	c.SetMode(models.ModeAddNode)

	a := c.Clear()
	assert.Equal(t, canvas.ActionCleared, a.Kind)
	assert.Empty(t, c.Graph().Nodes)
	assert.Equal(t, models.ModeAddNode, c.Mode())

	assert.Equal(t, models.NodeID(1), c.PointerDown(5, 5).Node)
}

func TestStateIsACopy(t *testing.T) {
	c := newController(t)
	addNodes(t, c, geometry.Point{X: 10, Y: 10})
	c.PointerDown(10, 10)

	s := c.State()
	*s.Selected = 99

	assert.Equal(t, models.NodeID(1), *c.State().Selected)
}
