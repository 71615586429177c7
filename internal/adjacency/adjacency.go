// Package adjacency derives the weighted adjacency structure handed to an
// algorithm run and renders it as a python literal.
package adjacency

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/algocanvas/algocanvas/internal/models"
)

// Adjacency maps each node to its neighbours and the weight of the joining edge.
type Adjacency map[models.NodeID]map[models.NodeID]float64

// FromGraph builds the symmetric adjacency of an undirected graph. Every node
// gets an entry, isolated ones included. Edges naming an unknown node are
// ignored.
func FromGraph(nodes []models.Node, edges []models.Edge) Adjacency {
	adj := make(Adjacency, len(nodes))

	for _, n := range nodes {
		adj[n.ID] = map[models.NodeID]float64{}
	}

	for _, e := range edges {
		from, okFrom := adj[e.From]
		to, okTo := adj[e.To]

		if !okFrom || !okTo {
			continue
		}

		from[e.To] = e.Weight
		to[e.From] = e.Weight
	}

	return adj
}

// Nodes returns the node ids in ascending order.
func (a Adjacency) Nodes() []models.NodeID {
	ids := make([]models.NodeID, 0, len(a))
	for id := range a {
		ids = append(ids, id)
	}

	slices.Sort(ids)

	return ids
}

// Degree returns the number of neighbours of id.
func (a Adjacency) Degree(id models.NodeID) int {
	return len(a[id])
}

// Encode renders a as a python dict-of-dicts literal with ascending keys, for
// example {1: {2: 100}, 2: {1: 100}, 3: {}}.
func Encode(a Adjacency) string {
	var b strings.Builder

	b.WriteByte('{')

	for i, id := range a.Nodes() {
		if i > 0 {
			b.WriteString(", ")
		}

		b.WriteString(id.String())
		b.WriteString(": {")

		neighbours := make([]models.NodeID, 0, len(a[id]))
		for n := range a[id] {
			neighbours = append(neighbours, n)
		}

		slices.Sort(neighbours)

		for j, n := range neighbours {
			if j > 0 {
				b.WriteString(", ")
			}

			b.WriteString(n.String())
			b.WriteString(": ")
			b.WriteString(formatWeight(a[id][n]))
		}

		b.WriteByte('}')
	}

	b.WriteByte('}')

	return b.String()
}

func formatWeight(w float64) string {
	if w == math.Trunc(w) && math.Abs(w) < 1e15 {
		return strconv.FormatInt(int64(w), 10)
	}

	return strconv.FormatFloat(w, 'f', -1, 64)
}
