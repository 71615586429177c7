// Package geometry provides the planar tests used for canvas hit-testing and
// edge weight derivation.
package geometry

import "math"

// Defaults used by the canvas when no override is configured.
const (
	DefaultNodeRadius    = 20.0
	DefaultEdgeTolerance = 5.0
)

// Point is a canvas coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// InCircle reports whether p lies on or inside the circle at center.
func InCircle(p, center Point, radius float64) bool {
	return Distance(p, center) <= radius
}

// NearSegment reports whether p is close to the segment a-b. It uses the
// triangle inequality: |ap|+|pb| equals |ab| exactly when p is on the
// segment, so the slack is compared against tolerance.
func NearSegment(p, a, b Point, tolerance float64) bool {
	ab := Distance(a, b)
	apb := Distance(a, p) + Distance(p, b)

	return apb >= ab-tolerance && apb <= ab+tolerance
}

// EdgeWeight derives an edge weight from its endpoint positions: the
// distance rounded to the nearest integer.
func EdgeWeight(a, b Point) float64 {
	return math.Round(Distance(a, b))
}
