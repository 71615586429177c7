package geometry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/algocanvas/algocanvas/internal/geometry"
)

func TestDistance(t *testing.T) {
	assert.Equal(t, 5.0, geometry.Distance(geometry.Point{X: 0, Y: 0}, geometry.Point{X: 3, Y: 4}))
	assert.Equal(t, 0.0, geometry.Distance(geometry.Point{X: 7, Y: 7}, geometry.Point{X: 7, Y: 7}))
}

func TestInCircle(t *testing.T) {
	center := geometry.Point{X: 100, Y: 100}

	tests := []struct {
		name string
		p    geometry.Point
		want bool
	}{
		{name: "center", p: center, want: true},
		{name: "inside", p: geometry.Point{X: 115, Y: 100}, want: true},
		{name: "on boundary", p: geometry.Point{X: 120, Y: 100}, want: true},
		{name: "outside", p: geometry.Point{X: 125, Y: 100}, want: false},
		{name: "diagonal outside", p: geometry.Point{X: 115, Y: 115}, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, geometry.InCircle(tc.p, center, geometry.DefaultNodeRadius))
		})
	}
}

func TestNearSegment(t *testing.T) {
	a := geometry.Point{X: 0, Y: 0}
	b := geometry.Point{X: 100, Y: 0}

	tests := []struct {
		name string
		p    geometry.Point
		want bool
	}{
		{name: "on segment", p: geometry.Point{X: 50, Y: 0}, want: true},
		{name: "slightly off", p: geometry.Point{X: 50, Y: 10}, want: true},
		{name: "far off", p: geometry.Point{X: 50, Y: 40}, want: false},
		{name: "beyond endpoint", p: geometry.Point{X: 110, Y: 0}, want: false},
		{name: "at endpoint", p: a, want: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, geometry.NearSegment(tc.p, a, b, geometry.DefaultEdgeTolerance))
		})
	}
}

func TestEdgeWeight(t *testing.T) {
	assert.Equal(t, 100.0, geometry.EdgeWeight(geometry.Point{X: 0, Y: 0}, geometry.Point{X: 100, Y: 0}))
	assert.Equal(t, 141.0, geometry.EdgeWeight(geometry.Point{X: 0, Y: 0}, geometry.Point{X: 100, Y: 100}))
	assert.Equal(t, 2.0, geometry.EdgeWeight(geometry.Point{X: 0, Y: 0}, geometry.Point{X: 1.5, Y: 0}))
}
