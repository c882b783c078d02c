package vmath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointRectDistance(t *testing.T) {
	r := Rect{X: 10, Y: 10, W: 20, H: 10}

	cases := []struct {
		name string
		p    Point
		want float64
	}{
		{"inside", Point{15, 15}, 0},
		{"on edge", Point{10, 15}, 0},
		{"left", Point{0, 15}, 10},
		{"corner", Point{0, 0}, 14.142135623730951}, // hypot(10, 10)
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.InDelta(t, c.want, PointRectDistance(c.p, r), 1e-9)
		})
	}
}

func TestPointSegmentDistanceDegenerate(t *testing.T) {
	a := Point{5, 5}
	d := PointSegmentDistance(Point{8, 5}, a, a)
	assert.InDelta(t, 3, d, 1e-9)
}

func TestSegmentCircleMatchesPointSegmentDistance(t *testing.T) {
	a := Point{0, 0}
	b := Point{100, 0}
	c := Point{50, 10}
	dist := PointSegmentDistance(c, a, b)

	require.True(t, SegmentCircle(a, b, c, dist+0.01))
	require.False(t, SegmentCircle(a, b, c, dist-0.01))
}

func TestSegmentRectCrossing(t *testing.T) {
	r := Rect{X: 40, Y: 40, W: 20, H: 20}

	// Passes straight through the rect.
	assert.True(t, SegmentRect(Point{0, 50}, Point{100, 50}, r))
	// Endpoint inside.
	assert.True(t, SegmentRect(Point{50, 50}, Point{200, 200}, r))
	// Misses entirely.
	assert.False(t, SegmentRect(Point{0, 0}, Point{10, 10}, r))
}

func TestFramesEquivalent(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 100, H: 40}
	b := Rect{X: 2, Y: 1, W: 105, H: 44}
	c := Rect{X: 200, Y: 200, W: 100, H: 40}

	assert.True(t, FramesEquivalent(a, a), "reflexive")
	assert.True(t, FramesEquivalent(a, b))
	assert.True(t, FramesEquivalent(b, a), "symmetric")
	assert.False(t, FramesEquivalent(a, c))
}

func TestClampMagnitude(t *testing.T) {
	v := Vec2{DX: 30, DY: 40} // magnitude 50
	clamped := ClampMagnitude(v, 25)
	assert.InDelta(t, 25, clamped.Magnitude(), 1e-9)

	unclamped := ClampMagnitude(v, 100)
	assert.Equal(t, v, unclamped)
}

func TestOverlapArea(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 100, H: 40}
	b := Rect{X: 50, Y: 0, W: 100, H: 40}

	o, ok := Overlap(a, b)
	require.True(t, ok)
	assert.InDelta(t, 50*40, o.Area(), 1e-9)

	_, ok = Overlap(a, Rect{X: 500, Y: 500, W: 10, H: 10})
	assert.False(t, ok)
}
