package vmath

import "math"

// Point is a 2D screen-space position in pixels.
type Point struct {
	X, Y float64
}

// Add returns p translated by v.
func (p Point) Add(v Vec2) Point {
	return Point{p.X + v.DX, p.Y + v.DY}
}

// Sub returns the displacement from q to p (p - q).
func (p Point) Sub(q Point) Vec2 {
	return Vec2{p.X - q.X, p.Y - q.Y}
}

// Rect is an axis-aligned rectangle with non-negative width and height.
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) MinX() float64 { return r.X }
func (r Rect) MaxX() float64 { return r.X + r.W }
func (r Rect) MinY() float64 { return r.Y }
func (r Rect) MaxY() float64 { return r.Y + r.H }
func (r Rect) MidX() float64 { return r.X + r.W/2 }
func (r Rect) MidY() float64 { return r.Y + r.H/2 }

// Center returns the midpoint of r.
func (r Rect) Center() Point {
	return Point{r.MidX(), r.MidY()}
}

// Area returns the area of r.
func (r Rect) Area() float64 {
	return r.W * r.H
}

// Contains reports whether p lies within r (inclusive of edges).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX() && p.X <= r.MaxX() && p.Y >= r.MinY() && p.Y <= r.MaxY()
}

// Inset returns r padded outward by (dx, dy) on every side. Negative dx/dy
// shrink the rect.
func (r Rect) Inset(dx, dy float64) Rect {
	return Rect{
		X: r.X - dx,
		Y: r.Y - dy,
		W: r.W + 2*dx,
		H: r.H + 2*dy,
	}
}

// Overlap returns the intersection rectangle of a and b, and whether it is
// non-empty.
func Overlap(a, b Rect) (Rect, bool) {
	minX := math.Max(a.MinX(), b.MinX())
	minY := math.Max(a.MinY(), b.MinY())
	maxX := math.Min(a.MaxX(), b.MaxX())
	maxY := math.Min(a.MaxY(), b.MaxY())
	if maxX <= minX || maxY <= minY {
		return Rect{}, false
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}, true
}

// PointRectDistance returns the distance from p to the nearest point of r,
// zero when p lies inside r.
func PointRectDistance(p Point, r Rect) float64 {
	dx := math.Max(r.MinX()-p.X, math.Max(0, p.X-r.MaxX()))
	dy := math.Max(r.MinY()-p.Y, math.Max(0, p.Y-r.MaxY()))
	return math.Hypot(dx, dy)
}

// PointSegmentDistance returns the distance from p to the segment [a,b],
// via orthogonal projection clamped to t in [0,1]. A degenerate segment
// (a == b) returns the distance from p to a.
func PointSegmentDistance(p, a, b Point) float64 {
	return p.Sub(ClosestPointOnSegment(p, a, b)).Magnitude()
}

// ClosestPointOnSegment returns the point on segment [a,b] nearest to p.
func ClosestPointOnSegment(p, a, b Point) Point {
	ab := b.Sub(a)
	lenSq := ab.Dot(ab)
	if lenSq == 0 {
		return a
	}
	t := p.Sub(a).Dot(ab) / lenSq
	t = Clamp(t, 0, 1)
	return a.Add(ab.Scale(t))
}

// SegmentCircle reports whether segment [a,b] intersects the circle of
// radius r centered at c.
func SegmentCircle(a, b, c Point, r float64) bool {
	return PointSegmentDistance(c, a, b) <= r
}

// SegmentRect reports whether segment [a,b] intersects rect r: either
// endpoint lies inside r, or the segment crosses one of r's four edges.
func SegmentRect(a, b Point, r Rect) bool {
	if r.Contains(a) || r.Contains(b) {
		return true
	}
	tl := Point{r.MinX(), r.MinY()}
	tr := Point{r.MaxX(), r.MinY()}
	br := Point{r.MaxX(), r.MaxY()}
	bl := Point{r.MinX(), r.MaxY()}
	return segmentsIntersect(a, b, tl, tr) ||
		segmentsIntersect(a, b, tr, br) ||
		segmentsIntersect(a, b, br, bl) ||
		segmentsIntersect(a, b, bl, tl)
}

// cross2D returns the z-component of the 2D cross product (o->a) x (o->b).
func cross2D(o, a, b Point) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// onSegment reports whether p, known to be collinear with [a,b], lies on
// the segment itself.
func onSegment(a, b, p Point) bool {
	return math.Min(a.X, b.X) <= p.X && p.X <= math.Max(a.X, b.X) &&
		math.Min(a.Y, b.Y) <= p.Y && p.Y <= math.Max(a.Y, b.Y)
}

// segmentsIntersect reports whether segments [p1,p2] and [p3,p4] cross,
// using sign tests on the 2D cross product with a collinear-overlap
// fallback for degenerate (parallel/touching) cases.
func segmentsIntersect(p1, p2, p3, p4 Point) bool {
	d1 := cross2D(p3, p4, p1)
	d2 := cross2D(p3, p4, p2)
	d3 := cross2D(p1, p2, p3)
	d4 := cross2D(p1, p2, p4)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	if d1 == 0 && onSegment(p3, p4, p1) {
		return true
	}
	if d2 == 0 && onSegment(p3, p4, p2) {
		return true
	}
	if d3 == 0 && onSegment(p1, p2, p3) {
		return true
	}
	if d4 == 0 && onSegment(p1, p2, p4) {
		return true
	}
	return false
}

// FramesEquivalent reports whether l and r describe the same on-screen
// element within tolerance: centers within 5px and dimensions within 10px.
func FramesEquivalent(l, r Rect) bool {
	return math.Abs(l.MidX()-r.MidX()) < 5 &&
		math.Abs(l.MidY()-r.MidY()) < 5 &&
		math.Abs(l.W-r.W) < 10 &&
		math.Abs(l.H-r.H) < 10
}
