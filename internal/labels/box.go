// Package labels places text next to chart anchors without overlapping
// labels, markers or major roads that were drawn earlier in the same pass.
package labels

import (
	"math"

	"localchart/internal/mathutil"
)

// Box is an axis-aligned label rectangle in device pixels; (X, Y) is the
// top-left corner.
type Box struct {
	X, Y, W, H float64
}

// BoxAt returns the w x h box centred on c.
func BoxAt(c mathutil.Vec2, w, h float64) Box {
	return Box{X: c[0] - w/2, Y: c[1] - h/2, W: w, H: h}
}

// Center returns the centre of the box.
func (b Box) Center() mathutil.Vec2 {
	return mathutil.Vec2{b.X + b.W/2, b.Y + b.H/2}
}

// Overlaps reports whether the interiors of b and o intersect. Boxes that
// only share an edge do not overlap.
func (b Box) Overlaps(o Box) bool {
	return b.X < o.X+o.W && o.X < b.X+b.W &&
		b.Y < o.Y+o.H && o.Y < b.Y+b.H
}

// Inflate grows the box by m on every side.
func (b Box) Inflate(m float64) Box {
	return Box{X: b.X - m, Y: b.Y - m, W: b.W + 2*m, H: b.H + 2*m}
}

// Distance returns the distance from p to the nearest point of the box,
// zero when p lies inside.
func (b Box) Distance(p mathutil.Vec2) float64 {
	dx := math.Max(math.Max(b.X-p[0], 0), p[0]-(b.X+b.W))
	dy := math.Max(math.Max(b.Y-p[1], 0), p[1]-(b.Y+b.H))
	return math.Hypot(dx, dy)
}

func (b Box) contains(p mathutil.Vec2) bool {
	return p[0] >= b.X && p[0] <= b.X+b.W && p[1] >= b.Y && p[1] <= b.Y+b.H
}

func (b Box) corners() [4]mathutil.Vec2 {
	return [4]mathutil.Vec2{
		{b.X, b.Y}, {b.X + b.W, b.Y}, {b.X + b.W, b.Y + b.H}, {b.X, b.Y + b.H},
	}
}

// SegmentDistance returns the distance between the box and the segment pq,
// zero when they touch or cross.
func (b Box) SegmentDistance(p, q mathutil.Vec2) float64 {
	if b.contains(p) || b.contains(q) {
		return 0
	}
	c := b.corners()
	for i := range c {
		if segmentsCross(p, q, c[i], c[(i+1)%4]) {
			return 0
		}
	}
	d := math.Min(b.Distance(p), b.Distance(q))
	for _, corner := range c {
		d = math.Min(d, mathutil.SegmentDistance(corner, p, q))
	}
	return d
}

func cross(o, a, b mathutil.Vec2) float64 {
	return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
}

func segmentsCross(p1, p2, q1, q2 mathutil.Vec2) bool {
	d1 := cross(q1, q2, p1)
	d2 := cross(q1, q2, p2)
	d3 := cross(p1, p2, q1)
	d4 := cross(p1, p2, q2)
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

// Marker is a waypoint symbol treated as a circle for collision purposes.
type Marker struct {
	Center mathutil.Vec2
	Radius float64
}

// Overlaps reports whether the marker's interior intersects the box.
func (m Marker) Overlaps(b Box) bool {
	return b.Distance(m.Center) < m.Radius
}

func (m Marker) bounds() Box {
	return Box{X: m.Center[0] - m.Radius, Y: m.Center[1] - m.Radius, W: 2 * m.Radius, H: 2 * m.Radius}
}

// Road is a major linear feature segment that city labels keep clear of.
type Road struct {
	A, B mathutil.Vec2
}

func (r Road) bounds() Box {
	minX, maxX := math.Min(r.A[0], r.B[0]), math.Max(r.A[0], r.B[0])
	minY, maxY := math.Min(r.A[1], r.B[1]), math.Max(r.A[1], r.B[1])
	return Box{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}
