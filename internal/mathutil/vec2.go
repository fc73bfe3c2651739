package mathutil

import "math"

// Vec2 is a 2-component vector in screen space (x right, y down).
type Vec2 [2]float64

func (a Vec2) Add(b Vec2) Vec2 {
	return Vec2{a[0] + b[0], a[1] + b[1]}
}

func (a Vec2) Sub(b Vec2) Vec2 {
	return Vec2{a[0] - b[0], a[1] - b[1]}
}

func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v[0] * s, v[1] * s}
}

func (a Vec2) Dot(b Vec2) float64 {
	return a[0]*b[0] + a[1]*b[1]
}

func (v Vec2) Len() float64 {
	return math.Hypot(v[0], v[1])
}

func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l < 1e-12 {
		return Vec2{}
	}
	return Vec2{v[0] / l, v[1] / l}
}

// Perp returns v rotated 90° clockwise on screen.
func (v Vec2) Perp() Vec2 {
	return Vec2{-v[1], v[0]}
}

// Rotate rotates v clockwise on screen by a radians.
func (v Vec2) Rotate(a float64) Vec2 {
	c, s := math.Cos(a), math.Sin(a)
	return Vec2{v[0]*c - v[1]*s, v[0]*s + v[1]*c}
}

// Lerp returns the point a fraction t of the way from a to b.
func Lerp(a, b Vec2, t float64) Vec2 {
	return Vec2{a[0] + (b[0]-a[0])*t, a[1] + (b[1]-a[1])*t}
}

// SegmentDistance returns the distance from p to the segment ab.
func SegmentDistance(p, a, b Vec2) float64 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 < 1e-12 {
		return p.Sub(a).Len()
	}
	t := p.Sub(a).Dot(ab) / l2
	t = math.Max(0, math.Min(1, t))
	return p.Sub(Lerp(a, b, t)).Len()
}

// ScreenUp is the unit vector pointing to the top of the page.
var ScreenUp = Vec2{0, -1}
