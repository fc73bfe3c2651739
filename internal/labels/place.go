package labels

import (
	"math"

	"localchart/internal/mathutil"
)

// Policy decides what happens when every candidate collides.
type Policy int

const (
	// BestEffort always draws, at the lowest-scoring candidate.
	BestEffort Policy = iota
	// SkipIfColliding draws only at a collision-free candidate.
	SkipIfColliding
)

func (p Policy) String() string {
	if p == SkipIfColliding {
		return "skip-if-colliding"
	}
	return "best-effort"
}

// Request is one label to place. Candidates are tried in priority order.
type Request struct {
	Candidates []Box
	Policy     Policy
	AvoidRoads bool
}

// Placement is the outcome of Place.
type Placement struct {
	Box   Box
	Score int
	Index int // candidate index
	OK    bool
}

// Place picks the lowest-scoring candidate, earliest on ties, and records it
// in the registry. With SkipIfColliding a candidate must score zero.
func (r *Registry) Place(req Request) Placement {
	best := Placement{Index: -1, Score: math.MaxInt}
	for i, c := range req.Candidates {
		s := r.Score(c, req.AvoidRoads)
		if s < best.Score {
			best = Placement{Box: c, Score: s, Index: i}
			if s == 0 {
				break
			}
		}
	}
	if best.Index < 0 {
		return Placement{Index: -1}
	}
	if req.Policy == SkipIfColliding && best.Score > 0 {
		return Placement{Box: best.Box, Score: best.Score, Index: best.Index}
	}

	best.OK = true
	r.AddLabel(best.Box)
	return best
}

// CompassOffsets returns candidate boxes for a point label: east, west,
// north, south, then the four diagonals. gap is the clearance between
// the anchor and the nearest box edge.
func CompassOffsets(anchor mathutil.Vec2, w, h, gap float64) []Box {
	x, y := anchor[0], anchor[1]
	return []Box{
		{X: x + gap, Y: y - h/2, W: w, H: h},         // E
		{X: x - gap - w, Y: y - h/2, W: w, H: h},     // W
		{X: x - w/2, Y: y - gap - h, W: w, H: h},     // N
		{X: x - w/2, Y: y + gap, W: w, H: h},         // S
		{X: x + gap, Y: y - gap - h, W: w, H: h},     // NE
		{X: x - gap - w, Y: y - gap - h, W: w, H: h}, // NW
		{X: x + gap, Y: y + gap, W: w, H: h},         // SE
		{X: x - gap - w, Y: y + gap, W: w, H: h},     // SW
	}
}

// PerpendicularOffsets returns candidate boxes for a label on a route
// travelling along dir: centred dist pixels to the right of the route,
// then to the left, then the same pair shifted half a box forward and back
// along the route.
func PerpendicularOffsets(anchor, dir mathutil.Vec2, w, h, dist float64) []Box {
	d := dir.Normalize()
	if d == (mathutil.Vec2{}) {
		d = mathutil.Vec2{1, 0}
	}
	n := d.Perp()

	// Push the centre out far enough that the box clears the route line.
	reach := dist + (math.Abs(n[0])*w+math.Abs(n[1])*h)/2
	along := (math.Abs(d[0])*w + math.Abs(d[1])*h) / 2

	var out []Box
	for _, shift := range []float64{0, along, -along} {
		base := anchor.Add(d.Scale(shift))
		out = append(out,
			BoxAt(base.Add(n.Scale(reach)), w, h),
			BoxAt(base.Sub(n.Scale(reach)), w, h),
		)
	}
	return out
}
