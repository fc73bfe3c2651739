package labels

import (
	"github.com/dhconnelly/rtreego"
)

// Penalties summed per candidate. The lowest total wins.
const (
	LabelPenalty  = 1000
	MarkerPenalty = 100
	RoadPenalty   = 10
)

// RoadClearance is how close, in CSS pixels, a city label may come to a
// major road before it is penalised.
const RoadClearance = 4.0

type kind uint8

const (
	kindLabel kind = iota
	kindMarker
	kindRoad
)

// entry is one registry item stored in the R-tree.
type entry struct {
	kind   kind
	box    Box
	marker Marker
	road   Road
	rect   rtreego.Rect
}

func (e *entry) Bounds() rtreego.Rect {
	return e.rect
}

// rectOf converts a box into an R-tree rectangle. Degenerate boxes get a
// tiny extent since the tree rejects zero lengths.
func rectOf(b Box) rtreego.Rect {
	const epsilon = 1e-6
	w, h := b.W, b.H
	if w < epsilon {
		w = epsilon
	}
	if h < epsilon {
		h = epsilon
	}
	r, _ := rtreego.NewRect(rtreego.Point{b.X, b.Y}, []float64{w, h})
	return r
}

// Registry holds everything already drawn in one paint pass that later
// labels must avoid. It must not outlive the pass.
type Registry struct {
	tree    *rtreego.Rtree
	labels  []Box
	markers []Marker
	counts  [3]int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{tree: rtreego.NewTree(2, 25, 50)}
}

func (r *Registry) insert(e *entry) {
	r.tree.Insert(e)
	r.counts[e.kind]++
}

// AddLabel records an accepted label box.
func (r *Registry) AddLabel(b Box) {
	r.labels = append(r.labels, b)
	r.insert(&entry{kind: kindLabel, box: b, rect: rectOf(b)})
}

// AddMarker records a waypoint, airport or city marker.
func (r *Registry) AddMarker(m Marker) {
	r.markers = append(r.markers, m)
	r.insert(&entry{kind: kindMarker, marker: m, rect: rectOf(m.bounds())})
}

// AddRoad records a major road segment.
func (r *Registry) AddRoad(rd Road) {
	r.insert(&entry{kind: kindRoad, road: rd, rect: rectOf(rd.bounds())})
}

// Labels returns the accepted label boxes in acceptance order.
func (r *Registry) Labels() []Box {
	out := make([]Box, len(r.labels))
	copy(out, r.labels)
	return out
}

// Markers returns the recorded markers in insertion order.
func (r *Registry) Markers() []Marker {
	out := make([]Marker, len(r.markers))
	copy(out, r.markers)
	return out
}

// Len returns the number of accepted labels, markers and roads.
func (r *Registry) Len() (labels, markers, roads int) {
	return r.counts[kindLabel], r.counts[kindMarker], r.counts[kindRoad]
}

// Score returns the summed penalty of placing b. Road proximity only
// counts when avoidRoads is set.
func (r *Registry) Score(b Box, avoidRoads bool) int {
	query := b
	if avoidRoads {
		query = b.Inflate(RoadClearance)
	}

	score := 0
	for _, s := range r.tree.SearchIntersect(rectOf(query)) {
		e := s.(*entry)
		switch e.kind {
		case kindLabel:
			if b.Overlaps(e.box) {
				score += LabelPenalty
			}
		case kindMarker:
			if e.marker.Overlaps(b) {
				score += MarkerPenalty
			}
		case kindRoad:
			if avoidRoads && b.SegmentDistance(e.road.A, e.road.B) < RoadClearance {
				score += RoadPenalty
			}
		}
	}
	return score
}
