package chart

import (
	"strconv"

	"localchart/internal/geodesy"
)

type projectedWaypoint struct {
	Waypoint
	utm geodesy.UTMCoordinate
}

// leg is one drawn route segment in grid coordinates.
type leg struct {
	from, to    geodesy.UTMCoordinate
	alternative bool
	distanceNM  float64
	groundSpeed float64 // knots, 0 when unknown
	number      int     // 1-based among main legs, 0 for alternatives

	seg *RouteSegment // nil for legs derived from waypoints
}

func (l leg) minutes() float64 {
	if l.groundSpeed <= 0 {
		return 0
	}
	return l.distanceNM / l.groundSpeed * 60
}

// route is the validated, projected input of one render.
type route struct {
	zone       int
	hemisphere geodesy.Hemisphere
	waypoints  []projectedWaypoint
	legs       []leg
	explicit   bool // legs come from RouteSegments
}

func (r *route) mainLegs() []leg {
	var out []leg
	for _, l := range r.legs {
		if !l.alternative {
			out = append(out, l)
		}
	}
	return out
}

func (r *route) alternativeLegs() []leg {
	var out []leg
	for _, l := range r.legs {
		if l.alternative {
			out = append(out, l)
		}
	}
	return out
}

// points returns every projected position the chart must show.
func (r *route) points() []geodesy.UTMCoordinate {
	out := make([]geodesy.UTMCoordinate, 0, len(r.waypoints)+2*len(r.legs))
	for _, w := range r.waypoints {
		out = append(out, w.utm)
	}
	for _, l := range r.legs {
		out = append(out, l.from, l.to)
	}
	return out
}

func (r *route) geoPoints() []geodesy.GeoPoint {
	out := make([]geodesy.GeoPoint, len(r.waypoints))
	for i, w := range r.waypoints {
		out[i] = w.GeoPoint
	}
	return out
}

// resolveRoute validates the input and projects it onto a single UTM zone.
// An automatic zone must hold every waypoint. An explicit zone may be used
// across zone boundaries but every point must still project onto it.
func resolveRoute(waypoints []Waypoint, segments []RouteSegment, cfg RenderConfig) (*route, error) {
	if len(waypoints) == 0 {
		return nil, inputErrorf("at least one waypoint is required")
	}
	for i, w := range waypoints {
		if err := w.Validate(); err != nil {
			return nil, &InputError{Reason: "waypoint " + strconv.Itoa(i), Err: err}
		}
	}
	for i, s := range segments {
		if err := s.From.Validate(); err != nil {
			return nil, &InputError{Reason: "segment " + strconv.Itoa(i) + " start", Err: err}
		}
		if err := s.To.Validate(); err != nil {
			return nil, &InputError{Reason: "segment " + strconv.Itoa(i) + " end", Err: err}
		}
	}

	first := waypoints[0].GeoPoint
	zone := cfg.UTMZone
	if zone == 0 {
		zone = geodesy.ZoneFor(first.Lat, first.Lon)
		for _, w := range waypoints[1:] {
			if z := geodesy.ZoneFor(w.Lat, w.Lon); z != zone {
				return nil, inputErrorf("waypoints span UTM zones %d and %d", zone, z)
			}
		}
	}
	hemi := cfg.Hemisphere
	if hemi == 0 {
		hemi = geodesy.HemisphereFor(first.Lat)
		for _, w := range waypoints[1:] {
			if h := geodesy.HemisphereFor(w.Lat); h != hemi {
				return nil, inputErrorf("waypoints span both hemispheres")
			}
		}
	}

	project := func(p geodesy.GeoPoint) (geodesy.UTMCoordinate, error) {
		c, err := geodesy.ToUTM(p.Lat, p.Lon, zone, hemi)
		if err != nil {
			return c, &InputError{Reason: "projection of " + p.String(), Err: err}
		}
		return c, nil
	}

	r := &route{zone: zone, hemisphere: hemi, explicit: len(segments) > 0}
	for _, w := range waypoints {
		c, err := project(w.GeoPoint)
		if err != nil {
			return nil, err
		}
		r.waypoints = append(r.waypoints, projectedWaypoint{Waypoint: w, utm: c})
	}

	if r.explicit {
		n := 0
		for i := range segments {
			s := &segments[i]
			from, err := project(s.From)
			if err != nil {
				return nil, err
			}
			to, err := project(s.To)
			if err != nil {
				return nil, err
			}
			l := leg{from: from, to: to, alternative: s.IsAlternative, seg: s}
			l.distanceNM = geodesy.GridDistance(from, to) / geodesy.MetersPerNM
			if s.DistanceNM != nil && *s.DistanceNM > 0 {
				l.distanceNM = *s.DistanceNM
			}
			if s.GroundSpeedKt != nil && *s.GroundSpeedKt > 0 {
				l.groundSpeed = *s.GroundSpeedKt
			}
			if !l.alternative {
				n++
				l.number = n
			}
			r.legs = append(r.legs, l)
		}
		return r, nil
	}

	// Without explicit segments the route joins the non-fly-over waypoints.
	var prev *projectedWaypoint
	n := 0
	for i := range r.waypoints {
		w := &r.waypoints[i]
		if w.IsFlyOver {
			continue
		}
		if prev != nil {
			n++
			r.legs = append(r.legs, leg{
				from:       prev.utm,
				to:         w.utm,
				distanceNM: geodesy.GridDistance(prev.utm, w.utm) / geodesy.MetersPerNM,
				number:     n,
			})
		}
		prev = w
	}
	return r, nil
}
