package chart

import (
	"math"
	"strconv"

	"github.com/paulmach/orb"

	"localchart/internal/geodesy"
	"localchart/internal/labels"
	"localchart/internal/mathutil"
	"localchart/internal/raster"
	"localchart/internal/terrain"
)

// basePainter paints the expensive layer: background, grid, terrain,
// routes, scale-bar skeleton, north indicator and caption.
type basePainter struct {
	s     raster.Surface
	rc    RenderContext
	reg   *labels.Registry
	icons IconFactory
}

func (p *basePainter) project(pt orb.Point) (mathutil.Vec2, bool) {
	c, err := geodesy.ToUTM(pt[1], pt[0], p.rc.Zone, p.rc.Hemisphere)
	if err != nil {
		return mathutil.Vec2{}, false
	}
	return p.rc.ToScreen(c), true
}

func (p *basePainter) projectLine(ls []orb.Point) ([]mathutil.Vec2, bool) {
	out := make([]mathutil.Vec2, len(ls))
	for i, pt := range ls {
		v, ok := p.project(pt)
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

func (p *basePainter) paint(r *route, buckets terrain.Buckets, north geodesy.NorthAngles, printScale float64) scaleBar {
	p.s.Clear(paperColor)
	p.drawGrid()
	p.drawTerrain(buckets)
	p.drawRoute(r)
	sb := p.drawScaleBar()
	p.drawNorthIndicator(north)
	p.drawCaption(p.rc.Caption(printScale))
	return sb
}

// drawGrid draws 1 NM minor and 10 NM major UTM lines. Major lines carry
// their coordinate in whole kilometres.
func (p *basePainter) drawGrid() {
	minE, minN, maxE, maxN := p.rc.visibleExtent()
	step := geodesy.MetersPerNM
	drawMinor := p.rc.PixelsPerNM() >= 4

	s := p.s
	s.SetDash()
	for pass := 0; pass < 2; pass++ {
		major := pass == 1
		if !major && !drawMinor {
			continue
		}
		if major {
			s.SetColor(gridMajorColor)
			s.SetLineWidth(1)
		} else {
			s.SetColor(gridMinorColor)
			s.SetLineWidth(0.5)
		}

		for k := int(math.Ceil(minE / step)); float64(k)*step <= maxE; k++ {
			if (k%10 == 0) != major {
				continue
			}
			x := p.rc.ToScreen(geodesy.UTMCoordinate{Easting: float64(k) * step})[0]
			s.MoveTo(x, 0)
			s.LineTo(x, p.rc.Height)
		}
		for k := int(math.Ceil(minN / step)); float64(k)*step <= maxN; k++ {
			if (k%10 == 0) != major {
				continue
			}
			y := p.rc.ToScreen(geodesy.UTMCoordinate{Northing: float64(k) * step})[1]
			s.MoveTo(0, y)
			s.LineTo(p.rc.Width, y)
		}
		s.Stroke()
	}

	s.SetColor(gridLabelColor)
	s.SetFont(gridFontSize, false)
	for k := int(math.Ceil(minE / step)); float64(k)*step <= maxE; k++ {
		if k%10 != 0 {
			continue
		}
		e := float64(k) * step
		x := p.rc.ToScreen(geodesy.UTMCoordinate{Easting: e})[0]
		s.DrawString(kmLabel(e), x+2, 2, 0, 1)
	}
	for k := int(math.Ceil(minN / step)); float64(k)*step <= maxN; k++ {
		if k%10 != 0 {
			continue
		}
		n := float64(k) * step
		y := p.rc.ToScreen(geodesy.UTMCoordinate{Northing: n})[1]
		s.DrawString(kmLabel(n), 2, y-2, 0, 0)
	}
}

func kmLabel(m float64) string {
	return strconv.Itoa(int(math.Round(m/1000))) + " km"
}

func (p *basePainter) drawTerrain(buckets terrain.Buckets) {
	for _, b := range buckets {
		for _, f := range b.Features {
			st := terrain.StyleFor(f)
			switch g := f.Geometry.(type) {
			case orb.Point:
				p.drawPoint(f, g, st)
			case orb.MultiPoint:
				for _, pt := range g {
					p.drawPoint(f, pt, st)
				}
			case orb.LineString:
				p.drawLine(f, g, st)
			case orb.MultiLineString:
				for _, ls := range g {
					p.drawLine(f, ls, st)
				}
			case orb.Polygon:
				p.drawPolygon(g, st)
			case orb.MultiPolygon:
				for _, poly := range g {
					p.drawPolygon(poly, st)
				}
			}
		}
	}
}

func (p *basePainter) drawPoint(f terrain.Feature, pt orb.Point, st terrain.Style) {
	v, ok := p.project(pt)
	if !ok {
		return
	}
	s := p.s
	r := st.Symbol
	if r <= 0 {
		r = 3
	}

	if f.Type == terrain.Airport && p.icons != nil {
		if icon, ok := p.icons.Icon(IconAirport); ok {
			s.DrawIcon(icon, v[0]-2*r, v[1]-2*r, 4*r, 4*r)
			p.reg.AddMarker(labels.Marker{Center: v, Radius: 2 * r})
			return
		}
	}

	s.SetDash()
	s.DrawCircle(v[0], v[1], r)
	if st.Fill != nil {
		s.SetColor(st.Fill)
		s.FillPreserve()
	}
	s.SetColor(st.Stroke)
	s.SetLineWidth(st.Width)
	s.Stroke()
	p.reg.AddMarker(labels.Marker{Center: v, Radius: r})

	if f.Type == terrain.City {
		p.placeCityLabel(terrain.Name(f), v, r)
	}
}

// placeCityLabel always draws: cities are best-effort and keep clear of
// major roads when they can.
func (p *basePainter) placeCityLabel(name string, at mathutil.Vec2, r float64) {
	if name == "" {
		return
	}
	s := p.s
	s.SetFont(cityFontSize, false)
	w, h := s.MeasureString(name)
	pl := p.reg.Place(labels.Request{
		Candidates: labels.CompassOffsets(at, w, h, r+2),
		Policy:     labels.BestEffort,
		AvoidRoads: true,
	})
	drawText(s, name, pl.Box, inkColor)
}

func (p *basePainter) drawLine(f terrain.Feature, ls orb.LineString, st terrain.Style) {
	pts, ok := p.projectLine(ls)
	if !ok || len(pts) < 2 {
		return
	}
	s := p.s
	s.SetDash(st.Dash...)
	s.SetColor(st.Stroke)
	s.SetLineWidth(st.Width)
	s.MoveTo(pts[0][0], pts[0][1])
	for _, v := range pts[1:] {
		s.LineTo(v[0], v[1])
	}
	s.Stroke()
	s.SetDash()

	if f.Type == terrain.Road && terrain.ParseRoadClass(roadTag(f)).Major() {
		for i := 1; i < len(pts); i++ {
			p.reg.AddRoad(labels.Road{A: pts[i-1], B: pts[i]})
		}
	}
}

func roadTag(f terrain.Feature) string {
	s, _ := f.Properties["highway"].(string)
	return s
}

// tracePolygon adds every ring of poly as its own closed subpath; the
// canvas fills even-odd so inner rings cut holes.
func (p *basePainter) tracePolygon(poly orb.Polygon) (minX, minY, maxX, maxY float64, ok bool) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, ring := range poly {
		pts, good := p.projectLine(ring)
		if !good || len(pts) < 3 {
			continue
		}
		p.s.NewSubPath()
		p.s.MoveTo(pts[0][0], pts[0][1])
		for _, v := range pts[1:] {
			p.s.LineTo(v[0], v[1])
		}
		p.s.ClosePath()
		for _, v := range pts {
			minX, maxX = math.Min(minX, v[0]), math.Max(maxX, v[0])
			minY, maxY = math.Min(minY, v[1]), math.Max(maxY, v[1])
		}
		ok = true
	}
	return
}

func (p *basePainter) drawPolygon(poly orb.Polygon, st terrain.Style) {
	s := p.s
	minX, minY, maxX, maxY, ok := p.tracePolygon(poly)
	if !ok {
		return
	}
	if st.Fill != nil {
		s.SetColor(st.Fill)
		s.FillPreserve()
	}
	s.SetDash(st.Dash...)
	s.SetColor(st.Stroke)
	s.SetLineWidth(st.Width)
	s.Stroke()
	s.SetDash()

	if st.Hatch {
		p.hatch(poly, st, minX, minY, maxX, maxY)
	}
}

// hatch strokes 45° lines over the polygon's screen bounds, clipped to the
// polygon itself.
func (p *basePainter) hatch(poly orb.Polygon, st terrain.Style, minX, minY, maxX, maxY float64) {
	const spacing = 6.0
	s := p.s
	s.Push()
	p.tracePolygon(poly)
	s.Clip()

	s.SetColor(st.Stroke)
	s.SetLineWidth(0.6)
	h := maxY - minY
	for x := minX - h; x <= maxX; x += spacing {
		s.MoveTo(x, maxY)
		s.LineTo(x+h, minY)
	}
	s.Stroke()
	s.ResetClip()
	s.Pop()
}

// drawRoute draws explicit segments one by one, coloured by alternative
// status, or else one polyline through the non-fly-over waypoints.
func (p *basePainter) drawRoute(r *route) {
	s := p.s
	s.SetLineWidth(routeWidth)
	if r.explicit {
		for _, l := range r.legs {
			a, b := p.rc.ToScreen(l.from), p.rc.ToScreen(l.to)
			if l.alternative {
				s.SetColor(alternativeColor)
				s.SetDash(8, 5)
			} else {
				s.SetColor(routeColor)
				s.SetDash()
			}
			s.MoveTo(a[0], a[1])
			s.LineTo(b[0], b[1])
			s.Stroke()
		}
		s.SetDash()
		return
	}

	var pts []mathutil.Vec2
	for _, w := range r.waypoints {
		if !w.IsFlyOver {
			pts = append(pts, p.rc.ToScreen(w.utm))
		}
	}
	if len(pts) < 2 {
		return
	}
	s.SetDash()
	s.SetColor(routeColor)
	s.MoveTo(pts[0][0], pts[0][1])
	for _, v := range pts[1:] {
		s.LineTo(v[0], v[1])
	}
	s.Stroke()
}

func (p *basePainter) drawCaption(caption string) {
	s := p.s
	s.SetFont(labelFontSize, true)
	w, h := s.MeasureString(caption)
	box := labels.Box{X: p.rc.Width - w - 12, Y: p.rc.Height - h - 10, W: w, H: h}
	drawText(s, caption, box, inkColor)
}
