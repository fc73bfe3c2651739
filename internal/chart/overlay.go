package chart

import (
	"fmt"
	"image/color"
	"math"
	"strconv"

	"localchart/internal/labels"
	"localchart/internal/mathutil"
	"localchart/internal/raster"
)

// overlayPainter paints the cheap layer over a copy of the base raster.
// Its registry starts from the base pass's labels and markers and dies with
// the pass.
type overlayPainter struct {
	s     raster.Surface
	rc    RenderContext
	cfg   RenderConfig
	reg   *labels.Registry
	icons IconFactory
	diag  *Diagnostics
}

func newOverlayPainter(s raster.Surface, base *baseLayer, cfg RenderConfig, icons IconFactory, diag *Diagnostics) *overlayPainter {
	reg := labels.NewRegistry()
	for _, b := range base.labelBoxes {
		reg.AddLabel(b)
	}
	for _, m := range base.markers {
		reg.AddMarker(m)
	}
	return &overlayPainter{s: s, rc: base.ctx, cfg: cfg, reg: reg, icons: icons, diag: diag}
}

func (o *overlayPainter) paint(base *baseLayer, r *route) {
	o.s.Blit(base.image)

	// Markers are registered up front so tick labels avoid them even
	// though the markers themselves are drawn later.
	for _, w := range r.waypoints {
		o.reg.AddMarker(labels.Marker{Center: o.rc.ToScreen(w.utm), Radius: markerRadius + 2})
	}

	main := r.mainLegs()
	o.drawDistanceTicks(main, distanceTicks(main, o.cfg.TickIntervalNM), routeColor, &o.diag.DistanceTicks)
	if o.cfg.TimeTickIntervalMin > 0 {
		o.drawTimeTicks(main, timeTicks(main, o.cfg.TimeTickIntervalMin), &o.diag.TimeTicks)
	}

	alts := r.alternativeLegs()
	o.drawDistanceTicks(alts, alternativeTicks(alts, o.cfg.TickIntervalNM, func(l leg) float64 { return l.distanceNM }),
		alternativeColor, &o.diag.AlternativeTicks)
	if o.cfg.TimeTickIntervalMin > 0 {
		o.drawTimeTicks(alts, alternativeTicks(alts, o.cfg.TimeTickIntervalMin, leg.minutes), &o.diag.AlternativeTicks)
	}

	o.drawWaypoints(r)
	if r.explicit {
		o.drawLegInfo(r.legs)
	}
	paintScaleBarLegend(o, base.scaleBar)
	o.drawTickLegend(base.scaleBar)
}

func (o *overlayPainter) legScreen(l leg) (a, b, dir mathutil.Vec2) {
	a, b = o.rc.ToScreen(l.from), o.rc.ToScreen(l.to)
	dir = b.Sub(a).Normalize()
	if dir == (mathutil.Vec2{}) {
		dir = mathutil.Vec2{1, 0}
	}
	return a, b, dir
}

// drawDistanceTicks draws perpendicular hash marks, lettered with the
// cumulative distance when enabled.
func (o *overlayPainter) drawDistanceTicks(legs []leg, ticks []tick, c color.Color, count *int) {
	s := o.s
	for _, t := range ticks {
		a, b, dir := o.legScreen(legs[t.leg])
		at := mathutil.Lerp(a, b, t.frac)
		n := dir.Perp()

		s.SetDash()
		s.SetColor(c)
		s.SetLineWidth(1.6)
		p0, p1 := at.Sub(n.Scale(tickHalfLength)), at.Add(n.Scale(tickHalfLength))
		s.MoveTo(p0[0], p0[1])
		s.LineTo(p1[0], p1[1])
		s.Stroke()
		*count++

		if o.cfg.ShowDistanceLabels {
			o.placeTickLabel(formatNumber(t.value), at, dir, c)
		}
	}
}

// drawTimeTicks slant 45° off the perpendicular so they never sit on top
// of a distance tick.
func (o *overlayPainter) drawTimeTicks(legs []leg, ticks []tick, count *int) {
	s := o.s
	for _, t := range ticks {
		a, b, dir := o.legScreen(legs[t.leg])
		at := mathutil.Lerp(a, b, t.frac)
		n := dir.Perp().Rotate(math.Pi / 4)

		s.SetDash()
		s.SetColor(timeTickColor)
		s.SetLineWidth(1.4)
		p0, p1 := at.Sub(n.Scale(tickHalfLength+1)), at.Add(n.Scale(tickHalfLength+1))
		s.MoveTo(p0[0], p0[1])
		s.LineTo(p1[0], p1[1])
		s.Stroke()
		*count++

		if o.cfg.ShowTimeLabels {
			o.placeTickLabel(formatNumber(t.value)+"'", at, dir, timeTickColor)
		}
	}
}

// placeTickLabel skips the label rather than overlap anything.
func (o *overlayPainter) placeTickLabel(text string, at, dir mathutil.Vec2, c color.Color) {
	s := o.s
	s.SetFont(labelFontSize-1, false)
	w, h := s.MeasureString(text)
	pl := o.reg.Place(labels.Request{
		Candidates: labels.PerpendicularOffsets(at, dir, w, h, tickHalfLength+2),
		Policy:     labels.SkipIfColliding,
	})
	if !pl.OK {
		o.diag.LabelsSkipped++
		return
	}
	o.diag.LabelsPlaced++
	drawText(s, text, pl.Box, c)
}

func (o *overlayPainter) drawWaypoints(r *route) {
	s := o.s
	for _, w := range r.waypoints {
		at := o.rc.ToScreen(w.utm)
		o.drawMarker(at, w.IsFlyOver)

		lines := waypointLines(w.Waypoint, o.cfg)
		if len(lines) == 0 {
			continue
		}

		s.SetFont(labelFontSize, true)
		bw, bh := measureLines(s, lines)
		pl := o.reg.Place(labels.Request{
			Candidates: labels.CompassOffsets(at, bw, bh, markerRadius+4),
			Policy:     labels.BestEffort,
		})
		o.diag.LabelsPlaced++
		drawLines(s, lines, pl.Box, inkColor)
	}
}

func waypointLines(w Waypoint, cfg RenderConfig) []string {
	var lines []string
	if w.Name != "" {
		lines = append(lines, w.Name)
	}
	if w.Description != "" && w.Description != w.Name {
		lines = append(lines, w.Description)
	}
	if cfg.ShowDistanceLabels && w.CumulativeDistanceNM != nil {
		lines = append(lines, fmt.Sprintf("%.1f NM", *w.CumulativeDistanceNM))
	}
	if cfg.ShowTimeLabels && w.CumulativeTimeMin != nil {
		lines = append(lines, fmt.Sprintf("%.0f min", *w.CumulativeTimeMin))
	}
	return lines
}

func (o *overlayPainter) drawMarker(at mathutil.Vec2, flyOver bool) {
	s := o.s
	kind := IconWaypoint
	if flyOver {
		kind = IconFlyOver
	}
	if o.icons != nil {
		if icon, ok := o.icons.Icon(kind); ok {
			d := 2 * (markerRadius + 1)
			s.DrawIcon(icon, at[0]-d/2, at[1]-d/2, d, d)
			return
		}
	}

	s.SetDash()
	if flyOver {
		s.DrawCircle(at[0], at[1], markerRadius+1)
		s.SetColor(haloColor)
		s.FillPreserve()
		s.SetColor(inkColor)
		s.SetLineWidth(1.5)
		s.Stroke()
		s.MoveTo(at[0]-markerRadius, at[1])
		s.LineTo(at[0]+markerRadius, at[1])
		s.MoveTo(at[0], at[1]-markerRadius)
		s.LineTo(at[0], at[1]+markerRadius)
		s.SetLineWidth(1)
		s.Stroke()
		return
	}
	s.DrawCircle(at[0], at[1], markerRadius)
	s.SetColor(inkColor)
	s.FillPreserve()
	s.SetColor(haloColor)
	s.SetLineWidth(1.5)
	s.Stroke()
}

// legInfoLines letters one explicit leg. Climb and descent headings are
// shown only when they differ from the cruise heading by more than 0.5°.
func legInfoLines(l leg) []string {
	seg := l.seg
	var lines []string
	if l.alternative {
		lines = append(lines, "ALT")
	} else {
		lines = append(lines, "LEG "+strconv.Itoa(l.number))
	}
	if seg.TrueCourseDeg != nil {
		lines = append(lines, "TC "+formatHeading(*seg.TrueCourseDeg))
	}
	if seg.MagneticHeadingDeg != nil {
		lines = append(lines, "MH "+formatHeading(*seg.MagneticHeadingDeg))
	}
	differs := func(h *float64) bool {
		if h == nil {
			return false
		}
		if seg.MagneticHeadingDeg == nil {
			return true
		}
		return mathutil.AngleDist(*h, *seg.MagneticHeadingDeg) > 0.5
	}
	if differs(seg.ClimbMagneticHeadingDeg) {
		lines = append(lines, "CLB "+formatHeading(*seg.ClimbMagneticHeadingDeg))
	}
	if differs(seg.DescentMagneticHeadingDeg) {
		lines = append(lines, "DES "+formatHeading(*seg.DescentMagneticHeadingDeg))
	}
	lines = append(lines, fmt.Sprintf("%.1f NM", l.distanceNM))
	if seg.FuelRemaining != nil {
		unit := seg.FuelUnit
		if unit == "" {
			unit = "L"
		}
		lines = append(lines, fmt.Sprintf("FUEL %.1f %s", *seg.FuelRemaining, unit))
	}
	return lines
}

func (o *overlayPainter) drawLegInfo(legs []leg) {
	s := o.s
	s.SetFont(labelFontSize-1, false)
	for _, l := range legs {
		if l.seg == nil {
			continue
		}
		a, b, dir := o.legScreen(l)
		mid := mathutil.Lerp(a, b, 0.5)
		lines := legInfoLines(l)
		w, h := measureLines(s, lines)
		pl := o.reg.Place(labels.Request{
			Candidates: labels.PerpendicularOffsets(mid, dir, w, h, 12),
			Policy:     labels.BestEffort,
		})
		o.diag.LabelsPlaced++
		c := inkColor
		if l.alternative {
			c = alternativeColor
		}
		drawLines(s, lines, pl.Box, c)
		s.SetFont(labelFontSize-1, false)
	}
}

// drawTickLegend boxes the tick intervals above the scale bar, last so
// nothing covers them.
func (o *overlayPainter) drawTickLegend(sb scaleBar) {
	type entry struct {
		text string
		c    color.Color
	}
	var entries []entry
	if o.cfg.TickIntervalNM > 0 {
		entries = append(entries, entry{"Distance ticks every " + formatNumber(o.cfg.TickIntervalNM) + " NM", routeColor})
	}
	if o.cfg.TimeTickIntervalMin > 0 {
		entries = append(entries, entry{"Time ticks every " + formatNumber(o.cfg.TimeTickIntervalMin) + " min", timeTickColor})
	}

	s := o.s
	s.SetFont(labelFontSize-1, false)
	y := sb.Y - 26
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		w, h := s.MeasureString(e.text)
		box := labels.Box{X: sb.X + 18, Y: y - h, W: w, H: h}

		s.SetDash()
		s.DrawRectangle(sb.X-2, box.Y-3, w+24, h+6)
		s.SetColor(haloColor)
		s.FillPreserve()
		s.SetColor(e.c)
		s.SetLineWidth(0.8)
		s.Stroke()

		s.SetLineWidth(1.6)
		s.MoveTo(sb.X+6, box.Y)
		s.LineTo(sb.X+6, box.Y+h)
		s.Stroke()
		drawText(s, e.text, box, inkColor)
		y = box.Y - 8
	}
}

// formatNumber prints whole values without decimals and others with one.
func formatNumber(v float64) string {
	if math.Abs(v-math.Round(v)) < 1e-9 {
		return strconv.FormatFloat(math.Round(v), 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func formatHeading(deg float64) string {
	return fmt.Sprintf("%03.0f°", mathutil.NormalizeHeading(math.Round(deg)))
}
