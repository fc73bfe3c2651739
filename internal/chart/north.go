package chart

import (
	"image/color"

	"localchart/internal/geodesy"
	"localchart/internal/labels"
	"localchart/internal/mathutil"
)

const (
	northPanelW   = 84.0
	northPanelH   = 104.0
	northPanelPad = 10.0
	northArrowLen = 62.0
)

// drawNorthIndicator draws grid, true and magnetic north arrows in a fixed
// panel at the top right. Each arrow is rotated clockwise from vertical by
// its angle from grid north. Without a declination the magnetic arrow is
// left out.
func (p *basePainter) drawNorthIndicator(na geodesy.NorthAngles) {
	s := p.s
	x := p.rc.Width - northPanelW - northPanelPad
	y := northPanelPad

	s.SetDash()
	s.DrawRectangle(x, y, northPanelW, northPanelH)
	s.SetColor(haloColor)
	s.FillPreserve()
	s.SetColor(inkColor)
	s.SetLineWidth(0.8)
	s.Stroke()

	origin := mathutil.Vec2{x + northPanelW/2, y + northPanelH - 14}
	p.drawArrow(origin, 0, gridNorthColor, "GN")
	p.drawArrow(origin, na.Convergence, trueNorthColor, "TN")
	if na.DeclinationAvailable {
		p.drawArrow(origin, na.GridToMagnetic, magneticNorthColor, "MN")
	}

	// The panel is fixed chrome; labels must not be placed under it.
	p.reg.AddLabel(labels.Box{X: x, Y: y, W: northPanelW, H: northPanelH})
}

func (p *basePainter) drawArrow(origin mathutil.Vec2, angleDeg float64, c color.Color, label string) {
	s := p.s
	dir := mathutil.ScreenUp.Rotate(mathutil.Deg2Rad(angleDeg))
	tip := origin.Add(dir.Scale(northArrowLen))

	s.SetColor(c)
	s.SetLineWidth(1.5)
	s.MoveTo(origin[0], origin[1])
	s.LineTo(tip[0], tip[1])
	s.Stroke()

	// Arrowhead.
	back := tip.Sub(dir.Scale(9))
	side := dir.Perp().Scale(4)
	s.MoveTo(tip[0], tip[1])
	s.LineTo(back[0]+side[0], back[1]+side[1])
	s.LineTo(back[0]-side[0], back[1]-side[1])
	s.ClosePath()
	s.Fill()

	s.SetFont(gridFontSize, true)
	at := tip.Add(dir.Scale(7))
	s.DrawString(label, at[0], at[1], 0.5, 0.35)
}

// northReference picks the point the north angles are evaluated at: the
// centre of the padded chart bounds.
func northReference(rc RenderContext) (geodesy.GeoPoint, error) {
	return geodesy.FromUTM(geodesy.UTMCoordinate{
		Easting:    (rc.MinE + rc.MaxE) / 2,
		Northing:   (rc.MinN + rc.MaxN) / 2,
		Zone:       rc.Zone,
		Hemisphere: rc.Hemisphere,
	})
}
