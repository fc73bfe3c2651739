package chart

import (
	"fmt"

	"localchart/internal/geodesy"
	"localchart/internal/labels"
)

// scaleBar is the geometry drawn by the base layer, kept so the overlay
// can letter it.
type scaleBar struct {
	X, Y      float64 // left end, top of bar
	Length    float64 // CSS pixels
	Height    float64
	NM        float64
	Divisions int
}

var scaleBarSteps = []float64{1, 2, 5, 10, 20, 25, 50, 100, 200, 500}

// chooseScaleBar picks the longest round distance that fits in a third of
// the viewport width.
func chooseScaleBar(rc RenderContext) scaleBar {
	ppnm := rc.PixelsPerNM()
	nm := scaleBarSteps[0]
	for _, v := range scaleBarSteps {
		if v*ppnm <= rc.Width/3 {
			nm = v
		}
	}
	div := 5
	switch nm {
	case 1, 2, 20, 200:
		div = 4
	}
	return scaleBar{
		X:         16,
		Y:         rc.Height - 30,
		Length:    nm * ppnm,
		Height:    5,
		NM:        nm,
		Divisions: div,
	}
}

// drawScaleBar draws the bar and its ticks. Lettering belongs to the
// overlay.
func (p *basePainter) drawScaleBar() scaleBar {
	sb := chooseScaleBar(p.rc)
	s := p.s
	s.SetDash()
	seg := sb.Length / float64(sb.Divisions)
	for i := 0; i < sb.Divisions; i++ {
		s.DrawRectangle(sb.X+float64(i)*seg, sb.Y, seg, sb.Height)
		if i%2 == 0 {
			s.SetColor(inkColor)
		} else {
			s.SetColor(paperColor)
		}
		s.FillPreserve()
		s.SetColor(inkColor)
		s.SetLineWidth(0.8)
		s.Stroke()
	}
	for i := 0; i <= sb.Divisions; i++ {
		x := sb.X + float64(i)*seg
		s.MoveTo(x, sb.Y-3)
		s.LineTo(x, sb.Y+sb.Height)
	}
	s.Stroke()

	p.reg.AddLabel(labels.Box{X: sb.X - 4, Y: sb.Y - 16, W: sb.Length + 40, H: sb.Height + 20})
	return sb
}

// paintScaleBarLegend letters the bar: zero, the end distance and the
// metric equivalent.
func paintScaleBarLegend(o *overlayPainter, sb scaleBar) {
	s := o.s
	s.SetColor(inkColor)
	s.SetFont(gridFontSize, false)
	s.DrawString("0", sb.X, sb.Y-4, 0.5, 0)
	end := fmt.Sprintf("%g NM", sb.NM)
	s.DrawString(end, sb.X+sb.Length, sb.Y-4, 0.5, 0)
	km := sb.NM * geodesy.MetersPerNM / 1000
	s.DrawString(fmt.Sprintf("%.1f km", km), sb.X+sb.Length+6, sb.Y+sb.Height, 0, 0)
}
