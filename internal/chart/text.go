package chart

import (
	"image/color"

	"localchart/internal/labels"
	"localchart/internal/raster"
)

const lineSpacing = 1.15

// measureLines returns the block size of lines in the current font.
func measureLines(s raster.Surface, lines []string) (w, h float64) {
	var lh float64
	for _, l := range lines {
		lw, lhh := s.MeasureString(l)
		w = max(w, lw)
		lh = max(lh, lhh)
	}
	if len(lines) == 0 {
		return 0, 0
	}
	return w, lh * (1 + lineSpacing*float64(len(lines)-1))
}

// drawText draws one line of text filling box, over a light halo.
func drawText(s raster.Surface, text string, box labels.Box, c color.Color) {
	drawLines(s, []string{text}, box, c)
}

// drawLines draws lines left-aligned in box over a light halo.
func drawLines(s raster.Surface, lines []string, box labels.Box, c color.Color) {
	if len(lines) == 0 {
		return
	}
	s.SetDash()
	s.DrawRectangle(box.X-1, box.Y-1, box.W+2, box.H+2)
	s.SetColor(haloColor)
	s.Fill()

	_, lh := s.MeasureString(lines[0])
	s.SetColor(c)
	for i, l := range lines {
		s.DrawString(l, box.X, box.Y+float64(i)*lh*lineSpacing, 0, 1)
	}
}
